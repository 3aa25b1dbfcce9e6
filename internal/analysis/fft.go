// Package analysis finds periodic structure in recorded metric series.
package analysis

import (
	"math"
	"math/cmplx"
	"sort"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// Peak is one local maximum of a power spectrum.
type Peak struct {
	Bin       int
	Frequency float64
	Period    float64
	Power     float64
}

// PowerSpectrum returns the magnitude of bins 0..n/2 of the Hann-windowed,
// mean-removed series.
func PowerSpectrum(data []float64) []float64 {
	n := len(data)
	if n == 0 {
		return nil
	}

	var mean float64
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)

	x := make([]float64, n)
	for i, v := range data {
		x[i] = v - mean
	}
	window.Apply(x, window.Hann)

	bins := fft.FFTReal(x)
	ps := make([]float64, n/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(bins[i])
	}
	return ps
}

// DominantPeriods returns up to k spectral peaks of data sampled every dt
// seconds, strongest first. Series shorter than four samples or without
// variation have no peaks.
func DominantPeriods(data []float64, dt float64, k int) []Peak {
	n := len(data)
	if n < 4 || k <= 0 || !(dt > 0) {
		return nil
	}

	ps := PowerSpectrum(data)
	var top float64
	for _, p := range ps[1:] {
		top = math.Max(top, p)
	}
	if top < 1e-9 {
		return nil
	}

	var peaks []Peak
	for i := 1; i < len(ps); i++ {
		left := ps[i-1]
		right := 0.0
		if i+1 < len(ps) {
			right = ps[i+1]
		}
		if ps[i] <= left || ps[i] < right || ps[i] < 1e-6*top {
			continue
		}
		freq := float64(i) / (float64(n) * dt)
		peaks = append(peaks, Peak{
			Bin:       i,
			Frequency: freq,
			Period:    1 / freq,
			Power:     ps[i],
		})
	}

	sort.Slice(peaks, func(a, b int) bool { return peaks[a].Power > peaks[b].Power })
	if len(peaks) > k {
		peaks = peaks[:k]
	}
	return peaks
}

// SampleInterval estimates the spacing of an evenly sampled time column.
func SampleInterval(times []float64) float64 {
	if len(times) < 2 {
		return 0
	}
	return (times[len(times)-1] - times[0]) / float64(len(times)-1)
}
