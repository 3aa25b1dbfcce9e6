package dynamo

import "time"

// TimeSource returns the current time in seconds.
type TimeSource func() float64

var processStart = time.Now()

// WallTime reads the monotonic wall clock.
func WallTime() float64 {
	return time.Since(processStart).Seconds()
}

// Clock produces scaled elapsed and delta times. Elapsed accumulates scaled
// deltas, so changing the multiplier only affects later intervals.
type Clock struct {
	now        TimeSource
	start      float64
	previous   float64
	delta      float64
	elapsed    float64
	multiplier float64
	anomalies  int64
}

// NewClock starts a clock at the source's current time with multiplier 1.
func NewClock(now TimeSource) *Clock {
	if now == nil {
		now = WallTime
	}
	t := now()
	return &Clock{now: now, start: t, previous: t, multiplier: 1}
}

// Advance reads the time source once and updates delta and elapsed. A source
// that moved backward yields a zero delta and returns ErrClockAnomaly.
func (c *Clock) Advance() error {
	t := c.now()
	raw := t - c.previous
	c.previous = t
	if raw < 0 {
		c.delta = 0
		c.anomalies++
		return ErrClockAnomaly
	}
	c.delta = raw * c.multiplier
	c.elapsed += c.delta
	return nil
}

func (c *Clock) Delta() float64      { return c.delta }
func (c *Clock) Elapsed() float64    { return c.elapsed }
func (c *Clock) Multiplier() float64 { return c.multiplier }
func (c *Clock) Anomalies() int64    { return c.anomalies }

// SetMultiplier changes the scale applied to future intervals.
func (c *Clock) SetMultiplier(m float64) {
	c.multiplier = m
}

// ManualTime is a settable TimeSource for hosts that drive time themselves.
type ManualTime struct {
	T float64
}

func (m *ManualTime) Now() float64            { return m.T }
func (m *ManualTime) Advance(seconds float64) { m.T += seconds }
