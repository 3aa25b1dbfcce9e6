package sim_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/attractor/internal/camera"
	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/physics"
	"github.com/san-kum/attractor/internal/sim"
)

func staticPoint() *physics.GravitationPoint {
	return physics.NewGravitationPoint(sim.ReferenceAttractorMass, dynamo.Vec3{})
}

var _ = Describe("Simulation", func() {
	var clk *dynamo.ManualTime

	BeforeEach(func() {
		clk = &dynamo.ManualTime{}
	})

	Describe("New", func() {
		It("rejects an invalid quality with a config error", func() {
			s, err := sim.New(physics.Quality(7), sim.WithTimeSource(clk.Now))
			Expect(s).To(BeNil())
			Expect(errors.Is(err, dynamo.ErrInvalidQuality)).To(BeTrue())
			Expect(sim.IsConfigError(err)).To(BeTrue())
		})

		It("rejects an invalid multiplier", func() {
			for _, m := range []float64{-1, math.NaN(), math.Inf(1)} {
				_, err := sim.New(physics.QualityLow, sim.WithMultiplier(m))
				Expect(errors.Is(err, dynamo.ErrInvalidMultiplier)).To(BeTrue())
			}
		})

		It("generates the field and activates the rig", func() {
			s, err := sim.New(physics.QualityLow, sim.WithTimeSource(clk.Now))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Field().Len()).To(Equal(4096))
			Expect(s.CameraState()).To(Equal(camera.FieldActive))
			Expect(s.ViewMode()).To(Equal(camera.ViewInside))
			Expect(s.TimeMultiplier()).To(Equal(sim.DefaultMultiplier))
		})

		It("uses one wandering reference attractor by default", func() {
			s, err := sim.New(physics.QualityLow, sim.WithTimeSource(clk.Now))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Points()).To(HaveLen(1))
			Expect(s.Points()[0].Mass).To(Equal(sim.ReferenceAttractorMass))
		})
	})

	Describe("AdvanceFrame", func() {
		var s *sim.Simulation

		BeforeEach(func() {
			var err error
			s, err = sim.New(physics.QualityLow, sim.WithTimeSource(clk.Now), sim.WithSeed(3))
			Expect(err).NotTo(HaveOccurred())
		})

		It("returns every particle with its colour", func() {
			clk.Advance(1.0 / 60)
			f := s.AdvanceFrame()
			Expect(f.Index).To(Equal(uint64(1)))
			Expect(f.Particles).To(HaveLen(s.Field().Len()))
			Expect(f.Particles[0].Color).To(Equal(s.Field().First().Color))
			Expect(f.PointSize).To(Equal(0.25))
			Expect(f.LowFidelity).To(BeTrue())
		})

		It("uses the fixed step regardless of frame duration", func() {
			clk.Advance(0.5)
			f := s.AdvanceFrame()
			Expect(f.Step).To(BeNumerically("~", physics.FixedStep(sim.DefaultMultiplier), 1e-15))
			Expect(f.Delta).To(BeNumerically("~", 0.5*sim.DefaultMultiplier, 1e-15))
		})

		It("puts the inside camera on the first particle", func() {
			clk.Advance(1.0 / 60)
			f := s.AdvanceFrame()
			Expect(f.ViewMode).To(Equal(camera.ViewInside))
			Expect(f.Camera.Position).To(Equal(s.Field().First().Position))
			Expect(f.BackdropAnchor()).To(Equal(f.Camera.Position))
			Expect(f.Camera.Projection.FOV).To(Equal(camera.InsideFOV))
		})

		It("renders the outside camera after a toggle", func() {
			Expect(s.ToggleViewMode()).To(Equal(camera.ViewOutside))
			f := s.AdvanceFrame()
			Expect(f.Camera.Projection.FOV).To(Equal(camera.OutsideFOV))
			Expect(f.Camera.Position.Length()).To(BeNumerically("~", 50, 1e-6))
		})

		It("reuses the particle buffer between frames", func() {
			a := s.AdvanceFrame()
			kept := a.Clone()
			clk.Advance(1)
			b := s.AdvanceFrame()
			Expect(b).To(BeIdenticalTo(a))
			Expect(kept.Index).To(Equal(uint64(1)))
			Expect(kept.Particles[0].Position).NotTo(Equal(b.Particles[0].Position))
		})

		It("holds particles still while paused", func() {
			before := s.Field().First().Position
			s.SetPaused(true)
			clk.Advance(1)
			s.AdvanceFrame()
			Expect(s.Field().First().Position).To(Equal(before))
			Expect(s.Elapsed()).To(BeNumerically(">", 0))
		})

		It("counts a backward clock without moving time back", func() {
			clk.Advance(2)
			s.AdvanceFrame()
			elapsed := s.Elapsed()
			clk.Advance(-1)
			f := s.AdvanceFrame()
			Expect(f.Delta).To(BeZero())
			Expect(s.Elapsed()).To(Equal(elapsed))
			Expect(s.Diagnostics().ClockAnomalies).To(Equal(int64(1)))
		})

		It("notifies observers with the current frame", func() {
			var seen []uint64
			s.AddObserver(sim.ObserverFunc(func(f *sim.Frame) { seen = append(seen, f.Index) }))
			s.AdvanceFrame()
			s.AdvanceFrame()
			Expect(seen).To(Equal([]uint64{1, 2}))
		})
	})

	It("produces the same trajectory at any frame cadence", func() {
		run := func(durations []float64) []sim.ParticleView {
			mt := &dynamo.ManualTime{}
			s, err := sim.New(physics.QualityLow, sim.WithTimeSource(mt.Now), sim.WithSeed(11),
				sim.WithPoints(staticPoint()))
			Expect(err).NotTo(HaveOccurred())
			var f *sim.Frame
			for i := 0; i < 120; i++ {
				mt.Advance(durations[i%len(durations)])
				f = s.AdvanceFrame()
			}
			return f.Clone().Particles
		}

		steady := run([]float64{1.0 / 60})
		jittery := run([]float64{0.001, 0.2, 1.0 / 30, 0.05})
		Expect(jittery).To(Equal(steady))
	})

	Describe("before a field exists", func() {
		var s *sim.Simulation

		BeforeEach(func() {
			var err error
			s, err = sim.NewIdle(sim.WithTimeSource(clk.Now), sim.WithMultiplier(1))
			Expect(err).NotTo(HaveOccurred())
		})

		It("idles the camera and renders no particles", func() {
			f := s.AdvanceFrame()
			Expect(f.State).To(Equal(camera.NoField))
			Expect(f.Particles).To(BeEmpty())
			Expect(f.Camera.Forward.Z).To(BeNumerically("~", 1, 1e-9))
		})

		It("ignores the view mode until the field starts", func() {
			s.SetViewMode(camera.ViewInside)
			f := s.AdvanceFrame()
			Expect(f.Camera.Projection.FOV).To(Equal(camera.OutsideFOV))

			Expect(s.Start(physics.QualityLow)).To(Succeed())
			f = s.AdvanceFrame()
			Expect(f.State).To(Equal(camera.FieldActive))
			Expect(f.Camera.Projection.FOV).To(Equal(camera.InsideFOV))
		})

		It("stays FieldActive across restarts", func() {
			Expect(s.Start(physics.QualityLow)).To(Succeed())
			Expect(s.Restart(physics.QualityMedium)).To(Succeed())
			Expect(s.CameraState()).To(Equal(camera.FieldActive))
			Expect(s.Field().Quality).To(Equal(physics.QualityMedium))
		})

		It("keeps the old field when a restart is rejected", func() {
			Expect(s.Start(physics.QualityLow)).To(Succeed())
			err := s.Restart(physics.Quality(-1))
			Expect(errors.Is(err, dynamo.ErrInvalidQuality)).To(BeTrue())
			Expect(s.Field().Len()).To(Equal(4096))
		})
	})

	Describe("SetTimeMultiplier", func() {
		It("applies to later intervals only", func() {
			s, err := sim.New(physics.QualityLow, sim.WithTimeSource(clk.Now), sim.WithMultiplier(1))
			Expect(err).NotTo(HaveOccurred())
			clk.Advance(2)
			s.AdvanceFrame()
			Expect(s.SetTimeMultiplier(0.5)).To(Succeed())
			clk.Advance(2)
			s.AdvanceFrame()
			Expect(s.Elapsed()).To(BeNumerically("~", 3, 1e-12))
		})

		It("rejects bad values and keeps the old one", func() {
			s, err := sim.New(physics.QualityLow, sim.WithTimeSource(clk.Now))
			Expect(err).NotTo(HaveOccurred())
			Expect(sim.IsConfigError(s.SetTimeMultiplier(math.NaN()))).To(BeTrue())
			Expect(s.TimeMultiplier()).To(Equal(sim.DefaultMultiplier))
		})
	})

	It("keeps particles finite when one sits on an attractor", func() {
		mt := &dynamo.ManualTime{}
		s, err := sim.New(physics.QualityLow, sim.WithTimeSource(mt.Now), sim.WithPoints(staticPoint()))
		Expect(err).NotTo(HaveOccurred())
		s.Field().Particles[0].Position = dynamo.Vec3{}
		s.Field().Particles[0].Velocity = dynamo.Vec3{}
		f := s.AdvanceFrame()
		Expect(f.Particles[0].Position.IsFinite()).To(BeTrue())
		Expect(s.Diagnostics().DegenerateContacts).To(BeNumerically(">=", 1))
	})

	It("changes attractor parameters by index", func() {
		s, err := sim.New(physics.QualityLow, sim.WithPoints(staticPoint()))
		Expect(err).NotTo(HaveOccurred())
		Expect(s.SetAttractorParam(0, "mass", 12)).To(Succeed())
		Expect(s.Points()[0].Mass).To(Equal(12.0))
		Expect(s.SetAttractorParam(0, "mass", math.Inf(1))).NotTo(Succeed())
		Expect(s.SetAttractorParam(1, "mass", 12)).NotTo(Succeed())
	})
})
