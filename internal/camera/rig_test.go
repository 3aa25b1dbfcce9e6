package camera_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/attractor/internal/camera"
	"github.com/san-kum/attractor/internal/dynamo"
)

func vecClose(a, b dynamo.Vec3) bool { return a.Sub(b).Length() < 1e-9 }

var _ = Describe("IdleRotation", func() {
	It("starts facing backward at elapsed zero", func() {
		yaw, pitch := camera.IdleRotation(0)
		Expect(yaw).To(BeNumerically("~", -math.Pi, 1e-12))
		Expect(pitch).To(BeNumerically("~", 0, 1e-12))
	})

	It("completes one rotation after 2pi/0.25 seconds", func() {
		period := 2 * math.Pi / 0.25
		y0, p0 := camera.IdleRotation(1.3)
		y1, p1 := camera.IdleRotation(1.3 + period)
		Expect(y0 - y1).To(BeNumerically("~", 2*math.Pi, 1e-9))
		Expect(p1).To(BeNumerically("~", p0, 1e-9))
	})

	It("keeps pitch within pi/16", func() {
		for t := 0.0; t < 30; t += 0.37 {
			_, pitch := camera.IdleRotation(t)
			Expect(math.Abs(pitch)).To(BeNumerically("<=", math.Pi/16+1e-12))
		}
	})
})

var _ = Describe("Rig", func() {
	var rig *camera.Rig
	framing := &camera.Framing{
		FirstPosition: dynamo.Vec3{X: 20, Y: 1, Z: 10},
		FirstVelocity: dynamo.Vec3{X: -10, Y: 8},
		LastPosition:  dynamo.Vec3{X: 15, Y: -1, Z: 9},
		Leading:       dynamo.Vec3{X: 8},
	}

	BeforeEach(func() {
		rig = camera.NewRig(60)
	})

	Describe("before a field exists", func() {
		It("is in NoField with the inside view selected", func() {
			Expect(rig.State()).To(Equal(camera.NoField))
			Expect(rig.ViewMode()).To(Equal(camera.ViewInside))
		})

		It("renders the outside camera even with the inside view selected", func() {
			Expect(rig.Active()).To(BeIdenticalTo(&rig.Outside))
		})

		It("auto-rotates the active camera", func() {
			rig.Update(4, nil)
			yaw, pitch := camera.IdleRotation(4)
			Expect(rig.Active().Yaw).To(Equal(yaw))
			Expect(rig.Active().Pitch).To(Equal(pitch))
			Expect(rig.Active().UseTarget).To(BeFalse())
		})

		It("holds the outside camera at its default position", func() {
			rig.Update(1, nil)
			Expect(vecClose(rig.Active().Position, camera.DefaultOutsidePosition)).To(BeTrue())
		})

		It("lets the view be toggled with no visible effect", func() {
			Expect(rig.ToggleViewMode()).To(Equal(camera.ViewOutside))
			Expect(rig.Active()).To(BeIdenticalTo(&rig.Outside))
			Expect(rig.ToggleViewMode()).To(Equal(camera.ViewInside))
			Expect(rig.Active()).To(BeIdenticalTo(&rig.Outside))
		})
	})

	Describe("after activation", func() {
		BeforeEach(func() {
			Expect(rig.ActivateField()).To(BeTrue())
		})

		It("never reverts or re-transitions", func() {
			Expect(rig.ActivateField()).To(BeFalse())
			rig.Update(1, nil)
			Expect(rig.State()).To(Equal(camera.FieldActive))
		})

		It("places the inside camera on the first particle", func() {
			rig.Update(2, framing)
			Expect(rig.Active()).To(BeIdenticalTo(&rig.Inside))
			Expect(rig.Inside.Position).To(Equal(framing.FirstPosition))
		})

		It("looks at the composite heading", func() {
			rig.Update(2, framing)
			want := framing.FirstPosition.Add(framing.Leading).Add(framing.FirstVelocity).Add(framing.LastPosition)
			Expect(rig.Inside.UseTarget).To(BeTrue())
			Expect(vecClose(rig.Inside.Target, want)).To(BeTrue())
			Expect(vecClose(rig.Inside.Forward(), want.Sub(framing.FirstPosition).Normalize())).To(BeTrue())
		})

		It("switches to the orbiting camera in outside view", func() {
			rig.SetViewMode(camera.ViewOutside)
			rig.Update(2, framing)
			Expect(rig.Active()).To(BeIdenticalTo(&rig.Outside))
			Expect(vecClose(rig.Outside.Forward(), dynamo.Vec3{Z: -1})).To(BeTrue())
		})
	})

	It("applies the aspect ratio to both cameras and ignores bad values", func() {
		rig.SetAspect(16.0 / 9)
		Expect(rig.Inside.Aspect).To(Equal(16.0 / 9))
		Expect(rig.Outside.Aspect).To(Equal(16.0 / 9))
		rig.SetAspect(0)
		rig.SetAspect(math.NaN())
		Expect(rig.Inside.Aspect).To(Equal(16.0 / 9))
	})

	It("uses a fixed field of view for each camera", func() {
		Expect(rig.Inside.FOV).To(Equal(camera.InsideFOV))
		Expect(rig.Outside.FOV).To(Equal(camera.OutsideFOV))
		Expect(rig.Inside.Near).To(Equal(0.1))
		Expect(rig.Inside.Far).To(Equal(10000.0))
	})
})

var _ = Describe("Camera", func() {
	It("faces -Z with zero rotation", func() {
		c := camera.New(35)
		c.SetRotation(0, 0)
		Expect(vecClose(c.Forward(), dynamo.Vec3{Z: -1})).To(BeTrue())
	})

	It("faces +Z at yaw -pi", func() {
		c := camera.New(35)
		c.SetRotation(-math.Pi, 0)
		Expect(vecClose(c.Forward(), dynamo.Vec3{Z: 1})).To(BeTrue())
	})

	It("projects a point in front of it to the screen centre", func() {
		c := camera.New(45)
		c.Position = dynamo.Vec3{Z: 50}
		c.LookAt(dynamo.Vec3{})
		x, y, _, ok := camera.Project(c.ViewProjection(), dynamo.Vec3{})
		Expect(ok).To(BeTrue())
		Expect(x).To(BeNumerically("~", 0, 1e-9))
		Expect(y).To(BeNumerically("~", 0, 1e-9))
	})

	It("rejects points behind it", func() {
		c := camera.New(45)
		c.Position = dynamo.Vec3{Z: 50}
		c.LookAt(dynamo.Vec3{})
		_, _, _, ok := camera.Project(c.ViewProjection(), dynamo.Vec3{Z: 100})
		Expect(ok).To(BeFalse())
	})

	It("stays finite when looking straight up", func() {
		c := camera.New(30)
		c.LookAt(dynamo.Vec3{Y: 10})
		for _, v := range c.View() {
			Expect(math.IsNaN(v)).To(BeFalse())
		}
	})

	It("falls back to -Z when the target is the position", func() {
		c := camera.New(30)
		c.Position = dynamo.Vec3{X: 1}
		c.LookAt(dynamo.Vec3{X: 1})
		Expect(c.Forward()).To(Equal(dynamo.Vec3{Z: -1}))
	})

	It("reports an orientation that rotates -Z onto the view direction", func() {
		c := camera.New(30)
		c.Position = dynamo.Vec3{X: 3, Y: 2, Z: 1}
		c.LookAt(dynamo.Vec3{X: -4, Y: 0, Z: 7})
		q := c.Orientation()
		r := q.Rotate([3]float64{0, 0, -1})
		f := c.Forward()
		Expect(vecClose(dynamo.Vec3{X: r[0], Y: r[1], Z: r[2]}, f)).To(BeTrue())
	})
})

var _ = Describe("Orbit", func() {
	It("starts at the given position", func() {
		o := camera.NewOrbit(dynamo.Vec3{Z: 50}, dynamo.Vec3{}, 60)
		Expect(vecClose(o.Position(), dynamo.Vec3{Z: 50})).To(BeTrue())
	})

	It("springs toward the goal and converges", func() {
		o := camera.NewOrbit(dynamo.Vec3{Z: 50}, dynamo.Vec3{}, 60)
		o.Rotate(math.Pi/2, 0)
		o.Update()
		Expect(o.Position().X).To(BeNumerically(">", 0))
		Expect(o.Position().X).To(BeNumerically("<", 50))
		for i := 0; i < 600; i++ {
			o.Update()
		}
		Expect(o.Position().X).To(BeNumerically("~", 50, 1e-3))
	})

	It("clamps the polar angle and distance", func() {
		o := camera.NewOrbit(dynamo.Vec3{Z: 50}, dynamo.Vec3{}, 60)
		o.Rotate(0, -10)
		o.Zoom(1e9)
		o.Snap()
		Expect(o.Distance()).To(Equal(5000.0))
		Expect(o.Position().Y).To(BeNumerically(">", 4999))
		o.Zoom(1e-9)
		o.Snap()
		Expect(o.Distance()).To(Equal(1.0))
	})
})
