package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/sim"
)

// SkyboxSize is the edge length of the backdrop cube.
const SkyboxSize = 5000

func vec3(v dynamo.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}

// toCamera3D converts the frame camera to a raylib camera.
func toCamera3D(c sim.CameraView) rl.Camera3D {
	pos := vec3(c.Position)
	target := vec3(c.Position.Add(c.Forward))
	up := rl.NewVector3(0, 1, 0)
	if f := c.Forward; f.X*f.X+f.Z*f.Z < 1e-12 {
		up = rl.NewVector3(0, 0, -1)
	}
	return rl.NewCamera3D(pos, target, up, float32(c.Projection.FOV), rl.CameraPerspective)
}

func particleColor(c dynamo.Color) rl.Color {
	r, g, b, a := c.RGBA8()
	return rl.NewColor(r, g, b, a)
}

func (a *App) drawScene(f *sim.Frame) {
	rl.BeginMode3D(toCamera3D(f.Camera))

	rl.DrawCubeWires(vec3(f.BackdropAnchor()), SkyboxSize, SkyboxSize, SkyboxSize, ColSkybox)

	size := float32(f.PointSize) * 0.05
	for i := range f.Particles {
		p := &f.Particles[i]
		col := particleColor(p.Color)
		if f.LowFidelity {
			rl.DrawPoint3D(vec3(p.Position), col)
		} else {
			rl.DrawCube(vec3(p.Position), size, size, size, col)
		}
	}

	for _, g := range f.Attractors {
		rl.DrawSphere(vec3(g), 0.3, ColPoint)
	}

	rl.EndMode3D()
}
