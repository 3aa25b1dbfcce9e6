package export

import (
	"image"

	"github.com/fogleman/gg"

	"github.com/san-kum/attractor/internal/sim"
)

// FrameToImage rasterises a frame's particles as coloured dots.
func FrameToImage(f *sim.Frame, width, height int) image.Image {
	dc := gg.NewContext(width, height)
	dc.SetRGB(0.015, 0.015, 0.03)
	dc.Clear()

	r := dotRadius(f, height)
	for _, d := range ProjectFrame(f, width, height) {
		cr, cg, cb := d.Color.RGB()
		dc.SetRGBA(cr, cg, cb, 0.85)
		dc.DrawCircle(d.X, d.Y, r)
		dc.Fill()
	}
	return dc.Image()
}

// SavePNG writes a frame snapshot to path.
func SavePNG(path string, f *sim.Frame, width, height int) error {
	return gg.SavePNG(path, FrameToImage(f, width, height))
}
