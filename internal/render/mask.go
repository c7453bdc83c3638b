package render

import (
	"image"
	"image/color"
)

// circle is an alpha mask covering the disc inscribed in a rectangle.
type circle struct {
	bounds image.Rectangle
	cx, cy float64
	r2     float64
}

func newCircle(r image.Rectangle) *circle {
	d := float64(min(r.Dx(), r.Dy()))
	return &circle{
		bounds: r,
		cx:     float64(r.Min.X) + float64(r.Dx())/2,
		cy:     float64(r.Min.Y) + float64(r.Dy())/2,
		r2:     d * d / 4,
	}
}

func (c *circle) ColorModel() color.Model { return color.AlphaModel }

func (c *circle) Bounds() image.Rectangle { return c.bounds }

func (c *circle) At(x, y int) color.Color {
	dx := float64(x) + 0.5 - c.cx
	dy := float64(y) + 0.5 - c.cy
	if dx*dx+dy*dy <= c.r2 {
		return color.Alpha{A: 255}
	}
	return color.Alpha{}
}
