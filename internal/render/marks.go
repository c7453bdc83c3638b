package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/kozaktomas/photo-grid/internal/sheet"
)

// markWidthMM is the crop mark line width, about a hairline on paper.
const markWidthMM = 0.1

// drawCropMarks draws short guide lines continuing each cell edge outward
// from its corners. Marks stay in the margin and in the spacing between cells
// (half the spacing each side) so they never touch a neighboring picture.
func drawCropMarks(c canvas, s *sheet.Sheet, lengthMM float64) {
	g := s.Grid
	paperW := s.Layout.Paper.WidthMM()
	paperH := s.Layout.Paper.HeightMM()
	spacing := s.Layout.SpacingMM

	thick := max(1, c.mm(markWidthMM))
	ink := image.NewUniform(color.Black)

	for i, cell := range g.Cells {
		r := g.CellRect(i)

		left := spacing / 2
		if cell.Column == 0 {
			left = r.X
		}
		right := spacing / 2
		if cell.Column == g.Columns-1 {
			right = paperW - (r.X + r.W)
		}
		top := spacing / 2
		if cell.Row == 0 {
			top = r.Y
		}
		bottom := spacing / 2
		if cell.Row == g.Rows-1 {
			bottom = paperH - (r.Y + r.H)
		}
		left = math.Min(left, lengthMM)
		right = math.Min(right, lengthMM)
		top = math.Min(top, lengthMM)
		bottom = math.Min(bottom, lengthMM)

		x0, x1 := c.mm(r.X), c.mm(r.X+r.W)
		y0, y1 := c.mm(r.Y), c.mm(r.Y+r.H)

		for _, y := range []int{y0, y1} {
			// horizontal marks on the top and bottom edge lines
			hline(c.img, x0-c.mm(left), x0, y, thick, ink)
			hline(c.img, x1, x1+c.mm(right), y, thick, ink)
		}
		for _, x := range []int{x0, x1} {
			vline(c.img, x, y0-c.mm(top), y0, thick, ink)
			vline(c.img, x, y1, y1+c.mm(bottom), thick, ink)
		}
	}
}

// hline fills [xa, xb) centered on row y.
func hline(dst draw.Image, xa, xb, y, thick int, src image.Image) {
	if xb <= xa {
		return
	}
	top := y - thick/2
	draw.Draw(dst, image.Rect(xa, top, xb, top+thick), src, image.Point{}, draw.Src)
}

// vline fills [ya, yb) centered on column x.
func vline(dst draw.Image, x, ya, yb, thick int, src image.Image) {
	if yb <= ya {
		return
	}
	left := x - thick/2
	draw.Draw(dst, image.Rect(left, ya, left+thick, yb), src, image.Point{}, draw.Src)
}
