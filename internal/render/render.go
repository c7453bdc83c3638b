// Package render rasterizes a sheet for printing.
package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"

	"github.com/kozaktomas/photo-grid/internal/fit"
	"github.com/kozaktomas/photo-grid/internal/layout"
	"github.com/kozaktomas/photo-grid/internal/sheet"
)

// MaxDPI bounds the canvas resolution. An A3 sheet at 1200 DPI is already
// about 14000 x 19800 pixels.
const MaxDPI = 1200

// Options controls rendering.
type Options struct {
	DPI              float64     // canvas resolution, defaults to layout.PrintDPI
	Background       color.Color // defaults to white
	CropMarkLengthMM float64     // defaults to 3 mm
	// Progress, if set, is called after each placeholder is drawn.
	Progress func(done, total int)
}

func (o Options) withDefaults() Options {
	if o.DPI <= 0 {
		o.DPI = layout.PrintDPI
	}
	if o.Background == nil {
		o.Background = color.White
	}
	if o.CropMarkLengthMM <= 0 {
		o.CropMarkLengthMM = 3
	}
	return o
}

// canvas maps sheet millimeters and 96 DPI placeholder pixels to output pixels.
type canvas struct {
	img   *image.NRGBA
	dpi   float64
	pxDPI float64 // output pixels per placeholder pixel
}

func (c canvas) mm(v float64) int {
	return int(math.Round(layout.MMToPixelsAt(v, c.dpi)))
}

func (c canvas) cellRect(s *sheet.Sheet, i int) image.Rectangle {
	r := s.Grid.CellRect(i)
	return image.Rect(c.mm(r.X), c.mm(r.Y), c.mm(r.X+r.W), c.mm(r.Y+r.H))
}

// Render draws every loaded placeholder of s onto a paper-sized canvas and
// returns it together with a print quality report.
func Render(ctx context.Context, s *sheet.Sheet, opts Options) (*image.NRGBA, *Report, error) {
	opts = opts.withDefaults()
	if opts.DPI > MaxDPI {
		return nil, nil, fmt.Errorf("DPI %.0f exceeds maximum %d", opts.DPI, MaxDPI)
	}
	if s.Grid.Count() == 0 {
		return nil, nil, errors.New("sheet has no placeholders")
	}

	c := canvas{
		dpi:   opts.DPI,
		pxDPI: opts.DPI / fit.ScreenDPI,
	}
	w := c.mm(s.Layout.Paper.WidthMM())
	h := c.mm(s.Layout.Paper.HeightMM())
	c.img = imaging.New(w, h, opts.Background)

	report := newReport(s, opts.DPI)

	total := len(s.Placeholders)
	for i, p := range s.Placeholders {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if p.Loaded() {
			if err := drawPlaceholder(c, s, i, p); err != nil {
				return nil, nil, fmt.Errorf("placeholder %d: %w", i, err)
			}
			report.addPhoto(i, p)
		}
		if opts.Progress != nil {
			opts.Progress(i+1, total)
		}
	}

	if s.ShowCropMarks {
		drawCropMarks(c, s, opts.CropMarkLengthMM)
	}

	report.finish(s)
	return c.img, report, nil
}

func drawPlaceholder(c canvas, s *sheet.Sheet, i int, p sheet.Placeholder) error {
	src, err := p.Source.Decode()
	if err != nil {
		return err
	}

	cell := c.cellRect(s, i)
	st := p.State

	// The fit state is relative to the recorded image size; scale it onto
	// the decoded pixels in case they differ.
	sb := src.Bounds()
	kx := st.ImageWidth / float64(sb.Dx())
	ky := st.ImageHeight / float64(sb.Dy())

	x0 := float64(cell.Min.X) + st.OffsetX*c.pxDPI
	y0 := float64(cell.Min.Y) + st.OffsetY*c.pxDPI
	dr := image.Rect(
		int(math.Round(x0)),
		int(math.Round(y0)),
		int(math.Round(x0+float64(sb.Dx())*kx*st.Scale*c.pxDPI)),
		int(math.Round(y0+float64(sb.Dy())*ky*st.Scale*c.pxDPI)),
	)

	dst, ok := c.img.SubImage(cell).(*image.NRGBA)
	if !ok {
		return errors.New("unexpected canvas type")
	}

	var opts *xdraw.Options
	if s.Layout.Shape == layout.ShapeRound {
		// The mask shares the canvas coordinate space, so DstMaskP stays zero.
		opts = &xdraw.Options{DstMask: newCircle(cell)}
	}
	xdraw.CatmullRom.Scale(dst, dr, src, sb, xdraw.Over, opts)
	return nil
}
