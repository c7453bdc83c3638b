// Package layout computes print sheet grids: how many pictures of a given size
// fit on a paper format once margins and spacing are honored, and where each
// one goes.
package layout

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Shape is the outline of a placeholder.
type Shape string

// Placeholder shapes.
const (
	ShapeRectangular Shape = "rectangular"
	ShapeRound       Shape = "round"
)

// ParseShape parses a shape name. An empty string means rectangular.
func ParseShape(s string) (Shape, error) {
	switch Shape(strings.ToLower(strings.TrimSpace(s))) {
	case ShapeRectangular, "":
		return ShapeRectangular, nil
	case ShapeRound:
		return ShapeRound, nil
	default:
		return "", fmt.Errorf("unknown placeholder shape %q (expected rectangular or round)", s)
	}
}

// MaxCells bounds the number of placeholders Validate accepts on one sheet.
// A3 covered with 5 mm pictures is just below it.
const MaxCells = 5000

// ErrTooManyCells is returned by Validate for pictures so small that the
// sheet would hold more than MaxCells of them.
var ErrTooManyCells = errors.New("too many placeholders")

// LayoutConfig describes a print sheet. All lengths are millimeters; only the
// paper size is in centimeters.
type LayoutConfig struct {
	Paper           PaperSize `json:"paper"`
	PictureWidthMM  float64   `json:"picture_width_mm"`
	PictureHeightMM float64   `json:"picture_height_mm"` // ignored for round placeholders
	MarginMM        float64   `json:"margin_mm"`
	SpacingMM       float64   `json:"spacing_mm"`
	Shape           Shape     `json:"shape"`
}

// PictureHeight returns the effective picture height: the diameter for round
// placeholders, PictureHeightMM otherwise.
func (c LayoutConfig) PictureHeight() float64 {
	if c.Shape == ShapeRound {
		return c.PictureWidthMM
	}
	return c.PictureHeightMM
}

// Validate rejects configurations that cannot describe a sheet at all, and
// sheets with more than MaxCells placeholders. Whether pictures fit on the
// paper is ComputeGrid's job.
func (c LayoutConfig) Validate() error {
	for _, v := range []float64{c.Paper.WidthCM, c.Paper.HeightCM, c.PictureWidthMM, c.PictureHeightMM, c.MarginMM, c.SpacingMM} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("sizes must be finite numbers")
		}
	}
	if c.Paper.WidthCM <= 0 || c.Paper.HeightCM <= 0 {
		return errors.New("paper size must be positive")
	}
	if c.PictureWidthMM <= 0 {
		return errors.New("picture width must be positive")
	}
	if c.Shape != ShapeRound && c.PictureHeightMM <= 0 {
		return errors.New("picture height must be positive")
	}
	if c.MarginMM < 0 {
		return errors.New("margin must not be negative")
	}
	if c.SpacingMM < 0 {
		return errors.New("spacing must not be negative")
	}
	if c.Shape != ShapeRectangular && c.Shape != ShapeRound {
		return fmt.Errorf("unknown placeholder shape %q", c.Shape)
	}
	if n := c.capacity(); n > MaxCells {
		return fmt.Errorf("%w: %.0f pictures of %g x %g mm would fit, the limit is %d",
			ErrTooManyCells, n, c.PictureWidthMM, c.PictureHeight(), MaxCells)
	}
	return nil
}

// capacity counts the cells ComputeGrid would produce without allocating
// them. It is zero when nothing fits.
func (c LayoutConfig) capacity() float64 {
	columns := math.Floor((c.Paper.WidthMM() - 2*c.MarginMM + c.SpacingMM) / (c.PictureWidthMM + c.SpacingMM))
	rows := math.Floor((c.Paper.HeightMM() - 2*c.MarginMM + c.SpacingMM) / (c.PictureHeight() + c.SpacingMM))
	if columns <= 0 || rows <= 0 {
		return 0
	}
	return columns * rows
}

// CellPosition is the top-left corner of one placeholder, in millimeters from
// the paper's top-left corner.
type CellPosition struct {
	Row    int     `json:"row"`
	Column int     `json:"column"`
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
}

// Rect is an axis-aligned rectangle in millimeters.
type Rect struct {
	X, Y, W, H float64
}

// Grid is a computed sheet layout. Cells are in row-major order.
type Grid struct {
	Rows          int            `json:"rows"`
	Columns       int            `json:"columns"`
	OffsetX       float64        `json:"offset_x"`
	OffsetY       float64        `json:"offset_y"`
	PictureWidth  float64        `json:"picture_width"`
	PictureHeight float64        `json:"picture_height"`
	Cells         []CellPosition `json:"cells"`
}

// Count returns the number of placeholders.
func (g Grid) Count() int {
	return len(g.Cells)
}

// CellRect returns the rectangle of cell i.
func (g Grid) CellRect(i int) Rect {
	c := g.Cells[i]
	return Rect{X: c.Left, Y: c.Top, W: g.PictureWidth, H: g.PictureHeight}
}

// ComputeGrid lays out as many pictures as fit on the paper, centered within
// the margin-reduced area. It returns a *LayoutError when nothing fits; the
// width check runs first, then height, then the fitted-count check.
func ComputeGrid(cfg LayoutConfig) (Grid, error) {
	paperW := cfg.Paper.WidthMM()
	paperH := cfg.Paper.HeightMM()
	picW := cfg.PictureWidthMM
	picH := cfg.PictureHeight()
	margin := cfg.MarginMM
	spacing := cfg.SpacingMM

	if required := picW + 2*margin; required > paperW {
		return Grid{}, &LayoutError{Kind: KindWidthExceeds, Axis: AxisWidth, Required: required, Available: paperW}
	}
	if required := picH + 2*margin; required > paperH {
		return Grid{}, &LayoutError{Kind: KindHeightExceeds, Axis: AxisHeight, Required: required, Available: paperH}
	}

	availW := paperW - 2*margin
	availH := paperH - 2*margin

	// The last picture in a row or column needs no trailing spacing.
	columns := int(math.Floor((availW + spacing) / (picW + spacing)))
	rows := int(math.Floor((availH + spacing) / (picH + spacing)))
	if columns <= 0 {
		return Grid{}, &LayoutError{Kind: KindNoSpace, Axis: AxisWidth, Required: picW + spacing, Available: availW + spacing}
	}
	if rows <= 0 {
		return Grid{}, &LayoutError{Kind: KindNoSpace, Axis: AxisHeight, Required: picH + spacing, Available: availH + spacing}
	}

	totalW := float64(columns)*picW + float64(columns-1)*spacing
	totalH := float64(rows)*picH + float64(rows-1)*spacing
	offsetX := margin + (availW-totalW)/2
	offsetY := margin + (availH-totalH)/2

	cells := make([]CellPosition, 0, rows*columns)
	for r := range rows {
		for c := range columns {
			cells = append(cells, CellPosition{
				Row:    r,
				Column: c,
				Left:   offsetX + float64(c)*(picW+spacing),
				Top:    offsetY + float64(r)*(picH+spacing),
			})
		}
	}

	return Grid{
		Rows:          rows,
		Columns:       columns,
		OffsetX:       offsetX,
		OffsetY:       offsetY,
		PictureWidth:  picW,
		PictureHeight: picH,
		Cells:         cells,
	}, nil
}
