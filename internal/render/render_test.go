package render

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/kozaktomas/photo-grid/internal/layout"
	"github.com/kozaktomas/photo-grid/internal/sheet"
)

// At 25.4 DPI one output pixel is one millimeter.
const mmDPI = 25.4

func solidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func newTestSheet(t *testing.T, shape layout.Shape, allowWhitespace, cropMarks bool) *sheet.Sheet {
	t.Helper()
	paper, _ := layout.PaperByIndex(layout.PaperIndex("10x15"))
	cfg := layout.LayoutConfig{
		Paper:           paper,
		PictureWidthMM:  44,
		PictureHeightMM: 44,
		MarginMM:        4,
		SpacingMM:       2,
		Shape:           shape,
	}
	s, err := sheet.New("Test sheet", cfg, allowWhitespace, cropMarks)
	if err != nil {
		t.Fatalf("sheet.New: %v", err)
	}
	return s
}

func loadRed(t *testing.T, s *sheet.Sheet, i, w, h int) {
	t.Helper()
	img, err := sheet.DecodeImage("red.png", solidPNG(t, w, h, color.NRGBA{R: 255, A: 255}))
	if err != nil {
		t.Fatalf("DecodeImage: %v", err)
	}
	if err := s.LoadImage(i, img); err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
}

func isRed(c color.NRGBA) bool {
	return c.R > 200 && c.G < 50 && c.B < 50
}

func isWhite(c color.NRGBA) bool {
	return c.R == 255 && c.G == 255 && c.B == 255
}

func TestRender_CanvasSize(t *testing.T) {
	s := newTestSheet(t, layout.ShapeRectangular, false, false)
	img, _, err := Render(context.Background(), s, Options{DPI: mmDPI})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 150 {
		t.Errorf("expected 100x150 canvas, got %v", b)
	}

	img, _, err = Render(context.Background(), s, Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	// 10 cm at 300 DPI
	if b := img.Bounds(); b.Dx() != 1181 || b.Dy() != 1772 {
		t.Errorf("expected 1181x1772 canvas at default DPI, got %v", b)
	}
}

func TestRender_CoverFillsOnlyTheCell(t *testing.T) {
	s := newTestSheet(t, layout.ShapeRectangular, false, false)
	loadRed(t, s, 0, 200, 100)

	img, report, err := Render(context.Background(), s, Options{DPI: mmDPI})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	// Cell 0 spans x 5..49, y 7..51.
	for _, p := range []image.Point{{6, 8}, {27, 29}, {48, 50}} {
		if c := img.NRGBAAt(p.X, p.Y); !isRed(c) {
			t.Errorf("expected red at %v, got %v", p, c)
		}
	}
	for _, p := range []image.Point{{2, 2}, {50, 30}, {27, 52}, {70, 30}} {
		if c := img.NRGBAAt(p.X, p.Y); !isWhite(c) {
			t.Errorf("expected white at %v, got %v", p, c)
		}
	}
	if report.PhotoCount != 1 || report.Photos[0].Index != 0 {
		t.Errorf("unexpected report photos %+v", report.Photos)
	}
}

func TestRender_ContainLeavesWhitespace(t *testing.T) {
	s := newTestSheet(t, layout.ShapeRectangular, true, false)
	loadRed(t, s, 0, 200, 100)

	img, _, err := Render(context.Background(), s, Options{DPI: mmDPI})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	// The image is 44 x 22 mm, centered vertically at y 18..40.
	if c := img.NRGBAAt(27, 9); !isWhite(c) {
		t.Errorf("expected whitespace above the image, got %v", c)
	}
	if c := img.NRGBAAt(27, 29); !isRed(c) {
		t.Errorf("expected red in the middle, got %v", c)
	}
}

func TestRender_RoundMask(t *testing.T) {
	s := newTestSheet(t, layout.ShapeRound, false, false)
	loadRed(t, s, 0, 100, 100)

	img, _, err := Render(context.Background(), s, Options{DPI: mmDPI})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	cell := s.Grid.CellRect(0)
	x0, y0 := int(cell.X), int(cell.Y)
	if c := img.NRGBAAt(x0+1, y0+1); !isWhite(c) {
		t.Errorf("expected the cell corner outside the circle to stay white, got %v", c)
	}
	if c := img.NRGBAAt(x0+22, y0+22); !isRed(c) {
		t.Errorf("expected red in the circle center, got %v", c)
	}
}

func TestRender_CropMarks(t *testing.T) {
	s := newTestSheet(t, layout.ShapeRectangular, false, true)

	img, _, err := Render(context.Background(), s, Options{DPI: mmDPI})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	black := color.NRGBA{A: 255}
	// Top-left corner of cell 0 is (5, 7): marks run left and up into the margin.
	if c := img.NRGBAAt(3, 7); c != black {
		t.Errorf("expected horizontal mark at (3,7), got %v", c)
	}
	if c := img.NRGBAAt(5, 5); c != black {
		t.Errorf("expected vertical mark at (5,5), got %v", c)
	}
	// Nothing is drawn inside the cell.
	if c := img.NRGBAAt(27, 29); !isWhite(c) {
		t.Errorf("expected empty cell to stay white, got %v", c)
	}
}

func TestRender_Progress(t *testing.T) {
	s := newTestSheet(t, layout.ShapeRectangular, false, false)
	calls := 0
	_, _, err := Render(context.Background(), s, Options{DPI: mmDPI, Progress: func(done, total int) {
		calls++
		if total != 6 || done != calls {
			t.Errorf("unexpected progress %d/%d", done, total)
		}
	}})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if calls != 6 {
		t.Errorf("expected 6 progress calls, got %d", calls)
	}
}

func TestRender_Errors(t *testing.T) {
	s := newTestSheet(t, layout.ShapeRectangular, false, false)

	if _, _, err := Render(context.Background(), s, Options{DPI: 5000}); err == nil {
		t.Error("expected error for excessive DPI")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := Render(ctx, s, Options{DPI: mmDPI}); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestReport_LowResolution(t *testing.T) {
	s := newTestSheet(t, layout.ShapeRectangular, false, false)
	loadRed(t, s, 1, 100, 100)   // upscaled, far below 200 DPI
	loadRed(t, s, 2, 2000, 2000) // ~1150 DPI

	r := BuildReport(s, 0)
	if r.DPI != layout.PrintDPI {
		t.Errorf("expected default DPI, got %.0f", r.DPI)
	}
	if len(r.Photos) != 2 {
		t.Fatalf("expected 2 photos, got %d", len(r.Photos))
	}
	if !r.Photos[0].LowRes || r.Photos[1].LowRes {
		t.Errorf("unexpected low res flags %+v", r.Photos)
	}
	found := false
	for _, w := range r.Warnings {
		if strings.HasPrefix(w, "Cell 1 (red.png): effective DPI") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected low resolution warning, got %v", r.Warnings)
	}
}

func TestReport_EmptySheet(t *testing.T) {
	s := newTestSheet(t, layout.ShapeRectangular, false, false)
	r := BuildReport(s, 300)
	if r.PhotoCount != 0 || len(r.Warnings) != 1 || r.Warnings[0] != "Sheet has no photos" {
		t.Errorf("unexpected report %+v", r)
	}
	if r.Rows != 3 || r.Columns != 2 || r.Paper != "10x15" {
		t.Errorf("unexpected grid summary %+v", r)
	}
}
