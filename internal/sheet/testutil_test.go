package sheet

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/kozaktomas/photo-grid/internal/layout"
)

func testLayout(t *testing.T) layout.LayoutConfig {
	t.Helper()
	paper, ok := layout.PaperByIndex(layout.PaperIndex("10x15"))
	if !ok {
		t.Fatal("10x15 paper missing")
	}
	return layout.LayoutConfig{
		Paper:           paper,
		PictureWidthMM:  44,
		PictureHeightMM: 44,
		MarginMM:        4,
		SpacingMM:       2,
		Shape:           layout.ShapeRectangular,
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// declaredPNG returns a 1x1 PNG whose header claims w x h pixels. Only the
// header is consistent, which is all image.DecodeConfig reads.
func declaredPNG(t *testing.T, w, h uint32) []byte {
	t.Helper()
	data := pngBytes(t, 1, 1)
	// 8-byte signature, then the IHDR chunk: length, type, 13 data bytes, CRC.
	binary.BigEndian.PutUint32(data[16:20], w)
	binary.BigEndian.PutUint32(data[20:24], h)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func testImage(w, h int) *Image {
	return &Image{Name: "test.png", Width: w, Height: h, Format: "png"}
}
