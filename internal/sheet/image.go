package sheet

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/kozaktomas/photo-grid/internal/fit"
)

// MaxPixels bounds the declared size of a source image. Decoding allocates
// four bytes per pixel, and a small compressed file can declare a huge canvas.
const MaxPixels = 100_000_000

// ErrImageTooLarge is returned by DecodeImage for images above MaxPixels.
var ErrImageTooLarge = errors.New("image too large")

// Image is an uploaded source photo.
type Image struct {
	Name   string `json:"name"`
	Data   []byte `json:"-"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}

// Size returns the image size in source pixels.
func (img *Image) Size() fit.Size {
	return fit.Size{W: float64(img.Width), H: float64(img.Height)}
}

// Decode decodes the image data, applying the EXIF orientation.
func (img *Image) Decode() (image.Image, error) {
	decoded, err := imaging.Decode(bytes.NewReader(img.Data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", img.Name, err)
	}
	return decoded, nil
}

// DecodeImage validates uploaded image data and records its dimensions as
// displayed, i.e. after EXIF orientation. Supported formats are JPEG, PNG,
// GIF, BMP, TIFF and WebP. The declared dimensions are checked against
// MaxPixels before any pixel data is decoded.
func DecodeImage(name string, data []byte) (*Image, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unsupported image %s: %w", name, err)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > MaxPixels {
		return nil, fmt.Errorf("%w: %s is %dx%d, limit is %d megapixels",
			ErrImageTooLarge, name, cfg.Width, cfg.Height, MaxPixels/1_000_000)
	}

	img := &Image{Name: name, Data: data, Format: format}
	decoded, err := img.Decode()
	if err != nil {
		return nil, err
	}
	b := decoded.Bounds()
	img.Width = b.Dx()
	img.Height = b.Dy()
	if img.Width == 0 || img.Height == 0 {
		return nil, fmt.Errorf("image %s has no pixels", name)
	}
	return img, nil
}
