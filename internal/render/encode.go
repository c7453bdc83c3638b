package render

import (
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/disintegration/imaging"
)

// Output formats.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
)

// DefaultJPEGQuality is used when no quality is given.
const DefaultJPEGQuality = 92

// ParseFormat normalizes an output format name.
func ParseFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "png", "":
		return FormatPNG, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (expected png or jpeg)", s)
	}
}

// FormatForFilename picks the output format from a file name.
func FormatForFilename(name string) (string, error) {
	f, err := imaging.FormatFromFilename(name)
	if err != nil {
		return "", fmt.Errorf("unsupported output file %s: %w", name, err)
	}
	switch f {
	case imaging.PNG:
		return FormatPNG, nil
	case imaging.JPEG:
		return FormatJPEG, nil
	default:
		return "", fmt.Errorf("unsupported output file %s (expected .png or .jpg)", name)
	}
}

// ContentType returns the MIME type of an output format.
func ContentType(format string) string {
	if format == FormatJPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// Encode writes img in the given format. Quality applies to JPEG only.
func Encode(w io.Writer, img image.Image, format string, quality int) error {
	format, err := ParseFormat(format)
	if err != nil {
		return err
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}

	switch format {
	case FormatJPEG:
		err = imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
	default:
		err = imaging.Encode(w, img, imaging.PNG)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}
