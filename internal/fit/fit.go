// Package fit positions a source image inside a placeholder: initial contain
// or cover fit, pan clamping, and zooming around a cursor.
//
// All values are in placeholder pixel space. The image origin is its top-left
// corner, so offsets are the absolute translation of that corner relative to
// the placeholder's top-left corner. Zero-sized inputs are a caller error; the
// arithmetic is left to produce Inf or NaN.
package fit

import (
	"fmt"
	"math"
)

// Mode selects how an image is initially fitted.
type Mode string

// Fit modes.
const (
	// Contain shows the whole image and may leave whitespace.
	Contain Mode = "contain"
	// Cover fills the placeholder and may crop the image.
	Cover Mode = "cover"
)

// ParseMode parses a fit mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case Contain, Cover:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown fit mode %q (expected contain or cover)", s)
	}
}

// ModeFor returns Contain when whitespace is allowed and Cover otherwise.
func ModeFor(allowWhitespace bool) Mode {
	if allowWhitespace {
		return Contain
	}
	return Cover
}

// ZoomFactor is the scale change of a single zoom step.
const ZoomFactor = 1.1

// Size is a width and height in pixels.
type Size struct {
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// Point is a position in placeholder pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Transform places an image inside a placeholder.
type Transform struct {
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
}

// Fit scales the image so it is either fully visible (Contain) or fully
// covers the placeholder (Cover), centered in both cases.
func Fit(image, placeholder Size, mode Mode) Transform {
	scaleX := placeholder.W / image.W
	scaleY := placeholder.H / image.H

	var scale float64
	if mode == Cover {
		scale = math.Max(scaleX, scaleY)
	} else {
		scale = math.Min(scaleX, scaleY)
	}

	return Transform{
		Scale:   scale,
		OffsetX: (placeholder.W - image.W*scale) / 2,
		OffsetY: (placeholder.H - image.H*scale) / 2,
	}
}

// ClampOffset restricts an offset along one axis so the scaled image leaves
// no gap in the placeholder. When the scaled image is not larger than the
// placeholder the requested offset is ignored and the image is centered.
func ClampOffset(offset, imageSize, placeholderSize, scale float64) float64 {
	scaled := imageSize * scale
	if scaled <= placeholderSize {
		return (placeholderSize - scaled) / 2
	}
	return math.Min(0, math.Max(placeholderSize-scaled, offset))
}

// MinimumCoverScale returns the smallest scale at which the image still
// covers the placeholder on both axes.
func MinimumCoverScale(placeholder, image Size) float64 {
	return math.Max(placeholder.W/image.W, placeholder.H/image.H)
}

// ZoomAt applies one zoom step around the cursor. A negative deltaSign zooms
// in (wheel up), anything else zooms out. The image point under the cursor
// stays put unless clamping has to move it.
//
// Without whitespace the scale is floored at MinimumCoverScale and the
// resulting offsets are clamped.
func ZoomAt(cursor Point, placeholder, image Size, current Transform, deltaSign float64, allowWhitespace bool) Transform {
	factor := 1 / ZoomFactor
	if deltaSign < 0 {
		factor = ZoomFactor
	}

	newScale := current.Scale * factor
	if !allowWhitespace {
		newScale = math.Max(newScale, MinimumCoverScale(placeholder, image))
	}

	anchor := ImagePoint(cursor, current)
	next := Transform{
		Scale:   newScale,
		OffsetX: cursor.X - anchor.X*newScale,
		OffsetY: cursor.Y - anchor.Y*newScale,
	}

	if !allowWhitespace {
		next = clamp(next, placeholder, image)
	}
	return next
}

// Pan moves the image by (dx, dy) placeholder pixels, clamping when
// whitespace is not allowed.
func Pan(current Transform, dx, dy float64, placeholder, image Size, allowWhitespace bool) Transform {
	next := Transform{
		Scale:   current.Scale,
		OffsetX: current.OffsetX + dx,
		OffsetY: current.OffsetY + dy,
	}
	if !allowWhitespace {
		next = clamp(next, placeholder, image)
	}
	return next
}

// ImagePoint maps a placeholder position to source image pixels under t.
func ImagePoint(p Point, t Transform) Point {
	return Point{
		X: (p.X - t.OffsetX) / t.Scale,
		Y: (p.Y - t.OffsetY) / t.Scale,
	}
}

func clamp(t Transform, placeholder, image Size) Transform {
	t.OffsetX = ClampOffset(t.OffsetX, image.W, placeholder.W, t.Scale)
	t.OffsetY = ClampOffset(t.OffsetY, image.H, placeholder.H, t.Scale)
	return t
}
