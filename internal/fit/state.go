package fit

import "math"

// Print quality constants. A placeholder is measured in 96 DPI screen pixels,
// so a source pixel drawn at scale s lands on 1/s screen pixels.
const (
	ScreenDPI          = 96.0
	LowResThresholdDPI = 200.0
)

// State is the image placement of one placeholder. The zero value means no
// image is loaded.
type State struct {
	ImageWidth  float64 `json:"image_width"`
	ImageHeight float64 `json:"image_height"`
	OffsetX     float64 `json:"offset_x"`
	OffsetY     float64 `json:"offset_y"`
	Scale       float64 `json:"scale"`
}

// Load returns the state for a freshly loaded image, fitted per the
// whitespace setting.
func Load(image, placeholder Size, allowWhitespace bool) State {
	return State{ImageWidth: image.W, ImageHeight: image.H}.
		WithTransform(Fit(image, placeholder, ModeFor(allowWhitespace)))
}

// Loaded reports whether the state holds an image.
func (s State) Loaded() bool {
	return s.ImageWidth > 0 && s.ImageHeight > 0
}

// Image returns the source image size.
func (s State) Image() Size {
	return Size{W: s.ImageWidth, H: s.ImageHeight}
}

// Transform returns the current placement.
func (s State) Transform() Transform {
	return Transform{Scale: s.Scale, OffsetX: s.OffsetX, OffsetY: s.OffsetY}
}

// WithTransform returns a copy of s placed by t.
func (s State) WithTransform(t Transform) State {
	s.Scale = t.Scale
	s.OffsetX = t.OffsetX
	s.OffsetY = t.OffsetY
	return s
}

// Reset clears the placeholder.
func (s State) Reset() State {
	return State{}
}

// Refit adjusts a loaded state after the whitespace setting changed. When
// whitespace becomes disallowed the scale is raised to at least
// MinimumCoverScale and both offsets are clamped; allowing whitespace keeps
// the current placement.
func Refit(s State, placeholder Size, allowWhitespace bool) State {
	if !s.Loaded() || allowWhitespace {
		return s
	}
	img := s.Image()
	t := s.Transform()
	if minScale := MinimumCoverScale(placeholder, img); t.Scale < minScale {
		// Keep the placeholder center anchored while growing.
		center := Point{X: placeholder.W / 2, Y: placeholder.H / 2}
		anchor := ImagePoint(center, t)
		t = Transform{
			Scale:   minScale,
			OffsetX: center.X - anchor.X*minScale,
			OffsetY: center.Y - anchor.Y*minScale,
		}
	}
	return s.WithTransform(clamp(t, placeholder, img))
}

// Resize re-fits a loaded image to a new placeholder size, as after a layout
// change. Any pan or zoom is discarded.
func Resize(s State, placeholder Size, allowWhitespace bool) State {
	if !s.Loaded() {
		return s
	}
	return Load(s.Image(), placeholder, allowWhitespace)
}

// EffectiveDPI returns the print resolution of the source at the given scale.
func EffectiveDPI(scale float64) float64 {
	if scale <= 0 {
		return math.Inf(1)
	}
	return ScreenDPI / scale
}

// LowRes reports whether the source prints below LowResThresholdDPI.
func LowRes(scale float64) bool {
	return EffectiveDPI(scale) < LowResThresholdDPI
}
