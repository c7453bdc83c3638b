package layout

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a grid could not be computed.
type ErrorKind string

// Layout error kinds, in the order ComputeGrid checks them.
const (
	KindWidthExceeds  ErrorKind = "width_exceeds_paper"
	KindHeightExceeds ErrorKind = "height_exceeds_paper"
	KindNoSpace       ErrorKind = "no_space"
)

// Axis names the paper dimension a LayoutError refers to.
type Axis string

// Axes.
const (
	AxisWidth  Axis = "width"
	AxisHeight Axis = "height"
)

// Sentinel errors matched by errors.Is against a *LayoutError.
var (
	ErrWidthExceedsPaper  = errors.New("picture width exceeds paper")
	ErrHeightExceedsPaper = errors.New("picture height exceeds paper")
	ErrNoSpace            = errors.New("no space for any picture")
)

// LayoutError reports a sheet that cannot hold a single picture. Required and
// Available are millimeters along Axis.
type LayoutError struct {
	Kind      ErrorKind
	Axis      Axis
	Required  float64
	Available float64
}

func (e *LayoutError) Error() string {
	switch e.Kind {
	case KindWidthExceeds:
		return fmt.Sprintf("picture width plus margins (%.1f mm) exceeds paper width (%.1f mm)", e.Required, e.Available)
	case KindHeightExceeds:
		return fmt.Sprintf("picture height plus margins (%.1f mm) exceeds paper height (%.1f mm)", e.Required, e.Available)
	case KindNoSpace:
		return fmt.Sprintf("no space for a picture along the %s: needs %.1f mm, %.1f mm available", e.Axis, e.Required, e.Available)
	default:
		return "invalid layout"
	}
}

// Unwrap maps the kind to its sentinel so callers can use errors.Is.
func (e *LayoutError) Unwrap() error {
	switch e.Kind {
	case KindWidthExceeds:
		return ErrWidthExceedsPaper
	case KindHeightExceeds:
		return ErrHeightExceedsPaper
	case KindNoSpace:
		return ErrNoSpace
	default:
		return nil
	}
}
