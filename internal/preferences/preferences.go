// Package preferences holds the persisted user settings of the sheet editor
// and their flat key-value encoding.
package preferences

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/kozaktomas/photo-grid/internal/layout"
)

// Preference keys as stored in a key-value store.
const (
	KeyPaperSizeIndex   = "selectedPaperSizeIndex"
	KeyPictureWidth     = "pictureWidth"
	KeyPictureHeight    = "pictureHeight"
	KeyMargins          = "margins"
	KeySpacing          = "spacing"
	KeyAllowWhitespace  = "allowWhitespace"
	KeyShowCropMarks    = "showCropMarks"
	KeyIsDarkMode       = "isDarkMode"
	KeyPlaceholderShape = "placeholderShape"
)

// Keys lists every preference key in a stable order.
var Keys = []string{
	KeyPaperSizeIndex,
	KeyPictureWidth,
	KeyPictureHeight,
	KeyMargins,
	KeySpacing,
	KeyAllowWhitespace,
	KeyShowCropMarks,
	KeyIsDarkMode,
	KeyPlaceholderShape,
}

// Preferences is the user's sheet setup. Lengths are millimeters.
type Preferences struct {
	SelectedPaperSizeIndex int          `json:"selectedPaperSizeIndex"`
	PictureWidth           float64      `json:"pictureWidth"`
	PictureHeight          float64      `json:"pictureHeight"`
	Margins                float64      `json:"margins"`
	Spacing                float64      `json:"spacing"`
	AllowWhitespace        bool         `json:"allowWhitespace"`
	ShowCropMarks          bool         `json:"showCropMarks"`
	IsDarkMode             bool         `json:"isDarkMode"`
	PlaceholderShape       layout.Shape `json:"placeholderShape"`
}

// Defaults returns the settings used when nothing is stored: passport-size
// pictures on the first paper in the list.
func Defaults() Preferences {
	return Preferences{
		SelectedPaperSizeIndex: 0,
		PictureWidth:           35,
		PictureHeight:          45,
		Margins:                5,
		Spacing:                2,
		AllowWhitespace:        false,
		ShowCropMarks:          true,
		IsDarkMode:             false,
		PlaceholderShape:       layout.ShapeRectangular,
	}
}

// FromValues merges stored values over Defaults field by field. Unknown keys
// are ignored; a missing key or a value that does not parse keeps the default.
func FromValues(values map[string]any) Preferences {
	p := Defaults()
	for key, raw := range values {
		_ = p.set(key, raw)
	}
	return p
}

// FromStrings is FromValues for stores that persist text.
func FromStrings(values map[string]string) Preferences {
	m := make(map[string]any, len(values))
	for k, v := range values {
		m[k] = v
	}
	return FromValues(m)
}

// Apply returns p with a single key updated from its text form. Unlike
// FromValues it reports unknown keys and malformed values.
func Apply(p Preferences, key, value string) (Preferences, error) {
	if err := p.set(key, value); err != nil {
		return p, err
	}
	return p, nil
}

// Update applies several values at once, as sent by an API client. It
// fails on the first unknown key or malformed value and then returns p
// unchanged.
func Update(p Preferences, values map[string]any) (Preferences, error) {
	next := p
	for _, key := range sortedKeys(values) {
		if err := next.set(key, values[key]); err != nil {
			return p, err
		}
	}
	return next, nil
}

// Values returns p as a key-value map with native types.
func (p Preferences) Values() map[string]any {
	return map[string]any{
		KeyPaperSizeIndex:   p.SelectedPaperSizeIndex,
		KeyPictureWidth:     p.PictureWidth,
		KeyPictureHeight:    p.PictureHeight,
		KeyMargins:          p.Margins,
		KeySpacing:          p.Spacing,
		KeyAllowWhitespace:  p.AllowWhitespace,
		KeyShowCropMarks:    p.ShowCropMarks,
		KeyIsDarkMode:       p.IsDarkMode,
		KeyPlaceholderShape: string(p.PlaceholderShape),
	}
}

// Strings returns p as a key-value map of text values.
func (p Preferences) Strings() map[string]string {
	return map[string]string{
		KeyPaperSizeIndex:   strconv.Itoa(p.SelectedPaperSizeIndex),
		KeyPictureWidth:     formatFloat(p.PictureWidth),
		KeyPictureHeight:    formatFloat(p.PictureHeight),
		KeyMargins:          formatFloat(p.Margins),
		KeySpacing:          formatFloat(p.Spacing),
		KeyAllowWhitespace:  strconv.FormatBool(p.AllowWhitespace),
		KeyShowCropMarks:    strconv.FormatBool(p.ShowCropMarks),
		KeyIsDarkMode:       strconv.FormatBool(p.IsDarkMode),
		KeyPlaceholderShape: string(p.PlaceholderShape),
	}
}

// Paper resolves the selected paper size.
func (p Preferences) Paper() (layout.PaperSize, error) {
	paper, ok := layout.PaperByIndex(p.SelectedPaperSizeIndex)
	if !ok {
		return layout.PaperSize{}, fmt.Errorf("paper size index %d out of range (0-%d)", p.SelectedPaperSizeIndex, len(layout.PaperSizes())-1)
	}
	return paper, nil
}

// Layout converts the preferences into a validated layout configuration.
func (p Preferences) Layout() (layout.LayoutConfig, error) {
	paper, err := p.Paper()
	if err != nil {
		return layout.LayoutConfig{}, err
	}
	cfg := layout.LayoutConfig{
		Paper:           paper,
		PictureWidthMM:  p.PictureWidth,
		PictureHeightMM: p.PictureHeight,
		MarginMM:        p.Margins,
		SpacingMM:       p.Spacing,
		Shape:           p.PlaceholderShape,
	}
	if err := cfg.Validate(); err != nil {
		return layout.LayoutConfig{}, err
	}
	return cfg, nil
}

// Describe renders p as sorted "key = value" lines.
func (p Preferences) Describe() string {
	s := p.Strings()
	var b strings.Builder
	for _, k := range sortedKeys(s) {
		fmt.Fprintf(&b, "%s = %s\n", k, s[k])
	}
	return b.String()
}

func (p *Preferences) set(key string, raw any) error {
	switch key {
	case KeyPaperSizeIndex:
		v, err := toInt(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if _, ok := layout.PaperByIndex(v); !ok {
			return fmt.Errorf("%s: paper size index %d out of range", key, v)
		}
		p.SelectedPaperSizeIndex = v
	case KeyPictureWidth, KeyPictureHeight, KeyMargins, KeySpacing:
		v, err := toFloat(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if v < 0 || ((key == KeyPictureWidth || key == KeyPictureHeight) && v == 0) {
			return fmt.Errorf("%s: invalid length %g", key, v)
		}
		switch key {
		case KeyPictureWidth:
			p.PictureWidth = v
		case KeyPictureHeight:
			p.PictureHeight = v
		case KeyMargins:
			p.Margins = v
		case KeySpacing:
			p.Spacing = v
		}
	case KeyAllowWhitespace, KeyShowCropMarks, KeyIsDarkMode:
		v, err := toBool(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		switch key {
		case KeyAllowWhitespace:
			p.AllowWhitespace = v
		case KeyShowCropMarks:
			p.ShowCropMarks = v
		case KeyIsDarkMode:
			p.IsDarkMode = v
		}
	case KeyPlaceholderShape:
		s, ok := raw.(string)
		if !ok {
			return fmt.Errorf("%s: expected a string, got %T", key, raw)
		}
		shape, err := layout.ParseShape(s)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		p.PlaceholderShape = shape
	default:
		return fmt.Errorf("unknown preference %q", key)
	}
	return nil
}

func toFloat(raw any) (float64, error) {
	v, err := parseFloat(raw)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("expected a finite number, got %v", raw)
	}
	return v, nil
}

func parseFloat(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, fmt.Errorf("expected a number, got %T", raw)
	}
}

func toInt(raw any) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("expected an integer, got %g", v)
		}
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		return int(n), err
	case string:
		return strconv.Atoi(strings.TrimSpace(v))
	default:
		return 0, fmt.Errorf("expected an integer, got %T", raw)
	}
}

func toBool(raw any) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		return strconv.ParseBool(strings.TrimSpace(v))
	default:
		return false, fmt.Errorf("expected a boolean, got %T", raw)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
