package cmd

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/photo-grid/internal/fit"
	"github.com/kozaktomas/photo-grid/internal/layout"
	"github.com/kozaktomas/photo-grid/internal/preferences"
)

// mustGetBool gets a bool flag value or panics if the flag doesn't exist.
// This is appropriate for flags defined in init() - errors indicate programming bugs.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}

// mustGetInt gets an int flag value or panics if the flag doesn't exist.
func mustGetInt(cmd *cobra.Command, name string) int {
	val, err := cmd.Flags().GetInt(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}

// mustGetString gets a string flag value or panics if the flag doesn't exist.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}

// mustGetFloat64 gets a float64 flag value or panics if the flag doesn't exist.
func mustGetFloat64(cmd *cobra.Command, name string) float64 {
	val, err := cmd.Flags().GetFloat64(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}

// addLayoutFlags registers the sheet layout flags shared by grid and render.
func addLayoutFlags(cmd *cobra.Command) {
	cmd.Flags().String("paper", "", "Paper format, e.g. 10x15 or A4 (see 'papers')")
	cmd.Flags().Float64("width", 0, "Picture width in mm (diameter for round pictures)")
	cmd.Flags().Float64("height", 0, "Picture height in mm")
	cmd.Flags().Float64("margin", 0, "Paper margin in mm")
	cmd.Flags().Float64("spacing", 0, "Spacing between pictures in mm")
	cmd.Flags().String("shape", "", "Placeholder shape: rectangular or round")
}

// applyLayoutFlags overlays the layout flags the user set on p.
func applyLayoutFlags(cmd *cobra.Command, p preferences.Preferences) (preferences.Preferences, error) {
	values := make(map[string]any)
	if cmd.Flags().Changed("paper") {
		name := mustGetString(cmd, "paper")
		i := layout.PaperIndex(name)
		if i < 0 {
			return p, fmt.Errorf("unknown paper %q (run 'photo-grid papers' for the list)", name)
		}
		values[preferences.KeyPaperSizeIndex] = i
	}
	floats := map[string]string{
		"width":   preferences.KeyPictureWidth,
		"height":  preferences.KeyPictureHeight,
		"margin":  preferences.KeyMargins,
		"spacing": preferences.KeySpacing,
	}
	for flag, key := range floats {
		if cmd.Flags().Changed(flag) {
			values[key] = mustGetFloat64(cmd, flag)
		}
	}
	if cmd.Flags().Changed("shape") {
		values[preferences.KeyPlaceholderShape] = mustGetString(cmd, "shape")
	}
	return preferences.Update(p, values)
}

// parseSize parses "WIDTHxHEIGHT", e.g. "4000x3000".
func parseSize(s string) (fit.Size, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return fit.Size{}, fmt.Errorf("invalid size %q (expected WIDTHxHEIGHT)", s)
	}
	w, err := strconv.ParseFloat(ws, 64)
	if err != nil {
		return fit.Size{}, fmt.Errorf("invalid width in %q: %w", s, err)
	}
	h, err := strconv.ParseFloat(hs, 64)
	if err != nil {
		return fit.Size{}, fmt.Errorf("invalid height in %q: %w", s, err)
	}
	if !(w > 0 && h > 0) || math.IsInf(w, 0) || math.IsInf(h, 0) {
		return fit.Size{}, fmt.Errorf("size %q must be positive and finite", s)
	}
	return fit.Size{W: w, H: h}, nil
}

// parseAssignment parses "key=value".
func parseAssignment(s string) (string, string, error) {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", fmt.Errorf("invalid assignment %q (expected key=value)", s)
	}
	return key, strings.TrimSpace(value), nil
}

// outputJSON writes data to stdout as indented JSON.
func outputJSON(data any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}
