package cmd

import (
	"bufio"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/photo-grid/internal/config"
	"github.com/kozaktomas/photo-grid/internal/render"
	"github.com/kozaktomas/photo-grid/internal/sheet"
)

var renderCmd = &cobra.Command{
	Use:   "render -o <output> <image> [image...]",
	Short: "Render a print sheet from image files",
	Long: `Place images into the sheet's placeholders in order and render the sheet.

Layout flags that are not given fall back to the stored preferences. With
--repeat the images are repeated until every placeholder is filled, which
is the usual way to print a sheet of passport photos from a single file.

The output format follows the file extension unless --format is given.

Example:
  photo-grid render -o passport.png --repeat portrait.jpg
  photo-grid render -o sheet.jpg --paper A4 --width 50 --height 50 --dpi 600 a.jpg b.jpg c.jpg`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	addLayoutFlags(renderCmd)
	renderCmd.Flags().StringP("output", "o", "", "Output file (.png or .jpg)")
	renderCmd.Flags().String("format", "", "Output format: png or jpeg (defaults to the output extension)")
	renderCmd.Flags().Float64("dpi", 0, "Output resolution (defaults to the preset's DPI)")
	renderCmd.Flags().String("preset", "", "Output preset: draft, print or photo (defaults to RENDER_PRESET)")
	renderCmd.Flags().String("title", "", "Sheet title shown in the report")
	renderCmd.Flags().Bool("repeat", false, "Repeat the images until every placeholder is filled")
	renderCmd.Flags().Bool("allow-whitespace", false, "Fit whole images, leaving whitespace (overrides the preference)")
	renderCmd.Flags().Bool("crop-marks", true, "Draw crop marks (overrides the preference)")
	renderCmd.Flags().Bool("json", false, "Print the report as JSON")
	_ = renderCmd.MarkFlagRequired("output")
}

// placementOrder returns which input image goes into each placeholder.
func placementOrder(images, placeholders int, repeat bool) []int {
	n := min(images, placeholders)
	if repeat {
		n = placeholders
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i % images
	}
	return order
}

func newRenderProgressBar(count int, description, unit string, quiet bool) *progressbar.ProgressBar {
	if quiet {
		return progressbar.DefaultSilent(int64(count))
	}
	return progressbar.NewOptions(count,
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString(unit),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

// decodeImages reads and decodes the input files.
func decodeImages(paths []string, bar *progressbar.ProgressBar) ([]*sheet.Image, error) {
	images := make([]*sheet.Image, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		img, err := sheet.DecodeImage(filepath.Base(path), data)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	return images, nil
}

func resolveRenderOutput(cmd *cobra.Command, cfg *config.Config) (string, string, float64, int, error) {
	output := mustGetString(cmd, "output")
	format := mustGetString(cmd, "format")
	var err error
	if format != "" {
		format, err = render.ParseFormat(format)
	} else {
		format, err = render.FormatForFilename(output)
	}
	if err != nil {
		return "", "", 0, 0, err
	}

	preset, err := cfg.GetRenderPreset(mustGetString(cmd, "preset"))
	if err != nil {
		return "", "", 0, 0, err
	}
	dpi := float64(preset.DPI)
	if cmd.Flags().Changed("dpi") {
		dpi = mustGetFloat64(cmd, "dpi")
		if !(dpi > 0 && dpi <= render.MaxDPI) {
			return "", "", 0, 0, fmt.Errorf("--dpi must be between 1 and %d", render.MaxDPI)
		}
	}
	return output, format, dpi, preset.Quality, nil
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.Load()
	jsonOutput := mustGetBool(cmd, "json")

	output, format, dpi, quality, err := resolveRenderOutput(cmd, cfg)
	if err != nil {
		return err
	}

	p, err := applyLayoutFlags(cmd, storedPreferences(ctx, cfg))
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("allow-whitespace") {
		p.AllowWhitespace = mustGetBool(cmd, "allow-whitespace")
	}
	if cmd.Flags().Changed("crop-marks") {
		p.ShowCropMarks = mustGetBool(cmd, "crop-marks")
	}
	lc, err := p.Layout()
	if err != nil {
		return err
	}

	title := mustGetString(cmd, "title")
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(output), filepath.Ext(output))
	}
	s, err := sheet.New(title, lc, p.AllowWhitespace, p.ShowCropMarks)
	if err != nil {
		return fmt.Errorf("layout does not fit: %w", err)
	}

	images, err := decodeImages(args, newRenderProgressBar(len(args), "Decoding", "images", jsonOutput))
	if err != nil {
		return err
	}

	order := placementOrder(len(images), len(s.Placeholders), mustGetBool(cmd, "repeat"))
	if len(images) > len(s.Placeholders) && !jsonOutput {
		fmt.Printf("Warning: sheet holds %d pictures, skipping %d image(s)\n", len(s.Placeholders), len(images)-len(s.Placeholders))
	}
	for i, img := range order {
		if err := s.LoadImage(i, images[img]); err != nil {
			return err
		}
	}

	bar := newRenderProgressBar(len(s.Placeholders), "Rendering", "cells", jsonOutput)
	canvas, report, err := render.Render(ctx, s, render.Options{
		DPI: dpi,
		Progress: func(done, total int) {
			_ = bar.Set(done)
		},
	})
	if err != nil {
		return fmt.Errorf("rendering sheet: %w", err)
	}
	_ = bar.Finish()

	if err := writeRendered(output, canvas, format, quality); err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(report)
	}

	fmt.Printf("\nWrote %s (%s, %.0f DPI, %dx%d px)\n", output, format, dpi, canvas.Bounds().Dx(), canvas.Bounds().Dy())
	fmt.Printf("Sheet: %s, %d rows x %d columns, %d photo(s) placed\n", report.Paper, report.Rows, report.Columns, report.PhotoCount)
	for _, w := range report.Warnings {
		fmt.Printf("Warning: %s\n", w)
	}
	return nil
}

// writeRendered encodes img to path.
func writeRendered(path string, img image.Image, format string, quality int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	if err := render.Encode(w, img, format, quality); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
