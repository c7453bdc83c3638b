package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/photo-grid/internal/fit"
)

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Compute how an image is placed in a placeholder",
	Long: `Compute the initial scale and offsets of an image in a placeholder,
both given in pixels.

Example:
  photo-grid fit --image 4000x3000 --placeholder 132x170
  photo-grid fit --image 4000x3000 --placeholder 132x170 --mode contain --json`,
	RunE: runFit,
}

func init() {
	rootCmd.AddCommand(fitCmd)
	fitCmd.Flags().String("image", "", "Image size in pixels, WIDTHxHEIGHT")
	fitCmd.Flags().String("placeholder", "", "Placeholder size in pixels, WIDTHxHEIGHT")
	fitCmd.Flags().String("mode", string(fit.Cover), "Fit mode: cover or contain")
	fitCmd.Flags().Bool("json", false, "Output as JSON")
	_ = fitCmd.MarkFlagRequired("image")
	_ = fitCmd.MarkFlagRequired("placeholder")
}

type fitOutput struct {
	Mode              fit.Mode      `json:"mode"`
	Transform         fit.Transform `json:"transform"`
	MinimumCoverScale float64       `json:"minimum_cover_scale"`
	EffectiveDPI      float64       `json:"effective_dpi"`
	LowRes            bool          `json:"low_res"`
}

func runFit(cmd *cobra.Command, args []string) error {
	img, err := parseSize(mustGetString(cmd, "image"))
	if err != nil {
		return err
	}
	placeholder, err := parseSize(mustGetString(cmd, "placeholder"))
	if err != nil {
		return err
	}
	mode, err := fit.ParseMode(mustGetString(cmd, "mode"))
	if err != nil {
		return err
	}

	t := fit.Fit(img, placeholder, mode)
	out := fitOutput{
		Mode:              mode,
		Transform:         t,
		MinimumCoverScale: fit.MinimumCoverScale(placeholder, img),
		EffectiveDPI:      fit.EffectiveDPI(t.Scale),
		LowRes:            fit.LowRes(t.Scale),
	}
	if mustGetBool(cmd, "json") {
		return outputJSON(out)
	}

	fmt.Printf("Mode:          %s\n", out.Mode)
	fmt.Printf("Scale:         %.4f (cover needs %.4f)\n", t.Scale, out.MinimumCoverScale)
	fmt.Printf("Offset:        %.2f, %.2f px\n", t.OffsetX, t.OffsetY)
	fmt.Printf("Effective DPI: %.0f", out.EffectiveDPI)
	if out.LowRes {
		fmt.Printf(" (below %.0f, may print blurry)", fit.LowResThresholdDPI)
	}
	fmt.Println()
	return nil
}
