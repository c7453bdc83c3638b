package render

import (
	"fmt"
	"math"

	"github.com/kozaktomas/photo-grid/internal/fit"
	"github.com/kozaktomas/photo-grid/internal/layout"
	"github.com/kozaktomas/photo-grid/internal/sheet"
)

// Report summarizes a rendered sheet and its print quality.
type Report struct {
	Title      string        `json:"title"`
	Paper      string        `json:"paper"`
	DPI        float64       `json:"dpi"`
	Rows       int           `json:"rows"`
	Columns    int           `json:"columns"`
	PhotoCount int           `json:"photo_count"`
	Photos     []ReportPhoto `json:"photos"`
	Warnings   []string      `json:"warnings"`
}

// ReportPhoto describes a single placed photo.
type ReportPhoto struct {
	Index        int     `json:"index"`
	Name         string  `json:"name"`
	EffectiveDPI float64 `json:"effective_dpi"`
	LowRes       bool    `json:"low_res"`
}

func newReport(s *sheet.Sheet, dpi float64) *Report {
	return &Report{
		Title:    s.Title,
		Paper:    s.Layout.Paper.Name,
		DPI:      dpi,
		Rows:     s.Grid.Rows,
		Columns:  s.Grid.Columns,
		Photos:   []ReportPhoto{},
		Warnings: []string{},
	}
}

func (r *Report) addPhoto(i int, p sheet.Placeholder) {
	dpi := fit.EffectiveDPI(p.State.Scale)
	r.Photos = append(r.Photos, ReportPhoto{
		Index:        i,
		Name:         p.Source.Name,
		EffectiveDPI: math.Round(dpi*10) / 10,
		LowRes:       fit.LowRes(p.State.Scale),
	})
}

// finish adds layout and resolution warnings.
func (r *Report) finish(s *sheet.Sheet) {
	r.PhotoCount = len(r.Photos)

	for _, vw := range layout.ValidateGrid(s.Grid, s.Layout) {
		r.Warnings = append(r.Warnings, fmt.Sprintf("Layout: cell %d: %s", vw.CellIndex, vw.Message))
	}
	for _, photo := range r.Photos {
		if photo.LowRes {
			r.Warnings = append(r.Warnings,
				fmt.Sprintf("Cell %d (%s): effective DPI %.0f is below %d",
					photo.Index, photo.Name, photo.EffectiveDPI, int(fit.LowResThresholdDPI)))
		}
	}
	if r.PhotoCount == 0 {
		r.Warnings = append(r.Warnings, "Sheet has no photos")
	}
}

// BuildReport computes the report without rasterizing.
func BuildReport(s *sheet.Sheet, dpi float64) *Report {
	if dpi <= 0 {
		dpi = layout.PrintDPI
	}
	r := newReport(s, dpi)
	for i, p := range s.Placeholders {
		if p.Loaded() {
			r.addPhoto(i, p)
		}
	}
	r.finish(s)
	return r
}
