package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/kozaktomas/photo-grid/internal/database"
	"github.com/kozaktomas/photo-grid/internal/layout"
	"github.com/kozaktomas/photo-grid/internal/preferences"
)

// LayoutHandler handles paper and grid endpoints.
type LayoutHandler struct {
	store database.PreferenceStore
}

// NewLayoutHandler creates a new layout handler. Grid requests fall back to
// the preferences in store for fields they leave out.
func NewLayoutHandler(store database.PreferenceStore) *LayoutHandler {
	return &LayoutHandler{store: store}
}

// layoutRequest describes a sheet layout. Unset fields are taken from a base,
// usually the stored preferences.
type layoutRequest struct {
	Paper         string   `json:"paper,omitempty"`
	PaperIndex    *int     `json:"paper_index,omitempty"`
	PictureWidth  *float64 `json:"picture_width,omitempty"`
	PictureHeight *float64 `json:"picture_height,omitempty"`
	Margin        *float64 `json:"margin,omitempty"`
	Spacing       *float64 `json:"spacing,omitempty"`
	Shape         *string  `json:"shape,omitempty"`
}

func (req layoutRequest) empty() bool {
	return req.Paper == "" && req.PaperIndex == nil && req.PictureWidth == nil &&
		req.PictureHeight == nil && req.Margin == nil && req.Spacing == nil && req.Shape == nil
}

// apply overlays the request on base and returns the merged preferences.
func (req layoutRequest) apply(base preferences.Preferences) (preferences.Preferences, error) {
	values := make(map[string]any)
	if req.Paper != "" {
		i := layout.PaperIndex(req.Paper)
		if i < 0 {
			return base, fmt.Errorf("unknown paper %q", req.Paper)
		}
		values[preferences.KeyPaperSizeIndex] = i
	}
	if req.PaperIndex != nil {
		values[preferences.KeyPaperSizeIndex] = *req.PaperIndex
	}
	if req.PictureWidth != nil {
		values[preferences.KeyPictureWidth] = *req.PictureWidth
	}
	if req.PictureHeight != nil {
		values[preferences.KeyPictureHeight] = *req.PictureHeight
	}
	if req.Margin != nil {
		values[preferences.KeyMargins] = *req.Margin
	}
	if req.Spacing != nil {
		values[preferences.KeySpacing] = *req.Spacing
	}
	if req.Shape != nil {
		values[preferences.KeyPlaceholderShape] = *req.Shape
	}
	return preferences.Update(base, values)
}

// config resolves the request against base into a validated layout.
func (req layoutRequest) config(base preferences.Preferences) (layout.LayoutConfig, error) {
	p, err := req.apply(base)
	if err != nil {
		return layout.LayoutConfig{}, err
	}
	return p.Layout()
}

// loadPreferences returns the stored preferences, or the defaults when the
// store cannot be read.
func loadPreferences(ctx context.Context, store database.PreferenceStore) preferences.Preferences {
	if store == nil {
		return preferences.Defaults()
	}
	p, err := preferences.Load(ctx, store)
	if err != nil {
		log.Printf("WARNING: %v; using defaults", err)
	}
	return p
}

type paperResponse struct {
	Index int `json:"index"`
	layout.PaperSize
}

// Papers lists the available paper formats.
func (h *LayoutHandler) Papers(w http.ResponseWriter, r *http.Request) {
	papers := layout.PaperSizes()
	resp := make([]paperResponse, len(papers))
	for i, p := range papers {
		resp[i] = paperResponse{Index: i, PaperSize: p}
	}
	respondJSON(w, http.StatusOK, resp)
}

type gridResponse struct {
	Layout   layout.LayoutConfig        `json:"layout"`
	Grid     layout.Grid                `json:"grid"`
	Count    int                        `json:"count"`
	Warnings []layout.ValidationWarning `json:"warnings"`
}

// Grid computes the grid for a layout. Layouts that cannot hold a single
// picture are answered with 422 and the failing measurement.
func (h *LayoutHandler) Grid(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	cfg, err := req.config(loadPreferences(r.Context(), h.store))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	grid, err := layout.ComputeGrid(cfg)
	if err != nil {
		var le *layout.LayoutError
		if errors.As(err, &le) {
			respondLayoutError(w, le)
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	warnings := layout.ValidateGrid(grid, cfg)
	if warnings == nil {
		warnings = []layout.ValidationWarning{}
	}
	respondJSON(w, http.StatusOK, gridResponse{
		Layout:   cfg,
		Grid:     grid,
		Count:    grid.Count(),
		Warnings: warnings,
	})
}
