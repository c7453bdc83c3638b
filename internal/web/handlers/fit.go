package handlers

import (
	"errors"
	"net/http"

	"github.com/kozaktomas/photo-grid/internal/fit"
)

// FitHandler exposes the fit engine as stateless calculations.
type FitHandler struct{}

// NewFitHandler creates a new fit handler.
func NewFitHandler() *FitHandler {
	return &FitHandler{}
}

func validSize(name string, s fit.Size) error {
	if s.W <= 0 || s.H <= 0 {
		return errors.New(name + " width and height must be positive")
	}
	return nil
}

type fitRequest struct {
	Image           fit.Size `json:"image"`
	Placeholder     fit.Size `json:"placeholder"`
	Mode            string   `json:"mode"`
	AllowWhitespace *bool    `json:"allow_whitespace"`
}

// Fit returns the initial placement of an image. An explicit mode wins over
// allow_whitespace; without either the image covers the placeholder.
func (h *FitHandler) Fit(w http.ResponseWriter, r *http.Request) {
	var req fitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if err := errors.Join(validSize("image", req.Image), validSize("placeholder", req.Placeholder)); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	mode := fit.Cover
	if req.AllowWhitespace != nil {
		mode = fit.ModeFor(*req.AllowWhitespace)
	}
	if req.Mode != "" {
		m, err := fit.ParseMode(req.Mode)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		mode = m
	}

	respondJSON(w, http.StatusOK, fit.Fit(req.Image, req.Placeholder, mode))
}

type clampRequest struct {
	Offset          float64 `json:"offset"`
	ImageSize       float64 `json:"image_size"`
	PlaceholderSize float64 `json:"placeholder_size"`
	Scale           float64 `json:"scale"`
}

// Clamp restricts an offset along one axis.
func (h *FitHandler) Clamp(w http.ResponseWriter, r *http.Request) {
	var req clampRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.ImageSize <= 0 || req.PlaceholderSize <= 0 || req.Scale <= 0 {
		respondError(w, http.StatusBadRequest, "image_size, placeholder_size and scale must be positive")
		return
	}

	respondJSON(w, http.StatusOK, map[string]float64{
		"offset": fit.ClampOffset(req.Offset, req.ImageSize, req.PlaceholderSize, req.Scale),
	})
}

type zoomRequest struct {
	Cursor          fit.Point     `json:"cursor"`
	Placeholder     fit.Size      `json:"placeholder"`
	Image           fit.Size      `json:"image"`
	Transform       fit.Transform `json:"transform"`
	DeltaSign       float64       `json:"delta_sign"`
	AllowWhitespace bool          `json:"allow_whitespace"`
}

// Zoom applies one zoom step around the cursor.
func (h *FitHandler) Zoom(w http.ResponseWriter, r *http.Request) {
	var req zoomRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if err := errors.Join(validSize("image", req.Image), validSize("placeholder", req.Placeholder)); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Transform.Scale <= 0 {
		respondError(w, http.StatusBadRequest, "transform scale must be positive")
		return
	}
	if req.DeltaSign == 0 {
		respondError(w, http.StatusBadRequest, "delta_sign must be non-zero")
		return
	}

	respondJSON(w, http.StatusOK, fit.ZoomAt(req.Cursor, req.Placeholder, req.Image, req.Transform, req.DeltaSign, req.AllowWhitespace))
}

type minCoverRequest struct {
	Placeholder fit.Size `json:"placeholder"`
	Image       fit.Size `json:"image"`
}

// MinCoverScale returns the smallest scale that still covers the placeholder.
func (h *FitHandler) MinCoverScale(w http.ResponseWriter, r *http.Request) {
	var req minCoverRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if err := errors.Join(validSize("image", req.Image), validSize("placeholder", req.Placeholder)); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]float64{
		"scale": fit.MinimumCoverScale(req.Placeholder, req.Image),
	})
}
