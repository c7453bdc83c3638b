package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/photo-grid/internal/layout"
	"github.com/kozaktomas/photo-grid/internal/sheet"
)

// errInvalidRequestBody is a shared error message for invalid JSON request bodies.
const errInvalidRequestBody = "invalid request body"

// maxJSONBody bounds JSON request bodies. Images go through multipart uploads.
const maxJSONBody = 1 << 20

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("WARNING: failed to encode response: %v", err)
		}
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// layoutErrorResponse is the body of a 422 answer to a layout that cannot
// hold a single picture.
type layoutErrorResponse struct {
	Error     string           `json:"error"`
	Kind      layout.ErrorKind `json:"kind"`
	Axis      layout.Axis      `json:"axis"`
	Required  float64          `json:"required"`
	Available float64          `json:"available"`
}

func respondLayoutError(w http.ResponseWriter, le *layout.LayoutError) {
	respondJSON(w, http.StatusUnprocessableEntity, layoutErrorResponse{
		Error:     le.Error(),
		Kind:      le.Kind,
		Axis:      le.Axis,
		Required:  le.Required,
		Available: le.Available,
	})
}

// respondSheetError maps errors from the sheet and layout packages to status
// codes. Anything unrecognized is treated as bad input.
func respondSheetError(w http.ResponseWriter, err error) {
	var le *layout.LayoutError
	switch {
	case errors.As(err, &le):
		respondLayoutError(w, le)
	case errors.Is(err, sheet.ErrNotFound):
		respondError(w, http.StatusNotFound, "sheet not found")
	case errors.Is(err, sheet.ErrNoImage), errors.Is(err, sheet.ErrFull):
		respondError(w, http.StatusConflict, err.Error())
	default:
		respondError(w, http.StatusBadRequest, err.Error())
	}
}

// decodeJSON reads a bounded JSON body into v. An empty body leaves v as is.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// indexParam parses the {index} URL parameter.
func indexParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "index")
	i, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid placeholder index %q", raw)
	}
	return i, nil
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
