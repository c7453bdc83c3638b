package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/photo-grid/internal/config"
	"github.com/kozaktomas/photo-grid/internal/database"
	"github.com/kozaktomas/photo-grid/internal/fit"
	"github.com/kozaktomas/photo-grid/internal/layout"
	"github.com/kozaktomas/photo-grid/internal/preferences"
	"github.com/kozaktomas/photo-grid/internal/render"
	"github.com/kozaktomas/photo-grid/internal/sheet"
)

// SheetsHandler handles print sheet endpoints.
type SheetsHandler struct {
	config *config.Config
	sheets *sheet.Manager
	store  database.PreferenceStore
}

// NewSheetsHandler creates a new sheets handler. New sheets take unset layout
// fields from the preferences in store.
func NewSheetsHandler(cfg *config.Config, sheets *sheet.Manager, store database.PreferenceStore) *SheetsHandler {
	return &SheetsHandler{
		config: cfg,
		sheets: sheets,
		store:  store,
	}
}

type sheetRequest struct {
	Title string `json:"title"`
	layoutRequest
	AllowWhitespace *bool `json:"allow_whitespace,omitempty"`
	ShowCropMarks   *bool `json:"show_crop_marks,omitempty"`
}

type sheetSummary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Paper        string    `json:"paper"`
	Rows         int       `json:"rows"`
	Columns      int       `json:"columns"`
	Placeholders int       `json:"placeholders"`
	Loaded       int       `json:"loaded"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func summarize(s *sheet.Sheet) sheetSummary {
	return sheetSummary{
		ID:           s.ID,
		Title:        s.Title,
		Paper:        s.Layout.Paper.Name,
		Rows:         s.Grid.Rows,
		Columns:      s.Grid.Columns,
		Placeholders: len(s.Placeholders),
		Loaded:       s.LoadedCount(),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// sheetPreferences expresses the current setup of s as preferences, the base
// for partial relayout requests.
func sheetPreferences(s *sheet.Sheet) preferences.Preferences {
	p := preferences.Defaults()
	if i := layout.PaperIndex(s.Layout.Paper.Name); i >= 0 {
		p.SelectedPaperSizeIndex = i
	}
	p.PictureWidth = s.Layout.PictureWidthMM
	p.PictureHeight = s.Layout.PictureHeight()
	p.Margins = s.Layout.MarginMM
	p.Spacing = s.Layout.SpacingMM
	p.PlaceholderShape = s.Layout.Shape
	p.AllowWhitespace = s.AllowWhitespace
	p.ShowCropMarks = s.ShowCropMarks
	return p
}

// List returns a summary of every sheet.
func (h *SheetsHandler) List(w http.ResponseWriter, r *http.Request) {
	sheets := h.sheets.List()
	resp := make([]sheetSummary, len(sheets))
	for i, s := range sheets {
		resp[i] = summarize(s)
	}
	respondJSON(w, http.StatusOK, resp)
}

// Create creates a sheet. Fields left out of the body come from the stored
// preferences.
func (h *SheetsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req sheetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	base := loadPreferences(r.Context(), h.store)
	cfg, err := req.config(base)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	allow := base.AllowWhitespace
	if req.AllowWhitespace != nil {
		allow = *req.AllowWhitespace
	}
	marks := base.ShowCropMarks
	if req.ShowCropMarks != nil {
		marks = *req.ShowCropMarks
	}
	title := req.Title
	if title == "" {
		title = "Untitled sheet"
	}

	s, err := h.sheets.Create(title, cfg, allow, marks)
	if err != nil {
		respondSheetError(w, err)
		return
	}
	log.Printf("Created sheet %s (%q, %d placeholders)", s.ID, sanitizeForLog(s.Title), len(s.Placeholders))
	respondJSON(w, http.StatusCreated, s)
}

// Get returns a sheet with all placeholders.
func (h *SheetsHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.sheets.Get(chi.URLParam(r, "id"))
	if err != nil {
		respondSheetError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s)
}

// Update renames a sheet, changes its layout or toggles its modes. Layout
// fields left out keep their current value.
func (h *SheetsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req sheetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	s, err := h.sheets.Update(chi.URLParam(r, "id"), func(s *sheet.Sheet) error {
		if req.Title != "" {
			s.SetTitle(req.Title)
		}
		if !req.layoutRequest.empty() {
			cfg, err := req.config(sheetPreferences(s))
			if err != nil {
				return err
			}
			if err := s.Relayout(cfg); err != nil {
				return err
			}
		}
		if req.AllowWhitespace != nil {
			s.SetAllowWhitespace(*req.AllowWhitespace)
		}
		if req.ShowCropMarks != nil {
			s.SetShowCropMarks(*req.ShowCropMarks)
		}
		return nil
	})
	if err != nil {
		respondSheetError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s)
}

// Delete removes a sheet.
func (h *SheetsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.sheets.Delete(chi.URLParam(r, "id")) {
		respondError(w, http.StatusNotFound, "sheet not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// updatePlaceholder runs fn on the sheet and answers with placeholder i.
func (h *SheetsHandler) updatePlaceholder(w http.ResponseWriter, r *http.Request, fn func(s *sheet.Sheet, i int) error) {
	i, err := indexParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s, err := h.sheets.Update(chi.URLParam(r, "id"), func(s *sheet.Sheet) error {
		return fn(s, i)
	})
	if err != nil {
		respondSheetError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.Placeholders[i])
}

// readUpload reads and decodes the multipart field "image". It writes the
// error response itself and returns nil on failure.
func (h *SheetsHandler) readUpload(w http.ResponseWriter, r *http.Request) *sheet.Image {
	limit := int64(h.config.Web.MaxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d MB", h.config.Web.MaxUploadMB))
			return nil
		}
		respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return nil
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "image file is required")
		return nil
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read image")
		return nil
	}

	img, err := sheet.DecodeImage(filepath.Base(header.Filename), data)
	if err != nil {
		log.Printf("Rejected upload %s: %v", sanitizeForLog(header.Filename), err)
		if errors.Is(err, sheet.ErrImageTooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, err.Error())
			return nil
		}
		respondError(w, http.StatusUnsupportedMediaType, err.Error())
		return nil
	}
	return img
}

// UploadImage places an uploaded image, sent as the multipart field "image",
// into a placeholder.
func (h *SheetsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	img := h.readUpload(w, r)
	if img == nil {
		return
	}
	h.updatePlaceholder(w, r, func(s *sheet.Sheet, i int) error {
		return s.LoadImage(i, img)
	})
}

// AddImage places an uploaded image into the first empty placeholder. A full
// sheet is answered with 409.
func (h *SheetsHandler) AddImage(w http.ResponseWriter, r *http.Request) {
	img := h.readUpload(w, r)
	if img == nil {
		return
	}
	var index int
	s, err := h.sheets.Update(chi.URLParam(r, "id"), func(s *sheet.Sheet) error {
		var err error
		index, err = s.AddImage(img)
		return err
	})
	if err != nil {
		respondSheetError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, s.Placeholders[index])
}

type panRequest struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// Pan moves the image in a placeholder.
func (h *SheetsHandler) Pan(w http.ResponseWriter, r *http.Request) {
	var req panRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	h.updatePlaceholder(w, r, func(s *sheet.Sheet, i int) error {
		return s.Pan(i, req.DX, req.DY)
	})
}

type placeholderZoomRequest struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	DeltaSign float64 `json:"delta_sign"`
}

// Zoom applies one zoom step in a placeholder around (x, y).
func (h *SheetsHandler) Zoom(w http.ResponseWriter, r *http.Request) {
	var req placeholderZoomRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.DeltaSign == 0 {
		respondError(w, http.StatusBadRequest, "delta_sign must be non-zero")
		return
	}
	h.updatePlaceholder(w, r, func(s *sheet.Sheet, i int) error {
		return s.Zoom(i, fit.Point{X: req.X, Y: req.Y}, req.DeltaSign)
	})
}

// Clear empties a placeholder.
func (h *SheetsHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.updatePlaceholder(w, r, func(s *sheet.Sheet, i int) error {
		return s.Clear(i)
	})
}

// Render returns the sheet as a PNG or JPEG file, or with format=report the
// print quality report only. The resolution comes from dpi, else from the
// named preset, else from the configured default preset.
func (h *SheetsHandler) Render(w http.ResponseWriter, r *http.Request) {
	s, err := h.sheets.Get(chi.URLParam(r, "id"))
	if err != nil {
		respondSheetError(w, err)
		return
	}

	q := r.URL.Query()
	preset, err := h.config.GetRenderPreset(q.Get("preset"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	dpi := float64(preset.DPI)
	if raw := q.Get("dpi"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || !(v > 0 && v <= render.MaxDPI) {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("dpi must be between 1 and %d", render.MaxDPI))
			return
		}
		dpi = v
	}

	if q.Get("format") == "report" {
		respondJSON(w, http.StatusOK, render.BuildReport(s, dpi))
		return
	}

	format, err := render.ParseFormat(q.Get("format"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	img, report, err := render.Render(r.Context(), s, render.Options{DPI: dpi})
	if err != nil {
		log.Printf("Failed to render sheet %s: %v", s.ID, err)
		respondError(w, http.StatusInternalServerError, "failed to render sheet")
		return
	}

	var buf bytes.Buffer
	if err := render.Encode(&buf, img, format, preset.Quality); err != nil {
		log.Printf("Failed to encode sheet %s: %v", s.ID, err)
		respondError(w, http.StatusInternalServerError, "failed to encode sheet")
		return
	}

	ext := format
	if format == render.FormatJPEG {
		ext = "jpg"
	}
	w.Header().Set("Content-Type", render.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sheet.Slug(s.Title)+"."+ext))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Render-Warnings", strconv.Itoa(len(report.Warnings)))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("WARNING: failed to write rendered sheet %s: %v", s.ID, err)
	}
}
