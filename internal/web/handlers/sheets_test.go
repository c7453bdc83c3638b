package handlers

import (
	"bytes"
	"image/png"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kozaktomas/photo-grid/internal/database/mock"
	"github.com/kozaktomas/photo-grid/internal/fit"
	"github.com/kozaktomas/photo-grid/internal/preferences"
	"github.com/kozaktomas/photo-grid/internal/render"
	"github.com/kozaktomas/photo-grid/internal/sheet"
)

func newSheetsHandler() (*SheetsHandler, *mock.MockPreferenceStore) {
	store := mock.NewMockPreferenceStore()
	return NewSheetsHandler(testConfig(), sheet.NewManager(), store), store
}

func createSheet(t *testing.T, h *SheetsHandler, body string) *sheet.Sheet {
	t.Helper()
	recorder := httptest.NewRecorder()
	h.Create(recorder, jsonRequest(http.MethodPost, "/api/v1/sheets", body))
	if recorder.Code != http.StatusCreated {
		t.Fatalf("create sheet: status %d: %s", recorder.Code, recorder.Body.String())
	}
	var s sheet.Sheet
	parseJSONResponse(t, recorder, &s)
	return &s
}

func placeholderRequest(req *http.Request, id, index string) *http.Request {
	return requestWithChiParams(req, map[string]string{"id": id, "index": index})
}

func uploadImage(t *testing.T, h *SheetsHandler, id string, w, ht int) sheet.Placeholder {
	t.Helper()
	recorder := httptest.NewRecorder()
	req := placeholderRequest(imageUpload(t, "/api/v1/sheets/"+id+"/placeholders/0/image", w, ht), id, "0")
	h.UploadImage(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("upload: status %d: %s", recorder.Code, recorder.Body.String())
	}
	var p sheet.Placeholder
	parseJSONResponse(t, recorder, &p)
	return p
}

func TestSheetsHandler_Create_FromPreferences(t *testing.T) {
	h, store := newSheetsHandler()
	store.Set(preferences.KeyAllowWhitespace, "true")
	store.Set(preferences.KeyShowCropMarks, "false")

	s := createSheet(t, h, `{"title": "Passports"}`)

	if s.ID == "" || s.Title != "Passports" {
		t.Errorf("unexpected sheet identity %q/%q", s.ID, s.Title)
	}
	if len(s.Placeholders) != 6 {
		t.Errorf("expected 6 placeholders for the default layout, got %d", len(s.Placeholders))
	}
	if !s.AllowWhitespace || s.ShowCropMarks {
		t.Errorf("expected stored toggles, got whitespace=%v marks=%v", s.AllowWhitespace, s.ShowCropMarks)
	}
}

func TestSheetsHandler_Create_BodyOverrides(t *testing.T) {
	h, _ := newSheetsHandler()

	s := createSheet(t, h, `{"paper": "A4", "allow_whitespace": true}`)

	if s.Title != "Untitled sheet" {
		t.Errorf("expected default title, got %q", s.Title)
	}
	if s.Layout.Paper.Name != "A4" || len(s.Placeholders) != 30 {
		t.Errorf("expected 30 placeholders on A4, got %d on %s", len(s.Placeholders), s.Layout.Paper.Name)
	}
	if !s.AllowWhitespace {
		t.Error("expected whitespace to be allowed")
	}
}

func TestSheetsHandler_Create_LayoutError(t *testing.T) {
	h, _ := newSheetsHandler()
	recorder := httptest.NewRecorder()

	h.Create(recorder, jsonRequest(http.MethodPost, "/api/v1/sheets", `{"picture_height": 150}`))

	assertStatusCode(t, recorder, http.StatusUnprocessableEntity)
	if len(h.sheets.List()) != 0 {
		t.Error("expected no sheet to be stored")
	}
}

func TestSheetsHandler_ListGetDelete(t *testing.T) {
	h, _ := newSheetsHandler()
	first := createSheet(t, h, `{"title": "First"}`)
	createSheet(t, h, `{"title": "Second"}`)

	recorder := httptest.NewRecorder()
	h.List(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/sheets", nil))
	assertStatusCode(t, recorder, http.StatusOK)
	var list []sheetSummary
	parseJSONResponse(t, recorder, &list)
	if len(list) != 2 || list[0].Placeholders != 6 || list[0].Loaded != 0 {
		t.Fatalf("unexpected list %+v", list)
	}

	recorder = httptest.NewRecorder()
	h.Get(recorder, requestWithChiParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": first.ID}))
	assertStatusCode(t, recorder, http.StatusOK)

	recorder = httptest.NewRecorder()
	h.Delete(recorder, requestWithChiParams(httptest.NewRequest(http.MethodDelete, "/", nil), map[string]string{"id": first.ID}))
	assertStatusCode(t, recorder, http.StatusNoContent)

	recorder = httptest.NewRecorder()
	h.Get(recorder, requestWithChiParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": first.ID}))
	assertStatusCode(t, recorder, http.StatusNotFound)
	assertJSONError(t, recorder, "sheet not found")

	recorder = httptest.NewRecorder()
	h.Delete(recorder, requestWithChiParams(httptest.NewRequest(http.MethodDelete, "/", nil), map[string]string{"id": first.ID}))
	assertStatusCode(t, recorder, http.StatusNotFound)
}

func TestSheetsHandler_Update(t *testing.T) {
	h, _ := newSheetsHandler()
	s := createSheet(t, h, `{}`)
	uploadImage(t, h, s.ID, 400, 300)

	recorder := httptest.NewRecorder()
	body := `{"title": "Square", "picture_width": 44, "picture_height": 44, "margin": 4, "show_crop_marks": false}`
	h.Update(recorder, requestWithChiParams(jsonRequest(http.MethodPut, "/", body), map[string]string{"id": s.ID}))

	assertStatusCode(t, recorder, http.StatusOK)
	var updated sheet.Sheet
	parseJSONResponse(t, recorder, &updated)
	if updated.Title != "Square" || updated.ShowCropMarks {
		t.Errorf("unexpected title/marks %q/%v", updated.Title, updated.ShowCropMarks)
	}
	if updated.Layout.PictureWidthMM != 44 || updated.Layout.SpacingMM != 2 {
		t.Errorf("expected width 44 with spacing kept at 2, got %+v", updated.Layout)
	}
	if !updated.Placeholders[0].Loaded() {
		t.Error("expected the image to survive the relayout")
	}
}

func TestSheetsHandler_Update_LayoutErrorKeepsSheet(t *testing.T) {
	h, _ := newSheetsHandler()
	s := createSheet(t, h, `{"title": "Keep"}`)

	recorder := httptest.NewRecorder()
	h.Update(recorder, requestWithChiParams(jsonRequest(http.MethodPut, "/", `{"title": "Lost", "picture_width": 200}`), map[string]string{"id": s.ID}))
	assertStatusCode(t, recorder, http.StatusUnprocessableEntity)

	stored, err := h.sheets.Get(s.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Title != "Keep" || stored.Layout.PictureWidthMM != 35 {
		t.Errorf("expected the sheet to be unchanged, got %q with width %v", stored.Title, stored.Layout.PictureWidthMM)
	}
}

func TestSheetsHandler_PlaceholderLifecycle(t *testing.T) {
	h, _ := newSheetsHandler()
	s := createSheet(t, h, `{}`)
	size := s.PlaceholderSizePx()

	p := uploadImage(t, h, s.ID, 200, 100)
	if !p.Loaded() || p.Source.Width != 200 || p.Source.Height != 100 || p.Source.Name != "portrait.png" {
		t.Fatalf("unexpected placeholder after upload %+v", p)
	}
	cover := fit.MinimumCoverScale(size, fit.Size{W: 200, H: 100})
	if math.Abs(p.State.Scale-cover) > eps {
		t.Errorf("expected cover scale %v, got %v", cover, p.State.Scale)
	}

	recorder := httptest.NewRecorder()
	h.Pan(recorder, placeholderRequest(jsonRequest(http.MethodPost, "/", `{"dx": 1000, "dy": 0}`), s.ID, "0"))
	assertStatusCode(t, recorder, http.StatusOK)
	parseJSONResponse(t, recorder, &p)
	if p.State.OffsetX != 0 {
		t.Errorf("expected pan to clamp at 0, got %v", p.State.OffsetX)
	}

	recorder = httptest.NewRecorder()
	zoom := `{"x": 10, "y": 10, "delta_sign": -1}`
	h.Zoom(recorder, placeholderRequest(jsonRequest(http.MethodPost, "/", zoom), s.ID, "0"))
	assertStatusCode(t, recorder, http.StatusOK)
	parseJSONResponse(t, recorder, &p)
	if math.Abs(p.State.Scale-cover*fit.ZoomFactor) > eps {
		t.Errorf("expected scale %v after zooming in, got %v", cover*fit.ZoomFactor, p.State.Scale)
	}

	recorder = httptest.NewRecorder()
	h.Clear(recorder, placeholderRequest(httptest.NewRequest(http.MethodDelete, "/", nil), s.ID, "0"))
	assertStatusCode(t, recorder, http.StatusOK)
	var cleared sheet.Placeholder
	parseJSONResponse(t, recorder, &cleared)
	if cleared.Loaded() {
		t.Error("expected the placeholder to be empty after clear")
	}
}

func TestSheetsHandler_PlaceholderErrors(t *testing.T) {
	h, _ := newSheetsHandler()
	s := createSheet(t, h, `{}`)

	tests := []struct {
		name   string
		id     string
		index  string
		body   string
		status int
	}{
		{"unknown sheet", "missing", "0", `{"dx": 1}`, http.StatusNotFound},
		{"index out of range", s.ID, "6", `{"dx": 1}`, http.StatusBadRequest},
		{"negative index", s.ID, "-1", `{"dx": 1}`, http.StatusBadRequest},
		{"bad index", s.ID, "x", `{"dx": 1}`, http.StatusBadRequest},
		{"empty placeholder", s.ID, "2", `{"dx": 1}`, http.StatusConflict},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			h.Pan(recorder, placeholderRequest(jsonRequest(http.MethodPost, "/", tc.body), tc.id, tc.index))
			assertStatusCode(t, recorder, tc.status)
		})
	}

	recorder := httptest.NewRecorder()
	h.Zoom(recorder, placeholderRequest(jsonRequest(http.MethodPost, "/", `{"x": 1, "y": 1}`), s.ID, "0"))
	assertStatusCode(t, recorder, http.StatusBadRequest)
	assertJSONError(t, recorder, "delta_sign must be non-zero")
}

func TestSheetsHandler_UploadImage_Invalid(t *testing.T) {
	h, _ := newSheetsHandler()
	s := createSheet(t, h, `{}`)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/", bytes.NewReader([]byte("plain")))
	req.Header.Set("Content-Type", "text/plain")
	h.UploadImage(recorder, placeholderRequest(req, s.ID, "0"))
	assertStatusCode(t, recorder, http.StatusBadRequest)

	// A valid multipart form carrying bytes that are not an image.
	recorder = httptest.NewRecorder()
	req = imageUpload(t, "/", 4, 4)
	body := new(bytes.Buffer)
	if _, err := body.ReadFrom(req.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	corrupted := bytes.Replace(body.Bytes(), []byte("\x89PNG"), []byte("XXXX"), 1)
	bad := httptest.NewRequest(http.MethodPut, "/", bytes.NewReader(corrupted))
	bad.Header.Set("Content-Type", req.Header.Get("Content-Type"))
	h.UploadImage(recorder, placeholderRequest(bad, s.ID, "0"))
	assertStatusCode(t, recorder, http.StatusUnsupportedMediaType)
}

func TestSheetsHandler_UploadImage_TooManyPixels(t *testing.T) {
	h, _ := newSheetsHandler()
	s := createSheet(t, h, `{}`)

	recorder := httptest.NewRecorder()
	req := fileUpload(t, "/", "bomb.png", oversizedPNG(t, 20000, 20000))
	h.UploadImage(recorder, placeholderRequest(req, s.ID, "0"))

	assertStatusCode(t, recorder, http.StatusRequestEntityTooLarge)
	got, err := h.sheets.Get(s.ID)
	if err != nil {
		t.Fatalf("get sheet: %v", err)
	}
	if got.LoadedCount() != 0 {
		t.Errorf("expected no image placed, got %d", got.LoadedCount())
	}
}

func TestSheetsHandler_AddImage(t *testing.T) {
	h, _ := newSheetsHandler()
	// 90x60 mm on 10x15 cm without margins leaves room for one column of two.
	s := createSheet(t, h, `{"paper": "10x15", "picture_width": 90, "picture_height": 60, "margin": 0, "spacing": 0}`)
	if len(s.Placeholders) != 2 {
		t.Fatalf("expected 2 placeholders, got %d", len(s.Placeholders))
	}

	add := func() *httptest.ResponseRecorder {
		recorder := httptest.NewRecorder()
		req := requestWithChiParams(imageUpload(t, "/", 30, 20), map[string]string{"id": s.ID})
		h.AddImage(recorder, req)
		return recorder
	}

	for want := range 2 {
		recorder := add()
		assertStatusCode(t, recorder, http.StatusCreated)
		var p sheet.Placeholder
		parseJSONResponse(t, recorder, &p)
		if p.Index != want || p.Source == nil {
			t.Errorf("expected image in placeholder %d, got %+v", want, p)
		}
	}

	recorder := add()
	assertStatusCode(t, recorder, http.StatusConflict)
	assertJSONError(t, recorder, sheet.ErrFull.Error())
}

func TestSheetsHandler_Render(t *testing.T) {
	h, _ := newSheetsHandler()
	s := createSheet(t, h, `{}`)
	uploadImage(t, h, s.ID, 200, 100)

	// 25.4 DPI makes one output pixel per millimeter.
	recorder := httptest.NewRecorder()
	h.Render(recorder, requestWithChiParams(httptest.NewRequest(http.MethodGet, "/?format=png&dpi=25.4", nil), map[string]string{"id": s.ID}))

	assertStatusCode(t, recorder, http.StatusOK)
	assertContentType(t, recorder, "image/png")
	if got := recorder.Header().Get("Content-Disposition"); got != `attachment; filename="untitled-sheet.png"` {
		t.Errorf("unexpected Content-Disposition %q", got)
	}
	if got := recorder.Header().Get("X-Render-Warnings"); got != "1" {
		t.Errorf("expected one low resolution warning, got %s", got)
	}
	img, err := png.Decode(recorder.Body)
	if err != nil {
		t.Fatalf("decode rendered png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 150 {
		t.Errorf("expected a 100x150 canvas, got %dx%d", b.Dx(), b.Dy())
	}

	recorder = httptest.NewRecorder()
	h.Render(recorder, requestWithChiParams(httptest.NewRequest(http.MethodGet, "/?format=jpg&dpi=25.4", nil), map[string]string{"id": s.ID}))
	assertStatusCode(t, recorder, http.StatusOK)
	assertContentType(t, recorder, "image/jpeg")
	if got := recorder.Header().Get("Content-Disposition"); got != `attachment; filename="untitled-sheet.jpg"` {
		t.Errorf("unexpected Content-Disposition %q", got)
	}
}

func TestSheetsHandler_Render_Report(t *testing.T) {
	h, _ := newSheetsHandler()
	s := createSheet(t, h, `{}`)
	uploadImage(t, h, s.ID, 200, 100)

	recorder := httptest.NewRecorder()
	h.Render(recorder, requestWithChiParams(httptest.NewRequest(http.MethodGet, "/?format=report&preset=photo", nil), map[string]string{"id": s.ID}))

	assertStatusCode(t, recorder, http.StatusOK)
	var report render.Report
	parseJSONResponse(t, recorder, &report)
	if report.DPI != 600 {
		t.Errorf("expected the photo preset DPI 600, got %v", report.DPI)
	}
	if report.PhotoCount != 1 || len(report.Photos) != 1 || !report.Photos[0].LowRes {
		t.Errorf("expected one low resolution photo, got %+v", report.Photos)
	}
}

func TestSheetsHandler_Render_BadRequest(t *testing.T) {
	h, _ := newSheetsHandler()
	s := createSheet(t, h, `{}`)

	tests := []struct {
		name   string
		query  string
		id     string
		status int
	}{
		{"dpi too high", "?dpi=5000", s.ID, http.StatusBadRequest},
		{"dpi not a number", "?dpi=high", s.ID, http.StatusBadRequest},
		{"dpi NaN", "?dpi=NaN", s.ID, http.StatusBadRequest},
		{"unknown format", "?format=gif", s.ID, http.StatusBadRequest},
		{"unknown preset", "?preset=bogus", s.ID, http.StatusBadRequest},
		{"unknown preset for report", "?format=report&preset=bogus", s.ID, http.StatusBadRequest},
		{"unknown sheet", "", "missing", http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			h.Render(recorder, requestWithChiParams(httptest.NewRequest(http.MethodGet, "/"+tc.query, nil), map[string]string{"id": tc.id}))
			assertStatusCode(t, recorder, tc.status)
		})
	}
}
