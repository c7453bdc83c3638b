package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kozaktomas/photo-grid/internal/database"
	"github.com/kozaktomas/photo-grid/internal/database/mock"
	"github.com/kozaktomas/photo-grid/internal/layout"
)

func TestConfigHandler_Get(t *testing.T) {
	database.ResetForTesting()
	defer database.ResetForTesting()
	store := mock.NewMockPreferenceStore()
	database.RegisterPreferenceStore("mock", func() database.PreferenceStore { return store })

	cfg := testConfig()
	handler := NewConfigHandler(cfg, "mock")
	recorder := httptest.NewRecorder()

	handler.Get(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/config", nil))

	assertStatusCode(t, recorder, http.StatusOK)
	assertContentType(t, recorder, "application/json")

	var result ConfigResponse
	parseJSONResponse(t, recorder, &result)
	if result.PreferenceBackend != "mock" {
		t.Errorf("expected backend 'mock', got '%s'", result.PreferenceBackend)
	}
	if len(result.RegisteredBackends) != 1 || result.RegisteredBackends[0] != "mock" {
		t.Errorf("expected registered backends [mock], got %v", result.RegisteredBackends)
	}
	if len(result.Papers) != len(layout.PaperSizes()) {
		t.Errorf("expected %d papers, got %d", len(layout.PaperSizes()), len(result.Papers))
	}
	if result.ScreenDPI != 96 || result.LowResThresholdDPI != 200 || result.MaxDPI != 1200 {
		t.Errorf("unexpected DPI constants %+v", result)
	}
	if result.MaxUploadMB != 5 {
		t.Errorf("expected upload limit 5, got %d", result.MaxUploadMB)
	}
	if _, ok := result.Presets["print"]; !ok {
		t.Errorf("expected the print preset, got %v", result.Presets)
	}
}
