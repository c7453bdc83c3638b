package handlers

import (
	"net/http"

	"github.com/kozaktomas/photo-grid/internal/config"
	"github.com/kozaktomas/photo-grid/internal/database"
	"github.com/kozaktomas/photo-grid/internal/fit"
	"github.com/kozaktomas/photo-grid/internal/layout"
	"github.com/kozaktomas/photo-grid/internal/render"
)

// ConfigHandler handles configuration endpoints
type ConfigHandler struct {
	config  *config.Config
	backend string
}

// NewConfigHandler creates a new config handler. backend names the active
// preference store.
func NewConfigHandler(cfg *config.Config, backend string) *ConfigHandler {
	return &ConfigHandler{
		config:  cfg,
		backend: backend,
	}
}

// ConfigResponse represents the configuration response
type ConfigResponse struct {
	Papers             []layout.PaperSize             `json:"papers"`
	ScreenDPI          float64                        `json:"screen_dpi"`
	PrintDPI           float64                        `json:"print_dpi"`
	MaxDPI             int                            `json:"max_dpi"`
	LowResThresholdDPI int                            `json:"low_res_threshold_dpi"`
	ZoomFactor         float64                        `json:"zoom_factor"`
	PreferenceBackend  string                         `json:"preference_backend"`
	RegisteredBackends []string                       `json:"registered_backends"`
	MaxUploadMB        int                            `json:"max_upload_mb"`
	DefaultPreset      string                         `json:"default_preset"`
	Presets            map[string]config.RenderPreset `json:"presets"`
}

// Get returns the available configuration
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	presets := h.config.Presets.Presets
	if presets == nil {
		presets = map[string]config.RenderPreset{}
	}

	respondJSON(w, http.StatusOK, ConfigResponse{
		Papers:             layout.PaperSizes(),
		ScreenDPI:          layout.ScreenDPI,
		PrintDPI:           layout.PrintDPI,
		MaxDPI:             render.MaxDPI,
		LowResThresholdDPI: fit.LowResThresholdDPI,
		ZoomFactor:         fit.ZoomFactor,
		PreferenceBackend:  h.backend,
		RegisteredBackends: database.RegisteredBackends(),
		MaxUploadMB:        h.config.Web.MaxUploadMB,
		DefaultPreset:      h.config.Render.Preset,
		Presets:            presets,
	})
}
