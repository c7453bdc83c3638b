package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/kozaktomas/photo-grid/internal/database"
	"github.com/kozaktomas/photo-grid/internal/preferences"
)

// PreferencesHandler handles the stored sheet setup.
type PreferencesHandler struct {
	store database.PreferenceStore
}

// NewPreferencesHandler creates a new preferences handler.
func NewPreferencesHandler(store database.PreferenceStore) *PreferencesHandler {
	return &PreferencesHandler{store: store}
}

// Get returns the stored preferences merged over the defaults.
func (h *PreferencesHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := preferences.Load(r.Context(), h.store)
	if err != nil {
		log.Printf("Failed to load preferences: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load preferences")
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// Update changes the keys present in the body and saves the result. The body
// is a JSON object keyed like the stored preferences.
func (h *PreferencesHandler) Update(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var values map[string]any
	if err := dec.Decode(&values); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	current, err := preferences.Load(r.Context(), h.store)
	if err != nil {
		log.Printf("Failed to load preferences: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load preferences")
		return
	}

	next, err := preferences.Update(current, values)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := next.Layout(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := preferences.Save(r.Context(), h.store, next); err != nil {
		log.Printf("Failed to save preferences: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to save preferences")
		return
	}
	respondJSON(w, http.StatusOK, next)
}

// Reset deletes the stored preferences and returns the defaults.
func (h *PreferencesHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Reset(r.Context()); err != nil {
		log.Printf("Failed to reset preferences in %s: %v", h.store.Name(), err)
		respondError(w, http.StatusInternalServerError, "failed to reset preferences")
		return
	}
	respondJSON(w, http.StatusOK, preferences.Defaults())
}
