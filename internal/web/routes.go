package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/photo-grid/internal/web/handlers"
	"github.com/kozaktomas/photo-grid/internal/web/middleware"
)

func (s *Server) setupRoutes() {
	configHandler := handlers.NewConfigHandler(s.config, s.store.Name())
	layoutHandler := handlers.NewLayoutHandler(s.store)
	fitHandler := handlers.NewFitHandler()
	preferencesHandler := handlers.NewPreferencesHandler(s.store)
	sheetsHandler := handlers.NewSheetsHandler(s.config, s.sheets, s.store)

	// Health check (no auth required)
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequireToken(s.config.Web.APIToken))

		r.Get("/config", configHandler.Get)
		r.Get("/papers", layoutHandler.Papers)
		r.Post("/layout/grid", layoutHandler.Grid)

		// Stateless fit calculations
		r.Post("/fit", fitHandler.Fit)
		r.Post("/fit/clamp", fitHandler.Clamp)
		r.Post("/fit/zoom", fitHandler.Zoom)
		r.Post("/fit/min-cover-scale", fitHandler.MinCoverScale)

		// Preferences
		r.Get("/preferences", preferencesHandler.Get)
		r.Put("/preferences", preferencesHandler.Update)
		r.Delete("/preferences", preferencesHandler.Reset)

		// Sheets
		r.Get("/sheets", sheetsHandler.List)
		r.Post("/sheets", sheetsHandler.Create)
		r.Get("/sheets/{id}", sheetsHandler.Get)
		r.Put("/sheets/{id}", sheetsHandler.Update)
		r.Delete("/sheets/{id}", sheetsHandler.Delete)
		r.Get("/sheets/{id}/render", sheetsHandler.Render)
		r.Post("/sheets/{id}/images", sheetsHandler.AddImage)
		r.Put("/sheets/{id}/placeholders/{index}/image", sheetsHandler.UploadImage)
		r.Post("/sheets/{id}/placeholders/{index}/pan", sheetsHandler.Pan)
		r.Post("/sheets/{id}/placeholders/{index}/zoom", sheetsHandler.Zoom)
		r.Delete("/sheets/{id}/placeholders/{index}", sheetsHandler.Clear)
	})
}
