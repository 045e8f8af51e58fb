package handler

import (
	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Search        *SearchHandler
	Locations     *LocationHandler
	Sessions      *SessionHandler
	Trip          *TripHandler
	Preferences   *PreferenceHandler
	Questionnaire *QuestionnaireHandler
	Health        *HealthHandler
}

// RegisterRoutes mounts the planner API under /api/v1 and the health check
// at /health.
func RegisterRoutes(e *echo.Echo, h Handlers) {
	e.GET("/health", h.Health.Health)

	api := e.Group("/api/v1")

	api.POST("/flights/search", h.Search.Search)
	api.POST("/flights/search/stream", h.Search.Stream)

	api.GET("/locations/resolve", h.Locations.Resolve)
	api.GET("/locations/cities/:id/resolve", h.Locations.ResolveCity)
	api.GET("/locations/airports/:iata", h.Locations.Airport)
	api.GET("/locations/default-origin", h.Locations.DefaultOrigin)

	api.GET("/preferences/presets", h.Preferences.Presets)

	api.POST("/sessions", h.Sessions.Create)
	sessions := api.Group("/sessions/:id")
	sessions.GET("", h.Sessions.Get)
	sessions.DELETE("", h.Sessions.Delete)

	sessions.PUT("/trip", h.Trip.Put)
	sessions.POST("/trip/selection", h.Trip.Select)
	sessions.DELETE("/trip/selection/:leg", h.Trip.ClearSelection)
	sessions.PUT("/trip/viewing", h.Trip.View)

	sessions.GET("/preferences", h.Preferences.Get)
	sessions.PATCH("/preferences", h.Preferences.Patch)
	sessions.POST("/preferences/chat", h.Preferences.Chat)
	sessions.POST("/preferences/presets/:preset", h.Preferences.ApplyPreset)
	sessions.POST("/preferences/conflicts/:field/apply", h.Preferences.ApplyConflict)
	sessions.POST("/preferences/conflicts/:field/dismiss", h.Preferences.DismissConflict)
	sessions.GET("/preferences/summary", h.Preferences.Summary)

	sessions.GET("/questionnaire", h.Questionnaire.Get)
	sessions.GET("/questionnaire/steps/:index", h.Questionnaire.Step)
	sessions.PUT("/questionnaire/step", h.Questionnaire.Navigate)
	sessions.PUT("/questionnaire/answers", h.Questionnaire.Answers)
	sessions.POST("/questionnaire/continue", h.Questionnaire.Continue)
	sessions.POST("/questionnaire/previous", h.Questionnaire.Previous)
	sessions.POST("/questionnaire/submit", h.Questionnaire.Submit)
}
