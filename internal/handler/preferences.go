package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/tripplanner/internal/preferences"
	"github.com/dharmasatrya/tripplanner/internal/session"
	"github.com/dharmasatrya/tripplanner/pkg/logger"
)

type PreferenceHandler struct {
	sessions   *session.Manager
	summarizer *preferences.Summarizer
	extractor  *preferences.Extractor
	log        *logger.Logger
}

// NewPreferenceHandler wires the preference endpoints. summarizer and
// extractor may be nil when no text generation backend is configured.
func NewPreferenceHandler(sessions *session.Manager, summarizer *preferences.Summarizer, extractor *preferences.Extractor, log *logger.Logger) *PreferenceHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &PreferenceHandler{
		sessions:   sessions,
		summarizer: summarizer,
		extractor:  extractor,
		log:        log,
	}
}

type preferencesUpdate struct {
	Events      []preferences.Event `json:"events"`
	Preferences preferencesView     `json:"preferences"`
}

type chatRequest struct {
	Message string `json:"message"`
}

func (h *PreferenceHandler) Get(c echo.Context) error {
	s, err := h.sessions.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newPreferencesView(s.Memory))
}

// Patch applies a manual edit. Manual values always win and clear any
// pending conflict on the same field.
func (h *PreferenceHandler) Patch(c echo.Context) error {
	var patch preferences.Patch
	if err := c.Bind(&patch); err != nil {
		return badRequest(c, err)
	}
	return h.update(c, patch, preferences.SourceManual)
}

// Chat extracts preferences from a chat message and applies them as chat
// suggestions. Extraction failures yield no changes.
func (h *PreferenceHandler) Chat(c echo.Context) error {
	if h.extractor == nil {
		return respondError(c, errChatUnavailable)
	}
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	patch, err := h.extractor.Extract(c.Request().Context(), req.Message)
	if err != nil {
		h.log.Warn("chat preference extraction failed", "session_id", c.Param("id"), "error", err)
		patch = preferences.Patch{}
	}
	return h.update(c, patch, preferences.SourceChat)
}

// ApplyPreset applies an onboarding preset as a manual edit.
func (h *PreferenceHandler) ApplyPreset(c echo.Context) error {
	preset, ok := preferences.PresetByID(c.Param("preset"))
	if !ok {
		return c.JSON(http.StatusNotFound, errorBody(http.StatusNotFound, "preset_not_found", "unknown preset "+c.Param("preset")))
	}
	return h.update(c, preset.Patch, preferences.SourceManual)
}

func (h *PreferenceHandler) update(c echo.Context, patch preferences.Patch, source preferences.Source) error {
	var events []preferences.Event
	s, err := h.sessions.Update(c.Request().Context(), c.Param("id"), func(s *session.Session) error {
		var err error
		events, err = s.Memory.Update(patch, source)
		return err
	})
	if err != nil {
		return respondError(c, err)
	}
	if changed(events) {
		h.requestSummary(s)
	}
	if events == nil {
		events = []preferences.Event{}
	}
	return c.JSON(http.StatusOK, preferencesUpdate{Events: events, Preferences: newPreferencesView(s.Memory)})
}

// ApplyConflict accepts the chat suggestion parked on :field.
func (h *PreferenceHandler) ApplyConflict(c echo.Context) error {
	field := c.Param("field")
	var event preferences.Event
	s, err := h.sessions.Update(c.Request().Context(), c.Param("id"), func(s *session.Session) error {
		var err error
		event, err = s.Memory.Apply(field)
		return err
	})
	if err != nil {
		return respondError(c, err)
	}
	h.requestSummary(s)
	return c.JSON(http.StatusOK, preferencesUpdate{Events: []preferences.Event{event}, Preferences: newPreferencesView(s.Memory)})
}

// DismissConflict keeps the user's value on :field.
func (h *PreferenceHandler) DismissConflict(c echo.Context) error {
	field := c.Param("field")
	s, err := h.sessions.Update(c.Request().Context(), c.Param("id"), func(s *session.Session) error {
		return s.Memory.Dismiss(field)
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newPreferencesView(s.Memory))
}

func (h *PreferenceHandler) Summary(c echo.Context) error {
	s, err := h.sessions.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"summary":  s.Memory.Summary,
		"revision": s.Memory.Revision,
	})
}

func (h *PreferenceHandler) Presets(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"presets":       preferences.Presets(),
		"travel_styles": preferences.TravelStyles(),
	})
}

func (h *PreferenceHandler) requestSummary(s *session.Session) {
	if h.summarizer != nil {
		h.summarizer.Request(s.ID, s.Memory.Profile)
	}
}

func changed(events []preferences.Event) bool {
	for _, e := range events {
		if e.Type != preferences.EventConflictDetected {
			return true
		}
	}
	return false
}
