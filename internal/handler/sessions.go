package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/tripplanner/internal/preferences"
	"github.com/dharmasatrya/tripplanner/internal/questionnaire"
	"github.com/dharmasatrya/tripplanner/internal/session"
	"github.com/dharmasatrya/tripplanner/internal/trip"
)

type SessionHandler struct {
	sessions *session.Manager
}

func NewSessionHandler(sessions *session.Manager) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type sessionView struct {
	ID            string            `json:"id"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	Preferences   preferencesView   `json:"preferences"`
	Questionnaire questionnaireView `json:"questionnaire"`
	Trip          tripView          `json:"trip"`
}

type preferencesView struct {
	Profile         preferences.Profile           `json:"profile"`
	Sources         map[string]preferences.Source `json:"sources"`
	Conflicts       []preferences.Conflict        `json:"conflicts"`
	Summary         string                        `json:"summary,omitempty"`
	Revision        int                           `json:"revision"`
	Completion      int                           `json:"completion"`
	NeedsOnboarding bool                          `json:"needs_onboarding"`
}

type questionnaireView struct {
	Step            string                 `json:"step"`
	Index           int                    `json:"index"`
	Steps           []questionnaire.Step   `json:"steps"`
	Answers         map[string][]string    `json:"answers"`
	FirstIncomplete int                    `json:"first_incomplete"`
	CanContinue     bool                   `json:"can_continue"`
	CanGoBack       bool                   `json:"can_go_back"`
	Outcome         *questionnaire.Outcome `json:"outcome,omitempty"`
}

type tripView struct {
	*trip.Plan
	Ready    bool        `json:"ready"`
	Complete bool        `json:"complete"`
	Total    *priceTotal `json:"total,omitempty"`
}

type priceTotal struct {
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Formatted string  `json:"formatted"`
	Travelers int     `json:"travelers"`
}

func newSessionView(s *session.Session, flow *questionnaire.Flow) sessionView {
	return sessionView{
		ID:            s.ID,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
		Preferences:   newPreferencesView(s.Memory),
		Questionnaire: newQuestionnaireView(s.Questionnaire, flow),
		Trip:          newTripView(s.Trip),
	}
}

func newPreferencesView(m *preferences.Memory) preferencesView {
	return preferencesView{
		Profile:         m.Profile,
		Sources:         m.Sources,
		Conflicts:       m.PendingConflicts(),
		Summary:         m.Summary,
		Revision:        m.Revision,
		Completion:      m.Profile.Completion(),
		NeedsOnboarding: m.Profile.NeedsOnboarding(),
	}
}

func newQuestionnaireView(st *questionnaire.State, flow *questionnaire.Flow) questionnaireView {
	return questionnaireView{
		Step:            st.Current(flow).Name,
		Index:           st.Index(flow),
		Steps:           flow.Visible(st.Answers),
		Answers:         st.Answers,
		FirstIncomplete: st.FirstIncomplete(flow),
		CanContinue:     st.CanContinue(flow),
		CanGoBack:       st.CanGoBack(flow),
		Outcome:         st.Outcome,
	}
}

func newTripView(p *trip.Plan) tripView {
	v := tripView{
		Plan:     p,
		Ready:    p.Ready(),
		Complete: p.Selection.Complete(),
	}
	travelers := p.Passengers.Travelers()
	if price, err := p.Selection.Total(travelers); err == nil {
		v.Total = &priceTotal{
			Amount:    price.Amount,
			Currency:  price.Currency,
			Formatted: price.Formatted,
			Travelers: travelers,
		}
	}
	return v
}

func (h *SessionHandler) Create(c echo.Context) error {
	s, err := h.sessions.Create(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, newSessionView(s, h.sessions.Flow()))
}

func (h *SessionHandler) Get(c echo.Context) error {
	s, err := h.sessions.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newSessionView(s, h.sessions.Flow()))
}

func (h *SessionHandler) Delete(c echo.Context) error {
	if err := h.sessions.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
