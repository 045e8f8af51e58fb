package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/tripplanner/internal/preferences"
	"github.com/dharmasatrya/tripplanner/internal/questionnaire"
	"github.com/dharmasatrya/tripplanner/internal/session"
	"github.com/dharmasatrya/tripplanner/pkg/logger"
)

type QuestionnaireHandler struct {
	sessions   *session.Manager
	submitter  questionnaire.Submitter
	summarizer *preferences.Summarizer
	log        *logger.Logger
}

func NewQuestionnaireHandler(sessions *session.Manager, submitter questionnaire.Submitter, summarizer *preferences.Summarizer, log *logger.Logger) *QuestionnaireHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &QuestionnaireHandler{
		sessions:   sessions,
		submitter:  submitter,
		summarizer: summarizer,
		log:        log,
	}
}

type answersRequest struct {
	Answers map[string][]string `json:"answers"`
}

type submitResponse struct {
	Outcome       *questionnaire.Outcome `json:"outcome"`
	Questionnaire questionnaireView      `json:"questionnaire"`
}

func (h *QuestionnaireHandler) Get(c echo.Context) error {
	s, err := h.sessions.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newQuestionnaireView(s.Questionnaire, h.sessions.Flow()))
}

type stepView struct {
	Index    int                 `json:"index"`
	Step     questionnaire.Step  `json:"step"`
	Answers  map[string][]string `json:"answers"`
	Complete bool                `json:"complete"`
	Current  bool                `json:"current"`
}

type navigateRequest struct {
	Index int `json:"index"`
}

// Step shows one step without moving the user. Indexes out of range, or
// beyond the first incomplete step, redirect to the step a jump would land
// on.
func (h *QuestionnaireHandler) Step(c echo.Context) error {
	requested, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return badRequest(c, err)
	}

	s, err := h.sessions.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	flow := h.sessions.Flow()
	st := s.Questionnaire
	// An out-of-range index resolves to the current step.
	landed, _ := st.Reachable(flow, requested)
	if landed != requested {
		return c.Redirect(http.StatusSeeOther, stepPath(s.ID, landed))
	}

	step := flow.Visible(st.Answers)[landed]
	answers := make(map[string][]string, len(step.Fields))
	for _, f := range step.Fields {
		if v, ok := st.Answers[f.Name]; ok {
			answers[f.Name] = v
		}
	}
	return c.JSON(http.StatusOK, stepView{
		Index:    landed,
		Step:     step,
		Answers:  answers,
		Complete: step.Complete(st.Answers),
		Current:  landed == st.Index(flow),
	})
}

// Navigate moves the user to a step by index. Jumps past the first
// incomplete step land on it; an index out of range redirects to the
// current step.
func (h *QuestionnaireHandler) Navigate(c echo.Context) error {
	var req navigateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	flow := h.sessions.Flow()
	var outOfRange bool
	s, err := h.sessions.Update(c.Request().Context(), c.Param("id"), func(s *session.Session) error {
		_, err := s.Questionnaire.Goto(flow, req.Index)
		outOfRange = errors.Is(err, questionnaire.ErrStepOutOfRange)
		return nil
	})
	if err != nil {
		return respondError(c, err)
	}
	if outOfRange {
		return c.Redirect(http.StatusSeeOther, stepPath(s.ID, s.Questionnaire.Index(flow)))
	}
	return c.JSON(http.StatusOK, newQuestionnaireView(s.Questionnaire, flow))
}

func stepPath(sessionID string, index int) string {
	return fmt.Sprintf("/api/v1/sessions/%s/questionnaire/steps/%d", sessionID, index)
}

func (h *QuestionnaireHandler) Answers(c echo.Context) error {
	var req answersRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	return h.mutate(c, func(st *questionnaire.State, flow *questionnaire.Flow) error {
		return st.SetAnswers(flow, req.Answers)
	})
}

func (h *QuestionnaireHandler) Continue(c echo.Context) error {
	return h.mutate(c, func(st *questionnaire.State, flow *questionnaire.Flow) error {
		return st.Continue(flow)
	})
}

func (h *QuestionnaireHandler) Previous(c echo.Context) error {
	return h.mutate(c, func(st *questionnaire.State, flow *questionnaire.Flow) error {
		return st.Previous(flow)
	})
}

func (h *QuestionnaireHandler) mutate(c echo.Context, fn func(st *questionnaire.State, flow *questionnaire.Flow) error) error {
	flow := h.sessions.Flow()
	s, err := h.sessions.Update(c.Request().Context(), c.Param("id"), func(s *session.Session) error {
		return fn(s.Questionnaire, flow)
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newQuestionnaireView(s.Questionnaire, flow))
}

// Submit delivers the answers from the review step. A successful delivery
// also copies the travel style, interests and dietary answers into the
// preference profile as manual values.
func (h *QuestionnaireHandler) Submit(c echo.Context) error {
	ctx := c.Request().Context()
	flow := h.sessions.Flow()

	var outcome *questionnaire.Outcome
	profileChanged := false
	s, err := h.sessions.Update(ctx, c.Param("id"), func(s *session.Session) error {
		var err error
		outcome, err = s.Questionnaire.Submit(ctx, flow, h.submitter, s.ID)
		if err != nil {
			return err
		}
		if !outcome.Success {
			h.log.Warn("questionnaire submission rejected", "session_id", s.ID, "message", outcome.Message)
			return nil
		}
		patch := s.Questionnaire.ProfilePatch(flow)
		if patch.IsEmpty() {
			return nil
		}
		events, err := s.Memory.Update(patch, preferences.SourceManual)
		if err != nil {
			h.log.Warn("questionnaire answers not applied to profile", "session_id", s.ID, "error", err)
			return nil
		}
		profileChanged = changed(events)
		return nil
	})
	if err != nil {
		return respondError(c, err)
	}

	if profileChanged && h.summarizer != nil {
		h.summarizer.Request(s.ID, s.Memory.Profile)
	}

	status := http.StatusOK
	if !outcome.Success {
		status = http.StatusBadGateway
	}
	return c.JSON(status, submitResponse{Outcome: outcome, Questionnaire: newQuestionnaireView(s.Questionnaire, flow)})
}
