package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/tripplanner/internal/questionnaire"
)

func (s *testServer) answerAndContinue(t *testing.T, id string, answers map[string][]string) questionnaireView {
	t.Helper()
	base := "/api/v1/sessions/" + id + "/questionnaire"

	rec := s.do(t, http.MethodPut, base+"/answers", answersRequest{Answers: answers})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, base+"/continue", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var view questionnaireView
	decode(t, rec, &view)
	return view
}

func TestQuestionnaire_GateAndSubmit(t *testing.T) {
	srv := newTestServer(t, "")
	id := srv.createSession(t)
	base := "/api/v1/sessions/" + id + "/questionnaire"

	rec := srv.do(t, http.MethodPost, base+"/continue", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "step_incomplete", errorCode(t, rec))

	rec = srv.do(t, http.MethodPost, base+"/previous", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	view := srv.answerAndContinue(t, id, map[string][]string{"trip_type": {"one_way"}})
	assert.Equal(t, questionnaire.StepDestination, view.Step)
	assert.True(t, view.CanGoBack)

	rec = srv.do(t, http.MethodPut, base+"/answers", answersRequest{Answers: map[string][]string{"trip_type": {"round_trip"}}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_answer", errorCode(t, rec))

	srv.answerAndContinue(t, id, map[string][]string{"destination": {"Nice"}})
	view = srv.answerAndContinue(t, id, map[string][]string{"departure_date": {"2031-06-10"}})
	assert.Equal(t, questionnaire.StepTravelers, view.Step, "return step is hidden for one-way trips")

	srv.answerAndContinue(t, id, map[string][]string{"traveler_type": {"couple"}, "adults": {"2"}})
	srv.answerAndContinue(t, id, map[string][]string{"budget": {"moderate"}})
	srv.answerAndContinue(t, id, map[string][]string{"travel_style": {"cultural"}})
	srv.answerAndContinue(t, id, map[string][]string{"interests": {"museums", "food"}})
	view = srv.answerAndContinue(t, id, map[string][]string{"dietary_restrictions": {"vegetarian"}})
	require.Equal(t, questionnaire.StepReview, view.Step)

	rec = srv.do(t, http.MethodPost, base+"/submit", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var submitted submitResponse
	decode(t, rec, &submitted)
	require.NotNil(t, submitted.Outcome)
	assert.True(t, submitted.Outcome.Success)
	assert.True(t, strings.HasPrefix(submitted.Outcome.Reference, "local-"))

	rec = srv.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/preferences", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var prefs preferencesView
	decode(t, rec, &prefs)
	assert.Equal(t, "cultural", prefs.Profile.TravelStyle)
	assert.Equal(t, []string{"food", "museums"}, prefs.Profile.Interests)
	assert.Equal(t, []string{"vegetarian"}, prefs.Profile.DietaryRestrictions)

	rec = srv.do(t, http.MethodPost, base+"/submit", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "already_submitted", errorCode(t, rec))
}

func TestQuestionnaire_StepNavigation(t *testing.T) {
	srv := newTestServer(t, "")
	id := srv.createSession(t)
	base := "/api/v1/sessions/" + id + "/questionnaire"

	t.Run("out of range redirects to current step", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, base+"/steps/42", nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, base+"/steps/0", rec.Header().Get("Location"))
	})

	t.Run("skipping ahead lands on first incomplete step", func(t *testing.T) {
		srv.answerAndContinue(t, id, map[string][]string{"trip_type": {"one_way"}})

		rec := srv.do(t, http.MethodGet, base+"/steps/4", nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, base+"/steps/1", rec.Header().Get("Location"))
	})

	t.Run("viewing an earlier step does not move the user", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, base+"/steps/0", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var step stepView
		decode(t, rec, &step)
		assert.Equal(t, 0, step.Index)
		assert.Equal(t, questionnaire.StepTripType, step.Step.Name)
		assert.Equal(t, []string{"one_way"}, step.Answers["trip_type"])
		assert.True(t, step.Complete)
		assert.False(t, step.Current)

		rec = srv.do(t, http.MethodGet, base, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var view questionnaireView
		decode(t, rec, &view)
		assert.Equal(t, questionnaire.StepDestination, view.Step)
	})

	t.Run("navigating moves the user", func(t *testing.T) {
		rec := srv.do(t, http.MethodPut, base+"/step", navigateRequest{Index: 4})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var view questionnaireView
		decode(t, rec, &view)
		assert.Equal(t, 1, view.Index, "jumps stop at the first incomplete step")

		rec = srv.do(t, http.MethodPut, base+"/step", navigateRequest{Index: 0})
		require.Equal(t, http.StatusOK, rec.Code)
		decode(t, rec, &view)
		assert.Equal(t, 0, view.Index)
		assert.Equal(t, questionnaire.StepTripType, view.Step)

		rec = srv.do(t, http.MethodPut, base+"/step", navigateRequest{Index: 42})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, base+"/steps/0", rec.Header().Get("Location"))
	})

	t.Run("not a number", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, base+"/steps/next", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("submit before review", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, base+"/submit", nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "step_navigation", errorCode(t, rec))
	})
}
