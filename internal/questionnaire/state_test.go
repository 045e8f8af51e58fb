package questionnaire

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/tripplanner/internal/httpclient"
)

type stubSubmitter struct {
	outcome Outcome
	err     error
	got     []Submission
}

func (s *stubSubmitter) Submit(ctx context.Context, sub Submission) (Outcome, error) {
	s.got = append(s.got, sub)
	return s.outcome, s.err
}

func answer(t *testing.T, s *State, flow *Flow, kv ...string) {
	t.Helper()
	answers := map[string][]string{}
	for i := 0; i+1 < len(kv); i += 2 {
		answers[kv[i]] = append(answers[kv[i]], kv[i+1])
	}
	require.NoError(t, s.SetAnswers(flow, answers))
}

// fillThrough answers and continues until the review step.
func fillThrough(t *testing.T, s *State, flow *Flow) {
	t.Helper()
	steps := map[string][]string{
		StepTripType:    {"trip_type", "round_trip"},
		StepDestination: {"destination", "Nice"},
		StepDates:       {"departure_date", "2026-06-10"},
		StepReturn:      {"return_date", "2026-06-17"},
		StepTravelers:   {"traveler_type", "couple", "adults", "2"},
		StepBudget:      {"budget", "moderate"},
		StepStyle:       {"travel_style", "relaxed"},
		StepInterests:   {"interests", "food", "interests", "beaches"},
		StepDietary:     {},
	}
	for s.Current(flow).Name != StepReview {
		kv, ok := steps[s.Current(flow).Name]
		require.True(t, ok, s.Current(flow).Name)
		answer(t, s, flow, kv...)
		require.NoError(t, s.Continue(flow))
	}
}

func TestContinueRequiresCompleteStep(t *testing.T) {
	flow := DefaultFlow()
	s := NewState(flow)

	assert.Equal(t, StepTripType, s.Step)
	assert.False(t, s.CanContinue(flow))
	assert.False(t, s.CanGoBack(flow))
	assert.ErrorIs(t, s.Continue(flow), ErrStepIncomplete)
	assert.ErrorIs(t, s.Previous(flow), ErrFirstStep)

	answer(t, s, flow, "trip_type", "one_way")
	assert.True(t, s.CanContinue(flow))
	require.NoError(t, s.Continue(flow))
	assert.Equal(t, StepDestination, s.Step)
	assert.True(t, s.CanGoBack(flow))

	require.NoError(t, s.Previous(flow))
	assert.Equal(t, StepTripType, s.Step)
}

func TestBranchingSteps(t *testing.T) {
	flow := DefaultFlow()
	s := NewState(flow)

	names := func() []string {
		var out []string
		for _, st := range flow.Visible(s.Answers) {
			out = append(out, st.Name)
		}
		return out
	}

	assert.NotContains(t, names(), StepReturn)
	assert.NotContains(t, names(), StepChildren)

	answer(t, s, flow, "trip_type", "round_trip")
	assert.Contains(t, names(), StepReturn)

	s.Answers["traveler_type"] = []string{"family"}
	assert.Contains(t, names(), StepChildren)
	assert.Equal(t, StepReview, names()[len(names())-1])
}

func TestGotoClampsAndRejectsOutOfRange(t *testing.T) {
	flow := DefaultFlow()
	s := NewState(flow)
	answer(t, s, flow, "trip_type", "one_way")
	require.NoError(t, s.Continue(flow))
	answer(t, s, flow, "destination", "Rome")
	require.NoError(t, s.Continue(flow))

	got, err := s.Goto(flow, 6)
	require.NoError(t, err)
	assert.Equal(t, 2, got)
	assert.Equal(t, StepDates, s.Step)

	got, err = s.Goto(flow, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	_, err = s.Goto(flow, -1)
	assert.ErrorIs(t, err, ErrStepOutOfRange)
	got, err = s.Goto(flow, 42)
	assert.ErrorIs(t, err, ErrStepOutOfRange)
	assert.Equal(t, 0, got)
	assert.Equal(t, StepTripType, s.Step)
}

func TestReachableDoesNotMove(t *testing.T) {
	flow := DefaultFlow()
	s := NewState(flow)
	answer(t, s, flow, "trip_type", "one_way")
	require.NoError(t, s.Continue(flow))

	got, err := s.Reachable(flow, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	got, err = s.Reachable(flow, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	got, err = s.Reachable(flow, 42)
	assert.ErrorIs(t, err, ErrStepOutOfRange)
	assert.Equal(t, 1, got)

	assert.Equal(t, StepDestination, s.Step)
}

func TestSetAnswersValidation(t *testing.T) {
	flow := DefaultFlow()
	s := NewState(flow)

	tests := []struct {
		name    string
		answers map[string][]string
		wantErr error
	}{
		{"field of another step", map[string][]string{"destination": {"Nice"}}, ErrUnknownField},
		{"unknown option", map[string][]string{"trip_type": {"cruise"}}, ErrInvalidAnswer},
		{"two values for single field", map[string][]string{"trip_type": {"one_way", "round_trip"}}, ErrInvalidAnswer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, s.SetAnswers(flow, tt.answers), tt.wantErr)
			assert.Empty(t, s.Answers)
		})
	}

	answer(t, s, flow, "trip_type", "one_way")
	require.NoError(t, s.Continue(flow))
	answer(t, s, flow, "destination", "Nice")
	require.NoError(t, s.Continue(flow))

	assert.ErrorIs(t, s.SetAnswers(flow, map[string][]string{"departure_date": {"10/06/2026"}}), ErrInvalidAnswer)
	require.NoError(t, s.SetAnswers(flow, map[string][]string{"departure_date": {" 2026-06-10 "}}))
	assert.Equal(t, []string{"2026-06-10"}, s.Answers["departure_date"])

	require.NoError(t, s.SetAnswers(flow, map[string][]string{"departure_date": {}}))
	assert.NotContains(t, s.Answers, "departure_date")
}

func TestSubmitFromReview(t *testing.T) {
	flow := DefaultFlow()
	s := NewState(flow)

	sub := &stubSubmitter{outcome: Outcome{Success: true, Message: "ok", Reference: "TRIP-1"}}
	_, err := s.Submit(context.Background(), flow, sub, "sess")
	assert.ErrorIs(t, err, ErrNotOnReview)

	fillThrough(t, s, flow)
	assert.False(t, s.CanContinue(flow))
	assert.ErrorIs(t, s.Continue(flow), ErrLastStep)

	out, err := s.Submit(context.Background(), flow, sub, "sess")
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, "TRIP-1", out.Reference)
	assert.False(t, out.SubmittedAt.IsZero())
	require.Len(t, sub.got, 1)
	assert.Equal(t, "sess", sub.got[0].SessionID)
	assert.Equal(t, []string{"2026-06-17"}, sub.got[0].Answers["return_date"])

	_, err = s.Submit(context.Background(), flow, sub, "sess")
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	assert.Len(t, sub.got, 1)
}

func TestSubmitFailureIsRecorded(t *testing.T) {
	flow := DefaultFlow()
	s := NewState(flow)
	fillThrough(t, s, flow)

	failing := &stubSubmitter{err: errors.New("connection refused")}
	out, err := s.Submit(context.Background(), flow, failing, "sess")
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Contains(t, out.Message, "connection refused")

	ok := &stubSubmitter{outcome: Outcome{Success: true}}
	out, err = s.Submit(context.Background(), flow, ok, "sess")
	require.NoError(t, err)
	assert.True(t, out.Success)
}

func TestSubmitBlockedByIncompleteStep(t *testing.T) {
	flow := DefaultFlow()
	s := NewState(flow)
	fillThrough(t, s, flow)

	// Switching traveler type reveals the unanswered children step.
	s.Answers["traveler_type"] = []string{"family"}
	_, err := s.Submit(context.Background(), flow, &stubSubmitter{}, "sess")
	assert.ErrorIs(t, err, ErrStepIncomplete)
}

func TestHiddenAnswersAreNotSubmittedAndMapToProfile(t *testing.T) {
	flow := DefaultFlow()
	s := NewState(flow)
	fillThrough(t, s, flow)
	s.Answers["children_ages"] = []string{"4"}

	answers := s.VisibleAnswers(flow)
	assert.NotContains(t, answers, "children_ages")

	patch := s.ProfilePatch(flow)
	require.NotNil(t, patch.TravelStyle)
	assert.Equal(t, "relaxed", *patch.TravelStyle)
	require.NotNil(t, patch.Interests)
	assert.ElementsMatch(t, []string{"food", "beaches"}, *patch.Interests)
	assert.Nil(t, patch.MustHaves)
}

func TestHTTPSubmitter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sub Submission
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sub))
		assert.Equal(t, "sess", sub.SessionID)
		_, _ = w.Write([]byte(`{"success":true,"message":"received","reference":"Q-77"}`))
	}))
	defer srv.Close()

	h := NewHTTPSubmitter(srv.URL, httpclient.New(httpclient.Config{Timeout: time.Second}), nil)
	out, err := h.Submit(context.Background(), Submission{SessionID: "sess", Answers: map[string][]string{"a": {"b"}}})
	require.NoError(t, err)
	assert.Equal(t, Outcome{Success: true, Message: "received", Reference: "Q-77"}, out)
}

func TestDefaultFlowIsValid(t *testing.T) {
	assert.NoError(t, DefaultFlow().Validate())
	assert.Error(t, (&Flow{}).Validate())
	assert.Error(t, (&Flow{Steps: []Step{{Name: StepTripType}}}).Validate())
}
