package questionnaire

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dharmasatrya/tripplanner/internal/models"
	"github.com/dharmasatrya/tripplanner/internal/preferences"
)

var (
	ErrStepIncomplete   = errors.New("current step has unanswered required fields")
	ErrStepOutOfRange   = errors.New("step index out of range")
	ErrFirstStep        = errors.New("already on the first step")
	ErrLastStep         = errors.New("already on the last step")
	ErrNotOnReview      = errors.New("answers can only be submitted from the review step")
	ErrAlreadySubmitted = errors.New("questionnaire already submitted")
	ErrUnknownField     = errors.New("field does not belong to the current step")
	ErrInvalidAnswer    = errors.New("invalid answer")
)

// Outcome is the submission endpoint's verdict.
type Outcome struct {
	Success     bool      `json:"success"`
	Message     string    `json:"message"`
	Reference   string    `json:"reference,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// State is one session's progress through a Flow. Step names the current
// step so branching answers cannot silently move the user.
type State struct {
	Step    string              `json:"step"`
	Answers map[string][]string `json:"answers"`
	Outcome *Outcome            `json:"outcome,omitempty"`
}

func NewState(flow *Flow) *State {
	s := &State{Answers: make(map[string][]string)}
	if visible := flow.Visible(s.Answers); len(visible) > 0 {
		s.Step = visible[0].Name
	}
	return s
}

// Index returns the position of the current step among visible steps. A
// current step that is no longer visible resolves to the first incomplete
// one.
func (s *State) Index(flow *Flow) int {
	visible := flow.Visible(s.Answers)
	for i, step := range visible {
		if step.Name == s.Step {
			return i
		}
	}
	return s.FirstIncomplete(flow)
}

func (s *State) Current(flow *Flow) Step {
	return flow.Visible(s.Answers)[s.Index(flow)]
}

// FirstIncomplete is the lowest visible step index with missing required
// answers, or the review step when everything is answered.
func (s *State) FirstIncomplete(flow *Flow) int {
	visible := flow.Visible(s.Answers)
	for i, step := range visible {
		if !step.Complete(s.Answers) {
			return i
		}
	}
	return len(visible) - 1
}

func (s *State) CanContinue(flow *Flow) bool {
	visible := flow.Visible(s.Answers)
	i := s.Index(flow)
	return i < len(visible)-1 && visible[i].Complete(s.Answers)
}

func (s *State) CanGoBack(flow *Flow) bool {
	return s.Index(flow) > 0
}

func (s *State) Continue(flow *Flow) error {
	visible := flow.Visible(s.Answers)
	i := s.Index(flow)
	if i >= len(visible)-1 {
		return ErrLastStep
	}
	if !visible[i].Complete(s.Answers) {
		return fmt.Errorf("%w: %s", ErrStepIncomplete, visible[i].Name)
	}
	s.Step = visible[i+1].Name
	return nil
}

func (s *State) Previous(flow *Flow) error {
	i := s.Index(flow)
	if i == 0 {
		return ErrFirstStep
	}
	s.Step = flow.Visible(s.Answers)[i-1].Name
	return nil
}

// Reachable reports where a jump to visible step index would land without
// moving the user: past the first incomplete step it lands on that step, out
// of range it stays on the current one.
func (s *State) Reachable(flow *Flow, index int) (int, error) {
	visible := flow.Visible(s.Answers)
	if index < 0 || index >= len(visible) {
		return s.Index(flow), fmt.Errorf("%w: %d", ErrStepOutOfRange, index)
	}
	if first := s.FirstIncomplete(flow); index > first {
		index = first
	}
	return index, nil
}

// Goto moves to the step Reachable picks and returns its index.
func (s *State) Goto(flow *Flow, index int) (int, error) {
	landed, err := s.Reachable(flow, index)
	if err != nil {
		return landed, err
	}
	s.Step = flow.Visible(s.Answers)[landed].Name
	return landed, nil
}

// SetAnswers records answers for fields of the current step. An empty list
// clears a field. Nothing is written if any answer is invalid.
func (s *State) SetAnswers(flow *Flow, answers map[string][]string) error {
	if s.Answers == nil {
		s.Answers = make(map[string][]string)
	}
	step := s.Current(flow)

	cleaned := make(map[string][]string, len(answers))
	for name, values := range answers {
		field, ok := step.field(name)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownField, name)
		}
		values = normalizeValues(values)
		if err := validateAnswer(field, values); err != nil {
			return err
		}
		cleaned[name] = values
	}

	for name, values := range cleaned {
		if len(values) == 0 {
			delete(s.Answers, name)
			continue
		}
		s.Answers[name] = values
	}
	return nil
}

func validateAnswer(f Field, values []string) error {
	if !f.Multiple && len(values) > 1 {
		return fmt.Errorf("%w: %s takes a single value", ErrInvalidAnswer, f.Name)
	}
	if f.MaxItems > 0 && len(values) > f.MaxItems {
		return fmt.Errorf("%w: %s takes at most %d values", ErrInvalidAnswer, f.Name, f.MaxItems)
	}
	for _, v := range values {
		switch f.Kind {
		case KindChoice:
			if !contains(f.Options, v) {
				return fmt.Errorf("%w: %s is not an option for %s", ErrInvalidAnswer, v, f.Name)
			}
		case KindDate:
			if _, err := models.ParseDate(v); err != nil {
				return fmt.Errorf("%w: %s must be YYYY-MM-DD", ErrInvalidAnswer, f.Name)
			}
		case KindNumber:
			if n, err := strconv.Atoi(v); err != nil || n < 0 {
				return fmt.Errorf("%w: %s must be a non-negative number", ErrInvalidAnswer, f.Name)
			}
		}
	}
	return nil
}

// Submit sends the visible answers once the user is on the review step
// with every step complete. A failed delivery is recorded as an
// unsuccessful Outcome; the user may submit again.
func (s *State) Submit(ctx context.Context, flow *Flow, submitter Submitter, sessionID string) (*Outcome, error) {
	visible := flow.Visible(s.Answers)
	if s.Index(flow) != len(visible)-1 {
		return nil, ErrNotOnReview
	}
	if first := s.FirstIncomplete(flow); first != len(visible)-1 || !visible[first].Complete(s.Answers) {
		return nil, fmt.Errorf("%w: %s", ErrStepIncomplete, visible[first].Name)
	}
	if s.Outcome != nil && s.Outcome.Success {
		return s.Outcome, ErrAlreadySubmitted
	}

	now := time.Now().UTC()
	outcome, err := submitter.Submit(ctx, Submission{
		SessionID:   sessionID,
		Answers:     s.VisibleAnswers(flow),
		SubmittedAt: now,
	})
	if err != nil {
		outcome = Outcome{Success: false, Message: err.Error()}
	}
	outcome.SubmittedAt = now
	s.Outcome = &outcome
	return s.Outcome, nil
}

// VisibleAnswers drops answers belonging to steps hidden by branching.
func (s *State) VisibleAnswers(flow *Flow) map[string][]string {
	out := make(map[string][]string)
	for _, step := range flow.Visible(s.Answers) {
		for _, f := range step.Fields {
			if v, ok := s.Answers[f.Name]; ok {
				out[f.Name] = append([]string(nil), v...)
			}
		}
	}
	return out
}

// ProfilePatch maps questionnaire answers onto the preference profile.
func (s *State) ProfilePatch(flow *Flow) preferences.Patch {
	answers := s.VisibleAnswers(flow)
	var patch preferences.Patch
	if v := answers["travel_style"]; len(v) == 1 {
		patch.TravelStyle = &v[0]
	}
	if v, ok := answers["interests"]; ok {
		patch.Interests = &v
	}
	if v, ok := answers["dietary_restrictions"]; ok {
		patch.DietaryRestrictions = &v
	}
	if v := answers["traveler_type"]; len(v) == 1 && v[0] == "family" {
		patch.MustHaves = map[string]bool{preferences.FlagFamilyFriendly: true}
	}
	return patch
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
