// Package questionnaire implements the step-by-step trip questionnaire:
// which steps are shown, when the user may move on, and final submission.
package questionnaire

import (
	"fmt"
	"strings"

	"github.com/dharmasatrya/tripplanner/internal/models"
	"github.com/dharmasatrya/tripplanner/internal/preferences"
)

type FieldKind string

const (
	KindText   FieldKind = "text"
	KindChoice FieldKind = "choice"
	KindDate   FieldKind = "date"
	KindNumber FieldKind = "number"
)

type Field struct {
	Name     string    `json:"name"`
	Kind     FieldKind `json:"kind"`
	Required bool      `json:"required"`
	Multiple bool      `json:"multiple,omitempty"`
	MaxItems int       `json:"max_items,omitempty"`
	Options  []string  `json:"options,omitempty"`
}

// Step is one page of the questionnaire. A step with a Condition is shown
// only while the condition holds for the current answers.
type Step struct {
	Name      string                                 `json:"name"`
	Title     string                                 `json:"title"`
	Fields    []Field                                `json:"fields"`
	Condition func(answers map[string][]string) bool `json:"-"`
}

// Complete reports whether every required field has a value.
func (s Step) Complete(answers map[string][]string) bool {
	for _, f := range s.Fields {
		if f.Required && len(answers[f.Name]) == 0 {
			return false
		}
	}
	return true
}

func (s Step) field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Flow is an ordered list of steps ending in a review step.
type Flow struct {
	Steps []Step
}

// Visible returns the steps shown for answers, in order.
func (f *Flow) Visible(answers map[string][]string) []Step {
	out := make([]Step, 0, len(f.Steps))
	for _, s := range f.Steps {
		if s.Condition == nil || s.Condition(answers) {
			out = append(out, s)
		}
	}
	return out
}

func (f *Flow) Validate() error {
	if len(f.Steps) == 0 {
		return fmt.Errorf("questionnaire flow has no steps")
	}
	last := f.Steps[len(f.Steps)-1]
	if last.Name != StepReview || last.Condition != nil {
		return fmt.Errorf("questionnaire flow must end with an unconditional %s step", StepReview)
	}
	seen := map[string]bool{}
	for _, s := range f.Steps {
		if seen[s.Name] {
			return fmt.Errorf("duplicate step %s", s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}

func answerIs(field, value string) func(map[string][]string) bool {
	return func(answers map[string][]string) bool {
		v := answers[field]
		return len(v) > 0 && v[0] == value
	}
}

const (
	StepTripType    = "trip_type"
	StepDestination = "destination"
	StepDates       = "dates"
	StepReturn      = "return"
	StepTravelers   = "travelers"
	StepChildren    = "children"
	StepBudget      = "budget"
	StepStyle       = "style"
	StepInterests   = "interests"
	StepDietary     = "dietary"
	StepReview      = "review"
)

// DefaultFlow is the trip questionnaire served to every session.
func DefaultFlow() *Flow {
	return &Flow{Steps: []Step{
		{
			Name:  StepTripType,
			Title: "What kind of trip is it?",
			Fields: []Field{{
				Name: "trip_type", Kind: KindChoice, Required: true,
				Options: []string{string(models.TripOneWay), string(models.TripRoundTrip), string(models.TripMultiDestination)},
			}},
		},
		{
			Name:  StepDestination,
			Title: "Where are you going?",
			Fields: []Field{
				{Name: "origin", Kind: KindText},
				{Name: "destination", Kind: KindText, Required: true},
			},
		},
		{
			Name:   StepDates,
			Title:  "When do you leave?",
			Fields: []Field{{Name: "departure_date", Kind: KindDate, Required: true}},
		},
		{
			Name:      StepReturn,
			Title:     "When do you come back?",
			Fields:    []Field{{Name: "return_date", Kind: KindDate, Required: true}},
			Condition: answerIs("trip_type", string(models.TripRoundTrip)),
		},
		{
			Name:  StepTravelers,
			Title: "Who is traveling?",
			Fields: []Field{
				{Name: "traveler_type", Kind: KindChoice, Required: true, Options: []string{"solo", "couple", "family", "friends", "business"}},
				{Name: "adults", Kind: KindNumber, Required: true},
			},
		},
		{
			Name:      StepChildren,
			Title:     "How old are the children?",
			Fields:    []Field{{Name: "children_ages", Kind: KindNumber, Required: true, Multiple: true, MaxItems: 8}},
			Condition: answerIs("traveler_type", "family"),
		},
		{
			Name:  StepBudget,
			Title: "What is your budget?",
			Fields: []Field{{
				Name: "budget", Kind: KindChoice, Required: true,
				Options: []string{"budget", "moderate", "luxury"},
			}},
		},
		{
			Name:  StepStyle,
			Title: "How do you like to travel?",
			Fields: []Field{{
				Name: "travel_style", Kind: KindChoice, Required: true,
				Options: preferences.TravelStyles(),
			}},
		},
		{
			Name:  StepInterests,
			Title: "What are you into?",
			Fields: []Field{{
				Name: "interests", Kind: KindText, Required: true, Multiple: true, MaxItems: preferences.MaxInterests,
			}},
		},
		{
			Name:   StepDietary,
			Title:  "Any dietary needs?",
			Fields: []Field{{Name: "dietary_restrictions", Kind: KindText, Multiple: true}},
		},
		{
			Name:  StepReview,
			Title: "Review your answers",
		},
	}}
}

func normalizeValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
