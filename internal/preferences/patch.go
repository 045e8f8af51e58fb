package preferences

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Field names address a single reconcilable value of a Profile.
const (
	FieldTravelStyle = "travel_style"
	FieldInterests   = "interests"
	FieldDietary     = "dietary_restrictions"
	FieldOccasion    = "trip_context.occasion"

	axisPrefix = "style_axes."
	flagPrefix = "must_haves."
)

var (
	ErrUnknownField       = errors.New("unknown preference field")
	ErrInvalidTravelStyle = errors.New("unknown travel style")
	ErrAxisOutOfRange     = fmt.Errorf("style axes must be between %d and %d", MinAxisValue, MaxAxisValue)
	ErrTooManyInterests   = fmt.Errorf("at most %d interests may be selected", MaxInterests)
)

// Fields lists every addressable field name in a stable order.
func Fields() []string {
	out := []string{FieldTravelStyle, FieldInterests, FieldDietary, FieldOccasion}
	for _, a := range Axes {
		out = append(out, axisPrefix+a)
	}
	for _, f := range Flags {
		out = append(out, flagPrefix+f)
	}
	sort.Strings(out)
	return out
}

func ValidField(name string) bool {
	switch {
	case name == FieldTravelStyle, name == FieldInterests, name == FieldDietary, name == FieldOccasion:
		return true
	case strings.HasPrefix(name, axisPrefix):
		return new(Profile).axis(strings.TrimPrefix(name, axisPrefix)) != nil
	case strings.HasPrefix(name, flagPrefix):
		return new(Profile).flag(strings.TrimPrefix(name, flagPrefix)) != nil
	}
	return false
}

// Patch is a partial profile update. Nil members are left untouched; a
// pointer to an empty list clears it.
type Patch struct {
	TravelStyle         *string         `json:"travel_style,omitempty"`
	StyleAxes           map[string]int  `json:"style_axes,omitempty"`
	Interests           *[]string       `json:"interests,omitempty"`
	MustHaves           map[string]bool `json:"must_haves,omitempty"`
	DietaryRestrictions *[]string       `json:"dietary_restrictions,omitempty"`
	Occasion            *string         `json:"occasion,omitempty"`
}

// Change is one validated, normalized field assignment.
type Change struct {
	Field string
	Value any
}

func (p Patch) IsEmpty() bool {
	return p.TravelStyle == nil && len(p.StyleAxes) == 0 && p.Interests == nil &&
		len(p.MustHaves) == 0 && p.DietaryRestrictions == nil && p.Occasion == nil
}

// Changes validates the patch and flattens it into field assignments sorted
// by field name. Nothing is returned on the first invalid member.
func (p Patch) Changes() ([]Change, error) {
	var out []Change

	if p.TravelStyle != nil {
		style := strings.ToLower(strings.TrimSpace(*p.TravelStyle))
		if style != "" && !IsTravelStyle(style) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTravelStyle, *p.TravelStyle)
		}
		out = append(out, Change{Field: FieldTravelStyle, Value: style})
	}

	for name, v := range p.StyleAxes {
		if new(Profile).axis(name) == nil {
			return nil, fmt.Errorf("%w: %s%s", ErrUnknownField, axisPrefix, name)
		}
		if v < MinAxisValue || v > MaxAxisValue {
			return nil, fmt.Errorf("%w: %s=%d", ErrAxisOutOfRange, name, v)
		}
		out = append(out, Change{Field: axisPrefix + name, Value: v})
	}

	if p.Interests != nil {
		interests := normalizeList(*p.Interests)
		if len(interests) > MaxInterests {
			return nil, ErrTooManyInterests
		}
		out = append(out, Change{Field: FieldInterests, Value: interests})
	}

	for name, v := range p.MustHaves {
		if new(Profile).flag(name) == nil {
			return nil, fmt.Errorf("%w: %s%s", ErrUnknownField, flagPrefix, name)
		}
		out = append(out, Change{Field: flagPrefix + name, Value: v})
	}

	if p.DietaryRestrictions != nil {
		out = append(out, Change{Field: FieldDietary, Value: normalizeList(*p.DietaryRestrictions)})
	}

	if p.Occasion != nil {
		out = append(out, Change{Field: FieldOccasion, Value: strings.TrimSpace(*p.Occasion)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out, nil
}

// Sanitize drops or clamps whatever Changes would reject. It is applied to
// guesses from chat, where a partially usable answer beats none.
func (p Patch) Sanitize() Patch {
	if p.TravelStyle != nil {
		style := strings.ToLower(strings.TrimSpace(*p.TravelStyle))
		if IsTravelStyle(style) {
			p.TravelStyle = &style
		} else {
			p.TravelStyle = nil
		}
	}

	if len(p.StyleAxes) > 0 {
		axes := make(map[string]int, len(p.StyleAxes))
		for name, v := range p.StyleAxes {
			name = strings.ToLower(strings.TrimSpace(name))
			if new(Profile).axis(name) == nil {
				continue
			}
			axes[name] = clamp(v, MinAxisValue, MaxAxisValue)
		}
		p.StyleAxes = axes
	}

	if p.Interests != nil {
		interests := normalizeList(*p.Interests)
		if len(interests) > MaxInterests {
			interests = interests[:MaxInterests]
		}
		p.Interests = &interests
	}

	if len(p.MustHaves) > 0 {
		flags := make(map[string]bool, len(p.MustHaves))
		for name, v := range p.MustHaves {
			name = strings.ToLower(strings.TrimSpace(name))
			if new(Profile).flag(name) != nil {
				flags[name] = v
			}
		}
		p.MustHaves = flags
	}
	return p
}

// get returns the normalized current value of field.
func (p *Profile) get(field string) any {
	switch {
	case field == FieldTravelStyle:
		return p.TravelStyle
	case field == FieldInterests:
		return normalizeList(p.Interests)
	case field == FieldDietary:
		return normalizeList(p.DietaryRestrictions)
	case field == FieldOccasion:
		return p.TripContext.Occasion
	case strings.HasPrefix(field, axisPrefix):
		if v := p.axis(strings.TrimPrefix(field, axisPrefix)); v != nil {
			return *v
		}
	case strings.HasPrefix(field, flagPrefix):
		if v := p.flag(strings.TrimPrefix(field, flagPrefix)); v != nil {
			return *v
		}
	}
	return nil
}

func (p *Profile) set(field string, value any) {
	switch {
	case field == FieldTravelStyle:
		p.TravelStyle = value.(string)
	case field == FieldInterests:
		p.Interests = value.([]string)
	case field == FieldDietary:
		p.DietaryRestrictions = value.([]string)
	case field == FieldOccasion:
		p.TripContext.Occasion = value.(string)
	case strings.HasPrefix(field, axisPrefix):
		*p.axis(strings.TrimPrefix(field, axisPrefix)) = value.(int)
	case strings.HasPrefix(field, flagPrefix):
		*p.flag(strings.TrimPrefix(field, flagPrefix)) = value.(bool)
	}
}

// decodeValue turns a stored JSON value back into the Go type set expects.
func decodeValue(field string, raw json.RawMessage) (any, error) {
	var err error
	switch {
	case field == FieldTravelStyle, field == FieldOccasion:
		var v string
		err = json.Unmarshal(raw, &v)
		return v, err
	case field == FieldInterests, field == FieldDietary:
		var v []string
		err = json.Unmarshal(raw, &v)
		return normalizeList(v), err
	case strings.HasPrefix(field, axisPrefix):
		var v int
		err = json.Unmarshal(raw, &v)
		return v, err
	case strings.HasPrefix(field, flagPrefix):
		var v bool
		err = json.Unmarshal(raw, &v)
		return v, err
	}
	return nil, ErrUnknownField
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
