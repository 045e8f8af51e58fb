// Package preferences holds the traveler profile that both the preference
// panel and the chat assistant edit, and reconciles their writes.
package preferences

import (
	"sort"
	"strings"
	"time"
)

const (
	StyleRelaxed   = "relaxed"
	StyleAdventure = "adventure"
	StyleCultural  = "cultural"
	StyleLuxury    = "luxury"
	StyleBudget    = "budget"
	StyleFamily    = "family"
	StyleRomantic  = "romantic"
)

var travelStyles = map[string]bool{
	StyleRelaxed:   true,
	StyleAdventure: true,
	StyleCultural:  true,
	StyleLuxury:    true,
	StyleBudget:    true,
	StyleFamily:    true,
	StyleRomantic:  true,
}

const (
	AxisPace      = "pace"
	AxisComfort   = "comfort"
	AxisAdventure = "adventure"
	AxisSocial    = "social"
)

const (
	FlagAccessibility  = "accessibility"
	FlagPetFriendly    = "pet_friendly"
	FlagFamilyFriendly = "family_friendly"
	FlagWifi           = "wifi"
)

const (
	DefaultAxisValue = 50
	MinAxisValue     = 0
	MaxAxisValue     = 100
	MaxInterests     = 5

	// profileAreas counts travel style, axes, interests, must-haves, dietary
	// restrictions and trip context.
	profileAreas = 6
	// onboardingThreshold is the number of set areas below which a profile
	// is offered presets.
	onboardingThreshold = 2
)

var (
	Axes  = []string{AxisPace, AxisComfort, AxisAdventure, AxisSocial}
	Flags = []string{FlagAccessibility, FlagPetFriendly, FlagFamilyFriendly, FlagWifi}
)

func IsTravelStyle(s string) bool {
	return travelStyles[s]
}

// TravelStyles lists the accepted travel_style values.
func TravelStyles() []string {
	out := make([]string, 0, len(travelStyles))
	for s := range travelStyles {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

type StyleAxes struct {
	Pace      int `json:"pace"`
	Comfort   int `json:"comfort"`
	Adventure int `json:"adventure"`
	Social    int `json:"social"`
}

type MustHaves struct {
	Accessibility  bool `json:"accessibility"`
	PetFriendly    bool `json:"pet_friendly"`
	FamilyFriendly bool `json:"family_friendly"`
	Wifi           bool `json:"wifi"`
}

type TripContext struct {
	Occasion string `json:"occasion,omitempty"`
}

type Profile struct {
	TravelStyle         string      `json:"travel_style,omitempty"`
	StyleAxes           StyleAxes   `json:"style_axes"`
	Interests           []string    `json:"interests"`
	MustHaves           MustHaves   `json:"must_haves"`
	DietaryRestrictions []string    `json:"dietary_restrictions"`
	TripContext         TripContext `json:"trip_context"`
	DetectedFromChat    bool        `json:"detected_from_chat"`
	LastUpdated         time.Time   `json:"last_updated"`
}

func DefaultProfile() Profile {
	return Profile{
		StyleAxes: StyleAxes{
			Pace:      DefaultAxisValue,
			Comfort:   DefaultAxisValue,
			Adventure: DefaultAxisValue,
			Social:    DefaultAxisValue,
		},
		Interests:           []string{},
		DietaryRestrictions: []string{},
	}
}

// Completion is the percentage of profile areas that differ from their
// defaults.
func (p Profile) Completion() int {
	return p.areasSet() * 100 / profileAreas
}

// NeedsOnboarding reports whether the profile is sparse enough to offer
// onboarding presets. It has no effect on what may be edited.
func (p Profile) NeedsOnboarding() bool {
	return p.areasSet() < onboardingThreshold
}

func (p Profile) areasSet() int {
	n := 0
	if p.TravelStyle != "" {
		n++
	}
	if p.StyleAxes != DefaultProfile().StyleAxes {
		n++
	}
	if len(p.Interests) > 0 {
		n++
	}
	if p.MustHaves != (MustHaves{}) {
		n++
	}
	if len(p.DietaryRestrictions) > 0 {
		n++
	}
	if p.TripContext.Occasion != "" {
		n++
	}
	return n
}

func (p *Profile) axis(name string) *int {
	switch name {
	case AxisPace:
		return &p.StyleAxes.Pace
	case AxisComfort:
		return &p.StyleAxes.Comfort
	case AxisAdventure:
		return &p.StyleAxes.Adventure
	case AxisSocial:
		return &p.StyleAxes.Social
	}
	return nil
}

func (p *Profile) flag(name string) *bool {
	switch name {
	case FlagAccessibility:
		return &p.MustHaves.Accessibility
	case FlagPetFriendly:
		return &p.MustHaves.PetFriendly
	case FlagFamilyFriendly:
		return &p.MustHaves.FamilyFriendly
	case FlagWifi:
		return &p.MustHaves.Wifi
	}
	return nil
}

// normalizeList lowercases, trims and deduplicates items and sorts them, so
// two lists with the same members compare equal whatever their order.
func normalizeList(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		v := strings.ToLower(strings.TrimSpace(item))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
