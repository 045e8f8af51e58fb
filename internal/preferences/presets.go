package preferences

// Preset is a starting profile offered during onboarding. Choosing one
// applies its Patch as a manual update.
type Preset struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Patch       Patch  `json:"patch"`
}

func Presets() []Preset {
	return []Preset{
		{
			ID:          "slow-traveler",
			Name:        "Slow traveler",
			Description: "Few stops, long lunches, comfortable stays.",
			Patch: Patch{
				TravelStyle: strPtr(StyleRelaxed),
				StyleAxes:   map[string]int{AxisPace: 20, AxisComfort: 75, AxisAdventure: 30},
				Interests:   listPtr("food", "beaches", "wellness"),
			},
		},
		{
			ID:          "explorer",
			Name:        "Explorer",
			Description: "Packed days outdoors and off the beaten path.",
			Patch: Patch{
				TravelStyle: strPtr(StyleAdventure),
				StyleAxes:   map[string]int{AxisPace: 80, AxisAdventure: 90, AxisComfort: 30},
				Interests:   listPtr("hiking", "nature", "local culture"),
			},
		},
		{
			ID:          "culture-seeker",
			Name:        "Culture seeker",
			Description: "Museums, history and neighbourhood food.",
			Patch: Patch{
				TravelStyle: strPtr(StyleCultural),
				StyleAxes:   map[string]int{AxisPace: 60, AxisSocial: 40},
				Interests:   listPtr("museums", "history", "architecture", "food"),
			},
		},
		{
			ID:          "family-trip",
			Name:        "Family trip",
			Description: "Kid-friendly places and easy logistics.",
			Patch: Patch{
				TravelStyle: strPtr(StyleFamily),
				StyleAxes:   map[string]int{AxisPace: 35, AxisComfort: 70},
				MustHaves:   map[string]bool{FlagFamilyFriendly: true},
				Interests:   listPtr("parks", "beaches"),
			},
		},
		{
			ID:          "luxury-escape",
			Name:        "Luxury escape",
			Description: "Top hotels, fine dining and no rush.",
			Patch: Patch{
				TravelStyle: strPtr(StyleLuxury),
				StyleAxes:   map[string]int{AxisComfort: 95, AxisPace: 30},
				MustHaves:   map[string]bool{FlagWifi: true},
				Interests:   listPtr("fine dining", "spas"),
			},
		},
	}
}

// PresetByID returns the preset with id, or false.
func PresetByID(id string) (Preset, bool) {
	for _, p := range Presets() {
		if p.ID == id {
			return p, true
		}
	}
	return Preset{}, false
}

func strPtr(s string) *string { return &s }

func listPtr(items ...string) *[]string { return &items }
