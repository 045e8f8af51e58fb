package models

type LegResult struct {
	Index        int           `json:"index"`
	LegID        string        `json:"leg_id,omitempty"`
	Origin       string        `json:"origin"`
	Destination  string        `json:"destination"`
	Offers       []FlightOffer `json:"offers"`
	Placeholder  bool          `json:"placeholder"`
	CacheHit     bool          `json:"cache_hit"`
	Error        string        `json:"error,omitempty"`
	SearchTimeMs int64         `json:"search_time_ms"`
}

type SearchMetadata struct {
	TotalResults    int   `json:"total_results"`
	LegsQueried     int   `json:"legs_queried"`
	LegsSucceeded   int   `json:"legs_succeeded"`
	LegsPlaceholder int   `json:"legs_placeholder"`
	FailedLegs      []int `json:"failed_legs,omitempty"`
	SearchTimeMs    int64 `json:"search_time_ms"`
}

type SearchCriteria struct {
	TripType   TripType       `json:"trip_type"`
	Legs       []FlightLeg    `json:"legs"`
	Passengers Passengers     `json:"passengers"`
	CabinClass string         `json:"cabin_class"`
	Currency   string         `json:"currency"`
	Filters    *SearchFilters `json:"filters,omitempty"`
	SortBy     string         `json:"sort_by"`
	SortOrder  string         `json:"sort_order"`
}

type SearchResponse struct {
	SearchCriteria SearchCriteria `json:"search_criteria"`
	Metadata       SearchMetadata `json:"metadata"`
	Legs           []LegResult    `json:"legs"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
