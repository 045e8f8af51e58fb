package timezone

import (
	"sync"
	"time"
	_ "time/tzdata"
)

var locations sync.Map // IANA name -> *time.Location

// Load returns the named IANA zone, caching lookups. Unknown or empty names
// resolve to UTC.
func Load(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	if loc, ok := locations.Load(name); ok {
		return loc.(*time.Location)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		loc = time.UTC
	}
	locations.Store(name, loc)
	return loc
}

// ParseTimeWithOffset parses backend timestamps. Values without an offset
// are interpreted in tzName.
func ParseTimeWithOffset(timeStr string, tzName string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04:05-0700", // Without colon
		"2006-01-02T15:04:05+0700", // Without colon
	}

	for _, format := range formats {
		if t, err := time.Parse(format, timeStr); err == nil {
			return t, nil
		}
	}

	loc := Load(tzName)
	simpleFormats := []string{
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04",
	}
	for _, format := range simpleFormats {
		if t, err := time.ParseInLocation(format, timeStr, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, &time.ParseError{
		Value:   timeStr,
		Message: "unable to parse time string",
	}
}

// In converts t to the named zone.
func In(t time.Time, tzName string) time.Time {
	return t.In(Load(tzName))
}
