package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeWithOffset(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		tz       string
		expected time.Time
	}{
		{"rfc3339", "2026-11-02T08:30:00+01:00", "", time.Date(2026, 11, 2, 7, 30, 0, 0, time.UTC)},
		{"no colon offset", "2026-11-02T08:30:00+0100", "", time.Date(2026, 11, 2, 7, 30, 0, 0, time.UTC)},
		{"utc zulu", "2026-11-02T08:30:00Z", "Europe/Paris", time.Date(2026, 11, 2, 8, 30, 0, 0, time.UTC)},
		{"local with zone", "2026-11-02 08:30", "Asia/Tokyo", time.Date(2026, 11, 1, 23, 30, 0, 0, time.UTC)},
		{"local without zone is utc", "2026-11-02T08:30:00", "", time.Date(2026, 11, 2, 8, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimeWithOffset(tt.input, tt.tz)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "got %s", got)
		})
	}
}

func TestParseTimeWithOffsetRejectsGarbage(t *testing.T) {
	_, err := ParseTimeWithOffset("next tuesday", "")
	assert.Error(t, err)
}

func TestLoadFallsBackToUTC(t *testing.T) {
	assert.Equal(t, time.UTC, Load(""))
	assert.Equal(t, time.UTC, Load("Mars/Olympus_Mons"))
	assert.Equal(t, "Europe/Paris", Load("Europe/Paris").String())
}

func TestIn(t *testing.T) {
	ts := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 14, In(ts, "Europe/Paris").Hour())
}
