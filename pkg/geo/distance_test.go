package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	paris = Coordinates{Lat: 48.8566, Lng: 2.3522}
	cdg   = Coordinates{Lat: 49.0097, Lng: 2.5479}
	nice  = Coordinates{Lat: 43.7102, Lng: 7.2620}
	jfk   = Coordinates{Lat: 40.6413, Lng: -73.7781}
	lhr   = Coordinates{Lat: 51.4700, Lng: -0.4543}
)

func TestDistanceKm(t *testing.T) {
	tests := []struct {
		name      string
		from, to  Coordinates
		expected  float64
		tolerance float64
	}{
		{"Paris to CDG", paris, cdg, 23, 3},
		{"Paris to Nice", paris, nice, 686, 10},
		{"LHR to JFK", lhr, jfk, 5555, 30},
		{"same point", paris, paris, 0, 0.001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, DistanceKm(tt.from, tt.to), tt.tolerance)
		})
	}
}

func TestDistanceIsSymmetric(t *testing.T) {
	assert.InDelta(t, DistanceKm(paris, nice), DistanceKm(nice, paris), 1e-9)
}

func TestCoordinatesIsValid(t *testing.T) {
	assert.True(t, paris.IsValid())
	assert.False(t, Coordinates{Lat: 91, Lng: 0}.IsValid())
	assert.False(t, Coordinates{Lat: 0, Lng: -181}.IsValid())
}
