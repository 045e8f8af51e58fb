// Package session owns per-visitor planner state: preference memory,
// questionnaire progress and the trip being assembled. A session is created
// when the planner loads and removed when the visitor leaves or its TTL
// runs out.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/dharmasatrya/tripplanner/internal/models"
	"github.com/dharmasatrya/tripplanner/internal/preferences"
	"github.com/dharmasatrya/tripplanner/internal/questionnaire"
	"github.com/dharmasatrya/tripplanner/internal/trip"
)

var ErrNotFound = errors.New("session not found")

type Session struct {
	ID            string               `json:"id"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
	Memory        *preferences.Memory  `json:"memory"`
	Questionnaire *questionnaire.State `json:"questionnaire"`
	Trip          *trip.Plan           `json:"trip"`
	// Results holds the latest search results per leg of Trip so a
	// selection can reference an offer by ID.
	Results []models.LegResult `json:"results,omitempty"`
}

// FindOffer looks up an offer from the latest results for leg.
func (s *Session) FindOffer(leg int, offerID string) (models.FlightOffer, bool) {
	if leg < 0 || leg >= len(s.Results) {
		return models.FlightOffer{}, false
	}
	for _, o := range s.Results[leg].Offers {
		if o.ID == offerID {
			return o, true
		}
	}
	return models.FlightOffer{}, false
}

// Store persists sessions. Implementations must return ErrNotFound for
// unknown or expired IDs.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}
