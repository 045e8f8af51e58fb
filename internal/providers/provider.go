package providers

import (
	"context"
	"errors"

	"github.com/dharmasatrya/tripplanner/internal/models"
)

// Provider answers a single-leg search. Round-trip queries carry a
// ReturnDate and expect offers with Inbound segments.
type Provider interface {
	Name() string
	Search(ctx context.Context, q models.LegQuery) ([]models.FlightOffer, error)
}

var ErrNoResults = errors.New("no flights returned")

type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return e.Provider + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Err:      err,
	}
}
