// Package aggregator runs the per-leg flight searches of a trip and fills
// legs whose backend search fails with placeholder offers.
package aggregator

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dharmasatrya/tripplanner/internal/cache"
	"github.com/dharmasatrya/tripplanner/internal/filter"
	"github.com/dharmasatrya/tripplanner/internal/models"
	"github.com/dharmasatrya/tripplanner/internal/providers"
	"github.com/dharmasatrya/tripplanner/internal/ratelimit"
	"github.com/dharmasatrya/tripplanner/pkg/logger"
)

const cacheNamespace = "flights"

type Config struct {
	// Timeout bounds a whole search. Zero means the request context alone
	// decides.
	Timeout         time.Duration
	FallbackEnabled bool
	RateLimiter     *ratelimit.BackendLimiter
}

// PlaceholderSource synthesizes offers for a leg that has none.
type PlaceholderSource interface {
	Generate(q models.LegQuery) []models.FlightOffer
}

type Aggregator struct {
	provider     providers.Provider
	placeholders PlaceholderSource
	cache        cache.Cache
	log          *logger.Logger
	config       Config
}

type Result struct {
	Legs            []models.LegResult
	LegsQueried     int
	LegsSucceeded   int
	LegsPlaceholder int
	FailedLegs      []int
}

func NewAggregator(provider providers.Provider, placeholders PlaceholderSource, c cache.Cache, log *logger.Logger, config Config) *Aggregator {
	if c == nil {
		c = cache.NewNoOpCache()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Aggregator{
		provider:     provider,
		placeholders: placeholders,
		cache:        c,
		log:          log,
		config:       config,
	}
}

// Stream validates req and starts one search per leg. Each LegResult is
// sent as soon as its search settles, so results arrive in completion order.
// The channel is closed once every leg has reported.
func (a *Aggregator) Stream(ctx context.Context, req *models.SearchRequest) (<-chan models.LegResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	searchCtx := ctx
	cancel := context.CancelFunc(func() {})
	if a.config.Timeout > 0 {
		searchCtx, cancel = context.WithTimeout(ctx, a.config.Timeout)
	}

	queries := req.LegQueries()
	resultCh := make(chan models.LegResult, len(queries))
	var wg sync.WaitGroup

	for i, q := range queries {
		wg.Add(1)
		go func(index int, leg models.FlightLeg, q models.LegQuery) {
			defer wg.Done()
			resultCh <- a.searchLeg(searchCtx, index, leg, q, req)
		}(i, req.Legs[i], q)
	}

	go func() {
		wg.Wait()
		cancel()
		close(resultCh)
	}()

	return resultCh, nil
}

// Search runs every leg and returns the results in leg order.
func (a *Aggregator) Search(ctx context.Context, req *models.SearchRequest) (*Result, error) {
	stream, err := a.Stream(ctx, req)
	if err != nil {
		return nil, err
	}

	result := NewResult(len(req.Legs))
	for lr := range stream {
		result.Add(lr)
	}
	return result, nil
}

func NewResult(legs int) *Result {
	return &Result{
		Legs:        make([]models.LegResult, legs),
		LegsQueried: legs,
	}
}

// Add records a settled leg at its index.
func (r *Result) Add(lr models.LegResult) {
	if lr.Index < 0 || lr.Index >= len(r.Legs) {
		return
	}
	r.Legs[lr.Index] = lr
	if lr.Placeholder {
		r.LegsPlaceholder++
	}
	if lr.Error != "" {
		r.FailedLegs = append(r.FailedLegs, lr.Index)
		sort.Ints(r.FailedLegs)
	} else {
		r.LegsSucceeded++
	}
}

// Metadata summarizes r for the response envelope.
func (r *Result) Metadata(elapsed time.Duration) models.SearchMetadata {
	total := 0
	for _, lr := range r.Legs {
		total += len(lr.Offers)
	}
	return models.SearchMetadata{
		TotalResults:    total,
		LegsQueried:     r.LegsQueried,
		LegsSucceeded:   r.LegsSucceeded,
		LegsPlaceholder: r.LegsPlaceholder,
		FailedLegs:      r.FailedLegs,
		SearchTimeMs:    elapsed.Milliseconds(),
	}
}

func (a *Aggregator) searchLeg(ctx context.Context, index int, leg models.FlightLeg, q models.LegQuery, req *models.SearchRequest) models.LegResult {
	start := time.Now()
	result := models.LegResult{
		Index:       index,
		LegID:       leg.ID,
		Origin:      q.Origin,
		Destination: q.Destination,
	}
	log := a.log.WithFields(map[string]any{
		"leg":         index,
		"origin":      q.Origin,
		"destination": q.Destination,
		"date":        q.DepartureDate,
	})

	key, keyErr := cache.Key(cacheNamespace, q)
	var offers []models.FlightOffer
	if keyErr == nil && a.cache.Get(ctx, key, &offers) && len(offers) > 0 {
		result.CacheHit = true
		result.Offers = filter.Apply(offers, req.Filters, req.SortBy, req.SortOrder)
		result.SearchTimeMs = time.Since(start).Milliseconds()
		return result
	}

	offers, err := a.fetch(ctx, q)
	if err == nil {
		if keyErr == nil {
			if cerr := a.cache.Set(ctx, key, offers); cerr != nil {
				log.Warn("failed to cache leg results", "error", cerr)
			}
		}
		result.Offers = filter.Apply(offers, req.Filters, req.SortBy, req.SortOrder)
		result.SearchTimeMs = time.Since(start).Milliseconds()
		return result
	}

	result.Error = err.Error()
	if a.config.FallbackEnabled && a.placeholders != nil {
		log.Warn("leg search failed, using placeholder offers", "error", err)
		result.Offers = a.placeholders.Generate(q)
		result.Placeholder = true
	} else {
		log.Warn("leg search failed", "error", err)
		result.Offers = []models.FlightOffer{}
	}
	result.SearchTimeMs = time.Since(start).Milliseconds()
	return result
}

func (a *Aggregator) fetch(ctx context.Context, q models.LegQuery) ([]models.FlightOffer, error) {
	if err := a.config.RateLimiter.Wait(ctx, ratelimit.BackendFlights); err != nil {
		return nil, err
	}

	offers, err := a.provider.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(offers) == 0 {
		return nil, providers.NewProviderError(a.provider.Name(), providers.ErrNoResults)
	}
	return offers, nil
}

// IsValidationError reports whether err came from request validation rather
// than from a backend.
func IsValidationError(err error) bool {
	var ve models.ValidationError
	var nr *models.LegNotReadyError
	return errors.As(err, &ve) || errors.As(err, &nr)
}
