package locations

import (
	"context"

	"github.com/dharmasatrya/tripplanner/internal/cache"
	"github.com/dharmasatrya/tripplanner/internal/models"
	"github.com/dharmasatrya/tripplanner/pkg/logger"
)

const cacheNamespace = "locations"

// CachingSource memoizes successful lookups of another Source. Misses and
// errors are never cached.
type CachingSource struct {
	next  Source
	cache cache.Cache
	log   *logger.Logger
}

func NewCachingSource(next Source, c cache.Cache, log *logger.Logger) *CachingSource {
	if log == nil {
		log = logger.Nop()
	}
	return &CachingSource{next: next, cache: c, log: log}
}

type cacheKey struct {
	Op    string  `json:"op"`
	Arg   string  `json:"arg"`
	Lat   float64 `json:"lat,omitempty"`
	Lng   float64 `json:"lng,omitempty"`
	Limit int     `json:"limit,omitempty"`
}

func cached[T any](ctx context.Context, s *CachingSource, k cacheKey, load func() (T, error)) (T, error) {
	key, err := cache.Key(cacheNamespace, k)
	if err != nil {
		return load()
	}

	var hit T
	if s.cache.Get(ctx, key, &hit) {
		return hit, nil
	}

	v, err := load()
	if err != nil {
		return v, err
	}
	if err := s.cache.Set(ctx, key, v); err != nil {
		s.log.Warn("failed to cache location lookup", "op", k.Op, "error", err)
	}
	return v, nil
}

func (s *CachingSource) Search(ctx context.Context, query string) ([]models.Location, error) {
	return cached(ctx, s, cacheKey{Op: "search", Arg: Normalize(query)}, func() ([]models.Location, error) {
		return s.next.Search(ctx, query)
	})
}

func (s *CachingSource) Airport(ctx context.Context, iata string) (*models.Airport, error) {
	return cached(ctx, s, cacheKey{Op: "airport", Arg: iata}, func() (*models.Airport, error) {
		return s.next.Airport(ctx, iata)
	})
}

func (s *CachingSource) City(ctx context.Context, id string) (*models.Location, error) {
	return cached(ctx, s, cacheKey{Op: "city", Arg: id}, func() (*models.Location, error) {
		return s.next.City(ctx, id)
	})
}

func (s *CachingSource) NearestAirports(ctx context.Context, city models.Location, limit int) ([]models.Airport, error) {
	k := cacheKey{Op: "nearest", Arg: city.ID, Lat: city.Lat, Lng: city.Lng, Limit: limit}
	return cached(ctx, s, k, func() ([]models.Airport, error) {
		return s.next.NearestAirports(ctx, city, limit)
	})
}

func (s *CachingSource) TopCities(ctx context.Context, countryCode string, limit int) ([]models.Location, error) {
	return cached(ctx, s, cacheKey{Op: "top_cities", Arg: countryCode, Limit: limit}, func() ([]models.Location, error) {
		return s.next.TopCities(ctx, countryCode, limit)
	})
}
