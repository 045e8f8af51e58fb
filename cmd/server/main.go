package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/dharmasatrya/tripplanner/internal/aggregator"
	"github.com/dharmasatrya/tripplanner/internal/cache"
	"github.com/dharmasatrya/tripplanner/internal/config"
	"github.com/dharmasatrya/tripplanner/internal/geoip"
	"github.com/dharmasatrya/tripplanner/internal/handler"
	"github.com/dharmasatrya/tripplanner/internal/health"
	"github.com/dharmasatrya/tripplanner/internal/httpclient"
	"github.com/dharmasatrya/tripplanner/internal/locations"
	"github.com/dharmasatrya/tripplanner/internal/preferences"
	"github.com/dharmasatrya/tripplanner/internal/providers"
	"github.com/dharmasatrya/tripplanner/internal/questionnaire"
	"github.com/dharmasatrya/tripplanner/internal/ratelimit"
	"github.com/dharmasatrya/tripplanner/internal/session"
	"github.com/dharmasatrya/tripplanner/internal/textgen"
	"github.com/dharmasatrya/tripplanner/pkg/logger"
)

var version = "dev"

const keyPrefix = "tripplanner"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal(err, "Failed to load configuration")
	}
	log := logger.Init(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	e := echo.New()
	e.HideBanner = true

	e.Use(handler.RequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())

	rateLimiter := ratelimit.NewBackendLimiterWithDefaults()
	for backend, limit := range cfg.RateLimits {
		rateLimiter.SetLimit(backend, limit)
	}

	client := httpclient.New(httpclient.Config{
		Timeout:  cfg.Backends.Timeout,
		RetryMax: cfg.Backends.RetryMax,
	})

	checker := health.NewHealthChecker(version)

	var (
		redisClient   *redis.Client
		offerCache    cache.Cache = cache.NewNoOpCache()
		locationCache cache.Cache = cache.NewNoOpCache()
		sessionStore  session.Store
	)
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal(err, "Failed to connect to Redis")
		}
		offerCache = cache.NewRedisCache(redisClient, keyPrefix+":flights", cfg.Redis.OfferTTL)
		locationCache = cache.NewRedisCache(redisClient, keyPrefix+":locations", cfg.Redis.LocationTTL)
		sessionStore = session.NewRedisStore(redisClient, keyPrefix+":session")
		checker.AddChecker(&health.RedisChecker{Client: redisClient, Name: "redis"})
		log.Info("Redis enabled", "host", cfg.Redis.Host, "port", cfg.Redis.Port, "offer_ttl", cfg.Redis.OfferTTL)
	} else {
		sessionStore = session.NewMemoryStore()
		log.Info("Redis disabled, using in-process sessions and no caching")
	}

	provider, err := initializeProvider(cfg)
	if err != nil {
		log.Fatal(err, "Failed to initialize flight provider")
	}
	log.Info("Flight provider ready", "provider", provider.Name(), "fallback", cfg.Search.FallbackEnabled)

	agg := aggregator.NewAggregator(
		provider,
		providers.NewPlaceholderGenerator(cfg.Search.PlaceholderCount, time.Now().UnixNano()),
		offerCache,
		log.WithField("component", "aggregator"),
		aggregator.Config{
			Timeout:         cfg.Search.Timeout,
			FallbackEnabled: cfg.Search.FallbackEnabled,
			RateLimiter:     rateLimiter,
		},
	)

	source, err := initializeLocations(cfg, client, rateLimiter, locationCache, log)
	if err != nil {
		log.Fatal(err, "Failed to initialize location source")
	}
	checker.AddChecker(health.CheckFunc{Name: "locations", Fn: func(ctx context.Context) error {
		_, err := source.Search(ctx, "paris")
		return err
	}})
	resolver := locations.NewResolver(source, log.WithField("component", "resolver"))

	manager := session.NewManager(sessionStore, questionnaire.DefaultFlow(), cfg.Session.TTL)

	var (
		summarizer *preferences.Summarizer
		extractor  *preferences.Extractor
	)
	if cfg.Backends.TextGenURL != "" {
		gen := textgen.NewClient(cfg.Backends.TextGenURL, client, rateLimiter)
		summarizer = preferences.NewSummarizer(gen, storeSummary(manager), cfg.Summary.Debounce, log.WithField("component", "summarizer"))
		extractor = preferences.NewExtractor(gen)
		manager.OnDelete(summarizer.Cancel)
	} else {
		log.Info("Text generation disabled, profile summaries and chat detection are off")
	}

	var submitter questionnaire.Submitter = questionnaire.LocalSubmitter{}
	if cfg.Backends.SubmitURL != "" {
		submitter = questionnaire.NewHTTPSubmitter(cfg.Backends.SubmitURL, client, rateLimiter)
	}

	handler.RegisterRoutes(e, handler.Handlers{
		Search: handler.NewSearchHandler(agg, manager, handler.SearchDefaults{
			Currency: cfg.Search.Currency,
			Locale:   cfg.Search.Locale,
		}, log),
		Locations:     handler.NewLocationHandler(resolver, geoip.NewClient(cfg.Backends.GeoIPURL, client, rateLimiter, log), log),
		Sessions:      handler.NewSessionHandler(manager),
		Trip:          handler.NewTripHandler(manager),
		Preferences:   handler.NewPreferenceHandler(manager, summarizer, extractor, log),
		Questionnaire: handler.NewQuestionnaireHandler(manager, submitter, summarizer, log),
		Health:        handler.NewHealthHandler(checker),
	})

	serverError := make(chan error, 1)
	go func() {
		log.Info("Starting trip planner server", "port", cfg.Server.Port, "version", version)
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverError:
		log.Fatal(err, "Server failed")
	case sig := <-shutdown:
		log.Info("Shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error(err, "Graceful shutdown failed")
	}
	if summarizer != nil {
		summarizer.Close()
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
}

func initializeProvider(cfg *config.Config) (providers.Provider, error) {
	if cfg.Backends.FlightSearchURL != "" {
		return providers.NewHTTPProvider("flights", cfg.Backends.FlightSearchURL, cfg.Backends.Timeout), nil
	}
	return providers.NewStaticProvider(cfg.Search.StaticMaxLatency)
}

func initializeLocations(cfg *config.Config, client *httpclient.Client, limiter *ratelimit.BackendLimiter, c cache.Cache, log *logger.Logger) (locations.Source, error) {
	if cfg.Backends.LocationsURL != "" {
		remote := locations.NewHTTPSource(cfg.Backends.LocationsURL, client, limiter)
		return locations.NewCachingSource(remote, c, log.WithField("component", "locations")), nil
	}
	return locations.DefaultDirectory()
}

// storeSummary writes a generated summary back onto its session. Sessions
// that ended in the meantime are skipped.
func storeSummary(manager *session.Manager) preferences.SummaryStore {
	return func(ctx context.Context, id, summary string) error {
		_, err := manager.Update(ctx, id, func(s *session.Session) error {
			s.Memory.Summary = summary
			return nil
		})
		if errors.Is(err, session.ErrNotFound) {
			return nil
		}
		return err
	}
}
