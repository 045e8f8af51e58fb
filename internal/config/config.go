// Package config loads service configuration from the environment, after
// reading a .env file when one is present.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/dharmasatrya/tripplanner/internal/ratelimit"
)

type Config struct {
	Server     ServerConfig
	Logging    LoggingConfig
	Redis      RedisConfig
	Backends   BackendsConfig
	Search     SearchConfig
	RateLimits map[string]ratelimit.RateLimitConfig
	Session    SessionConfig
	Summary    SummaryConfig
}

type ServerConfig struct {
	Port            string
	ShutdownTimeout time.Duration
}

type LoggingConfig struct {
	Level  string
	Format string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	// OfferTTL and LocationTTL bound how long search results and location
	// lookups stay cached.
	OfferTTL    time.Duration
	LocationTTL time.Duration
}

// BackendsConfig holds the outbound service endpoints. An empty flight or
// location URL selects the bundled offline data instead.
type BackendsConfig struct {
	FlightSearchURL string
	LocationsURL    string
	GeoIPURL        string
	TextGenURL      string
	SubmitURL       string
	Timeout         time.Duration
	RetryMax        int
}

type SearchConfig struct {
	FallbackEnabled  bool
	PlaceholderCount int
	Currency         string
	Locale           string
	Timeout          time.Duration
	// StaticMaxLatency adds random delay to offline search results.
	StaticMaxLatency time.Duration
}

type SessionConfig struct {
	TTL time.Duration
}

type SummaryConfig struct {
	Debounce time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Redis: RedisConfig{
			Enabled:     getEnvBool("CACHE_ENABLED", true),
			Host:        getEnv("REDIS_HOST", "localhost"),
			Port:        getEnv("REDIS_PORT", "6379"),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          getEnvInt("REDIS_DB", 0),
			OfferTTL:    getEnvDuration("REDIS_TTL", 5*time.Minute),
			LocationTTL: getEnvDuration("REDIS_LOCATION_TTL", 24*time.Hour),
		},
		Backends: BackendsConfig{
			FlightSearchURL: getEnv("FLIGHT_SEARCH_URL", ""),
			LocationsURL:    getEnv("LOCATIONS_URL", ""),
			GeoIPURL:        getEnv("GEOIP_URL", ""),
			TextGenURL:      getEnv("TEXTGEN_URL", ""),
			SubmitURL:       getEnv("QUESTIONNAIRE_SUBMIT_URL", ""),
			Timeout:         getEnvDuration("BACKEND_TIMEOUT", 10*time.Second),
			RetryMax:        getEnvInt("BACKEND_RETRY_MAX", 2),
		},
		Search: SearchConfig{
			FallbackEnabled:  getEnvBool("SEARCH_FALLBACK_ENABLED", true),
			PlaceholderCount: getEnvInt("SEARCH_PLACEHOLDER_COUNT", 5),
			Currency:         getEnv("SEARCH_CURRENCY", "EUR"),
			Locale:           getEnv("SEARCH_LOCALE", "en"),
			Timeout:          getEnvDuration("SEARCH_TIMEOUT", 0),
			StaticMaxLatency: getEnvDuration("STATIC_MAX_LATENCY", 0),
		},
		RateLimits: map[string]ratelimit.RateLimitConfig{
			ratelimit.BackendFlights:   rateLimit("FLIGHTS", 10, 20),
			ratelimit.BackendLocations: rateLimit("LOCATIONS", 20, 40),
			ratelimit.BackendTextGen:   rateLimit("TEXTGEN", 2, 5),
			ratelimit.BackendGeoIP:     rateLimit("GEOIP", 5, 10),
			ratelimit.BackendSubmit:    rateLimit("SUBMIT", 2, 5),
		},
		Session: SessionConfig{
			TTL: getEnvDuration("SESSION_TTL", 2*time.Hour),
		},
		Summary: SummaryConfig{
			Debounce: getEnvDuration("SUMMARY_DEBOUNCE", 800*time.Millisecond),
		},
	}

	return cfg, nil
}

// rateLimit reads RATE_LIMIT_<NAME>_RPS and RATE_LIMIT_<NAME>_BURST.
func rateLimit(name string, rps float64, burst int) ratelimit.RateLimitConfig {
	return ratelimit.RateLimitConfig{
		RequestsPerSecond: getEnvFloat("RATE_LIMIT_"+name+"_RPS", rps),
		BurstSize:         getEnvInt("RATE_LIMIT_"+name+"_BURST", burst),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
