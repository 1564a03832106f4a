package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Session backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config holds application configuration
type Config struct {
	Port           string
	APIBaseURL     string
	APITimeout     time.Duration
	MapsAPIKey     string
	MapsBaseURL    string
	SessionBackend string
	SessionTTL     time.Duration
	CookieSecure   bool
	LeaderboardTTL time.Duration
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	DBConnString   string
	PurgeSchedule  string
	SchedulerToken string
	LogLevel       string
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup, applying defaults and validating.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	var errs []error
	duration := func(key, def string) time.Duration {
		raw := get(key, def)
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("%s: invalid duration %q", key, raw))
		}
		return d
	}

	cfg := &Config{
		Port:           get("PORT", "8000"),
		APIBaseURL:     get("API_BASE_URL", "http://localhost:8080/api"),
		APITimeout:     duration("API_TIMEOUT", "10s"),
		MapsAPIKey:     get("GOOGLE_MAPS_API_KEY", ""),
		MapsBaseURL:    get("GOOGLE_MAPS_BASE_URL", ""),
		SessionBackend: strings.ToLower(get("SESSION_BACKEND", BackendMemory)),
		SessionTTL:     duration("SESSION_TTL", "24h"),
		RedisAddr:      get("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  get("REDIS_PASSWORD", ""),
		DBConnString:   get("DB_CONNECTION_STRING", ""),
		PurgeSchedule:  get("PURGE_SCHEDULE", "@every 10m"),
		SchedulerToken: get("SCHEDULER_TOKEN", ""),
		LogLevel:       get("LOG_LEVEL", "info"),
	}

	// A period loaded once stays loaded for the rest of the session.
	cfg.LeaderboardTTL = cfg.SessionTTL
	if _, ok := lookup("LEADERBOARD_TTL"); ok {
		cfg.LeaderboardTTL = duration("LEADERBOARD_TTL", "")
		if cfg.LeaderboardTTL > 0 && cfg.LeaderboardTTL < cfg.SessionTTL {
			errs = append(errs, fmt.Errorf("LEADERBOARD_TTL: %s is shorter than SESSION_TTL %s", cfg.LeaderboardTTL, cfg.SessionTTL))
		}
	}

	secure := get("COOKIE_SECURE", "false")
	if b, err := strconv.ParseBool(secure); err != nil {
		errs = append(errs, fmt.Errorf("COOKIE_SECURE: invalid boolean %q", secure))
	} else {
		cfg.CookieSecure = b
	}
	redisDB := get("REDIS_DB", "0")
	if n, err := strconv.Atoi(redisDB); err != nil || n < 0 {
		errs = append(errs, fmt.Errorf("REDIS_DB: invalid database index %q", redisDB))
	} else {
		cfg.RedisDB = n
	}

	switch cfg.SessionBackend {
	case BackendMemory, BackendRedis:
	case BackendPostgres:
		if cfg.DBConnString == "" {
			errs = append(errs, errors.New("DB_CONNECTION_STRING is required when SESSION_BACKEND=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("SESSION_BACKEND: unknown backend %q", cfg.SessionBackend))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// UsesRedis reports whether any component needs a Redis client.
func (c *Config) UsesRedis() bool {
	return c.SessionBackend == BackendRedis
}
