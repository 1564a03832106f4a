package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(lookupFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "http://localhost:8080/api", cfg.APIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.APITimeout)
	assert.Equal(t, BackendMemory, cfg.SessionBackend)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, cfg.SessionTTL, cfg.LeaderboardTTL)
	assert.Equal(t, "@every 10m", cfg.PurgeSchedule)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.CookieSecure)
	assert.False(t, cfg.UsesRedis())
	assert.Empty(t, cfg.MapsAPIKey)
	assert.Empty(t, cfg.SchedulerToken)
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(lookupFrom(map[string]string{
		"PORT":                "9000",
		"API_TIMEOUT":         "3s",
		"GOOGLE_MAPS_API_KEY": " key ",
		"SESSION_BACKEND":     "Redis",
		"COOKIE_SECURE":       "true",
		"REDIS_DB":            "2",
		"SCHEDULER_TOKEN":     "s3cret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 3*time.Second, cfg.APITimeout)
	assert.Equal(t, "key", cfg.MapsAPIKey)
	assert.Equal(t, BackendRedis, cfg.SessionBackend)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.True(t, cfg.UsesRedis())
	assert.Equal(t, "s3cret", cfg.SchedulerToken)
}

func TestFromEnvValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"unknown backend", map[string]string{"SESSION_BACKEND": "etcd"}, "unknown backend"},
		{"postgres without dsn", map[string]string{"SESSION_BACKEND": "postgres"}, "DB_CONNECTION_STRING is required"},
		{"bad duration", map[string]string{"SESSION_TTL": "forever"}, "SESSION_TTL"},
		{"negative duration", map[string]string{"API_TIMEOUT": "-1s"}, "API_TIMEOUT"},
		{"bad bool", map[string]string{"COOKIE_SECURE": "maybe"}, "COOKIE_SECURE"},
		{"leaderboard ttl below session ttl", map[string]string{"SESSION_TTL": "24h", "LEADERBOARD_TTL": "5m"}, "LEADERBOARD_TTL"},
		{"bad redis db", map[string]string{"REDIS_DB": "x"}, "REDIS_DB"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromEnv(lookupFrom(tc.env))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestFromEnvPostgres(t *testing.T) {
	cfg, err := FromEnv(lookupFrom(map[string]string{
		"SESSION_BACKEND":      "postgres",
		"DB_CONNECTION_STRING": "postgres://localhost/foodshare",
	}))
	require.NoError(t, err)
	assert.Equal(t, BackendPostgres, cfg.SessionBackend)
}

func TestLeaderboardTTLFollowsSessionTTL(t *testing.T) {
	cfg, err := FromEnv(lookupFrom(map[string]string{"SESSION_TTL": "2h"}))
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, cfg.LeaderboardTTL)

	cfg, err = FromEnv(lookupFrom(map[string]string{"SESSION_TTL": "2h", "LEADERBOARD_TTL": "48h"}))
	require.NoError(t, err)
	assert.Equal(t, 48*time.Hour, cfg.LeaderboardTTL)
}
