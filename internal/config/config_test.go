package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BACKEND_URL", "https://project.example.co/")

	cfg, err := Load("testdata/missing.env")
	require.NoError(t, err)
	assert.Equal(t, DriverREST, cfg.BackendDriver)
	assert.Equal(t, "https://project.example.co", cfg.BackendURL)
	assert.Equal(t, ":9090", cfg.ServerAddress)
	assert.Equal(t, 30*time.Second, cfg.ContextTimeout)
	assert.Equal(t, 2*time.Minute, cfg.FollowCacheTTL)
	assert.Equal(t, 20, cfg.FeedPageSize)
	assert.Equal(t, CacheMemory, cfg.CacheDriver)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BACKEND_DRIVER", "MySQL")
	t.Setenv("DATABASE_USER", "art")
	t.Setenv("DATABASE_PASS", "pw")
	t.Setenv("DATABASE_NAME", "artshare")
	t.Setenv("CONTEXT_TIMEOUT", "12")
	t.Setenv("FOLLOW_CACHE_TTL", "90s")
	t.Setenv("BACKEND_RPS", "7.5")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:5173, https://art.example.com")
	t.Setenv("DEBUG", "true")
	t.Setenv("CACHE_DB", "not-a-number")

	cfg, err := Load("testdata/missing.env")
	require.NoError(t, err)
	assert.Equal(t, DriverMySQL, cfg.BackendDriver)
	assert.Equal(t, 12*time.Second, cfg.ContextTimeout)
	assert.Equal(t, 90*time.Second, cfg.FollowCacheTTL)
	assert.Equal(t, 7.5, cfg.BackendRPS)
	assert.Equal(t, []string{"http://localhost:5173", "https://art.example.com"}, cfg.AllowedOrigins)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 0, cfg.CacheDB)
	assert.Equal(t, "art:pw@tcp(127.0.0.1:3306)/artshare?parseTime=true&loc=UTC&charset=utf8mb4", cfg.DSN())
}

func TestValidate(t *testing.T) {
	base := Config{BackendDriver: DriverREST, BackendURL: "http://x", CacheDriver: CacheMemory, FeedPageSize: 20}
	require.NoError(t, base.Validate())

	tests := map[string]func(*Config){
		"rest without url":   func(c *Config) { c.BackendURL = "" },
		"unknown driver":     func(c *Config) { c.BackendDriver = "sqlite" },
		"mysql without user": func(c *Config) { c.BackendDriver = DriverMySQL },
		"unknown cache":      func(c *Config) { c.CacheDriver = "memcached" },
		"zero page size":     func(c *Config) { c.FeedPageSize = 0 },
		"wildcard origin":    func(c *Config) { c.AllowedOrigins = []string{"*"} },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := base
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
