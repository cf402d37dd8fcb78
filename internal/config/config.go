// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server process needs at startup.
type Config struct {
	// Port the HTTP server listens on.
	Port string

	// DatabaseURL is the Postgres connection string for the match store.
	DatabaseURL string

	// RedisAddr enables the shared winrate cache when non-empty; otherwise
	// an in-process cache is used.
	RedisAddr     string
	RedisPassword string

	// CacheTTL bounds how long winrate lookups are memoized.
	CacheTTL time.Duration

	// CacheMaxEntries bounds the in-process winrate cache.
	CacheMaxEntries int

	// QueryTimeout bounds every repository read.
	QueryTimeout time.Duration
}

// Load reads the environment, trying the usual .env locations first.
func Load() Config {
	envPaths := []string{".env", "../.env", "../../.env"}
	loaded := false
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			loaded = true
			break
		}
	}
	if !loaded {
		log.Println("No .env file found, using environment variables")
	}

	return Config{
		Port:            envOr("PORT", "8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		CacheTTL:        durationOr("CACHE_TTL", 2*time.Minute),
		CacheMaxEntries: intOr("CACHE_MAX_ENTRIES", 1024),
		QueryTimeout:    durationOr("QUERY_TIMEOUT", 5*time.Second),
	}
}

// Validate checks that required fields are set and bounds are sane.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.QueryTimeout <= 0 {
		return errors.New("QUERY_TIMEOUT must be positive")
	}
	if c.CacheTTL <= 0 {
		return errors.New("CACHE_TTL must be positive")
	}
	if c.CacheMaxEntries < 1 {
		return errors.New("CACHE_MAX_ENTRIES must be >= 1")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Invalid %s %q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func intOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil || n == 0 {
		log.Printf("Invalid %s %q, using %d", key, v, fallback)
		return fallback
	}
	return n
}
