// Package config reads the service configuration from the environment.
package config

import (
	"errors"
	"os"
	"strings"
)

// ErrMissingDatabaseURL means neither DB_URL nor DATABASE_URL is set.
var ErrMissingDatabaseURL = errors.New("missing DB_URL (or DATABASE_URL) environment variable")

type Config struct {
	// DatabaseURL is the Postgres connection string, scheme-normalized.
	DatabaseURL string
	// Addr is the listen address, ":8080" by default.
	Addr string
}

// Load builds a Config from DB_URL (falling back to DATABASE_URL) and
// PORT.
func Load() (Config, error) {
	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		return Config{}, ErrMissingDatabaseURL
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return Config{
		DatabaseURL: NormalizeDatabaseURL(dbURL),
		Addr:        ":" + port,
	}, nil
}

// NormalizeDatabaseURL rewrites the legacy "postgres://" scheme, still
// emitted by some hosting providers, to "postgresql://".
func NormalizeDatabaseURL(url string) string {
	if rest, ok := strings.CutPrefix(url, "postgres://"); ok {
		return "postgresql://" + rest
	}
	return url
}
