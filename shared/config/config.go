// Package config reads service settings from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/Thanush-41/AgriXchange/shared/logger"
)

// LoadDotEnv loads variables from the given .env files (".env" when none given).
// Missing files are not an error; variables already set in the environment win.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			logger.Debug("env file not loaded, using process environment", map[string]any{
				"file":  f,
				"error": err.Error(),
			})
		}
	}
}

// GetEnv returns the value of key, or def when it is unset or empty
func GetEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// GetEnvInt returns key parsed as an int, or def when unset or malformed
func GetEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.Warn("invalid integer in environment, using default", map[string]any{
			"key":     key,
			"value":   v,
			"default": def,
		})
		return def
	}
	return n
}

// GetEnvDuration returns key parsed with time.ParseDuration ("10s", "2m"),
// or def when unset or malformed
func GetEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		logger.Warn("invalid duration in environment, using default", map[string]any{
			"key":     key,
			"value":   v,
			"default": def.String(),
		})
		return def
	}
	return d
}
