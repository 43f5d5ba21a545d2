// Package environment provides utilities for loading configuration from
// environment variables with namespacing and defaults.
package environment

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads variables from the given .env files, or from ./.env when no
// path is given. A missing file is not an error; variables already present in
// the process environment are never overwritten.
//
// Example:
//
//	if err := environment.LoadEnv(); err != nil {
//	    log.Printf("loading .env: %v", err)
//	}
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// GetEnvOrDefault retrieves an environment variable value, returning fallback
// when the variable is not set.
func GetEnvOrDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// GetEnvKeyPrefix joins a namespace prefix and a key with an underscore.
// An empty prefix returns the key unchanged.
//
//	GetEnvKeyPrefix("ANCHORBOARD", "PORT") // "ANCHORBOARD_PORT"
func GetEnvKeyPrefix(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return fmt.Sprintf("%s_%s", prefix, key)
}

// GetNamespaceEnvOrDefault looks up prefix_key, returning fallback if unset.
func GetNamespaceEnvOrDefault(prefix, key, fallback string) string {
	return GetEnvOrDefault(GetEnvKeyPrefix(prefix, key), fallback)
}
