package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/epistle/pkg/middleware"
	"github.com/JaimeStill/epistle/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "EPISTLE_CORS_ENABLED",
	Origins:          "EPISTLE_CORS_ORIGINS",
	AllowedMethods:   "EPISTLE_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "EPISTLE_CORS_ALLOWED_HEADERS",
	AllowCredentials: "EPISTLE_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "EPISTLE_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "EPISTLE_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "EPISTLE_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, CORS, and pagination settings.
type APIConfig struct {
	BasePath   string                `toml:"base_path"`
	CORS       middleware.CORSConfig `toml:"cors"`
	Pagination pagination.Config     `toml:"pagination"`
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("EPISTLE_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
}
