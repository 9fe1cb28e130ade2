// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateEmbedding(); err != nil {
		return err
	}

	if err := c.validateSearch(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateAPI(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateEmbedding validates the embedding API client settings.
func (c *Config) validateEmbedding() error {
	if c.Embedding.BaseURL == "" {
		return fmt.Errorf("EMBEDDING_BASE_URL must not be empty")
	}
	if err := validateHTTPURL(c.Embedding.BaseURL, "EMBEDDING_BASE_URL"); err != nil {
		return err
	}
	if c.Embedding.Model == "" {
		return fmt.Errorf("EMBEDDING_MODEL must not be empty")
	}
	if c.Embedding.Dimensions <= 0 {
		return fmt.Errorf("EMBEDDING_DIMENSIONS must be positive")
	}
	if c.Embedding.MaxRetries < 0 {
		return fmt.Errorf("EMBEDDING_MAX_RETRIES must not be negative")
	}
	if c.Embedding.RequestsPerMinute <= 0 {
		return fmt.Errorf("EMBEDDING_REQUESTS_PER_MINUTE must be positive")
	}
	if c.Embedding.RequestsPerDay <= 0 {
		return fmt.Errorf("EMBEDDING_REQUESTS_PER_DAY must be positive")
	}
	return nil
}

// validateSearch validates pipeline bounds. FinalTopK larger than
// InitialTopK would silently return fewer results than asked for.
func (c *Config) validateSearch() error {
	if c.Search.InitialTopK <= 0 {
		return fmt.Errorf("SEARCH_INITIAL_TOP_K must be positive")
	}
	if c.Search.FinalTopK <= 0 {
		return fmt.Errorf("SEARCH_FINAL_TOP_K must be positive")
	}
	if c.Search.FinalTopK > c.Search.InitialTopK {
		return fmt.Errorf("SEARCH_FINAL_TOP_K (%d) must not exceed SEARCH_INITIAL_TOP_K (%d)",
			c.Search.FinalTopK, c.Search.InitialTopK)
	}
	if c.Search.CacheTTL <= 0 {
		return fmt.Errorf("SEARCH_CACHE_TTL must be positive")
	}
	if c.Search.DiversityLambda < 0 || c.Search.DiversityLambda > 1 {
		return fmt.Errorf("SEARCH_DIVERSITY_LAMBDA must be between 0 and 1")
	}
	return nil
}

// validateServer validates HTTP server settings.
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

// validateAPI validates pagination and rate limit settings.
func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be at least 1")
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("API_MAX_PAGE_SIZE must not be smaller than API_DEFAULT_PAGE_SIZE")
	}
	if !c.API.RateLimitDisabled && c.API.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
	}
	return nil
}

// validateLogging validates log level and format.
func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT %q must be json or console", c.Logging.Format)
	}
	return nil
}

// validateHTTPURL checks that a URL parses and uses an http(s) scheme.
func validateHTTPURL(raw, name string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https scheme", name)
	}
	if u.Host == "" {
		return fmt.Errorf("%s is missing a host", name)
	}
	return nil
}
