package api

import (
	"errors"
	"time"
)

// Sentinel errors for configuration validation
var (
	// ErrInvalidTimeout is returned when a timeout value is invalid (negative).
	ErrInvalidTimeout = errors.New("invalid timeout: must be >= 0")
)

// Config holds API-level configuration.
// This includes timeout settings for request handling.
type Config struct {
	// HandlerTimeout is the maximum duration for an API handler to complete.
	// If a handler exceeds this timeout, it will return HTTP 504 Gateway Timeout.
	//
	// This timeout is applied at the handler level ONLY if the request context
	// doesn't already have a deadline. This allows:
	// - Middleware to set shorter timeouts (takes precedence)
	// - Clients to control timeouts via request headers
	//
	// Generation itself runs in background jobs and is not bound by this
	// timeout; handlers only enqueue work and read state.
	//
	// Default: 30 seconds
	HandlerTimeout time.Duration
}

// DefaultConfig returns the default API configuration with sensible timeout values.
func DefaultConfig() Config {
	return Config{
		HandlerTimeout: 30 * time.Second,
	}
}

// Validate checks that the configuration is valid.
// Returns an error if any configuration value is invalid.
func (c Config) Validate() error {
	if c.HandlerTimeout < 0 {
		return ErrInvalidTimeout
	}
	return nil
}
