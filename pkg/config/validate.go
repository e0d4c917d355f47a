package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	// api.user is required.
	if c.API.User == "" {
		errs = append(errs, fmt.Errorf("api.user is required (set ENREACHVOICE_APIUSER)"))
	}

	// api.secret or api.password is required.
	if c.API.Secret == "" && c.API.Password == "" {
		errs = append(errs, fmt.Errorf("api.secret or api.password is required (set ENREACHVOICE_APISECRET)"))
	}

	// server.transport must be a known value.
	switch c.Server.Transport {
	case "stdio", "http":
		// valid
	default:
		errs = append(errs, fmt.Errorf("server.transport must be \"stdio\" or \"http\", got %q", c.Server.Transport))
	}

	// server.port must be positive.
	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("server.port must be > 0, got %d", c.Server.Port))
	}

	// auth.type must be a known value.
	switch c.Auth.Type {
	case "none", "apikey", "jwt":
		// valid
	default:
		errs = append(errs, fmt.Errorf("auth.type must be \"none\", \"apikey\", or \"jwt\", got %q", c.Auth.Type))
	}

	// auth.type=apikey needs at least one key.
	if c.Auth.Type == "apikey" && len(c.Auth.APIKeys) == 0 {
		errs = append(errs, fmt.Errorf("auth.api_keys must not be empty when auth.type is \"apikey\""))
	}

	// auth.type=jwt needs a signing secret.
	if c.Auth.Type == "jwt" && c.Auth.JWTSecret == "" {
		errs = append(errs, fmt.Errorf("auth.jwt_secret is required when auth.type is \"jwt\""))
	}

	// tools bounds must be positive.
	if c.Tools.MaxDirectoryEntries <= 0 {
		errs = append(errs, fmt.Errorf("tools.max_directory_entries must be > 0, got %d", c.Tools.MaxDirectoryEntries))
	}
	if c.Tools.TranscriptPollAttempts < 0 {
		errs = append(errs, fmt.Errorf("tools.transcript_poll_attempts must be >= 0, got %d", c.Tools.TranscriptPollAttempts))
	}

	return errors.Join(errs...)
}
