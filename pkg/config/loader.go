package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. YAML config file (explicit path, ENREACHVOICE_CONFIG env,
//     ./config.yaml, /etc/enreachvoice-mcp/config.yaml)
//  3. Environment variable overrides
//  4. File reference resolution (_file suffix)
//  5. Validation
func Load(configPath string) (*Config, error) {
	// Start with defaults.
	cfg := Defaults()

	// Discover and load YAML config file.
	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadYAMLFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
	}

	// Apply environment variable overrides.
	applyEnvOverrides(&cfg)

	// Resolve _file references.
	if err := resolveFileReferences(&cfg); err != nil {
		return nil, fmt.Errorf("resolving file references: %w", err)
	}

	// Validate.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigFile finds the config file path using the discovery order:
// 1. Explicit configPath argument
// 2. ENREACHVOICE_CONFIG environment variable
// 3. ./config.yaml in the current directory
// 4. /etc/enreachvoice-mcp/config.yaml
//
// Returns empty string if no config file is found.
func discoverConfigFile(configPath string) string {
	// Explicit path takes priority.
	if configPath != "" {
		return configPath
	}

	// Check ENREACHVOICE_CONFIG env var.
	if envPath := os.Getenv("ENREACHVOICE_CONFIG"); envPath != "" {
		return envPath
	}

	// Check common locations.
	candidates := []string{
		"config.yaml",
		"/etc/enreachvoice-mcp/config.yaml",
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadYAMLFile reads and parses a YAML file into the Config struct.
// Fields not present in the YAML retain their current (default) values.
func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnvOverrides maps environment variables to config fields.
// ENREACHVOICE_APIUSER and ENREACHVOICE_APISECRET are the canonical
// credential variables; env values override config file values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ENREACHVOICE_APIUSER"); v != "" {
		cfg.API.User = v
	}
	if v := os.Getenv("ENREACHVOICE_APISECRET"); v != "" {
		cfg.API.Secret = v
	}
	if v := os.Getenv("ENREACHVOICE_APIPASSWORD"); v != "" {
		cfg.API.Password = v
	}
	if v := os.Getenv("ENREACHVOICE_ENDPOINT"); v != "" {
		cfg.API.Endpoint = v
	}
	if v := os.Getenv("ENREACHVOICE_DISCOVERY_URL"); v != "" {
		cfg.API.DiscoveryURL = v
	}
	if v := os.Getenv("ENREACHVOICE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.API.Timeout = d
		}
	}
	if v := os.Getenv("ENREACHVOICE_TRANSPORT"); v != "" {
		cfg.Server.Transport = v
	}
	if v := os.Getenv("ENREACHVOICE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("ENREACHVOICE_AUTH_TYPE"); v != "" {
		cfg.Auth.Type = v
	}
	if v := os.Getenv("ENREACHVOICE_RECORDINGS_DIR"); v != "" {
		cfg.Tools.RecordingsDir = v
	}
}

// resolveFileReferences reads _file fields and populates the corresponding
// value fields. For each field ending in _file, if the value field is empty
// and the file field is set, the file is read, whitespace is trimmed, and
// the value field is populated.
func resolveFileReferences(cfg *Config) error {
	// api.user_file -> api.user
	if cfg.API.UserFile != "" && cfg.API.User == "" {
		val, err := readSecretFile(cfg.API.UserFile)
		if err != nil {
			return fmt.Errorf("api.user_file: %w", err)
		}
		cfg.API.User = val
	}

	// api.secret_file -> api.secret
	if cfg.API.SecretFile != "" && cfg.API.Secret == "" {
		val, err := readSecretFile(cfg.API.SecretFile)
		if err != nil {
			return fmt.Errorf("api.secret_file: %w", err)
		}
		cfg.API.Secret = val
	}

	// api.password_file -> api.password
	if cfg.API.PasswordFile != "" && cfg.API.Password == "" {
		val, err := readSecretFile(cfg.API.PasswordFile)
		if err != nil {
			return fmt.Errorf("api.password_file: %w", err)
		}
		cfg.API.Password = val
	}

	// auth.api_keys[*].key_file -> auth.api_keys[*].key
	for i := range cfg.Auth.APIKeys {
		if cfg.Auth.APIKeys[i].KeyFile != "" && cfg.Auth.APIKeys[i].Key == "" {
			val, err := readSecretFile(cfg.Auth.APIKeys[i].KeyFile)
			if err != nil {
				return fmt.Errorf("auth.api_keys[%d].key_file: %w", i, err)
			}
			cfg.Auth.APIKeys[i].Key = val
		}
	}

	return nil
}

// readSecretFile reads a file and returns its content with surrounding
// whitespace trimmed.
func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
