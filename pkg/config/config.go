// Package config provides unified configuration for the EnreachVoice
// MCP server.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (ENREACHVOICE_ prefix)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
//
// The credentials ENREACHVOICE_APIUSER and ENREACHVOICE_APISECRET are
// read once at startup; a missing or empty credential (with no config
// file fallback) fails validation before any tool becomes callable.
package config

import "time"

// Config holds all configuration for the EnreachVoice MCP server.
type Config struct {
	API           APIConfig           `yaml:"api"`
	Server        ServerConfig        `yaml:"server"`
	Auth          AuthConfig          `yaml:"auth"`
	Tools         ToolsConfig         `yaml:"tools"`
	Observability ObservabilityConfig `yaml:"observability"`
	Debug         DebugConfig         `yaml:"debug"`
}

// APIConfig holds EnreachVoice API credentials and connection settings.
type APIConfig struct {
	User         string        `yaml:"user"`           // required
	UserFile     string        `yaml:"user_file"`      // _file variant for user
	Secret       string        `yaml:"secret"`         // required unless password set
	SecretFile   string        `yaml:"secret_file"`    // _file variant for secret
	Password     string        `yaml:"password"`       // alternative to secret
	PasswordFile string        `yaml:"password_file"`  // _file variant for password
	Endpoint     string        `yaml:"endpoint"`       // optional, skips discovery
	DiscoveryURL string        `yaml:"discovery_url"`  // default: https://discover.enreachvoice.com
	Timeout      time.Duration `yaml:"timeout"`        // default: 30s
}

// ServerConfig holds MCP transport settings.
type ServerConfig struct {
	Transport    string        `yaml:"transport"`     // "stdio" or "http", default: "stdio"
	Port         int           `yaml:"port"`          // default: 8080 (http transport only)
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"` // default: 120s
}

// AuthConfig holds authentication settings for the HTTP transport.
// The stdio transport relies on the host process boundary and uses no auth.
type AuthConfig struct {
	Type      string         `yaml:"type"`       // "none", "apikey", or "jwt", default: "none"
	APIKeys   []APIKeyConfig `yaml:"api_keys"`   // key entries for type=apikey
	JWTSecret string         `yaml:"jwt_secret"` // HS256 secret for type=jwt
	Issuer    string         `yaml:"issuer"`     // expected iss claim (optional)
	Audience  string         `yaml:"audience"`   // expected aud claim (optional)
}

// APIKeyConfig describes a single API key entry.
type APIKeyConfig struct {
	Key     string `yaml:"key"`
	KeyFile string `yaml:"key_file"` // _file variant for key
	Subject string `yaml:"subject"`
}

// ToolsConfig holds tool-surface settings.
type ToolsConfig struct {
	// DefaultDirectory names the directory whose service-queue entries
	// provide queue descriptions. Default: "Default".
	DefaultDirectory string `yaml:"default_directory"`

	// MaxDirectoryEntries caps directory listing sizes. Default: 1000.
	MaxDirectoryEntries int `yaml:"max_directory_entries"`

	// RecordingsDir is where save_recording writes audio files.
	// Default: "recordings".
	RecordingsDir string `yaml:"recordings_dir"`

	// TranscriptPollInterval is the delay between pending transcript
	// re-fetches. Default: 10s.
	TranscriptPollInterval time.Duration `yaml:"transcript_poll_interval"`

	// TranscriptPollAttempts bounds pending transcript re-fetches.
	// Default: 10.
	TranscriptPollAttempts int `yaml:"transcript_poll_attempts"`
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings
// (http transport only).
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// DebugConfig holds debug logging settings.
type DebugConfig struct {
	Categories string `yaml:"categories"` // e.g. "api,tools"
	Level      string `yaml:"level"`      // ERROR..TRACE, default: INFO
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		API: APIConfig{
			DiscoveryURL: "https://discover.enreachvoice.com",
			Timeout:      30 * time.Second,
		},
		Server: ServerConfig{
			Transport:    "stdio",
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
		},
		Auth: AuthConfig{
			Type: "none",
		},
		Tools: ToolsConfig{
			DefaultDirectory:       "Default",
			MaxDirectoryEntries:    1000,
			RecordingsDir:          "recordings",
			TranscriptPollInterval: 10 * time.Second,
			TranscriptPollAttempts: 10,
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
	}
}
