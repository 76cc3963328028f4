// Package config provides configuration management for the epiprofile CLI.
package config

// UIConfig holds configuration for the dashboard server.
type UIConfig struct {
	Port          int    `koanf:"port"`
	AutoOpen      bool   `koanf:"auto_open"`
	Watch         bool   `koanf:"watch"`
	SessionSecret string `koanf:"session_secret"`
}

// DefaultUIConfig returns a UIConfig with default values.
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		Port:     DefaultPort,
		AutoOpen: false,
		Watch:    true,
	}
}

// UploadConfig bounds the publications upload cache.
type UploadConfig struct {
	MaxBytes    int64 `koanf:"max_bytes"`
	MaxSessions int   `koanf:"max_sessions"`
}

// DefaultUploadConfig returns an UploadConfig with default values.
func DefaultUploadConfig() *UploadConfig {
	return &UploadConfig{
		MaxBytes:    DefaultMaxUploadBytes,
		MaxSessions: DefaultMaxSessions,
	}
}

// Config holds all CLI configuration options.
type Config struct {
	ProfilePath  string        `koanf:"profile_path"`
	LogLevel     string        `koanf:"log_level"`
	Verbose      bool          `koanf:"verbose"`
	OutputFormat string        `koanf:"output"`
	UI           *UIConfig     `koanf:"ui"`
	Upload       *UploadConfig `koanf:"upload"`
}

// GetUIConfig returns the UI config, or the defaults when none was loaded.
func (c *Config) GetUIConfig() *UIConfig {
	if c.UI == nil {
		return DefaultUIConfig()
	}
	return c.UI
}

// GetUploadConfig returns the upload config, or the defaults when none was loaded.
func (c *Config) GetUploadConfig() *UploadConfig {
	if c.Upload == nil {
		return DefaultUploadConfig()
	}
	return c.Upload
}

// Default returns the configuration used when nothing was loaded.
func Default() *Config {
	return &Config{
		LogLevel:     DefaultLogLevel,
		OutputFormat: DefaultOutput,
		UI:           DefaultUIConfig(),
		Upload:       DefaultUploadConfig(),
	}
}

// Default configuration values.
const (
	DefaultPort           = 8765
	DefaultLogLevel       = "info"
	DefaultOutput         = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultMaxUploadBytes = 5 << 20
	DefaultMaxSessions    = 256
	EnvPrefix             = "EPIPROFILE_"
)
