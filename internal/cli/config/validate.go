package config

import (
	"fmt"
	"log/slog"
	"strings"
)

var outputModes = []string{"auto", "text", "markdown", "json", "yaml"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.OutputFormat != "" && !contains(outputModes, c.OutputFormat) {
		return fmt.Errorf("unknown output format %q (want one of: %s)", c.OutputFormat, strings.Join(outputModes, ", "))
	}

	if c.LogLevel != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
			return fmt.Errorf("unknown log_level %q (want debug, info, warn or error)", c.LogLevel)
		}
	}

	ui := c.GetUIConfig()
	if ui.Port <= 0 || ui.Port > 65535 {
		return fmt.Errorf("ui.port must be between 1 and 65535, got %d", ui.Port)
	}

	up := c.GetUploadConfig()
	if up.MaxBytes <= 0 {
		return fmt.Errorf("upload.max_bytes must be positive, got %d", up.MaxBytes)
	}
	if up.MaxSessions <= 0 {
		return fmt.Errorf("upload.max_sessions must be positive, got %d", up.MaxSessions)
	}

	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
