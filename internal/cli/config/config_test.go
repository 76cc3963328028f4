package config

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "epiprofile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Empty(t, cfg.ProfilePath)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, DefaultUIConfig(), cfg.GetUIConfig())
	assert.Equal(t, DefaultUploadConfig(), cfg.GetUploadConfig())
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	path := writeConfig(t, dir, `profile_path: me.yaml
log_level: debug
output: json
ui:
  port: 9000
  auto_open: true
  watch: false
  session_secret: s3cret
upload:
  max_bytes: 1024
  max_sessions: 3
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "me.yaml"), cfg.ProfilePath, "profile path is relative to the config file")
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, &UIConfig{Port: 9000, AutoOpen: true, Watch: false, SessionSecret: "s3cret"}, cfg.GetUIConfig())
	assert.Equal(t, &UploadConfig{MaxBytes: 1024, MaxSessions: 3}, cfg.GetUploadConfig())
	assert.Equal(t, path, GetConfigFileUsed())
}

func TestLoadConfig_FoundUpward(t *testing.T) {
	ResetConfig()
	root := t.TempDir()
	writeConfig(t, root, "ui:\n  port: 9100\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0750))
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.GetUIConfig().Port)
	assert.Equal(t, "epiprofile.yaml", filepath.Base(GetConfigFileUsed()))
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	ResetConfig()

	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

// TestLoadConfig_Precedence checks flags > env vars > config file > defaults.
func TestLoadConfig_Precedence(t *testing.T) {
	newFlags := func() *pflag.FlagSet {
		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.String("profile", "", "profile file")
		flags.String("log-level", "", "log level")
		return flags
	}

	tests := []struct {
		name        string
		env         map[string]string
		flags       map[string]string
		wantLevel   string
		wantProfile string
		wantPort    int
	}{
		{
			name:      "file only",
			wantLevel: "warn",
			wantPort:  9000,
		},
		{
			name:      "env over file",
			env:       map[string]string{"EPIPROFILE_LOG_LEVEL": "error", "EPIPROFILE_UI_PORT": "9200"},
			wantLevel: "error",
			wantPort:  9200,
		},
		{
			name:        "flag over env",
			env:         map[string]string{"EPIPROFILE_LOG_LEVEL": "error", "EPIPROFILE_PROFILE_PATH": "env.yaml"},
			flags:       map[string]string{"log-level": "debug", "profile": "flag.yaml"},
			wantLevel:   "debug",
			wantProfile: "flag.yaml",
			wantPort:    9000,
		},
		{
			name:        "unset flag falls back to env",
			env:         map[string]string{"EPIPROFILE_PROFILE_PATH": "env.yaml"},
			wantLevel:   "warn",
			wantProfile: "env.yaml",
			wantPort:    9000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			path := writeConfig(t, t.TempDir(), "log_level: warn\nui:\n  port: 9000\n")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			flags := newFlags()
			for k, v := range tt.flags {
				require.NoError(t, flags.Set(k, v))
			}

			cfg, err := LoadConfig(path, flags)
			require.NoError(t, err)

			assert.Equal(t, tt.wantLevel, cfg.LogLevel)
			assert.Equal(t, tt.wantProfile, cfg.ProfilePath)
			assert.Equal(t, tt.wantPort, cfg.GetUIConfig().Port)
		})
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, t.TempDir(), "upload:\n  max_bytes: 0\n")

	_, err := LoadConfig(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
	assert.Contains(t, err.Error(), "upload.max_bytes")
	assert.Nil(t, GetCurrentConfig())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		errSubstr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "nil sections use defaults", mutate: func(c *Config) { c.UI, c.Upload = nil, nil }},
		{name: "yaml output", mutate: func(c *Config) { c.OutputFormat = "yaml" }},
		{name: "unknown output", mutate: func(c *Config) { c.OutputFormat = "csv" }, errSubstr: "unknown output format"},
		{name: "unknown level", mutate: func(c *Config) { c.LogLevel = "loud" }, errSubstr: "unknown log_level"},
		{name: "zero port", mutate: func(c *Config) { c.UI.Port = 0 }, errSubstr: "ui.port"},
		{name: "port too large", mutate: func(c *Config) { c.UI.Port = 70000 }, errSubstr: "ui.port"},
		{name: "negative upload size", mutate: func(c *Config) { c.Upload.MaxBytes = -1 }, errSubstr: "upload.max_bytes"},
		{name: "zero sessions", mutate: func(c *Config) { c.Upload.MaxSessions = 0 }, errSubstr: "upload.max_sessions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"EPIPROFILE_UI_PORT":             "ui.port",
		"EPIPROFILE_UI_SESSION_SECRET":   "ui.session_secret",
		"EPIPROFILE_UPLOAD_MAX_SESSIONS": "upload.max_sessions",
		"EPIPROFILE_PROFILE_PATH":        "profile_path",
		"EPIPROFILE_LOG_LEVEL":           "log_level",
	}
	for in, want := range tests {
		assert.Equal(t, want, envKey(in), in)
	}
}

func TestLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()), "falls back to a discard logger")

	var buf bytes.Buffer
	logger := NewLogger(&buf, &Config{LogLevel: "warn"})
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	logger = NewLogger(&buf, &Config{LogLevel: "error", Verbose: true})
	logger.Debug("verbose wins")
	assert.Contains(t, buf.String(), "verbose wins")

	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, GetLogger(ctx))

	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
}
