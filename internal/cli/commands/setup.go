package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/epiprofile/internal/cli/config"
	"github.com/leapstack-labs/epiprofile/internal/cli/output"
	"github.com/leapstack-labs/epiprofile/internal/profile"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext for cmd.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	mode := output.Mode(cfg.OutputFormat)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode),
	}
}

// LoadProfile loads the configured profile, or the built-in one.
func (c *CommandContext) LoadProfile() (*profile.Profile, error) {
	p, err := profile.Load(c.Cfg.ProfilePath)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("profile loaded", "path", c.Cfg.ProfilePath, "name", p.Name)
	return p, nil
}

// getConfig returns the current configuration, or the defaults when the
// command runs without the root command's config loading.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}
