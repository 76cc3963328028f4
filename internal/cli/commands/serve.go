package commands

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/epiprofile/internal/cli/config"
	"github.com/leapstack-labs/epiprofile/internal/profile"
	"github.com/leapstack-labs/epiprofile/internal/ui"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port  int
	Open  bool
	Watch bool
}

// serveSettings is the effective server setup after config and flags.
type serveSettings struct {
	Port          int
	AutoOpen      bool
	Watch         bool
	SessionSecret string
	MaxUploadSize int64
	MaxSessions   int
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the profile dashboard",
		Long: `Start a local web server with the research profile dashboard.

The dashboard provides:
- Profile, research areas and at-a-glance metrics
- Publications CSV upload with keyword filter
- Publications per year trend
- Synthetic demo dataset explorer
- Contact details

When a profile file is configured and watching is on, edits to it are
pushed to open pages without a reload.`,
		Example: `  # Start on the default port
  epiprofile serve

  # Start on a custom port with a profile file
  epiprofile serve --port 3000 --profile me.yaml

  # Open the browser once the server is up
  epiprofile serve --open`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().BoolVar(&opts.Open, "open", false, "Open the dashboard in a browser")
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Watch the profile file for changes")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cmdCtx := NewCommandContext(cmd)
	logger := cmdCtx.Logger

	settings := resolveServeSettings(cmdCtx.Cfg, opts, cmd)
	if settings.SessionSecret == "" {
		secret, err := generateSessionSecret()
		if err != nil {
			return fmt.Errorf("failed to generate session secret: %w", err)
		}
		settings.SessionSecret = secret
		logger.Debug("using a random session secret; uploads will not survive a restart")
	}

	profiles, err := profile.NewSource(cmdCtx.Cfg.ProfilePath)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	server := ui.NewServer(ui.Config{
		Profiles:      profiles,
		Port:          settings.Port,
		Watch:         settings.Watch,
		SessionSecret: settings.SessionSecret,
		MaxUploadSize: settings.MaxUploadSize,
		MaxSessions:   settings.MaxSessions,
		Logger:        logger,
	})

	ctx := cmd.Context()
	go func() {
		select {
		case <-server.Ready():
		case <-ctx.Done():
			return
		}
		r := cmdCtx.Renderer
		r.Printf("Serving %s on %s\n", profiles.Current().Name, server.URL())
		r.Println("Press Ctrl+C to stop")
		if settings.AutoOpen {
			openBrowser(server.URL())
		}
	}()

	return server.Serve(ctx)
}

// resolveServeSettings applies command flags over the loaded config.
func resolveServeSettings(cfg *config.Config, opts *ServeOptions, cmd *cobra.Command) serveSettings {
	uiCfg := cfg.GetUIConfig()
	upCfg := cfg.GetUploadConfig()

	s := serveSettings{
		Port:          uiCfg.Port,
		AutoOpen:      uiCfg.AutoOpen,
		Watch:         uiCfg.Watch,
		SessionSecret: uiCfg.SessionSecret,
		MaxUploadSize: upCfg.MaxBytes,
		MaxSessions:   upCfg.MaxSessions,
	}

	if opts.Port != 0 {
		s.Port = opts.Port
	}
	if cmd.Flags().Changed("open") {
		s.AutoOpen = opts.Open
	}
	if cmd.Flags().Changed("watch") {
		s.Watch = opts.Watch
	}
	return s
}

// generateSessionSecret returns a random key for signing session cookies.
func generateSessionSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
