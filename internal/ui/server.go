// Package ui serves the researcher profile dashboard.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/epiprofile/internal/profile"
	"github.com/leapstack-labs/epiprofile/internal/ui/notifier"
	"github.com/leapstack-labs/epiprofile/internal/ui/resources"
	"github.com/leapstack-labs/epiprofile/internal/ui/router"
	"github.com/leapstack-labs/epiprofile/internal/ui/uploads"
)

const reloadDebounce = 100 * time.Millisecond

// Server is the dashboard HTTP server.
type Server struct {
	profiles     *profile.Source
	sessionStore *sessions.CookieStore
	uploads      *uploads.Cache
	port         int
	watch        bool
	logger       *slog.Logger
	notifier     *notifier.Notifier

	// ready is closed once the listener is bound.
	ready chan struct{}
	addr  net.Addr
}

// Config holds configuration for the UI server.
type Config struct {
	Profiles      *profile.Source
	Port          int
	Watch         bool
	SessionSecret string
	MaxUploadSize int64
	MaxSessions   int
	Logger        *slog.Logger
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400) // 1 day
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Secure = false // served over plain HTTP
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Server{
		profiles:     cfg.Profiles,
		sessionStore: sessionStore,
		uploads:      uploads.New(sessionStore, cfg.MaxUploadSize, cfg.MaxSessions),
		port:         cfg.Port,
		watch:        cfg.Watch,
		logger:       logger,
		notifier:     notifier.New(),
		ready:        make(chan struct{}),
	}
}

// Handler builds the router with middleware and all feature routes.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	err := router.SetupRoutes(r, router.Deps{
		Profiles: s.profiles,
		Uploads:  s.uploads,
		Notifier: s.notifier,
		Logger:   s.logger,
		IsDev:    s.IsDev(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.port, err)
	}
	s.addr = ln.Addr()
	close(s.ready)
	s.logger.Info("starting UI server", "addr", s.URL())

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch && s.profiles.Path() != "" {
		eg.Go(func() error {
			return s.watchProfile(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// Ready is closed once Serve has bound its listener.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// URL returns the address browsers should open. It is valid after Ready.
func (s *Server) URL() string {
	port := s.port
	if tcp, ok := s.addr.(*net.TCPAddr); ok {
		port = tcp.Port
	}
	return fmt.Sprintf("http://localhost:%d", port)
}

// IsDev reports whether assets are served from disk with hot reload.
func (s *Server) IsDev() bool {
	return resources.Dev
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// watchProfile reloads the profile when its file changes and pings open pages.
// The parent directory is watched so that editors that replace the file on
// save are seen as well.
func (s *Server) watchProfile(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	path, err := filepath.Abs(s.profiles.Path())
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		s.logger.Error("failed to watch profile directory", "error", err)
		// Don't fail - continue without watching
		<-ctx.Done()
		return nil
	}

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != path {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(reloadDebounce, s.reloadProfile)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

func (s *Server) reloadProfile() {
	if err := s.profiles.Reload(); err != nil {
		s.logger.Warn("profile reload failed, keeping previous profile", "path", s.profiles.Path(), "error", err)
		return
	}
	sent := s.notifier.Broadcast()
	s.logger.Info("profile reloaded", "path", s.profiles.Path(), "pages", sent)
}
