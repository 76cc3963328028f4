// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/epiprofile/internal/profile"
	"github.com/leapstack-labs/epiprofile/internal/testutil"
	"github.com/leapstack-labs/epiprofile/internal/ui/notifier"
	"github.com/leapstack-labs/epiprofile/internal/ui/uploads"
)

// TestMaxBytes is the upload limit used by fixtures.
const TestMaxBytes = 4 << 10

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Profiles     *profile.Source
	Uploads      *uploads.Cache
	Notifier     *notifier.Notifier
	SessionStore *sessions.CookieStore

	t *testing.T
}

// SetupTestFixture creates a fixture serving the built-in profile.
func SetupTestFixture(t *testing.T) *TestFixture {
	t.Helper()
	return newFixture(t, profile.Static(profile.Default()))
}

// SetupTestFixtureWithProfile writes content to a profile file and serves it.
// The file path is available through Profiles.Path.
func SetupTestFixtureWithProfile(t *testing.T, content string) *TestFixture {
	t.Helper()

	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	src, err := profile.NewSource(path)
	require.NoError(t, err)
	return newFixture(t, src)
}

func newFixture(t *testing.T, src *profile.Source) *TestFixture {
	store := NewTestSessionStore()
	return &TestFixture{
		Profiles:     src,
		Uploads:      uploads.New(store, TestMaxBytes, 8),
		Notifier:     notifier.New(),
		SessionStore: store,
		t:            t,
	}
}

// Logger returns a logger that writes to the test log.
func (f *TestFixture) Logger() *slog.Logger {
	return testutil.NewTestLogger(f.t)
}

// Upload stores data as the upload of a new session and returns the
// session cookies to attach to later requests.
func (f *TestFixture) Upload(name, data string) []*http.Cookie {
	f.t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/publications/upload", nil)
	rec := httptest.NewRecorder()
	require.NoError(f.t, f.Uploads.Put(rec, req, name, strings.NewReader(data)))
	return rec.Result().Cookies()
}

// WithCookies adds cookies to r and returns it.
func WithCookies(r *http.Request, cookies []*http.Cookie) *http.Request {
	for _, c := range cookies {
		r.AddCookie(c)
	}
	return r
}

// RequestWithTimeout wraps a request with a context timeout.
func RequestWithTimeout(t *testing.T, r *http.Request, timeout time.Duration) *http.Request {
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	t.Cleanup(cancel)
	return r.WithContext(ctx)
}

// NewTestNotifier creates a notifier for testing.
func NewTestNotifier() *notifier.Notifier {
	return notifier.New()
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
	store.Options.Secure = false
	store.Options.SameSite = http.SameSiteLaxMode
	return store
}
