// Package uploads keeps the most recent publications file per browser session.
//
// The browser holds a signed session cookie with a random upload id; the file
// itself stays in memory on the server. Nothing is written to disk.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/epiprofile/internal/dashboard"
)

// ErrTooLarge is returned by Put when the file exceeds the configured limit.
var ErrTooLarge = errors.New("upload exceeds size limit")

const (
	// SessionName is the cookie name used for the session.
	SessionName = "epiprofile"
	idKey       = "upload_id"
)

// Cache is a bounded in-memory map from session upload id to file.
// When full, the least recently written entry is evicted.
type Cache struct {
	store      sessions.Store
	maxBytes   int64
	maxEntries int

	mu      sync.Mutex
	entries map[string]dashboard.Upload
	order   []string // oldest first
}

// New creates a cache. Non-positive limits fall back to one entry and one byte
// so a misconfiguration cannot make the cache unbounded.
func New(store sessions.Store, maxBytes int64, maxEntries int) *Cache {
	return &Cache{
		store:      store,
		maxBytes:   max(maxBytes, 1),
		maxEntries: max(maxEntries, 1),
		entries:    make(map[string]dashboard.Upload),
	}
}

// MaxBytes returns the per-file size limit.
func (c *Cache) MaxBytes() int64 {
	return c.maxBytes
}

// Len returns the number of cached files.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Get returns the upload for the request's session, or nil.
func (c *Cache) Get(r *http.Request) *dashboard.Upload {
	id := c.sessionID(r)
	if id == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	up, ok := c.entries[id]
	if !ok {
		return nil
	}
	return &up
}

// Put reads src and stores it as the session's upload, replacing any previous
// one. It sets the session cookie on w when the session is new.
func (c *Cache) Put(w http.ResponseWriter, r *http.Request, name string, src io.Reader) error {
	data, err := io.ReadAll(io.LimitReader(src, c.maxBytes+1))
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > c.maxBytes {
		return ErrTooLarge
	}

	session, _ := c.store.Get(r, SessionName)
	id, _ := session.Values[idKey].(string)
	if id == "" {
		id = uuid.NewString()
		session.Values[idKey] = id
		if err := session.Save(r, w); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.order = slices.DeleteFunc(c.order, func(s string) bool { return s == id })
	for len(c.order) >= c.maxEntries {
		delete(c.entries, c.order[0])
		c.order = c.order[1:]
	}
	c.entries[id] = dashboard.Upload{Name: name, Data: data}
	c.order = append(c.order, id)
	return nil
}

// Clear drops the session's upload. The session cookie is kept.
func (c *Cache) Clear(r *http.Request) {
	id := c.sessionID(r)
	if id == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	c.order = slices.DeleteFunc(c.order, func(s string) bool { return s == id })
}

func (c *Cache) sessionID(r *http.Request) string {
	session, err := c.store.Get(r, SessionName)
	if err != nil || session == nil {
		return ""
	}
	id, _ := session.Values[idKey].(string)
	return id
}

// AddNotice queues a one-shot message for the session's next page view.
func (c *Cache) AddNotice(w http.ResponseWriter, r *http.Request, msg string) error {
	session, _ := c.store.Get(r, SessionName)
	session.AddFlash(msg)
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// TakeNotices returns and clears the queued messages. It must run before the
// response body is written.
func (c *Cache) TakeNotices(w http.ResponseWriter, r *http.Request) []string {
	session, err := c.store.Get(r, SessionName)
	if err != nil {
		return nil
	}
	flashes := session.Flashes()
	if len(flashes) == 0 {
		return nil
	}
	_ = session.Save(r, w)

	out := make([]string, 0, len(flashes))
	for _, f := range flashes {
		if s, ok := f.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
