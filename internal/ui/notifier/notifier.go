// Package notifier fans out profile-change pings to open dashboard pages.
package notifier

import "sync"

// Notifier pings every subscribed page stream when the profile changes.
// A ping carries no data; subscribers re-read the current profile.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan struct{}]struct{}
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan struct{}]struct{}),
	}
}

// Subscribe returns a channel that receives a ping per change.
// The caller must call Unsubscribe when the stream ends.
func (n *Notifier) Subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (n *Notifier) Unsubscribe(ch chan struct{}) {
	n.mu.Lock()
	delete(n.listeners, ch)
	n.mu.Unlock()
	close(ch)
}

// Subscribers returns the number of open streams.
func (n *Notifier) Subscribers() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}

// Broadcast pings all listeners and returns how many were pinged.
// A listener with a ping already pending is skipped; it will re-read anyway.
func (n *Notifier) Broadcast() int {
	n.mu.RLock()
	defer n.mu.RUnlock()

	sent := 0
	for ch := range n.listeners {
		select {
		case ch <- struct{}{}:
			sent++
		default:
		}
	}
	return sent
}
