// Package toast implements the transient notification queue shown on every
// page: short success/error messages that expire on their own.
package toast

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind is the visual flavor of a toast.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// DefaultTTL matches the console's fixed display time.
const DefaultTTL = 2500 * time.Millisecond

// Toast is one queued notification.
type Toast struct {
	ID      uuid.UUID
	Kind    Kind
	Message string
}

// Notifier owns a queue of toasts, each removed after the TTL elapses.
// Safe for concurrent use; expiry timers fire on their own goroutines.
type Notifier struct {
	mu     sync.Mutex
	ttl    time.Duration
	toasts []Toast
}

// NewNotifier creates a queue with the given TTL; zero means DefaultTTL.
func NewNotifier(ttl time.Duration) *Notifier {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Notifier{ttl: ttl}
}

// Notify appends a toast and schedules its removal.
func (n *Notifier) Notify(kind Kind, message string) uuid.UUID {
	id := uuid.New()
	n.mu.Lock()
	n.toasts = append(n.toasts, Toast{ID: id, Kind: kind, Message: message})
	n.mu.Unlock()

	time.AfterFunc(n.ttl, func() {
		n.Dismiss(id)
	})
	return id
}

// Success enqueues a success toast.
func (n *Notifier) Success(message string) uuid.UUID {
	return n.Notify(KindSuccess, message)
}

// Error enqueues an error toast.
func (n *Notifier) Error(message string) uuid.UUID {
	return n.Notify(KindError, message)
}

// Dismiss removes a toast by id. Removing an already-expired toast is a
// no-op.
func (n *Notifier) Dismiss(id uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, t := range n.toasts {
		if t.ID == id {
			n.toasts = append(n.toasts[:i], n.toasts[i+1:]...)
			return
		}
	}
}

// Active snapshots the visible toasts in insertion order.
func (n *Notifier) Active() []Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Toast, len(n.toasts))
	copy(out, n.toasts)
	return out
}

// Flush drops every queued toast. Used between test scenarios.
func (n *Notifier) Flush() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.toasts = nil
}
