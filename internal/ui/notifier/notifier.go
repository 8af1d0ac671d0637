// Package notifier provides a simple broadcast mechanism for SSE updates.
package notifier

import (
	"slices"
	"sync"
)

// Notifier broadcasts changed data file paths to all subscribed listeners.
// Listeners compare the paths with the file they render and re-render when
// one matches.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[*Listener]struct{}
}

// Listener collects the paths broadcast to it until they are drained.
type Listener struct {
	ready chan struct{}

	mu      sync.Mutex
	pending []string
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[*Listener]struct{}),
	}
}

// Subscribe registers a new listener.
// The caller must call Unsubscribe when done to prevent goroutine leaks.
func (n *Notifier) Subscribe() *Listener {
	l := &Listener{ready: make(chan struct{}, 1)}
	n.mu.Lock()
	n.listeners[l] = struct{}{}
	n.mu.Unlock()
	return l
}

// Unsubscribe removes a listener and closes its Ready channel.
func (n *Notifier) Unsubscribe(l *Listener) {
	n.mu.Lock()
	delete(n.listeners, l)
	n.mu.Unlock()
	close(l.ready)
}

// Broadcast adds path to every listener's pending set and wakes it.
// It never blocks: a listener that has not drained yet keeps one wake-up and
// sees all pending paths on its next Drain.
func (n *Notifier) Broadcast(path string) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for l := range n.listeners {
		l.add(path)
	}
}

// Len returns the number of subscribed listeners.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}

// Ready receives a value when paths are pending. It is closed on Unsubscribe.
func (l *Listener) Ready() <-chan struct{} {
	return l.ready
}

// Drain returns the pending paths in broadcast order, each once, and clears
// them.
func (l *Listener) Drain() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.pending
	l.pending = nil
	return out
}

func (l *Listener) add(path string) {
	l.mu.Lock()
	if !slices.Contains(l.pending, path) {
		l.pending = append(l.pending, path)
	}
	l.mu.Unlock()

	select {
	case l.ready <- struct{}{}:
	default:
	}
}
