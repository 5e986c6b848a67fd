// Package feedback shows transient status messages to the user.
package feedback

import (
	"sync"
	"time"
)

// DefaultDismissAfter is how long a message stays visible.
const DefaultDismissAfter = 3 * time.Second

// Notifier holds at most one visible message. A new message immediately
// replaces the current one; messages are never queued. Each message
// auto-dismisses after the configured interval.
type Notifier struct {
	mu        sync.Mutex
	dismiss   time.Duration
	current   string
	seq       uint64
	listeners []func()
}

func NewNotifier(dismissAfter time.Duration) *Notifier {
	if dismissAfter <= 0 {
		dismissAfter = DefaultDismissAfter
	}
	return &Notifier{dismiss: dismissAfter}
}

// Flash displays msg, replacing whatever is currently showing, and arms
// its dismissal. A message flashed later invalidates earlier timers.
func (n *Notifier) Flash(msg string) {
	n.mu.Lock()
	n.seq++
	seq := n.seq
	n.current = msg
	n.mu.Unlock()
	n.notify()

	time.AfterFunc(n.dismiss, func() {
		n.mu.Lock()
		if n.seq != seq {
			n.mu.Unlock()
			return
		}
		n.current = ""
		n.mu.Unlock()
		n.notify()
	})
}

// Current returns the visible message, if any.
func (n *Notifier) Current() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current, n.current != ""
}

// Subscribe registers a callback invoked whenever the visible message
// changes, including dismissal.
func (n *Notifier) Subscribe(fn func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, fn)
}

func (n *Notifier) notify() {
	n.mu.Lock()
	listeners := make([]func(), len(n.listeners))
	copy(listeners, n.listeners)
	n.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}
