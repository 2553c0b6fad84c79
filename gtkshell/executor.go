// Package gtkshell is the GTK4/layer-shell backend. It renders toast
// surfaces as layer-shell windows and adapts the GLib main context to the
// executor contract the toast core runs on.
package gtkshell

import (
	"sync"
	"time"

	"github.com/diamondburned/gotk4/pkg/glib/v2"

	"github.com/jmylchreest/toastd/runloop"
)

// Executor adapts the default GLib main context to runloop.Executor.
type Executor struct{}

// NewExecutor returns an executor bound to the default GLib main context.
func NewExecutor() *Executor {
	return &Executor{}
}

// Post schedules fn as an idle callback on the GTK main loop.
func (e *Executor) Post(fn func()) {
	glib.IdleAdd(func() bool {
		fn()
		return false
	})
}

// After schedules fn on the GTK main loop once d has elapsed.
func (e *Executor) After(d time.Duration, fn func()) runloop.Timer {
	t := &glibTimer{}
	ms := uint(d / time.Millisecond)
	t.source = glib.TimeoutAdd(ms, func() bool {
		t.mu.Lock()
		if t.settled {
			t.mu.Unlock()
			return false
		}
		t.settled = true
		t.mu.Unlock()
		fn()
		return false
	})
	return t
}

// IsCurrent reports whether the caller holds the default main context.
func (e *Executor) IsCurrent() bool {
	return glib.MainContextDefault().IsOwner()
}

// glibTimer wraps a GLib timeout source as a runloop.Timer.
type glibTimer struct {
	mu      sync.Mutex
	source  glib.SourceHandle
	settled bool
}

// Stop removes the timeout source. It returns false if the callback has
// already fired.
func (t *glibTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.settled {
		return false
	}
	t.settled = true
	glib.SourceRemove(t.source)
	return true
}
