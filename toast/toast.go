// Package toast implements the transient-notification core: the Toast
// entity and its lifecycle state machine, and the Center scheduler that
// guarantees at most one toast is ever on screen.
package toast

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jmylchreest/toastd/anim"
	"github.com/jmylchreest/toastd/surface"
)

// State is the lifecycle state of a toast.
type State int32

const (
	// StatePending means the toast is queued but not started.
	StatePending State = iota
	// StateExecuting means the toast is on screen, animating or holding.
	StateExecuting
	// StateFinished is terminal, reached by normal playout or
	// cancellation.
	StateFinished
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateExecuting:
		return "executing"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Named hold-duration presets and the default transition length.
const (
	// DurationShort is the short hold preset.
	DurationShort = 2 * time.Second
	// DurationLong is the long hold preset.
	DurationLong = 3500 * time.Millisecond
	// DefaultTransition is the default enter/exit transition length.
	DefaultTransition = 300 * time.Millisecond
)

// Action is an optional action button on a toast.
type Action struct {
	Label  string
	Invoke func()
}

// Toast is one notification request. It is created by the caller, enqueued
// with Show, driven by the Center, and interruptible at any pre-finished
// point with Cancel.
type Toast struct {
	id     string
	text   string
	markup string
	icon   string
	action *Action

	delay      time.Duration
	duration   time.Duration
	transition time.Duration
	enter      anim.Transition
	exit       anim.Transition

	center *Center

	state     atomic.Int32
	cancelled atomic.Bool

	mu   sync.Mutex
	surf surface.Surface

	doneOnce sync.Once
	done     chan struct{}
}

// New creates a toast bound to the given center. Defaults: hold
// DurationShort, transition DefaultTransition, no delay, fade-in enter,
// fade-out exit.
func New(center *Center, text string, opts ...Option) *Toast {
	t := &Toast{
		id:         ulid.Make().String(),
		text:       text,
		center:     center,
		duration:   DurationShort,
		transition: DefaultTransition,
		enter:      anim.FadeIn(),
		exit:       anim.FadeOut(),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ID returns the toast's unique identifier.
func (t *Toast) ID() string { return t.id }

// Text returns the plain display text.
func (t *Toast) Text() string { return t.text }

// Markup returns the styled text markup, empty when the toast is plain.
func (t *Toast) Markup() string { return t.markup }

// Icon returns the icon name or image path, empty when none.
func (t *Toast) Icon() string { return t.icon }

// Action returns the optional action button, nil when none.
func (t *Toast) Action() *Action { return t.action }

// Delay returns the delay before the toast is presented.
func (t *Toast) Delay() time.Duration { return t.delay }

// Duration returns the visible dwell time.
func (t *Toast) Duration() time.Duration { return t.duration }

// TransitionDuration returns the enter/exit transition length.
func (t *Toast) TransitionDuration() time.Duration { return t.transition }

// State returns the current lifecycle state.
func (t *Toast) State() State {
	return State(t.state.Load())
}

// Cancelled reports whether Cancel has been called.
func (t *Toast) Cancelled() bool {
	return t.cancelled.Load()
}

// Done returns a channel closed when the toast reaches StateFinished.
func (t *Toast) Done() <-chan struct{} { return t.done }

// Show enqueues the toast with its center. Call from the UI-owning context;
// enqueueing itself is thread-safe but presentation order among concurrent
// callers is otherwise unspecified.
func (t *Toast) Show() {
	t.center.Add(t)
}

// Cancel aborts the toast. The cancellation flag is observed at the next
// pipeline resume point; the surface is detached and the toast finished on
// the UI-owning context. Cancelling a finished toast, or cancelling twice,
// has no effect.
func (t *Toast) Cancel() {
	if t.State() == StateFinished {
		return
	}
	if t.cancelled.Swap(true) {
		return
	}
	t.center.exec.Post(t.teardown)
}

// Surface returns the toast's display surface, creating it on first access
// through the center's factory. Must only be called on the UI-owning
// context.
func (t *Toast) Surface() surface.Surface {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.surf == nil {
		t.surf = t.center.factory(t)
	}
	return t.surf
}

// peekSurface returns the surface only if it has already been created.
func (t *Toast) peekSurface() (surface.Surface, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.surf, t.surf != nil
}

// start begins execution. Invoked only by the Center; re-dispatches onto the
// UI-owning context when called from elsewhere. A no-op for toasts that are
// already executing or finished; a cancelled pending toast finishes
// immediately without animating.
func (t *Toast) start() {
	exec := t.center.exec
	if !exec.IsCurrent() {
		exec.Post(t.start)
		return
	}

	if t.cancelled.Load() {
		t.finish()
		return
	}
	if !t.state.CompareAndSwap(int32(StatePending), int32(StateExecuting)) {
		return
	}

	if t.delay > 0 {
		exec.After(t.delay, t.present)
		return
	}
	t.present()
}

// present attaches the surface and runs the enter transition. Runs on the
// UI-owning context.
func (t *Toast) present() {
	if t.State() == StateFinished {
		return
	}
	if t.cancelled.Load() {
		t.teardown()
		return
	}

	s := t.Surface()
	t.center.overlay.Attach(s)
	t.center.presented(t)

	t.center.overlay.BeginTransition()
	t.enter.Run(t.center.exec, s, t.transition, t.entered)
}

// entered runs at the enter-transition boundary: announce, then hold.
func (t *Toast) entered() {
	t.center.overlay.EndTransition()

	if t.State() == StateFinished {
		return
	}
	if t.cancelled.Load() {
		t.teardown()
		return
	}

	t.center.announce(t)
	t.center.exec.After(t.duration, t.held)
}

// held runs at the hold boundary: start the exit transition.
func (t *Toast) held() {
	if t.State() == StateFinished {
		return
	}
	if t.cancelled.Load() {
		t.teardown()
		return
	}

	s, ok := t.peekSurface()
	if !ok {
		t.finish()
		return
	}
	t.center.overlay.BeginTransition()
	t.exit.Run(t.center.exec, s, t.transition, t.exited)
}

// exited runs at the exit-transition boundary: detach and finish.
func (t *Toast) exited() {
	t.center.overlay.EndTransition()

	if t.State() == StateFinished {
		return
	}
	t.teardown()
}

// teardown detaches the surface, if one was ever created, and finishes.
// Runs on the UI-owning context; safe to reach from any exit path.
func (t *Toast) teardown() {
	if t.State() == StateFinished {
		return
	}
	if s, ok := t.peekSurface(); ok {
		t.center.overlay.Detach(s)
	}
	t.finish()
}

// finish moves the toast into its terminal state and signals completion to
// the center exactly once, regardless of which exit path was taken.
func (t *Toast) finish() {
	t.state.Store(int32(StateFinished))
	t.doneOnce.Do(func() {
		close(t.done)
		t.center.finished(t)
	})
}
