// Package overlay implements the always-on-top surface that hosts toast
// content above normal application content.
//
// The overlay is an explicitly constructed service, not a global: the host
// application builds one per display, hands it the platform Host, and tears
// it down by calling Close. It keeps an ordered registry of the logical
// children attached to it so they can be re-parented when the on-screen
// keyboard changes the compositing order, and it recomputes its bounds on
// orientation and activation signals.
package overlay

import (
	"log/slog"
	"sync"

	"github.com/jmylchreest/toastd/event"
	"github.com/jmylchreest/toastd/runloop"
	"github.com/jmylchreest/toastd/surface"
)

// HostSurface is a surface owned by the host application that the overlay
// can delegate to or re-parent children onto. The overlay never owns it.
type HostSurface interface {
	surface.Parent

	// TakeFocus makes this surface the focused one. The overlay calls it
	// to immediately hand focus back whenever it would gain focus itself.
	TakeFocus()

	// RootSurface returns the root visual content of this surface, if it
	// has any.
	RootSurface() (surface.Surface, bool)
}

// Host answers the platform queries the overlay needs. Implementations come
// from platform backends such as gtkshell, or from test fakes.
type Host interface {
	// ActiveBounds returns the bounds of the active display or window.
	// ok is false when no active display is available; the overlay then
	// keeps its last known bounds.
	ActiveBounds() (b surface.Bounds, ok bool)

	// MainSurface returns the application's key surface, or nil.
	MainSurface() HostSurface

	// TopmostSurface returns the currently top-most visible surface that
	// children should be re-parented onto while the keyboard is shown.
	// May return nil, in which case children stay on the overlay.
	TopmostSurface() HostSurface

	// AutoRotates reports whether the host rotates its own geometry. When
	// false the overlay swaps width and height itself in landscape.
	AutoRotates() bool
}

// overlayLike detects overlays wrapped as host surfaces so root-content
// delegation never recurses into another overlay.
type overlayLike interface {
	IsToastOverlay() bool
}

// child is one registered logical child and the parent it currently sits on.
type child struct {
	s      surface.Surface
	parent surface.Parent
}

// Overlay is the top-level surface service hosting toast content.
type Overlay struct {
	mu     sync.Mutex
	host   Host
	bus    *event.Bus
	exec   runloop.Executor
	logger *slog.Logger

	// backing is the overlay's own top-level container surface.
	backing surface.Container

	bounds      surface.Bounds
	orientation surface.Orientation

	// children is the ordered registry of logical children. Order is
	// attach order; the registry survives re-parenting.
	children []child

	keyboardShown bool
	transitions   int
	rotating      bool

	subs   []*event.Subscription
	closed bool
}

// New creates an overlay backed by the given container, wired to the host
// and subscribed to the platform signals on bus. Handlers re-dispatch onto
// exec before touching any surface.
func New(backing surface.Container, host Host, bus *event.Bus, exec runloop.Executor, logger *slog.Logger) *Overlay {
	if logger == nil {
		logger = slog.Default()
	}

	o := &Overlay{
		host:    host,
		bus:     bus,
		exec:    exec,
		logger:  logger,
		backing: backing,
	}

	if b, ok := host.ActiveBounds(); ok {
		o.bounds = b
		backing.SetBounds(b)
	}

	o.subs = []*event.Subscription{
		bus.Subscribe(event.OrientationChanged, func(ev event.Event) {
			exec.Post(func() { o.orientationChanged(ev.Orientation) })
		}),
		bus.Subscribe(event.AppActivated, func(ev event.Event) {
			exec.Post(o.refreshBounds)
		}),
		bus.Subscribe(event.KeyboardShown, func(ev event.Event) {
			exec.Post(o.keyboardAppeared)
		}),
		bus.Subscribe(event.KeyboardHidden, func(ev event.Event) {
			exec.Post(o.keyboardDisappeared)
		}),
		bus.Subscribe(event.OrientationWillChange, func(ev event.Event) {
			exec.Post(func() { o.setRotating(true) })
		}),
		bus.Subscribe(event.OrientationDidChange, func(ev event.Event) {
			exec.Post(func() { o.setRotating(false) })
		}),
	}

	return o
}

// Close deregisters the overlay from the event bus. Attached children are
// left in place; callers detach them through their toasts.
func (o *Overlay) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	subs := o.subs
	o.subs = nil
	o.mu.Unlock()

	for _, s := range subs {
		s.Cancel()
	}
}

// IsToastOverlay marks this surface service as an overlay for delegation
// checks.
func (o *Overlay) IsToastOverlay() bool { return true }

// Bounds returns the overlay's current bounds.
func (o *Overlay) Bounds() surface.Bounds {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.bounds
}

// Attach records s in the logical-child registry and parents it onto the
// current compositing target. Must be called on the executor.
func (o *Overlay) Attach(s surface.Surface) {
	o.mu.Lock()
	target := o.attachTargetLocked()
	o.children = append(o.children, child{s: s, parent: target})
	o.mu.Unlock()

	target.Adopt(s)
	o.logger.Debug("attached surface", "surface", s.ID(), "children", o.ChildCount())
}

// Detach removes s from its current parent and from the registry. Detaching
// an unregistered surface is a no-op. Must be called on the executor.
func (o *Overlay) Detach(s surface.Surface) {
	o.mu.Lock()
	var parent surface.Parent
	for i := range o.children {
		if o.children[i].s.ID() == s.ID() {
			parent = o.children[i].parent
			o.children = append(o.children[:i], o.children[i+1:]...)
			break
		}
	}
	o.mu.Unlock()

	if parent != nil {
		parent.Remove(s)
		o.logger.Debug("detached surface", "surface", s.ID())
	}
}

// Children returns the IDs of the registered logical children in attach
// order.
func (o *Overlay) Children() []string {
	o.mu.Lock()
	defer o.mu.Unlock()

	ids := make([]string, len(o.children))
	for i := range o.children {
		ids[i] = o.children[i].s.ID()
	}
	return ids
}

// ChildCount returns the number of registered logical children.
func (o *Overlay) ChildCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.children)
}

// attachTargetLocked picks the parent new children go onto: the top-most
// host surface while the keyboard is shown, the overlay's own backing
// container otherwise.
func (o *Overlay) attachTargetLocked() surface.Parent {
	if o.keyboardShown {
		if top := o.host.TopmostSurface(); top != nil {
			return top
		}
	}
	return o.backing
}

// BeginTransition marks a presentation transition as in flight. While any
// transition is running, root-content queries yield nothing.
func (o *Overlay) BeginTransition() {
	o.mu.Lock()
	o.transitions++
	o.mu.Unlock()
}

// EndTransition marks a presentation transition as finished.
func (o *Overlay) EndTransition() {
	o.mu.Lock()
	if o.transitions > 0 {
		o.transitions--
	}
	o.mu.Unlock()
}

// RootSurface answers "what is the root visual content here". It returns
// nothing while a presentation transition or an orientation change is in
// flight; otherwise it forwards to the application's main surface, unless
// that surface is another overlay.
func (o *Overlay) RootSurface() (surface.Surface, bool) {
	o.mu.Lock()
	busy := o.transitions > 0 || o.rotating
	o.mu.Unlock()

	if busy {
		return nil, false
	}

	main := o.host.MainSurface()
	if main == nil {
		return nil, false
	}
	if ol, ok := main.(overlayLike); ok && ol.IsToastOverlay() {
		return nil, false
	}
	return main.RootSurface()
}

// FocusGained must be called by the platform backend whenever the overlay
// becomes the focused surface. The overlay immediately yields focus back to
// the application's main surface; it never retains input focus.
func (o *Overlay) FocusGained() {
	if main := o.host.MainSurface(); main != nil {
		main.TakeFocus()
	}
}

// keyboardAppeared re-parents all registered children onto the top-most
// surface so they stay above the keyboard overlay. Best effort.
func (o *Overlay) keyboardAppeared() {
	o.mu.Lock()
	o.keyboardShown = true
	top := o.host.TopmostSurface()
	o.mu.Unlock()

	if top == nil {
		o.logger.Debug("keyboard shown but no top-most surface; children stay put")
		return
	}
	o.reparentAll(top)
	o.logger.Debug("re-parented children above keyboard", "children", o.ChildCount())
}

// keyboardDisappeared re-parents all registered children back onto the
// overlay's own backing container.
func (o *Overlay) keyboardDisappeared() {
	o.mu.Lock()
	o.keyboardShown = false
	o.mu.Unlock()

	o.reparentAll(o.backing)
	o.logger.Debug("re-parented children back onto overlay", "children", o.ChildCount())
}

// reparentAll moves every registered child onto target, in registry order.
func (o *Overlay) reparentAll(target surface.Parent) {
	o.mu.Lock()
	moves := make([]child, 0, len(o.children))
	for i := range o.children {
		if o.children[i].parent != target {
			moves = append(moves, o.children[i])
			o.children[i].parent = target
		}
	}
	o.mu.Unlock()

	for _, c := range moves {
		c.parent.Remove(c.s)
		target.Adopt(c.s)
	}
}

// orientationChanged records the new orientation and recomputes bounds.
func (o *Overlay) orientationChanged(orient surface.Orientation) {
	o.mu.Lock()
	o.orientation = orient
	o.mu.Unlock()
	o.refreshBounds()
}

// refreshBounds recomputes the overlay size from the active display. When
// no active display is available the last known bounds are kept.
func (o *Overlay) refreshBounds() {
	b, ok := o.host.ActiveBounds()
	if !ok {
		o.logger.Debug("no active display bounds; keeping last known", "bounds", o.Bounds())
		return
	}

	o.mu.Lock()
	if o.orientation.IsLandscape() && !o.host.AutoRotates() {
		b = b.Swapped()
	}
	o.bounds = b
	o.mu.Unlock()

	o.backing.SetBounds(b)
	o.backing.Relayout()
	o.logger.Debug("overlay bounds updated", "width", b.Width, "height", b.Height)
}

// setRotating flags an in-flight interface orientation change.
func (o *Overlay) setRotating(rotating bool) {
	o.mu.Lock()
	o.rotating = rotating
	o.mu.Unlock()
}
