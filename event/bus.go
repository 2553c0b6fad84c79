// Package event provides explicit subscription to the platform signals the
// toast system observes: orientation changes, app activation, and on-screen
// keyboard visibility. The bus replaces implicit broadcast observation so
// subscribers register at construction and deregister at teardown.
package event

import (
	"sync"

	"github.com/jmylchreest/toastd/surface"
)

// Signal identifies a platform notification.
type Signal int

const (
	// OrientationChanged fires when the device orientation changes.
	OrientationChanged Signal = iota
	// AppActivated fires when the host application becomes active.
	AppActivated
	// KeyboardShown fires when the on-screen keyboard appears.
	KeyboardShown
	// KeyboardHidden fires when the on-screen keyboard disappears.
	KeyboardHidden
	// OrientationWillChange fires just before the interface orientation
	// starts animating to a new value.
	OrientationWillChange
	// OrientationDidChange fires once the interface orientation animation
	// has settled.
	OrientationDidChange
)

// String returns the string representation of the signal.
func (s Signal) String() string {
	switch s {
	case OrientationChanged:
		return "orientation-changed"
	case AppActivated:
		return "app-activated"
	case KeyboardShown:
		return "keyboard-shown"
	case KeyboardHidden:
		return "keyboard-hidden"
	case OrientationWillChange:
		return "orientation-will-change"
	case OrientationDidChange:
		return "orientation-did-change"
	default:
		return "unknown"
	}
}

// Event is one delivered platform signal.
type Event struct {
	Signal Signal

	// Orientation carries the new orientation for orientation signals.
	Orientation surface.Orientation

	// KeyboardHeight carries the keyboard height in pixels for keyboard
	// signals, when the platform reports it. Zero means unknown.
	KeyboardHeight int
}

// Handler receives published events. Handlers run synchronously on the
// publisher's goroutine; subscribers that need the UI-owning context must
// redispatch themselves.
type Handler func(Event)

// Bus fans platform events out to subscribers.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[Signal]map[int]Handler
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[Signal]map[int]Handler),
	}
}

// Subscription is a handle to an active subscription.
type Subscription struct {
	bus    *Bus
	signal Signal
	id     int
}

// Subscribe registers a handler for the given signal. The returned
// subscription must be cancelled when the subscriber is torn down.
func (b *Bus) Subscribe(sig Signal, h Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID

	if b.subs[sig] == nil {
		b.subs[sig] = make(map[int]Handler)
	}
	b.subs[sig][id] = h

	return &Subscription{bus: b, signal: sig, id: id}
}

// Cancel removes the subscription. Cancelling twice is a no-op.
func (s *Subscription) Cancel() {
	if s == nil || s.bus == nil {
		return
	}
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()

	if handlers, ok := s.bus.subs[s.signal]; ok {
		delete(handlers, s.id)
	}
	s.bus = nil
}

// Publish delivers the event to every handler subscribed to its signal.
// Delivery order between handlers is unspecified.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	handlers := make([]Handler, 0, len(b.subs[ev.Signal]))
	for _, h := range b.subs[ev.Signal] {
		handlers = append(handlers, h)
	}
	b.mu.Unlock()

	for _, h := range handlers {
		h(ev)
	}
}

// SubscriberCount returns the number of handlers registered for the signal.
func (b *Bus) SubscriberCount(sig Signal) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[sig])
}
