package event

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/toastd/surface"
)

func TestSignalString(t *testing.T) {
	tests := []struct {
		signal   Signal
		expected string
	}{
		{OrientationChanged, "orientation-changed"},
		{AppActivated, "app-activated"},
		{KeyboardShown, "keyboard-shown"},
		{KeyboardHidden, "keyboard-hidden"},
		{OrientationWillChange, "orientation-will-change"},
		{OrientationDidChange, "orientation-did-change"},
		{Signal(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.signal.String())
		})
	}
}

func TestSubscribePublish(t *testing.T) {
	bus := NewBus()

	var got []Event
	bus.Subscribe(OrientationChanged, func(ev Event) {
		got = append(got, ev)
	})

	bus.Publish(Event{Signal: OrientationChanged, Orientation: surface.OrientationLandscape})

	assert.Len(t, got, 1)
	assert.Equal(t, surface.OrientationLandscape, got[0].Orientation)
}

func TestPublishOnlyMatchingSignal(t *testing.T) {
	bus := NewBus()

	calls := 0
	bus.Subscribe(KeyboardShown, func(ev Event) { calls++ })

	bus.Publish(Event{Signal: KeyboardHidden})
	assert.Equal(t, 0, calls)

	bus.Publish(Event{Signal: KeyboardShown, KeyboardHeight: 300})
	assert.Equal(t, 1, calls)
}

func TestMultipleSubscribers(t *testing.T) {
	bus := NewBus()

	a, b := 0, 0
	bus.Subscribe(AppActivated, func(ev Event) { a++ })
	bus.Subscribe(AppActivated, func(ev Event) { b++ })

	bus.Publish(Event{Signal: AppActivated})

	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)
	assert.Equal(t, 2, bus.SubscriberCount(AppActivated))
}

func TestCancelSubscription(t *testing.T) {
	bus := NewBus()

	calls := 0
	sub := bus.Subscribe(KeyboardShown, func(ev Event) { calls++ })

	bus.Publish(Event{Signal: KeyboardShown})
	assert.Equal(t, 1, calls)

	sub.Cancel()
	bus.Publish(Event{Signal: KeyboardShown})
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, bus.SubscriberCount(KeyboardShown))
}

func TestCancelTwice(t *testing.T) {
	bus := NewBus()

	sub := bus.Subscribe(KeyboardShown, func(ev Event) {})
	sub.Cancel()
	sub.Cancel()

	assert.Equal(t, 0, bus.SubscriberCount(KeyboardShown))
}

func TestPublishNoSubscribers(t *testing.T) {
	bus := NewBus()
	// Must not panic.
	bus.Publish(Event{Signal: OrientationChanged})
}
