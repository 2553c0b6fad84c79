package toast

import (
	"time"

	"github.com/jmylchreest/toastd/anim"
)

// Option customizes a toast at construction time.
type Option func(*Toast)

// WithMarkup sets styled text markup used instead of the plain text where
// the platform backend supports it.
func WithMarkup(markup string) Option {
	return func(t *Toast) { t.markup = markup }
}

// WithIcon sets an icon name or image path displayed next to the text.
func WithIcon(icon string) Option {
	return func(t *Toast) { t.icon = icon }
}

// WithAction adds an action button with the given label and callback.
func WithAction(label string, invoke func()) Option {
	return func(t *Toast) { t.action = &Action{Label: label, Invoke: invoke} }
}

// WithDelay delays presentation by d after the toast reaches the head of
// the queue. Default is no delay.
func WithDelay(d time.Duration) Option {
	return func(t *Toast) { t.delay = d }
}

// WithDuration sets the visible dwell time. DurationShort and DurationLong
// are the named presets.
func WithDuration(d time.Duration) Option {
	return func(t *Toast) { t.duration = d }
}

// WithTransitionDuration sets the length of the enter and exit transitions.
func WithTransitionDuration(d time.Duration) Option {
	return func(t *Toast) { t.transition = d }
}

// WithEnter selects the enter transition. Default is fade-in.
func WithEnter(tr anim.Transition) Option {
	return func(t *Toast) {
		if tr != nil {
			t.enter = tr
		}
	}
}

// WithExit selects the exit transition. Default is fade-out.
func WithExit(tr anim.Transition) Option {
	return func(t *Toast) {
		if tr != nil {
			t.exit = tr
		}
	}
}
