// Package anim implements the presentation transitions for toast surfaces.
//
// Transitions are stateless strategies: each Run drives one enter or exit
// animation on a surface by stepping frames on the UI-owning executor and
// calling done exactly once when the configured duration has elapsed. A
// transition never inspects toast state; interruption is handled by the
// caller at the step boundaries.
package anim

import (
	"fmt"
	"time"

	"github.com/jmylchreest/toastd/runloop"
	"github.com/jmylchreest/toastd/surface"
)

// frameInterval approximates a 60 Hz animation tick.
const frameInterval = 16 * time.Millisecond

// slideFallback is the slide distance when the surface reports no geometry.
const slideFallback = 320

// Edge selects which display edge a slide transition moves through.
type Edge int

const (
	EdgeTop Edge = iota
	EdgeBottom
	EdgeLeft
	EdgeRight
)

// String returns the string representation of the edge.
func (e Edge) String() string {
	switch e {
	case EdgeTop:
		return "top"
	case EdgeBottom:
		return "bottom"
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	default:
		return "unknown"
	}
}

// Transition performs one visual transition on a surface.
type Transition interface {
	// Run starts the transition and calls done on the executor once it
	// has completed. Run must be called on the executor.
	Run(exec runloop.Executor, s surface.Surface, d time.Duration, done func())
}

type transitionFunc func(exec runloop.Executor, s surface.Surface, d time.Duration, done func())

func (f transitionFunc) Run(exec runloop.Executor, s surface.Surface, d time.Duration, done func()) {
	f(exec, s, d, done)
}

// animate steps frame from 0 to 1 over d on the executor, then calls done.
// A non-positive duration jumps straight to the final frame.
func animate(exec runloop.Executor, d time.Duration, frame func(t float64), done func()) {
	if d <= 0 {
		frame(1)
		done()
		return
	}

	start := time.Now()
	var step func()
	step = func() {
		elapsed := time.Since(start)
		if elapsed >= d {
			frame(1)
			done()
			return
		}
		frame(float64(elapsed) / float64(d))
		exec.After(frameInterval, step)
	}
	frame(0)
	exec.After(frameInterval, step)
}

// FadeIn returns a transition that raises opacity from 0 to 1.
func FadeIn() Transition {
	return transitionFunc(func(exec runloop.Executor, s surface.Surface, d time.Duration, done func()) {
		s.SetOpacity(0)
		s.SetVisible(true)
		animate(exec, d, func(t float64) {
			s.SetOpacity(easeOutCubic(t))
		}, done)
	})
}

// FadeOut returns a transition that lowers opacity from 1 to 0.
func FadeOut() Transition {
	return transitionFunc(func(exec runloop.Executor, s surface.Surface, d time.Duration, done func()) {
		animate(exec, d, func(t float64) {
			s.SetOpacity(1 - easeInCubic(t))
		}, done)
	})
}

// slideOffset returns the starting translation that places the surface just
// past the given edge.
func slideOffset(s surface.Surface, edge Edge) (float64, float64) {
	b := s.Bounds()
	w, h := float64(b.Width), float64(b.Height)
	if b.IsZero() {
		w, h = slideFallback, slideFallback
	}

	switch edge {
	case EdgeTop:
		return 0, -h
	case EdgeBottom:
		return 0, h
	case EdgeLeft:
		return -w, 0
	default:
		return w, 0
	}
}

// SlideIn returns a transition that moves the surface in from the edge.
func SlideIn(edge Edge) Transition {
	return transitionFunc(func(exec runloop.Executor, s surface.Surface, d time.Duration, done func()) {
		dx, dy := slideOffset(s, edge)
		s.SetTranslation(dx, dy)
		s.SetOpacity(1)
		s.SetVisible(true)
		animate(exec, d, func(t float64) {
			remain := 1 - easeOutCubic(t)
			s.SetTranslation(dx*remain, dy*remain)
		}, done)
	})
}

// SlideOut returns a transition that moves the surface out through the edge.
func SlideOut(edge Edge) Transition {
	return transitionFunc(func(exec runloop.Executor, s surface.Surface, d time.Duration, done func()) {
		dx, dy := slideOffset(s, edge)
		animate(exec, d, func(t float64) {
			gone := easeInCubic(t)
			s.SetTranslation(dx*gone, dy*gone)
		}, done)
	})
}

// BounceIn returns a transition that scales the surface up with a damped
// overshoot, the classic bounce appearance.
func BounceIn() Transition {
	return transitionFunc(func(exec runloop.Executor, s surface.Surface, d time.Duration, done func()) {
		s.SetScale(0.3)
		s.SetOpacity(0)
		s.SetVisible(true)
		animate(exec, d, func(t float64) {
			s.SetScale(0.3 + 0.7*easeOutBack(t))
			s.SetOpacity(clamp01(t * 3))
		}, done)
	})
}

// Shrink returns a transition that scales the surface down while fading it.
func Shrink() Transition {
	return transitionFunc(func(exec runloop.Executor, s surface.Surface, d time.Duration, done func()) {
		animate(exec, d, func(t float64) {
			gone := easeInCubic(t)
			s.SetScale(1 - 0.7*gone)
			s.SetOpacity(1 - gone)
		}, done)
	})
}

// Style names accepted by ParseEnter and ParseExit.
const (
	StyleFade        = "fade"
	StyleSlideTop    = "slide-top"
	StyleSlideBottom = "slide-bottom"
	StyleSlideLeft   = "slide-left"
	StyleSlideRight  = "slide-right"
	StyleBounce      = "bounce"
	StyleShrink      = "shrink"
)

// ParseEnter maps a style name to an enter transition.
func ParseEnter(name string) (Transition, error) {
	switch name {
	case StyleFade, "":
		return FadeIn(), nil
	case StyleSlideTop:
		return SlideIn(EdgeTop), nil
	case StyleSlideBottom:
		return SlideIn(EdgeBottom), nil
	case StyleSlideLeft:
		return SlideIn(EdgeLeft), nil
	case StyleSlideRight:
		return SlideIn(EdgeRight), nil
	case StyleBounce:
		return BounceIn(), nil
	default:
		return nil, fmt.Errorf("unknown enter style %q", name)
	}
}

// ParseExit maps a style name to an exit transition.
func ParseExit(name string) (Transition, error) {
	switch name {
	case StyleFade, "":
		return FadeOut(), nil
	case StyleSlideTop:
		return SlideOut(EdgeTop), nil
	case StyleSlideBottom:
		return SlideOut(EdgeBottom), nil
	case StyleSlideLeft:
		return SlideOut(EdgeLeft), nil
	case StyleSlideRight:
		return SlideOut(EdgeRight), nil
	case StyleShrink:
		return Shrink(), nil
	default:
		return nil, fmt.Errorf("unknown exit style %q", name)
	}
}
