// Package runloop provides the single UI-owning execution context that
// drives all toast state transitions and surface mutations.
//
// The Executor interface abstracts the context so the core can run either on
// the Loop implementation here (tests, headless hosts) or on a platform main
// loop such as the GLib main context in package gtkshell.
package runloop

import (
	"sync"
	"time"
)

// Timer is a cancellable pending callback.
type Timer interface {
	// Stop cancels the timer. It returns false if the callback has
	// already fired or been posted to the executor.
	Stop() bool
}

// Executor is the UI-owning execution context. Post and After are safe to
// call from any goroutine; scheduled functions always run serially on the
// owning context in the order they were scheduled.
type Executor interface {
	// Post schedules fn to run on the owning context. It never blocks.
	Post(fn func())

	// After schedules fn to run on the owning context once d has elapsed.
	After(d time.Duration, fn func()) Timer

	// IsCurrent reports whether the caller is already running on the
	// owning context.
	IsCurrent() bool
}

// Loop is a serial run loop backed by a dedicated goroutine. It implements
// Executor and is the reference UI-owning context for tests and hosts that
// have no platform main loop of their own.
type Loop struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func()
	running bool
	stopped bool

	ownerMu sync.Mutex
	owner   uint64 // goroutine id of the loop goroutine, 0 when not running

	doneCh chan struct{}
}

// NewLoop creates a loop. It does not start running until Start is called.
func NewLoop() *Loop {
	l := &Loop{doneCh: make(chan struct{})}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// Start launches the loop goroutine. Starting an already-started loop is a
// no-op.
func (l *Loop) Start() {
	l.mu.Lock()
	if l.running || l.stopped {
		l.mu.Unlock()
		return
	}
	l.running = true
	l.mu.Unlock()

	go l.run()
}

// Stop drains nothing further and terminates the loop goroutine. Functions
// already posted but not yet run are dropped. Stop blocks until the loop
// goroutine has exited. Stopping twice is a no-op.
func (l *Loop) Stop() {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.stopped = true
	wasRunning := l.running
	l.cond.Broadcast()
	l.mu.Unlock()

	if wasRunning {
		<-l.doneCh
	}
}

// Post schedules fn on the loop goroutine. Posting to a stopped loop drops
// the function.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return
	}
	l.queue = append(l.queue, fn)
	l.cond.Signal()
}

// After schedules fn on the loop goroutine after d. The returned timer can
// cancel the callback while it is still pending.
func (l *Loop) After(d time.Duration, fn func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			if t.markFired() {
				fn()
			}
		})
	})
	return t
}

// IsCurrent reports whether the caller runs on the loop goroutine.
func (l *Loop) IsCurrent() bool {
	l.ownerMu.Lock()
	owner := l.owner
	l.ownerMu.Unlock()
	return owner != 0 && owner == goroutineID()
}

func (l *Loop) run() {
	l.ownerMu.Lock()
	l.owner = goroutineID()
	l.ownerMu.Unlock()

	defer func() {
		l.ownerMu.Lock()
		l.owner = 0
		l.ownerMu.Unlock()
		close(l.doneCh)
	}()

	for {
		l.mu.Lock()
		for len(l.queue) == 0 && !l.stopped {
			l.cond.Wait()
		}
		if l.stopped {
			l.mu.Unlock()
			return
		}
		fn := l.queue[0]
		l.queue = l.queue[1:]
		l.mu.Unlock()

		fn()
	}
}

// loopTimer wraps a time.Timer so that Stop also wins races against a fire
// that has been posted but not yet run.
type loopTimer struct {
	mu      sync.Mutex
	timer   *time.Timer
	settled bool
}

// markFired claims the timer for firing. Returns false if Stop won.
func (t *loopTimer) markFired() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.settled {
		return false
	}
	t.settled = true
	return true
}

// Stop cancels the timer if it has not fired yet.
func (t *loopTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.settled {
		return false
	}
	t.settled = true
	t.timer.Stop()
	return true
}
