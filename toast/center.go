package toast

import (
	"container/list"
	"log/slog"
	"sync"

	"github.com/jmylchreest/toastd/event"
	"github.com/jmylchreest/toastd/overlay"
	"github.com/jmylchreest/toastd/runloop"
	"github.com/jmylchreest/toastd/surface"
)

// SurfaceFactory builds the display surface for a toast. Called lazily, on
// the UI-owning context, exactly once per toast.
type SurfaceFactory func(*Toast) surface.Surface

// Announcer delivers toast content to the platform's assistive-technology
// layer. Implementations are best effort.
type Announcer interface {
	Announce(text string) error
}

// NopAnnouncer discards announcements.
type NopAnnouncer struct{}

// Announce implements Announcer.
func (NopAnnouncer) Announce(string) error { return nil }

// Center is the toast scheduler: a single-worker serial queue guaranteeing
// that at most one toast is executing at any time. It is an explicitly
// constructed service; build one per host application and stop it at
// teardown.
type Center struct {
	exec    runloop.Executor
	overlay *overlay.Overlay
	factory SurfaceFactory
	bus     *event.Bus
	logger  *slog.Logger

	mu        sync.Mutex
	queue     *list.List // of *Toast, strict FIFO
	active    *Toast
	queueing  bool
	announces bool
	announcer Announcer
	onPresent func(*Toast)
	onFinish  func(*Toast)

	wake      chan struct{}
	stopCh    chan struct{}
	doneCh    chan struct{}
	running   bool
	orientSub *event.Subscription
}

// NewCenter creates a scheduler driving toasts on exec, attaching their
// surfaces to ov. bus may be nil when no platform signals are available.
// Queueing and announcements default to enabled.
func NewCenter(exec runloop.Executor, ov *overlay.Overlay, factory SurfaceFactory, bus *event.Bus, logger *slog.Logger) *Center {
	if logger == nil {
		logger = slog.Default()
	}

	return &Center{
		exec:      exec,
		overlay:   ov,
		factory:   factory,
		bus:       bus,
		logger:    logger,
		queue:     list.New(),
		queueing:  true,
		announces: true,
		announcer: NopAnnouncer{},
		wake:      make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start launches the scheduler worker and subscribes to orientation
// changes. Starting twice is a no-op.
func (c *Center) Start() {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.mu.Unlock()

	if c.bus != nil {
		c.orientSub = c.bus.Subscribe(event.OrientationChanged, func(event.Event) {
			c.exec.Post(c.relayoutActive)
		})
	}

	go c.run()
	c.logger.Debug("toast center started")
}

// Stop cancels all outstanding toasts and terminates the worker. The
// UI-owning executor must still be running when Stop is called so cancelled
// toasts can detach their surfaces.
func (c *Center) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	c.mu.Unlock()

	c.CancelAll()
	if c.orientSub != nil {
		c.orientSub.Cancel()
	}
	close(c.stopCh)
	<-c.doneCh
	c.logger.Debug("toast center stopped")
}

// SetQueueing toggles between queueing mode (default) and latest-wins mode.
// In latest-wins mode every Add first cancels all queued and executing
// toasts.
func (c *Center) SetQueueing(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queueing = enabled
}

// QueueingEnabled reports whether queueing mode is active.
func (c *Center) QueueingEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queueing
}

// SetAnnouncements toggles assistive-technology announcements. Default on.
func (c *Center) SetAnnouncements(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.announces = enabled
}

// AnnouncementsEnabled reports whether announcements are active.
func (c *Center) AnnouncementsEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.announces
}

// SetAnnouncer installs the assistive-technology announcer.
func (c *Center) SetAnnouncer(a Announcer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if a == nil {
		a = NopAnnouncer{}
	}
	c.announcer = a
}

// SetPresentCallback sets a callback invoked on the UI-owning context when
// a toast's surface is attached, just before its enter transition.
func (c *Center) SetPresentCallback(cb func(*Toast)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onPresent = cb
}

// SetFinishCallback sets a callback invoked once per toast when it reaches
// its terminal state.
func (c *Center) SetFinishCallback(cb func(*Toast)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onFinish = cb
}

// Notify creates a toast and enqueues it in one call.
func (c *Center) Notify(text string, opts ...Option) *Toast {
	t := New(c, text, opts...)
	c.Add(t)
	return t
}

// Add enqueues the toast. In latest-wins mode all currently queued and
// executing toasts are cancelled first.
func (c *Center) Add(t *Toast) {
	if t == nil {
		return
	}

	c.mu.Lock()
	queueing := c.queueing
	c.mu.Unlock()

	if !queueing {
		c.CancelAll()
	}

	c.mu.Lock()
	c.queue.PushBack(t)
	depth := c.queue.Len()
	c.mu.Unlock()

	c.logger.Debug("toast enqueued", "toast", t.ID(), "queue_depth", depth)
	c.signalWake()
}

// CancelAll cancels every queued toast and the currently executing one, in
// the order they hold in the queue. The queue empties as each toast
// acknowledges cancellation.
func (c *Center) CancelAll() {
	c.mu.Lock()
	targets := make([]*Toast, 0, c.queue.Len()+1)
	if c.active != nil {
		targets = append(targets, c.active)
	}
	for e := c.queue.Front(); e != nil; e = e.Next() {
		targets = append(targets, e.Value.(*Toast))
	}
	c.mu.Unlock()

	for _, t := range targets {
		t.Cancel()
	}
	if len(targets) > 0 {
		c.logger.Debug("cancelled all toasts", "count", len(targets))
	}
}

// Current returns the first toast that is neither cancelled nor finished:
// the one visible or about to become visible. Nil when there is none.
func (c *Center) Current() *Toast {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active != nil && !c.active.Cancelled() && c.active.State() != StateFinished {
		return c.active
	}
	for e := c.queue.Front(); e != nil; e = e.Next() {
		t := e.Value.(*Toast)
		if !t.Cancelled() && t.State() != StateFinished {
			return t
		}
	}
	return nil
}

// Pending returns the number of toasts waiting in the queue.
func (c *Center) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.Len()
}

// run is the worker: it drains the queue one toast at a time, waiting for
// each to finish before starting the next. Toast execution itself always
// happens on the UI-owning executor; the worker only sequences it.
func (c *Center) run() {
	defer close(c.doneCh)

	for {
		t := c.pop()
		if t == nil {
			select {
			case <-c.wake:
				continue
			case <-c.stopCh:
				return
			}
		}

		c.mu.Lock()
		c.active = t
		c.mu.Unlock()

		t.start()

		select {
		case <-t.Done():
		case <-c.stopCh:
			return
		}

		c.mu.Lock()
		c.active = nil
		c.mu.Unlock()
	}
}

// pop removes and returns the queue head, or nil when empty.
func (c *Center) pop() *Toast {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.queue.Front()
	if e == nil {
		return nil
	}
	c.queue.Remove(e)
	return e.Value.(*Toast)
}

func (c *Center) signalWake() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// relayoutActive forwards a layout invalidation to the active toast's
// surface only. Runs on the UI-owning context.
func (c *Center) relayoutActive() {
	c.mu.Lock()
	active := c.active
	c.mu.Unlock()

	if active == nil {
		return
	}
	if s, ok := active.peekSurface(); ok {
		s.Relayout()
	}
}

// presented runs the present callback for a toast whose surface was just
// attached.
func (c *Center) presented(t *Toast) {
	c.mu.Lock()
	cb := c.onPresent
	c.mu.Unlock()

	if cb != nil {
		cb(t)
	}
}

// announce delivers the toast content to the assistive-technology layer,
// once, at hold start.
func (c *Center) announce(t *Toast) {
	c.mu.Lock()
	enabled := c.announces
	announcer := c.announcer
	c.mu.Unlock()

	if !enabled {
		return
	}
	if err := announcer.Announce(t.Text()); err != nil {
		c.logger.Warn("accessibility announcement failed", "toast", t.ID(), "error", err)
	}
}

// finished is the completion signal from a toast's terminal transition.
func (c *Center) finished(t *Toast) {
	c.mu.Lock()
	cb := c.onFinish
	c.mu.Unlock()

	c.logger.Debug("toast finished", "toast", t.ID(), "cancelled", t.Cancelled())
	if cb != nil {
		cb(t)
	}
}
