package overlay

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastd/event"
	"github.com/jmylchreest/toastd/runloop"
	"github.com/jmylchreest/toastd/surface"
)

// fakeSurface is a minimal surface.Surface.
type fakeSurface struct {
	id string
}

func (f *fakeSurface) ID() string                  { return f.id }
func (f *fakeSurface) SetOpacity(float64)          {}
func (f *fakeSurface) SetTranslation(_, _ float64) {}
func (f *fakeSurface) SetScale(float64)            {}
func (f *fakeSurface) SetVisible(bool)             {}
func (f *fakeSurface) Bounds() surface.Bounds      { return surface.Bounds{} }
func (f *fakeSurface) SetBounds(surface.Bounds)    {}
func (f *fakeSurface) Relayout()                   {}

// fakeContainer is a surface.Container that records its children.
type fakeContainer struct {
	fakeSurface
	mu        sync.Mutex
	children  []surface.Surface
	bounds    surface.Bounds
	relayouts int
}

func newFakeContainer(id string) *fakeContainer {
	return &fakeContainer{fakeSurface: fakeSurface{id: id}}
}

func (f *fakeContainer) Adopt(child surface.Surface) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.children {
		if c == child {
			return
		}
	}
	f.children = append(f.children, child)
}

func (f *fakeContainer) Remove(child surface.Surface) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.children {
		if c == child {
			f.children = append(f.children[:i], f.children[i+1:]...)
			return
		}
	}
}

func (f *fakeContainer) SetBounds(b surface.Bounds) {
	f.mu.Lock()
	f.bounds = b
	f.mu.Unlock()
}

func (f *fakeContainer) Bounds() surface.Bounds {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bounds
}

func (f *fakeContainer) Relayout() {
	f.mu.Lock()
	f.relayouts++
	f.mu.Unlock()
}

func (f *fakeContainer) childIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, len(f.children))
	for i, c := range f.children {
		ids[i] = c.ID()
	}
	return ids
}

// fakeHostSurface is a HostSurface fake that can carry root content.
type fakeHostSurface struct {
	fakeContainer
	root       surface.Surface
	focusTaken int
}

func newFakeHostSurface(id string) *fakeHostSurface {
	f := &fakeHostSurface{}
	f.id = id
	return f
}

func (f *fakeHostSurface) TakeFocus() {
	f.mu.Lock()
	f.focusTaken++
	f.mu.Unlock()
}

func (f *fakeHostSurface) RootSurface() (surface.Surface, bool) {
	if f.root == nil {
		return nil, false
	}
	return f.root, true
}

// fakeHost implements Host with settable answers.
type fakeHost struct {
	mu          sync.Mutex
	bounds      surface.Bounds
	boundsOK    bool
	main        HostSurface
	topmost     HostSurface
	autoRotates bool
}

func (f *fakeHost) ActiveBounds() (surface.Bounds, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bounds, f.boundsOK
}

func (f *fakeHost) MainSurface() HostSurface {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.main
}

func (f *fakeHost) TopmostSurface() HostSurface {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.topmost
}

func (f *fakeHost) AutoRotates() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.autoRotates
}

// drain blocks until everything already posted to the loop has run.
func drain(t *testing.T, l *runloop.Loop) {
	t.Helper()
	done := make(chan struct{})
	l.Post(func() { close(done) })
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not drain in time")
	}
}

type fixture struct {
	loop    *runloop.Loop
	bus     *event.Bus
	backing *fakeContainer
	host    *fakeHost
	overlay *Overlay
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	loop := runloop.NewLoop()
	loop.Start()
	t.Cleanup(loop.Stop)

	host := &fakeHost{
		bounds:      surface.Bounds{Width: 390, Height: 844},
		boundsOK:    true,
		autoRotates: false,
	}
	backing := newFakeContainer("backing")
	bus := event.NewBus()
	ov := New(backing, host, bus, loop, nil)
	t.Cleanup(ov.Close)

	return &fixture{loop: loop, bus: bus, backing: backing, host: host, overlay: ov}
}

func TestAttachDetach(t *testing.T) {
	f := newFixture(t)

	a := &fakeSurface{id: "a"}
	b := &fakeSurface{id: "b"}

	f.loop.Post(func() {
		f.overlay.Attach(a)
		f.overlay.Attach(b)
	})
	drain(t, f.loop)

	assert.Equal(t, []string{"a", "b"}, f.overlay.Children())
	assert.Equal(t, []string{"a", "b"}, f.backing.childIDs())

	f.loop.Post(func() { f.overlay.Detach(a) })
	drain(t, f.loop)

	assert.Equal(t, []string{"b"}, f.overlay.Children())
	assert.Equal(t, []string{"b"}, f.backing.childIDs())
	assert.Equal(t, 1, f.overlay.ChildCount())
}

func TestDetachUnknownSurfaceIsNoop(t *testing.T) {
	f := newFixture(t)

	f.loop.Post(func() { f.overlay.Detach(&fakeSurface{id: "ghost"}) })
	drain(t, f.loop)

	assert.Equal(t, 0, f.overlay.ChildCount())
}

func TestInitialBoundsFromHost(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, surface.Bounds{Width: 390, Height: 844}, f.overlay.Bounds())
	assert.Equal(t, surface.Bounds{Width: 390, Height: 844}, f.backing.Bounds())
}

func TestKeyboardReparenting(t *testing.T) {
	f := newFixture(t)

	top := newFakeHostSurface("topmost")
	f.host.mu.Lock()
	f.host.topmost = top
	f.host.mu.Unlock()

	a := &fakeSurface{id: "a"}
	f.loop.Post(func() { f.overlay.Attach(a) })
	drain(t, f.loop)
	require.Equal(t, []string{"a"}, f.backing.childIDs())

	f.bus.Publish(event.Event{Signal: event.KeyboardShown, KeyboardHeight: 300})
	drain(t, f.loop)

	assert.Empty(t, f.backing.childIDs())
	assert.Equal(t, []string{"a"}, top.childIDs())
	// Registry order survives the move.
	assert.Equal(t, []string{"a"}, f.overlay.Children())

	// New children attach above the keyboard too.
	b := &fakeSurface{id: "b"}
	f.loop.Post(func() { f.overlay.Attach(b) })
	drain(t, f.loop)
	assert.Equal(t, []string{"a", "b"}, top.childIDs())

	f.bus.Publish(event.Event{Signal: event.KeyboardHidden})
	drain(t, f.loop)

	assert.Empty(t, top.childIDs())
	assert.Equal(t, []string{"a", "b"}, f.backing.childIDs())
}

func TestKeyboardShownWithoutTopmost(t *testing.T) {
	f := newFixture(t)

	a := &fakeSurface{id: "a"}
	f.loop.Post(func() { f.overlay.Attach(a) })
	f.bus.Publish(event.Event{Signal: event.KeyboardShown})
	drain(t, f.loop)

	// Nowhere to go; children stay on the backing container.
	assert.Equal(t, []string{"a"}, f.backing.childIDs())
}

func TestRootSurfaceGating(t *testing.T) {
	f := newFixture(t)

	main := newFakeHostSurface("main")
	main.root = &fakeSurface{id: "content"}
	f.host.mu.Lock()
	f.host.main = main
	f.host.mu.Unlock()

	s, ok := f.overlay.RootSurface()
	require.True(t, ok)
	assert.Equal(t, "content", s.ID())

	f.overlay.BeginTransition()
	_, ok = f.overlay.RootSurface()
	assert.False(t, ok, "no root content while a transition runs")

	f.overlay.EndTransition()
	_, ok = f.overlay.RootSurface()
	assert.True(t, ok)
}

func TestRootSurfaceDuringRotation(t *testing.T) {
	f := newFixture(t)

	main := newFakeHostSurface("main")
	main.root = &fakeSurface{id: "content"}
	f.host.mu.Lock()
	f.host.main = main
	f.host.mu.Unlock()

	f.bus.Publish(event.Event{Signal: event.OrientationWillChange, Orientation: surface.OrientationLandscape})
	drain(t, f.loop)
	_, ok := f.overlay.RootSurface()
	assert.False(t, ok, "no root content while rotating")

	f.bus.Publish(event.Event{Signal: event.OrientationDidChange, Orientation: surface.OrientationLandscape})
	drain(t, f.loop)
	_, ok = f.overlay.RootSurface()
	assert.True(t, ok)
}

// overlayHostSurface is a host surface that is itself a toast overlay.
type overlayHostSurface struct {
	*fakeHostSurface
}

func (o *overlayHostSurface) IsToastOverlay() bool { return true }

func TestRootSurfaceNeverDelegatesToAnotherOverlay(t *testing.T) {
	f := newFixture(t)

	inner := newFakeHostSurface("inner")
	inner.root = &fakeSurface{id: "content"}
	f.host.mu.Lock()
	f.host.main = &overlayHostSurface{fakeHostSurface: inner}
	f.host.mu.Unlock()

	_, ok := f.overlay.RootSurface()
	assert.False(t, ok)
}

func TestRootSurfaceNoMain(t *testing.T) {
	f := newFixture(t)

	_, ok := f.overlay.RootSurface()
	assert.False(t, ok)
}

func TestOrientationSwapsBoundsWhenHostDoesNotRotate(t *testing.T) {
	f := newFixture(t)

	f.bus.Publish(event.Event{Signal: event.OrientationChanged, Orientation: surface.OrientationLandscape})
	drain(t, f.loop)

	assert.Equal(t, surface.Bounds{Width: 844, Height: 390}, f.overlay.Bounds())
	assert.Equal(t, surface.Bounds{Width: 844, Height: 390}, f.backing.Bounds())
}

func TestOrientationKeepsBoundsWhenHostAutoRotates(t *testing.T) {
	f := newFixture(t)
	f.host.mu.Lock()
	f.host.autoRotates = true
	f.host.bounds = surface.Bounds{Width: 844, Height: 390} // host already rotated
	f.host.mu.Unlock()

	f.bus.Publish(event.Event{Signal: event.OrientationChanged, Orientation: surface.OrientationLandscape})
	drain(t, f.loop)

	assert.Equal(t, surface.Bounds{Width: 844, Height: 390}, f.overlay.Bounds())
}

func TestBoundsKeptWhenHostHasNoDisplay(t *testing.T) {
	f := newFixture(t)

	f.host.mu.Lock()
	f.host.boundsOK = false
	f.host.mu.Unlock()

	f.bus.Publish(event.Event{Signal: event.AppActivated})
	drain(t, f.loop)

	assert.Equal(t, surface.Bounds{Width: 390, Height: 844}, f.overlay.Bounds())
}

func TestFocusGainedYieldsToMain(t *testing.T) {
	f := newFixture(t)

	main := newFakeHostSurface("main")
	f.host.mu.Lock()
	f.host.main = main
	f.host.mu.Unlock()

	f.overlay.FocusGained()

	main.mu.Lock()
	defer main.mu.Unlock()
	assert.Equal(t, 1, main.focusTaken)
}

func TestCloseStopsEventHandling(t *testing.T) {
	f := newFixture(t)

	f.overlay.Close()
	f.bus.Publish(event.Event{Signal: event.OrientationChanged, Orientation: surface.OrientationLandscape})
	drain(t, f.loop)

	// Bounds untouched after Close.
	assert.Equal(t, surface.Bounds{Width: 390, Height: 844}, f.overlay.Bounds())
	assert.Equal(t, 0, f.bus.SubscriberCount(event.OrientationChanged))
}

func TestIsToastOverlay(t *testing.T) {
	f := newFixture(t)
	assert.True(t, f.overlay.IsToastOverlay())
}
