package gtkshell

import (
	"log/slog"
	"unsafe"

	"github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/toastd/config"
	"github.com/jmylchreest/toastd/event"
	"github.com/jmylchreest/toastd/overlay"
	"github.com/jmylchreest/toastd/surface"
	"github.com/jmylchreest/toastd/toast"
)

// defaultCSS is the built-in toast styling.
const defaultCSS = `
.toast {
	background-color: alpha(#1e1e2e, 0.92);
	color: #cdd6f4;
	border-radius: 12px;
	padding: 2px;
}
.toast-text {
	font-size: 14px;
}
.toast-action {
	font-weight: bold;
}
`

// Shell answers the overlay's platform queries from GDK display state and
// publishes orientation changes onto the event bus.
type Shell struct {
	display *gdk.Display
	bus     *event.Bus
	logger  *slog.Logger

	lastOrientation surface.Orientation
}

// NewShell binds to the default GDK display and installs the toast styling.
func NewShell(bus *event.Bus, logger *slog.Logger) (*Shell, error) {
	if logger == nil {
		logger = slog.Default()
	}

	display := gdk.DisplayGetDefault()
	if display == nil {
		return nil, ErrNoDisplay
	}

	provider := gtk.NewCSSProvider()
	provider.LoadFromString(defaultCSS)
	gtk.StyleContextAddProviderForDisplay(display, provider,
		gtk.STYLE_PROVIDER_PRIORITY_APPLICATION)

	s := &Shell{
		display: display,
		bus:     bus,
		logger:  logger,
	}
	if b, ok := s.ActiveBounds(); ok {
		s.lastOrientation = orientationOf(b)
	}
	return s, nil
}

// ActiveBounds returns the geometry of the primary monitor.
func (s *Shell) ActiveBounds() (surface.Bounds, bool) {
	m := s.primaryMonitor()
	if m == nil {
		return surface.Bounds{}, false
	}
	geo := m.Geometry()
	return surface.Bounds{
		X:      geo.X(),
		Y:      geo.Y(),
		Width:  geo.Width(),
		Height: geo.Height(),
	}, true
}

// MainSurface returns nil; the daemon has no application surface of its own.
func (s *Shell) MainSurface() overlay.HostSurface { return nil }

// TopmostSurface returns nil; layer-shell windows composite above the
// on-screen keyboard already.
func (s *Shell) TopmostSurface() overlay.HostSurface { return nil }

// AutoRotates reports true; the compositor rotates layer-shell geometry.
func (s *Shell) AutoRotates() bool { return true }

// RefreshGeometry re-reads the monitor geometry and publishes an orientation
// change if the display flipped between portrait and landscape. Call it when
// the monitor configuration changes.
func (s *Shell) RefreshGeometry() {
	b, ok := s.ActiveBounds()
	if !ok {
		s.logger.Warn("no monitor available after geometry change")
		return
	}

	o := orientationOf(b)
	if o == s.lastOrientation {
		return
	}
	s.lastOrientation = o
	s.logger.Info("display orientation changed", "orientation", o)

	if s.bus != nil {
		s.bus.Publish(event.Event{Signal: event.OrientationWillChange, Orientation: o})
		s.bus.Publish(event.Event{Signal: event.OrientationChanged, Orientation: o})
		s.bus.Publish(event.Event{Signal: event.OrientationDidChange, Orientation: o})
	}
}

// primaryMonitor returns the first monitor, or nil.
func (s *Shell) primaryMonitor() *gdk.Monitor {
	monitors := s.display.Monitors()
	if monitors == nil || monitors.NItems() == 0 {
		return nil
	}
	obj := monitors.Item(0)
	if obj == nil {
		return nil
	}
	return wrapMonitor(obj)
}

// wrapMonitor wraps a coreglib.Object as a gdk.Monitor. gotk4 keeps its
// wrapper functions internal, so the cast goes through the embedded Object.
func wrapMonitor(obj *glib.Object) *gdk.Monitor {
	if obj == nil {
		return nil
	}
	type monitor struct {
		_ [0]func()
		*glib.Object
	}
	m := &monitor{Object: obj}
	return (*gdk.Monitor)(unsafe.Pointer(m))
}

// orientationOf derives the orientation from display bounds.
func orientationOf(b surface.Bounds) surface.Orientation {
	if b.Width > b.Height {
		return surface.OrientationLandscape
	}
	return surface.OrientationPortrait
}

// Backing is the overlay's top-level container in the layer-shell backend.
// Each attached toast window is its own layer-shell surface, so the backing
// tracks children and forwards geometry rather than compositing them itself.
type Backing struct {
	bounds   surface.Bounds
	visible  bool
	children []surface.Surface
}

// NewBacking creates the backing container.
func NewBacking() *Backing {
	return &Backing{visible: true}
}

// ID identifies the backing in the overlay's registry.
func (b *Backing) ID() string { return "gtkshell-backing" }

// SetOpacity forwards the opacity to every attached child.
func (b *Backing) SetOpacity(opacity float64) {
	for _, c := range b.children {
		c.SetOpacity(opacity)
	}
}

// SetTranslation is a no-op; children anchor to screen edges themselves.
func (b *Backing) SetTranslation(dx, dy float64) {}

// SetScale is a no-op; children scale themselves.
func (b *Backing) SetScale(scale float64) {}

// SetVisible shows or hides every attached child.
func (b *Backing) SetVisible(visible bool) {
	b.visible = visible
	for _, c := range b.children {
		c.SetVisible(visible)
	}
}

// Bounds returns the display bounds last pushed by the overlay.
func (b *Backing) Bounds() surface.Bounds { return b.bounds }

// SetBounds records the display bounds.
func (b *Backing) SetBounds(bounds surface.Bounds) { b.bounds = bounds }

// Relayout forwards layout invalidation to every attached child.
func (b *Backing) Relayout() {
	for _, c := range b.children {
		c.Relayout()
	}
}

// Adopt attaches a child and maps it if it is a toast window.
func (b *Backing) Adopt(child surface.Surface) {
	for _, c := range b.children {
		if c == child {
			return
		}
	}
	b.children = append(b.children, child)
	if w, ok := child.(*ToastWindow); ok {
		w.Present()
	}
}

// Remove detaches a child and unmaps it if it is a toast window.
func (b *Backing) Remove(child surface.Surface) {
	for i, c := range b.children {
		if c == child {
			b.children = append(b.children[:i], b.children[i+1:]...)
			break
		}
	}
	if w, ok := child.(*ToastWindow); ok {
		w.Dismiss()
	}
}

// Factory returns a surface factory producing layer-shell toast windows.
// The factory only runs on the GTK main loop; the toast core guarantees
// that.
func Factory(app *gtk.Application, cfg config.DisplayConfig) toast.SurfaceFactory {
	return func(t *toast.Toast) surface.Surface {
		return NewToastWindow(app, t, cfg)
	}
}
