package gtkshell

import (
	"strings"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/toastd/config"
	"github.com/jmylchreest/toastd/surface"
	"github.com/jmylchreest/toastd/toast"
)

// ToastWindow renders one toast as a GTK4 layer-shell window. It implements
// surface.Surface; all methods must run on the GTK main loop.
type ToastWindow struct {
	id     string
	window *gtk.Window
	cfg    config.DisplayConfig

	// Widgets
	box       *gtk.Box
	label     *gtk.Label
	iconImage *gtk.Image
	actionBtn *gtk.Button

	// Visual state
	bounds    surface.Bounds
	baseWidth int
	dx, dy    float64
	scale     float64
	presented bool
}

// NewToastWindow builds the window hierarchy for t. Must run on the GTK main
// loop; wire it up through a SurfaceFactory so the toast core guarantees
// that.
func NewToastWindow(app *gtk.Application, t *toast.Toast, cfg config.DisplayConfig) *ToastWindow {
	w := &ToastWindow{
		id:        t.ID(),
		cfg:       cfg,
		baseWidth: cfg.Width,
		scale:     1,
		bounds: surface.Bounds{
			X:      cfg.OffsetX,
			Y:      cfg.OffsetY,
			Width:  cfg.Width,
			Height: cfg.MaxHeight,
		},
	}

	w.window = gtk.NewWindow()
	if app != nil {
		w.window.SetApplication(app)
	}
	w.window.SetDecorated(false)
	w.window.SetResizable(false)
	w.window.SetDefaultSize(cfg.Width, -1)

	layershell.InitForWindow(w.window)
	layershell.SetLayer(w.window, layershell.LayerShellLayerOverlay)
	layershell.SetExclusiveZone(w.window, 0)
	layershell.SetKeyboardMode(w.window, layershell.LayerShellKeyboardModeNone)
	layershell.SetNamespace(w.window, "toastd")

	w.buildUI(t)
	w.applyAnchors()

	return w
}

// buildUI constructs the widget hierarchy from the toast's content.
func (w *ToastWindow) buildUI(t *toast.Toast) {
	w.box = gtk.NewBox(gtk.OrientationHorizontal, 8)
	w.box.AddCSSClass("toast")
	w.box.SetMarginTop(10)
	w.box.SetMarginBottom(10)
	w.box.SetMarginStart(14)
	w.box.SetMarginEnd(14)

	if t.Icon() != "" {
		w.iconImage = gtk.NewImage()
		w.iconImage.AddCSSClass("toast-icon")
		w.iconImage.SetPixelSize(24)
		w.iconImage.SetFromIconName(t.Icon())
		w.box.Append(w.iconImage)
	}

	w.label = gtk.NewLabel("")
	w.label.AddCSSClass("toast-text")
	w.label.SetXAlign(0)
	w.label.SetWrap(true)
	w.label.SetWrapMode(2) // PANGO_WRAP_WORD_CHAR
	w.label.SetMaxWidthChars(40)
	w.label.SetHExpand(true)
	if markup := t.Markup(); markup != "" && strings.Contains(markup, "<") {
		w.label.SetMarkup(markup)
	} else {
		w.label.SetText(t.Text())
	}
	w.box.Append(w.label)

	if action := t.Action(); action != nil {
		invoke := action.Invoke // capture for closure
		w.actionBtn = gtk.NewButtonWithLabel(action.Label)
		w.actionBtn.AddCSSClass("toast-action")
		w.actionBtn.ConnectClicked(func() {
			if invoke != nil {
				invoke()
			}
			t.Cancel()
		})
		w.box.Append(w.actionBtn)
	}

	w.window.SetChild(w.box)
}

// ID returns the toast identifier backing this window.
func (w *ToastWindow) ID() string { return w.id }

// SetOpacity sets the window opacity.
func (w *ToastWindow) SetOpacity(opacity float64) {
	w.window.SetOpacity(opacity)
}

// SetTranslation offsets the window from its anchored position by adjusting
// the layer-shell margins on the anchored edges.
func (w *ToastWindow) SetTranslation(dx, dy float64) {
	w.dx = dx
	w.dy = dy
	w.applyMargins()
}

// SetScale scales the window around its natural width. Layer-shell windows
// have no affine transform, so scale maps to a width request.
func (w *ToastWindow) SetScale(scale float64) {
	if scale < 0.05 {
		scale = 0.05
	}
	w.scale = scale
	w.window.SetDefaultSize(int(float64(w.baseWidth)*scale), -1)
}

// SetVisible shows or hides the window without destroying it.
func (w *ToastWindow) SetVisible(visible bool) {
	w.window.SetVisible(visible)
}

// Bounds returns the window's current logical bounds.
func (w *ToastWindow) Bounds() surface.Bounds {
	return w.bounds
}

// SetBounds updates the logical bounds and resizes the window.
func (w *ToastWindow) SetBounds(b surface.Bounds) {
	w.bounds = b
	if b.Width > 0 {
		w.baseWidth = b.Width
		w.window.SetDefaultSize(int(float64(b.Width)*w.scale), -1)
	}
	w.applyMargins()
}

// Relayout reapplies the anchors and margins.
func (w *ToastWindow) Relayout() {
	w.applyAnchors()
}

// Present maps the window on screen. Called by the backing container when
// the toast attaches.
func (w *ToastWindow) Present() {
	if w.presented {
		return
	}
	w.presented = true
	w.window.Present()
}

// Dismiss unmaps and destroys the window. Called by the backing container
// when the toast detaches.
func (w *ToastWindow) Dismiss() {
	if !w.presented {
		w.window.Destroy()
		return
	}
	w.presented = false
	w.window.Close()
}

// applyAnchors sets the layer-shell anchors for the configured position and
// reapplies the margins.
func (w *ToastWindow) applyAnchors() {
	pos := config.Position(w.cfg.Position)

	layershell.SetAnchor(w.window, layershell.LayerShellEdgeTop, false)
	layershell.SetAnchor(w.window, layershell.LayerShellEdgeBottom, false)
	layershell.SetAnchor(w.window, layershell.LayerShellEdgeLeft, false)
	layershell.SetAnchor(w.window, layershell.LayerShellEdgeRight, false)

	switch pos {
	case config.PositionTopLeft:
		layershell.SetAnchor(w.window, layershell.LayerShellEdgeTop, true)
		layershell.SetAnchor(w.window, layershell.LayerShellEdgeLeft, true)
	case config.PositionTopRight:
		layershell.SetAnchor(w.window, layershell.LayerShellEdgeTop, true)
		layershell.SetAnchor(w.window, layershell.LayerShellEdgeRight, true)
	case config.PositionTopCenter:
		layershell.SetAnchor(w.window, layershell.LayerShellEdgeTop, true)
	case config.PositionBottomLeft:
		layershell.SetAnchor(w.window, layershell.LayerShellEdgeBottom, true)
		layershell.SetAnchor(w.window, layershell.LayerShellEdgeLeft, true)
	case config.PositionBottomRight:
		layershell.SetAnchor(w.window, layershell.LayerShellEdgeBottom, true)
		layershell.SetAnchor(w.window, layershell.LayerShellEdgeRight, true)
	default: // bottom-center
		layershell.SetAnchor(w.window, layershell.LayerShellEdgeBottom, true)
	}

	w.applyMargins()
}

// applyMargins sets the margins on the anchored edges, folding the current
// translation into the static offsets.
func (w *ToastWindow) applyMargins() {
	pos := config.Position(w.cfg.Position)
	offsetX := w.cfg.OffsetX
	offsetY := w.cfg.OffsetY

	switch pos {
	case config.PositionTopLeft:
		layershell.SetMargin(w.window, layershell.LayerShellEdgeTop, offsetY+int(w.dy))
		layershell.SetMargin(w.window, layershell.LayerShellEdgeLeft, offsetX+int(w.dx))
	case config.PositionTopRight:
		layershell.SetMargin(w.window, layershell.LayerShellEdgeTop, offsetY+int(w.dy))
		layershell.SetMargin(w.window, layershell.LayerShellEdgeRight, offsetX-int(w.dx))
	case config.PositionTopCenter:
		layershell.SetMargin(w.window, layershell.LayerShellEdgeTop, offsetY+int(w.dy))
	case config.PositionBottomLeft:
		layershell.SetMargin(w.window, layershell.LayerShellEdgeBottom, offsetY-int(w.dy))
		layershell.SetMargin(w.window, layershell.LayerShellEdgeLeft, offsetX+int(w.dx))
	case config.PositionBottomRight:
		layershell.SetMargin(w.window, layershell.LayerShellEdgeBottom, offsetY-int(w.dy))
		layershell.SetMargin(w.window, layershell.LayerShellEdgeRight, offsetX-int(w.dx))
	default: // bottom-center
		layershell.SetMargin(w.window, layershell.LayerShellEdgeBottom, offsetY-int(w.dy))
	}
}
