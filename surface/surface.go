// Package surface defines the geometry and surface contracts shared by the
// toast core, the overlay service, and platform backends.
package surface

// Orientation describes the display orientation reported by the platform.
type Orientation int

const (
	// OrientationPortrait is the upright orientation.
	OrientationPortrait Orientation = iota
	// OrientationLandscape is the rotated orientation.
	OrientationLandscape
)

// String returns the string representation of the orientation.
func (o Orientation) String() string {
	switch o {
	case OrientationPortrait:
		return "portrait"
	case OrientationLandscape:
		return "landscape"
	default:
		return "unknown"
	}
}

// IsLandscape reports whether the orientation is landscape.
func (o Orientation) IsLandscape() bool {
	return o == OrientationLandscape
}

// Bounds is a rectangle in display coordinates.
type Bounds struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Swapped returns the bounds with width and height exchanged.
// Used when the host application opts out of automatic rotation and the
// overlay has to compensate for a landscape display itself.
func (b Bounds) Swapped() Bounds {
	return Bounds{X: b.X, Y: b.Y, Width: b.Height, Height: b.Width}
}

// IsZero reports whether the bounds carry no geometry.
func (b Bounds) IsZero() bool {
	return b.Width == 0 && b.Height == 0
}

// Surface is one visual node the toast library manipulates. Implementations
// must only be touched from the UI-owning executor; the core guarantees that
// by funnelling every mutation through it.
type Surface interface {
	// ID returns a stable identifier for registry bookkeeping.
	ID() string

	// SetOpacity sets the surface opacity in [0, 1].
	SetOpacity(opacity float64)

	// SetTranslation offsets the surface from its resting position.
	SetTranslation(dx, dy float64)

	// SetScale scales the surface around its center, 1 being natural size.
	SetScale(scale float64)

	// SetVisible shows or hides the surface without detaching it.
	SetVisible(visible bool)

	// Bounds returns the surface's current bounds.
	Bounds() Bounds

	// SetBounds resizes and repositions the surface.
	SetBounds(b Bounds)

	// Relayout invalidates the surface layout so it is recomputed on the
	// next frame. Forwarded by the scheduler on orientation changes.
	Relayout()
}

// Parent is a surface that can host child surfaces.
type Parent interface {
	// Adopt re-parents the child onto this parent. Adopting a child that
	// is already parented elsewhere moves it.
	Adopt(child Surface)

	// Remove detaches the child from this parent. Removing a child that
	// is not parented here is a no-op.
	Remove(child Surface)
}

// Container is a surface that hosts children, such as the overlay's own
// top-level backing surface.
type Container interface {
	Surface
	Parent
}
