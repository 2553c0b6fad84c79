package gtkshell

import "errors"

// ErrNoDisplay is returned when no GDK display is available, typically when
// running outside a Wayland or X11 session.
var ErrNoDisplay = errors.New("gtkshell: no display available")
