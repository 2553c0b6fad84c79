// Package dbus exposes the toast service on the session bus so other
// processes can raise, cancel, and observe toasts.
package dbus

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

const (
	// DBusInterface is the toast control interface name.
	DBusInterface = "com.github.jmylchreest.toastd.Control"
	// DBusPath is the toast control object path.
	DBusPath = "/com/github/jmylchreest/toastd"
	// DBusBusName is the bus name to claim.
	DBusBusName = "com.github.jmylchreest.toastd"
)

// ShowHandler is called when a Show request is received. It returns the
// identifier of the toast it raised.
type ShowHandler func(req *ShowRequest) (string, error)

// CancelHandler is called when Cancel is requested. It reports whether the
// identifier matched a live toast.
type CancelHandler func(id string) bool

// CancelAllHandler is called when CancelAll is requested.
type CancelAllHandler func()

// StatusHandler is called when Status is requested. It returns the current
// toast's identifier and text (empty if none) and the queued count.
type StatusHandler func() (id, text string, pending uint32)

// ControlServer implements the toastd control D-Bus interface.
type ControlServer struct {
	conn   *dbus.Conn
	logger *slog.Logger

	showHandler      ShowHandler
	cancelHandler    CancelHandler
	cancelAllHandler CancelAllHandler
	statusHandler    StatusHandler

	mu         sync.Mutex
	serverInfo ServerInfo
	running    bool
}

// NewControlServer creates a new ControlServer.
func NewControlServer(logger *slog.Logger) *ControlServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ControlServer{
		logger:     logger,
		serverInfo: DefaultServerInfo(),
	}
}

// SetShowHandler sets the handler called when a Show request is received.
func (s *ControlServer) SetShowHandler(handler ShowHandler) {
	s.showHandler = handler
}

// SetCancelHandler sets the handler called when Cancel is requested.
func (s *ControlServer) SetCancelHandler(handler CancelHandler) {
	s.cancelHandler = handler
}

// SetCancelAllHandler sets the handler called when CancelAll is requested.
func (s *ControlServer) SetCancelAllHandler(handler CancelAllHandler) {
	s.cancelAllHandler = handler
}

// SetStatusHandler sets the handler called when Status is requested.
func (s *ControlServer) SetStatusHandler(handler StatusHandler) {
	s.statusHandler = handler
}

// SetServerInfo sets the information returned by GetServerInformation.
func (s *ControlServer) SetServerInfo(info ServerInfo) {
	s.serverInfo = info
}

// Start connects to the session bus and exports the control service.
func (s *ControlServer) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}
	s.mu.Unlock()

	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	s.conn = conn

	if err := conn.Export(s, DBusPath, DBusInterface); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}

	node := &introspect.Node{
		Name: DBusPath,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    DBusInterface,
				Methods: controlMethods(),
				Signals: controlSignals(),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), DBusPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	reply, err := conn.RequestName(DBusBusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already taken", DBusBusName)
	}

	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	s.logger.Info("D-Bus control server started", "interface", DBusInterface, "path", DBusPath)
	return nil
}

// Stop releases the bus name.
func (s *ControlServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if s.conn != nil {
		_, err := s.conn.ReleaseName(DBusBusName)
		if err != nil {
			s.logger.Warn("failed to release bus name", "error", err)
		}
		// Don't close the connection as it's shared (SessionBus)
	}

	s.logger.Info("D-Bus control server stopped")
	return nil
}

// Show raises a toast.
// D-Bus method: Show(sisss) -> s
func (s *ControlServer) Show(text string, durationMS int32, enter string, exit string, icon string) (string, *dbus.Error) {
	s.logger.Debug("Show called", "text", text, "duration_ms", durationMS)

	if s.showHandler == nil {
		return "", dbus.MakeFailedError(fmt.Errorf("no show handler registered"))
	}

	req := &ShowRequest{
		Text:       text,
		DurationMS: durationMS,
		Enter:      enter,
		Exit:       exit,
		Icon:       icon,
	}
	id, err := s.showHandler(req)
	if err != nil {
		return "", dbus.MakeFailedError(err)
	}
	return id, nil
}

// Cancel cancels a toast by ID.
// D-Bus method: Cancel(s) -> b
func (s *ControlServer) Cancel(id string) (bool, *dbus.Error) {
	s.logger.Debug("Cancel called", "id", id)

	if s.cancelHandler == nil {
		return false, nil
	}
	return s.cancelHandler(id), nil
}

// CancelAll cancels every queued and presented toast.
// D-Bus method: CancelAll() -> nothing
func (s *ControlServer) CancelAll() *dbus.Error {
	s.logger.Debug("CancelAll called")

	if s.cancelAllHandler != nil {
		s.cancelAllHandler()
	}
	return nil
}

// Status reports the currently visible toast and the queue depth.
// D-Bus method: Status() -> (ssu)
func (s *ControlServer) Status() (string, string, uint32, *dbus.Error) {
	s.logger.Debug("Status called")

	if s.statusHandler == nil {
		return "", "", 0, nil
	}
	id, text, pending := s.statusHandler()
	return id, text, pending, nil
}

// GetServerInformation returns information about the toast service.
// D-Bus method: GetServerInformation() -> (sss)
func (s *ControlServer) GetServerInformation() (string, string, string, *dbus.Error) {
	return s.serverInfo.Name, s.serverInfo.Vendor, s.serverInfo.Version, nil
}

// controlMethods returns the D-Bus method introspection data.
func controlMethods() []introspect.Method {
	return []introspect.Method{
		{
			Name: "Show",
			Args: []introspect.Arg{
				{Name: "text", Type: "s", Direction: "in"},
				{Name: "duration_ms", Type: "i", Direction: "in"},
				{Name: "enter", Type: "s", Direction: "in"},
				{Name: "exit", Type: "s", Direction: "in"},
				{Name: "icon", Type: "s", Direction: "in"},
				{Name: "id", Type: "s", Direction: "out"},
			},
		},
		{
			Name: "Cancel",
			Args: []introspect.Arg{
				{Name: "id", Type: "s", Direction: "in"},
				{Name: "found", Type: "b", Direction: "out"},
			},
		},
		{
			Name: "CancelAll",
		},
		{
			Name: "Status",
			Args: []introspect.Arg{
				{Name: "id", Type: "s", Direction: "out"},
				{Name: "text", Type: "s", Direction: "out"},
				{Name: "pending", Type: "u", Direction: "out"},
			},
		},
		{
			Name: "GetServerInformation",
			Args: []introspect.Arg{
				{Name: "name", Type: "s", Direction: "out"},
				{Name: "vendor", Type: "s", Direction: "out"},
				{Name: "version", Type: "s", Direction: "out"},
			},
		},
	}
}

// controlSignals returns the D-Bus signal introspection data.
func controlSignals() []introspect.Signal {
	return []introspect.Signal{
		{
			Name: "Presented",
			Args: []introspect.Arg{
				{Name: "id", Type: "s"},
				{Name: "text", Type: "s"},
			},
		},
		{
			Name: "Finished",
			Args: []introspect.Arg{
				{Name: "id", Type: "s"},
				{Name: "cancelled", Type: "b"},
			},
		},
		{
			Name: "Announced",
			Args: []introspect.Arg{
				{Name: "text", Type: "s"},
			},
		},
	}
}
