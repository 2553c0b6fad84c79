package dbus

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// EmitPresented emits the Presented signal when a toast becomes visible.
func (s *ControlServer) EmitPresented(id, text string) error {
	if s.conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}

	err := s.conn.Emit(DBusPath, DBusInterface+".Presented", id, text)
	if err != nil {
		return fmt.Errorf("failed to emit Presented signal: %w", err)
	}

	s.logger.Debug("emitted Presented signal", "id", id)
	return nil
}

// EmitFinished emits the Finished signal when a toast's lifecycle completes.
// The cancelled flag distinguishes a cut-short toast from one that ran out.
func (s *ControlServer) EmitFinished(id string, cancelled bool) error {
	if s.conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}

	err := s.conn.Emit(DBusPath, DBusInterface+".Finished", id, cancelled)
	if err != nil {
		return fmt.Errorf("failed to emit Finished signal: %w", err)
	}

	s.logger.Debug("emitted Finished signal", "id", id, "cancelled", cancelled)
	return nil
}

// EmitAnnounced emits the Announced signal so screen readers and other
// assistive listeners can pick up toast text.
func (s *ControlServer) EmitAnnounced(text string) error {
	if s.conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}

	err := s.conn.Emit(DBusPath, DBusInterface+".Announced", text)
	if err != nil {
		return fmt.Errorf("failed to emit Announced signal: %w", err)
	}

	s.logger.Debug("emitted Announced signal")
	return nil
}

// Connection returns the underlying D-Bus connection.
func (s *ControlServer) Connection() *dbus.Conn {
	return s.conn
}

// Announcer adapts the control server's Announced signal to the toast
// center's announcement hook.
type Announcer struct {
	server *ControlServer
}

// NewAnnouncer creates an Announcer backed by the given server.
func NewAnnouncer(server *ControlServer) *Announcer {
	return &Announcer{server: server}
}

// Announce emits the Announced signal for the given text.
func (a *Announcer) Announce(text string) error {
	return a.server.EmitAnnounced(text)
}
