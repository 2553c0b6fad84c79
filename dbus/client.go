package dbus

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// Client calls the toastd control service from another process.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// NewClient connects to the session bus and binds the control object.
func NewClient() (*Client, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &Client{
		conn: conn,
		obj:  conn.Object(DBusBusName, DBusPath),
	}, nil
}

// Show asks the daemon to raise a toast and returns its identifier.
func (c *Client) Show(req *ShowRequest) (string, error) {
	var id string
	call := c.obj.Call(DBusInterface+".Show", 0,
		req.Text, req.DurationMS, req.Enter, req.Exit, req.Icon)
	if call.Err != nil {
		return "", fmt.Errorf("show call failed: %w", call.Err)
	}
	if err := call.Store(&id); err != nil {
		return "", fmt.Errorf("failed to read show reply: %w", err)
	}
	return id, nil
}

// Cancel asks the daemon to cancel a toast. It reports whether the
// identifier matched a live toast.
func (c *Client) Cancel(id string) (bool, error) {
	var found bool
	call := c.obj.Call(DBusInterface+".Cancel", 0, id)
	if call.Err != nil {
		return false, fmt.Errorf("cancel call failed: %w", call.Err)
	}
	if err := call.Store(&found); err != nil {
		return false, fmt.Errorf("failed to read cancel reply: %w", err)
	}
	return found, nil
}

// CancelAll asks the daemon to cancel every queued and presented toast.
func (c *Client) CancelAll() error {
	call := c.obj.Call(DBusInterface+".CancelAll", 0)
	if call.Err != nil {
		return fmt.Errorf("cancel-all call failed: %w", call.Err)
	}
	return nil
}

// Status reports the currently visible toast and the queue depth.
func (c *Client) Status() (id, text string, pending uint32, err error) {
	call := c.obj.Call(DBusInterface+".Status", 0)
	if call.Err != nil {
		return "", "", 0, fmt.Errorf("status call failed: %w", call.Err)
	}
	if err := call.Store(&id, &text, &pending); err != nil {
		return "", "", 0, fmt.Errorf("failed to read status reply: %w", err)
	}
	return id, text, pending, nil
}
