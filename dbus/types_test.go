package dbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultServerInfo(t *testing.T) {
	info := DefaultServerInfo()
	assert.Equal(t, "toastd", info.Name)
	assert.Equal(t, "jmylchreest", info.Vendor)
	assert.NotEmpty(t, info.Version)
}

func TestControlIntrospection(t *testing.T) {
	methods := controlMethods()
	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = m.Name
	}
	assert.ElementsMatch(t,
		[]string{"Show", "Cancel", "CancelAll", "Status", "GetServerInformation"}, names)

	signals := controlSignals()
	sigNames := make([]string, len(signals))
	for i, s := range signals {
		sigNames[i] = s.Name
	}
	assert.ElementsMatch(t, []string{"Presented", "Finished", "Announced"}, sigNames)
}

func TestHandlersWithoutRegistration(t *testing.T) {
	s := NewControlServer(nil)

	_, derr := s.Show("hello", 0, "", "", "")
	assert.NotNil(t, derr, "show without a handler must fail")

	found, derr2 := s.Cancel("some-id")
	assert.Nil(t, derr2)
	assert.False(t, found)

	assert.Nil(t, s.CancelAll())

	id, text, pending, derr3 := s.Status()
	assert.Nil(t, derr3)
	assert.Empty(t, id)
	assert.Empty(t, text)
	assert.Zero(t, pending)
}

func TestShowDispatchesToHandler(t *testing.T) {
	s := NewControlServer(nil)

	var got *ShowRequest
	s.SetShowHandler(func(req *ShowRequest) (string, error) {
		got = req
		return "toast-1", nil
	})

	id, derr := s.Show("hello", 1500, "slide-bottom", "fade", "dialog-information")
	assert.Nil(t, derr)
	assert.Equal(t, "toast-1", id)

	assert.Equal(t, "hello", got.Text)
	assert.Equal(t, int32(1500), got.DurationMS)
	assert.Equal(t, "slide-bottom", got.Enter)
	assert.Equal(t, "fade", got.Exit)
	assert.Equal(t, "dialog-information", got.Icon)
}

func TestEmitWithoutConnection(t *testing.T) {
	s := NewControlServer(nil)

	assert.Error(t, s.EmitPresented("id", "text"))
	assert.Error(t, s.EmitFinished("id", false))
	assert.Error(t, s.EmitAnnounced("text"))

	a := NewAnnouncer(s)
	assert.Error(t, a.Announce("text"))
}
