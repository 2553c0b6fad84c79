package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func TestWatcherReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toastd.toml")
	writeConfig(t, path, "[display]\nposition = \"bottom-center\"\n")

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	reloaded := make(chan *Config, 4)
	w.SetReloadCallback(func(cfg *Config) { reloaded <- cfg })
	require.NoError(t, w.Start())

	writeConfig(t, path, "[display]\nposition = \"top-left\"\n")

	select {
	case cfg := <-reloaded:
		assert.Equal(t, "top-left", cfg.Display.Position)
	case <-time.After(5 * time.Second):
		t.Fatal("reload callback never fired")
	}
}

func TestWatcherRejectsInvalidAndKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toastd.toml")
	writeConfig(t, path, "[display]\nposition = \"bottom-center\"\n")

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	reloaded := make(chan *Config, 4)
	failed := make(chan error, 4)
	w.SetReloadCallback(func(cfg *Config) { reloaded <- cfg })
	w.SetErrorCallback(func(err error) { failed <- err })
	require.NoError(t, w.Start())

	writeConfig(t, path, "[display]\nposition = \"nowhere\"\n")

	select {
	case err := <-failed:
		assert.Error(t, err)
	case cfg := <-reloaded:
		t.Fatalf("invalid config was accepted: %+v", cfg)
	case <-time.After(5 * time.Second):
		t.Fatal("error callback never fired")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toastd.toml")
	writeConfig(t, path, "[display]\nposition = \"bottom-center\"\n")

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	reloaded := make(chan *Config, 4)
	w.SetReloadCallback(func(cfg *Config) { reloaded <- cfg })
	require.NoError(t, w.Start())

	writeConfig(t, filepath.Join(dir, "other.toml"), "irrelevant = true\n")

	select {
	case <-reloaded:
		t.Fatal("reload fired for an unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherStopTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toastd.toml")

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start())

	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
