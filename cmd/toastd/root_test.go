package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastd/config"
)

func TestConfigFlagHelpNamesDefaultFile(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("config")
	require.NotNil(t, flag)

	path, err := config.Path()
	require.NoError(t, err)
	assert.Contains(t, flag.Usage, filepath.Base(path))
}

func TestConfigPathFlagOverride(t *testing.T) {
	old := globalOpts.configPath
	t.Cleanup(func() { globalOpts.configPath = old })

	globalOpts.configPath = "/etc/toastd/custom.toml"
	got, err := configPath()
	require.NoError(t, err)
	assert.Equal(t, "/etc/toastd/custom.toml", got)
}
