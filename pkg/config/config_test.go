package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetGlobal(t *testing.T) {
	t.Helper()
	globalMu.Lock()
	prev := globalManager
	globalManager = nil
	globalMu.Unlock()

	t.Cleanup(func() {
		globalMu.Lock()
		globalManager = prev
		globalMu.Unlock()
	})
}

func TestInitialize(t *testing.T) {
	resetGlobal(t)
	assert.False(t, IsInitialized())
	assert.Nil(t, GetBrowser())
	assert.Panics(t, func() { Global() })

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, Initialize(path))

	assert.True(t, IsInitialized())
	section := GetBrowser()
	require.NotNil(t, section)
	assert.True(t, section.Options().Headless)
}

func TestInitialize_PersistsAcrossRuns(t *testing.T) {
	resetGlobal(t)
	path := filepath.Join(t.TempDir(), "config.json")

	require.NoError(t, Initialize(path))
	require.NoError(t, GetBrowser().SetData(map[string]any{"headless": false, "extension_path": "/ext"}))
	require.NoError(t, Global().SaveAll())

	resetGlobal(t)
	require.NoError(t, Initialize(path))

	opts := GetBrowser().Options()
	assert.False(t, opts.Headless)
	assert.Equal(t, "/ext", opts.ExtensionPath)
}

func TestOpen_RejectsBadStoredValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	raw := `{"version":"1","sections":{"browser":{"headless":"sometimes"}}}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0600))

	_, err := Open(path)
	assert.Error(t, err)
}
