package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileStore(t *testing.T) {
	t.Run("uses the given path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")

		store, err := NewFileStore(path)
		require.NoError(t, err)
		assert.Equal(t, path, store.Path())
		assert.False(t, store.IsModified())
	})

	t.Run("defaults to the pagerun home directory", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)

		store, err := NewFileStore("")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".pagerun", "config.json"), store.Path())
	})

	t.Run("loads an existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		raw := `{"version":"1","sections":{"browser":{"headless":false,"browser":"firefox"}}}`
		require.NoError(t, os.WriteFile(path, []byte(raw), 0600))

		store, err := NewFileStore(path)
		require.NoError(t, err)

		section, err := store.GetSection("browser")
		require.NoError(t, err)
		assert.Equal(t, "firefox", section["browser"])
		assert.Equal(t, false, section["headless"])
	})

	t.Run("rejects a corrupt file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

		_, err := NewFileStore(path)
		assert.Error(t, err)
	})
}

func TestFileStore_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, store.SetSection("browser", map[string]any{"extension_path": "/opt/ext"}))
	assert.True(t, store.IsModified())

	require.NoError(t, store.Save())
	assert.False(t, store.IsModified())

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	section, err := reopened.GetSection("browser")
	require.NoError(t, err)
	assert.Equal(t, "/opt/ext", section["extension_path"])
}

func TestFileStore_Copies(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	input := map[string]any{"headless": true}
	require.NoError(t, store.SetSection("browser", input))
	input["headless"] = false

	got, err := store.GetSection("browser")
	require.NoError(t, err)
	assert.Equal(t, true, got["headless"], "store must not alias caller maps")

	got["headless"] = false
	again, _ := store.GetSection("browser")
	assert.Equal(t, true, again["headless"], "callers must not alias store maps")
}

func TestFileStore_MissingSectionIsEmpty(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	section, err := store.GetSection("nope")
	require.NoError(t, err)
	assert.Empty(t, section)
}

func TestFileStore_SetAllGetAll(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	require.NoError(t, store.SetAll(map[string]map[string]any{
		"a": {"k": 1},
		"b": {"k": 2},
	}))

	all, err := store.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, 2, all["b"]["k"])
	assert.True(t, store.IsModified())
}
