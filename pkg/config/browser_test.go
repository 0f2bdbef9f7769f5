package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/pagerun/pkg/browser"
)

func TestBrowserSection_Defaults(t *testing.T) {
	s := NewBrowserSection()

	assert.Equal(t, SectionIDBrowser, s.ID())
	assert.NotEmpty(t, s.Title())
	assert.NotEmpty(t, s.Description())

	opts := s.Options()
	assert.Equal(t, browser.EngineChromium, opts.Browser)
	assert.True(t, opts.Headless)
	require.NotNil(t, opts.Viewport)
	assert.Equal(t, browser.DefaultViewportWidth, opts.Viewport.Width)
	assert.Equal(t, browser.DefaultViewportHeight, opts.Viewport.Height)
	assert.Equal(t, browser.DefaultTimeout, opts.Timeout)
	assert.NoError(t, s.Validate())
}

func TestBrowserSection_SetData(t *testing.T) {
	s := NewBrowserSection()

	err := s.SetData(map[string]any{
		"browser":         "firefox",
		"headless":        false,
		"viewport_width":  float64(800),
		"viewport_height": 600,
		"timeout":         "5s",
		"extension_path":  "",
		"ignored":         "value",
	})
	require.NoError(t, err)

	opts := s.Options()
	assert.Equal(t, "firefox", opts.Browser)
	assert.False(t, opts.Headless)
	assert.Equal(t, 800, opts.Viewport.Width)
	assert.Equal(t, 600, opts.Viewport.Height)
	assert.Equal(t, 5*time.Second, opts.Timeout)
}

func TestBrowserSection_SetDataRejectsBadTypes(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
	}{
		{"browser not string", map[string]any{"browser": 1}},
		{"headless not bool", map[string]any{"headless": "yes"}},
		{"width not number", map[string]any{"viewport_width": "wide"}},
		{"width fractional", map[string]any{"viewport_width": 10.5}},
		{"timeout unparsable", map[string]any{"timeout": "soon"}},
		{"extension not string", map[string]any{"extension_path": true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, NewBrowserSection().SetData(tt.data))
		})
	}
}

func TestBrowserSection_DataRoundTrip(t *testing.T) {
	s := NewBrowserSection()
	require.NoError(t, s.SetData(map[string]any{"timeout": "45s", "extension_path": "/ext"}))

	copied := NewBrowserSection()
	require.NoError(t, copied.SetData(s.Data()))
	assert.Equal(t, s.Options(), copied.Options())
}

func TestBrowserSection_ValidateAndReset(t *testing.T) {
	s := NewBrowserSection()
	require.NoError(t, s.SetData(map[string]any{"browser": "webkit", "extension_path": "/ext"}))
	assert.Error(t, s.Validate(), "extensions need chromium")

	s.Reset()
	assert.NoError(t, s.Validate())
	assert.Empty(t, s.Options().ExtensionPath)
}
