package browser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	assert.Equal(t, EngineChromium, opts.Browser)
	assert.True(t, opts.Headless)
	assert.Equal(t, &Viewport{Width: 1280, Height: 720}, opts.Viewport)
	assert.Equal(t, 30*time.Second, opts.Timeout)
	assert.NoError(t, opts.Validate())
}

func TestOptions_WithDefaultsKeepsExplicitValues(t *testing.T) {
	opts := Options{
		Browser:  EngineWebKit,
		Viewport: &Viewport{Width: 390, Height: 844},
		Timeout:  5 * time.Second,
	}.withDefaults()

	assert.Equal(t, EngineWebKit, opts.Browser)
	assert.Equal(t, 390, opts.Viewport.Width)
	assert.Equal(t, 5*time.Second, opts.Timeout)
	assert.False(t, opts.Headless)
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name        string
		opts        Options
		expectError string
	}{
		{name: "zero value", opts: Options{}},
		{name: "firefox", opts: Options{Browser: EngineFirefox}},
		{name: "unknown browser", opts: Options{Browser: "netscape"}, expectError: "unsupported browser"},
		{name: "extension outside chromium", opts: Options{Browser: EngineFirefox, ExtensionPath: "ext"}, expectError: "only supported in chromium"},
		{name: "empty viewport", opts: Options{Viewport: &Viewport{Width: 0, Height: 720}}, expectError: "viewport must be positive"},
		{name: "negative timeout", opts: Options{Timeout: -time.Second}, expectError: "timeout cannot be negative"},
		{name: "negative slow mo", opts: Options{SlowMo: -time.Millisecond}, expectError: "slow_mo cannot be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.expectError == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.expectError)
			}
		})
	}
}

func TestOptions_LaunchOptions(t *testing.T) {
	launch := Options{
		Headless: false,
		Channel:  "chrome",
		SlowMo:   250 * time.Millisecond,
		Args:     []string{"--mute-audio"},
	}.launchOptions()

	assert.False(t, *launch.Headless)
	assert.Equal(t, "chrome", *launch.Channel)
	assert.Equal(t, 250.0, *launch.SlowMo)
	assert.Equal(t, []string{"--mute-audio"}, launch.Args)

	bare := Options{}.launchOptions()
	assert.Nil(t, bare.Channel)
	assert.Nil(t, bare.SlowMo)
}

func TestOptions_PersistentOptionsWithoutExtension(t *testing.T) {
	opts, err := Options{Headless: true, Locale: "de-DE", Args: []string{"--mute-audio"}}.persistentOptions()
	assert.NoError(t, err)

	assert.Equal(t, []string{"--mute-audio"}, opts.Args)
	assert.Nil(t, opts.Channel, "channel is only forced when an extension is loaded")
	assert.Equal(t, "de-DE", *opts.Locale)
}
