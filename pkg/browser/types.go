package browser

import (
	"fmt"
	"time"
)

// Browser engines Playwright can launch.
const (
	EngineChromium = "chromium"
	EngineFirefox  = "firefox"
	EngineWebKit   = "webkit"
)

// Default values for context creation
const (
	DefaultTimeout        = 30 * time.Second
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
)

// Options configures browser context creation. The same bag is accepted by
// every ContextFactory; fields a factory does not use are ignored.
type Options struct {
	// Browser selects the engine: chromium (default), firefox or webkit
	Browser string `yaml:"browser" json:"browser"`

	// Channel selects a branded or alternate build, e.g. "chrome" or "msedge"
	Channel string `yaml:"channel" json:"channel"`

	// Headless controls whether the browser runs without a visible window
	Headless bool `yaml:"headless" json:"headless"`

	// Viewport sets the page viewport size
	Viewport *Viewport `yaml:"viewport" json:"viewport"`

	// Timeout is the default timeout for page operations
	Timeout time.Duration `yaml:"timeout" json:"timeout"`

	// SlowMo slows every Playwright operation down by this amount
	SlowMo time.Duration `yaml:"slow_mo" json:"slow_mo"`

	UserAgent         string   `yaml:"user_agent" json:"user_agent"`
	Locale            string   `yaml:"locale" json:"locale"`
	IgnoreHTTPSErrors bool     `yaml:"ignore_https_errors" json:"ignore_https_errors"`
	Args              []string `yaml:"args" json:"args"`

	// ExtensionPath is the unpacked telemetry extension loaded by
	// PluginContext. Chromium only.
	ExtensionPath string `yaml:"extension_path" json:"extension_path"`

	// UserDataDir is the profile directory for PluginContext. A temporary
	// directory is created (and removed on close) when empty.
	UserDataDir string `yaml:"user_data_dir" json:"user_data_dir"`

	// RecordEvents installs an EventRecorder in plugin contexts
	RecordEvents bool `yaml:"record_events" json:"record_events"`

	// EventLog appends recorded events as JSON lines to this file
	EventLog string `yaml:"event_log" json:"event_log"`

	// EventSink receives recorded events in addition to EventLog
	EventSink Sink `yaml:"-" json:"-"`
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// DefaultOptions returns headless Chromium with the default viewport and
// timeout.
func DefaultOptions() Options {
	return Options{
		Browser:  EngineChromium,
		Headless: true,
		Viewport: &Viewport{Width: DefaultViewportWidth, Height: DefaultViewportHeight},
		Timeout:  DefaultTimeout,
	}
}

// withDefaults fills unset fields. Headless is a plain bool and is left as
// given.
func (o Options) withDefaults() Options {
	if o.Browser == "" {
		o.Browser = EngineChromium
	}
	if o.Viewport == nil {
		o.Viewport = &Viewport{Width: DefaultViewportWidth, Height: DefaultViewportHeight}
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// Validate checks option combinations the factories cannot honor.
func (o Options) Validate() error {
	switch o.Browser {
	case "", EngineChromium, EngineFirefox, EngineWebKit:
	default:
		return fmt.Errorf("unsupported browser %q (must be chromium, firefox or webkit)", o.Browser)
	}

	if o.ExtensionPath != "" && o.Browser != "" && o.Browser != EngineChromium {
		return fmt.Errorf("extensions are only supported in chromium, got %q", o.Browser)
	}

	if o.Viewport != nil && (o.Viewport.Width <= 0 || o.Viewport.Height <= 0) {
		return fmt.Errorf("viewport must be positive, got %dx%d", o.Viewport.Width, o.Viewport.Height)
	}

	if o.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}

	if o.SlowMo < 0 {
		return fmt.Errorf("slow_mo cannot be negative")
	}

	return nil
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
