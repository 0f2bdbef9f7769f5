package browser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/pagerun/pkg/logging"
	"github.com/entrhq/pagerun/pkg/metrics"
)

// ContextFactory creates a browser context from a running engine handle.
// Options are interpreted by the factory itself.
type ContextFactory func(pw *playwright.Playwright, opts Options) (playwright.BrowserContext, error)

var (
	_ ContextFactory = DefaultContext
	_ ContextFactory = PluginContext
)

// ownedContext is a BrowserContext that also owns whatever was launched to
// create it. Close releases all of it exactly once.
type ownedContext struct {
	playwright.BrowserContext

	browser   playwright.Browser
	recorder  *EventRecorder
	cleanups  []func() error
	closeOnce sync.Once
	closeErr  error
}

// Close closes the context, then the browser that hosts it, then runs the
// registered cleanups. Later calls return the first call's result.
func (c *ownedContext) Close(options ...playwright.BrowserContextCloseOptions) error {
	c.closeOnce.Do(func() {
		var errs []error
		if err := c.BrowserContext.Close(options...); err != nil {
			errs = append(errs, fmt.Errorf("failed to close context: %w", err))
		}
		if c.browser != nil {
			if err := c.browser.Close(); err != nil {
				errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
			}
		}
		for _, cleanup := range c.cleanups {
			if err := cleanup(); err != nil {
				errs = append(errs, err)
			}
		}
		metrics.ContextClosed()
		c.closeErr = errors.Join(errs...)
	})
	return c.closeErr
}

// Recorder returns the event recorder installed on a context created by
// PluginContext, or nil.
func Recorder(bc playwright.BrowserContext) *EventRecorder {
	if owned, ok := bc.(*ownedContext); ok {
		return owned.recorder
	}
	return nil
}

func browserType(pw *playwright.Playwright, name string) (playwright.BrowserType, error) {
	if pw == nil {
		return nil, fmt.Errorf("playwright is not running")
	}

	var bt playwright.BrowserType
	switch name {
	case "", EngineChromium:
		bt = pw.Chromium
	case EngineFirefox:
		bt = pw.Firefox
	case EngineWebKit:
		bt = pw.WebKit
	default:
		return nil, fmt.Errorf("unsupported browser %q", name)
	}
	if bt == nil {
		return nil, fmt.Errorf("browser %q is not available", name)
	}
	return bt, nil
}

// DefaultContext launches a browser and opens a fresh context in it.
func DefaultContext(pw *playwright.Playwright, opts Options) (playwright.BrowserContext, error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid browser options: %w", err)
	}

	bt, err := browserType(pw, opts.Browser)
	if err != nil {
		return nil, err
	}

	browser, err := bt.Launch(opts.launchOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	bc, err := browser.NewContext(opts.contextOptions())
	if err != nil {
		_ = browser.Close()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}
	bc.SetDefaultTimeout(milliseconds(opts.Timeout))

	metrics.ContextOpened()
	return &ownedContext{BrowserContext: bc, browser: browser}, nil
}

// PluginContext launches a persistent Chromium context with the telemetry
// extension loaded and, when requested, an EventRecorder installed.
func PluginContext(pw *playwright.Playwright, opts Options) (playwright.BrowserContext, error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid browser options: %w", err)
	}
	if opts.Browser != EngineChromium {
		return nil, fmt.Errorf("plugin contexts require chromium, got %q", opts.Browser)
	}

	bt, err := browserType(pw, opts.Browser)
	if err != nil {
		return nil, err
	}

	var cleanups []func() error
	runCleanups := func() {
		for _, cleanup := range cleanups {
			_ = cleanup()
		}
	}

	userDataDir := opts.UserDataDir
	if userDataDir == "" {
		userDataDir = filepath.Join(os.TempDir(), "pagerun-profile-"+uuid.New().String())
		if err := os.MkdirAll(userDataDir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create profile directory: %w", err)
		}
		dir := userDataDir
		cleanups = append(cleanups, func() error {
			if err := os.RemoveAll(dir); err != nil {
				return fmt.Errorf("failed to remove profile directory: %w", err)
			}
			return nil
		})
	}

	launchOpts, err := opts.persistentOptions()
	if err != nil {
		runCleanups()
		return nil, err
	}

	bc, err := bt.LaunchPersistentContext(userDataDir, launchOpts)
	if err != nil {
		runCleanups()
		return nil, fmt.Errorf("failed to launch persistent context: %w", err)
	}
	bc.SetDefaultTimeout(milliseconds(opts.Timeout))

	metrics.ContextOpened()
	owned := &ownedContext{BrowserContext: bc, cleanups: cleanups}

	if opts.RecordEvents {
		sink, closeSink, err := opts.eventSink()
		if err != nil {
			_ = owned.Close()
			return nil, err
		}
		if closeSink != nil {
			owned.cleanups = append(owned.cleanups, closeSink)
		}

		recorder := NewEventRecorder(sink, logging.GetSessionID())
		if err := recorder.Install(bc); err != nil {
			_ = owned.Close()
			return nil, err
		}
		owned.recorder = recorder
	}

	return owned, nil
}

// eventSink combines Options.EventSink with a JSON lines sink for
// Options.EventLog. The returned close function is nil when nothing needs
// closing.
func (o Options) eventSink() (Sink, func() error, error) {
	if o.EventLog == "" {
		return o.EventSink, nil, nil
	}

	jsonl, err := NewJSONLSink(o.EventLog)
	if err != nil {
		return nil, nil, err
	}
	if o.EventSink == nil {
		return jsonl, jsonl.Close, nil
	}
	return MultiSink{o.EventSink, jsonl}, jsonl.Close, nil
}

func (o Options) launchOptions() playwright.BrowserTypeLaunchOptions {
	launch := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(o.Headless),
		Args:     o.Args,
	}
	if o.Channel != "" {
		launch.Channel = playwright.String(o.Channel)
	}
	if o.SlowMo > 0 {
		launch.SlowMo = playwright.Float(milliseconds(o.SlowMo))
	}
	return launch
}

func (o Options) contextOptions() playwright.BrowserNewContextOptions {
	contextOpts := playwright.BrowserNewContextOptions{
		IgnoreHttpsErrors: playwright.Bool(o.IgnoreHTTPSErrors),
	}
	if o.Viewport != nil {
		contextOpts.Viewport = &playwright.Size{Width: o.Viewport.Width, Height: o.Viewport.Height}
	}
	if o.UserAgent != "" {
		contextOpts.UserAgent = playwright.String(o.UserAgent)
	}
	if o.Locale != "" {
		contextOpts.Locale = playwright.String(o.Locale)
	}
	return contextOpts
}

// persistentOptions builds the launch options for PluginContext. Loading an
// extension adds the flags Chromium needs and, in headless mode, selects the
// "chromium" channel since the headless shell cannot run extensions.
func (o Options) persistentOptions() (playwright.BrowserTypeLaunchPersistentContextOptions, error) {
	args := append([]string(nil), o.Args...)
	channel := o.Channel

	if o.ExtensionPath != "" {
		extension, err := filepath.Abs(o.ExtensionPath)
		if err != nil {
			return playwright.BrowserTypeLaunchPersistentContextOptions{}, fmt.Errorf("failed to resolve extension path: %w", err)
		}
		if _, err := os.Stat(extension); err != nil {
			return playwright.BrowserTypeLaunchPersistentContextOptions{}, fmt.Errorf("failed to find extension: %w", err)
		}
		args = append(args,
			"--disable-extensions-except="+extension,
			"--load-extension="+extension,
		)
		if o.Headless && channel == "" {
			channel = EngineChromium
		}
	}

	persistent := playwright.BrowserTypeLaunchPersistentContextOptions{
		Headless:          playwright.Bool(o.Headless),
		Args:              args,
		IgnoreHttpsErrors: playwright.Bool(o.IgnoreHTTPSErrors),
	}
	if channel != "" {
		persistent.Channel = playwright.String(channel)
	}
	if o.SlowMo > 0 {
		persistent.SlowMo = playwright.Float(milliseconds(o.SlowMo))
	}
	if o.Viewport != nil {
		persistent.Viewport = &playwright.Size{Width: o.Viewport.Width, Height: o.Viewport.Height}
	}
	if o.UserAgent != "" {
		persistent.UserAgent = playwright.String(o.UserAgent)
	}
	if o.Locale != "" {
		persistent.Locale = playwright.String(o.Locale)
	}
	return persistent, nil
}
