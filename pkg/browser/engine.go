package browser

import (
	"fmt"
	"io"
	"sync"

	"github.com/playwright-community/playwright-go"
)

// Hooks into the Playwright driver, replaced in tests.
var (
	installDriver = playwright.Install
	runDriver     = playwright.Run
	stopDriver    = func(pw *playwright.Playwright) error { return pw.Stop() }
)

// EngineOptions configures driver installation and startup.
type EngineOptions struct {
	// Browsers limits installation to these engines. Empty installs all.
	Browsers []string

	// SkipInstall assumes the driver and browsers are already present
	SkipInstall bool

	// Output receives driver installation output. Discarded when nil.
	Output io.Writer
}

// Engine manages the lifecycle of the Playwright driver process.
type Engine struct {
	mu      sync.Mutex
	opts    EngineOptions
	pw      *playwright.Playwright
	started bool
}

// NewEngine creates an engine that has not been started yet.
func NewEngine(opts EngineOptions) *Engine {
	return &Engine{opts: opts}
}

// Start installs (unless skipped) and launches the Playwright driver.
// Calling Start on a running engine returns the existing handle.
func (e *Engine) Start() (*playwright.Playwright, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return e.pw, nil
	}

	output := e.opts.Output
	if output == nil {
		output = io.Discard
	}
	runOpts := &playwright.RunOptions{
		Verbose:  false,
		Stdout:   output,
		Stderr:   output,
		Browsers: e.opts.Browsers,
	}

	if !e.opts.SkipInstall {
		if err := installDriver(runOpts); err != nil {
			return nil, fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := runDriver(runOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	e.pw = pw
	e.started = true
	return pw, nil
}

// Playwright returns the running handle, or nil before Start.
func (e *Engine) Playwright() *playwright.Playwright {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pw
}

// Stop shuts the driver down. Safe to call multiple times.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return nil
	}

	pw := e.pw
	e.pw = nil
	e.started = false
	if err := stopDriver(pw); err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}
	return nil
}
