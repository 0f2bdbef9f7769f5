package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/entrhq/pagerun/pkg/browser"
)

// SectionIDBrowser is the identifier for the browser defaults section
const SectionIDBrowser = "browser"

// BrowserSection holds the user's default browser settings. They sit below
// the run file and CLI flags.
type BrowserSection struct {
	Browser        string        `json:"browser"`
	Headless       bool          `json:"headless"`
	ViewportWidth  int           `json:"viewport_width"`
	ViewportHeight int           `json:"viewport_height"`
	Timeout        time.Duration `json:"timeout"`
	ExtensionPath  string        `json:"extension_path"`
	mu             sync.RWMutex
}

// NewBrowserSection creates the section with built-in defaults.
func NewBrowserSection() *BrowserSection {
	s := &BrowserSection{}
	s.Reset()
	return s
}

// ID returns the section identifier.
func (s *BrowserSection) ID() string {
	return SectionIDBrowser
}

// Title returns the section title.
func (s *BrowserSection) Title() string {
	return "Browser Defaults"
}

// Description returns the section description.
func (s *BrowserSection) Description() string {
	return "Default engine, window mode, viewport, timeout and telemetry extension for new browser contexts."
}

// Data returns the current settings.
func (s *BrowserSection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]any{
		"browser":         s.Browser,
		"headless":        s.Headless,
		"viewport_width":  s.ViewportWidth,
		"viewport_height": s.ViewportHeight,
		"timeout":         s.Timeout.String(),
		"extension_path":  s.ExtensionPath,
	}
}

// SetData applies stored values. Numbers may arrive as float64 (JSON) or
// int.
func (s *BrowserSection) SetData(data map[string]any) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		switch key {
		case "browser":
			name, ok := value.(string)
			if !ok {
				return fmt.Errorf("invalid value type for browser: expected string, got %T", value)
			}
			s.Browser = name
		case "headless":
			headless, ok := value.(bool)
			if !ok {
				return fmt.Errorf("invalid value type for headless: expected bool, got %T", value)
			}
			s.Headless = headless
		case "viewport_width":
			n, err := toInt(key, value)
			if err != nil {
				return err
			}
			s.ViewportWidth = n
		case "viewport_height":
			n, err := toInt(key, value)
			if err != nil {
				return err
			}
			s.ViewportHeight = n
		case "timeout":
			d, err := toDuration(key, value)
			if err != nil {
				return err
			}
			s.Timeout = d
		case "extension_path":
			path, ok := value.(string)
			if !ok {
				return fmt.Errorf("invalid value type for extension_path: expected string, got %T", value)
			}
			s.ExtensionPath = path
		}
	}
	return nil
}

// Validate checks the settings against what the context factories accept.
func (s *BrowserSection) Validate() error {
	return s.Options().Validate()
}

// Reset restores built-in defaults.
func (s *BrowserSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	defaults := browser.DefaultOptions()
	s.Browser = defaults.Browser
	s.Headless = defaults.Headless
	s.ViewportWidth = defaults.Viewport.Width
	s.ViewportHeight = defaults.Viewport.Height
	s.Timeout = defaults.Timeout
	s.ExtensionPath = ""
}

// Options returns the stored defaults as context options.
func (s *BrowserSection) Options() browser.Options {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return browser.Options{
		Browser:       s.Browser,
		Headless:      s.Headless,
		Viewport:      &browser.Viewport{Width: s.ViewportWidth, Height: s.ViewportHeight},
		Timeout:       s.Timeout,
		ExtensionPath: s.ExtensionPath,
	}
}

func toInt(key string, value any) (int, error) {
	switch n := value.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("invalid value for %s: %v is not a whole number", key, n)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("invalid value type for %s: expected number, got %T", key, value)
	}
}

func toDuration(key string, value any) (time.Duration, error) {
	switch d := value.(type) {
	case string:
		parsed, err := time.ParseDuration(d)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
		}
		return parsed, nil
	case time.Duration:
		return d, nil
	case float64:
		return time.Duration(d), nil
	default:
		return 0, fmt.Errorf("invalid value type for %s: expected duration string, got %T", key, value)
	}
}
