package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/entrhq/pagerun/pkg/browser"
	"github.com/entrhq/pagerun/pkg/logging"
	"github.com/entrhq/pagerun/pkg/types"
	"github.com/entrhq/pagerun/pkg/workflow"
	"github.com/entrhq/pagerun/pkg/workflow/builtin"
)

// RunFile describes one pagerun invocation.
//
//	workflow: crawl
//	mode: loop
//	use_plugin: true
//	browser:
//	  headless: true
//	  extension_path: ./userale-extension
//	  record_events: true
//	  event_log: events.jsonl
//	loop:
//	  interval: 30s
//	  max_iterations: 10
//	workflows:
//	  crawl:
//	    start_url: https://example.com
//	    include: ["https://example.com/docs/**"]
//	metrics_addr: ":9090"
type RunFile struct {
	Workflow    string               `yaml:"workflow"`
	Mode        types.RunMode        `yaml:"mode"`
	UsePlugin   bool                 `yaml:"use_plugin"`
	Browser     browser.Options      `yaml:"browser"`
	Loop        workflow.LoopOptions `yaml:"loop"`
	Workflows   builtin.Settings     `yaml:"workflows"`
	MetricsAddr string               `yaml:"metrics_addr"`
	LogLevel    string               `yaml:"log_level"`
}

// DefaultRunFile returns the built-in settings: once mode, default browser
// options, info logging.
func DefaultRunFile() RunFile {
	return RunFile{
		Mode:     types.RunModeOnce,
		Browser:  browser.DefaultOptions(),
		LogLevel: "info",
	}
}

// LoadRunFile reads path over DefaultRunFile.
func LoadRunFile(path string) (RunFile, error) {
	return ReadRunFile(path, DefaultRunFile())
}

// ReadRunFile reads path over base. Keys absent from the file keep base's
// values; unknown keys are rejected.
func ReadRunFile(path string, base RunFile) (RunFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return RunFile{}, fmt.Errorf("failed to open run file: %w", err)
	}
	defer f.Close()

	rf, err := DecodeRunFile(f, base)
	if err != nil {
		return RunFile{}, fmt.Errorf("failed to read run file %s: %w", path, err)
	}
	return rf, nil
}

// DecodeRunFile decodes YAML from r over base. An empty document leaves
// base unchanged.
func DecodeRunFile(r io.Reader, base RunFile) (RunFile, error) {
	rf := base
	if base.Browser.Viewport != nil {
		viewport := *base.Browser.Viewport
		rf.Browser.Viewport = &viewport
	}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&rf); err != nil && !errors.Is(err, io.EOF) {
		return RunFile{}, err
	}
	return rf, nil
}

// Validate checks the run file before any browser is launched.
func (rf RunFile) Validate() error {
	if rf.Workflow == "" {
		return fmt.Errorf("no workflow selected")
	}
	if !rf.Mode.IsValid() {
		return fmt.Errorf("%w: %q", types.ErrUnknownRunMode, rf.Mode)
	}
	if err := rf.Browser.Validate(); err != nil {
		return fmt.Errorf("invalid browser options: %w", err)
	}
	if rf.UsePlugin && rf.Browser.Browser != "" && rf.Browser.Browser != browser.EngineChromium {
		return fmt.Errorf("plugin contexts require chromium, got %q", rf.Browser.Browser)
	}
	if err := rf.Loop.Validate(); err != nil {
		return fmt.Errorf("invalid loop options: %w", err)
	}
	if rf.LogLevel != "" {
		if _, err := logging.ParseLevel(rf.LogLevel); err != nil {
			return err
		}
	}
	return nil
}
