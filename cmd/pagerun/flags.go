package main

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/entrhq/pagerun/pkg/config"
	"github.com/entrhq/pagerun/pkg/types"
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ConfigFile      string
	DefaultsFile    string
	Workflow        string
	Mode            string
	Plugin          bool
	Browser         string
	Headless        bool
	Extension       string
	RecordEvents    bool
	EventLog        string
	Interval        time.Duration
	MaxIterations   int
	ContinueOnError bool
	MetricsAddr     string
	LogLevel        string
	SkipInstall     bool
	List            bool
	ShowVersion     bool

	// set records which flags were given explicitly
	set map[string]bool
}

// parseFlags parses args (without the program name).
func parseFlags(args []string, output io.Writer) (*CLIConfig, error) {
	cfg := &CLIConfig{set: make(map[string]bool)}
	fs := flag.NewFlagSet("pagerun", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&cfg.ConfigFile, "config", "", "Path to run file (YAML)")
	fs.StringVar(&cfg.DefaultsFile, "defaults", "", "Path to stored user defaults (default ~/.pagerun/config.json)")
	fs.StringVar(&cfg.Workflow, "workflow", "", "Workflow to run (see -list)")
	fs.StringVar(&cfg.Mode, "mode", "", "Run mode: once or loop")
	fs.BoolVar(&cfg.Plugin, "plugin", false, "Use the plugin-aware (instrumented) browser context")
	fs.StringVar(&cfg.Browser, "browser", "", "Browser engine: chromium, firefox or webkit")
	fs.BoolVar(&cfg.Headless, "headless", true, "Run the browser without a window")
	fs.StringVar(&cfg.Extension, "extension", "", "Unpacked telemetry extension to load in plugin contexts")
	fs.BoolVar(&cfg.RecordEvents, "record-events", false, "Record user-interaction events in plugin contexts")
	fs.StringVar(&cfg.EventLog, "event-log", "", "Append recorded events to this JSON-lines file")
	fs.DurationVar(&cfg.Interval, "interval", 0, "Minimum time between loop iterations")
	fs.IntVar(&cfg.MaxIterations, "max-iterations", 0, "Stop looping after this many iterations (0 = until interrupted)")
	fs.BoolVar(&cfg.ContinueOnError, "continue-on-error", false, "Keep looping after a failed iteration")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level: debug, info, warn or error")
	fs.BoolVar(&cfg.SkipInstall, "skip-install", false, "Assume the Playwright driver and browsers are installed")
	fs.BoolVar(&cfg.List, "list", false, "List available workflows and exit")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Show version and exit")

	fs.Usage = func() {
		fmt.Fprintf(output, "pagerun - drive browser workflows once or in a loop\n\n")
		fmt.Fprintf(output, "Usage: pagerun [options]\n\n")
		fmt.Fprintf(output, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(output, "\nExamples:\n")
		fmt.Fprintf(output, "  # Crawl once with settings from a run file\n")
		fmt.Fprintf(output, "  pagerun -config crawl.yaml\n\n")
		fmt.Fprintf(output, "  # Loop with the telemetry extension, recording events\n")
		fmt.Fprintf(output, "  pagerun -config crawl.yaml -mode loop -plugin -extension ./userale -record-events\n\n")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { cfg.set[f.Name] = true })
	return cfg, nil
}

// resolve layers the run settings: built-in defaults, then stored user
// defaults, then the run file, then explicitly given flags.
func resolve(cli *CLIConfig, stored *config.BrowserSection) (config.RunFile, error) {
	rf := config.DefaultRunFile()
	if stored != nil {
		defaults := stored.Options()
		rf.Browser.Browser = defaults.Browser
		rf.Browser.Headless = defaults.Headless
		rf.Browser.Viewport = defaults.Viewport
		rf.Browser.Timeout = defaults.Timeout
		rf.Browser.ExtensionPath = defaults.ExtensionPath
	}

	if cli.ConfigFile != "" {
		loaded, err := config.ReadRunFile(cli.ConfigFile, rf)
		if err != nil {
			return config.RunFile{}, err
		}
		rf = loaded
	}

	if cli.set["workflow"] {
		rf.Workflow = cli.Workflow
	}
	if cli.set["mode"] {
		mode, err := types.ParseRunMode(cli.Mode)
		if err != nil {
			return config.RunFile{}, err
		}
		rf.Mode = mode
	}
	if cli.set["plugin"] {
		rf.UsePlugin = cli.Plugin
	}
	if cli.set["browser"] {
		rf.Browser.Browser = cli.Browser
	}
	if cli.set["headless"] {
		rf.Browser.Headless = cli.Headless
	}
	if cli.set["extension"] {
		rf.Browser.ExtensionPath = cli.Extension
	}
	if cli.set["record-events"] {
		rf.Browser.RecordEvents = cli.RecordEvents
	}
	if cli.set["event-log"] {
		rf.Browser.EventLog = cli.EventLog
	}
	if cli.set["interval"] {
		rf.Loop.Interval = cli.Interval
	}
	if cli.set["max-iterations"] {
		rf.Loop.MaxIterations = cli.MaxIterations
	}
	if cli.set["continue-on-error"] {
		rf.Loop.ContinueOnError = cli.ContinueOnError
	}
	if cli.set["metrics-addr"] {
		rf.MetricsAddr = cli.MetricsAddr
	}
	if cli.set["log-level"] {
		rf.LogLevel = cli.LogLevel
	}

	return rf, nil
}
