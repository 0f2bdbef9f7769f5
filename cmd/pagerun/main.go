// Package main provides the pagerun command: it starts Playwright, opens a
// default or plugin-aware browser context and drives a workflow once or in
// a loop until interrupted.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/entrhq/pagerun/pkg/browser"
	"github.com/entrhq/pagerun/pkg/config"
	"github.com/entrhq/pagerun/pkg/logging"
	"github.com/entrhq/pagerun/pkg/metrics"
	"github.com/entrhq/pagerun/pkg/runner"
	"github.com/entrhq/pagerun/pkg/workflow"
	"github.com/entrhq/pagerun/pkg/workflow/builtin"
)

const version = "0.1.0"

func main() {
	cli, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	if cli.ShowVersion {
		fmt.Printf("pagerun v%s\n", version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nShutting down gracefully...")
		cancel()
	}()

	if err := run(ctx, cli, os.Stdout); err != nil {
		cancel()
		log.Printf("pagerun failed: %v", err)
		os.Exit(1)
	}
	cancel()
}

// newRegistry returns every workflow pagerun ships with.
func newRegistry(settings builtin.Settings) (*workflow.Registry, error) {
	reg := workflow.NewRegistry()
	if err := builtin.Register(reg, settings); err != nil {
		return nil, fmt.Errorf("failed to register workflows: %w", err)
	}
	return reg, nil
}

func run(ctx context.Context, cli *CLIConfig, stdout io.Writer) error {
	if cli.List {
		reg, err := newRegistry(builtin.Settings{})
		if err != nil {
			return err
		}
		fmt.Fprint(stdout, renderList(reg.Names()))
		return nil
	}

	if err := config.Initialize(cli.DefaultsFile); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	rf, err := resolve(cli, config.GetBrowser())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := rf.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, logErr := logging.NewLogger("pagerun")
	defer logger.Close()
	if logErr == nil {
		logger.SetMirror(os.Stderr)
	}
	level, err := logging.ParseLevel(rf.LogLevel)
	if err != nil {
		return err
	}
	logger.SetLevel(level)
	logger.Debugf("session %s, log file %s", logger.SessionID(), logger.LogPath())

	reg, err := newRegistry(rf.Workflows)
	if err != nil {
		return err
	}
	factory, err := reg.Get(rf.Workflow)
	if err != nil {
		return err
	}

	if rf.Browser.RecordEvents && rf.Browser.EventSink == nil {
		rf.Browser.EventSink = browser.LogSink{Logger: logger.With("events")}
	}

	if rf.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, rf.MetricsAddr); err != nil {
				logger.Errorf("metrics server stopped: %v", err)
			}
		}()
		logger.Infof("Serving metrics on %s", rf.MetricsAddr)
	}

	engine := browser.NewEngine(browser.EngineOptions{
		Browsers:    []string{rf.Browser.Browser},
		SkipInstall: cli.SkipInstall,
	})
	pw, err := engine.Start()
	if err != nil {
		return err
	}
	defer func() {
		if err := engine.Stop(); err != nil {
			logger.Errorf("%v", err)
		}
	}()

	dispatcher := &workflow.Dispatcher{Loop: rf.Loop, Logger: logger.With("dispatcher")}
	r := runner.New(dispatcher)
	r.Errorf = logger.Errorf

	return r.Run(ctx, pw, factory, rf.Mode, rf.UsePlugin, logger, rf.Browser)
}
