// Package runner wires a browser context, a page and a workflow together
// and hands the workflow to the run-mode dispatcher.
package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/pagerun/pkg/browser"
	"github.com/entrhq/pagerun/pkg/metrics"
	"github.com/entrhq/pagerun/pkg/types"
	"github.com/entrhq/pagerun/pkg/workflow"
)

// ErrNoEngine is returned when Run is called without a running engine.
var ErrNoEngine = errors.New("playwright engine is not running")

// Logger is the logging sink Run reports progress to.
type Logger interface {
	Infof(format string, v ...interface{})
}

// DispatchFunc executes a page-bound workflow for a run mode.
type DispatchFunc func(ctx context.Context, wf workflow.Workflow, mode types.RunMode) error

// Runner holds the collaborators Run delegates to. The zero value uses the
// real context factories and a Dispatcher with default loop options.
type Runner struct {
	PluginContext  browser.ContextFactory
	DefaultContext browser.ContextFactory
	Dispatch       DispatchFunc

	// Errorf receives close failures that are not returned because an
	// earlier step already failed. Optional.
	Errorf func(format string, v ...interface{})
}

// New returns a Runner using the real factories and the given dispatcher.
func New(dispatcher *workflow.Dispatcher) *Runner {
	return &Runner{
		PluginContext:  browser.PluginContext,
		DefaultContext: browser.DefaultContext,
		Dispatch:       dispatcher.Dispatch,
	}
}

// Run creates one browser context (instrumented when usePlugin is set),
// opens a page in it, binds a workflow from factory to that page and
// dispatches it for mode. The context is closed on every path once it
// exists, including failures, cancellation and panics.
//
// opts is passed unchanged to the selected context factory. The dispatcher
// drives the workflow instance built here; it never constructs its own.
func (r *Runner) Run(
	ctx context.Context,
	engine *playwright.Playwright,
	factory workflow.Factory,
	mode types.RunMode,
	usePlugin bool,
	logger Logger,
	opts browser.Options,
) (err error) {
	if engine == nil {
		return ErrNoEngine
	}
	if factory == nil {
		return fmt.Errorf("workflow factory is required")
	}

	newContext := r.DefaultContext
	if usePlugin {
		newContext = r.PluginContext
	}
	if newContext == nil {
		newContext = browser.DefaultContext
		if usePlugin {
			newContext = browser.PluginContext
		}
	}

	bc, err := newContext(engine, opts)
	if err != nil {
		return fmt.Errorf("failed to create browser context: %w", err)
	}
	defer func() {
		closeErr := bc.Close()
		if closeErr == nil {
			return
		}
		if err == nil {
			err = fmt.Errorf("failed to close browser context: %w", closeErr)
			return
		}
		if r.Errorf != nil {
			r.Errorf("failed to close browser context: %v", closeErr)
		}
	}()

	infof(logger, "Starting playwright")
	page, err := bc.NewPage()
	if err != nil {
		return fmt.Errorf("failed to create page: %w", err)
	}

	wf, err := factory(page)
	if err != nil {
		return fmt.Errorf("failed to create workflow: %w", err)
	}

	infof(logger, "Starting %s for %s", mode, wf.Name())
	metrics.RecordRun(string(mode))

	dispatch := r.Dispatch
	if dispatch == nil {
		dispatch = (&workflow.Dispatcher{}).Dispatch
	}
	if err := dispatch(ctx, wf, mode); err != nil {
		return fmt.Errorf("failed to run %s: %w", wf.Name(), err)
	}
	return nil
}

func infof(logger Logger, format string, v ...interface{}) {
	if logger != nil {
		logger.Infof(format, v...)
	}
}
