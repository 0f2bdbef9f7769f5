// Package workflow defines what a runnable browser workflow is and how it is
// executed for a given run mode.
package workflow

import (
	"context"
	"errors"

	"github.com/playwright-community/playwright-go"
)

// ErrUnknownWorkflow is returned when a registry has no workflow by a name.
var ErrUnknownWorkflow = errors.New("unknown workflow")

// Workflow is one automation task bound to a page.
type Workflow interface {
	// Name identifies the workflow in logs and metrics.
	Name() string

	// Run performs the task once. It may be called repeatedly on the same
	// instance in loop mode.
	Run(ctx context.Context) error
}

// Factory binds a workflow to a page.
type Factory func(page playwright.Page) (Workflow, error)

// Func adapts a function to the Workflow interface.
type Func struct {
	ID string
	Fn func(ctx context.Context) error
}

// Name returns f.ID.
func (f Func) Name() string {
	return f.ID
}

// Run calls f.Fn.
func (f Func) Run(ctx context.Context) error {
	return f.Fn(ctx)
}
