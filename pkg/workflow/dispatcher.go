package workflow

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"golang.org/x/time/rate"

	"github.com/entrhq/pagerun/pkg/metrics"
	"github.com/entrhq/pagerun/pkg/types"
)

// Logger is the logging capability the dispatcher needs.
type Logger interface {
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
}

// LoopOptions controls loop mode.
type LoopOptions struct {
	// Interval is the minimum time between iteration starts. Zero runs
	// iterations back to back.
	Interval time.Duration `yaml:"interval" json:"interval"`

	// MaxIterations stops the loop after this many iterations. Zero loops
	// until the context is canceled.
	MaxIterations int `yaml:"max_iterations" json:"max_iterations"`

	// ContinueOnError keeps looping after a failed iteration.
	ContinueOnError bool `yaml:"continue_on_error" json:"continue_on_error"`
}

// Validate checks loop bounds.
func (o LoopOptions) Validate() error {
	if o.Interval < 0 {
		return fmt.Errorf("interval cannot be negative")
	}
	if o.MaxIterations < 0 {
		return fmt.Errorf("max_iterations cannot be negative")
	}
	return nil
}

// Dispatcher executes a workflow instance according to a run mode.
type Dispatcher struct {
	Loop   LoopOptions
	Logger Logger
}

// Dispatch runs wf once or in a loop. In once mode the workflow's error is
// returned as is. In loop mode cancellation of ctx ends the loop without
// error; a failed iteration ends it with that error unless
// Loop.ContinueOnError is set.
func (d *Dispatcher) Dispatch(ctx context.Context, wf Workflow, mode types.RunMode) error {
	if wf == nil {
		return fmt.Errorf("no workflow to dispatch")
	}

	switch mode {
	case types.RunModeOnce:
		err := wf.Run(ctx)
		metrics.RecordIteration(wf.Name(), err)
		return err
	case types.RunModeLoop:
		if err := d.Loop.Validate(); err != nil {
			return fmt.Errorf("invalid loop options: %w", err)
		}
		return d.loop(ctx, wf)
	default:
		return fmt.Errorf("%w: %q", types.ErrUnknownRunMode, mode)
	}
}

func (d *Dispatcher) loop(ctx context.Context, wf Workflow) error {
	limit := rate.Inf
	if d.Loop.Interval > 0 {
		limit = rate.Every(d.Loop.Interval)
	}
	limiter := rate.NewLimiter(limit, 1)

	maxIterations := d.Loop.MaxIterations
	if maxIterations == 0 {
		maxIterations = math.MaxInt
	}

	var failures int
	for iteration := 1; iteration <= maxIterations; iteration++ {
		if err := limiter.Wait(ctx); err != nil {
			// Wait fails once ctx is done or the deadline falls before the next slot.
			d.infof("Loop stopped after %d iterations (%d failed)", iteration-1, failures)
			return nil
		}

		err := wf.Run(ctx)
		metrics.RecordIteration(wf.Name(), err)
		if err == nil {
			continue
		}

		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			d.infof("Loop stopped during iteration %d", iteration)
			return nil
		}
		if !d.Loop.ContinueOnError {
			return fmt.Errorf("iteration %d failed: %w", iteration, err)
		}

		failures++
		d.warnf("Iteration %d of %s failed: %v", iteration, wf.Name(), err)
	}

	d.infof("Loop finished after %d iterations (%d failed)", maxIterations, failures)
	return nil
}

func (d *Dispatcher) infof(format string, v ...interface{}) {
	if d.Logger != nil {
		d.Logger.Infof(format, v...)
	}
}

func (d *Dispatcher) warnf(format string, v ...interface{}) {
	if d.Logger != nil {
		d.Logger.Warnf(format, v...)
	}
}
