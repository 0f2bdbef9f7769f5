package builtin

import (
	"context"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/pagerun/pkg/workflow"
)

// Step actions
const (
	ActionGoto     = "goto"
	ActionClick    = "click"
	ActionFill     = "fill"
	ActionPress    = "press"
	ActionWait     = "wait"
	ActionEvaluate = "evaluate"
	ActionDwell    = "dwell"
)

// Step is one scripted page action. Which fields apply depends on Action:
//
//	goto      url, wait_until
//	click     selector, button, click_count
//	fill      selector, value
//	press     selector, key
//	wait      selector, state
//	evaluate  script
//	dwell     duration
type Step struct {
	Action     string        `yaml:"action" json:"action"`
	URL        string        `yaml:"url" json:"url"`
	WaitUntil  string        `yaml:"wait_until" json:"wait_until"`
	Selector   string        `yaml:"selector" json:"selector"`
	Value      string        `yaml:"value" json:"value"`
	Key        string        `yaml:"key" json:"key"`
	Button     string        `yaml:"button" json:"button"`
	ClickCount int           `yaml:"click_count" json:"click_count"`
	State      string        `yaml:"state" json:"state"`
	Script     string        `yaml:"script" json:"script"`
	Duration   time.Duration `yaml:"duration" json:"duration"`

	// Timeout overrides the context's default timeout for this step
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

var (
	validButtons = map[string]bool{"": true, "left": true, "right": true, "middle": true}
	validStates  = map[string]bool{"": true, "attached": true, "detached": true, "visible": true, "hidden": true}
)

// Validate checks that the step has what its action needs.
func (s Step) Validate() error {
	if s.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}

	switch s.Action {
	case ActionGoto:
		if s.URL == "" {
			return fmt.Errorf("goto requires a url")
		}
		return validateWaitUntil(s.WaitUntil)
	case ActionClick:
		if s.Selector == "" {
			return fmt.Errorf("click requires a selector")
		}
		if !validButtons[s.Button] {
			return fmt.Errorf("invalid button %q (must be left, right or middle)", s.Button)
		}
		if s.ClickCount < 0 || s.ClickCount > 3 {
			return fmt.Errorf("click_count must be between 1 and 3, or 0 for a single click")
		}
	case ActionFill:
		if s.Selector == "" {
			return fmt.Errorf("fill requires a selector")
		}
	case ActionPress:
		if s.Selector == "" || s.Key == "" {
			return fmt.Errorf("press requires a selector and a key")
		}
	case ActionWait:
		if s.Selector == "" {
			return fmt.Errorf("wait requires a selector")
		}
		if !validStates[s.State] {
			return fmt.Errorf("invalid state %q (must be attached, detached, visible or hidden)", s.State)
		}
	case ActionEvaluate:
		if s.Script == "" {
			return fmt.Errorf("evaluate requires a script")
		}
	case ActionDwell:
		if s.Duration < 0 {
			return fmt.Errorf("duration cannot be negative")
		}
	default:
		return fmt.Errorf("unknown action %q", s.Action)
	}
	return nil
}

// StepsSettings configures the steps workflow.
type StepsSettings struct {
	Steps []Step `yaml:"steps" json:"steps"`
}

// Validate checks every step.
func (s StepsSettings) Validate() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps workflow requires at least one step")
	}
	for i, step := range s.Steps {
		if err := step.Validate(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

// Steps replays a scripted sequence of page actions.
type Steps struct {
	page     playwright.Page
	settings StepsSettings
}

// NewStepsFactory returns a factory binding Steps to a page.
func NewStepsFactory(settings StepsSettings) workflow.Factory {
	return func(page playwright.Page) (workflow.Workflow, error) {
		if page == nil {
			return nil, fmt.Errorf("steps workflow requires a page")
		}
		if err := settings.Validate(); err != nil {
			return nil, err
		}
		return &Steps{page: page, settings: settings}, nil
	}
}

// Name returns "steps".
func (s *Steps) Name() string {
	return NameSteps
}

// Run executes every step in order and stops at the first failure.
func (s *Steps) Run(ctx context.Context) error {
	for i, step := range s.settings.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.do(ctx, step); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step.Action, err)
		}
	}
	return nil
}

func (s *Steps) do(ctx context.Context, step Step) error {
	var timeout *float64
	if step.Timeout > 0 {
		timeout = playwright.Float(float64(step.Timeout) / float64(time.Millisecond))
	}

	switch step.Action {
	case ActionGoto:
		return navigate(s.page, step.URL, step.WaitUntil, timeout)

	case ActionClick:
		opts := playwright.PageClickOptions{Timeout: timeout}
		if step.Button != "" {
			button := playwright.MouseButton(step.Button)
			opts.Button = &button
		}
		if step.ClickCount > 0 {
			opts.ClickCount = playwright.Int(step.ClickCount)
		}
		if err := s.page.Click(step.Selector, opts); err != nil {
			return fmt.Errorf("click failed: %w", err)
		}

	case ActionFill:
		if err := s.page.Fill(step.Selector, step.Value, playwright.PageFillOptions{Timeout: timeout}); err != nil {
			return fmt.Errorf("fill failed: %w", err)
		}

	case ActionPress:
		if err := s.page.Press(step.Selector, step.Key, playwright.PagePressOptions{Timeout: timeout}); err != nil {
			return fmt.Errorf("press failed: %w", err)
		}

	case ActionWait:
		opts := playwright.PageWaitForSelectorOptions{Timeout: timeout}
		if step.State != "" {
			state := playwright.WaitForSelectorState(step.State)
			opts.State = &state
		}
		if _, err := s.page.WaitForSelector(step.Selector, opts); err != nil {
			return fmt.Errorf("wait failed: %w", err)
		}

	case ActionEvaluate:
		if _, err := s.page.Evaluate(step.Script); err != nil {
			return fmt.Errorf("evaluate failed: %w", err)
		}

	case ActionDwell:
		return dwell(ctx, step.Duration)
	}
	return nil
}
