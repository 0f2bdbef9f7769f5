package builtin

import (
	"context"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/pagerun/pkg/workflow"
)

// VisitSettings configures the visit workflow.
type VisitSettings struct {
	// URLs are loaded in order on every run
	URLs []string `yaml:"urls" json:"urls"`

	// WaitUntil is the load state to wait for: load, domcontentloaded,
	// networkidle or commit
	WaitUntil string `yaml:"wait_until" json:"wait_until"`

	// Dwell is how long to stay on each page
	Dwell time.Duration `yaml:"dwell" json:"dwell"`
}

// Validate checks the visit settings.
func (s VisitSettings) Validate() error {
	if len(s.URLs) == 0 {
		return fmt.Errorf("visit workflow requires at least one url")
	}
	if s.Dwell < 0 {
		return fmt.Errorf("dwell cannot be negative")
	}
	return validateWaitUntil(s.WaitUntil)
}

// Visit loads a fixed list of pages in order.
type Visit struct {
	page     playwright.Page
	settings VisitSettings
}

// NewVisitFactory returns a factory binding Visit to a page.
func NewVisitFactory(settings VisitSettings) workflow.Factory {
	return func(page playwright.Page) (workflow.Workflow, error) {
		if page == nil {
			return nil, fmt.Errorf("visit workflow requires a page")
		}
		if err := settings.Validate(); err != nil {
			return nil, err
		}
		return &Visit{page: page, settings: settings}, nil
	}
}

// Name returns "visit".
func (v *Visit) Name() string {
	return NameVisit
}

// Run visits every configured URL once.
func (v *Visit) Run(ctx context.Context) error {
	for _, url := range v.settings.URLs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := navigate(v.page, url, v.settings.WaitUntil, nil); err != nil {
			return err
		}
		if err := dwell(ctx, v.settings.Dwell); err != nil {
			return err
		}
	}
	return nil
}
