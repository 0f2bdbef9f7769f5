// Package builtin provides the workflows shipped with pagerun: visit walks
// a fixed list of URLs, crawl follows links from a start page within
// glob-defined bounds, and steps replays a scripted list of page actions.
package builtin

import (
	"context"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/pagerun/pkg/workflow"
)

// Workflow names
const (
	NameVisit = "visit"
	NameCrawl = "crawl"
	NameSteps = "steps"
)

// Settings configures every builtin workflow.
type Settings struct {
	Visit VisitSettings `yaml:"visit" json:"visit"`
	Crawl CrawlSettings `yaml:"crawl" json:"crawl"`
	Steps StepsSettings `yaml:"steps" json:"steps"`
}

// Register adds the builtin workflows to reg. Settings are validated when a
// workflow is constructed, not here, so unused workflows may stay
// unconfigured.
func Register(reg *workflow.Registry, settings Settings) error {
	if err := reg.Register(NameVisit, NewVisitFactory(settings.Visit)); err != nil {
		return err
	}
	if err := reg.Register(NameCrawl, NewCrawlFactory(settings.Crawl)); err != nil {
		return err
	}
	if err := reg.Register(NameSteps, NewStepsFactory(settings.Steps)); err != nil {
		return err
	}
	return nil
}

var validWaitUntil = map[string]bool{
	"":                 true,
	"load":             true,
	"domcontentloaded": true,
	"networkidle":      true,
	"commit":           true,
}

func validateWaitUntil(waitUntil string) error {
	if !validWaitUntil[waitUntil] {
		return fmt.Errorf("invalid wait_until %q (must be load, domcontentloaded, networkidle or commit)", waitUntil)
	}
	return nil
}

// navigate loads url and waits for the configured load state. A nil
// timeout keeps the context's default.
func navigate(page playwright.Page, url, waitUntil string, timeout *float64) error {
	opts := playwright.PageGotoOptions{Timeout: timeout}
	if waitUntil != "" {
		state := playwright.WaitUntilState(waitUntil)
		opts.WaitUntil = &state
	}
	if _, err := page.Goto(url, opts); err != nil {
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return nil
}

// dwell pauses on the current page, returning early if ctx is canceled.
func dwell(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
