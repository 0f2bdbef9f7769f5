package builtin

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/gobwas/glob"
	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/pagerun/pkg/workflow"
)

// DefaultMaxPages bounds a crawl when MaxPages is not set.
const DefaultMaxPages = 20

// CrawlSettings configures the crawl workflow.
type CrawlSettings struct {
	// StartURL is the first page loaded on every run
	StartURL string `yaml:"start_url" json:"start_url"`

	// Include limits followed links to URLs matching one of these globs.
	// "*" matches within a path segment, "**" across segments.
	Include []string `yaml:"include" json:"include"`

	// Exclude drops links matching any of these globs
	Exclude []string `yaml:"exclude" json:"exclude"`

	// MaxPages is the most pages loaded per run, start page included
	MaxPages int `yaml:"max_pages" json:"max_pages"`

	// AllowExternal follows links to hosts other than the start page's
	AllowExternal bool `yaml:"allow_external" json:"allow_external"`

	WaitUntil string        `yaml:"wait_until" json:"wait_until"`
	Dwell     time.Duration `yaml:"dwell" json:"dwell"`
}

// Validate checks the crawl settings.
func (s CrawlSettings) Validate() error {
	if s.StartURL == "" {
		return fmt.Errorf("crawl workflow requires a start_url")
	}
	start, err := url.Parse(s.StartURL)
	if err != nil || (start.Scheme != "http" && start.Scheme != "https") || start.Host == "" {
		return fmt.Errorf("invalid start_url %q", s.StartURL)
	}
	if s.MaxPages < 0 {
		return fmt.Errorf("max_pages cannot be negative")
	}
	if s.Dwell < 0 {
		return fmt.Errorf("dwell cannot be negative")
	}
	return validateWaitUntil(s.WaitUntil)
}

// Crawl follows links breadth-first from a start page.
type Crawl struct {
	page     playwright.Page
	settings CrawlSettings
	start    *url.URL
	include  []glob.Glob
	exclude  []glob.Glob
	visited  []string
}

// NewCrawlFactory returns a factory binding Crawl to a page.
func NewCrawlFactory(settings CrawlSettings) workflow.Factory {
	return func(page playwright.Page) (workflow.Workflow, error) {
		if page == nil {
			return nil, fmt.Errorf("crawl workflow requires a page")
		}
		return newCrawl(page, settings)
	}
}

func newCrawl(page playwright.Page, settings CrawlSettings) (*Crawl, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if settings.MaxPages == 0 {
		settings.MaxPages = DefaultMaxPages
	}

	include, err := compileGlobs(settings.Include)
	if err != nil {
		return nil, err
	}
	exclude, err := compileGlobs(settings.Exclude)
	if err != nil {
		return nil, err
	}

	start, _ := url.Parse(settings.StartURL)
	normalizeURL(start)
	return &Crawl{
		page:     page,
		settings: settings,
		start:    start,
		include:  include,
		exclude:  exclude,
	}, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// Name returns "crawl".
func (c *Crawl) Name() string {
	return NameCrawl
}

// Visited returns the pages loaded by the most recent run, in order.
func (c *Crawl) Visited() []string {
	visited := make([]string, len(c.visited))
	copy(visited, c.visited)
	return visited
}

// Run crawls from the start page until MaxPages pages were loaded or no
// unvisited links remain.
func (c *Crawl) Run(ctx context.Context) error {
	c.visited = c.visited[:0]
	queued := map[string]bool{c.start.String(): true}
	queue := []string{c.start.String()}

	for len(queue) > 0 && len(c.visited) < c.settings.MaxPages {
		if err := ctx.Err(); err != nil {
			return err
		}

		next := queue[0]
		queue = queue[1:]

		if err := navigate(c.page, next, c.settings.WaitUntil, nil); err != nil {
			return err
		}
		c.visited = append(c.visited, next)

		links, err := c.links()
		if err != nil {
			return err
		}
		for _, link := range links {
			if queued[link] || !c.follows(link) {
				continue
			}
			queued[link] = true
			queue = append(queue, link)
		}

		if err := dwell(ctx, c.settings.Dwell); err != nil {
			return err
		}
	}
	return nil
}

// links returns the links on the current page, resolved against the URL the
// page actually ended up on after redirects.
func (c *Crawl) links() ([]string, error) {
	content, err := c.page.Content()
	if err != nil {
		return nil, fmt.Errorf("failed to read page content: %w", err)
	}

	base := c.start
	if current, err := url.Parse(c.page.URL()); err == nil && current.Host != "" {
		base = current
	}
	return extractLinks(content, base)
}

// follows applies the host rule and the include/exclude globs.
func (c *Crawl) follows(link string) bool {
	target, err := url.Parse(link)
	if err != nil {
		return false
	}
	if !c.settings.AllowExternal && target.Host != c.start.Host {
		return false
	}
	for _, g := range c.exclude {
		if g.Match(link) {
			return false
		}
	}
	if len(c.include) == 0 {
		return true
	}
	for _, g := range c.include {
		if g.Match(link) {
			return true
		}
	}
	return false
}
