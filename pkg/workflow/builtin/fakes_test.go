package builtin

import (
	"errors"

	"github.com/playwright-community/playwright-go"
)

// fakePage serves a fixed set of documents. Only the methods the builtin
// workflows call are implemented.
type fakePage struct {
	playwright.Page

	site         map[string]string
	redirects    map[string]string
	current      string
	gotos        []string
	waitStates   []string
	gotoTimeouts []*float64
	gotoErr      error

	// actions records scripted interactions as "action:selector"
	actions   []string
	actionErr map[string]error
	timeouts  []float64
}

func newFakePage(site map[string]string) *fakePage {
	return &fakePage{site: site, redirects: map[string]string{}}
}

func (p *fakePage) Goto(url string, options ...playwright.PageGotoOptions) (playwright.Response, error) {
	p.gotos = append(p.gotos, url)
	var timeout *float64
	for _, opt := range options {
		timeout = opt.Timeout
		if opt.WaitUntil != nil {
			p.waitStates = append(p.waitStates, string(*opt.WaitUntil))
		}
	}
	p.gotoTimeouts = append(p.gotoTimeouts, timeout)
	if p.gotoErr != nil {
		return nil, p.gotoErr
	}
	if target, ok := p.redirects[url]; ok {
		url = target
	}
	if _, ok := p.site[url]; !ok {
		return nil, errors.New("net::ERR_NAME_NOT_RESOLVED")
	}
	p.current = url
	return nil, nil
}

func (p *fakePage) Content() (string, error) {
	return p.site[p.current], nil
}

func (p *fakePage) URL() string {
	return p.current
}

func (p *fakePage) act(action, selector string, timeout *float64) error {
	p.actions = append(p.actions, action+":"+selector)
	if timeout != nil {
		p.timeouts = append(p.timeouts, *timeout)
	}
	return p.actionErr[action]
}

func (p *fakePage) Click(selector string, options ...playwright.PageClickOptions) error {
	var timeout *float64
	for _, opt := range options {
		timeout = opt.Timeout
		if opt.Button != nil {
			selector += "/" + string(*opt.Button)
		}
	}
	return p.act("click", selector, timeout)
}

func (p *fakePage) Fill(selector, value string, options ...playwright.PageFillOptions) error {
	var timeout *float64
	for _, opt := range options {
		timeout = opt.Timeout
	}
	return p.act("fill", selector+"="+value, timeout)
}

func (p *fakePage) Press(selector, key string, options ...playwright.PagePressOptions) error {
	var timeout *float64
	for _, opt := range options {
		timeout = opt.Timeout
	}
	return p.act("press", selector+"="+key, timeout)
}

func (p *fakePage) WaitForSelector(selector string, options ...playwright.PageWaitForSelectorOptions) (playwright.ElementHandle, error) {
	var timeout *float64
	for _, opt := range options {
		timeout = opt.Timeout
		if opt.State != nil {
			selector += "/" + string(*opt.State)
		}
	}
	return nil, p.act("wait", selector, timeout)
}

func (p *fakePage) Evaluate(expression string, arg ...interface{}) (interface{}, error) {
	return nil, p.act("evaluate", expression, nil)
}
