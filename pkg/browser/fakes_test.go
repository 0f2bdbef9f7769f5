package browser

import (
	"github.com/playwright-community/playwright-go"
)

// The fakes embed the playwright interfaces and override only what the
// factories call. Anything else panics on the nil embedded value.

type fakeContext struct {
	playwright.BrowserContext

	closed    int
	closeErr  error
	timeout   float64
	exposed   map[string]playwright.ExposedFunction
	scripts   []string
	exposeErr error
}

func newFakeContext() *fakeContext {
	return &fakeContext{exposed: make(map[string]playwright.ExposedFunction)}
}

func (c *fakeContext) Close(options ...playwright.BrowserContextCloseOptions) error {
	c.closed++
	return c.closeErr
}

func (c *fakeContext) SetDefaultTimeout(timeout float64) {
	c.timeout = timeout
}

func (c *fakeContext) ExposeFunction(name string, binding playwright.ExposedFunction) error {
	if c.exposeErr != nil {
		return c.exposeErr
	}
	c.exposed[name] = binding
	return nil
}

func (c *fakeContext) AddInitScript(script playwright.Script) error {
	if script.Content != nil {
		c.scripts = append(c.scripts, *script.Content)
	}
	return nil
}

type fakeBrowser struct {
	playwright.Browser

	context       *fakeContext
	newContextErr error
	contextOpts   []playwright.BrowserNewContextOptions
	closed        int
}

func (b *fakeBrowser) NewContext(options ...playwright.BrowserNewContextOptions) (playwright.BrowserContext, error) {
	b.contextOpts = append(b.contextOpts, options...)
	if b.newContextErr != nil {
		return nil, b.newContextErr
	}
	return b.context, nil
}

func (b *fakeBrowser) Close(options ...playwright.BrowserCloseOptions) error {
	b.closed++
	return nil
}

type fakeBrowserType struct {
	playwright.BrowserType

	browser       *fakeBrowser
	launchErr     error
	launches      []playwright.BrowserTypeLaunchOptions
	persistent    *fakeContext
	persistentErr error
	profileDirs   []string
	profileOpts   []playwright.BrowserTypeLaunchPersistentContextOptions
}

func (bt *fakeBrowserType) Launch(options ...playwright.BrowserTypeLaunchOptions) (playwright.Browser, error) {
	bt.launches = append(bt.launches, options...)
	if bt.launchErr != nil {
		return nil, bt.launchErr
	}
	return bt.browser, nil
}

func (bt *fakeBrowserType) LaunchPersistentContext(userDataDir string, options ...playwright.BrowserTypeLaunchPersistentContextOptions) (playwright.BrowserContext, error) {
	bt.profileDirs = append(bt.profileDirs, userDataDir)
	bt.profileOpts = append(bt.profileOpts, options...)
	if bt.persistentErr != nil {
		return nil, bt.persistentErr
	}
	return bt.persistent, nil
}

// newFakeEngine returns a Playwright handle whose Chromium launches fakes.
func newFakeEngine() (*playwright.Playwright, *fakeBrowserType) {
	bt := &fakeBrowserType{
		browser:    &fakeBrowser{context: newFakeContext()},
		persistent: newFakeContext(),
	}
	return &playwright.Playwright{Chromium: bt}, bt
}
