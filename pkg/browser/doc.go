// Package browser owns the Playwright side of a run: starting the engine and
// building the browser contexts workflows execute in.
//
// # Engine
//
// Engine installs the Playwright driver and browsers on first use and starts
// the driver process. The resulting *playwright.Playwright handle is passed
// explicitly to the context factories; nothing in this package keeps it in
// global state.
//
// # Context Factories
//
// Two factories share the ContextFactory signature and accept the same
// Options bag:
//
//   - DefaultContext launches a browser and opens a fresh, non-persistent
//     context in it.
//   - PluginContext launches a persistent Chromium context with the telemetry
//     extension loaded and, when Options.RecordEvents is set, installs an
//     EventRecorder that captures clicks, input, form submissions, scrolling
//     and page loads.
//
// Contexts returned by either factory own everything launched for them.
// Closing the context closes the browser, flushes event sinks and removes
// any temporary profile directory.
//
// # Example Usage
//
//	engine := browser.NewEngine(browser.EngineOptions{})
//	pw, err := engine.Start()
//	if err != nil {
//	    return err
//	}
//	defer engine.Stop()
//
//	ctx, err := browser.PluginContext(pw, browser.Options{
//	    Headless:      true,
//	    ExtensionPath: "./userale-extension",
//	    RecordEvents:  true,
//	    EventLog:      "events.jsonl",
//	})
//	if err != nil {
//	    return err
//	}
//	defer ctx.Close()
package browser
