// Package config holds pagerun's two configuration layers: persistent user
// defaults kept in ~/.pagerun/config.json, and the per-run YAML file.
package config

import (
	"sync"
)

var (
	globalManager *Manager
	globalMu      sync.Mutex
)

// Initialize loads the user defaults from configPath (DefaultPath when
// empty) into the global manager. Call once at startup.
func Initialize(configPath string) error {
	manager, err := Open(configPath)
	if err != nil {
		return err
	}

	globalMu.Lock()
	globalManager = manager
	globalMu.Unlock()
	return nil
}

// Open builds a manager with every pagerun section registered and loaded.
func Open(configPath string) (*Manager, error) {
	store, err := NewFileStore(configPath)
	if err != nil {
		return nil, err
	}

	manager := NewManager(store)
	if err := manager.RegisterSection(NewBrowserSection()); err != nil {
		return nil, err
	}
	if err := manager.LoadAll(); err != nil {
		return nil, err
	}
	return manager, nil
}

// Global returns the global manager. Panics if Initialize has not been
// called.
func Global() *Manager {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalManager == nil {
		panic("config not initialized: call config.Initialize first")
	}
	return globalManager
}

// IsInitialized reports whether Initialize has succeeded.
func IsInitialized() bool {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalManager != nil
}

// GetBrowser returns the browser defaults section, or nil before
// Initialize.
func GetBrowser() *BrowserSection {
	if !IsInitialized() {
		return nil
	}

	section, ok := Global().GetSection(SectionIDBrowser)
	if !ok {
		return nil
	}
	browserSection, ok := section.(*BrowserSection)
	if !ok {
		return nil
	}
	return browserSection
}
