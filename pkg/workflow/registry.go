package workflow

import (
	"fmt"
	"sync"
)

// Registry maps workflow names to factories, preserving registration order.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	order     []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under name. Names must be unique.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("workflow name is required")
	}
	if factory == nil {
		return fmt.Errorf("workflow %q has no factory", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("workflow %q already registered", name)
	}
	r.factories[name] = factory
	r.order = append(r.order, name)
	return nil
}

// Get returns the factory registered under name.
func (r *Registry) Get(name string) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWorkflow, name)
	}
	return factory, nil
}

// Names returns registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}
