package commands

import (
	"fmt"
	"sort"
	"sync"
)

// Factory builds a fresh command. Commands keep parsed flags in their own
// fields, so every dispatch gets new instances.
type Factory func() Command

// Registry holds registered commands.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory // name and aliases map to the factory
	names     map[string]string  // name and aliases map to the primary name
}

// NewRegistry creates a new command registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		names:     make(map[string]string),
	}
}

// Register adds a command to the registry.
// Returns an error if the name or any alias is already registered.
func (r *Registry) Register(f Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := f()
	name := c.Name()
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("command already registered: %s", name)
	}

	for _, alias := range c.Aliases() {
		if _, exists := r.factories[alias]; exists {
			return fmt.Errorf("command alias already registered: %s", alias)
		}
	}

	r.factories[name] = f
	r.names[name] = name
	for _, alias := range c.Aliases() {
		r.factories[alias] = f
		r.names[alias] = name
	}

	return nil
}

// Find looks up a command by name or alias and returns a new instance.
func (r *Registry) Find(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	if !ok {
		return nil, false
	}
	return f(), true
}

// All returns new instances of all unique commands sorted by name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Collect unique primary names
	names := make([]string, 0, len(r.factories))
	for key, name := range r.names {
		if key == name {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	result := make([]Command, len(names))
	for i, name := range names {
		result[i] = r.factories[name]()
	}
	return result
}

// DefaultRegistry is the global command registry.
var DefaultRegistry = NewRegistry()

// Register adds a command to the default registry.
func Register(f Factory) {
	if err := DefaultRegistry.Register(f); err != nil {
		panic(err)
	}
}
