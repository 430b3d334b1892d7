package notify

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds registered notifier factories.
// Sink packages (e.g. discordsink) register their factory in init().
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// GlobalRegistry is the registry sink packages register into.
var GlobalRegistry = NewRegistry()

func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a factory for a notifier type.
func (r *Registry) Register(factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[factory.Name()] = factory
}

// Create builds a Notifier for the given type and config.
func (r *Registry) Create(name string, cfg Config) (Notifier, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown notifier type: %s", name)
	}
	if err := r.ValidateConfig(name, cfg); err != nil {
		return nil, err
	}
	return factory.Create(cfg)
}

// ValidateConfig runs the factory's optional ValidateConfig. Returns nil if type unknown or no validator.
func (r *Registry) ValidateConfig(typeName string, cfg Config) error {
	r.mu.RLock()
	factory, ok := r.factories[typeName]
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	if v, ok := factory.(interface{ ValidateConfig(Config) error }); ok {
		return v.ValidateConfig(cfg)
	}
	return nil
}

// ListRegistered returns all registered type names, sorted.
func (r *Registry) ListRegistered() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetTypeInfo returns the config spec for the given type. ok is false if the type is not registered.
func (r *Registry) GetTypeInfo(name string) (info TypeInfo, ok bool) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return TypeInfo{}, false
	}
	return factory.ConfigSpec(), true
}

// AllTypesInfo returns config specs for all registered types, ordered by type.
func (r *Registry) AllTypesInfo() []TypeInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]TypeInfo, 0, len(r.factories))
	for _, factory := range r.factories {
		out = append(out, factory.ConfigSpec())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

// Build creates one Notifier per spec, stopping at the first failure.
func (r *Registry) Build(specs []Spec) ([]Notifier, error) {
	out := make([]Notifier, 0, len(specs))
	for i, spec := range specs {
		n, err := r.Create(spec.Type, spec.ConfigWithDescription())
		if err != nil {
			return nil, fmt.Errorf("notifier %d (%s): %w", i, spec.Type, err)
		}
		out = append(out, n)
	}
	return out, nil
}
