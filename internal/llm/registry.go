// Package llm wires the individual providers behind a common registry.
package llm

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"agentsuite/internal/llm/anthropic"
	"agentsuite/internal/llm/openai"
	"agentsuite/internal/llm/shared"
)

// Registry manages provider instances
type Registry struct {
	providers map[string]shared.Provider
	mu        sync.RWMutex
}

// NewRegistry creates an empty provider registry
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]shared.Provider),
	}
}

// Register registers a provider instance under its name
func (r *Registry) Register(provider shared.Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[provider.Name()] = provider
}

// Get returns a registered provider by name
func (r *Registry) Get(name string) (shared.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, exists := r.providers[name]
	if !exists {
		return nil, fmt.Errorf("provider not found: %s", name)
	}
	return provider, nil
}

// List returns the sorted names of all registered providers
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the registered provider for name, building and
// registering it on first use. Build failures are not cached, so a
// missing API key can be fixed and resolved again.
func (r *Registry) Resolve(name string) (shared.Provider, error) {
	if provider, err := r.Get(name); err == nil {
		return provider, nil
	}

	provider, err := BuildProvider(name)
	if err != nil {
		return nil, err
	}
	r.Register(provider)
	return provider, nil
}

// BuildProvider constructs a provider by name, pulling its API key from
// the conventional environment variable.
func BuildProvider(name string) (shared.Provider, error) {
	switch name {
	case "groq":
		return openai.NewGroqProvider(os.Getenv("GROQ_API_KEY"))
	case "openai":
		return openai.NewProvider(openai.Config{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: os.Getenv("OPENAI_BASE_URL"),
			OrgID:   os.Getenv("OPENAI_ORG_ID"),
		})
	case "anthropic":
		return anthropic.NewProvider(anthropic.Config{
			APIKey:  os.Getenv("ANTHROPIC_API_KEY"),
			BaseURL: os.Getenv("ANTHROPIC_BASE_URL"),
		})
	default:
		return nil, fmt.Errorf("unknown provider: %s (use: groq, anthropic, openai)", name)
	}
}
