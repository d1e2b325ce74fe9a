package agent

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"
)

// Registry manages the agents available to the CLI
type Registry struct {
	agents map[string]Agent
}

// NewRegistry creates an empty agent registry
func NewRegistry() *Registry {
	return &Registry{agents: make(map[string]Agent)}
}

// Register adds an agent to the registry
func (r *Registry) Register(a Agent) {
	r.agents[a.Name()] = a
}

// Get retrieves an agent by name
func (r *Registry) Get(name string) (Agent, error) {
	a, exists := r.agents[name]
	if !exists {
		return nil, fmt.Errorf("agent not found: %s", name)
	}
	return a, nil
}

// List returns all registered agents sorted by name
func (r *Registry) List() []Agent {
	agents := make([]Agent, 0, len(r.agents))
	for _, a := range r.agents {
		agents = append(agents, a)
	}
	sort.Slice(agents, func(i, j int) bool { return agents[i].Name() < agents[j].Name() })
	return agents
}

// Timestamp returns the timestamp format used in output filenames
func Timestamp(t time.Time) string {
	return t.Format("20060102_150405")
}

// SanitizeName reduces s to alphanumerics and underscores, truncated to
// max runes, for use in filenames.
func SanitizeName(s string, max int) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	out := b.String()
	// Truncate on rune boundaries so multibyte names stay valid UTF-8.
	if runes := []rune(out); len(runes) > max {
		out = string(runes[:max])
	}
	return out
}
