// Package agent provides the shared core that all agents in the suite
// are built on: the Agent interface, the Runner that talks to the LLM,
// and result/stat types.
package agent

import (
	"fmt"
	"time"
)

// Agent is the interface every agent in the suite implements. The
// concrete run entry points differ per agent (topics, paths, files,
// workflows), so execution lives on the agent types themselves.
type Agent interface {
	Name() string
	Description() string
	SystemPrompt() string
}

// Stats tracks execution statistics for a single agent run
type Stats struct {
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Duration   time.Duration `json:"duration"`
	TokensIn   int           `json:"tokens_in"`
	TokensOut  int           `json:"tokens_out"`
	CallsMade  int           `json:"calls_made"`
	CacheHits  int           `json:"cache_hits"`
}

// Result represents the outcome of an agent run
type Result struct {
	Content    string         `json:"content"`
	Success    bool           `json:"success"`
	OutputPath string         `json:"output_path,omitempty"`
	Stats      Stats          `json:"stats"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// ValidationError describes invalid agent input
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}
