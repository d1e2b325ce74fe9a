// Package cache provides a file-backed cache for LLM completions keyed
// by the full request so identical prompts never hit the provider twice
// within the TTL.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"agentsuite/internal/llm/shared"
)

// Store caches completion responses on disk, one JSON file per key.
// A nil *Store is a valid no-op cache.
type Store struct {
	dir string
	ttl time.Duration
}

type entry struct {
	Content   string            `json:"content"`
	Model     string            `json:"model"`
	Usage     shared.TokenUsage `json:"usage"`
	Timestamp int64             `json:"timestamp"`
}

// New creates a cache store rooted at dir. The directory is created if
// it does not exist.
func New(dir string, ttl time.Duration) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}
	return &Store{dir: dir, ttl: ttl}, nil
}

// Key derives a stable cache key from the provider name and request.
func Key(provider string, req *shared.CompletionRequest) string {
	payload := struct {
		Provider    string           `json:"provider"`
		Model       string           `json:"model"`
		System      string           `json:"system"`
		Messages    []shared.Message `json:"messages"`
		MaxTokens   int              `json:"max_tokens"`
		Temperature float32          `json:"temperature"`
	}{
		Provider:    provider,
		Model:       req.Options.Model,
		System:      req.System,
		Messages:    req.Messages,
		MaxTokens:   req.Options.MaxTokens,
		Temperature: req.Options.Temperature,
	}

	data, _ := json.Marshal(payload)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Get returns the cached response for key, or nil on a miss. Entries
// older than the TTL are removed and reported as misses.
func (s *Store) Get(key string) *shared.CompletionResponse {
	if s == nil {
		return nil
	}

	path := filepath.Join(s.dir, key+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		_ = os.Remove(path)
		return nil
	}

	if time.Since(time.Unix(e.Timestamp, 0)) > s.ttl {
		_ = os.Remove(path)
		return nil
	}

	return &shared.CompletionResponse{
		Content: e.Content,
		Model:   e.Model,
		Usage:   e.Usage,
		Cached:  true,
	}
}

// Set stores a response under key. Write failures are swallowed: a
// broken cache must never fail the completion that produced it.
func (s *Store) Set(key string, resp *shared.CompletionResponse) {
	if s == nil || resp == nil {
		return
	}

	data, err := json.Marshal(entry{
		Content:   resp.Content,
		Model:     resp.Model,
		Usage:     resp.Usage,
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		return
	}

	_ = os.WriteFile(filepath.Join(s.dir, key+".json"), data, 0o644)
}
