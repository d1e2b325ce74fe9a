package agent

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"agentsuite/internal/config"
	"agentsuite/internal/llm/cache"
	"agentsuite/internal/llm/shared"
	"agentsuite/internal/llm/transport"

	"github.com/rs/zerolog"
)

// Runner executes LLM calls on behalf of an agent, layering response
// caching, client-side rate limiting, and retry with exponential
// backoff over the raw provider.
type Runner struct {
	provider shared.Provider
	cache    *cache.Store
	limiter  *transport.Limiter
	cfg      *config.Config
	logger   zerolog.Logger

	mu    sync.Mutex
	stats Stats
}

// NewRunner creates a runner for the given provider and configuration.
// The cache store may be nil when caching is disabled.
func NewRunner(provider shared.Provider, store *cache.Store, cfg *config.Config, logger zerolog.Logger) *Runner {
	return &Runner{
		provider: provider,
		cache:    store,
		limiter:  transport.NewLimiter(cfg.RequestsPerMinute, 1),
		cfg:      cfg,
		logger:   logger,
	}
}

// AskOptions carries per-call overrides for Ask
type AskOptions struct {
	// System overrides the agent's system prompt for this call.
	System string
	// Context is prior conversation prepended before the prompt.
	Context []shared.Message
}

// Ask sends a prompt to the LLM and returns the response text. Cache
// hits bypass both the rate limiter and the retry loop.
func (r *Runner) Ask(ctx context.Context, prompt string, opts AskOptions) (string, error) {
	messages := make([]shared.Message, 0, len(opts.Context)+1)
	messages = append(messages, opts.Context...)
	messages = append(messages, shared.Message{Role: shared.RoleUser, Content: prompt})

	model := r.cfg.Model
	if model == "" {
		model = r.provider.DefaultModel()
	}

	req := &shared.CompletionRequest{
		Messages: messages,
		System:   opts.System,
		Options: shared.CompletionOptions{
			Model:       model,
			MaxTokens:   r.cfg.MaxTokens,
			Temperature: r.cfg.Temperature,
		},
	}

	key := cache.Key(r.provider.Name(), req)
	if cached := r.cache.Get(key); cached != nil {
		r.logger.Debug().Str("model", cached.Model).Msg("cache hit")
		r.record(cached)
		return cached.Content, nil
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	resp, err := r.complete(ctx, req)
	if err != nil {
		return "", err
	}

	r.cache.Set(key, resp)
	r.record(resp)

	r.logger.Debug().
		Str("model", resp.Model).
		Int("tokens_in", resp.Usage.PromptTokens).
		Int("tokens_out", resp.Usage.CompletionTokens).
		Msg("completion")

	return resp.Content, nil
}

// complete calls the provider, retrying retryable failures with
// exponential backoff.
func (r *Runner) complete(ctx context.Context, req *shared.CompletionRequest) (*shared.CompletionResponse, error) {
	var lastErr error
	for attempt := 0; attempt < r.cfg.RetryAttempts; attempt++ {
		if attempt > 0 {
			wait := r.cfg.RetryDelay * time.Duration(1<<(attempt-1))
			r.logger.Warn().
				Int("attempt", attempt).
				Dur("wait", wait).
				Err(lastErr).
				Msg("retrying completion")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		resp, err := r.provider.Complete(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		var pe *shared.ProviderError
		if errors.As(err, &pe) && !pe.Retryable() {
			return nil, err
		}
	}

	return nil, fmt.Errorf("completion failed after %d attempts: %w", r.cfg.RetryAttempts, lastErr)
}

func (r *Runner) record(resp *shared.CompletionResponse) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.CallsMade++
	r.stats.TokensIn += resp.Usage.PromptTokens
	r.stats.TokensOut += resp.Usage.CompletionTokens
	if resp.Cached {
		r.stats.CacheHits++
	}
}

// Stats returns a snapshot of the runner's accumulated statistics
func (r *Runner) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// SaveOutput writes content to the configured output directory,
// creating it as needed, and returns the file path.
func (r *Runner) SaveOutput(content, filename string) (string, error) {
	if err := os.MkdirAll(r.cfg.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	path := filepath.Join(r.cfg.OutputDir, filename)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to save output: %w", err)
	}

	r.logger.Info().Str("path", path).Msg("saved output")
	return path, nil
}

// Logger returns the runner's logger
func (r *Runner) Logger() zerolog.Logger {
	return r.logger
}

// Config returns the runner's configuration
func (r *Runner) Config() *config.Config {
	return r.cfg
}
