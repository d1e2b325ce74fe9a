package agent

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"agentsuite/internal/config"
	"agentsuite/internal/llm/cache"
	"agentsuite/internal/llm/llmtest"
	"agentsuite/internal/llm/shared"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.OutputDir = t.TempDir()
	cfg.CacheEnabled = false
	cfg.RetryDelay = time.Millisecond
	cfg.RequestsPerMinute = 6000
	return cfg
}

func TestAskReturnsResponse(t *testing.T) {
	fake := llmtest.NewFakeProvider("the answer")
	runner := NewRunner(fake, nil, testConfig(t), zerolog.Nop())

	got, err := runner.Ask(context.Background(), "question", AskOptions{System: "be brief"})
	require.NoError(t, err)
	assert.Equal(t, "the answer", got)

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "be brief", calls[0].System)
	assert.Equal(t, "question", calls[0].Messages[0].Content)
	assert.Equal(t, "fake-model", calls[0].Options.Model)

	stats := runner.Stats()
	assert.Equal(t, 1, stats.CallsMade)
	assert.Equal(t, 10, stats.TokensIn)
	assert.Equal(t, 20, stats.TokensOut)
}

func TestAskPrependsContext(t *testing.T) {
	fake := llmtest.NewFakeProvider("ok")
	runner := NewRunner(fake, nil, testConfig(t), zerolog.Nop())

	ctx := []shared.Message{
		{Role: shared.RoleUser, Content: "earlier question"},
		{Role: shared.RoleAssistant, Content: "earlier answer"},
	}
	_, err := runner.Ask(context.Background(), "followup", AskOptions{Context: ctx})
	require.NoError(t, err)

	calls := fake.Calls()
	require.Len(t, calls[0].Messages, 3)
	assert.Equal(t, "followup", calls[0].Messages[2].Content)
}

func TestAskRetriesRetryableErrors(t *testing.T) {
	attempts := 0
	fake := &llmtest.FakeProvider{
		CompleteFunc: func(ctx context.Context, req *shared.CompletionRequest) (*shared.CompletionResponse, error) {
			attempts++
			if attempts < 3 {
				return nil, &shared.ProviderError{Code: shared.ErrRateLimited, Message: "slow down"}
			}
			return &shared.CompletionResponse{Content: "finally"}, nil
		},
	}
	runner := NewRunner(fake, nil, testConfig(t), zerolog.Nop())

	got, err := runner.Ask(context.Background(), "question", AskOptions{})
	require.NoError(t, err)
	assert.Equal(t, "finally", got)
	assert.Equal(t, 3, attempts)
}

func TestAskFailsFastOnAuthErrors(t *testing.T) {
	fake := llmtest.NewFakeProvider()
	fake.Err = &shared.ProviderError{Code: shared.ErrAuth, Message: "bad key"}
	runner := NewRunner(fake, nil, testConfig(t), zerolog.Nop())

	_, err := runner.Ask(context.Background(), "question", AskOptions{})
	require.Error(t, err)
	assert.Equal(t, 1, fake.CallCount())
}

func TestAskExhaustsRetries(t *testing.T) {
	fake := llmtest.NewFakeProvider()
	fake.Err = &shared.ProviderError{Code: shared.ErrUnavailable, Message: "down"}
	cfg := testConfig(t)
	cfg.RetryAttempts = 2
	runner := NewRunner(fake, nil, cfg, zerolog.Nop())

	_, err := runner.Ask(context.Background(), "question", AskOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
	assert.Equal(t, 2, fake.CallCount())
}

func TestAskServesCacheHits(t *testing.T) {
	store, err := cache.New(t.TempDir(), time.Hour)
	require.NoError(t, err)

	fake := llmtest.NewFakeProvider("fresh")
	runner := NewRunner(fake, store, testConfig(t), zerolog.Nop())

	first, err := runner.Ask(context.Background(), "question", AskOptions{})
	require.NoError(t, err)
	second, err := runner.Ask(context.Background(), "question", AskOptions{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	// Second ask is served from the cache; the provider sees one call.
	assert.Equal(t, 1, fake.CallCount())

	stats := runner.Stats()
	assert.Equal(t, 2, stats.CallsMade)
	assert.Equal(t, 1, stats.CacheHits)
}

func TestSaveOutput(t *testing.T) {
	cfg := testConfig(t)
	cfg.OutputDir = filepath.Join(t.TempDir(), "nested", "output")
	runner := NewRunner(llmtest.NewFakeProvider(), nil, cfg, zerolog.Nop())

	path, err := runner.SaveOutput("# report", "report.md")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# report", string(data))
}
