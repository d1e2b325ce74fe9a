package cache

import (
	"testing"
	"time"

	"agentsuite/internal/llm/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRequest(prompt string) *shared.CompletionRequest {
	return &shared.CompletionRequest{
		Messages: []shared.Message{{Role: shared.RoleUser, Content: prompt}},
		System:   "be helpful",
		Options: shared.CompletionOptions{
			Model:       "test-model",
			MaxTokens:   100,
			Temperature: 0.7,
		},
	}
}

func TestKeyStability(t *testing.T) {
	req := testRequest("hello")

	assert.Equal(t, Key("groq", req), Key("groq", testRequest("hello")))
	assert.NotEqual(t, Key("groq", req), Key("openai", req))
	assert.NotEqual(t, Key("groq", req), Key("groq", testRequest("goodbye")))

	warmer := testRequest("hello")
	warmer.Options.Temperature = 0.9
	assert.NotEqual(t, Key("groq", req), Key("groq", warmer))
}

func TestStoreRoundTrip(t *testing.T) {
	store, err := New(t.TempDir(), time.Hour)
	require.NoError(t, err)

	req := testRequest("hello")
	key := Key("groq", req)

	assert.Nil(t, store.Get(key))

	store.Set(key, &shared.CompletionResponse{
		Content: "hi there",
		Model:   "test-model",
		Usage:   shared.TokenUsage{PromptTokens: 5, CompletionTokens: 3, TotalTokens: 8},
	})

	got := store.Get(key)
	require.NotNil(t, got)
	assert.Equal(t, "hi there", got.Content)
	assert.Equal(t, "test-model", got.Model)
	assert.Equal(t, 8, got.Usage.TotalTokens)
	assert.True(t, got.Cached)
}

func TestStoreTTLExpiry(t *testing.T) {
	store, err := New(t.TempDir(), time.Nanosecond)
	require.NoError(t, err)

	key := Key("groq", testRequest("hello"))
	store.Set(key, &shared.CompletionResponse{Content: "stale"})

	time.Sleep(10 * time.Millisecond)
	assert.Nil(t, store.Get(key))
	// Expired entries are removed, so a second read also misses.
	assert.Nil(t, store.Get(key))
}

func TestNilStoreIsNoop(t *testing.T) {
	var store *Store

	key := Key("groq", testRequest("hello"))
	assert.Nil(t, store.Get(key))
	store.Set(key, &shared.CompletionResponse{Content: "ignored"})
	assert.Nil(t, store.Get(key))
}
