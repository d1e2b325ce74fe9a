package research

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"agentsuite/internal/agent"
	"agentsuite/internal/config"
	"agentsuite/internal/llm/llmtest"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRunner(t *testing.T, fake *llmtest.FakeProvider) *agent.Runner {
	t.Helper()
	cfg := config.Default()
	cfg.OutputDir = t.TempDir()
	cfg.CacheEnabled = false
	cfg.RetryDelay = time.Millisecond
	cfg.RequestsPerMinute = 6000
	return agent.NewRunner(fake, nil, cfg, zerolog.Nop())
}

func TestAgentMetadata(t *testing.T) {
	a := New(nil)
	assert.Equal(t, "research", a.Name())
	assert.NotEmpty(t, a.Description())
	assert.Contains(t, a.SystemPrompt(), "research analyst")
}

func TestOptionsValidate(t *testing.T) {
	assert.Error(t, (&Options{}).Validate())
	assert.Error(t, (&Options{Topic: "   "}).Validate())
	assert.Error(t, (&Options{Topic: "x", Depth: "extreme"}).Validate())
	assert.NoError(t, (&Options{Topic: "x"}).Validate())
	assert.NoError(t, (&Options{Topic: "x", Depth: "deep"}).Validate())
}

func TestRunQuickDepthMakesThreeCalls(t *testing.T) {
	fake := llmtest.NewFakeProvider("the outline", "pass findings", "final report")
	a := New(testRunner(t, fake))

	res, err := a.Run(context.Background(), Options{Topic: "AI trends 2026", Depth: "quick"})
	require.NoError(t, err)

	// outline + one research pass + synthesis
	assert.Equal(t, 3, fake.CallCount())
	assert.Equal(t, "final report", res.Content)
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.Metadata["passes"])

	data, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, "final report", string(data))
	assert.Contains(t, res.OutputPath, "research_AI_trends_2026_")
}

func TestRunDeepDepthMakesFiveCalls(t *testing.T) {
	fake := llmtest.NewFakeProvider("outline", "pass", "pass", "pass", "report")
	a := New(testRunner(t, fake))

	res, err := a.Run(context.Background(), Options{Topic: "quantum", Depth: "deep"})
	require.NoError(t, err)
	assert.Equal(t, 5, fake.CallCount())
	assert.Equal(t, 3, res.Metadata["passes"])
}

func TestRunDefaultsToStandardDepth(t *testing.T) {
	fake := llmtest.NewFakeProvider("outline", "pass", "pass", "report")
	a := New(testRunner(t, fake))

	_, err := a.Run(context.Background(), Options{Topic: "quantum"})
	require.NoError(t, err)
	assert.Equal(t, 4, fake.CallCount())
}

func TestRunIncludesFocusAreas(t *testing.T) {
	fake := llmtest.NewFakeProvider("outline", "pass", "report")
	a := New(testRunner(t, fake))

	_, err := a.Run(context.Background(), Options{
		Topic:      "AI agents",
		Depth:      "quick",
		FocusAreas: []string{"architecture", "deployment"},
	})
	require.NoError(t, err)

	calls := fake.Calls()
	outlinePrompt := calls[0].Messages[0].Content
	assert.Contains(t, outlinePrompt, "Focus areas: architecture, deployment")
}

func TestRunLaterPassesSeePriorFindings(t *testing.T) {
	fake := llmtest.NewFakeProvider("outline", "first findings", "second findings", "report")
	a := New(testRunner(t, fake))

	_, err := a.Run(context.Background(), Options{Topic: "AI", Depth: "standard"})
	require.NoError(t, err)

	calls := fake.Calls()
	require.Len(t, calls, 4)

	firstPass := calls[1].Messages[0].Content
	assert.False(t, strings.Contains(firstPass, "Previous findings"))

	secondPass := calls[2].Messages[0].Content
	assert.Contains(t, secondPass, "Previous findings")
	assert.Contains(t, secondPass, "first findings")

	synthesis := calls[3].Messages[0].Content
	assert.Contains(t, synthesis, "first findings")
	assert.Contains(t, synthesis, "second findings")
}
