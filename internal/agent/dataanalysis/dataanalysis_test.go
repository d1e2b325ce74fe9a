package dataanalysis

import (
	"context"
	"os"
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

func TestOptionsValidate(t *testing.T) {
	assert.Error(t, (&Options{}).Validate())
	assert.Error(t, (&Options{FilePath: "x.csv", AnalysisType: "extreme"}).Validate())
	assert.NoError(t, (&Options{FilePath: "x.csv"}).Validate())
	assert.NoError(t, (&Options{FilePath: "x.csv", AnalysisType: "deep"}).Validate())
}

func TestRunComprehensiveAnalysis(t *testing.T) {
	file := writeDataFile(t, "sales.csv", sampleCSV)

	fake := llmtest.NewFakeProvider("insightful analysis")
	a := New(testRunner(t, fake))

	res, err := a.Run(context.Background(), Options{FilePath: file})
	require.NoError(t, err)

	assert.Equal(t, 1, fake.CallCount())
	assert.True(t, res.Success)
	assert.Equal(t, 4, res.Metadata["rows"])
	assert.Equal(t, 4, res.Metadata["columns"])

	assert.Contains(t, res.Content, "# Data Analysis Report")
	assert.Contains(t, res.Content, "insightful analysis")
	assert.Contains(t, res.Content, "| age | numeric | 1 | 25% |")

	prompt := fake.Calls()[0].Messages[0].Content
	assert.Contains(t, prompt, "thorough analysis")
	assert.Contains(t, prompt, "column_names")

	_, err = os.Stat(res.OutputPath)
	assert.NoError(t, err)
	assert.Contains(t, res.OutputPath, "analysis_sales_")
}

func TestRunAnswersQuestion(t *testing.T) {
	file := writeDataFile(t, "sales.csv", sampleCSV)

	fake := llmtest.NewFakeProvider("the answer")
	a := New(testRunner(t, fake))

	res, err := a.Run(context.Background(), Options{
		FilePath: file,
		Question: "which city has the most users?",
	})
	require.NoError(t, err)
	assert.Contains(t, res.Content, "the answer")

	prompt := fake.Calls()[0].Messages[0].Content
	assert.Contains(t, prompt, "which city has the most users?")
}

func TestRunMissingFile(t *testing.T) {
	fake := llmtest.NewFakeProvider()
	a := New(testRunner(t, fake))

	_, err := a.Run(context.Background(), Options{FilePath: "does-not-exist.csv"})
	assert.Error(t, err)
	assert.Equal(t, 0, fake.CallCount())
}
