// Package dataanalysis implements the data analysis agent: dataset
// profiling plus LLM-generated insights.
package dataanalysis

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"agentsuite/internal/agent"
)

const systemPrompt = `You are a senior data analyst. Your job is to:
1. Understand the data structure and quality
2. Identify patterns, trends, and anomalies
3. Provide actionable business insights
4. Suggest next steps for deeper analysis
5. Recommend visualizations

Be specific with numbers and examples. Focus on insights that drive decisions.
Format output as markdown with clear sections.`

// depthInstructions maps analysis types to prompt instructions
var depthInstructions = map[string]string{
	"quick":         "Provide a quick overview with key insights only (3-5 main points)",
	"comprehensive": "Provide thorough analysis covering all aspects",
	"deep":          "Provide exhaustive analysis with statistical tests and detailed patterns",
}

// Agent analyzes datasets and generates actionable insights
type Agent struct {
	runner *agent.Runner
}

// New creates a data analysis agent
func New(runner *agent.Runner) *Agent {
	return &Agent{runner: runner}
}

// Name returns the agent name
func (a *Agent) Name() string { return "data-analysis" }

// Description returns the agent description
func (a *Agent) Description() string {
	return "Automated dataset analysis and insights"
}

// SystemPrompt returns the agent's system prompt
func (a *Agent) SystemPrompt() string { return systemPrompt }

// Options configures an analysis run
type Options struct {
	FilePath     string
	Question     string // optional specific question
	AnalysisType string // quick, comprehensive, deep
}

// Validate checks the run options
func (o *Options) Validate() error {
	if o.FilePath == "" {
		return &agent.ValidationError{Field: "file", Message: "file path is required"}
	}
	if o.AnalysisType != "" && depthInstructions[o.AnalysisType] == "" {
		return &agent.ValidationError{Field: "type", Message: "type must be quick, comprehensive, or deep"}
	}
	return nil
}

// Run profiles the dataset and asks the LLM for either an answer to a
// specific question or a comprehensive analysis.
func (a *Agent) Run(ctx context.Context, opts Options) (*agent.Result, error) {
	start := time.Now()

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.AnalysisType == "" {
		opts.AnalysisType = "comprehensive"
	}

	log := a.runner.Logger()
	log.Info().Str("file", filepath.Base(opts.FilePath)).Msg("analyzing")

	ds, err := LoadDataset(opts.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	profile := BuildProfile(ds)

	var analysis string
	if opts.Question != "" {
		analysis, err = a.answerQuestion(ctx, profile, opts.Question)
	} else {
		analysis, err = a.comprehensiveAnalysis(ctx, profile, opts.AnalysisType)
	}
	if err != nil {
		return nil, fmt.Errorf("analysis: %w", err)
	}

	report := a.createReport(filepath.Base(opts.FilePath), profile, analysis)

	stem := strings.TrimSuffix(filepath.Base(opts.FilePath), filepath.Ext(opts.FilePath))
	filename := fmt.Sprintf("analysis_%s_%s.md", agent.SanitizeName(stem, 50), agent.Timestamp(time.Now()))
	path, err := a.runner.SaveOutput(report, filename)
	if err != nil {
		return nil, err
	}

	stats := a.runner.Stats()
	stats.StartedAt = start
	stats.FinishedAt = time.Now()
	stats.Duration = stats.FinishedAt.Sub(start)

	return &agent.Result{
		Content:    report,
		Success:    true,
		OutputPath: path,
		Stats:      stats,
		Metadata: map[string]any{
			"rows":    profile.Rows,
			"columns": profile.Columns,
		},
	}, nil
}

func (a *Agent) comprehensiveAnalysis(ctx context.Context, profile *Profile, analysisType string) (string, error) {
	profileText, _ := json.MarshalIndent(profile, "", "  ")

	prompt := fmt.Sprintf(`Analyze this dataset:

Data Profile:
%s

%s

Cover these areas:
1. **Data Quality**: Missing values, outliers, data types
2. **Key Statistics**: Important metrics and distributions
3. **Patterns & Trends**: Correlations, time trends, groupings
4. **Anomalies**: Unusual values or patterns
5. **Business Insights**: Actionable findings
6. **Recommendations**: What to investigate further
7. **Visualization Suggestions**: Best charts for this data

Be specific with numbers. Reference actual column names and values.`,
		profileText, depthInstructions[analysisType])

	return a.runner.Ask(ctx, prompt, agent.AskOptions{System: systemPrompt})
}

func (a *Agent) answerQuestion(ctx context.Context, profile *Profile, question string) (string, error) {
	profileText, _ := json.MarshalIndent(profile, "", "  ")

	prompt := fmt.Sprintf(`Answer this question about the dataset:

Question: %s

Data Profile:
%s

Provide a direct answer with:
1. The answer to the question
2. Supporting evidence from the data
3. Any caveats or limitations
4. Suggestions for deeper analysis

Be specific with numbers and reference actual data values.`, question, profileText)

	return a.runner.Ask(ctx, prompt, agent.AskOptions{System: systemPrompt})
}

func (a *Agent) createReport(filename string, profile *Profile, analysis string) string {
	dtypes, _ := json.MarshalIndent(profile.Dtypes, "", "  ")

	return fmt.Sprintf(`# Data Analysis Report

**File**: %s
**Generated**: %s
**Rows**: %d
**Columns**: %d

---

## Data Overview

### Columns
| Column | Type | Missing | Missing %% |
|--------|------|---------|-----------|
%s

---

## Analysis

%s

---

## Technical Details

### Column Types
`+"```json\n%s\n```"+`
`, filename, time.Now().Format("2006-01-02 15:04"), profile.Rows, profile.Columns,
		columnsTable(profile), analysis, dtypes)
}

// columnsTable renders the per-column markdown table rows
func columnsTable(profile *Profile) string {
	rows := make([]string, 0, len(profile.ColumnNames))
	for _, col := range profile.ColumnNames {
		rows = append(rows, fmt.Sprintf("| %s | %s | %d | %g%% |",
			col, profile.Dtypes[col], profile.Missing[col], profile.MissingPct[col]))
	}
	return strings.Join(rows, "\n")
}
