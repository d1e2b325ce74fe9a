// Package codereview implements the code review agent: per-file LLM
// reviews rolled up into an executive summary report.
package codereview

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"agentsuite/internal/agent"
)

const systemPrompt = `You are a senior software engineer conducting code reviews.

Your review should cover:
1. **Code Quality**: Readability, maintainability, DRY principles
2. **Security**: Vulnerabilities, injection risks, auth issues
3. **Performance**: Efficiency, memory usage, algorithmic complexity
4. **Best Practices**: Language idioms, design patterns, testing
5. **Bugs**: Logic errors, edge cases, race conditions

Be constructive and specific. For each issue:
- Explain WHY it's a problem
- Show HOW to fix it
- Rate severity: 🔴 Critical, 🟡 Warning, 🔵 Suggestion

Format output as markdown with clear sections.`

const (
	// maxFilesPerRun caps how many files a single review touches.
	maxFilesPerRun = 20
	// maxFileSize is the largest file, in bytes, sent for review.
	maxFileSize = 50_000
)

// focusInstructions maps focus areas to review instructions
var focusInstructions = map[string]string{
	"all":         "Review all aspects: quality, security, performance, best practices",
	"security":    "Focus primarily on security vulnerabilities and risks",
	"performance": "Focus primarily on performance and efficiency",
	"quality":     "Focus primarily on code quality and maintainability",
}

// Agent reviews code for quality, security, and best practices
type Agent struct {
	runner *agent.Runner
}

// New creates a code review agent
func New(runner *agent.Runner) *Agent {
	return &Agent{runner: runner}
}

// Name returns the agent name
func (a *Agent) Name() string { return "code-review" }

// Description returns the agent description
func (a *Agent) Description() string {
	return "Automated code review and quality analysis"
}

// SystemPrompt returns the agent's system prompt
func (a *Agent) SystemPrompt() string { return systemPrompt }

// Options configures a review run
type Options struct {
	Path            string
	Focus           string // all, security, performance, quality
	IncludePatterns []string
	ExcludePatterns []string
}

// Validate checks the run options
func (o *Options) Validate() error {
	if o.Path == "" {
		return &agent.ValidationError{Field: "path", Message: "path is required"}
	}
	if o.Focus != "" && focusInstructions[o.Focus] == "" {
		return &agent.ValidationError{Field: "focus", Message: "focus must be all, security, performance, or quality"}
	}
	return nil
}

// fileReview pairs a file path with its review text
type fileReview struct {
	Path   string
	Review string
}

// Run reviews the file or directory at opts.Path and produces a report
// with an executive summary followed by the individual reviews.
func (a *Agent) Run(ctx context.Context, opts Options) (*agent.Result, error) {
	start := time.Now()

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Focus == "" {
		opts.Focus = "all"
	}

	info, err := os.Stat(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	var files []string
	if info.IsDir() {
		files, err = collectFiles(opts.Path, opts.IncludePatterns, opts.ExcludePatterns)
		if err != nil {
			return nil, fmt.Errorf("failed to collect files: %w", err)
		}
	} else {
		files = []string{opts.Path}
	}

	log := a.runner.Logger()
	log.Info().Int("files", len(files)).Str("focus", opts.Focus).Msg("reviewing")

	if len(files) > maxFilesPerRun {
		files = files[:maxFilesPerRun]
	}

	reviews := make([]fileReview, 0, len(files))
	for _, file := range files {
		review, err := a.reviewFile(ctx, file, opts.Focus)
		if err != nil {
			return nil, fmt.Errorf("reviewing %s: %w", file, err)
		}
		reviews = append(reviews, fileReview{Path: file, Review: review})
	}

	report, err := a.createSummary(ctx, reviews, opts.Focus)
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}

	filename := fmt.Sprintf("code_review_%s.md", agent.Timestamp(time.Now()))
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
			"files_reviewed": len(reviews),
			"focus":          opts.Focus,
		},
	}, nil
}

// reviewFile reviews a single file. Oversized and empty files are
// reported rather than sent to the provider.
func (a *Agent) reviewFile(ctx context.Context, file, focus string) (string, error) {
	log := a.runner.Logger()
	log.Info().Str("file", filepath.Base(file)).Msg("reviewing file")

	content, err := os.ReadFile(file)
	if err != nil {
		return fmt.Sprintf("Error reading file: %v", err), nil
	}

	if len(content) > maxFileSize {
		return "File too large for review (>50KB)", nil
	}
	if strings.TrimSpace(string(content)) == "" {
		return "Empty file", nil
	}

	lang := strings.TrimPrefix(filepath.Ext(file), ".")
	prompt := fmt.Sprintf(`Review this code file: %s

%s

`+"```%s\n%s\n```"+`

Provide a structured review with:
1. Summary (1-2 sentences)
2. Issues found (with severity ratings)
3. Specific improvement suggestions with code examples
4. What's done well (positive feedback)`,
		filepath.Base(file), focusInstructions[focus], lang, string(content))

	return a.runner.Ask(ctx, prompt, agent.AskOptions{System: systemPrompt})
}

func (a *Agent) createSummary(ctx context.Context, reviews []fileReview, focus string) (string, error) {
	var sb strings.Builder
	for _, r := range reviews {
		fmt.Fprintf(&sb, "### %s\n%s\n\n", filepath.Base(r.Path), r.Review)
	}
	reviewText := strings.TrimSpace(sb.String())

	prompt := fmt.Sprintf(`Create an executive summary of this code review.

Individual file reviews:
%s

Create a summary with:
1. **Overview**: Overall code health assessment
2. **Critical Issues**: Must-fix problems (🔴)
3. **Warnings**: Should-fix problems (🟡)
4. **Suggestions**: Nice-to-have improvements (🔵)
5. **Statistics**: Issue counts by severity
6. **Priority Actions**: Top 5 things to fix first

Be concise but actionable.`, reviewText)

	summary, err := a.runner.Ask(ctx, prompt, agent.AskOptions{System: systemPrompt})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`# Code Review Report

Generated: %s
Focus: %s
Files reviewed: %d

---

%s

---

# Individual File Reviews

%s
`, time.Now().Format("2006-01-02 15:04"), focus, len(reviews), summary, reviewText), nil
}
