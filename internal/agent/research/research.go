// Package research implements the research agent: multi-pass topic
// research compiled into a structured markdown report.
package research

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agentsuite/internal/agent"
)

const systemPrompt = `You are an expert research analyst. Your job is to:
1. Thoroughly analyze the given topic
2. Identify key themes, trends, and insights
3. Structure findings into a clear, actionable report
4. Cite sources and provide evidence for claims
5. Highlight implications and recommendations

Be thorough but concise. Focus on actionable insights over generic observations.
Use markdown formatting for structure.`

// passesForDepth maps research depth to the number of research passes
var passesForDepth = map[string]int{
	"quick":    1,
	"standard": 2,
	"deep":     3,
}

// Agent conducts research and generates comprehensive reports
type Agent struct {
	runner *agent.Runner
}

// New creates a research agent
func New(runner *agent.Runner) *Agent {
	return &Agent{runner: runner}
}

// Name returns the agent name
func (a *Agent) Name() string { return "research" }

// Description returns the agent description
func (a *Agent) Description() string {
	return "Automated research and report generation"
}

// SystemPrompt returns the agent's system prompt
func (a *Agent) SystemPrompt() string { return systemPrompt }

// Options configures a research run
type Options struct {
	Topic      string
	Depth      string // quick, standard, deep
	FocusAreas []string
}

// Validate checks the run options
func (o *Options) Validate() error {
	if strings.TrimSpace(o.Topic) == "" {
		return &agent.ValidationError{Field: "topic", Message: "topic is required"}
	}
	if o.Depth != "" && passesForDepth[o.Depth] == 0 {
		return &agent.ValidationError{Field: "depth", Message: "depth must be quick, standard, or deep"}
	}
	return nil
}

// Run researches a topic in three phases: outline, iterative research
// passes, and synthesis into a final report.
func (a *Agent) Run(ctx context.Context, opts Options) (*agent.Result, error) {
	start := time.Now()

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	log := a.runner.Logger()
	log.Info().Str("topic", opts.Topic).Str("depth", opts.Depth).Msg("researching")

	outline, err := a.createOutline(ctx, opts.Topic, opts.FocusAreas)
	if err != nil {
		return nil, fmt.Errorf("outline phase: %w", err)
	}

	sections, err := a.researchSections(ctx, opts.Topic, outline, opts.Depth)
	if err != nil {
		return nil, fmt.Errorf("research phase: %w", err)
	}

	report, err := a.synthesizeReport(ctx, opts.Topic, sections)
	if err != nil {
		return nil, fmt.Errorf("synthesis phase: %w", err)
	}

	filename := fmt.Sprintf("research_%s_%s.md",
		agent.SanitizeName(opts.Topic, 50), agent.Timestamp(time.Now()))
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
			"topic":  opts.Topic,
			"depth":  opts.Depth,
			"passes": len(sections),
		},
	}, nil
}

func (a *Agent) createOutline(ctx context.Context, topic string, focusAreas []string) (string, error) {
	focus := ""
	if len(focusAreas) > 0 {
		focus = "\nFocus areas: " + strings.Join(focusAreas, ", ")
	}

	prompt := fmt.Sprintf(`Create a research outline for: %s%s

Return a structured outline with 4-6 main sections. For each section include:
- Section title
- Key questions to answer
- Types of information needed

Format as markdown with ## headers.`, topic, focus)

	return a.runner.Ask(ctx, prompt, agent.AskOptions{System: systemPrompt})
}

func (a *Agent) researchSections(ctx context.Context, topic, outline, depth string) ([]string, error) {
	passes := passesForDepth[depth]
	if passes == 0 {
		passes = passesForDepth["standard"]
	}

	log := a.runner.Logger()
	var sections []string
	for i := 0; i < passes; i++ {
		log.Info().Int("pass", i+1).Int("total", passes).Msg("research pass")

		previous := ""
		if len(sections) > 0 {
			previous = "Previous findings:\n" + strings.Join(sections, "\n")
		}

		prompt := fmt.Sprintf(`Topic: %s

Outline:
%s

%s

Provide detailed research findings for each section in the outline.
Include:
- Key facts and data
- Current trends
- Expert perspectives
- Potential challenges
- Opportunities

Be specific and evidence-based. Use markdown formatting.`, topic, outline, previous)

		section, err := a.runner.Ask(ctx, prompt, agent.AskOptions{System: systemPrompt})
		if err != nil {
			return nil, fmt.Errorf("pass %d: %w", i+1, err)
		}
		sections = append(sections, section)
	}

	return sections, nil
}

func (a *Agent) synthesizeReport(ctx context.Context, topic string, sections []string) (string, error) {
	allResearch := strings.Join(sections, "\n\n---\n\n")

	prompt := fmt.Sprintf(`Synthesize the following research into a comprehensive report on: %s

Research findings:
%s

Create a final report with:
1. Executive Summary (key takeaways in 3-5 bullets)
2. Main Findings (organized by theme)
3. Analysis & Implications
4. Recommendations
5. Appendix (data points, sources mentioned)

Make it actionable and well-structured. Use markdown formatting.`, topic, allResearch)

	return a.runner.Ask(ctx, prompt, agent.AskOptions{System: systemPrompt})
}
