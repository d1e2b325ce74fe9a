// Package workflow implements the workflow agent: multi-step task
// automation driven by YAML definitions, with context passing between
// steps, conditional execution, and output aggregation.
package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agentsuite/internal/agent"

	"github.com/google/uuid"
)

const systemPrompt = `You are an intelligent workflow executor. Your job is to:
1. Execute tasks step by step
2. Pass context between steps
3. Make decisions based on conditions
4. Handle errors gracefully
5. Aggregate and format outputs

Follow instructions precisely. Use context from previous steps.
Format outputs clearly and concisely.`

// maxSummaryOutput caps per-step output length in the summary report
const maxSummaryOutput = 500

// Agent executes multi-step workflows defined in YAML
type Agent struct {
	runner *agent.Runner
}

// New creates a workflow agent
func New(runner *agent.Runner) *Agent {
	return &Agent{runner: runner}
}

// Name returns the agent name
func (a *Agent) Name() string { return "workflow" }

// Description returns the agent description
func (a *Agent) Description() string {
	return "Multi-step task automation"
}

// SystemPrompt returns the agent's system prompt
func (a *Agent) SystemPrompt() string { return systemPrompt }

// Options configures a workflow run
type Options struct {
	// Workflow is a template name, a YAML file path, or inline YAML.
	Workflow  string
	Variables map[string]string
}

// StepStatus values recorded in the run context
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusSkipped = "skipped"
)

// StepResult records the outcome of one step
type StepResult struct {
	Status string `json:"status"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

// RunContext accumulates state as steps execute
type RunContext struct {
	Variables map[string]string
	Steps     map[string]*StepResult
	// Order preserves execution order for aggregation and reporting.
	Order   []string
	Outputs []string
}

// RunResult is the outcome of a workflow run
type RunResult struct {
	RunID         string
	Name          string
	StepsExecuted int
	StepsFailed   int
	Summary       string
	Context       *RunContext
}

// Run loads and executes the workflow, then writes a summary report.
func (a *Agent) Run(ctx context.Context, opts Options) (*RunResult, *agent.Result, error) {
	start := time.Now()

	def, err := LoadDefinition(opts.Workflow)
	if err != nil {
		return nil, nil, err
	}

	runID := uuid.NewString()
	log := a.runner.Logger()
	log.Info().Str("workflow", def.Name).Str("run_id", runID).Msg("running workflow")

	rc := &RunContext{
		Variables: opts.Variables,
		Steps:     make(map[string]*StepResult),
	}
	if rc.Variables == nil {
		rc.Variables = map[string]string{}
	}

	for i, step := range def.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step_%d", i)
		}
		log.Info().Str("step", name).Msg("executing step")

		ok, err := a.checkCondition(ctx, step, rc)
		if err != nil {
			return nil, nil, fmt.Errorf("step %s condition: %w", name, err)
		}
		if !ok {
			log.Info().Str("step", name).Msg("skipping step: condition not met")
			rc.Steps[name] = &StepResult{Status: StatusSkipped}
			rc.Order = append(rc.Order, name)
			continue
		}

		output, err := a.executeStep(ctx, step, rc)
		if err != nil {
			log.Error().Str("step", name).Err(err).Msg("step failed")
			rc.Steps[name] = &StepResult{Status: StatusError, Error: err.Error()}
			rc.Order = append(rc.Order, name)
			if step.OnError == OnErrorStop {
				break
			}
			continue
		}

		rc.Steps[name] = &StepResult{Status: StatusSuccess, Output: output}
		rc.Order = append(rc.Order, name)
		rc.Outputs = append(rc.Outputs, output)
	}

	summary := a.createSummary(def, rc)

	filename := fmt.Sprintf("workflow_%s_%s.md",
		agent.SanitizeName(def.Name, 50), agent.Timestamp(time.Now()))
	path, err := a.runner.SaveOutput(summary, filename)
	if err != nil {
		return nil, nil, err
	}

	executed, failed := 0, 0
	for _, sr := range rc.Steps {
		switch sr.Status {
		case StatusSuccess:
			executed++
		case StatusError:
			failed++
		}
	}

	stats := a.runner.Stats()
	stats.StartedAt = start
	stats.FinishedAt = time.Now()
	stats.Duration = stats.FinishedAt.Sub(start)

	runResult := &RunResult{
		RunID:         runID,
		Name:          def.Name,
		StepsExecuted: executed,
		StepsFailed:   failed,
		Summary:       summary,
		Context:       rc,
	}

	agentResult := &agent.Result{
		Content:    summary,
		Success:    failed == 0,
		OutputPath: path,
		Stats:      stats,
		Metadata: map[string]any{
			"run_id":         runID,
			"steps_executed": executed,
			"steps_failed":   failed,
		},
	}

	return runResult, agentResult, nil
}

// checkCondition evaluates a step condition by asking the LLM for a
// bare true/false verdict. Steps without conditions always run.
func (a *Agent) checkCondition(ctx context.Context, step Step, rc *RunContext) (bool, error) {
	if step.Condition == "" {
		return true, nil
	}

	prompt := fmt.Sprintf(`Evaluate this condition and return ONLY 'true' or 'false':

Condition: %s

Context:
- Variables: %v
- Previous step results: %v

Return only 'true' or 'false', nothing else.`, step.Condition, rc.Variables, rc.Order)

	result, err := a.runner.Ask(ctx, prompt, agent.AskOptions{System: systemPrompt})
	if err != nil {
		return false, err
	}
	return strings.ToLower(strings.TrimSpace(result)) == "true", nil
}

func (a *Agent) executeStep(ctx context.Context, step Step, rc *RunContext) (string, error) {
	stepType := step.Type
	if stepType == "" {
		stepType = StepPrompt
	}

	switch stepType {
	case StepPrompt:
		return a.executePrompt(ctx, step, rc)
	case StepTransform:
		return a.executeTransform(ctx, step, rc)
	case StepAggregate:
		return a.executeAggregate(ctx, step, rc)
	default:
		return "", fmt.Errorf("unknown step type: %s", step.Type)
	}
}

func (a *Agent) executePrompt(ctx context.Context, step Step, rc *RunContext) (string, error) {
	prompt := injectContext(step.Prompt, rc)

	system := systemPrompt
	if step.System != "" {
		system = step.System
	}

	return a.runner.Ask(ctx, prompt, agent.AskOptions{System: system})
}

func (a *Agent) executeTransform(ctx context.Context, step Step, rc *RunContext) (string, error) {
	var input string
	if step.Input != "" {
		if sr, ok := rc.Steps[step.Input]; ok {
			input = sr.Output
		}
	} else if len(rc.Outputs) > 0 {
		input = rc.Outputs[len(rc.Outputs)-1]
	}

	prompt := fmt.Sprintf(`Transform this data:

Input:
%s

Transformation: %s

Apply the transformation and return the result.`, input, injectContext(step.Transform, rc))

	return a.runner.Ask(ctx, prompt, agent.AskOptions{System: systemPrompt})
}

func (a *Agent) executeAggregate(ctx context.Context, step Step, rc *RunContext) (string, error) {
	var parts []string
	for _, name := range step.Inputs {
		if sr, ok := rc.Steps[name]; ok {
			parts = append(parts, fmt.Sprintf("## %s\n%s", name, sr.Output))
		}
	}
	if len(parts) == 0 {
		for i, out := range rc.Outputs {
			parts = append(parts, fmt.Sprintf("## Output %d\n%s", i+1, out))
		}
	}

	format := step.Format
	if format == "" {
		format = "bullet_points"
	}

	prompt := fmt.Sprintf(`Aggregate and format these outputs:

%s

Format: %s

Create a cohesive summary that combines all the information.`, strings.Join(parts, "\n"), format)

	return a.runner.Ask(ctx, prompt, agent.AskOptions{System: systemPrompt})
}

// injectContext substitutes workflow variables, step outputs, and the
// last output into a template string. Supported placeholders:
// {{variables.K}}, ${K}, {{steps.NAME}}, {{last_output}}.
func injectContext(template string, rc *RunContext) string {
	result := template

	for key, value := range rc.Variables {
		result = strings.ReplaceAll(result, "{{variables."+key+"}}", value)
		result = strings.ReplaceAll(result, "${"+key+"}", value)
	}

	for name, sr := range rc.Steps {
		if sr.Status == StatusSuccess {
			result = strings.ReplaceAll(result, "{{steps."+name+"}}", sr.Output)
		}
	}

	if len(rc.Outputs) > 0 {
		result = strings.ReplaceAll(result, "{{last_output}}", rc.Outputs[len(rc.Outputs)-1])
	}

	return result
}

// createSummary renders the execution report
func (a *Agent) createSummary(def *Definition, rc *RunContext) string {
	var stepsLines []string
	var outputs []string

	for _, name := range rc.Order {
		sr := rc.Steps[name]
		mark := "✗"
		if sr.Status == StatusSuccess {
			mark = "✓"
		}
		stepsLines = append(stepsLines, fmt.Sprintf("- %s %s", mark, name))

		if sr.Status == StatusSuccess {
			out := sr.Output
			if runes := []rune(out); len(runes) > maxSummaryOutput {
				out = string(runes[:maxSummaryOutput])
			}
			outputs = append(outputs, fmt.Sprintf("### %s\n%s", name, out))
		}
	}

	description := def.Description
	if description == "" {
		description = "N/A"
	}

	return fmt.Sprintf(`# Workflow Execution Report

**Workflow**: %s
**Description**: %s
**Executed**: %s

## Execution Summary

%s

## Outputs

%s
`, def.Name, description, time.Now().Format("2006-01-02 15:04"),
		strings.Join(stepsLines, "\n"), strings.Join(outputs, "\n---\n"))
}
