package workflow

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Step types understood by the engine
const (
	StepPrompt    = "prompt"
	StepTransform = "transform"
	StepAggregate = "aggregate"
)

// OnError values
const (
	OnErrorStop     = "stop"
	OnErrorContinue = "continue"
)

// Step is a single unit of work in a workflow
type Step struct {
	Name      string   `yaml:"name"`
	Type      string   `yaml:"type"`
	Prompt    string   `yaml:"prompt,omitempty"`
	System    string   `yaml:"system,omitempty"`
	Condition string   `yaml:"condition,omitempty"`
	Input     string   `yaml:"input,omitempty"`
	Inputs    []string `yaml:"inputs,omitempty"`
	Transform string   `yaml:"transform,omitempty"`
	Format    string   `yaml:"format,omitempty"`
	OnError   string   `yaml:"on_error,omitempty"`
}

// Definition is a parsed workflow
type Definition struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Steps       []Step `yaml:"steps"`
}

// Validate checks a definition for structural problems
func (d *Definition) Validate() error {
	if len(d.Steps) == 0 {
		return fmt.Errorf("workflow has no steps")
	}
	for i, step := range d.Steps {
		stepType := step.Type
		if stepType == "" {
			stepType = StepPrompt
		}
		switch stepType {
		case StepPrompt, StepTransform, StepAggregate:
		default:
			return fmt.Errorf("step %d (%s): unknown step type: %s", i, step.Name, step.Type)
		}
	}
	return nil
}

// LoadDefinition resolves source into a workflow definition. Source may
// be a built-in template name, a path to a YAML file, or inline YAML.
func LoadDefinition(source string) (*Definition, error) {
	if tmpl, ok := Templates[source]; ok {
		return parseDefinition([]byte(tmpl))
	}

	if _, err := os.Stat(source); err == nil {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("failed to read workflow file: %w", err)
		}
		return parseDefinition(data)
	}

	return parseDefinition([]byte(source))
}

func parseDefinition(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse workflow yaml: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}
