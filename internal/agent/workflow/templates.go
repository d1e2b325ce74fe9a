package workflow

import "sort"

// Templates holds the built-in example workflows, selectable by name
// from the CLI.
var Templates = map[string]string{
	"content_pipeline": `
name: Content Pipeline
description: Research topic and create content

steps:
  - name: research
    type: prompt
    prompt: |
      Research the following topic thoroughly:
      {{variables.topic}}

      Provide key findings, trends, and insights.

  - name: outline
    type: prompt
    prompt: |
      Based on this research:
      {{steps.research}}

      Create a detailed outline for a blog post about {{variables.topic}}.

  - name: draft
    type: prompt
    prompt: |
      Using this outline:
      {{steps.outline}}

      Write a complete blog post. Make it engaging and informative.
      Target audience: {{variables.audience}}

  - name: social
    type: prompt
    prompt: |
      Based on this blog post:
      {{steps.draft}}

      Create 3 LinkedIn posts promoting the key insights.
`,

	"code_documentation": `
name: Code Documentation
description: Analyze code and generate documentation

steps:
  - name: analyze
    type: prompt
    prompt: |
      Analyze this codebase structure:
      {{variables.code_path}}

      Identify main components, patterns, and architecture.

  - name: api_docs
    type: prompt
    prompt: |
      Based on this analysis:
      {{steps.analyze}}

      Generate API documentation for the public interfaces.

  - name: readme
    type: prompt
    prompt: |
      Create a comprehensive README.md including:
      {{steps.analyze}}

      Include: Overview, Installation, Usage, API Reference, Contributing.
`,
}

// TemplateNames returns the sorted names of the built-in templates
func TemplateNames() []string {
	names := make([]string, 0, len(Templates))
	for name := range Templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
