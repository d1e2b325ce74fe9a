// Package commands wires the agent suite's cobra commands: research,
// code-review, data-analysis, workflow, and list.
package commands
