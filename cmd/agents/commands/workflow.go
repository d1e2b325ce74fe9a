package commands

import (
	"fmt"
	"strings"

	"agentsuite/internal/agent/workflow"

	"github.com/spf13/cobra"
)

func newWorkflowCmd() *cobra.Command {
	var (
		source        string
		vars          []string
		listTemplates bool
	)

	cmd := &cobra.Command{
		Use:   "workflow",
		Short: "Execute a multi-step workflow defined in YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			if listTemplates {
				cmd.Println("Available templates:")
				for _, name := range workflow.TemplateNames() {
					cmd.Printf("  - %s\n", name)
				}
				return nil
			}

			if source == "" {
				return fmt.Errorf("--workflow is required")
			}

			variables, err := parseVars(vars)
			if err != nil {
				return err
			}

			runner, err := buildRunner()
			if err != nil {
				return err
			}

			a := workflow.New(runner)
			run, res, err := a.Run(cmd.Context(), workflow.Options{
				Workflow:  source,
				Variables: variables,
			})
			if err != nil {
				return err
			}

			cmd.Printf("\nWorkflow completed:\n")
			cmd.Printf("  Steps executed: %d\n", run.StepsExecuted)
			cmd.Printf("  Steps failed: %d\n", run.StepsFailed)
			printResult(cmd, "", res)
			return nil
		},
	}

	cmd.Flags().StringVarP(&source, "workflow", "w", "", "workflow YAML file, inline YAML, or template name")
	cmd.Flags().StringSliceVar(&vars, "var", nil, "workflow variables as key=value (repeatable)")
	cmd.Flags().BoolVar(&listTemplates, "list-templates", false, "list built-in workflow templates")

	return cmd
}

// parseVars parses repeated key=value flags into a map
func parseVars(pairs []string) (map[string]string, error) {
	vars := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid variable %q: expected key=value", pair)
		}
		vars[key] = value
	}
	return vars, nil
}
