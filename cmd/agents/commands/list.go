package commands

import (
	"agentsuite/internal/agent"
	"agentsuite/internal/agent/codereview"
	"agentsuite/internal/agent/dataanalysis"
	"agentsuite/internal/agent/research"
	"agentsuite/internal/agent/workflow"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available agents",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Listing needs no provider, so agents are built without
			// a runner here.
			registry := agent.NewRegistry()
			registry.Register(research.New(nil))
			registry.Register(codereview.New(nil))
			registry.Register(dataanalysis.New(nil))
			registry.Register(workflow.New(nil))

			for _, a := range registry.List() {
				cmd.Printf("%-15s %s\n", a.Name(), a.Description())
			}
			return nil
		},
	}
}
