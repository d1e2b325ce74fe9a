package commands

import (
	"agentsuite/internal/agent/research"

	"github.com/spf13/cobra"
)

func newResearchCmd() *cobra.Command {
	var (
		topic string
		depth string
		focus []string
	)

	cmd := &cobra.Command{
		Use:   "research",
		Short: "Research a topic and generate a structured report",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := buildRunner()
			if err != nil {
				return err
			}

			a := research.New(runner)
			res, err := a.Run(cmd.Context(), research.Options{
				Topic:      topic,
				Depth:      depth,
				FocusAreas: focus,
			})
			if err != nil {
				return err
			}

			printResult(cmd, "RESEARCH REPORT", res)
			return nil
		},
	}

	cmd.Flags().StringVarP(&topic, "topic", "t", "", "research topic (required)")
	cmd.Flags().StringVarP(&depth, "depth", "d", "standard", "research depth: quick, standard, deep")
	cmd.Flags().StringSliceVarP(&focus, "focus", "f", nil, "focus areas")
	_ = cmd.MarkFlagRequired("topic")

	return cmd
}
