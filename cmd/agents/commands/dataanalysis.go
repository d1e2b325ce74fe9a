package commands

import (
	"agentsuite/internal/agent/dataanalysis"

	"github.com/spf13/cobra"
)

func newDataAnalysisCmd() *cobra.Command {
	var (
		file         string
		question     string
		analysisType string
	)

	cmd := &cobra.Command{
		Use:   "data-analysis",
		Short: "Analyze a dataset and generate insights",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := buildRunner()
			if err != nil {
				return err
			}

			a := dataanalysis.New(runner)
			res, err := a.Run(cmd.Context(), dataanalysis.Options{
				FilePath:     file,
				Question:     question,
				AnalysisType: analysisType,
			})
			if err != nil {
				return err
			}

			printResult(cmd, "", res)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "data file path, .csv or .json (required)")
	cmd.Flags().StringVarP(&question, "question", "q", "", "specific question to answer")
	cmd.Flags().StringVarP(&analysisType, "type", "t", "comprehensive", "analysis type: quick, comprehensive, deep")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
