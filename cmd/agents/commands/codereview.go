package commands

import (
	"agentsuite/internal/agent/codereview"

	"github.com/spf13/cobra"
)

func newCodeReviewCmd() *cobra.Command {
	var (
		path    string
		focus   string
		include []string
		exclude []string
	)

	cmd := &cobra.Command{
		Use:   "code-review",
		Short: "Review code for quality, security, and best practices",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := buildRunner()
			if err != nil {
				return err
			}

			a := codereview.New(runner)
			res, err := a.Run(cmd.Context(), codereview.Options{
				Path:            path,
				Focus:           focus,
				IncludePatterns: include,
				ExcludePatterns: exclude,
			})
			if err != nil {
				return err
			}

			printResult(cmd, "", res)
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "", "file or directory to review (required)")
	cmd.Flags().StringVarP(&focus, "focus", "f", "all", "review focus: all, security, performance, quality")
	cmd.Flags().StringSliceVarP(&include, "include", "i", nil, "glob patterns to include")
	cmd.Flags().StringSliceVarP(&exclude, "exclude", "e", nil, "path fragments to exclude")
	_ = cmd.MarkFlagRequired("path")

	return cmd
}
