package commands

import (
	"fmt"
	"os"
	"time"

	"agentsuite/internal/agent"
	"agentsuite/internal/config"
	"agentsuite/internal/llm"
	"agentsuite/internal/llm/cache"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgFile      string
	flagProvider string
	flagModel    string
	flagOutput   string
	flagVerbose  bool
	flagNoCache  bool

	// providers resolves provider instances by name, building each one
	// once per process.
	providers = llm.NewRegistry()
)

// NewRootCmd builds the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "agents",
		Short:         "A suite of task-focused LLM agents",
		Long:          "agentsuite runs task-focused LLM agents for research, code review,\ndata analysis, and multi-step workflow automation.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file (YAML or JSON)")
	root.PersistentFlags().StringVar(&flagProvider, "provider", "", "LLM provider: groq, anthropic, openai")
	root.PersistentFlags().StringVar(&flagModel, "model", "", "model override for the selected provider")
	root.PersistentFlags().StringVarP(&flagOutput, "output", "o", "", "output directory for reports")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "disable the response cache")

	root.AddCommand(
		newResearchCmd(),
		newCodeReviewCmd(),
		newDataAnalysisCmd(),
		newWorkflowCmd(),
		newListCmd(),
	)

	return root
}

// loadConfig builds the effective configuration: file and env first,
// then flag overrides, then a final validation pass.
func loadConfig() (*config.Config, error) {
	config.LoadDotenv()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	if flagProvider != "" {
		cfg.Provider = flagProvider
	}
	if flagModel != "" {
		cfg.Model = flagModel
	}
	if flagOutput != "" {
		cfg.OutputDir = flagOutput
	}
	if flagVerbose {
		cfg.Verbose = true
	}
	if flagNoCache {
		cfg.CacheEnabled = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// buildRunner wires the provider, cache, and logger into a Runner
func buildRunner() (*agent.Runner, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg.Verbose)

	provider, err := providers.Resolve(cfg.Provider)
	if err != nil {
		return nil, err
	}

	var store *cache.Store
	if cfg.CacheEnabled {
		store, err = cache.New(cfg.CacheDir, cfg.CacheTTL)
		if err != nil {
			return nil, err
		}
	}

	return agent.NewRunner(provider, store, cfg, logger), nil
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// printResult prints the report and a short stats footer
func printResult(cmd *cobra.Command, header string, res *agent.Result) {
	if header != "" {
		divider := "============================================================"
		cmd.Printf("\n%s\n%s\n%s\n\n", divider, header, divider)
	}
	cmd.Println(res.Content)
	if res.OutputPath != "" {
		cmd.Printf("\nSaved: %s\n", res.OutputPath)
	}
}
