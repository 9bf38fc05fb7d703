package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/kayz/sift/internal/config"
	"github.com/kayz/sift/internal/logger"
	"github.com/kayz/sift/internal/persist"
	"github.com/kayz/sift/internal/search"
	"github.com/spf13/cobra"
)

var (
	logLevel   string
	configPath string

	cfg       *config.Config
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "sift",
	Short: "sift search result review service",
	Long: `sift runs web searches and records whether each result was correct.

Commands:
  sift serve         Run the web UI and JSON API
  sift initdb        Create the evaluation database
  sift search        Run one search from the terminal
  sift evaluations   List recorded evaluations
  sift mcp           Serve search and evaluation tools over MCP stdio`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}

		loaded, err := config.LoadFromPath(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		// Parse and set log level; the flag wins over the config file
		name := cfg.Logging.Level
		if cmd.Flags().Changed("log") || name == "" {
			name = logLevel
		}
		level, err := logger.ParseLevel(name)
		if err != nil {
			return err
		}
		logger.SetLevel(level)

		if cfg.Logging.File != "" {
			closer, err := logger.OpenFile(cfg.Logging.File)
			if err != nil {
				return err
			}
			logCloser = closer
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info",
		"Log level: trace, debug, info, warn, error, fatal, panic")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath,
		"Path to the YAML config file")
}

// openStore opens the evaluation database named in the config.
func openStore() (*persist.Store, error) {
	store, err := persist.NewStore(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", cfg.Storage.Path, err)
	}
	return store, nil
}

// newSearchManager builds the engine manager and, when configured, the
// planner used for agentic searches.
func newSearchManager() (*search.Manager, error) {
	manager, err := search.NewManager(cfg.Search, search.NewRegistry())
	if err != nil {
		return nil, err
	}
	if len(manager.ListEngines()) == 0 {
		logger.Warn("[Search] no engine has an API key; set PARALLEL_API_KEY or TAVILY_API_KEY")
	}

	planner, err := search.NewPlanner(cfg.Planner)
	if err != nil {
		return nil, err
	}
	if planner != nil {
		manager.SetPlanner(planner, cfg.Planner.MaxQueries)
		logger.Info("[Search] agentic planner: %s", cfg.Planner.Provider)
	}
	return manager, nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
