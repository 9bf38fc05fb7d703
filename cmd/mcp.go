package cmd

import (
	"github.com/kayz/sift/internal/logger"
	"github.com/kayz/sift/internal/tools"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve web_search, record_evaluation and evaluation_stats over MCP stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		manager, err := newSearchManager()
		if err != nil {
			return err
		}

		toolset := tools.New(manager, store, cfg.Search.MaxResults, cfg.Search.MaxCharsPerResult)
		logger.Info("[MCP] serving %s %s on stdio", tools.ServerName, tools.ServerVersion)
		return server.ServeStdio(toolset.NewServer())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
