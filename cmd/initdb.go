package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var initdbCmd = &cobra.Command{
	Use:   "initdb",
	Short: "Create the evaluation database and its indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		color.New(color.FgGreen, color.Bold).Printf("SUCCESS: ")
		fmt.Printf("Database initialized at %s\n", cfg.Storage.Path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initdbCmd)
}
