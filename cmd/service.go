package cmd

import (
	"fmt"
	"os"

	"github.com/kayz/sift/internal/service"
	"github.com/spf13/cobra"
)

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage the sift service",
	Long:  `Install, uninstall, start, stop, or check the status of the sift service.`,
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install sift serve as a system service",
	Long:  `Install sift serve as a system service using the current --config (requires root/admin privileges).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		execPath, err := os.Executable()
		if err != nil {
			return fmt.Errorf("error getting executable path: %w", err)
		}

		fmt.Println("Installing sift service...")
		if err := service.Install(execPath, cfg.Path()); err != nil {
			return fmt.Errorf("error installing service: %w", err)
		}
		fmt.Println("Service installed successfully!")
		return nil
	},
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Uninstall the sift service",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Uninstalling sift service...")
		if err := service.Uninstall(); err != nil {
			return fmt.Errorf("error uninstalling service: %w", err)
		}
		fmt.Println("Service uninstalled successfully!")
		return nil
	},
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the sift service",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := service.Start(); err != nil {
			return fmt.Errorf("error starting service: %w", err)
		}
		fmt.Println("Service started!")
		return nil
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the sift service",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := service.Stop(); err != nil {
			return fmt.Errorf("error stopping service: %w", err)
		}
		fmt.Println("Service stopped!")
		return nil
	},
}

var restartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the sift service",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := service.Restart(); err != nil {
			return fmt.Errorf("error restarting service: %w", err)
		}
		fmt.Println("Service restarted!")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the status of the sift service",
	Run: func(cmd *cobra.Command, args []string) {
		binaryPath, definitionPath, err := service.Paths()
		if err != nil {
			fmt.Println(err)
			return
		}

		fmt.Println("=== sift Service Status ===")
		fmt.Println()
		fmt.Printf("Installed: %v\n", service.IsInstalled())
		fmt.Printf("Running:   %v\n", service.IsRunning())
		fmt.Println()
		fmt.Printf("Binary:    %s\n", binaryPath)
		fmt.Printf("Config:    %s\n", definitionPath)
	},
}

func init() {
	rootCmd.AddCommand(serviceCmd)
	serviceCmd.AddCommand(installCmd)
	serviceCmd.AddCommand(uninstallCmd)
	serviceCmd.AddCommand(startCmd)
	serviceCmd.AddCommand(stopCmd)
	serviceCmd.AddCommand(restartCmd)
	serviceCmd.AddCommand(statusCmd)
}
