// Package cmd provides Cobra CLI commands for neuralweb.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/neuralweb/neuralweb/internal/cli"
	"github.com/neuralweb/neuralweb/internal/domain/build"
)

var (
	app       *cli.App
	buildInfo build.Info
	rootCmd   = &cobra.Command{
		Use:   "neuralweb",
		Short: "A keyboard-driven browser shell",
		Long: `NeuralWeb - a browser shell that orchestrates tabs and rendering surfaces.

Tabs are lightweight registry entries; rendering surfaces are allocated
lazily, reused across navigations, and torn down when a tab leaves
content-bearing territory. Session state survives restarts.

Use 'neuralweb browse' to launch the shell, or explore the subcommands
for CLI-based operations like history search and session management.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch cmd.Name() {
			case "help", "completion", "version":
				return nil
			}

			var err error
			app, err = cli.NewApp()
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			app.BuildInfo = buildInfo
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// browseCmd is a placeholder for help - actual execution is in main.go.
var browseCmd = &cobra.Command{
	Use:   "browse [url]",
	Short: "Launch the browser shell",
	Long: `Launch the browser shell.

If a URL is provided, open it in the first tab. Otherwise, open the
homepage or restore the previous session.

Examples:
  neuralweb browse                  # Open shell at homepage
  neuralweb browse example.com      # Open shell at URL`,
	Run: func(_ *cobra.Command, _ []string) {
		// Handled by main.go before cobra runs.
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("neuralweb %s\n", buildInfo.Version)
		fmt.Printf("commit: %s\n", buildInfo.Commit)
		fmt.Printf("built: %s\n", buildInfo.BuildDate)
		fmt.Printf("go: %s\n", buildInfo.GoVersion)
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(versionCmd)
}

// SetBuildInfo sets the build information (called from main.go before
// Execute).
func SetBuildInfo(info build.Info) {
	buildInfo = info
}
