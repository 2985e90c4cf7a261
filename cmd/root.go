// Package cmd defines command-line interface commands for blender-launch.
package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var version string

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "blender-launch",
	Short: "Discover and launch installed Blender versions",
	Long: `blender-launch finds Blender installations on disk, filters them against
the minimum supported version, and launches a chosen executable with the
pipeline bootstrap environment. With --terminal the launch happens in a
new visible Terminal window so stdout/stderr stay on screen.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

// Execute runs the root CLI command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI.
func SetVersion(v string) {
	version = v
	rootCmd.Version = version
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(launchCmd)
}
