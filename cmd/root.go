package cmd

import (
	"fmt"
	"os"

	"github.com/killallgit/ieeg-clips/pkg/config"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ieeg-clips",
	Short: "iEEG clip and annotation engine",
	Long: `iEEG Clip Engine - clip generation and annotation mapping for iEEG recordings

The engine tiles portal recordings into fixed-length clips, maps seizure
and event annotations onto them, classifies each clip as day or night,
and selects the interictal subset with an auditable exclusion list.

Commands:
  • serve    - run the HTTP API and background workers
  • sync     - pull the REDCap manifest and validation sheet
  • generate - run clip generation for stored datasets
  • migrate  - manage the database schema`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// NewRootCmd creates a new root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	// Set up configuration loading with lazy initialization
	cobra.OnInitialize(loadConfig)
}

// loadConfig loads the configuration when a command needs it
// This is called lazily only when a command that needs config runs
func loadConfig() {
	// Skip config loading for commands that don't need it
	cmd, _, _ := rootCmd.Find(os.Args[1:])
	if cmd != nil && (cmd.Name() == "version" || cmd.Name() == "help") {
		return
	}

	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
		os.Exit(1)
	}
}
