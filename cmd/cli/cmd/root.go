// Package cmd provides the CLI commands for election-check.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"election-check/internal/config"
	"election-check/internal/logging"
)

// Version is set at build time with -ldflags "-X election-check/cmd/cli/cmd.Version=..."
var Version = "0.1.0"

// ErrRejected is returned when a dataset record was rejected. The report
// has already been printed.
var ErrRejected = errors.New("dataset rejected")

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "election-check",
	Short: "Validate French electoral poll and results datasets",
	Long: `election-check validates poll and election results datasets against
their invariants before they are published or modeled.

Polls are checked against a reference configuration (candidate roster,
pollsters, methods, valid period). Results are checked for consistent
tallies. Validation stops at the first rejected record.

Examples:
  election-check validate sondages/presidentielle-2022.json
  election-check validate --kind results --format json resultats/
  election-check reference show --election presidentielle-2022`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (json, yaml or toml; default is ./election-check.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(referenceCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	path := cfgFile
	if path == "" {
		path = "election-check.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	config.Set(cfg)

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "election-check version %s\n", Version)
	},
}
