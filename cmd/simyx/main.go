package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/SIMYX/cmd/simyx/commands"
	"github.com/teranos/SIMYX/config"
	"github.com/teranos/SIMYX/domains"
	"github.com/teranos/SIMYX/domains/epidemic"
	"github.com/teranos/SIMYX/logger"
	"github.com/teranos/SIMYX/version"
)

var rootCmd = &cobra.Command{
	Use:   "simyx",
	Short: "SIMYX - Discrete-event agent-based simulation framework",
	Long: `SIMYX - Discrete-event agent-based simulation framework.

SIMYX runs replicated, seeded experiments of agent-based models on a
discrete-event kernel: entities carry typed properties, partitions keep
exact subpopulation indices, and reports stream to CSV or SQLite.

Available commands:
  run     - Run a scenario file
  models  - List the built-in simulation models
  config  - Manage SIMYX configuration
  version - Show version information

Examples:
  simyx run flu.toml           # Run a scenario
  simyx run flu.toml --watch   # Re-run whenever the file changes
  simyx models                 # List available models
  simyx config show            # Show effective configuration`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if verbosity == 0 {
			verbosity = cfg.Log.Verbosity
		}
		if err := logger.Initialize(verbosity, cfg.Log.JSON); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")

	initializeDomains()

	rootCmd.AddCommand(commands.RunCmd)
	rootCmd.AddCommand(commands.ModelsCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

// initializeDomains registers the models compiled into this binary
func initializeDomains() {
	registry := domains.NewRegistry(version.Version)
	domains.SetDefaultRegistry(registry)

	if err := registry.Register(epidemic.Domain()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to register epidemic model: %v\n", err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
