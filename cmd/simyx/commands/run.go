package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/SIMYX/config"
	"github.com/teranos/SIMYX/domains"
	"github.com/teranos/SIMYX/exp"
	"github.com/teranos/SIMYX/sym"
)

var (
	runModel        string
	runWorkers      int
	runReplications int
	runSeed         uint64
	runOutput       string
	runWatch        bool
)

// RunCmd represents the run command
var RunCmd = &cobra.Command{
	Use:   "run <scenario>",
	Short: sym.Run + " Run a scenario",
	Long: sym.Run + ` run — Execute a scenario file

Loads a TOML or YAML scenario, builds the model it names, and runs the
configured number of replications on a worker pool. Each replication
gets its own kernel seeded with base_seed + replication index, so runs
reproduce exactly.

Examples:
  simyx run flu.toml                    # Run a scenario
  simyx run flu.toml --replications 64  # Override the replication count
  simyx run flu.toml --watch            # Re-run whenever the file changes`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	RunCmd.Flags().StringVar(&runModel, "model", "", "Model to run (overrides the scenario's model field)")
	RunCmd.Flags().IntVar(&runWorkers, "workers", 0, "Concurrent replication workers (overrides scenario)")
	RunCmd.Flags().IntVar(&runReplications, "replications", 0, "Replication count (overrides scenario)")
	RunCmd.Flags().Uint64Var(&runSeed, "seed", 0, "Base seed (overrides scenario)")
	RunCmd.Flags().StringVar(&runOutput, "output", "", "Output directory (overrides scenario)")
	RunCmd.Flags().BoolVar(&runWatch, "watch", false, "Re-run the scenario whenever the file changes")
}

func runRun(cmd *cobra.Command, args []string) error {
	path := args[0]

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !runWatch {
		return runScenarioFile(ctx, path)
	}

	// Watch mode: run now, then once per change until interrupted.
	var mu sync.Mutex
	runOnce := func() {
		mu.Lock()
		defer mu.Unlock()
		if err := runScenarioFile(ctx, path); err != nil {
			pterm.Warning.Printf("Run failed: %v\n", err)
		}
	}

	runOnce()

	watcher, err := exp.WatchFile(path, runOnce)
	if err != nil {
		return err
	}
	defer watcher.Stop()
	watcher.Start()

	pterm.Info.Printf("Watching %s for changes (Ctrl+C to stop)\n", path)
	<-ctx.Done()
	return nil
}

func runScenarioFile(ctx context.Context, path string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	scenario, err := exp.LoadScenario(path)
	if err != nil {
		return err
	}
	applyOverrides(scenario, cfg)

	modelName := scenario.Model
	if runModel != "" {
		modelName = runModel
	}
	if modelName == "" {
		return fmt.Errorf("scenario %s names no model (set model = \"...\" or pass --model); available: %v", path, domains.List())
	}

	domain, ok := domains.Get(modelName)
	if !ok {
		return fmt.Errorf("unknown model %q; available: %v", modelName, domains.List())
	}

	if scenario.OutputDir != "" {
		if err := os.MkdirAll(scenario.OutputDir, config.DefaultDirPermissions); err != nil {
			return fmt.Errorf("creating output directory %s: %w", scenario.OutputDir, err)
		}
	}

	model, err := domain.Model(scenario)
	if err != nil {
		return err
	}

	result, err := exp.NewRunner(scenario, model).Run(ctx)
	if err != nil {
		return err
	}

	printResult(result)
	return nil
}

// applyOverrides layers config defaults and CLI flags over the scenario
func applyOverrides(s *exp.Scenario, cfg *config.Config) {
	if s.OutputDir == "" {
		s.OutputDir = cfg.GetOutputDir()
	}
	if s.Workers == 0 {
		s.Workers = cfg.Run.Workers
	}
	if runWorkers > 0 {
		s.Workers = runWorkers
	}
	if runReplications > 0 {
		s.Replications = runReplications
	}
	if runSeed != 0 {
		s.BaseSeed = runSeed
	}
	if runOutput != "" {
		s.OutputDir = runOutput
	}
}

func printResult(result *exp.Result) {
	elapsed := result.Elapsed.Round(time.Millisecond)
	if result.Failed() == 0 {
		pterm.Success.Printf("Run %s complete: %d replications in %s\n",
			result.RunID, result.Completed, elapsed)
	} else {
		pterm.Warning.Printf("Run %s finished with failures: %d completed, %d failed in %s\n",
			result.RunID, result.Completed, result.Failed(), elapsed)
		for _, failure := range result.Failures {
			pterm.Printf("  %s replication %d: %v\n", pterm.Red("✗"), failure.Replication, failure.Err)
		}
	}
	if result.Scenario.OutputDir != "" {
		pterm.Printf("  %s output in %s\n", pterm.Gray("→"), result.Scenario.OutputDir)
	}
}
