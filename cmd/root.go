package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/agent-sim/agent-sim/sim"
)

var (
	// CLI flags shared by run and validate
	scenarioPath    string   // YAML scenario file (optional)
	modelName       string   // matching | load
	seed            int64    // Seed for the run's random source
	steps           int      // Number of rounds after setup
	agents          int      // Population size
	strategy        string   // Interest strategy for the matching model
	selectivity     float64  // Percentage of the pool each agent nominates
	capacity        float64  // Per-round processing capacity for the load model
	maxDemand       int      // Raw demand bound (0 = derive from factor)
	maxDemandFactor float64  // Demand bound as a multiple of capacity
	reports         []string // Metrics to report at the end of the run

	// run-only flags
	logLevel    string // Log verbosity level
	resultsPath string // File to write the full results JSON to
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "agent-sim",
	Short: "Round-based simulator for matching markets and load backlogs",
}

// runCmd executes the simulation using a scenario file and CLI overrides
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		scenario, err := resolveScenario(cmd)
		if err != nil {
			logrus.Fatalf("Failed to resolve scenario: %v", err)
		}
		logrus.Infof("Starting %s simulation with %d agents, steps=%d, seed=%d",
			scenario.Model, scenario.Agents, scenario.Steps, scenario.Seed)

		startTime := time.Now()
		st, reps, err := sim.RunScenario(scenario)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}

		results := NewResults(scenario, st, reps, time.Since(startTime))
		results.Print(os.Stdout)
		if resultsPath != "" {
			if err := results.Save(resultsPath); err != nil {
				logrus.Fatalf("Failed to write results: %v", err)
			}
			logrus.Infof("Results written to %s", resultsPath)
		}

		logrus.Info("Simulation complete.")
	},
}

// validateCmd checks a scenario without running it
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a scenario and CLI overrides without running",
	RunE: func(cmd *cobra.Command, args []string) error {
		scenario, err := resolveScenario(cmd)
		if err != nil {
			return err
		}
		if err := scenario.Validate(); err != nil {
			return err
		}
		cmd.Printf("scenario OK: model=%s agents=%d steps=%d\n", scenario.Model, scenario.Agents, scenario.Steps)
		return nil
	},
}

// resolveScenario loads the base scenario (file or model defaults) and applies
// only the flags the user explicitly set.
func resolveScenario(cmd *cobra.Command) (*sim.Scenario, error) {
	var scenario sim.Scenario
	if scenarioPath != "" {
		loaded, err := sim.LoadScenario(scenarioPath)
		if err != nil {
			return nil, err
		}
		scenario = *loaded
		if cmd.Flags().Changed("model") && modelName != scenario.Model {
			logrus.Warnf("--model=%s overrides scenario model %q; model-specific sections are kept", modelName, scenario.Model)
			scenario.Model = modelName
		}
	} else {
		scenario = sim.DefaultScenario(modelName)
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		scenario.Seed = seed
	}
	if flags.Changed("steps") {
		scenario.Steps = steps
	}
	if flags.Changed("agents") {
		scenario.Agents = agents
	}
	if flags.Changed("strategy") {
		scenario.Matching.Strategy = strategy
	}
	if flags.Changed("selectivity") {
		scenario.Matching.Selectivity = selectivity
	}
	if flags.Changed("capacity") {
		scenario.Load.ProcessingCapacity = capacity
	}
	if flags.Changed("max-demand") {
		scenario.Load.MaxDemand = maxDemand
	}
	if flags.Changed("max-demand-factor") {
		scenario.Load.MaxDemandFactor = maxDemandFactor
	}
	if flags.Changed("report") {
		scenario.Reports = reports
	}
	return &scenario, nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerScenarioFlags binds the scenario flags to c.
func registerScenarioFlags(c *cobra.Command) {
	c.Flags().StringVar(&scenarioPath, "config", "", "Path to a YAML scenario file")
	c.Flags().StringVar(&modelName, "model", sim.ModelMatching, "Model to run (matching, load)")
	c.Flags().Int64Var(&seed, "seed", 42, "Seed for the run's random source")
	c.Flags().IntVar(&steps, "steps", 0, "Number of rounds after setup")
	c.Flags().IntVar(&agents, "agents", 0, "Population size")

	// matching model
	c.Flags().StringVar(&strategy, "strategy", string(sim.StrategyPartitioned), "Interest strategy (unrestricted, partitioned)")
	c.Flags().Float64Var(&selectivity, "selectivity", 0, "Percentage of the pool each agent nominates [0, 100]")

	// load model
	c.Flags().Float64Var(&capacity, "capacity", 0, "Per-round processing capacity")
	c.Flags().IntVar(&maxDemand, "max-demand", 0, "Raw demand bound (0 = derive from --max-demand-factor)")
	c.Flags().Float64Var(&maxDemandFactor, "max-demand-factor", 0, "Demand bound as a multiple of capacity")

	c.Flags().StringSliceVar(&reports, "report", nil, "Metrics to report at the end of the run (default: model-specific)")
}

// init sets up CLI flags and subcommands
func init() {
	registerScenarioFlags(runCmd)
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&resultsPath, "results", "", "Write the full results JSON to this file")

	registerScenarioFlags(validateCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
}
