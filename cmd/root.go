package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pdp-sim/pdp-sim/sim/observe"
	"github.com/pdp-sim/pdp-sim/sim/scenario"
	"github.com/pdp-sim/pdp-sim/sim/trace"
)

// logLevelEnv overrides the --log default when the flag is not given explicitly.
const logLevelEnv = "PDPSIM_LOG"

var (
	logLevel        string // Log verbosity level
	scenarioPath    string // Scenario YAML file for `run`
	printTrace      bool   // Print the dispatch trace summary after a run
	metricsTextfile string // Prometheus textfile written after a run
	parallel        int    // Concurrent runs for `batch`
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:              "pdp-sim",
	Short:            "Pickup-and-delivery simulation driver",
	PersistentPreRun: setupLogging,
}

// setupLogging loads .env and sets the logrus level from --log or PDPSIM_LOG.
func setupLogging(cmd *cobra.Command, args []string) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found (using environment variables)")
	}
	level := logLevel
	if env := os.Getenv(logLevelEnv); env != "" && !cmd.Flags().Changed("log") {
		level = env
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", level)
	}
	logrus.SetLevel(lvl)
}

// runCmd executes one scenario file
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scenario and print its statistics",
	Run: func(cmd *cobra.Command, args []string) {
		if scenarioPath == "" {
			logrus.Fatalf("Scenario file not provided (--scenario). Exiting simulation.")
		}
		f, err := scenario.Load(scenarioPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Infof("Starting scenario %q: %d depots, %d vehicles, %d parcels, window %s",
			f.Name, len(f.Depots), len(f.Vehicles), len(f.Parcels), f.TimeWindow)

		res, err := runScenario(f)
		if err != nil {
			logrus.Fatalf("Run failed: %v", err)
		}
		if err := report(cmd, res); err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Info("Simulation complete.")
	},
}

// report prints a run's statistics and writes the optional outputs.
func report(cmd *cobra.Command, res runResult) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, res.Snapshot.ToText())
	if printTrace {
		s := trace.Summarize(res.Trace)
		fmt.Fprintf(out, "dispatched:\t\t\t%d (%d applied, %d rejected, max lag %d)\n",
			s.TotalDispatched, s.AppliedCount, s.RejectedCount, s.MaxLag)
		kinds := make([]string, 0, len(s.RejectedPerKind))
		for kind := range s.RejectedPerKind {
			kinds = append(kinds, kind)
		}
		sort.Strings(kinds)
		for _, kind := range kinds {
			fmt.Fprintf(out, "  rejected %s:\t\t%d\n", kind, s.RejectedPerKind[kind])
		}
	}
	if metricsTextfile != "" {
		if err := observe.WriteTextfile(metricsTextfile, res.Snapshot); err != nil {
			return err
		}
		logrus.Infof("Metrics written to %s", metricsTextfile)
	}
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Scenario YAML file")
	runCmd.Flags().BoolVar(&printTrace, "trace", false, "Print a summary of dispatch decisions")
	runCmd.Flags().StringVar(&metricsTextfile, "metrics-textfile", "", "Write final statistics in Prometheus text format to this file")

	batchCmd.Flags().IntVar(&parallel, "parallel", 4, "Maximum number of scenarios run concurrently")

	registerGenerateFlags(generateCmd)

	rootCmd.AddCommand(runCmd, batchCmd, generateCmd)
}
