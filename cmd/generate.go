package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pdp-sim/pdp-sim/sim/scenario"
)

var (
	seed        int64  // Seed for scenario generation
	presetsPath string // presets.yaml location
	presetName  string // Named preset to start from
	outPath     string // Output scenario file; stdout when empty
	genParcels  int
	genVehicles int
	genDepots   int
	genHorizon  int64
	genName     string // Scenario name written into the file
)

// generateCmd writes a seeded random scenario file
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a random scenario file",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := generatorConfig(presetsPath, presetName)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		// Explicit flags win over the preset; unchanged flags must not clobber it.
		if cmd.Flags().Changed("parcels") {
			cfg.Parcels = genParcels
		}
		if cmd.Flags().Changed("vehicles") {
			cfg.Vehicles = genVehicles
		}
		if cmd.Flags().Changed("depots") {
			cfg.Depots = genDepots
		}
		if cmd.Flags().Changed("horizon") {
			cfg.Horizon = genHorizon
		}
		if cmd.Flags().Changed("name") {
			cfg.Name = genName
		}

		f, err := scenario.Generate(cfg, seed)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if outPath == "" {
			data, err := yaml.Marshal(f)
			if err != nil {
				logrus.Fatalf("Encoding scenario: %v", err)
			}
			_, _ = cmd.OutOrStdout().Write(data)
			return
		}
		if err := scenario.Save(outPath, f); err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Infof("Wrote scenario %q with %d parcels to %s", f.Name, len(f.Parcels), outPath)
	},
}

func registerGenerateFlags(c *cobra.Command) {
	defaults := scenario.DefaultGeneratorConfig()
	c.Flags().Int64Var(&seed, "seed", 42, "Seed for random scenario generation")
	c.Flags().StringVar(&presetsPath, "presets", "presets.yaml", "Path to presets file")
	c.Flags().StringVar(&presetName, "preset", "", "Preset to start from (built-in defaults when empty)")
	c.Flags().StringVar(&outPath, "out", "", "Output file (stdout when empty)")
	c.Flags().IntVar(&genParcels, "parcels", defaults.Parcels, "Number of parcels")
	c.Flags().IntVar(&genVehicles, "vehicles", defaults.Vehicles, "Number of vehicles")
	c.Flags().IntVar(&genDepots, "depots", defaults.Depots, "Number of depots")
	c.Flags().Int64Var(&genHorizon, "horizon", defaults.Horizon, "Scenario length in simulated time units")
	c.Flags().StringVar(&genName, "name", defaults.Name, "Scenario name")
}
