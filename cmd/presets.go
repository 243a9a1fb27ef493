package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pdp-sim/pdp-sim/sim"
	"github.com/pdp-sim/pdp-sim/sim/scenario"
)

// PresetsFile represents the full presets.yaml structure.
type PresetsFile struct {
	Version string            `yaml:"version"`
	Presets map[string]Preset `yaml:"presets"`
}

// Preset overrides fields of scenario.DefaultGeneratorConfig. Absent fields keep the default.
type Preset struct {
	Parcels         *int         `yaml:"parcels"`
	Vehicles        *int         `yaml:"vehicles"`
	Depots          *int         `yaml:"depots"`
	PlaneSize       *float64     `yaml:"plane_size"`
	Horizon         *sim.Instant `yaml:"horizon"`
	TickLength      *sim.Instant `yaml:"tick_length"`
	Speed           *float64     `yaml:"speed"`
	ServiceDuration *sim.Instant `yaml:"service_duration"`
	WindowLength    *sim.Instant `yaml:"window_length"`
}

// apply copies the fields set in p onto cfg.
func (p Preset) apply(cfg *scenario.GeneratorConfig) {
	setIf(&cfg.Parcels, p.Parcels)
	setIf(&cfg.Vehicles, p.Vehicles)
	setIf(&cfg.Depots, p.Depots)
	setIf(&cfg.PlaneSize, p.PlaneSize)
	setIf(&cfg.Horizon, p.Horizon)
	setIf(&cfg.TickLength, p.TickLength)
	setIf(&cfg.Speed, p.Speed)
	setIf(&cfg.ServiceDuration, p.ServiceDuration)
	setIf(&cfg.WindowLength, p.WindowLength)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// loadPresets parses a presets file with strict field checking, so typos are errors.
func loadPresets(path string) (PresetsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PresetsFile{}, fmt.Errorf("reading presets file: %w", err)
	}
	var pf PresetsFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&pf); err != nil {
		return PresetsFile{}, fmt.Errorf("parsing presets YAML %s: %w", path, err)
	}
	return pf, nil
}

// generatorConfig resolves a named preset from path on top of the defaults.
// An empty name returns the defaults without reading path.
func generatorConfig(path, name string) (scenario.GeneratorConfig, error) {
	cfg := scenario.DefaultGeneratorConfig()
	if name == "" {
		return cfg, nil
	}
	pf, err := loadPresets(path)
	if err != nil {
		return cfg, err
	}
	p, ok := pf.Presets[name]
	if !ok {
		return cfg, fmt.Errorf("preset %q not found in %s", name, path)
	}
	p.apply(&cfg)
	cfg.Name = name
	return cfg, nil
}
