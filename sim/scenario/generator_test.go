package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdp-sim/pdp-sim/sim"
)

func TestGenerate_Deterministic(t *testing.T) {
	// GIVEN the same config and seed
	cfg := DefaultGeneratorConfig()

	// WHEN generated twice
	a, err := Generate(cfg, 42)
	require.NoError(t, err)
	b, err := Generate(cfg, 42)
	require.NoError(t, err)

	// THEN the scenarios are identical
	assert.Equal(t, a, b)

	c, err := Generate(cfg, 43)
	require.NoError(t, err)
	assert.NotEqual(t, a.Parcels, c.Parcels, "a different seed should move parcels")
}

func TestGenerate_ShapeAndValidity(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	cfg.Parcels, cfg.Vehicles, cfg.Depots = 50, 4, 2

	f, err := Generate(cfg, 7)
	require.NoError(t, err)

	require.NoError(t, f.Validate())
	assert.Len(t, f.Parcels, 50)
	assert.Len(t, f.Vehicles, 4)
	assert.Len(t, f.Depots, 2)
	for i, v := range f.Vehicles {
		assert.Equal(t, f.Depots[i%2].Position, v.Start, "vehicles start at depots")
	}
	for _, p := range f.Parcels {
		assert.LessOrEqual(t, p.At, cfg.Horizon/2)
		assert.GreaterOrEqual(t, p.PickupWindow.Begin, p.At)
		assert.Greater(t, p.DeliveryWindow.Begin, p.PickupWindow.Begin)
		assert.Equal(t, cfg.WindowLength, p.PickupWindow.Length())
	}
	events := f.Events()
	assert.Equal(t, sim.KindTimeOut, events[len(events)-1].Kind())
}

func TestGenerate_FleetSizeDoesNotMoveParcels(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	cfg.Depots = 0
	a, err := Generate(cfg, 3)
	require.NoError(t, err)

	cfg.Vehicles = 9
	b, err := Generate(cfg, 3)
	require.NoError(t, err)

	assert.Equal(t, a.Parcels, b.Parcels)
}

func TestGenerate_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *GeneratorConfig)
	}{
		{"negative parcels", func(c *GeneratorConfig) { c.Parcels = -1 }},
		{"zero plane", func(c *GeneratorConfig) { c.PlaneSize = 0 }},
		{"zero horizon", func(c *GeneratorConfig) { c.Horizon = 0 }},
		{"zero speed", func(c *GeneratorConfig) { c.Speed = 0 }},
		{"negative window", func(c *GeneratorConfig) { c.WindowLength = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultGeneratorConfig()
			tt.mutate(&cfg)
			_, err := Generate(cfg, 1)
			assert.Error(t, err)
		})
	}
}

func TestPartitionedRNG_SubsystemsAreIsolated(t *testing.T) {
	a := newPartitionedRNG(42)
	b := newPartitionedRNG(42)

	// drawing from one subsystem must not shift another
	_ = a.forSubsystem(SubsystemFleet).Int63()
	assert.Equal(t, b.forSubsystem(SubsystemArrivals).Int63(), a.forSubsystem(SubsystemArrivals).Int63())
	assert.Same(t, a.forSubsystem(SubsystemWindows), a.forSubsystem(SubsystemWindows))
}
