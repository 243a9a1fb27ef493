package scenario

import (
	"fmt"
	"math"

	"github.com/pdp-sim/pdp-sim/sim"
)

// GeneratorConfig parameterizes Generate.
type GeneratorConfig struct {
	Name            string
	Parcels         int
	Vehicles        int
	Depots          int
	PlaneSize       float64     // side of the square plane, origin at (0,0)
	Horizon         sim.Instant // scenario length
	TickLength      sim.Instant
	Speed           float64     // vehicle speed, distance units per unit of time
	ServiceDuration sim.Instant // pickup and delivery duration
	WindowLength    sim.Instant // length of each pickup and delivery window
}

// DefaultGeneratorConfig is a small one-hour scenario on a 10x10 plane with millisecond ticks.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Name:            "generated",
		Parcels:         20,
		Vehicles:        3,
		Depots:          1,
		PlaneSize:       10,
		Horizon:         3_600_000,
		TickLength:      1000,
		Speed:           0.0005,
		ServiceDuration: 60_000,
		WindowLength:    600_000,
	}
}

// Validate checks that counts are non-negative and sizes positive.
func (c GeneratorConfig) Validate() error {
	if c.Parcels < 0 || c.Vehicles < 0 || c.Depots < 0 {
		return fmt.Errorf("entity counts must be non-negative, got parcels=%d vehicles=%d depots=%d",
			c.Parcels, c.Vehicles, c.Depots)
	}
	if c.PlaneSize <= 0 {
		return fmt.Errorf("plane size must be positive, got %g", c.PlaneSize)
	}
	if c.Horizon <= 0 {
		return fmt.Errorf("horizon must be positive, got %d", c.Horizon)
	}
	if c.Speed <= 0 {
		return fmt.Errorf("speed must be positive, got %g", c.Speed)
	}
	if c.ServiceDuration < 0 || c.WindowLength < 0 || c.TickLength < 0 {
		return fmt.Errorf("durations must be non-negative")
	}
	return nil
}

// Generate creates a random scenario. Deterministic given the same config and seed.
//
// Depots and vehicles are present from time 0, vehicles starting at a depot when
// there is one. Parcels are announced during the first half of the horizon; the
// pickup window opens some time after announcement and the delivery window opens
// once a direct trip from pickup to delivery could have completed.
func Generate(cfg GeneratorConfig, seed int64) (*File, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generator config: %w", err)
	}
	rng := newPartitionedRNG(seed)
	locRNG := rng.forSubsystem(SubsystemLocations)
	point := func() sim.Point {
		return sim.Point{
			X: math.Round(locRNG.Float64()*cfg.PlaneSize*100) / 100,
			Y: math.Round(locRNG.Float64()*cfg.PlaneSize*100) / 100,
		}
	}

	f := &File{
		Name:       cfg.Name,
		TickLength: cfg.TickLength,
		TimeWindow: sim.TimeWindow{Begin: 0, End: cfg.Horizon},
		Bounds:     &Bounds{Max: sim.Point{X: cfg.PlaneSize, Y: cfg.PlaneSize}},
	}
	for i := 0; i < cfg.Depots; i++ {
		f.Depots = append(f.Depots, DepotSpec{Position: point()})
	}

	fleetRNG := rng.forSubsystem(SubsystemFleet)
	for i := 0; i < cfg.Vehicles; i++ {
		start := sim.Point{X: fleetRNG.Float64() * cfg.PlaneSize, Y: fleetRNG.Float64() * cfg.PlaneSize}
		if len(f.Depots) > 0 {
			start = f.Depots[i%len(f.Depots)].Position
		}
		f.Vehicles = append(f.Vehicles, VehicleSpec{Start: start, Speed: cfg.Speed, Capacity: 1})
	}

	arrRNG := rng.forSubsystem(SubsystemArrivals)
	winRNG := rng.forSubsystem(SubsystemWindows)
	for i := 0; i < cfg.Parcels; i++ {
		at := sim.Instant(arrRNG.Int63n(int64(cfg.Horizon/2) + 1))
		pickup, delivery := point(), point()
		pickupBegin := at + sim.Instant(winRNG.Int63n(int64(cfg.Horizon/4)+1))
		travel := sim.Instant(math.Ceil(sim.Distance(pickup, delivery) / cfg.Speed))
		deliveryBegin := pickupBegin + cfg.ServiceDuration + travel
		f.Parcels = append(f.Parcels, ParcelSpec{
			At:               at,
			Pickup:           pickup,
			Delivery:         delivery,
			PickupWindow:     sim.TimeWindow{Begin: pickupBegin, End: pickupBegin + cfg.WindowLength},
			DeliveryWindow:   sim.TimeWindow{Begin: deliveryBegin, End: deliveryBegin + cfg.WindowLength},
			PickupDuration:   cfg.ServiceDuration,
			DeliveryDuration: cfg.ServiceDuration,
			Size:             1,
		})
	}

	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("generated scenario is invalid: %w", err)
	}
	return f, nil
}
