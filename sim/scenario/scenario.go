// Package scenario reads and writes scenario files and turns them into the
// ordered TimedEvent stream consumed by sim.ScenarioDispatcher.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/pdp-sim/pdp-sim/sim"
)

// File is the YAML representation of a scenario.
type File struct {
	Name       string         `yaml:"name"`
	TickLength sim.Instant    `yaml:"tick_length"`
	TimeWindow sim.TimeWindow `yaml:"time_window"`
	Bounds     *Bounds        `yaml:"bounds,omitempty"`
	Depots     []DepotSpec    `yaml:"depots"`
	Vehicles   []VehicleSpec  `yaml:"vehicles"`
	Parcels    []ParcelSpec   `yaml:"parcels"`
}

// Bounds is the rectangle vehicles and parcels live in.
type Bounds struct {
	Min sim.Point `yaml:"min"`
	Max sim.Point `yaml:"max"`
}

// DepotSpec adds a depot at time At.
type DepotSpec struct {
	At       sim.Instant `yaml:"at"`
	Position sim.Point   `yaml:"position"`
}

// VehicleSpec adds a vehicle at time At.
type VehicleSpec struct {
	At       sim.Instant `yaml:"at"`
	Start    sim.Point   `yaml:"start"`
	Speed    float64     `yaml:"speed"`
	Capacity float64     `yaml:"capacity"`
}

// ParcelSpec announces a parcel at time At.
type ParcelSpec struct {
	At               sim.Instant    `yaml:"at"`
	Pickup           sim.Point      `yaml:"pickup"`
	Delivery         sim.Point      `yaml:"delivery"`
	PickupWindow     sim.TimeWindow `yaml:"pickup_window"`
	DeliveryWindow   sim.TimeWindow `yaml:"delivery_window"`
	PickupDuration   sim.Instant    `yaml:"pickup_duration"`
	DeliveryDuration sim.Instant    `yaml:"delivery_duration"`
	Size             float64        `yaml:"size"`
}

// Descriptor returns the parcel as a sim.ParcelDescriptor.
func (p ParcelSpec) Descriptor() sim.ParcelDescriptor {
	return sim.ParcelDescriptor{
		PickupLocation:   p.Pickup,
		DeliveryLocation: p.Delivery,
		PickupWindow:     p.PickupWindow,
		DeliveryWindow:   p.DeliveryWindow,
		PickupDuration:   p.PickupDuration,
		DeliveryDuration: p.DeliveryDuration,
		Size:             p.Size,
	}
}

// Load reads and validates a scenario file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes a scenario with strict field checking, so typos are errors, and validates it.
func Parse(data []byte) (*File, error) {
	var f File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Save writes f as YAML to path.
func Save(path string, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encoding scenario: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing scenario: %w", err)
	}
	return nil
}

// Validate checks windows, durations, speeds and that every entity appears
// within the scenario's time window.
func (f *File) Validate() error {
	if f.TickLength < 0 {
		return fmt.Errorf("tick_length must be non-negative, got %d", f.TickLength)
	}
	if !f.TimeWindow.Valid() {
		return fmt.Errorf("time_window %s: begin after end", f.TimeWindow)
	}
	if f.Bounds != nil && (f.Bounds.Min.X > f.Bounds.Max.X || f.Bounds.Min.Y > f.Bounds.Max.Y) {
		return fmt.Errorf("bounds min %s exceed max %s", f.Bounds.Min, f.Bounds.Max)
	}
	for i, d := range f.Depots {
		if !f.TimeWindow.Contains(d.At) {
			return fmt.Errorf("depots[%d]: at %d outside time_window %s", i, d.At, f.TimeWindow)
		}
	}
	for i, v := range f.Vehicles {
		if !f.TimeWindow.Contains(v.At) {
			return fmt.Errorf("vehicles[%d]: at %d outside time_window %s", i, v.At, f.TimeWindow)
		}
		if v.Speed <= 0 {
			return fmt.Errorf("vehicles[%d]: speed must be positive, got %g", i, v.Speed)
		}
		if v.Capacity < 0 {
			return fmt.Errorf("vehicles[%d]: capacity must be non-negative, got %g", i, v.Capacity)
		}
	}
	for i, p := range f.Parcels {
		if !f.TimeWindow.Contains(p.At) {
			return fmt.Errorf("parcels[%d]: at %d outside time_window %s", i, p.At, f.TimeWindow)
		}
		if err := p.Descriptor().Validate(); err != nil {
			return fmt.Errorf("parcels[%d]: %w", i, err)
		}
	}
	return nil
}

// Events returns the scenario as a TimedEvent stream in non-decreasing time
// order. At equal times depots come first, then vehicles, then parcels, each in
// file order. The stream ends with a TimeOut at the end of the time window.
func (f *File) Events() []sim.TimedEvent {
	events := make([]sim.TimedEvent, 0, len(f.Depots)+len(f.Vehicles)+len(f.Parcels)+1)
	for _, d := range f.Depots {
		events = append(events, sim.AddDepot{Time: d.At, Position: d.Position})
	}
	for _, v := range f.Vehicles {
		events = append(events, sim.AddVehicle{Time: v.At, Vehicle: sim.VehicleDescriptor{
			StartPosition: v.Start,
			Speed:         v.Speed,
			Capacity:      v.Capacity,
		}})
	}
	for _, p := range f.Parcels {
		events = append(events, sim.AddParcel{Time: p.At, Parcel: p.Descriptor()})
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp() < events[j].Timestamp()
	})
	return append(events, sim.TimeOut{Time: f.TimeWindow.End})
}
