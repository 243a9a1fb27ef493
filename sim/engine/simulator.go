// Package engine provides a tick-driven reference Runtime: vehicles move in a
// straight line on a plane and pickups and deliveries are allowed to be tardy.
package engine

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/pdp-sim/pdp-sim/sim"
)

// DefaultTickLength is the simulated time advanced per step when Config.TickLength is 0.
const DefaultTickLength sim.Instant = 1000

// Config parameterizes a Simulator.
type Config struct {
	TickLength sim.Instant // simulated time per step; 0 means DefaultTickLength
	StartTime  sim.Instant
	// Min and Max bound the plane. Both zero means unbounded.
	Min, Max sim.Point
}

func (c Config) bounded() bool {
	return c.Min != (sim.Point{}) || c.Max != (sim.Point{})
}

func (c Config) contains(p sim.Point) bool {
	if !c.bounded() {
		return true
	}
	return p.X >= c.Min.X && p.X <= c.Max.X && p.Y >= c.Min.Y && p.Y <= c.Max.Y
}

// Vehicle is a moving entity driven by the Simulator on every step.
type Vehicle interface {
	sim.Entity
	// Tick lets the vehicle act during a step of length dt ending at s.CurrentTime().
	Tick(s *Simulator, dt sim.Instant)
	// ServiceCompleted is called when a pickup or delivery started by the vehicle ends.
	ServiceCompleted(s *Simulator, p *sim.Parcel)
}

// Simulator is the reference sim.Runtime. It holds simulation time, the
// registered entities and the pending service completions.
type Simulator struct {
	cfg     Config
	clock   sim.Instant
	started bool
	stopped bool

	listeners map[sim.DomainEventKind][]sim.Listener

	// available parcels in registration order; claimed parcels are removed
	available []*sim.Parcel
	parcels   map[sim.EntityID]*sim.Parcel
	depots    map[sim.EntityID]*sim.Depot
	depotList []*sim.Depot
	vehicles  []Vehicle
	byID      map[sim.EntityID]Vehicle

	completions completionHeap
	StepCount   int
}

var _ sim.Runtime = (*Simulator)(nil)

// NewSimulator validates cfg and returns an idle Simulator.
func NewSimulator(cfg Config) (*Simulator, error) {
	if cfg.TickLength < 0 {
		return nil, fmt.Errorf("tick length must be non-negative, got %d", cfg.TickLength)
	}
	if cfg.TickLength == 0 {
		cfg.TickLength = DefaultTickLength
	}
	if cfg.bounded() && (cfg.Min.X > cfg.Max.X || cfg.Min.Y > cfg.Max.Y) {
		return nil, fmt.Errorf("plane bounds min %s exceed max %s", cfg.Min, cfg.Max)
	}
	return &Simulator{
		cfg:       cfg,
		clock:     cfg.StartTime,
		listeners: make(map[sim.DomainEventKind][]sim.Listener),
		parcels:   make(map[sim.EntityID]*sim.Parcel),
		depots:    make(map[sim.EntityID]*sim.Depot),
		byID:      make(map[sim.EntityID]Vehicle),
	}, nil
}

// Factory returns a sim.RuntimeFactory building a Simulator from cfg.
func Factory(cfg Config) sim.RuntimeFactory {
	return func() (sim.Runtime, error) {
		return NewSimulator(cfg)
	}
}

// CurrentTime implements sim.Runtime.
func (s *Simulator) CurrentTime() sim.Instant { return s.clock }

// Subscribe implements sim.Runtime.
func (s *Simulator) Subscribe(l sim.Listener, kinds ...sim.DomainEventKind) {
	if l == nil {
		panic("Simulator.Subscribe: nil listener")
	}
	for _, k := range kinds {
		s.listeners[k] = append(s.listeners[k], l)
	}
}

// Register implements sim.Runtime. Parcels, depots and Vehicles are accepted;
// anything registered after Stop, twice, or outside the plane bounds is refused.
func (s *Simulator) Register(e sim.Entity) bool {
	if s.stopped || e == nil {
		return false
	}
	switch v := e.(type) {
	case *sim.Parcel:
		if _, dup := s.parcels[v.ID()]; dup {
			return false
		}
		if err := v.Descriptor.Validate(); err != nil {
			logrus.Warnf("[t=%d] parcel %s refused: %v", s.clock, v.ID(), err)
			return false
		}
		if !s.cfg.contains(v.Descriptor.PickupLocation) || !s.cfg.contains(v.Descriptor.DeliveryLocation) {
			logrus.Warnf("[t=%d] parcel %s refused: location outside plane", s.clock, v.ID())
			return false
		}
		s.parcels[v.ID()] = v
		s.available = append(s.available, v)
	case *sim.Depot:
		if _, dup := s.depots[v.ID()]; dup || !s.cfg.contains(v.Position) {
			return false
		}
		s.depots[v.ID()] = v
		s.depotList = append(s.depotList, v)
	case Vehicle:
		if _, dup := s.byID[v.ID()]; dup {
			return false
		}
		s.vehicles = append(s.vehicles, v)
		s.byID[v.ID()] = v
	default:
		return false
	}
	logrus.Debugf("[t=%d] registered %s", s.clock, e.ID())
	return true
}

// Start implements sim.Runtime.
func (s *Simulator) Start() {
	if s.started {
		logrus.Warnf("[t=%d] simulator already started", s.clock)
		return
	}
	s.started = true
	s.emit(sim.Started{Time: s.clock})
}

// AdvanceTo implements sim.Runtime. Time moves in steps of at most TickLength;
// on each step due service completions fire first, then every vehicle ticks in
// registration order.
func (s *Simulator) AdvanceTo(t sim.Instant) {
	if !s.started || s.stopped {
		return
	}
	for s.clock < t {
		next := min(s.clock+s.cfg.TickLength, t)
		dt := next - s.clock
		s.clock = next
		s.StepCount++
		logrus.Tracef("[t=%07d] step %d", s.clock, s.StepCount)
		for {
			c, ok := s.completions.popDue(s.clock)
			if !ok {
				break
			}
			s.complete(c)
		}
		for _, v := range s.vehicles {
			v.Tick(s, dt)
		}
	}
}

// Stop implements sim.Runtime.
func (s *Simulator) Stop() {
	if s.stopped {
		return
	}
	s.stopped = true
	s.emit(sim.Stopped{Time: s.clock})
}

func (s *Simulator) emit(ev sim.DomainEvent) {
	for _, l := range s.listeners[ev.Kind()] {
		if err := l.HandleEvent(ev); err != nil {
			logrus.Warnf("[t=%d] %s rejected by listener: %v", s.clock, ev.Kind(), err)
		}
	}
}

// ClaimNearestParcel hands the closest available parcel whose size fits capacity
// to the caller. capacity <= 0 means unlimited.
func (s *Simulator) ClaimNearestParcel(from sim.Point, capacity float64) (*sim.Parcel, bool) {
	best := -1
	bestDist := math.Inf(1)
	for i, p := range s.available {
		if capacity > 0 && p.Descriptor.Size > capacity {
			continue
		}
		if d := sim.Distance(from, p.Descriptor.PickupLocation); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return nil, false
	}
	p := s.available[best]
	s.available = append(s.available[:best], s.available[best+1:]...)
	return p, true
}

// Move advances vehicle id from 'from' toward 'to' at speed for dt and emits a
// Moved event for the distance covered. It returns the new position and whether
// the target was reached.
func (s *Simulator) Move(id sim.EntityID, from, to sim.Point, speed float64, dt sim.Instant) (sim.Point, bool) {
	remaining := sim.Distance(from, to)
	budget := speed * float64(dt)
	if budget <= 0 {
		return from, remaining == 0
	}
	if budget >= remaining {
		if remaining > 0 {
			s.emit(sim.Moved{Time: s.clock, Entity: id, Distance: remaining})
		}
		return to, true
	}
	f := budget / remaining
	pos := sim.Point{X: from.X + f*(to.X-from.X), Y: from.Y + f*(to.Y-from.Y)}
	s.emit(sim.Moved{Time: s.clock, Entity: id, Distance: budget})
	return pos, false
}

// StartPickup begins the pickup service of p by v. It ends after the parcel's
// pickup duration, when v.ServiceCompleted is called. Services may start late
// but never before their window opens; an early call returns false and v is
// expected to wait and try again.
func (s *Simulator) StartPickup(v Vehicle, p *sim.Parcel) bool {
	tw := p.Descriptor.PickupWindow
	if !tw.HasOpened(s.clock) {
		return false
	}
	if tw.IsLate(s.clock) {
		logrus.Debugf("[t=%d] pickup of %s starts after window %s", s.clock, p.ID(), tw)
	}
	s.emit(sim.PickupStarted{Time: s.clock, Vehicle: v.ID(), Parcel: p})
	s.completions.schedule(completion{at: s.clock + p.Descriptor.PickupDuration, vehicle: v, parcel: p, pickup: true})
	return true
}

// StartDelivery begins the delivery service of p by v, under the same window
// rule as StartPickup.
func (s *Simulator) StartDelivery(v Vehicle, p *sim.Parcel) bool {
	tw := p.Descriptor.DeliveryWindow
	if !tw.HasOpened(s.clock) {
		return false
	}
	if tw.IsLate(s.clock) {
		logrus.Debugf("[t=%d] delivery of %s starts after window %s", s.clock, p.ID(), tw)
	}
	s.emit(sim.DeliveryStarted{Time: s.clock, Vehicle: v.ID(), Parcel: p})
	s.completions.schedule(completion{at: s.clock + p.Descriptor.DeliveryDuration, vehicle: v, parcel: p})
	return true
}

func (s *Simulator) complete(c completion) {
	if c.pickup {
		s.emit(sim.PickupEnded{Time: s.clock, Vehicle: c.vehicle.ID(), Parcel: c.parcel})
	} else {
		s.emit(sim.DeliveryEnded{Time: s.clock, Vehicle: c.vehicle.ID(), Parcel: c.parcel})
	}
	c.vehicle.ServiceCompleted(s, c.parcel)
}

// PendingParcels returns the number of registered parcels not yet claimed.
func (s *Simulator) PendingParcels() int { return len(s.available) }

// NearestDepot returns the registered depot closest to from. Ties go to the
// earliest registered.
func (s *Simulator) NearestDepot(from sim.Point) (*sim.Depot, bool) {
	var best *sim.Depot
	bestDist := math.Inf(1)
	for _, d := range s.depotList {
		if dist := sim.Distance(from, d.Position); dist < bestDist {
			best, bestDist = d, dist
		}
	}
	return best, best != nil
}

// Vehicles returns the registered vehicles in registration order.
func (s *Simulator) Vehicles() []Vehicle {
	return append([]Vehicle(nil), s.vehicles...)
}
