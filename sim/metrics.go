// Tracks run-wide performance figures: distance traveled, completed pickups and
// deliveries, time-window tardiness and run durations.

package sim

import (
	"fmt"
	"math"
	"sync"
	"time"
)

// RunningTotals are the figures a MetricsAggregator accumulates during a run.
type RunningTotals struct {
	TotalDistance     float64
	TotalPickups      int
	TotalDeliveries   int
	PickupTardiness   int64
	DeliveryTardiness int64
	ComputationTime   time.Duration // wall clock between Started and Stopped
	SimulationTime    Instant       // simulated time between Started and Stopped
}

// MetricsAggregator maintains RunningTotals from the domain event feed of a Runtime.
// It subscribes itself at construction and its state can only be read, through
// Snapshot and the distance queries.
type MetricsAggregator struct {
	now func() time.Time

	// mu guards all fields below; Snapshot may be read from an exporter goroutine.
	mu           sync.Mutex
	totals       RunningTotals
	distances    map[EntityID]float64
	started      bool
	stopped      bool
	startWall    time.Time
	startSim     Instant
	rejectedMove int
}

// NewMetricsAggregator creates an aggregator and subscribes it to every domain event
// kind of rt. now supplies wall-clock time; nil means time.Now.
func NewMetricsAggregator(rt Runtime, now func() time.Time) *MetricsAggregator {
	if now == nil {
		now = time.Now
	}
	m := &MetricsAggregator{
		now:       now,
		distances: make(map[EntityID]float64),
	}
	if rt != nil {
		rt.Subscribe(m, AllDomainEventKinds...)
	}
	return m
}

// HandleEvent implements Listener. Malformed events are rejected with an error
// wrapping ErrInvalidEvent and leave the totals untouched.
func (m *MetricsAggregator) HandleEvent(ev DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch e := ev.(type) {
	case Started:
		if m.started && !m.stopped {
			return fmt.Errorf("%w: started at %d while a run started at %d is still open",
				ErrInvalidEvent, e.Time, m.startSim)
		}
		m.started, m.stopped = true, false
		m.startWall = m.now()
		m.startSim = e.Time
	case Stopped:
		if !m.started || m.stopped {
			return fmt.Errorf("%w: stopped at %d without a matching start", ErrInvalidEvent, e.Time)
		}
		m.stopped = true
		m.totals.ComputationTime = m.now().Sub(m.startWall)
		m.totals.SimulationTime = e.Time - m.startSim
	case Moved:
		if e.Distance < 0 || math.IsNaN(e.Distance) || math.IsInf(e.Distance, 0) {
			m.rejectedMove++
			return fmt.Errorf("%w: entity %s moved an invalid distance %g", ErrInvalidEvent, e.Entity, e.Distance)
		}
		m.distances[e.Entity] += e.Distance
		m.totals.TotalDistance += e.Distance
	case PickupStarted:
		if e.Parcel == nil {
			return fmt.Errorf("%w: pickup started at %d without a parcel", ErrInvalidEvent, e.Time)
		}
		m.totals.PickupTardiness += lateness(e.Time, e.Parcel.Descriptor.LatestOnTimePickupStart())
	case PickupEnded:
		m.totals.TotalPickups++
	case DeliveryStarted:
		if e.Parcel == nil {
			return fmt.Errorf("%w: delivery started at %d without a parcel", ErrInvalidEvent, e.Time)
		}
		m.totals.DeliveryTardiness += lateness(e.Time, e.Parcel.Descriptor.LatestOnTimeDeliveryStart())
	case DeliveryEnded:
		m.totals.TotalDeliveries++
	default:
		return fmt.Errorf("%w: unsupported domain event %T", ErrInvalidEvent, ev)
	}
	return nil
}

// lateness is how far at lies after deadline, or 0.
func lateness(at, deadline Instant) int64 {
	if at > deadline {
		return at - deadline
	}
	return 0
}

// Snapshot returns an immutable copy of the current totals, combined with the
// number of parcels the dispatcher has added. It may be called mid-run.
func (m *MetricsAggregator) Snapshot(addedParcels int) StatisticsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return StatisticsSnapshot{RunningTotals: m.totals, AddedParcels: addedParcels}
}

// DistanceOf returns the distance traveled so far by one entity.
func (m *MetricsAggregator) DistanceOf(id EntityID) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.distances[id]
}

// Distances returns a copy of the per-entity distance map.
func (m *MetricsAggregator) Distances() map[EntityID]float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[EntityID]float64, len(m.distances))
	for id, d := range m.distances {
		out[id] = d
	}
	return out
}

// RejectedMoves counts Moved events dropped for carrying a negative, NaN or infinite distance.
func (m *MetricsAggregator) RejectedMoves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rejectedMove
}
