package sim

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdp-sim/pdp-sim/sim/trace"
)

// DispatcherState is the lifecycle state of a ScenarioDispatcher.
type DispatcherState int

const (
	StateIdle DispatcherState = iota
	StateRunning
	StateTimedOut
)

func (s DispatcherState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateTimedOut:
		return "timed-out"
	default:
		return fmt.Sprintf("DispatcherState(%d)", int(s))
	}
}

// ScenarioHandler supplies the problem-specific parts of a scenario.
type ScenarioHandler interface {
	// HandleAddVehicle builds a vehicle from the event and registers it with rt.
	HandleAddVehicle(rt Runtime, ev AddVehicle) bool
	// HandleTimeOut runs after rt has been asked to stop.
	HandleTimeOut(rt Runtime) bool
}

// ParcelCreator registers the parcel described by an AddParcel event.
type ParcelCreator func(rt Runtime, ev AddParcel) bool

// DepotCreator registers the depot described by an AddDepot event.
type DepotCreator func(rt Runtime, ev AddDepot) bool

// DefaultParcelCreator registers a new Parcel built from the event's descriptor.
func DefaultParcelCreator(rt Runtime, ev AddParcel) bool {
	return rt.Register(NewParcel(ev.Parcel))
}

// DefaultDepotCreator registers a new Depot at the event's position.
func DefaultDepotCreator(rt Runtime, ev AddDepot) bool {
	return rt.Register(NewDepot(ev.Position))
}

// DispatcherOption configures a ScenarioDispatcher.
type DispatcherOption func(*ScenarioDispatcher)

// WithParcelCreator replaces DefaultParcelCreator.
func WithParcelCreator(fn ParcelCreator) DispatcherOption {
	return func(d *ScenarioDispatcher) { d.createParcel = fn }
}

// WithDepotCreator replaces DefaultDepotCreator.
func WithDepotCreator(fn DepotCreator) DispatcherOption {
	return func(d *ScenarioDispatcher) { d.createDepot = fn }
}

// WithTrace records every dispatch decision into tr.
func WithTrace(tr *trace.DispatchTrace) DispatcherOption {
	return func(d *ScenarioDispatcher) { d.trace = tr }
}

// WithWallClock overrides the wall clock used for computation time.
func WithWallClock(now func() time.Time) DispatcherOption {
	return func(d *ScenarioDispatcher) { d.now = now }
}

// ScenarioDispatcher drives one run: it feeds an ordered TimedEvent stream to a
// Runtime, routes each event to its handler and produces the final statistics.
//
// States: idle -> running on the first dispatched event, running -> timed-out on
// TimeOut. timed-out is terminal. Not safe for concurrent use.
type ScenarioDispatcher struct {
	rt           Runtime
	handler      ScenarioHandler
	aggregator   *MetricsAggregator
	createParcel ParcelCreator
	createDepot  DepotCreator
	trace        *trace.DispatchTrace
	now          func() time.Time

	state        DispatcherState
	addedParcels int
	rejected     []TimedEvent
	final        *StatisticsSnapshot
	timedOutAt   Instant
}

// NewScenarioDispatcher builds the runtime for a run and subscribes the metrics
// aggregator to it before any event is dispatched. It fails with ErrConfiguration
// if the runtime cannot be built or no handler is given.
func NewScenarioDispatcher(factory RuntimeFactory, handler ScenarioHandler, opts ...DispatcherOption) (*ScenarioDispatcher, error) {
	if handler == nil {
		return nil, fmt.Errorf("%w: no scenario handler", ErrConfiguration)
	}
	if factory == nil {
		return nil, fmt.Errorf("%w: no runtime factory", ErrConfiguration)
	}
	rt, err := factory()
	if err != nil {
		return nil, fmt.Errorf("%w: creating runtime: %v", ErrConfiguration, err)
	}
	if rt == nil {
		return nil, fmt.Errorf("%w: runtime factory returned nil", ErrConfiguration)
	}

	d := &ScenarioDispatcher{
		rt:           rt,
		handler:      handler,
		createParcel: DefaultParcelCreator,
		createDepot:  DefaultDepotCreator,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.aggregator = NewMetricsAggregator(rt, d.now)
	return d, nil
}

// Run dispatches events in order and returns the statistics of the run.
//
// Handler failures do not stop the run; they are listed by Rejected. Dispatching
// an event after TimeOut fails with ErrInvalidState, and the returned snapshot is
// the one finalized at TimeOut. A stream without TimeOut leaves the run open: the
// returned snapshot is partial and the caller may Dispatch a TimeOut later.
func (d *ScenarioDispatcher) Run(events []TimedEvent) (StatisticsSnapshot, error) {
	for i, ev := range events {
		if _, err := d.Dispatch(ev); err != nil {
			return d.Snapshot(), fmt.Errorf("event %d of %d: %w", i+1, len(events), err)
		}
	}
	if d.state != StateTimedOut {
		logrus.Warnf("event stream ended at %d without a time-out; statistics are partial", d.rt.CurrentTime())
	}
	return d.Snapshot(), nil
}

// Dispatch applies a single event. The bool reports whether the event's handler
// applied it. The only error is ErrInvalidState, after the run has timed out.
func (d *ScenarioDispatcher) Dispatch(ev TimedEvent) (bool, error) {
	if d.state == StateTimedOut {
		return false, fmt.Errorf("%w: %s dispatched after time-out at %d",
			ErrInvalidState, describe(ev), d.timedOutAt)
	}
	if ev == nil {
		logrus.Warn("nil timed event ignored")
		return false, nil
	}
	if d.state == StateIdle {
		d.rt.Start()
		d.state = StateRunning
		logrus.Infof("[t=%d] run started", d.rt.CurrentTime())
	}

	if ev.Timestamp() < d.rt.CurrentTime() {
		logrus.Debugf("[t=%d] %s is behind the clock; applying now", d.rt.CurrentTime(), describe(ev))
	}
	d.rt.AdvanceTo(ev.Timestamp())
	logrus.Debugf("[t=%d] dispatching %s", d.rt.CurrentTime(), describe(ev))

	applied := d.handle(ev)
	if !applied {
		d.rejected = append(d.rejected, ev)
		logrus.Warnf("[t=%d] %s was not applied", d.rt.CurrentTime(), describe(ev))
	}
	if d.trace != nil {
		d.trace.RecordDispatch(trace.DispatchRecord{
			Kind:    string(ev.Kind()),
			Clock:   d.rt.CurrentTime(),
			EventAt: ev.Timestamp(),
			Applied: applied,
		})
	}
	return applied, nil
}

func (d *ScenarioDispatcher) handle(ev TimedEvent) bool {
	switch e := ev.(type) {
	case AddParcel:
		// counted before registration so the report reflects scenario input
		d.addedParcels++
		return d.createParcel(d.rt, e)
	case AddVehicle:
		return d.handler.HandleAddVehicle(d.rt, e)
	case AddDepot:
		return d.createDepot(d.rt, e)
	case TimeOut:
		d.rt.Stop()
		ok := d.handler.HandleTimeOut(d.rt)
		d.finalize(e.Time)
		return ok
	default:
		panic(fmt.Sprintf("unhandled timed event %T", ev))
	}
}

func (d *ScenarioDispatcher) finalize(at Instant) {
	snap := d.aggregator.Snapshot(d.addedParcels)
	d.final = &snap
	d.timedOutAt = at
	d.state = StateTimedOut
	logrus.Infof("[t=%d] run timed out: %d parcels, %d pickups, %d deliveries",
		d.rt.CurrentTime(), snap.AddedParcels, snap.TotalPickups, snap.TotalDeliveries)
}

// Snapshot returns the final statistics once timed out, or in-progress figures before.
func (d *ScenarioDispatcher) Snapshot() StatisticsSnapshot {
	if d.final != nil {
		return *d.final
	}
	return d.aggregator.Snapshot(d.addedParcels)
}

// State returns the current lifecycle state.
func (d *ScenarioDispatcher) State() DispatcherState { return d.state }

// AddedParcels returns the number of AddParcel events dispatched so far.
func (d *ScenarioDispatcher) AddedParcels() int { return d.addedParcels }

// Rejected returns the events whose handler reported failure, in dispatch order.
func (d *ScenarioDispatcher) Rejected() []TimedEvent {
	return append([]TimedEvent(nil), d.rejected...)
}

// Runtime returns the runtime driven by this dispatcher.
func (d *ScenarioDispatcher) Runtime() Runtime { return d.rt }

// Metrics returns the aggregator observing this run.
func (d *ScenarioDispatcher) Metrics() *MetricsAggregator { return d.aggregator }

func describe(ev TimedEvent) string {
	if ev == nil {
		return "<nil>"
	}
	return DescribeTimedEvent(ev)
}
