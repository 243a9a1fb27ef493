// Package sim provides the control and measurement layer of a pickup-and-delivery
// simulation.
//
// # Reading Guide
//
// Start with these files:
//   - event.go: TimedEvent variants (AddParcel, AddVehicle, AddDepot, TimeOut) read from a scenario
//   - domain_event.go: events emitted by a Runtime while it advances time
//   - dispatcher.go: ScenarioDispatcher, which drives a Runtime through one run
//   - metrics.go: MetricsAggregator, which turns the domain event feed into running totals
//   - statistics.go: StatisticsSnapshot and its text report
//
// # Architecture
//
// The sim package defines the Runtime collaborator interface; the clock, road and
// pickup-and-delivery models live behind it. Implementations and tooling live in
// sub-packages:
//   - sim/engine/: tick-driven reference Runtime with straight-line couriers
//   - sim/scenario/: scenario files and seeded scenario generation
//   - sim/trace/: dispatch decision trace
//   - sim/observe/: Prometheus export of run statistics
//
// # Key Interfaces
//
//   - Runtime: entity registration, current time, start/advance/stop, event subscription
//   - ScenarioHandler: the problem-specific AddVehicle and TimeOut handling
//   - Listener: consumer of domain events
package sim
