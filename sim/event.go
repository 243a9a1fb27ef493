package sim

import "fmt"

// TimedEventKind tags a TimedEvent variant.
type TimedEventKind string

const (
	KindAddParcel  TimedEventKind = "add-parcel"
	KindAddVehicle TimedEventKind = "add-vehicle"
	KindAddDepot   TimedEventKind = "add-depot"
	KindTimeOut    TimedEventKind = "time-out"
)

// TimedEvent is an instruction from a scenario's input stream.
// The set of variants is closed: AddParcel, AddVehicle, AddDepot and TimeOut.
// Dispatch sites switch on the concrete type.
type TimedEvent interface {
	// Timestamp returns the simulated time at which the event applies.
	Timestamp() Instant
	// Kind returns the variant tag.
	Kind() TimedEventKind
	isTimedEvent()
}

// AddParcel registers a new parcel.
type AddParcel struct {
	Time   Instant
	Parcel ParcelDescriptor
}

func (e AddParcel) Timestamp() Instant   { return e.Time }
func (e AddParcel) Kind() TimedEventKind { return KindAddParcel }
func (AddParcel) isTimedEvent()          {}

// AddVehicle asks the concrete scenario to add a vehicle.
type AddVehicle struct {
	Time    Instant
	Vehicle VehicleDescriptor
}

func (e AddVehicle) Timestamp() Instant   { return e.Time }
func (e AddVehicle) Kind() TimedEventKind { return KindAddVehicle }
func (AddVehicle) isTimedEvent()          {}

// AddDepot registers a depot at Position.
type AddDepot struct {
	Time     Instant
	Position Point
}

func (e AddDepot) Timestamp() Instant   { return e.Time }
func (e AddDepot) Kind() TimedEventKind { return KindAddDepot }
func (AddDepot) isTimedEvent()          {}

// TimeOut ends the run. No event may follow it.
type TimeOut struct {
	Time Instant
}

func (e TimeOut) Timestamp() Instant   { return e.Time }
func (e TimeOut) Kind() TimedEventKind { return KindTimeOut }
func (TimeOut) isTimedEvent()          {}

// DescribeTimedEvent renders an event for logs and traces.
func DescribeTimedEvent(ev TimedEvent) string {
	switch e := ev.(type) {
	case AddParcel:
		return fmt.Sprintf("%s@%d pickup=%s delivery=%s", e.Kind(), e.Time,
			e.Parcel.PickupLocation, e.Parcel.DeliveryLocation)
	case AddVehicle:
		return fmt.Sprintf("%s@%d start=%s speed=%g", e.Kind(), e.Time,
			e.Vehicle.StartPosition, e.Vehicle.Speed)
	case AddDepot:
		return fmt.Sprintf("%s@%d position=%s", e.Kind(), e.Time, e.Position)
	case TimeOut:
		return fmt.Sprintf("%s@%d", e.Kind(), e.Time)
	default:
		return fmt.Sprintf("unknown(%T)", ev)
	}
}
