package sim

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// EntityID identifies a parcel, vehicle or depot for the lifetime of a run.
type EntityID string

// NewEntityID returns a fresh random identity with the given kind prefix, e.g. "parcel-<uuid>".
func NewEntityID(kind string) EntityID {
	return EntityID(kind + "-" + uuid.NewString())
}

// Entity is anything that can be registered with a Runtime.
type Entity interface {
	ID() EntityID
}

// Point is a position on the plane.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Distance returns the euclidean distance between p and q.
func Distance(p, q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

// ParcelDescriptor is the immutable description of a parcel as read from a scenario.
type ParcelDescriptor struct {
	PickupLocation   Point
	DeliveryLocation Point
	PickupWindow     TimeWindow
	DeliveryWindow   TimeWindow
	PickupDuration   Instant
	DeliveryDuration Instant
	Size             float64
}

// LatestOnTimePickupStart is PickupWindow.Begin - PickupDuration. A pickup that starts
// after this instant accrues tardiness.
func (d ParcelDescriptor) LatestOnTimePickupStart() Instant {
	return d.PickupWindow.Begin - d.PickupDuration
}

// LatestOnTimeDeliveryStart is DeliveryWindow.Begin - DeliveryDuration.
func (d ParcelDescriptor) LatestOnTimeDeliveryStart() Instant {
	return d.DeliveryWindow.Begin - d.DeliveryDuration
}

// Validate checks window ordering and that durations and size are non-negative.
func (d ParcelDescriptor) Validate() error {
	if !d.PickupWindow.Valid() {
		return fmt.Errorf("pickup window %s: begin after end", d.PickupWindow)
	}
	if !d.DeliveryWindow.Valid() {
		return fmt.Errorf("delivery window %s: begin after end", d.DeliveryWindow)
	}
	if d.PickupDuration < 0 || d.DeliveryDuration < 0 {
		return fmt.Errorf("service durations must be non-negative, got pickup=%d delivery=%d",
			d.PickupDuration, d.DeliveryDuration)
	}
	if d.Size < 0 {
		return fmt.Errorf("parcel size must be non-negative, got %g", d.Size)
	}
	return nil
}

// VehicleDescriptor describes a vehicle to be added by a scenario.
// How it becomes a moving entity is up to the concrete scenario.
type VehicleDescriptor struct {
	StartPosition Point
	Speed         float64 // distance units per unit of simulated time
	Capacity      float64
}

// Parcel is a registered parcel entity.
type Parcel struct {
	id         EntityID
	Descriptor ParcelDescriptor
}

// NewParcel wraps a descriptor in a new parcel entity with a fresh identity.
func NewParcel(d ParcelDescriptor) *Parcel {
	return &Parcel{id: NewEntityID("parcel"), Descriptor: d}
}

// ID implements Entity.
func (p *Parcel) ID() EntityID { return p.id }

// Depot is a registered depot entity.
type Depot struct {
	id       EntityID
	Position Point
}

// NewDepot returns a depot at the given position.
func NewDepot(pos Point) *Depot {
	return &Depot{id: NewEntityID("depot"), Position: pos}
}

// ID implements Entity.
func (d *Depot) ID() EntityID { return d.id }
