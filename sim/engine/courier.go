package engine

import (
	"github.com/sirupsen/logrus"

	"github.com/pdp-sim/pdp-sim/sim"
)

// CourierState is the phase a Courier is in.
type CourierState string

const (
	CourierIdle       CourierState = "idle"
	CourierToPickup   CourierState = "to-pickup"
	CourierPickingUp  CourierState = "picking-up"
	CourierToDelivery CourierState = "to-delivery"
	CourierDelivering CourierState = "delivering"
)

// Courier is a greedy single-load vehicle: when idle it claims the nearest
// available parcel, drives to it, picks it up, drives to its destination and
// delivers it. It waits on site for a window that has not opened yet. With
// nothing to claim it heads back to the nearest depot.
type Courier struct {
	id       sim.EntityID
	pos      sim.Point
	speed    float64
	capacity float64

	state  CourierState
	parcel *sim.Parcel
	served int
}

var _ Vehicle = (*Courier)(nil)

// NewCourier builds an idle courier at the descriptor's start position.
func NewCourier(d sim.VehicleDescriptor) *Courier {
	return &Courier{
		id:       sim.NewEntityID("vehicle"),
		pos:      d.StartPosition,
		speed:    d.Speed,
		capacity: d.Capacity,
		state:    CourierIdle,
	}
}

// ID implements sim.Entity.
func (c *Courier) ID() sim.EntityID { return c.id }

// Position returns the courier's current position.
func (c *Courier) Position() sim.Point { return c.pos }

// State returns the courier's current phase.
func (c *Courier) State() CourierState { return c.state }

// Served returns the number of parcels this courier has delivered.
func (c *Courier) Served() int { return c.served }

// Tick implements Vehicle.
func (c *Courier) Tick(s *Simulator, dt sim.Instant) {
	if c.state == CourierIdle {
		p, ok := s.ClaimNearestParcel(c.pos, c.capacity)
		if !ok {
			if d, ok := s.NearestDepot(c.pos); ok {
				c.pos, _ = s.Move(c.id, c.pos, d.Position, c.speed, dt)
			}
			return
		}
		c.parcel = p
		c.state = CourierToPickup
		logrus.Debugf("[t=%d] %s claimed %s", s.CurrentTime(), c.id, p.ID())
	}

	switch c.state {
	case CourierToPickup:
		var arrived bool
		c.pos, arrived = s.Move(c.id, c.pos, c.parcel.Descriptor.PickupLocation, c.speed, dt)
		if arrived && s.StartPickup(c, c.parcel) {
			c.state = CourierPickingUp
		}
	case CourierToDelivery:
		var arrived bool
		c.pos, arrived = s.Move(c.id, c.pos, c.parcel.Descriptor.DeliveryLocation, c.speed, dt)
		if arrived && s.StartDelivery(c, c.parcel) {
			c.state = CourierDelivering
		}
	}
}

// ServiceCompleted implements Vehicle.
func (c *Courier) ServiceCompleted(s *Simulator, p *sim.Parcel) {
	switch c.state {
	case CourierPickingUp:
		c.state = CourierToDelivery
	case CourierDelivering:
		c.served++
		c.parcel = nil
		c.state = CourierIdle
	default:
		logrus.Warnf("[t=%d] %s got a completion for %s while %s", s.CurrentTime(), c.id, p.ID(), c.state)
	}
}
