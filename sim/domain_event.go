package sim

// DomainEventKind tags a DomainEvent variant. Listeners subscribe by kind.
type DomainEventKind string

const (
	EventStarted         DomainEventKind = "started"
	EventStopped         DomainEventKind = "stopped"
	EventMove            DomainEventKind = "move"
	EventPickupStarted   DomainEventKind = "pickup-started"
	EventPickupEnded     DomainEventKind = "pickup-ended"
	EventDeliveryStarted DomainEventKind = "delivery-started"
	EventDeliveryEnded   DomainEventKind = "delivery-ended"
)

// AllDomainEventKinds lists every kind a Runtime may emit.
var AllDomainEventKinds = []DomainEventKind{
	EventStarted, EventStopped, EventMove,
	EventPickupStarted, EventPickupEnded,
	EventDeliveryStarted, EventDeliveryEnded,
}

// DomainEvent is emitted by a Runtime while it advances simulated time.
type DomainEvent interface {
	Timestamp() Instant
	Kind() DomainEventKind
	isDomainEvent()
}

// Started is emitted once when the runtime starts advancing time.
type Started struct{ Time Instant }

// Stopped is emitted once when the runtime stops advancing time.
type Stopped struct{ Time Instant }

// Moved reports that Entity traveled Distance units during the tick ending at Time.
type Moved struct {
	Time     Instant
	Entity   EntityID
	Distance float64
}

// PickupStarted is emitted when a vehicle begins servicing a parcel's pickup.
type PickupStarted struct {
	Time    Instant
	Vehicle EntityID
	Parcel  *Parcel
}

// PickupEnded is emitted when a pickup service completes.
type PickupEnded struct {
	Time    Instant
	Vehicle EntityID
	Parcel  *Parcel
}

// DeliveryStarted is emitted when a vehicle begins servicing a parcel's delivery.
type DeliveryStarted struct {
	Time    Instant
	Vehicle EntityID
	Parcel  *Parcel
}

// DeliveryEnded is emitted when a delivery service completes.
type DeliveryEnded struct {
	Time    Instant
	Vehicle EntityID
	Parcel  *Parcel
}

func (e Started) Timestamp() Instant         { return e.Time }
func (e Stopped) Timestamp() Instant         { return e.Time }
func (e Moved) Timestamp() Instant           { return e.Time }
func (e PickupStarted) Timestamp() Instant   { return e.Time }
func (e PickupEnded) Timestamp() Instant     { return e.Time }
func (e DeliveryStarted) Timestamp() Instant { return e.Time }
func (e DeliveryEnded) Timestamp() Instant   { return e.Time }

func (Started) Kind() DomainEventKind         { return EventStarted }
func (Stopped) Kind() DomainEventKind         { return EventStopped }
func (Moved) Kind() DomainEventKind           { return EventMove }
func (PickupStarted) Kind() DomainEventKind   { return EventPickupStarted }
func (PickupEnded) Kind() DomainEventKind     { return EventPickupEnded }
func (DeliveryStarted) Kind() DomainEventKind { return EventDeliveryStarted }
func (DeliveryEnded) Kind() DomainEventKind   { return EventDeliveryEnded }

func (Started) isDomainEvent()         {}
func (Stopped) isDomainEvent()         {}
func (Moved) isDomainEvent()           {}
func (PickupStarted) isDomainEvent()   {}
func (PickupEnded) isDomainEvent()     {}
func (DeliveryStarted) isDomainEvent() {}
func (DeliveryEnded) isDomainEvent()   {}
