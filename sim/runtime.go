package sim

// Listener receives domain events from a Runtime. A returned error means the
// event was rejected by this listener; the runtime logs it and carries on.
type Listener interface {
	HandleEvent(ev DomainEvent) error
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(ev DomainEvent) error

// HandleEvent implements Listener.
func (f ListenerFunc) HandleEvent(ev DomainEvent) error { return f(ev) }

// Runtime is the simulation engine driven by a ScenarioDispatcher. It owns the
// clock, the movement model and the pickup-and-delivery model.
//
// All methods are called from a single goroutine, and listeners are invoked
// synchronously from within Start, AdvanceTo and Stop.
type Runtime interface {
	// Register adds a parcel, vehicle or depot. It returns false if the entity was not accepted.
	Register(e Entity) bool
	// CurrentTime returns the current simulated time.
	CurrentTime() Instant
	// Subscribe delivers events of the given kinds to l, in emission order.
	Subscribe(l Listener, kinds ...DomainEventKind)
	// Start begins the run and emits Started.
	Start()
	// AdvanceTo moves simulated time forward to t, emitting domain events on the way.
	// It is a no-op if t is not after CurrentTime or the runtime has been stopped.
	AdvanceTo(t Instant)
	// Stop halts time advancement and emits Stopped. Later calls are no-ops.
	Stop()
}

// RuntimeFactory constructs the Runtime for one run.
type RuntimeFactory func() (Runtime, error)
