package sim

import (
	"fmt"
	"time"
)

// fakeRuntime is a scripted Runtime. Tests inject domain events with emit;
// calls are logged in order so lifecycle sequencing can be asserted.
type fakeRuntime struct {
	clock      Instant
	started    bool
	stopped    bool
	accept     bool
	registered []Entity
	listeners  map[DomainEventKind][]Listener
	calls      []string
	rejections []error
}

func newFakeRuntime() *fakeRuntime {
	return &fakeRuntime{accept: true, listeners: make(map[DomainEventKind][]Listener)}
}

func (f *fakeRuntime) factory() RuntimeFactory {
	return func() (Runtime, error) { return f, nil }
}

func (f *fakeRuntime) Register(e Entity) bool {
	f.calls = append(f.calls, fmt.Sprintf("register@%d", f.clock))
	f.registered = append(f.registered, e)
	return f.accept
}

func (f *fakeRuntime) CurrentTime() Instant { return f.clock }

func (f *fakeRuntime) Subscribe(l Listener, kinds ...DomainEventKind) {
	for _, k := range kinds {
		f.listeners[k] = append(f.listeners[k], l)
	}
}

func (f *fakeRuntime) Start() {
	f.calls = append(f.calls, fmt.Sprintf("start@%d", f.clock))
	f.started = true
	f.emit(Started{Time: f.clock})
}

func (f *fakeRuntime) AdvanceTo(t Instant) {
	if f.started && !f.stopped && t > f.clock {
		f.clock = t
	}
}

func (f *fakeRuntime) Stop() {
	if f.stopped {
		return
	}
	f.calls = append(f.calls, fmt.Sprintf("stop@%d", f.clock))
	f.stopped = true
	f.emit(Stopped{Time: f.clock})
}

func (f *fakeRuntime) emit(ev DomainEvent) {
	for _, l := range f.listeners[ev.Kind()] {
		if err := l.HandleEvent(ev); err != nil {
			f.rejections = append(f.rejections, err)
		}
	}
}

// fakeScenario records the extension-point calls made by a dispatcher.
type fakeScenario struct {
	vehicles     []AddVehicle
	vehicleOK    bool
	timeouts     int
	timeoutOK    bool
	stoppedFirst bool
}

func newFakeScenario() *fakeScenario {
	return &fakeScenario{vehicleOK: true, timeoutOK: true}
}

func (s *fakeScenario) HandleAddVehicle(rt Runtime, ev AddVehicle) bool {
	s.vehicles = append(s.vehicles, ev)
	return s.vehicleOK
}

func (s *fakeScenario) HandleTimeOut(rt Runtime) bool {
	s.timeouts++
	if f, ok := rt.(*fakeRuntime); ok {
		s.stoppedFirst = f.stopped
	}
	return s.timeoutOK
}

// steppedClock returns a wall clock that advances by step on every call.
func steppedClock(start time.Time, step time.Duration) func() time.Time {
	now := start
	return func() time.Time {
		t := now
		now = now.Add(step)
		return t
	}
}

func testParcel(pickupBegin, pickupDur, deliveryBegin, deliveryDur Instant) *Parcel {
	return NewParcel(ParcelDescriptor{
		PickupWindow:     TimeWindow{Begin: pickupBegin, End: pickupBegin + 10},
		DeliveryWindow:   TimeWindow{Begin: deliveryBegin, End: deliveryBegin + 10},
		PickupDuration:   pickupDur,
		DeliveryDuration: deliveryDur,
	})
}
