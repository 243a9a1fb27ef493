package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/pdp-sim/pdp-sim/sim"
	"github.com/pdp-sim/pdp-sim/sim/engine"
	"github.com/pdp-sim/pdp-sim/sim/scenario"
	"github.com/pdp-sim/pdp-sim/sim/trace"
)

// courierScenario serves every vehicle with a greedy engine.Courier.
type courierScenario struct{}

var _ sim.ScenarioHandler = courierScenario{}

// HandleAddVehicle implements sim.ScenarioHandler.
func (courierScenario) HandleAddVehicle(rt sim.Runtime, ev sim.AddVehicle) bool {
	return rt.Register(engine.NewCourier(ev.Vehicle))
}

// HandleTimeOut implements sim.ScenarioHandler. It logs how far each courier got.
func (courierScenario) HandleTimeOut(rt sim.Runtime) bool {
	s, ok := rt.(*engine.Simulator)
	if !ok {
		return true
	}
	for _, v := range s.Vehicles() {
		if c, ok := v.(*engine.Courier); ok {
			logrus.Infof("[t=%d] courier %s served %d parcels, ended %s at %s",
				s.CurrentTime(), c.ID(), c.Served(), c.State(), c.Position())
		}
	}
	if n := s.PendingParcels(); n > 0 {
		logrus.Infof("[t=%d] %d parcels never claimed", s.CurrentTime(), n)
	}
	return true
}

// runResult is the outcome of one scenario run.
type runResult struct {
	Name     string
	Snapshot sim.StatisticsSnapshot
	Trace    *trace.DispatchTrace
	Rejected int
}

// engineConfig maps scenario metadata onto the reference runtime.
func engineConfig(f *scenario.File) engine.Config {
	cfg := engine.Config{
		TickLength: f.TickLength,
		StartTime:  f.TimeWindow.Begin,
	}
	if f.Bounds != nil {
		cfg.Min, cfg.Max = f.Bounds.Min, f.Bounds.Max
	}
	return cfg
}

// runScenario drives f to completion on a fresh engine.Simulator.
func runScenario(f *scenario.File) (runResult, error) {
	tr := trace.NewDispatchTrace()
	d, err := sim.NewScenarioDispatcher(engine.Factory(engineConfig(f)), courierScenario{}, sim.WithTrace(tr))
	if err != nil {
		return runResult{}, fmt.Errorf("scenario %q: %w", f.Name, err)
	}
	snap, err := d.Run(f.Events())
	if err != nil {
		return runResult{}, fmt.Errorf("scenario %q: %w", f.Name, err)
	}
	return runResult{
		Name:     f.Name,
		Snapshot: snap,
		Trace:    tr,
		Rejected: len(d.Rejected()),
	}, nil
}
