// Package observe exports run statistics as Prometheus metrics, either live
// through a Collector or once as a node-exporter textfile at the end of a run.
package observe

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pdp-sim/pdp-sim/sim"
)

const namespace = "pdpsim"

// StatisticsCollector is a prometheus.Collector that reads a fresh
// StatisticsSnapshot on every scrape.
type StatisticsCollector struct {
	snapshot func() sim.StatisticsSnapshot

	distance           *prometheus.Desc
	pickups            *prometheus.Desc
	deliveries         *prometheus.Desc
	addedParcels       *prometheus.Desc
	tardiness          *prometheus.Desc
	computationTime    *prometheus.Desc
	simulationTime     *prometheus.Desc
	pickupPercentage   *prometheus.Desc
	deliveryPercentage *prometheus.Desc
}

// NewStatisticsCollector returns a collector backed by snapshot, which must be
// safe to call from the scraping goroutine.
func NewStatisticsCollector(snapshot func() sim.StatisticsSnapshot) *StatisticsCollector {
	if snapshot == nil {
		panic("observe: nil snapshot func")
	}
	desc := func(name, help string, labels ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, labels, nil)
	}
	return &StatisticsCollector{
		snapshot:           snapshot,
		distance:           desc("traveled_distance_total", "Distance traveled by all vehicles."),
		pickups:            desc("pickups_total", "Completed pickups."),
		deliveries:         desc("deliveries_total", "Completed deliveries."),
		addedParcels:       desc("parcels_added_total", "Parcels announced by the scenario."),
		tardiness:          desc("tardiness_total", "Accumulated lateness in simulated time units.", "phase"),
		computationTime:    desc("computation_time_seconds", "Wall-clock duration of the run."),
		simulationTime:     desc("simulation_time", "Simulated duration of the run in time units."),
		pickupPercentage:   desc("pickup_percentage", "Rounded share of announced parcels picked up."),
		deliveryPercentage: desc("delivery_percentage", "Rounded share of announced parcels delivered."),
	}
}

// Describe implements prometheus.Collector.
func (c *StatisticsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.distance
	ch <- c.pickups
	ch <- c.deliveries
	ch <- c.addedParcels
	ch <- c.tardiness
	ch <- c.computationTime
	ch <- c.simulationTime
	ch <- c.pickupPercentage
	ch <- c.deliveryPercentage
}

// Collect implements prometheus.Collector. Percentages are omitted while no
// parcel has been announced.
func (c *StatisticsCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.snapshot()
	ch <- prometheus.MustNewConstMetric(c.distance, prometheus.CounterValue, s.TotalDistance)
	ch <- prometheus.MustNewConstMetric(c.pickups, prometheus.CounterValue, float64(s.TotalPickups))
	ch <- prometheus.MustNewConstMetric(c.deliveries, prometheus.CounterValue, float64(s.TotalDeliveries))
	ch <- prometheus.MustNewConstMetric(c.addedParcels, prometheus.CounterValue, float64(s.AddedParcels))
	ch <- prometheus.MustNewConstMetric(c.tardiness, prometheus.CounterValue, float64(s.PickupTardiness), "pickup")
	ch <- prometheus.MustNewConstMetric(c.tardiness, prometheus.CounterValue, float64(s.DeliveryTardiness), "delivery")
	ch <- prometheus.MustNewConstMetric(c.computationTime, prometheus.GaugeValue, s.ComputationTime.Seconds())
	ch <- prometheus.MustNewConstMetric(c.simulationTime, prometheus.GaugeValue, float64(s.SimulationTime))
	if pct, ok := s.PickupPercentage(); ok {
		ch <- prometheus.MustNewConstMetric(c.pickupPercentage, prometheus.GaugeValue, float64(pct))
	}
	if pct, ok := s.DeliveryPercentage(); ok {
		ch <- prometheus.MustNewConstMetric(c.deliveryPercentage, prometheus.GaugeValue, float64(pct))
	}
}

// WriteTextfile writes snap in the Prometheus text format to path, for pickup
// by a node-exporter textfile collector.
func WriteTextfile(path string, snap sim.StatisticsSnapshot) error {
	reg := prometheus.NewRegistry()
	if err := reg.Register(NewStatisticsCollector(func() sim.StatisticsSnapshot { return snap })); err != nil {
		return fmt.Errorf("registering statistics collector: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
