package observe

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdp-sim/pdp-sim/sim"
)

func sampleSnapshot() sim.StatisticsSnapshot {
	return sim.StatisticsSnapshot{
		RunningTotals: sim.RunningTotals{
			TotalDistance:     12.5,
			TotalPickups:      3,
			TotalDeliveries:   2,
			PickupTardiness:   7,
			DeliveryTardiness: 1,
			ComputationTime:   1500 * time.Millisecond,
			SimulationTime:    3600,
		},
		AddedParcels: 4,
	}
}

func TestStatisticsCollector_ExportsSnapshot(t *testing.T) {
	// GIVEN a collector over a fixed snapshot
	c := NewStatisticsCollector(sampleSnapshot)

	// WHEN it is scraped
	expected := `
# HELP pdpsim_pickups_total Completed pickups.
# TYPE pdpsim_pickups_total counter
pdpsim_pickups_total 3
# HELP pdpsim_tardiness_total Accumulated lateness in simulated time units.
# TYPE pdpsim_tardiness_total counter
pdpsim_tardiness_total{phase="delivery"} 1
pdpsim_tardiness_total{phase="pickup"} 7
# HELP pdpsim_pickup_percentage Rounded share of announced parcels picked up.
# TYPE pdpsim_pickup_percentage gauge
pdpsim_pickup_percentage 75
`
	// THEN the selected series carry the snapshot values
	err := testutil.CollectAndCompare(c, strings.NewReader(expected),
		"pdpsim_pickups_total", "pdpsim_tardiness_total", "pdpsim_pickup_percentage")
	require.NoError(t, err)
	assert.Equal(t, 10, testutil.CollectAndCount(c))
}

func TestStatisticsCollector_NoParcelsOmitsPercentages(t *testing.T) {
	c := NewStatisticsCollector(func() sim.StatisticsSnapshot { return sim.StatisticsSnapshot{} })

	assert.Equal(t, 8, testutil.CollectAndCount(c))
	assert.Equal(t, 0, testutil.CollectAndCount(c, "pdpsim_pickup_percentage", "pdpsim_delivery_percentage"))
}

func TestStatisticsCollector_ReadsLiveValues(t *testing.T) {
	snap := sim.StatisticsSnapshot{}
	c := NewStatisticsCollector(func() sim.StatisticsSnapshot { return snap })
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(c))

	snap.TotalDistance = 4
	families, err := reg.Gather()
	require.NoError(t, err)

	var got float64
	for _, mf := range families {
		if mf.GetName() == "pdpsim_traveled_distance_total" {
			got = mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	assert.Equal(t, 4.0, got)
}

func TestStatisticsCollector_NilSnapshotPanics(t *testing.T) {
	assert.Panics(t, func() { NewStatisticsCollector(nil) })
}

func TestWriteTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pdpsim.prom")

	require.NoError(t, WriteTextfile(path, sampleSnapshot()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "pdpsim_traveled_distance_total 12.5")
	assert.Contains(t, text, "pdpsim_computation_time_seconds 1.5")
	assert.Contains(t, text, "pdpsim_parcels_added_total 4")
	assert.Contains(t, text, "pdpsim_delivery_percentage 50")
}

func TestWriteTextfile_BadPath(t *testing.T) {
	err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom"), sampleSnapshot())
	assert.ErrorContains(t, err, "writing metrics textfile")
}
