package sim

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatisticsSnapshot_ToText_FieldOrderAndLabels(t *testing.T) {
	snap := StatisticsSnapshot{
		RunningTotals: RunningTotals{
			TotalDistance:     12.5,
			TotalPickups:      2,
			TotalDeliveries:   1,
			PickupTardiness:   7,
			DeliveryTardiness: 3,
			ComputationTime:   1500 * time.Millisecond,
			SimulationTime:    3600,
		},
		AddedParcels: 3,
	}

	want := "\t\t\t = Statistics = \n" +
		"computation time:\t\t1500\n" +
		"simulation time:\t\t3600\n" +
		"total traveled distance:\t12.5\n" +
		"pickups:\t\t\t2 / 3\t67%\n" +
		"deliveries:\t\t\t1 / 3\t33%\n" +
		"pickup tardiness:\t\t7\n" +
		"delivery tardiness:\t\t3"
	assert.Equal(t, want, snap.ToText())
	assert.Equal(t, want, snap.String())
}

func TestStatisticsSnapshot_ToText_NoParcelsOmitsPercentage(t *testing.T) {
	// GIVEN a run in which no parcel was added
	snap := StatisticsSnapshot{}

	// WHEN rendered
	text := snap.ToText()

	// THEN the counts are shown without a percentage term
	assert.Contains(t, text, "pickups:\t\t\t0 / 0\n")
	assert.Contains(t, text, "deliveries:\t\t\t0 / 0\n")
	assert.NotContains(t, text, "%")
	assert.NotContains(t, text, "NaN")
}

func TestStatisticsSnapshot_ToText_DistanceFormat(t *testing.T) {
	tests := []struct {
		distance float64
		want     string
	}{
		{0, "0.0"},
		{5, "5.0"},
		{12.5, "12.5"},
		{1234567, "1234567.0"},
		{0.125, "0.125"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			snap := StatisticsSnapshot{RunningTotals: RunningTotals{TotalDistance: tt.distance}}
			assert.Equal(t, "total traveled distance:\t"+tt.want, lineOf(snap.ToText(), 3))
		})
	}
}

func TestStatisticsSnapshot_Percentages_RoundHalfUp(t *testing.T) {
	tests := []struct {
		done, added int
		want        int64
	}{
		{1, 8, 13}, // 12.5
		{3, 8, 38}, // 37.5
		{1, 3, 33},
		{2, 3, 67},
		{4, 4, 100},
		{0, 5, 0},
	}
	for _, tt := range tests {
		snap := StatisticsSnapshot{RunningTotals: RunningTotals{TotalPickups: tt.done, TotalDeliveries: tt.done}, AddedParcels: tt.added}
		got, ok := snap.PickupPercentage()
		assert.True(t, ok)
		assert.Equal(t, tt.want, got, "%d/%d", tt.done, tt.added)
		got, _ = snap.DeliveryPercentage()
		assert.Equal(t, tt.want, got, "%d/%d", tt.done, tt.added)
	}

	_, ok := StatisticsSnapshot{}.PickupPercentage()
	assert.False(t, ok)
}

func TestStatisticsSnapshot_ToText_HeaderPlusSevenFields(t *testing.T) {
	lines := strings.Split(StatisticsSnapshot{AddedParcels: 1}.ToText(), "\n")
	assert.Len(t, lines, 8)
	assert.Equal(t, "\t\t\t = Statistics = ", lines[0])
}
