package sim

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// StatisticsSnapshot is an immutable report of one run, or of a run in progress.
type StatisticsSnapshot struct {
	RunningTotals
	AddedParcels int // parcels dispatched by the scenario, whether or not registration succeeded
}

// PickupPercentage returns round-half-up(100 * TotalPickups / AddedParcels).
// ok is false when no parcel was added.
func (s StatisticsSnapshot) PickupPercentage() (pct int64, ok bool) {
	return percentage(s.TotalPickups, s.AddedParcels)
}

// DeliveryPercentage returns round-half-up(100 * TotalDeliveries / AddedParcels).
// ok is false when no parcel was added.
func (s StatisticsSnapshot) DeliveryPercentage() (pct int64, ok bool) {
	return percentage(s.TotalDeliveries, s.AddedParcels)
}

func percentage(done, attempted int) (int64, bool) {
	if attempted == 0 {
		return 0, false
	}
	return int64(math.Floor(100*float64(done)/float64(attempted) + 0.5)), true
}

// ToText renders the fixed multi-line report. Field order and labels are stable.
// The percentage term is omitted when no parcel was added.
func (s StatisticsSnapshot) ToText() string {
	var sb strings.Builder
	sb.WriteString("\t\t\t = Statistics = \n")
	fmt.Fprintf(&sb, "computation time:\t\t%d\n", s.ComputationTime.Milliseconds())
	fmt.Fprintf(&sb, "simulation time:\t\t%d\n", s.SimulationTime)
	fmt.Fprintf(&sb, "total traveled distance:\t%s\n", formatDistance(s.TotalDistance))
	fmt.Fprintf(&sb, "pickups:\t\t\t%d / %d", s.TotalPickups, s.AddedParcels)
	if pct, ok := s.PickupPercentage(); ok {
		fmt.Fprintf(&sb, "\t%d%%", pct)
	}
	fmt.Fprintf(&sb, "\ndeliveries:\t\t\t%d / %d", s.TotalDeliveries, s.AddedParcels)
	if pct, ok := s.DeliveryPercentage(); ok {
		fmt.Fprintf(&sb, "\t%d%%", pct)
	}
	fmt.Fprintf(&sb, "\npickup tardiness:\t\t%d", s.PickupTardiness)
	fmt.Fprintf(&sb, "\ndelivery tardiness:\t\t%d", s.DeliveryTardiness)
	return sb.String()
}

func (s StatisticsSnapshot) String() string { return s.ToText() }

// formatDistance prints the shortest exact decimal, keeping one fractional
// digit on whole numbers so 5 reads "5.0".
func formatDistance(d float64) string {
	if d == math.Trunc(d) && !math.IsInf(d, 0) {
		return strconv.FormatFloat(d, 'f', 1, 64)
	}
	return strconv.FormatFloat(d, 'f', -1, 64)
}
