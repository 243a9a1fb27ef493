package trace

// TraceSummary aggregates statistics from a DispatchTrace.
type TraceSummary struct {
	TotalDispatched int
	AppliedCount    int
	RejectedCount   int
	MaxLag          int64
	PerKind         map[string]int // event kind → count dispatched
	RejectedPerKind map[string]int // event kind → count rejected
}

// Summarize computes aggregate statistics from a DispatchTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(dt *DispatchTrace) *TraceSummary {
	summary := &TraceSummary{
		PerKind:         make(map[string]int),
		RejectedPerKind: make(map[string]int),
	}
	if dt == nil {
		return summary
	}

	summary.TotalDispatched = len(dt.Dispatches)
	for _, r := range dt.Dispatches {
		summary.PerKind[r.Kind]++
		if r.Applied {
			summary.AppliedCount++
		} else {
			summary.RejectedCount++
			summary.RejectedPerKind[r.Kind]++
		}
		if lag := r.Lag(); lag > summary.MaxLag {
			summary.MaxLag = lag
		}
	}
	return summary
}
