// Package trace records the dispatch decisions of a scenario run for later analysis.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// DispatchRecord captures one timed event handed to its handler.
type DispatchRecord struct {
	Kind    string // timed event kind, e.g. "add-parcel"
	Clock   int64  // runtime clock when the handler ran
	EventAt int64  // timestamp carried by the event
	Applied bool   // whether the handler applied the event
}

// Lag is how far the runtime clock was past the event's own timestamp.
func (r DispatchRecord) Lag() int64 {
	if r.Clock > r.EventAt {
		return r.Clock - r.EventAt
	}
	return 0
}
