package sim

import "fmt"

// Instant is a point in simulated time, in ticks (milliseconds by convention).
type Instant = int64

// TimeWindow is an inclusive interval [Begin, End] of simulated time.
// The zero value is the degenerate window [0, 0].
type TimeWindow struct {
	Begin Instant `yaml:"begin"`
	End   Instant `yaml:"end"`
}

// NewTimeWindow returns the window [begin, end], or an error if end precedes begin.
func NewTimeWindow(begin, end Instant) (TimeWindow, error) {
	if begin > end {
		return TimeWindow{}, fmt.Errorf("time window begin %d after end %d", begin, end)
	}
	return TimeWindow{Begin: begin, End: end}, nil
}

// Contains reports whether t lies within the window, bounds included.
func (tw TimeWindow) Contains(t Instant) bool {
	return t >= tw.Begin && t <= tw.End
}

// HasOpened reports whether t is at or after the start of the window.
func (tw TimeWindow) HasOpened(t Instant) bool {
	return t >= tw.Begin
}

// IsLate reports whether t lies after the end of the window.
func (tw TimeWindow) IsLate(t Instant) bool {
	return t > tw.End
}

// Length returns End - Begin.
func (tw TimeWindow) Length() Instant {
	return tw.End - tw.Begin
}

// Valid reports whether Begin <= End.
func (tw TimeWindow) Valid() bool {
	return tw.Begin <= tw.End
}

func (tw TimeWindow) String() string {
	return fmt.Sprintf("[%d,%d]", tw.Begin, tw.End)
}
