package engine

import (
	"container/heap"

	"github.com/pdp-sim/pdp-sim/sim"
)

// completion is a pending end of a pickup or delivery service.
type completion struct {
	at      sim.Instant
	seq     uint64
	vehicle Vehicle
	parcel  *sim.Parcel
	pickup  bool
}

// completionHeap implements a priority queue with deterministic ordering.
// Ordering: timestamp → scheduling sequence.
type completionHeap struct {
	items []completion
	next  uint64
}

// Len implements heap.Interface
func (h *completionHeap) Len() int { return len(h.items) }

// Less implements heap.Interface with deterministic ordering
func (h *completionHeap) Less(i, j int) bool {
	ci, cj := h.items[i], h.items[j]
	if ci.at != cj.at {
		return ci.at < cj.at
	}
	return ci.seq < cj.seq
}

// Swap implements heap.Interface
func (h *completionHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

// Push implements heap.Interface
func (h *completionHeap) Push(x any) { h.items = append(h.items, x.(completion)) }

// Pop implements heap.Interface
func (h *completionHeap) Pop() any {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[0 : n-1]
	return item
}

// schedule adds a completion, stamping it with the next sequence number.
func (h *completionHeap) schedule(c completion) {
	h.next++
	c.seq = h.next
	heap.Push(h, c)
}

// popDue removes and returns the earliest completion at or before t.
func (h *completionHeap) popDue(t sim.Instant) (completion, bool) {
	if h.Len() == 0 || h.items[0].at > t {
		return completion{}, false
	}
	return heap.Pop(h).(completion), true
}
