package systems

import (
	"container/heap"
	"time"
)

// OneShot is the interval sentinel for "post once, immediately".
const OneShot = time.Millisecond

// Event is a spawn request due at an absolute simulation time.
type Event struct {
	At  time.Duration
	Req SpawnRequest

	seq   uint64
	every time.Duration // > 0 re-arms the event after it fires
}

// eventHeap orders events by time, then by insertion order.
type eventHeap []Event

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if h[i].At != h[j].At {
		return h[i].At < h[j].At
	}
	return h[i].seq < h[j].seq
}
func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *eventHeap) Push(x any)   { *h = append(*h, x.(Event)) }
func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	ev := old[n-1]
	old[n-1] = Event{}
	*h = old[:n-1]
	return ev
}

// Scheduler is a time-ordered queue of future spawn events.
// Events with equal timestamps pop in the order they were scheduled.
type Scheduler struct {
	events eventHeap
	seq    uint64
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

func (s *Scheduler) push(at, every time.Duration, req SpawnRequest) {
	s.seq++
	heap.Push(&s.events, Event{At: at, Req: req, seq: s.seq, every: every})
}

// Schedule posts req once at time at.
func (s *Scheduler) Schedule(at time.Duration, req SpawnRequest) {
	s.push(at, 0, req)
}

// ScheduleSeries posts req at start, start+every, start+2·every, ...
// A positive repeat bounds the series to that many events, expanded up front.
// A zero repeat keeps the series running until Clear. An interval of OneShot
// or less posts a single event at start.
func (s *Scheduler) ScheduleSeries(start, every time.Duration, repeat int, req SpawnRequest) {
	switch {
	case every <= OneShot:
		s.push(start, 0, req)
	case repeat > 0:
		for k := 0; k < repeat; k++ {
			s.push(start+time.Duration(k)*every, 0, req)
		}
	default:
		s.push(start, every, req)
	}
}

// PopDue appends every event due at or before now to dst, in time order,
// and stops at the first event still in the future.
func (s *Scheduler) PopDue(now time.Duration, dst []Event) []Event {
	for len(s.events) > 0 && s.events[0].At <= now {
		ev := heap.Pop(&s.events).(Event)
		dst = append(dst, ev)
		if ev.every > 0 {
			s.push(ev.At+ev.every, ev.every, ev.Req)
		}
	}
	return dst
}

// Peek returns the time of the next event.
func (s *Scheduler) Peek() (time.Duration, bool) {
	if len(s.events) == 0 {
		return 0, false
	}
	return s.events[0].At, true
}

// Len returns the number of pending events.
func (s *Scheduler) Len() int {
	return len(s.events)
}

// Clear drops every pending event, including open-ended series.
func (s *Scheduler) Clear() {
	clear(s.events)
	s.events = s.events[:0]
}
