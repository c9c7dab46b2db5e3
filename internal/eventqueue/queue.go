// Package eventqueue stages MIDI events arriving on port callback threads for
// consumption by the real-time audio thread.
//
// The queue has two partitions. Producers append to the pending partition
// under a short mutex. Once per cycle the audio thread tries the same mutex
// and, if it gets it, splices pending into the active partition, which it
// then reads without locking. A failed try leaves events pending for the next
// cycle, so the audio thread never waits.
package eventqueue

import (
	"math"
	"sync"

	"github.com/leandrodaf/rtdriver/sdk/contracts"
)

// Capacity is the number of events each partition can hold.
const Capacity = 512

const (
	// maxFraction bounds the normalized timestamp to stay inside the period.
	maxFraction = 0.95
)

// Event is a MIDI message stamped with an absolute engine frame.
type Event struct {
	Time uint64
	Size uint8
	Data [contracts.MaxMIDIDataSize]byte
}

// Bytes returns the valid part of the payload.
func (e *Event) Bytes() []byte {
	return e.Data[:e.Size]
}

// Queue is a pending/active double buffer of timed MIDI events.
type Queue struct {
	mu       sync.Mutex
	pending  []Event
	lastTime uint64

	// active is owned by the audio thread between splices.
	active []Event
	head   int
}

// New returns an empty queue with both partitions preallocated.
func New() *Queue {
	return &Queue{
		pending: make([]Event, 0, Capacity),
		active:  make([]Event, 0, Capacity),
	}
}

// NormalizeFraction converts a native callback timestamp into the fraction of
// a period the event is delayed by.
func NormalizeFraction(rawSeconds float64) float64 {
	f := rawSeconds / 2
	if f > maxFraction {
		return maxFraction
	}
	if f < 0 || math.IsNaN(f) {
		return 0
	}
	return f
}

// Ingest stamps data relative to frame and appends it to the pending
// partition. Empty or oversized messages are dropped, as are messages arriving
// while pending is full. It reports whether the event was queued.
//
// Timestamps never decrease across calls: an event computed earlier than the
// last queued one takes the last one's time.
func (q *Queue) Ingest(frame uint64, bufferFrames uint32, rawSeconds float64, data []byte) bool {
	if len(data) == 0 || len(data) > contracts.MaxMIDIDataSize {
		return false
	}

	ev := Event{
		Time: frame + uint64(NormalizeFraction(rawSeconds)*float64(bufferFrames)),
		Size: uint8(len(data)),
	}
	copy(ev.Data[:], data)

	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == cap(q.pending) {
		return false
	}

	if ev.Time < q.lastTime {
		ev.Time = q.lastTime
	} else {
		q.lastTime = ev.Time
	}
	q.pending = append(q.pending, ev)
	return true
}

// TrySplice moves pending events into the active partition if the lock is
// free. Events that do not fit stay pending. Audio thread only.
func (q *Queue) TrySplice() bool {
	if !q.mu.TryLock() {
		return false
	}

	q.compactActive()
	n := copy(q.active[len(q.active):cap(q.active)], q.pending)
	q.active = q.active[:len(q.active)+n]
	if n == len(q.pending) {
		q.pending = q.pending[:0]
	} else {
		rest := copy(q.pending, q.pending[n:])
		q.pending = q.pending[:rest]
	}

	q.mu.Unlock()
	return true
}

// Active returns the unconsumed events of the active partition. The slice is
// only valid until the next Consume or TrySplice. Audio thread only.
func (q *Queue) Active() []Event {
	return q.active[q.head:]
}

// Consume marks the first n active events as delivered. Audio thread only.
func (q *Queue) Consume(n int) {
	q.head += n
	if q.head >= len(q.active) {
		q.head = 0
		q.active = q.active[:0]
	}
}

func (q *Queue) compactActive() {
	if q.head == 0 {
		return
	}
	n := copy(q.active, q.active[q.head:])
	q.active = q.active[:n]
	q.head = 0
}

// Len returns the number of queued events in both partitions. It takes the
// lock and must not be called from the audio thread.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending) + len(q.active) - q.head
}

// LastTime returns the most recent committed event time.
func (q *Queue) LastTime() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.lastTime
}

// Clear drops every event and resets the monotonic clock. It must only be
// called while no audio cycle can run.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.pending = q.pending[:0]
	q.active = q.active[:0]
	q.head = 0
	q.lastTime = 0
}
