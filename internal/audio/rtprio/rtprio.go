// Package rtprio raises the scheduling class of the calling thread for
// real-time audio work.
package rtprio

import "sync/atomic"

var setPriority = setThreadPriority

// Hint applies a real-time priority once, from the first thread that calls
// Apply. Later calls are no-ops so it can sit on the audio callback path.
type Hint struct {
	Priority int
	done     atomic.Bool
	err      atomic.Value
}

// Apply sets the priority of the calling OS thread on first use.
func (h *Hint) Apply() {
	if h.Priority <= 0 || h.done.Swap(true) {
		return
	}
	if err := setPriority(h.Priority); err != nil {
		h.err.Store(err)
	}
}

// Err returns the error from the first Apply, if any.
func (h *Hint) Err() error {
	err, _ := h.err.Load().(error)
	return err
}
