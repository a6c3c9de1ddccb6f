// internal/board/results.go
package board

import "sync"

// ChannelResult is the recorded outcome of one channel.
// Detail is only meaningful for RS485: bit i set => sub-channel i+1 healthy.
type ChannelResult struct {
	Passed bool
	Detail uint32
}

// SubChannelOK reports the health flag of RS-485 sub-channel i (0-based, LSB first).
func (r ChannelResult) SubChannelOK(i int) bool {
	if i < 0 || i >= 32 {
		return false
	}
	return r.Detail&(1<<uint(i)) != 0
}

// AckEvent is the classified outcome of one inbound line.
// It carries no reference to the raw line.
type AckEvent struct {
	Channel Channel
	Success bool
}

// Results holds exactly one ChannelResult per channel for one run.
// Writers: the ack interpreter. Readers: the sequencer and reporters.
// Once a channel is frozen its entry is final until Reset.
type Results struct {
	mu      sync.RWMutex
	entries [ChannelCount]ChannelResult
	frozen  [ChannelCount]bool
}

// NewResults returns a table in the reset state.
func NewResults() *Results {
	return &Results{}
}

// Reset clears all entries back to passed=false, detail=0.
func (r *Results) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = [ChannelCount]ChannelResult{}
	r.frozen = [ChannelCount]bool{}
}

// Freeze makes the entry of c read-only for the rest of the run.
func (r *Results) Freeze(c Channel) {
	if !c.Valid() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen[c] = true
}

// FreezeAll freezes every channel.
func (r *Results) FreezeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.frozen {
		r.frozen[i] = true
	}
}

// Frozen reports whether c no longer accepts writes.
func (r *Results) Frozen(c Channel) bool {
	if !c.Valid() {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen[c]
}

// Record sets the pass flag of c. Frozen channels are left untouched.
func (r *Results) Record(c Channel, passed bool) {
	if !c.Valid() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen[c] {
		return
	}
	r.entries[c].Passed = passed
}

// RecordDetail sets the sub-channel detail mask of c.
func (r *Results) RecordDetail(c Channel, detail uint32) {
	if !c.Valid() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen[c] {
		return
	}
	r.entries[c].Detail = detail
}

// Get returns the result of c. Unknown channels yield the zero result.
func (r *Results) Get(c Channel) ChannelResult {
	if !c.Valid() {
		return ChannelResult{}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries[c]
}

// Snapshot returns a copy of all entries in test order.
func (r *Results) Snapshot() []ChannelResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ChannelResult, ChannelCount)
	copy(out, r.entries[:])
	return out
}

// AllPassed reports whether every channel passed.
func (r *Results) AllPassed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if !e.Passed {
			return false
		}
	}
	return true
}

// PassMask returns a bitmask with bit c set for every passed channel.
func (r *Results) PassMask() uint16 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var m uint16
	for i, e := range r.entries {
		if e.Passed {
			m |= 1 << uint(i)
		}
	}
	return m
}
