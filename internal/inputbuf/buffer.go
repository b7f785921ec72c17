// Package inputbuf reorders per-player input sequences so the simulation
// always consumes them in order, while bounding memory and latency when
// packets are lost or arrive out of order.
package inputbuf

import "time"

// Cap is the maximum number of out-of-order entries retained per player
// before a forced advance (bounded-memory guard against a malicious or
// broken client flooding gaps).
const Cap = 100

// GapTimeout is how long the oldest buffered entry may wait for its
// predecessor before the buffer force-advances past it.
const GapTimeout = 100 * time.Millisecond

// Stats accumulates per-player sequencing counters for diagnostics.
type Stats struct {
	Total        uint64
	InOrder      uint64
	OutOfOrder   uint64
	Duplicate    uint64
	EstimatedLoss uint64
}

type bufferedEntry struct {
	seq       uint32
	payload   any
	arrivedAt time.Time
}

// Buffer reorders a single player's inputs by sequence number.
type Buffer struct {
	lastProcessed uint32
	pending       map[uint32]bufferedEntry
	stats         Stats
}

// New constructs an empty input buffer; lastProcessed starts at 0 per the
// sequencing algorithm (sequence numbers are assumed to start at 1).
func New() *Buffer {
	return &Buffer{pending: make(map[uint32]bufferedEntry)}
}

// LastProcessed returns the highest sequence consumed so far, piggybacked
// on outbound snapshots as acknowledgedInputs[playerId].
func (b *Buffer) LastProcessed() uint32 { return b.lastProcessed }

// Stats returns a copy of the buffer's running counters.
func (b *Buffer) Stats() Stats { return b.stats }

// Push admits an input with sequence seq and returns, in order, every
// payload that becomes ready to process as a result (possibly more than
// one, if this arrival fills a gap).
func (b *Buffer) Push(seq uint32, payload any, now time.Time) []any {
	b.stats.Total++

	if seq <= b.lastProcessed {
		b.stats.Duplicate++
		return nil
	}

	if seq != b.lastProcessed+1 {
		b.stats.OutOfOrder++
		b.pending[seq] = bufferedEntry{seq: seq, payload: payload, arrivedAt: now}
		return b.enforceBounds(now)
	}

	b.stats.InOrder++
	b.lastProcessed = seq
	ready := []any{payload}
	return append(ready, b.drainConsecutive()...)
}

// drainConsecutive delivers every buffered entry immediately following
// lastProcessed, advancing it as it goes.
func (b *Buffer) drainConsecutive() []any {
	var drained []any
	for {
		entry, ok := b.pending[b.lastProcessed+1]
		if !ok {
			return drained
		}
		delete(b.pending, entry.seq)
		b.lastProcessed = entry.seq
		drained = append(drained, entry.payload)
	}
}

// enforceBounds applies the two forced-advance conditions: buffer at
// capacity, or the oldest buffered entry has waited past GapTimeout.
func (b *Buffer) enforceBounds(now time.Time) []any {
	if len(b.pending) >= Cap {
		return b.forceAdvanceTo(b.minBufferedSeq() - 1)
	}
	if oldest, ok := b.oldestEntry(); ok && now.Sub(oldest.arrivedAt) > GapTimeout {
		return b.forceAdvanceTo(oldest.seq - 1)
	}
	return nil
}

// forceAdvanceTo sets lastProcessed to target (estimating the skipped
// sequences as lost) and drains whatever is now consecutive.
func (b *Buffer) forceAdvanceTo(target uint32) []any {
	if target > b.lastProcessed {
		b.stats.EstimatedLoss += uint64(target - b.lastProcessed)
		b.lastProcessed = target
	}
	return b.drainConsecutive()
}

func (b *Buffer) minBufferedSeq() uint32 {
	var min uint32
	first := true
	for seq := range b.pending {
		if first || seq < min {
			min = seq
			first = false
		}
	}
	return min
}

func (b *Buffer) oldestEntry() (bufferedEntry, bool) {
	var oldest bufferedEntry
	found := false
	for _, entry := range b.pending {
		if !found || entry.arrivedAt.Before(oldest.arrivedAt) {
			oldest = entry
			found = true
		}
	}
	return oldest, found
}
