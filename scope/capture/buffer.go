package capture

import (
	"fmt"
	"runtime"
	"sync/atomic"
)

// State word layout. Every transition is a single compare-and-swap, so the
// ready flag can never be observed before the buffer write it announces.
const (
	stateActive  uint32 = 1 << 0 // index the producer writes
	stateReady   uint32 = 1 << 1 // the other buffer holds an unread block
	stateReading uint32 = 1 << 2 // the consumer is copying
	stateClaim   uint32 = 1 << 3 // index the consumer is copying

	claimShift = 3
)

// DoubleBuffer is a single-producer, single-consumer block hand-off.
//
// The producer fills WriteBuffer and calls Publish, which flips the active
// index and raises ready. The consumer copies the complementary buffer with
// TryTake. While the consumer copies, the producer may finish and publish
// the other buffer once; it then waits in WriteBuffer until the copy ends
// rather than write into the buffer being read.
type DoubleBuffer struct {
	_     [0]func()
	state atomic.Uint32
	bufs  [2][]Sample

	// yield is called while WriteBuffer waits for a copy to finish.
	yield func()
}

// NewDoubleBuffer allocates both buffers once.
func NewDoubleBuffer(depth int) (*DoubleBuffer, error) {
	if depth <= 0 {
		return nil, fmt.Errorf("capture: invalid depth %d", depth)
	}
	return &DoubleBuffer{
		bufs:  [2][]Sample{make([]Sample, depth), make([]Sample, depth)},
		yield: runtime.Gosched,
	}, nil
}

// Depth returns the number of samples per buffer.
func (b *DoubleBuffer) Depth() int { return len(b.bufs[0]) }

func (b *DoubleBuffer) writeIndex() uint32 {
	for {
		st := b.state.Load()
		active := st & stateActive
		if st&stateReading == 0 || (st&stateClaim)>>claimShift != active {
			return active
		}
		b.yield()
	}
}

// WriteBuffer returns the buffer the producer owns until its next Publish.
// Producer only.
func (b *DoubleBuffer) WriteBuffer() []Sample {
	return b.bufs[b.writeIndex()]
}

// Publish hands the buffer returned by WriteBuffer to the consumer.
// Producer only.
func (b *DoubleBuffer) Publish() {
	for {
		st := b.state.Load()
		if b.state.CompareAndSwap(st, (st^stateActive)|stateReady) {
			return
		}
	}
}

// Ready reports whether an unread block is waiting.
func (b *DoubleBuffer) Ready() bool {
	return b.state.Load()&stateReady != 0
}

// TryTake copies the most recently published block into dst and reports
// whether there was one. It never blocks. Consumer only.
func (b *DoubleBuffer) TryTake(dst []Sample) bool {
	var idx, claimedActive uint32
	for {
		st := b.state.Load()
		if st&stateReady == 0 || st&stateReading != 0 {
			return false
		}
		claimedActive = st & stateActive
		idx = claimedActive ^ 1
		next := (st &^ stateClaim) | stateReading | idx<<claimShift
		if b.state.CompareAndSwap(st, next) {
			break
		}
	}

	copy(dst, b.bufs[idx])

	for {
		st := b.state.Load()
		next := st &^ stateReading
		// A publish during the copy flipped active and left a newer block
		// ready; only an unchanged active index means this block was the
		// last one.
		if st&stateActive == claimedActive {
			next &^= stateReady
		}
		if b.state.CompareAndSwap(st, next) {
			return true
		}
	}
}
