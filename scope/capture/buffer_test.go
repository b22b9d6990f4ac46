package capture

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestNewDoubleBufferRejectsBadDepth(t *testing.T) {
	if _, err := NewDoubleBuffer(0); err == nil {
		t.Fatalf("NewDoubleBuffer(0) err = nil, want error")
	}
}

func TestDoubleBufferTakeEmpty(t *testing.T) {
	b, _ := NewDoubleBuffer(4)
	dst := make([]Sample, 4)
	if b.TryTake(dst) {
		t.Fatalf("TryTake() = true before any publish, want false")
	}
}

func TestDoubleBufferPublishTake(t *testing.T) {
	b, _ := NewDoubleBuffer(4)

	w := b.WriteBuffer()
	for i := range w {
		w[i] = Sample(i + 1)
	}
	b.Publish()
	if !b.Ready() {
		t.Fatalf("Ready() = false after Publish, want true")
	}

	// The next write side must be the other buffer.
	if &b.WriteBuffer()[0] == &w[0] {
		t.Fatalf("WriteBuffer() after Publish returned the published buffer")
	}

	dst := make([]Sample, 4)
	if !b.TryTake(dst) {
		t.Fatalf("TryTake() = false, want true")
	}
	for i := range dst {
		if dst[i] != Sample(i+1) {
			t.Fatalf("dst[%d] = %d, want %d", i, dst[i], i+1)
		}
	}
	if b.Ready() {
		t.Fatalf("Ready() = true after TryTake, want false")
	}
	if b.TryTake(dst) {
		t.Fatalf("second TryTake() = true, want false")
	}
}

func TestDoubleBufferTakesNewestBlock(t *testing.T) {
	b, _ := NewDoubleBuffer(1)
	for k := 1; k <= 3; k++ {
		b.WriteBuffer()[0] = Sample(k)
		b.Publish()
	}
	dst := make([]Sample, 1)
	if !b.TryTake(dst) || dst[0] != 3 {
		t.Fatalf("TryTake() = %v, want newest block 3", dst)
	}
}

func TestDoubleBufferWriterWaitsForClaimedBuffer(t *testing.T) {
	b, _ := NewDoubleBuffer(1)
	b.WriteBuffer()[0] = 1
	b.Publish()

	// Consumer is copying buffer 0 and the producer has since published
	// buffer 1, so buffer 0 is active again.
	b.state.Store(stateReady | stateReading | 0<<claimShift)

	var yields atomic.Int32
	release := make(chan struct{})
	b.yield = func() {
		if yields.Add(1) == 10 {
			close(release)
		}
	}

	done := make(chan uint32)
	go func() { done <- b.writeIndex() }()

	<-release
	b.state.Store(stateReady)
	if got := <-done; got != 0 {
		t.Fatalf("writeIndex() = %d, want 0", got)
	}
	if yields.Load() < 10 {
		t.Fatalf("yields = %d, want producer to wait", yields.Load())
	}
}

func TestDoubleBufferConcurrentNoTornBlocks(t *testing.T) {
	const (
		depth  = 256
		blocks = 5000
	)
	b, _ := NewDoubleBuffer(depth)

	var wg sync.WaitGroup
	var stop atomic.Bool
	wg.Add(1)
	go func() {
		defer wg.Done()
		for k := 1; k <= blocks; k++ {
			w := b.WriteBuffer()
			for i := range w {
				w[i] = Sample(k)
			}
			b.Publish()
		}
		stop.Store(true)
	}()

	dst := make([]Sample, depth)
	last := Sample(0)
	taken := 0
	for {
		done := stop.Load()
		if b.TryTake(dst) {
			taken++
			k := dst[0]
			for i, v := range dst {
				if v != k {
					t.Fatalf("torn block: dst[%d] = %d, dst[0] = %d", i, v, k)
				}
			}
			if k <= last {
				t.Fatalf("block %d taken after %d, want increasing", k, last)
			}
			last = k
		}
		if done && !b.Ready() {
			break
		}
	}
	wg.Wait()

	if taken == 0 {
		t.Fatalf("taken = 0, want at least one block")
	}
	if last != blocks {
		t.Fatalf("last block = %d, want %d", last, blocks)
	}
}
