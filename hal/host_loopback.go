//go:build !tinygo

package hal

import (
	"errors"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// lineHistory is how many output level changes the simulated wire remembers.
// At a 50 kHz generator tick that is roughly 160 ms of a continuously
// changing waveform, more than one block at the slowest capture rate.
const lineHistory = 8192

const (
	// A block that starts further than this behind the clock is resynced
	// instead of being replayed from stale history.
	maxCaptureLag = 250 * time.Millisecond

	loopbackNoise       = 3
	loopbackGlitchEvery = 4000
)

type lineEvent struct {
	at time.Duration
	v  uint8
}

// analogLine simulates the wire from the analog output pin back into the
// analog input pin. The output side records every level change with its
// timestamp; readers look up the level that was in effect at any instant.
type analogLine struct {
	mu     sync.Mutex
	now    func() time.Duration
	events [lineHistory]lineEvent
	n      uint64
}

func newAnalogLine(now func() time.Duration) *analogLine {
	return &analogLine{now: now}
}

// WriteValue implements AnalogOut.
func (l *analogLine) WriteValue(v uint8) {
	at := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.n > 0 && l.events[(l.n-1)%lineHistory].v == v {
		return
	}
	l.events[l.n%lineHistory] = lineEvent{at: at, v: v}
	l.n++
}

// levels fills dst with the level in effect at start, start+period, ...
func (l *analogLine) levels(start, period time.Duration, dst []uint8) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.n == 0 {
		for i := range dst {
			dst[i] = 128
		}
		return
	}

	oldest := uint64(0)
	if l.n > lineHistory {
		oldest = l.n - lineHistory
	}
	at := func(i uint64) lineEvent { return l.events[i%lineHistory] }

	count := int(l.n - oldest)
	// First event strictly after start; the one before it is in effect.
	k := sort.Search(count, func(j int) bool { return at(oldest+uint64(j)).at > start })
	cur := oldest
	if k > 0 {
		cur = oldest + uint64(k-1)
	}

	t := start
	for i := range dst {
		for cur+1 < l.n && at(cur+1).at <= t {
			cur++
		}
		dst[i] = at(cur).v
		t += period
	}
}

// blockClock paces block reads against wall-clock time so a simulated
// source delivers samples no faster than its configured rate.
type blockClock struct {
	now   func() time.Duration
	sleep func(time.Duration)
	next  time.Duration
	init  bool
}

// reserve waits until n samples spaced by period have elapsed after the
// previous block and returns the timestamp of the first one.
func (c *blockClock) reserve(n int, period, timeout time.Duration) (time.Duration, error) {
	now := c.now()
	if !c.init || now-c.next > maxCaptureLag {
		c.next = now
		c.init = true
	}
	start := c.next
	end := start + period*time.Duration(n)
	wait := end - now
	if wait > timeout {
		c.sleep(timeout)
		return 0, ErrTimeout
	}
	if wait > 0 {
		c.sleep(wait)
	}
	c.next = end
	return start, nil
}

func samplePeriod(sps uint32) time.Duration {
	return time.Second / time.Duration(sps)
}

var errZeroRate = errors.New("adc: zero sample rate")

// loopbackADC samples an analogLine at the configured rate, converting the
// 8-bit output level to the 12-bit input code with a little noise and the
// occasional zero reading real converters produce.
type loopbackADC struct {
	line  *analogLine
	clock blockClock
	rate  atomic.Uint32
	rnd   *rand.Rand

	levels []uint8
}

func newLoopbackADC(line *analogLine, now func() time.Duration, sleep func(time.Duration), seed int64) *loopbackADC {
	a := &loopbackADC{
		line:  line,
		clock: blockClock{now: now, sleep: sleep},
		rnd:   rand.New(rand.NewSource(seed)),
	}
	a.rate.Store(50_000)
	return a
}

func (a *loopbackADC) SetRate(sps uint32) error {
	if sps == 0 {
		return errZeroRate
	}
	a.rate.Store(sps)
	return nil
}

func (a *loopbackADC) ReadBlock(dst []uint16, timeout time.Duration) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	period := samplePeriod(a.rate.Load())
	start, err := a.clock.reserve(len(dst), period, timeout)
	if err != nil {
		return 0, err
	}

	if cap(a.levels) < len(dst) {
		a.levels = make([]uint8, len(dst))
	}
	levels := a.levels[:len(dst)]
	a.line.levels(start, period, levels)

	for i, v := range levels {
		if a.rnd.Intn(loopbackGlitchEvery) == 0 {
			dst[i] = 0
			continue
		}
		code := int(v)*4095/255 + a.rnd.Intn(2*loopbackNoise+1) - loopbackNoise
		dst[i] = uint16(clampInt(code, 1, 4095))
	}
	return len(dst), nil
}
