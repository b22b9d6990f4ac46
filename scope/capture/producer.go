package capture

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"voltscope/hal"
	"voltscope/scope/logger"
)

const (
	// retryDelay is how long the producer backs off after a failed read.
	retryDelay = time.Millisecond
	// readSlack is added to the nominal block period to bound a read.
	readSlack = 10 * time.Millisecond
	// failureLogEvery limits failure logging to one line per interval.
	failureLogEvery = time.Second
)

// RateSource supplies the capture rate in samples per second. It is read
// once per block, so a change takes effect on the next block.
type RateSource interface {
	SampleRate() uint32
}

// Producer runs the acquisition side: read a raw block, filter it into the
// double buffer's write side and publish.
type Producer struct {
	src    hal.SampleSource
	buf    *DoubleBuffer
	rates  RateSource
	filter *HeldValue
	raw    []uint16
	rate   uint32

	now   func() time.Duration
	sleep func(time.Duration)
	log   *logger.Logger

	lastLog  time.Duration
	logged   bool
	blocks   atomic.Uint32
	failures atomic.Uint32
}

// NewProducer wires a sample source to buf. now and sleep default to the
// wall clock when nil.
func NewProducer(src hal.SampleSource, buf *DoubleBuffer, rates RateSource, now func() time.Duration, log *logger.Logger) *Producer {
	if now == nil {
		start := time.Now()
		now = func() time.Duration { return time.Since(start) }
	}
	return &Producer{
		src:    src,
		buf:    buf,
		rates:  rates,
		filter: NewHeldValue(),
		raw:    make([]uint16, buf.Depth()),
		now:    now,
		sleep:  time.Sleep,
		log:    log,
	}
}

// Blocks returns the number of blocks published.
func (p *Producer) Blocks() uint32 { return p.blocks.Load() }

// Failures returns the number of abandoned reads.
func (p *Producer) Failures() uint32 { return p.failures.Load() }

func (p *Producer) applyRate() error {
	want := p.rates.SampleRate()
	if want == 0 || want == p.rate {
		return nil
	}
	if err := p.src.SetRate(want); err != nil {
		return fmt.Errorf("capture: set rate %d: %w", want, err)
	}
	p.rate = want
	return nil
}

func (p *Producer) readTimeout() time.Duration {
	if p.rate == 0 {
		return time.Second
	}
	period := time.Second * time.Duration(len(p.raw)) / time.Duration(p.rate)
	return 2*period + readSlack
}

// ProduceBlock acquires and publishes one block. On error nothing is
// published and the previously published block stays readable.
func (p *Producer) ProduceBlock() error {
	if err := p.applyRate(); err != nil {
		return err
	}
	n, err := p.src.ReadBlock(p.raw, p.readTimeout())
	if err != nil {
		return fmt.Errorf("capture: read %d/%d: %w", n, len(p.raw), err)
	}
	if n != len(p.raw) {
		return fmt.Errorf("capture: short read %d/%d", n, len(p.raw))
	}

	p.filter.Apply(p.buf.WriteBuffer(), p.raw)
	p.buf.Publish()
	p.blocks.Add(1)
	return nil
}

// Run produces blocks until ctx is done. Failed reads are counted, logged at
// most once per second and retried after a short pause.
func (p *Producer) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.ProduceBlock(); err != nil {
			p.fail(err)
			p.sleep(retryDelay)
		}
	}
}

func (p *Producer) fail(err error) {
	count := p.failures.Add(1)
	now := p.now()
	if p.logged && now-p.lastLog < failureLogEvery {
		return
	}
	p.logged = true
	p.lastLog = now
	p.log.Printf("%v (failures=%d)", err, count)
}
