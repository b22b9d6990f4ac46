package capture

import (
	"context"
	"errors"
	"testing"
	"time"
)

type scriptedSource struct {
	blocks [][]uint16
	errs   []error
	rates  []uint32
	reads  int
}

func (s *scriptedSource) SetRate(sps uint32) error {
	s.rates = append(s.rates, sps)
	return nil
}

func (s *scriptedSource) ReadBlock(dst []uint16, _ time.Duration) (int, error) {
	i := s.reads
	s.reads++
	if i < len(s.errs) && s.errs[i] != nil {
		return len(dst) / 2, s.errs[i]
	}
	if i >= len(s.blocks) {
		return 0, errors.New("script exhausted")
	}
	return copy(dst, s.blocks[i]), nil
}

type fixedRate uint32

func (r fixedRate) SampleRate() uint32 { return uint32(r) }

func TestProducerPublishesFilteredBlock(t *testing.T) {
	buf, _ := NewDoubleBuffer(4)
	src := &scriptedSource{blocks: [][]uint16{{0, 5, 0, 6}}}
	p := NewProducer(src, buf, fixedRate(20_000), nil, nil)

	if err := p.ProduceBlock(); err != nil {
		t.Fatalf("ProduceBlock: %v", err)
	}
	dst := make([]Sample, 4)
	if !buf.TryTake(dst) {
		t.Fatalf("TryTake() = false after ProduceBlock")
	}
	want := []Sample{MidScale, 5, 5, 6}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst[%d] = %d, want %d", i, dst[i], want[i])
		}
	}
	if len(src.rates) != 1 || src.rates[0] != 20_000 {
		t.Fatalf("SetRate calls = %v, want [20000]", src.rates)
	}
	if got := p.Blocks(); got != 1 {
		t.Fatalf("Blocks() = %d, want 1", got)
	}
}

func TestProducerFailedReadKeepsPreviousBlock(t *testing.T) {
	buf, _ := NewDoubleBuffer(2)
	src := &scriptedSource{
		blocks: [][]uint16{{7, 8}, nil, {9, 10}},
		errs:   []error{nil, errors.New("dma timeout")},
	}
	p := NewProducer(src, buf, fixedRate(10_000), nil, nil)

	if err := p.ProduceBlock(); err != nil {
		t.Fatalf("first ProduceBlock: %v", err)
	}
	if err := p.ProduceBlock(); err == nil {
		t.Fatalf("second ProduceBlock err = nil, want error")
	}

	dst := make([]Sample, 2)
	if !buf.TryTake(dst) || dst[0] != 7 || dst[1] != 8 {
		t.Fatalf("TryTake() = %v, want previous block [7 8]", dst)
	}
	if buf.TryTake(dst) {
		t.Fatalf("failed read published a block")
	}

	if err := p.ProduceBlock(); err != nil {
		t.Fatalf("third ProduceBlock: %v", err)
	}
	if !buf.TryTake(dst) || dst[0] != 9 {
		t.Fatalf("TryTake() = %v, want [9 10]", dst)
	}
}

func TestProducerRunRetriesAndStops(t *testing.T) {
	buf, _ := NewDoubleBuffer(2)
	src := &scriptedSource{
		blocks: [][]uint16{nil, nil, {1, 2}},
		errs:   []error{errors.New("a"), errors.New("b")},
	}
	p := NewProducer(src, buf, fixedRate(10_000), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	var slept int
	p.sleep = func(time.Duration) {
		slept++
		if p.Blocks() > 0 {
			cancel()
		}
	}

	err := p.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() err = %v, want %v", err, context.Canceled)
	}
	if p.Blocks() != 1 {
		t.Fatalf("Blocks() = %d, want 1", p.Blocks())
	}
	if p.Failures() < 2 {
		t.Fatalf("Failures() = %d, want at least 2", p.Failures())
	}
	if slept < 3 {
		t.Fatalf("retry sleeps = %d, want at least 3", slept)
	}
}
