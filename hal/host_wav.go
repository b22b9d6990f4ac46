//go:build !tinygo

package hal

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/go-audio/wav"
)

// wavSource replays the first channel of a WAV file into the analog input,
// looping at the end. Full scale maps to wavSwing codes around mid-scale.
type wavSource struct {
	clock    blockClock
	rate     atomic.Uint32
	samples  []float32
	fileRate float64
	pos      float64 // seconds into the file
}

const wavSwing = 1800

func openWAVSource(path string, now func() time.Duration, sleep func(time.Duration)) (*wavSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("wav: %s: not a valid WAV file", path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wav: %s: %w", path, err)
	}
	if dec.SampleRate == 0 || dec.NumChans == 0 {
		return nil, fmt.Errorf("wav: %s: missing format", path)
	}

	fb := buf.AsFloat32Buffer()
	chans := int(dec.NumChans)
	mono := make([]float32, 0, len(fb.Data)/chans)
	for i := 0; i < len(fb.Data); i += chans {
		mono = append(mono, fb.Data[i])
	}
	if len(mono) == 0 {
		return nil, fmt.Errorf("wav: %s: empty data", path)
	}

	return newWAVSource(mono, float64(dec.SampleRate), now, sleep), nil
}

func newWAVSource(samples []float32, fileRate float64, now func() time.Duration, sleep func(time.Duration)) *wavSource {
	s := &wavSource{
		clock:    blockClock{now: now, sleep: sleep},
		samples:  samples,
		fileRate: fileRate,
	}
	s.rate.Store(50_000)
	return s
}

func (s *wavSource) SetRate(sps uint32) error {
	if sps == 0 {
		return errZeroRate
	}
	s.rate.Store(sps)
	return nil
}

func (s *wavSource) ReadBlock(dst []uint16, timeout time.Duration) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	sps := s.rate.Load()
	if _, err := s.clock.reserve(len(dst), samplePeriod(sps), timeout); err != nil {
		return 0, err
	}

	length := float64(len(s.samples)) / s.fileRate
	step := 1 / float64(sps)
	for i := range dst {
		idx := int(s.pos * s.fileRate)
		if idx >= len(s.samples) {
			idx = len(s.samples) - 1
		}
		code := 2048 + int(s.samples[idx]*wavSwing)
		dst[i] = uint16(clampInt(code, 0, 4095))

		s.pos += step
		if s.pos >= length {
			s.pos -= length
		}
	}
	return len(dst), nil
}
