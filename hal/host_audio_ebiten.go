//go:build !tinygo && cgo

package hal

import (
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

const (
	monitorSampleRate = 48000
	// monitorLag keeps playback behind the output history so the player
	// never reads levels that have not been written yet.
	monitorLag = 150 * time.Millisecond
)

// audioMonitor plays the analog output through the sound card by replaying
// the simulated wire's history. The generator never waits on it.
type audioMonitor struct {
	mu     sync.Mutex
	player *audio.Player
}

func startAudioMonitor(line *analogLine, now func() time.Duration) (*audioMonitor, error) {
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(monitorSampleRate)
	}

	r := &monitorReader{
		line:   line,
		now:    now,
		period: time.Second / time.Duration(ctx.SampleRate()),
	}
	p, err := ctx.NewPlayer(r)
	if err != nil {
		return nil, err
	}
	p.SetBufferSize(100 * time.Millisecond)
	p.SetVolume(0.5)
	p.Play()
	return &audioMonitor{player: p}, nil
}

func (m *audioMonitor) Close() error {
	m.mu.Lock()
	p := m.player
	m.player = nil
	m.mu.Unlock()
	if p == nil {
		return nil
	}
	return p.Close()
}

type monitorReader struct {
	line   *analogLine
	now    func() time.Duration
	period time.Duration
	cursor time.Duration
	init   bool
	levels []uint8
}

func (r *monitorReader) Read(p []byte) (int, error) {
	// Ebiten audio expects 16-bit little-endian stereo.
	frames := len(p) / 4
	if frames == 0 {
		return 0, nil
	}

	now := r.now()
	if !r.init || now-r.cursor > 4*monitorLag {
		r.cursor = now - monitorLag
		r.init = true
	}

	if cap(r.levels) < frames {
		r.levels = make([]uint8, frames)
	}
	levels := r.levels[:frames]
	r.line.levels(r.cursor, r.period, levels)
	r.cursor += r.period * time.Duration(frames)

	for i, v := range levels {
		s := (int16(v) - 128) * 200
		j := i * 4
		p[j+0] = byte(s)
		p[j+1] = byte(s >> 8)
		p[j+2] = byte(s)
		p[j+3] = byte(s >> 8)
	}
	return frames * 4, nil
}
