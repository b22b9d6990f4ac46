//go:build !tinygo && !cgo

package hal

import (
	"errors"
	"time"
)

type audioMonitor struct{}

func startAudioMonitor(_ *analogLine, _ func() time.Duration) (*audioMonitor, error) {
	return nil, errors.New("audio monitor requires cgo (build/run with CGO_ENABLED=1)")
}

func (m *audioMonitor) Close() error { return nil }
