//go:build !tinygo

package hal

import "time"

type hostTime struct {
	start time.Time
}

func newHostTime() *hostTime {
	return &hostTime{start: time.Now()}
}

func (t *hostTime) Now() time.Duration { return time.Since(t.start) }
