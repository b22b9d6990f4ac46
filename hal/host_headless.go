//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"time"
)

// AppFunc starts the instrument on h. The returned step reports a fatal
// instrument error; it is polled by the runner and must not block.
type AppFunc func(ctx context.Context, h HAL) func() error

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	Hz      int
	Ticks   uint64
}

// RunHeadless runs the instrument without opening a window. The instrument
// runs on its own goroutines; the ticker only polls the step for errors and
// bounds the run when Ticks is set.
func RunHeadless(ctx context.Context, hcfg HostConfig, newApp AppFunc, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}

	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	h, err := newHostHAL(hcfg)
	if err != nil {
		return err
	}
	defer h.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	step := newApp(ctx, h)

	t := time.NewTicker(d)
	defer t.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if step != nil {
				if err := step(); err != nil {
					return err
				}
			}
			tick++
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				return nil
			}
		}
	}
}
