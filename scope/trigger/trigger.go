// Package trigger finds the rising edge that aligns consecutive sweeps.
package trigger

import (
	"fmt"
	"strings"

	"voltscope/scope/capture"
)

// Mode selects how a missing edge affects drawing.
type Mode uint8

const (
	// Auto draws on an edge, or free-runs after MissTimeout misses.
	Auto Mode = iota
	// Normal draws only on an edge.
	Normal
	// None free-runs from offset 0.
	None
)

func (m Mode) String() string {
	switch m {
	case Auto:
		return "auto"
	case Normal:
		return "normal"
	case None:
		return "none"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// ParseMode accepts the command keywords: on, off, auto.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(s) {
	case "on":
		return Normal, true
	case "off":
		return None, true
	case "auto":
		return Auto, true
	}
	return 0, false
}

// Tuning defaults. They were found empirically on the reference hardware
// and are not derived from any signal property.
const (
	DefaultBand        = 50
	DefaultWindow      = 10
	DefaultMissTimeout = 20
)

// Config is read once per search.
type Config struct {
	Level capture.Sample
	Mode  Mode
	// Band is the hysteresis margin in codes on each side of Level.
	Band capture.Sample
	// Window is how many samples before a candidate are inspected.
	Window int
	// MissTimeout is how many consecutive misses Auto tolerates.
	MissTimeout int
}

// DefaultConfig triggers at mid-scale in Auto mode.
func DefaultConfig() Config {
	return Config{
		Level:       capture.MidScale,
		Mode:        Auto,
		Band:        DefaultBand,
		Window:      DefaultWindow,
		MissTimeout: DefaultMissTimeout,
	}
}

// Find searches the first half of snapshot for a rising edge through
// cfg.Level. A candidate index i lies above Level+Band with at least half of
// the Window samples before it below Level-Band. The returned offset is
// walked back from i to the first sample not above Level.
//
// In None mode it returns (0, true) without looking at the data.
func Find(snapshot []capture.Sample, cfg Config) (offset int, found bool) {
	if cfg.Mode == None {
		return 0, true
	}
	if cfg.Window <= 0 {
		return 0, false
	}

	high := int(cfg.Level) + int(cfg.Band)
	low := int(cfg.Level) - int(cfg.Band)
	need := cfg.Window / 2
	limit := len(snapshot) / 2

	for i := cfg.Window + 1; i < limit; i++ {
		if int(snapshot[i]) <= high {
			continue
		}
		below := 0
		for _, s := range snapshot[i-cfg.Window : i] {
			if int(s) < low {
				below++
			}
		}
		if below < need {
			continue
		}

		offset = i
		for offset > 0 && snapshot[offset] > cfg.Level {
			offset--
		}
		return offset, true
	}
	return 0, false
}

// Detector applies the per-mode draw policy on top of Find. It keeps the
// miss count between calls and is owned by the control context.
type Detector struct {
	misses int
}

// Evaluate searches snapshot and decides whether to draw. In Auto mode a
// run of more than cfg.MissTimeout misses draws from offset 0; the count
// resets only when an edge is found.
func (d *Detector) Evaluate(snapshot []capture.Sample, cfg Config) (offset int, draw bool) {
	offset, found := Find(snapshot, cfg)
	if cfg.Mode == None {
		return 0, true
	}
	if found {
		d.misses = 0
		return offset, true
	}

	d.misses++
	if cfg.Mode == Auto && d.misses > cfg.MissTimeout {
		return 0, true
	}
	return 0, false
}

// Misses returns the current run of consecutive misses.
func (d *Detector) Misses() int { return d.misses }
