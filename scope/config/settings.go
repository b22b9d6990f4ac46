// Package config holds the runtime settings shared between the command
// interpreter and the two execution contexts.
package config

import (
	"math"
	"sync/atomic"

	"voltscope/scope/capture"
	"voltscope/scope/gen"
	"voltscope/scope/trigger"
)

// DefaultSampleRate is the power-on capture rate in samples per second.
const DefaultSampleRate = 50_000

// Settings is a set of independent atomic fields. Writers update one field
// at a time; readers may observe a mix of old and new fields across a
// multi-command change.
type Settings struct {
	level atomic.Uint32
	mode  atomic.Uint32

	rate      atomic.Uint32
	axisDirty atomic.Bool

	wave atomic.Uint32
	freq atomic.Uint64 // math.Float64bits

	color atomic.Uint32
	stats atomic.Bool
}

func NewSettings() *Settings {
	s := &Settings{}
	s.level.Store(uint32(capture.MidScale))
	s.mode.Store(uint32(trigger.Auto))
	s.rate.Store(DefaultSampleRate)
	s.wave.Store(uint32(gen.Square))
	s.freq.Store(math.Float64bits(gen.DefaultFrequency))
	s.color.Store(uint32(Green))
	return s
}

func (s *Settings) TriggerLevel() capture.Sample { return capture.Sample(s.level.Load()) }

func (s *Settings) SetTriggerLevel(v capture.Sample) {
	if v > capture.MaxCode {
		v = capture.MaxCode
	}
	s.level.Store(uint32(v))
}

func (s *Settings) TriggerMode() trigger.Mode     { return trigger.Mode(s.mode.Load()) }
func (s *Settings) SetTriggerMode(m trigger.Mode) { s.mode.Store(uint32(m)) }

// Trigger returns the search configuration with the tuning defaults.
func (s *Settings) Trigger() trigger.Config {
	cfg := trigger.DefaultConfig()
	cfg.Level = s.TriggerLevel()
	cfg.Mode = s.TriggerMode()
	return cfg
}

// SampleRate is the capture rate in samples per second.
func (s *Settings) SampleRate() uint32 { return s.rate.Load() }

// SetSampleRate stores sps and marks the time axis for a label redraw.
func (s *Settings) SetSampleRate(sps uint32) {
	s.rate.Store(sps)
	s.axisDirty.Store(true)
}

// TakeAxisDirty reports and clears a pending time-axis redraw.
func (s *Settings) TakeAxisDirty() bool { return s.axisDirty.Swap(false) }

func (s *Settings) Wave() gen.Kind         { return gen.Kind(s.wave.Load()) }
func (s *Settings) SetWave(k gen.Kind)     { s.wave.Store(uint32(k)) }
func (s *Settings) Frequency() float64     { return math.Float64frombits(s.freq.Load()) }
func (s *Settings) SetFrequency(f float64) { s.freq.Store(math.Float64bits(f)) }

func (s *Settings) Color() Color     { return Color(s.color.Load()) }
func (s *Settings) SetColor(c Color) { s.color.Store(uint32(c)) }

func (s *Settings) Stats() bool { return s.stats.Load() }

// ToggleStats flips the overlay and returns the new state.
func (s *Settings) ToggleStats() bool {
	for {
		old := s.stats.Load()
		if s.stats.CompareAndSwap(old, !old) {
			return !old
		}
	}
}
