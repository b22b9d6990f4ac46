// Package capture moves blocks of analog samples from the acquisition
// context to the control context without locks.
package capture

import "math"

// Sample is a coded analog reading: 0..MaxCode spans 0..FullScaleVolts.
type Sample uint16

const (
	MaxCode  Sample = 4095
	MidScale Sample = 2048

	FullScaleVolts = 3.3

	// DefaultDepth is the number of samples in one capture block.
	DefaultDepth = 512
)

// Volts converts a coded sample to volts.
func (s Sample) Volts() float64 {
	return float64(s) * FullScaleVolts / float64(MaxCode)
}

// FromVolts returns the nearest code for v, clamped to the coded range.
func FromVolts(v float64) Sample {
	if !(v > 0) {
		return 0
	}
	code := math.Round(v * float64(MaxCode) / FullScaleVolts)
	if code > float64(MaxCode) {
		return MaxCode
	}
	return Sample(code)
}
