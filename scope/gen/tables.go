package gen

import "math"

const (
	// TableSize is the number of entries in one waveform period.
	TableSize = 256

	// Mid and Amplitude place every waveform inside the 8-bit output range.
	Mid       = 128
	Amplitude = 100
)

type table [TableSize]uint8

var (
	sineTable     = buildTable(func(p float64) float64 { return math.Sin(2 * math.Pi * p) })
	triangleTable = buildTable(triangleShape)
	sawtoothTable = buildTable(func(p float64) float64 { return 2*p - 1 })
)

// buildTable samples shape, which maps a phase in [0, 1) to [-1, 1], once
// per entry.
func buildTable(shape func(p float64) float64) *table {
	var t table
	for i := range t {
		t[i] = uint8(math.Round(Mid + Amplitude*shape(float64(i)/TableSize)))
	}
	return &t
}

// triangleShape starts at zero and rises first, in phase with the sine.
func triangleShape(p float64) float64 {
	switch {
	case p < 0.25:
		return 4 * p
	case p < 0.75:
		return 2 - 4*p
	default:
		return 4*p - 4
	}
}
