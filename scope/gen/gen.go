// Package gen synthesizes the generator output with a phase accumulator.
package gen

import (
	"fmt"
	"math"
	"strings"

	"voltscope/hal"
)

// Kind is the waveform shape.
type Kind uint8

const (
	Square Kind = iota
	Sine
	Triangle
	Sawtooth

	kindCount
)

var kindNames = [kindCount]string{
	Square:   "sqr",
	Sine:     "sine",
	Triangle: "tri",
	Sawtooth: "saw",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind accepts the command keywords sqr, sine, tri and saw.
func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(s)
	for k, name := range kindNames {
		if name == s {
			return Kind(k), true
		}
	}
	return 0, false
}

// The accumulator is unsigned 16.16 fixed point over the table domain: the
// integer part indexes the table and wraps at TableSize.
const (
	fracBits  = 16
	phaseOne  = 1 << fracBits
	phaseMask = TableSize<<fracBits - 1
	halfTable = TableSize / 2 << fracBits
)

type synthFunc func(phase uint32) uint8

var synth = [kindCount]synthFunc{
	Square: func(phase uint32) uint8 {
		if phase < halfTable {
			return Mid + Amplitude
		}
		return Mid - Amplitude
	},
	Sine:     func(phase uint32) uint8 { return sineTable[phase>>fracBits] },
	Triangle: func(phase uint32) uint8 { return triangleTable[phase>>fracBits] },
	Sawtooth: func(phase uint32) uint8 { return sawtoothTable[phase>>fracBits] },
}

// DefaultTickRate is the nominal number of Tick calls per second.
const DefaultTickRate = 50_000

// Generator writes one output value per Tick. It is owned by the control
// context.
type Generator struct {
	out      hal.AnalogOut
	tickRate float64

	kind  Kind
	freq  float64
	inc   uint32
	phase uint32
}

// New returns a generator producing a square wave at the slowest command
// frequency.
func New(out hal.AnalogOut, tickRate float64) (*Generator, error) {
	if out == nil {
		return nil, fmt.Errorf("gen: nil output")
	}
	if !(tickRate > 0) || math.IsInf(tickRate, 0) {
		return nil, fmt.Errorf("gen: invalid tick rate %v", tickRate)
	}
	g := &Generator{out: out, tickRate: tickRate}
	g.SetFrequency(DefaultFrequency)
	return g, nil
}

// DefaultFrequency is the power-on frequency in Hz.
const DefaultFrequency = 100

// Increment returns the per-tick phase step for f at tickRate in 16.16
// fixed point: TableSize * f / tickRate.
func Increment(f, tickRate float64) uint32 {
	return uint32(math.Round(TableSize * f / tickRate * phaseOne))
}

// SetFrequency recomputes the increment immediately. Non-positive,
// non-finite and unrepresentable frequencies are rejected and leave the
// generator unchanged.
func (g *Generator) SetFrequency(f float64) bool {
	if !(f > 0) || math.IsInf(f, 0) {
		return false
	}
	inc := Increment(f, g.tickRate)
	if inc == 0 || inc > phaseMask {
		return false
	}
	g.freq = f
	g.inc = inc
	return true
}

// SetKind selects the waveform. The phase is kept.
func (g *Generator) SetKind(k Kind) bool {
	if k >= kindCount {
		return false
	}
	g.kind = k
	return true
}

func (g *Generator) Kind() Kind         { return g.kind }
func (g *Generator) Frequency() float64 { return g.freq }
func (g *Generator) Increment() uint32  { return g.inc }
func (g *Generator) Phase() uint32      { return g.phase }
func (g *Generator) TickRate() float64  { return g.tickRate }

// Tick writes the value at the current phase and advances it.
func (g *Generator) Tick() {
	g.out.WriteValue(synth[g.kind](g.phase))
	g.phase = (g.phase + g.inc) & phaseMask
}
