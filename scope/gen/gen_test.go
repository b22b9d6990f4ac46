package gen

import (
	"math"
	"testing"
)

type recorder struct {
	vals []uint8
}

func (r *recorder) WriteValue(v uint8) { r.vals = append(r.vals, v) }

func TestPhasePeriodicity(t *testing.T) {
	const tickRate = 50_000
	for _, f := range []float64{tickRate / 256.0, tickRate / 128.0, tickRate / 32.0} {
		g, err := New(&recorder{}, tickRate)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if !g.SetFrequency(f) {
			t.Fatalf("SetFrequency(%v) = false, want true", f)
		}
		inc := g.Increment()
		if inc%phaseOne != 0 {
			t.Fatalf("Increment() = %#x, want whole table steps", inc)
		}
		ticks := TableSize / int(inc>>fracBits)
		start := g.Phase()
		for i := 0; i < ticks; i++ {
			g.Tick()
			if i < ticks-1 && g.Phase() == start {
				t.Fatalf("f=%v: phase returned early at tick %d", f, i+1)
			}
		}
		if g.Phase() != start {
			t.Fatalf("f=%v: Phase() after %d ticks = %#x, want %#x", f, ticks, g.Phase(), start)
		}
	}
}

func TestSetFrequencyRejects(t *testing.T) {
	g, _ := New(&recorder{}, 50_000)
	if !g.SetFrequency(300) {
		t.Fatalf("SetFrequency(300) = false, want true")
	}
	inc := g.Increment()
	for _, f := range []float64{0, -1, math.NaN(), math.Inf(1), 1e-9} {
		if g.SetFrequency(f) {
			t.Fatalf("SetFrequency(%v) = true, want false", f)
		}
		if g.Frequency() != 300 || g.Increment() != inc {
			t.Fatalf("after SetFrequency(%v): Frequency() = %v, Increment() = %d; want 300, %d", f, g.Frequency(), g.Increment(), inc)
		}
	}
}

func TestIncrement(t *testing.T) {
	// 256 * 300 / 50000 = 1.536 table steps per tick.
	if got, want := Increment(300, 50_000), uint32(math.Round(1.536*65536)); got != want {
		t.Fatalf("Increment(300, 50000) = %d, want %d", got, want)
	}
}

func TestSquareOutput(t *testing.T) {
	r := &recorder{}
	g, _ := New(r, 50_000)
	g.SetFrequency(50_000 / 256.0)
	for i := 0; i < TableSize; i++ {
		g.Tick()
	}
	for i, v := range r.vals {
		want := uint8(Mid + Amplitude)
		if i >= TableSize/2 {
			want = Mid - Amplitude
		}
		if v != want {
			t.Fatalf("vals[%d] = %d, want %d", i, v, want)
		}
	}
}

func TestTables(t *testing.T) {
	cases := []struct {
		name string
		tab  *table
		idx  int
		want uint8
	}{
		{"sine start", sineTable, 0, 128},
		{"sine peak", sineTable, 64, 228},
		{"sine trough", sineTable, 192, 28},
		{"triangle peak", triangleTable, 64, 228},
		{"triangle trough", triangleTable, 192, 28},
		{"saw start", sawtoothTable, 0, 28},
		{"saw middle", sawtoothTable, 128, 128},
	}
	for _, tc := range cases {
		if got := tc.tab[tc.idx]; got != tc.want {
			t.Fatalf("%s: table[%d] = %d, want %d", tc.name, tc.idx, got, tc.want)
		}
	}
	for _, tab := range []*table{sineTable, triangleTable, sawtoothTable} {
		for i, v := range tab {
			if v < Mid-Amplitude || v > Mid+Amplitude {
				t.Fatalf("table[%d] = %d, want within %d..%d", i, v, Mid-Amplitude, Mid+Amplitude)
			}
		}
	}
}

func TestKindSwitchKeepsPhase(t *testing.T) {
	r := &recorder{}
	g, _ := New(r, 50_000)
	g.SetFrequency(50_000 / 256.0)
	for i := 0; i < 64; i++ {
		g.Tick()
	}
	if !g.SetKind(Sine) {
		t.Fatalf("SetKind(Sine) = false, want true")
	}
	g.Tick()
	if got := r.vals[len(r.vals)-1]; got != 228 {
		t.Fatalf("sine at quarter phase = %d, want 228", got)
	}
	if g.SetKind(kindCount) {
		t.Fatalf("SetKind(kindCount) = true, want false")
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{Square, Sine, Triangle, Sawtooth} {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Fatalf("ParseKind(%q) = %v, %v; want %v, true", k.String(), got, ok, k)
		}
	}
	if got, ok := ParseKind("TRI"); !ok || got != Triangle {
		t.Fatalf("ParseKind(TRI) = %v, %v; want tri, true", got, ok)
	}
	if _, ok := ParseKind("noise"); ok {
		t.Fatalf("ParseKind(noise) ok = true, want false")
	}
}
