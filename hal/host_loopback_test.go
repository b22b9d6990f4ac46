//go:build !tinygo

package hal

import (
	"errors"
	"io"
	"testing"
	"time"
)

type fakeClock struct {
	now time.Duration
}

func (c *fakeClock) Now() time.Duration       { return c.now }
func (c *fakeClock) Sleep(d time.Duration)    { c.now += d }
func (c *fakeClock) Advance(d time.Duration) { c.now += d }

func TestAnalogLineLevels(t *testing.T) {
	clk := &fakeClock{}
	line := newAnalogLine(clk.Now)

	line.WriteValue(10)
	clk.Advance(10 * time.Microsecond)
	line.WriteValue(10) // unchanged, not recorded
	clk.Advance(10 * time.Microsecond)
	line.WriteValue(200)
	clk.Advance(20 * time.Microsecond)
	line.WriteValue(50)

	got := make([]uint8, 6)
	line.levels(0, 10*time.Microsecond, got)
	want := []uint8{10, 10, 200, 200, 50, 50}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("levels()[%d] = %d, want %d (all %v)", i, got[i], want[i], got)
		}
	}
	if line.n != 3 {
		t.Fatalf("recorded events = %d, want 3", line.n)
	}
}

func TestAnalogLineIdleIsMidScale(t *testing.T) {
	clk := &fakeClock{}
	line := newAnalogLine(clk.Now)

	got := make([]uint8, 3)
	line.levels(0, time.Microsecond, got)
	for i, v := range got {
		if v != 128 {
			t.Fatalf("levels()[%d] = %d, want 128", i, v)
		}
	}
}

func TestLoopbackADCPacesAndConverts(t *testing.T) {
	clk := &fakeClock{}
	line := newAnalogLine(clk.Now)
	line.WriteValue(255)

	adc := newLoopbackADC(line, clk.Now, clk.Sleep, 1)
	if err := adc.SetRate(10_000); err != nil {
		t.Fatalf("SetRate: %v", err)
	}

	dst := make([]uint16, 100)
	n, err := adc.ReadBlock(dst, time.Second)
	if err != nil || n != len(dst) {
		t.Fatalf("ReadBlock() = %d, %v; want %d, nil", n, err, len(dst))
	}
	if clk.now != 10*time.Millisecond {
		t.Fatalf("clock after block = %v, want 10ms", clk.now)
	}
	for i, v := range dst {
		if v == 0 {
			continue
		}
		if v < 4095-loopbackNoise || v > 4095 {
			t.Fatalf("dst[%d] = %d, want near 4095", i, v)
		}
	}
}

func TestLoopbackADCTimeout(t *testing.T) {
	clk := &fakeClock{}
	line := newAnalogLine(clk.Now)
	adc := newLoopbackADC(line, clk.Now, clk.Sleep, 1)
	_ = adc.SetRate(10_000)

	dst := make([]uint16, 512)
	n, err := adc.ReadBlock(dst, time.Millisecond)
	if n != 0 || !errors.Is(err, ErrTimeout) {
		t.Fatalf("ReadBlock() = %d, %v; want 0, %v", n, err, ErrTimeout)
	}
	if err := adc.SetRate(0); err == nil {
		t.Fatalf("SetRate(0) err = nil, want error")
	}
}

func TestWAVSourceLoops(t *testing.T) {
	clk := &fakeClock{}
	src := newWAVSource([]float32{-1, 1}, 2, clk.Now, clk.Sleep)
	_ = src.SetRate(2)

	dst := make([]uint16, 4)
	if _, err := src.ReadBlock(dst, 5*time.Second); err != nil {
		t.Fatalf("ReadBlock: %v", err)
	}
	want := []uint16{2048 - wavSwing, 2048 + wavSwing, 2048 - wavSwing, 2048 + wavSwing}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst[%d] = %d, want %d", i, dst[i], want[i])
		}
	}
}

func TestHotkeysCycle(t *testing.T) {
	var h hotkeys
	if got := h.command(hkSine); got != "gen sine" {
		t.Fatalf("command(sine) = %q, want gen sine", got)
	}
	want := []string{"trig on", "trig off", "trig auto", "trig on"}
	for i, w := range want {
		if got := h.command(hkTrigger); got != w {
			t.Fatalf("trigger press %d = %q, want %q", i, got, w)
		}
	}
	if got := h.command(hkColor); got != "color galben" {
		t.Fatalf("first color press = %q, want color galben", got)
	}
}

type blockingSerial struct{ out []byte }

func (b *blockingSerial) Read(p []byte) (int, error) { select {} }

func (b *blockingSerial) Write(p []byte) (int, error) {
	b.out = append(b.out, p...)
	return len(p), nil
}

func TestMergedSerialInjects(t *testing.T) {
	under := &blockingSerial{}
	m := newMergedSerial(under)
	m.Inject("stats")

	buf := make([]byte, 3)
	var got []byte
	for len(got) < len("stats\n") {
		n, err := m.Read(buf)
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		got = append(got, buf[:n]...)
	}
	if string(got) != "stats\n" {
		t.Fatalf("read %q, want %q", got, "stats\n")
	}
	m.Write([]byte("ok"))
	if string(under.out) != "ok" {
		t.Fatalf("underlying got %q, want ok", under.out)
	}
}

type eofSerial struct{}

func (eofSerial) Read(p []byte) (int, error) {
	return copy(p, "gen tri\n"), io.EOF
}
func (eofSerial) Write(p []byte) (int, error) { return len(p), nil }

func TestMergedSerialKeepsInjectingAfterEOF(t *testing.T) {
	m := newMergedSerial(eofSerial{})
	buf := make([]byte, 64)
	n, _ := m.Read(buf)
	if string(buf[:n]) != "gen tri\n" {
		t.Fatalf("first read %q, want %q", buf[:n], "gen tri\n")
	}
	m.Inject("help")
	n, _ = m.Read(buf)
	if string(buf[:n]) != "help\n" {
		t.Fatalf("read after EOF %q, want %q", buf[:n], "help\n")
	}
}
