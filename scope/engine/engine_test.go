package engine

import (
	"bytes"
	"image/color"
	"io"
	"strings"
	"testing"
	"time"

	"voltscope/scope/capture"
	"voltscope/scope/config"
	"voltscope/scope/gen"
	"voltscope/scope/render"
	"voltscope/scope/trigger"
)

type nullCanvas struct {
	lines   int
	flushes int
}

func (c *nullCanvas) Pixel(x, y int16, col color.RGBA)          {}
func (c *nullCanvas) Line(x0, y0, x1, y1 int16, col color.RGBA) { c.lines++ }
func (c *nullCanvas) FillRect(x, y, w, h int16, col color.RGBA) {}
func (c *nullCanvas) Text(x, y int16, s string, col color.RGBA) {}
func (c *nullCanvas) Flush() error                              { c.flushes++; return nil }

type dacRecorder struct {
	last  uint8
	count int
}

func (d *dacRecorder) WriteValue(v uint8) { d.last = v; d.count++ }

type fakeConsole struct {
	in  []string
	out bytes.Buffer
}

func (f *fakeConsole) Write(p []byte) (int, error) { return f.out.Write(p) }

func (f *fakeConsole) Poll(dst io.Writer) int {
	n := len(f.in)
	for _, s := range f.in {
		dst.Write([]byte(s))
	}
	f.in = nil
	return n
}

type rig struct {
	in     *Instrument
	s      *config.Settings
	buf    *capture.DoubleBuffer
	canvas *nullCanvas
	dac    *dacRecorder
	con    *fakeConsole
}

func newRig(t *testing.T) *rig {
	t.Helper()
	buf, err := capture.NewDoubleBuffer(capture.DefaultDepth)
	if err != nil {
		t.Fatalf("NewDoubleBuffer: %v", err)
	}
	r := &rig{
		s:      config.NewSettings(),
		buf:    buf,
		canvas: &nullCanvas{},
		dac:    &dacRecorder{},
		con:    &fakeConsole{},
	}
	var now time.Duration
	r.in, err = New(Config{TickRate: gen.DefaultTickRate}, Deps{
		Canvas:   r.canvas,
		Out:      r.dac,
		Settings: r.s,
		Buffer:   buf,
		Clock:    func() time.Duration { return now },
		Console:  r.con,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := r.in.Boot(); err != nil {
		t.Fatalf("Boot: %v", err)
	}
	return r
}

func (r *rig) publish(fill func(i int) capture.Sample) {
	w := r.buf.WriteBuffer()
	for i := range w {
		w[i] = fill(i)
	}
	r.buf.Publish()
}

// frame runs Step until one sweep has been drawn.
func (r *rig) frame(t *testing.T) {
	t.Helper()
	start := r.canvas.flushes
	for i := 0; i < 4*render.PlotWidth; i++ {
		r.in.Step()
		if r.canvas.flushes > start {
			return
		}
	}
	t.Fatalf("no frame completed")
}

func square(period, phase int) func(i int) capture.Sample {
	return func(i int) capture.Sample {
		if (i+phase)%period < period/2 {
			return 3000
		}
		return 1000
	}
}

func edgeColumn(sweep []capture.Sample, level capture.Sample) int {
	for i := 1; i < len(sweep); i++ {
		if sweep[i-1] <= level && sweep[i] > level {
			return i
		}
	}
	return -1
}

func TestStableEdgeAcrossFrames(t *testing.T) {
	r := newRig(t)
	level := r.s.TriggerLevel()
	if r.s.TriggerMode() != trigger.Auto || level != capture.MidScale {
		t.Fatalf("settings = %v @ %d, want auto @ mid-scale", r.s.TriggerMode(), level)
	}

	want := -1
	for _, phase := range []int{0, 13, 37, 50, 71, 99} {
		r.publish(square(100, phase))
		r.frame(t)
		got := edgeColumn(r.in.Sweep(), level)
		if got < 0 {
			t.Fatalf("phase %d: no edge in sweep", phase)
		}
		if want < 0 {
			want = got
			continue
		}
		if d := got - want; d < -1 || d > 1 {
			t.Fatalf("phase %d: edge column = %d, want %d +-1", phase, got, want)
		}
	}
}

func TestUnchangedFramesDrawNothing(t *testing.T) {
	r := newRig(t)
	r.publish(square(100, 0))
	r.frame(t)
	r.canvas.lines = 0
	r.publish(square(100, 40))
	r.frame(t)
	if r.canvas.lines != 0 {
		t.Fatalf("lines for an identical triggered frame = %d, want 0", r.canvas.lines)
	}
}

func TestGeneratorTicksEveryStep(t *testing.T) {
	r := newRig(t)
	for i := 0; i < 10; i++ {
		r.in.Step()
	}
	if r.dac.count != 10 {
		t.Fatalf("DAC writes = %d, want 10", r.dac.count)
	}
}

func TestCommandsReachGenerator(t *testing.T) {
	r := newRig(t)
	r.con.in = []string{"gen saw\n", "genf 300\n"}
	r.in.Step()
	g := r.in.Generator()
	if g.Kind() != gen.Sawtooth || g.Frequency() != 300 {
		t.Fatalf("generator = %v %v, want saw 300", g.Kind(), g.Frequency())
	}
	if !strings.Contains(r.con.out.String(), "gen=saw f=300.0Hz") {
		t.Fatalf("status output = %q", r.con.out.String())
	}
}

func TestNormalModeHoldsWithoutEdge(t *testing.T) {
	r := newRig(t)
	r.s.SetTriggerMode(trigger.Normal)
	for i := 0; i < 30; i++ {
		r.publish(func(int) capture.Sample { return 1000 })
		r.in.Step()
		if r.in.Renderer().State() != render.Searching {
			t.Fatalf("started drawing without an edge")
		}
	}
}

func TestAutoModeFreeRuns(t *testing.T) {
	r := newRig(t)
	for i := 0; i <= trigger.DefaultMissTimeout; i++ {
		r.publish(func(int) capture.Sample { return 1000 })
		r.in.Step()
	}
	if r.in.Renderer().State() != render.Drawing {
		t.Fatalf("State() = %v after %d misses, want drawing", r.in.Renderer().State(), trigger.DefaultMissTimeout+1)
	}
}

func TestNewRejectsShallowBuffer(t *testing.T) {
	buf, _ := capture.NewDoubleBuffer(render.PlotWidth)
	_, err := New(DefaultConfig(), Deps{
		Canvas:   &nullCanvas{},
		Out:      &dacRecorder{},
		Settings: config.NewSettings(),
		Buffer:   buf,
		Clock:    func() time.Duration { return 0 },
	})
	if err == nil {
		t.Fatalf("New() err = nil, want depth error")
	}
}
