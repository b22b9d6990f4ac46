// Package engine runs the control context: one generator tick, console
// polling, trigger search and one render step per paced iteration.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"voltscope/hal"
	"voltscope/scope/capture"
	"voltscope/scope/command"
	"voltscope/scope/config"
	"voltscope/scope/gen"
	"voltscope/scope/logger"
	"voltscope/scope/pace"
	"voltscope/scope/render"
	"voltscope/scope/trigger"
)

// Config sizes the control loop.
type Config struct {
	// TickRate is the regulated iteration rate and the generator's
	// nominal tick rate.
	TickRate uint32
	// HealthEvery is the interval between health log lines; zero disables
	// them.
	HealthEvery time.Duration
}

func DefaultConfig() Config {
	return Config{
		TickRate:    gen.DefaultTickRate,
		HealthEvery: 10 * time.Second,
	}
}

// Console is the non-blocking command channel seen from the control loop.
type Console interface {
	io.Writer
	Poll(dst io.Writer) int
}

// Counters reports acquisition health.
type Counters interface {
	Blocks() uint32
	Failures() uint32
}

// Deps are the collaborators of an Instrument. Console, Counters, Log and
// Yield may be nil.
type Deps struct {
	Canvas   render.Canvas
	Out      hal.AnalogOut
	Settings *config.Settings
	Buffer   *capture.DoubleBuffer
	Clock    func() time.Duration

	Console  Console
	Counters Counters
	Log      *logger.Logger
	Yield    func()
}

// Instrument is the control context. It is driven by one goroutine.
type Instrument struct {
	cfg Config
	s   *config.Settings
	buf *capture.DoubleBuffer

	gen     *gen.Generator
	det     trigger.Detector
	rend    *render.Renderer
	axes    *render.Axes
	overlay *render.StatsOverlay
	canvas  render.Canvas
	cmd     *command.Interpreter
	console Console
	reg     *pace.Regulator

	counters Counters
	log      *logger.Logger
	now      func() time.Duration

	snap  []capture.Sample
	sweep []capture.Sample

	color      config.Color
	freq       float64
	statsOn    bool
	frames     uint32
	lastHealth time.Duration
}

func New(cfg Config, d Deps) (*Instrument, error) {
	if d.Canvas == nil || d.Out == nil || d.Settings == nil || d.Buffer == nil || d.Clock == nil {
		return nil, errors.New("engine: missing dependency")
	}
	// Find searches the first half, so a sweep starting there must still
	// fit in the block.
	if depth := d.Buffer.Depth(); depth < 2*render.PlotWidth {
		return nil, fmt.Errorf("engine: capture depth %d below %d", depth, 2*render.PlotWidth)
	}

	g, err := gen.New(d.Out, float64(cfg.TickRate))
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	reg, err := pace.New(cfg.TickRate, d.Clock, d.Yield)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	var out io.Writer = io.Discard
	if d.Console != nil {
		out = d.Console
	}
	cmd, err := command.New(d.Settings, out)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	color := d.Settings.Color()
	in := &Instrument{
		cfg:      cfg,
		s:        d.Settings,
		buf:      d.Buffer,
		gen:      g,
		rend:     render.NewRenderer(d.Canvas, color.RGBA()),
		axes:     render.NewAxes(d.Canvas),
		overlay:  render.NewStatsOverlay(d.Canvas),
		canvas:   d.Canvas,
		cmd:      cmd,
		console:  d.Console,
		reg:      reg,
		counters: d.Counters,
		log:      d.Log.With("engine"),
		now:      d.Clock,
		snap:     make([]capture.Sample, d.Buffer.Depth()),
		color:    color,
	}
	in.applySettings()
	return in, nil
}

// Boot clears the screen and draws the static frame. The first sweep then
// redraws every column.
func (in *Instrument) Boot() error {
	in.s.TakeAxisDirty()
	in.axes.Draw(in.s.SampleRate())
	in.overlay.Reset()
	in.rend.Invalidate()
	in.lastHealth = in.now()
	return in.canvas.Flush()
}

// Step runs one control iteration without pacing.
func (in *Instrument) Step() {
	in.gen.Tick()
	if in.console != nil {
		in.console.Poll(in.cmd)
	}
	in.applySettings()

	switch in.rend.State() {
	case render.Searching:
		if !in.buf.TryTake(in.snap) {
			return
		}
		off, draw := in.det.Evaluate(in.snap, in.s.Trigger())
		if !draw {
			return
		}
		in.sweep = in.snap[off : off+render.PlotWidth]
		if err := in.rend.Begin(in.sweep); err != nil {
			in.log.Printf("%v", err)
		}
	case render.Drawing:
		if in.rend.Step() {
			in.finishFrame()
		}
	}
}

// Run paces Step at the configured tick rate until ctx is done.
func (in *Instrument) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		in.reg.Begin()
		in.Step()
		in.maybeLogHealth()
		in.reg.Wait()
	}
}

func (in *Instrument) finishFrame() {
	in.frames++
	if in.statsOn {
		in.overlay.Show(render.Measure(in.sweep), in.color.RGBA())
	}
	if err := in.canvas.Flush(); err != nil {
		in.log.Printf("flush: %v", err)
	}
}

func (in *Instrument) applySettings() {
	if k := in.s.Wave(); k != in.gen.Kind() {
		in.gen.SetKind(k)
	}
	if f := in.s.Frequency(); f != in.freq {
		in.freq = f
		if !in.gen.SetFrequency(f) {
			in.log.Printf("generator rejected %v Hz", f)
		}
	}
	if c := in.s.Color(); c != in.color {
		in.color = c
		in.rend.SetTrace(c.RGBA())
		in.overlay.Reset()
	}
	if in.s.TakeAxisDirty() {
		in.axes.RedrawTimeLabels(in.s.SampleRate())
	}
	if on := in.s.Stats(); on != in.statsOn {
		in.statsOn = on
		if !on {
			in.overlay.Hide()
		}
	}
}

// Health is a snapshot of the loop counters.
type Health struct {
	Frames   uint32
	Blocks   uint32
	Failures uint32
	Overruns uint32
	Misses   int
}

func (in *Instrument) Health() Health {
	h := Health{
		Frames:   in.frames,
		Overruns: in.reg.Overruns(),
		Misses:   in.det.Misses(),
	}
	if in.counters != nil {
		h.Blocks = in.counters.Blocks()
		h.Failures = in.counters.Failures()
	}
	return h
}

func (in *Instrument) maybeLogHealth() {
	if in.cfg.HealthEvery <= 0 {
		return
	}
	now := in.now()
	if now-in.lastHealth < in.cfg.HealthEvery {
		return
	}
	in.lastHealth = now
	h := in.Health()
	in.log.Printf("frames=%d blocks=%d failures=%d overruns=%d worst=%v misses=%d",
		h.Frames, h.Blocks, h.Failures, h.Overruns, in.reg.Worst(), h.Misses)
}

// Sweep returns the columns of the last sweep handed to the renderer.
func (in *Instrument) Sweep() []capture.Sample { return in.sweep }

// Generator exposes the generator for inspection.
func (in *Instrument) Generator() *gen.Generator { return in.gen }

// Renderer exposes the renderer for inspection.
func (in *Instrument) Renderer() *render.Renderer { return in.rend }
