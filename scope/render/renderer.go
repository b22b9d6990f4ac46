package render

import (
	"fmt"
	"image/color"

	"voltscope/scope/capture"
)

// State is the renderer phase.
type State uint8

const (
	// Searching waits for a triggered sweep.
	Searching State = iota
	// Drawing advances one column pair per Step.
	Drawing
)

func (s State) String() string {
	if s == Drawing {
		return "drawing"
	}
	return "searching"
}

// Renderer redraws the trace one column pair per Step, erasing and drawing
// only the segments whose rows changed. It is owned by the control context.
type Renderer struct {
	c     Canvas
	trace color.RGBA

	prev  [PlotWidth]capture.Sample
	sweep [PlotWidth]capture.Sample

	state  State
	col    int
	force  bool
	erased bool
	// pending holds a full redraw requested mid-sweep until the next Begin.
	pending bool
}

// NewRenderer assumes the plot is blank apart from the grid and that the
// screen shows a flat trace at mid-scale.
func NewRenderer(c Canvas, trace color.RGBA) *Renderer {
	r := &Renderer{c: c, trace: trace}
	for i := range r.prev {
		r.prev[i] = capture.MidScale
	}
	return r
}

func (r *Renderer) State() State { return r.state }

// SetTrace changes the trace color. Every column is redrawn on the next sweep.
func (r *Renderer) SetTrace(c color.RGBA) {
	if c == r.trace {
		return
	}
	r.trace = c
	r.Invalidate()
}

// Invalidate makes the next sweep redraw every column, for example after the
// screen was cleared. Called while Drawing, the current sweep finishes as
// usual and the full redraw starts with the next one.
func (r *Renderer) Invalidate() {
	if r.state == Drawing {
		r.pending = true
		return
	}
	r.force = true
}

// Previous returns the values currently on screen, one per column.
func (r *Renderer) Previous() []capture.Sample { return r.prev[:] }

// Begin starts drawing sweep. It is only valid while Searching.
func (r *Renderer) Begin(sweep []capture.Sample) error {
	if r.state != Searching {
		return fmt.Errorf("render: begin while %v", r.state)
	}
	if len(sweep) != PlotWidth {
		return fmt.Errorf("render: sweep has %d columns, want %d", len(sweep), PlotWidth)
	}
	copy(r.sweep[:], sweep)
	r.state = Drawing
	r.col = 1
	r.erased = false
	if r.pending {
		r.force = true
		r.pending = false
	}
	return nil
}

// Step processes the column pair ending at the current column. It reports
// true when the sweep is complete and the renderer is Searching again.
func (r *Renderer) Step() bool {
	if r.state != Drawing {
		return true
	}
	i := r.col
	x1 := int16(OriginX + i - 1)
	x2 := int16(OriginX + i)
	oy1, oy2 := Row(r.prev[i-1]), Row(r.prev[i])
	ny1, ny2 := Row(r.sweep[i-1]), Row(r.sweep[i])

	changed := r.force || oy1 != ny1 || oy2 != ny2
	if changed {
		r.c.Line(x1, oy1, x2, oy2, colorBG)
	}
	if i == 1 {
		r.repairGrid(x1)
	}
	r.repairGrid(x2)
	if changed || r.erased {
		r.c.Line(x1, ny1, x2, ny2, r.trace)
	}
	// The erase above can cut through the vertical run of the segment
	// drawn by the previous step.
	if changed && i >= 2 {
		r.c.Line(x1-1, Row(r.sweep[i-2]), x1, ny1, r.trace)
	}
	r.erased = changed
	r.prev[i-1] = r.sweep[i-1]

	r.col++
	if r.col < PlotWidth {
		return false
	}
	r.prev[PlotWidth-1] = r.sweep[PlotWidth-1]
	r.state = Searching
	r.force = false
	return true
}

// Flush finishes the current sweep in one call.
func (r *Renderer) Flush() {
	for !r.Step() {
	}
}

func (r *Renderer) repairGrid(x int16) {
	if !isMarkColumn(x) {
		return
	}
	for _, y := range gridRows {
		r.c.Pixel(x, y, colorGrid)
	}
}
