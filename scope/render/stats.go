package render

import (
	"fmt"
	"image/color"

	"voltscope/scope/capture"
)

// Stats summarizes one sweep.
type Stats struct {
	Min, Max capture.Sample
}

// Measure returns the extremes of sweep. An empty sweep measures as zero.
func Measure(sweep []capture.Sample) Stats {
	if len(sweep) == 0 {
		return Stats{}
	}
	st := Stats{Min: sweep[0], Max: sweep[0]}
	for _, v := range sweep[1:] {
		if v < st.Min {
			st.Min = v
		}
		if v > st.Max {
			st.Max = v
		}
	}
	return st
}

func (s Stats) PeakToPeak() capture.Sample { return s.Max - s.Min }

func (s Stats) String() string {
	return fmt.Sprintf("min %.2f max %.2f pp %.2f", s.Min.Volts(), s.Max.Volts(), s.PeakToPeak().Volts())
}

// StatsOverlay shows Stats in the strip under the time axis.
type StatsOverlay struct {
	c     Canvas
	shown string
}

func NewStatsOverlay(c Canvas) *StatsOverlay { return &StatsOverlay{c: c} }

// Show draws st, skipping the draw when the text is unchanged.
func (o *StatsOverlay) Show(st Stats, fg color.RGBA) {
	text := st.String()
	if text == o.shown {
		return
	}
	o.c.FillRect(statsX, statsY, statsW, statsH, colorBG)
	o.c.Text(statsX, statsY, text, fg)
	o.shown = text
}

// Hide clears the strip once.
func (o *StatsOverlay) Hide() {
	if o.shown == "" {
		return
	}
	o.c.FillRect(statsX, statsY, statsW, statsH, colorBG)
	o.shown = ""
}

// Reset forgets what is on screen, for use after a full clear.
func (o *StatsOverlay) Reset() { o.shown = "" }
