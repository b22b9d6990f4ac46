package render

import (
	"fmt"
	"strconv"
)

// Frame layout below and left of the plot.
const (
	axisY = PlotHeight

	tickLen = 4

	timeLabelY = axisY + tickLen + 2
	timeLabelH = 8

	unitLabelX = ScreenWidth - 2*CharWidth - 3
	unitLabelY = timeLabelY + timeLabelH + 4

	statsX = 2
	statsY = unitLabelY
	statsW = unitLabelX - statsX - 2
	statsH = 9
)

var timeTicks = [...]int16{OriginX, OriginX + PlotWidth/2, ScreenWidth - 1}

// Axes draws the static frame around the plot.
type Axes struct {
	c Canvas
}

func NewAxes(c Canvas) *Axes { return &Axes{c: c} }

// Draw clears the screen and draws the full frame for sps.
func (a *Axes) Draw(sps uint32) {
	a.c.FillRect(0, 0, ScreenWidth, ScreenHeight, colorBG)

	a.c.Text(2, 2, "V", colorText)
	for i, y := range gridRows {
		a.c.Text(5, y-2, strconv.Itoa(gridVolts[i]), colorText)
		for x := int16(OriginX); x < OriginX+PlotWidth; x += markSpacing {
			a.c.Pixel(x, y, colorGrid)
		}
	}

	a.c.Line(OriginX, axisY, ScreenWidth-1, axisY, colorText)
	for _, x := range timeTicks {
		a.c.Line(x, axisY+1, x, axisY+tickLen, colorText)
	}
	a.c.Text(unitLabelX, unitLabelY, "ms", colorText)
	a.RedrawTimeLabels(sps)
}

// RedrawTimeLabels rewrites the 0, half-span and full-span labels.
func (a *Axes) RedrawTimeLabels(sps uint32) {
	a.c.FillRect(0, timeLabelY, ScreenWidth, timeLabelH, colorBG)
	span := SweepMillis(sps)
	a.c.Text(OriginX-CharWidth/2, timeLabelY, "0", colorText)
	mid := formatMillis(span / 2)
	a.c.Text(timeTicks[1]-int16(len(mid)*CharWidth/2), timeLabelY, mid, colorText)
	end := formatMillis(span)
	a.c.Text(ScreenWidth-int16(len(end)*CharWidth)-1, timeLabelY, end, colorText)
}

// SweepMillis is the time covered by one sweep at sps.
func SweepMillis(sps uint32) float64 {
	if sps == 0 {
		return 0
	}
	return float64(PlotWidth) * 1000 / float64(sps)
}

func formatMillis(ms float64) string {
	if ms >= 10 {
		return fmt.Sprintf("%.0f", ms)
	}
	return fmt.Sprintf("%.1f", ms)
}
