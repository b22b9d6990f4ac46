// Package render draws the triggered sweep onto the panel, touching only the
// columns whose trace changed since the previous frame.
package render

import (
	"image/color"

	"voltscope/scope/capture"
)

// Panel geometry. The plot occupies rows 0..PlotHeight-1 to the right of the
// volt labels; the time axis and status strip sit below it.
const (
	ScreenWidth  = 240
	ScreenHeight = 240

	OriginX    = 20
	PlotWidth  = 220
	PlotHeight = 200

	// Codes outside codeLow..codeHigh clip to the plot edges.
	codeLow  = 50
	codeHigh = 4050

	markSpacing = 5
)

var (
	colorBG   = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xFF}
	colorGrid = color.RGBA{R: 0x7B, G: 0x7D, B: 0x7B, A: 0xFF}
	colorText = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// Row maps a coded sample to a plot row, 0 at the top. The integer division
// truncates toward zero so rows match the panel firmware pixel for pixel.
func Row(v capture.Sample) int16 {
	y := (int(v)-codeLow)*(0-PlotHeight)/(codeHigh-codeLow) + PlotHeight
	if y < 0 {
		return 0
	}
	if y > PlotHeight-1 {
		return PlotHeight - 1
	}
	return int16(y)
}

// gridVolts are the dotted reference rows.
var gridVolts = [...]int{1, 2, 3}

var gridRows = func() [len(gridVolts)]int16 {
	var rows [len(gridVolts)]int16
	for i, v := range gridVolts {
		rows[i] = Row(capture.Sample(float64(v) * float64(capture.MaxCode) / capture.FullScaleVolts))
	}
	return rows
}()

func isMarkColumn(x int16) bool {
	return x >= OriginX && (x-OriginX)%markSpacing == 0
}
