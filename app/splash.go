package app

import (
	"image/color"

	"voltscope/hal"
)

var (
	splashBG = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xFF}
	splashFG = color.RGBA{R: 0x00, G: 0xFF, B: 0x00, A: 0xFF}
)

// splash shows boot text until the instrument draws its frame.
func splash(s hal.Surface, lines []string) {
	drawScreen(s, splashBG, splashFG, lines)
}
