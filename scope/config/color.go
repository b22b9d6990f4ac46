package config

import (
	"fmt"
	"image/color"
	"strings"
)

// Color is a trace color. The command names are Romanian keywords.
type Color uint8

const (
	Green Color = iota
	Yellow
	White
	Red
	Purple

	colorCount
)

var colorNames = [colorCount]string{
	Green:  "verde",
	Yellow: "galben",
	White:  "alb",
	Red:    "rosu",
	Purple: "mov",
}

var colorValues = [colorCount]color.RGBA{
	Green:  {R: 0x00, G: 0xFF, B: 0x00, A: 0xFF},
	Yellow: {R: 0xFF, G: 0xFF, B: 0x00, A: 0xFF},
	White:  {R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
	Red:    {R: 0xFF, G: 0x00, B: 0x00, A: 0xFF},
	Purple: {R: 0x80, G: 0x00, B: 0x80, A: 0xFF},
}

func (c Color) String() string {
	if c < colorCount {
		return colorNames[c]
	}
	return fmt.Sprintf("color(%d)", uint8(c))
}

// RGBA returns the display color. Unknown values fall back to green.
func (c Color) RGBA() color.RGBA {
	if c < colorCount {
		return colorValues[c]
	}
	return colorValues[Green]
}

func ParseColor(s string) (Color, bool) {
	s = strings.ToLower(s)
	for c, name := range colorNames {
		if name == s {
			return Color(c), true
		}
	}
	return 0, false
}

// ColorNames lists the accepted keywords in order.
func ColorNames() []string {
	return append([]string(nil), colorNames[:]...)
}
