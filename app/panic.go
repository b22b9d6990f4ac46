package app

import (
	"fmt"
	"image/color"
	"runtime/debug"
	"strings"
	"unicode/utf8"

	"voltscope/hal"
	"voltscope/scope/render"

	"tinygo.org/x/tinyfont"
)

const (
	lineHeight = 8
	textAscent = 6
)

var (
	panicBG = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	panicFG = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xFF}
)

func stack() []byte { return debug.Stack() }

// showPanic reports a recovered panic on the logger and the display.
func showPanic(h hal.HAL, where string, v any, stack []byte) {
	lines := []string{
		"voltscope panic:",
		"context: " + where,
		fmt.Sprintf("panic: %v", v),
	}
	if len(stack) > 0 {
		lines = append(lines, "stack:")
		for _, line := range strings.Split(string(stack), "\n") {
			if line == "" {
				continue
			}
			lines = append(lines, line)
		}
	} else {
		lines = append(lines, "stack: unavailable")
	}

	if l := h.Logger(); l != nil {
		for _, line := range lines {
			l.WriteLineString(line)
		}
	}

	disp := h.Display()
	if disp == nil || disp.Surface() == nil {
		return
	}
	drawScreen(disp.Surface(), panicBG, panicFG, lines)
}

// drawScreen clears s and writes lines from the top, wrapping at the panel
// width and stopping at the bottom edge.
func drawScreen(s hal.Surface, bg, fg color.RGBA, lines []string) {
	w, h := s.Size()
	_ = s.FillRectangle(0, 0, w, h, bg)

	cols := w / render.CharWidth
	if cols <= 0 {
		cols = 1
	}
	y := int16(1)
	for _, line := range lines {
		for len(line) > 0 {
			if y+lineHeight > h {
				_ = s.Display()
				return
			}
			chunk, rest := takeRunes(line, cols)
			tinyfont.WriteLine(s, &tinyfont.Org01, 1, y+textAscent, chunk, fg)
			y += lineHeight
			line = strings.TrimLeft(rest, " ")
		}
	}
	_ = s.Display()
}

func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if int64(len(s)) <= int64(n) {
		return s, ""
	}
	var i int
	var count int16
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		if size <= 0 {
			break
		}
		i += size
		count++
	}
	if i >= len(s) {
		return s, ""
	}
	return s[:i], s[i:]
}
