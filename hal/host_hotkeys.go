//go:build !tinygo

package hal

import (
	"errors"
	"io"
	"os"
	"time"
)

// hotkey is a window shortcut that stands in for a typed command.
type hotkey uint8

const (
	hkSquare hotkey = iota
	hkSine
	hkTriangle
	hkSawtooth
	hkStats
	hkTrigger
	hkColor
	hkHelp
)

var (
	hotkeyTrigModes = [...]string{"auto", "on", "off"}
	hotkeyColors    = [...]string{"verde", "galben", "alb", "rosu", "mov"}
)

// hotkeys remembers where the cycling shortcuts are.
type hotkeys struct {
	trig  int
	color int
}

func (h *hotkeys) command(k hotkey) string {
	switch k {
	case hkSquare:
		return "gen sqr"
	case hkSine:
		return "gen sine"
	case hkTriangle:
		return "gen tri"
	case hkSawtooth:
		return "gen saw"
	case hkStats:
		return "stats"
	case hkTrigger:
		h.trig = (h.trig + 1) % len(hotkeyTrigModes)
		return "trig " + hotkeyTrigModes[h.trig]
	case hkColor:
		h.color = (h.color + 1) % len(hotkeyColors)
		return "color " + hotkeyColors[h.color]
	case hkHelp:
		return "help"
	}
	return ""
}

// mergedSerial interleaves injected command lines with the bytes of an
// underlying port. Output goes straight to the port.
type mergedSerial struct {
	w       io.Writer
	in      chan []byte
	pending []byte
}

func newMergedSerial(s Serial) *mergedSerial {
	m := &mergedSerial{w: s, in: make(chan []byte, 16)}
	go m.pump(s)
	return m
}

func (m *mergedSerial) pump(r io.Reader) {
	buf := make([]byte, 256)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			m.in <- append([]byte(nil), buf[:n]...)
		}
		if errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) || errors.Is(err, ErrNotImplemented) {
			return
		}
		if err != nil {
			time.Sleep(time.Millisecond)
		}
	}
}

// Inject queues line as if it had been typed. A full queue drops it.
func (m *mergedSerial) Inject(line string) {
	select {
	case m.in <- []byte(line + "\n"):
	default:
	}
}

func (m *mergedSerial) Read(p []byte) (int, error) {
	if len(m.pending) == 0 {
		m.pending = <-m.in
	}
	n := copy(p, m.pending)
	m.pending = m.pending[n:]
	return n, nil
}

func (m *mergedSerial) Write(p []byte) (int, error) { return m.w.Write(p) }
