//go:build !tinygo

package hal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

const (
	hostScreenWidth  = 240
	hostScreenHeight = 240
)

// HostConfig selects the peripherals of the desktop simulation.
type HostConfig struct {
	// Serial is a TTY path for the command channel; empty uses stdin/stdout.
	Serial string
	Baud   int
	// WAV replays a file into the analog input instead of the loopback wire.
	WAV string
	// Audio plays the analog output through the sound card.
	Audio bool
	// Backlight is a periph.io GPIO name driven as the display backlight.
	Backlight string
	// Seed drives the loopback noise and glitch model.
	Seed int64
}

type hostHAL struct {
	logger    *hostLogger
	backlight LED
	fb        *hostFramebuffer
	t         *hostTime
	line      *analogLine
	adc       SampleSource
	serial    *mergedSerial
	keys      hotkeys

	closers []io.Closer
}

// New returns a host HAL implementation.
func New(cfg HostConfig) (HAL, error) {
	return newHostHAL(cfg)
}

func newHostHAL(cfg HostConfig) (*hostHAL, error) {
	logger := &hostLogger{w: os.Stderr}
	t := newHostTime()
	h := &hostHAL{
		logger: logger,
		fb:     newHostFramebuffer(hostScreenWidth, hostScreenHeight),
		t:      t,
		line:   newAnalogLine(t.Now),
	}
	var port Serial = &hostSerial{r: os.Stdin, w: os.Stdout}

	if cfg.Backlight != "" {
		led, err := openGPIOBacklight(cfg.Backlight)
		if err != nil {
			return nil, err
		}
		h.backlight = led
	} else {
		h.backlight = &hostLED{logger: logger}
	}

	if cfg.WAV != "" {
		src, err := openWAVSource(cfg.WAV, t.Now, time.Sleep)
		if err != nil {
			return nil, err
		}
		h.adc = src
	} else {
		h.adc = newLoopbackADC(h.line, t.Now, time.Sleep, cfg.Seed)
	}

	if cfg.Serial != "" {
		tty, err := openTTYSerial(cfg.Serial, cfg.Baud)
		if err != nil {
			return nil, err
		}
		port = tty
		h.closers = append(h.closers, tty)
	}
	h.serial = newMergedSerial(port)

	if cfg.Audio {
		mon, err := startAudioMonitor(h.line, t.Now)
		if err != nil {
			_ = h.Close()
			return nil, err
		}
		h.closers = append(h.closers, mon)
	}

	return h, nil
}

func (h *hostHAL) Logger() Logger    { return h.logger }
func (h *hostHAL) Backlight() LED    { return h.backlight }
func (h *hostHAL) Display() Display  { return hostDisplay{fb: h.fb} }
func (h *hostHAL) ADC() SampleSource { return h.adc }
func (h *hostHAL) DAC() AnalogOut    { return h.line }
func (h *hostHAL) Serial() Serial    { return h.serial }
func (h *hostHAL) Time() Time        { return h.t }

// Close releases host devices opened by New.
func (h *hostHAL) Close() error {
	var errs []error
	for i := len(h.closers) - 1; i >= 0; i-- {
		if err := h.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	h.closers = nil
	return errors.Join(errs...)
}

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Surface() Surface { return d.fb }

type hostLogger struct {
	mu sync.Mutex
	w  *os.File
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

type hostLED struct {
	mu     sync.Mutex
	on     bool
	logger *hostLogger
}

func (l *hostLED) High() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.on = true
	l.logger.WriteLineString("backlight: on")
}

func (l *hostLED) Low() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.on = false
	l.logger.WriteLineString("backlight: off")
}
