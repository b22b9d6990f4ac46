package hal

import (
	"errors"
	"image/color"
	"io"
	"time"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// LED is a minimal output pin abstraction. The instrument drives its display
// backlight through it.
type LED interface {
	High()
	Low()
}

var (
	ErrNotImplemented = errors.New("not implemented")
	// ErrTimeout is returned by SampleSource.ReadBlock when the bounded wait
	// expires before a full block is available.
	ErrTimeout = errors.New("timeout")
)

// Surface is a raster sink addressed by integer column/row.
//
// It is a superset of tinygo.org/x/drivers.Displayer, so panel drivers such as
// st7789 satisfy it directly.
type Surface interface {
	Size() (x, y int16)
	SetPixel(x, y int16, c color.RGBA)
	FillRectangle(x, y, width, height int16, c color.RGBA) error
	Display() error
}

// Display provides access to the drawing surface.
type Display interface {
	Surface() Surface
}

// SampleSource is the analog input of the instrument.
type SampleSource interface {
	// SetRate selects the capture rate in samples per second.
	SetRate(sps uint32) error
	// ReadBlock fills dst with raw coded samples. It waits at most timeout
	// and returns the number of samples read; a short count always comes
	// with a non-nil error.
	ReadBlock(dst []uint16, timeout time.Duration) (int, error)
}

// AnalogOut is the 8-bit analog output of the signal generator.
type AnalogOut interface {
	WriteValue(v uint8)
}

// Serial is the command channel.
type Serial interface {
	io.Reader
	io.Writer
}

// Time provides a monotonic clock measured from HAL start.
type Time interface {
	Now() time.Duration
}

// HAL provides the only contact point between the instrument and the outside world.
type HAL interface {
	Logger() Logger
	Backlight() LED
	Display() Display
	ADC() SampleSource
	DAC() AnalogOut
	Serial() Serial
	Time() Time
}
