//go:build !tinygo

package hal

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// periphLED drives a GPIO on a Linux single-board computer, so the desktop
// build can power a real panel's backlight.
type periphLED struct {
	pin gpio.PinIO
}

func openGPIOBacklight(name string) (*periphLED, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("backlight: periph init: %w", err)
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("backlight: unknown pin %q", name)
	}
	if err := p.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("backlight: %s: %w", name, err)
	}
	return &periphLED{pin: p}, nil
}

func (l *periphLED) High() { _ = l.pin.Out(gpio.High) }
func (l *periphLED) Low()  { _ = l.pin.Out(gpio.Low) }
