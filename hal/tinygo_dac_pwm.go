//go:build tinygo && baremetal

package hal

import (
	"errors"
	"machine"
)

type pwmDevice interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	SetTop(top uint32)
	Top() uint32
	Set(channel uint8, value uint32)
	Enable(enable bool)
}

// pwmDAC turns a PWM pin into an 8-bit analog output behind an RC low-pass
// filter. The carrier runs far above the generator tick so the filter can
// remove it without flattening a 650 Hz waveform.
type pwmDAC struct {
	pin machine.Pin
	pwm pwmDevice
	ch  uint8
	top uint32
}

func newPWMDAC(pin machine.Pin) (*pwmDAC, error) {
	pwm := pwmForPin(pin)
	if pwm == nil {
		return nil, errors.New("no pwm slice for pin")
	}
	const pwmCarrierHz = 480_000
	if err := pwm.Configure(machine.PWMConfig{Period: 1e9 / pwmCarrierHz}); err != nil {
		return nil, err
	}
	ch, err := pwm.Channel(pin)
	if err != nil {
		return nil, err
	}
	d := &pwmDAC{pin: pin, pwm: pwm, ch: ch, top: pwm.Top()}
	d.WriteValue(128)
	pwm.Enable(true)
	return d, nil
}

func pwmForPin(pin machine.Pin) pwmDevice {
	slice, err := machine.PWMPeripheral(pin)
	if err != nil {
		return nil
	}
	switch slice {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	case 7:
		return machine.PWM7
	default:
		return nil
	}
}

func (d *pwmDAC) WriteValue(v uint8) {
	d.pwm.Set(d.ch, uint32(v)*d.top/255)
}
