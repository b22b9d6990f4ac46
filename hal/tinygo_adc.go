//go:build tinygo && baremetal

package hal

import (
	"errors"
	"machine"
	"sync/atomic"
	"time"
)

// adcSource samples one ADC pin at a fixed rate by polling against the
// microsecond clock. The conversion itself takes about 2us on the RP2040,
// which bounds the usable rate well above 150 ksps.
type adcSource struct {
	adc  machine.ADC
	rate atomic.Uint32
}

func newADCSource(pin machine.Pin) *adcSource {
	machine.InitADC()
	a := machine.ADC{Pin: pin}
	a.Configure(machine.ADCConfig{})
	s := &adcSource{adc: a}
	s.rate.Store(50_000)
	return s
}

func (s *adcSource) SetRate(sps uint32) error {
	if sps == 0 {
		return errors.New("adc: zero sample rate")
	}
	s.rate.Store(sps)
	return nil
}

func (s *adcSource) ReadBlock(dst []uint16, timeout time.Duration) (int, error) {
	period := time.Second / time.Duration(s.rate.Load())
	start := time.Now()
	deadline := start.Add(timeout)
	next := start
	for i := range dst {
		for {
			now := time.Now()
			if !now.Before(next) {
				break
			}
			if now.After(deadline) {
				return i, ErrTimeout
			}
		}
		// machine.ADC.Get scales the 12-bit result to 16 bits.
		dst[i] = s.adc.Get() >> 4
		next = next.Add(period)
	}
	return len(dst), nil
}
