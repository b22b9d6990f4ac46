//go:build tinygo && baremetal

package hal

import (
	"machine"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/st7789"
)

type tinyGoHAL struct {
	logger    *uartLogger
	backlight LED
	surface   Surface
	adc       *adcSource
	dac       AnalogOut
	serial    Serial
	t         *tinyGoTime
}

// Board wiring (Raspberry Pi Pico with a 240x240 ST7789 module on SPI1).
const (
	panelSCK = machine.GP10
	panelSDO = machine.GP11
	panelRST = machine.GP12
	panelDC  = machine.GP8
	panelCS  = machine.GP9
	panelBL  = machine.GP13

	analogInPin  = machine.ADC0 // GP26
	analogOutPin = machine.GP2  // PWM, RC-filtered

	panelWidth  = 240
	panelHeight = 240
)

// New returns a Pico (RP2040/RP2350) HAL implementation.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})
	logger := &uartLogger{uart: uart}

	panel := newPanel()

	var dac AnalogOut = nullAnalogOut{}
	if out, err := newPWMDAC(analogOutPin); err == nil {
		dac = out
	} else {
		logger.WriteLineString("hal: pwm dac: " + err.Error())
	}

	return &tinyGoHAL{
		logger:    logger,
		backlight: panelBacklight{dev: panel},
		surface:   panel,
		adc:       newADCSource(analogInPin),
		dac:       dac,
		serial:    &uartSerial{uart: uart},
		t:         newTinyGoTime(),
	}
}

func newPanel() *st7789.Device {
	machine.SPI1.Configure(machine.SPIConfig{
		Frequency: 62_500_000,
		SCK:       panelSCK,
		SDO:       panelSDO,
	})
	dev := st7789.New(machine.SPI1, panelRST, panelDC, panelCS, panelBL)
	dev.Configure(st7789.Config{
		Width:    panelWidth,
		Height:   panelHeight,
		Rotation: drivers.Rotation0,
	})
	dev.EnableBacklight(false)
	return &dev
}

func (h *tinyGoHAL) Logger() Logger    { return h.logger }
func (h *tinyGoHAL) Backlight() LED    { return h.backlight }
func (h *tinyGoHAL) Display() Display  { return tinyGoDisplay{s: h.surface} }
func (h *tinyGoHAL) ADC() SampleSource { return h.adc }
func (h *tinyGoHAL) DAC() AnalogOut    { return h.dac }
func (h *tinyGoHAL) Serial() Serial    { return h.serial }
func (h *tinyGoHAL) Time() Time        { return h.t }

// panelBacklight drives the backlight pin owned by the panel driver.
type panelBacklight struct {
	dev *st7789.Device
}

func (b panelBacklight) High() { b.dev.EnableBacklight(true) }
func (b panelBacklight) Low()  { b.dev.EnableBacklight(false) }

type nullAnalogOut struct{}

func (nullAnalogOut) WriteValue(uint8) {}
