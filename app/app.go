// Package app wires the HAL to the instrument: kernel mailboxes, logger,
// console, acquisition producer and the paced control loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"voltscope/hal"
	"voltscope/internal/buildinfo"
	"voltscope/kernel"
	"voltscope/scope/capture"
	"voltscope/scope/config"
	"voltscope/scope/console"
	"voltscope/scope/engine"
	"voltscope/scope/logger"
	"voltscope/scope/render"
)

type Config struct {
	// TickRate is the control loop and generator rate.
	TickRate uint32
	// Depth is the capture block length.
	Depth       int
	HealthEvery time.Duration
	// Splash is how long the boot splash stays up.
	Splash time.Duration
}

func DefaultConfig() Config {
	ecfg := engine.DefaultConfig()
	return Config{
		TickRate:    ecfg.TickRate,
		Depth:       capture.DefaultDepth,
		HealthEvery: ecfg.HealthEvery,
		Splash:      500 * time.Millisecond,
	}
}

// New starts the instrument with the default config.
func New(ctx context.Context, h hal.HAL) func() error {
	return NewWithConfig(ctx, h, DefaultConfig())
}

// Run starts the instrument and blocks forever (TinyGo entrypoint).
func Run(h hal.HAL) {
	step := New(context.Background(), h)
	if err := step(); err != nil {
		h.Logger().WriteLineString("app: " + err.Error())
	}
	select {}
}

// NewWithConfig starts every context of the instrument on its own goroutine
// and returns a non-blocking step that reports a startup or loop failure.
func NewWithConfig(ctx context.Context, h hal.HAL, cfg Config) func() error {
	errc := make(chan error, 2)
	if err := start(ctx, h, cfg, errc); err != nil {
		return func() error { return err }
	}
	return func() error {
		select {
		case err := <-errc:
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		default:
			return nil
		}
	}
}

func start(ctx context.Context, h hal.HAL, cfg Config, errc chan<- error) error {
	disp := h.Display()
	if disp == nil || disp.Surface() == nil {
		return errors.New("app: no display")
	}
	surface := disp.Surface()

	sys := kernel.NewSystem()
	sys.StartTick(ctx)
	go func() { _ = logger.NewService(h.Logger(), sys).Run(ctx) }()
	log := logger.New(sys, kernel.EPKernel)
	log.Printf("voltscope %s", buildinfo.Short())

	if cfg.Splash > 0 {
		splash(surface, []string{"voltscope " + buildinfo.Short(), "starting"})
		time.Sleep(cfg.Splash)
	}

	settings := config.NewSettings()
	buf, err := capture.NewDoubleBuffer(cfg.Depth)
	if err != nil {
		return fmt.Errorf("app: %w", err)
	}
	producer := capture.NewProducer(h.ADC(), buf, settings, h.Time().Now, log)

	port := console.NewPort(sys)
	inst, err := engine.New(engine.Config{TickRate: cfg.TickRate, HealthEvery: cfg.HealthEvery}, engine.Deps{
		Canvas:   render.NewSurfaceCanvas(surface),
		Out:      h.DAC(),
		Settings: settings,
		Buffer:   buf,
		Clock:    h.Time().Now,
		Console:  port,
		Counters: producer,
		Log:      log,
	})
	if err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := inst.Boot(); err != nil {
		return fmt.Errorf("app: boot: %w", err)
	}
	if bl := h.Backlight(); bl != nil {
		bl.High()
	}

	go guard(ctx, h, "console", errc, console.New(h.Serial(), sys, log).Run)
	go guard(ctx, h, "capture", errc, producer.Run)
	go guard(ctx, h, "control", errc, inst.Run)
	log.Printf("running: depth=%d tick=%dHz rate=%dsps", cfg.Depth, cfg.TickRate, settings.SampleRate())
	return nil
}

// guard runs fn and turns a panic into the panic screen. The context then
// halts there until ctx is done.
func guard(ctx context.Context, h hal.HAL, name string, errc chan<- error, fn func(context.Context) error) {
	defer func() {
		if v := recover(); v != nil {
			showPanic(h, name, v, stack())
			<-ctx.Done()
		}
	}()
	if err := fn(ctx); err != nil && !errors.Is(err, context.Canceled) {
		select {
		case errc <- fmt.Errorf("%s: %w", name, err):
		default:
		}
	}
}
