//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"voltscope/app"
	"voltscope/hal"
	"voltscope/internal/statsview"
)

func main() {
	var cfg hal.HeadlessConfig
	var hcfg hal.HostConfig
	acfg := app.DefaultConfig()
	var tickRate uint
	var stats string
	flag.BoolVar(&cfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&cfg.Hz, "hz", 60, "Poll rate in headless mode.")
	flag.Uint64Var(&cfg.Ticks, "ticks", 0, "Stop after N polls in headless mode (0 = run forever).")
	flag.UintVar(&tickRate, "tick-rate", uint(acfg.TickRate), "Control loop and generator tick rate in Hz.")
	flag.StringVar(&hcfg.Serial, "serial", "", "TTY for the command channel (default stdin/stdout).")
	flag.IntVar(&hcfg.Baud, "baud", 115200, "Baud rate for -serial.")
	flag.StringVar(&hcfg.WAV, "wav", "", "Replay a WAV file into the analog input instead of the loopback.")
	flag.BoolVar(&hcfg.Audio, "audio", false, "Play the generator output on the sound card.")
	flag.StringVar(&hcfg.Backlight, "backlight", "", "GPIO name driven as the display backlight (periph.io).")
	flag.Int64Var(&hcfg.Seed, "seed", 1, "Seed for the loopback noise model.")
	flag.StringVar(&stats, "statsview", "", "Serve runtime charts on this address, e.g. localhost:18066 (needs -tags statsview).")
	flag.Parse()

	acfg.TickRate = uint32(tickRate)
	if stats != "" {
		if !statsview.Available() {
			fmt.Fprintln(os.Stderr, "statsview: rebuild with -tags statsview")
		}
		stop := statsview.Launch(stats, os.Stderr)
		defer stop()
	}

	newApp := func(ctx context.Context, h hal.HAL) func() error {
		return app.NewWithConfig(ctx, h, acfg)
	}

	if cfg.Enabled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, hcfg, newApp, cfg); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := hal.RunWindow(hcfg, newApp); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
