package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"glitch/app"
	"glitch/hal"
	"glitch/internal/config"
)

func main() {
	cfg, err := config.Load(os.Args[0], os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	var a *app.App
	newApp := func(windowed bool) func(hal.HAL) (hal.Loop, error) {
		return func(h hal.HAL) (hal.Loop, error) {
			var err error
			a, err = app.New(h, cfg, windowed)
			return a, err
		}
	}

	if cfg.Headless {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		err = hal.RunHeadless(ctx, hal.HeadlessConfig{Hz: cfg.Hz, Ticks: cfg.Ticks}, newApp(false))
		if errors.Is(err, context.Canceled) {
			err = nil
		}
	} else {
		err = hal.RunWindow(hal.WindowConfig{Width: cfg.Width, Height: cfg.Height, Hz: cfg.Hz}, newApp(true))
	}
	if a != nil {
		if cerr := a.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
