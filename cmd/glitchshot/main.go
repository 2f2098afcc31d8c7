// Command glitchshot renders frames offline with the CPU effect backend and
// writes them as PNG files. It can script a scene switch and a chaos burst.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"glitch/app"
	"glitch/engine/frame"
	"glitch/hal"
	"glitch/internal/config"
)

type script struct {
	h       hal.HAL
	a       *app.App
	n       int
	sceneAt int
	scene   int
	chaosAt int
}

func (s *script) Step() error {
	now := s.h.Time().Now()
	d := s.a.Driver()
	if s.n == s.sceneAt && s.scene > 0 {
		d.Handle(now, frame.Event{Kind: frame.EvKeyDown, Key: frame.KeyDigit1 + frame.Key(s.scene-1)})
	}
	if s.n == s.chaosAt {
		d.Handle(now, frame.Event{Kind: frame.EvKeyDown, Key: frame.KeyShift})
		d.Handle(now, frame.Event{Kind: frame.EvKeyDown, Key: frame.KeyShift})
	}
	s.n++
	return s.a.Step()
}

func main() {
	cfg := config.Default()
	cfg.Headless = true
	cfg.Backend = config.BackendSoft
	cfg.ShotsDir = "shots"
	cfg.ShotsEvery = 1
	cfg.Seed = 1

	var (
		frames  uint64
		s       script
		cfgPath string
	)
	flag.StringVar(&cfgPath, "config", "", "YAML config file (flags below override it).")
	flag.StringVar(&cfg.ShotsDir, "out", cfg.ShotsDir, "Output directory.")
	flag.Uint64Var(&frames, "frames", 60, "Number of frames to simulate.")
	flag.IntVar(&cfg.ShotsEvery, "every", cfg.ShotsEvery, "Write every Nth frame.")
	flag.IntVar(&cfg.Width, "width", 480, "Frame width.")
	flag.IntVar(&cfg.Height, "height", 270, "Frame height.")
	flag.IntVar(&cfg.Hz, "hz", cfg.Hz, "Simulated tick rate.")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed.")
	flag.BoolVar(&cfg.Mobile, "mobile", false, "Use the reduced mobile profile.")
	flag.StringVar(&cfg.AudioFile, "audio", "", "WAV file driving the audio envelope.")
	flag.IntVar(&s.scene, "scene", 0, "Switch to scene 1-4 (0 = stay on INIT).")
	flag.IntVar(&s.sceneAt, "scene-at", 0, "Frame of the scene switch.")
	flag.IntVar(&s.chaosAt, "chaos-at", -1, "Frame of a chaos burst (-1 = none).")
	flag.Parse()

	if cfgPath != "" {
		if err := cfg.ReadFile(cfgPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		// Explicit flags win over the file.
		flag.Parse()
	}
	if s.scene < 0 || s.scene > 4 {
		fmt.Fprintf(os.Stderr, "scene must be 0-4, got %d\n", s.scene)
		os.Exit(2)
	}

	err := hal.RunHeadless(context.Background(),
		hal.HeadlessConfig{Hz: cfg.Hz, Ticks: frames, Unthrottled: true},
		func(h hal.HAL) (hal.Loop, error) {
			a, err := app.New(h, cfg, false)
			if err != nil {
				return nil, err
			}
			s.h, s.a = h, a
			return &s, nil
		})
	if s.a != nil {
		s.a.Close()
		fmt.Printf("glitchshot: %d frames written to %s\n", s.a.Shots(), cfg.ShotsDir)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
