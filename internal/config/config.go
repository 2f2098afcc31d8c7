// Package config loads runtime settings. Later sources win: built-in
// defaults, a YAML file, GLITCH_* environment variables, then flags given
// on the command line.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Backend names.
const (
	BackendAuto = "auto"
	BackendKage = "kage"
	BackendSoft = "soft"
)

// Overlap policy names.
const (
	OverlapCoexist = "coexist"
	OverlapReplace = "replace"
)

type Config struct {
	Width    int    `yaml:"width" env:"WIDTH"`
	Height   int    `yaml:"height" env:"HEIGHT"`
	Headless bool   `yaml:"headless" env:"HEADLESS"`
	Hz       int    `yaml:"hz" env:"HZ"`
	Ticks    uint64 `yaml:"ticks" env:"TICKS"` // 0 runs forever
	Mobile   bool   `yaml:"mobile" env:"MOBILE"`
	Backend  string `yaml:"backend" env:"BACKEND"` // auto | kage | soft

	SettleDelay   time.Duration `yaml:"settle_delay" env:"SETTLE_DELAY"`
	ChaosDuration time.Duration `yaml:"chaos_duration" env:"CHAOS_DURATION"`
	Overlap       string        `yaml:"overlap" env:"OVERLAP"` // coexist | replace

	AudioFile string `yaml:"audio_file" env:"AUDIO_FILE"`
	Seed      int64  `yaml:"seed" env:"SEED"` // 0 picks one from the clock

	ShotsDir   string `yaml:"shots_dir" env:"SHOTS_DIR"`
	ShotsEvery int    `yaml:"shots_every" env:"SHOTS_EVERY"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Width:         960,
		Height:        540,
		Hz:            60,
		Backend:       BackendAuto,
		SettleDelay:   300 * time.Millisecond,
		ChaosDuration: 2 * time.Second,
		Overlap:       OverlapCoexist,
		ShotsEvery:    60,
	}
}

// Validate reports the first unusable setting.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: size %dx%d", ErrInvalid, c.Width, c.Height)
	case c.Hz <= 0:
		return fmt.Errorf("%w: hz %d", ErrInvalid, c.Hz)
	case c.SettleDelay < 0 || c.ChaosDuration < 0:
		return fmt.Errorf("%w: negative duration", ErrInvalid)
	case c.ShotsDir != "" && c.ShotsEvery <= 0:
		return fmt.Errorf("%w: shots_every %d", ErrInvalid, c.ShotsEvery)
	}
	switch c.Backend {
	case BackendAuto, BackendKage, BackendSoft:
	default:
		return fmt.Errorf("%w: backend %q", ErrInvalid, c.Backend)
	}
	switch c.Overlap {
	case OverlapCoexist, OverlapReplace:
	default:
		return fmt.Errorf("%w: overlap %q", ErrInvalid, c.Overlap)
	}
	return nil
}

// ReadFile merges a YAML file over c. Keys missing from the file keep their
// current value.
func (c *Config) ReadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

// ReadEnv merges GLITCH_* variables over c.
func (c *Config) ReadEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: "GLITCH_"}); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	return nil
}

func bindFlags(fs *flag.FlagSet, c *Config, path *string) {
	fs.StringVar(path, "config", "", "YAML config file.")
	fs.IntVar(&c.Width, "width", c.Width, "Render width in pixels.")
	fs.IntVar(&c.Height, "height", c.Height, "Render height in pixels.")
	fs.BoolVar(&c.Headless, "headless", c.Headless, "Run without a window.")
	fs.IntVar(&c.Hz, "hz", c.Hz, "Tick rate.")
	fs.Uint64Var(&c.Ticks, "ticks", c.Ticks, "Stop after N ticks (0 = run forever).")
	fs.BoolVar(&c.Mobile, "mobile", c.Mobile, "Use the reduced mobile profile.")
	fs.StringVar(&c.Backend, "backend", c.Backend, "Effect backend: auto, kage or soft.")
	fs.DurationVar(&c.SettleDelay, "settle", c.SettleDelay, "Scene transition settle delay.")
	fs.DurationVar(&c.ChaosDuration, "chaos", c.ChaosDuration, "Chaos mode duration.")
	fs.StringVar(&c.Overlap, "overlap", c.Overlap, "Override overlap policy: coexist or replace.")
	fs.StringVar(&c.AudioFile, "audio", c.AudioFile, "WAV file driving the audio envelope.")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "Random seed (0 = from clock).")
	fs.StringVar(&c.ShotsDir, "shots", c.ShotsDir, "Write PNG frames into this directory.")
	fs.IntVar(&c.ShotsEvery, "shots-every", c.ShotsEvery, "Ticks between PNG frames.")
}

// Load builds a Config from args and the environment.
//
// Flags are parsed twice: once to find -config, and again over the merged
// file and environment values so only flags actually given override them.
func Load(name string, args []string, output io.Writer) (Config, error) {
	var path string
	probe := Default()
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)
	bindFlags(fs, &probe, &path)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	c := Default()
	if path != "" {
		if err := c.ReadFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := c.ReadEnv(); err != nil {
		return Config{}, err
	}

	fs = flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	bindFlags(fs, &c, &path)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return c, c.Validate()
}
