// Package app builds every component once and injects them into the frame
// driver. It is the only place that knows about concrete backends.
package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"glitch/engine/frame"
	"glitch/engine/fx"
	"glitch/engine/fx/kage"
	"glitch/engine/fx/soft"
	"glitch/engine/hud"
	"glitch/engine/params"
	"glitch/engine/quarkgl"
	"glitch/engine/scene"
	"glitch/engine/sched"
	"glitch/engine/signal"
	"glitch/engine/world"
	"glitch/hal"
	"glitch/internal/buildinfo"
	"glitch/internal/config"
)

// App is one running instance. It implements hal.Loop, and hal.Drawer when
// a window is attached.
type App struct {
	cfg config.Config
	h   hal.HAL
	log hal.Logger

	sched *sched.Scheduler
	store *params.Store
	scene *quarkgl.Scene
	pipe  *fx.Pipeline
	cpu   *soft.Backend
	gpu   *kage.Backend
	reg   *scene.Registry
	hud   *hud.Overlay
	drv   *frame.Driver
	audio hal.AudioSource

	win   *window
	ticks uint64
	shots int
}

// New assembles the app on h. Window decides between the GPU and CPU
// effect backends when cfg.Backend is auto.
func New(h hal.HAL, cfg config.Config, windowed bool) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	policy, err := params.ParsePolicy(cfg.Overlap)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalid, err)
	}

	a := &App{cfg: cfg, h: h, log: h.Logger()}
	a.log.WriteLineString("glitch " + buildinfo.Short())

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	profile := world.Profile{Mobile: cfg.Mobile}
	scenes := world.Build(profile, rng)
	names := make([]string, len(scenes))
	for i, d := range scenes {
		names[i] = d.Name
	}

	now := h.Time().Now()
	a.sched = sched.New(now)
	a.hud = hud.NewOverlay(cfg.Width, cfg.Height, names)
	frame.Loading(a.hud, frame.StepRenderer)

	a.store = params.New(a.sched, params.WithPolicy(policy), params.WithLogger(a.log))
	fx.DefaultIntensities(cfg.Mobile).Define(a.store)

	a.scene = quarkgl.CreateScene(256)
	a.scene.Fog = world.Fog
	a.scene.Camera.Position = quarkgl.V3(0, 0, 5)
	a.scene.Camera.Target = quarkgl.V3(0, 0, 4)
	frame.Loading(a.hud, frame.StepModules)

	var b fx.Backend
	if useGPU(cfg.Backend, windowed) {
		a.gpu = kage.New(a.scene, cfg.Width, cfg.Height)
		b = a.gpu
	} else {
		if cfg.Backend == config.BackendKage {
			a.log.WriteLineString("fx: no window for kage backend, using soft")
		}
		a.cpu = soft.New(a.scene, cfg.Width, cfg.Height)
		b = a.cpu
	}
	a.pipe = fx.New(b, a.store, a.sched,
		fx.WithLogger(a.log),
		fx.WithSeed(rng.Float32()),
		fx.WithSize(cfg.Width, cfg.Height))
	frame.Loading(a.hud, frame.StepShaders)

	a.reg = scene.NewRegistry(world.Graph{Scene: a.scene}, a.sched, scenes,
		scene.WithLogger(a.log),
		scene.WithSettle(cfg.SettleDelay))

	gyro := signal.NewGyroscope()
	status := gyro.Init(context.Background(), h.Orientation())
	a.hud.SetGyroStatus(string(status))
	a.log.WriteLineString("gyro: " + string(status))

	a.drv = frame.New(frame.Deps{
		Sched:    a.sched,
		Store:    a.store,
		Pipeline: a.pipe,
		Scenes:   a.reg,
		Audio:    a.reactor(),
		Gyro:     gyro,
		Cursor:   signal.NewCursor(a.sched, rng),
		Camera:   &a.scene.Camera,
		HUD:      a.hud,
		Nav:      a.hud,
		Log:      a.log,
		ChaosFor: cfg.ChaosDuration,
		OnResize: a.hud.Resize,
	}, now)
	a.reg.Start()

	frame.Loading(a.hud, frame.StepEngine)
	frame.FinishLoading(a.hud, a.sched)
	if windowed {
		a.win = newWindow()
	}
	return a, nil
}

func useGPU(backend string, windowed bool) bool {
	return windowed && backend != config.BackendSoft
}

// reactor prefers the configured track and falls back to the synthetic beat.
func (a *App) reactor() signal.Reactor {
	if a.cfg.AudioFile == "" {
		return &signal.Synthetic{}
	}
	src, err := a.h.Audio().Open(a.cfg.AudioFile)
	if err != nil {
		a.log.WriteLineString(fmt.Sprintf("audio: %v, using synthetic beat", err))
		return &signal.Synthetic{}
	}
	an, err := signal.NewAnalyzer(src, signal.DefaultBlock)
	if err != nil {
		src.Close()
		a.log.WriteLineString(fmt.Sprintf("audio: %v, using synthetic beat", err))
		return &signal.Synthetic{}
	}
	a.audio = src
	return an
}

// Step drains pending input and runs one frame.
func (a *App) Step() error {
	return a.guard(func() error {
		now := a.h.Time().Now()
		events := a.h.Input().Events()
	drain:
		for {
			select {
			case ev := <-events:
				a.drv.Handle(now, ev)
			default:
				break drain
			}
		}
		a.drv.Tick(now)
		a.ticks++
		return a.maybeShoot()
	})
}

// Snapshot returns the current CPU frame with the HUD on top, or nil on the
// GPU backend.
func (a *App) Snapshot() *image.RGBA {
	if a.cpu == nil {
		return nil
	}
	src := a.cpu.Frame()
	out := image.NewRGBA(src.Bounds())
	copy(out.Pix, src.Pix)
	a.hud.Composite(out)
	return out
}

func (a *App) maybeShoot() error {
	if a.cfg.ShotsDir == "" || a.ticks%uint64(a.cfg.ShotsEvery) != 0 {
		return nil
	}
	img := a.Snapshot()
	if img == nil {
		return nil
	}
	path := filepath.Join(a.cfg.ShotsDir, fmt.Sprintf("frame-%05d.png", a.shots))
	if err := WritePNG(path, img); err != nil {
		return err
	}
	a.shots++
	return nil
}

// WritePNG encodes img to path, creating parent directories.
func WritePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("app: encode %s: %w", path, err)
	}
	return f.Close()
}

// Ticks is the number of completed steps.
func (a *App) Ticks() uint64 { return a.ticks }

// Shots is the number of PNG frames written.
func (a *App) Shots() int { return a.shots }

// Driver exposes the frame driver for tools and tests.
func (a *App) Driver() *frame.Driver { return a.drv }

// Pipeline exposes the effect pipeline.
func (a *App) Pipeline() *fx.Pipeline { return a.pipe }

// Close releases the audio source and detaches subscriptions.
func (a *App) Close() error {
	a.drv.Close()
	var err error
	if a.audio != nil {
		err = a.audio.Close()
	}
	if a.win != nil {
		a.win.close()
	}
	return err
}

var errPanic = errors.New("app: panic")
