package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glitch/hal"
	"glitch/internal/config"
)

func testConfig(t *testing.T) config.Config {
	c := config.Default()
	c.Width, c.Height = 64, 36
	c.Headless = true
	c.Seed = 7
	c.Backend = config.BackendSoft
	return c
}

func run(t *testing.T, cfg config.Config, ticks uint64) (*App, string) {
	t.Helper()
	var log bytes.Buffer
	var a *App
	err := hal.RunHeadless(context.Background(),
		hal.HeadlessConfig{Hz: cfg.Hz, Ticks: ticks, Unthrottled: true, Log: &log},
		func(h hal.HAL) (hal.Loop, error) {
			var err error
			a, err = New(h, cfg, false)
			return a, err
		})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a, log.String()
}

func TestHeadlessBoot(t *testing.T) {
	a, log := run(t, testConfig(t), 120)

	assert.Contains(t, log, "fx: pipeline ready with 5 passes")
	assert.Contains(t, log, "gyro: UNAVAILABLE")
	assert.Equal(t, uint64(120), a.Ticks())
	assert.Equal(t, uint64(120), a.Driver().Frames())
	assert.Equal(t, 0, a.reg.Current())

	visible, pct, _ := a.hud.Loading()
	assert.False(t, visible, "loading hidden after 1.5s")
	assert.Equal(t, 100, pct)
	assert.Equal(t, "UNAVAILABLE", a.hud.GyroStatus())
	_, passes := a.hud.Counters()
	assert.Equal(t, 4, passes)

	snap := a.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, 64, snap.Bounds().Dx())
}

func TestHeadlessShots(t *testing.T) {
	cfg := testConfig(t)
	cfg.ShotsDir = filepath.Join(t.TempDir(), "shots")
	cfg.ShotsEvery = 4
	a, _ := run(t, cfg, 10)

	assert.Equal(t, 2, a.Shots())
	entries, err := os.ReadDir(cfg.ShotsDir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "frame-00000.png", entries[0].Name())
}

func TestMissingAudioFallsBack(t *testing.T) {
	cfg := testConfig(t)
	cfg.AudioFile = filepath.Join(t.TempDir(), "missing.wav")
	a, log := run(t, cfg, 2)
	assert.Contains(t, log, "using synthetic beat")
	assert.Nil(t, a.audio)
}

func TestKageWithoutWindowUsesSoft(t *testing.T) {
	cfg := testConfig(t)
	cfg.Backend = config.BackendKage
	a, log := run(t, cfg, 1)
	assert.Contains(t, log, "using soft")
	assert.NotNil(t, a.cpu)
	assert.Nil(t, a.gpu)
}

func TestInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Overlap = "merge"
	err := hal.RunHeadless(context.Background(), hal.HeadlessConfig{Ticks: 1, Unthrottled: true, Log: &bytes.Buffer{}},
		func(h hal.HAL) (hal.Loop, error) { return New(h, cfg, false) })
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestGuardRecoversPanic(t *testing.T) {
	a, _ := run(t, testConfig(t), 1)
	var log bytes.Buffer
	a.log = &lineLog{&log}
	err := a.guard(func() error { panic("bad frame") })
	assert.ErrorIs(t, err, errPanic)
	assert.Contains(t, log.String(), "glitch panic: tick=1 panic=bad frame")
}

type lineLog struct{ b *bytes.Buffer }

func (l *lineLog) WriteLineString(s string) { l.b.WriteString(s + "\n") }
func (l *lineLog) WriteLineBytes(b []byte)  { l.b.Write(append(b, '\n')) }
