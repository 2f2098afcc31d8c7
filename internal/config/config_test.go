package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "glitch.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestDefaultsAreValid(t *testing.T) {
	c, err := Load("glitch", nil, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestFileOverridesDefaults(t *testing.T) {
	p := writeFile(t, "width: 320\nbackend: soft\nsettle_delay: 450ms\n")
	c, err := Load("glitch", []string{"-config", p}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 320, c.Width)
	assert.Equal(t, 540, c.Height)
	assert.Equal(t, BackendSoft, c.Backend)
	assert.Equal(t, 450*time.Millisecond, c.SettleDelay)
}

func TestPrecedence(t *testing.T) {
	p := writeFile(t, "width: 320\nheight: 200\nhz: 30\n")
	t.Setenv("GLITCH_HEIGHT", "240")
	t.Setenv("GLITCH_HZ", "50")
	t.Setenv("GLITCH_OVERLAP", "replace")

	c, err := Load("glitch", []string{"-config", p, "-hz", "24"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 320, c.Width, "file")
	assert.Equal(t, 240, c.Height, "env over file")
	assert.Equal(t, 24, c.Hz, "flag over env")
	assert.Equal(t, OverlapReplace, c.Overlap)
}

func TestUnsetFlagsKeepEnv(t *testing.T) {
	t.Setenv("GLITCH_CHAOS_DURATION", "3s")
	c, err := Load("glitch", []string{"-headless"}, io.Discard)
	require.NoError(t, err)
	assert.True(t, c.Headless)
	assert.Equal(t, 3*time.Second, c.ChaosDuration)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"width":   func(c *Config) { c.Width = 0 },
		"hz":      func(c *Config) { c.Hz = -1 },
		"backend": func(c *Config) { c.Backend = "vulkan" },
		"overlap": func(c *Config) { c.Overlap = "merge" },
		"settle":  func(c *Config) { c.SettleDelay = -time.Second },
		"shots":   func(c *Config) { c.ShotsDir = "out"; c.ShotsEvery = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(&c)
			assert.ErrorIs(t, c.Validate(), ErrInvalid)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("glitch", []string{"-config", filepath.Join(t.TempDir(), "missing.yaml")}, io.Discard)
	assert.Error(t, err)

	_, err = Load("glitch", []string{"-config", writeFile(t, "width: [")}, io.Discard)
	assert.Error(t, err)

	_, err = Load("glitch", []string{"-backend", "gl"}, io.Discard)
	assert.ErrorIs(t, err, ErrInvalid)

	t.Setenv("GLITCH_WIDTH", "wide")
	_, err = Load("glitch", nil, io.Discard)
	assert.Error(t, err)
}
