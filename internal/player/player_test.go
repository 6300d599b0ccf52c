package player

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/nucleus3d/internal/config"
	"github.com/Faultbox/nucleus3d/internal/demo"
)

func headlessConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.Demo.Headless = true
	cfg.Demo.HeadlessFrames = 0
	cfg.Demo.FrameStep = 1000
	cfg.Data.TextureRoot = t.TempDir()
	return cfg
}

func newPlayer(t *testing.T, cfg *config.Config) *Player {
	p, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(p.Close)
	return p
}

func TestHeadlessRunPlaysEveryPart(t *testing.T) {
	p := newPlayer(t, headlessConfig(t))
	require.NoError(t, p.Run())

	// one frame per second from 0 through the end of the last part at 40s
	assert.Equal(t, 41, p.Frames())
	assert.Positive(t, p.Draws())
	assert.Equal(t, demo.Stopped, p.Timeline().State())
}

func TestHeadlessFrameLimit(t *testing.T) {
	cfg := headlessConfig(t)
	cfg.Demo.HeadlessFrames = 5
	p := newPlayer(t, cfg)

	require.NoError(t, p.Run())
	assert.Equal(t, 5, p.Frames())
}

func TestLoopRestartsTheDemo(t *testing.T) {
	cfg := headlessConfig(t)
	cfg.Demo.Loop = true
	cfg.Demo.HeadlessFrames = 100
	p := newPlayer(t, cfg)

	require.NoError(t, p.Run())
	assert.Equal(t, 100, p.Frames(), "a looping demo runs until the frame limit")
}

func TestScheduleRetimesParts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "show.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
parts:
  - {part: intro, start: 0, end: 1000}
  - {part: shadows, duration: 1000}
`), 0o644))

	cfg := headlessConfig(t)
	cfg.Demo.Schedule = path
	cfg.Demo.FrameStep = 500
	p := newPlayer(t, cfg)

	assert.Equal(t, demo.Timing{Start: 1000, End: 2000}, p.Timeline().Part("shadows").Timing())
	require.NoError(t, p.Run())
	assert.Equal(t, 5, p.Frames())
}

func TestScheduleErrorsAreFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "show.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[[parts]]
part = "credits"
duration = 1000
`), 0o644))

	cfg := headlessConfig(t)
	cfg.Demo.Schedule = path
	_, err := New(cfg)
	assert.ErrorIs(t, err, demo.ErrUnknownPart)

	cfg.Demo.Schedule = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = New(cfg)
	assert.Error(t, err)
}

func TestTogglePause(t *testing.T) {
	p := newPlayer(t, headlessConfig(t))
	tl := p.Timeline()

	p.TogglePause()
	assert.Equal(t, demo.Stopped, tl.State(), "nothing to pause before the demo runs")

	tl.Run()
	p.TogglePause()
	assert.Equal(t, demo.Paused, tl.State())
	p.TogglePause()
	assert.Equal(t, demo.Running, tl.State())
}
