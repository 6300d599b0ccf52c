// Package player runs the demo: it owns the window, the device, the
// timeline and the soundtrack, and drives them from the main loop.
package player

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/nucleus3d/internal/config"
	"github.com/Faultbox/nucleus3d/internal/demo"
	"github.com/Faultbox/nucleus3d/internal/engine/audio"
	"github.com/Faultbox/nucleus3d/internal/engine/debug"
	"github.com/Faultbox/nucleus3d/internal/engine/gfx"
	"github.com/Faultbox/nucleus3d/internal/engine/input"
	"github.com/Faultbox/nucleus3d/internal/engine/renderer"
	"github.com/Faultbox/nucleus3d/internal/engine/scene"
	"github.com/Faultbox/nucleus3d/internal/engine/texture"
	"github.com/Faultbox/nucleus3d/internal/engine/window"
	"github.com/Faultbox/nucleus3d/internal/logger"
	"github.com/Faultbox/nucleus3d/internal/parts"
)

// Title is the window title.
const Title = "Nucleus3D"

// Player is the demo player instance.
type Player struct {
	cfg     *config.Config
	log     *zap.Logger
	running bool

	window   *window.Window
	device   *renderer.Device
	recorder *gfx.Recorder
	input    *input.Input

	textures *texture.Manager
	ctx      *gfx.Context

	manual   *demo.ManualTime
	timeline *demo.Timeline
	watcher  *demo.Watcher
	audio    *audio.Player

	frames  int
	draws   int
	lastErr string
}

// New creates the player. With cfg.Demo.Headless set it renders into a
// recording device on a manually stepped clock and never opens a window.
func New(cfg *config.Config) (*Player, error) {
	p := &Player{
		cfg: cfg,
		log: logger.Named("player"),
	}
	p.log.Info("initializing player",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Bool("headless", cfg.Demo.Headless),
	)

	var dev gfx.Device
	clock := demo.NewClock(demo.WallTime())
	if cfg.Demo.Headless {
		p.recorder = gfx.NewRecorder()
		dev = p.recorder
		p.manual = &demo.ManualTime{}
		clock = demo.NewClock(p.manual.Now)
	} else {
		var err error
		p.window, err = window.New(window.Config{
			Title:      Title,
			Width:      cfg.Graphics.Width,
			Height:     cfg.Graphics.Height,
			Fullscreen: cfg.Graphics.Fullscreen,
			VSync:      cfg.Graphics.VSync,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create window: %w", err)
		}

		// The device needs the GL context the window created.
		w, h := p.window.GetSize()
		p.device, err = renderer.New(renderer.Config{Width: w, Height: h})
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("failed to create renderer: %w", err)
		}
		dev = p.device
		p.input = input.New()
	}

	p.textures = texture.NewManager(dev, cfg.Data.TextureRoot)
	p.ctx = gfx.NewContext(dev, p.textures)
	p.timeline = demo.NewTimeline(clock)

	if err := p.loadParts(); err != nil {
		p.Close()
		return nil, err
	}
	if err := p.loadSoundtrack(); err != nil {
		p.Close()
		return nil, err
	}

	p.log.Info("player initialized", zap.Int("parts", len(p.timeline.Parts())))
	return p, nil
}

func (p *Player) loadParts() error {
	opts := parts.Options{
		Scene: scene.Config{
			Shadows:    p.cfg.Render.Shadows,
			LightHalos: p.cfg.Render.LightHalos,
			HaloSize:   p.cfg.Render.HaloSize,
			Aspect:     p.cfg.Render.Aspect,
		},
		LODLevels: p.cfg.Render.LODLevels,
		Only:      p.cfg.Demo.Parts,
	}
	if p.cfg.Data.Model != "" {
		opts.Model = filepath.Join(p.cfg.Data.ModelRoot, p.cfg.Data.Model)
	}
	if err := parts.Register(p.timeline, p.ctx, opts); err != nil {
		return fmt.Errorf("failed to build parts: %w", err)
	}

	path := p.cfg.Demo.Schedule
	if path == "" {
		return nil
	}
	s, err := demo.LoadSchedule(path)
	if err != nil {
		return err
	}
	if err := s.Apply(p.timeline); err != nil {
		return fmt.Errorf("applying schedule %s: %w", path, err)
	}
	if p.cfg.Demo.Watch {
		p.watcher, err = demo.Watch(path, p.timeline)
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *Player) loadSoundtrack() error {
	a := p.cfg.Audio
	if a.Soundtrack == "" || a.Muted || p.cfg.Demo.Headless {
		return nil
	}
	p.audio = audio.New()
	if err := p.audio.Init(); err != nil {
		return fmt.Errorf("failed to initialize audio: %w", err)
	}
	if err := p.audio.Load(a.Soundtrack); err != nil {
		return err
	}
	p.audio.SetVolume(a.Volume)
	return nil
}

// Run plays the demo until it ends, the user quits or, when headless, the
// configured number of frames has been rendered.
func (p *Player) Run() error {
	p.running = true
	p.start()

	frameTime := time.Duration(0)
	if p.cfg.Graphics.FPSLimit > 0 {
		frameTime = time.Second / time.Duration(p.cfg.Graphics.FPSLimit)
	}

	frameCount := 0
	fpsTimer := time.Now()

	p.log.Info("starting demo loop")

	for p.running {
		frameStart := time.Now()

		if p.input != nil {
			if p.input.Update() {
				p.running = false
				break
			}
			p.handleInput()
		}

		p.frame()

		if p.window != nil {
			p.window.SwapBuffers()
		}
		p.frames++

		if p.timeline.Done() {
			if !p.cfg.Demo.Loop {
				p.log.Info("demo finished", zap.Int("frames", p.frames))
				break
			}
			p.restart()
		}

		if p.manual != nil {
			p.manual.Advance(p.cfg.Demo.FrameStep)
			if n := p.cfg.Demo.HeadlessFrames; n > 0 && p.frames >= n {
				break
			}
			continue
		}

		if frameTime > 0 {
			if rest := frameTime - time.Since(frameStart); rest > 0 {
				time.Sleep(rest)
			}
		}

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			p.log.Debug("fps", zap.Int("count", frameCount), zap.Int64("demo_ms", p.timeline.Elapsed()))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	p.timeline.Stop()
	p.stopSoundtrack()
	if p.recorder != nil {
		p.log.Info("headless run finished", zap.Int("frames", p.frames), zap.Int("draws", p.draws))
	}
	return nil
}

// frame advances the timeline. Part errors are logged, not fatal; a
// repeated error is logged once.
func (p *Player) frame() {
	if p.recorder != nil {
		p.recorder.Reset()
	}
	err := p.timeline.Update()
	if p.recorder != nil {
		p.draws += len(p.recorder.Draws)
	}

	if err == nil {
		p.lastErr = ""
		return
	}
	if msg := err.Error(); msg != p.lastErr {
		p.lastErr = msg
		p.log.Warn("frame error", zap.Error(err))
	}
}

func (p *Player) handleInput() {
	for _, ev := range p.input.Events() {
		switch ev.Action {
		case input.ActionQuit:
			p.running = false
		case input.ActionPause:
			p.TogglePause()
		case input.ActionScreenshot:
			p.capture()
		case input.ActionResize:
			p.device.Resize(ev.Width, ev.Height)
		}
	}
}

// TogglePause pauses or resumes the timeline and the soundtrack together.
func (p *Player) TogglePause() {
	switch p.timeline.State() {
	case demo.Running:
		p.timeline.Pause()
		if p.audio != nil {
			p.audio.Pause()
		}
		p.log.Info("demo paused", zap.Int64("at", p.timeline.Elapsed()))
	case demo.Paused:
		p.timeline.Resume()
		if p.audio != nil {
			p.audio.Resume()
		}
		p.log.Info("demo resumed", zap.Int64("at", p.timeline.Elapsed()))
	}
}

func (p *Player) capture() {
	w, h := p.device.Size()
	img := debug.Capture(w, h)
	path, err := debug.SavePNG(img, p.cfg.Data.CaptureDir)
	if err != nil {
		p.log.Warn("frame capture failed", zap.Error(err))
		return
	}
	p.log.Info("frame captured", zap.String("path", path))
}

func (p *Player) start() {
	p.timeline.Run()
	if p.audio == nil {
		return
	}
	if err := p.audio.Play(); err != nil {
		p.log.Warn("soundtrack did not start", zap.Error(err))
	}
}

func (p *Player) restart() {
	p.timeline.Stop()
	p.stopSoundtrack()
	p.start()
}

func (p *Player) stopSoundtrack() {
	if p.audio != nil {
		p.audio.Stop()
	}
}

// Frames returns the number of frames rendered by Run.
func (p *Player) Frames() int { return p.frames }

// Draws returns the number of draw calls recorded by a headless run.
func (p *Player) Draws() int { return p.draws }

// Timeline returns the demo timeline.
func (p *Player) Timeline() *demo.Timeline { return p.timeline }

// Close releases everything New created.
func (p *Player) Close() {
	p.log.Info("closing player")

	if p.watcher != nil {
		p.watcher.Close()
	}
	if p.audio != nil {
		p.audio.Close()
	}
	if p.timeline != nil {
		for _, part := range p.timeline.Parts() {
			if r, ok := part.(interface{ Release() }); ok {
				r.Release()
			}
		}
	}
	if p.textures != nil {
		p.textures.Release()
	}
	if p.device != nil {
		p.device.Close()
	}
	if p.window != nil {
		p.window.Close()
	}
}
