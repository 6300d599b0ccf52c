// Package audio plays the demo soundtrack in step with the demo clock.
package audio

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"

	"github.com/Faultbox/nucleus3d/internal/logger"
)

// DefaultSampleRate is the default sample rate for audio playback.
const DefaultSampleRate = beep.SampleRate(44100)

var (
	ErrNotInitialized = errors.New("audio not initialized")
	ErrNoTrack        = errors.New("no soundtrack loaded")
)

// State is the playback state of the soundtrack.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

// Player streams one soundtrack. Pause and Resume are driven by the demo
// root clock so music and visuals stay together.
type Player struct {
	mu  sync.Mutex
	log *zap.Logger

	initialized bool
	sampleRate  beep.SampleRate

	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	path     string
	state    State

	// 0.0 to 1.0
	level float64
}

// New creates a soundtrack player at full volume.
func New() *Player {
	return &Player{
		log:        logger.Named("audio"),
		sampleRate: DefaultSampleRate,
		level:      1.0,
	}
}

// Init initializes the speaker.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	if err := speaker.Init(p.sampleRate, p.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	p.initialized = true
	return nil
}

// Close stops playback and releases the track.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopInternal()
	p.closeTrack()
	if p.initialized {
		speaker.Close()
		p.initialized = false
	}
}

// Load decodes a WAV file, replacing the current track.
func (p *Player) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening soundtrack: %w", err)
	}

	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("decode wav %s: %w", path, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopInternal()
	p.closeTrack()
	p.streamer = streamer
	p.format = format
	p.path = path

	p.log.Info("soundtrack loaded",
		zap.String("path", path),
		zap.Int("sample_rate", int(format.SampleRate)),
		zap.Duration("length", format.SampleRate.D(streamer.Len())),
	)
	return nil
}

// Play starts the track from the beginning.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return ErrNotInitialized
	}
	if p.streamer == nil {
		return ErrNoTrack
	}

	p.stopInternal()
	if err := p.streamer.Seek(0); err != nil {
		return fmt.Errorf("rewind soundtrack: %w", err)
	}

	var s beep.Streamer = p.streamer
	if p.format.SampleRate != p.sampleRate {
		s = beep.Resample(4, p.format.SampleRate, p.sampleRate, s)
	}

	p.ctrl = &beep.Ctrl{Streamer: s}
	p.volume = &effects.Volume{Streamer: p.ctrl, Base: 10}
	p.applyVolume()
	p.state = Playing

	ctrl := p.ctrl
	speaker.Play(beep.Seq(p.volume, beep.Callback(func() {
		// runs under the speaker lock, which p.mu callers may be waiting on
		go p.finished(ctrl)
	})))
	return nil
}

func (p *Player) finished(ctrl *beep.Ctrl) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctrl == ctrl {
		p.state = Stopped
	}
}

// Pause holds playback at the current position.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Playing {
		return
	}
	p.setPaused(true)
	p.state = Paused
}

// Resume continues a paused track.
func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Paused {
		return
	}
	p.setPaused(false)
	p.state = Playing
}

// Stop ends playback. The next Play starts from the beginning.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopInternal()
}

// State returns the playback state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Path returns the loaded track's path.
func (p *Player) Path() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.path
}

// Position returns the playback position in milliseconds.
func (p *Player) Position() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return 0
	}
	if p.initialized {
		speaker.Lock()
		defer speaker.Unlock()
	}
	return p.format.SampleRate.D(p.streamer.Position()).Milliseconds()
}

// Length returns the track length in milliseconds.
func (p *Player) Length() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return 0
	}
	return p.format.SampleRate.D(p.streamer.Len()).Milliseconds()
}

// Seek moves playback to ms.
func (p *Player) Seek(ms int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return ErrNoTrack
	}
	pos := p.format.SampleRate.N(time.Duration(ms) * time.Millisecond)
	pos = int(clamp(float64(pos), 0, float64(p.streamer.Len())))
	if p.initialized {
		speaker.Lock()
		defer speaker.Unlock()
	}
	return p.streamer.Seek(pos)
}

// SetVolume sets the volume (0.0 to 1.0).
func (p *Player) SetVolume(level float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = clamp(level, 0, 1)
	if p.volume == nil {
		return
	}
	if p.initialized {
		speaker.Lock()
		defer speaker.Unlock()
	}
	p.applyVolume()
}

// Volume returns the volume level.
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

func (p *Player) applyVolume() {
	if p.level <= 0 {
		p.volume.Silent = true
		return
	}
	p.volume.Silent = false
	// gain = 10^(dB/20)
	p.volume.Volume = volumeToDb(p.level) / 20
}

func (p *Player) setPaused(paused bool) {
	if p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = paused
	speaker.Unlock()
}

func (p *Player) stopInternal() {
	if p.initialized && p.ctrl != nil {
		speaker.Clear()
	}
	p.ctrl = nil
	p.volume = nil
	p.state = Stopped
}

func (p *Player) closeTrack() {
	if p.streamer != nil {
		p.streamer.Close()
		p.streamer = nil
	}
	p.path = ""
}

// volumeToDb converts a 0-1 volume to decibels.
// vol=1 -> 0dB, vol=0.5 -> -6dB, vol=0.25 -> -12dB.
func volumeToDb(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return 20 * math.Log10(vol)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
