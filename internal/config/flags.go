package config

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"
)

// ErrResolution is returned for a resolution that is not WIDTHxHEIGHT.
var ErrResolution = errors.New("resolution must be WIDTHxHEIGHT")

// Flags are the command line overrides. Zero values leave the loaded
// settings alone.
type Flags struct {
	Config      string
	WriteConfig string

	LogLevel string
	Debug    bool

	Resolution string
	Fullscreen bool
	Windowed   bool

	Headless bool
	Frames   int
	Loop     bool

	NoShadows bool
	Schedule  string
	Watch     bool
	Parts     string

	Music string
	Mute  bool
}

// ParseFlags parses the player's command line, without the program name.
func ParseFlags(args []string) (*Flags, error) {
	f := &Flags{}
	fs := flag.NewFlagSet("nucdemo", flag.ContinueOnError)

	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.StringVar(&f.WriteConfig, "write-config", "", "Write the effective config to this path and exit")
	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&f.Debug, "debug", false, "Shorthand for -log-level debug")
	fs.StringVar(&f.Resolution, "res", "", "Window size, e.g. 1280x720")
	fs.BoolVar(&f.Fullscreen, "fullscreen", false, "Run in fullscreen mode")
	fs.BoolVar(&f.Windowed, "windowed", false, "Run in windowed mode")
	fs.BoolVar(&f.Headless, "headless", false, "Render without a window")
	fs.IntVar(&f.Frames, "frames", 0, "Frames to render in a headless run")
	fs.BoolVar(&f.Loop, "loop", false, "Restart the demo when it ends")
	fs.BoolVar(&f.NoShadows, "no-shadows", false, "Disable stencil shadows")
	fs.StringVar(&f.Schedule, "schedule", "", "Path to the part schedule (YAML or TOML)")
	fs.BoolVar(&f.Watch, "watch", false, "Reapply the schedule when it changes")
	fs.StringVar(&f.Parts, "parts", "", "Comma separated parts to play, in order")
	fs.StringVar(&f.Music, "music", "", "Soundtrack WAV file")
	fs.BoolVar(&f.Mute, "mute", false, "Play without sound")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	return f, nil
}

func (f *Flags) apply(cfg *Config) error {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.LogLevel != "" {
		cfg.Logging.Level = f.LogLevel
	}

	if f.Resolution != "" {
		w, h, err := ParseResolution(f.Resolution)
		if err != nil {
			return err
		}
		cfg.Graphics.Width, cfg.Graphics.Height = w, h
	}
	if f.Windowed {
		cfg.Graphics.Fullscreen = false
	}
	if f.Fullscreen {
		cfg.Graphics.Fullscreen = true
	}

	if f.Headless {
		cfg.Demo.Headless = true
	}
	if f.Frames > 0 {
		cfg.Demo.HeadlessFrames = f.Frames
	}
	if f.Loop {
		cfg.Demo.Loop = true
	}

	if f.NoShadows {
		cfg.Render.Shadows = false
	}
	if f.Schedule != "" {
		cfg.Demo.Schedule = f.Schedule
	}
	if f.Watch {
		cfg.Demo.Watch = true
	}
	if f.Parts != "" {
		cfg.Demo.Parts = splitList(f.Parts)
	}

	if f.Music != "" {
		cfg.Audio.Soundtrack = f.Music
	}
	if f.Mute {
		cfg.Audio.Muted = true
	}
	return nil
}

// ParseResolution parses WIDTHxHEIGHT.
func ParseResolution(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrResolution, s)
	}
	w, errW := strconv.Atoi(ws)
	h, errH := strconv.Atoi(hs)
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrResolution, s)
	}
	return w, h, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
