// Package config handles demo player configuration loading and management.
package config

// Config holds all player settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Render   RenderConfig   `yaml:"render"`
	Demo     DemoConfig     `yaml:"demo"`
	Audio    AudioConfig    `yaml:"audio"`
	Data     DataConfig     `yaml:"data"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DataConfig holds asset paths.
type DataConfig struct {
	TextureRoot string `yaml:"texture_root"` // Texture names resolve under this directory
	ModelRoot   string `yaml:"model_root"`   // N3M models
	Model       string `yaml:"model"`        // Optional model under ModelRoot shown in the shadows part
	CaptureDir  string `yaml:"capture_dir"`  // F12 frame captures
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// RenderConfig holds scene rendering settings.
type RenderConfig struct {
	Shadows    bool    `yaml:"shadows"`
	LightHalos bool    `yaml:"light_halos"`
	HaloSize   float32 `yaml:"halo_size"`
	LODLevels  int     `yaml:"lod_levels"`
	// Aspect is the projection aspect ratio, independent of the window size.
	Aspect float32 `yaml:"aspect"`
}

// DemoConfig holds timeline settings.
type DemoConfig struct {
	Schedule string `yaml:"schedule"` // YAML or TOML part timings
	// Parts selects and orders the built-in parts. Empty plays them all.
	Parts []string `yaml:"parts,omitempty"`
	Watch bool     `yaml:"watch"` // Reapply the schedule when the file changes
	Loop  bool     `yaml:"loop"`
	// Headless runs against the recording device instead of a window.
	Headless bool `yaml:"headless"`
	// HeadlessFrames is the number of frames rendered in a headless run.
	HeadlessFrames int `yaml:"headless_frames"`
	// FrameStep is the clock advance per headless frame, in ms.
	FrameStep int64 `yaml:"frame_step"`
}

// AudioConfig holds soundtrack settings.
type AudioConfig struct {
	Soundtrack string  `yaml:"soundtrack"` // WAV file
	Volume     float64 `yaml:"volume"`
	Muted      bool    `yaml:"muted"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1024,
			Height:     768,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
		},
		Render: RenderConfig{
			Shadows:    true,
			LightHalos: false,
			HaloSize:   10,
			LODLevels:  1,
			Aspect:     4.0 / 3.0,
		},
		Demo: DemoConfig{
			Schedule:       "",
			Watch:          false,
			Loop:           false,
			HeadlessFrames: 300,
			FrameStep:      20,
		},
		Audio: AudioConfig{
			Volume: 0.8,
			Muted:  false,
		},
		Data: DataConfig{
			TextureRoot: "data/textures",
			ModelRoot:   "data/models",
			CaptureDir:  "captures",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
