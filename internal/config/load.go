package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvConfig names an environment variable holding the config path. The
// -config flag wins over it.
const EnvConfig = "NUCDEMO_CONFIG"

// Load builds the player settings: defaults, then the config file, then
// the command line. A nil f applies no overrides.
func Load(f *Flags) (*Config, error) {
	if f == nil {
		f = &Flags{}
	}
	cfg := Default()

	path := f.Config
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	if err := f.apply(cfg); err != nil {
		return nil, err
	}
	cfg.normalize()
	return cfg, nil
}

// normalize replaces values the player cannot use with defaults.
func (c *Config) normalize() {
	def := Default()
	if c.Render.Aspect <= 0 {
		c.Render.Aspect = def.Render.Aspect
	}
	if c.Render.LODLevels < 1 {
		c.Render.LODLevels = 1
	}
	if c.Render.HaloSize <= 0 {
		c.Render.HaloSize = def.Render.HaloSize
	}
	if c.Demo.FrameStep <= 0 {
		c.Demo.FrameStep = def.Demo.FrameStep
	}
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		c.Graphics.Width, c.Graphics.Height = def.Graphics.Width, def.Graphics.Height
	}
	c.Audio.Volume = min(max(c.Audio.Volume, 0), 1)
}

// findConfigFile returns the first settings file present next to the
// player, then in the user config directory.
func findConfigFile() string {
	for _, path := range []string{
		"nucdemo.yaml",
		"config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	} {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// ConfigDir returns the per-user settings directory.
func ConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "nucleus3d")
	}
	return ".nucleus3d"
}

// loadFromFile merges a YAML file over cfg. Unknown keys are errors so a
// misspelt setting does not silently keep its default.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
