package texture

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/nucleus3d/internal/engine/gfx"
	"github.com/Faultbox/nucleus3d/internal/logger"
)

// Uploader creates device textures.
type Uploader interface {
	NewTexture(img *image.RGBA) (gfx.Texture, error)
}

// Manager is an append-only cache of device textures keyed by name. Names are
// stock texture names or paths relative to the data root.
type Manager struct {
	dev  Uploader
	root string
	log  *zap.Logger

	mu       sync.RWMutex
	textures map[string]gfx.Texture
	missing  map[string]bool
}

// NewManager returns a manager that resolves file names under root.
func NewManager(dev Uploader, root string) *Manager {
	return &Manager{
		dev:      dev,
		root:     root,
		log:      logger.Named("texture"),
		textures: make(map[string]gfx.Texture),
		missing:  make(map[string]bool),
	}
}

// Load returns the texture for name, creating it on first request. A
// texture that cannot be loaded is reported once and yields nil.
func (m *Manager) Load(name string) gfx.Texture {
	if name == "" {
		return nil
	}

	m.mu.RLock()
	tex, ok := m.textures[name]
	miss := m.missing[name]
	m.mu.RUnlock()
	if ok {
		return tex
	}
	if miss {
		return nil
	}

	tex, err := m.create(name)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		if !m.missing[name] {
			m.log.Warn("texture unavailable", zap.String("name", name), zap.Error(err))
			m.missing[name] = true
		}
		return nil
	}
	if existing, ok := m.textures[name]; ok {
		tex.Release()
		return existing
	}
	m.textures[name] = tex
	m.log.Debug("texture loaded", zap.String("name", name),
		zap.Int("width", tex.Width()), zap.Int("height", tex.Height()))
	return tex
}

func (m *Manager) create(name string) (gfx.Texture, error) {
	img, err := m.LoadImage(name)
	if err != nil {
		return nil, err
	}
	tex, err := m.dev.NewTexture(img)
	if err != nil {
		return nil, fmt.Errorf("uploading %s: %w", name, err)
	}
	return tex, nil
}

// LoadImage produces the power-of-two RGBA image for name without uploading it.
func (m *Manager) LoadImage(name string) (*image.RGBA, error) {
	if img := Stock(name); img != nil {
		return img, nil
	}
	path := name
	if m.root != "" && !filepath.IsAbs(name) {
		path = filepath.Join(m.root, name)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading texture: %w", err)
	}
	img, err := Decode(data, name)
	if err != nil {
		return nil, err
	}
	return ToPowerOfTwo(img), nil
}

// Add registers an externally created texture under name.
func (m *Manager) Add(name string, tex gfx.Texture) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.textures[name] = tex
	delete(m.missing, name)
}

// Len returns the number of cached textures.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.textures)
}

// Release frees every cached texture.
func (m *Manager) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, tex := range m.textures {
		tex.Release()
		delete(m.textures, name)
	}
}
