// Package material defines the surface description shared by objects.
package material

import (
	"github.com/Faultbox/nucleus3d/internal/engine/gfx"
	"github.com/Faultbox/nucleus3d/pkg/math"
)

// Slot names a texture map by its meaning.
type Slot int

const (
	DiffuseMap Slot = iota
	DetailMap
	OpacityMap
	LightMap
	BumpMap
	EnvironmentMap
	SpecularMap

	NumSlots
)

// String returns the slot name.
func (s Slot) String() string {
	switch s {
	case DiffuseMap:
		return "diffuse"
	case DetailMap:
		return "detail"
	case OpacityMap:
		return "opacity"
	case LightMap:
		return "light"
	case BumpMap:
		return "bump"
	case EnvironmentMap:
		return "environment"
	case SpecularMap:
		return "specular"
	default:
		return "unknown"
	}
}

// OpaqueAlpha is the alpha above which a material counts as opaque.
const OpaqueAlpha = 0.991

// Material is a plain value; copying it is cheap and texture references are
// shared, never owned.
type Material struct {
	Name string

	Ambient  math.Color
	Diffuse  math.Color
	Specular math.Color
	Emissive math.Color

	Power          float32
	SpecularEnable bool

	// Alpha is the opacity in [0,1].
	Alpha         float32
	EnvBlend      float32
	BumpIntensity float32

	// HasTransparentTex is set when the diffuse map carries per-texel alpha.
	HasTransparentTex bool

	Maps [NumSlots]gfx.Texture
}

// New returns a white material.
func New() Material {
	return NewColor(1, 1, 1)
}

// NewColor returns an opaque material with the given ambient and diffuse colour.
func NewColor(r, g, b float32) Material {
	c := math.RGB(r, g, b)
	return Material{
		Ambient:  c,
		Diffuse:  c,
		Specular: math.Gray(1),
		Emissive: math.Color{A: 1},
		Alpha:    1,
		EnvBlend: 1,
	}
}

// SetSpecularPower sets the specular exponent; a positive power enables highlights.
func (m *Material) SetSpecularPower(pow float32) {
	m.Power = pow
	m.SpecularEnable = pow > 0
}

// SetAlpha sets the opacity, clamped to [0,1].
func (m *Material) SetAlpha(alpha float32) {
	m.Alpha = max(0, min(1, alpha))
}

// SetTexture binds tex to a slot. A nil texture clears the slot. Binding the
// diffuse map records whether it carries transparency.
func (m *Material) SetTexture(slot Slot, tex gfx.Texture) {
	if slot < 0 || slot >= NumSlots {
		return
	}
	m.Maps[slot] = tex
	if slot == DiffuseMap {
		m.HasTransparentTex = tex != nil && tex.HasAlpha()
	}
}

// Texture returns the texture in a slot, or nil.
func (m *Material) Texture(slot Slot) gfx.Texture {
	if slot < 0 || slot >= NumSlots {
		return nil
	}
	return m.Maps[slot]
}

// TextureCount returns the number of populated slots.
func (m *Material) TextureCount() int {
	n := 0
	for _, t := range m.Maps {
		if t != nil {
			n++
		}
	}
	return n
}

// Opaque reports whether objects using the material can be drawn in the
// opaque pass.
func (m *Material) Opaque() bool {
	return m.Alpha > OpaqueAlpha && !m.HasTransparentTex
}

// Params returns the lighting coefficients for the device. Diffuse alpha
// carries the material opacity.
func (m *Material) Params() gfx.MaterialParams {
	diffuse := m.Diffuse
	diffuse.A = m.Alpha
	p := gfx.MaterialParams{
		Ambient:  m.Ambient,
		Diffuse:  diffuse,
		Emissive: m.Emissive,
	}
	if m.SpecularEnable {
		p.Specular = m.Specular
		p.Power = m.Power
	}
	return p
}
