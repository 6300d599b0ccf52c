package material

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/nucleus3d/internal/engine/gfx"
	"github.com/Faultbox/nucleus3d/pkg/math"
)

func TestNewDefaults(t *testing.T) {
	m := New()
	assert.Equal(t, math.Gray(1), m.Diffuse)
	assert.Equal(t, math.Gray(1), m.Ambient)
	assert.Equal(t, float32(1), m.Alpha)
	assert.Equal(t, float32(1), m.EnvBlend)
	assert.False(t, m.SpecularEnable)
	assert.Zero(t, m.TextureCount())
	assert.True(t, m.Opaque())
}

func TestSpecularPowerEnablesHighlights(t *testing.T) {
	m := New()
	m.SetSpecularPower(20)
	assert.True(t, m.SpecularEnable)
	assert.Equal(t, float32(20), m.Params().Power)

	m.SetSpecularPower(0)
	assert.False(t, m.SpecularEnable)
	assert.Equal(t, math.Color{}, m.Params().Specular)
}

func TestSetTextureTracksTransparency(t *testing.T) {
	m := New()
	m.SetTexture(DiffuseMap, &gfx.RecTexture{W: 4, H: 4, Alpha: true})
	m.SetTexture(LightMap, &gfx.RecTexture{W: 4, H: 4})

	assert.Equal(t, 2, m.TextureCount())
	assert.True(t, m.HasTransparentTex)
	assert.False(t, m.Opaque())

	m.SetTexture(DiffuseMap, nil)
	assert.False(t, m.HasTransparentTex)
	assert.Equal(t, 1, m.TextureCount())
	assert.Nil(t, m.Texture(DiffuseMap))
}

func TestOpaqueThreshold(t *testing.T) {
	tests := []struct {
		alpha float32
		want  bool
	}{
		{1, true},
		{0.995, true},
		{0.991, false},
		{0.5, false},
	}
	for _, tt := range tests {
		m := New()
		m.SetAlpha(tt.alpha)
		assert.Equal(t, tt.want, m.Opaque(), "alpha=%v", tt.alpha)
	}
}

func TestValueSemantics(t *testing.T) {
	a := New()
	b := a
	b.SetAlpha(0.2)
	assert.Equal(t, float32(1), a.Alpha)
	assert.Equal(t, float32(0.2), b.Params().Diffuse.A)
}

func TestSlotString(t *testing.T) {
	assert.Equal(t, "environment", EnvironmentMap.String())
	assert.Equal(t, "unknown", Slot(42).String())
}
