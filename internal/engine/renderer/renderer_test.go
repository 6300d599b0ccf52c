package renderer

import (
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/nucleus3d/internal/engine/gfx"
	"github.com/Faultbox/nucleus3d/internal/engine/renderer/shaders"
)

func TestEnumTablesAreComplete(t *testing.T) {
	for f := gfx.BlendZero; f <= gfx.BlendSrcAlphaSat; f++ {
		_, ok := blendFactors[f]
		assert.True(t, ok, "blend factor %d", f)
	}
	for f := gfx.CmpNever; f <= gfx.CmpAlways; f++ {
		_, ok := cmpFuncs[f]
		assert.True(t, ok, "compare func %d", f)
	}
	for op := gfx.StencilKeep; op <= gfx.StencilDec; op++ {
		_, ok := stencilOps[op]
		assert.True(t, ok, "stencil op %d", op)
	}
}

func TestStencilWrapSemantics(t *testing.T) {
	assert.Equal(t, uint32(gl.INCR_WRAP), stencilOps[gfx.StencilInc])
	assert.Equal(t, uint32(gl.DECR_WRAP), stencilOps[gfx.StencilDec])
	assert.Equal(t, uint32(gl.INCR), stencilOps[gfx.StencilIncSat])
}

func TestFrontFaceFlipsForWindowSpace(t *testing.T) {
	assert.Equal(t, uint32(gl.CCW), frontFace(gfx.Clockwise))
	assert.Equal(t, uint32(gl.CW), frontFace(gfx.CounterClockwise))
}

func TestShadersDeclareProgramUniforms(t *testing.T) {
	src := shaders.FixedVertexShader + shaders.FixedFragmentShader
	assert.True(t, strings.HasPrefix(shaders.FixedVertexShader, "#version 410 core"))
	assert.True(t, strings.HasPrefix(shaders.FixedFragmentShader, "#version 410 core"))

	names := []string{
		"uWorld", "uView", "uProj", "uEyePos", "uAmbient", "uLighting", "uColorVertex",
		"uSpecular", "uBillboard", "uFlat", "uTextureFactor", "uFog", "uFogColor", "uFogRange",
		"uMatAmbient", "uMatDiffuse", "uMatSpecular", "uMatEmissive", "uMatPower",
		"uLightEnabled", "uLightKind", "uLightPos", "uLightDir", "uLightAmbient",
		"uLightDiffuse", "uLightSpecular", "uLightRange", "uLightAtten", "uLightCone",
		"uTexMatrix", "uTexCoordIndex", "uTexGen", "uTex", "uHasTex",
		"uColorOp", "uColorArg1", "uColorArg2", "uAlphaOp", "uAlphaArg1", "uAlphaArg2",
	}
	for _, name := range names {
		re := regexp.MustCompile(`uniform \w+ ` + name + `\b`)
		assert.Regexp(t, re, src, name)
	}
}

func TestFogDistanceReachesFragmentStage(t *testing.T) {
	assert.Contains(t, shaders.FixedVertexShader, "out float vEyeDist;")
	assert.Contains(t, shaders.FixedFragmentShader, "in float vEyeDist;")
}

func TestShaderConstantsMatchEnums(t *testing.T) {
	consts := map[string]int{
		"OP_DISABLE":           int(gfx.TexOpDisable),
		"OP_SELECT1":           int(gfx.TexOpSelectArg1),
		"OP_SELECT2":           int(gfx.TexOpSelectArg2),
		"OP_MODULATE":          int(gfx.TexOpModulate),
		"OP_MODULATE2X":        int(gfx.TexOpModulate2x),
		"OP_ADD":               int(gfx.TexOpAdd),
		"OP_ADDSIGNED":         int(gfx.TexOpAddSigned),
		"OP_SUBTRACT":          int(gfx.TexOpSubtract),
		"OP_DOT3":              int(gfx.TexOpDotProduct3),
		"ARG_CURRENT":          int(gfx.TexArgCurrent),
		"ARG_DIFFUSE":          int(gfx.TexArgDiffuse),
		"ARG_SPECULAR":         int(gfx.TexArgSpecular),
		"ARG_TEXTURE":          int(gfx.TexArgTexture),
		"ARG_FACTOR":           int(gfx.TexArgFactor),
		"LIGHT_POINT":          int(gfx.LightPoint),
		"LIGHT_SPOT":           int(gfx.LightSpot),
		"LIGHT_DIRECTIONAL":    int(gfx.LightDirectional),
		"TEXGEN_CAMERA_NORMAL": int(gfx.TexGenCameraSpaceNormal),
		"MAX_LIGHTS":           gfx.MaxLights,
		"MAX_STAGES":           gfx.MaxTextureStages,
	}
	src := shaders.FixedVertexShader + shaders.FixedFragmentShader
	for name, want := range consts {
		re := regexp.MustCompile(`const int ` + name + ` = (\d+);`)
		m := re.FindStringSubmatch(src)
		if assert.NotNil(t, m, name) {
			got, err := strconv.Atoi(m[1])
			assert.NoError(t, err)
			assert.Equal(t, want, got, name)
		}
	}
}

func TestHasAlpha(t *testing.T) {
	assert.False(t, hasAlpha([]byte{1, 2, 3, 255, 4, 5, 6, 255}))
	assert.True(t, hasAlpha([]byte{1, 2, 3, 255, 4, 5, 6, 128}))
}
