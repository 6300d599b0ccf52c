// Package gfx defines the graphics device boundary used by the rendering core:
// a fixed-function style device with texture stages, eight hardware lights and
// a stencil buffer, plus the value types that cross it.
package gfx

import (
	"errors"

	"github.com/Faultbox/nucleus3d/pkg/math"
)

const (
	// MaxLights is the number of device light slots.
	MaxLights = 8
	// MaxTextureStages is the number of texture stages a device exposes.
	MaxTextureStages = 4
	// MaxTexCoords is the number of texture coordinate sets per vertex.
	MaxTexCoords = 4
)

// ErrBufferTooLarge is returned when a buffer cannot be addressed with 16-bit indices.
var ErrBufferTooLarge = errors.New("buffer exceeds 16-bit index range")

// Vertex is the device vertex format.
type Vertex struct {
	Pos    math.Vec3
	Normal math.Vec3
	Color  uint32 // 0xAARRGGBB
	Tex    [MaxTexCoords]math.Vec2

	// Skinning data, carried through but not used by the fixed pipeline.
	BlendWeight float32
	BlendIndex  uint8
}

// NewVertex returns a vertex with the texture coordinate duplicated into every set.
func NewVertex(pos math.Vec3, u, v float32, color uint32) Vertex {
	vx := Vertex{Pos: pos, Color: color}
	for i := range vx.Tex {
		vx.Tex[i] = math.Vec2{X: u, Y: v}
	}
	return vx
}

// BlendFactor selects a source or destination blend multiplier.
type BlendFactor int

const (
	BlendZero BlendFactor = iota
	BlendOne
	BlendSrcColor
	BlendInvSrcColor
	BlendSrcAlpha
	BlendInvSrcAlpha
	BlendDestAlpha
	BlendInvDestAlpha
	BlendDestColor
	BlendInvDestColor
	BlendSrcAlphaSat
)

// CmpFunc is a depth or stencil comparison function.
type CmpFunc int

const (
	CmpNever CmpFunc = iota
	CmpLess
	CmpEqual
	CmpLessEqual
	CmpGreater
	CmpNotEqual
	CmpGreaterEqual
	CmpAlways
)

// StencilOp is the action taken on the stencil buffer.
type StencilOp int

const (
	StencilKeep StencilOp = iota
	StencilZero
	StencilReplace
	StencilIncSat
	StencilDecSat
	StencilInvert
	StencilInc
	StencilDec
)

// FaceOrder is the winding considered front-facing.
type FaceOrder int

const (
	Clockwise FaceOrder = iota
	CounterClockwise
)

// String returns the winding name.
func (f FaceOrder) String() string {
	if f == CounterClockwise {
		return "ccw"
	}
	return "cw"
}

// ShadeMode selects flat or interpolated shading.
type ShadeMode int

const (
	ShadeGouraud ShadeMode = iota
	ShadeFlat
)

// TexOp is a texture stage blend operation.
type TexOp int

const (
	TexOpDisable TexOp = iota
	TexOpSelectArg1
	TexOpSelectArg2
	TexOpModulate
	TexOpModulate2x
	TexOpAdd
	TexOpAddSigned
	TexOpSubtract
	TexOpDotProduct3
)

// String returns the operation name.
func (op TexOp) String() string {
	switch op {
	case TexOpDisable:
		return "disable"
	case TexOpSelectArg1:
		return "arg1"
	case TexOpSelectArg2:
		return "arg2"
	case TexOpModulate:
		return "modulate"
	case TexOpModulate2x:
		return "modulate2x"
	case TexOpAdd:
		return "add"
	case TexOpAddSigned:
		return "addsigned"
	case TexOpSubtract:
		return "subtract"
	case TexOpDotProduct3:
		return "dot3"
	default:
		return "unknown"
	}
}

// TexArg is a texture stage argument source.
type TexArg int

const (
	TexArgCurrent TexArg = iota
	TexArgDiffuse
	TexArgSpecular
	TexArgTexture
	TexArgFactor
)

// TexGen selects the source of a stage's texture coordinates.
type TexGen int

const (
	// TexGenNone reads the vertex coordinate set named by TexCoordIndex.
	TexGenNone TexGen = iota
	// TexGenCameraSpaceNormal uses the camera space normal as coordinates.
	TexGenCameraSpaceNormal
)

// TransformKind names a device transform slot.
type TransformKind int

const (
	TransformWorld TransformKind = iota
	TransformView
	TransformProjection
	transformCount
)

// MaterialParams are the lighting coefficients pushed to the device.
type MaterialParams struct {
	Ambient  math.Color
	Diffuse  math.Color
	Specular math.Color
	Emissive math.Color
	Power    float32
}

// LightKind is the device light type.
type LightKind int

const (
	LightPoint LightKind = iota + 1
	LightSpot
	LightDirectional
)

// LightParams is the full description of one device light slot.
type LightParams struct {
	Kind        LightKind
	Ambient     math.Color
	Diffuse     math.Color
	Specular    math.Color
	Position    math.Vec3
	Direction   math.Vec3
	Range       float32
	Attenuation [3]float32
	Falloff     float32
	Theta       float32 // inner cone, radians
	Phi         float32 // outer cone, radians
}

// ClearFlags selects the buffers cleared by Device.Clear.
type ClearFlags uint8

const (
	ClearColor ClearFlags = 1 << iota
	ClearDepth
	ClearStencil

	ClearAll = ClearColor | ClearDepth | ClearStencil
)
