// Package object couples a mesh with a material, a transform stack and the
// render state overrides used when it is drawn.
package object

import (
	"github.com/google/uuid"

	"github.com/Faultbox/nucleus3d/internal/engine/gfx"
	"github.com/Faultbox/nucleus3d/internal/engine/material"
	"github.com/Faultbox/nucleus3d/internal/engine/model"
	"github.com/Faultbox/nucleus3d/internal/engine/motion"
	"github.com/Faultbox/nucleus3d/pkg/math"
)

// FixedFunction is the program id meaning "no custom program".
const FixedFunction = 0

// RenderParams are the per-object render state overrides.
type RenderParams struct {
	Shading       gfx.ShadeMode
	VertexProgram uint32
	PixelProgram  uint32
	ZWrite        bool
	SrcBlend      gfx.BlendFactor
	DstBlend      gfx.BlendFactor
}

// DefaultRenderParams returns gouraud shading, depth writes and standard
// alpha blending factors.
func DefaultRenderParams() RenderParams {
	return RenderParams{
		Shading:       gfx.ShadeGouraud,
		VertexProgram: FixedFunction,
		ZWrite:        true,
		SrcBlend:      gfx.BlendSrcAlpha,
		DstBlend:      gfx.BlendInvSrcAlpha,
	}
}

// Object is a renderable mesh instance.
type Object struct {
	ID       uuid.UUID
	Name     string
	Material material.Material
	Params   RenderParams

	ctx  *gfx.Context
	mesh *model.TriMesh

	// World = GlobalRotate · Translate · Rotate · Scale
	trans, rot, grot, scale math.Mat4

	texMatrix    math.Mat4
	useTexMatrix bool

	castShadows bool
	volumes     []*model.TriMesh

	motion    *motion.Controller
	motionMat math.Mat4

	lod int
}

// New returns an empty object with the given number of mesh detail levels.
func New(ctx *gfx.Context, name string, levels int) *Object {
	return &Object{
		ID:        uuid.New(),
		Name:      name,
		Material:  material.New(),
		Params:    DefaultRenderParams(),
		ctx:       ctx,
		mesh:      model.NewTriMesh(ctx, levels),
		trans:     math.Identity(),
		rot:       math.Identity(),
		grot:      math.Identity(),
		scale:     math.Identity(),
		texMatrix: math.Identity(),
		motionMat: math.Identity(),
	}
}

// Mesh returns the object's mesh.
func (o *Object) Mesh() *model.TriMesh { return o.mesh }

// SetDetailLevel selects the mesh level drawn, clamped to the available levels.
func (o *Object) SetDetailLevel(lvl int) {
	o.lod = max(0, min(lvl, o.mesh.Levels()-1))
}

// DetailLevel returns the mesh level drawn.
func (o *Object) DetailLevel() int { return o.lod }

func (o *Object) level() int {
	return min(o.lod, o.mesh.Levels()-1)
}

// SetMesh replaces the mesh, releasing the old one.
func (o *Object) SetMesh(m *model.TriMesh) {
	if o.mesh != nil && o.mesh != m {
		o.mesh.Release()
	}
	o.mesh = m
	o.releaseVolumes()
}

// Release frees the mesh and cached shadow volumes.
func (o *Object) Release() {
	o.releaseVolumes()
	if o.mesh != nil {
		o.mesh.Release()
	}
}

// Clone returns a copy with its own mesh data and a new ID. Shadow volumes
// are not copied.
func (o *Object) Clone() (*Object, error) {
	mesh, err := o.mesh.Clone()
	if err != nil {
		return nil, err
	}
	c := *o
	c.ID = uuid.New()
	c.mesh = mesh
	c.volumes = nil
	return &c, nil
}

// ResetTransform clears every transform component.
func (o *Object) ResetTransform() {
	o.trans, o.rot, o.grot, o.scale = math.Identity(), math.Identity(), math.Identity(), math.Identity()
}

func (o *Object) ResetTranslation()    { o.trans = math.Identity() }
func (o *Object) ResetRotation()       { o.rot = math.Identity() }
func (o *Object) ResetGlobalRotation() { o.grot = math.Identity() }
func (o *Object) ResetScaling()        { o.scale = math.Identity() }

// Translate appends a translation.
func (o *Object) Translate(x, y, z float32) {
	o.trans = math.Translate(x, y, z).Mul(o.trans)
}

// Rotate appends an Euler rotation in the object's local frame.
func (o *Object) Rotate(x, y, z float32) {
	o.rot = math.RotateEuler(x, y, z).Mul(o.rot)
}

// RotateAxis appends a local rotation around axis.
func (o *Object) RotateAxis(axis math.Vec3, angle float32) {
	o.rot = math.RotateAxis(axis, angle).Mul(o.rot)
}

// RotateMatrix appends an arbitrary local rotation.
func (o *Object) RotateMatrix(m math.Mat4) {
	o.rot = m.Mul(o.rot)
}

// GlobalRotate appends an Euler rotation applied after translation, which
// swings the object around the world origin.
func (o *Object) GlobalRotate(x, y, z float32) {
	o.grot = math.RotateEuler(x, y, z).Mul(o.grot)
}

// GlobalRotateAxis appends a global rotation around axis.
func (o *Object) GlobalRotateAxis(axis math.Vec3, angle float32) {
	o.grot = math.RotateAxis(axis, angle).Mul(o.grot)
}

// GlobalRotateMatrix appends an arbitrary global rotation.
func (o *Object) GlobalRotateMatrix(m math.Mat4) {
	o.grot = m.Mul(o.grot)
}

// Scale appends a scaling.
func (o *Object) Scale(x, y, z float32) {
	o.scale = math.Scale(x, y, z).Mul(o.scale)
}

// SetTranslation replaces the translation.
func (o *Object) SetTranslation(x, y, z float32) {
	o.trans = math.Translate(x, y, z)
}

// SetRotation replaces the local rotation with an Euler rotation.
func (o *Object) SetRotation(x, y, z float32) {
	o.rot = math.RotateEuler(x, y, z)
}

// SetRotationAxis replaces the local rotation with an axis rotation.
func (o *Object) SetRotationAxis(axis math.Vec3, angle float32) {
	o.rot = math.RotateAxis(axis, angle)
}

// SetRotationMatrix replaces the local rotation.
func (o *Object) SetRotationMatrix(m math.Mat4) {
	o.rot = m
}

// SetGlobalRotation replaces the global rotation with an Euler rotation.
func (o *Object) SetGlobalRotation(x, y, z float32) {
	o.grot = math.RotateEuler(x, y, z)
}

// SetGlobalRotationMatrix replaces the global rotation.
func (o *Object) SetGlobalRotationMatrix(m math.Mat4) {
	o.grot = m
}

// SetScaling replaces the scaling.
func (o *Object) SetScaling(x, y, z float32) {
	o.scale = math.Scale(x, y, z)
}

// Position returns the translation component.
func (o *Object) Position() math.Vec3 {
	return o.trans.Translation()
}

// WorldTransform returns the object to world matrix. The motion controller
// output, if any, applies first.
func (o *Object) WorldTransform() math.Mat4 {
	return o.grot.Mul(o.trans).Mul(o.rot).Mul(o.scale).Mul(o.motionMat)
}

// SetMotion binds a motion controller; nil removes it.
func (o *Object) SetMotion(c *motion.Controller) {
	o.motion = c
	if c == nil {
		o.motionMat = math.Identity()
	}
}

// Motion returns the bound motion controller.
func (o *Object) Motion() *motion.Controller { return o.motion }

// Animate evaluates the motion controller at t seconds.
func (o *Object) Animate(t float32) {
	if o.motion == nil {
		return
	}
	o.motionMat = o.motion.Transform(t)
}

// SetTextureMatrix sets a matrix applied to the diffuse map coordinates.
func (o *Object) SetTextureMatrix(m math.Mat4) {
	o.texMatrix = m
	o.useTexMatrix = true
}

// ClearTextureMatrix removes the diffuse map coordinate transform.
func (o *Object) ClearTextureMatrix() {
	o.texMatrix = math.Identity()
	o.useTexMatrix = false
}

// TextureMatrix returns the diffuse map coordinate transform.
func (o *Object) TextureMatrix() math.Mat4 { return o.texMatrix }

// SetBlendFunc sets the blend factors used by the base pass.
func (o *Object) SetBlendFunc(src, dst gfx.BlendFactor) {
	o.Params.SrcBlend = src
	o.Params.DstBlend = dst
}

// BlendFunc returns the base pass blend factors.
func (o *Object) BlendFunc() (src, dst gfx.BlendFactor) {
	return o.Params.SrcBlend, o.Params.DstBlend
}

// SetWriteZBuffer enables or disables depth writes for the object.
func (o *Object) SetWriteZBuffer(enable bool) { o.Params.ZWrite = enable }

// SetShadingMode sets flat or gouraud shading.
func (o *Object) SetShadingMode(mode gfx.ShadeMode) { o.Params.Shading = mode }
