package object

import (
	"github.com/Faultbox/nucleus3d/internal/engine/gfx"
	"github.com/Faultbox/nucleus3d/internal/engine/model"
)

// NewPlane returns an object holding a plane mesh facing -Z.
func NewPlane(ctx *gfx.Context, name string, size float32, subdivisions, levels int) *Object {
	return wrap(ctx, name, model.NewPlane(ctx, size, subdivisions, levels))
}

// NewCube returns an object holding a cube mesh.
func NewCube(ctx *gfx.Context, name string, size float32, levels int) *Object {
	return wrap(ctx, name, model.NewCube(ctx, size, levels))
}

// NewSphere returns an object holding a UV sphere mesh.
func NewSphere(ctx *gfx.Context, name string, radius float32, slices, stacks, levels int) *Object {
	return wrap(ctx, name, model.NewSphere(ctx, radius, slices, stacks, levels))
}

func wrap(ctx *gfx.Context, name string, mesh *model.TriMesh) *Object {
	obj := New(ctx, name, mesh.Levels())
	obj.SetMesh(mesh)
	return obj
}
