package lighting

import "github.com/Faultbox/nucleus3d/pkg/math"

// Transform accumulates the motion applied on top of a light's base
// position. Its zero value is the identity. Points go through the free-form
// matrix first, then the rotation, then the translation.
type Transform struct {
	xform, rot, trans math.Mat4
	used              bool
}

func (t *Transform) ensure() {
	if !t.used {
		t.xform, t.rot, t.trans = math.Identity(), math.Identity(), math.Identity()
		t.used = true
	}
}

// Matrix returns the composed transform.
func (t *Transform) Matrix() math.Mat4 {
	if !t.used {
		return math.Identity()
	}
	return t.trans.Mul(t.rot).Mul(t.xform)
}

// Reset clears every component.
func (t *Transform) Reset() {
	t.used = false
}

// ResetTranslation clears the accumulated translation.
func (t *Transform) ResetTranslation() {
	t.ensure()
	t.trans = math.Identity()
}

// ResetRotation clears the accumulated rotation.
func (t *Transform) ResetRotation() {
	t.ensure()
	t.rot = math.Identity()
}

// Translate appends a translation.
func (t *Transform) Translate(x, y, z float32) {
	t.ensure()
	t.trans = math.Translate(x, y, z).Mul(t.trans)
}

// Rotate appends an Euler rotation (X, then Y, then Z).
func (t *Transform) Rotate(x, y, z float32) {
	t.ensure()
	t.rot = math.RotateEuler(x, y, z).Mul(t.rot)
}

// RotateAxis appends a rotation around axis.
func (t *Transform) RotateAxis(axis math.Vec3, angle float32) {
	t.ensure()
	t.rot = math.RotateAxis(axis, angle).Mul(t.rot)
}

// Apply appends an arbitrary matrix to the free-form component.
func (t *Transform) Apply(m math.Mat4) {
	t.ensure()
	t.xform = m.Mul(t.xform)
}
