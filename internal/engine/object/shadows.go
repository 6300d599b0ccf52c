package object

import (
	"go.uber.org/zap"

	"github.com/Faultbox/nucleus3d/internal/engine/model"
	"github.com/Faultbox/nucleus3d/internal/engine/shadow"
	"github.com/Faultbox/nucleus3d/internal/logger"
)

// SetShadowCasting marks whether the object casts shadows. Turning it off
// drops the cached volumes.
func (o *Object) SetShadowCasting(enable bool) {
	o.castShadows = enable
	if !enable {
		o.releaseVolumes()
	}
}

// ShadowCasting reports whether the object casts shadows.
func (o *Object) ShadowCasting() bool { return o.castShadows }

// CalculateShadows rebuilds one shadow volume per light, in the order given.
// Volumes stay in mesh space and are drawn with the object's world matrix.
func (o *Object) CalculateShadows(lights []shadow.Light) {
	prev := len(o.volumes)
	o.releaseVolumes()

	world := o.WorldTransform()
	o.volumes = make([]*model.TriMesh, len(lights))
	for i, l := range lights {
		o.volumes[i] = shadow.BuildVolume(o.ctx, o.mesh, l, world, false)
	}

	if len(lights) != prev {
		logger.Debug("shadow casters changed",
			zap.String("object", o.Name),
			zap.Int("lights", len(lights)))
	}
}

// ShadowVolume returns the volume built for the i-th light of the last
// CalculateShadows call, or nil.
func (o *Object) ShadowVolume(i int) *model.TriMesh {
	if i < 0 || i >= len(o.volumes) {
		return nil
	}
	return o.volumes[i]
}

// ShadowVolumeCount returns the number of cached volumes.
func (o *Object) ShadowVolumeCount() int { return len(o.volumes) }

func (o *Object) releaseVolumes() {
	for _, v := range o.volumes {
		if v != nil {
			v.Release()
		}
	}
	o.volumes = nil
}
