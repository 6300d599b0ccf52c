// Package scene provides the per-frame orchestration of objects, lights,
// cameras and curves: light slot setup, stencil shadow volumes and the
// opaque then transparent object passes.
package scene

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/nucleus3d/internal/engine/camera"
	"github.com/Faultbox/nucleus3d/internal/engine/curve"
	"github.com/Faultbox/nucleus3d/internal/engine/gfx"
	"github.com/Faultbox/nucleus3d/internal/engine/lighting"
	"github.com/Faultbox/nucleus3d/internal/engine/model"
	"github.com/Faultbox/nucleus3d/internal/engine/object"
	"github.com/Faultbox/nucleus3d/internal/engine/shadow"
	"github.com/Faultbox/nucleus3d/internal/logger"
	"github.com/Faultbox/nucleus3d/pkg/math"
)

// MaxLights is the number of lights a scene holds.
const MaxLights = gfx.MaxLights

// Config contains scene configuration options.
type Config struct {
	Shadows    bool
	LightHalos bool
	HaloSize   float32
	Aspect     float32
}

// DefaultConfig returns a default scene configuration.
func DefaultConfig() Config {
	return Config{
		Shadows:    false,
		LightHalos: false,
		HaloSize:   10,
		Aspect:     4.0 / 3.0,
	}
}

// StaticVolume is a prebuilt world space shadow volume bound to one light.
type StaticVolume struct {
	Mesh  *model.TriMesh
	Light *lighting.Light
}

// Scene holds everything drawn in a frame.
type Scene struct {
	config Config
	ctx    *gfx.Context
	log    *zap.Logger

	Ambient math.Color
	fog     gfx.FogState

	lights [MaxLights]*lighting.Light
	// slots maps a light index to the device slot SetupLights gave it.
	slots [MaxLights]int

	objects []*object.Object
	cameras []*camera.Camera
	active  *camera.Camera
	curves  []*curve.Curve
	static  []StaticVolume
}

// New creates an empty scene drawing through ctx.
func New(ctx *gfx.Context, cfg Config) *Scene {
	if cfg.Aspect <= 0 {
		cfg.Aspect = DefaultConfig().Aspect
	}
	s := &Scene{
		config:  cfg,
		ctx:     ctx,
		log:     logger.Named("scene"),
		Ambient: math.Color{A: 1},
	}
	for i := range s.slots {
		s.slots[i] = -1
	}
	return s
}

// Context returns the device context the scene draws through.
func (s *Scene) Context() *gfx.Context { return s.ctx }

// SetShadows enables stencil shadows.
func (s *Scene) SetShadows(enable bool) { s.config.Shadows = enable }

// Shadows reports whether stencil shadows are enabled.
func (s *Scene) Shadows() bool { return s.config.Shadows }

// SetHaloDrawing enables light halo visualisation.
func (s *Scene) SetHaloDrawing(enable bool) { s.config.LightHalos = enable }

// SetHaloSize sets the light halo size in world units.
func (s *Scene) SetHaloSize(size float32) { s.config.HaloSize = size }

// SetAspect sets the projection aspect ratio.
func (s *Scene) SetAspect(aspect float32) {
	if aspect > 0 {
		s.config.Aspect = aspect
	}
}

// SetFog enables linear fog from near to far for the object passes. The
// colour and range are kept when fog is turned off.
func (s *Scene) SetFog(enable bool, color math.Color, near, far float32) {
	s.fog.Enabled = enable
	if enable {
		s.fog.Color = color
		s.fog.Start = near
		s.fog.End = far
	}
}

// Fog returns the fog settings.
func (s *Scene) Fog() gfx.FogState { return s.fog }

// AddObject appends obj to the scene.
func (s *Scene) AddObject(obj *object.Object) {
	s.objects = append(s.objects, obj)
}

// RemoveObject removes obj, keeping the order of the others.
func (s *Scene) RemoveObject(obj *object.Object) {
	for i, o := range s.objects {
		if o == obj {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			return
		}
	}
}

// Objects returns the objects in insertion order.
func (s *Scene) Objects() []*object.Object { return s.objects }

// Object returns the first object called name, or nil.
func (s *Scene) Object(name string) *object.Object {
	for _, o := range s.objects {
		if o.Name == name {
			return o
		}
	}
	return nil
}

// AddLight stores l in the first free slot. It reports false when all
// slots are taken.
func (s *Scene) AddLight(l *lighting.Light) bool {
	for i := range s.lights {
		if s.lights[i] == nil {
			s.lights[i] = l
			return true
		}
	}
	s.log.Warn("light slots full, light ignored", zap.String("light", l.Name))
	return false
}

// RemoveLight frees the slot holding l.
func (s *Scene) RemoveLight(l *lighting.Light) {
	for i := range s.lights {
		if s.lights[i] == l {
			s.lights[i] = nil
			return
		}
	}
}

// Light returns the light called name, or nil.
func (s *Scene) Light(name string) *lighting.Light {
	for _, l := range s.lights {
		if l != nil && l.Name == name {
			return l
		}
	}
	return nil
}

// Lights returns the light slots; empty slots are nil.
func (s *Scene) Lights() [MaxLights]*lighting.Light { return s.lights }

// AddCamera appends cam. The first camera added becomes the active one.
func (s *Scene) AddCamera(cam *camera.Camera) {
	s.cameras = append(s.cameras, cam)
	if s.active == nil {
		s.active = cam
	}
}

// Camera returns the camera called name, or nil.
func (s *Scene) Camera(name string) *camera.Camera {
	for _, c := range s.cameras {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// SetActiveCamera selects the camera used by Render. nil disables rendering.
func (s *Scene) SetActiveCamera(cam *camera.Camera) { s.active = cam }

// ActiveCamera returns the camera used by Render.
func (s *Scene) ActiveCamera() *camera.Camera { return s.active }

// AddCurve appends c.
func (s *Scene) AddCurve(c *curve.Curve) {
	s.curves = append(s.curves, c)
}

// Curve returns the curve called name, or nil.
func (s *Scene) Curve(name string) *curve.Curve {
	for _, c := range s.curves {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// AddStaticShadowVolume registers a world space volume cast from l.
func (s *Scene) AddStaticShadowVolume(volume *model.TriMesh, l *lighting.Light) {
	s.static = append(s.static, StaticVolume{Mesh: volume, Light: l})
}

// BakeShadowVolume builds the world space volume obj casts from l and keeps
// it as a static volume. Use it for objects and lights that never move.
func (s *Scene) BakeShadowVolume(obj *object.Object, l *lighting.Light) *model.TriMesh {
	volume := shadow.BuildVolume(s.ctx, obj.Mesh(), l, obj.WorldTransform(), true)
	s.AddStaticShadowVolume(volume, l)
	return volume
}

// StaticVolumes returns the registered static volumes.
func (s *Scene) StaticVolumes() []StaticVolume { return s.static }

// Animate evaluates every object's motion controller at t seconds.
func (s *Scene) Animate(t float32) {
	for _, o := range s.objects {
		o.Animate(t)
	}
}

// SetupLights pushes the lights into consecutive device slots and disables
// the slot after the last one used.
func (s *Scene) SetupLights() {
	slot := 0
	for i, l := range s.lights {
		s.slots[i] = -1
		if l == nil {
			continue
		}
		l.SetLight(s.ctx.Device, slot)
		s.slots[i] = slot
		slot++
	}
	if slot < MaxLights {
		s.ctx.Device.EnableLight(slot, false)
	}
}

// shadowCasters returns the indices of the lights that cast shadows.
func (s *Scene) shadowCasters() []int {
	var out []int
	for i, l := range s.lights {
		if l != nil && l.CastShadows {
			out = append(out, i)
		}
	}
	return out
}

// Render draws a frame: camera and lights, shadow volumes, opaque objects,
// transparent objects and light halos. Without an active camera it only
// sets the ambient light. Object errors do not stop the frame; they are
// joined into the returned error.
func (s *Scene) Render() error {
	dev := s.ctx.Device
	dev.SetAmbient(s.Ambient)

	cam := s.active
	if cam == nil {
		return nil
	}
	dev.SetTransform(gfx.TransformView, cam.ViewMatrix())
	dev.SetTransform(gfx.TransformProjection, cam.Projection(s.config.Aspect))

	s.SetupLights()

	if s.fog.Enabled {
		fog := s.fog
		gfx.Update(dev, func(st *gfx.RenderState) { st.Fog = fog })
	}

	var errs []error
	if s.config.Shadows {
		casters := s.shadowCasters()
		lights := make([]shadow.Light, len(casters))
		for i, idx := range casters {
			lights[i] = s.lights[idx]
		}
		for _, o := range s.objects {
			if o.ShadowCasting() {
				o.CalculateShadows(lights)
			}
		}
		if err := s.RenderShadows(); err != nil {
			errs = append(errs, err)
		}
	}

	for _, o := range s.objects {
		if o.Material.Opaque() {
			if err := o.Render(); err != nil {
				errs = append(errs, fmt.Errorf("rendering %s: %w", o.Name, err))
			}
		}
	}
	for _, o := range s.objects {
		if !o.Material.Opaque() {
			if err := o.RenderBlended(); err != nil {
				errs = append(errs, fmt.Errorf("rendering %s: %w", o.Name, err))
			}
		}
	}

	if s.config.Shadows {
		gfx.Update(dev, func(st *gfx.RenderState) {
			st.Stencil.Enabled = false
			st.Stencil.Func = gfx.CmpAlways
		})
	}
	if s.fog.Enabled {
		gfx.Update(dev, func(st *gfx.RenderState) { st.Fog.Enabled = false })
	}

	if s.config.LightHalos {
		for _, l := range s.lights {
			if l != nil {
				l.Draw(s.ctx, s.config.HaloSize)
			}
		}
	}

	return errors.Join(errs...)
}

// RenderShadows counts shadow volume crossings into the stencil buffer, one
// casting light at a time. Volumes come from the last CalculateShadows call
// on each object, indexed by the light's rank among the casters. On return
// the stencil test passes only where the count is zero.
func (s *Scene) RenderShadows() error {
	dev := s.ctx.Device
	var errs []error

	for rank, idx := range s.shadowCasters() {
		l := s.lights[idx]
		slot := s.slots[idx]

		// Baseline pass with the caster switched off.
		setBlend(dev, true)
		if slot >= 0 {
			dev.EnableLight(slot, false)
		}
		for _, o := range s.objects {
			if err := o.Render(); err != nil {
				errs = append(errs, fmt.Errorf("rendering %s: %w", o.Name, err))
			}
		}
		if slot >= 0 {
			dev.EnableLight(slot, true)
		}
		setBlend(dev, false)

		// Front faces increment.
		gfx.Update(dev, func(st *gfx.RenderState) {
			st.ZWrite = false
			st.ColorWrite = [4]bool{}
			st.Lighting = false
			st.Stencil = gfx.StencilState{
				Enabled: true,
				Func:    gfx.CmpAlways,
				Fail:    gfx.StencilKeep,
				ZFail:   gfx.StencilKeep,
				Pass:    gfx.StencilInc,
			}
		})
		errs = append(errs, s.drawVolumes(rank, l)...)

		// Back faces decrement.
		gfx.Update(dev, func(st *gfx.RenderState) {
			st.FrontFace = gfx.CounterClockwise
			st.Stencil.Pass = gfx.StencilDec
		})
		errs = append(errs, s.drawVolumes(rank, l)...)

		gfx.Update(dev, func(st *gfx.RenderState) {
			st.FrontFace = gfx.Clockwise
			st.Lighting = true
			st.ZWrite = true
			st.ColorWrite = [4]bool{true, true, true, true}
			st.Stencil.Pass = gfx.StencilKeep
			st.Stencil.Func = gfx.CmpEqual
			st.Stencil.Ref = 0
		})
	}

	return errors.Join(errs...)
}

// drawVolumes draws the object volumes for the caster of the given rank
// and the static volumes bound to l.
func (s *Scene) drawVolumes(rank int, l *lighting.Light) []error {
	dev := s.ctx.Device
	var errs []error

	for _, o := range s.objects {
		if !o.ShadowCasting() {
			continue
		}
		volume := o.ShadowVolume(rank)
		if volume == nil {
			continue
		}
		dev.SetTransform(gfx.TransformWorld, o.WorldTransform())
		if err := shadow.Draw(dev, volume); err != nil {
			errs = append(errs, fmt.Errorf("shadow volume of %s: %w", o.Name, err))
		}
	}

	dev.SetTransform(gfx.TransformWorld, math.Identity())
	for _, sv := range s.static {
		if sv.Light != l {
			continue
		}
		if err := shadow.Draw(dev, sv.Mesh); err != nil {
			errs = append(errs, fmt.Errorf("static shadow volume: %w", err))
		}
	}
	return errs
}

func setBlend(dev gfx.Device, on bool) {
	gfx.Update(dev, func(st *gfx.RenderState) {
		st.AlphaBlend = on
	})
}

// Release frees every object and static volume.
func (s *Scene) Release() {
	for _, o := range s.objects {
		o.Release()
	}
	for _, sv := range s.static {
		if sv.Mesh != nil {
			sv.Mesh.Release()
		}
	}
	s.objects = nil
	s.static = nil
}
