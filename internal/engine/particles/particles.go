// Package particles implements a CPU simulated particle emitter drawn as
// camera facing textured quads, or as copies of a mesh object.
package particles

import (
	"fmt"
	"math/rand/v2"

	"github.com/Faultbox/nucleus3d/internal/engine/gfx"
	"github.com/Faultbox/nucleus3d/internal/engine/object"
	"github.com/Faultbox/nucleus3d/pkg/math"
)

// maxBatch is the largest particle count one DrawUser call can index.
const maxBatch = 0x10000 / 4

var quadCorners = [4]struct{ x, y, u, v float32 }{
	{-0.5, 0.5, 0, 0},
	{0.5, 0.5, 1, 0},
	{0.5, -0.5, 1, 1},
	{-0.5, -0.5, 0, 1},
}

// Particle is one simulated point. Life is the number of ticks it was
// spawned with and Left the ticks it still has.
type Particle struct {
	Pos  math.Vec3
	Vel  math.Vec3
	Life int
	Left int
}

// Alive reports whether the particle has ticks left.
func (p *Particle) Alive() bool { return p.Left > 0 }

// Age returns how far through its life the particle is, 0 at spawn and 1
// at death.
func (p *Particle) Age() float32 {
	if p.Life <= 0 {
		return 1
	}
	return 1 - float32(p.Left)/float32(p.Life)
}

// Update advances the particle one tick: friction scales the velocity,
// then velocity and forces move it.
func (p *Particle) Update(forces math.Vec3, friction float32) {
	if p.Left <= 0 {
		return
	}
	p.Vel = p.Vel.Scale(1 - friction)
	p.Pos = p.Pos.Add(p.Vel).Add(forces)
	p.Left--
}

// Config describes an emitter. Distances are world units per tick.
type Config struct {
	Position math.Vec3
	// Shoot is the initial velocity of every particle.
	Shoot math.Vec3
	// Dispersion is the largest random rotation, in radians, applied to
	// Shoot around each axis.
	Dispersion float32
	// Jitter adds a random velocity of this length to each spawn.
	Jitter float32
	// FollowEmitter adds the emitter's own movement to Shoot.
	FollowEmitter bool

	SpawnRate   int
	SpawnChange int // added to SpawnRate after every tick
	SpawnRadius float32
	Life        int // ticks

	Gravity  float32
	Friction float32

	Size    float32
	EndSize float32 // 0 keeps Size for the whole life

	StartColor math.Color
	EndColor   math.Color

	SrcBlend gfx.BlendFactor
	DstBlend gfx.BlendFactor
	Texture  string

	// TickRate is the number of simulation ticks per second.
	TickRate float32
	Seed     uint64
}

// DefaultConfig returns an additive white-to-black emitter.
func DefaultConfig() Config {
	return Config{
		Dispersion: 0.01,
		SpawnRate:  5,
		Life:       100,
		Size:       1,
		StartColor: math.Gray(1),
		EndColor:   math.Color{A: 1},
		SrcBlend:   gfx.BlendOne,
		DstBlend:   gfx.BlendOne,
		TickRate:   30,
	}
}

// System is a particle emitter.
type System struct {
	Config

	ctx     *gfx.Context
	tex     gfx.Texture
	obj     *object.Object
	rng     *rand.Rand
	prevPos math.Vec3

	particles []Particle
	last      float32
	started   bool

	verts   []gfx.Vertex
	indices []uint16
}

// New creates an emitter drawing through ctx. The texture named in cfg is
// resolved once here.
func New(ctx *gfx.Context, cfg Config) *System {
	if cfg.TickRate <= 0 {
		cfg.TickRate = DefaultConfig().TickRate
	}
	s := &System{
		Config:  cfg,
		ctx:     ctx,
		rng:     rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		prevPos: cfg.Position,
	}
	if cfg.Texture != "" {
		s.tex = ctx.LoadTexture(cfg.Texture)
	}
	return s
}

// SetObject draws o at every particle instead of a quad. Nil restores quads.
func (s *System) SetObject(o *object.Object) { s.obj = o }

// SetPosition moves the emitter.
func (s *System) SetPosition(p math.Vec3) { s.Position = p }

// Particles returns the live particles. The slice is reused by Update.
func (s *System) Particles() []Particle { return s.particles }

// Count returns the number of particles.
func (s *System) Count() int { return len(s.particles) }

// Reset removes every particle and restarts the tick clock.
func (s *System) Reset() {
	s.particles = s.particles[:0]
	s.started = false
	s.prevPos = s.Position
}

// Update runs one simulation tick when at least 1/TickRate seconds have
// passed since the last one. t is in seconds; going back in time restarts
// the tick clock.
func (s *System) Update(t float32) {
	if s.started && t >= s.last && t-s.last < 1/s.TickRate {
		return
	}
	s.started = true
	s.last = t
	s.Tick()
}

// Tick drops dead particles, spawns new ones and moves them all.
func (s *System) Tick() {
	live := s.particles[:0]
	for _, p := range s.particles {
		if p.Alive() {
			live = append(live, p)
		}
	}
	s.particles = live

	shoot := s.Shoot
	if s.FollowEmitter {
		shoot = shoot.Add(s.Position.Sub(s.prevPos).Scale(0.1))
	}
	s.prevPos = s.Position

	for i := 0; i < s.SpawnRate; i++ {
		s.particles = append(s.particles, s.spawn(shoot))
	}

	forces := math.Vec3{Y: -s.Gravity}
	for i := range s.particles {
		s.particles[i].Update(forces, s.Friction)
	}

	s.SpawnRate += s.SpawnChange
	if s.SpawnRate < 0 {
		s.SpawnRate = 0
	}
}

func (s *System) spawn(shoot math.Vec3) Particle {
	d := s.Dispersion
	rot := math.RotateEuler(s.spread(d), s.spread(d), s.spread(d))
	vel := rot.TransformDirection(shoot)
	if s.Jitter > 0 {
		j := math.Vec3{X: s.spread(1), Y: s.spread(1), Z: s.spread(1)}.Normalize()
		vel = vel.Add(j.Scale(s.Jitter))
	}

	r := s.SpawnRadius
	pos := s.Position.Add(math.Vec3{X: s.spread(r), Y: s.spread(r), Z: s.spread(r)})
	return Particle{Pos: pos, Vel: vel, Life: s.Life, Left: s.Life}
}

// spread returns a uniform value in [-w/2, w/2).
func (s *System) spread(w float32) float32 {
	if w == 0 {
		return 0
	}
	return (s.rng.Float32() - 0.5) * w
}

// Color returns the fade colour for a particle of the given age.
func (s *System) Color(age float32) math.Color {
	a, b := s.StartColor, s.EndColor
	return math.Color{
		R: a.R + (b.R-a.R)*age,
		G: a.G + (b.G-a.G)*age,
		B: a.B + (b.B-a.B)*age,
		A: a.A + (b.A-a.A)*age,
	}
}

// SizeAt returns the quad size for a particle of the given age.
func (s *System) SizeAt(age float32) float32 {
	if s.EndSize <= 0 {
		return s.Size
	}
	return s.Size + (s.EndSize-s.Size)*age
}

// Render draws the particles. Quads face the camera of the current view
// matrix; the device state is left as it was found.
func (s *System) Render() error {
	if len(s.particles) == 0 {
		return nil
	}
	if s.obj != nil {
		return s.renderObjects()
	}

	ctx := s.ctx
	guard := gfx.Save(ctx)
	defer guard.Restore()

	ctx.SetTransform(gfx.TransformWorld, math.Identity())
	ctx.SetTexture(0, s.tex)
	ctx.SetTextureStage(0, gfx.StageState{
		ColorOp:   gfx.TexOpModulate,
		ColorArg1: gfx.TexArgCurrent,
		ColorArg2: gfx.TexArgTexture,
		AlphaOp:   gfx.TexOpModulate,
		AlphaArg1: gfx.TexArgCurrent,
		AlphaArg2: gfx.TexArgTexture,
	})
	ctx.SetTexture(1, nil)
	ctx.SetTextureStage(1, gfx.DisabledStage())
	gfx.Update(ctx, func(st *gfx.RenderState) {
		st.AlphaBlend = true
		st.SrcBlend = s.SrcBlend
		st.DstBlend = s.DstBlend
		st.ColorVertex = true
		st.Lighting = false
		st.ZWrite = false
	})

	view := ctx.Transform(gfx.TransformView)
	right := math.Vec3{X: view[0], Y: view[4], Z: view[8]}
	up := math.Vec3{X: view[1], Y: view[5], Z: view[9]}

	for start := 0; start < len(s.particles); start += maxBatch {
		end := min(start+maxBatch, len(s.particles))
		s.buildQuads(s.particles[start:end], right, up)
		ctx.DrawUser(s.verts, s.indices)
	}

	ctx.SetTexture(0, nil)
	return nil
}

func (s *System) buildQuads(ps []Particle, right, up math.Vec3) {
	s.verts = s.verts[:0]
	s.indices = s.indices[:0]
	for i := range ps {
		p := &ps[i]
		age := p.Age()
		size := s.SizeAt(age)
		color := s.Color(age).Packed()
		base := uint16(len(s.verts))
		for _, c := range quadCorners {
			pos := p.Pos.Add(right.Scale(c.x * size)).Add(up.Scale(c.y * size))
			v := gfx.NewVertex(pos, c.u, c.v, color)
			v.Normal = math.Vec3{Z: -1}
			s.verts = append(s.verts, v)
		}
		s.indices = append(s.indices, base, base+1, base+2, base, base+2, base+3)
	}
}

func (s *System) renderObjects() error {
	for i := range s.particles {
		p := s.particles[i].Pos
		s.obj.SetTranslation(p.X, p.Y, p.Z)
		if err := s.obj.Render(); err != nil {
			return fmt.Errorf("rendering particle %d: %w", i, err)
		}
	}
	return nil
}
