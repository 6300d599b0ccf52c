// Package demo sequences demo parts on a shared clock.
package demo

import (
	"github.com/Faultbox/nucleus3d/internal/engine/scene"
)

// Timing is a part's active window on the timeline, in milliseconds.
type Timing struct {
	Start int64
	End   int64
}

// Duration returns End - Start.
func (t Timing) Duration() int64 { return t.End - t.Start }

// Contains reports whether timeline time ms falls inside [Start, End).
func (t Timing) Contains(ms int64) bool { return ms >= t.Start && ms < t.End }

// Part is one segment of the demo.
type Part interface {
	Name() string
	Timing() Timing
	SetTiming(Timing)

	// Start is called when the timeline reaches the part's start. clock
	// reads part-local time and freezes with the timeline.
	Start(clock *Clock)
	// Stop is called once the part's end has passed or the demo stops.
	Stop()
	// Frame renders one frame at part-local time t.
	Frame(t int64) error
}

// BasePart carries the bookkeeping shared by every part. Embed it and
// implement Frame.
type BasePart struct {
	name   string
	timing Timing
	clock  *Clock

	Scene *scene.Scene
}

// NewBasePart returns a part base named name rendering sc.
func NewBasePart(name string, sc *scene.Scene) BasePart {
	return BasePart{name: name, Scene: sc}
}

func (b *BasePart) Name() string       { return b.name }
func (b *BasePart) Timing() Timing     { return b.timing }
func (b *BasePart) SetTiming(t Timing) { b.timing = t }
func (b *BasePart) Start(clock *Clock) { b.clock = clock }
func (b *BasePart) Stop()              { b.clock = nil }
func (b *BasePart) Clock() *Clock      { return b.clock }
func (b *BasePart) Active() bool       { return b.clock != nil }

// Release frees the part's scene.
func (b *BasePart) Release() {
	if b.Scene != nil {
		b.Scene.Release()
	}
}

// TimePosition returns the part-local time, or 0 when the part is not running.
func (b *BasePart) TimePosition() int64 {
	if b.clock == nil {
		return 0
	}
	return b.clock.Elapsed()
}

// ParametricPosition maps timeline time t to [0,1] across the part window.
func (b *BasePart) ParametricPosition(t int64) float32 {
	d := b.timing.Duration()
	if d <= 0 {
		if t >= b.timing.Start {
			return 1
		}
		return 0
	}
	p := float32(t-b.timing.Start) / float32(d)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Progress is the parametric position at the part's current local time.
func (b *BasePart) Progress() float32 {
	return b.ParametricPosition(b.timing.Start + b.TimePosition())
}
