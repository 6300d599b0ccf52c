package demo

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/nucleus3d/internal/logger"
)

var (
	ErrUnknownPart   = errors.New("unknown part")
	ErrDuplicatePart = errors.New("duplicate part name")
	ErrInvalidTiming = errors.New("part ends before it starts")
	ErrNotStopped    = errors.New("timeline is running")
)

// State is the timeline playback state.
type State int

const (
	Stopped State = iota
	Running
	Paused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// Timeline launches parts when the clock enters their window, calls Frame
// while they are inside it and stops them once it has passed. Timings may
// be changed while running; the new windows apply from the next Update.
type Timeline struct {
	mu  sync.Mutex
	log *zap.Logger

	clock   *Clock
	parts   []Part
	pending []Part
	active  []Part
	state   State
}

// NewTimeline returns a stopped timeline driven by clock.
func NewTimeline(clock *Clock) *Timeline {
	return &Timeline{
		clock: clock,
		log:   logger.Named("demo"),
	}
}

// AddPart registers p active over [start, end) ms. Parts can only be added
// while stopped.
func (tl *Timeline) AddPart(p Part, start, end int64) error {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return tl.add(p, Timing{Start: start, End: end})
}

// AddPartRelative registers p starting offset ms after the end of the most
// recently added part and lasting duration ms.
func (tl *Timeline) AddPartRelative(p Part, offset, duration int64) error {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	var base int64
	if n := len(tl.parts); n > 0 {
		base = tl.parts[n-1].Timing().End
	}
	start := base + offset
	return tl.add(p, Timing{Start: start, End: start + duration})
}

func (tl *Timeline) add(p Part, t Timing) error {
	if tl.state != Stopped {
		return ErrNotStopped
	}
	if t.End < t.Start {
		return fmt.Errorf("%s: %w", p.Name(), ErrInvalidTiming)
	}
	if tl.find(p.Name()) != nil {
		return fmt.Errorf("%s: %w", p.Name(), ErrDuplicatePart)
	}
	p.SetTiming(t)
	tl.parts = append(tl.parts, p)
	return nil
}

func (tl *Timeline) find(name string) Part {
	for _, p := range tl.parts {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// Part returns the part registered as name, or nil.
func (tl *Timeline) Part(name string) Part {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return tl.find(name)
}

// Parts returns the registered parts in insertion order.
func (tl *Timeline) Parts() []Part {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return append([]Part(nil), tl.parts...)
}

// SetTimings retimes the named parts together. Nothing changes if any name
// is unknown or any window is inverted.
func (tl *Timeline) SetTimings(timings map[string]Timing) error {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	for name, t := range timings {
		if tl.find(name) == nil {
			return fmt.Errorf("%s: %w", name, ErrUnknownPart)
		}
		if t.End < t.Start {
			return fmt.Errorf("%s: %w", name, ErrInvalidTiming)
		}
	}
	for name, t := range timings {
		tl.find(name).SetTiming(t)
	}
	return nil
}

// Run starts the demo from the beginning.
func (tl *Timeline) Run() {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	if tl.state != Stopped {
		return
	}
	tl.pending = append(tl.pending[:0], tl.parts...)
	tl.active = tl.active[:0]
	tl.clock.Start()
	tl.state = Running
	tl.log.Info("demo started", zap.Int("parts", len(tl.parts)))
}

// Pause freezes the clock and with it every running part.
func (tl *Timeline) Pause() {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	if tl.state != Running {
		return
	}
	tl.clock.Pause()
	tl.state = Paused
}

// Resume continues a paused demo.
func (tl *Timeline) Resume() {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	if tl.state != Paused {
		return
	}
	tl.clock.Resume()
	tl.state = Running
}

// Stop shuts down the running parts and rewinds the timeline.
func (tl *Timeline) Stop() {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	if tl.state == Stopped {
		return
	}
	for _, p := range tl.active {
		p.Stop()
	}
	tl.active = tl.active[:0]
	tl.pending = tl.pending[:0]
	tl.clock.Stop()
	tl.state = Stopped
	tl.log.Info("demo stopped")
}

// State returns the playback state.
func (tl *Timeline) State() State {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return tl.state
}

// Elapsed returns the timeline time in ms.
func (tl *Timeline) Elapsed() int64 {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return tl.clock.Elapsed()
}

// Active returns the running parts in launch order.
func (tl *Timeline) Active() []Part {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return append([]Part(nil), tl.active...)
}

// Done reports whether every part has run to its end.
func (tl *Timeline) Done() bool {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return tl.state != Stopped && len(tl.pending) == 0 && len(tl.active) == 0
}

// Update launches parts whose start has been reached, stops parts whose end
// has passed and renders a frame of every part still active. Frame errors
// do not stop the demo; they are joined and returned.
func (tl *Timeline) Update() error {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	if tl.state != Running {
		return nil
	}
	now := tl.clock.Elapsed()

	waiting := tl.pending[:0]
	for _, p := range tl.pending {
		t := p.Timing()
		if now < t.Start {
			waiting = append(waiting, p)
			continue
		}
		p.Start(tl.clock.ChildFrom(t.Start))
		tl.active = append(tl.active, p)
		tl.log.Info("part started",
			zap.String("part", p.Name()),
			zap.Int64("at", now),
		)
	}
	tl.pending = waiting

	var errs []error
	running := tl.active[:0]
	for _, p := range tl.active {
		t := p.Timing()
		if now >= t.End {
			p.Stop()
			tl.log.Info("part finished",
				zap.String("part", p.Name()),
				zap.Int64("at", now),
			)
			continue
		}
		running = append(running, p)
		if err := p.Frame(now - t.Start); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		}
	}
	tl.active = running

	return errors.Join(errs...)
}
