// Package input maps SDL2 events to demo player controls.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// Action is a player control.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionPause
	ActionScreenshot
	ActionResize
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionQuit:
		return "quit"
	case ActionPause:
		return "pause"
	case ActionScreenshot:
		return "screenshot"
	case ActionResize:
		return "resize"
	default:
		return "none"
	}
}

// Event is a processed input event.
type Event struct {
	Action Action
	Width  int
	Height int
}

// Bindings maps key scancodes to actions.
type Bindings map[sdl.Scancode]Action

// DefaultBindings are Esc to quit, Space to pause and F12 to capture a frame.
func DefaultBindings() Bindings {
	return Bindings{
		sdl.SCANCODE_ESCAPE: ActionQuit,
		sdl.SCANCODE_SPACE:  ActionPause,
		sdl.SCANCODE_F12:    ActionScreenshot,
	}
}

// Input pumps the SDL event queue.
type Input struct {
	bindings Bindings
	events   []Event
}

// New creates an input handler with the default bindings.
func New() *Input {
	return &Input{
		bindings: DefaultBindings(),
		events:   make([]Event, 0, 16),
	}
}

// Bind maps key to action, replacing any previous binding.
func (i *Input) Bind(key sdl.Scancode, action Action) {
	i.bindings[key] = action
}

// Update polls SDL events and translates them.
// Returns true if the player should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	quit := false

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		ev, ok := i.translate(event)
		if !ok {
			continue
		}
		i.events = append(i.events, ev)
		if ev.Action == ActionQuit {
			quit = true
		}
	}

	return quit
}

// translate maps one SDL event. Key repeats are ignored so that holding
// Space does not toggle pause every frame.
func (i *Input) translate(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Action: ActionQuit}, true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED {
			return Event{
				Action: ActionResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			}, true
		}

	case *sdl.KeyboardEvent:
		if e.Type != sdl.KEYDOWN || e.Repeat != 0 {
			return Event{}, false
		}
		if a, ok := i.bindings[e.Keysym.Scancode]; ok && a != ActionNone {
			return Event{Action: a}, true
		}
	}
	return Event{}, false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// Triggered reports whether action fired during the last Update.
func (i *Input) Triggered(action Action) bool {
	for _, e := range i.events {
		if e.Action == action {
			return true
		}
	}
	return false
}
