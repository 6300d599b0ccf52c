package input

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func key(code sdl.Scancode, typ uint32, repeat uint8) *sdl.KeyboardEvent {
	return &sdl.KeyboardEvent{
		Type:   typ,
		Repeat: repeat,
		Keysym: sdl.Keysym{Scancode: code},
	}
}

func TestTranslate(t *testing.T) {
	in := New()

	tests := []struct {
		name  string
		event sdl.Event
		want  Action
		ok    bool
	}{
		{"quit event", &sdl.QuitEvent{Type: sdl.QUIT}, ActionQuit, true},
		{"escape", key(sdl.SCANCODE_ESCAPE, sdl.KEYDOWN, 0), ActionQuit, true},
		{"space", key(sdl.SCANCODE_SPACE, sdl.KEYDOWN, 0), ActionPause, true},
		{"f12", key(sdl.SCANCODE_F12, sdl.KEYDOWN, 0), ActionScreenshot, true},
		{"space repeat", key(sdl.SCANCODE_SPACE, sdl.KEYDOWN, 1), ActionNone, false},
		{"space release", key(sdl.SCANCODE_SPACE, sdl.KEYUP, 0), ActionNone, false},
		{"unbound key", key(sdl.SCANCODE_A, sdl.KEYDOWN, 0), ActionNone, false},
		{"mouse", &sdl.MouseMotionEvent{Type: sdl.MOUSEMOTION}, ActionNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := in.translate(tt.event)
			if ok != tt.ok || got.Action != tt.want {
				t.Errorf("translate: got (%v, %v), want (%v, %v)", got.Action, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestTranslateResize(t *testing.T) {
	in := New()
	got, ok := in.translate(&sdl.WindowEvent{
		Type:  sdl.WINDOWEVENT,
		Event: sdl.WINDOWEVENT_RESIZED,
		Data1: 1280,
		Data2: 720,
	})
	if !ok || got.Action != ActionResize {
		t.Fatalf("translate: got (%v, %v), want resize", got.Action, ok)
	}
	if got.Width != 1280 || got.Height != 720 {
		t.Errorf("size: got %dx%d, want 1280x720", got.Width, got.Height)
	}
}

func TestBind(t *testing.T) {
	in := New()
	in.Bind(sdl.SCANCODE_Q, ActionQuit)
	in.Bind(sdl.SCANCODE_ESCAPE, ActionNone)

	if got, ok := in.translate(key(sdl.SCANCODE_Q, sdl.KEYDOWN, 0)); !ok || got.Action != ActionQuit {
		t.Errorf("q: got (%v, %v), want quit", got.Action, ok)
	}
	if _, ok := in.translate(key(sdl.SCANCODE_ESCAPE, sdl.KEYDOWN, 0)); ok {
		t.Error("escape: unbound action should be ignored")
	}
}

func TestTriggered(t *testing.T) {
	in := New()
	in.events = append(in.events, Event{Action: ActionPause})

	if !in.Triggered(ActionPause) {
		t.Error("Triggered(pause): got false, want true")
	}
	if in.Triggered(ActionScreenshot) {
		t.Error("Triggered(screenshot): got true, want false")
	}
}
