package math

import (
	"testing"
)

func TestVec2Add(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}
	got := a.Add(b)
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
}

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	got := v.Length()
	want := float32(5)
	if got != want {
		t.Errorf("Vec2.Length() = %v, want %v", got, want)
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := Vec3{3, 0, 4}.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("zero vector should normalize to zero")
	}
}

func TestVec3Lerp(t *testing.T) {
	got := Vec3{0, 0, 0}.Lerp(Vec3{10, -10, 2}, 0.5)
	want := Vec3{5, -5, 1}
	if got != want {
		t.Errorf("Vec3.Lerp() = %v, want %v", got, want)
	}
}

func TestColorPacked(t *testing.T) {
	tests := []struct {
		c    Color
		want uint32
	}{
		{Color{1, 1, 1, 1}, 0xffffffff},
		{Color{1, 0, 0, 1}, 0xffff0000},
		{Color{0, 0, 0, 0}, 0x00000000},
		{Color{2, -1, 0.5, 1}, 0xffff0080},
	}

	for _, tt := range tests {
		if got := tt.c.Packed(); got != tt.want {
			t.Errorf("Color%v.Packed() = %#08x, want %#08x", tt.c, got, tt.want)
		}
	}
}

func TestColorUnpack(t *testing.T) {
	c := Unpack(0xff00ff00)
	if c != (Color{0, 1, 0, 1}) {
		t.Errorf("Unpack() = %v, want green", c)
	}
}
