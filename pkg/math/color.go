package math

// Color is a floating point RGBA colour.
type Color struct {
	R, G, B, A float32
}

// Gray returns an opaque colour with every channel set to v.
func Gray(v float32) Color {
	return Color{v, v, v, 1}
}

// RGB returns an opaque colour.
func RGB(r, g, b float32) Color {
	return Color{r, g, b, 1}
}

// Scale multiplies the colour channels by s, leaving alpha untouched.
func (c Color) Scale(s float32) Color {
	return Color{c.R * s, c.G * s, c.B * s, c.A}
}

// Packed returns the colour as 0xAARRGGBB with channels clamped to [0,1].
func (c Color) Packed() uint32 {
	return uint32(channel(c.A))<<24 | uint32(channel(c.R))<<16 | uint32(channel(c.G))<<8 | uint32(channel(c.B))
}

// Unpack converts 0xAARRGGBB back into a Color.
func Unpack(argb uint32) Color {
	return Color{
		R: float32(argb>>16&0xff) / 255,
		G: float32(argb>>8&0xff) / 255,
		B: float32(argb&0xff) / 255,
		A: float32(argb>>24) / 255,
	}
}

func channel(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
