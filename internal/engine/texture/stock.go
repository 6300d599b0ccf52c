package texture

import (
	"image"

	"github.com/chewxy/math32"
)

// Stock texture names. They resolve without touching the file system.
const (
	StockBlob       = "STOCKTEX_BLOB"
	StockChessboard = "STOCKTEX_CHESSBOARD"
	StockGrid       = "STOCKTEX_GRID"
	StockBlofm      = "STOCKTEX_BLOFM"
)

// StockSize is the edge length of every stock texture.
const StockSize = 256

var stockGenerators = map[string]func() *image.RGBA{
	StockBlob:       Blob,
	StockChessboard: Chessboard,
	StockGrid:       Grid,
	StockBlofm:      Blofm,
}

// IsStock reports whether name is a stock texture.
func IsStock(name string) bool {
	_, ok := stockGenerators[name]
	return ok
}

// Stock generates the named stock image, or nil for an unknown name.
func Stock(name string) *image.RGBA {
	if gen, ok := stockGenerators[name]; ok {
		return gen()
	}
	return nil
}

// gray packs v into a byte, truncating.
func gray(v float32) uint8 {
	if v <= 0 || v != v {
		return 0
	}
	if v >= 1 {
		return 0xff
	}
	return uint8(v * 255)
}

func fill(fn func(x, y int) (v uint8, a uint8)) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, StockSize, StockSize))
	for y := 0; y < StockSize; y++ {
		for x := 0; x < StockSize; x++ {
			v, a := fn(x, y)
			i := img.PixOffset(x, y)
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = v, v, v, a
		}
	}
	return img
}

// Blob is a 1/d² falloff used by light halos. Every channel, alpha
// included, carries the intensity.
func Blob() *image.RGBA {
	const c = StockSize / 2
	return fill(func(x, y int) (uint8, uint8) {
		dx, dy := float32(x-c), float32(y-c)
		g := gray(100 / (dx*dx + dy*dy))
		return g, g
	})
}

// Chessboard splits the texture into four opaque quadrants, white where
// both offsets from the centre share a sign.
func Chessboard() *image.RGBA {
	const c = StockSize / 2
	return fill(func(x, y int) (uint8, uint8) {
		dx, dy := x-c, y-c
		if (dx > 0 && dy > 0) || (dx < 0 && dy < 0) {
			return 0xff, 0xff
		}
		return 0, 0xff
	})
}

// Grid is black with a one pixel white border, so it tiles into a grid.
func Grid() *image.RGBA {
	return fill(func(x, y int) (uint8, uint8) {
		if x == 0 || y == 0 || x == StockSize-1 || y == StockSize-1 {
			return 0xff, 0xff
		}
		return 0, 0xff
	})
}

// Blofm is a linear radial falloff reshaped by a bias curve.
func Blofm() *image.RGBA {
	const (
		c    = StockSize / 2
		bias = 0.3
	)
	return fill(func(x, y int) (uint8, uint8) {
		dx, dy := float32(x-c), float32(y-c)
		dist := math32.Sqrt(dx*dx + dy*dy)
		p := float32(1)
		if dist != 0 {
			f := (StockSize - dist) / StockSize
			p = f / ((1/bias-2)*(1-f) + 1)
		}
		g := gray(p)
		return g, g
	})
}
