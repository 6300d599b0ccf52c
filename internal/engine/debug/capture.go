// Package debug captures rendered frames to disk.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Capture reads the w×h back buffer. The image is flipped vertically since
// OpenGL has origin at bottom-left.
func Capture(w, h int) *image.RGBA {
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadBuffer(gl.BACK)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	img, _ := FromPixels(pixels, w, h)
	return img
}

// FromPixels builds an image from bottom-up RGBA rows.
func FromPixels(pixels []byte, width, height int) (*image.RGBA, error) {
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		srcOffset := (height - 1 - y) * rowSize
		dstOffset := y * img.Stride
		copy(img.Pix[dstOffset:dstOffset+rowSize], pixels[srcOffset:srcOffset+rowSize])
	}
	return img, nil
}

// SavePNG writes img to dir as frame_<timestamp>.png and returns the path.
func SavePNG(img image.Image, dir string) (string, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := Filename(dir, time.Now())
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return filename, nil
}

// Filename returns the capture path for a frame taken at t.
func Filename(dir string, t time.Time) string {
	name := fmt.Sprintf("frame_%s.png", t.Format("2006-01-02_15-04-05.000"))
	if dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}
