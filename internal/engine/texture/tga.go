// Package texture decodes images, generates the stock textures and caches
// device textures by name.
package texture

import (
	"errors"
	"fmt"
	"image"
)

// TGA image types handled by DecodeTGA.
const (
	TGATypeUncompressed = 2
	TGATypeRLE          = 10
)

var (
	ErrTGATruncated   = errors.New("truncated TGA data")
	ErrTGAUnsupported = errors.New("unsupported TGA variant")
)

// DecodeTGA decodes uncompressed and RLE true-colour TGA files with 24 or 32
// bits per pixel.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	if len(data) < 18 {
		return nil, ErrTGATruncated
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := int(data[2])
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topDown := data[17]&0x20 != 0

	if colorMapType != 0 {
		return nil, fmt.Errorf("%w: colour-mapped", ErrTGAUnsupported)
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, fmt.Errorf("%w: type %d", ErrTGAUnsupported, imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("%w: %d bpp", ErrTGAUnsupported, bpp)
	}

	offset := 18 + idLength
	if offset > len(data) {
		return nil, ErrTGATruncated
	}

	d := tgaDecoder{
		img:     image.NewRGBA(image.Rect(0, 0, width, height)),
		src:     data[offset:],
		bytesPP: bpp / 8,
		topDown: topDown,
	}

	if imageType == TGATypeUncompressed {
		if len(d.src) < width*height*d.bytesPP {
			return nil, ErrTGATruncated
		}
		for d.n < width*height {
			d.put(d.pixel())
		}
		return d.img, nil
	}

	for d.n < width*height {
		if d.pos >= len(d.src) {
			return nil, ErrTGATruncated
		}
		packet := d.src[d.pos]
		d.pos++
		count := int(packet&0x7f) + 1

		if packet&0x80 != 0 {
			if d.pos+d.bytesPP > len(d.src) {
				return nil, ErrTGATruncated
			}
			px := d.pixel()
			for i := 0; i < count && d.n < width*height; i++ {
				d.put(px)
			}
			continue
		}
		for i := 0; i < count && d.n < width*height; i++ {
			if d.pos+d.bytesPP > len(d.src) {
				return nil, ErrTGATruncated
			}
			d.put(d.pixel())
		}
	}
	return d.img, nil
}

type tgaDecoder struct {
	img     *image.RGBA
	src     []byte
	pos     int
	n       int
	bytesPP int
	topDown bool
}

// pixel reads one BGR(A) pixel and returns it as RGBA.
func (d *tgaDecoder) pixel() [4]byte {
	p := d.src[d.pos:]
	px := [4]byte{p[2], p[1], p[0], 0xff}
	if d.bytesPP == 4 {
		px[3] = p[3]
	}
	d.pos += d.bytesPP
	return px
}

// put stores px at the next pixel in file order.
func (d *tgaDecoder) put(px [4]byte) {
	w := d.img.Rect.Dx()
	h := d.img.Rect.Dy()
	x, y := d.n%w, d.n/w
	if !d.topDown {
		y = h - 1 - y
	}
	copy(d.img.Pix[d.img.PixOffset(x, y):], px[:])
	d.n++
}
