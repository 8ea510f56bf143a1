package texture

import (
	"fmt"
	"image"
	"image/color"
)

// TGA image types.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

const tgaHeaderSize = 18

// DecodeTGA decodes an uncompressed or RLE compressed true-color TGA image
// with 24 or 32 bits per pixel.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	if len(data) < tgaHeaderSize {
		return nil, fmt.Errorf("%w: TGA header truncated", ErrDecode)
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := int(data[2])
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topToBottom := data[17]&0x20 != 0

	switch {
	case colorMapType != 0:
		return nil, fmt.Errorf("%w: color-mapped TGA", ErrUnsupportedFormat)
	case imageType != TGATypeUncompressed && imageType != TGATypeRLE:
		return nil, fmt.Errorf("%w: TGA type %d", ErrUnsupportedFormat, imageType)
	case bpp != 24 && bpp != 32:
		return nil, fmt.Errorf("%w: TGA bit depth %d", ErrUnsupportedFormat, bpp)
	}

	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("%w: TGA id field truncated", ErrDecode)
	}

	d := tgaDecoder{
		img:         image.NewRGBA(image.Rect(0, 0, width, height)),
		src:         data[offset:],
		width:       width,
		height:      height,
		stride:      bpp / 8,
		topToBottom: topToBottom,
	}
	if imageType == TGATypeUncompressed {
		if len(d.src) < width*height*d.stride {
			return nil, fmt.Errorf("%w: TGA pixel data truncated", ErrDecode)
		}
		for i := 0; i < width*height; i++ {
			d.set(i, d.read())
		}
	} else {
		d.decodeRLE()
	}
	return d.img, nil
}

type tgaDecoder struct {
	img           *image.RGBA
	src           []byte
	pos           int
	width, height int
	stride        int
	topToBottom   bool
}

// read returns the BGR(A) pixel at the read position and advances past it.
func (d *tgaDecoder) read() color.RGBA {
	p := d.src[d.pos : d.pos+d.stride]
	d.pos += d.stride
	c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if d.stride == 4 {
		c.A = p[3]
	}
	return c
}

func (d *tgaDecoder) available() bool {
	return d.pos+d.stride <= len(d.src)
}

// set writes pixel i in file order. Rows are stored bottom-up unless the
// descriptor says otherwise.
func (d *tgaDecoder) set(i int, c color.RGBA) {
	x, y := i%d.width, i/d.width
	if !d.topToBottom {
		y = d.height - 1 - y
	}
	d.img.SetRGBA(x, y, c)
}

// decodeRLE decodes run-length packets. Truncated data leaves the remaining
// pixels transparent.
func (d *tgaDecoder) decodeRLE() {
	total := d.width * d.height
	i := 0
	for i < total && d.pos < len(d.src) {
		packet := d.src[d.pos]
		d.pos++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			if !d.available() {
				return
			}
			c := d.read()
			for ; count > 0 && i < total; count-- {
				d.set(i, c)
				i++
			}
			continue
		}

		for ; count > 0 && i < total; count-- {
			if !d.available() {
				return
			}
			d.set(i, d.read())
			i++
		}
	}
}
