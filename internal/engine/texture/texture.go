// Package texture decodes model texture images and uploads them to the GPU.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Texture errors.
var (
	ErrDecode            = errors.New("texture decode failed")
	ErrUnsupportedFormat = errors.New("unsupported texture format")
)

// Decode decodes an image file. The format is picked by the extension of
// name for TGA, which has no signature, and by content for everything else
// (PNG, JPEG, BMP, TIFF, WebP).
func Decode(data []byte, name string) (*image.RGBA, error) {
	if strings.EqualFold(filepath.Ext(name), ".tga") {
		return DecodeTGA(data)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, name, err)
	}
	return ToRGBA(img), nil
}

// ToRGBA converts img to a zero-origin *image.RGBA, returning it as is if it
// already is one.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Rect, img, b.Min, draw.Src)
	return rgba
}

// Fit downscales img so neither side exceeds maxSize, keeping the aspect
// ratio. maxSize <= 0 disables scaling.
func Fit(img *image.RGBA, maxSize int) *image.RGBA {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return img
	}

	if w >= h {
		h = max(1, h*maxSize/w)
		w = maxSize
	} else {
		w = max(1, w*maxSize/h)
		h = maxSize
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Rect, img, img.Rect, draw.Src, nil)
	return dst
}
