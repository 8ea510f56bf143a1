package texture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-g3d/internal/engine/material"
)

// tga builds a TGA file with the given header fields and pixel payload.
func tga(imageType byte, width, height int, bpp byte, descriptor byte, payload []byte) []byte {
	h := make([]byte, tgaHeaderSize)
	h[2] = imageType
	h[12], h[13] = byte(width), byte(width>>8)
	h[14], h[15] = byte(height), byte(height>>8)
	h[16] = bpp
	h[17] = descriptor
	return append(h, payload...)
}

func TestDecodeTGAUncompressed(t *testing.T) {
	// Bottom-up 2x2, BGR: row 0 (bottom) red, green; row 1 (top) blue, white.
	payload := []byte{
		0, 0, 255, 0, 255, 0,
		255, 0, 0, 255, 255, 255,
	}
	img, err := DecodeTGA(tga(TGATypeUncompressed, 2, 2, 24, 0, payload))
	require.NoError(t, err)

	assert.Equal(t, color.RGBA{B: 255, A: 255}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, img.RGBAAt(1, 0))
	assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(0, 1))
	assert.Equal(t, color.RGBA{G: 255, A: 255}, img.RGBAAt(1, 1))
}

func TestDecodeTGARLE(t *testing.T) {
	// Top-down 3x1, 32 bpp: a run of two red pixels then one raw blue pixel.
	payload := []byte{
		0x81, 0, 0, 255, 128,
		0x00, 255, 0, 0, 255,
	}
	img, err := DecodeTGA(tga(TGATypeRLE, 3, 1, 32, 0x20, payload))
	require.NoError(t, err)

	assert.Equal(t, color.RGBA{R: 255, A: 128}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 255, A: 128}, img.RGBAAt(1, 0))
	assert.Equal(t, color.RGBA{B: 255, A: 255}, img.RGBAAt(2, 0))
}

func TestDecodeTGAErrors(t *testing.T) {
	colorMapped := tga(TGATypeUncompressed, 1, 1, 24, 0, []byte{0, 0, 0})
	colorMapped[1] = 1

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"short header", []byte{0, 0, 2}, ErrDecode},
		{"color mapped", colorMapped, ErrUnsupportedFormat},
		{"grayscale type", tga(3, 1, 1, 8, 0, []byte{0}), ErrUnsupportedFormat},
		{"16 bpp", tga(TGATypeUncompressed, 1, 1, 16, 0, []byte{0, 0}), ErrUnsupportedFormat},
		{"truncated pixels", tga(TGATypeUncompressed, 2, 2, 24, 0, []byte{1, 2, 3}), ErrDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeTGA(tt.data)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	img, err := Decode(encodePNG(t, 4, 2), "skin.png")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 2), img.Rect)

	_, err = Decode([]byte("not an image"), "skin.png")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Decode([]byte{0, 0}, "skin.TGA")
	assert.ErrorIs(t, err, ErrDecode)
}

func TestToRGBAOffsetsOrigin(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	src.SetRGBA(2, 2, color.RGBA{R: 9, A: 255})

	sub := src.SubImage(image.Rect(2, 2, 4, 4))
	rgba := ToRGBA(sub)
	assert.Equal(t, image.Rect(0, 0, 2, 2), rgba.Rect)
	assert.Equal(t, color.RGBA{R: 9, A: 255}, rgba.RGBAAt(0, 0))

	assert.Same(t, src, ToRGBA(src))
}

func TestFit(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 400, 100))

	assert.Same(t, img, Fit(img, 0))
	assert.Same(t, img, Fit(img, 512))
	assert.Equal(t, image.Rect(0, 0, 200, 50), Fit(img, 200).Rect)

	tall := image.NewRGBA(image.Rect(0, 0, 10, 1000))
	assert.Equal(t, image.Rect(0, 0, 1, 100), Fit(tall, 100).Rect)
}

type fakeUploader struct {
	uploads int
	err     error
}

type fakeTexture struct {
	handle   uint32
	disposed bool
}

func (f *fakeTexture) Handle() uint32 { return f.handle }
func (f *fakeTexture) Dispose()       { f.disposed = true }

func (u *fakeUploader) Upload(img *image.RGBA) (material.Texture, error) {
	if u.err != nil {
		return nil, u.err
	}
	u.uploads++
	return &fakeTexture{handle: uint32(u.uploads)}, nil
}

func TestLoader(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skin.png"), encodePNG(t, 8, 8), 0o644))

	up := &fakeUploader{}
	l := NewLoader(dir, up)

	a, err := l.Load("skin.png")
	require.NoError(t, err)
	b, err := l.Load("skin.png")
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, 1, up.uploads)
	assert.Equal(t, 1, l.Len())

	_, err = l.Load("missing.png")
	assert.Error(t, err)

	l.Dispose()
	assert.True(t, a.(*fakeTexture).disposed)
	assert.Equal(t, 0, l.Len())
}

func TestLoaderUploadError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skin.png"), encodePNG(t, 2, 2), 0o644))

	boom := errors.New("no context")
	l := NewLoader(dir, &fakeUploader{err: boom})
	_, err := l.Load("skin.png")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, l.Len())
}
