package debug

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromPixelsFlipsRows(t *testing.T) {
	// 1x2: bottom row red, top row blue
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	img, err := FromPixels(pixels, 1, 2)
	require.NoError(t, err)

	assert.Equal(t, []byte{0, 0, 255, 255}, img.Pix[0:4])
	assert.Equal(t, []byte{255, 0, 0, 255}, img.Pix[4:8])
}

func TestFromPixelsSizeMismatch(t *testing.T) {
	_, err := FromPixels(make([]byte, 7), 1, 2)
	assert.Error(t, err)
}

func TestScreenshotsSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	s := NewScreenshots(dir, "robot")
	s.now = func() time.Time { return time.Date(2026, 3, 1, 12, 30, 5, 0, time.UTC) }

	assert.Equal(t, filepath.Join(dir, "robot_2026-03-01_12-30-05.000.png"), s.Filename())

	img, err := FromPixels([]byte{1, 2, 3, 255, 4, 5, 6, 255}, 2, 1)
	require.NoError(t, err)
	path, err := s.Save(img)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	decoded, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 2, decoded.Bounds().Dx())
	r, g, b, _ := decoded.At(1, 0).RGBA()
	assert.Equal(t, []uint32{4, 5, 6}, []uint32{r >> 8, g >> 8, b >> 8})
}
