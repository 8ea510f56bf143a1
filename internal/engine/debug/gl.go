package debug

import (
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// ReadFramebuffer reads the back buffer of the current GL context.
func ReadFramebuffer(width, height int) (*image.RGBA, error) {
	pixels := make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return FromPixels(pixels, width, height)
}
