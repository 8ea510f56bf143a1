package texture

import (
	"errors"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/midgard-g3d/internal/engine/material"
)

// GLTexture is a 2D texture on the GPU.
type GLTexture struct {
	id            uint32
	Width, Height int
}

// Handle implements material.Texture.
func (t *GLTexture) Handle() uint32 {
	return t.id
}

// Dispose deletes the GPU texture.
func (t *GLTexture) Dispose() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

// GLUploader uploads images as mipmapped, repeating textures.
type GLUploader struct {
	// Anisotropy is the max anisotropic filtering level; 0 disables it.
	Anisotropy float32
}

// Upload implements Uploader.
func (u GLUploader) Upload(img *image.RGBA) (material.Texture, error) {
	t := &GLTexture{Width: img.Rect.Dx(), Height: img.Rect.Dy()}
	if t.Width == 0 || t.Height == 0 {
		return nil, errors.New("empty image")
	}

	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(t.Width), int32(t.Height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	if u.Anisotropy > 0 {
		gl.TexParameterf(gl.TEXTURE_2D, gl.TEXTURE_MAX_ANISOTROPY, u.Anisotropy)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return t, nil
}
