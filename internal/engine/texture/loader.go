package texture

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-g3d/internal/engine/material"
	"github.com/Faultbox/midgard-g3d/internal/logger"
)

// Uploader turns decoded images into GPU textures.
type Uploader interface {
	Upload(img *image.RGBA) (material.Texture, error)
}

// Loader loads textures relative to a directory, uploading each file once.
type Loader struct {
	Dir     string
	MaxSize int

	uploader Uploader
	loaded   map[string]material.Texture
}

// NewLoader returns a loader reading from dir.
func NewLoader(dir string, uploader Uploader) *Loader {
	return &Loader{
		Dir:      dir,
		uploader: uploader,
		loaded:   make(map[string]material.Texture),
	}
}

// Load returns the texture for the file name, loading it on first use.
// Its signature matches model.LoadOptions.Textures.
func (l *Loader) Load(name string) (material.Texture, error) {
	if tex, ok := l.loaded[name]; ok {
		return tex, nil
	}

	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(l.Dir, name)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading texture: %w", err)
	}
	img, err := Decode(data, name)
	if err != nil {
		return nil, err
	}
	img = Fit(img, l.MaxSize)

	tex, err := l.uploader.Upload(img)
	if err != nil {
		return nil, fmt.Errorf("uploading texture %s: %w", name, err)
	}
	l.loaded[name] = tex

	logger.Debug("texture loaded",
		zap.String("name", name),
		zap.Int("width", img.Rect.Dx()),
		zap.Int("height", img.Rect.Dy()))
	return tex, nil
}

// Len returns the number of loaded textures.
func (l *Loader) Len() int {
	return len(l.loaded)
}

// Dispose releases every loaded texture that can be disposed.
func (l *Loader) Dispose() {
	for name, tex := range l.loaded {
		if d, ok := tex.(interface{ Dispose() }); ok {
			d.Dispose()
		}
		delete(l.loaded, name)
	}
}
