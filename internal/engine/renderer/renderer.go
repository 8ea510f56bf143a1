// Package renderer draws model instances with OpenGL.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-g3d/internal/engine/material"
	"github.com/Faultbox/midgard-g3d/internal/engine/model"
	"github.com/Faultbox/midgard-g3d/internal/engine/shader"
	"github.com/Faultbox/midgard-g3d/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	ClearColor [4]float32
}

// Device issues the state changes and draw calls of the draw loop.
type Device interface {
	// SetBlend enables blending with the attribute's factors, or disables
	// it for nil.
	SetBlend(blend *material.BlendAttr)
	DrawPart(part *model.MeshPart) error
	// Release frees whatever the device holds for mesh.
	Release(mesh *model.Mesh)
}

// Stats counts the views handled by the last Draw.
type Stats struct {
	Drawn   int
	Skipped int
}

// Renderer draws instances through a shader variant cache.
type Renderer struct {
	config Config
	cache  *shader.Cache
	device Device

	views   []model.View
	blended []model.View
}

// New initializes OpenGL and creates a renderer drawing with variants from cache.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config, cache *shader.Cache) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	c := cfg.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	return newRenderer(cfg, cache, newGLDevice()), nil
}

func newRenderer(cfg Config, cache *shader.Cache, device Device) *Renderer {
	return &Renderer{config: cfg, cache: cache, device: device}
}

// Close releases GPU meshes and cached shader variants.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	r.cache.Dispose()
	if d, ok := r.device.(interface{ Dispose() }); ok {
		d.Dispose()
	}
}

// Release frees the GPU buffers of every mesh of m. Instances of m must not
// be drawn afterwards unless the meshes may be uploaded again.
func (r *Renderer) Release(m *model.Model) {
	for _, mesh := range m.Meshes {
		r.device.Release(mesh)
	}
	logger.Debug("model released", zap.String("model", m.ID), zap.Int("meshes", len(m.Meshes)))
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the framebuffer size.
func (r *Renderer) Size() (width, height int) {
	return r.config.Width, r.config.Height
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// End finishes the current frame.
func (r *Renderer) End() {
	r.device.SetBlend(nil)
}

// Draw renders every view of the instances. Opaque views are drawn first,
// blended views after them, each group in tree order.
//
// A view whose shader variant cannot be compiled or whose mesh cannot be
// drawn is skipped and logged at warn level; the rest of the frame still draws.
func (r *Renderer) Draw(frame *shader.Frame, env *material.Environment, instances ...*model.Instance) Stats {
	r.views = r.views[:0]
	for _, inst := range instances {
		r.views = inst.Views(r.views)
	}

	var stats Stats
	r.blended = r.blended[:0]
	for i := range r.views {
		v := &r.views[i]
		if v.Material != nil && v.Material.Has(material.Blended) {
			r.blended = append(r.blended, *v)
			continue
		}
		r.drawView(frame, v, env, &stats)
	}
	for i := range r.blended {
		r.drawView(frame, &r.blended[i], env, &stats)
	}
	return stats
}

func (r *Renderer) drawView(frame *shader.Frame, v *model.View, env *material.Environment, stats *Stats) {
	if v.Mesh == nil || v.Material == nil {
		stats.Skipped++
		return
	}

	variant, err := r.cache.Get(v.Material, env)
	if err != nil {
		stats.Skipped++
		logger.Warn("skipping view: shader variant unavailable",
			zap.String("material", v.Material.ID),
			zap.String("meshPart", v.Mesh.ID),
			zap.Error(err))
		return
	}
	variant.Apply(frame, v, env)

	var blend *material.BlendAttr
	if a, ok := v.Material.Get(material.Blended); ok {
		blend = a.(*material.BlendAttr)
	}
	r.device.SetBlend(blend)

	if err := r.device.DrawPart(v.Mesh); err != nil {
		stats.Skipped++
		logger.Warn("skipping view: draw failed",
			zap.String("meshPart", v.Mesh.ID),
			zap.Error(err))
		return
	}
	stats.Drawn++
}
