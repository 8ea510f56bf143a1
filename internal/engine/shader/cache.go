package shader

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-g3d/internal/engine/material"
	"github.com/Faultbox/midgard-g3d/internal/engine/model"
	"github.com/Faultbox/midgard-g3d/internal/logger"
	"github.com/Faultbox/midgard-g3d/pkg/math"
)

// RenderType selects the projection style of model shaders.
type RenderType int32

const (
	RenderDefault RenderType = iota
	// RenderHybrid2D flattens depth so models mix with 2D sprites.
	RenderHybrid2D
)

// ParseRenderType parses "default" or "hybrid2d".
func ParseRenderType(s string) (RenderType, error) {
	switch strings.ToLower(s) {
	case "", "default":
		return RenderDefault, nil
	case "hybrid2d":
		return RenderHybrid2D, nil
	default:
		return 0, fmt.Errorf("unknown render type %q", s)
	}
}

// Frame holds the per-frame values every variant uploads.
type Frame struct {
	RenderType RenderType
	// Combined is the camera projection * view matrix.
	Combined math.Mat4
	CamPos   math.Vec3
	// Width and Height are the framebuffer size in pixels.
	Width, Height float32
	// ViewWidth and ViewHeight are the camera viewport size in world units.
	ViewWidth, ViewHeight float32
}

// Cache holds one compiled Variant per material mask. A cached variant is
// replaced when the material or environment it is requested for no longer
// matches what it was compiled for.
//
// Cache is not safe for concurrent use; it belongs to the render thread.
type Cache struct {
	compiler  Compiler
	templates Templates
	variants  map[uint64]*Variant
}

// NewCache returns an empty cache compiling from templates.
func NewCache(compiler Compiler, templates Templates) *Cache {
	return &Cache{
		compiler:  compiler,
		templates: templates,
		variants:  make(map[uint64]*Variant),
	}
}

// Get returns the variant for mat under env, compiling it if needed. env may be nil.
func (c *Cache) Get(mat *material.Material, env *material.Environment) (*Variant, error) {
	mask := mat.Mask()
	v := c.variants[mask]
	if v != nil && v.Valid(mat, env) {
		return v, nil
	}
	if v != nil {
		logger.Debug("shader variant invalidated",
			zap.Uint64("mask", mask),
			zap.Int("dirLights", v.numDirLights),
			zap.Int("wantDirLights", env.DirLightCount()))
		v.Dispose()
	}

	prefix := Defines(mat, env)
	program, err := c.compiler.Compile(
		withPrefix(prefix, c.templates.Vertex),
		withPrefix(prefix, c.templates.Fragment),
	)
	if err != nil {
		return nil, fmt.Errorf("variant %#x: %w", mask, err)
	}

	v = &Variant{
		cache:        c,
		program:      program,
		mask:         mask,
		envMask:      env.Mask(),
		numDirLights: env.DirLightCount(),
	}
	c.variants[mask] = v

	logger.Debug("shader variant compiled",
		zap.Uint64("mask", mask),
		zap.Uint64("envMask", v.envMask),
		zap.Int("dirLights", v.numDirLights))
	return v, nil
}

// Defines returns the preprocessor prefix for mat under env: the material's
// defines, then the environment's, in ascending alias order. The directional
// light count is always defined.
func Defines(mat *material.Material, env *material.Environment) string {
	var b strings.Builder
	mat.Each(func(a material.Attribute) { a.Define(&b) })
	env.Each(func(a material.Attribute) { a.Define(&b) })
	if env == nil || !env.Has(material.DirLights) {
		fmt.Fprintf(&b, "#define %s 0\n", material.CountDefine(material.DirLights))
	}
	b.WriteByte('\n')
	return b.String()
}

// SetTemplates replaces the templates and disposes every cached variant.
func (c *Cache) SetTemplates(t Templates) {
	c.Dispose()
	c.templates = t
}

// Len returns the number of cached variants.
func (c *Cache) Len() int {
	return len(c.variants)
}

// Dispose disposes every cached variant.
func (c *Cache) Dispose() {
	for _, v := range c.variants {
		v.Dispose()
	}
}

// Variant is a program compiled for one material mask and lighting setup.
type Variant struct {
	cache        *Cache
	program      Program
	mask         uint64
	envMask      uint64
	numDirLights int
	disposed     bool
}

// Program returns the underlying program.
func (v *Variant) Program() Program {
	return v.program
}

// Mask returns the material mask the variant was compiled for.
func (v *Variant) Mask() uint64 {
	return v.mask
}

// Valid reports whether v can draw mat under env.
func (v *Variant) Valid(mat *material.Material, env *material.Environment) bool {
	return !v.disposed &&
		v.mask == mat.Mask() &&
		v.envMask == env.Mask() &&
		v.numDirLights == env.DirLightCount()
}

// Dispose releases the program and evicts v from its cache if it is still
// the cached variant for its mask.
func (v *Variant) Dispose() {
	if v.disposed {
		return
	}
	v.disposed = true
	v.program.Dispose()
	if v.cache.variants[v.mask] == v {
		delete(v.cache.variants, v.mask)
	}
}

// Apply binds the program and uploads the frame, the view transform, then
// the view's material attributes and the environment attributes.
func (v *Variant) Apply(f *Frame, view *model.View, env *material.Environment) {
	p := v.program
	p.Use()

	p.SetInt("u_renderType", int32(f.RenderType))
	p.SetMatrix4("u_proj", &f.Combined)
	p.SetMatrix4("u_trans", &view.Transform)
	p.SetFloat("u_camPos", f.CamPos.X, f.CamPos.Y, f.CamPos.Z)
	p.SetFloat("u_res", f.Width, f.Height)
	if f.Width > 0 && f.Height > 0 {
		p.SetFloat("u_scl", f.ViewWidth/f.Width, f.ViewHeight/f.Height)
	} else {
		p.SetFloat("u_scl", 1, 1)
	}
	normal := view.Transform.NormalMatrix()
	p.SetMatrix4("u_normalMatrix", &normal)

	view.Material.Each(func(a material.Attribute) { a.Apply(p) })
	env.Each(func(a material.Attribute) { a.Apply(p) })
}
