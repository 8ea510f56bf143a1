package material

import (
	"strings"

	"github.com/Faultbox/midgard-g3d/pkg/math"
)

// Uniforms is the shader program surface attributes upload themselves to.
type Uniforms interface {
	SetInt(name string, v int32)
	// SetFloat sets a float, vec2, vec3 or vec4 uniform depending on len(v).
	SetFloat(name string, v ...float32)
	SetMatrix4(name string, m *math.Mat4)
	// BindTexture binds tex to the given texture unit.
	BindTexture(unit int32, tex Texture)
}

// Texture is a GPU texture handle.
type Texture interface {
	Handle() uint32
}

// Attribute is a typed rendering property stored in a Material.
type Attribute interface {
	// Alias returns the registered identity of the attribute.
	Alias() *Alias
	// Define appends the attribute's preprocessor lines to b.
	Define(b *strings.Builder)
	// Apply uploads the attribute to the bound shader.
	Apply(u Uniforms)
	// Clone returns an independent copy. Textures are shared.
	Clone() Attribute
}

type attr struct {
	alias *Alias
}

func (a attr) Alias() *Alias { return a.alias }

func (a attr) Define(b *strings.Builder) {
	b.WriteString("#define ")
	b.WriteString(a.alias.Flag())
	b.WriteByte('\n')
}

// FloatAttr holds a single float value.
type FloatAttr struct {
	attr
	Value float32
}

// NewFloat creates a float attribute for one of the KindFloat aliases.
func NewFloat(alias *Alias, value float32) (*FloatAttr, error) {
	if err := checkAlias(alias, KindFloat); err != nil {
		return nil, err
	}
	return &FloatAttr{attr: attr{alias}, Value: value}, nil
}

func (a *FloatAttr) Apply(u Uniforms) {
	u.SetFloat(a.alias.Uniform(), a.Value)
}

func (a *FloatAttr) Clone() Attribute {
	c := *a
	return &c
}

// ColorAttr holds a single RGBA color.
type ColorAttr struct {
	attr
	Value math.Color
}

// NewColor creates a color attribute for one of the KindColor aliases.
func NewColor(alias *Alias, value math.Color) (*ColorAttr, error) {
	if err := checkAlias(alias, KindColor); err != nil {
		return nil, err
	}
	return &ColorAttr{attr: attr{alias}, Value: value}, nil
}

func (a *ColorAttr) Apply(u Uniforms) {
	u.SetFloat(a.alias.Uniform(), a.Value.R, a.Value.G, a.Value.B, a.Value.A)
}

func (a *ColorAttr) Clone() Attribute {
	c := *a
	return &c
}

// TextureAttr holds a texture and the UV rectangle of the region it samples.
type TextureAttr struct {
	attr
	// Name is the texture file the attribute was loaded from, if any.
	Name    string
	Texture Texture
	U, V    float32
	U2, V2  float32
}

// NewTexture creates a texture attribute covering the whole texture.
// tex may be nil when the texture is resolved later by name.
func NewTexture(alias *Alias, name string, tex Texture) (*TextureAttr, error) {
	if err := checkAlias(alias, KindTexture); err != nil {
		return nil, err
	}
	return &TextureAttr{attr: attr{alias}, Name: name, Texture: tex, U2: 1, V2: 1}, nil
}

// SetRegion sets the UV rectangle.
func (a *TextureAttr) SetRegion(u, v, u2, v2 float32) {
	a.U, a.V, a.U2, a.V2 = u, v, u2, v2
}

// Unit returns the texture unit the attribute binds to. Units count down from
// the family size so every texture alias owns a distinct unit above zero.
func (a *TextureAttr) Unit() int32 {
	return int32(len(families[KindTexture]) - a.alias.ordinal)
}

func (a *TextureAttr) Apply(u Uniforms) {
	if a.Texture == nil {
		return
	}
	unit := a.Unit()
	u.BindTexture(unit, a.Texture)
	u.SetInt(a.alias.Uniform(), unit)
}

func (a *TextureAttr) Clone() Attribute {
	c := *a
	return &c
}

// GL blend factors used by BlendAttr.
const (
	BlendSrcAlpha         int32 = 0x0302
	BlendOneMinusSrcAlpha int32 = 0x0303
	BlendOne              int32 = 1
)

// BlendAttr marks a material as blended with the given GL blend factors.
// It uploads no uniforms; the renderer applies the blend state.
type BlendAttr struct {
	attr
	Src, Dst int32
}

// NewBlend creates a blend attribute.
func NewBlend(src, dst int32) *BlendAttr {
	return &BlendAttr{attr: attr{Blended}, Src: src, Dst: dst}
}

// NewNormalBlend creates a blend attribute for standard alpha blending.
func NewNormalBlend() *BlendAttr {
	return NewBlend(BlendSrcAlpha, BlendOneMinusSrcAlpha)
}

func (a *BlendAttr) Apply(Uniforms) {}

func (a *BlendAttr) Clone() Attribute {
	c := *a
	return &c
}
