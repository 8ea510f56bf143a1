package material

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Faultbox/midgard-g3d/pkg/math"
)

// Light is a light that can be added to an Environment.
type Light interface {
	lightAlias() *Alias
}

// AmbientLight lights every surface uniformly.
type AmbientLight struct {
	Color math.Color
}

func (*AmbientLight) lightAlias() *Alias { return AmbLights }

// DirLight is a directional light; it has a direction but no position.
type DirLight struct {
	Color math.Color
	Dir   math.Vec3
}

func (*DirLight) lightAlias() *Alias { return DirLights }

// AmbientLightsAttr holds ambient lights. They are averaged into one color on upload.
type AmbientLightsAttr struct {
	attr
	Lights []*AmbientLight
}

// NewAmbientLights creates an ambient light list attribute.
func NewAmbientLights(lights ...*AmbientLight) *AmbientLightsAttr {
	return &AmbientLightsAttr{attr: attr{AmbLights}, Lights: lights}
}

// Average returns the mean color of all lights.
func (a *AmbientLightsAttr) Average() math.Color {
	var sum math.Color
	for _, l := range a.Lights {
		sum = sum.Add(l.Color)
	}
	return sum.Scale(1 / float32(len(a.Lights)))
}

func (a *AmbientLightsAttr) Apply(u Uniforms) {
	if len(a.Lights) == 0 {
		return
	}
	c := a.Average()
	u.SetFloat(a.alias.Uniform(), c.R, c.G, c.B, c.A)
}

func (a *AmbientLightsAttr) Clone() Attribute {
	lights := make([]*AmbientLight, len(a.Lights))
	for i, l := range a.Lights {
		c := *l
		lights[i] = &c
	}
	return &AmbientLightsAttr{attr: a.attr, Lights: lights}
}

// DirLightsAttr holds directional lights, uploaded as a uniform array.
type DirLightsAttr struct {
	attr
	Lights []*DirLight
}

// NewDirLights creates a directional light list attribute.
func NewDirLights(lights ...*DirLight) *DirLightsAttr {
	return &DirLightsAttr{attr: attr{DirLights}, Lights: lights}
}

// CountDefine returns the preprocessor name carrying the light count, "numDirLights".
func CountDefine(alias *Alias) string {
	return "num" + strings.ToUpper(alias.name[:1]) + alias.name[1:]
}

// Define writes the light count define instead of a flag.
func (a *DirLightsAttr) Define(b *strings.Builder) {
	fmt.Fprintf(b, "#define %s %d\n", CountDefine(a.alias), len(a.Lights))
}

func (a *DirLightsAttr) Apply(u Uniforms) {
	name := a.alias.Uniform()
	u.SetInt(name+"Size", int32(len(a.Lights)))

	for i, l := range a.Lights {
		index := name + "[" + strconv.Itoa(i) + "]."
		u.SetFloat(index+"color", l.Color.R, l.Color.G, l.Color.B, l.Color.A)
		u.SetFloat(index+"dir", l.Dir.X, l.Dir.Y, l.Dir.Z)
	}
}

func (a *DirLightsAttr) Clone() Attribute {
	lights := make([]*DirLight, len(a.Lights))
	for i, l := range a.Lights {
		c := *l
		lights[i] = &c
	}
	return &DirLightsAttr{attr: a.attr, Lights: lights}
}
