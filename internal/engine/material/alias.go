package material

import (
	"errors"
	"fmt"
	"slices"
)

// Material errors.
var (
	ErrAliasFamily          = errors.New("alias does not belong to attribute family")
	ErrUnsupportedAttribute = errors.New("unsupported environment attribute")
)

// Kind is the attribute family an alias belongs to.
type Kind uint8

const (
	KindFloat Kind = iota
	KindColor
	KindTexture
	KindBlend
	KindAmbientLights
	KindDirLights
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "Float"
	case KindColor:
		return "Color"
	case KindTexture:
		return "Texture"
	case KindBlend:
		return "Blend"
	case KindAmbientLights:
		return "AmbientLights"
	case KindDirLights:
		return "DirLights"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// suffix is appended to the alias name to build its registry key, uniform and flag.
func (k Kind) suffix() string {
	switch k {
	case KindColor:
		return "Color"
	case KindTexture:
		return "Texture"
	default:
		return ""
	}
}

// Alias is the registered identity of an attribute kind.
type Alias struct {
	name    string
	key     string
	id      uint64
	kind    Kind
	ordinal int
}

// Name returns the alias name, e.g. "diffuse".
func (a *Alias) Name() string { return a.name }

// ID returns the alias bit.
func (a *Alias) ID() uint64 { return a.id }

// Kind returns the attribute family.
func (a *Alias) Kind() Kind { return a.kind }

// Ordinal returns the position of the alias within its family.
func (a *Alias) Ordinal() int { return a.ordinal }

// Uniform returns the shader uniform name, e.g. "u_diffuseColor".
func (a *Alias) Uniform() string { return "u_" + a.key }

// Flag returns the shader preprocessor flag, e.g. "diffuseColorFlag".
func (a *Alias) Flag() string { return a.key + "Flag" }

func (a *Alias) String() string { return a.key }

var families = map[Kind][]*Alias{}

// NewAlias registers a new alias of the given kind in the Default registry and
// appends it to the kind's family. Registering the same name and kind twice
// returns the existing alias.
//
// Custom aliases must be created during initialization, before any material
// mask is computed, since the registration order fixes every id.
func NewAlias(kind Kind, name string) *Alias {
	key := name + kind.suffix()
	for _, a := range families[kind] {
		if a.key == key {
			return a
		}
	}

	a := &Alias{
		name:    name,
		key:     key,
		id:      Default.Register(key),
		kind:    kind,
		ordinal: len(families[kind]),
	}
	families[kind] = append(families[kind], a)
	return a
}

// Family returns the aliases registered for kind in ordinal order.
func Family(kind Kind) []*Alias {
	return slices.Clone(families[kind])
}

// Built-in aliases. The declaration order fixes their bit ids.
var (
	Shininess = NewAlias(KindFloat, "shininess")
	AlphaTest = NewAlias(KindFloat, "alphaTest")

	DiffuseColor      = NewAlias(KindColor, "diffuse")
	SpecularColor     = NewAlias(KindColor, "specular")
	EmissiveColor     = NewAlias(KindColor, "emissive")
	AmbientLightColor = NewAlias(KindColor, "ambientLight")

	DiffuseTexture  = NewAlias(KindTexture, "diffuse")
	SpecularTexture = NewAlias(KindTexture, "specular")
	EmissiveTexture = NewAlias(KindTexture, "emissive")

	Blended = NewAlias(KindBlend, "blended")

	AmbLights = NewAlias(KindAmbientLights, "ambLights")
	DirLights = NewAlias(KindDirLights, "dirLights")
)

// checkAlias verifies that alias is a registered member of the kind family.
func checkAlias(alias *Alias, kind Kind) error {
	if alias == nil {
		return fmt.Errorf("nil alias for %s attribute: %w", kind, ErrAliasFamily)
	}
	if alias.kind != kind || !Default.Contains(alias.id) || !slices.Contains(families[kind], alias) {
		return fmt.Errorf("%s is not a %s alias: %w", alias, kind, ErrAliasFamily)
	}
	return nil
}
