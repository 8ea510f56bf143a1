package material

import (
	"fmt"
	"slices"
)

// Environment is a material restricted to scene-wide lighting attributes:
// the ambientLight color, ambient lights and directional lights.
type Environment struct {
	mat Material
}

// NewEnvironment creates an empty environment.
func NewEnvironment() *Environment {
	return &Environment{}
}

func acceptsAlias(alias *Alias) bool {
	return alias == AmbientLightColor || alias == AmbLights || alias == DirLights
}

// Set stores a lighting attribute and returns the one it replaced.
// Any other attribute kind is rejected with ErrUnsupportedAttribute.
func (e *Environment) Set(attr Attribute) (Attribute, error) {
	if !acceptsAlias(attr.Alias()) {
		return nil, fmt.Errorf("%s: %w", attr.Alias(), ErrUnsupportedAttribute)
	}
	return e.mat.Set(attr), nil
}

// Add appends a light, creating the list attribute for its kind if needed.
func (e *Environment) Add(light Light) {
	switch l := light.(type) {
	case *AmbientLight:
		if a, ok := e.mat.Get(AmbLights); ok {
			attr := a.(*AmbientLightsAttr)
			attr.Lights = append(attr.Lights, l)
			return
		}
		e.mat.Set(NewAmbientLights(l))
	case *DirLight:
		if a, ok := e.mat.Get(DirLights); ok {
			attr := a.(*DirLightsAttr)
			attr.Lights = append(attr.Lights, l)
			return
		}
		e.mat.Set(NewDirLights(l))
	}
}

// Remove removes a light. It does nothing if the light is not present.
func (e *Environment) Remove(light Light) {
	switch l := light.(type) {
	case *AmbientLight:
		if a, ok := e.mat.Get(AmbLights); ok {
			attr := a.(*AmbientLightsAttr)
			attr.Lights = slices.DeleteFunc(attr.Lights, func(x *AmbientLight) bool { return x == l })
		}
	case *DirLight:
		if a, ok := e.mat.Get(DirLights); ok {
			attr := a.(*DirLightsAttr)
			attr.Lights = slices.DeleteFunc(attr.Lights, func(x *DirLight) bool { return x == l })
		}
	}
}

// DirLightCount returns the number of directional lights, 0 if there are none.
func (e *Environment) DirLightCount() int {
	if e == nil {
		return 0
	}
	if a, ok := e.mat.Get(DirLights); ok {
		return len(a.(*DirLightsAttr).Lights)
	}
	return 0
}

// RemoveAttr deletes the attribute stored under alias.
func (e *Environment) RemoveAttr(alias *Alias) Attribute {
	return e.mat.Remove(alias)
}

// Has reports whether the environment holds an attribute for alias.
func (e *Environment) Has(alias *Alias) bool { return e.mat.Has(alias) }

// Get returns the attribute stored under alias.
func (e *Environment) Get(alias *Alias) (Attribute, bool) { return e.mat.Get(alias) }

// Each calls fn for every attribute in ascending bit order.
func (e *Environment) Each(fn func(Attribute)) {
	if e == nil {
		return
	}
	e.mat.Each(fn)
}

// Mask returns the OR of the ids of all held attributes, 0 for a nil environment.
func (e *Environment) Mask() uint64 {
	if e == nil {
		return 0
	}
	return e.mat.Mask()
}
