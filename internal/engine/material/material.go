package material

// Material is a sparse set of attributes indexed by alias bit.
// The mask always equals the OR of the ids of the attributes it holds.
type Material struct {
	ID string

	mask  uint64
	attrs map[uint64]Attribute
}

// New creates a material holding the given attributes.
func New(id string, attrs ...Attribute) *Material {
	m := &Material{ID: id, attrs: make(map[uint64]Attribute, len(attrs))}
	m.SetAll(attrs...)
	return m
}

// Set stores attr under its alias and returns the attribute it replaced, if any.
func (m *Material) Set(attr Attribute) Attribute {
	if m.attrs == nil {
		m.attrs = make(map[uint64]Attribute)
	}

	id := attr.Alias().ID()
	prev := m.attrs[id]

	m.mask |= id
	m.attrs[id] = attr
	return prev
}

// SetAll stores every attribute in order.
func (m *Material) SetAll(attrs ...Attribute) {
	for _, a := range attrs {
		m.Set(a)
	}
}

// Remove deletes the attribute stored under alias and returns it, if any.
func (m *Material) Remove(alias *Alias) Attribute {
	id := alias.ID()
	prev := m.attrs[id]

	m.mask &^= id
	delete(m.attrs, id)
	return prev
}

// Has reports whether the material holds an attribute for alias.
func (m *Material) Has(alias *Alias) bool {
	return m.mask&alias.ID() == alias.ID()
}

// Get returns the attribute stored under alias.
func (m *Material) Get(alias *Alias) (Attribute, bool) {
	a, ok := m.attrs[alias.ID()]
	return a, ok
}

// Each calls fn for every attribute in ascending bit order. Shader defines and
// uniform uploads follow this order, which keeps generated sources stable.
func (m *Material) Each(fn func(Attribute)) {
	for rest := m.mask; rest != 0; rest &= rest - 1 {
		fn(m.attrs[rest&-rest])
	}
}

// Mask returns the OR of the ids of all held attributes.
func (m *Material) Mask() uint64 {
	return m.mask
}

// Len returns the number of held attributes.
func (m *Material) Len() int {
	return len(m.attrs)
}

// Clone returns a deep copy of the material. Textures are shared.
func (m *Material) Clone() *Material {
	c := &Material{ID: m.ID, mask: m.mask, attrs: make(map[uint64]Attribute, len(m.attrs))}
	for id, a := range m.attrs {
		c.attrs[id] = a.Clone()
	}
	return c
}
