package model

import (
	"fmt"

	"github.com/Faultbox/midgard-g3d/internal/engine/material"
)

// Model is the shared, loaded form of a model. It is never posed or drawn
// directly; see NewInstance.
type Model struct {
	ID     string
	Meshes []*Mesh
	Nodes  *Tree

	meshParts map[string]*MeshPart
	materials map[string]*material.Material
	anims     map[string]*Anim

	// Insertion order, for deterministic iteration.
	materialIDs []string
	animIDs     []string
}

// New returns an empty model.
func New(id string) *Model {
	return &Model{
		ID:        id,
		Nodes:     NewTree(),
		meshParts: make(map[string]*MeshPart),
		materials: make(map[string]*material.Material),
		anims:     make(map[string]*Anim),
	}
}

// AddMesh appends a mesh and registers its parts.
func (m *Model) AddMesh(mesh *Mesh) error {
	for _, p := range mesh.Parts {
		if err := m.AddMeshPart(p); err != nil {
			return err
		}
	}
	m.Meshes = append(m.Meshes, mesh)
	return nil
}

// AddMeshPart registers a mesh part by id.
func (m *Model) AddMeshPart(p *MeshPart) error {
	if _, ok := m.meshParts[p.ID]; ok {
		return fmt.Errorf("mesh part %q: %w", p.ID, ErrDuplicateID)
	}
	m.meshParts[p.ID] = p
	return nil
}

// AddMaterial registers a material by id.
func (m *Model) AddMaterial(mat *material.Material) error {
	if _, ok := m.materials[mat.ID]; ok {
		return fmt.Errorf("material %q: %w", mat.ID, ErrDuplicateID)
	}
	m.materials[mat.ID] = mat
	m.materialIDs = append(m.materialIDs, mat.ID)
	return nil
}

// AddAnim registers an animation by id.
func (m *Model) AddAnim(a *Anim) error {
	if _, ok := m.anims[a.ID]; ok {
		return fmt.Errorf("animation %q: %w", a.ID, ErrDuplicateID)
	}
	m.anims[a.ID] = a
	m.animIDs = append(m.animIDs, a.ID)
	return nil
}

// MeshPart returns the mesh part with the given id.
func (m *Model) MeshPart(id string) (*MeshPart, bool) {
	p, ok := m.meshParts[id]
	return p, ok
}

// Material returns the material with the given id.
func (m *Model) Material(id string) (*material.Material, bool) {
	mat, ok := m.materials[id]
	return mat, ok
}

// Materials returns the materials in registration order.
func (m *Model) Materials() []*material.Material {
	out := make([]*material.Material, len(m.materialIDs))
	for i, id := range m.materialIDs {
		out[i] = m.materials[id]
	}
	return out
}

// Anim returns the animation with the given id.
func (m *Model) Anim(id string) (*Anim, bool) {
	a, ok := m.anims[id]
	return a, ok
}

// AnimIDs returns the animation ids in registration order.
func (m *Model) AnimIDs() []string {
	return m.animIDs
}
