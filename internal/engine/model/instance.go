package model

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-g3d/internal/engine/material"
	"github.com/Faultbox/midgard-g3d/internal/logger"
	"github.com/Faultbox/midgard-g3d/pkg/math"
)

// Instance is an independently posable copy of a Model. Nodes, materials and
// animations are deep copies; meshes are shared with the model.
type Instance struct {
	ID        string
	Model     *Model
	Transform math.Mat4
	Nodes     *Tree

	materials map[string]*material.Material
	anims     map[string]*Anim
}

// NewInstance copies m in two passes. The first clones nodes, materials and
// animations and records which clone each source object became. The second
// rewires node parts and animation targets through those records. If any
// reference cannot be resolved no instance is returned.
func NewInstance(m *Model) (*Instance, error) {
	inst := &Instance{
		ID:        m.ID,
		Model:     m,
		Transform: math.Identity(),
		Nodes:     NewTree(),
		materials: make(map[string]*material.Material, len(m.materials)),
		anims:     make(map[string]*Anim, len(m.anims)),
	}

	nodeMap := make(map[NodeID]NodeID, m.Nodes.Len())
	for _, root := range m.Nodes.Roots() {
		if err := inst.cloneNode(m.Nodes, root, NoNode, nodeMap); err != nil {
			return nil, err
		}
	}
	for id, mat := range m.materials {
		inst.materials[id] = mat.Clone()
	}
	for id, a := range m.anims {
		inst.anims[id] = a.Clone()
	}

	if err := inst.relink(nodeMap); err != nil {
		return nil, err
	}
	inst.CalcTransforms()

	logger.Debug("model instance created",
		zap.String("model", m.ID),
		zap.Int("nodes", inst.Nodes.Len()),
		zap.Int("materials", len(inst.materials)),
		zap.Int("anims", len(inst.anims)))
	return inst, nil
}

func (inst *Instance) cloneNode(src *Tree, id, parent NodeID, nodeMap map[NodeID]NodeID) error {
	n := *src.Node(id)
	n.Parts = append([]NodePart(nil), n.Parts...)
	children := n.Children

	dst, err := inst.Nodes.Add(parent, n)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRemap, err)
	}
	nodeMap[id] = dst

	for _, c := range children {
		if err := inst.cloneNode(src, c, dst, nodeMap); err != nil {
			return err
		}
	}
	return nil
}

func (inst *Instance) relink(nodeMap map[NodeID]NodeID) error {
	var err error
	inst.Nodes.Each(func(_ NodeID, n *Node) {
		for i := range n.Parts {
			p := &n.Parts[i]
			if p.Material == nil || err != nil {
				continue
			}
			mat, ok := inst.materials[p.Material.ID]
			if !ok {
				err = fmt.Errorf("%w: node %q: material %q: %w", ErrRemap, n.ID, p.Material.ID, ErrUnknownMaterial)
				return
			}
			p.Material = mat
		}
	})
	if err != nil {
		return err
	}

	for _, a := range inst.anims {
		for i := range a.Nodes {
			target, ok := nodeMap[a.Nodes[i].Node]
			if !ok {
				return fmt.Errorf("%w: animation %q: node %d: %w", ErrRemap, a.ID, a.Nodes[i].Node, ErrUnknownNode)
			}
			a.Nodes[i].Node = target
		}
	}
	return nil
}

// Node returns the first node named id, searching depth-first.
func (inst *Instance) Node(id string) (*Node, bool) {
	nid, ok := inst.Nodes.Find(id)
	if !ok {
		return nil, false
	}
	return inst.Nodes.Node(nid), true
}

// Material returns the instance's copy of the material with the given id.
func (inst *Instance) Material(id string) (*material.Material, bool) {
	mat, ok := inst.materials[id]
	return mat, ok
}

// Anim returns the instance's copy of the animation with the given id.
func (inst *Instance) Anim(id string) (*Anim, bool) {
	a, ok := inst.anims[id]
	return a, ok
}

// CalcTransforms recomputes all node transforms against Transform.
func (inst *Instance) CalcTransforms() {
	inst.Nodes.CalcTransforms(&inst.Transform)
}

// Views appends the renderable views of every node to dst.
func (inst *Instance) Views(dst []View) []View {
	return inst.Nodes.Views(dst)
}

// Bounds returns the world-space box around every mesh drawn by the
// instance, using the node world transforms from the last CalcTransforms.
func (inst *Instance) Bounds() Bounds {
	b := EmptyBounds()
	for _, v := range inst.Views(nil) {
		if v.Mesh == nil || v.Mesh.Mesh == nil {
			continue
		}
		b = b.Union(v.Mesh.Mesh.Bounds().Transform(v.Transform))
	}
	return b
}
