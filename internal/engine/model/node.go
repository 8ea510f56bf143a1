package model

import (
	"fmt"

	"github.com/Faultbox/midgard-g3d/internal/engine/material"
	"github.com/Faultbox/midgard-g3d/pkg/math"
)

// NodeID is the index of a node in its Tree. IDs are stable for the tree's lifetime.
type NodeID int

// NoNode marks the absence of a node, e.g. the parent of a root.
const NoNode NodeID = -1

// Node is a positioned element of the scene graph.
type Node struct {
	ID string

	// Translation, Rotation and Scaling define the static pose. Animation
	// never writes them; it composes onto Local instead.
	Translation math.Vec3
	Rotation    math.Quat
	Scaling     math.Vec3

	// Local is recomputed from the TRS fields unless Animated is set.
	Local math.Mat4
	World math.Mat4

	// Animated is set while an animation drives Local.
	Animated bool

	Parent   NodeID
	Children []NodeID
	Parts    []NodePart
}

// NewNode returns a node with an identity pose.
func NewNode(id string) Node {
	return Node{
		ID:       id,
		Rotation: math.QuatIdentity(),
		Scaling:  math.One,
		Local:    math.Identity(),
		World:    math.Identity(),
		Parent:   NoNode,
	}
}

// NodePart binds a mesh part to the material it is drawn with. The material is
// owned by the Model or Instance holding the node, never by the node.
type NodePart struct {
	Mesh     *MeshPart
	Material *material.Material
}

// View is a renderable unit: one node part at its node's world transform.
type View struct {
	Transform math.Mat4
	Mesh      *MeshPart
	Material  *material.Material
}

// Tree is an arena of nodes forming a forest. Nodes reference their parent and
// children by NodeID.
type Tree struct {
	nodes []Node
	roots []NodeID
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{}
}

// Add inserts n under parent, or as a root if parent is NoNode. Node ids must
// be unique among siblings. n's Parent and Children fields are overwritten.
func (t *Tree) Add(parent NodeID, n Node) (NodeID, error) {
	siblings := t.roots
	if parent != NoNode {
		if !t.valid(parent) {
			return NoNode, fmt.Errorf("parent %d: %w", parent, ErrUnknownNode)
		}
		siblings = t.nodes[parent].Children
	}
	if _, ok := t.child(siblings, n.ID); ok {
		return NoNode, fmt.Errorf("node %q: %w", n.ID, ErrDuplicateID)
	}

	id := NodeID(len(t.nodes))
	n.Parent = parent
	n.Children = nil
	t.nodes = append(t.nodes, n)

	if parent == NoNode {
		t.roots = append(t.roots, id)
	} else {
		t.nodes[parent].Children = append(t.nodes[parent].Children, id)
	}
	return id, nil
}

// Node returns the node with the given id. The pointer is valid until the next Add.
func (t *Tree) Node(id NodeID) *Node {
	return &t.nodes[id]
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Roots returns the root node ids in insertion order.
func (t *Tree) Roots() []NodeID {
	return t.roots
}

func (t *Tree) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

func (t *Tree) child(ids []NodeID, name string) (NodeID, bool) {
	for _, id := range ids {
		if t.nodes[id].ID == name {
			return id, true
		}
	}
	return NoNode, false
}

// Child returns the child of parent (or the root, for NoNode) named name.
func (t *Tree) Child(parent NodeID, name string) (NodeID, bool) {
	if parent == NoNode {
		return t.child(t.roots, name)
	}
	return t.child(t.nodes[parent].Children, name)
}

// Find searches the whole forest for a node named name. Each level is checked
// before descending, so the shallowest match under the first matching subtree wins.
func (t *Tree) Find(name string) (NodeID, bool) {
	return t.find(t.roots, name)
}

func (t *Tree) find(ids []NodeID, name string) (NodeID, bool) {
	if id, ok := t.child(ids, name); ok {
		return id, true
	}
	for _, id := range ids {
		if res, ok := t.find(t.nodes[id].Children, name); ok {
			return res, true
		}
	}
	return NoNode, false
}

// Each calls fn for every node, parents before children.
func (t *Tree) Each(fn func(NodeID, *Node)) {
	for _, id := range t.roots {
		t.each(id, fn)
	}
}

func (t *Tree) each(id NodeID, fn func(NodeID, *Node)) {
	fn(id, &t.nodes[id])
	for _, c := range t.nodes[id].Children {
		t.each(c, fn)
	}
}

// CalcTransform recomputes the transforms of id and its descendants. Local is
// rebuilt from TRS unless the node is animated. World is parentWorld * Local,
// or Local alone when parentWorld is nil.
func (t *Tree) CalcTransform(id NodeID, parentWorld *math.Mat4) {
	n := &t.nodes[id]
	if !n.Animated {
		n.Local = math.FromTRS(n.Translation, n.Rotation, n.Scaling)
	}
	if parentWorld != nil {
		n.World = parentWorld.Mul(n.Local)
	} else {
		n.World = n.Local
	}

	for _, c := range n.Children {
		t.CalcTransform(c, &n.World)
	}
}

// CalcTransforms recomputes every node, composing the roots against transform.
func (t *Tree) CalcTransforms(transform *math.Mat4) {
	for _, id := range t.roots {
		t.CalcTransform(id, transform)
	}
}

// Views appends one View per node part to dst, depth-first with parents before
// children and siblings in stored order.
func (t *Tree) Views(dst []View) []View {
	for _, id := range t.roots {
		dst = t.views(id, dst)
	}
	return dst
}

func (t *Tree) views(id NodeID, dst []View) []View {
	n := &t.nodes[id]
	for _, p := range n.Parts {
		dst = append(dst, View{Transform: n.World, Mesh: p.Mesh, Material: p.Material})
	}
	for _, c := range n.Children {
		dst = t.views(c, dst)
	}
	return dst
}
