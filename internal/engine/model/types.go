// Package model provides the node tree, keyframe animation, and model
// instancing for rigged models.
package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Faultbox/midgard-g3d/pkg/math"
)

// Model errors.
var (
	ErrDuplicateID     = errors.New("duplicate id")
	ErrUnknownNode     = errors.New("unknown node")
	ErrUnknownMeshPart = errors.New("unknown mesh part")
	ErrUnknownMaterial = errors.New("unknown material")
	ErrUnknownAnim     = errors.New("unknown animation")
	ErrUnsupported     = errors.New("unsupported value")
	ErrRemap           = errors.New("instance remap failed")
)

// PrimitiveType is the GL primitive a mesh part is drawn with.
type PrimitiveType uint32

// GL primitive enum values.
const (
	Points        PrimitiveType = 0x0000
	Lines         PrimitiveType = 0x0001
	LineLoop      PrimitiveType = 0x0002
	LineStrip     PrimitiveType = 0x0003
	Triangles     PrimitiveType = 0x0004
	TriangleStrip PrimitiveType = 0x0005
	TriangleFan   PrimitiveType = 0x0006
)

// ParsePrimitiveType parses a primitive name such as "TRIANGLES" (case-insensitive).
func ParsePrimitiveType(s string) (PrimitiveType, error) {
	switch strings.ToLower(s) {
	case "points":
		return Points, nil
	case "lines":
		return Lines, nil
	case "lineloop":
		return LineLoop, nil
	case "linestrip":
		return LineStrip, nil
	case "triangles":
		return Triangles, nil
	case "trianglestrip":
		return TriangleStrip, nil
	case "trianglefan":
		return TriangleFan, nil
	default:
		return 0, fmt.Errorf("primitive type %q: %w", s, ErrUnsupported)
	}
}

// VertexUsage identifies what a vertex attribute holds.
type VertexUsage uint8

const (
	UsagePosition VertexUsage = iota
	UsageNormal
	UsageTexCoord
)

// VertexAttribute describes one interleaved vertex attribute.
type VertexAttribute struct {
	Usage      VertexUsage
	Components int
	// Unit is the texture coordinate set for UsageTexCoord.
	Unit int
}

// ParseVertexAttributes parses attribute names such as "POSITION", "NORMAL"
// and "TEXCOORD0". Texture coordinate units are numbered in order of appearance.
func ParseVertexAttributes(names []string) ([]VertexAttribute, error) {
	attrs := make([]VertexAttribute, 0, len(names))
	texUnit := 0
	for _, name := range names {
		switch n := strings.ToLower(name); {
		case n == "position":
			attrs = append(attrs, VertexAttribute{Usage: UsagePosition, Components: 3})
		case n == "normal":
			attrs = append(attrs, VertexAttribute{Usage: UsageNormal, Components: 3})
		case strings.HasPrefix(n, "texcoord"):
			attrs = append(attrs, VertexAttribute{Usage: UsageTexCoord, Components: 2, Unit: texUnit})
			texUnit++
		default:
			return nil, fmt.Errorf("vertex attribute %q: %w", name, ErrUnsupported)
		}
	}
	return attrs, nil
}

// Mesh holds interleaved vertex data and the index buffer shared by its parts.
type Mesh struct {
	Attributes []VertexAttribute
	Vertices   []float32
	Indices    []uint16
	Parts      []*MeshPart
}

// Stride returns the number of floats per vertex.
func (m *Mesh) Stride() int {
	n := 0
	for _, a := range m.Attributes {
		n += a.Components
	}
	return n
}

// Bounds returns the axis-aligned bounding box of the vertex positions.
func (m *Mesh) Bounds() Bounds {
	b := EmptyBounds()
	stride := m.Stride()
	offset := -1
	n := 0
	for _, a := range m.Attributes {
		if a.Usage == UsagePosition {
			offset = n
			break
		}
		n += a.Components
	}
	if offset < 0 || stride == 0 {
		return b
	}

	for i := offset; i+2 < len(m.Vertices); i += stride {
		b.Extend(math.Vec3{X: m.Vertices[i], Y: m.Vertices[i+1], Z: m.Vertices[i+2]})
	}
	return b
}

// MeshPart is a range of a mesh's index buffer drawn with one primitive type.
type MeshPart struct {
	ID     string
	Mesh   *Mesh
	Type   PrimitiveType
	Offset int32
	Count  int32
}

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// EmptyBounds returns an inverted box that any point extends.
func EmptyBounds() Bounds {
	return Bounds{
		Min: math.Vec3{X: 1e10, Y: 1e10, Z: 1e10},
		Max: math.Vec3{X: -1e10, Y: -1e10, Z: -1e10},
	}
}

// Extend grows the box to contain p.
func (b *Bounds) Extend(p math.Vec3) {
	b.Min.X = min(b.Min.X, p.X)
	b.Min.Y = min(b.Min.Y, p.Y)
	b.Min.Z = min(b.Min.Z, p.Z)
	b.Max.X = max(b.Max.X, p.X)
	b.Max.Y = max(b.Max.Y, p.Y)
	b.Max.Z = max(b.Max.Z, p.Z)
}

// Transform returns the box around the eight corners of b transformed by m.
func (b Bounds) Transform(m math.Mat4) Bounds {
	out := EmptyBounds()
	if b.Empty() {
		return out
	}
	for _, x := range [2]float32{b.Min.X, b.Max.X} {
		for _, y := range [2]float32{b.Min.Y, b.Max.Y} {
			for _, z := range [2]float32{b.Min.Z, b.Max.Z} {
				out.Extend(m.TransformVec3(math.Vec3{X: x, Y: y, Z: z}))
			}
		}
	}
	return out
}

// Union returns the box containing both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	if o.Empty() {
		return b
	}
	b.Extend(o.Min)
	b.Extend(o.Max)
	return b
}

// Empty reports whether no point was added to the box.
func (b Bounds) Empty() bool {
	return b.Min.X > b.Max.X
}
