package formats

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// G3DJ format errors.
var (
	ErrInvalidG3DJ      = errors.New("invalid G3DJ data")
	ErrMissingG3DJField = errors.New("missing G3DJ field")
)

// G3DJ is a decoded model description in the fbx-conv JSON layout.
type G3DJ struct {
	Version    [2]int         `json:"version"`
	ID         string         `json:"id"`
	Meshes     []G3DMesh      `json:"meshes"`
	Materials  []G3DMaterial  `json:"materials"`
	Nodes      []G3DNode      `json:"nodes"`
	Animations []G3DAnimation `json:"animations"`
}

// G3DMesh is an interleaved vertex buffer with its index ranges.
type G3DMesh struct {
	Attributes []string      `json:"attributes"`
	Vertices   []float32     `json:"vertices"`
	Parts      []G3DMeshPart `json:"parts"`
}

// G3DMeshPart is one primitive range of a mesh.
type G3DMeshPart struct {
	ID      string   `json:"id"`
	Type    string   `json:"type"`
	Indices []uint16 `json:"indices"`
}

// G3DTexture references an image file used by a material.
type G3DTexture struct {
	ID            string    `json:"id"`
	Filename      string    `json:"filename"`
	Type          string    `json:"type"`
	UVTranslation []float32 `json:"uvTranslation,omitempty"`
	UVScaling     []float32 `json:"uvScaling,omitempty"`
}

// G3DMaterial is a material record. Apart from id and textures, numeric keys
// are collected into Floats and array keys into Colors.
type G3DMaterial struct {
	ID       string
	Floats   map[string]float32
	Colors   map[string][]float32
	Textures []G3DTexture
}

// UnmarshalJSON splits the free-form material keys by value shape.
func (m *G3DMaterial) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	m.Floats = make(map[string]float32)
	m.Colors = make(map[string][]float32)
	for key, value := range raw {
		switch key {
		case "id":
			if err := json.Unmarshal(value, &m.ID); err != nil {
				return fmt.Errorf("material id: %w", err)
			}
		case "textures":
			if err := json.Unmarshal(value, &m.Textures); err != nil {
				return fmt.Errorf("material %q textures: %w", m.ID, err)
			}
		default:
			var f float32
			if err := json.Unmarshal(value, &f); err == nil {
				m.Floats[key] = f
				continue
			}
			var c []float32
			if err := json.Unmarshal(value, &c); err == nil {
				m.Colors[key] = c
			}
			// Other shapes carry nothing a material can use.
		}
	}
	return nil
}

// G3DNode is a scene graph node with its mesh bindings and children.
type G3DNode struct {
	ID          string        `json:"id"`
	Translation []float32     `json:"translation,omitempty"`
	Rotation    []float32     `json:"rotation,omitempty"`
	Scale       []float32     `json:"scale,omitempty"`
	Parts       []G3DNodePart `json:"parts,omitempty"`
	Children    []G3DNode     `json:"children,omitempty"`
}

// G3DNodePart binds a mesh part to a material.
type G3DNodePart struct {
	MeshPartID string `json:"meshpartid"`
	MaterialID string `json:"materialid"`
}

// G3DAnimation is a named set of bone tracks.
type G3DAnimation struct {
	ID    string    `json:"id"`
	Bones []G3DBone `json:"bones"`
}

// G3DBone holds the keyframes of one node.
type G3DBone struct {
	BoneID    string        `json:"boneId"`
	Keyframes []G3DKeyframe `json:"keyframes"`
}

// G3DKeyframe holds the channel values at a key time in milliseconds.
type G3DKeyframe struct {
	KeyTime     float32   `json:"keytime"`
	Translation []float32 `json:"translation,omitempty"`
	Rotation    []float32 `json:"rotation,omitempty"`
	Scale       []float32 `json:"scale,omitempty"`
}

// ParseG3DJ decodes and validates a G3DJ document.
func ParseG3DJ(data []byte) (*G3DJ, error) {
	var doc G3DJ
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidG3DJ, err)
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ParseG3DJFile reads and parses a G3DJ file.
func ParseG3DJFile(path string) (*G3DJ, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading G3DJ file: %w", err)
	}
	return ParseG3DJ(data)
}

func (doc *G3DJ) validate() error {
	if doc.ID == "" {
		return fmt.Errorf("%w: model id", ErrMissingG3DJField)
	}
	for i, mesh := range doc.Meshes {
		if len(mesh.Attributes) == 0 {
			return fmt.Errorf("%w: mesh %d attributes", ErrMissingG3DJField, i)
		}
		for j, part := range mesh.Parts {
			if part.ID == "" || part.Type == "" {
				return fmt.Errorf("%w: mesh %d part %d id/type", ErrMissingG3DJField, i, j)
			}
		}
	}
	for i, mat := range doc.Materials {
		if mat.ID == "" {
			return fmt.Errorf("%w: material %d id", ErrMissingG3DJField, i)
		}
		for _, tex := range mat.Textures {
			if tex.Type == "" || tex.Filename == "" {
				return fmt.Errorf("%w: material %q texture type/filename", ErrMissingG3DJField, mat.ID)
			}
		}
	}
	for i := range doc.Nodes {
		if err := doc.Nodes[i].validate(); err != nil {
			return err
		}
	}
	for i, anim := range doc.Animations {
		if anim.ID == "" {
			return fmt.Errorf("%w: animation %d id", ErrMissingG3DJField, i)
		}
		for _, bone := range anim.Bones {
			if bone.BoneID == "" {
				return fmt.Errorf("%w: animation %q bone id", ErrMissingG3DJField, anim.ID)
			}
			for _, kf := range bone.Keyframes {
				if err := checkLen(kf.Translation, 3, "keyframe translation"); err != nil {
					return err
				}
				if err := checkLen(kf.Rotation, 4, "keyframe rotation"); err != nil {
					return err
				}
				if err := checkLen(kf.Scale, 3, "keyframe scale"); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (n *G3DNode) validate() error {
	if n.ID == "" {
		return fmt.Errorf("%w: node id", ErrMissingG3DJField)
	}
	if err := checkLen(n.Translation, 3, "node "+n.ID+" translation"); err != nil {
		return err
	}
	if err := checkLen(n.Rotation, 4, "node "+n.ID+" rotation"); err != nil {
		return err
	}
	if err := checkLen(n.Scale, 3, "node "+n.ID+" scale"); err != nil {
		return err
	}
	for _, p := range n.Parts {
		if p.MeshPartID == "" || p.MaterialID == "" {
			return fmt.Errorf("%w: node %q part meshpartid/materialid", ErrMissingG3DJField, n.ID)
		}
	}
	for i := range n.Children {
		if err := n.Children[i].validate(); err != nil {
			return err
		}
	}
	return nil
}

// checkLen accepts an absent vector or one with exactly n components.
func checkLen(v []float32, n int, what string) error {
	if v != nil && len(v) != n {
		return fmt.Errorf("%w: %s has %d components, want %d", ErrInvalidG3DJ, what, len(v), n)
	}
	return nil
}
