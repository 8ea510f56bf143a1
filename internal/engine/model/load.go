package model

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-g3d/internal/engine/material"
	"github.com/Faultbox/midgard-g3d/internal/logger"
	"github.com/Faultbox/midgard-g3d/pkg/formats"
	"github.com/Faultbox/midgard-g3d/pkg/math"
)

// LoadOptions controls how a G3DJ document is converted.
type LoadOptions struct {
	// UnitScale multiplies node and keyframe translations.
	UnitScale float32
	// TimeScale converts key times into animation time.
	TimeScale float32
	// Textures resolves a texture file name. If nil, texture attributes keep
	// only the name and a nil texture.
	Textures func(filename string) (material.Texture, error)
}

// DefaultLoadOptions converts centimetres to metres and millisecond key times
// to frames at 30 fps.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		UnitScale: 0.01,
		TimeScale: 0.03,
	}
}

// Load builds a Model from a parsed G3DJ document. Any unknown reference or
// unsupported value aborts the load.
func Load(doc *formats.G3DJ, opts LoadOptions) (*Model, error) {
	m := New(doc.ID)

	for i := range doc.Meshes {
		mesh, err := loadMesh(&doc.Meshes[i])
		if err != nil {
			return nil, err
		}
		if err := m.AddMesh(mesh); err != nil {
			return nil, err
		}
	}

	for i := range doc.Materials {
		mat, err := loadMaterial(&doc.Materials[i], opts)
		if err != nil {
			return nil, err
		}
		if err := m.AddMaterial(mat); err != nil {
			return nil, err
		}
	}

	for i := range doc.Nodes {
		if err := m.loadNode(NoNode, &doc.Nodes[i], opts); err != nil {
			return nil, err
		}
	}

	for i := range doc.Animations {
		anim, err := m.loadAnim(&doc.Animations[i], opts)
		if err != nil {
			return nil, err
		}
		if len(anim.Nodes) == 0 {
			continue
		}
		if err := m.AddAnim(anim); err != nil {
			return nil, err
		}
	}

	logger.Info("model loaded",
		zap.String("model", m.ID),
		zap.Int("meshes", len(m.Meshes)),
		zap.Int("materials", len(m.materials)),
		zap.Int("nodes", m.Nodes.Len()),
		zap.Int("anims", len(m.anims)))
	return m, nil
}

// LoadFile parses and loads a G3DJ file.
func LoadFile(path string, opts LoadOptions) (*Model, error) {
	doc, err := formats.ParseG3DJFile(path)
	if err != nil {
		return nil, err
	}
	return Load(doc, opts)
}

func loadMesh(data *formats.G3DMesh) (*Mesh, error) {
	attrs, err := ParseVertexAttributes(data.Attributes)
	if err != nil {
		return nil, err
	}
	mesh := &Mesh{Attributes: attrs, Vertices: data.Vertices}

	for _, pd := range data.Parts {
		typ, err := ParsePrimitiveType(pd.Type)
		if err != nil {
			return nil, fmt.Errorf("mesh part %q: %w", pd.ID, err)
		}
		part := &MeshPart{
			ID:     pd.ID,
			Mesh:   mesh,
			Type:   typ,
			Offset: int32(len(mesh.Indices)),
			Count:  int32(len(pd.Indices)),
		}
		mesh.Indices = append(mesh.Indices, pd.Indices...)
		mesh.Parts = append(mesh.Parts, part)
	}
	return mesh, nil
}

func loadMaterial(data *formats.G3DMaterial, opts LoadOptions) (*material.Material, error) {
	mat := material.New(data.ID)

	for _, alias := range material.Family(material.KindFloat) {
		if v, ok := data.Floats[alias.Name()]; ok {
			attr, err := material.NewFloat(alias, v)
			if err != nil {
				return nil, err
			}
			mat.Set(attr)
		}
	}
	for _, alias := range material.Family(material.KindColor) {
		if c, ok := data.Colors[alias.Name()]; ok {
			if len(c) < 3 {
				return nil, fmt.Errorf("material %q color %q: %w", data.ID, alias.Name(), ErrUnsupported)
			}
			attr, err := material.NewColor(alias, math.Color{R: c[0], G: c[1], B: c[2], A: 1})
			if err != nil {
				return nil, err
			}
			mat.Set(attr)
		}
	}
	if opacity, ok := data.Floats["opacity"]; ok && opacity < 1 {
		mat.Set(material.NewNormalBlend())
	}

	for _, td := range data.Textures {
		alias := textureAlias(td.Type)
		if alias == nil {
			return nil, fmt.Errorf("material %q texture type %q: %w", data.ID, td.Type, ErrUnsupported)
		}

		var tex material.Texture
		if opts.Textures != nil {
			var err error
			if tex, err = opts.Textures(td.Filename); err != nil {
				return nil, fmt.Errorf("material %q texture %q: %w", data.ID, td.Filename, err)
			}
		}
		attr, err := material.NewTexture(alias, td.Filename, tex)
		if err != nil {
			return nil, err
		}
		if len(td.UVTranslation) == 2 && len(td.UVScaling) == 2 {
			u, v := td.UVTranslation[0], td.UVTranslation[1]
			attr.SetRegion(u, v, u+td.UVScaling[0], v+td.UVScaling[1])
		}
		mat.Set(attr)
	}
	return mat, nil
}

func textureAlias(usage string) *material.Alias {
	usage = strings.ToLower(usage)
	for _, alias := range material.Family(material.KindTexture) {
		if strings.ToLower(alias.Name()) == usage {
			return alias
		}
	}
	return nil
}

func (m *Model) loadNode(parent NodeID, data *formats.G3DNode, opts LoadOptions) error {
	n := NewNode(data.ID)
	if data.Translation != nil {
		n.Translation = vec3(data.Translation).Scale(opts.UnitScale)
	}
	if data.Rotation != nil {
		n.Rotation = quat(data.Rotation)
	}
	if data.Scale != nil {
		n.Scaling = vec3(data.Scale)
	}

	for _, pd := range data.Parts {
		part, ok := m.MeshPart(pd.MeshPartID)
		if !ok {
			return fmt.Errorf("node %q mesh part %q: %w", data.ID, pd.MeshPartID, ErrUnknownMeshPart)
		}
		mat, ok := m.Material(pd.MaterialID)
		if !ok {
			return fmt.Errorf("node %q material %q: %w", data.ID, pd.MaterialID, ErrUnknownMaterial)
		}
		n.Parts = append(n.Parts, NodePart{Mesh: part, Material: mat})
	}

	id, err := m.Nodes.Add(parent, n)
	if err != nil {
		return err
	}
	for i := range data.Children {
		if err := m.loadNode(id, &data.Children[i], opts); err != nil {
			return err
		}
	}
	return nil
}

func (m *Model) loadAnim(data *formats.G3DAnimation, opts LoadOptions) (*Anim, error) {
	anim := &Anim{ID: data.ID}

	for _, bone := range data.Bones {
		target, ok := m.Nodes.Find(bone.BoneID)
		if !ok {
			return nil, fmt.Errorf("animation %q bone %q: %w", data.ID, bone.BoneID, ErrUnknownNode)
		}

		na := NodeAnim{Node: target}
		for _, kd := range bone.Keyframes {
			t := kd.KeyTime * opts.TimeScale
			if kd.Translation != nil {
				na.Translation = append(na.Translation, Keyframe[math.Vec3]{Time: t, Value: vec3(kd.Translation).Scale(opts.UnitScale)})
			}
			if kd.Rotation != nil {
				na.Rotation = append(na.Rotation, Keyframe[math.Quat]{Time: t, Value: quat(kd.Rotation)})
			}
			if kd.Scale != nil {
				na.Scaling = append(na.Scaling, Keyframe[math.Vec3]{Time: t, Value: vec3(kd.Scale)})
			}
		}
		na.Sort()
		anim.Nodes = append(anim.Nodes, na)
	}

	anim.UpdateDuration()
	return anim, nil
}

func vec3(v []float32) math.Vec3 {
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

func quat(v []float32) math.Quat {
	return math.Quat{X: v[0], Y: v[1], Z: v[2], W: v[3]}
}
