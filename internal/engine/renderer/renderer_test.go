package renderer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-g3d/internal/engine/material"
	"github.com/Faultbox/midgard-g3d/internal/engine/model"
	"github.com/Faultbox/midgard-g3d/internal/engine/shader"
	"github.com/Faultbox/midgard-g3d/pkg/math"
)

type nopProgram struct{}

func (nopProgram) Use()                                {}
func (nopProgram) Dispose()                            {}
func (nopProgram) SetInt(string, int32)                {}
func (nopProgram) SetFloat(string, ...float32)         {}
func (nopProgram) SetMatrix4(string, *math.Mat4)       {}
func (nopProgram) BindTexture(int32, material.Texture) {}

// failingCompiler fails every compile while fail is set.
type failingCompiler struct {
	compiles int
	fail     bool
}

func (c *failingCompiler) Compile(vertex, fragment string) (shader.Program, error) {
	c.compiles++
	if c.fail {
		return nil, errors.New("0:12: syntax error")
	}
	return nopProgram{}, nil
}

type drawCall struct {
	part  string
	blend bool
}

type fakeDevice struct {
	blend    *material.BlendAttr
	calls    []drawCall
	err      error
	released []*model.Mesh
}

func (d *fakeDevice) SetBlend(blend *material.BlendAttr) { d.blend = blend }

func (d *fakeDevice) Release(mesh *model.Mesh) { d.released = append(d.released, mesh) }

func (d *fakeDevice) DrawPart(part *model.MeshPart) error {
	if d.err != nil {
		return d.err
	}
	d.calls = append(d.calls, drawCall{part.ID, d.blend != nil})
	return nil
}

func newScene(t *testing.T) *model.Instance {
	t.Helper()

	m := model.New("scene")
	solid := material.New("solid")
	glass := material.New("glass", material.NewNormalBlend())
	require.NoError(t, m.AddMaterial(solid))
	require.NoError(t, m.AddMaterial(glass))

	root := model.NewNode("root")
	root.Parts = []model.NodePart{
		{Mesh: &model.MeshPart{ID: "window"}, Material: glass},
		{Mesh: &model.MeshPart{ID: "wall"}, Material: solid},
	}
	id, err := m.Nodes.Add(model.NoNode, root)
	require.NoError(t, err)

	child := model.NewNode("child")
	child.Parts = []model.NodePart{{Mesh: &model.MeshPart{ID: "door"}, Material: solid}}
	_, err = m.Nodes.Add(id, child)
	require.NoError(t, err)

	inst, err := model.NewInstance(m)
	require.NoError(t, err)
	return inst
}

func TestDrawOrdersBlendedLast(t *testing.T) {
	compiler := &failingCompiler{}
	device := &fakeDevice{}
	r := newRenderer(Config{Width: 640, Height: 480}, shader.NewCache(compiler, shader.DefaultTemplates()), device)

	stats := r.Draw(&shader.Frame{}, nil, newScene(t))

	assert.Equal(t, Stats{Drawn: 3}, stats)
	assert.Equal(t, []drawCall{
		{"wall", false},
		{"door", false},
		{"window", true},
	}, device.calls)
	assert.Equal(t, 2, compiler.compiles)

	r.End()
	assert.Nil(t, device.blend)
}

func TestDrawSkipsFailedViews(t *testing.T) {
	compiler := &failingCompiler{fail: true}
	device := &fakeDevice{}
	r := newRenderer(Config{}, shader.NewCache(compiler, shader.DefaultTemplates()), device)

	stats := r.Draw(&shader.Frame{}, nil, newScene(t))
	assert.Equal(t, Stats{Skipped: 3}, stats)
	assert.Empty(t, device.calls)

	compiler.fail = false
	device.err = errors.New("empty mesh")
	stats = r.Draw(&shader.Frame{}, nil, newScene(t))
	assert.Equal(t, Stats{Skipped: 3}, stats)
}

func TestDrawSkipsViewsWithoutMaterial(t *testing.T) {
	m := model.New("bare")
	n := model.NewNode("n")
	n.Parts = []model.NodePart{{Mesh: &model.MeshPart{ID: "p"}}}
	_, err := m.Nodes.Add(model.NoNode, n)
	require.NoError(t, err)
	inst, err := model.NewInstance(m)
	require.NoError(t, err)

	device := &fakeDevice{}
	r := newRenderer(Config{}, shader.NewCache(&failingCompiler{}, shader.DefaultTemplates()), device)
	assert.Equal(t, Stats{Skipped: 1}, r.Draw(&shader.Frame{}, nil, inst))
}

func TestAttribLocation(t *testing.T) {
	tests := []struct {
		attr model.VertexAttribute
		loc  uint32
		ok   bool
	}{
		{model.VertexAttribute{Usage: model.UsagePosition, Components: 3}, locPosition, true},
		{model.VertexAttribute{Usage: model.UsageNormal, Components: 3}, locNormal, true},
		{model.VertexAttribute{Usage: model.UsageTexCoord, Components: 2}, locTexCoord, true},
		{model.VertexAttribute{Usage: model.UsageTexCoord, Components: 2, Unit: 1}, locTexCoord, false},
	}
	for _, tt := range tests {
		loc, ok := attribLocation(tt.attr)
		assert.Equal(t, tt.ok, ok)
		if ok {
			assert.Equal(t, tt.loc, loc)
		}
	}
}

func TestRendererReleasesModelMeshes(t *testing.T) {
	m := model.New("crate")
	a := &model.Mesh{Parts: []*model.MeshPart{{ID: "lid"}}}
	b := &model.Mesh{Parts: []*model.MeshPart{{ID: "box"}}}
	require.NoError(t, m.AddMesh(a))
	require.NoError(t, m.AddMesh(b))

	device := &fakeDevice{}
	r := newRenderer(Config{}, shader.NewCache(&failingCompiler{}, shader.DefaultTemplates()), device)
	r.Release(m)

	assert.Equal(t, []*model.Mesh{a, b}, device.released)
}
