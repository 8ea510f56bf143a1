package renderer

import (
	"errors"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-g3d/internal/engine/material"
	"github.com/Faultbox/midgard-g3d/internal/engine/model"
	"github.com/Faultbox/midgard-g3d/internal/logger"
)

// Vertex attribute locations shared with the model shader templates.
const (
	locPosition = 0
	locNormal   = 1
	locTexCoord = 2
)

// gpuMesh holds the GL buffers of one model.Mesh.
type gpuMesh struct {
	vao, vbo, ebo uint32
}

// glDevice uploads meshes on first draw and keeps them until disposed.
type glDevice struct {
	meshes map[*model.Mesh]*gpuMesh
}

func newGLDevice() *glDevice {
	return &glDevice{meshes: make(map[*model.Mesh]*gpuMesh)}
}

func (d *glDevice) SetBlend(blend *material.BlendAttr) {
	if blend == nil {
		gl.Disable(gl.BLEND)
		gl.DepthMask(true)
		return
	}
	gl.Enable(gl.BLEND)
	gl.BlendFunc(uint32(blend.Src), uint32(blend.Dst))
	gl.DepthMask(false)
}

func (d *glDevice) DrawPart(part *model.MeshPart) error {
	m, err := d.upload(part.Mesh)
	if err != nil {
		return err
	}
	gl.BindVertexArray(m.vao)
	gl.DrawElements(uint32(part.Type), part.Count, gl.UNSIGNED_SHORT, gl.PtrOffset(int(part.Offset)*2))
	gl.BindVertexArray(0)
	return nil
}

func (d *glDevice) upload(mesh *model.Mesh) (*gpuMesh, error) {
	if m, ok := d.meshes[mesh]; ok {
		return m, nil
	}
	if len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
		return nil, errors.New("empty mesh")
	}

	m := &gpuMesh{}
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*4, unsafe.Pointer(&mesh.Vertices[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*2, unsafe.Pointer(&mesh.Indices[0]), gl.STATIC_DRAW)

	stride := int32(mesh.Stride() * 4)
	offset := 0
	for _, a := range mesh.Attributes {
		if loc, ok := attribLocation(a); ok {
			gl.VertexAttribPointer(loc, int32(a.Components), gl.FLOAT, false, stride, gl.PtrOffset(offset*4))
			gl.EnableVertexAttribArray(loc)
		}
		offset += a.Components
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	d.meshes[mesh] = m

	logger.Debug("mesh uploaded",
		zap.Uint32("vao", m.vao),
		zap.Int("vertices", len(mesh.Vertices)/mesh.Stride()),
		zap.Int("indices", len(mesh.Indices)),
	)
	return m, nil
}

// attribLocation maps a vertex attribute to its shader location. Only the
// first texture coordinate set is bound.
func attribLocation(a model.VertexAttribute) (uint32, bool) {
	switch a.Usage {
	case model.UsagePosition:
		return locPosition, true
	case model.UsageNormal:
		return locNormal, true
	case model.UsageTexCoord:
		return locTexCoord, a.Unit == 0
	}
	return 0, false
}

func (d *glDevice) Release(mesh *model.Mesh) {
	m, ok := d.meshes[mesh]
	if !ok {
		return
	}
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteBuffers(1, &m.ebo)
	delete(d.meshes, mesh)
}

func (d *glDevice) Dispose() {
	for mesh := range d.meshes {
		d.Release(mesh)
	}
}
