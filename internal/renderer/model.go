package renderer

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex attribute slots shared by every shader.
const (
	AttribPosition  uint32 = 0
	AttribNormal    uint32 = 1
	AttribTexCoords uint32 = 2
	AttribColor     uint32 = 3
)

// VertexData is one interleaved vertex.
type VertexData struct {
	Position  mgl32.Vec3
	Normal    mgl32.Vec3
	TexCoords mgl32.Vec2
	Color     mgl32.Vec4
}

var vertexStride = int32(unsafe.Sizeof(VertexData{}))

// Mesh owns a vertex array and its buffers. Indices are optional; without
// them Draw uses the vertices in order.
type Mesh struct {
	Name     string
	Vertices []VertexData
	Indices  []uint32
	VAO      uint32
	VBO      uint32
	EBO      uint32
}

// Setup creates the GL objects, uploads the data and declares the vertex
// attributes.
func (m *Mesh) Setup(usage uint32) {
	gl.GenVertexArrays(1, &m.VAO)
	gl.BindVertexArray(m.VAO)

	gl.GenBuffers(1, &m.VBO)
	if len(m.Indices) > 0 {
		gl.GenBuffers(1, &m.EBO)
	}
	m.UpdateBuffers(usage)
	m.SetupAttribs()

	gl.BindVertexArray(0)
}

// UpdateBuffers re-uploads Vertices and Indices. Index data is part of the
// vertex array state, so the VAO is bound while uploading.
func (m *Mesh) UpdateBuffers(usage uint32) {
	gl.BindVertexArray(m.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, m.VBO)
	if len(m.Vertices) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*int(vertexStride), gl.Ptr(m.Vertices), usage)
	} else {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, usage)
	}

	if m.EBO != 0 {
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.EBO)
		if len(m.Indices) > 0 {
			gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), usage)
		} else {
			gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, 0, nil, usage)
		}
	}
}

// SetupAttribs declares the interleaved layout on the bound VAO.
func (m *Mesh) SetupAttribs() {
	gl.BindBuffer(gl.ARRAY_BUFFER, m.VBO)

	gl.VertexAttribPointer(AttribPosition, 3, gl.FLOAT, false, vertexStride, gl.PtrOffset(int(unsafe.Offsetof(VertexData{}.Position))))
	gl.EnableVertexAttribArray(AttribPosition)

	gl.VertexAttribPointer(AttribNormal, 3, gl.FLOAT, false, vertexStride, gl.PtrOffset(int(unsafe.Offsetof(VertexData{}.Normal))))
	gl.EnableVertexAttribArray(AttribNormal)

	gl.VertexAttribPointer(AttribTexCoords, 2, gl.FLOAT, false, vertexStride, gl.PtrOffset(int(unsafe.Offsetof(VertexData{}.TexCoords))))
	gl.EnableVertexAttribArray(AttribTexCoords)

	gl.VertexAttribPointer(AttribColor, 4, gl.FLOAT, false, vertexStride, gl.PtrOffset(int(unsafe.Offsetof(VertexData{}.Color))))
	gl.EnableVertexAttribArray(AttribColor)
}

// Draw renders the whole mesh with mode (gl.TRIANGLES, gl.LINE_STRIP...).
func (m *Mesh) Draw(mode uint32) {
	if len(m.Indices) > 0 {
		m.DrawElements(mode, int32(len(m.Indices)), 0)
	} else {
		m.DrawArrays(mode, 0, int32(len(m.Vertices)))
	}
}

func (m *Mesh) DrawArrays(mode uint32, first, count int32) {
	gl.BindVertexArray(m.VAO)
	gl.DrawArrays(mode, first, count)
	gl.BindVertexArray(0)
}

// DrawElements draws count indices starting at index offset first.
func (m *Mesh) DrawElements(mode uint32, count int32, first int) {
	gl.BindVertexArray(m.VAO)
	gl.DrawElements(mode, count, gl.UNSIGNED_INT, gl.PtrOffset(first*4))
	gl.BindVertexArray(0)
}

func (m *Mesh) Delete() {
	if m.EBO != 0 {
		gl.DeleteBuffers(1, &m.EBO)
		m.EBO = 0
	}
	if m.VBO != 0 {
		gl.DeleteBuffers(1, &m.VBO)
		m.VBO = 0
	}
	if m.VAO != 0 {
		gl.DeleteVertexArrays(1, &m.VAO)
		m.VAO = 0
	}
}
