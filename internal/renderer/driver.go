package renderer

import (
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// ShaderStage is the GL enum of a programmable pipeline stage.
type ShaderStage uint32

const (
	VertexShader         ShaderStage = gl.VERTEX_SHADER
	FragmentShader       ShaderStage = gl.FRAGMENT_SHADER
	GeometryShader       ShaderStage = gl.GEOMETRY_SHADER
	TessControlShader    ShaderStage = gl.TESS_CONTROL_SHADER
	TessEvaluationShader ShaderStage = gl.TESS_EVALUATION_SHADER
)

func (s ShaderStage) String() string {
	switch s {
	case VertexShader:
		return "VERTEX"
	case FragmentShader:
		return "FRAGMENT"
	case GeometryShader:
		return "GEOMETRY"
	case TessControlShader:
		return "TESS_CONTROL"
	case TessEvaluationShader:
		return "TESS_EVALUATION"
	}
	return "UNKNOWN"
}

// Driver is the subset of the GL API used by programs, uniforms and uniform
// blocks. GLDriver forwards to go-gl; tests substitute a recording fake.
type Driver interface {
	CreateProgram() uint32
	DeleteProgram(program uint32)
	UseProgram(program uint32)
	LinkProgram(program uint32) (ok bool, infoLog string)

	CreateShader(stage ShaderStage) uint32
	CompileShader(shader uint32, source string) (ok bool, infoLog string)
	DeleteShader(shader uint32)
	AttachShader(program, shader uint32)
	DetachShader(program, shader uint32)

	GetUniformLocation(program uint32, name string) int32
	GetUniformBlockIndex(program uint32, name string) uint32
	UniformBlockBinding(program, blockIndex, binding uint32)
	GetAttribLocation(program uint32, name string) int32
	BindAttribLocation(program, index uint32, name string)

	Uniform1i(loc int32, v int32)
	Uniform1ui(loc int32, v uint32)
	Uniform1f(loc int32, v float32)
	// Uniformfv, Uniformiv and Uniformuiv upload len(values)/components
	// vectors of the given width (1 to 4).
	Uniformfv(loc int32, components int, values []float32)
	Uniformiv(loc int32, components int, values []int32)
	Uniformuiv(loc int32, components int, values []uint32)
	// UniformMatrixfv uploads one dim x dim column-major matrix.
	UniformMatrixfv(loc int32, dim int, values []float32)

	GenBuffer() uint32
	DeleteBuffer(buffer uint32)
	BindBuffer(target, buffer uint32)
	BufferData(target uint32, data []byte, usage uint32)
	BufferSubData(target uint32, offset int, data []byte)
	BindBufferBase(target, index, buffer uint32)

	GetError() uint32
}

// GLDriver talks to the current OpenGL context. gl.Init must have succeeded
// on the calling thread.
type GLDriver struct{}

var _ Driver = GLDriver{}

func cstr(s string) *uint8 {
	if !strings.HasSuffix(s, "\x00") {
		s += "\x00"
	}
	return gl.Str(s)
}

func (GLDriver) CreateProgram() uint32        { return gl.CreateProgram() }
func (GLDriver) DeleteProgram(program uint32) { gl.DeleteProgram(program) }
func (GLDriver) UseProgram(program uint32)    { gl.UseProgram(program) }

func (GLDriver) LinkProgram(program uint32) (bool, string) {
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	var logLength int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

	infoLog := ""
	if logLength > 1 {
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		infoLog = strings.TrimRight(log, "\x00")
	}
	return status != gl.FALSE, infoLog
}

func (GLDriver) CreateShader(stage ShaderStage) uint32 { return gl.CreateShader(uint32(stage)) }

func (GLDriver) CompileShader(shader uint32, source string) (bool, string) {
	if !strings.HasSuffix(source, "\x00") {
		source += "\x00"
	}
	cSources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, cSources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	var logLength int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

	infoLog := ""
	if logLength > 1 {
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		infoLog = strings.TrimRight(log, "\x00")
	}
	return status != gl.FALSE, infoLog
}

func (GLDriver) DeleteShader(shader uint32)          { gl.DeleteShader(shader) }
func (GLDriver) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }
func (GLDriver) DetachShader(program, shader uint32) { gl.DetachShader(program, shader) }

func (GLDriver) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, cstr(name))
}

func (GLDriver) GetUniformBlockIndex(program uint32, name string) uint32 {
	return gl.GetUniformBlockIndex(program, cstr(name))
}

func (GLDriver) UniformBlockBinding(program, blockIndex, binding uint32) {
	gl.UniformBlockBinding(program, blockIndex, binding)
}

func (GLDriver) GetAttribLocation(program uint32, name string) int32 {
	return gl.GetAttribLocation(program, cstr(name))
}

func (GLDriver) BindAttribLocation(program, index uint32, name string) {
	gl.BindAttribLocation(program, index, cstr(name))
}

func (GLDriver) Uniform1i(loc int32, v int32)   { gl.Uniform1i(loc, v) }
func (GLDriver) Uniform1ui(loc int32, v uint32) { gl.Uniform1ui(loc, v) }
func (GLDriver) Uniform1f(loc int32, v float32) { gl.Uniform1f(loc, v) }

func (GLDriver) Uniformfv(loc int32, components int, values []float32) {
	if len(values) == 0 {
		return
	}
	count := int32(len(values) / components)
	switch components {
	case 1:
		gl.Uniform1fv(loc, count, &values[0])
	case 2:
		gl.Uniform2fv(loc, count, &values[0])
	case 3:
		gl.Uniform3fv(loc, count, &values[0])
	case 4:
		gl.Uniform4fv(loc, count, &values[0])
	}
}

func (GLDriver) Uniformiv(loc int32, components int, values []int32) {
	if len(values) == 0 {
		return
	}
	count := int32(len(values) / components)
	switch components {
	case 1:
		gl.Uniform1iv(loc, count, &values[0])
	case 2:
		gl.Uniform2iv(loc, count, &values[0])
	case 3:
		gl.Uniform3iv(loc, count, &values[0])
	case 4:
		gl.Uniform4iv(loc, count, &values[0])
	}
}

func (GLDriver) Uniformuiv(loc int32, components int, values []uint32) {
	if len(values) == 0 {
		return
	}
	count := int32(len(values) / components)
	switch components {
	case 1:
		gl.Uniform1uiv(loc, count, &values[0])
	case 2:
		gl.Uniform2uiv(loc, count, &values[0])
	case 3:
		gl.Uniform3uiv(loc, count, &values[0])
	case 4:
		gl.Uniform4uiv(loc, count, &values[0])
	}
}

func (GLDriver) UniformMatrixfv(loc int32, dim int, values []float32) {
	if len(values) < dim*dim {
		return
	}
	switch dim {
	case 2:
		gl.UniformMatrix2fv(loc, 1, false, &values[0])
	case 3:
		gl.UniformMatrix3fv(loc, 1, false, &values[0])
	case 4:
		gl.UniformMatrix4fv(loc, 1, false, &values[0])
	}
}

func (GLDriver) GenBuffer() uint32 {
	var buffer uint32
	gl.GenBuffers(1, &buffer)
	return buffer
}

func (GLDriver) DeleteBuffer(buffer uint32)       { gl.DeleteBuffers(1, &buffer) }
func (GLDriver) BindBuffer(target, buffer uint32) { gl.BindBuffer(target, buffer) }

func (GLDriver) BufferData(target uint32, data []byte, usage uint32) {
	if len(data) == 0 {
		gl.BufferData(target, 0, nil, usage)
		return
	}
	gl.BufferData(target, len(data), gl.Ptr(data), usage)
}

func (GLDriver) BufferSubData(target uint32, offset int, data []byte) {
	if len(data) == 0 {
		return
	}
	gl.BufferSubData(target, offset, len(data), gl.Ptr(data))
}

func (GLDriver) BindBufferBase(target, index, buffer uint32) {
	gl.BindBufferBase(target, index, buffer)
}

func (GLDriver) GetError() uint32 { return gl.GetError() }
