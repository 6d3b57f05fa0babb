package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

type uniformCall struct {
	loc    int32
	kind   string
	values []float32
}

// fakeDriver records driver calls. Uniform locations and block indices are
// looked up in per-program tables; missing names resolve to -1 and
// invalidIndex.
type fakeDriver struct {
	nextID uint32

	uniforms map[uint32]map[string]int32
	blocks   map[uint32]map[string]uint32

	uniformQueries map[string]int
	blockQueries   map[string]int

	failCompile map[string]bool // source -> fail
	failLink    bool

	used       uint32
	attached   map[uint32][]uint32
	deleted    map[uint32]bool
	linked     []uint32
	calls      []uniformCall
	blockBinds map[uint32]uint32 // block index -> binding
	bufferBase map[uint32]uint32 // binding -> buffer
	bufferData map[uint32][]byte
	bound      uint32
	errors     []uint32
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		nextID:         1,
		uniforms:       make(map[uint32]map[string]int32),
		blocks:         make(map[uint32]map[string]uint32),
		uniformQueries: make(map[string]int),
		blockQueries:   make(map[string]int),
		failCompile:    make(map[string]bool),
		attached:       make(map[uint32][]uint32),
		deleted:        make(map[uint32]bool),
		blockBinds:     make(map[uint32]uint32),
		bufferBase:     make(map[uint32]uint32),
		bufferData:     make(map[uint32][]byte),
	}
}

func (d *fakeDriver) id() uint32 {
	id := d.nextID
	d.nextID++
	return id
}

// setUniform declares an active uniform in program.
func (d *fakeDriver) setUniform(program uint32, name string, loc int32) {
	if d.uniforms[program] == nil {
		d.uniforms[program] = make(map[string]int32)
	}
	d.uniforms[program][name] = loc
}

func (d *fakeDriver) setBlock(program uint32, name string, idx uint32) {
	if d.blocks[program] == nil {
		d.blocks[program] = make(map[string]uint32)
	}
	d.blocks[program][name] = idx
}

func (d *fakeDriver) CreateProgram() uint32        { return d.id() }
func (d *fakeDriver) DeleteProgram(program uint32) { d.deleted[program] = true }
func (d *fakeDriver) UseProgram(program uint32)    { d.used = program }

func (d *fakeDriver) LinkProgram(program uint32) (bool, string) {
	if d.failLink {
		return false, "error: undefined symbol"
	}
	d.linked = append(d.linked, program)
	return true, ""
}

func (d *fakeDriver) CreateShader(ShaderStage) uint32 { return d.id() }

func (d *fakeDriver) CompileShader(_ uint32, source string) (bool, string) {
	if d.failCompile[source] {
		return false, "0:1(1): error: syntax error"
	}
	return true, ""
}

func (d *fakeDriver) DeleteShader(shader uint32) { d.deleted[shader] = true }

func (d *fakeDriver) AttachShader(program, shader uint32) {
	d.attached[program] = append(d.attached[program], shader)
}

func (d *fakeDriver) DetachShader(program, shader uint32) {
	list := d.attached[program]
	for i, s := range list {
		if s == shader {
			d.attached[program] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

func (d *fakeDriver) GetUniformLocation(program uint32, name string) int32 {
	d.uniformQueries[name]++
	if loc, ok := d.uniforms[program][name]; ok {
		return loc
	}
	return -1
}

func (d *fakeDriver) GetUniformBlockIndex(program uint32, name string) uint32 {
	d.blockQueries[name]++
	if idx, ok := d.blocks[program][name]; ok {
		return idx
	}
	return invalidIndex
}

func (d *fakeDriver) UniformBlockBinding(_, blockIndex, binding uint32) {
	d.blockBinds[blockIndex] = binding
}

func (d *fakeDriver) GetAttribLocation(uint32, string) int32    { return -1 }
func (d *fakeDriver) BindAttribLocation(uint32, uint32, string) {}

func (d *fakeDriver) record(loc int32, kind string, values []float32) {
	d.calls = append(d.calls, uniformCall{loc: loc, kind: kind, values: values})
}

func (d *fakeDriver) Uniform1i(loc int32, v int32)   { d.record(loc, "1i", []float32{float32(v)}) }
func (d *fakeDriver) Uniform1ui(loc int32, v uint32) { d.record(loc, "1ui", []float32{float32(v)}) }
func (d *fakeDriver) Uniform1f(loc int32, v float32) { d.record(loc, "1f", []float32{v}) }

func (d *fakeDriver) Uniformfv(loc int32, n int, values []float32) {
	d.record(loc, fmt.Sprintf("%dfv", n), append([]float32(nil), values...))
}

func (d *fakeDriver) Uniformiv(loc int32, n int, values []int32) {
	out := make([]float32, len(values))
	for i, v := range values {
		out[i] = float32(v)
	}
	d.record(loc, fmt.Sprintf("%div", n), out)
}

func (d *fakeDriver) Uniformuiv(loc int32, n int, values []uint32) {
	out := make([]float32, len(values))
	for i, v := range values {
		out[i] = float32(v)
	}
	d.record(loc, fmt.Sprintf("%duiv", n), out)
}

func (d *fakeDriver) UniformMatrixfv(loc int32, dim int, values []float32) {
	d.record(loc, fmt.Sprintf("mat%d", dim), append([]float32(nil), values...))
}

func (d *fakeDriver) GenBuffer() uint32               { return d.id() }
func (d *fakeDriver) DeleteBuffer(buffer uint32)      { d.deleted[buffer] = true }
func (d *fakeDriver) BindBuffer(_ uint32, buf uint32) { d.bound = buf }

func (d *fakeDriver) BufferData(_ uint32, data []byte, _ uint32) {
	d.bufferData[d.bound] = append([]byte(nil), data...)
}

func (d *fakeDriver) BufferSubData(_ uint32, offset int, data []byte) {
	copy(d.bufferData[d.bound][offset:], data)
}

func (d *fakeDriver) BindBufferBase(_, index, buffer uint32) { d.bufferBase[index] = buffer }

func (d *fakeDriver) GetError() uint32 {
	if len(d.errors) == 0 {
		return gl.NO_ERROR
	}
	code := d.errors[0]
	d.errors = d.errors[1:]
	return code
}

// fakeProgram is a bare ProgramHandle counting its queries.
type fakeProgram struct {
	object   uint32
	revision uint32
	locs     map[string]int32
	blocks   map[string]int32
	queries  int
}

func (p *fakeProgram) Object() uint32   { return p.object }
func (p *fakeProgram) Revision() uint32 { return p.revision }

func (p *fakeProgram) UniformLocation(name string) int32 {
	p.queries++
	if loc, ok := p.locs[name]; ok {
		return loc
	}
	return -1
}

func (p *fakeProgram) UniformBlockIndex(name string) int32 {
	p.queries++
	if idx, ok := p.blocks[name]; ok {
		return idx
	}
	return -1
}
