package renderer

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// invalidIndex is GL_INVALID_INDEX, returned for a missing uniform block.
const invalidIndex = ^uint32(0)

// UniformBlock backs a GLSL uniform block with a buffer object bound to a
// fixed binding point. T must be a fixed-size value whose memory layout
// matches the block (std140 padding included).
type UniformBlock[T any] struct {
	Value        T
	BindingIndex uint32

	driver Driver
	buffer uint32
	cache  locationCache
}

func NewUniformBlock[T any](driver Driver, name string, bindingIndex uint32, value T) *UniformBlock[T] {
	return &UniformBlock[T]{
		Value:        value,
		BindingIndex: bindingIndex,
		driver:       driver,
		cache:        newLocationCache(name),
	}
}

func (b *UniformBlock[T]) Name() string { return b.cache.name }

// SetName changes the block name and forgets every memoized index.
func (b *UniformBlock[T]) SetName(name string) { b.cache.setName(name) }

// Buffer is the buffer object, 0 before Setup.
func (b *UniformBlock[T]) Buffer() uint32 { return b.buffer }

// Loc returns the block index in prog, -1 when the program has no such
// block.
func (b *UniformBlock[T]) Loc(prog ProgramHandle) int32 { return b.cache.blockIndex(prog) }

func (b *UniformBlock[T]) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, b.Value); err != nil {
		return nil, fmt.Errorf("encode uniform block %s: %w", b.cache.name, err)
	}
	return buf.Bytes(), nil
}

// Setup creates the buffer on first use, uploads the whole value and binds
// the buffer to the block's binding point.
func (b *UniformBlock[T]) Setup(usage uint32) error {
	data, err := b.bytes()
	if err != nil {
		return err
	}
	if b.buffer == 0 {
		b.buffer = b.driver.GenBuffer()
	}
	b.driver.BindBuffer(gl.UNIFORM_BUFFER, b.buffer)
	b.driver.BufferData(gl.UNIFORM_BUFFER, data, usage)
	b.driver.BindBufferBase(gl.UNIFORM_BUFFER, b.BindingIndex, b.buffer)
	b.driver.BindBuffer(gl.UNIFORM_BUFFER, 0)
	return nil
}

// UpdateBuffer re-uploads Value into the existing buffer.
func (b *UniformBlock[T]) UpdateBuffer() error {
	if b.buffer == 0 {
		return fmt.Errorf("uniform block %s: buffer not set up", b.cache.name)
	}
	data, err := b.bytes()
	if err != nil {
		return err
	}
	b.driver.BindBuffer(gl.UNIFORM_BUFFER, b.buffer)
	b.driver.BufferSubData(gl.UNIFORM_BUFFER, 0, data)
	b.driver.BindBuffer(gl.UNIFORM_BUFFER, 0)
	return nil
}

// BindToProgram associates the program's block with the binding point. It
// returns false when the program does not declare the block.
func (b *UniformBlock[T]) BindToProgram(prog *ShaderProgram) bool {
	prog.Use()
	idx := b.Loc(prog)
	if idx < 0 {
		return false
	}
	prog.BindUniformBlockIndex(uint32(idx), b.BindingIndex)
	return true
}

func (b *UniformBlock[T]) Delete() {
	if b.buffer == 0 {
		return
	}
	b.driver.DeleteBuffer(b.buffer)
	b.buffer = 0
}
