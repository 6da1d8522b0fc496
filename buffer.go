// Completion: 100% - Byte buffer primitives complete
package cppbe

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
)

// CodeBuffer is the append-only byte sink every emitter helper writes
// through. Section buffers (.text, .rdata, .data) are each a CodeBuffer;
// keeping the primitive in one place is what lets the rest of the backend
// treat "emit X" as a value-level operation (spec.md §4.1 design
// rationale).
type CodeBuffer struct {
	buf  bytes.Buffer
	name string
}

// NewCodeBuffer creates a named buffer; the name only shows up in verbose
// tracing.
func NewCodeBuffer(name string) *CodeBuffer {
	return &CodeBuffer{name: name}
}

// Offset is the current write position, i.e. the byte offset the next
// Write* call will land at. Labels and relocation sites are always
// recorded as an Offset captured before the bytes they describe.
func (b *CodeBuffer) Offset() int { return b.buf.Len() }

func (b *CodeBuffer) Byte(v uint8) {
	b.buf.WriteByte(v)
	if Verbose {
		fmt.Fprintf(os.Stderr, " %02x", v)
	}
}

func (b *CodeBuffer) Bytes(bs ...byte) {
	for _, v := range bs {
		b.Byte(v)
	}
}

// Imm8 writes a single signed byte.
func (b *CodeBuffer) Imm8(v int8) { b.Byte(uint8(v)) }

// Imm32 writes a little-endian 32-bit value (signed or unsigned callers
// both want the same four bytes).
func (b *CodeBuffer) Imm32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.Bytes(tmp[:]...)
}

// Imm64 writes a little-endian 64-bit value.
func (b *CodeBuffer) Imm64(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	b.Bytes(tmp[:]...)
}

// PatchImm32 overwrites four bytes previously written by Imm32, used by
// the control-flow patcher and the prologue frame-size backpatcher.
func (b *CodeBuffer) PatchImm32(at int, v uint32) {
	raw := b.buf.Bytes()
	binary.LittleEndian.PutUint32(raw[at:at+4], v)
}

// PatchByte overwrites a single previously written byte.
func (b *CodeBuffer) PatchByte(at int, v uint8) {
	b.buf.Bytes()[at] = v
}

// Data returns the accumulated bytes. Safe to call repeatedly; bytes are
// added only at the end, except where PatchImm32/PatchByte overwrite them
// in place or Truncate rolls them back.
func (b *CodeBuffer) Data() []byte { return b.buf.Bytes() }

// Len is the number of bytes written so far.
func (b *CodeBuffer) Len() int { return b.buf.Len() }

// Truncate discards everything from `at` onward. Used by the per-function
// error-recovery path (spec.md §5, §7) to roll .text back to a function's
// start offset when that function's codegen fails partway through.
func (b *CodeBuffer) Truncate(at int) {
	b.buf.Truncate(at)
}
