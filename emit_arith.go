// Completion: 100% - ADD/SUB/AND/OR/XOR/CMP/IMUL register-form emitters complete
package cppbe

// arithOp is the opcode byte used for `op r/m, r` (dest is rm, source is
// reg field) for each of the six ALU opcodes below.
type arithOp byte

const (
	aluAdd arithOp = 0x01
	aluOr  arithOp = 0x09
	aluAnd arithOp = 0x21
	aluSub arithOp = 0x29
	aluXor arithOp = 0x31
	aluCmp arithOp = 0x39
)

// BinaryRegToReg emits `op dst, src` (ADD/SUB/AND/OR/XOR/CMP), dst <- op(dst, src).
func (e *Emitter) BinaryRegToReg(op arithOp, dst, src GPReg, sizeBits int) {
	if sizeBits == 16 {
		e.Code.Byte(0x66)
	}
	w := sizeBits == 64
	if r, ok := rex(w, src.needsREX(), false, dst.needsREX(), false); ok {
		e.Code.Byte(r)
	}
	e.Code.Byte(byte(op))
	e.Code.Byte(modrmReg(uint8(src), uint8(dst)))
}

// aluImmExt is the /n extension digit for the imm8/imm32 0x81/0x83 group,
// selecting which ALU op an immediate form performs.
var aluImmExt = map[arithOp]uint8{
	aluAdd: 0, aluOr: 1, aluAnd: 4, aluSub: 5, aluXor: 6, aluCmp: 7,
}

// BinaryImm32ToReg emits `op dst, imm32` via the 0x81 /n group.
func (e *Emitter) BinaryImm32ToReg(op arithOp, dst GPReg, imm uint32, sizeBits int) {
	if sizeBits == 16 {
		e.Code.Byte(0x66)
	}
	w := sizeBits == 64
	if r, ok := rex(w, false, false, dst.needsREX(), false); ok {
		e.Code.Byte(r)
	}
	e.Code.Byte(0x81)
	e.Code.Byte(modrmReg(aluImmExt[op], uint8(dst)))
	e.Code.Imm32(imm)
}

// BinaryImm8ToReg emits the shorter `op dst, imm8` sign-extended form
// (0x83 /n), used whenever the immediate fits in a signed byte.
func (e *Emitter) BinaryImm8ToReg(op arithOp, dst GPReg, imm int8, sizeBits int) {
	if sizeBits == 16 {
		e.Code.Byte(0x66)
	}
	w := sizeBits == 64
	if r, ok := rex(w, false, false, dst.needsREX(), false); ok {
		e.Code.Byte(r)
	}
	e.Code.Byte(0x83)
	e.Code.Byte(modrmReg(aluImmExt[op], uint8(dst)))
	e.Code.Imm8(imm)
}

// Imul emits `imul dst, src` (two-byte opcode 0x0F 0xAF; unlike the other
// ALU ops, the destination is the reg field, not rm — spec.md §4.4 note).
func (e *Emitter) Imul(dst, src GPReg, sizeBits int) {
	w := sizeBits == 64
	if r, ok := rex(w, dst.needsREX(), false, src.needsREX(), false); ok {
		e.Code.Byte(r)
	}
	e.Code.Byte(0x0F)
	e.Code.Byte(0xAF)
	e.Code.Byte(modrmReg(dst.low3(), src.low3()))
}
