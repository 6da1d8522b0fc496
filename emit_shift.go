// Completion: 100% - Shift-by-CL and unary ALU op emitters complete
package cppbe

// ShiftKind selects which of the three D3 /n shift variants to emit.
type ShiftKind uint8

const (
	ShiftLeft          ShiftKind = 4 // SHL, /4
	ShiftRightLogical  ShiftKind = 5 // SHR, /5 (unsigned)
	ShiftRightArith    ShiftKind = 7 // SAR, /7 (signed)
)

// ShiftByCL emits `op dst, cl` (0xD3 /n). The caller is responsible for
// having already moved the shift count into CL (spec.md §4.4 Shifts).
func (e *Emitter) ShiftByCL(kind ShiftKind, dst GPReg, sizeBits int) {
	if sizeBits == 16 {
		e.Code.Byte(0x66)
	}
	w := sizeBits == 64
	if r, ok := rex(w, false, false, dst.needsREX(), false); ok {
		e.Code.Byte(r)
	}
	e.Code.Byte(0xD3)
	e.Code.Byte(modrmReg(uint8(kind), uint8(dst)))
}

// Not emits `not dst` (0xF7 /2).
func (e *Emitter) Not(dst GPReg, sizeBits int) { e.unaryF7(2, dst, sizeBits) }

// Neg emits `neg dst` (0xF7 /3).
func (e *Emitter) Neg(dst GPReg, sizeBits int) { e.unaryF7(3, dst, sizeBits) }

func (e *Emitter) unaryF7(ext uint8, dst GPReg, sizeBits int) {
	if sizeBits == 16 {
		e.Code.Byte(0x66)
	}
	w := sizeBits == 64
	if r, ok := rex(w, false, false, dst.needsREX(), false); ok {
		e.Code.Byte(r)
	}
	e.Code.Byte(0xF7)
	e.Code.Byte(modrmReg(ext, uint8(dst)))
}

// IncDecReg emits `inc`/`dec dst` via 0xFF /0 or /1. Note spec.md's
// reminder: the one-byte 0x40+r/0x48+r INC/DEC forms are illegal in
// 64-bit mode (those encodings were repurposed as REX prefixes), so the
// two-byte 0xFF group is used unconditionally even though spec.md's prose
// also mentions 0x83 /0 — both exist on real silicon; 0xFF avoids the
// immediate byte entirely.
func (e *Emitter) IncDecReg(dst GPReg, sizeBits int, isInc bool) {
	if sizeBits == 16 {
		e.Code.Byte(0x66)
	}
	w := sizeBits == 64
	if r, ok := rex(w, false, false, dst.needsREX(), false); ok {
		e.Code.Byte(r)
	}
	e.Code.Byte(0xFF)
	ext := uint8(1)
	if isInc {
		ext = 0
	}
	e.Code.Byte(modrmReg(ext, uint8(dst)))
}

// SetCC emits `setCC dst8` (0x0F 0x9x /0), with a REX prefix forced when
// dst is one of SPL/BPL/SIL/DIL (otherwise those encodings mean AH/BH/CH/DH).
func (e *Emitter) SetCC(cc condCode, dst GPReg) {
	if r, ok := rex(false, false, false, dst.needsREX(), needsRexForByteReg(dst)); ok {
		e.Code.Byte(r)
	}
	e.Code.Byte(0x0F)
	e.Code.Byte(0x90 | byte(cc))
	e.Code.Byte(modrmReg(0, uint8(dst)))
}

// Cmp emits `cmp dst, src` using the shared ALU-register encoding.
func (e *Emitter) Cmp(dst, src GPReg, sizeBits int) { e.BinaryRegToReg(aluCmp, dst, src, sizeBits) }

// CmpImm32 emits `cmp dst, imm32`.
func (e *Emitter) CmpImm32(dst GPReg, imm uint32, sizeBits int) {
	e.BinaryImm32ToReg(aluCmp, dst, imm, sizeBits)
}
