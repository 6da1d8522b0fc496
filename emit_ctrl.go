// Completion: 100% - CALL/JMP/Jcc/PUSH/POP/RET emitter family complete
package cppbe

// CallRel32 emits `call rel32` (0xE8) with a 4-byte placeholder and
// records a PC-relative relocation against symbol, to be resolved by the
// object writer at link time.
func (e *Emitter) CallRel32(symbol string) {
	e.Code.Byte(0xE8)
	off := e.Code.Offset()
	e.Code.Imm32(0)
	e.addReloc(off, symbol, RelocPCRel32, -4)
}

// CallReg emits `call r64` (0xFF /2), an indirect call through a function
// pointer/reference already loaded into reg.
func (e *Emitter) CallReg(reg GPReg) {
	if r, ok := rex(false, false, false, reg.needsREX(), false); ok {
		e.Code.Byte(r)
	}
	e.Code.Byte(0xFF)
	e.Code.Byte(modrmReg(2, uint8(reg)))
}

// branchPatch is a forward-branch placeholder site recorded by Jmp32/
// Jcc32 for the control-flow patcher (FunctionState.DefineLabel/
// EnqueueBranch in functionstate.go) to resolve once the
// label's final offset is known. Indexing into a slice (not a raw
// pointer) per spec.md §9, so the site survives CodeBuffer growth.
type branchPatch struct {
	PatchOffset int // offset of the 4-byte displacement field itself
	Target      InternedString
}

// Jmp32 emits `jmp rel32` (0xE9) with a 4-byte placeholder and returns the
// patch site for the caller to enqueue.
func (e *Emitter) Jmp32() int {
	e.Code.Byte(0xE9)
	off := e.Code.Offset()
	e.Code.Imm32(0)
	return off
}

// Jcc32 emits `jcc rel32` (0x0F 0x8x) with a 4-byte placeholder.
func (e *Emitter) Jcc32(cc condCode) int {
	e.Code.Byte(0x0F)
	e.Code.Byte(0x80 | byte(cc))
	off := e.Code.Offset()
	e.Code.Imm32(0)
	return off
}

// PatchRel32 writes the two's-complement little-endian displacement from
// patchOffset+4 to targetOffset, per spec.md §8.1's branch-resolution
// invariant.
func (e *Emitter) PatchRel32(patchOffset, targetOffset int) {
	disp := int32(targetOffset - (patchOffset + 4))
	e.Code.PatchImm32(patchOffset, uint32(disp))
}

// Push emits `push r64` (0x50+r).
func (e *Emitter) Push(reg GPReg) {
	if r, ok := rex(false, false, false, reg.needsREX(), false); ok {
		e.Code.Byte(r)
	}
	e.Code.Byte(0x50 + reg.low3())
}

// Pop emits `pop r64` (0x58+r).
func (e *Emitter) Pop(reg GPReg) {
	if r, ok := rex(false, false, false, reg.needsREX(), false); ok {
		e.Code.Byte(r)
	}
	e.Code.Byte(0x58 + reg.low3())
}

// Ret emits `ret` (0xC3).
func (e *Emitter) Ret() { e.Code.Byte(0xC3) }

// SubRspImm32 emits `sub rsp, imm32`, used by the prologue with a
// placeholder that's backpatched once the final frame size is known.
func (e *Emitter) SubRspImm32(imm uint32) {
	e.Code.Byte(0x48)
	e.Code.Byte(0x81)
	e.Code.Byte(modrmReg(5, uint8(RSP)))
	e.Code.Imm32(imm)
}

// AddRspImm32 emits `add rsp, imm32` (epilogue tear-down, or the
// EH-variant `lea rbp, [rsp+imm32]` callers build from LeaFrameDisp
// instead).
func (e *Emitter) AddRspImm32(imm uint32) {
	e.Code.Byte(0x48)
	e.Code.Byte(0x81)
	e.Code.Byte(modrmReg(0, uint8(RSP)))
	e.Code.Imm32(imm)
}

// MovRspToRbp emits `mov rbp, rsp`, the non-EH prologue's frame
// establishment per spec.md §4.3.
func (e *Emitter) MovRspToRbp() { e.MovRegToReg(RBP, RSP, 64) }
