// Completion: 100% - Scalar SSE emitter family complete
package cppbe

// sseOp bundles the mandatory prefix and secondary opcode byte for one
// scalar SSE instruction (all share the 0x0F primary opcode byte).
type sseOp struct {
	prefix byte // 0xF3 (single) or 0xF2 (double); 0 for UCOMISS which uses 0x66/none
	op2    byte
}

var (
	opMovss   = sseOp{0xF3, 0x10}
	opMovsd   = sseOp{0xF2, 0x10}
	opAddss   = sseOp{0xF3, 0x58}
	opAddsd   = sseOp{0xF2, 0x58}
	opSubss   = sseOp{0xF3, 0x5C}
	opSubsd   = sseOp{0xF2, 0x5C}
	opMulss   = sseOp{0xF3, 0x59}
	opMulsd   = sseOp{0xF2, 0x59}
	opDivss   = sseOp{0xF3, 0x5E}
	opDivsd   = sseOp{0xF2, 0x5E}
	opCvtss2sd = sseOp{0xF3, 0x5A}
	opCvtsd2ss = sseOp{0xF2, 0x5A}
	opUcomiss = sseOp{0x00, 0x2E}
	opUcomisd = sseOp{0x66, 0x2E}
)

// SSERegToReg emits a two-operand scalar SSE instruction (dst <- op(dst,src)
// for arithmetic; dst/src as given for mov/convert/compare).
func (e *Emitter) SSERegToReg(o sseOp, dst, src XMMReg) {
	if o.prefix != 0 {
		e.Code.Byte(o.prefix)
	}
	if r, ok := rex(false, dst.needsREX(), false, src.needsREX(), false); ok {
		e.Code.Byte(r)
	}
	e.Code.Byte(0x0F)
	e.Code.Byte(o.op2)
	e.Code.Byte(modrmReg(uint8(dst), uint8(src)))
}

// CvtSI2SS/CvtSI2SD emit `cvtsi2ss/sd dst(xmm), src(gpr)` (0F 2A), REX.W
// set when the integer source is 64-bit.
func (e *Emitter) CvtSI2SS(dst XMMReg, src GPReg, srcSizeBits int) { e.cvtsi2sx(0xF3, dst, src, srcSizeBits) }
func (e *Emitter) CvtSI2SD(dst XMMReg, src GPReg, srcSizeBits int) { e.cvtsi2sx(0xF2, dst, src, srcSizeBits) }

func (e *Emitter) cvtsi2sx(prefix byte, dst XMMReg, src GPReg, srcSizeBits int) {
	e.Code.Byte(prefix)
	w := srcSizeBits == 64
	if r, ok := rex(w, dst.needsREX(), false, src.needsREX(), false); ok {
		e.Code.Byte(r)
	}
	e.Code.Byte(0x0F)
	e.Code.Byte(0x2A)
	e.Code.Byte(modrmReg(uint8(dst), uint8(src)))
}

// CvtTSS2SI/CvtTSD2SI emit the truncating `cvttss2si/cvttsd2si dst(gpr),
// src(xmm)` (0F 2C).
func (e *Emitter) CvtTSS2SI(dst GPReg, src XMMReg, dstSizeBits int) { e.cvttsx2si(0xF3, dst, src, dstSizeBits) }
func (e *Emitter) CvtTSD2SI(dst GPReg, src XMMReg, dstSizeBits int) { e.cvttsx2si(0xF2, dst, src, dstSizeBits) }

func (e *Emitter) cvttsx2si(prefix byte, dst GPReg, src XMMReg, dstSizeBits int) {
	e.Code.Byte(prefix)
	w := dstSizeBits == 64
	if r, ok := rex(w, dst.needsREX(), false, src.needsREX(), false); ok {
		e.Code.Byte(r)
	}
	e.Code.Byte(0x0F)
	e.Code.Byte(0x2C)
	e.Code.Byte(modrmReg(dst.low3(), src.low3()))
}

// Ucomiss/Ucomisd emit unordered compare; callers follow with SetCC using
// conditionFor(..., isFloat=true) so NaN reads as "not satisfied" for
// every comparison, per spec.md §9.
func (e *Emitter) Ucomiss(a, b XMMReg) { e.SSERegToReg(opUcomiss, a, b) }
func (e *Emitter) Ucomisd(a, b XMMReg) {
	e.Code.Byte(0x66)
	if r, ok := rex(false, a.needsREX(), false, b.needsREX(), false); ok {
		e.Code.Byte(r)
	}
	e.Code.Byte(0x0F)
	e.Code.Byte(0x2E)
	e.Code.Byte(modrmReg(uint8(a), uint8(b)))
}

// LoadXMMFrame/StoreXMMFrame move a scalar float/double between an XMM
// register and a frame slot (MOVSS/MOVSD [rbp+disp]).
func (e *Emitter) LoadXMMFrame(dst XMMReg, base GPReg, disp int32, isDouble bool) {
	e.sseFrame(dst, base, disp, isDouble, true)
}
func (e *Emitter) StoreXMMFrame(src XMMReg, base GPReg, disp int32, isDouble bool) {
	e.sseFrame(src, base, disp, isDouble, false)
}

func (e *Emitter) sseFrame(reg XMMReg, base GPReg, disp int32, isDouble, isLoad bool) {
	if isDouble {
		e.Code.Byte(0xF2)
	} else {
		e.Code.Byte(0xF3)
	}
	if r, ok := rex(false, reg.needsREX(), false, base.needsREX(), false); ok {
		e.Code.Byte(r)
	}
	e.Code.Byte(0x0F)
	if isLoad {
		e.Code.Byte(0x10)
	} else {
		e.Code.Byte(0x11)
	}
	e.emitModRMDisp(reg.low3(), base, disp)
}
