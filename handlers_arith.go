// Completion: 100% - Arithmetic/comparison opcode handlers complete
package cppbe

// handleBinaryOp lowers Add/Sub/And/Or/Xor/Mul/Div/Mod/UDiv/Shl/Shr and
// the six comparisons, dispatching on the operand type and opcode.
func handleBinaryOp(fs *FunctionState, op Opcode, b BinaryOp, loc SourceLocation) error {
	if b.Lhs.Type == TypeFloat {
		return handleFloatBinaryOp(fs, op, b)
	}
	lhs := MaterializeInt(fs, b.Lhs, 5)
	rhs := MaterializeInt(fs, b.Rhs, 4)
	sizeBits := b.Lhs.SizeInBits
	if sizeBits < 32 {
		sizeBits = 32
	}

	switch op {
	case OpAdd:
		fs.Emitter.BinaryRegToReg(aluAdd, lhs, rhs, sizeBits)
	case OpSub:
		fs.Emitter.BinaryRegToReg(aluSub, lhs, rhs, sizeBits)
	case OpAnd:
		fs.Emitter.BinaryRegToReg(aluAnd, lhs, rhs, sizeBits)
	case OpOr:
		fs.Emitter.BinaryRegToReg(aluOr, lhs, rhs, sizeBits)
	case OpXor:
		fs.Emitter.BinaryRegToReg(aluXor, lhs, rhs, sizeBits)
	case OpMul:
		fs.Emitter.Imul(lhs, rhs, sizeBits)
	case OpDiv, OpMod, OpUDiv:
		return lowerDivMod(fs, op, lhs, rhs, sizeBits, b)
	case OpShl:
		return lowerShift(fs, ShiftLeft, lhs, rhs, sizeBits)
	case OpShr:
		kind := ShiftRightArith
		if !b.Lhs.IsSigned() {
			kind = ShiftRightLogical
		}
		return lowerShift(fs, kind, lhs, rhs, sizeBits)
	case OpCmpEQ, OpCmpNE, OpCmpLT, OpCmpLE, OpCmpGT, OpCmpGE:
		cc := conditionFor(condKindFor(op), b.Lhs.IsSigned(), false)
		fs.Emitter.Cmp(lhs, rhs, sizeBits)
		fs.Emitter.SetCC(cc, lhs)
		fs.Emitter.MovZXRegToReg(lhs, lhs, 8)
	default:
		return unsupportedError(loc, "opcode %s is not a BinaryOp", op)
	}
	StoreIntResult(fs, b.Result, lhs, sizeBits, 5)
	return nil
}

func condKindFor(op Opcode) CondKind {
	switch op {
	case OpCmpEQ:
		return CondEQ
	case OpCmpNE:
		return CondNE
	case OpCmpLT:
		return CondLT
	case OpCmpLE:
		return CondLE
	case OpCmpGT:
		return CondGT
	default:
		return CondGE
	}
}

// lowerDivMod implements spec.md §4.4's division/modulo sequence: the
// dividend must occupy RAX (sign- or zero-extended into RDX:RAX/EDX:EAX
// first), the divisor must not itself be RAX or RDX, and the result comes
// from RAX (quotient) or RDX (remainder).
func lowerDivMod(fs *FunctionState, op Opcode, lhs, rhs GPReg, sizeBits int, b BinaryOp) error {
	fs.Regs.FlushSingle(RAX)
	fs.Regs.FlushSingle(RDX)
	divisor := rhs
	if divisor == RAX || divisor == RDX {
		// copy the divisor out of the way before clobbering RAX/RDX
		tmp := fs.Regs.Allocate(3)
		fs.Emitter.MovRegToReg(tmp, divisor, sizeBits)
		divisor = tmp
	}
	fs.Regs.AllocateSpecific(RAX, 0, sizeBits)
	fs.Regs.AllocateSpecific(RDX, 0, sizeBits)
	fs.Emitter.MovRegToReg(RAX, lhs, sizeBits)
	signed := b.Lhs.IsSigned() && op != OpUDiv
	if signed {
		if sizeBits == 64 {
			fs.Emitter.Cqo()
		} else {
			fs.Emitter.Cdq()
		}
		fs.Emitter.Idiv(divisor, sizeBits)
	} else {
		fs.Emitter.XorEdxEdx()
		fs.Emitter.Div(divisor, sizeBits)
	}
	result := RAX
	if op == OpMod {
		result = RDX
	}
	StoreIntResult(fs, b.Result, result, sizeBits, 0)
	return nil
}

func lowerShift(fs *FunctionState, kind ShiftKind, lhs, rhs GPReg, sizeBits int) error {
	fs.Regs.FlushSingle(RCX)
	count := rhs
	if count != RCX {
		fs.Regs.AllocateSpecific(RCX, 0, 8)
		fs.Emitter.MovRegToReg(RCX, rhs, 8)
	}
	fs.Emitter.ShiftByCL(kind, lhs, sizeBits)
	return nil
}

func handleFloatBinaryOp(fs *FunctionState, op Opcode, b BinaryOp) error {
	lhs := MaterializeFloat(fs, b.Lhs, 5)
	rhs := MaterializeFloat(fs, b.Rhs, 4)
	isDouble := b.Lhs.SizeInBits == 64
	switch op {
	case OpAdd:
		fs.Emitter.SSERegToReg(pick(isDouble, opAddsd, opAddss), lhs, rhs)
	case OpSub:
		fs.Emitter.SSERegToReg(pick(isDouble, opSubsd, opSubss), lhs, rhs)
	case OpMul:
		fs.Emitter.SSERegToReg(pick(isDouble, opMulsd, opMulss), lhs, rhs)
	case OpDiv:
		fs.Emitter.SSERegToReg(pick(isDouble, opDivsd, opDivss), lhs, rhs)
	case OpCmpEQ, OpCmpNE, OpCmpLT, OpCmpLE, OpCmpGT, OpCmpGE:
		if isDouble {
			fs.Emitter.Ucomisd(lhs, rhs)
		} else {
			fs.Emitter.Ucomiss(lhs, rhs)
		}
		cc := conditionFor(condKindFor(op), false, true)
		dst := fs.Regs.Allocate(5)
		fs.Emitter.SetCC(cc, dst)
		fs.Emitter.MovZXRegToReg(dst, dst, 8)
		StoreIntResult(fs, b.Result, dst, 32, 5)
		return nil
	default:
		return unsupportedError(SourceLocation{}, "unsupported float binary opcode %s", op)
	}
	off := fs.Frame.NewTemp(b.Result, b.Lhs.SizeInBits)
	fs.Regs.SetXMMStackVariableOffset(lhs, off, isDouble, 5)
	return nil
}

func pick(cond bool, a, b sseOp) sseOp {
	if cond {
		return a
	}
	return b
}

// handleUnaryOp lowers Negate/BitwiseNot/LogicalNot.
func handleUnaryOp(fs *FunctionState, op Opcode, u UnaryOp) error {
	if u.Operand.Type == TypeFloat && op == OpNegate {
		// negation via XOR with the sign-bit mask, the standard scalar-SSE
		// idiom since there's no direct "negate xmm" instruction; the mask
		// is built in a GPR and reaches an XMM register through a scratch
		// stack slot.
		src := MaterializeFloat(fs, u.Operand, 5)
		scratch := fs.Regs.Allocate(5)
		signMask := uint64(1 << 63)
		if u.Operand.SizeInBits == 32 {
			signMask = 1 << 31
		}
		fs.Emitter.MovImm64ToReg(scratch, signMask)
		tmp := TempVar{VarNumber: fs.nextScratchSlot()}
		off := fs.Frame.NewTemp(tmp, 64)
		fs.Emitter.StoreFrame(RBP, off, scratch, fa64)
		maskReg := fs.Regs.AllocateXMM(4)
		fs.Emitter.LoadXMMFrame(maskReg, RBP, off, u.Operand.SizeInBits == 64)
		fs.Emitter.SSERegToReg(sseOp{0x66, 0x57}, src, maskReg) // PXOR-equivalent slot reused for xorps/xorpd
		resOff := fs.Frame.NewTemp(u.Result, u.Operand.SizeInBits)
		fs.Regs.SetXMMStackVariableOffset(src, resOff, u.Operand.SizeInBits == 64, 5)
		return nil
	}
	src := MaterializeInt(fs, u.Operand, 5)
	sizeBits := u.Operand.SizeInBits
	if sizeBits < 32 {
		sizeBits = 32
	}
	switch op {
	case OpNegate:
		fs.Emitter.Neg(src, sizeBits)
	case OpBitwiseNot:
		fs.Emitter.Not(src, sizeBits)
	case OpLogicalNot:
		fs.Emitter.CmpImm32(src, 0, sizeBits)
		fs.Emitter.SetCC(ccE, src)
		fs.Emitter.MovZXRegToReg(src, src, 8)
	default:
		return unsupportedError(SourceLocation{}, "opcode %s is not a UnaryOp", op)
	}
	StoreIntResult(fs, u.Result, src, sizeBits, 5)
	return nil
}
