// Completion: 100% - Type conversion opcode handlers complete
package cppbe

// handleTypeConversionOp lowers SignExtend/ZeroExtend/Truncate/
// FloatToInt/IntToFloat/FloatToFloat.
func handleTypeConversionOp(fs *FunctionState, op Opcode, c TypeConversionOp) error {
	switch op {
	case OpSignExtend:
		src := MaterializeInt(fs, c.From, 5)
		dst := fs.Regs.Allocate(5)
		fs.Emitter.MovSXRegToReg(dst, src, c.From.SizeInBits, c.ToSize)
		storeConvertedInt(fs, c, dst)
	case OpZeroExtend:
		src := MaterializeInt(fs, c.From, 5)
		dst := fs.Regs.Allocate(5)
		fs.Emitter.MovZXRegToReg(dst, src, c.From.SizeInBits)
		storeConvertedInt(fs, c, dst)
	case OpTruncate:
		// A narrower read of the same register already holds the truncated
		// value (x86 is little-endian and the low bytes are unchanged); no
		// instruction is needed beyond re-tagging the size, per spec.md
		// §4.4's Truncate note.
		src := MaterializeInt(fs, c.From, 5)
		storeConvertedInt(fs, c, src)
	case OpFloatToInt:
		src := MaterializeFloat(fs, c.From, 5)
		dst := fs.Regs.Allocate(5)
		if c.From.SizeInBits == 64 {
			fs.Emitter.CvtTSD2SI(dst, src, c.ToSize)
		} else {
			fs.Emitter.CvtTSS2SI(dst, src, c.ToSize)
		}
		storeConvertedInt(fs, c, dst)
	case OpIntToFloat:
		src := MaterializeInt(fs, c.From, 5)
		dst := fs.Regs.AllocateXMM(5)
		if c.ToSize == 64 {
			fs.Emitter.CvtSI2SD(dst, src, c.From.SizeInBits)
		} else {
			fs.Emitter.CvtSI2SS(dst, src, c.From.SizeInBits)
		}
		off := fs.Frame.NewTemp(c.Result, c.ToSize)
		fs.Regs.SetXMMStackVariableOffset(dst, off, c.ToSize == 64, 5)
	case OpFloatToFloat:
		src := MaterializeFloat(fs, c.From, 5)
		dst := fs.Regs.AllocateXMM(5)
		if c.ToSize == 64 {
			fs.Emitter.SSERegToReg(opCvtss2sd, dst, src)
		} else {
			fs.Emitter.SSERegToReg(opCvtsd2ss, dst, src)
		}
		off := fs.Frame.NewTemp(c.Result, c.ToSize)
		fs.Regs.SetXMMStackVariableOffset(dst, off, c.ToSize == 64, 5)
	default:
		return unsupportedError(SourceLocation{}, "opcode %s is not a TypeConversionOp", op)
	}
	return nil
}

func storeConvertedInt(fs *FunctionState, c TypeConversionOp, reg GPReg) {
	StoreIntResult(fs, c.Result, reg, c.ToSize, 5)
}
