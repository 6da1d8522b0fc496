// Completion: 100% - Array/heap/placement-new opcode handlers complete
package cppbe

func arrayElementAddress(fs *FunctionState, array, index TypedValue, elemSizeBits, memberOffset int, isPointerToArray bool, priority int) GPReg {
	var base GPReg
	if isPointerToArray {
		base = MaterializeInt(fs, array, priority+1)
	} else {
		base = AddressOf(fs, array, priority+1)
	}
	scale := uint8(elemSizeBits / 8)
	if idxImm, ok := index.Value.(Immediate); ok {
		disp := int32(idxImm.Bits)*int32(scale) + int32(memberOffset)
		result := fs.Regs.Allocate(priority)
		fs.Emitter.LeaFrameDisp(result, base, disp)
		return result
	}
	idxReg := MaterializeInt(fs, index, priority)
	result := fs.Regs.Allocate(priority)
	switch scale {
	case 1, 2, 4, 8:
		fs.Emitter.LeaIndexed(result, base, idxReg, scale, int32(memberOffset))
	default:
		// non-power-of-two element size: multiply the index out explicitly,
		// then fold in the base and member offset.
		sizeReg := fs.Regs.Allocate(priority - 1)
		fs.Emitter.MovImm32ToReg(sizeReg, uint32(elemSizeBits/8))
		fs.Emitter.Imul(idxReg, sizeReg, 64)
		fs.Emitter.LeaIndexed(result, base, idxReg, 1, int32(memberOffset))
	}
	return result
}

func handleArrayAccessOp(fs *FunctionState, a ArrayAccessOp) error {
	addr := arrayElementAddress(fs, a.Array, a.Index, a.ElementSizeInBits, a.MemberOffset, a.IsPointerToArray, 6)
	if a.ElementType == TypeFloat {
		dst := fs.Regs.AllocateXMM(5)
		fs.Emitter.LoadXMMFrame(dst, addr, 0, a.ElementSizeInBits == 64)
		off := fs.Frame.NewTemp(a.Result, a.ElementSizeInBits)
		fs.Regs.SetXMMStackVariableOffset(dst, off, a.ElementSizeInBits == 64, 5)
		return nil
	}
	dst := fs.Regs.Allocate(5)
	fs.Emitter.LoadFrame(dst, addr, 0, frameAccessSizeFor(a.ElementSizeInBits), max(a.ElementSizeInBits, 32), false)
	StoreIntResult(fs, a.Result, dst, a.ElementSizeInBits, 5)
	return nil
}

func handleArrayStoreOp(fs *FunctionState, a ArrayStoreOp) error {
	addr := arrayElementAddress(fs, a.Array, a.Index, a.ElementSizeInBits, a.MemberOffset, a.IsPointerToArray, 6)
	if a.Value.Type == TypeFloat {
		src := MaterializeFloat(fs, a.Value, 5)
		fs.Emitter.StoreXMMFrame(src, addr, 0, a.ElementSizeInBits == 64)
		return nil
	}
	src := MaterializeInt(fs, a.Value, 5)
	fs.Emitter.StoreFrame(addr, 0, src, frameAccessSizeFor(a.ElementSizeInBits))
	return nil
}

func handleArrayElementAddressOp(fs *FunctionState, a ArrayElementAddressOp) error {
	addr := arrayElementAddress(fs, a.Array, a.Index, a.ElementSizeInBits, a.MemberOffset, a.IsPointerToArray, 5)
	StoreIntResult(fs, a.Result, addr, 64, 5)
	return nil
}

// handleHeapAllocOp lowers HeapAlloc (a call to operator new) and
// PlacementNew (no allocation call at all — the result is simply the
// given address).
func handleHeapAllocOp(fs *FunctionState, op Opcode, h HeapAllocOp) error {
	if op == OpPlacementNew {
		addr := MaterializeInt(fs, h.Placement, 5)
		StoreIntResult(fs, h.Result, addr, 64, 5)
		return nil
	}
	fs.Regs.FlushAllDirty()
	arg0 := IntArgRegs(fs.Platform)[0]
	fs.Regs.AllocateSpecific(arg0, 0, 64)
	fs.Emitter.MovImm32ToReg(arg0, uint32(h.SizeInBytes))
	fs.Regs.InvalidateCallerSaved()
	fs.Emitter.CallRel32("_Znwm")
	StoreIntResult(fs, h.Result, RAX, 64, 5)
	return nil
}

// handleHeapAllocArrayOp lowers `new T[n]`, optionally prefixing an
// 8-byte element-count cookie the matching `delete[]` reads back (needed
// whenever T has a non-trivial destructor, per the Itanium/MSVC array-new
// ABI both require).
func handleHeapAllocArrayOp(fs *FunctionState, h HeapAllocArrayOp) error {
	countReg := MaterializeInt(fs, h.Count, 6)
	sizeReg := fs.Regs.Allocate(5)
	fs.Emitter.MovImm32ToReg(sizeReg, uint32(h.SizeInBytes))
	fs.Emitter.Imul(countReg, sizeReg, 64)
	if h.NeedsCookie {
		fs.Emitter.BinaryImm32ToReg(aluAdd, countReg, 8, 64)
	}
	fs.Regs.FlushAllDirty()
	arg0 := IntArgRegs(fs.Platform)[0]
	fs.Regs.AllocateSpecific(arg0, 0, 64)
	fs.Emitter.MovRegToReg(arg0, countReg, 64)
	fs.Regs.InvalidateCallerSaved()
	fs.Emitter.CallRel32("_Znam")
	if h.NeedsCookie {
		cntReg := MaterializeInt(fs, h.Count, 4)
		fs.Emitter.StoreFrame(RAX, 0, cntReg, fa64)
		fs.Emitter.BinaryImm32ToReg(aluAdd, RAX, 8, 64)
	}
	StoreIntResult(fs, h.Result, RAX, 64, 5)
	return nil
}

func handleHeapFreeOp(fs *FunctionState, h HeapFreeOp) error {
	ptrReg := MaterializeInt(fs, h.Pointer, 6)
	fs.Regs.FlushAllDirty()
	arg0 := IntArgRegs(fs.Platform)[0]
	fs.Regs.AllocateSpecific(arg0, 0, 64)
	if h.IsArray && h.HasCookie {
		fs.Emitter.BinaryImm32ToReg(aluSub, ptrReg, 8, 64)
	}
	fs.Emitter.MovRegToReg(arg0, ptrReg, 64)
	fs.Regs.InvalidateCallerSaved()
	if h.IsArray {
		fs.Emitter.CallRel32("_ZdaPv")
	} else {
		fs.Emitter.CallRel32("_ZdlPv")
	}
	return nil
}
