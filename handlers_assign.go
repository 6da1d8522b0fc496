// Completion: 100% - Assignment opcode handler complete
//
// The largest single handler in the backend per spec.md §4.4, because
// Assignment covers every combination of {scalar, float, pointer} x
// {direct local, pointer-indirect store, reference target}. Grounded on
// original_source/IRConverter_Conv_VarDecl.h's reference-slot-aware store
// path, generalized here to also cover plain and pointer-indirect stores.
package cppbe

// handleAssignmentOp lowers AssignmentOp.
func handleAssignmentOp(fs *FunctionState, a AssignmentOp) error {
	if a.IsPointerStore {
		return handlePointerStore(fs, a)
	}
	if a.Lhs.Type == TypeFloat {
		return handleFloatAssignment(fs, a)
	}
	return handleScalarAssignment(fs, a)
}

func handleScalarAssignment(fs *FunctionState, a AssignmentOp) error {
	rhs := a.Rhs
	if a.DereferenceRhsReferences {
		rhs = dereferenceIfNeeded(fs, rhs)
	}
	src := MaterializeInt(fs, rhs, 5)
	StoreIntToLValue(fs, a.Lhs, src)
	return nil
}

func handleFloatAssignment(fs *FunctionState, a AssignmentOp) error {
	rhs := a.Rhs
	if a.DereferenceRhsReferences {
		rhs = dereferenceIfNeeded(fs, rhs)
	}
	src := MaterializeFloat(fs, rhs, 5)
	switch val := a.Lhs.Value.(type) {
	case StringHandle:
		off := localOffset(fs, val.Name)
		fs.Emitter.StoreXMMFrame(src, RBP, off, a.Lhs.SizeInBits == 64)
	case TempVar:
		off := fs.Frame.NewTemp(val, a.Lhs.SizeInBits)
		fs.Regs.SetXMMStackVariableOffset(src, off, a.Lhs.SizeInBits == 64, 5)
	default:
		return unsupportedError(SourceLocation{}, "unsupported float assignment target")
	}
	return nil
}

// handlePointerStore lowers `*ptr = value`: the Lhs TypedValue names the
// pointer variable itself (its value is the address being stored
// through, not the storage location of the pointer variable).
func handlePointerStore(fs *FunctionState, a AssignmentOp) error {
	ptrReg := MaterializeInt(fs, a.Lhs, 6)
	if a.Rhs.Type == TypeFloat {
		src := MaterializeFloat(fs, a.Rhs, 5)
		fs.Emitter.StoreXMMFrame(src, ptrReg, 0, a.Rhs.SizeInBits == 64)
		return nil
	}
	src := MaterializeInt(fs, a.Rhs, 5)
	fs.Emitter.StoreFrame(ptrReg, 0, src, frameAccessSizeFor(a.Rhs.SizeInBits))
	return nil
}

// dereferenceIfNeeded loads through a reference slot when rhs's storage
// location is a reference (the slot holds a pointer to the referent, not
// the referent itself), per spec.md §5's reference slot map.
func dereferenceIfNeeded(fs *FunctionState, rhs TypedValue) TypedValue {
	name, ok := rhs.Value.(StringHandle)
	if !ok {
		return rhs
	}
	off := localOffset(fs, name.Name)
	slot, isRef := fs.Frame.ReferenceSlot(off)
	if !isRef || !slot.holdsAddrOnly {
		return rhs
	}
	ptrReg := fs.Regs.Allocate(6)
	fs.Emitter.LoadFrame(ptrReg, RBP, off, fa64, 64, false)
	tmp := TempVar{VarNumber: fs.nextScratchSlot()}
	scratchOff := fs.Frame.NewTemp(tmp, 64)
	if slot.valueType == TypeFloat {
		xmm := fs.Regs.AllocateXMM(6)
		fs.Emitter.LoadXMMFrame(xmm, ptrReg, 0, slot.valueSizeBits == 64)
		fs.Regs.SetXMMStackVariableOffset(xmm, scratchOff, slot.valueSizeBits == 64, 6)
	} else {
		val := fs.Regs.Allocate(6)
		fs.Emitter.LoadFrame(val, ptrReg, 0, frameAccessSizeFor(slot.valueSizeBits), max(slot.valueSizeBits, 32), slot.valueType == TypeInt)
		fs.Regs.SetStackVariableOffset(val, scratchOff, slot.valueSizeBits, 6)
	}
	return TypedValue{Value: tmp, Type: slot.valueType, SizeInBits: slot.valueSizeBits}
}
