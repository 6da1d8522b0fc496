// Completion: 100% - Call-family opcode handlers complete
//
// Grounded on original_source/IRConverter_Conv_Calls.h's two-pass
// argument classification: pass 1 classifies every argument's location
// (register or stack) without emitting anything, so that an argument
// expression which itself makes a call doesn't clobber a register
// already holding an earlier argument's value; pass 2 then emits the
// moves in register-classification order, register arguments last so
// stack-destined arguments (which may themselves use scratch registers)
// go first.
package cppbe

func handleCallOp(fs *FunctionState, c CallOp) error {
	fs.Regs.FlushAllDirty()
	classifier := NewArgClassifier(fs.Platform, c.HasHiddenReturnParam)
	locations := make([]ArgLocation, len(c.Args))
	for i, arg := range c.Args {
		locations[i] = classifier.Next(arg.Value.Type == TypeFloat && !arg.PassByAddress)
	}

	if c.HasHiddenReturnParam {
		slotOff := fs.Frame.NewTemp(TempVar{VarNumber: fs.nextScratchSlot()}, c.ReturnSizeInBits)
		hiddenReg := IntArgRegs(fs.Platform)[0]
		fs.Regs.AllocateSpecific(hiddenReg, 0, 64)
		fs.Emitter.LeaFrameDisp(hiddenReg, RBP, slotOff)
	}

	// Pass 2: stack arguments first (right-to-left, the SysV/Win64
	// convention so a variadic callee can find its fixed arguments at
	// consistent offsets), then register arguments.
	for i := len(c.Args) - 1; i >= 0; i-- {
		if locations[i].InReg {
			continue
		}
		emitStackArg(fs, c.Args[i], locations[i])
	}
	for i, arg := range c.Args {
		if !locations[i].InReg {
			continue
		}
		emitRegisterArg(fs, arg, locations[i])
	}

	if c.IsVariadic && fs.Platform == PlatformLinuxSysV {
		fs.Regs.AllocateSpecific(RAX, 0, 8)
		fs.Emitter.MovImm32ToReg(RAX, uint32(classifier.VectorRegisterCount()))
	}

	fs.Regs.InvalidateCallerSaved()
	if c.IsIndirectCall {
		fnReg := MaterializeInt(fs, TypedValue{Value: StringHandle{Name: c.FunctionName}, Type: TypePointer, SizeInBits: 64}, 8)
		fs.Emitter.CallReg(fnReg)
	} else {
		fs.Emitter.CallRel32(c.FunctionName.String())
	}

	if c.ReturnType != TypeVoid && !c.HasHiddenReturnParam {
		retLoc := ClassifyReturn(fs.Platform, c.ReturnType, c.ReturnSizeInBits)
		if retLoc.InXMM {
			off := fs.Frame.NewTemp(c.Result, c.ReturnSizeInBits)
			fs.Regs.SetXMMStackVariableOffset(0, off, c.ReturnSizeInBits == 64, 5)
		} else {
			StoreIntResult(fs, c.Result, RAX, c.ReturnSizeInBits, 5)
		}
	}
	return nil
}

func emitStackArg(fs *FunctionState, arg Argument, loc ArgLocation) {
	if arg.PassByAddress {
		addr := AddressOf(fs, arg.Value, 3)
		fs.Emitter.StoreFrame(RSP, loc.StackOff, addr, fa64)
		return
	}
	if arg.Value.Type == TypeFloat {
		src := MaterializeFloat(fs, arg.Value, 3)
		fs.Emitter.StoreXMMFrame(src, RSP, loc.StackOff, arg.Value.SizeInBits == 64)
		return
	}
	src := MaterializeInt(fs, arg.Value, 3)
	fs.Emitter.StoreFrame(RSP, loc.StackOff, src, frameAccessSizeFor(arg.Value.SizeInBits))
}

func emitRegisterArg(fs *FunctionState, arg Argument, loc ArgLocation) {
	if arg.PassByAddress {
		fs.Regs.AllocateSpecific(loc.GP, 0, 64)
		addr := AddressOf(fs, arg.Value, priorityFixed+1)
		fs.Emitter.MovRegToReg(loc.GP, addr, 64)
		return
	}
	if loc.IsFloat {
		src := MaterializeFloat(fs, arg.Value, 6)
		if src != loc.XMM {
			fs.Emitter.SSERegToReg(pick(arg.Value.SizeInBits == 64, opMovsd, opMovss), loc.XMM, src)
		}
		return
	}
	fs.Regs.AllocateSpecific(loc.GP, 0, 64)
	src := MaterializeInt(fs, arg.Value, priorityFixed+1)
	if src != loc.GP {
		fs.Emitter.MovRegToReg(loc.GP, src, max(arg.Value.SizeInBits, 32))
	}
}

// handleConstructorCallOp constructs an object: arguments are classified
// exactly like a regular call with `this` (or the RVO slot address) as
// the hidden first argument.
func handleConstructorCallOp(fs *FunctionState, c ConstructorCallOp) error {
	var thisReg GPReg
	if c.UseReturnSlot {
		thisReg = fs.Regs.Allocate(8)
		fs.Emitter.LeaFrameDisp(thisReg, RBP, int32(c.ReturnSlotOffset))
	} else {
		thisReg = AddressOf(fs, c.Object, 8)
	}
	if c.BaseClassOffset != 0 {
		fs.Emitter.BinaryImm32ToReg(aluAdd, thisReg, uint32(c.BaseClassOffset), 64)
	}
	fs.Regs.FlushAllDirty()
	fs.Regs.AllocateSpecific(IntArgRegs(fs.Platform)[0], 0, 64)
	fs.Emitter.MovRegToReg(IntArgRegs(fs.Platform)[0], thisReg, 64)
	classifier := NewArgClassifier(fs.Platform, true)
	for _, arg := range c.Arguments {
		loc := classifier.Next(arg.Value.Type == TypeFloat && !arg.PassByAddress)
		if loc.InReg {
			emitRegisterArg(fs, arg, loc)
		} else {
			emitStackArg(fs, arg, loc)
		}
	}
	fs.Regs.InvalidateCallerSaved()
	fs.Emitter.CallRel32(c.StructName.String() + "::ctor")
	return nil
}

func handleDestructorCallOp(fs *FunctionState, d DestructorCallOp) error {
	var thisReg GPReg
	if d.ObjectIsPointer {
		thisReg = MaterializeInt(fs, d.Object, 8)
	} else {
		thisReg = AddressOf(fs, d.Object, 8)
	}
	fs.Regs.FlushAllDirty()
	fs.Regs.AllocateSpecific(IntArgRegs(fs.Platform)[0], 0, 64)
	fs.Emitter.MovRegToReg(IntArgRegs(fs.Platform)[0], thisReg, 64)
	fs.Regs.InvalidateCallerSaved()
	fs.Emitter.CallRel32(d.StructName.String() + "::dtor")
	return nil
}

// handleVirtualCallOp dispatches through the object's vtable: load the
// vptr, then the function pointer at VtableIndex*8, then call indirect.
func handleVirtualCallOp(fs *FunctionState, v VirtualCallOp) error {
	var objReg GPReg
	if v.IsPointerAccess {
		objReg = MaterializeInt(fs, v.Object, 8)
	} else {
		objReg = AddressOf(fs, v.Object, 8)
	}
	vptr := fs.Regs.Allocate(7)
	fs.Emitter.LoadFrame(vptr, objReg, 0, fa64, 64, false)
	fnReg := fs.Regs.Allocate(6)
	fs.Emitter.LoadFrame(fnReg, vptr, int32(v.VtableIndex*8), fa64, 64, false)

	fs.Regs.FlushAllDirty()
	fs.Regs.AllocateSpecific(IntArgRegs(fs.Platform)[0], 0, 64)
	fs.Emitter.MovRegToReg(IntArgRegs(fs.Platform)[0], objReg, 64)
	classifier := NewArgClassifier(fs.Platform, true)
	for _, arg := range v.Arguments {
		loc := classifier.Next(arg.Value.Type == TypeFloat && !arg.PassByAddress)
		if loc.InReg {
			emitRegisterArg(fs, arg, loc)
		} else {
			emitStackArg(fs, arg, loc)
		}
	}
	fs.Regs.InvalidateCallerSaved()
	fs.Emitter.CallReg(fnReg)
	if v.ResultType != TypeVoid {
		StoreIntResult(fs, v.Result, RAX, 64, 5)
	}
	return nil
}
