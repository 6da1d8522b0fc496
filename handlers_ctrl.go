// Completion: 100% - Control-flow opcode handlers complete
//
// The control-flow patcher itself (resolving a branch's rel32 once its
// target label's offset is known) lives in FunctionState.DefineLabel/
// EnqueueBranch (functionstate.go); this file only decides, per opcode,
// which branch/label to emit and enqueue.
package cppbe

func handleLabelOp(fs *FunctionState, l LabelOp) error {
	fs.Regs.FlushAllDirty()
	fs.Regs.Reset() // spec.md §3.4: a label may be reached from multiple paths with different register contents
	fs.DefineLabel(l.LabelName)
	return nil
}

func handleBranchOp(fs *FunctionState, b BranchOp) error {
	fs.Regs.FlushAllDirty()
	patch := fs.Emitter.Jmp32()
	fs.EnqueueBranch(patch, b.Target)
	return nil
}

func handleConditionalBranchOp(fs *FunctionState, c ConditionalBranchOp) error {
	fs.Regs.FlushAllDirty()
	condReg := MaterializeInt(fs, c.Condition, 6)
	fs.Emitter.CmpImm32(condReg, 0, max(c.Condition.SizeInBits, 32))
	cc := ccNE
	if !c.JumpIfTrue {
		cc = ccE
	}
	patch := fs.Emitter.Jcc32(cc)
	fs.EnqueueBranch(patch, c.Target)
	return nil
}

func handleLoopBeginOp(fs *FunctionState, l LoopBeginOp) error {
	fs.PushLoop(l.EndLabel, l.IncrementLabel)
	return nil
}

func handleLoopEndOp(fs *FunctionState) error {
	fs.PopLoop()
	return nil
}

func handleBreakOp(fs *FunctionState) error {
	loop, ok := fs.CurrentLoop()
	if !ok {
		return internalError(SourceLocation{}, "control-flow", "break outside a loop")
	}
	fs.Regs.FlushAllDirty()
	patch := fs.Emitter.Jmp32()
	fs.EnqueueBranch(patch, loop.breakLabel)
	return nil
}

func handleContinueOp(fs *FunctionState) error {
	loop, ok := fs.CurrentLoop()
	if !ok {
		return internalError(SourceLocation{}, "control-flow", "continue outside a loop")
	}
	fs.Regs.FlushAllDirty()
	patch := fs.Emitter.Jmp32()
	fs.EnqueueBranch(patch, loop.continueLabel)
	return nil
}
