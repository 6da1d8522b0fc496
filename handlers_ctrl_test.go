package cppbe

import "testing"

func TestHandleLabelOpDefinesLabelAndResetsRegs(t *testing.T) {
	fs := newResolveTestFS()
	r := fs.Regs.Allocate(5)
	fs.Regs.SetStackVariableOffset(r, fs.Frame.DeclareLocal(Intern("x"), 32), 32, 5)

	if err := handleLabelOp(fs, LabelOp{LabelName: Intern("L0")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := fs.labels[Intern("L0")]; !ok {
		t.Fatal("expected the label to be recorded")
	}
	if !fs.Regs.IsClean() {
		t.Fatal("expected Reset to clear all register state at a label boundary")
	}
}

func TestHandleBranchOpEnqueuesPendingBranch(t *testing.T) {
	fs := newResolveTestFS()
	if err := handleBranchOp(fs, BranchOp{Target: Intern("forward")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fs.pendingJmp) != 1 {
		t.Fatalf("expected 1 pending branch, got %d", len(fs.pendingJmp))
	}
}

func TestHandleConditionalBranchOpJumpIfTrueUsesNE(t *testing.T) {
	fs := newResolveTestFS()
	c := ConditionalBranchOp{
		Condition:  TypedValue{Value: Immediate{Bits: 1}, Type: TypeInt, SizeInBits: 32},
		Target:     Intern("target"),
		JumpIfTrue: true,
	}
	if err := handleConditionalBranchOp(fs, c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fs.pendingJmp) != 1 {
		t.Fatal("expected the conditional branch to be enqueued")
	}
	code := fs.Emitter.Code.Data()
	if op := code[fs.pendingJmp[0].PatchOffset-1]; op != 0x85 {
		t.Fatalf("expected a JNE (0F 85) for JumpIfTrue, got opcode byte %#x", op)
	}
}

func TestHandleLoopBeginEndPushesAndPopsLoopStack(t *testing.T) {
	fs := newResolveTestFS()
	if err := handleLoopBeginOp(fs, LoopBeginOp{EndLabel: Intern("end"), IncrementLabel: Intern("inc")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := fs.CurrentLoop(); !ok {
		t.Fatal("expected a current loop after LoopBegin")
	}
	if err := handleLoopEndOp(fs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := fs.CurrentLoop(); ok {
		t.Fatal("expected no current loop after LoopEnd")
	}
}

func TestHandleBreakOutsideLoopIsInternalError(t *testing.T) {
	fs := newResolveTestFS()
	err := handleBreakOp(fs)
	if err == nil {
		t.Fatal("expected an error for break outside a loop")
	}
	be, ok := err.(*BackendError)
	if !ok || be.Recoverable() {
		t.Fatalf("expected a non-recoverable internal error, got %+v", err)
	}
}

func TestHandleContinueInsideLoopEnqueuesBranchToContinueLabel(t *testing.T) {
	fs := newResolveTestFS()
	fs.PushLoop(Intern("end"), Intern("continueLabel"))
	if err := handleContinueOp(fs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fs.pendingJmp) != 1 || fs.pendingJmp[0].Target != Intern("continueLabel") {
		t.Fatalf("expected a pending branch to continueLabel, got %+v", fs.pendingJmp)
	}
}

func TestHandleBreakInsideLoopTargetsBreakLabel(t *testing.T) {
	fs := newResolveTestFS()
	fs.PushLoop(Intern("breakLabel"), Intern("cont"))
	if err := handleBreakOp(fs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fs.pendingJmp) != 1 || fs.pendingJmp[0].Target != Intern("breakLabel") {
		t.Fatalf("expected a pending branch to breakLabel, got %+v", fs.pendingJmp)
	}
}
