package cppbe

import "testing"

func TestEnqueueBranchResolvesImmediatelyWhenLabelAlreadyDefined(t *testing.T) {
	fs := NewFunctionState(PlatformLinuxSysV, "f")
	fs.DefineLabel(Intern("L0"))
	patch := fs.Emitter.Jmp32()
	fs.EnqueueBranch(patch, Intern("L0"))
	if len(fs.pendingJmp) != 0 {
		t.Fatalf("expected no pending branch when label already defined, got %d", len(fs.pendingJmp))
	}
}

func TestEnqueueBranchDefersUntilLabelDefined(t *testing.T) {
	fs := NewFunctionState(PlatformLinuxSysV, "f")
	patch := fs.Emitter.Jmp32()
	fs.EnqueueBranch(patch, Intern("forward"))
	if len(fs.pendingJmp) != 1 {
		t.Fatalf("expected 1 pending branch, got %d", len(fs.pendingJmp))
	}
	fs.DefineLabel(Intern("forward"))
	if len(fs.pendingJmp) != 0 {
		t.Fatalf("expected DefineLabel to resolve the pending branch, got %d remaining", len(fs.pendingJmp))
	}
}

func TestFinalizePatchesReportsUnresolved(t *testing.T) {
	fs := NewFunctionState(PlatformLinuxSysV, "f")
	patch := fs.Emitter.Jmp32()
	fs.EnqueueBranch(patch, Intern("never_defined"))
	unresolved := fs.FinalizePatches()
	if len(unresolved) != 1 || unresolved[0] != Intern("never_defined") {
		t.Fatalf("expected 1 unresolved target, got %v", unresolved)
	}
	if len(fs.pendingJmp) != 0 {
		t.Fatal("expected FinalizePatches to clear pendingJmp")
	}
}

func TestLoopStackPushPopAndCurrent(t *testing.T) {
	fs := NewFunctionState(PlatformLinuxSysV, "f")
	if _, ok := fs.CurrentLoop(); ok {
		t.Fatal("expected no current loop on empty stack")
	}
	fs.PushLoop(Intern("break1"), Intern("continue1"))
	fs.PushLoop(Intern("break2"), Intern("continue2"))
	cur, ok := fs.CurrentLoop()
	if !ok || cur.breakLabel != Intern("break2") {
		t.Fatalf("expected innermost loop on top, got %+v", cur)
	}
	fs.PopLoop()
	cur, ok = fs.CurrentLoop()
	if !ok || cur.breakLabel != Intern("break1") {
		t.Fatalf("expected outer loop after pop, got %+v", cur)
	}
	fs.PopLoop()
	if _, ok := fs.CurrentLoop(); ok {
		t.Fatal("expected empty loop stack after popping both")
	}
}

func TestTryStackAccumulatesCatchesAcrossPop(t *testing.T) {
	fs := NewFunctionState(PlatformLinuxSysV, "f")
	fs.PushTry()
	fs.AddCatch(TypeInfoRef{TypeName: Intern("5Shape")}, 10, 20)
	fs.AddCatch(TypeInfoRef{TypeName: Intern("6Circle")}, 20, 30)
	top := fs.PopTry()
	if len(top.catches) != 2 {
		t.Fatalf("expected 2 catches on the popped try context, got %d", len(top.catches))
	}
	if len(fs.allCatches) != 2 {
		t.Fatalf("expected PopTry to flatten catches into allCatches, got %d", len(fs.allCatches))
	}
}

func TestAddCatchOnEmptyTryStackIsNoOp(t *testing.T) {
	fs := NewFunctionState(PlatformLinuxSysV, "f")
	fs.AddCatch(TypeInfoRef{TypeName: Intern("5Shape")}, 0, 1)
	if len(fs.allCatches) != 0 {
		t.Fatal("expected AddCatch with no open try to be a no-op")
	}
}

func TestNeedsFH3StateAndAllocateFH3StateIdempotent(t *testing.T) {
	fs := NewFunctionState(PlatformLinuxSysV, "f")
	if fs.NeedsFH3State() {
		t.Fatal("expected NeedsFH3State false before any AllocateFH3State call")
	}
	off1 := fs.AllocateFH3State()
	if !fs.NeedsFH3State() {
		t.Fatal("expected NeedsFH3State true after AllocateFH3State")
	}
	off2 := fs.AllocateFH3State()
	if off1 != off2 {
		t.Fatalf("expected AllocateFH3State to reuse the same slot, got %d and %d", off1, off2)
	}
}
