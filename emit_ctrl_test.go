package cppbe

import (
	"testing"

	"golang.org/x/arch/x86/x86asm"
)

func TestCallRel32RecordsRelocation(t *testing.T) {
	var relocs []Relocation
	e := NewEmitter(NewCodeBuffer("t"), &relocs)
	e.CallRel32("memcpy")
	if len(relocs) != 1 {
		t.Fatalf("expected one relocation, got %d", len(relocs))
	}
	if relocs[0].Symbol != "memcpy" || relocs[0].Type != RelocPCRel32 {
		t.Fatalf("unexpected relocation: %+v", relocs[0])
	}
	inst := decodeOne(t, e.Code.Data())
	if inst.Op != x86asm.CALL {
		t.Fatalf("expected CALL, got %v", inst.Op)
	}
}

func TestCallRegRoundTrip(t *testing.T) {
	var relocs []Relocation
	e := NewEmitter(NewCodeBuffer("t"), &relocs)
	e.CallReg(RAX)
	if inst := decodeOne(t, e.Code.Data()); inst.Op != x86asm.CALL {
		t.Fatalf("expected indirect CALL, got %v", inst.Op)
	}
}

func TestJmp32PatchRel32(t *testing.T) {
	var relocs []Relocation
	e := NewEmitter(NewCodeBuffer("t"), &relocs)
	patch := e.Jmp32()
	e.Ret()
	target := e.Code.Offset()
	e.PatchRel32(patch, target)

	inst := decodeOne(t, e.Code.Data())
	if inst.Op != x86asm.JMP {
		t.Fatalf("expected JMP, got %v", inst.Op)
	}
	gotTarget := patch + 4 + int(inst.Args[0].(x86asm.Rel))
	if gotTarget != target {
		t.Fatalf("expected jump target %d, got %d", target, gotTarget)
	}
}

func TestJcc32RoundTrip(t *testing.T) {
	var relocs []Relocation
	e := NewEmitter(NewCodeBuffer("t"), &relocs)
	e.Jcc32(ccE)
	if inst := decodeOne(t, e.Code.Data()); inst.Op != x86asm.JE {
		t.Fatalf("expected JE, got %v", inst.Op)
	}
}

func TestPushPopRetRoundTrip(t *testing.T) {
	var relocs []Relocation
	e := NewEmitter(NewCodeBuffer("t"), &relocs)
	e.Push(RBP)
	e.Pop(RBP)
	e.Ret()
	data := e.Code.Data()
	if data[0] != 0x55 || data[1] != 0x5D || data[2] != 0xC3 {
		t.Fatalf("unexpected bytes: %x", data)
	}
}

func TestSubRspImm32RoundTrip(t *testing.T) {
	var relocs []Relocation
	e := NewEmitter(NewCodeBuffer("t"), &relocs)
	e.SubRspImm32(32)
	if inst := decodeOne(t, e.Code.Data()); inst.Op != x86asm.SUB {
		t.Fatalf("expected SUB, got %v", inst.Op)
	}
}
