package cppbe

import (
	"testing"

	"golang.org/x/arch/x86/x86asm"
)

func decodeOne(t *testing.T, code []byte) x86asm.Inst {
	t.Helper()
	inst, err := x86asm.Decode(code, 64)
	if err != nil {
		t.Fatalf("decode %x: %v", code, err)
	}
	return inst
}

func TestMovRegToRegRoundTrip(t *testing.T) {
	var relocs []Relocation
	e := NewEmitter(NewCodeBuffer("t"), &relocs)
	e.MovRegToReg(RAX, RDI, 64)
	inst := decodeOne(t, e.Code.Data())
	if inst.Op != x86asm.MOV {
		t.Fatalf("expected MOV, got %v", inst.Op)
	}
}

func TestMovImm64ToRegRoundTrip(t *testing.T) {
	var relocs []Relocation
	e := NewEmitter(NewCodeBuffer("t"), &relocs)
	e.MovImm64ToReg(RAX, 0x1122334455667788)
	inst := decodeOne(t, e.Code.Data())
	if inst.Op != x86asm.MOV {
		t.Fatalf("expected MOV, got %v", inst.Op)
	}
	if inst.Len != 10 {
		t.Fatalf("expected 10-byte encoding, got %d", inst.Len)
	}
}

func TestLeaFrameDispRoundTrip(t *testing.T) {
	var relocs []Relocation
	e := NewEmitter(NewCodeBuffer("t"), &relocs)
	e.LeaFrameDisp(RAX, RBP, -24)
	inst := decodeOne(t, e.Code.Data())
	if inst.Op != x86asm.LEA {
		t.Fatalf("expected LEA, got %v", inst.Op)
	}
}

func TestStoreLoadFrameRoundTrip(t *testing.T) {
	var relocs []Relocation
	e := NewEmitter(NewCodeBuffer("t"), &relocs)
	e.StoreFrame(RBP, -8, RAX, fa64)
	inst := decodeOne(t, e.Code.Data())
	if inst.Op != x86asm.MOV {
		t.Fatalf("expected MOV store, got %v", inst.Op)
	}

	e2 := NewEmitter(NewCodeBuffer("t2"), &relocs)
	e2.LoadFrame(RCX, RBP, -8, fa64, 64, false)
	inst2 := decodeOne(t, e2.Code.Data())
	if inst2.Op != x86asm.MOV {
		t.Fatalf("expected MOV load, got %v", inst2.Op)
	}
}

func TestMovSXRegToRegRoundTrip(t *testing.T) {
	var relocs []Relocation
	e := NewEmitter(NewCodeBuffer("t"), &relocs)
	e.MovSXRegToReg(RAX, RCX, 32, 64)
	inst := decodeOne(t, e.Code.Data())
	if inst.Op != x86asm.MOVSXD {
		t.Fatalf("expected MOVSXD, got %v", inst.Op)
	}
}

func TestMovZXRegToRegRoundTrip(t *testing.T) {
	var relocs []Relocation
	e := NewEmitter(NewCodeBuffer("t"), &relocs)
	e.MovZXRegToReg(RAX, RCX, 8)
	inst := decodeOne(t, e.Code.Data())
	if inst.Op != x86asm.MOVZX {
		t.Fatalf("expected MOVZX, got %v", inst.Op)
	}
}
