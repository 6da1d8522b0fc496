package cppbe

import (
	"testing"

	"golang.org/x/arch/x86/x86asm"
)

func TestBinaryRegToRegRoundTrip(t *testing.T) {
	cases := []struct {
		op   arithOp
		want x86asm.Op
	}{
		{aluAdd, x86asm.ADD},
		{aluOr, x86asm.OR},
		{aluAnd, x86asm.AND},
		{aluSub, x86asm.SUB},
		{aluXor, x86asm.XOR},
		{aluCmp, x86asm.CMP},
	}
	for _, c := range cases {
		var relocs []Relocation
		e := NewEmitter(NewCodeBuffer("t"), &relocs)
		e.BinaryRegToReg(c.op, RAX, RCX, 64)
		inst := decodeOne(t, e.Code.Data())
		if inst.Op != c.want {
			t.Errorf("op %x: expected %v, got %v", c.op, c.want, inst.Op)
		}
	}
}

func TestBinaryImm32ToRegRoundTrip(t *testing.T) {
	var relocs []Relocation
	e := NewEmitter(NewCodeBuffer("t"), &relocs)
	e.BinaryImm32ToReg(aluAdd, RAX, 1000, 64)
	inst := decodeOne(t, e.Code.Data())
	if inst.Op != x86asm.ADD {
		t.Fatalf("expected ADD, got %v", inst.Op)
	}
}

func TestBinaryImm8ToRegRoundTrip(t *testing.T) {
	var relocs []Relocation
	e := NewEmitter(NewCodeBuffer("t"), &relocs)
	e.BinaryImm8ToReg(aluSub, RAX, 5, 64)
	inst := decodeOne(t, e.Code.Data())
	if inst.Op != x86asm.SUB {
		t.Fatalf("expected SUB, got %v", inst.Op)
	}
}

func TestImulRoundTrip(t *testing.T) {
	var relocs []Relocation
	e := NewEmitter(NewCodeBuffer("t"), &relocs)
	e.Imul(RAX, RCX, 32)
	inst := decodeOne(t, e.Code.Data())
	if inst.Op != x86asm.IMUL {
		t.Fatalf("expected IMUL, got %v", inst.Op)
	}
}
