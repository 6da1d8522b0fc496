package cppbe

import (
	"testing"

	"golang.org/x/arch/x86/x86asm"
)

func TestShiftByCLRoundTrip(t *testing.T) {
	cases := []struct {
		kind ShiftKind
		want x86asm.Op
	}{
		{ShiftLeft, x86asm.SHL},
		{ShiftRightLogical, x86asm.SHR},
		{ShiftRightArith, x86asm.SAR},
	}
	for _, c := range cases {
		var relocs []Relocation
		e := NewEmitter(NewCodeBuffer("t"), &relocs)
		e.ShiftByCL(c.kind, RAX, 64)
		inst := decodeOne(t, e.Code.Data())
		if inst.Op != c.want {
			t.Errorf("kind %d: expected %v, got %v", c.kind, c.want, inst.Op)
		}
	}
}

func TestNotNegRoundTrip(t *testing.T) {
	var relocs []Relocation
	e := NewEmitter(NewCodeBuffer("t"), &relocs)
	e.Not(RAX, 64)
	if inst := decodeOne(t, e.Code.Data()); inst.Op != x86asm.NOT {
		t.Fatalf("expected NOT, got %v", inst.Op)
	}

	e2 := NewEmitter(NewCodeBuffer("t2"), &relocs)
	e2.Neg(RAX, 64)
	if inst := decodeOne(t, e2.Code.Data()); inst.Op != x86asm.NEG {
		t.Fatalf("expected NEG, got %v", inst.Op)
	}
}

func TestIncDecRegRoundTrip(t *testing.T) {
	var relocs []Relocation
	e := NewEmitter(NewCodeBuffer("t"), &relocs)
	e.IncDecReg(RAX, 64, true)
	if inst := decodeOne(t, e.Code.Data()); inst.Op != x86asm.INC {
		t.Fatalf("expected INC, got %v", inst.Op)
	}

	e2 := NewEmitter(NewCodeBuffer("t2"), &relocs)
	e2.IncDecReg(RAX, 64, false)
	if inst := decodeOne(t, e2.Code.Data()); inst.Op != x86asm.DEC {
		t.Fatalf("expected DEC, got %v", inst.Op)
	}
}

func TestSetCCRoundTrip(t *testing.T) {
	var relocs []Relocation
	e := NewEmitter(NewCodeBuffer("t"), &relocs)
	e.SetCC(ccE, RAX)
	if inst := decodeOne(t, e.Code.Data()); inst.Op != x86asm.SETE {
		t.Fatalf("expected SETE, got %v", inst.Op)
	}
}

func TestConditionForSignedUnsignedFloat(t *testing.T) {
	if conditionFor(CondLT, true, false) != ccL {
		t.Error("signed LT should be ccL")
	}
	if conditionFor(CondLT, false, false) != ccB {
		t.Error("unsigned LT should be ccB")
	}
	if conditionFor(CondLT, true, true) != ccB {
		t.Error("float LT must use unsigned code regardless of signed flag (NaN-safe)")
	}
}
