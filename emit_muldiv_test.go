package cppbe

import (
	"testing"

	"golang.org/x/arch/x86/x86asm"
)

func TestCdqCqoRoundTrip(t *testing.T) {
	var relocs []Relocation
	e := NewEmitter(NewCodeBuffer("t"), &relocs)
	e.Cdq()
	if inst := decodeOne(t, e.Code.Data()); inst.Op != x86asm.CDQ {
		t.Fatalf("expected CDQ, got %v", inst.Op)
	}

	e2 := NewEmitter(NewCodeBuffer("t2"), &relocs)
	e2.Cqo()
	if inst := decodeOne(t, e2.Code.Data()); inst.Op != x86asm.CQO {
		t.Fatalf("expected CQO, got %v", inst.Op)
	}
}

func TestIdivDivRoundTrip(t *testing.T) {
	var relocs []Relocation
	e := NewEmitter(NewCodeBuffer("t"), &relocs)
	e.Idiv(RCX, 64)
	if inst := decodeOne(t, e.Code.Data()); inst.Op != x86asm.IDIV {
		t.Fatalf("expected IDIV, got %v", inst.Op)
	}

	e2 := NewEmitter(NewCodeBuffer("t2"), &relocs)
	e2.Div(RCX, 64)
	if inst := decodeOne(t, e2.Code.Data()); inst.Op != x86asm.DIV {
		t.Fatalf("expected DIV, got %v", inst.Op)
	}
}
