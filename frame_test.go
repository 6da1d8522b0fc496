package cppbe

import "testing"

func TestDeclareLocalOffsetsAreNegativeAndDistinct(t *testing.T) {
	f := NewStackFrame()
	a := f.DeclareLocal(Intern("a"), 32)
	b := f.DeclareLocal(Intern("b"), 64)
	if a >= 0 || b >= 0 {
		t.Fatalf("expected negative offsets, got a=%d b=%d", a, b)
	}
	if a == b {
		t.Fatalf("expected distinct offsets, both %d", a)
	}
}

func TestLookupScopedShadowing(t *testing.T) {
	f := NewStackFrame()
	name := Intern("x")
	outer := f.DeclareLocal(name, 32)
	f.PushScope()
	inner := f.DeclareLocal(name, 32)
	if got, ok := f.Lookup(name); !ok || got.offset != inner {
		t.Fatalf("expected inner-scope shadow at %d, got %d ok=%v", inner, got.offset, ok)
	}
	f.PopScope()
	if got, ok := f.Lookup(name); !ok || got.offset != outer {
		t.Fatalf("expected outer scope visible again at %d, got %d ok=%v", outer, got.offset, ok)
	}
}

func TestNewTempIsIdempotent(t *testing.T) {
	f := NewStackFrame()
	tv := TempVar{VarNumber: 7}
	first := f.NewTemp(tv, 64)
	second := f.NewTemp(tv, 64)
	if first != second {
		t.Fatalf("expected same offset on repeated NewTemp, got %d and %d", first, second)
	}
}

func TestFrameSizeIs16ByteAligned(t *testing.T) {
	f := NewStackFrame()
	f.DeclareLocal(Intern("a"), 32)
	f.DeclareLocal(Intern("b"), 32)
	if size := f.FrameSize(); size%16 != 0 {
		t.Fatalf("expected 16-byte aligned frame size, got %d", size)
	}
}

func TestReferenceSlotRoundTrip(t *testing.T) {
	f := NewStackFrame()
	off := f.DeclareLocal(Intern("r"), 64)
	f.MarkReferenceSlot(off, TypeInt, 32, false)
	got, ok := f.ReferenceSlot(off)
	if !ok || got.valueType != TypeInt || got.valueSizeBits != 32 {
		t.Fatalf("unexpected reference slot: %+v ok=%v", got, ok)
	}
	if _, ok := f.ReferenceSlot(off - 8); ok {
		t.Fatal("expected no reference slot at an unrelated offset")
	}
}
