package cppbe

import "testing"

func newResolveTestFS() *FunctionState {
	return NewFunctionState(PlatformLinuxSysV, "f")
}

func TestMaterializeIntImmediateSmallUsesImm32(t *testing.T) {
	fs := newResolveTestFS()
	v := TypedValue{Value: Immediate{Bits: 7}, Type: TypeInt, SizeInBits: 32}
	MaterializeInt(fs, v, 1)
	if len(fs.Emitter.Code.Data()) == 0 {
		t.Fatal("expected MaterializeInt to emit code for an immediate")
	}
}

func TestMaterializeIntImmediateLargeUsesImm64(t *testing.T) {
	fs := newResolveTestFS()
	before := fs.Emitter.Code.Offset()
	v := TypedValue{Value: Immediate{Bits: 7}, Type: TypeInt, SizeInBits: 64}
	MaterializeInt(fs, v, 1)
	after := fs.Emitter.Code.Offset()
	if after-before != 10 {
		t.Fatalf("expected the 10-byte mov r64,imm64 encoding for a 64-bit immediate, got %d bytes", after-before)
	}
}

func TestMaterializeIntStringHandleResolvesLocalOffset(t *testing.T) {
	fs := newResolveTestFS()
	fs.Frame.DeclareLocal(Intern("x"), 32)
	v := TypedValue{Value: StringHandle{Name: Intern("x")}, Type: TypeInt, SizeInBits: 32}
	MaterializeInt(fs, v, 1)
	if len(fs.Emitter.Code.Data()) == 0 {
		t.Fatal("expected MaterializeInt to emit a load for a named local")
	}
}

func TestMaterializeIntUndeclaredLocalPanics(t *testing.T) {
	fs := newResolveTestFS()
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for a reference to an undeclared local")
		}
	}()
	v := TypedValue{Value: StringHandle{Name: Intern("never_declared")}, Type: TypeInt, SizeInBits: 32}
	MaterializeInt(fs, v, 1)
}

func TestMaterializeIntTempVarAllocatesFrameSlotOnFirstUse(t *testing.T) {
	fs := newResolveTestFS()
	tmp := TempVar{VarNumber: 1}
	if _, ok := fs.Frame.TempOffset(tmp); ok {
		t.Fatal("expected temp to be unallocated before first materialize")
	}
	v := TypedValue{Value: tmp, Type: TypeInt, SizeInBits: 32}
	MaterializeInt(fs, v, 1)
	if _, ok := fs.Frame.TempOffset(tmp); !ok {
		t.Fatal("expected MaterializeInt to allocate a frame slot for an unseen TempVar")
	}
}

func TestMaterializeFloatImmediateRoundTripsThroughScratchSlot(t *testing.T) {
	fs := newResolveTestFS()
	v := TypedValue{Value: Immediate{IsFloat: true, Bits: 0x3FF0000000000000}, Type: TypeFloat, SizeInBits: 64}
	MaterializeFloat(fs, v, 1)
	if len(fs.Emitter.Code.Data()) == 0 {
		t.Fatal("expected MaterializeFloat to emit the scratch round-trip sequence")
	}
}

func TestStoreIntResultThenMaterializeReusesCachedRegister(t *testing.T) {
	fs := newResolveTestFS()
	dst := TempVar{VarNumber: 5}
	r := fs.Regs.Allocate(1)
	StoreIntResult(fs, dst, r, 32, 1)
	before := fs.Emitter.Code.Offset()
	got := MaterializeInt(fs, TypedValue{Value: dst, Type: TypeInt, SizeInBits: 32}, 1)
	after := fs.Emitter.Code.Offset()
	if got != r {
		t.Fatalf("expected cached register %v reused, got %v", r, got)
	}
	if after != before {
		t.Fatalf("expected no new code emitted when the cached register already holds the value, emitted %d bytes", after-before)
	}
}

func TestStoreIntToLValueNamedLocal(t *testing.T) {
	fs := newResolveTestFS()
	off := fs.Frame.DeclareLocal(Intern("y"), 32)
	r := fs.Regs.Allocate(1)
	lhs := TypedValue{Value: StringHandle{Name: Intern("y")}, Type: TypeInt, SizeInBits: 32}
	StoreIntToLValue(fs, lhs, r)
	entry, ok := fs.Frame.Lookup(Intern("y"))
	if !ok || entry.offset != off {
		t.Fatalf("expected StoreIntToLValue to target the declared offset %d, got %+v", off, entry)
	}
}

func TestStoreIntToLValueUnsupportedTargetPanics(t *testing.T) {
	fs := newResolveTestFS()
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for an unsupported assignment target")
		}
	}()
	r := fs.Regs.Allocate(1)
	StoreIntToLValue(fs, TypedValue{Value: Immediate{Bits: 1}, Type: TypeInt, SizeInBits: 32}, r)
}

func TestAddressOfNamedLocalEmitsLea(t *testing.T) {
	fs := newResolveTestFS()
	fs.Frame.DeclareLocal(Intern("z"), 32)
	before := fs.Emitter.Code.Offset()
	AddressOf(fs, TypedValue{Value: StringHandle{Name: Intern("z")}, Type: TypeInt, SizeInBits: 32}, 1)
	after := fs.Emitter.Code.Offset()
	if after == before {
		t.Fatal("expected AddressOf to emit a LEA instruction")
	}
}

func TestAddressOfImmediatePanics(t *testing.T) {
	fs := newResolveTestFS()
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic when taking the address of an immediate")
		}
	}()
	AddressOf(fs, TypedValue{Value: Immediate{Bits: 1}, Type: TypeInt, SizeInBits: 32}, 1)
}
