package cppbe

import "testing"

func TestBuildVtablePreservesOverrideSlot(t *testing.T) {
	base := &VtableLayout{
		ClassName: Intern("Base"),
		Functions: []VirtualFunction{
			{MangledName: Intern("_ZN4BaseD0")},
			{MangledName: Intern("_ZN4Base1fEv")},
		},
	}
	overrides := map[int]VirtualFunction{1: {MangledName: Intern("_ZN7Derived1fEv")}}
	appended := []VirtualFunction{{MangledName: Intern("_ZN7Derived1gEv")}}

	derived := BuildVtable(base, "Derived", "_ZTI7Derived", overrides, appended)

	if len(derived.Functions) != 3 {
		t.Fatalf("expected 3 slots (2 inherited + 1 appended), got %d", len(derived.Functions))
	}
	if derived.Functions[1].MangledName.String() != "_ZN7Derived1fEv" {
		t.Fatalf("expected override to replace slot 1 in place, got %s", derived.Functions[1].MangledName.String())
	}
	if derived.Functions[0].MangledName.String() != "_ZN4BaseD0" {
		t.Fatalf("expected slot 0 unchanged from base, got %s", derived.Functions[0].MangledName.String())
	}
	if derived.Functions[2].MangledName.String() != "_ZN7Derived1gEv" {
		t.Fatalf("expected appended function at slot 2, got %s", derived.Functions[2].MangledName.String())
	}
}

func TestVtableEncodeSizeMatchesSlotCount(t *testing.T) {
	vt := BuildVtable(nil, "Leaf", "_ZTI4Leaf", nil, []VirtualFunction{{}, {}, {}})
	if got := len(vt.Encode()); got != 24 {
		t.Fatalf("expected 24 bytes (3 slots * 8), got %d", got)
	}
}

func TestVtableRelocationsOneAbs64PerSlot(t *testing.T) {
	vt := BuildVtable(nil, "Leaf", "_ZTI4Leaf", nil, []VirtualFunction{
		{MangledName: Intern("_ZN4Leaf1fEv")},
		{IsPureVirtual: true},
	})
	relocs := vt.Relocations("rdata", 64)
	if len(relocs) != 2 {
		t.Fatalf("expected 2 relocations, got %d", len(relocs))
	}
	if relocs[0].Offset != 64 || relocs[0].Type != RelocAbs64 {
		t.Fatalf("unexpected first relocation: %+v", relocs[0])
	}
	if relocs[1].Symbol != "__cxa_pure_virtual" {
		t.Fatalf("expected pure-virtual slot to relocate against __cxa_pure_virtual, got %s", relocs[1].Symbol)
	}
}
