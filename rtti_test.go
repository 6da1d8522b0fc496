package cppbe

import "testing"

func TestItaniumTypeInfoSymbols(t *testing.T) {
	ti := &ItaniumTypeInfo{ClassName: "Shape", MangledName: "5Shape"}
	if got := ti.TypeInfoSymbol(); got != "_ZTI5Shape" {
		t.Fatalf("unexpected type-info symbol: %s", got)
	}
	if got := ti.TypeNameSymbol(); got != "_ZTS5Shape" {
		t.Fatalf("unexpected type-name symbol: %s", got)
	}
}

func TestItaniumTypeInfoRootVsDerivedSize(t *testing.T) {
	root := &ItaniumTypeInfo{ClassName: "Shape", MangledName: "5Shape"}
	if got := len(root.EncodeTypeInfo()); got != 16 {
		t.Fatalf("expected root class_type_info to be 16 bytes, got %d", got)
	}
	derived := &ItaniumTypeInfo{ClassName: "Circle", MangledName: "6Circle", BaseTypeInfo: "_ZTI5Shape"}
	if got := len(derived.EncodeTypeInfo()); got != 24 {
		t.Fatalf("expected si_class_type_info to be 24 bytes, got %d", got)
	}
}

func TestItaniumTypeInfoRelocationsIncludeBaseOnlyWhenPresent(t *testing.T) {
	root := &ItaniumTypeInfo{ClassName: "Shape", MangledName: "5Shape"}
	if relocs := root.TypeInfoRelocations("rdata", 0); len(relocs) != 2 {
		t.Fatalf("expected 2 relocations for a root class, got %d", len(relocs))
	}
	derived := &ItaniumTypeInfo{ClassName: "Circle", MangledName: "6Circle", BaseTypeInfo: "_ZTI5Shape"}
	relocs := derived.TypeInfoRelocations("rdata", 0)
	if len(relocs) != 3 {
		t.Fatalf("expected 3 relocations for a derived class, got %d", len(relocs))
	}
	if relocs[2].Symbol != "_ZTI5Shape" {
		t.Fatalf("expected third relocation to point at the base's type info, got %s", relocs[2].Symbol)
	}
}

func TestMsvcSymbolNaming(t *testing.T) {
	if got := TypeDescriptorSymbol("Shape"); got != "??_R0Shape@8" {
		t.Fatalf("unexpected type descriptor symbol: %s", got)
	}
	if got := CompleteObjectLocatorSymbol("Shape"); got != "??_R4Shape@6B@" {
		t.Fatalf("unexpected complete object locator symbol: %s", got)
	}
}

func TestMsvcCompleteObjectLocatorRelocations(t *testing.T) {
	l := &MsvcCompleteObjectLocator{
		TypeDescriptorSymbol:      TypeDescriptorSymbol("Shape"),
		HierarchyDescriptorSymbol: HierarchyDescriptorSymbol("Shape"),
	}
	if got := len(l.Encode()); got != 20 {
		t.Fatalf("expected 20-byte locator, got %d", got)
	}
	relocs := l.Relocations("rdata", 100)
	if len(relocs) != 2 || relocs[0].Type != RelocAbs32NB {
		t.Fatalf("expected two image-relative relocations, got %+v", relocs)
	}
	if relocs[0].Offset != 112 || relocs[1].Offset != 116 {
		t.Fatalf("unexpected relocation offsets: %+v", relocs)
	}
}
