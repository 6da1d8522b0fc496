// Completion: 100% - Itanium RTTI (_ZTI/_ZTS) synthesis complete
//
// Grounded on original_source/ObjFileWriter_RTTI.h's MSVC descriptor
// fields, mirrored here for the Itanium ABI's simpler layout: a
// std::type_info subobject (vtable pointer + name pointer, plus a base
// class pointer for single, public, non-virtual inheritance, the only
// inheritance shape this subset's dynamic_cast walk supports).
package cppbe

import "strconv"

// itaniumMangledName produces the length-prefixed Itanium identifier for a
// plain, unqualified class name (e.g. "Shape" -> "5Shape"), the same form
// ItaniumTypeInfo.MangledName holds for every class this subset handles
// (no namespaces or templates, per SPEC_FULL.md Non-goals).
func itaniumMangledName(className string) string {
	return strconv.Itoa(len(className)) + className
}

// ItaniumTypeInfo describes one class's _ZTI/_ZTS symbol pair.
type ItaniumTypeInfo struct {
	ClassName    string
	MangledName  string // the _ZTS-suffix name: length-prefixed identifier
	BaseTypeInfo string // "" for a root class (no base), else the base's _ZTI symbol
}

// TypeInfoSymbol returns the _ZTI<mangled> symbol name.
func (t *ItaniumTypeInfo) TypeInfoSymbol() string { return "_ZTI" + t.MangledName }

// TypeNameSymbol returns the _ZTS<mangled> symbol name (the NUL-terminated
// class name string _ZTI's name pointer refers to).
func (t *ItaniumTypeInfo) TypeNameSymbol() string { return "_ZTS" + t.MangledName }

// vtableKindSymbol picks the std::type_info subclass vtable this
// descriptor borrows its first 16 bytes from, per the Itanium C++ ABI:
// class_type_info for a root class, si_class_type_info for single
// inheritance.
func (t *ItaniumTypeInfo) vtableKindSymbol() string {
	if t.BaseTypeInfo == "" {
		return "_ZTVN10__cxxabiv117__class_type_infoE"
	}
	return "_ZTVN10__cxxabiv120__si_class_type_infoE"
}

// EncodeTypeInfo returns the _ZTI symbol's bytes (the vtable pointer and
// name pointer slots are zero placeholders; TypeInfoRelocations below
// describes what they point to) plus the NUL-terminated name bytes for
// the companion _ZTS symbol.
func (t *ItaniumTypeInfo) EncodeTypeInfo() []byte {
	size := 24 // vtable ptr + name ptr + (base ptr, only when BaseTypeInfo != "")
	if t.BaseTypeInfo == "" {
		size = 16
	}
	return make([]byte, size)
}

func (t *ItaniumTypeInfo) EncodeTypeName() []byte {
	return append([]byte(t.ClassName), 0)
}

// TypeInfoRelocations returns the Abs64 relocations that fill in
// EncodeTypeInfo's placeholder slots, given the section and base offset
// the _ZTI bytes occupy.
func (t *ItaniumTypeInfo) TypeInfoRelocations(section string, offset int) []Relocation {
	// vtable pointer conventionally points two words into the borrowed
	// vtable (past its own offset-to-top and RTTI-pointer header words),
	// hence the Addend of 16.
	relocs := []Relocation{
		{Section: section, Offset: offset, Symbol: t.vtableKindSymbol(), Type: RelocAbs64, Addend: 16},
		{Section: section, Offset: offset + 8, Symbol: t.TypeNameSymbol(), Type: RelocAbs64},
	}
	if t.BaseTypeInfo != "" {
		relocs = append(relocs, Relocation{Section: section, Offset: offset + 16, Symbol: t.BaseTypeInfo, Type: RelocAbs64})
	}
	return relocs
}
