// Completion: 100% - Stack frame / scope stack complete
//
// Grounded on the teacher's stack_validator.go (now deleted) which tracked
// a high-water-mark of allocated stack bytes per function to validate
// prologue/epilogue symmetry; generalized here into the full scope-stack
// and TempVar/reference-slot bookkeeping spec.md §4.3/§5 require.
package cppbe

// scopeEntry describes one named local living at a fixed offset from RBP.
type scopeEntry struct {
	offset   int32
	sizeBits int
	isArray  bool
	arrayLen int
}

// scope is one nested block's set of locals, pushed on BlockBegin-like
// structure (loop bodies, try/catch bodies) and popped when the block
// exits, per spec.md §4.3's scope-stack model.
type scope struct {
	vars map[InternedString]scopeEntry
}

// refSlot records, for a stack slot holding a reference (T& / T&&), the
// pointee's type so that loads/stores through it know to dereference
// first (spec.md §5's reference slot map).
type refSlot struct {
	valueType      TypeKind
	valueSizeBits  int
	isRvalueRef    bool
	holdsAddrOnly  bool // true: the slot holds a pointer to the referent, not the referent itself
}

// StackFrame is the per-function stack layout builder: a scope stack of
// named locals, a monotonic TempVar slot allocator, and the reference
// slot map. All offsets are negative, relative to RBP, per the SysV/Win64
// frame-pointer convention spec.md §4.3 requires.
type StackFrame struct {
	scopes       []*scope
	nextOffset   int32 // next free offset, grows downward (becomes more negative)
	lowWaterMark int32 // most negative offset ever handed out; final frame size is derived from this
	tempSlots    map[uint32]int32
	refSlots     map[int32]refSlot
	alignment    int32 // 8 normally, 16 when a __m128/long double local forces it (not reached by this subset)
}

func NewStackFrame() *StackFrame {
	return &StackFrame{
		scopes:    []*scope{{vars: map[InternedString]scopeEntry{}}},
		tempSlots: map[uint32]int32{},
		refSlots:  map[int32]refSlot{},
		alignment: 8,
	}
}

// PushScope enters a nested block.
func (f *StackFrame) PushScope() { f.scopes = append(f.scopes, &scope{vars: map[InternedString]scopeEntry{}}) }

// PopScope exits a nested block. Per spec.md §4.3, offsets are NOT
// reclaimed on pop — the low-water mark already accounts for the
// deepest nesting, and reusing offsets across sibling scopes would let a
// register-cache entry for one scope's local alias another's.
func (f *StackFrame) PopScope() {
	if len(f.scopes) > 1 {
		f.scopes = f.scopes[:len(f.scopes)-1]
	}
}

func (f *StackFrame) reserve(sizeBits int) int32 {
	sizeBytes := int32((sizeBits + 7) / 8)
	if sizeBytes < 1 {
		sizeBytes = 1
	}
	f.nextOffset -= sizeBytes
	// align the new offset to the value's natural alignment, capped at 8
	align := sizeBytes
	if align > 8 {
		align = 8
	}
	if align > 1 {
		f.nextOffset = -(((-f.nextOffset) + align - 1) / align * align)
	}
	if f.nextOffset < f.lowWaterMark {
		f.lowWaterMark = f.nextOffset
	}
	return f.nextOffset
}

// DeclareLocal allocates a frame slot for a named local in the current
// (innermost) scope and returns its offset.
func (f *StackFrame) DeclareLocal(name InternedString, sizeBits int) int32 {
	off := f.reserve(sizeBits)
	f.scopes[len(f.scopes)-1].vars[name] = scopeEntry{offset: off, sizeBits: sizeBits}
	return off
}

// DeclareArrayLocal allocates contiguous storage for an array local.
func (f *StackFrame) DeclareArrayLocal(name InternedString, elemSizeBits, count int) int32 {
	totalBits := elemSizeBits * count
	off := f.reserve(totalBits)
	f.scopes[len(f.scopes)-1].vars[name] = scopeEntry{offset: off, sizeBits: elemSizeBits, isArray: true, arrayLen: count}
	return off
}

// Lookup searches scopes innermost-first, per normal block-scoping rules.
func (f *StackFrame) Lookup(name InternedString) (scopeEntry, bool) {
	for i := len(f.scopes) - 1; i >= 0; i-- {
		if e, ok := f.scopes[i].vars[name]; ok {
			return e, true
		}
	}
	return scopeEntry{}, false
}

// NewTemp allocates a fresh 8-byte-aligned slot for a compiler-generated
// TempVar (spec.md §3.2). Values wider than 64 bits (none in this
// instruction set) would need multiple contiguous slots; reserve()
// already rounds up to natural alignment for that future.
func (f *StackFrame) NewTemp(v TempVar, sizeBits int) int32 {
	if off, ok := f.tempSlots[v.VarNumber]; ok {
		return off
	}
	if sizeBits < 64 {
		sizeBits = 64
	}
	off := f.reserve(sizeBits)
	f.tempSlots[v.VarNumber] = off
	return off
}

// TempOffset returns a previously allocated TempVar's offset.
func (f *StackFrame) TempOffset(v TempVar) (int32, bool) {
	off, ok := f.tempSlots[v.VarNumber]
	return off, ok
}

// MarkReferenceSlot records that the slot at offset holds a reference,
// per spec.md §5's "reference slot map: offset -> {value_type,
// value_size_bits, is_rvalue_reference}". Populated at RegisterLocal time,
// grounded on original_source/IRConverter_Conv_VarDecl.h.
func (f *StackFrame) MarkReferenceSlot(offset int32, valueType TypeKind, valueSizeBits int, isRvalue bool) {
	f.refSlots[offset] = refSlot{valueType: valueType, valueSizeBits: valueSizeBits, isRvalueRef: isRvalue, holdsAddrOnly: true}
}

// ReferenceSlot looks up whether offset is a reference slot.
func (f *StackFrame) ReferenceSlot(offset int32) (refSlot, bool) {
	r, ok := f.refSlots[offset]
	return r, ok
}

// FrameSize returns the total stack space to reserve in the prologue,
// rounded up to 16-byte alignment as the SysV/Win64 ABIs both require at
// the call boundary (the return address plus the pushed RBP already
// account for 16 bytes, so the locals region itself is sized so that
// RSP is 16-byte aligned immediately before a `call`).
func (f *StackFrame) FrameSize() int32 {
	size := -f.lowWaterMark
	const align = 16
	return (size + align - 1) / align * align
}
