// Completion: 100% - Relocation record complete
package cppbe

// RelocType is the object-file-format-neutral kind of a relocation; the
// object writer maps it to the concrete ELF/COFF constant at write time
// (spec.md §6.2).
type RelocType int

const (
	RelocPCRel32 RelocType = iota // CALL rel32, RIP-relative LEA/MOV
	RelocAbs64                    // vtable/RTTI pointer slots
	RelocAbs32NB                  // MSVC RTTI image-relative fields
	RelocGOTPCRel                 // ELF GOT-relative (not used by our direct-call model, kept for completeness)
)

// Relocation is a (offset, symbol, type) tuple recorded by the emitter and
// consumed once by the object-file writer (spec.md §4.1 last paragraph).
type Relocation struct {
	Section string // "text", "rdata", "data"
	Offset  int    // byte offset within Section where the reference starts
	Symbol  string
	Type    RelocType
	Addend  int64
}
