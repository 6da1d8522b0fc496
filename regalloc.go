// Completion: 100% - Register allocator complete
//
// A flat, demand-driven cache of stack-resident values in physical
// registers (spec.md §4.2), not the teacher's linear-scan interval
// allocator (register_allocator.go) — the spec calls for a register
// *cache* with dirty tracking and ABI-fixed reservations, which is closer
// in spirit to the teacher's register_tracker.go in-use/reserved
// bookkeeping than to live-interval scheduling. Grounded on both: the
// flat fixed-size array with no heap allocation on the hot path mirrors
// register_tracker.go's [16]bool arrays; eviction-by-priority and
// LRU-ish free-register selection generalizes register_allocator.go's
// free-register stack.
package cppbe

import "math"

// RegClass distinguishes the GPR bank from the XMM bank; they're allocated
// from two independent tables.
type RegClass int

const (
	ClassGP RegClass = iota
	ClassXMM
)

// regSlot is one entry in the flat allocator table.
type regSlot struct {
	allocated bool
	dirty     bool
	offset    int32 // stack-frame offset this register caches; only meaningful if allocated
	sizeBits  int
	priority  int
}

// allocGP/allocXMM order: low indices first so that low-numbered
// registers (which never need a REX extension bit) are preferred,
// shrinking code size exactly the way a careful encoder would.
const numGP = 16
const numXMM = 16

// RegisterAllocator is the per-function cache described in spec.md §4.2.
// It never allocates on the allocate/flush/invalidate hot path.
type RegisterAllocator struct {
	gp  [numGP]regSlot
	xmm [numXMM]regSlot

	// reserved marks registers the allocator must never pick for a
	// demand allocation: RSP and RBP always, plus whatever the ABI
	// lowering currently holds a fixed-use reservation in (div's
	// RAX/RDX, shift's RCX, the live argument registers at a call site).
	reservedGP [numGP]bool

	emitter *Emitter
	frame   *StackFrame // for writing back a dirty register's value
}

const priorityFixed = math.MinInt32

func NewRegisterAllocator(e *Emitter, f *StackFrame) *RegisterAllocator {
	ra := &RegisterAllocator{emitter: e, frame: f}
	ra.reservedGP[RSP] = true
	ra.reservedGP[RBP] = true
	return ra
}

// Reset invalidates every register, with no write-back. Called at every
// label and at function start (spec.md §3.4 invariant: "paths may have
// placed different values in registers").
func (ra *RegisterAllocator) Reset() {
	for i := range ra.gp {
		ra.gp[i] = regSlot{}
	}
	for i := range ra.xmm {
		ra.xmm[i] = regSlot{}
	}
}

// Allocate returns a free GPR, evicting the lowest-priority occupant
// (spilling it if dirty) when none are free.
func (ra *RegisterAllocator) Allocate(priority int) GPReg {
	for i := 0; i < numGP; i++ {
		if !ra.gp[i].allocated && !ra.reservedGP[i] {
			ra.gp[i] = regSlot{allocated: true, priority: priority}
			return GPReg(i)
		}
	}
	victim := ra.selectVictim(priority)
	ra.FlushSingle(victim)
	ra.gp[victim] = regSlot{allocated: true, priority: priority}
	return victim
}

func (ra *RegisterAllocator) selectVictim(newPriority int) GPReg {
	best := -1
	bestPriority := math.MaxInt32
	for i := 0; i < numGP; i++ {
		if ra.reservedGP[i] || ra.gp[i].priority == priorityFixed {
			continue
		}
		if ra.gp[i].priority < bestPriority {
			bestPriority = ra.gp[i].priority
			best = i
		}
	}
	if best == -1 {
		// Every register is a fixed-use reservation; the caller asked
		// for an allocation that cannot be satisfied under the current
		// ABI constraints, which is an internal error, not user-visible.
		panic(internalError(SourceLocation{}, "register allocator", "no GPR available to allocate (priority=%d)", newPriority))
	}
	return GPReg(best)
}

// AllocateSpecific reserves exactly `reg`, spilling whatever it currently
// caches, for ABI-fixed uses: RAX/RDX for div, RCX for shift counts,
// calling-convention argument registers (spec.md §4.2).
func (ra *RegisterAllocator) AllocateSpecific(reg GPReg, offset int32, sizeBits int) {
	ra.FlushSingle(reg)
	ra.gp[reg] = regSlot{allocated: true, offset: offset, sizeBits: sizeBits, priority: priorityFixed}
}

// Reserve marks reg as off-limits to demand allocation without giving it a
// cached value (used while an ABI argument register is live across
// argument evaluation, per spec.md §4.4 FunctionCall pass 1/2).
func (ra *RegisterAllocator) Reserve(reg GPReg) {
	ra.reservedGP[reg] = true
}

// Unreserve releases a reservation made by Reserve.
func (ra *RegisterAllocator) Unreserve(reg GPReg) {
	ra.reservedGP[reg] = false
}

// SetStackVariableOffset declares that reg now caches the value at offset
// and marks it dirty. Per the §4.2 invariant, any other register already
// caching that same offset is invalidated first (at most one cache per
// offset).
func (ra *RegisterAllocator) SetStackVariableOffset(reg GPReg, offset int32, sizeBits int, priority int) {
	for i := 0; i < numGP; i++ {
		if i != int(reg) && ra.gp[i].allocated && ra.gp[i].offset == offset {
			ra.gp[i] = regSlot{}
		}
	}
	ra.gp[reg] = regSlot{allocated: true, dirty: true, offset: offset, sizeBits: sizeBits, priority: priority}
}

// TryGetStackVariableRegister looks up a register already caching offset.
func (ra *RegisterAllocator) TryGetStackVariableRegister(offset int32) (GPReg, bool) {
	for i := 0; i < numGP; i++ {
		if ra.gp[i].allocated && ra.gp[i].offset == offset {
			return GPReg(i), true
		}
	}
	return 0, false
}

// MarkClean clears the dirty bit without writing back (used right after
// the caller itself performed the store).
func (ra *RegisterAllocator) MarkClean(reg GPReg) { ra.gp[reg].dirty = false }

// FlushSingle writes reg back to its tracked stack offset if dirty, then
// clears the dirty bit.
func (ra *RegisterAllocator) FlushSingle(reg GPReg) {
	s := ra.gp[reg]
	if !s.allocated || !s.dirty {
		return
	}
	ra.emitter.StoreFrame(RBP, s.offset, reg, frameAccessSizeFor(s.sizeBits))
	ra.gp[reg].dirty = false
}

// FlushAllDirty writes back every dirty register. Called at every branch,
// label and call boundary (spec.md §4.2).
func (ra *RegisterAllocator) FlushAllDirty() {
	for i := 0; i < numGP; i++ {
		if ra.gp[i].allocated && ra.gp[i].dirty {
			ra.FlushSingle(GPReg(i))
		}
	}
	for i := 0; i < numXMM; i++ {
		if ra.xmm[i].allocated && ra.xmm[i].dirty {
			ra.FlushSingleXMM(XMMReg(i))
		}
	}
}

// InvalidateCallerSaved clears the cache entries (without writing back —
// FlushAllDirty must already have run before the call) for every
// caller-saved register, per spec.md §3.4: after a call, the next read of
// that offset must reload from memory.
func (ra *RegisterAllocator) InvalidateCallerSaved() {
	for _, r := range callerSavedGP {
		ra.gp[r] = regSlot{}
	}
	for i := range ra.xmm {
		ra.xmm[i] = regSlot{}
	}
}

// IsClean reports whether the allocator state is indistinguishable from a
// freshly Reset one — used by tests asserting spec.md §8.1's
// "immediately after every label" invariant.
func (ra *RegisterAllocator) IsClean() bool {
	for i := 0; i < numGP; i++ {
		if ra.gp[i].allocated {
			return false
		}
	}
	for i := 0; i < numXMM; i++ {
		if ra.xmm[i].allocated {
			return false
		}
	}
	return true
}

func frameAccessSizeFor(bits int) frameAccessSize {
	switch {
	case bits <= 8:
		return fa8
	case bits <= 16:
		return fa16
	case bits <= 32:
		return fa32
	default:
		return fa64
	}
}

// AllocateXMM returns a free XMM register, spilling the lowest-priority
// occupant if none are free. XMM0-3 are kept unreserved so that argument
// passing and return-value conventions can always demand them directly.
func (ra *RegisterAllocator) AllocateXMM(priority int) XMMReg {
	for i := 0; i < numXMM; i++ {
		if !ra.xmm[i].allocated {
			ra.xmm[i] = regSlot{allocated: true, priority: priority}
			return XMMReg(i)
		}
	}
	best, bestPriority := 0, math.MaxInt32
	for i := 0; i < numXMM; i++ {
		if ra.xmm[i].priority < bestPriority {
			bestPriority = ra.xmm[i].priority
			best = i
		}
	}
	ra.FlushSingleXMM(XMMReg(best))
	ra.xmm[best] = regSlot{allocated: true, priority: priority}
	return XMMReg(best)
}

func (ra *RegisterAllocator) SetXMMStackVariableOffset(reg XMMReg, offset int32, isDouble bool, priority int) {
	for i := range ra.xmm {
		if i != int(reg) && ra.xmm[i].allocated && ra.xmm[i].offset == offset {
			ra.xmm[i] = regSlot{}
		}
	}
	size := 32
	if isDouble {
		size = 64
	}
	ra.xmm[reg] = regSlot{allocated: true, dirty: true, offset: offset, sizeBits: size, priority: priority}
}

func (ra *RegisterAllocator) FlushSingleXMM(reg XMMReg) {
	s := ra.xmm[reg]
	if !s.allocated || !s.dirty {
		return
	}
	ra.emitter.StoreXMMFrame(reg, RBP, s.offset, s.sizeBits == 64)
	ra.xmm[reg].dirty = false
}

func (ra *RegisterAllocator) TryGetXMMStackVariableRegister(offset int32) (XMMReg, bool) {
	for i := range ra.xmm {
		if ra.xmm[i].allocated && ra.xmm[i].offset == offset {
			return XMMReg(i), true
		}
	}
	return 0, false
}
