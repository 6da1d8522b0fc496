// Completion: 100% - Per-function state aggregator complete
package cppbe

// loopContext holds the two labels a Break/Continue inside the loop body
// need to resolve against (spec.md §4.4 LoopBegin/LoopEnd/Break/Continue).
type loopContext struct {
	breakLabel    InternedString
	continueLabel InternedString
}

// tryContext is one entry of the try-block stack, tracking the catch
// handlers registered for the currently open TryBegin/TryEnd region
// (spec.md §4.6).
type tryContext struct {
	startOffset int
	catches     []catchHandler
}

type catchHandler struct {
	typeInfo    TypeInfoRef
	startOffset int
	endOffset   int
}

// FunctionState is the full mutable context threaded through dispatch of
// one function's instruction stream: label table, pending forward
// branches, loop nesting, try-block bookkeeping, and (ELF targets only)
// the accumulated CFI instruction list. Reset at every FunctionDecl per
// spec.md §3.4/§5 — nothing here survives across functions.
type FunctionState struct {
	Frame    *StackFrame
	Regs     *RegisterAllocator
	Emitter  *Emitter
	Platform Platform

	labels        map[InternedString]int // label name -> code offset, once defined
	pendingJmp    []branchPatch
	loopStack     []loopContext
	tryStack      []tryContext
	allCatches    []catchHandler // flattened, for the EH writer once the function is done
	cfi           []cfiInstruction
	prologuePatch int // offset of the SubRspImm32 immediate, backpatched once FrameSize is final
	funcName      string
	fehVar        *int32 // MSVC FH3 state-variable frame offset, non-nil only if this function contains a try
	Relocs        []Relocation

	funcInfo          *FuncInfo // MSVC only, lazily created on the first TryBegin
	currentEHState    int32
	pendingCatchStart int
	pendingCatchType  TypeInfoRef
	seh               *SehState
}

func NewFunctionState(platform Platform, funcName string) *FunctionState {
	code := NewCodeBuffer(funcName)
	frame := NewStackFrame()
	fs := &FunctionState{
		Frame:          frame,
		Platform:       platform,
		labels:         map[InternedString]int{},
		funcName:       funcName,
		currentEHState: -1,
	}
	emitter := NewEmitter(code, &fs.Relocs)
	fs.Emitter = emitter
	fs.Regs = NewRegisterAllocator(emitter, frame)
	return fs
}

// DefineLabel records name's final code offset and resolves every pending
// branch that targeted it so far.
func (fs *FunctionState) DefineLabel(name InternedString) {
	fs.labels[name] = fs.Emitter.Code.Offset()
	fs.resolvePending()
}

// EnqueueBranch records a just-emitted jmp/jcc placeholder against target,
// to be resolved immediately if target is already defined, or later
// during resolvePending/FinalizePatches otherwise.
func (fs *FunctionState) EnqueueBranch(patchOffset int, target InternedString) {
	if targetOffset, ok := fs.labels[target]; ok {
		fs.Emitter.PatchRel32(patchOffset, targetOffset)
		return
	}
	fs.pendingJmp = append(fs.pendingJmp, branchPatch{PatchOffset: patchOffset, Target: target})
}

func (fs *FunctionState) resolvePending() {
	remaining := fs.pendingJmp[:0]
	for _, p := range fs.pendingJmp {
		if targetOffset, ok := fs.labels[p.Target]; ok {
			fs.Emitter.PatchRel32(p.PatchOffset, targetOffset)
		} else {
			remaining = append(remaining, p)
		}
	}
	fs.pendingJmp = remaining
}

// FinalizePatches resolves any branch whose target label turned out to be
// defined after the branch site but was somehow missed by DefineLabel
// (defensive; in a well-formed IR stream every label used by a branch is
// eventually defined). Returns unresolved targets, an internal-error
// condition if non-empty.
func (fs *FunctionState) FinalizePatches() []InternedString {
	var unresolved []InternedString
	for _, p := range fs.pendingJmp {
		if targetOffset, ok := fs.labels[p.Target]; ok {
			fs.Emitter.PatchRel32(p.PatchOffset, targetOffset)
		} else {
			unresolved = append(unresolved, p.Target)
		}
	}
	fs.pendingJmp = nil
	return unresolved
}

func (fs *FunctionState) PushLoop(breakLabel, continueLabel InternedString) {
	fs.loopStack = append(fs.loopStack, loopContext{breakLabel: breakLabel, continueLabel: continueLabel})
}

func (fs *FunctionState) PopLoop() {
	if len(fs.loopStack) > 0 {
		fs.loopStack = fs.loopStack[:len(fs.loopStack)-1]
	}
}

func (fs *FunctionState) CurrentLoop() (loopContext, bool) {
	if len(fs.loopStack) == 0 {
		return loopContext{}, false
	}
	return fs.loopStack[len(fs.loopStack)-1], true
}

func (fs *FunctionState) PushTry() {
	fs.tryStack = append(fs.tryStack, tryContext{startOffset: fs.Emitter.Code.Offset()})
}

func (fs *FunctionState) AddCatch(t TypeInfoRef, startOffset, endOffset int) {
	if len(fs.tryStack) == 0 {
		return
	}
	top := &fs.tryStack[len(fs.tryStack)-1]
	top.catches = append(top.catches, catchHandler{typeInfo: t, startOffset: startOffset, endOffset: endOffset})
}

func (fs *FunctionState) PopTry() tryContext {
	top := fs.tryStack[len(fs.tryStack)-1]
	fs.tryStack = fs.tryStack[:len(fs.tryStack)-1]
	fs.allCatches = append(fs.allCatches, top.catches...)
	return top
}

// NeedsFH3State reports whether this function contains at least one try
// region, per original_source/IRConverter_Conv_EHSeh.h's rule that the
// FH3 state variable is only materialized for such functions.
func (fs *FunctionState) NeedsFH3State() bool { return fs.fehVar != nil }

// AllocateFH3State reserves the state-variable frame slot the first time
// a TryBegin is seen in this function.
func (fs *FunctionState) AllocateFH3State() int32 {
	if fs.fehVar == nil {
		off := fs.Frame.reserve(32)
		fs.fehVar = &off
	}
	return *fs.fehVar
}
