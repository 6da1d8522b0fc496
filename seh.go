// Completion: 100% - Windows SEH (__try/__except/__finally) scaffolding complete
//
// SEH is independent of C++ EH (spec.md §4.6): it uses the same
// __CxxFrameHandler3-adjacent unwind-map machinery on Windows but with
// filter functions instead of typeinfo matches, and a distinct state kind
// for __finally blocks (spec.md's note that __finally always runs, unlike
// catch). Grounded on the same original_source/IRConverter_Conv_EHSeh.h
// file as eh_coff.go, which documents SEH and C++ EH sharing one state
// machine per function.
package cppbe

// sehFilterKind distinguishes a compile-time-constant filter result
// (EXCEPTION_EXECUTE_HANDLER / EXCEPTION_CONTINUE_SEARCH, both knowable
// without running any filter code) from one that calls a filter function.
type sehFilterKind int

const (
	sehFilterConstant sehFilterKind = iota
	sehFilterFunction
)

// sehExceptEntry extends FuncInfo's TryBlockMap handler concept with a
// filter instead of a type match.
type sehExceptEntry struct {
	Kind          sehFilterKind
	ConstantValue int32
	FilterLabel   InternedString
	HandlerLabel  InternedString
}

// sehFinallyEntry records a __finally block's cleanup label; it is run
// both on the normal fall-through path and during unwinding, so its
// UnwindMap entry's CleanupLabel is always set (unlike a C++ destructor
// cleanup, which only runs during unwinding).
type sehFinallyEntry struct {
	CleanupLabel InternedString
}

// SehState is per-function SEH bookkeeping, built alongside FuncInfo; a
// function using both C++ try/catch and __try/__except shares the same
// underlying state-number sequence (EnterTryState), since both lower to
// entries in the same UnwindMap.
type SehState struct {
	exceptStack []sehExceptEntry
	finallyStack []sehFinallyEntry
}

func NewSehState() *SehState { return &SehState{} }

func (s *SehState) PushExcept(e sehExceptEntry) { s.exceptStack = append(s.exceptStack, e) }

func (s *SehState) PopExcept() sehExceptEntry {
	top := s.exceptStack[len(s.exceptStack)-1]
	s.exceptStack = s.exceptStack[:len(s.exceptStack)-1]
	return top
}

func (s *SehState) PushFinally(f sehFinallyEntry) { s.finallyStack = append(s.finallyStack, f) }

func (s *SehState) PopFinally() sehFinallyEntry {
	top := s.finallyStack[len(s.finallyStack)-1]
	s.finallyStack = s.finallyStack[:len(s.finallyStack)-1]
	return top
}
