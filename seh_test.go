package cppbe

import "testing"

func TestPushPopExceptLIFO(t *testing.T) {
	s := NewSehState()
	s.PushExcept(sehExceptEntry{Kind: sehFilterConstant, ConstantValue: 1, HandlerLabel: Intern("h1")})
	s.PushExcept(sehExceptEntry{Kind: sehFilterFunction, FilterLabel: Intern("filter2"), HandlerLabel: Intern("h2")})

	top := s.PopExcept()
	if top.Kind != sehFilterFunction || top.FilterLabel != Intern("filter2") {
		t.Fatalf("expected last-pushed except entry first, got %+v", top)
	}
	second := s.PopExcept()
	if second.Kind != sehFilterConstant || second.ConstantValue != 1 {
		t.Fatalf("expected first-pushed except entry last, got %+v", second)
	}
}

func TestPushPopFinallyLIFO(t *testing.T) {
	s := NewSehState()
	s.PushFinally(sehFinallyEntry{CleanupLabel: Intern("cleanup1")})
	s.PushFinally(sehFinallyEntry{CleanupLabel: Intern("cleanup2")})

	top := s.PopFinally()
	if top.CleanupLabel != Intern("cleanup2") {
		t.Fatalf("expected cleanup2 popped first, got %v", top.CleanupLabel)
	}
	second := s.PopFinally()
	if second.CleanupLabel != Intern("cleanup1") {
		t.Fatalf("expected cleanup1 popped last, got %v", second.CleanupLabel)
	}
}

func TestExceptAndFinallyStacksAreIndependent(t *testing.T) {
	s := NewSehState()
	s.PushExcept(sehExceptEntry{Kind: sehFilterConstant})
	s.PushFinally(sehFinallyEntry{CleanupLabel: Intern("cleanup")})

	if len(s.exceptStack) != 1 || len(s.finallyStack) != 1 {
		t.Fatalf("expected independent stacks of length 1 each, got except=%d finally=%d",
			len(s.exceptStack), len(s.finallyStack))
	}
	s.PopFinally()
	if len(s.exceptStack) != 1 {
		t.Fatalf("popping finally must not affect except stack, got %d", len(s.exceptStack))
	}
}
