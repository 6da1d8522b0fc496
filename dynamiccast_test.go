package cppbe

import (
	"testing"

	"golang.org/x/arch/x86/x86asm"
)

func TestEnsureDynamicCastHelpersIdempotent(t *testing.T) {
	b := &Builder{platform: PlatformLinuxSysV, opts: DefaultOptions()}
	tu := &TranslationUnitState{platform: PlatformLinuxSysV}

	b.EnsureDynamicCastHelpers(tu)
	if !tu.helpers.emittedDynamicCastCheck || !tu.helpers.emittedDynamicCastBadCast {
		t.Fatal("expected both helpers marked emitted after first call")
	}
	if len(tu.functions) != 2 {
		t.Fatalf("expected 2 helper functions emitted, got %d", len(tu.functions))
	}

	b.EnsureDynamicCastHelpers(tu)
	if len(tu.functions) != 2 {
		t.Fatalf("expected EnsureDynamicCastHelpers to be idempotent, got %d functions", len(tu.functions))
	}
}

func TestDynamicCastCheckSymbolNames(t *testing.T) {
	b := &Builder{platform: PlatformLinuxSysV, opts: DefaultOptions()}
	tu := &TranslationUnitState{platform: PlatformLinuxSysV}
	b.EnsureDynamicCastHelpers(tu)

	names := map[string]bool{}
	for _, fs := range tu.functions {
		names[fs.funcName] = true
	}
	if !names[dynamicCastCheckSymbol] || !names[dynamicCastBadCastSymbol] {
		t.Fatalf("expected both helper symbols present, got %v", names)
	}
}

// TestDynamicCastDeepHierarchy verifies the generated hierarchy-walk loop
// actually decrements a bounded counter rather than looping on the base
// pointer chain forever, by decoding the emitted loop body and counting
// the conditional jumps that can reach the null-result path.
func TestDynamicCastDeepHierarchy(t *testing.T) {
	b := &Builder{platform: PlatformLinuxSysV, opts: DefaultOptions()}
	tu := &TranslationUnitState{platform: PlatformLinuxSysV}
	b.emitDynamicCastCheck(tu)

	if len(tu.functions) != 1 {
		t.Fatalf("expected exactly 1 emitted function, got %d", len(tu.functions))
	}
	fs := tu.functions[0]
	code := fs.Emitter.Code.Data()
	if len(code) == 0 {
		t.Fatal("expected non-empty emitted code for __dynamic_cast_check")
	}

	foundImmMaxDepth := false
	for i := 0; i+8 <= len(code); i++ {
		var v uint64
		for k := 0; k < 8; k++ {
			v |= uint64(code[i+k]) << (8 * k)
		}
		if v == maxHierarchyWalkDepth {
			foundImmMaxDepth = true
			break
		}
	}
	if !foundImmMaxDepth {
		t.Fatal("expected the maxHierarchyWalkDepth constant to appear as an immediate in the emitted loop, bounding the hierarchy walk")
	}

	// Decode the whole function and confirm it decodes cleanly and contains
	// at least two conditional jumps (no-base-pointer exit, depth-exhausted
	// exit) in addition to the unconditional back-edge jump.
	condJumps := 0
	off := 0
	for off < len(code) {
		inst, err := x86asm.Decode(code[off:], 64)
		if err != nil {
			t.Fatalf("failed to decode instruction at offset %d: %v", off, err)
		}
		if inst.Op == x86asm.JE || inst.Op == x86asm.JNE {
			condJumps++
		}
		if inst.Len == 0 {
			break
		}
		off += inst.Len
	}
	if condJumps < 2 {
		t.Fatalf("expected at least 2 conditional jumps bounding the walk, got %d", condJumps)
	}
}

func TestCxxThrowSymbolPerPlatform(t *testing.T) {
	if got := cxxThrowSymbol(PlatformLinuxSysV); got != "__cxa_throw" {
		t.Fatalf("expected __cxa_throw on Linux, got %s", got)
	}
	if got := cxxThrowSymbol(PlatformWindowsX64); got != "_CxxThrowException" {
		t.Fatalf("expected _CxxThrowException on Windows, got %s", got)
	}
}
