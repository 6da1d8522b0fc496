package cppbe

import "testing"

func TestCodegenErrorIsRecoverable(t *testing.T) {
	err := codegenError(SourceLocation{File: "a.cpp", Line: 3}, "bad thing: %d", 5)
	if !err.Recoverable() {
		t.Fatal("expected a codegen error to be recoverable")
	}
	if err.Category != CategoryCodegen || err.Level != LevelError {
		t.Fatalf("unexpected category/level: %+v", err)
	}
}

func TestInternalErrorIsNotRecoverable(t *testing.T) {
	err := internalError(SourceLocation{}, "dispatch", "unhandled opcode %s", "Foo")
	if err.Recoverable() {
		t.Fatal("expected an internal error to be fatal and non-recoverable")
	}
	if err.Category != CategoryInternal || err.Level != LevelFatal {
		t.Fatalf("unexpected category/level: %+v", err)
	}
}

func TestUnsupportedErrorIsRecoverable(t *testing.T) {
	err := unsupportedError(SourceLocation{}, "unsupported width %d", 128)
	if !err.Recoverable() {
		t.Fatal("expected an unsupported-feature error to be recoverable")
	}
}

func TestFatalLevelOverridesRecoverableCategory(t *testing.T) {
	err := &BackendError{Level: LevelFatal, Category: CategoryCodegen, Message: "boom"}
	if err.Recoverable() {
		t.Fatal("expected LevelFatal to force non-recoverable regardless of category")
	}
}

func TestBackendErrorStringIncludesContextWhenPresent(t *testing.T) {
	err := &BackendError{Level: LevelError, Category: CategoryCodegen, Message: "oops", Location: SourceLocation{File: "x.cpp", Line: 7}, Context: "ctx"}
	got := err.Error()
	want := "x.cpp:7: error: oops: ctx"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestBackendErrorStringOmitsContextWhenAbsent(t *testing.T) {
	err := &BackendError{Level: LevelWarning, Category: CategoryUnsupported, Message: "meh", Location: SourceLocation{}}
	got := err.Error()
	want := "<unknown location>: warning: meh"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSourceLocationStringForms(t *testing.T) {
	if got := (SourceLocation{}).String(); got != "<unknown location>" {
		t.Fatalf("got %q", got)
	}
	if got := (SourceLocation{Line: 12}).String(); got != "line 12" {
		t.Fatalf("got %q", got)
	}
	if got := (SourceLocation{File: "a.cpp", Line: 12}).String(); got != "a.cpp:12" {
		t.Fatalf("got %q", got)
	}
}
