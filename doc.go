// Package cppbe is the backend of a C++ compiler: it consumes a typed,
// three-address IR for a whole translation unit and writes a relocatable
// object file (ELF64 on Linux, COFF on Windows). The object Convert
// produces holds two sections: text (x86-64 machine code for every
// function) and data (globals). The line-table, LSDA/CFI, FH3 FuncInfo,
// RTTI and vtable encoders (debuginfo.go, eh_elf.go, eh_coff.go,
// rtti_*.go, vtable.go) are standalone builders; Convert does not place
// their output in the object, so it carries no debug info, EH metadata,
// RTTI or vtables.
//
// Lexing, parsing, template instantiation, overload resolution, constant
// evaluation, linking and the CLI driver all live upstream of this
// package; it only ever sees the shapes described in ir.go and payloads.go.
package cppbe
