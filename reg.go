// Completion: 100% - x86-64 register table complete
package cppbe

// GPReg is a general-purpose register's 4-bit encoding (0-15); bit 3 (>=8)
// requires a REX extension bit at the use site.
type GPReg uint8

const (
	RAX GPReg = iota
	RCX
	RDX
	RBX
	RSP
	RBP
	RSI
	RDI
	R8
	R9
	R10
	R11
	R12
	R13
	R14
	R15
)

func (r GPReg) needsREX() bool { return r >= 8 }
func (r GPReg) low3() uint8    { return uint8(r) & 0x7 }

// name64/32/16/8 return the register's assembly mnemonic at a given
// operand width, used only for verbose tracing.
func (r GPReg) name64() string { return gp64Names[r] }
func (r GPReg) name32() string { return gp32Names[r] }
func (r GPReg) name8() string  { return gp8Names[r] }

var gp64Names = [16]string{"rax", "rcx", "rdx", "rbx", "rsp", "rbp", "rsi", "rdi", "r8", "r9", "r10", "r11", "r12", "r13", "r14", "r15"}
var gp32Names = [16]string{"eax", "ecx", "edx", "ebx", "esp", "ebp", "esi", "edi", "r8d", "r9d", "r10d", "r11d", "r12d", "r13d", "r14d", "r15d"}

// gp8Names are the byte-register names once a REX prefix is present
// (SPL/BPL/SIL/DIL become addressable instead of AH/BH/CH/DH).
var gp8Names = [16]string{"al", "cl", "dl", "bl", "spl", "bpl", "sil", "dil", "r8b", "r9b", "r10b", "r11b", "r12b", "r13b", "r14b", "r15b"}

// XMMReg is an SSE register's 4-bit encoding (0-15); XMM8-15 need REX too.
type XMMReg uint8

func (r XMMReg) needsREX() bool { return r >= 8 }
func (r XMMReg) low3() uint8    { return uint8(r) & 0x7 }

// SysV integer/argument register order, spec.md §4.3 table.
var sysvIntArgRegs = [6]GPReg{RDI, RSI, RDX, RCX, R8, R9}

// Win64 integer/argument register order.
var win64IntArgRegs = [4]GPReg{RCX, RDX, R8, R9}

// callerSavedGP are invalidated by RegisterAllocator.InvalidateCallerSaved
// after every call boundary (spec.md §4.2).
var callerSavedGP = []GPReg{RAX, RCX, RDX, R8, R9, R10, R11}
