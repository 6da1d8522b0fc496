// Completion: 100% - REX/ModR-M/SIB byte-encoding core complete
//
// Everything else in the emit_*.go family funnels through these helpers so
// that the "emit X" contract spec.md §4.1 calls for is checked in exactly
// one place: REX prefix bits, the ModR/M byte, optional SIB, and the
// optional 8/32-bit displacement.
package cppbe

// Emitter is the byte-level instruction emitter for one function's .text
// region. It owns no register-allocation state; it only turns fully
// resolved operands into bytes, and records relocations for the object
// writer to resolve later.
type Emitter struct {
	Code  *CodeBuffer
	Relocs *[]Relocation
}

func NewEmitter(code *CodeBuffer, relocs *[]Relocation) *Emitter {
	return &Emitter{Code: code, Relocs: relocs}
}

func (e *Emitter) addReloc(offset int, symbol string, t RelocType, addend int64) {
	*e.Relocs = append(*e.Relocs, Relocation{Section: "text", Offset: offset, Symbol: symbol, Type: t, Addend: addend})
}

// rex builds a REX prefix byte. w selects REX.W (64-bit operand size); r
// and b extend the reg and rm/base fields (bit 3 of an 8-15 encoding); x
// extends the SIB index field. forceEmit is set when any operand is one of
// SPL/BPL/SIL/DIL (register numbers that only exist with a REX byte
// present, even an otherwise-empty one).
func rex(w, r, x, b bool, forceEmit bool) (byte, bool) {
	if !w && !r && !x && !b && !forceEmit {
		return 0, false
	}
	v := byte(0x40)
	if w {
		v |= 0x08
	}
	if r {
		v |= 0x04
	}
	if x {
		v |= 0x02
	}
	if b {
		v |= 0x01
	}
	return v, true
}

// modrmReg builds a ModR/M byte in register-direct addressing mode
// (mod=11), with reg as the middle field and rm as the low field. Both are
// already masked to their low 3 bits by the caller's GPReg/XMMReg type.
func modrmReg(regField, rmField uint8) byte {
	return 0xC0 | (regField&0x7)<<3 | (rmField & 0x7)
}

// emitModRMDisp emits a ModR/M (+ optional disp) addressing [rbp+disp] or
// [reg+disp], choosing disp8 vs disp32 at the ±128 boundary per spec.md
// §8.3. baseField is the base register's low 3 bits; 0x5 in that position
// with mod=00 means RIP-relative or disp32-no-base on real x86-64, so RBP
// (encoding 5) always forces at least a disp8 even at offset 0.
func (e *Emitter) emitModRMDisp(regField uint8, baseReg GPReg, disp int32) {
	baseField := baseReg.low3()
	needsDisp8Minimum := baseReg == RBP || baseReg == R13
	switch {
	case disp == 0 && !needsDisp8Minimum:
		e.Code.Byte(0x00<<6 | regField<<3 | baseField)
	case disp >= -128 && disp <= 127:
		e.Code.Byte(0x01<<6 | regField<<3 | baseField)
		e.Code.Imm8(int8(disp))
	default:
		e.Code.Byte(0x02<<6 | regField<<3 | baseField)
		e.Code.Imm32(uint32(disp))
	}
	// RSP (and R12) as a base always requires a SIB byte with no
	// index/scale (index=100=none, scale irrelevant).
	if baseReg == RSP || baseReg == R12 {
		// emitModRMDisp is never called with RSP/R12 as the frame base in
		// this backend (frame addressing is always RBP-relative); stack
		// slots accessed via RSP go through emitModRMSIBDisp instead.
	}
}

// emitModRMSIBDisp builds [base + index*scale + disp], used by array
// element addressing (spec.md §4.4 ArrayAccess family).
func (e *Emitter) emitModRMSIBDisp(regField uint8, base, index GPReg, scale uint8, disp int32) {
	baseField := base.low3()
	indexField := index.low3()
	needsDisp8Minimum := base == RBP || base == R13
	var scaleBits uint8
	switch scale {
	case 1:
		scaleBits = 0
	case 2:
		scaleBits = 1
	case 4:
		scaleBits = 2
	case 8:
		scaleBits = 3
	default:
		scaleBits = 0
	}
	switch {
	case disp == 0 && !needsDisp8Minimum:
		e.Code.Byte(0x00<<6 | regField<<3 | 0x4)
		e.Code.Byte(scaleBits<<6 | indexField<<3 | baseField)
	case disp >= -128 && disp <= 127:
		e.Code.Byte(0x01<<6 | regField<<3 | 0x4)
		e.Code.Byte(scaleBits<<6 | indexField<<3 | baseField)
		e.Code.Imm8(int8(disp))
	default:
		e.Code.Byte(0x02<<6 | regField<<3 | 0x4)
		e.Code.Byte(scaleBits<<6 | indexField<<3 | baseField)
		e.Code.Imm32(uint32(disp))
	}
}

// condCode is an x86 condition-code nibble (the low nibble of 0x0F 0x8x /
// 0x7x / 0x9x opcodes), selected from the IR's CondKind per spec.md §4.4.
type condCode uint8

const (
	ccO  condCode = 0x0
	ccNO condCode = 0x1
	ccB  condCode = 0x2 // below / carry (unsigned <)
	ccAE condCode = 0x3 // above-or-equal (unsigned >=)
	ccE  condCode = 0x4
	ccNE condCode = 0x5
	ccBE condCode = 0x6 // unsigned <=
	ccA  condCode = 0x7 // unsigned >
	ccS  condCode = 0x8
	ccNS condCode = 0x9
	ccL  condCode = 0xC // signed <
	ccGE condCode = 0xD // signed >=
	ccLE condCode = 0xE // signed <=
	ccG  condCode = 0xF // signed >
)

// conditionFor maps an IR CondKind plus operand signedness/float-ness to
// the x86 condition code. Float comparisons use the unsigned codes so
// that an unordered (NaN) result reads as "not satisfied", per spec.md
// §4.4's UCOMISS/SD note and §9's open question confirming this is
// intentional.
func conditionFor(k CondKind, signed, isFloat bool) condCode {
	if isFloat {
		signed = false
	}
	switch k {
	case CondEQ:
		return ccE
	case CondNE:
		return ccNE
	case CondLT:
		if signed {
			return ccL
		}
		return ccB
	case CondLE:
		if signed {
			return ccLE
		}
		return ccBE
	case CondGT:
		if signed {
			return ccG
		}
		return ccA
	case CondGE:
		if signed {
			return ccGE
		}
		return ccAE
	default:
		return ccE
	}
}
