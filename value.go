// Completion: 100% - Value universe complete
package cppbe

import "fmt"

// TypeKind is the coarse classification of a TypedValue's type, enough for
// the backend to pick encodings without re-deriving anything the front end
// already decided.
type TypeKind int

const (
	TypeInt TypeKind = iota
	TypeUInt
	TypeFloat // IEEE-754 single or double, distinguished by SizeInBits
	TypePointer
	TypeFunctionPointer
	TypeStruct
	TypeVoid
)

func (k TypeKind) String() string {
	switch k {
	case TypeInt:
		return "int"
	case TypeUInt:
		return "uint"
	case TypeFloat:
		return "float"
	case TypePointer:
		return "pointer"
	case TypeFunctionPointer:
		return "function-pointer"
	case TypeStruct:
		return "struct"
	case TypeVoid:
		return "void"
	default:
		return "unknown"
	}
}

// CVQualifier mirrors the source-level const/volatile qualifiers; the
// backend only ever reads it when deciding whether a read-modify-write on
// a reference target is legal (it never forbids it, only documents it).
type CVQualifier uint8

const (
	CVNone CVQualifier = 0
	CVConst CVQualifier = 1 << iota
	CVVolatile
)

// RefQualifier distinguishes plain values, lvalue references and rvalue
// references, mirrored from the type system.
type RefQualifier int

const (
	RefNone RefQualifier = iota
	RefLValue
	RefRValue
)

// Value is the interface implemented by every operand kind flowing between
// instructions: TempVar, StringHandle and Immediate.
type Value interface {
	isValue()
	String() string
}

// TempVar is an SSA-ish numbered temporary. The backend resolves it to a
// negative stack offset the first time it's referenced in a function.
type TempVar struct {
	VarNumber uint32
	Name      InternedString // optional, for diagnostics only
}

func (TempVar) isValue() {}
func (t TempVar) String() string { return fmt.Sprintf("%%t%d", t.VarNumber) }

// StringHandle names a user variable (local or global) by its interned
// identifier.
type StringHandle struct {
	Name InternedString
}

func (StringHandle) isValue() {}
func (s StringHandle) String() string { return s.Name.String() }

// Immediate is a constant operand: either a bit-pattern integer or an
// IEEE-754 double. A 32-bit float literal is carried as the low 32 bits of
// its bit-cast, per spec.
type Immediate struct {
	IsFloat bool
	Bits    uint64  // integer bit pattern, or math.Float64bits(F) mirror
	F       float64 // valid when IsFloat
}

func (Immediate) isValue() {}
func (im Immediate) String() string {
	if im.IsFloat {
		return fmt.Sprintf("%g", im.F)
	}
	return fmt.Sprintf("%#x", im.Bits)
}

// TypedValue pairs an operand with everything the backend needs to encode
// it without re-deriving type information.
type TypedValue struct {
	Value          Value
	Type           TypeKind
	SizeInBits     int
	TypeIndex      int // index into an upstream type table, opaque here
	PointerDepth   int
	CV             CVQualifier
	Ref            RefQualifier
	IsReference    bool
}

// IsSigned reports whether arithmetic/shift/compare encodings should treat
// this value as a signed integer.
func (tv TypedValue) IsSigned() bool {
	return tv.Type == TypeInt
}

// InternedString is a handle into the process-wide, append-only string
// intern table (see intern.go). Two InternedStrings compare equal iff the
// underlying text is identical.
type InternedString uint32

func (s InternedString) String() string {
	return internPool.lookup(s)
}
