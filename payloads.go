// Completion: 100% - IR payload catalog complete
package cppbe

// Linkage mirrors the three linkages the front end can assign a function
// or global.
type Linkage int

const (
	LinkageInternal Linkage = iota
	LinkageExternal
	LinkageWeak
)

// Parameter describes one formal parameter in a FunctionDeclOp.
type Parameter struct {
	Name        InternedString
	Type        TypeKind
	SizeInBits  int
	PointerDepth int
	IsReference bool
	IsRValueRef bool
}

// FunctionDeclOp opens a new function; per-function backend state (frame,
// allocator, label table, EH stacks) is created here and torn down at the
// next FunctionDeclOp or FunctionEnd.
type FunctionDeclOp struct {
	FunctionName        InternedString
	MangledName         InternedString
	StructName          InternedString // non-zero for methods
	ReturnType           TypedValue
	Parameters           []Parameter
	Linkage              Linkage
	IsVariadic           bool
	IsInline             bool
	HasHiddenReturnParam bool
	ReturnsReference     bool
	IsStaticMember       bool
}

func (FunctionDeclOp) isPayload() {}

// FunctionEndOp closes the function opened by the last FunctionDeclOp.
type FunctionEndOp struct{}

func (FunctionEndOp) isPayload() {}

// VariableDeclOp registers a named local in the current scope.
type VariableDeclOp struct {
	Name       InternedString
	Type       TypedValue
	IsArray    bool
	ArrayCount int
}

func (VariableDeclOp) isPayload() {}

// GlobalVariableDeclOp registers a translation-unit-scope global.
type GlobalVariableDeclOp struct {
	VarName      InternedString
	Type         TypedValue
	ElementCount int
	IsInitialized bool
	InitData     []byte
	RelocTarget  InternedString // non-zero if InitData contains a pointer needing relocation
	Linkage      Linkage
}

func (GlobalVariableDeclOp) isPayload() {}

// BinaryOp covers Add/Sub/And/Or/Xor/Mul/Div/Mod/UDiv/Shl/Shr and the six
// comparison opcodes.
type BinaryOp struct {
	Result TempVar
	Lhs    TypedValue
	Rhs    TypedValue
}

func (BinaryOp) isPayload() {}

// UnaryOp covers Negate/BitwiseNot/LogicalNot.
type UnaryOp struct {
	Result  TempVar
	Operand TypedValue
}

func (UnaryOp) isPayload() {}

// TypeConversionOp covers SignExtend/ZeroExtend/Truncate/FloatToInt/
// IntToFloat/FloatToFloat.
type TypeConversionOp struct {
	From   TypedValue
	ToType TypeKind
	ToSize int
	Result TempVar
}

func (TypeConversionOp) isPayload() {}

// AssignmentOp is the largest single handler in the backend; see
// handlers_assign.go.
type AssignmentOp struct {
	Lhs                      TypedValue
	Rhs                      TypedValue
	IsPointerStore           bool
	DereferenceRhsReferences bool
}

func (AssignmentOp) isPayload() {}

// Argument is one actual argument at a call site.
type Argument struct {
	Value          TypedValue
	PassByAddress  bool // references, large structs, `this`
}

// CallOp is a direct or indirect non-member/free-function-pointer call.
type CallOp struct {
	Result                TempVar
	ReturnType            TypeKind
	ReturnSizeInBits      int
	FunctionName          InternedString
	Args                  []Argument
	IsVariadic            bool
	IsMemberFunction      bool
	IsIndirectCall        bool
	ReturnsRvalueRef      bool
	HasHiddenReturnParam  bool
}

func (CallOp) isPayload() {}

// UsesReturnSlot mirrors CallOp::usesReturnSlot() from spec.md §6.1.
func (c CallOp) UsesReturnSlot() bool { return c.HasHiddenReturnParam }

// GetFunctionName mirrors CallOp::getFunctionName() from spec.md §6.1.
func (c CallOp) GetFunctionName() string { return c.FunctionName.String() }

// ConstructorCallOp invokes a constructor on an object already allocated
// (stack, heap, or RVO return slot).
type ConstructorCallOp struct {
	StructName       InternedString
	Object           TypedValue
	Arguments        []Argument
	UseReturnSlot    bool
	ReturnSlotOffset int
	IsHeapAllocated  bool
	BaseClassOffset  int
	ArrayIndex       int // -1 when not constructing an array element
}

func (ConstructorCallOp) isPayload() {}

// DestructorCallOp invokes a destructor on an object.
type DestructorCallOp struct {
	StructName     InternedString
	Object         TypedValue
	ObjectIsPointer bool
}

func (DestructorCallOp) isPayload() {}

// VirtualCallOp dispatches through the object's vtable.
type VirtualCallOp struct {
	Result          TempVar
	Object          TypedValue
	VtableIndex     int
	Arguments       []Argument
	IsPointerAccess bool
	ResultType      TypeKind
	ObjectSize      int
}

func (VirtualCallOp) isPayload() {}

// HeapAllocOp covers HeapAlloc/PlacementNew; HeapAllocArrayOp covers
// HeapAllocArray, which may prepend an element-count cookie.
type HeapAllocOp struct {
	Result      TempVar
	SizeInBytes int
	Placement   TypedValue // valid only for PlacementNew
}

func (HeapAllocOp) isPayload() {}

type HeapAllocArrayOp struct {
	Result      TempVar
	SizeInBytes int
	Count       TypedValue
	NeedsCookie bool
}

func (HeapAllocArrayOp) isPayload() {}

// HeapFreeOp covers HeapFree/HeapFreeArray.
type HeapFreeOp struct {
	Pointer   TypedValue
	IsArray   bool
	HasCookie bool
}

func (HeapFreeOp) isPayload() {}

// DynamicCastOp is `dynamic_cast<Target>(source)`.
type DynamicCastOp struct {
	Result         TempVar
	Source         TypedValue
	TargetTypeName InternedString
	IsReference    bool
}

func (DynamicCastOp) isPayload() {}

// LabelOp records the current code offset under a name.
type LabelOp struct {
	LabelName InternedString
}

func (LabelOp) isPayload() {}

// BranchOp is an unconditional jump.
type BranchOp struct {
	Target InternedString
}

func (BranchOp) isPayload() {}

// CondKind is the IR-level condition of a comparison opcode (condKindFor,
// handlers_arith.go); conditionFor (emit_core.go) picks the matching x86
// condition code.
type CondKind int

const (
	CondEQ CondKind = iota
	CondNE
	CondLT
	CondLE
	CondGT
	CondGE
)

// ConditionalBranchOp jumps to Target when Condition (a boolean-valued
// TypedValue, already the result of a Compare or LogicalNot) is nonzero,
// or when it is zero if JumpIfTrue is false.
type ConditionalBranchOp struct {
	Condition TypedValue
	Target    InternedString
	JumpIfTrue bool
}

func (ConditionalBranchOp) isPayload() {}

// LoopBeginOp/LoopEndOp push/pop the loop-context stack break/continue
// targets.
type LoopBeginOp struct {
	EndLabel       InternedString
	IncrementLabel InternedString
}

func (LoopBeginOp) isPayload() {}

type LoopEndOp struct{}

func (LoopEndOp) isPayload() {}

type BreakOp struct{}

func (BreakOp) isPayload() {}

type ContinueOp struct{}

func (ContinueOp) isPayload() {}

// ArrayAccessOp reads an element; ArrayStoreOp writes one;
// ArrayElementAddressOp produces the address without reading/writing.
type ArrayAccessOp struct {
	Result              TempVar
	Array               TypedValue
	Index               TypedValue // Value may be Immediate for a constant index
	ElementType          TypeKind
	ElementSizeInBits    int
	MemberOffset         int
	IsPointerToArray     bool
}

func (ArrayAccessOp) isPayload() {}

type ArrayStoreOp struct {
	Array             TypedValue
	Index             TypedValue
	Value             TypedValue
	ElementSizeInBits int
	MemberOffset      int
	IsPointerToArray  bool
}

func (ArrayStoreOp) isPayload() {}

type ArrayElementAddressOp struct {
	Result            TempVar
	Array             TypedValue
	Index             TypedValue
	ElementSizeInBits int
	MemberOffset      int
	IsPointerToArray  bool
}

func (ArrayElementAddressOp) isPayload() {}

// IncDecOp covers Pre/PostIncrement and Pre/PostDecrement.
type IncDecOp struct {
	Result  TempVar
	Operand TypedValue
}

func (IncDecOp) isPayload() {}

// ReturnOp covers a value return, a reference return (address, not
// dereferenced) and a void return (ReturnValue == nil).
type ReturnOp struct {
	ReturnValue *TypedValue
	ReturnType  TypeKind
	ReturnSize  int
}

func (ReturnOp) isPayload() {}

// TypeInfoRef names a catch handler's matched type: a builtin type, a
// typeinfo symbol, or "catch all" when TypeName is zero.
type TypeInfoRef struct {
	TypeName InternedString
	CatchAll bool
}

// TryBeginOp/TryEndOp bracket a protected region; CatchBeginOp/CatchEndOp
// bracket one handler within it.
type TryBeginOp struct{}

func (TryBeginOp) isPayload() {}

type TryEndOp struct{}

func (TryEndOp) isPayload() {}

type CatchBeginOp struct {
	Type TypeInfoRef
}

func (CatchBeginOp) isPayload() {}

type CatchEndOp struct{}

func (CatchEndOp) isPayload() {}

// ThrowOp throws a new exception object; RethrowOp rethrows the current one.
type ThrowOp struct {
	Value    TypedValue
	TypeName InternedString
}

func (ThrowOp) isPayload() {}

type RethrowOp struct{}

func (RethrowOp) isPayload() {}

// SehTryBeginOp/SehExceptBeginOp/SehFinallyBeginOp/SehLeaveOp model
// Windows __try/__except/__finally, independent of C++ EH.
type SehTryBeginOp struct{}

func (SehTryBeginOp) isPayload() {}

type SehExceptBeginOp struct {
	ConstantFilter  bool
	ConstantValue   int32
	FilterFuncLabel InternedString // used when !ConstantFilter
}

func (SehExceptBeginOp) isPayload() {}

type SehFinallyBeginOp struct {
	CleanupLabel InternedString
}

func (SehFinallyBeginOp) isPayload() {}

type SehLeaveOp struct {
	Target InternedString
}

func (SehLeaveOp) isPayload() {}
