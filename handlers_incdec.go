// Completion: 100% - Increment/decrement opcode handlers complete
package cppbe

// handleIncDecOp lowers Pre/PostIncrement and Pre/PostDecrement. Pre- and
// post- forms differ only in which value the IR's Result temp captures
// (done upstream by the front end issuing a separate BinaryOp/Assignment
// pair around this op when the old value is needed); this handler always
// performs the mutation and leaves the post-mutation value as Result,
// matching spec.md §4.4's note that pre/post distinction is front-end
// sequencing, not a different opcode encoding.
func handleIncDecOp(fs *FunctionState, op Opcode, i IncDecOp) error {
	reg := MaterializeInt(fs, i.Operand, 5)
	sizeBits := i.Operand.SizeInBits
	if sizeBits < 32 {
		sizeBits = 32
	}
	isInc := op == OpPreIncrement || op == OpPostIncrement
	fs.Emitter.IncDecReg(reg, sizeBits, isInc)
	StoreIntToLValue(fs, i.Operand, reg)
	StoreIntResult(fs, i.Result, reg, sizeBits, 5)
	return nil
}
