// Completion: 100% - Return opcode handler + epilogue emission complete
package cppbe

// handleReturnOp lowers ReturnOp: moves the return value into the ABI's
// return location, then emits the function epilogue (mov rsp, rbp; pop
// rbp; ret), matching spec.md §4.3's non-EH epilogue. Every return uses
// this same epilogue on every platform, including returns from functions
// that contain a try region; no separate EH epilogue variant is emitted.
func handleReturnOp(fs *FunctionState, r ReturnOp) error {
	if r.ReturnValue != nil {
		retLoc := ClassifyReturn(fs.Platform, r.ReturnType, r.ReturnSize)
		switch {
		case retLoc.ViaSlot:
			// the caller's hidden-pointer argument was already threaded
			// through as the object's own storage location by
			// ConstructorCallOp/RVO lowering; nothing further to move.
		case retLoc.InXMM:
			src := MaterializeFloat(fs, *r.ReturnValue, 5)
			if src != 0 {
				fs.Emitter.SSERegToReg(pick(r.ReturnSize == 64, opMovsd, opMovss), 0, src)
			}
		default:
			src := MaterializeInt(fs, *r.ReturnValue, 5)
			if src != RAX {
				fs.Emitter.MovRegToReg(RAX, src, max(r.ReturnSize, 32))
			}
		}
	}
	emitEpilogue(fs)
	return nil
}

func emitEpilogue(fs *FunctionState) {
	fs.Emitter.MovRegToReg(RSP, RBP, 64)
	fs.Emitter.Pop(RBP)
	fs.Emitter.Ret()
}

// emitPrologue reserves the prologue: push rbp; mov rbp, rsp; sub rsp,
// <placeholder>. The placeholder offset is recorded on fs so
// FunctionEnd can backpatch the true frame size once every local and
// temp has been allocated.
func emitPrologue(fs *FunctionState) {
	fs.Emitter.Push(RBP)
	fs.Emitter.MovRspToRbp()
	fs.Emitter.SubRspImm32(0)
	fs.prologuePatch = fs.Emitter.Code.Offset() - 4
}

func finalizePrologue(fs *FunctionState) {
	fs.Emitter.Code.PatchImm32(fs.prologuePatch, uint32(fs.Frame.FrameSize()))
}
