// Package frame tracks the activation-record layout of the method
// currently being emitted by the code generator.
//
// This is the compile-time analogue of the teacher's vm.Frame: that type
// paired a running closure with its bytecode instruction pointer and its
// base pointer into the VM's value stack, one per call in flight. This
// language never executes anything at compile time, so there is no call
// stack to index -- instead a Frame pairs the method currently being
// walked with its own offset table (locals below %ebp, parameters above
// it) and the label codegen emits a call to. Exactly one Frame is active
// at a time, since methods in this language cannot be nested.
package frame

import "github.com/kongclass/kongc/classtable"

// Frame is the per-method state codegen consults while walking a
// Method's body: where to find a local or parameter, and what this
// method's own entry label and return-cleanup size are.
type Frame struct {
	ClassName  string
	MethodName string

	// Offsets records each local and parameter's (offset, size, type).
	// Distinct from the class's own field OffsetTable -- this one's
	// zero point is %ebp, not the object base.
	Offsets *classtable.OffsetTable
}

// New starts a fresh Frame for className's methodName, seeded with
// TotalSize 4 (the saved %ebp slot) per spec.md's per-method offset
// table convention.
func New(className, methodName string) *Frame {
	f := &Frame{
		ClassName:  className,
		MethodName: methodName,
		Offsets:    classtable.NewOffsetTable(),
	}
	f.Offsets.SetTotalSize(4)
	return f
}

// Label is the global assembly label this method is emitted under.
func (f *Frame) Label() string {
	return f.ClassName + "_" + f.MethodName
}

// NextLocalOffset returns the %ebp-relative offset for a local of size
// bytes and advances the frame's total size by it. Locals sit below
// %ebp, so the returned offset is negative: the first local lands at
// -size(%ebp), immediately below the saved %ebp at +0, not below the
// initial TotalSize of 4 (which accounts for that saved %ebp, not for
// any local). Reading TotalSize before growing it, then subtracting the
// fixed 4-byte saved-%ebp accounting, isolates the cumulative
// locals-only size the offset is actually relative to.
func (f *Frame) NextLocalOffset(size int) int {
	before := f.Offsets.TotalSize()
	f.Offsets.SetTotalSize(before + size)
	return -(before - 4 + size)
}

// NextParamOffset returns the %ebp-relative offset for the next
// parameter, in declaration order: +12 for the first (after the saved
// %ebp at +0, the return address at +4, and the receiver pointer at
// +8), growing by size for each subsequent one.
func (f *Frame) NextParamOffset(size int) int {
	if f.Offsets.ParamSize() == 0 {
		f.Offsets.SetParamSize(12)
	}
	off := f.Offsets.ParamSize()
	f.Offsets.SetParamSize(off + size)
	return off
}

// CleanupSize is the byte count the caller adds back to %esp after a
// call to this method: one slot per declared argument plus the
// receiver, per spec.md's calling convention.
func CleanupSize(nargs int) int {
	return 4 * (nargs + 1)
}
