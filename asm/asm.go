// Package asm accumulates the text x86 assembly the code generator
// emits and allocates the monotonic jump labels comparisons and boolean
// operators need for their short-circuit sequences.
//
// It plays the role the teacher's code package plays for the bytecode
// VM -- code.Instructions accumulates encoded bytes via Make, one
// instruction at a time, for the VM to later execute; asm.Program
// accumulates text lines via Emit, one instruction at a time, for a
// downstream assembler to later assemble. Neither package interprets
// what it buffers; both just append and later stringify.
package asm

import (
	"fmt"
	"strings"
)

// Program is an accumulating buffer of assembly source lines.
type Program struct {
	lines []string
}

// New returns an empty Program.
func New() *Program {
	return &Program{}
}

// Emit appends one instruction line, indented the way hand-written AT&T
// syntax assembly is: a tab before the mnemonic.
func (p *Program) Emit(format string, args ...any) {
	p.lines = append(p.lines, "\t"+fmt.Sprintf(format, args...))
}

// Label appends a label definition line (column zero, no indent).
func (p *Program) Label(name string) {
	p.lines = append(p.lines, name+":")
}

// Comment appends a standalone comment line.
func (p *Program) Comment(format string, args ...any) {
	p.lines = append(p.lines, "\t# "+fmt.Sprintf(format, args...))
}

// Raw appends a line verbatim, for directives like .text and .comm that
// don't follow the instruction-indent convention.
func (p *Program) Raw(line string) {
	p.lines = append(p.lines, line)
}

// String renders the accumulated source, one instruction per line.
func (p *Program) String() string {
	return strings.Join(p.lines, "\n") + "\n"
}

// Labeler allocates the monotonically increasing L0, L1, L2, ... labels
// that comparisons, And, Not, and If use for their short-circuit and
// branch targets. One Labeler is shared across an entire compilation so
// labels never collide across methods.
type Labeler struct {
	n int
}

// NewLabeler returns a Labeler starting at L0.
func NewLabeler() *Labeler {
	return &Labeler{}
}

// New returns the next unused label name.
func (l *Labeler) New() string {
	name := fmt.Sprintf("L%d", l.n)
	l.n++
	return name
}
