package asm

import (
	"strings"
	"testing"
)

func TestProgramEmitIndentsAndLabelsDoNot(t *testing.T) {
	p := New()
	p.Label("Program_start")
	p.Emit("pushl %%ebp")
	p.Comment("a banner")
	p.Raw(".text")

	out := p.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if lines[0] != "Program_start:" {
		t.Fatalf("expected label with no indent, got %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "\t") {
		t.Fatalf("expected emitted instruction to be tab-indented, got %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "\t#") {
		t.Fatalf("expected comment line to start with a tab and '#', got %q", lines[2])
	}
	if lines[3] != ".text" {
		t.Fatalf("expected raw line verbatim, got %q", lines[3])
	}
}

// TestLabelerProducesUniqueMonotonicLabels is spec.md §8 invariant 6.
func TestLabelerProducesUniqueMonotonicLabels(t *testing.T) {
	l := NewLabeler()
	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		name := l.New()
		if seen[name] {
			t.Fatalf("label %s was allocated twice", name)
		}
		seen[name] = true
	}
	if l.New() != "L5" {
		t.Fatalf("expected the 6th label to be L5")
	}
}
