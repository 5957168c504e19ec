package frame

import "testing"

func TestNewFrameStartsAtSavedEbp(t *testing.T) {
	f := New("Program", "start")
	if f.Label() != "Program_start" {
		t.Fatalf("expected label Program_start, got %s", f.Label())
	}
	if f.Offsets.TotalSize() != 4 {
		t.Fatalf("expected initial total size 4 (saved %%ebp), got %d", f.Offsets.TotalSize())
	}
}

// TestNextLocalOffsetGrowsDownward checks spec.md §8 invariant 5: the
// sum of local sizes equals TotalSize - 4, with offsets negative from
// %ebp.
func TestNextLocalOffsetGrowsDownward(t *testing.T) {
	f := New("Program", "start")

	first := f.NextLocalOffset(4)
	if first != -4 {
		t.Fatalf("expected first local at -4(%%ebp), got %d", first)
	}
	second := f.NextLocalOffset(4)
	if second != -8 {
		t.Fatalf("expected second local at -8(%%ebp), got %d", second)
	}
	if f.Offsets.TotalSize()-4 != 8 {
		t.Fatalf("expected sum of local sizes to equal TotalSize-4=8, got %d", f.Offsets.TotalSize()-4)
	}
}

func TestNextParamOffsetStartsAtTwelve(t *testing.T) {
	f := New("A", "f")

	first := f.NextParamOffset(4)
	if first != 12 {
		t.Fatalf("expected first parameter at +12(%%ebp), got %d", first)
	}
	second := f.NextParamOffset(4)
	if second != 16 {
		t.Fatalf("expected second parameter at +16(%%ebp), got %d", second)
	}
}

func TestCleanupSizeIncludesReceiver(t *testing.T) {
	if got := CleanupSize(0); got != 4 {
		t.Fatalf("expected CleanupSize(0) = 4 (receiver only), got %d", got)
	}
	if got := CleanupSize(2); got != 12 {
		t.Fatalf("expected CleanupSize(2) = 12 (2 args + receiver), got %d", got)
	}
}
