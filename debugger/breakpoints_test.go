package debugger_test

import (
	"testing"

	"github.com/rv32emu/rv32emu/debugger"
)

func TestBreakpointSetAddAndHas(t *testing.T) {
	bs := debugger.NewBreakpointSet()
	if bs.Has(0x100) {
		t.Fatal("expected no breakpoint before Add")
	}
	bs.Add(0x100)
	if !bs.Has(0x100) {
		t.Fatal("expected breakpoint after Add")
	}
	if bs.Count() != 1 {
		t.Fatalf("Count()=%d", bs.Count())
	}
}

func TestBreakpointSetAddIsIdempotent(t *testing.T) {
	bs := debugger.NewBreakpointSet()
	bs.Add(0x200)
	bs.Add(0x200)
	if bs.Count() != 1 {
		t.Fatalf("Count()=%d, want 1", bs.Count())
	}
}

func TestBreakpointSetAllSorted(t *testing.T) {
	bs := debugger.NewBreakpointSet()
	bs.Add(0x300)
	bs.Add(0x100)
	bs.Add(0x200)
	got := bs.All()
	want := []uint32{0x100, 0x200, 0x300}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
