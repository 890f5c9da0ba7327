package core

import "testing"

func step1(t *testing.T, words []uint32, regs map[int]uint32) (*State, *Metrics) {
	t.Helper()
	s := NewState(DefaultMemory)
	for i, w := range regs {
		s.WriteReg(i, w)
	}
	for i, w := range words {
		if err := s.WriteWord(uint32(i*4), w); err != nil {
			t.Fatal(err)
		}
	}
	m := NewMetrics()
	ex := NewExecutor()
	if err := ex.Step(s, m); err != nil {
		t.Fatal(err)
	}
	return s, m
}

func TestScenarioAdd(t *testing.T) {
	// S1: add x1, x2, x3; x2=10, x3=20
	s, _ := step1(t, []uint32{0x003100b3}, map[int]uint32{2: 10, 3: 20})
	if s.ReadReg(1) != 30 || s.PC != 4 {
		t.Fatalf("x1=%d pc=%d", s.ReadReg(1), s.PC)
	}
}

func TestScenarioWrap(t *testing.T) {
	// S2: add x3, x1, x2; x1=0xFFFFFFFF, x2=1
	s, _ := step1(t, []uint32{0x002081b3}, map[int]uint32{1: 0xFFFFFFFF, 2: 1})
	if s.ReadReg(3) != 0 {
		t.Fatalf("x3=%#x", s.ReadReg(3))
	}
}

func TestScenarioBeqTaken(t *testing.T) {
	// S3: beq x1, x2, 8; x1=x2=42
	s, m := step1(t, []uint32{0x00208463}, map[int]uint32{1: 42, 2: 42})
	if s.PC != 8 || m.BranchTaken != 1 {
		t.Fatalf("pc=%d taken=%d", s.PC, m.BranchTaken)
	}
}

func TestScenarioLoadStoreRoundTrip(t *testing.T) {
	// sw x2, 0(x1) ; lw x3, 0(x1)   x1=0x100, x2=0xDEADBEEF
	s := NewState(DefaultMemory)
	s.WriteReg(1, 0x100)
	s.WriteReg(2, 0xDEADBEEF)
	sw := uint32(0x0)<<25 | uint32(2)<<20 | uint32(1)<<15 | uint32(0x2)<<12 | uint32(0)<<7 | 0x23
	lw := uint32(0)<<20 | uint32(1)<<15 | uint32(0x2)<<12 | uint32(3)<<7 | 0x03
	if err := s.WriteWord(0, sw); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteWord(4, lw); err != nil {
		t.Fatal(err)
	}
	m := NewMetrics()
	ex := NewExecutor()
	if _, err := ex.Run(s, m, 2); err != nil {
		t.Fatal(err)
	}
	if s.ReadReg(3) != 0xDEADBEEF {
		t.Fatalf("x3=%#x", s.ReadReg(3))
	}
}

func TestScenarioJalrClearsBit0(t *testing.T) {
	// jalr x1, 1(x2); x2 = 0x100
	s := NewState(DefaultMemory)
	s.WriteReg(2, 0x100)
	word := uint32(1)<<20 | uint32(2)<<15 | uint32(0)<<12 | uint32(1)<<7 | 0x67
	if err := s.WriteWord(0, word); err != nil {
		t.Fatal(err)
	}
	m := NewMetrics()
	ex := NewExecutor()
	if err := ex.Step(s, m); err != nil {
		t.Fatal(err)
	}
	if s.PC != 0x100 || s.ReadReg(1) != 4 {
		t.Fatalf("pc=%#x x1=%d", s.PC, s.ReadReg(1))
	}
}

func TestShiftAmountMasked(t *testing.T) {
	// sll x1, x2, x3; x2=1, x3=36 -> shift by 36&0x1f=4
	s, _ := step1(t, []uint32{0x003110b3}, map[int]uint32{2: 1, 3: 36})
	if s.ReadReg(1) != 1<<4 {
		t.Fatalf("x1=%#x", s.ReadReg(1))
	}
}

func TestSraSignExtends(t *testing.T) {
	// srai x1, x2, 4; x2=0x80000000 -> 0xF8000000
	word := uint32(0x20)<<25 | uint32(4)<<20 | uint32(2)<<15 | uint32(0x5)<<12 | uint32(1)<<7 | 0x13
	s, _ := step1(t, []uint32{word}, map[int]uint32{2: 0x80000000})
	if s.ReadReg(1) != 0xF8000000 {
		t.Fatalf("x1=%#x", s.ReadReg(1))
	}
}

func TestSrliLogical(t *testing.T) {
	// srli x1, x2, 4; x2=0x80000000 -> 0x08000000
	word := uint32(0x00)<<25 | uint32(4)<<20 | uint32(2)<<15 | uint32(0x5)<<12 | uint32(1)<<7 | 0x13
	s, _ := step1(t, []uint32{word}, map[int]uint32{2: 0x80000000})
	if s.ReadReg(1) != 0x08000000 {
		t.Fatalf("x1=%#x", s.ReadReg(1))
	}
}

func TestBltSigned(t *testing.T) {
	// blt x1, x2, 8; x1=-5, x2=5
	word := uint32(0)<<31 | uint32(0)<<25 | uint32(2)<<20 | uint32(1)<<15 | uint32(0x4)<<12 | uint32(4)<<8 | uint32(0)<<7 | 0x63
	s, m := step1(t, []uint32{word}, map[int]uint32{1: 0xFFFFFFFB, 2: 5}) // 0xFFFFFFFB is -5
	if s.PC != 8 || m.BranchTaken != 1 {
		t.Fatalf("pc=%d taken=%d", s.PC, m.BranchTaken)
	}
}

func TestZeroRegisterInvariant(t *testing.T) {
	s := NewState(DefaultMemory)
	s.WriteReg(0, 0xDEADBEEF)
	if s.ReadReg(0) != 0 {
		t.Fatalf("x0=%#x", s.ReadReg(0))
	}
}

func TestIllegalInstructionReportsPC(t *testing.T) {
	s := NewState(DefaultMemory)
	if err := s.WriteWord(0, 0xffffffff); err != nil {
		t.Fatal(err)
	}
	m := NewMetrics()
	ex := NewExecutor()
	err := ex.Step(s, m)
	if err == nil {
		t.Fatal("expected error")
	}
	ee, ok := err.(*ExecError)
	if !ok || ee.Kind != "illegal-instruction" || ee.PC != 0 {
		t.Fatalf("got %v", err)
	}
}

func TestMemoryBoundsError(t *testing.T) {
	s := NewState(16)
	if _, err := s.ReadWord(20); err == nil {
		t.Fatal("expected out-of-bounds error")
	}
}

func TestLoadImageTooLarge(t *testing.T) {
	s := NewState(4)
	if err := s.LoadImage([]byte{1, 2, 3, 4, 5}, 0); err == nil {
		t.Fatal("expected image-too-large error")
	}
}

func TestMetricsCountsMatchRetired(t *testing.T) {
	s := NewState(DefaultMemory)
	s.WriteReg(2, 10)
	s.WriteReg(3, 20)
	if err := s.WriteWord(0, 0x003100b3); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteWord(4, 0x003100b3); err != nil {
		t.Fatal(err)
	}
	m := NewMetrics()
	ex := NewExecutor()
	n, err := ex.Run(s, m, 2)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 || m.InstCount != 2 {
		t.Fatalf("n=%d count=%d", n, m.InstCount)
	}
	var sum uint64
	for _, c := range m.InstMix {
		sum += c
	}
	if sum != m.InstCount {
		t.Fatalf("mix sum=%d count=%d", sum, m.InstCount)
	}
}
