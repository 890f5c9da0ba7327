package core

// Register file size and default memory size, per the RV32I base integer subset.
const (
	NumRegs       = 32
	DefaultMemory = 1 << 20 // 1 MiB
)

// State is the architectural state of the machine: the register file, the
// program counter, and flat byte-addressable memory. It carries no
// execution logic of its own — Executor mutates it according to the ISA.
type State struct {
	regs [NumRegs]uint32
	PC   uint32
	Mem  []byte
}

// NewState allocates a State with memSize bytes of zeroed memory. memSize
// should be a power of two; the reference configuration is 1 MiB.
func NewState(memSize int) *State {
	return &State{
		Mem: make([]byte, memSize),
	}
}

// ReadReg returns the value of register i. Register 0 always reads as 0.
func (s *State) ReadReg(i int) uint32 {
	if i == 0 {
		return 0
	}
	return s.regs[i]
}

// WriteReg sets register i to v. Writes to register 0 are silently
// discarded — the zero register is hard-wired.
func (s *State) WriteReg(i int, v uint32) {
	if i == 0 {
		return
	}
	s.regs[i] = v
}

// ReadWord reads a little-endian 32-bit word at addr. addr and addr+3 must
// both lie within memory.
func (s *State) ReadWord(addr uint32) (uint32, error) {
	if !s.inBounds(addr) {
		return 0, &MemoryError{Addr: addr}
	}
	b := s.Mem
	return uint32(b[addr]) | uint32(b[addr+1])<<8 | uint32(b[addr+2])<<16 | uint32(b[addr+3])<<24, nil
}

// WriteWord writes v as a little-endian 32-bit word at addr. addr and
// addr+3 must both lie within memory.
func (s *State) WriteWord(addr uint32, v uint32) error {
	if !s.inBounds(addr) {
		return &MemoryError{Addr: addr, Write: true}
	}
	b := s.Mem
	b[addr] = byte(v)
	b[addr+1] = byte(v >> 8)
	b[addr+2] = byte(v >> 16)
	b[addr+3] = byte(v >> 24)
	return nil
}

func (s *State) inBounds(addr uint32) bool {
	return addr <= uint32(len(s.Mem))-4 && int(addr)+4 <= len(s.Mem)
}

// LoadImage copies bytes into memory starting at base. It fails with
// ImageTooLargeError if the image does not fit.
func (s *State) LoadImage(bytes []byte, base uint32) error {
	end := int(base) + len(bytes)
	if end > len(s.Mem) {
		return &ImageTooLargeError{Base: base, Len: len(bytes), Size: len(s.Mem)}
	}
	copy(s.Mem[base:end], bytes)
	return nil
}

// Reset clears all registers and the program counter. Memory is left
// untouched — reloading an image is a separate operation from resetting
// architectural state.
func (s *State) Reset() {
	s.regs = [NumRegs]uint32{}
	s.PC = 0
}
