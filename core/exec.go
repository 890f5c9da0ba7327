package core

import "github.com/rv32emu/rv32emu/isa"

// Executor drives a State one instruction at a time. A halt flag, once
// set, causes subsequent Step calls to fail with ExecError{Kind: "halted"}.
type Executor struct {
	halted bool
}

// NewExecutor returns an Executor ready to run.
func NewExecutor() *Executor {
	return &Executor{}
}

// Halted reports whether the executor has already halted.
func (e *Executor) Halted() bool {
	return e.halted
}

// MarkHalted sets the halt flag directly. Callers that step an Executor
// themselves (rather than through Run) use this to apply the same PC==0
// halt heuristic Run applies internally.
func (e *Executor) MarkHalted() {
	e.halted = true
}

// Step fetches, decodes, and executes a single instruction, mutating s and
// updating metrics. It returns an *ExecError on illegal instructions or if
// already halted.
func (e *Executor) Step(s *State, metrics *Metrics) error {
	if e.halted {
		return &ExecError{Kind: "halted", PC: s.PC}
	}

	word, err := s.ReadWord(s.PC)
	if err != nil {
		return err
	}
	inst := Decode(word)

	if inst.Kind == isa.Unknown {
		return &ExecError{Kind: "illegal-instruction", PC: s.PC}
	}
	metrics.RecordInstruction(inst.Kind)

	if err := e.dispatch(s, metrics, inst); err != nil {
		return err
	}
	return nil
}

func (e *Executor) dispatch(s *State, metrics *Metrics, inst Instruction) error {
	switch inst.Kind {
	case isa.ADD:
		s.WriteReg(inst.Rd, s.ReadReg(inst.Rs1)+s.ReadReg(inst.Rs2))
		s.PC += 4
	case isa.SUB:
		s.WriteReg(inst.Rd, s.ReadReg(inst.Rs1)-s.ReadReg(inst.Rs2))
		s.PC += 4
	case isa.AND:
		s.WriteReg(inst.Rd, s.ReadReg(inst.Rs1)&s.ReadReg(inst.Rs2))
		s.PC += 4
	case isa.OR:
		s.WriteReg(inst.Rd, s.ReadReg(inst.Rs1)|s.ReadReg(inst.Rs2))
		s.PC += 4
	case isa.XOR:
		s.WriteReg(inst.Rd, s.ReadReg(inst.Rs1)^s.ReadReg(inst.Rs2))
		s.PC += 4
	case isa.SLL:
		shamt := s.ReadReg(inst.Rs2) & 0x1f
		s.WriteReg(inst.Rd, s.ReadReg(inst.Rs1)<<shamt)
		s.PC += 4
	case isa.SRL:
		shamt := s.ReadReg(inst.Rs2) & 0x1f
		s.WriteReg(inst.Rd, s.ReadReg(inst.Rs1)>>shamt)
		s.PC += 4
	case isa.SRA:
		shamt := s.ReadReg(inst.Rs2) & 0x1f
		v := int32(s.ReadReg(inst.Rs1))
		s.WriteReg(inst.Rd, uint32(v>>shamt))
		s.PC += 4

	case isa.ADDI:
		s.WriteReg(inst.Rd, s.ReadReg(inst.Rs1)+uint32(inst.Imm))
		s.PC += 4
	case isa.ANDI:
		s.WriteReg(inst.Rd, s.ReadReg(inst.Rs1)&uint32(inst.Imm))
		s.PC += 4
	case isa.ORI:
		s.WriteReg(inst.Rd, s.ReadReg(inst.Rs1)|uint32(inst.Imm))
		s.PC += 4
	case isa.XORI:
		s.WriteReg(inst.Rd, s.ReadReg(inst.Rs1)^uint32(inst.Imm))
		s.PC += 4
	case isa.SLLI:
		shamt := uint32(inst.Imm) & 0x1f
		s.WriteReg(inst.Rd, s.ReadReg(inst.Rs1)<<shamt)
		s.PC += 4
	case isa.SRLI:
		shamt := uint32(inst.Imm) & 0x1f
		s.WriteReg(inst.Rd, s.ReadReg(inst.Rs1)>>shamt)
		s.PC += 4
	case isa.SRAI:
		shamt := uint32(inst.Imm) & 0x1f
		v := int32(s.ReadReg(inst.Rs1))
		s.WriteReg(inst.Rd, uint32(v>>shamt))
		s.PC += 4

	case isa.LW:
		addr := s.ReadReg(inst.Rs1) + uint32(inst.Imm)
		val, err := s.ReadWord(addr)
		if err != nil {
			return err
		}
		s.WriteReg(inst.Rd, val)
		s.PC += 4
	case isa.SW:
		addr := s.ReadReg(inst.Rs1) + uint32(inst.Imm)
		if err := s.WriteWord(addr, s.ReadReg(inst.Rs2)); err != nil {
			return err
		}
		s.PC += 4

	case isa.BEQ:
		e.branch(s, metrics, s.ReadReg(inst.Rs1) == s.ReadReg(inst.Rs2), inst.Imm)
	case isa.BNE:
		e.branch(s, metrics, s.ReadReg(inst.Rs1) != s.ReadReg(inst.Rs2), inst.Imm)
	case isa.BLT:
		e.branch(s, metrics, int32(s.ReadReg(inst.Rs1)) < int32(s.ReadReg(inst.Rs2)), inst.Imm)
	case isa.BGE:
		e.branch(s, metrics, int32(s.ReadReg(inst.Rs1)) >= int32(s.ReadReg(inst.Rs2)), inst.Imm)

	case isa.LUI:
		s.WriteReg(inst.Rd, uint32(inst.Imm))
		s.PC += 4
	case isa.AUIPC:
		s.WriteReg(inst.Rd, s.PC+uint32(inst.Imm))
		s.PC += 4

	case isa.JAL:
		s.WriteReg(inst.Rd, s.PC+4)
		s.PC += uint32(inst.Imm)
	case isa.JALR:
		link := s.PC + 4
		target := (s.ReadReg(inst.Rs1) + uint32(inst.Imm)) &^ 1
		s.WriteReg(inst.Rd, link)
		s.PC = target

	default:
		return &ExecError{Kind: "illegal-instruction", PC: s.PC}
	}
	return nil
}

func (e *Executor) branch(s *State, metrics *Metrics, taken bool, imm int32) {
	if taken {
		s.PC += uint32(imm)
	} else {
		s.PC += 4
	}
	metrics.RecordBranch(taken)
}

// Run steps the executor until maxSteps instructions have retired, a fault
// occurs, or the program counter becomes zero (the halt heuristic — see
// the design notes on why this is a compatibility quirk, not a real
// ECALL-based halt). It returns the number of instructions retired.
func (e *Executor) Run(s *State, metrics *Metrics, maxSteps int) (int, error) {
	steps := 0
	for steps < maxSteps {
		if err := e.Step(s, metrics); err != nil {
			return steps, err
		}
		steps++
		if s.PC == 0 {
			e.halted = true
			break
		}
	}
	return steps, nil
}
