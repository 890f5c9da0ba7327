package core

import "github.com/rv32emu/rv32emu/isa"

// Instruction is the decoder's output: a structured record of one 32-bit
// instruction word. Unused register fields are zero.
type Instruction struct {
	Kind isa.Kind
	Rd   int
	Rs1  int
	Rs2  int
	Imm  int32
}

// Decode extracts a structured Instruction from a raw 32-bit instruction
// word. It never fails: an unrecognised encoding yields Kind == isa.Unknown,
// deferring the error to the Executor.
func Decode(word uint32) Instruction {
	opcode7 := word & 0x7f
	rd := int((word >> 7) & 0x1f)
	funct3 := (word >> 12) & 0x7
	rs1 := int((word >> 15) & 0x1f)
	rs2 := int((word >> 20) & 0x1f)
	funct7 := (word >> 25) & 0x7f

	switch opcode7 {
	case isa.OpR:
		e, ok := isa.Lookup(opcode7, funct3, funct7, isa.FormatR)
		if !ok {
			return Instruction{Kind: isa.Unknown}
		}
		return Instruction{Kind: e.Kind, Rd: rd, Rs1: rs1, Rs2: rs2}

	case isa.OpI:
		if funct3 == 0x1 || funct3 == 0x5 {
			e, ok := isa.Lookup(opcode7, funct3, funct7, isa.FormatIShift)
			if !ok {
				return Instruction{Kind: isa.Unknown}
			}
			// funct7 selects the shift kind; only the low 5 bits are the shamt.
			imm := int32((word >> 20) & 0x1f)
			return Instruction{Kind: e.Kind, Rd: rd, Rs1: rs1, Imm: imm}
		}
		e, ok := isa.Lookup(opcode7, funct3, 0, isa.FormatI)
		if !ok {
			return Instruction{Kind: isa.Unknown}
		}
		imm := isa.SignExtend(word>>20, 12)
		return Instruction{Kind: e.Kind, Rd: rd, Rs1: rs1, Imm: imm}

	case isa.OpLoad:
		e, ok := isa.Lookup(opcode7, funct3, 0, isa.FormatLoad)
		if !ok {
			return Instruction{Kind: isa.Unknown}
		}
		imm := isa.SignExtend(word>>20, 12)
		return Instruction{Kind: e.Kind, Rd: rd, Rs1: rs1, Imm: imm}

	case isa.OpS:
		e, ok := isa.Lookup(opcode7, funct3, 0, isa.FormatS)
		if !ok {
			return Instruction{Kind: isa.Unknown}
		}
		immLow := (word >> 7) & 0x1f
		immHigh := (word >> 25) & 0x7f
		imm := isa.SignExtend((immHigh<<5)|immLow, 12)
		return Instruction{Kind: e.Kind, Rs1: rs1, Rs2: rs2, Imm: imm}

	case isa.OpB:
		e, ok := isa.Lookup(opcode7, funct3, 0, isa.FormatB)
		if !ok {
			return Instruction{Kind: isa.Unknown}
		}
		imm12 := (word >> 31) & 0x1
		imm11 := (word >> 7) & 0x1
		imm10_5 := (word >> 25) & 0x3f
		imm4_1 := (word >> 8) & 0xf
		raw := (imm12 << 12) | (imm11 << 11) | (imm10_5 << 5) | (imm4_1 << 1)
		imm := isa.SignExtend(raw, 13)
		return Instruction{Kind: e.Kind, Rs1: rs1, Rs2: rs2, Imm: imm}

	case isa.OpLUI:
		e, _ := isa.Lookup(opcode7, 0, 0, isa.FormatU)
		imm := int32(word & 0xfffff000)
		return Instruction{Kind: e.Kind, Rd: rd, Imm: imm}

	case isa.OpAUIPC:
		e, _ := isa.Lookup(opcode7, 0, 0, isa.FormatU)
		imm := int32(word & 0xfffff000)
		return Instruction{Kind: e.Kind, Rd: rd, Imm: imm}

	case isa.OpJAL:
		e, _ := isa.Lookup(opcode7, 0, 0, isa.FormatJ)
		imm20 := (word >> 31) & 0x1
		imm19_12 := (word >> 12) & 0xff
		imm11 := (word >> 20) & 0x1
		imm10_1 := (word >> 21) & 0x3ff
		raw := (imm20 << 20) | (imm19_12 << 12) | (imm11 << 11) | (imm10_1 << 1)
		imm := isa.SignExtend(raw, 21)
		return Instruction{Kind: e.Kind, Rd: rd, Imm: imm}

	case isa.OpJALR:
		e, ok := isa.Lookup(opcode7, funct3, 0, isa.FormatI)
		if !ok || funct3 != 0 {
			return Instruction{Kind: isa.Unknown}
		}
		imm := isa.SignExtend(word>>20, 12)
		return Instruction{Kind: e.Kind, Rd: rd, Rs1: rs1, Imm: imm}

	default:
		return Instruction{Kind: isa.Unknown}
	}
}
