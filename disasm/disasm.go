// Package disasm renders a decoded instruction as a human-readable
// mnemonic string. It is the presentation-only inverse of package asm —
// there is no guarantee that re-assembling its output reproduces the
// original instruction word (whitespace and numeric base may differ).
package disasm

import (
	"fmt"

	"github.com/rv32emu/rv32emu/core"
	"github.com/rv32emu/rv32emu/isa"
)

// Disassemble formats inst as RV32I assembly text.
func Disassemble(inst core.Instruction) string {
	switch inst.Kind {
	case isa.ADD, isa.SUB, isa.AND, isa.OR, isa.XOR, isa.SLL, isa.SRL, isa.SRA:
		return fmt.Sprintf("%s x%d, x%d, x%d", mnemonic(inst.Kind), inst.Rd, inst.Rs1, inst.Rs2)

	case isa.ADDI, isa.ANDI, isa.ORI, isa.XORI:
		return fmt.Sprintf("%s x%d, x%d, %d", mnemonic(inst.Kind), inst.Rd, inst.Rs1, inst.Imm)

	case isa.SLLI, isa.SRLI, isa.SRAI:
		return fmt.Sprintf("%s x%d, x%d, %d", mnemonic(inst.Kind), inst.Rd, inst.Rs1, inst.Imm&0x1f)

	case isa.LW:
		return fmt.Sprintf("lw x%d, %d(x%d)", inst.Rd, inst.Imm, inst.Rs1)
	case isa.SW:
		return fmt.Sprintf("sw x%d, %d(x%d)", inst.Rs2, inst.Imm, inst.Rs1)

	case isa.BEQ, isa.BNE, isa.BLT, isa.BGE:
		return fmt.Sprintf("%s x%d, x%d, %d", mnemonic(inst.Kind), inst.Rs1, inst.Rs2, inst.Imm)

	case isa.LUI, isa.AUIPC:
		return fmt.Sprintf("%s x%d, 0x%x", mnemonic(inst.Kind), inst.Rd, uint32(inst.Imm)>>12)

	case isa.JAL:
		return fmt.Sprintf("jal x%d, %d", inst.Rd, inst.Imm)
	case isa.JALR:
		return fmt.Sprintf("jalr x%d, %d(x%d)", inst.Rd, inst.Imm, inst.Rs1)

	default:
		return "unknown"
	}
}

func mnemonic(k isa.Kind) string {
	switch k {
	case isa.ADD:
		return "add"
	case isa.SUB:
		return "sub"
	case isa.AND:
		return "and"
	case isa.OR:
		return "or"
	case isa.XOR:
		return "xor"
	case isa.SLL:
		return "sll"
	case isa.SRL:
		return "srl"
	case isa.SRA:
		return "sra"
	case isa.ADDI:
		return "addi"
	case isa.ANDI:
		return "andi"
	case isa.ORI:
		return "ori"
	case isa.XORI:
		return "xori"
	case isa.SLLI:
		return "slli"
	case isa.SRLI:
		return "srli"
	case isa.SRAI:
		return "srai"
	case isa.BEQ:
		return "beq"
	case isa.BNE:
		return "bne"
	case isa.BLT:
		return "blt"
	case isa.BGE:
		return "bge"
	case isa.LUI:
		return "lui"
	case isa.AUIPC:
		return "auipc"
	default:
		return "unknown"
	}
}
