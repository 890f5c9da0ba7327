// Package asm implements the two-pass text assembler: the inverse of
// core.Decode, sharing the isa package's encoding table so the two
// subsystems cannot drift apart.
package asm

import (
	"github.com/rv32emu/rv32emu/isa"
)

// instLine is one non-label source line, with the PC it will assemble to.
type instLine struct {
	Number int
	Text   string
	PC     uint32
}

// Assembler holds the transient label table for a single Assemble call.
type Assembler struct {
	labels map[string]uint32
}

// NewAssembler returns an Assembler ready to assemble one source unit.
func NewAssembler() *Assembler {
	return &Assembler{labels: make(map[string]uint32)}
}

// Assemble translates newline-separated RV32I assembly source into a byte
// image. It performs two passes: the first resolves label addresses, the
// second emits the 4-byte little-endian encoding of every instruction.
// A faulting line aborts the whole assembly.
func Assemble(source string) ([]byte, error) {
	a := NewAssembler()
	return a.assemble(source)
}

func (a *Assembler) assemble(source string) ([]byte, error) {
	lines := splitLines(source)

	var insts []instLine
	pc := uint32(0)
	for _, l := range lines {
		if label, ok := isLabelLine(l.Text); ok {
			a.labels[label] = pc
			continue
		}
		insts = append(insts, instLine{Number: l.Number, Text: l.Text, PC: pc})
		pc += 4
	}

	code := make([]byte, 0, len(insts)*4)
	for _, l := range insts {
		word, err := a.assembleLine(l)
		if err != nil {
			return nil, err
		}
		code = append(code,
			byte(word), byte(word>>8), byte(word>>16), byte(word>>24))
	}
	return code, nil
}

func (a *Assembler) assembleLine(l instLine) (uint32, error) {
	toks := fields(l.Text)
	if len(toks) == 0 {
		return 0, &AssembleError{Line: l.Number, Msg: "empty instruction"}
	}
	mnemonic := toks[0]
	args := toks[1:]

	entry, ok := isa.ByMnemonic[mnemonic]
	if !ok {
		return 0, &AssembleError{Line: l.Number, Token: mnemonic, Msg: "unknown mnemonic"}
	}

	word, err := a.encode(entry, args, l.PC)
	if err != nil {
		if ae, ok := err.(*AssembleError); ok && ae.Line == 0 {
			ae.Line = l.Number
		}
		return 0, err
	}
	return word, nil
}

func (a *Assembler) encode(e *isa.Entry, args []string, pc uint32) (uint32, error) {
	switch e.Format {
	case isa.FormatR:
		return encodeRType(e, args)
	case isa.FormatIShift:
		return encodeShiftIType(e, args)
	case isa.FormatI:
		if e.Kind == isa.JALR {
			return encodeJalr(e, args)
		}
		return encodeIType(e, args)
	case isa.FormatLoad:
		return encodeLoad(e, args)
	case isa.FormatS:
		return encodeStore(e, args)
	case isa.FormatB:
		return encodeBranch(e, args, pc, a.labels)
	case isa.FormatU:
		return encodeUType(e, args)
	case isa.FormatJ:
		return encodeJal(e, args, pc, a.labels)
	default:
		return 0, &AssembleError{Token: e.Mnemonic, Msg: "unsupported format"}
	}
}
