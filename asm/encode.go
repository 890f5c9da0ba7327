package asm

import "github.com/rv32emu/rv32emu/isa"

func needArgs(e *isa.Entry, args []string, n int) error {
	if len(args) < n {
		return &AssembleError{Token: e.Mnemonic, Msg: "not enough operands"}
	}
	return nil
}

func encodeRType(e *isa.Entry, args []string) (uint32, error) {
	if err := needArgs(e, args, 3); err != nil {
		return 0, err
	}
	rd, err := parseReg(args[0])
	if err != nil {
		return 0, err
	}
	rs1, err := parseReg(args[1])
	if err != nil {
		return 0, err
	}
	rs2, err := parseReg(args[2])
	if err != nil {
		return 0, err
	}
	return e.Funct7<<25 | uint32(rs2)<<20 | uint32(rs1)<<15 | e.Funct3<<12 | uint32(rd)<<7 | e.Opcode7, nil
}

func encodeIType(e *isa.Entry, args []string) (uint32, error) {
	if err := needArgs(e, args, 3); err != nil {
		return 0, err
	}
	rd, err := parseReg(args[0])
	if err != nil {
		return 0, err
	}
	rs1, err := parseReg(args[1])
	if err != nil {
		return 0, err
	}
	imm, err := parseImm(args[2])
	if err != nil {
		return 0, err
	}
	if imm < -2048 || imm > 4095 {
		return 0, &AssembleError{Token: args[2], Msg: "immediate out of range for 12-bit field"}
	}
	return (uint32(imm)&0xfff)<<20 | uint32(rs1)<<15 | e.Funct3<<12 | uint32(rd)<<7 | e.Opcode7, nil
}

func encodeShiftIType(e *isa.Entry, args []string) (uint32, error) {
	if err := needArgs(e, args, 3); err != nil {
		return 0, err
	}
	rd, err := parseReg(args[0])
	if err != nil {
		return 0, err
	}
	rs1, err := parseReg(args[1])
	if err != nil {
		return 0, err
	}
	imm, err := parseImm(args[2])
	if err != nil {
		return 0, err
	}
	shamt := uint32(imm) & 0x1f
	return e.Funct7<<25 | shamt<<20 | uint32(rs1)<<15 | e.Funct3<<12 | uint32(rd)<<7 | e.Opcode7, nil
}

func encodeLoad(e *isa.Entry, args []string) (uint32, error) {
	if err := needArgs(e, args, 2); err != nil {
		return 0, err
	}
	rd, err := parseReg(args[0])
	if err != nil {
		return 0, err
	}
	offset, rs1, err := parseMemOperand(args[1])
	if err != nil {
		return 0, err
	}
	if offset < -2048 || offset > 2047 {
		return 0, &AssembleError{Token: args[1], Msg: "offset out of range for 12-bit field"}
	}
	return (uint32(offset)&0xfff)<<20 | uint32(rs1)<<15 | e.Funct3<<12 | uint32(rd)<<7 | e.Opcode7, nil
}

func encodeStore(e *isa.Entry, args []string) (uint32, error) {
	if err := needArgs(e, args, 2); err != nil {
		return 0, err
	}
	rs2, err := parseReg(args[0])
	if err != nil {
		return 0, err
	}
	offset, rs1, err := parseMemOperand(args[1])
	if err != nil {
		return 0, err
	}
	if offset < -2048 || offset > 2047 {
		return 0, &AssembleError{Token: args[1], Msg: "offset out of range for 12-bit field"}
	}
	immLow := uint32(offset) & 0x1f
	immHigh := (uint32(offset) >> 5) & 0x7f
	return immHigh<<25 | uint32(rs2)<<20 | uint32(rs1)<<15 | e.Funct3<<12 | immLow<<7 | e.Opcode7, nil
}

func encodeJalr(e *isa.Entry, args []string) (uint32, error) {
	if err := needArgs(e, args, 2); err != nil {
		return 0, err
	}
	rd, err := parseReg(args[0])
	if err != nil {
		return 0, err
	}
	offset, rs1, err := parseMemOperand(args[1])
	if err != nil {
		return 0, err
	}
	if offset < -2048 || offset > 2047 {
		return 0, &AssembleError{Token: args[1], Msg: "offset out of range for 12-bit field"}
	}
	return (uint32(offset)&0xfff)<<20 | uint32(rs1)<<15 | uint32(rd)<<7 | e.Opcode7, nil
}

func encodeUType(e *isa.Entry, args []string) (uint32, error) {
	if err := needArgs(e, args, 2); err != nil {
		return 0, err
	}
	rd, err := parseReg(args[0])
	if err != nil {
		return 0, err
	}
	imm, err := parseImm(args[1])
	if err != nil {
		return 0, err
	}
	if imm < 0 || imm > 0xfffff {
		return 0, &AssembleError{Token: args[1], Msg: "immediate out of range for 20-bit field"}
	}
	return uint32(imm)<<12 | uint32(rd)<<7 | e.Opcode7, nil
}

// resolveTarget returns the byte address tok names, either a label
// (looked up in labels) or a literal immediate.
func resolveTarget(tok string, labels map[string]uint32) (uint32, error) {
	if addr, ok := labels[tok]; ok {
		return addr, nil
	}
	v, err := parseImm(tok)
	if err != nil {
		return 0, &AssembleError{Token: tok, Msg: "undefined label or malformed immediate"}
	}
	return uint32(v), nil
}

func encodeBranch(e *isa.Entry, args []string, pc uint32, labels map[string]uint32) (uint32, error) {
	if err := needArgs(e, args, 3); err != nil {
		return 0, err
	}
	rs1, err := parseReg(args[0])
	if err != nil {
		return 0, err
	}
	rs2, err := parseReg(args[1])
	if err != nil {
		return 0, err
	}
	target, err := resolveTarget(args[2], labels)
	if err != nil {
		return 0, err
	}
	offset := int32(target - pc)
	if offset < -4096 || offset > 4094 {
		return 0, &AssembleError{Token: args[2], Msg: "branch offset out of range for 13-bit field"}
	}
	u := uint32(offset)
	imm12 := (u >> 12) & 0x1
	imm11 := (u >> 11) & 0x1
	imm10_5 := (u >> 5) & 0x3f
	imm4_1 := (u >> 1) & 0xf
	return imm12<<31 | imm10_5<<25 | uint32(rs2)<<20 | uint32(rs1)<<15 | e.Funct3<<12 | imm4_1<<8 | imm11<<7 | e.Opcode7, nil
}

// encodeJal follows the decoder's J-immediate bit placement (core.Decode,
// §4.2): imm[20] at word bit 31, imm[19:12] at bits 19:12, imm[11] at bit
// 20, imm[10:1] at bits 30:21. An earlier reference implementation's
// assembler used a bit ordering inconsistent with its own decoder; that
// ordering is not reproduced here.
func encodeJal(e *isa.Entry, args []string, pc uint32, labels map[string]uint32) (uint32, error) {
	if err := needArgs(e, args, 2); err != nil {
		return 0, err
	}
	rd, err := parseReg(args[0])
	if err != nil {
		return 0, err
	}
	target, err := resolveTarget(args[1], labels)
	if err != nil {
		return 0, err
	}
	offset := int32(target - pc)
	if offset < -1048576 || offset > 1048574 {
		return 0, &AssembleError{Token: args[1], Msg: "jump offset out of range for 21-bit field"}
	}
	u := uint32(offset)
	imm20 := (u >> 20) & 0x1
	imm19_12 := (u >> 12) & 0xff
	imm11 := (u >> 11) & 0x1
	imm10_1 := (u >> 1) & 0x3ff
	return imm20<<31 | imm19_12<<12 | imm11<<20 | imm10_1<<21 | uint32(rd)<<7 | e.Opcode7, nil
}
