package asm

import (
	"strconv"
	"strings"
)

// parseReg parses a register operand of the form "x<N>", N in 0..31.
func parseReg(tok string) (int, error) {
	if !strings.HasPrefix(tok, "x") {
		return 0, &AssembleError{Token: tok, Msg: "malformed register"}
	}
	n, err := strconv.Atoi(tok[1:])
	if err != nil || n < 0 || n > 31 {
		return 0, &AssembleError{Token: tok, Msg: "malformed register"}
	}
	return n, nil
}

// parseImm parses a decimal (signed) or 0x-prefixed hex (unsigned)
// immediate.
func parseImm(tok string) (int64, error) {
	if strings.HasPrefix(tok, "0x") || strings.HasPrefix(tok, "0X") {
		v, err := strconv.ParseUint(tok[2:], 16, 64)
		if err != nil {
			return 0, &AssembleError{Token: tok, Msg: "malformed immediate"}
		}
		return int64(v), nil
	}
	v, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return 0, &AssembleError{Token: tok, Msg: "malformed immediate"}
	}
	return v, nil
}

// parseMemOperand parses "<imm>(x<N>)" into the offset and the register
// index.
func parseMemOperand(tok string) (int64, int, error) {
	open := strings.IndexByte(tok, '(')
	if open < 0 || !strings.HasSuffix(tok, ")") {
		return 0, 0, &AssembleError{Token: tok, Msg: "malformed memory operand"}
	}
	offsetStr := tok[:open]
	regStr := tok[open+1 : len(tok)-1]

	var offset int64
	if offsetStr != "" {
		v, err := parseImm(offsetStr)
		if err != nil {
			return 0, 0, err
		}
		offset = v
	}
	reg, err := parseReg(regStr)
	if err != nil {
		return 0, 0, err
	}
	return offset, reg, nil
}
