// Package loader turns a program file on disk into a byte image ready to
// hand to core.State.LoadImage — assembling it first if it is a .s
// source file, or reading it verbatim as a raw binary otherwise.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rv32emu/rv32emu/asm"
)

// LoadFile reads path and returns its byte image. Files with a ".s"
// suffix are assembled; anything else is read as a raw little-endian
// byte stream, per spec §6's "File formats".
func LoadFile(path string) ([]byte, error) {
	if strings.EqualFold(filepath.Ext(path), ".s") {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read assembly file %s: %w", path, err)
		}
		code, err := asm.Assemble(string(src))
		if err != nil {
			return nil, fmt.Errorf("assemble %s: %w", path, err)
		}
		return code, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read binary file %s: %w", path, err)
	}
	return data, nil
}

// ParseAddr parses a decimal or 0x-prefixed hex address, as accepted by
// both the CLI's --addr flag and the debugger's break/mem/dis commands.
func ParseAddr(s string) (uint32, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseUint(s[2:], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid hex address %q", s)
		}
		return uint32(v), nil
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q", s)
	}
	return uint32(v), nil
}
