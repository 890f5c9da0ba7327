package debugger_test

import (
	"strings"
	"testing"

	"github.com/rv32emu/rv32emu/asm"
	"github.com/rv32emu/rv32emu/core"
	"github.com/rv32emu/rv32emu/debugger"
)

func newSession(t *testing.T, source string) *debugger.Session {
	t.Helper()
	code, err := asm.Assemble(source)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	state := core.NewState(core.DefaultMemory)
	if err := state.LoadImage(code, 0); err != nil {
		t.Fatalf("load image: %v", err)
	}
	return debugger.NewSession(state, 10, 4)
}

func TestSessionStepExecutesOneInstruction(t *testing.T) {
	sess := newSession(t, "addi x1, x0, 5\naddi x2, x0, 7\n")
	var out strings.Builder
	in := strings.NewReader("step\nquit\n")
	if err := debugger.RunREPL(sess, in, &out); err != nil {
		t.Fatal(err)
	}
	if sess.State.ReadReg(1) != 5 {
		t.Fatalf("x1=%d, want 5", sess.State.ReadReg(1))
	}
	if sess.State.PC != 4 {
		t.Fatalf("pc=%d, want 4", sess.State.PC)
	}
}

func TestSessionRegsCommand(t *testing.T) {
	sess := newSession(t, "addi x1, x0, 1\n")
	var out strings.Builder
	in := strings.NewReader("step\nregs\nquit\n")
	if err := debugger.RunREPL(sess, in, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "x1  = 0x00000001") {
		t.Fatalf("regs output missing x1 value:\n%s", out.String())
	}
}

func TestSessionBreakAndContinueStopsAtBreakpoint(t *testing.T) {
	sess := newSession(t, strings.Join([]string{
		"addi x1, x0, 1",
		"addi x1, x0, 2",
		"addi x1, x0, 3",
	}, "\n"))
	var out strings.Builder
	in := strings.NewReader("break 0x4\ncontinue\nquit\n")
	if err := debugger.RunREPL(sess, in, &out); err != nil {
		t.Fatal(err)
	}
	if sess.State.PC != 4 {
		t.Fatalf("pc=0x%x, want 0x4", sess.State.PC)
	}
	if sess.State.ReadReg(1) != 1 {
		t.Fatalf("x1=%d, want 1 (second instruction must not have run)", sess.State.ReadReg(1))
	}
}

func TestSessionDisCommand(t *testing.T) {
	sess := newSession(t, "add x1, x2, x3\n")
	var out strings.Builder
	in := strings.NewReader("dis\nquit\n")
	if err := debugger.RunREPL(sess, in, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "add x1, x2, x3") {
		t.Fatalf("dis output missing instruction:\n%s", out.String())
	}
}

func TestSessionMemCommand(t *testing.T) {
	sess := newSession(t, "add x1, x2, x3\n")
	var out strings.Builder
	in := strings.NewReader("mem 0x0 1\nquit\n")
	if err := debugger.RunREPL(sess, in, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "0x00000000: 0x003100b3") {
		t.Fatalf("mem output unexpected:\n%s", out.String())
	}
}

func TestSessionPCCommand(t *testing.T) {
	sess := newSession(t, "addi x1, x0, 1\n")
	var out strings.Builder
	in := strings.NewReader("pc\nquit\n")
	if err := debugger.RunREPL(sess, in, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "pc = 0x00000000") {
		t.Fatalf("pc output unexpected:\n%s", out.String())
	}
}

func TestSessionUnknownCommandReportsError(t *testing.T) {
	sess := newSession(t, "addi x1, x0, 1\n")
	var out strings.Builder
	in := strings.NewReader("bogus\nquit\n")
	if err := debugger.RunREPL(sess, in, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "error:") {
		t.Fatalf("expected error output, got:\n%s", out.String())
	}
}
