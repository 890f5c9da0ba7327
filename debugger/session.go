package debugger

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rv32emu/rv32emu/core"
	"github.com/rv32emu/rv32emu/disasm"
	"github.com/rv32emu/rv32emu/loader"
)

// Session holds the interactive debugger's state: the machine it steps,
// its breakpoints, and the disassembly context window used by "dis".
type Session struct {
	State       *core.State
	Exec        *core.Executor
	Metrics     *core.Metrics
	Breakpoints *BreakpointSet

	// DisasmContext is how many instructions "dis" prints; the command
	// takes no count argument.
	DisasmContext int

	// MemWords is how many words "mem" prints when called with no count.
	MemWords int

	out io.Writer
}

// NewSession creates a debugger session over state, ready to run.
func NewSession(state *core.State, disasmContext, memWords int) *Session {
	return &Session{
		State:         state,
		Exec:          core.NewExecutor(),
		Metrics:       core.NewMetrics(),
		Breakpoints:   NewBreakpointSet(),
		DisasmContext: disasmContext,
		MemWords:      memWords,
		out:           nil,
	}
}

// RunREPL drives the command loop described in spec §6 against r/w.
// It returns when the user issues quit, or when the input stream ends.
func RunREPL(sess *Session, r io.Reader, w io.Writer) error {
	sess.out = w
	sess.Metrics.Start()
	scanner := bufio.NewScanner(r)

	for {
		fmt.Fprint(w, "(rv32-dbg) ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		cmd := strings.ToLower(fields[0])
		args := fields[1:]

		if cmd == "quit" || cmd == "q" {
			break
		}

		if err := sess.dispatch(cmd, args); err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("debugger input: %w", err)
	}
	return nil
}

func (s *Session) dispatch(cmd string, args []string) error {
	switch cmd {
	case "help", "h":
		s.cmdHelp()
	case "step", "s":
		return s.cmdStep()
	case "continue", "c":
		return s.cmdContinue()
	case "break", "b":
		return s.cmdBreak(args)
	case "regs", "r":
		s.cmdRegs()
	case "mem", "m":
		return s.cmdMem(args)
	case "dis", "d":
		return s.cmdDis(args)
	case "pc":
		s.cmdPC()
	default:
		return fmt.Errorf("unknown command: %s (try 'help')", cmd)
	}
	return nil
}

func (s *Session) cmdHelp() {
	fmt.Fprintln(s.out, "commands:")
	fmt.Fprintln(s.out, "  help|h              show this message")
	fmt.Fprintln(s.out, "  step|s              execute one instruction")
	fmt.Fprintln(s.out, "  continue|c          run until a breakpoint or halt")
	fmt.Fprintln(s.out, "  break|b <addr>      set a breakpoint at addr")
	fmt.Fprintln(s.out, "  regs|r              print all registers")
	fmt.Fprintln(s.out, "  mem|m <addr> [n]    dump n words of memory starting at addr")
	fmt.Fprintln(s.out, "  dis|d [addr]        disassemble starting at addr (default: pc)")
	fmt.Fprintln(s.out, "  pc                  print the program counter")
	fmt.Fprintln(s.out, "  quit|q              exit the debugger")
}

func (s *Session) cmdStep() error {
	if s.Exec.Halted() {
		fmt.Fprintln(s.out, "machine is halted")
		return nil
	}
	if err := s.Exec.Step(s.State, s.Metrics); err != nil {
		return err
	}
	s.checkHalt()
	s.printCurrentInstruction()
	return nil
}

// cmdContinue runs until a breakpoint is hit or the machine halts, checking
// the breakpoint set before each step so a breakpoint at the current PC is
// honored immediately rather than only after the first instruction runs.
// It applies the same PC==0 halt heuristic as core.Executor.Run, since
// this loop steps directly rather than calling Run.
func (s *Session) cmdContinue() error {
	for {
		if s.Exec.Halted() {
			fmt.Fprintln(s.out, "halted")
			return nil
		}
		if s.Breakpoints.Has(s.State.PC) {
			fmt.Fprintf(s.out, "breakpoint hit at 0x%08x\n", s.State.PC)
			return nil
		}
		if err := s.Exec.Step(s.State, s.Metrics); err != nil {
			return err
		}
		if s.checkHalt() {
			fmt.Fprintln(s.out, "halted")
			return nil
		}
	}
}

// checkHalt applies the PC==0 halt heuristic and marks the executor
// halted if it fires, mirroring core.Executor.Run's own check.
func (s *Session) checkHalt() bool {
	if s.State.PC == 0 {
		s.Exec.MarkHalted()
		return true
	}
	return false
}

func (s *Session) cmdBreak(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: break <addr>")
	}
	addr, err := loader.ParseAddr(args[0])
	if err != nil {
		return err
	}
	s.Breakpoints.Add(addr)
	fmt.Fprintf(s.out, "breakpoint set at 0x%08x\n", addr)
	return nil
}

func (s *Session) cmdRegs() {
	for i := 0; i < core.NumRegs; i++ {
		fmt.Fprintf(s.out, "x%-2d = 0x%08x", i, s.State.ReadReg(i))
		if i%4 == 3 {
			fmt.Fprintln(s.out)
		} else {
			fmt.Fprint(s.out, "  ")
		}
	}
	if core.NumRegs%4 != 0 {
		fmt.Fprintln(s.out)
	}
	fmt.Fprintf(s.out, "pc  = 0x%08x\n", s.State.PC)
}

func (s *Session) cmdMem(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: mem <addr> [count]")
	}
	addr, err := loader.ParseAddr(args[0])
	if err != nil {
		return err
	}
	count := s.MemWords
	if len(args) >= 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid count %q", args[1])
		}
		count = n
	}
	for i := 0; i < count; i++ {
		a := addr + uint32(i*4)
		word, err := s.State.ReadWord(a)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "0x%08x: 0x%08x\n", a, word)
	}
	return nil
}

func (s *Session) cmdDis(args []string) error {
	addr := s.State.PC
	if len(args) >= 1 {
		a, err := loader.ParseAddr(args[0])
		if err != nil {
			return err
		}
		addr = a
	}
	for i := 0; i < s.DisasmContext; i++ {
		a := addr + uint32(i*4)
		word, err := s.State.ReadWord(a)
		if err != nil {
			return err
		}
		marker := "  "
		if a == s.State.PC {
			marker = "=>"
		}
		inst := core.Decode(word)
		fmt.Fprintf(s.out, "%s 0x%08x: %s\n", marker, a, disasm.Disassemble(inst))
	}
	return nil
}

func (s *Session) cmdPC() {
	fmt.Fprintf(s.out, "pc = 0x%08x\n", s.State.PC)
}

func (s *Session) printCurrentInstruction() {
	word, err := s.State.ReadWord(s.State.PC)
	if err != nil {
		fmt.Fprintf(s.out, "pc = 0x%08x (unreadable: %v)\n", s.State.PC, err)
		return
	}
	inst := core.Decode(word)
	fmt.Fprintf(s.out, "pc = 0x%08x: %s\n", s.State.PC, disasm.Disassemble(inst))
}
