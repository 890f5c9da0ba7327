package debugger

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/rv32emu/rv32emu/core"
	"github.com/rv32emu/rv32emu/disasm"
)

// TUI is the optional full-screen front-end for a Session, offered by the
// CLI's "debug --tui" flag as an alternative to the line-oriented REPL.
// It panels the same information the REPL's regs/mem/dis commands print,
// plus a command input that accepts the same command set.
type TUI struct {
	Session *Session

	App          *tview.Application
	RegisterView *tview.TextView
	DisasmView   *tview.TextView
	MemoryView   *tview.TextView
	OutputView   *tview.TextView
	CommandInput *tview.InputField
}

// NewTUI builds a TUI over sess.
func NewTUI(sess *Session) *TUI {
	t := &TUI{
		Session: sess,
		App:     tview.NewApplication(),
	}
	t.initViews()
	t.buildLayout()
	return t
}

func (t *TUI) initViews() {
	t.RegisterView = tview.NewTextView().SetDynamicColors(true)
	t.RegisterView.SetBorder(true).SetTitle(" Registers ")

	t.DisasmView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.DisasmView.SetBorder(true).SetTitle(" Disassembly ")

	t.MemoryView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.MemoryView.SetBorder(true).SetTitle(" Memory ")

	t.OutputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")

	t.CommandInput = tview.NewInputField().SetLabel("> ").SetFieldWidth(0)
	t.CommandInput.SetBorder(true).SetTitle(" Command (help for commands) ")
	t.CommandInput.SetDoneFunc(t.handleCommand)
}

func (t *TUI) buildLayout() {
	right := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.RegisterView, 10, 0, false).
		AddItem(t.MemoryView, 0, 1, false)

	content := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.DisasmView, 0, 2, false).
		AddItem(right, 0, 1, false)

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(content, 0, 4, false).
		AddItem(t.OutputView, 8, 0, false).
		AddItem(t.CommandInput, 3, 0, true)

	t.App.SetRoot(layout, true).SetFocus(t.CommandInput)

	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF5:
			t.run("continue")
			return nil
		case tcell.KeyF11:
			t.run("step")
			return nil
		case tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		}
		return event
	})
}

func (t *TUI) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	cmd := t.CommandInput.GetText()
	if cmd == "" {
		return
	}
	t.CommandInput.SetText("")
	if cmd == "quit" || cmd == "q" {
		t.App.Stop()
		return
	}
	t.run(cmd)
}

func (t *TUI) run(line string) {
	var buf writerFunc
	t.Session.out = &buf
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	if err := t.Session.dispatch(fields[0], fields[1:]); err != nil {
		fmt.Fprintf(&buf, "error: %v\n", err)
	}
	if buf.s != "" {
		fmt.Fprint(t.OutputView, buf.s)
		t.OutputView.ScrollToEnd()
	}
	t.refresh()
}

func (t *TUI) refresh() {
	t.updateRegisters()
	t.updateDisasm()
	t.updateMemory()
	t.App.Draw()
}

func (t *TUI) updateRegisters() {
	t.RegisterView.Clear()
	s := t.Session.State
	for i := 0; i < core.NumRegs; i++ {
		fmt.Fprintf(t.RegisterView, "x%-2d = 0x%08x\n", i, s.ReadReg(i))
	}
	fmt.Fprintf(t.RegisterView, "pc  = 0x%08x\n", s.PC)
}

func (t *TUI) updateDisasm() {
	t.DisasmView.Clear()
	s := t.Session.State
	base := s.PC
	for i := 0; i < t.Session.DisasmContext; i++ {
		addr := base + uint32(i*4)
		word, err := s.ReadWord(addr)
		if err != nil {
			break
		}
		marker := "  "
		if addr == s.PC {
			marker = "=>"
		}
		fmt.Fprintf(t.DisasmView, "%s 0x%08x: %s\n", marker, addr, disasm.Disassemble(core.Decode(word)))
	}
}

func (t *TUI) updateMemory() {
	t.MemoryView.Clear()
	s := t.Session.State
	for i := 0; i < t.Session.MemWords; i++ {
		addr := uint32(i * 4)
		word, err := s.ReadWord(addr)
		if err != nil {
			break
		}
		fmt.Fprintf(t.MemoryView, "0x%08x: 0x%08x\n", addr, word)
	}
}

// Run starts the TUI event loop. It blocks until the user quits.
func (t *TUI) Run() error {
	t.refresh()
	return t.App.Run()
}

// writerFunc is a minimal io.Writer that accumulates into a string, used
// to capture a single dispatch call's output for display in OutputView.
type writerFunc struct{ s string }

func (w *writerFunc) Write(p []byte) (int, error) {
	w.s += string(p)
	return len(p), nil
}
