// Command rv32 is the CLI front-end for the emulator: run, assemble, and
// interactively debug RV32I programs.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rv32emu/rv32emu/asm"
	"github.com/rv32emu/rv32emu/config"
	"github.com/rv32emu/rv32emu/core"
	"github.com/rv32emu/rv32emu/debugger"
	"github.com/rv32emu/rv32emu/loader"
)

func main() {
	var cfgPath string

	rootCmd := &cobra.Command{
		Use:   "rv32",
		Short: "rv32 — an RV32I emulator, assembler, and debugger",
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a TOML config file (default: "+config.DefaultPath()+")")

	rootCmd.AddCommand(newRunCmd(&cfgPath))
	rootCmd.AddCommand(newAsmCmd())
	rootCmd.AddCommand(newDebugCmd(&cfgPath))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRunCmd(cfgPath *string) *cobra.Command {
	var file string
	var addrStr string
	var maxSteps int
	var perf bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load and execute a program until it halts or faults",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}

			entry := cfg.Execution.DefaultEntry
			if addrStr != "" {
				entry = addrStr
			}
			base, err := loader.ParseAddr(entry)
			if err != nil {
				return fmt.Errorf("invalid --addr: %w", err)
			}

			image, err := loader.LoadFile(file)
			if err != nil {
				return err
			}

			steps := cfg.Execution.MaxSteps
			if maxSteps > 0 {
				steps = maxSteps
			}

			state := core.NewState(cfg.Execution.MemSize)
			if err := state.LoadImage(image, base); err != nil {
				return err
			}
			state.PC = base

			exec := core.NewExecutor()
			metrics := core.NewMetrics()
			metrics.Start()

			retired, err := exec.Run(state, metrics, steps)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "halted with error after %d instructions: %v\n", retired, err)
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "retired %d instructions, final pc=0x%08x\n", retired, state.PC)

			if perf || cfg.Execution.EnablePerf {
				printMetrics(cmd, metrics)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "program file to load (.s is assembled, anything else is raw binary)")
	cmd.Flags().StringVar(&addrStr, "addr", "", "entry address (decimal or 0x-hex, default from config)")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 0, "maximum instructions to retire (0 = use config default)")
	cmd.Flags().BoolVar(&perf, "perf", false, "print an instruction-mix and MIPS summary after execution")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func newAsmCmd() *cobra.Command {
	var input string
	var output string

	cmd := &cobra.Command{
		Use:   "asm",
		Short: "Assemble an RV32I source file to a raw binary image",
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := loader.LoadFile(input)
			if err != nil {
				return err
			}
			// loader.LoadFile already assembles .s files; if input wasn't
			// a .s file, assemble its contents directly here.
			code := src
			if !strings.EqualFold(filepath.Ext(input), ".s") {
				code, err = asm.Assemble(string(src))
				if err != nil {
					return err
				}
			}
			if err := os.WriteFile(output, code, 0o644); err != nil {
				return fmt.Errorf("write output %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes to %s\n", len(code), output)
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "assembly source file")
	cmd.Flags().StringVar(&output, "output", "", "output binary file")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func newDebugCmd(cfgPath *string) *cobra.Command {
	var file string
	var addrStr string
	var useTUI bool

	cmd := &cobra.Command{
		Use:   "debug",
		Short: "Load a program and step through it interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}

			entry := cfg.Execution.DefaultEntry
			if addrStr != "" {
				entry = addrStr
			}
			base, err := loader.ParseAddr(entry)
			if err != nil {
				return fmt.Errorf("invalid --addr: %w", err)
			}

			image, err := loader.LoadFile(file)
			if err != nil {
				return err
			}

			state := core.NewState(cfg.Execution.MemSize)
			if err := state.LoadImage(image, base); err != nil {
				return err
			}
			state.PC = base

			sess := debugger.NewSession(state, cfg.Debugger.DisasmContext, cfg.Debugger.MemWords)

			if useTUI || cfg.Debugger.UseTUI {
				tui := debugger.NewTUI(sess)
				return tui.Run()
			}
			return debugger.RunREPL(sess, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "program file to load (.s is assembled, anything else is raw binary)")
	cmd.Flags().StringVar(&addrStr, "addr", "", "entry address (decimal or 0x-hex, default from config)")
	cmd.Flags().BoolVar(&useTUI, "tui", false, "use the full-screen debugger instead of the line REPL")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func printMetrics(cmd *cobra.Command, m *core.Metrics) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "instructions: %d\n", m.InstCount)
	fmt.Fprintf(w, "MIPS: %.3f\n", m.MIPS())
	fmt.Fprintf(w, "branches taken: %d (%.1f%%)\n", m.BranchTaken, m.BranchTakenPercent())
	fmt.Fprintf(w, "branches not taken: %d\n", m.BranchNotTaken)

	mix := m.TopMix(10)
	fmt.Fprintln(w, "top instruction mix:")
	for _, e := range mix {
		fmt.Fprintf(w, "  %-6s %8d  %5.1f%%\n", e.Kind, e.Count, e.Percent)
	}
}

