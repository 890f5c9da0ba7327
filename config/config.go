// Package config loads emulator defaults from an optional TOML file. CLI
// flags always take precedence over a config file value; a config file
// always takes precedence over the built-in defaults in Default.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds the emulator's tunable defaults.
type Config struct {
	Execution struct {
		MemSize      int    `toml:"mem_size"`
		MaxSteps     int    `toml:"max_steps"`
		DefaultEntry string `toml:"default_entry"`
		EnablePerf   bool   `toml:"enable_perf"`
	} `toml:"execution"`

	Debugger struct {
		HistorySize   int  `toml:"history_size"`
		DisasmContext int  `toml:"disasm_context"`
		MemWords      int  `toml:"mem_words"`
		UseTUI        bool `toml:"use_tui"`
	} `toml:"debugger"`

	Display struct {
		NumberFormat string `toml:"number_format"` // "hex" or "dec"
	} `toml:"display"`
}

// Default returns a Config populated with the reference defaults named in
// the CLI surface (spec §6): 1 MiB memory, entry 0, 1,000,000 max steps.
func Default() *Config {
	cfg := &Config{}
	cfg.Execution.MemSize = 1 << 20
	cfg.Execution.MaxSteps = 1_000_000
	cfg.Execution.DefaultEntry = "0x0"
	cfg.Execution.EnablePerf = false

	cfg.Debugger.HistorySize = 1000
	cfg.Debugger.DisasmContext = 10
	cfg.Debugger.MemWords = 16
	cfg.Debugger.UseTUI = false

	cfg.Display.NumberFormat = "hex"
	return cfg
}

// DefaultPath returns the platform-specific default config file path:
// ~/.config/rv32emu/config.toml on Linux/macOS, %APPDATA%\rv32emu\config.toml
// on Windows.
func DefaultPath() string {
	switch runtime.GOOS {
	case "windows":
		dir := os.Getenv("APPDATA")
		if dir == "" {
			dir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		return filepath.Join(dir, "rv32emu", "config.toml")
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		return filepath.Join(home, ".config", "rv32emu", "config.toml")
	}
}

// Load reads path and overlays it onto Default(). A missing file is not an
// error — Load returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}
