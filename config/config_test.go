package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Execution.MemSize != 1<<20 {
		t.Errorf("MemSize=%d", cfg.Execution.MemSize)
	}
	if cfg.Execution.MaxSteps != 1_000_000 {
		t.Errorf("MaxSteps=%d", cfg.Execution.MaxSteps)
	}
	if cfg.Execution.DefaultEntry != "0x0" {
		t.Errorf("DefaultEntry=%s", cfg.Execution.DefaultEntry)
	}
	if cfg.Debugger.MemWords != 16 {
		t.Errorf("MemWords=%d", cfg.Debugger.MemWords)
	}
	if cfg.Display.NumberFormat != "hex" {
		t.Errorf("NumberFormat=%s", cfg.Display.NumberFormat)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Execution.MaxSteps != 1_000_000 {
		t.Errorf("MaxSteps=%d", cfg.Execution.MaxSteps)
	}
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[execution]
max_steps = 42
default_entry = "0x8000"

[debugger]
mem_words = 32
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Execution.MaxSteps != 42 {
		t.Errorf("MaxSteps=%d", cfg.Execution.MaxSteps)
	}
	if cfg.Execution.DefaultEntry != "0x8000" {
		t.Errorf("DefaultEntry=%s", cfg.Execution.DefaultEntry)
	}
	if cfg.Debugger.MemWords != 32 {
		t.Errorf("MemWords=%d", cfg.Debugger.MemWords)
	}
	if cfg.Display.NumberFormat != "hex" {
		t.Errorf("NumberFormat=%s", cfg.Display.NumberFormat)
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.toml")
	body := "[execution]\nmax_steps = \"not a number\"\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error loading invalid TOML")
	}
}
