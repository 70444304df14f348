package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Execution.MaxInstructions != 100_000_000 {
		t.Errorf("Expected MaxInstructions=100000000, got %d", cfg.Execution.MaxInstructions)
	}
	if cfg.Execution.EntryOverride != "" {
		t.Errorf("Expected EntryOverride empty, got %s", cfg.Execution.EntryOverride)
	}

	if cfg.Predictor.Default != "none" {
		t.Errorf("Expected Predictor.Default=none, got %s", cfg.Predictor.Default)
	}
	if cfg.Predictor.TableReportTopN != 10 {
		t.Errorf("Expected TableReportTopN=10, got %d", cfg.Predictor.TableReportTopN)
	}

	if cfg.Display.NumberFormat != "hex" {
		t.Errorf("Expected NumberFormat=hex, got %s", cfg.Display.NumberFormat)
	}
	if !cfg.Display.ColorOutput {
		t.Error("Expected ColorOutput=true")
	}

	if cfg.API.Port != 8080 {
		t.Errorf("Expected API.Port=8080, got %d", cfg.API.Port)
	}
	if cfg.API.Enable {
		t.Error("Expected API.Enable=false by default")
	}
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()

	if path == "" {
		t.Error("GetConfigPath returned empty string")
	}

	if filepath.Base(path) != "config.toml" {
		t.Errorf("Expected path to end with config.toml, got %s", path)
	}

	switch runtime.GOOS {
	case "windows":
		if !filepath.IsAbs(path) && path != "config.toml" {
			t.Errorf("Expected absolute path on Windows, got %s", path)
		}

	case "darwin", "linux":
		dir := filepath.Dir(path)
		if filepath.Base(dir) != "riscv32-sim" && path != "config.toml" {
			t.Errorf("Expected path in riscv32-sim directory or fallback, got %s", path)
		}
	}
}

func TestGetLogPath(t *testing.T) {
	path := GetLogPath()

	if path == "" {
		t.Error("GetLogPath returned empty string")
	}

	switch runtime.GOOS {
	case "windows":
		if !filepath.IsAbs(path) && path != "logs" {
			t.Errorf("Expected absolute path on Windows, got %s", path)
		}

	case "darwin", "linux":
		if filepath.Base(path) != "logs" {
			t.Errorf("Expected path to end with logs, got %s", path)
		}
	}
}

func TestSaveAndLoad(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config.toml")

	cfg := DefaultConfig()
	cfg.Execution.MaxInstructions = 5_000_000
	cfg.Execution.TraceOutput = "trace.log"
	cfg.Predictor.Default = "gshare-1K"
	cfg.Display.ColorOutput = false
	cfg.API.Port = 9090

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("Config file was not created")
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loaded.Execution.MaxInstructions != 5_000_000 {
		t.Errorf("Expected MaxInstructions=5000000, got %d", loaded.Execution.MaxInstructions)
	}
	if loaded.Execution.TraceOutput != "trace.log" {
		t.Errorf("Expected TraceOutput=trace.log, got %s", loaded.Execution.TraceOutput)
	}
	if loaded.Predictor.Default != "gshare-1K" {
		t.Errorf("Expected Predictor.Default=gshare-1K, got %s", loaded.Predictor.Default)
	}
	if loaded.Display.ColorOutput {
		t.Error("Expected ColorOutput=false")
	}
	if loaded.API.Port != 9090 {
		t.Errorf("Expected API.Port=9090, got %d", loaded.API.Port)
	}
}

func TestLoadNonExistent(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nonexistent.toml")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom should not error on non-existent file: %v", err)
	}

	if cfg.Execution.MaxInstructions != 100_000_000 {
		t.Error("Expected default config when file doesn't exist")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid.toml")

	invalidTOML := `
[execution]
max_instructions = "not a number"  # Invalid: should be uint64
`
	if err := os.WriteFile(configPath, []byte(invalidTOML), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	_, err := LoadFrom(configPath)
	if err == nil {
		t.Error("Expected error when loading invalid TOML")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()

	configPath := filepath.Join(tempDir, "subdir1", "subdir2", "config.toml")

	cfg := DefaultConfig()
	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("Config file was not created")
	}

	dir := filepath.Dir(configPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Error("Parent directories were not created")
	}
}
