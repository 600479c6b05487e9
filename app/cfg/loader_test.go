package cfg

import (
	"log/slog"
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}

	version := GetVersion()
	if version != "dev" && version != "unknown" {
		// This is fine, version could be set at build time
		t.Logf("Version: %s", version)
	}
}

func TestLoadArgsDefaults(t *testing.T) {
	cfg, err := LoadArgs([]string{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.DBPath != "./data/atom-comb.db" {
		t.Errorf("Expected default DB path, got '%s'", cfg.DBPath)
	}
	if cfg.Indent != 0 {
		t.Errorf("Expected compact rendering by default, got indent %d", cfg.Indent)
	}
	if cfg.GeneratorName != "Atom Comb" {
		t.Errorf("Expected generator name 'Atom Comb', got '%s'", cfg.GeneratorName)
	}
	if Get() != cfg {
		t.Error("Get should return the loaded configuration")
	}
}

func TestLoadArgsFlagsAndEnvironment(t *testing.T) {
	t.Setenv("API_ACCESS_KEY", "secret")
	t.Setenv("GENERATOR_VERSION", "2.0")

	cfg, err := LoadArgs([]string{"--port", "9090", "--indent", "2", "--generator-name", "Feeds Inc", "--debug"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Expected port '9090', got '%s'", cfg.Port)
	}
	if cfg.APIAccessKey != "secret" {
		t.Errorf("Expected API key from environment, got '%s'", cfg.APIAccessKey)
	}
	if cfg.Indent != 2 {
		t.Errorf("Expected indent 2, got %d", cfg.Indent)
	}

	generator := cfg.DefaultGenerator()
	if generator.Value != "Feeds Inc" || generator.Version != "2.0" {
		t.Errorf("Unexpected default generator: %+v", generator)
	}
	if cfg.LogLevel() != slog.LevelDebug {
		t.Errorf("Expected debug log level, got %v", cfg.LogLevel())
	}
}

func TestLoadArgsRejectsNegativeIndent(t *testing.T) {
	if _, err := LoadArgs([]string{"--indent=-1"}); err == nil {
		t.Error("Expected error for negative indent")
	}
}

func TestLoadArgsHelp(t *testing.T) {
	cfg, err := LoadArgs([]string{"--help"})
	if err != nil {
		t.Fatalf("Expected no error for help, got: %v", err)
	}
	if cfg != nil {
		t.Error("Expected nil configuration when help is requested")
	}
}
