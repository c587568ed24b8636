package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend != "gemini" {
		t.Errorf("backend = %s", cfg.Backend)
	}
	if cfg.Threshold != 1800 {
		t.Errorf("threshold = %v", cfg.Threshold)
	}
	if cfg.Workers != 5 {
		t.Errorf("workers = %v", cfg.Workers)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TRANSCRIBER_BACKEND", "openai")
	t.Setenv("TRANSCRIBER_WORKERS", "3")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend != "openai" {
		t.Errorf("backend = %s", cfg.Backend)
	}
	if cfg.Workers != 3 {
		t.Errorf("workers = %d", cfg.Workers)
	}
	if cfg.OpenAIAPIKey != "sk-test" {
		t.Errorf("api key = %s", cfg.OpenAIAPIKey)
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()

	cfg := Config{Backend: "gemini", GeminiAPIKey: "k", RootDir: dir}
	if err := cfg.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	cfg = Config{Backend: "gemini", RootDir: dir}
	if err := cfg.Validate(); err == nil {
		t.Error("missing credential accepted")
	}

	cfg = Config{Backend: "carrier-pigeon", RootDir: dir}
	if err := cfg.Validate(); err == nil {
		t.Error("unknown backend accepted")
	}

	cfg = Config{Backend: "gemini", GeminiAPIKey: "k", RootDir: filepath.Join(dir, "missing")}
	if err := cfg.Validate(); err == nil {
		t.Error("missing root accepted")
	}

	file := filepath.Join(dir, "a.file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg = Config{Backend: "gemini", GeminiAPIKey: "k", RootDir: file}
	if err := cfg.Validate(); err == nil {
		t.Error("non-directory root accepted")
	}
}
