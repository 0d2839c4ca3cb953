package interview

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected default addr %q", cfg.HTTPAddr)
	}
	if len(cfg.Models) != len(DefaultModels) || cfg.Models[0] != "gpt-4o-mini" {
		t.Fatalf("unexpected default models %v", cfg.Models)
	}
}

func TestLoadConfigFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "http_addr: \":9000\"\nopenai_api_key: file-key\nmodels:\n  - alpha\n  - beta\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("OPENAI_API_KEY", "env-key")
	t.Setenv("OPENAI_MODELS", "gamma, delta ,")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":9000" {
		t.Fatalf("file value lost: %q", cfg.HTTPAddr)
	}
	if cfg.OpenAIKey != "env-key" {
		t.Fatalf("environment must win over the file, got %q", cfg.OpenAIKey)
	}
	if len(cfg.Models) != 2 || cfg.Models[0] != "gamma" || cfg.Models[1] != "delta" {
		t.Fatalf("unexpected models %v", cfg.Models)
	}
}

func TestLoadConfigMissingFileIsFine(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file must not fail: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected addr %q", cfg.HTTPAddr)
	}
}
