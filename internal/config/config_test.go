package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.LLM.Provider != ProviderGemini {
		t.Errorf("expected default provider %q, got %q", ProviderGemini, cfg.LLM.Provider)
	}
	if cfg.LLM.Model != "gemini-2.5-flash" {
		t.Errorf("expected default model gemini-2.5-flash, got %q", cfg.LLM.Model)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("expected default port 8000, got %d", cfg.Server.Port)
	}
	if cfg.Render.ScrollOffset != 80 {
		t.Errorf("expected default scroll offset 80, got %v", cfg.Render.ScrollOffset)
	}
	if len(cfg.Upload.Accept) != len(DefaultAccept) {
		t.Errorf("expected %d accept patterns, got %d", len(DefaultAccept), len(cfg.Upload.Accept))
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.missionview.yml")

	original := DefaultConfig()
	original.LLM.Provider = ProviderOpenAI
	original.LLM.Model = "gpt-4o"
	original.LLM.PromptFile = "prompts/system.txt"
	original.Server.Port = 9090
	original.Upload.Accept = []string{"*.pdf", "*.docx"}
	original.Render.Style = "monokai"

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.LLM.Provider != original.LLM.Provider {
		t.Errorf("provider: got %q, want %q", loaded.LLM.Provider, original.LLM.Provider)
	}
	if loaded.LLM.Model != original.LLM.Model {
		t.Errorf("model: got %q, want %q", loaded.LLM.Model, original.LLM.Model)
	}
	if loaded.LLM.PromptFile != original.LLM.PromptFile {
		t.Errorf("prompt_file: got %q, want %q", loaded.LLM.PromptFile, original.LLM.PromptFile)
	}
	if loaded.Server.Port != 9090 {
		t.Errorf("port: got %d, want 9090", loaded.Server.Port)
	}
	if loaded.Render.Style != "monokai" {
		t.Errorf("style: got %q, want monokai", loaded.Render.Style)
	}
	if len(loaded.Upload.Accept) != 2 || loaded.Upload.Accept[1] != "*.docx" {
		t.Errorf("accept: got %v", loaded.Upload.Accept)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yml"))
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.LLM.Provider != ProviderGemini {
		t.Errorf("expected default provider, got %q", cfg.LLM.Provider)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yml")
	if err := DefaultConfig().Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("MISSIONVIEW_LLM__PROVIDER", "ollama")
	t.Setenv("MISSIONVIEW_DATA_DIR", "/tmp/mv")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.LLM.Provider != ProviderOllama {
		t.Errorf("env override failed: got %q, want %q", loaded.LLM.Provider, ProviderOllama)
	}
	if loaded.DataDir != "/tmp/mv" {
		t.Errorf("data_dir override failed: got %q", loaded.DataDir)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	if err := os.WriteFile(path, []byte("llm: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"unknown provider", func(c *Config) { c.LLM.Provider = "anthropic" }, true},
		{"empty provider", func(c *Config) { c.LLM.Provider = "" }, true},
		{"empty model", func(c *Config) { c.LLM.Model = "" }, true},
		{"bad base url", func(c *Config) { c.LLM.BaseURL = "not a url" }, true},
		{"good base url", func(c *Config) { c.LLM.BaseURL = "http://localhost:11434/v1" }, false},
		{"temperature too high", func(c *Config) { c.LLM.Temperature = 3 }, true},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, true},
		{"no accept patterns", func(c *Config) { c.Upload.Accept = nil }, true},
		{"blank accept pattern", func(c *Config) { c.Upload.Accept = []string{""} }, true},
		{"malformed glob", func(c *Config) { c.Upload.Accept = []string{"[a-"} }, true},
		{"zero upload size", func(c *Config) { c.Upload.MaxBytes = 0 }, true},
		{"negative offset", func(c *Config) { c.Render.ScrollOffset = -1 }, true},
		{"empty data dir", func(c *Config) { c.DataDir = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAPIKeyEnvVar(t *testing.T) {
	tests := []struct {
		provider ProviderType
		want     string
	}{
		{ProviderGemini, "GEMINI_API_KEY"},
		{ProviderOpenAI, "OPENAI_API_KEY"},
		{ProviderOllama, ""},
	}
	for _, tt := range tests {
		if got := APIKeyEnvVar(tt.provider); got != tt.want {
			t.Errorf("APIKeyEnvVar(%q) = %q, want %q", tt.provider, got, tt.want)
		}
	}
}

func TestDatabasePath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "data"
	if got := cfg.DatabasePath(); got != filepath.Join("data", "missionview.db") {
		t.Errorf("DatabasePath() = %q", got)
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" *.pdf , *.md ", []string{"*.pdf", "*.md"}},
		{"", nil},
		{"  ,  , ", nil},
	}
	for _, tt := range tests {
		got := splitAndTrim(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("splitAndTrim(%q) len = %d, want %d", tt.input, len(got), len(tt.want))
			continue
		}
		for i, v := range got {
			if v != tt.want[i] {
				t.Errorf("splitAndTrim(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
			}
		}
	}
}
