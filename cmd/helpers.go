package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/ziadkadry99/missionview/internal/config"
	"github.com/ziadkadry99/missionview/internal/db"
	"github.com/ziadkadry99/missionview/internal/extract"
	"github.com/ziadkadry99/missionview/internal/generate"
	"github.com/ziadkadry99/missionview/internal/llm"
	"github.com/ziadkadry99/missionview/internal/outline"
	"github.com/ziadkadry99/missionview/internal/progress"
	"github.com/ziadkadry99/missionview/internal/render"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `missionview init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// createLLMProviderFromConfig creates the configured provider, rate limited
// when requests_per_minute is set.
func createLLMProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	p, err := llm.NewProvider(string(cfg.LLM.Provider), cfg.LLM.Model, cfg.LLM.BaseURL)
	if err != nil {
		return nil, err
	}
	return llm.Throttle(p, cfg.LLM.RequestsPerMinute), nil
}

func uploadPolicy(cfg *config.Config) extract.Policy {
	return extract.Policy{Accept: cfg.Upload.Accept, MaxBytes: cfg.Upload.MaxBytes}
}

// createGenerator wires provider, upload policy and prompt settings.
// reporter may be nil.
func createGenerator(cfg *config.Config, reporter progress.Reporter) (*generate.Generator, error) {
	provider, err := createLLMProviderFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating LLM provider: %w", err)
	}
	return generate.New(provider, uploadPolicy(cfg), generate.Options{
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		PromptFile:  cfg.LLM.PromptFile,
		Progress:    reporter,
	})
}

// createRenderer builds a renderer with the configured style and a shared
// outline cache.
func createRenderer(cfg *config.Config) (*render.Renderer, error) {
	outlines, err := outline.NewExtractor(cfg.Render.OutlineCacheSize)
	if err != nil {
		return nil, err
	}
	return render.New(render.WithStyle(cfg.Render.Style), render.WithOutlineExtractor(outlines)), nil
}

// openDatabase opens the report archive, creating the data directory.
func openDatabase(cfg *config.Config) (*db.DB, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir %s: %w", cfg.DataDir, err)
	}
	database, err := db.Open(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return database, nil
}

// readDocument reads a markdown file, or stdin when path is "-".
func readDocument(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}
