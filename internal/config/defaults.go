package config

// defaultModels is the model picked for each provider when none is configured.
var defaultModels = map[ProviderType]string{
	ProviderGemini: "gemini-2.5-flash",
	ProviderOpenAI: "gpt-4o-mini",
	ProviderOllama: "llama3",
}

// DefaultAccept are the upload name patterns the text extractor understands.
var DefaultAccept = []string{"*.txt", "*.md", "*.markdown", "*.pdf", "*.docx"}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DataDir: ".missionview",
		LLM: LLMConfig{
			Provider:          ProviderGemini,
			Model:             defaultModels[ProviderGemini],
			Temperature:       0.4,
			MaxTokens:         8192,
			RequestsPerMinute: 15,
			TimeoutSeconds:    120,
		},
		Server: ServerConfig{
			Port: 8000,
		},
		Upload: UploadConfig{
			MaxBytes: 10 << 20,
			Accept:   append([]string(nil), DefaultAccept...),
		},
		Render: RenderConfig{
			Style:            "github",
			OutlineCacheSize: 256,
			ScrollOffset:     80,
		},
	}
}

// DefaultModel returns the default model for provider, or "" if unknown.
func DefaultModel(provider ProviderType) string {
	return defaultModels[provider]
}
