package llm

import (
	"fmt"
	"os"
	"strings"
)

// DefaultOllamaHost is used when OLLAMA_HOST is unset.
const DefaultOllamaHost = "http://localhost:11434"

// NewProvider creates a provider by name: "gemini", "openai" or "ollama".
// API keys come from the environment.
func NewProvider(providerType, model, baseURL string) (Provider, error) {
	switch providerType {
	case "gemini", "google":
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			apiKey = os.Getenv("GOOGLE_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable is not set")
		}
		return NewGeminiProvider(apiKey, model), nil

	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
		return NewOpenAIProvider("openai", apiKey, baseURL, model), nil

	case "ollama":
		if baseURL == "" {
			host := os.Getenv("OLLAMA_HOST")
			if host == "" {
				host = DefaultOllamaHost
			}
			baseURL = strings.TrimSuffix(host, "/") + "/v1"
		}
		return NewOpenAIProvider("ollama", "ollama", baseURL, model), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}
