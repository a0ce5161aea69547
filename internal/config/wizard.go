package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard asks for the essential settings, saves them to path and returns
// the resulting Config.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to missionview! Let's configure the report generator.")
	fmt.Println()

	cfg := DefaultConfig()

	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{string(ProviderGemini), string(ProviderOpenAI), string(ProviderOllama)},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.LLM.Provider = ProviderType(providerStr)

	modelPrompt := promptui.Prompt{
		Label:   "Model",
		Default: DefaultModel(cfg.LLM.Provider),
	}
	if cfg.LLM.Model, err = modelPrompt.Run(); err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	promptFilePrompt := promptui.Prompt{
		Label:   "System prompt file (leave blank for the built-in prompt)",
		Default: "",
	}
	if cfg.LLM.PromptFile, err = promptFilePrompt.Run(); err != nil {
		return nil, fmt.Errorf("prompt file: %w", err)
	}

	portPrompt := promptui.Prompt{
		Label:   "Server port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > 65535 {
				return fmt.Errorf("port must be between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	acceptPrompt := promptui.Prompt{
		Label:   "Accepted upload patterns (comma-separated globs)",
		Default: strings.Join(DefaultAccept, ","),
	}
	acceptStr, err := acceptPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("upload patterns: %w", err)
	}
	if accept := splitAndTrim(acceptStr); len(accept) > 0 {
		cfg.Upload.Accept = accept
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if envVar := APIKeyEnvVar(cfg.LLM.Provider); envVar != "" && os.Getenv(envVar) == "" {
		fmt.Printf("\nNote: Set %s in your environment or .env file before generating reports.\n", envVar)
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}
	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
