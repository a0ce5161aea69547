package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// DefaultPath is where init writes the configuration.
const DefaultPath = ".missionview.yml"

// EnvPrefix marks environment overrides. A double underscore separates
// nesting levels: MISSIONVIEW_LLM__MODEL sets llm.model.
const EnvPrefix = "MISSIONVIEW_"

var validate = validator.New()

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks field constraints and that every upload pattern is a
// well-formed glob.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	for _, p := range c.Upload.Accept {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid upload pattern %q", p)
		}
	}
	return nil
}

// DatabasePath is the report archive location inside DataDir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "missionview.db")
}

// APIKeyEnvVar returns the environment variable holding the API key for
// provider, or "" when none is needed.
func APIKeyEnvVar(provider ProviderType) string {
	switch provider {
	case ProviderGemini:
		return "GEMINI_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}
