package config

// ProviderType identifies the LLM backend used to write mission plans.
type ProviderType string

const (
	ProviderGemini ProviderType = "gemini"
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
)

// Config is the top-level missionview configuration, stored in .missionview.yml.
type Config struct {
	DataDir string       `yaml:"data_dir" koanf:"data_dir" validate:"required"`
	LLM     LLMConfig    `yaml:"llm" koanf:"llm"`
	Server  ServerConfig `yaml:"server" koanf:"server"`
	Upload  UploadConfig `yaml:"upload" koanf:"upload"`
	Render  RenderConfig `yaml:"render" koanf:"render"`
}

type LLMConfig struct {
	Provider          ProviderType `yaml:"provider" koanf:"provider" validate:"required,oneof=gemini openai ollama"`
	Model             string       `yaml:"model" koanf:"model" validate:"required"`
	BaseURL           string       `yaml:"base_url,omitempty" koanf:"base_url" validate:"omitempty,url"`
	PromptFile        string       `yaml:"prompt_file,omitempty" koanf:"prompt_file"`
	Temperature       float64      `yaml:"temperature" koanf:"temperature" validate:"gte=0,lte=2"`
	MaxTokens         int          `yaml:"max_tokens" koanf:"max_tokens" validate:"gte=0"`
	RequestsPerMinute int          `yaml:"requests_per_minute" koanf:"requests_per_minute" validate:"gte=0"`
	TimeoutSeconds    int          `yaml:"timeout_seconds" koanf:"timeout_seconds" validate:"gte=0"`
}

type ServerConfig struct {
	Port     int  `yaml:"port" koanf:"port" validate:"min=1,max=65535"`
	AllowAll bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// UploadConfig limits which files the generator accepts.
type UploadConfig struct {
	MaxBytes int64    `yaml:"max_bytes" koanf:"max_bytes" validate:"gt=0"`
	Accept   []string `yaml:"accept" koanf:"accept" validate:"min=1,dive,required"`
}

type RenderConfig struct {
	Style            string  `yaml:"style" koanf:"style"`
	OutlineCacheSize int     `yaml:"outline_cache_size" koanf:"outline_cache_size" validate:"gte=0"`
	ScrollOffset     float64 `yaml:"scroll_offset" koanf:"scroll_offset" validate:"gte=0"`
}
