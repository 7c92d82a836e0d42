package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// OpenAIClientConfig holds connection details for an OpenAI-compatible HTTP
// endpoint (embeddings or chat completions). The API key is resolved through
// an environment variable so config files stay free of secrets.
type OpenAIClientConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// EmbedderConfig selects and configures the query embedder.
type EmbedderConfig struct {
	Type   string              `yaml:"type"`
	OpenAI *OpenAIClientConfig `yaml:"openai,omitempty"`
}

// QdrantConfig contains connection details for a Qdrant similarity index.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Collection  string `yaml:"collection"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// VectorStoreConfig selects and configures the similarity-search backend.
type VectorStoreConfig struct {
	Type   string        `yaml:"type"`
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// CompletionConfig selects and configures the text-generation backend.
type CompletionConfig struct {
	Type   string              `yaml:"type"`
	OpenAI *OpenAIClientConfig `yaml:"openai,omitempty"`
}

// RedisHistoryConfig contains connection details for the Redis history store.
type RedisHistoryConfig struct {
	Addr        string `yaml:"addr"`
	PasswordEnv string `yaml:"password_env"`
	DB          int    `yaml:"db"`
	TTLSecs     int    `yaml:"ttl_secs"`
}

// HistoryConfig selects the conversation log backend and the working-window
// size in turns (one turn = one user + one assistant message).
type HistoryConfig struct {
	Type  string              `yaml:"type"`
	Turns int                 `yaml:"turns"`
	Redis *RedisHistoryConfig `yaml:"redis,omitempty"`
}

// ChatConfig holds the per-turn retrieval and generation parameters.
type ChatConfig struct {
	TopK            int     `yaml:"top_k"`
	MinScore        float64 `yaml:"min_score"`
	MaxContextChars int     `yaml:"max_context_chars"`
	MaxHitChars     int     `yaml:"max_hit_chars"`
	Temperature     float64 `yaml:"temperature"`
	MaxTokens       int     `yaml:"max_tokens"`
	SystemPrompt    string  `yaml:"system_prompt"`
}

// SummaryConfig configures the /summary command.
type SummaryConfig struct {
	MaxSentences int `yaml:"max_sentences"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Embedder    EmbedderConfig    `yaml:"embedder"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Completion  CompletionConfig  `yaml:"completion"`
	History     HistoryConfig     `yaml:"history"`
	Chat        ChatConfig        `yaml:"chat"`
	Summary     SummaryConfig     `yaml:"summary"`
}

// DefaultSystemPrompt is used when no system prompt is configured.
const DefaultSystemPrompt = "You are an assistant that answers from the provided context. If the context does not contain the answer, say so."

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/ragchat/config.yaml.
// If neither exists, it writes defaults to ~/.config/ragchat/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ragchat", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Embedder: EmbedderConfig{Type: "openai"},
		VectorStore: VectorStoreConfig{Type: "qdrant", Qdrant: &QdrantConfig{
			URL:        "http://localhost:6333",
			Collection: "docs",
		}},
		Completion: CompletionConfig{Type: "openai"},
		History:    HistoryConfig{Type: "memory"},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "openai"
	}
	if cfg.Embedder.Type == "openai" {
		if cfg.Embedder.OpenAI == nil {
			cfg.Embedder.OpenAI = &OpenAIClientConfig{}
		}
		applyOpenAIDefaults(cfg.Embedder.OpenAI, "text-embedding-3-small")
	}
	if cfg.Completion.Type == "" {
		cfg.Completion.Type = "openai"
	}
	if cfg.Completion.Type == "openai" {
		if cfg.Completion.OpenAI == nil {
			cfg.Completion.OpenAI = &OpenAIClientConfig{}
		}
		applyOpenAIDefaults(cfg.Completion.OpenAI, "gpt-4o-mini")
	}
	if cfg.VectorStore.Qdrant != nil && cfg.VectorStore.Qdrant.TimeoutSecs == 0 {
		cfg.VectorStore.Qdrant.TimeoutSecs = 30
	}
	if cfg.History.Type == "" {
		cfg.History.Type = "memory"
	}
	if cfg.History.Turns == 0 {
		cfg.History.Turns = 5
	}
	if cfg.Chat.TopK == 0 {
		cfg.Chat.TopK = 5
	}
	if cfg.Chat.MaxContextChars == 0 {
		cfg.Chat.MaxContextChars = 6000
	}
	if cfg.Chat.MaxHitChars == 0 {
		cfg.Chat.MaxHitChars = 2000
	}
	if cfg.Chat.Temperature == 0 {
		cfg.Chat.Temperature = 0.2
	}
	if cfg.Chat.MaxTokens == 0 {
		cfg.Chat.MaxTokens = 900
	}
	if cfg.Chat.SystemPrompt == "" {
		cfg.Chat.SystemPrompt = DefaultSystemPrompt
	}
	if cfg.Summary.MaxSentences == 0 {
		cfg.Summary.MaxSentences = 5
	}
}

func applyOpenAIDefaults(c *OpenAIClientConfig, model string) {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.openai.com/v1"
	}
	if c.APIKeyEnv == "" {
		c.APIKeyEnv = "OPENAI_API_KEY"
	}
	if c.Model == "" {
		c.Model = model
	}
	if c.TimeoutSecs == 0 {
		c.TimeoutSecs = 30
	}
}
