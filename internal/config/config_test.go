package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.Embedder.Type)
	assert.Equal(t, "qdrant", cfg.VectorStore.Type)
	assert.Equal(t, "memory", cfg.History.Type)
	assert.Equal(t, 5, cfg.History.Turns)
	assert.Equal(t, 5, cfg.Chat.TopK)
	assert.Equal(t, 0.0, cfg.Chat.MinScore)
	assert.Equal(t, 6000, cfg.Chat.MaxContextChars)
	assert.Equal(t, 2000, cfg.Chat.MaxHitChars)
	assert.Equal(t, 0.2, cfg.Chat.Temperature)
	assert.Equal(t, 900, cfg.Chat.MaxTokens)
	assert.Equal(t, DefaultSystemPrompt, cfg.Chat.SystemPrompt)
	assert.Equal(t, 5, cfg.Summary.MaxSentences)
}

func TestLoad_ParsesAndAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
embedder:
  type: openai
  openai:
    base_url: http://localhost:11434/v1
    model: nomic-embed-text
vector_store:
  type: qdrant
  qdrant:
    url: http://qdrant:6333
    collection: docs
history:
  type: redis
  turns: 2
  redis:
    addr: localhost:6379
    ttl_secs: 600
chat:
  top_k: 3
  min_score: 0.35
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:11434/v1", cfg.Embedder.OpenAI.BaseURL)
	assert.Equal(t, "nomic-embed-text", cfg.Embedder.OpenAI.Model)
	// unset fields fall back to defaults
	assert.Equal(t, "OPENAI_API_KEY", cfg.Embedder.OpenAI.APIKeyEnv)
	assert.Equal(t, 30, cfg.Embedder.OpenAI.TimeoutSecs)
	require.NotNil(t, cfg.Completion.OpenAI)
	assert.Equal(t, "gpt-4o-mini", cfg.Completion.OpenAI.Model)

	assert.Equal(t, "redis", cfg.History.Type)
	assert.Equal(t, 2, cfg.History.Turns)
	require.NotNil(t, cfg.History.Redis)
	assert.Equal(t, 600, cfg.History.Redis.TTLSecs)

	assert.Equal(t, 3, cfg.Chat.TopK)
	assert.Equal(t, 0.35, cfg.Chat.MinScore)
	assert.Equal(t, 6000, cfg.Chat.MaxContextChars)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultConfig()
	cfg.Chat.TopK = 9

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9, loaded.Chat.TopK)
	assert.Equal(t, cfg.VectorStore.Qdrant.Collection, loaded.VectorStore.Qdrant.Collection)
}
