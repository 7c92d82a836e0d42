package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"ragchat/internal/chat"
	completion "ragchat/internal/completion/openai"
	"ragchat/internal/config"
	"ragchat/internal/domain"
	embedding "ragchat/internal/embedding/openai"
	"ragchat/internal/history/memory"
	redishistory "ragchat/internal/history/redis"
	"ragchat/internal/retriever"
	"ragchat/internal/summarizer"
	"ragchat/internal/tui"
	"ragchat/internal/vectorstore/qdrant"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/ragchat/config.yaml if not provided)")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// The alternate screen owns the terminal, so logging is discarded here.
	svc, err := assemble(cfg, zerolog.Nop())
	if err != nil {
		log.Fatalf("failed to assemble chat service: %v", err)
	}

	m := tui.New(svc)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}

// assemble wires the configured backends into a conversation service.
func assemble(cfg *config.AppConfig, logger zerolog.Logger) (*chat.Service, error) {
	var emb domain.Embedder
	switch cfg.Embedder.Type {
	case "openai", "":
		client, err := embedding.NewClient(embedding.Config{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
			Timeout:   time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("embedder init failed: %w", err)
		}
		emb = client
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Embedder.Type)
	}

	var index domain.SearchService
	switch cfg.VectorStore.Type {
	case "qdrant", "":
		if cfg.VectorStore.Qdrant == nil {
			return nil, fmt.Errorf("qdrant config missing")
		}
		index = qdrant.NewClient(qdrant.Config{
			URL:        cfg.VectorStore.Qdrant.URL,
			APIKey:     os.Getenv(cfg.VectorStore.Qdrant.APIKeyEnv),
			Collection: cfg.VectorStore.Qdrant.Collection,
			Timeout:    time.Duration(cfg.VectorStore.Qdrant.TimeoutSecs) * time.Second,
		})
	default:
		return nil, fmt.Errorf("unknown vector store: %s", cfg.VectorStore.Type)
	}

	var gen domain.Generator
	switch cfg.Completion.Type {
	case "openai", "":
		client, err := completion.NewClient(completion.Config{
			BaseURL:   cfg.Completion.OpenAI.BaseURL,
			APIKeyEnv: cfg.Completion.OpenAI.APIKeyEnv,
			Model:     cfg.Completion.OpenAI.Model,
			Timeout:   time.Duration(cfg.Completion.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("completion init failed: %w", err)
		}
		gen = client
	default:
		return nil, fmt.Errorf("unknown completion backend: %s", cfg.Completion.Type)
	}

	conversationID := uuid.New()
	system := domain.SystemMessage(cfg.Chat.SystemPrompt)
	var histLog domain.Log
	switch cfg.History.Type {
	case "memory", "":
		histLog = memory.NewStore(system)
	case "redis":
		if cfg.History.Redis == nil {
			return nil, fmt.Errorf("redis history config missing")
		}
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.History.Redis.Addr,
			Password: os.Getenv(cfg.History.Redis.PasswordEnv),
			DB:       cfg.History.Redis.DB,
		})
		store := redishistory.NewStore(client, conversationID, time.Duration(cfg.History.Redis.TTLSecs)*time.Second)
		if err := store.Reset(context.Background(), system); err != nil {
			return nil, fmt.Errorf("seeding redis history failed: %w", err)
		}
		histLog = store
	default:
		return nil, fmt.Errorf("unknown history backend: %s", cfg.History.Type)
	}

	gateway := retriever.New(emb, index, retriever.Config{
		TopK:        cfg.Chat.TopK,
		MinScore:    cfg.Chat.MinScore,
		MaxHitChars: cfg.Chat.MaxHitChars,
	})
	return chat.New(conversationID, gateway, gen, histLog, summarizer.NewFrequencySummarizer(), chat.Config{
		HistoryTurns:        cfg.History.Turns,
		MaxContextChars:     cfg.Chat.MaxContextChars,
		Temperature:         cfg.Chat.Temperature,
		MaxTokens:           cfg.Chat.MaxTokens,
		SystemPrompt:        cfg.Chat.SystemPrompt,
		SummaryMaxSentences: cfg.Summary.MaxSentences,
	}, logger), nil
}
