package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

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
	"ragchat/internal/vectorstore/qdrant"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	var verbose bool
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/ragchat/config.yaml if not provided)")
	flag.BoolVar(&verbose, "verbose", false, "Enable per-turn debug logging")
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

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if verbose {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.WarnLevel)
	}

	svc, err := assemble(cfg, logger)
	if err != nil {
		log.Fatalf("failed to assemble chat service: %v", err)
	}

	ctx := context.Background()
	fmt.Println("RAG chat. Ask a question (exit to quit; /summary, /reset):")
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch strings.ToLower(line) {
		case "exit", "quit", "выход":
			return
		}
		switch line {
		case "/summary":
			summary, err := svc.Summary(ctx)
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			if summary == "" {
				summary = "(nothing to summarize yet)"
			}
			fmt.Println("\n=== Summary ===")
			fmt.Println(summary)
			fmt.Println()
			continue
		case "/reset":
			if err := svc.Reset(ctx); err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Println("Conversation reset.")
			continue
		}

		reply, hits, err := svc.Ask(ctx, line)
		if err != nil {
			fmt.Println("Error:", err)
			continue
		}
		fmt.Println("\n=== Answer ===")
		fmt.Println(reply)
		fmt.Println("\n=== Sources ===")
		for i, h := range hits {
			fmt.Printf("[%d] score=%.3f — %s\n", i+1, h.Score, h.SourceLabel())
		}
		fmt.Println()
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
