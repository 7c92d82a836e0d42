package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"ragchat/internal/domain"
)

// Client is an OpenAI-compatible chat-completions client. Failures surface as
// domain.ErrGenerationUnavailable; no retries are performed, a failed turn is
// the caller's to discard.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// Config configures the chat-completions client.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
}

// NewClient creates a new chat-completions client using the provided configuration.
func NewClient(cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  key,
		model:   cfg.Model,
		client:  &http.Client{Timeout: t},
	}, nil
}

// Generate sends the full ordered message sequence with the given decoding
// parameters and returns the generated text, whitespace-stripped.
func (c *Client) Generate(ctx context.Context, messages []domain.Message, temperature float64, maxTokens int) (string, error) {
	type wireMessage struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	body := struct {
		Model       string        `json:"model"`
		Messages    []wireMessage `json:"messages"`
		Temperature float64       `json:"temperature"`
		MaxTokens   int           `json:"max_tokens,omitempty"`
	}{
		Model:       c.model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
	for _, m := range messages {
		body.Messages = append(body.Messages, wireMessage{Role: string(m.Role), Content: m.Text})
	}
	data, _ := json.Marshal(body)

	url := fmt.Sprintf("%s/chat/completions", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: %s", domain.ErrGenerationUnavailable, resp.Status)
	}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationUnavailable, err)
	}
	text, ok := decodeCompletion(payload)
	if !ok {
		return "", fmt.Errorf("%w: no completion returned", domain.ErrGenerationUnavailable)
	}
	return strings.TrimSpace(text), nil
}

// decodeCompletion tolerates both a multi-completion (choices list, first
// element wins) and a single-completion response shape.
func decodeCompletion(payload []byte) (string, bool) {
	var chatOut struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
			Text string `json:"text"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(payload, &chatOut); err == nil && len(chatOut.Choices) > 0 {
		if chatOut.Choices[0].Message.Content != "" {
			return chatOut.Choices[0].Message.Content, true
		}
		if chatOut.Choices[0].Text != "" {
			return chatOut.Choices[0].Text, true
		}
	}
	// Ollama-native shapes: {"message":{"content":...}} or {"response":...}
	var singleOut struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Response string `json:"response"`
	}
	if err := json.Unmarshal(payload, &singleOut); err == nil {
		if singleOut.Message.Content != "" {
			return singleOut.Message.Content, true
		}
		if singleOut.Response != "" {
			return singleOut.Response, true
		}
	}
	return "", false
}
