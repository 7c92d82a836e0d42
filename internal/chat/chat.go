// Package chat drives the per-turn loop of a retrieval-augmented
// conversation: retrieve, assemble context, window the history, generate,
// and append the completed turn.
package chat

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ragchat/internal/assembler"
	"ragchat/internal/domain"
	"ragchat/internal/history"
)

// Retriever is the retrieval side of a turn.
type Retriever interface {
	Search(ctx context.Context, query string) ([]domain.Hit, error)
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}

// Config holds the per-conversation parameters.
type Config struct {
	HistoryTurns        int
	MaxContextChars     int
	Temperature         float64
	MaxTokens           int
	SystemPrompt        string
	SummaryMaxSentences int
}

// contextInstruction directs the generator to answer only from the supplied
// context and to state explicitly when the context is insufficient.
const contextInstruction = "Use ONLY the information inside <context>...</context>. " +
	"If the answer is not in the context, say so. " +
	"Quote important fragments briefly."

// Service owns one conversation: its history log and the gateways a turn
// flows through. Turns are processed strictly sequentially; a Service is not
// safe for concurrent use. Independent conversations get independent
// Services with no shared state.
type Service struct {
	id         uuid.UUID
	retriever  Retriever
	generator  domain.Generator
	log        domain.Log
	summarizer Summarizer
	system     domain.Message
	cfg        Config
	logger     zerolog.Logger
}

// New creates a conversation service. The log should already be seeded with
// the conversation's system message; if it is not, the configured system
// prompt is synthesized into the working window on each turn.
func New(id uuid.UUID, retriever Retriever, generator domain.Generator, log domain.Log, summarizer Summarizer, cfg Config, logger zerolog.Logger) *Service {
	if cfg.HistoryTurns <= 0 {
		cfg.HistoryTurns = 5
	}
	if cfg.MaxContextChars <= 0 {
		cfg.MaxContextChars = 6000
	}
	if cfg.SummaryMaxSentences <= 0 {
		cfg.SummaryMaxSentences = 5
	}
	return &Service{
		id:         id,
		retriever:  retriever,
		generator:  generator,
		log:        log,
		summarizer: summarizer,
		system:     domain.SystemMessage(cfg.SystemPrompt),
		cfg:        cfg,
		logger:     logger,
	}
}

// ID returns the conversation identifier.
func (s *Service) ID() uuid.UUID { return s.id }

// Ask runs one turn: retrieve passages for userText, build the grounded
// context, merge it with the history window, generate a reply, and append
// the user/assistant pair to history.
//
// History mutates only on full success. If retrieval or generation fails the
// turn is discarded entirely and the conversation stays usable; the
// user/assistant messages are appended as a pair or not at all.
func (s *Service) Ask(ctx context.Context, userText string) (string, []domain.Hit, error) {
	if strings.TrimSpace(userText) == "" {
		return "", nil, domain.ErrEmptyQuery
	}
	start := time.Now()

	hits, err := s.retriever.Search(ctx, userText)
	if err != nil {
		s.logger.Warn().Str("conversation", s.id.String()).Err(err).Msg("turn aborted")
		return "", nil, err
	}
	block := assembler.Build(hits, s.cfg.MaxContextChars)
	// The <context> envelope is sent even when the block is empty so the
	// model sees an empty context rather than an absent one.
	contextMsg := domain.SystemMessage(contextInstruction + "\n<context>\n" + block + "\n</context>")

	past, err := s.log.Messages(ctx)
	if err != nil {
		return "", nil, err
	}
	window := history.WorkingWindow(past, s.system, s.cfg.HistoryTurns)

	request := make([]domain.Message, 0, len(window)+2)
	request = append(request, window...)
	request = append(request, contextMsg, domain.UserMessage(userText))

	reply, err := s.generator.Generate(ctx, request, s.cfg.Temperature, s.cfg.MaxTokens)
	if err != nil {
		s.logger.Warn().Str("conversation", s.id.String()).Err(err).Msg("turn aborted")
		return "", nil, err
	}

	if err := s.log.Append(ctx, domain.UserMessage(userText), domain.AssistantMessage(reply)); err != nil {
		return "", nil, err
	}
	s.logger.Debug().
		Str("conversation", s.id.String()).
		Int("hits", len(hits)).
		Dur("took", time.Since(start)).
		Msg("turn completed")
	return reply, hits, nil
}

// Summary summarizes the conversation so far from its non-system messages.
func (s *Service) Summary(ctx context.Context) (string, error) {
	msgs, err := s.log.Messages(ctx)
	if err != nil {
		return "", err
	}
	var transcript strings.Builder
	for _, m := range msgs {
		if m.Role == domain.RoleSystem {
			continue
		}
		transcript.WriteString(m.Text)
		transcript.WriteString("\n")
	}
	return s.summarizer.Summarize(transcript.String(), s.cfg.SummaryMaxSentences)
}

// Reset clears the history back to the seeded system message.
func (s *Service) Reset(ctx context.Context) error {
	return s.log.Reset(ctx, s.system)
}
