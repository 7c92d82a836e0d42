package domain

import "context"

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single chat message. Messages are immutable once created;
// their order within a conversation is significant and must be preserved.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// SystemMessage builds a message with the system role.
func SystemMessage(text string) Message { return Message{Role: RoleSystem, Text: text} }

// UserMessage builds a message with the user role.
func UserMessage(text string) Message { return Message{Role: RoleUser, Text: text} }

// AssistantMessage builds a message with the assistant role.
func AssistantMessage(text string) Message { return Message{Role: RoleAssistant, Text: text} }

// Hit is one retrieved passage: display text, similarity score, and the raw
// provenance payload as stored in the index. Hits are produced fresh per
// retrieval call and never persisted.
type Hit struct {
	Text    string
	Payload map[string]any
	Score   float64
}

// SourceLabel returns a best-effort provenance label from the payload.
func (h Hit) SourceLabel() string {
	for _, key := range []string{"source", "file_path", "doc_id"} {
		if v, ok := h.Payload[key].(string); ok && v != "" {
			return v
		}
	}
	return "unknown"
}

// ScoredPoint is a raw similarity-search result: the score plus the stored
// payload, before any text extraction or filtering.
type ScoredPoint struct {
	Score   float64
	Payload map[string]any
}

// Embedder turns text into a fixed-length normalized vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// SearchService is an external similarity index. The core is agnostic to
// vector dimensionality and distance metric; it only consumes score + payload.
type SearchService interface {
	Search(ctx context.Context, vector []float64, limit int) ([]ScoredPoint, error)
}

// Generator is an external text-generation service.
type Generator interface {
	Generate(ctx context.Context, messages []Message, temperature float64, maxTokens int) (string, error)
}

// Log is an append-only conversation history. A Log is owned by exactly one
// conversation; implementations are not required to be safe for concurrent
// use by multiple conversations.
type Log interface {
	// Append adds messages to the end of the log. A completed turn appends
	// the user and assistant messages in a single call so they land as a pair.
	Append(ctx context.Context, msgs ...Message) error
	// Messages returns a snapshot of the full log in order. Mutating the
	// returned slice must not affect the log.
	Messages(ctx context.Context) ([]Message, error)
	// Reset discards the log and re-seeds it with the given system message.
	Reset(ctx context.Context, system Message) error
}
