package domain

import "errors"

// Failure taxonomy. All of these are local to a single turn: the orchestrator
// aborts the turn without mutating history and the conversation remains
// usable for subsequent turns.
var (
	// ErrRetrievalUnavailable means the similarity-search or embedding
	// service failed or timed out.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")

	// ErrGenerationUnavailable means the text-generation service failed.
	ErrGenerationUnavailable = errors.New("generation unavailable")

	// ErrEmptyQuery means the user input was empty or whitespace; it is
	// rejected before any external call.
	ErrEmptyQuery = errors.New("empty query")
)
