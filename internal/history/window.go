// Package history derives the bounded working window sent with each request
// from a conversation log. Backends live in the subpackages.
package history

import "ragchat/internal/domain"

// WorkingWindow returns the bounded slice of a conversation sent with each
// request: the first system message found in msgs (or fallback if none),
// followed by the trailing 2*turns non-system messages in original order.
//
// Truncation counts raw messages, not semantic turns: if the log ends on an
// unpaired user message the window may start mid-turn, and that state is
// preserved as-is. The result holds at most 1+2*turns messages with exactly
// one system message, placed first. msgs is never mutated.
func WorkingWindow(msgs []domain.Message, fallback domain.Message, turns int) []domain.Message {
	system := fallback
	for _, m := range msgs {
		if m.Role == domain.RoleSystem {
			system = m
			break
		}
	}
	var rest []domain.Message
	for _, m := range msgs {
		if m.Role != domain.RoleSystem {
			rest = append(rest, m)
		}
	}
	keep := 2 * turns
	if keep <= 0 {
		rest = nil
	} else if keep < len(rest) {
		rest = rest[len(rest)-keep:]
	}
	window := make([]domain.Message, 0, 1+len(rest))
	window = append(window, system)
	return append(window, rest...)
}
