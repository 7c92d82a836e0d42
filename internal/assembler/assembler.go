// Package assembler renders ranked hits into the bounded context block handed
// to the generator as grounding material.
package assembler

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"ragchat/internal/domain"
)

// Build joins hits, in the given order, into a single context block. Each hit
// renders as an indexed, scored citation fragment; fragments are separated by
// a blank line. Accumulation stops once the cumulative rendered length meets
// or exceeds maxChars, but the fragment that crosses the budget is still
// included: output may exceed maxChars by up to one fragment's length, so
// callers must not treat maxChars as a hard cap.
//
// An empty hit list yields an empty string. Build is pure: same hits and
// budget, same output.
func Build(hits []domain.Hit, maxChars int) string {
	var parts []string
	total := 0
	for i, h := range hits {
		fragment := fmt.Sprintf("[%d] (score=%.3f)\n%s\n", i+1, h.Score, h.Text)
		parts = append(parts, fragment)
		total += utf8.RuneCountInString(fragment)
		if total >= maxChars {
			break
		}
	}
	return strings.Join(parts, "\n")
}
