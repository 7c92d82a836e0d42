package retriever

import "fmt"

// Upstream indexing may store text at varying payload depths, so display text
// is found by trying a fixed chain of extraction strategies in order. A
// payload no strategy matches is stringified verbatim rather than rejected.

// extractor attempts to pull display text out of a stored payload.
type extractor func(payload map[string]any) (string, bool)

var extractors = []extractor{topLevelText, nestedObjectText}

// ExtractText resolves the display text for a payload.
func ExtractText(payload map[string]any) string {
	for _, extract := range extractors {
		if text, ok := extract(payload); ok {
			return text
		}
	}
	return fmt.Sprint(payload)
}

// topLevelText matches a plain "text" string field.
func topLevelText(payload map[string]any) (string, bool) {
	if v, ok := payload["text"].(string); ok {
		return v, true
	}
	return "", false
}

// nestedObjectText matches a nested object under a known wrapper key holding
// a text-like field.
func nestedObjectText(payload map[string]any) (string, bool) {
	for _, key := range []string{"node", "document", "doc", "data"} {
		obj, ok := payload[key].(map[string]any)
		if !ok {
			continue
		}
		for _, tkey := range []string{"text", "content", "body"} {
			if v, ok := obj[tkey].(string); ok {
				return v, true
			}
		}
	}
	return "", false
}
