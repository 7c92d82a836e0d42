package retriever

import (
	"context"
	"fmt"
	"sort"

	"ragchat/internal/domain"
)

// Gateway turns a query string into a ranked, score-filtered list of hits:
// embed the query, search the index, drop candidates below the score floor,
// extract and truncate display text.
type Gateway struct {
	embedder    domain.Embedder
	index       domain.SearchService
	topK        int
	minScore    float64
	maxHitChars int
}

// Config holds the retrieval parameters.
type Config struct {
	TopK        int
	MinScore    float64
	MaxHitChars int
}

// New creates a retrieval gateway over the given embedder and search service.
func New(embedder domain.Embedder, index domain.SearchService, cfg Config) *Gateway {
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	if cfg.MaxHitChars <= 0 {
		cfg.MaxHitChars = 2000
	}
	return &Gateway{
		embedder:    embedder,
		index:       index,
		topK:        cfg.TopK,
		minScore:    cfg.MinScore,
		maxHitChars: cfg.MaxHitChars,
	}
}

// Search returns hits for the query in non-increasing score order. Candidates
// with a score strictly below the configured minimum are discarded. External
// failures surface as domain.ErrRetrievalUnavailable; no retry is performed.
func (g *Gateway) Search(ctx context.Context, query string) ([]domain.Hit, error) {
	vector, err := g.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed: %v", domain.ErrRetrievalUnavailable, err)
	}
	points, err := g.index.Search(ctx, vector, g.topK)
	if err != nil {
		return nil, fmt.Errorf("%w: search: %v", domain.ErrRetrievalUnavailable, err)
	}
	hits := make([]domain.Hit, 0, len(points))
	for _, p := range points {
		if p.Score < g.minScore {
			continue
		}
		hits = append(hits, domain.Hit{
			Text:    truncateRunes(ExtractText(p.Payload), g.maxHitChars),
			Payload: p.Payload,
			Score:   p.Score,
		})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	return hits, nil
}

// truncateRunes bounds downstream context size regardless of indexed chunk size.
func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
