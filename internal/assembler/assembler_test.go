package assembler

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragchat/internal/domain"
)

func hit(text string, score float64) domain.Hit {
	return domain.Hit{Text: text, Score: score, Payload: map[string]any{}}
}

func TestBuild_EmptyHits(t *testing.T) {
	assert.Equal(t, "", Build(nil, 1000))
	assert.Equal(t, "", Build([]domain.Hit{}, 1000))
}

func TestBuild_SingleFragmentFormat(t *testing.T) {
	out := Build([]domain.Hit{hit("X is Y", 0.9)}, 1000)
	assert.Equal(t, "[1] (score=0.900)\nX is Y\n", out)
}

func TestBuild_FragmentsJoinedWithBlankLine(t *testing.T) {
	out := Build([]domain.Hit{hit("first", 0.9), hit("second", 0.8)}, 1000)
	assert.Contains(t, out, "[1] (score=0.900)\nfirst\n\n[2] (score=0.800)\nsecond\n")
}

func TestBuild_IncludesBoundaryCrossingFragment(t *testing.T) {
	hits := []domain.Hit{
		hit(strings.Repeat("a", 50), 0.9),
		hit(strings.Repeat("b", 50), 0.8),
		hit(strings.Repeat("c", 50), 0.7),
	}
	// Budget falls inside the second fragment: it is included, the third is not.
	out := Build(hits, 80)
	assert.Contains(t, out, "[1]")
	assert.Contains(t, out, "[2]")
	assert.NotContains(t, out, "[3]")
}

func TestBuild_OvershootBound(t *testing.T) {
	var hits []domain.Hit
	for i := 0; i < 20; i++ {
		hits = append(hits, hit(strings.Repeat("x", 10+i), 1.0-float64(i)/100))
	}
	for _, budget := range []int{1, 30, 100, 500, 10000} {
		out := Build(hits, budget)
		fragments := strings.Split(out, "\n\n")
		// every fragment before the last must have fit inside the budget
		prefix := 0
		for _, f := range fragments[:len(fragments)-1] {
			prefix += utf8.RuneCountInString(f) + 1 // fragment keeps its trailing newline
		}
		assert.Less(t, prefix, budget, "budget=%d", budget)
		last := utf8.RuneCountInString(fragments[len(fragments)-1])
		assert.LessOrEqual(t, utf8.RuneCountInString(out), budget+last, "budget=%d", budget)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	hits := []domain.Hit{hit("alpha", 0.9), hit("beta", 0.5), hit("gamma", 0.2)}
	first := Build(hits, 40)
	second := Build(hits, 40)
	assert.Equal(t, first, second)
}

func TestBuild_IndexesAreOneBased(t *testing.T) {
	hits := []domain.Hit{hit("a", 0.3), hit("b", 0.2), hit("c", 0.1)}
	out := Build(hits, 10000)
	for i := range hits {
		require.Contains(t, out, fmt.Sprintf("[%d] ", i+1))
	}
}
