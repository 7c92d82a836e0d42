package summarizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_PicksFrequentTopicSentences(t *testing.T) {
	s := NewFrequencySummarizer()
	text := strings.Join([]string{
		"Qdrant stores vectors for retrieval.",
		"Retrieval uses vectors from Qdrant collections.",
		"Bananas are yellow.",
		"Vectors power similarity retrieval in Qdrant.",
	}, "\n")

	out, err := s.Summarize(text, 2)
	require.NoError(t, err)
	sentences := strings.Count(out, ".")
	assert.Equal(t, 2, sentences)
	assert.NotContains(t, out, "Bananas")
}

func TestSummarize_KeepsOriginalOrder(t *testing.T) {
	s := NewFrequencySummarizer()
	text := "Alpha beta gamma. Delta alpha beta. Alpha gamma delta."

	out, err := s.Summarize(text, 3)
	require.NoError(t, err)
	first := strings.Index(out, "Alpha beta gamma")
	last := strings.Index(out, "Alpha gamma delta")
	require.GreaterOrEqual(t, first, 0)
	require.Greater(t, last, first)
}

func TestSummarize_UnpunctuatedLinesCountAsSentences(t *testing.T) {
	s := NewFrequencySummarizer()
	// chat replies often carry no terminal punctuation
	text := "retrieval works well\nretrieval needs an index\nunrelated remark"

	out, err := s.Summarize(text, 1)
	require.NoError(t, err)
	assert.Contains(t, out, "retrieval")
	assert.NotContains(t, out, "unrelated")
}

func TestSummarize_EmptyText(t *testing.T) {
	s := NewFrequencySummarizer()
	out, err := s.Summarize("   \n  ", 3)
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestSummarize_MaxSentencesBound(t *testing.T) {
	s := NewFrequencySummarizer()
	out, err := s.Summarize("One fact. Two facts. Three facts. Four facts.", 2)
	require.NoError(t, err)
	assert.LessOrEqual(t, strings.Count(out, "."), 2)
}

func TestSummarize_FewerSentencesThanRequested(t *testing.T) {
	s := NewFrequencySummarizer()
	out, err := s.Summarize("Only one sentence here.", 5)
	require.NoError(t, err)
	assert.Equal(t, "Only one sentence here.", out)
}
