package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_RequestAndResponse(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		assert.Equal(t, "secret", r.Header.Get("api-key"))
		_, _ = w.Write([]byte(`{"result":[
			{"score":0.91,"payload":{"text":"X is Y","source":"x.txt"}},
			{"score":0.42,"payload":{"text":"other"}}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{URL: srv.URL, APIKey: "secret", Collection: "docs"})
	points, err := c.Search(context.Background(), []float64{0.1, 0.2}, 5)
	require.NoError(t, err)

	assert.Equal(t, "/collections/docs/points/search", gotPath)
	assert.Equal(t, float64(5), gotBody["limit"])
	assert.Equal(t, true, gotBody["with_payload"])
	params, ok := gotBody["params"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(128), params["hnsw_ef"])
	assert.Equal(t, false, params["exact"])

	require.Len(t, points, 2)
	assert.Equal(t, 0.91, points[0].Score)
	assert.Equal(t, "X is Y", points[0].Payload["text"])
	assert.Equal(t, "x.txt", points[0].Payload["source"])
}

func TestSearch_NilPayloadBecomesEmptyMap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":[{"score":0.5}]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{URL: srv.URL, Collection: "docs"})
	points, err := c.Search(context.Background(), []float64{0.1}, 1)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.NotNil(t, points[0].Payload)
}

func TestSearch_ServerErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(Config{URL: srv.URL, Collection: "docs"})
	_, err := c.Search(context.Background(), []float64{0.1}, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestSearch_DefaultsLimit(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"result":[]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{URL: srv.URL, Collection: "docs"})
	_, err := c.Search(context.Background(), []float64{0.1}, 0)
	require.NoError(t, err)
	assert.Equal(t, float64(5), gotBody["limit"])
}
