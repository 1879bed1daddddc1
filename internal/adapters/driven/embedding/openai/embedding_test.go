package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
)

// fakeOpenAI answers /embeddings with deterministic vectors, returned
// deliberately in reverse index order to exercise reordering.
func fakeOpenAI(t *testing.T, dims int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]string{"message": "invalid api key", "type": "invalid_request_error"},
			})
			return
		}

		switch r.URL.Path {
		case "/embeddings":
			var req embedRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

			data := make([]map[string]any, 0, len(req.Input))
			for i := len(req.Input) - 1; i >= 0; i-- {
				vec := make([]float32, dims)
				for j := range vec {
					vec[j] = float32(i+1) * 0.25
				}
				data = append(data, map[string]any{"index": i, "embedding": vec})
			}
			json.NewEncoder(w).Encode(map[string]any{"data": data})
		case "/models":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestNewEmbedder_RequiresAPIKey(t *testing.T) {
	_, err := NewEmbedder(Config{})
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestNewEmbedder_DimensionResolution(t *testing.T) {
	small, err := NewEmbedder(Config{APIKey: "test-key"})
	require.NoError(t, err)
	assert.Equal(t, 1536, small.Dimensions())

	large, err := NewEmbedder(Config{APIKey: "test-key", Model: "text-embedding-3-large"})
	require.NoError(t, err)
	assert.Equal(t, 3072, large.Dimensions())

	pinned, err := NewEmbedder(Config{APIKey: "test-key", Dimensions: 256})
	require.NoError(t, err)
	assert.Equal(t, 256, pinned.Dimensions())

	unknown, err := NewEmbedder(Config{APIKey: "test-key", Model: "my-local-model"})
	require.NoError(t, err)
	assert.Equal(t, 1536, unknown.Dimensions())
}

func TestEmbedder_EmbedBatch_ReordersByIndex(t *testing.T) {
	server := fakeOpenAI(t, 2)
	defer server.Close()

	e, err := NewEmbedder(Config{APIKey: "test-key", BaseURL: server.URL, Dimensions: 2})
	require.NoError(t, err)

	vecs, err := e.EmbedBatch(context.Background(), []string{"first", "second", "third"})
	require.NoError(t, err)
	require.Len(t, vecs, 3)
	assert.Equal(t, float32(0.25), vecs[0][0])
	assert.Equal(t, float32(0.50), vecs[1][0])
	assert.Equal(t, float32(0.75), vecs[2][0])
}

func TestEmbedder_EmbedBatch_RejectsBlankText(t *testing.T) {
	e, err := NewEmbedder(Config{APIKey: "test-key", BaseURL: "http://localhost:0"})
	require.NoError(t, err)

	_, err = e.EmbedBatch(context.Background(), []string{"fine", " \t "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEmbedder_Embed_APIError(t *testing.T) {
	server := fakeOpenAI(t, 2)
	defer server.Close()

	e, err := NewEmbedder(Config{APIKey: "wrong-key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = e.Embed(context.Background(), "hello")
	require.ErrorIs(t, err, domain.ErrEmbedding)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestEmbedder_Ping(t *testing.T) {
	server := fakeOpenAI(t, 2)
	defer server.Close()

	e, err := NewEmbedder(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)
	assert.NoError(t, e.Ping(context.Background()))
}
