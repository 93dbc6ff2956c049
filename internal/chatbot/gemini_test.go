package chatbot

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careplus/pharmacy-api/internal/config"
)

func testGeminiClient(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGeminiClient(config.AdvisoryConfig{
		APIKey:          "test-key",
		BaseURL:         srv.URL,
		Model:           "gemini-1.5-flash",
		Temperature:     0.2,
		MaxOutputTokens: 800,
		Timeout:         5 * time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestGenerateSendsKeyAndPrompts(t *testing.T) {
	var gotURL string
	var gotBody geminiRequest
	client := testGeminiClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotBody))
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": "advice"}}}},
			},
		})
	})

	text, err := client.Generate(context.Background(), "be a doctor", "I sneeze")
	require.NoError(t, err)
	assert.Equal(t, "advice", text)

	assert.Contains(t, gotURL, "/models/gemini-1.5-flash:generateContent")
	assert.Contains(t, gotURL, "key=test-key")
	require.Len(t, gotBody.Contents, 1)
	assert.Equal(t, "I sneeze", gotBody.Contents[0].Parts[0].Text)
	require.NotNil(t, gotBody.SystemInstruction)
	assert.Equal(t, "be a doctor", gotBody.SystemInstruction.Parts[0].Text)
}

func TestGenerateMissingKey(t *testing.T) {
	client := NewGeminiClient(config.AdvisoryConfig{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := client.Generate(context.Background(), "sys", "user")
	assert.Error(t, err)
}

func TestGenerateAPIError(t *testing.T) {
	client := testGeminiClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 400, "message": "invalid key", "status": "INVALID_ARGUMENT"},
		})
	})

	_, err := client.Generate(context.Background(), "sys", "user")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid key")
}

func TestGenerateEmptyCandidates(t *testing.T) {
	client := testGeminiClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	})

	_, err := client.Generate(context.Background(), "sys", "user")
	assert.Error(t, err)
}
