package plan

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geminiSuccessBody(t *testing.T, text string) string {
	t.Helper()
	textJson, err := json.Marshal(text)
	require.NoError(t, err)
	return fmt.Sprintf(
		`{"candidates":[{"content":{"role":"model","parts":[{"text":%s}]}}]}`,
		textJson,
	)
}

func TestGeminiClient_GenerateText(t *testing.T) {
	var requests int32
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)

		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/gemini-2.0-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-api-key", r.URL.Query().Get("key"))

		var genReq geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&genReq))
		require.Len(t, genReq.Contents, 1)
		assert.Equal(t, "user", genReq.Contents[0].Role)
		require.Len(t, genReq.Contents[0].Parts, 1)
		assert.Equal(t, "design me a workout", genReq.Contents[0].Parts[0].Text)

		fmt.Fprint(w, geminiSuccessBody(t, "## Warm-up\neasy jog"))
	}))
	defer testServer.Close()

	client := NewGeminiClient(testServer.URL, "", "test-api-key", testServer.Client())

	generated, err := client.GenerateText(context.Background(), "design me a workout")
	require.NoError(t, err)
	assert.Equal(t, "## Warm-up\neasy jog", generated)

	// same prompt again comes from the cache
	generated, err = client.GenerateText(context.Background(), "design me a workout")
	require.NoError(t, err)
	assert.Equal(t, "## Warm-up\neasy jog", generated)
	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))

	// a different prompt does not
	_, err = client.GenerateText(context.Background(), "something else entirely")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests))
}

func TestGeminiClient_apiError(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer testServer.Close()

	client := NewGeminiClient(testServer.URL, "", "test-api-key", testServer.Client())

	_, err := client.GenerateText(context.Background(), "design me a workout")
	require.ErrorIs(t, err, ErrGenerationFailed)
	assert.Contains(t, err.Error(), "status 429")
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestGeminiClient_malformedResponse(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{name: "not json", body: "surprise, plain text"},
		{name: "no candidates", body: `{"candidates": []}`},
		{name: "no parts", body: `{"candidates": [{"content": {"role": "model", "parts": []}}]}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tc.body)
			}))
			defer testServer.Close()

			client := NewGeminiClient(testServer.URL, "", "test-api-key", testServer.Client())
			_, err := client.GenerateText(context.Background(), "design me a workout")
			assert.ErrorIs(t, err, ErrGenerationFailed)
		})
	}
}

func TestGeminiClient_defaults(t *testing.T) {
	client := NewGeminiClient("", "", "test-api-key", http.DefaultClient)
	assert.Equal(t, DefaultGeminiBaseURL, client.baseURL)
	assert.Equal(t, DefaultGeminiModel, client.model)
}
