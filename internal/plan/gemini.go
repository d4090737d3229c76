package plan

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/trisport/coachd/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

// ErrGenerationFailed marks a failed generation request: transport
// error, non-2xx status, or an empty/malformed model response. Callers
// surface the wrapped detail to the user and never retry automatically.
var ErrGenerationFailed = errors.New("workout generation request failed")

const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel   = "gemini-2.0-flash"

	geminiCacheExpireSeconds = 300
)

// GeminiClient calls the Gemini generateContent REST endpoint. Repeat
// generations with the same prompt are served from the in-memory cache.
type GeminiClient struct {
	cache      *freecache.Cache
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

func NewGeminiClient(baseURL, model, apiKey string, httpClient *http.Client) *GeminiClient {
	if baseURL == "" {
		baseURL = DefaultGeminiBaseURL
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiClient{
		cache:      freecache.NewCache(10 * 1024 * 1024),
		baseURL:    baseURL,
		model:      model,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// GenerateText sends the prompt as a single user turn and returns the
// text of the first candidate.
func (c *GeminiClient) GenerateText(ctx context.Context, prompt string) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "geminiClient.generateText")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	cacheKey := promptCacheKey(prompt)
	if cached, err := c.cache.Get(cacheKey); err == nil {
		log.Tracef("gemini client: cache hit for prompt of %d chars", len(prompt))
		return string(cached), nil
	}

	reqBytes, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: prompt}},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal generate content request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBytes))
	if err != nil {
		return "", fmt.Errorf("create generate content request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrGenerationFailed, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Errorf("gemini client: close response body: %s", err)
		}
	}()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %s", ErrGenerationFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d: %s", ErrGenerationFailed, resp.StatusCode, string(respBytes))
	}

	var genResp geminiResponse
	if err := json.Unmarshal(respBytes, &genResp); err != nil {
		return "", fmt.Errorf("%w: unmarshal response: %s", ErrGenerationFailed, err)
	}

	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: response was empty or malformed", ErrGenerationFailed)
	}

	text := genResp.Candidates[0].Content.Parts[0].Text
	if err := c.cache.Set(cacheKey, []byte(text), geminiCacheExpireSeconds); err != nil {
		log.Errorf("gemini client: cache generated plan: %s", err)
	}

	return text, nil
}

func promptCacheKey(prompt string) []byte {
	sum := sha256.Sum256([]byte(prompt))
	return sum[:]
}
