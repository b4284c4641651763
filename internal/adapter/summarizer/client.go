package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/quake-query-service/internal/observability"
)

// Client implements domain.Summarizer against the hosted summarization
// endpoint: POST {"prompt": ...} returning {"notes": ...}.
type Client struct {
	url        string
	apiKey     string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a summarization client. apiKey may be empty when the
// endpoint does not require authentication.
func NewClient(url, apiKey string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		url:    url,
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// Summarize submits the prompt and returns the returned notes verbatim. Any
// transport error, non-success status, or malformed body is an error; there
// is no retry.
func (c *Client) Summarize(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(request{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("encode prompt: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.UpstreamDuration.WithLabelValues("summarizer").Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("summarizer", "error").Inc()
		return "", fmt.Errorf("summarize request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.UpstreamRequests.WithLabelValues("summarizer", "error").Inc()
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("summarizer: status %d: %s", resp.StatusCode, body)
	}

	var r response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("summarizer", "error").Inc()
		return "", fmt.Errorf("decode response: %w", err)
	}

	c.metrics.UpstreamRequests.WithLabelValues("summarizer", "success").Inc()
	return r.Notes, nil
}

// Summarization endpoint wire types.

type request struct {
	Prompt string `json:"prompt"`
}

type response struct {
	Notes string `json:"notes"`
}
