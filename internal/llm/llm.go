// Package llm talks to an Ollama-compatible completion endpoint to score
// ingested content items.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Scores is the component triple the rating model returns per item.
// Each component is expected in [0, 10].
type Scores struct {
	Interest        int `json:"interest"`
	LocalRelevance  int `json:"local_relevance"`
	CommunityImpact int `json:"community_impact"`
}

// Client is a minimal Ollama-compatible LLM client.
type Client struct {
	url        string
	model      string
	hc         *http.Client
	maxRetries int
	backoff    time.Duration
	logger     *slog.Logger
}

// NewClient creates a new client. If httpClient is nil, a default with
// timeout is used.
func NewClient(url, model string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		url:        url,
		model:      model,
		hc:         httpClient,
		maxRetries: 3,
		backoff:    2 * time.Second,
		logger:     logger,
	}
}

// RateArticle asks the model for the three component scores of one item.
// Transport failures and 5xx responses are retried with linear backoff; a 4xx
// or an unparseable body is returned to the caller immediately.
func (c *Client) RateArticle(ctx context.Context, title, body string) (Scores, error) {
	// keep token cost bounded on very long bodies
	if len(body) > 30000 {
		body = body[:30000]
	}
	prompt := buildPrompt(title, body)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return Scores{}, ctx.Err()
			case <-time.After(time.Duration(attempt) * c.backoff):
			}
		}

		scores, retryable, err := c.rateOnce(ctx, prompt)
		if err == nil {
			return scores, nil
		}
		lastErr = err
		if !retryable {
			return Scores{}, err
		}
		c.logger.Warn("rating attempt failed", "attempt", attempt+1, "err", err)
	}
	return Scores{}, fmt.Errorf("rating failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

func (c *Client) rateOnce(ctx context.Context, prompt string) (Scores, bool, error) {
	reqBody := map[string]any{
		"model":  c.model,
		"prompt": prompt,
		"stream": false,
		"format": "json",
	}
	b, err := json.Marshal(reqBody)
	if err != nil {
		return Scores{}, false, fmt.Errorf("llm marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(b))
	if err != nil {
		return Scores{}, false, fmt.Errorf("llm new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		return Scores{}, true, fmt.Errorf("llm request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	c.logger.Debug("llm response", "status", resp.StatusCode, "latency", time.Since(start))

	if resp.StatusCode >= 500 {
		return Scores{}, true, fmt.Errorf("llm request failed: status=%d body=%s", resp.StatusCode, respBody)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Scores{}, false, fmt.Errorf("llm request failed: status=%d body=%s", resp.StatusCode, respBody)
	}

	scores, err := parseScores(respBody)
	if err != nil {
		return Scores{}, false, err
	}
	return scores, false, nil
}

// parseScores digs the score triple out of the completion response. Handles
// the common shapes: {"response": "<json>"} (Ollama), {"text": "<json>"},
// OpenAI-style choices, or the triple inline at the top level.
func parseScores(respBody []byte) (Scores, error) {
	text := string(respBody)

	var envelope map[string]any
	if err := json.Unmarshal(respBody, &envelope); err == nil {
		if v, ok := envelope["response"].(string); ok && v != "" {
			text = v
		} else if v, ok := envelope["text"].(string); ok && v != "" {
			text = v
		} else if choices, ok := envelope["choices"].([]any); ok && len(choices) > 0 {
			if first, ok := choices[0].(map[string]any); ok {
				if t, ok := first["text"].(string); ok && t != "" {
					text = t
				} else if msg, ok := first["message"].(map[string]any); ok {
					if content, ok := msg["content"].(string); ok && content != "" {
						text = content
					}
				}
			}
		}
	}

	// models sometimes wrap the JSON in prose; take the outermost object
	if i := strings.Index(text, "{"); i >= 0 {
		if j := strings.LastIndex(text, "}"); j > i {
			text = text[i : j+1]
		}
	}

	var s Scores
	if err := json.Unmarshal([]byte(text), &s); err != nil {
		return Scores{}, fmt.Errorf("llm scores unparseable: %w (body=%q)", err, text)
	}
	for _, v := range []int{s.Interest, s.LocalRelevance, s.CommunityImpact} {
		if v < 0 || v > 10 {
			return Scores{}, fmt.Errorf("llm score out of range: %+v", s)
		}
	}
	return s, nil
}

func buildPrompt(title, body string) string {
	return fmt.Sprintf(`Rate the following local news article for a community newsletter.
Respond with only a JSON object of integer scores from 0 to 10:
{"interest": n, "local_relevance": n, "community_impact": n}

Title: %s

Article: %s`, title, body)
}
