package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Message is one turn of a chat-completions conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Config holds the settings for an OpenAI-compatible chat-completions API.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
}

// GenerationError is the single failure type the rest of the system sees for
// the text-generation service: network errors, non-2xx responses, and empty
// completions all land here with the underlying detail attached.
type GenerationError struct {
	Detail string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation failed: %s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("generation failed: %s", e.Detail)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Client calls a hosted text-generation service. It is the only component
// that inspects the upstream response shape; callers get a string or a
// *GenerationError, never a half-parsed payload.
type Client struct {
	httpClient *http.Client
	cfg        Config
}

func NewClient(cfg Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 90 * time.Second},
		cfg:        cfg,
	}
}

// Configured reports whether an API key is present. The HTTP layer checks
// this up front so an unconfigured server fails before any retrieval work.
func (c *Client) Configured() bool {
	return c.cfg.APIKey != ""
}

// Generate sends a single assembled prompt and returns the completion.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	return c.Complete(ctx, []Message{{Role: "user", Content: prompt}})
}

// Complete sends a full message history and returns the completion.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	reqBody := map[string]interface{}{
		"model":    c.cfg.Model,
		"messages": messages,
		"stream":   false,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", &GenerationError{Detail: "marshal request", Err: err}
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", &GenerationError{Detail: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &GenerationError{Detail: "request failed", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &GenerationError{Detail: "read response", Err: err}
	}

	out := resolve(resp.StatusCode, raw)
	switch out.kind {
	case outcomeSuccess:
		return out.text, nil
	case outcomeEmpty:
		return "", &GenerationError{Detail: "empty completion"}
	default:
		return "", &GenerationError{Detail: out.detail}
	}
}

type outcomeKind int

const (
	outcomeSuccess outcomeKind = iota
	outcomeEmpty
	outcomeError
)

// outcome is the upstream response resolved into exactly one of three shapes.
// Downstream code never re-inspects loosely-typed response fields.
type outcome struct {
	kind   outcomeKind
	text   string
	detail string
}

func resolve(statusCode int, raw []byte) outcome {
	if statusCode >= 300 {
		return outcome{kind: outcomeError, detail: fmt.Sprintf("status %d: %s", statusCode, string(raw))}
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return outcome{kind: outcomeError, detail: fmt.Sprintf("parse response: %v", err)}
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return outcome{kind: outcomeEmpty}
	}
	return outcome{kind: outcomeSuccess, text: parsed.Choices[0].Message.Content}
}
