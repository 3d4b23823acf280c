package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// RateLimitError is returned for 429 responses; RetryAfter carries the
// server's recommendation when one was given.
type RateLimitError struct {
	Code       string
	Message    string
	RetryAfter int64
}

func (e RateLimitError) Error() string {
	return fmt.Sprintf("rate limited: %s (code: %s)", e.Message, e.Code)
}

var ErrUnauthenticated = errors.New("unauthenticated")

type APIError struct {
	Code          string
	Message       string
	CorrelationID string
}

func (e APIError) Error() string {
	return fmt.Sprintf("api error: '%s' (code: %s, correlation: %s)", e.Message, e.Code, e.CorrelationID)
}

// envelope mirrors the server's response shape.
type envelope struct {
	Success       bool            `json:"success"`
	Message       string          `json:"message"`
	Code          string          `json:"code"`
	RetryAfter    int64           `json:"retryAfter"`
	Data          json.RawMessage `json:"data"`
	CorrelationID string          `json:"correlation_id"`
}

func (c *Client) post(ctx context.Context, path string, payload, result any) error {
	var body io.Reader
	if payload != nil {
		bodyBytes, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshaling payload: %w", err)
		}
		body = bytes.NewReader(bodyBytes)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, result)
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, result)
}

func (c *Client) do(req *http.Request, result any) error {
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("api error: unparsed '%s' (status %d)", string(raw), resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s (code: %s)", ErrUnauthenticated, env.Message, env.Code)
	case resp.StatusCode == http.StatusTooManyRequests:
		return RateLimitError{Code: env.Code, Message: env.Message, RetryAfter: env.RetryAfter}
	case resp.StatusCode >= 400:
		return APIError{Code: env.Code, Message: env.Message, CorrelationID: env.CorrelationID}
	}

	if result != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
