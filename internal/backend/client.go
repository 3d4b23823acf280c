// Package backend is the HTTP client for the external compute service
// (AI chat and translation). The gate only needs a narrow contract: post a
// normalized payload for a kind, get a result or a classified failure.
// Retries, if any, belong to the caller.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/lumenlab/glossa/internal/metrics"
)

var (
	// ErrBackend is a failure of the underlying operation (non-2xx,
	// connection refused, bad response).
	ErrBackend = errors.New("backend request failed")

	// ErrTimeout is a deadline exceeded while waiting for the backend.
	// Distinct from ErrBackend so callers can report it separately; a
	// timed-out call never caches a partial result.
	ErrTimeout = errors.New("backend request timed out")
)

type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	recorder   metrics.Recorder
}

func NewClient(baseURL string, timeout time.Duration, recorder metrics.Recorder) *Client {
	if recorder == nil {
		recorder = metrics.Noop{}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		timeout:    timeout,
		httpClient: &http.Client{},
		recorder:   recorder,
	}
}

// Invoke posts payload to the backend route for kind and returns the raw
// response body. The caller-supplied context bounds the call; when it
// carries no deadline the client's default timeout applies.
func (c *Client) Invoke(ctx context.Context, kind string, payload any) ([]byte, error) {
	if _, ok := ctx.Deadline(); !ok && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+kind, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recorder.BackendCall(kind, time.Since(start), true)
		return nil, classify(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.recorder.BackendCall(kind, time.Since(start), true)
		return nil, classify(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.recorder.BackendCall(kind, time.Since(start), true)
		return nil, fmt.Errorf("%w: status %d: %s", ErrBackend, resp.StatusCode, truncate(raw, 256))
	}

	c.recorder.BackendCall(kind, time.Since(start), false)
	return raw, nil
}

func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return fmt.Errorf("%w: %s", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %s", ErrBackend, err)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
