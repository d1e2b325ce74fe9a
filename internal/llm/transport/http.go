package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"agentsuite/internal/llm/shared"
)

// HTTPClient provides a tuned HTTP client for LLM provider requests
type HTTPClient struct {
	client *http.Client
	opts   shared.ClientOptions
}

// NewHTTPClient creates a new HTTP client with the specified options
func NewHTTPClient(opts shared.ClientOptions) *HTTPClient {
	if opts.Timeout == 0 {
		opts.Timeout = 120 * time.Second
	}
	if opts.RetryMax == 0 {
		opts.RetryMax = 3
	}
	if opts.RetryBackoff == 0 {
		opts.RetryBackoff = time.Second
	}
	if opts.MaxIdleConns == 0 {
		opts.MaxIdleConns = 10
	}
	if opts.IdleConnTTL == 0 {
		opts.IdleConnTTL = 90 * time.Second
	}

	transport := &http.Transport{
		MaxIdleConns:        opts.MaxIdleConns,
		MaxIdleConnsPerHost: opts.MaxIdleConns,
		IdleConnTimeout:     opts.IdleConnTTL,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}

	return &HTTPClient{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		opts: opts,
	}
}

// PostJSON performs a POST with a JSON body, retrying on 429 and 5xx.
// The body is marshaled once and a fresh request is built per attempt.
func (c *HTTPClient) PostJSON(ctx context.Context, url string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.opts.RetryMax; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.opts.RetryBackoff * time.Duration(attempt)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		c.setHeaders(req)

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			msg := readErrorBody(resp)
			lastErr = &shared.ProviderError{
				Code:       codeForStatus(resp.StatusCode),
				Message:    msg,
				HTTPStatus: resp.StatusCode,
			}
			continue
		}

		return resp, nil
	}

	if lastErr == nil {
		lastErr = &shared.ProviderError{
			Code:    shared.ErrUnavailable,
			Message: "request failed after retries",
		}
	}

	return nil, lastErr
}

func (c *HTTPClient) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", "agentsuite/1.0")
	}
	for key, value := range c.opts.Headers {
		req.Header.Set(key, value)
	}
}

func codeForStatus(status int) shared.ErrorCode {
	switch {
	case status == http.StatusTooManyRequests:
		return shared.ErrRateLimited
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return shared.ErrAuth
	case status == http.StatusNotFound:
		return shared.ErrModelNotFound
	case status >= 500:
		return shared.ErrUnavailable
	default:
		return shared.ErrUnknown
	}
}

// readErrorBody drains up to 4KB of an error response for diagnostics
// and closes the body.
func readErrorBody(resp *http.Response) string {
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(data) == 0 {
		return fmt.Sprintf("provider returned status %d", resp.StatusCode)
	}
	return string(data)
}

// CheckResponse converts a non-2xx response into a ProviderError.
func CheckResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return &shared.ProviderError{
		Code:       codeForStatus(resp.StatusCode),
		Message:    readErrorBody(resp),
		HTTPStatus: resp.StatusCode,
	}
}
