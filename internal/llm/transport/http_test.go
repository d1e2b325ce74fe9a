package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"agentsuite/internal/llm/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostJSONRetriesServerErrors(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewHTTPClient(shared.ClientOptions{
		RetryMax:     3,
		RetryBackoff: time.Millisecond,
	})

	resp, err := client.PostJSON(context.Background(), server.URL, map[string]string{"k": "v"})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestPostJSONExhaustsRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewHTTPClient(shared.ClientOptions{
		RetryMax:     2,
		RetryBackoff: time.Millisecond,
	})

	_, err := client.PostJSON(context.Background(), server.URL, nil)
	require.Error(t, err)

	pe := shared.NormalizeError(err)
	assert.Equal(t, shared.ErrRateLimited, pe.Code)
	assert.Equal(t, http.StatusTooManyRequests, pe.HTTPStatus)
}

func TestPostJSONDoesNotRetryClientErrors(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewHTTPClient(shared.ClientOptions{
		RetryMax:     3,
		RetryBackoff: time.Millisecond,
	})

	resp, err := client.PostJSON(context.Background(), server.URL, nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	// 4xx other than 429 is returned to the caller for CheckResponse.
	assert.Equal(t, int32(1), attempts.Load())
	assert.Error(t, CheckResponse(resp))
}

func TestPostJSONSetsHeaders(t *testing.T) {
	var gotContentType, gotCustom string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotCustom = r.Header.Get("x-api-key")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewHTTPClient(shared.ClientOptions{
		Headers: map[string]string{"x-api-key": "secret"},
	})

	resp, err := client.PostJSON(context.Background(), server.URL, nil)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "secret", gotCustom)
}

func TestCheckResponseCodes(t *testing.T) {
	tests := []struct {
		status int
		code   shared.ErrorCode
	}{
		{http.StatusUnauthorized, shared.ErrAuth},
		{http.StatusForbidden, shared.ErrAuth},
		{http.StatusNotFound, shared.ErrModelNotFound},
		{http.StatusTooManyRequests, shared.ErrRateLimited},
		{http.StatusInternalServerError, shared.ErrUnavailable},
		{http.StatusBadRequest, shared.ErrUnknown},
	}

	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))

		resp, err := http.Get(server.URL)
		require.NoError(t, err)

		checkErr := CheckResponse(resp)
		require.Error(t, checkErr)
		pe := shared.NormalizeError(checkErr)
		assert.Equal(t, tt.code, pe.Code, "status %d", tt.status)

		server.Close()
	}
}

func TestLimiterAllow(t *testing.T) {
	limiter := NewLimiter(60, 2)

	assert.True(t, limiter.Allow())
	assert.True(t, limiter.Allow())
	// Burst exhausted, next token arrives in ~1s.
	assert.False(t, limiter.Allow())
}
