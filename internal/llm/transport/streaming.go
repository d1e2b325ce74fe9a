package transport

import (
	"bufio"
	"io"
	"net/http"
	"strings"
)

// SSEReader handles Server-Sent Events streaming responses
type SSEReader struct {
	scanner *bufio.Scanner
	body    io.Closer
}

// NewSSEReader creates a new SSE reader from an HTTP response
func NewSSEReader(resp *http.Response) *SSEReader {
	return &SSEReader{
		scanner: bufio.NewScanner(resp.Body),
		body:    resp.Body,
	}
}

// ReadEvent reads the next SSE data payload. io.EOF signals the end of
// the stream, including the "[DONE]" sentinel.
func (r *SSEReader) ReadEvent() (string, error) {
	for r.scanner.Scan() {
		line := r.scanner.Text()
		if strings.HasPrefix(line, "data: ") {
			data := strings.TrimPrefix(line, "data: ")
			if data == "[DONE]" {
				return "", io.EOF
			}
			return data, nil
		}
	}
	if err := r.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// Close closes the underlying response body
func (r *SSEReader) Close() error {
	return r.body.Close()
}
