package transport

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSSEReader(t *testing.T) {
	body := strings.Join([]string{
		`data: {"text":"hello"}`,
		``,
		`: comment line`,
		`data: {"text":"world"}`,
		``,
		`data: [DONE]`,
		``,
	}, "\n")

	resp := &http.Response{Body: io.NopCloser(strings.NewReader(body))}
	reader := NewSSEReader(resp)
	defer reader.Close()

	event, err := reader.ReadEvent()
	require.NoError(t, err)
	assert.Equal(t, `{"text":"hello"}`, event)

	event, err = reader.ReadEvent()
	require.NoError(t, err)
	assert.Equal(t, `{"text":"world"}`, event)

	_, err = reader.ReadEvent()
	assert.Equal(t, io.EOF, err)
}

func TestSSEReaderEmptyStream(t *testing.T) {
	resp := &http.Response{Body: io.NopCloser(strings.NewReader(""))}
	reader := NewSSEReader(resp)

	_, err := reader.ReadEvent()
	assert.Equal(t, io.EOF, err)
}
