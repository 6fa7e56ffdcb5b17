package api

import (
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResponse(encoding string, body []byte) *http.Response {
	resp := &http.Response{
		StatusCode: http.StatusOK,
		Header:     make(http.Header),
		Body:       io.NopCloser(bytes.NewReader(body)),
	}
	if encoding != "" {
		resp.Header.Set("Content-Encoding", encoding)
	}
	return resp
}

func compressBrotli(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := brotli.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func compressGzip(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestReadBody(t *testing.T) {
	payload := []byte(`{"models":[{"id":"flux-2-pro"}]}`)

	tests := []struct {
		name     string
		encoding string
		body     []byte
	}{
		{"identity", "", payload},
		{"explicit identity", "identity", payload},
		{"brotli", "br", compressBrotli(t, payload)},
		{"gzip", "gzip", compressGzip(t, payload)},
		{"gzip uppercase", "GZIP", compressGzip(t, payload)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := readBody(newResponse(tt.encoding, tt.body))
			require.NoError(t, err)
			assert.Equal(t, payload, data)
		})
	}
}

func TestReadBody_EmptyCompressedBody(t *testing.T) {
	for _, enc := range []string{"br", "gzip"} {
		data, err := readBody(newResponse(enc, nil))
		require.NoError(t, err, enc)
		assert.Empty(t, data, enc)
	}
}

func TestReadBody_DecodeFailures(t *testing.T) {
	compressed := compressBrotli(t, bytes.Repeat([]byte(`{"id":"gen_1","imageUrl":"https://cdn.example.com/a.png"}`), 64))

	tests := []struct {
		name     string
		encoding string
		body     []byte
	}{
		{"unsupported", "zstd", []byte{0x28, 0xb5, 0x2f, 0xfd}},
		{"corrupt gzip", "gzip", []byte("definitely not gzip")},
		{"truncated brotli", "br", compressed[:len(compressed)/2]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readBody(newResponse(tt.encoding, tt.body))
			require.Error(t, err)

			var encErr *encodingError
			assert.True(t, errors.As(err, &encErr), "error %v should be an encodingError", err)
		})
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestReadBody_ReadFailureIsNotEncodingError(t *testing.T) {
	resp := &http.Response{Header: make(http.Header), Body: io.NopCloser(failingReader{})}

	_, err := readBody(resp)
	require.Error(t, err)

	var encErr *encodingError
	assert.False(t, errors.As(err, &encErr))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
