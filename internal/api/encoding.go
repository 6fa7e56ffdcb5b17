package api

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
)

// acceptEncoding is advertised on every request. Setting it disables the
// transport's transparent gzip handling, so readBody decodes both.
const acceptEncoding = "br, gzip"

// readBody reads the full response body, undoing any Content-Encoding.
// Connection failures are returned as is; undecodable payloads as *encodingError.
func readBody(resp *http.Response) ([]byte, error) {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	encoding := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding")))
	if len(raw) == 0 {
		return raw, nil
	}
	return decodeContent(encoding, raw)
}

func decodeContent(encoding string, raw []byte) ([]byte, error) {
	var reader io.Reader
	switch encoding {
	case "", "identity":
		return raw, nil
	case "br":
		reader = brotli.NewReader(bytes.NewReader(raw))
	case "gzip":
		gz, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, &encodingError{Err: fmt.Errorf("gzip decode: %w", err)}
		}
		defer gz.Close()
		reader = gz
	default:
		return nil, &encodingError{Err: fmt.Errorf("unsupported content encoding %q", encoding)}
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, &encodingError{Err: fmt.Errorf("%s decode: %w", encoding, err)}
	}
	return data, nil
}

// encodingError reports a body the client cannot decode, as opposed to a
// connection that failed while the body was being read.
type encodingError struct {
	Err error
}

func (e *encodingError) Error() string {
	return e.Err.Error()
}

func (e *encodingError) Unwrap() error {
	return e.Err
}
