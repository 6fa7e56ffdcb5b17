package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/peercat/peercat-go/internal/apierrors"
)

// maxErrorMessageBytes bounds how much of a non-JSON error body becomes the message.
const maxErrorMessageBytes = 512

// Error types reported in the "type" field of an error body.
const (
	errorTypeAuthentication      = "authentication_error"
	errorTypeInvalidRequest      = "invalid_request_error"
	errorTypeInsufficientCredits = "insufficient_credits"
	errorTypeRateLimit           = "rate_limit_error"
	errorTypeNotFound            = "not_found"
)

// errorDetail is the body of an API error. The API wraps it as
// {"error": {...}}; some proxies send it unwrapped or as {"error": "text"}.
type errorDetail struct {
	Type       string   `json:"type"`
	Code       string   `json:"code"`
	Message    string   `json:"message"`
	Param      string   `json:"param"`
	RetryAfter *float64 `json:"retry_after"`
	RequestID  string   `json:"request_id"`
}

func parseErrorBody(body []byte) errorDetail {
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return errorDetail{}
	}

	raw := bytes.TrimSpace(envelope.Error)
	switch {
	case len(raw) > 0 && raw[0] == '{':
		var detail errorDetail
		if err := json.Unmarshal(raw, &detail); err == nil {
			return detail
		}
	case len(raw) > 0 && raw[0] == '"':
		var msg string
		if err := json.Unmarshal(raw, &msg); err == nil {
			detail := errorDetail{Message: msg}
			// {"error": "...", "message": "..."}: keep the longer text.
			var flat errorDetail
			if json.Unmarshal(body, &flat) == nil && flat.Message != "" {
				detail.Message = flat.Message
				detail.Code = msg
			}
			return detail
		}
	}

	var flat errorDetail
	if err := json.Unmarshal(body, &flat); err == nil {
		return flat
	}
	return errorDetail{}
}

// classifyStatus maps a non-2xx status and the error body type to a kind.
func classifyStatus(status int, errorType string) apierrors.Kind {
	switch {
	case status == http.StatusPaymentRequired || errorType == errorTypeInsufficientCredits:
		return apierrors.KindInsufficientCredits
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return apierrors.KindAuthentication
	case status == http.StatusTooManyRequests:
		return apierrors.KindRateLimit
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return apierrors.KindInvalidRequest
	case status == http.StatusNotFound:
		return apierrors.KindNotFound
	case status == http.StatusRequestTimeout:
		return apierrors.KindTimeout
	case status >= 500:
		return apierrors.KindServer
	}

	switch errorType {
	case errorTypeAuthentication:
		return apierrors.KindAuthentication
	case errorTypeInvalidRequest:
		return apierrors.KindInvalidRequest
	case errorTypeRateLimit:
		return apierrors.KindRateLimit
	case errorTypeNotFound:
		return apierrors.KindNotFound
	}
	return apierrors.KindUnknown
}

// classifyResponse builds the error for a non-2xx response.
func classifyResponse(resp *http.Response, body []byte, requestID string, now time.Time) *apierrors.Error {
	detail := parseErrorBody(body)

	e := &apierrors.Error{
		Kind:       classifyStatus(resp.StatusCode, detail.Type),
		StatusCode: resp.StatusCode,
		Code:       detail.Code,
		Message:    detail.Message,
		Param:      detail.Param,
		RateLimit:  parseRateLimitInfo(resp.Header),
		RequestID:  requestID,
	}
	if id := resp.Header.Get("X-Request-ID"); id != "" {
		e.RequestID = id
	} else if detail.RequestID != "" {
		e.RequestID = detail.RequestID
	}
	if e.Message == "" {
		e.Message = fallbackMessage(resp.StatusCode, body)
	}

	if e.Kind == apierrors.KindRateLimit {
		if d, ok := parseRetryAfter(resp.Header.Get("Retry-After"), now); ok {
			e.RetryAfter = &d
		} else if detail.RetryAfter != nil && *detail.RetryAfter >= 0 {
			d := secondsToDuration(*detail.RetryAfter)
			e.RetryAfter = &d
		}
	}
	return e
}

func fallbackMessage(status int, body []byte) string {
	text := strings.TrimSpace(string(body))
	if text == "" || text[0] == '{' || text[0] == '[' || !utf8.ValidString(text) {
		if s := http.StatusText(status); s != "" {
			return s
		}
		return "HTTP " + strconv.Itoa(status)
	}
	if len(text) > maxErrorMessageBytes {
		text = text[:maxErrorMessageBytes]
		for !utf8.ValidString(text) {
			text = text[:len(text)-1]
		}
	}
	return text
}

// classifyTransportError classifies a failure that produced no response.
func classifyTransportError(err error, requestID string) *apierrors.Error {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return &apierrors.Error{
			Kind:      apierrors.KindTimeout,
			Message:   "request timed out",
			RequestID: requestID,
			Cause:     err,
		}
	}
	return &apierrors.Error{
		Kind:      apierrors.KindTransport,
		Message:   err.Error(),
		RequestID: requestID,
		Cause:     err,
	}
}

// parseRetryAfter reads a Retry-After value given in seconds or as an HTTP date.
func parseRetryAfter(v string, now time.Time) (time.Duration, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		if secs < 0 || math.IsNaN(secs) || math.IsInf(secs, 0) {
			return 0, false
		}
		return secondsToDuration(secs), true
	}
	if t, err := http.ParseTime(v); err == nil {
		d := t.Sub(now)
		if d < 0 {
			d = 0
		}
		return d, true
	}
	return 0, false
}

func secondsToDuration(secs float64) time.Duration {
	if secs > math.MaxInt64/float64(time.Second) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(secs * float64(time.Second))
}

// parseRateLimitInfo reads the X-RateLimit-* headers. It returns nil when none are set.
func parseRateLimitInfo(h http.Header) *apierrors.RateLimitInfo {
	limit, hasLimit := headerInt(h, "X-RateLimit-Limit")
	remaining, hasRemaining := headerInt(h, "X-RateLimit-Remaining")
	reset, hasReset := headerInt(h, "X-RateLimit-Reset")
	if !hasLimit && !hasRemaining && !hasReset {
		return nil
	}

	info := &apierrors.RateLimitInfo{Limit: limit, Remaining: remaining}
	if hasReset {
		info.Reset = time.Unix(int64(reset), 0)
	}
	return info
}

func headerInt(h http.Header, key string) (int, bool) {
	v := strings.TrimSpace(h.Get(key))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
