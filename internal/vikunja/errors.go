package vikunja

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrMissingCredentials is returned when the server URL or token is empty
	ErrMissingCredentials = errors.New("server URL and API token are required")

	// ErrUnreachable wraps transport failures (DNS, refused connection, timeout)
	ErrUnreachable = errors.New("server unreachable")

	// ErrLabelsUnsupported is returned when the label endpoints answer 403 or 404
	ErrLabelsUnsupported = errors.New("labels not supported or not accessible")

	// ErrMalformedResponse is returned when a response body has an unexpected shape
	ErrMalformedResponse = errors.New("malformed response")
)

// RequestFailedError is a non-success HTTP response
type RequestFailedError struct {
	Op      string
	Status  int
	Message string
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is a RequestFailedError with one of the given
// statuses
func IsStatus(err error, statuses ...int) bool {
	var rf *RequestFailedError
	if !errors.As(err, &rf) {
		return false
	}
	for _, s := range statuses {
		if rf.Status == s {
			return true
		}
	}
	return false
}

// errorMessage extracts a human readable message from an error response.
// JSON bodies yield "message", then "error", then the body itself; anything
// else yields the raw text, or the status text when empty.
func errorMessage(status int, body []byte) string {
	trimmed := bytes.TrimSpace(body)

	var fields map[string]any
	if err := json.Unmarshal(trimmed, &fields); err == nil {
		for _, key := range []string{"message", "error"} {
			if s, ok := fields[key].(string); ok && s != "" {
				return s
			}
		}
		var compact bytes.Buffer
		if err := json.Compact(&compact, trimmed); err == nil {
			return compact.String()
		}
	}

	if text := strings.TrimSpace(string(trimmed)); text != "" {
		return text
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return "request failed"
}
