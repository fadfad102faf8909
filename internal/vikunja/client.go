// Package vikunja is the client for the remote task service.
package vikunja

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/existflow/quickadd/internal/logger"
	"golang.org/x/oauth2"
)

// DefaultTimeout applies when no timeout option is given
const DefaultTimeout = 30 * time.Second

// StateWriter persists project metadata for other surfaces
type StateWriter interface {
	SaveProjectMetadata(ctx context.Context, favorites, recents []int64) error
}

// Client talks to the remote task service with a static bearer token
type Client struct {
	baseURL    string
	httpClient *http.Client
	state      StateWriter
}

// Option configures a Client
type Option func(*clientOptions)

type clientOptions struct {
	timeout time.Duration
	base    *http.Client
	state   StateWriter
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) { o.timeout = d }
}

// WithHTTPClient sets the underlying transport client
func WithHTTPClient(hc *http.Client) Option {
	return func(o *clientOptions) { o.base = hc }
}

// WithStateWriter persists favorites and recents after each project listing
func WithStateWriter(w StateWriter) Option {
	return func(o *clientOptions) { o.state = w }
}

// NewClient creates a client. serverURL must already be normalized (no
// trailing slash).
func NewClient(serverURL, token string, opts ...Option) (*Client, error) {
	serverURL = strings.TrimSpace(serverURL)
	token = strings.TrimSpace(token)
	if serverURL == "" || token == "" {
		return nil, ErrMissingCredentials
	}

	o := clientOptions{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	base := o.base
	if base == nil {
		base = &http.Client{}
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	hc := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	hc.Timeout = o.timeout

	return &Client{
		baseURL:    serverURL,
		httpClient: hc,
		state:      o.state,
	}, nil
}

// BaseURL returns the server URL the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do sends a JSON request and decodes a 2xx response into out (if non-nil)
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger.Debug("HTTP Request",
		logger.F("op", op),
		logger.F("method", method),
		logger.F("url", url))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%s: %w", op, ctx.Err())
		}
		logger.Error("HTTP request failed", logger.Err(err), logger.F("url", url))
		return fmt.Errorf("%s: %w: %w", op, ErrUnreachable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrUnreachable, err)
	}

	logger.Debug("HTTP Response",
		logger.F("op", op),
		logger.F("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		rf := &RequestFailedError{
			Op:      op,
			Status:  resp.StatusCode,
			Message: errorMessage(resp.StatusCode, respBody),
		}
		logger.Warn("Request rejected",
			logger.F("op", op),
			logger.F("status", rf.Status),
			logger.F("message", rf.Message))
		return rf
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		if errors.Is(err, ErrMalformedResponse) {
			return fmt.Errorf("%s: %w", op, err)
		}
		return fmt.Errorf("%s: %w: %w", op, ErrMalformedResponse, err)
	}
	return nil
}
