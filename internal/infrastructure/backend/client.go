// Package backend is the HTTP client of the laundry REST backend. Every call
// carries the session's bearer token when one exists, and a 401 on any call
// fires the session's unauthorized hook before the error is returned.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/rs/zerolog"

	"github.com/lavanda/laundry-dashboard/internal/core/domain"
	"github.com/lavanda/laundry-dashboard/internal/core/ports"
	"github.com/lavanda/laundry-dashboard/internal/pkg/metrics"
)

// maxErrorBody caps how much of an error response is kept for messages.
const maxErrorBody = 4 << 10

// Client talks to the backend. The zero value is not usable; call New.
type Client struct {
	baseURL        string
	http           *http.Client
	tokens         ports.TokenSource
	onUnauthorized ports.UnauthorizedFunc
	log            zerolog.Logger
}

// New returns an unbound client. timeout is the single outer deadline applied
// to every request; there are no retries.
func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	hc := cleanhttp.DefaultPooledClient()
	hc.Timeout = timeout
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		log:     log.With().Str("component", "backend").Logger(),
	}
}

// Bind returns a copy of c that reads its token from tokens and reports 401s
// to onUnauthorized. The pooled transport is shared.
func (c *Client) Bind(tokens ports.TokenSource, onUnauthorized ports.UnauthorizedFunc) ports.LaundryAPI {
	bound := *c
	bound.tokens = tokens
	bound.onUnauthorized = onUnauthorized
	return &bound
}

// Ping checks that the backend answers at all. Any HTTP status counts as up.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("backend ping: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend ping: %w", err)
	}
	resp.Body.Close()
	return nil
}

// call issues one request and decodes the JSON body loosely. endpoint is the
// path template used as the metrics label.
func (c *Client) call(ctx context.Context, method, endpoint, path string, query url.Values, body any) (any, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, endpoint, err)
		}
		reader = bytes.NewReader(raw)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.BackendRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		c.log.Error().Err(err).Str("method", method).Str("endpoint", endpoint).Msg("backend request failed")
		return nil, fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()
	metrics.BackendRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, c.failure(ctx, req, endpoint, resp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", method, endpoint, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	var out any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		// Malformed bodies degrade to an empty result instead of failing.
		c.log.Warn().Err(err).Str("endpoint", endpoint).Msg("backend returned non-JSON body")
		return nil, nil
	}
	return out, nil
}

func (c *Client) failure(ctx context.Context, req *http.Request, endpoint string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Method:     req.Method,
		Path:       req.URL.Path,
		Message:    errorMessage(raw),
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		c.log.Info().Str("endpoint", endpoint).Msg("backend answered 401")
		if c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
	case http.StatusForbidden, http.StatusNotFound:
		c.log.Warn().Str("endpoint", endpoint).Int("status", resp.StatusCode).Str("message", apiErr.Message).Msg("backend rejected request")
	default:
		c.log.Error().Str("endpoint", endpoint).Int("status", resp.StatusCode).Str("message", apiErr.Message).Msg("backend error")
	}
	return apiErr
}

func errorMessage(raw []byte) string {
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err == nil {
		for _, k := range []string{"message", "error", "msg"} {
			if s, ok := body[k].(string); ok && s != "" {
				return s
			}
		}
	}
	return strings.TrimSpace(string(raw))
}

// APIError is a non-2xx backend response.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend %s %s: status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("backend %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// Unwrap maps well-known statuses to domain errors.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	}
	return nil
}

// StatusCode returns the HTTP status of err when it is an APIError, else 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
