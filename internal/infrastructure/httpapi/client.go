// Package httpapi implements the consumed portal REST API: a thin JSON
// transport plus typed clients for the auth endpoints and the six resource
// families. The backend itself is an external collaborator; everything here
// is request shaping, bearer attachment and error envelope decoding.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/campuslink/portal/internal/core/domain"
	"github.com/campuslink/portal/internal/core/ports"
	"github.com/campuslink/portal/internal/metrics"
)

const defaultTimeout = 15 * time.Second

// Client is the shared HTTP transport. Every request attaches
// "Authorization: Bearer <token>" when the token source holds one.
type Client struct {
	baseURL string
	hc      *http.Client
	tokens  ports.TokenSource
	log     zerolog.Logger
}

// NewClient builds a transport rooted at baseURL. A nil token source is
// valid and simply sends unauthenticated requests.
func NewClient(baseURL string, tokens ports.TokenSource, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log,
	}
}

// do performs one round trip. in (when non-nil) is JSON-encoded as the body;
// out (when non-nil) receives the decoded 2xx response body. Non-2xx
// responses become *domain.RequestError with the body's message field.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	endpoint := endpointFamily(path)
	start := time.Now()
	err := c.roundTrip(ctx, method, path, query, in, out)
	metrics.APIRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	metrics.APIRequestsTotal.WithLabelValues(endpoint, method, outcome(err)).Inc()
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Debug().Int("status", resp.StatusCode).Str("path", path).Msg("request rejected")
		return &domain.RequestError{StatusCode: resp.StatusCode, Message: serverMessage(raw)}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// serverMessage extracts the human-readable message from an error body. The
// portal backend uses "message"; "error" is accepted for compatibility.
func serverMessage(raw []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return ""
	}
	if envelope.Message != "" {
		return envelope.Message
	}
	return envelope.Error
}

// endpointFamily reduces a request path to its first segment for metric
// labels, keeping cardinality bounded.
func endpointFamily(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i > 0 {
		return trimmed[:i]
	}
	if trimmed == "" {
		return "root"
	}
	return trimmed
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case isRejected(err):
		return "rejected"
	default:
		return "transport_error"
	}
}

func isRejected(err error) bool {
	var re *domain.RequestError
	return errors.As(err, &re)
}
