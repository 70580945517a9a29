package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ndewijer/Portfolio-Dashboard/internal/apperrors"
)

// maxErrorBody bounds how much of a failed response body is kept as its message.
const maxErrorBody = 4 << 10

// TokenSource provides the bearer token of the current session.
// An empty token sends the request unauthenticated.
type TokenSource interface {
	Token() string
}

// Client provides methods for calling the trading backend.
// It wraps an HTTP client, the backend base URL and the session token source.
// The client never retries; callers decide how failures degrade.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenSource
}

// NewClient creates a backend client.
//
// Parameters:
//   - baseURL: Backend API root, e.g. "http://localhost:8080/api"
//   - tokens: Source of the bearer token, usually the session manager
//   - httpClient: HTTP client to use; nil selects a client with the transport defaults
//
// Returns:
//   - *Client: A new client instance ready for use
func NewClient(baseURL string, tokens TokenSource, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
	}
}

type requestIDKey struct{}

// WithRequestID returns a context whose backend calls carry id as X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request ID stored in ctx, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// do is an internal helper that executes a request against the backend.
// It handles JSON encoding of the body, authentication headers, error classification
// and decoding of the response.
//
// Parameters:
//   - ctx: Request context; cancellation aborts the request
//   - method: HTTP method
//   - path: Path below the base URL, with segments already escaped
//   - query: Optional query parameters
//   - body: Optional request payload, encoded as JSON
//   - out: Optional destination for the decoded JSON response
//
// Returns:
//   - error: wrapping apperrors.ErrTransport when the backend could not be reached,
//     a *apperrors.StatusError for non-2xx responses, or a decoding error
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	addr := c.baseURL + path
	if len(query) > 0 {
		addr += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s %s payload: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, addr, reader)
	if err != nil {
		return fmt.Errorf("failed to build %s %s request: %w", method, path, err)
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
	if id := RequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", apperrors.ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &apperrors.StatusError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
			Body:       strings.TrimSpace(string(data)),
		}
	}

	if out == nil {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading %s %s: %v", apperrors.ErrTransport, method, path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

// segment escapes a single path segment such as a symbol.
func segment(s string) string {
	return url.PathEscape(s)
}
