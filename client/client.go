package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// DefaultTimeout bounds every backend round trip. The backend has no
// server-side deadline of its own, so without this a hung call would leave a
// form submitting forever.
const DefaultTimeout = 30 * time.Second

const maxResponseBody = 256 * 1024

// Cookie names carrying the two correlated session credential fields.
const (
	SessionTokenCookie = "session-token"
	SessionUUIDCookie  = "session-uuid"
)

// Credentials is the two-part session credential forwarded on every
// authenticated call. Both fields are required; a partial pair is never
// constructed (see panel.GetSession).
type Credentials struct {
	Token  string
	UserID string
}

// Logger is the minimal logging surface the client needs.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Client talks to the Beacon backend REST surface. All methods are safe for
// concurrent use; the zero value is not usable, construct with New.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     Logger
}

type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets the logger used for debug output and contract faults.
func WithLogger(l Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: defLogger{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// response captures what endpoint methods need to map statuses themselves.
type response struct {
	Status  int
	Body    []byte
	Cookies []*http.Cookie
}

func (r *response) decode(out any) error {
	if out == nil || len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, out); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to parse backend response").
			WithTextCode(TextCodeUnexpected)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, creds *Credentials, body any) (*response, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode request body")
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to build backend request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if creds != nil {
		req.AddCookie(&http.Cookie{Name: SessionTokenCookie, Value: creds.Token})
		req.AddCookie(&http.Cookie{Name: SessionUUIDCookie, Value: creds.UserID})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "backend request failed").
			WithTextCode(TextCodeUnexpected).
			WithMetadata(map[string]any{"method": method, "path": path})
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read backend response").
			WithTextCode(TextCodeUnexpected)
	}

	c.logger.Debug("backend call %s %s -> %d", method, path, resp.StatusCode)

	return &response{
		Status:  resp.StatusCode,
		Body:    respBody,
		Cookies: resp.Cookies(),
	}, nil
}

func (c *Client) get(ctx context.Context, path string, creds *Credentials) (*response, error) {
	return c.do(ctx, http.MethodGet, path, creds, nil)
}

func (c *Client) post(ctx context.Context, path string, creds *Credentials, body any) (*response, error) {
	return c.do(ctx, http.MethodPost, path, creds, body)
}

func (c *Client) put(ctx context.Context, path string, creds *Credentials, body any) (*response, error) {
	return c.do(ctx, http.MethodPut, path, creds, body)
}

func (c *Client) delete(ctx context.Context, path string, creds *Credentials) (*response, error) {
	return c.do(ctx, http.MethodDelete, path, creds, nil)
}

func ok(status int) bool {
	return status >= 200 && status < 300
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] CLIENT "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] CLIENT "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] CLIENT "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
