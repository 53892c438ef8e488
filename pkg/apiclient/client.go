// Package apiclient is a typed Go client for the remedyhub REST API.
package apiclient

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
	"sync"
	"time"
	"unicode/utf8"

	"github.com/pscheid92/remedyhub/internal/platform/retry"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "remedyhub-apiclient/1"
	maxErrorBody     = 4 << 10
)

// CodeExternalAPI marks responses that did not carry the API envelope.
const CodeExternalAPI = "EXTERNAL_API_ERROR"

// Client talks to one remedyhub deployment. It is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	userAgent  string
	retry      retry.Policy

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithRetryPolicy controls how GET requests are retried on transport errors
// and 502/503/504 responses.
func WithRetryPolicy(p retry.Policy) Option {
	return func(c *Client) { c.retry = p }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: defaultTimeout},
		userAgent:  defaultUserAgent,
		retry: retry.Policy{
			MaxAttempts:     3,
			InitialBackoff:  200 * time.Millisecond,
			MaxBackoff:      2 * time.Second,
			OverloadBackoff: time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SetToken replaces the bearer token sent with every request.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// APIError is a failure envelope returned by the server.
type APIError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	StatusCode int            `json:"statusCode"`
	Details    map[string]any `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Code, e.StatusCode, e.Message)
}

// IsCode reports whether err is an APIError with the given code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

type envelope struct {
	Success  bool            `json:"success"`
	Data     json.RawMessage `json:"data"`
	Metadata json.RawMessage `json:"metadata"`
	Error    *APIError       `json:"error"`
}

// Request describes one API call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Response is a decoded success envelope.
type Response[T any] struct {
	Data     T
	Metadata json.RawMessage
}

// Do performs the request and decodes the envelope's data into T.
func Do[T any](ctx context.Context, c *Client, req Request) (*Response[T], error) {
	env, err := c.roundTrip(ctx, req)
	if err != nil {
		return nil, err
	}

	resp := &Response[T]{Metadata: env.Metadata}
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &resp.Data); err != nil {
			return nil, fmt.Errorf("failed to decode %s %s response: %w", req.Method, req.Path, err)
		}
	}
	return resp, nil
}

func (c *Client) roundTrip(ctx context.Context, req Request) (*envelope, error) {
	var payload []byte
	if req.Body != nil {
		var err error
		if payload, err = json.Marshal(req.Body); err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	if req.Method != http.MethodGet {
		return c.send(ctx, req, payload)
	}
	return retry.Do(ctx, c.retry, classify, func(ctx context.Context) (*envelope, error) {
		return c.send(ctx, req, payload)
	})
}

func (c *Client) send(ctx context.Context, req Request, payload []byte) (*envelope, error) {
	u := c.baseURL.JoinPath(req.Path)
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s %s response: %w", req.Method, req.Path, err)
	}
	return decodeEnvelope(resp.StatusCode, raw)
}

func decodeEnvelope(status int, raw []byte) (*envelope, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || (!env.Success && env.Error == nil) {
		return nil, &APIError{
			Code:       CodeExternalAPI,
			Message:    fmt.Sprintf("unexpected response: %s", truncate(raw)),
			StatusCode: status,
		}
	}
	if !env.Success {
		if env.Error.StatusCode == 0 {
			env.Error.StatusCode = status
		}
		return nil, env.Error
	}
	return &env, nil
}

// truncate caps a response body for error messages without splitting a rune.
func truncate(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if len(s) > maxErrorBody {
		cut := maxErrorBody
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		return s[:cut] + "..."
	}
	if s == "" {
		return "empty body"
	}
	return s
}

// classify retries transport failures and gateway errors; every other API
// error is final.
func classify(err error) retry.Action {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return retry.Stop
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return retry.Retry
	}
	switch apiErr.StatusCode {
	case http.StatusBadGateway, http.StatusGatewayTimeout:
		return retry.Retry
	case http.StatusServiceUnavailable:
		return retry.After
	default:
		return retry.Stop
	}
}
