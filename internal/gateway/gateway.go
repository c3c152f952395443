package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// DefaultTimeout bounds every request issued by a Client.
const DefaultTimeout = 10 * time.Second

// Endpoints holds the base URLs of the remote API. Fallback may be empty.
type Endpoints struct {
	Primary  string
	Fallback string
}

// Request describes one call relative to the base URL.
// Path must already be escaped.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   interface{}
}

// Response is the raw result of a successful attempt.
type Response struct {
	Status int
	Body   []byte
}

// Client talks to the remote API. It is safe for concurrent use.
type Client struct {
	endpoints  Endpoints
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying transport client. Its Timeout is
// overridden by the client timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request upper bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger used for request and failure logging.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client for the given endpoints.
func New(endpoints Endpoints, opts ...Option) *Client {
	c := &Client{
		endpoints: endpoints,
		timeout:   DefaultTimeout,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	hc := http.Client{}
	if c.httpClient != nil {
		hc = *c.httpClient
	}
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	}
	c.httpClient = &hc
	return c
}

// Do issues the request against the primary endpoint. When that attempt fails
// and a distinct fallback endpoint is configured, the request is re-issued once
// against the fallback. Transport errors fall back for every method; a 5xx
// response only for GET and HEAD, since the primary may have applied a write
// before failing.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	var payload []byte
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("gateway: encode %s %s: %w", req.Method, req.Path, err)
		}
		payload = b
	}

	requestID := requestIDFrom(ctx)

	resp, err := c.attempt(ctx, c.endpoints.Primary, req, payload, requestID)
	if err == nil || !c.shouldFallback(ctx, req.Method, err) {
		return resp, err
	}

	c.logger.Warn("primary API failed, trying fallback",
		"method", req.Method,
		"path", req.Path,
		"fallback", c.endpoints.Fallback,
		"request_id", requestID,
		"error", err,
	)
	return c.attempt(ctx, c.endpoints.Fallback, req, payload, requestID)
}

func (c *Client) shouldFallback(ctx context.Context, method string, err error) bool {
	if c.endpoints.Fallback == "" || c.endpoints.Fallback == c.endpoints.Primary {
		return false
	}
	if ctx.Err() != nil {
		return false
	}
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return serverErr.Status >= http.StatusInternalServerError && safeMethod(method)
	}
	return errors.Is(err, ErrTransport)
}

func safeMethod(method string) bool {
	return method == "" || method == http.MethodGet || method == http.MethodHead
}

func (c *Client) attempt(ctx context.Context, base string, req Request, payload []byte, requestID string) (*Response, error) {
	target := resolve(base, req.Path, req.Query)

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("gateway: build %s %s: %w", req.Method, target, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)

	c.logger.Debug("api request", "method", req.Method, "url", target, "request_id", requestID)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		terr := &TransportError{Method: req.Method, URL: target, Err: err}
		c.logger.Error("api transport error",
			"method", req.Method, "url", target, "request_id", requestID, "timeout", terr.Timeout(), "error", err)
		return nil, terr
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		terr := &TransportError{Method: req.Method, URL: target, Err: err}
		c.logger.Error("api read error", "method", req.Method, "url", target, "request_id", requestID, "error", err)
		return nil, terr
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		serverErr := newServerError(httpResp.StatusCode, data)
		c.logger.Error("api error",
			"method", req.Method,
			"url", target,
			"status", httpResp.StatusCode,
			"message", serverErr.Message,
			"request_id", requestID,
		)
		return nil, serverErr
	}

	return &Response{Status: httpResp.StatusCode, Body: data}, nil
}

func resolve(base, path string, query url.Values) string {
	target := strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	return target
}

// requestIDFrom reuses the inbound chi request id so console and API logs
// correlate; calls made outside a request get a fresh UUID.
func requestIDFrom(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}
