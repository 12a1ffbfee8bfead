// Package rest is a small JSON client for the Result Processing System API.
//
// Every endpoint answers with the same envelope:
//
//	{ "success": bool, "message": string, "data": ..., "total": int, ... }
//
// Non-2xx statuses, undecodable bodies and success=false all surface as
// *RequestError.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a single request when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// maxBody caps how much of a response body is read.
const maxBody = 4 << 20

// Client issues envelope-shaped JSON requests against a base URL.
type Client struct {
	base   *url.URL
	http   *http.Client
	tracer oteltrace.Tracer
	log    *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithTracer records one client span per request.
func WithTracer(t oteltrace.Tracer) Option {
	return func(c *Client) { c.tracer = t }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient returns a client rooted at baseURL (e.g. "http://host/api/v1").
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	c := &Client{
		base:   u,
		http:   &http.Client{Timeout: DefaultTimeout},
		tracer: noop.NewTracerProvider().Tracer(""),
		log:    zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Get issues GET base/path?query and decodes the envelope.
func (c *Client) Get(ctx context.Context, query url.Values, path ...string) (*Envelope, error) {
	return c.Do(ctx, http.MethodGet, query, nil, path...)
}

// Post issues POST base/path with a JSON body.
func (c *Client) Post(ctx context.Context, body any, path ...string) (*Envelope, error) {
	return c.Do(ctx, http.MethodPost, nil, body, path...)
}

// Patch issues PATCH base/path with a JSON body.
func (c *Client) Patch(ctx context.Context, body any, path ...string) (*Envelope, error) {
	return c.Do(ctx, http.MethodPatch, nil, body, path...)
}

// Delete issues DELETE base/path.
func (c *Client) Delete(ctx context.Context, path ...string) (*Envelope, error) {
	return c.Do(ctx, http.MethodDelete, nil, nil, path...)
}

// Do performs one request. Path elements are escaped and joined onto the
// base URL. A nil body sends no payload.
func (c *Client) Do(ctx context.Context, method string, query url.Values, body any, path ...string) (*Envelope, error) {
	u := c.base.JoinPath(path...)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	route := u.Path
	reqErr := func(status int, msg string, err error) *RequestError {
		return &RequestError{Method: method, Path: route, StatusCode: status, Message: msg, Err: err}
	}

	ctx, span := c.tracer.Start(ctx, method+" "+route, oteltrace.WithSpanKind(oteltrace.SpanKindClient))
	defer span.End()
	requestID := uuid.NewString()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.url", u.String()),
		attribute.String("rpsadmin.request_id", requestID),
	)

	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, reqErr(0, "", fmt.Errorf("encode body: %w", err))
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), payload)
	if err != nil {
		return nil, reqErr(0, "", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		c.log.Warn("request failed",
			zap.String("method", method), zap.String("path", route),
			zap.String("request_id", requestID), zap.Error(err))
		return nil, reqErr(0, "", err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		span.RecordError(err)
		return nil, reqErr(resp.StatusCode, "", fmt.Errorf("read body: %w", err))
	}

	env, decodeErr := decodeEnvelope(raw)
	c.log.Debug("request done",
		zap.String("method", method), zap.String("path", route),
		zap.Int("status", resp.StatusCode), zap.Duration("elapsed", time.Since(start)),
		zap.String("request_id", requestID))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := ""
		if env != nil {
			msg = env.Message
		}
		span.SetStatus(codes.Error, resp.Status)
		return nil, reqErr(resp.StatusCode, msg, fmt.Errorf("unexpected status %s", resp.Status))
	}
	if decodeErr != nil {
		span.SetStatus(codes.Error, "decode")
		return nil, reqErr(resp.StatusCode, "", decodeErr)
	}
	if !env.Success {
		span.SetStatus(codes.Error, "rejected")
		return nil, reqErr(resp.StatusCode, env.Message, ErrRejected)
	}
	return env, nil
}
