package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/wsafety/desk/pkg/core/failure"
)

const (
	tracerName = "github.com/wsafety/desk/apiclient"

	// maxErrorBody caps how much of a failure response is read for its error text
	maxErrorBody = 64 << 10
)

var validate = validator.New()

// HTTPDoer is the minimal interface needed from an HTTP client
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client calls the W-Safety backend. It holds no workflow state.
type Client struct {
	verificationURL string
	dispatchURL     string
	httpClient      HTTPDoer
	tracer          trace.Tracer
	logger          *zap.Logger
}

// Option configures the Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (for testing)
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		if doer != nil {
			c.httpClient = doer
		}
	}
}

// WithDispatchBaseURL points the dispatch endpoints at a different backend
func WithDispatchBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.dispatchURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTracer sets the tracer used for request spans
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Client) {
		if tracer != nil {
			c.tracer = tracer
		}
	}
}

// New creates a client for the backend at baseURL. Requests run to
// completion: the client sets no timeout of its own.
func New(baseURL string, opts ...Option) *Client {
	base := strings.TrimRight(baseURL, "/")
	c := &Client{
		verificationURL: base,
		dispatchURL:     base,
		httpClient:      &http.Client{},
		tracer:          otel.Tracer(tracerName),
		logger:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the verification backend base URL
func (c *Client) BaseURL() string {
	return c.verificationURL
}

// DispatchBaseURL returns the dispatch backend base URL
func (c *Client) DispatchBaseURL() string {
	return c.dispatchURL
}

// errorResponse is the optional failure body returned by the backend
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// post sends body as JSON and decodes a 2xx response into out (which may be
// nil when the body is ignored). Every failure is a TransportError.
func (c *Client) post(ctx context.Context, spanName, baseURL, path string, body, out any) error {
	ctx, span := c.tracer.Start(ctx, spanName, trace.WithAttributes(
		attribute.String("http.method", http.MethodPost),
		attribute.String("url.path", path),
	))
	defer span.End()

	err := c.do(ctx, span, baseURL+path, body, out)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (c *Client) do(ctx context.Context, span trace.Span, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return failure.Transport(0, "", fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Sending request", zap.String("url", url))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("Request failed", zap.String("url", url), zap.Error(err))
		return failure.Transport(0, "", fmt.Errorf("failed to execute request: %w", err))
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	c.logger.Debug("Received response", zap.String("url", url), zap.Int("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failure.Transport(resp.StatusCode, readServerMessage(resp.Body), nil)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return failure.Transport(resp.StatusCode, "", fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

// readServerMessage extracts the human-readable error field, if any
func readServerMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}
	var body errorResponse
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Error != "" {
		return body.Error
	}
	return body.Message
}
