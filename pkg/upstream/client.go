package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"nimproxy/pkg/telemetry/tracing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultTimeout is the fixed per-call timeout for upstream requests.
	DefaultTimeout = 60 * time.Second

	// DefaultBaseURL is the public NVIDIA NIM endpoint.
	DefaultBaseURL = "https://integrate.api.nvidia.com/v1"

	// ChatCompletionsPath is appended to the base URL for chat requests.
	ChatCompletionsPath = "/chat/completions"

	// ModelsPath is appended to the base URL for model listing.
	ModelsPath = "/models"

	defaultContentType = "application/json"
)

// Endpoint supplies the upstream base URL. It is consulted on every call so
// that a reloaded configuration takes effect without recreating the client.
type Endpoint interface {
	BaseURL() string
}

// StaticEndpoint is an Endpoint with a fixed base URL.
type StaticEndpoint string

// BaseURL implements Endpoint.
func (e StaticEndpoint) BaseURL() string {
	return string(e)
}

// Config contains HTTP client settings.
type Config struct {
	// Timeout bounds each call end to end. Default: DefaultTimeout.
	Timeout time.Duration

	// MaxIdleConns is the maximum number of idle connections.
	MaxIdleConns int

	// MaxIdleConnsPerHost is the maximum number of idle connections per host.
	MaxIdleConnsPerHost int

	// IdleConnTimeout is how long an idle connection is kept.
	IdleConnTimeout time.Duration

	// Transport overrides the HTTP transport (tests).
	Transport http.RoundTripper

	// Tracer creates the client span of each call. Default: the global
	// otel tracer provider.
	Tracer trace.Tracer
}

// Response is a successful upstream response.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Client sends requests to the upstream API.
type Client struct {
	endpoint Endpoint
	client   *http.Client
	timeout  time.Duration
	tracer   trace.Tracer
}

// NewClient creates a client for the given endpoint.
func NewClient(cfg Config, endpoint Endpoint) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := cfg.Transport
	if transport == nil {
		transport = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        cfg.MaxIdleConns,
			MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
			IdleConnTimeout:     cfg.IdleConnTimeout,
			ForceAttemptHTTP2:   true,
		}
	}

	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracing.InstrumentationName)
	}

	return &Client{
		endpoint: endpoint,
		tracer:   tracer,
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		timeout: timeout,
	}
}

// BaseURL returns the currently configured base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return strings.TrimRight(c.endpoint.BaseURL(), "/")
}

// ChatCompletions posts payload to {base_url}/chat/completions.
func (c *Client) ChatCompletions(ctx context.Context, apiKey string, payload interface{}) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPost, ChatCompletionsPath, apiKey, body)
}

// ListModels gets {base_url}/models.
func (c *Client) ListModels(ctx context.Context, apiKey string) (*Response, error) {
	return c.do(ctx, http.MethodGet, ModelsPath, apiKey, nil)
}

// do performs a single request inside a client span. There is no retry.
func (c *Client) do(ctx context.Context, method, path, apiKey string, body []byte) (*Response, error) {
	url := c.BaseURL() + path

	ctx, span := c.tracer.Start(ctx, "upstream "+method+" "+path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(tracing.AttrHTTPMethod, method),
			attribute.String(tracing.AttrURLFull, url),
			attribute.String(tracing.AttrUpstreamEndpoint, path),
		),
	)
	defer span.End()

	resp, err := c.send(ctx, method, url, path, apiKey, body)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			tracing.SetHTTPStatus(span, statusErr.StatusCode)
			tracing.SetErrorType(span, "status")
		} else {
			tracing.SetError(span, err)
		}
		return nil, err
	}
	tracing.SetHTTPStatus(span, resp.StatusCode)
	return resp, nil
}

// send issues the HTTP request and classifies the outcome.
func (c *Client) send(ctx context.Context, method, url, path, apiKey string, body []byte) (*Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, &TransportError{Endpoint: path, Cause: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", defaultContentType)
	req.Header.Set("Accept", defaultContentType)
	tracing.Inject(ctx, req.Header)

	slog.DebugContext(ctx, "sending request to upstream",
		"method", method,
		"url", url,
	)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Endpoint: path, Cause: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Endpoint: path, Cause: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{
			Endpoint:   path,
			StatusCode: resp.StatusCode,
			Body:       respBody,
		}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultContentType
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Body:        respBody,
	}, nil
}

// Timeout returns the per-call timeout in effect.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.client.CloseIdleConnections()
	return nil
}
