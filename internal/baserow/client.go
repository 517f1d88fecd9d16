package baserow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Guizzs26/go-sync-baserow/internal/models"
	"github.com/bytedance/sonic"
	"github.com/valyala/fasthttp"
)

const maxErrorBody = 512

// Client implements the table service over the Baserow REST API
type Client struct {
	baseURL string
	token   string
	timeout time.Duration
	client  *fasthttp.Client
	logger  *slog.Logger

	mu     sync.Mutex
	fields map[int][]fieldDTO
}

type Option func(*Client)

// WithDial replaces the TCP dialer, mostly for in-memory test servers
func WithDial(dial fasthttp.DialFunc) Option {
	return func(c *Client) {
		c.client.Dial = dial
	}
}

// NewClient validates the credentials and prepares the HTTP client.
// No request is sent until the first call.
func NewClient(baseURL, token string, timeout time.Duration, logger *slog.Logger, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, &models.ConfigError{Field: "BaserowURL", Reason: "is empty"}
	}
	if u, err := url.Parse(baseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, &models.ConfigError{Field: "BaserowURL", Reason: "is not an absolute URL"}
	}
	if strings.TrimSpace(token) == "" {
		return nil, &models.ConfigError{Field: "BaserowAPIKey", Reason: "is empty"}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		baseURL: baseURL,
		token:   token,
		timeout: timeout,
		client: &fasthttp.Client{
			ReadTimeout:              timeout,
			WriteTimeout:             timeout,
			NoDefaultUserAgentHeader: true,
			Dial: (&fasthttp.TCPDialer{
				Concurrency: 64,
			}).Dial,
		},
		logger: logger.With("context", "baserow"),
		fields: make(map[int][]fieldDTO),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// do sends one request and decodes the JSON response into out (if not nil).
// Transport failures, 5xx and 429 are transient; other non-2xx are final.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)

	uri := c.baseURL + path
	if len(query) > 0 {
		uri += "?" + query.Encode()
	}
	req.SetRequestURI(uri)
	req.Header.SetMethod(method)
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Accept", "application/json")

	if body != nil {
		data, err := sonic.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: failed to serialize body: %w", op, err)
		}
		req.Header.SetContentType("application/json")
		req.SetBody(data)
	}

	res := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(res)

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	c.logger.Debug("request", "op", op, "method", method, "path", path, "bodysize", len(req.Body()))

	if err := c.client.DoDeadline(req, res, deadline); err != nil {
		return &models.TransientServiceError{Op: op, Err: err}
	}

	status := res.StatusCode()
	c.logger.Debug("response", "op", op, "status", status)

	switch {
	case status >= 500 || status == fasthttp.StatusTooManyRequests:
		return &models.TransientServiceError{Op: op, StatusCode: status, Err: errors.New(snippet(res.Body()))}
	case status > 299:
		return &models.ServiceError{Op: op, StatusCode: status, Body: snippet(res.Body())}
	}

	if out == nil {
		return nil
	}
	if err := sonic.Unmarshal(res.Body(), out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", op, err)
	}
	return nil
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > maxErrorBody {
		return s[:maxErrorBody] + "..."
	}
	return s
}
