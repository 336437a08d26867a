package apiclient

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// Client is the shared transport for all remote API calls.
type Client struct {
	rest *resty.Client
	log  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for per-call debug records.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithTimeout caps the total duration of each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.rest.SetTimeout(d)
		}
	}
}

// New creates a Client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		rest: resty.New(),
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	c.rest.SetBaseURL(baseURL)
	c.rest.SetHeader("Content-Type", "application/json")

	c.rest.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		req.SetHeader(requestIDHeader, uuid.NewString())
		return nil
	})
	c.rest.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		c.log.Debug("api call completed",
			slog.String("method", resp.Request.Method),
			slog.String("url", resp.Request.URL),
			slog.Int("status", resp.StatusCode()),
			slog.Duration("duration", resp.Time()),
		)
		return nil
	})
	c.rest.OnError(func(req *resty.Request, err error) {
		c.log.Debug("api call failed",
			slog.String("method", req.Method),
			slog.String("url", req.URL),
			slog.Any("error", err),
		)
	})

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// R starts a request bound to ctx.
func (c *Client) R(ctx context.Context) *resty.Request {
	return c.rest.R().SetContext(ctx)
}
