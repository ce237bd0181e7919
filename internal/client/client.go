// Package client holds the typed HTTP clients for the clinic API. Every call
// is a single request/response round trip: no retries, no batching, no
// client-side caching.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	apperrors "github.com/soulconnect/clinic-console/pkg/errors"
	"github.com/soulconnect/clinic-console/pkg/logger"
	"github.com/soulconnect/clinic-console/pkg/metrics"
)

const defaultTimeout = 15 * time.Second

// Client is the shared transport under the typed resource clients.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
	metrics    *metrics.Metrics
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout on the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithMetrics wires prometheus counters for every issued request.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithRateLimit throttles outgoing requests. Zero limit means unlimited.
func WithRateLimit(limit float64, burst int) Option {
	return func(c *Client) {
		if limit > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(limit), burst)
		}
	}
}

// New creates a client for the API at baseURL.
func New(baseURL string, log *logger.Logger, opts ...Option) *Client {
	if log == nil {
		log = logger.Nop()
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do issues one request and decodes the JSON response into out when non-nil.
// Non-2xx statuses are mapped into the application error taxonomy with the
// transport status preserved.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}, resource, operation string) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return apperrors.NewUnavailable(resource, err)
		}
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperrors.NewInternal(fmt.Errorf("marshal %s payload: %w", resource, err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return apperrors.NewInternal(fmt.Errorf("build %s request: %w", resource, err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(resource, operation, "error", start)
		c.logger.Error(err, "api request failed", "method", method, "path", path)
		return apperrors.NewUnavailable(resource, err)
	}
	defer resp.Body.Close()

	c.observe(resource, operation, strconv.Itoa(resp.StatusCode), start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused; the body text is not part
		// of the contract, callers branch on the taxonomy.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		c.logger.Debug("api request rejected", "method", method, "path", path, "status", resp.StatusCode)
		return apperrors.FromStatus(resource, resp.StatusCode,
			fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewInternal(fmt.Errorf("decode %s response: %w", resource, err))
	}
	return nil
}

func (c *Client) observe(resource, operation, status string, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.APIRequests.WithLabelValues(resource, operation, status).Inc()
	c.metrics.APILatency.WithLabelValues(resource, operation).Observe(time.Since(start).Seconds())
}
