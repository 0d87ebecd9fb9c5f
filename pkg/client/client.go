// Package client provides the HTTP transport used by the crawler: a single
// JSON GET per call, with typed failures and no retries or caching.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for transport operations.
var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crawler_http_requests_total",
		Help: "Total HTTP requests by response status",
	}, []string{"status"})

	httpRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "crawler_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	httpErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crawler_http_errors_total",
		Help: "Total transport failures by class",
	}, []string{"class"})
)

const (
	// DefaultTimeout bounds a single request when Config.Timeout is zero.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent is sent when Config.UserAgent is empty.
	DefaultUserAgent = "confluence-crawler/0.1.0"

	// maxErrorBody caps how much of a failed response is kept for diagnostics.
	maxErrorBody = 64 << 10

	// unknownErrorBody replaces a failed response body that could not be read.
	unknownErrorBody = "Unknown error"
)

// Config holds the transport configuration.
type Config struct {
	// Timeout bounds each request, including reading the body.
	Timeout time.Duration

	// UserAgent header value.
	UserAgent string

	// Headers are added to every request. Content-Type and Accept are
	// always application/json and cannot be overridden here.
	Headers map[string]string

	// Transport replaces the default round tripper (tests, proxies).
	Transport http.RoundTripper

	// Logger overrides the component logger.
	Logger *zerolog.Logger
}

// DefaultConfig returns the default transport configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Client performs JSON GET requests. It is stateless across calls and safe
// to share between walks.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// New creates a new Client.
func New(cfg Config) (*Client, error) {
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("timeout must be >= 0 (got %s)", cfg.Timeout)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	logger := log.With().Str("component", "http-client").Logger()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		},
		config: cfg,
		logger: logger,
	}, nil
}

// GetJSON fetches url and decodes a 200 response body into target.
//
// Failures are returned as *TransportError, *HTTPError or *DecodeError.
func (c *Client) GetJSON(ctx context.Context, url string, target any) error {
	startTime := time.Now()
	defer func() {
		httpRequestDuration.Observe(time.Since(startTime).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return c.fail(&TransportError{URL: url, Err: fmt.Errorf("create request: %w", err)})
	}

	for key, value := range c.config.Headers {
		req.Header.Set(key, value)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)

	c.logger.Debug().Str("url", url).Msg("Executing request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		httpRequestsTotal.WithLabelValues("network_error").Inc()
		return c.fail(&TransportError{URL: url, Err: err})
	}
	defer resp.Body.Close()

	httpRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		return c.fail(&HTTPError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       readErrorBody(resp.Body),
		})
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		// A body cut off by the deadline is a transport failure, not a bad payload.
		if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
			return c.fail(&TransportError{URL: url, Err: err})
		}
		return c.fail(&DecodeError{URL: url, Err: err})
	}

	c.logger.Debug().
		Str("url", url).
		Dur("duration", time.Since(startTime)).
		Msg("Request complete")

	return nil
}

// Fetch is the typed form of GetJSON.
func Fetch[T any](ctx context.Context, c *Client, url string) (T, error) {
	var out T
	if err := c.GetJSON(ctx, url, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// fail records and logs err before returning it.
func (c *Client) fail(err error) error {
	class := Classify(err)
	httpErrorsTotal.WithLabelValues(string(class)).Inc()

	event := c.logger.Warn().Err(err).Str("error_class", string(class))
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		event = event.Int("status_code", httpErr.StatusCode)
	}
	event.Msg("Request failed")

	return err
}

// readErrorBody reads a bounded prefix of a failed response body.
func readErrorBody(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil {
		return unknownErrorBody
	}
	return string(body)
}
