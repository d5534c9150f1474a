// Package client provides the outbound HTTP client used to fetch caller-supplied URLs.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"data-fetch-agent/internal/config"
	"data-fetch-agent/internal/metrics"
	"data-fetch-agent/internal/model"
)

// DefaultUserAgent is sent on every outbound request unless overridden in config.
const DefaultUserAgent = "Data-Fetch-Agent/1.0"

// Fetcher issues outbound GET requests.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// NewFetcher creates a Fetcher with a pooled transport.
// A zero outbound timeout leaves the client without a deadline.
// The metrics parameter is optional; pass nil to disable outbound metrics recording.
func NewFetcher(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) *Fetcher {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        cfg.Outbound.IdleConnections,
		MaxIdleConnsPerHost: cfg.Outbound.IdleConnections,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
		TLSHandshakeTimeout: 10 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}
	return NewFetcherWithTransport(cfg, logger, m, transport)
}

// NewFetcherWithTransport creates a Fetcher that sends requests through rt.
func NewFetcherWithTransport(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics, rt http.RoundTripper) *Fetcher {
	ua := cfg.Outbound.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	return &Fetcher{
		httpClient: &http.Client{
			Transport: rt,
			Timeout:   time.Duration(cfg.Outbound.TimeoutSeconds) * time.Second,
		},
		userAgent: ua,
		logger:    logger.With("component", "fetcher"),
		metrics:   m,
	}
}

// UserAgent returns the User-Agent header value sent upstream.
func (f *Fetcher) UserAgent() string {
	return f.userAgent
}

// Get performs a GET against target and reads the whole response body.
// The URL is sent as given, without being re-parsed, so Opaque paths survive.
// Redirects are followed with the net/http default policy.
func (f *Fetcher) Get(ctx context.Context, target *url.URL) (*model.UpstreamResponse, error) {
	if target == nil || target.Host == "" {
		return nil, errors.New("build outbound request: missing host")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build outbound request: %w", err)
	}
	req.URL = target
	req.Host = target.Host
	req.Header.Set("User-Agent", f.userAgent)

	f.logger.Debug("outbound request", "host", target.Host, "uri", target.RequestURI())

	start := time.Now()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.observe(time.Since(start), "error")
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	f.observe(time.Since(start), strconv.Itoa(resp.StatusCode))
	if err != nil {
		return nil, fmt.Errorf("read outbound body: %w", err)
	}

	return &model.UpstreamResponse{
		StatusCode: resp.StatusCode,
		StatusText: statusText(resp),
		Header:     resp.Header,
		Body:       body,
	}, nil
}

func (f *Fetcher) observe(d time.Duration, status string) {
	if f.metrics == nil {
		return
	}
	f.metrics.UpstreamDuration.WithLabelValues(http.MethodGet).Observe(d.Seconds())
	f.metrics.UpstreamResponses.WithLabelValues(http.MethodGet, status).Inc()
}

// statusText extracts the reason phrase from the status line, e.g. "Not Found" from "404 Not Found".
func statusText(resp *http.Response) string {
	code := strconv.Itoa(resp.StatusCode)
	if text, ok := strings.CutPrefix(resp.Status, code+" "); ok {
		return text
	}
	if resp.Status == code {
		return ""
	}
	return http.StatusText(resp.StatusCode)
}
