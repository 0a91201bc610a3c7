package dip

import (
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public DIP endpoint.
const DefaultBaseURL = "https://search.dip.bundestag.de/api/v1"

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	baseURL    string
	timeout    time.Duration
	retry      RetryPolicy
	limiter    *rate.Limiter
	tracing    bool
	httpClient Doer
	metrics    *Metrics
}

func defaultOptions() clientOptions {
	return clientOptions{
		baseURL: DefaultBaseURL,
		timeout: 30 * time.Second,
		retry:   DefaultRetryPolicy,
		tracing: true,
	}
}

// WithBaseURL overrides the API endpoint.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		if baseURL != "" {
			o.baseURL = baseURL
		}
	}
}

// WithTimeout sets the per attempt HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithRetryPolicy sets the retry policy of the default transport.
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(o *clientOptions) {
		if policy.MaxRetries >= 0 {
			o.retry = policy
		}
	}
}

// WithRateLimit throttles outgoing requests to rps requests per second.
func WithRateLimit(rps float64, burst int) Option {
	return func(o *clientOptions) {
		if rps <= 0 {
			o.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		o.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithoutTracing disables the otelhttp instrumentation of the default transport.
func WithoutTracing() Option {
	return func(o *clientOptions) {
		o.tracing = false
	}
}

// WithHTTPClient replaces the default retrying transport. The caller's Doer
// is then responsible for any retry policy.
func WithHTTPClient(doer Doer) Option {
	return func(o *clientOptions) {
		o.httpClient = doer
	}
}

// WithMetrics records query metrics on m.
func WithMetrics(m *Metrics) Option {
	return func(o *clientOptions) {
		o.metrics = m
	}
}
