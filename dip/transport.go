package dip

import (
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

// Doer performs a single GET including whatever retry policy it carries.
// *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RetryPolicy configures the retrying transport. Network errors, 429 and 5xx
// responses are retried with exponential backoff between WaitMin and WaitMax.
type RetryPolicy struct {
	MaxRetries int
	WaitMin    time.Duration
	WaitMax    time.Duration
}

// DefaultRetryPolicy allows three attempts in total.
var DefaultRetryPolicy = RetryPolicy{
	MaxRetries: 2,
	WaitMin:    1 * time.Second,
	WaitMax:    30 * time.Second,
}

// newTransport builds the default HTTP capability: pooled connections,
// tracing and throttling below a retrying client. Once retries are
// exhausted the last response is passed through so it can be classified.
func newTransport(opts clientOptions, logger zerolog.Logger) *http.Client {
	var base http.RoundTripper = cleanhttp.DefaultPooledTransport()
	if opts.limiter != nil {
		base = &rateLimitedTransport{base: base, limiter: opts.limiter}
	}
	if opts.tracing {
		base = otelhttp.NewTransport(base)
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = &http.Client{
		Transport: base,
		Timeout:   opts.timeout,
	}
	rc.RetryMax = opts.retry.MaxRetries
	rc.RetryWaitMin = opts.retry.WaitMin
	rc.RetryWaitMax = opts.retry.WaitMax
	rc.CheckRetry = retryablehttp.DefaultRetryPolicy
	rc.Backoff = retryablehttp.DefaultBackoff
	rc.ErrorHandler = passthroughResponse
	rc.Logger = leveledLogger{logger: logger}

	client := rc.StandardClient()
	client.Timeout = 0 // per attempt timeout is on rc.HTTPClient
	return client
}

// passthroughResponse hands the last response to the caller once retries are
// exhausted, so a final 5xx is classified by status instead of surfacing as a
// transport error.
func passthroughResponse(resp *http.Response, err error, _ int) (*http.Response, error) {
	if resp != nil {
		return resp, nil
	}
	return nil, err
}

// rateLimitedTransport waits on a token bucket before every attempt.
type rateLimitedTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}

// leveledLogger adapts zerolog to retryablehttp.LeveledLogger.
type leveledLogger struct {
	logger zerolog.Logger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	// retryablehttp logs every attempt at info; keep that out of the default output
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Trace().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn().Fields(keysAndValues).Msg(msg)
}
