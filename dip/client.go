package dip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/s0up4200/dipctl/dip"

// maxErrorBody bounds how much of a failed response is kept on an APIError.
const maxErrorBody = 4096

// Client wraps the DIP search API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient Doer
	metrics    *Metrics
	tracer     trace.Tracer
	logger     zerolog.Logger
}

// NewClient creates a new DIP client. It does not contact the API; use
// TestConnection for that.
func NewClient(apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNoAPIKey
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	httpClient := options.httpClient
	if httpClient == nil {
		httpClient = newTransport(options, logger)
	}

	return &Client{
		baseURL:    strings.TrimRight(options.baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
		metrics:    options.metrics,
		tracer:     otel.Tracer(tracerName),
		logger:     logger,
	}, nil
}

// TestConnection requests a single person record to verify the endpoint and the API key.
func (c *Client) TestConnection(ctx context.Context) error {
	if _, err := c.Query(ctx, ResourcePerson, QueryFilters{}, 1, FormatJSON); err != nil {
		return fmt.Errorf("failed to connect to DIP: %w", err)
	}
	return nil
}

// Query validates the parameters, walks the cursor pagination of resource
// until limit records are collected or the result set is exhausted, and
// reshapes the records according to format.
//
// Validation errors are returned before any request is made. A non-200
// response yields an *APIError and discards pages already received.
func (c *Client) Query(ctx context.Context, resource ResourceKind, filters QueryFilters, limit int, format Format) (*Result, error) {
	if err := Validate(resource, filters, limit, format); err != nil {
		return nil, err
	}
	if format == FormatXML {
		return nil, fmt.Errorf("%w: %s", ErrFormatNotImplemented, format)
	}

	ctx, span := c.tracer.Start(ctx, "dip.Query", trace.WithAttributes(
		attribute.String("dip.resource", resource.Path()),
		attribute.Int("dip.limit", limit),
		attribute.String("dip.format", string(format)),
	))
	defer span.End()

	logger := c.logger.With().
		Str("query_id", uuid.NewString()).
		Str("resource", resource.Path()).
		Logger()

	started := time.Now()
	result, err := c.paginate(ctx, logger, resource, filters, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	result.Format = format
	c.metrics.recordQuery(resource, started, result.Len())
	span.SetAttributes(
		attribute.Int("dip.num_found", result.NumFound),
		attribute.Int("dip.pages", result.Pages),
		attribute.Int("dip.records", result.Len()),
	)

	logger.Debug().
		Int("records", result.Len()).
		Int("num_found", result.NumFound).
		Int("pages", result.Pages).
		Dur("duration", time.Since(started)).
		Msg("Query completed")

	if result.noData {
		return result, nil
	}

	switch format {
	case FormatObject:
		objects, err := MapRecords(resource, result.Records)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		result.Objects = objects
	case FormatTable:
		table, err := NewTable(result.Records)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to build table: %w", err)
		}
		result.Table = table
	}

	return result, nil
}

// paginate follows the cursor until one of the stop conditions holds:
// limit reached, numFound reached, an empty page, or a stalled cursor.
func (c *Client) paginate(ctx context.Context, logger zerolog.Logger, resource ResourceKind, filters QueryFilters, limit int) (*Result, error) {
	params := filters.encode(c.apiKey, FormatJSON)
	result := &Result{Resource: resource}

	var cursor string
	for {
		if cursor != "" {
			params.Set("cursor", cursor)
		}

		p, err := c.fetchPage(ctx, resource, params.Encode())
		if err != nil {
			return nil, err
		}
		result.Pages++

		if result.Pages == 1 {
			result.NumFound = p.NumFound
			if p.NumFound == 0 {
				logger.Debug().Msg("No data returned")
				result.noData = true
				return result, nil
			}
		}

		result.Records = append(result.Records, p.Documents...)

		logger.Debug().
			Int("page", result.Pages).
			Int("count", len(p.Documents)).
			Int("total", len(result.Records)).
			Int("num_found", p.NumFound).
			Msg("Fetched page")

		if len(result.Records) >= limit {
			result.Records = result.Records[:limit]
			return result, nil
		}
		if p.NumFound == 0 || len(result.Records) >= p.NumFound || len(p.Documents) == 0 {
			return result, nil
		}
		if p.Cursor == "" || p.Cursor == cursor {
			logger.Debug().Str("cursor", p.Cursor).Msg("Cursor did not advance, stopping")
			return result, nil
		}
		cursor = p.Cursor
	}
}

// fetchPage issues one GET against the resource endpoint.
func (c *Client) fetchPage(ctx context.Context, resource ResourceKind, query string) (*page, error) {
	requestURL := fmt.Sprintf("%s/%s?%s", c.baseURL, resource.Path(), query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.recordRequest(resource, "error")
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &TransportError{Resource: resource, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.recordRequest(resource, "http_"+fmt.Sprint(resp.StatusCode))
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, newAPIError(resp.StatusCode, string(body))
	}

	var p page
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		c.metrics.recordRequest(resource, "decode_error")
		return nil, &TransportError{Resource: resource, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	c.metrics.recordRequest(resource, "ok")
	c.metrics.recordPage(resource)

	return &p, nil
}

// IsValidationError reports whether err was raised by Validate.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
