package dip

import (
	"context"
	"strconv"
)

// SearchActivities searches activities.
func (c *Client) SearchActivities(ctx context.Context, filters QueryFilters, limit int, format Format) (*Result, error) {
	return c.Query(ctx, ResourceActivity, filters, limit, format)
}

// SearchDocuments searches printed papers.
func (c *Client) SearchDocuments(ctx context.Context, filters QueryFilters, limit int, format Format) (*Result, error) {
	return c.Query(ctx, ResourceDocument, filters, limit, format)
}

// SearchDocumentTexts searches printed papers including their full text.
func (c *Client) SearchDocumentTexts(ctx context.Context, filters QueryFilters, limit int, format Format) (*Result, error) {
	return c.Query(ctx, ResourceDocumentText, filters, limit, format)
}

// SearchPersons searches persons.
func (c *Client) SearchPersons(ctx context.Context, filters QueryFilters, limit int, format Format) (*Result, error) {
	return c.Query(ctx, ResourcePerson, filters, limit, format)
}

// SearchPlenaryProtocols searches plenary protocols.
func (c *Client) SearchPlenaryProtocols(ctx context.Context, filters QueryFilters, limit int, format Format) (*Result, error) {
	return c.Query(ctx, ResourcePlenaryProtocol, filters, limit, format)
}

// SearchPlenaryProtocolTexts searches plenary protocols including their full text.
func (c *Client) SearchPlenaryProtocolTexts(ctx context.Context, filters QueryFilters, limit int, format Format) (*Result, error) {
	return c.Query(ctx, ResourcePlenaryProtocolText, filters, limit, format)
}

// SearchProcedures searches procedures.
func (c *Client) SearchProcedures(ctx context.Context, filters QueryFilters, limit int, format Format) (*Result, error) {
	return c.Query(ctx, ResourceProcedure, filters, limit, format)
}

// SearchProcedureSteps searches procedure steps.
func (c *Client) SearchProcedureSteps(ctx context.Context, filters QueryFilters, limit int, format Format) (*Result, error) {
	return c.Query(ctx, ResourceProcedureStep, filters, limit, format)
}

// GetActivities fetches activities by id.
func (c *Client) GetActivities(ctx context.Context, format Format, ids ...int64) (*Result, error) {
	return c.get(ctx, ResourceActivity, format, ids)
}

// GetDocuments fetches printed papers by id.
func (c *Client) GetDocuments(ctx context.Context, format Format, ids ...int64) (*Result, error) {
	return c.get(ctx, ResourceDocument, format, ids)
}

// GetDocumentTexts fetches printed papers with full text by id.
func (c *Client) GetDocumentTexts(ctx context.Context, format Format, ids ...int64) (*Result, error) {
	return c.get(ctx, ResourceDocumentText, format, ids)
}

// GetPersons fetches persons by id.
func (c *Client) GetPersons(ctx context.Context, format Format, ids ...int64) (*Result, error) {
	return c.get(ctx, ResourcePerson, format, ids)
}

// GetPlenaryProtocols fetches plenary protocols by id.
func (c *Client) GetPlenaryProtocols(ctx context.Context, format Format, ids ...int64) (*Result, error) {
	return c.get(ctx, ResourcePlenaryProtocol, format, ids)
}

// GetPlenaryProtocolTexts fetches plenary protocols with full text by id.
func (c *Client) GetPlenaryProtocolTexts(ctx context.Context, format Format, ids ...int64) (*Result, error) {
	return c.get(ctx, ResourcePlenaryProtocolText, format, ids)
}

// GetProcedures fetches procedures by id.
func (c *Client) GetProcedures(ctx context.Context, format Format, ids ...int64) (*Result, error) {
	return c.get(ctx, ResourceProcedure, format, ids)
}

// GetProcedureSteps fetches procedure steps by id.
func (c *Client) GetProcedureSteps(ctx context.Context, format Format, ids ...int64) (*Result, error) {
	return c.get(ctx, ResourceProcedureStep, format, ids)
}

func (c *Client) get(ctx context.Context, resource ResourceKind, format Format, ids []int64) (*Result, error) {
	if len(ids) == 0 {
		return nil, invalid("id", ErrInvalidIDType, "at least one id is required")
	}
	filters := QueryFilters{IDs: make([]string, len(ids))}
	for i, id := range ids {
		filters.IDs[i] = strconv.FormatInt(id, 10)
	}
	return c.Query(ctx, resource, filters, len(ids), format)
}
