package dip

import (
	"context"
)

// API defines the interface for DIP operations
type API interface {
	// TestConnection verifies the client can reach DIP with its key
	TestConnection(ctx context.Context) error

	// Query runs a validated, paginated search against one resource
	Query(ctx context.Context, resource ResourceKind, filters QueryFilters, limit int, format Format) (*Result, error)
}

// Searcher provides the resource specific search operations
type Searcher interface {
	SearchActivities(ctx context.Context, filters QueryFilters, limit int, format Format) (*Result, error)
	SearchDocuments(ctx context.Context, filters QueryFilters, limit int, format Format) (*Result, error)
	SearchDocumentTexts(ctx context.Context, filters QueryFilters, limit int, format Format) (*Result, error)
	SearchPersons(ctx context.Context, filters QueryFilters, limit int, format Format) (*Result, error)
	SearchPlenaryProtocols(ctx context.Context, filters QueryFilters, limit int, format Format) (*Result, error)
	SearchPlenaryProtocolTexts(ctx context.Context, filters QueryFilters, limit int, format Format) (*Result, error)
	SearchProcedures(ctx context.Context, filters QueryFilters, limit int, format Format) (*Result, error)
	SearchProcedureSteps(ctx context.Context, filters QueryFilters, limit int, format Format) (*Result, error)
}

var (
	_ API      = (*Client)(nil)
	_ Searcher = (*Client)(nil)
)
