// Package dip provides a client for the search API of the German Bundestag's
// documentation and information system for parliamentary materials (DIP).
//
// # Architecture
//
// The package is organized into several components:
//
//   - Validate: checks resource, filters, limit and format before any request
//   - Client: the query executor that walks the cursor pagination of a resource
//   - Mapper: MapRecord and MapRecords turn raw records into typed entities
//   - Facade: SearchX and GetX helpers that fix the resource of a query
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := dip.NewClient(apiKey, logger,
//		dip.WithTimeout(30*time.Second),
//		dip.WithRateLimit(5, 1),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	res, err := client.SearchProcedures(ctx, dip.QueryFilters{
//		DateStart: "2023-01-01",
//		Descriptors: []string{"Klimaschutz"},
//	}, 100, dip.FormatObject)
//
// # Error Handling
//
// Invalid parameters yield a *ValidationError before any I/O. Failed
// requests yield an *APIError (non-200 status) or a *TransportError. All of
// them wrap one of the Err* sentinels for use with errors.Is.
package dip
