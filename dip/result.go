package dip

import (
	"encoding/json"
)

// page is the body of one DIP search response
type page struct {
	NumFound  int               `json:"numFound"`
	Cursor    string            `json:"cursor"`
	Documents []json.RawMessage `json:"documents"`
}

// Result is the outcome of a query. Records is always populated, also for
// a single match; Objects and Table are filled for FormatObject and FormatTable.
type Result struct {
	Resource ResourceKind
	Format   Format
	// NumFound is the total match count reported by the first page.
	NumFound int
	// Pages is the number of page requests made.
	Pages   int
	Records []json.RawMessage
	Objects map[int64]Entity
	Table   *Table

	noData bool
}

// NoData reports whether the API answered with zero matches. It is the
// explicit "no data was returned" outcome and never true for a non-empty result.
func (r *Result) NoData() bool {
	return r.noData
}

// Len returns the number of records in the result
func (r *Result) Len() int {
	return len(r.Records)
}
