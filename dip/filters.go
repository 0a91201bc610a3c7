package dip

import (
	"net/url"
	"time"
)

// TimestampLayout is the layout of the updated-since/updated-until filters.
const TimestampLayout = "2006-01-02T15:04:05"

// DateLayout is the layout of the date-start/date-end filters.
const DateLayout = "2006-01-02"

// QueryFilters holds the optional filters of a query. Empty strings and nil
// slices are unset and never sent.
type QueryFilters struct {
	// IDs selects entities by id; sent as one f.id per element.
	IDs []string

	DateStart    string // f.datum.start, YYYY-MM-DD
	DateEnd      string // f.datum.end, YYYY-MM-DD
	UpdatedSince string // f.aktualisiert.start, YYYY-MM-DDTHH:MM:SS
	UpdatedUntil string // f.aktualisiert.end, YYYY-MM-DDTHH:MM:SS

	Institution Institution

	// At most one of the following three may be set.
	DocumentID        string
	PlenaryProtocolID string
	ProcessID         string

	Descriptors         []string
	SubjectAreas        []string
	DocumentType        string
	ProcessType         string
	ProcessTypeNotation string
	Titles              []string
}

// FormatTimestamp renders t in the layout expected by UpdatedSince and UpdatedUntil.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// selectors returns the names of the set reference selectors.
func (f *QueryFilters) selectors() []string {
	var set []string
	if f.DocumentID != "" {
		set = append(set, "document-id")
	}
	if f.PlenaryProtocolID != "" {
		set = append(set, "plenary-protocol-id")
	}
	if f.ProcessID != "" {
		set = append(set, "process-id")
	}
	return set
}

// encode builds the request parameters. Lists become repeated keys in input order.
func (f *QueryFilters) encode(apiKey string, format Format) url.Values {
	params := url.Values{}
	params.Set("apikey", apiKey)
	params.Set("format", format.wire())

	for _, id := range f.IDs {
		params.Add("f.id", id)
	}

	setIf(params, "f.datum.start", f.DateStart)
	setIf(params, "f.datum.end", f.DateEnd)
	setIf(params, "f.aktualisiert.start", f.UpdatedSince)
	setIf(params, "f.aktualisiert.end", f.UpdatedUntil)
	setIf(params, "f.drucksache", f.DocumentID)
	setIf(params, "f.plenarprotokoll", f.PlenaryProtocolID)
	setIf(params, "f.vorgang", f.ProcessID)
	setIf(params, "f.zuordnung", string(f.Institution))

	for _, d := range f.Descriptors {
		params.Add("f.deskriptor", d)
	}
	for _, s := range f.SubjectAreas {
		params.Add("f.sachgebiet", s)
	}

	setIf(params, "f.drucksachetyp", f.DocumentType)
	setIf(params, "f.vorgangstyp", f.ProcessType)
	setIf(params, "f.vorgangstyp_notation", f.ProcessTypeNotation)

	for _, t := range f.Titles {
		params.Add("f.titel", t)
	}

	return params
}

func setIf(params url.Values, key, value string) {
	if value != "" {
		params.Set(key, value)
	}
}
