package dip

import (
	"fmt"
	"strings"
)

// ResourceKind identifies one of the queryable DIP resources. The value is the
// path segment used by the remote API.
type ResourceKind string

const (
	ResourceActivity            ResourceKind = "aktivitaet"
	ResourceDocument            ResourceKind = "drucksache"
	ResourceDocumentText        ResourceKind = "drucksache-text"
	ResourcePerson              ResourceKind = "person"
	ResourcePlenaryProtocol     ResourceKind = "plenarprotokoll"
	ResourcePlenaryProtocolText ResourceKind = "plenarprotokoll-text"
	ResourceProcedure           ResourceKind = "vorgang"
	ResourceProcedureStep       ResourceKind = "vorgangsposition"
)

// ResourceKinds lists every resource in the order the API documents them.
var ResourceKinds = []ResourceKind{
	ResourceActivity,
	ResourceDocument,
	ResourceDocumentText,
	ResourcePerson,
	ResourcePlenaryProtocol,
	ResourcePlenaryProtocolText,
	ResourceProcedure,
	ResourceProcedureStep,
}

// IsValid reports whether r is a known resource kind.
func (r ResourceKind) IsValid() bool {
	for _, k := range ResourceKinds {
		if r == k {
			return true
		}
	}
	return false
}

// Path returns the endpoint path segment for the resource.
func (r ResourceKind) Path() string {
	return string(r)
}

// String returns the English name of the resource
func (r ResourceKind) String() string {
	switch r {
	case ResourceActivity:
		return "activity"
	case ResourceDocument:
		return "document"
	case ResourceDocumentText:
		return "document-fulltext"
	case ResourcePerson:
		return "person"
	case ResourcePlenaryProtocol:
		return "plenary-protocol"
	case ResourcePlenaryProtocolText:
		return "plenary-protocol-fulltext"
	case ResourceProcedure:
		return "procedure"
	case ResourceProcedureStep:
		return "procedure-step"
	default:
		return string(r)
	}
}

// oneOf reports whether r is contained in kinds
func (r ResourceKind) oneOf(kinds ...ResourceKind) bool {
	for _, k := range kinds {
		if r == k {
			return true
		}
	}
	return false
}

// ParseResourceKind accepts either the API path segment ("vorgang") or the
// English name ("procedure"), case-insensitively.
func ParseResourceKind(s string) (ResourceKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range ResourceKinds {
		if s == string(k) || s == k.String() {
			return k, nil
		}
	}
	return "", &ValidationError{
		Field:   "resource",
		Message: fmt.Sprintf("no or wrong resource %q", s),
		Err:     ErrInvalidResource,
	}
}

// Format selects the shape of a query result.
type Format string

const (
	// FormatJSON returns the raw JSON records.
	FormatJSON Format = "json"
	// FormatXML is accepted by the API but not supported by this client.
	FormatXML Format = "xml"
	// FormatObject maps records into typed domain records keyed by id.
	FormatObject Format = "object"
	// FormatTable flattens records into rows and columns.
	FormatTable Format = "table"
)

// IsValid reports whether f is a known format
func (f Format) IsValid() bool {
	switch f {
	case FormatJSON, FormatXML, FormatObject, FormatTable:
		return true
	}
	return false
}

// wire returns the value sent as the "format" query parameter.
func (f Format) wire() string {
	if f == FormatXML {
		return "xml"
	}
	return "json"
}

// Institution is the originating body of an entity.
type Institution string

const (
	InstitutionBundestag          Institution = "BT"
	InstitutionBundesrat          Institution = "BR"
	InstitutionMediationCommittee Institution = "BV"
	InstitutionStudyCommission    Institution = "EK"
)

// IsValid reports whether i is one of BT, BR, BV or EK
func (i Institution) IsValid() bool {
	switch i {
	case InstitutionBundestag, InstitutionBundesrat, InstitutionMediationCommittee, InstitutionStudyCommission:
		return true
	}
	return false
}

// institutionName expands the BT and BR codes; any other value is passed through.
func institutionName(code string) string {
	switch code {
	case string(InstitutionBundestag):
		return "Bundestag"
	case string(InstitutionBundesrat):
		return "Bundesrat"
	default:
		return code
	}
}
