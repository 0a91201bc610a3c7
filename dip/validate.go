package dip

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxFilterLength is the exclusive upper bound on the length of a keyword filter.
const MaxFilterLength = 100

// Validate checks a query before any request is made. Checks run in a fixed
// order and the first failure is returned as a *ValidationError.
func Validate(resource ResourceKind, filters QueryFilters, limit int, format Format) error {
	if !resource.IsValid() {
		return invalid("resource", ErrInvalidResource, "no or wrong resource %q", resource)
	}

	if !format.IsValid() {
		return invalid("format", ErrInvalidFormat, "not a correct format %q", format)
	}

	if err := validateIDs(filters); err != nil {
		return err
	}

	if filters.Institution != "" && !filters.Institution.IsValid() {
		return invalid("institution", ErrUnknownInstitution, "unknown institution %q, expected BT, BR, BV or EK", filters.Institution)
	}

	referencing := resource.oneOf(ResourceActivity, ResourceProcedure, ResourceProcedureStep)
	if filters.DocumentID != "" && !referencing {
		return invalid("document-id", ErrIncompatibleFilter, "must be combined with resource 'aktivitaet', 'vorgang' or 'vorgangsposition', got %q", resource)
	}
	if filters.PlenaryProtocolID != "" && !referencing {
		return invalid("plenary-protocol-id", ErrIncompatibleFilter, "must be combined with resource 'aktivitaet', 'vorgang' or 'vorgangsposition', got %q", resource)
	}
	if filters.ProcessID != "" && resource != ResourceProcedureStep {
		return invalid("process-id", ErrIncompatibleFilter, "must be combined with resource 'vorgangsposition', got %q", resource)
	}

	if set := filters.selectors(); len(set) > 1 {
		return invalid(strings.Join(set, ","), ErrConflictingSelectors, "can't select more than one of document-id, plenary-protocol-id and process-id")
	}

	if limit <= 0 {
		return invalid("limit", ErrInvalidLimit, "must be an integer larger than zero, got %d", limit)
	}

	if err := validateTimes(filters); err != nil {
		return err
	}

	if err := validateLengths(filters); err != nil {
		return err
	}

	if !resource.oneOf(ResourceDocument, ResourceDocumentText, ResourceProcedure, ResourceProcedureStep) {
		switch {
		case len(filters.Titles) > 0:
			return invalid("title", ErrIncompatibleFilter, "only valid for documents, procedures and procedure steps, got %q", resource)
		case filters.DocumentType != "":
			return invalid("document-type", ErrIncompatibleFilter, "only valid for documents, procedures and procedure steps, got %q", resource)
		case filters.ProcessType != "":
			return invalid("process-type", ErrIncompatibleFilter, "only valid for documents, procedures and procedure steps, got %q", resource)
		}
	}

	return nil
}

func invalid(field string, kind error, format string, args ...any) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
		Err:     kind,
	}
}

// validateIDs requires every id to be a non-negative integer without sign or
// surrounding whitespace, since ids are sent as given.
func validateIDs(f QueryFilters) error {
	for _, id := range f.IDs {
		if !isID(id) {
			return invalid("id", ErrInvalidIDType, "IDs must be non-negative integers, got %q", id)
		}
	}

	refs := []struct{ field, value string }{
		{"document-id", f.DocumentID},
		{"plenary-protocol-id", f.PlenaryProtocolID},
		{"process-id", f.ProcessID},
	}
	for _, ref := range refs {
		if ref.value != "" && !isID(ref.value) {
			return invalid(ref.field, ErrInvalidIDType, "must be a non-negative integer, got %q", ref.value)
		}
	}

	return nil
}

func isID(s string) bool {
	_, err := strconv.ParseUint(s, 10, 64)
	return err == nil
}

func validateTimes(f QueryFilters) error {
	layouts := []struct{ field, value, layout string }{
		{"date-start", f.DateStart, DateLayout},
		{"date-end", f.DateEnd, DateLayout},
		{"updated-since", f.UpdatedSince, TimestampLayout},
		{"updated-until", f.UpdatedUntil, TimestampLayout},
	}
	for _, l := range layouts {
		if l.value == "" {
			continue
		}
		if _, err := time.Parse(l.layout, l.value); err != nil {
			return invalid(l.field, ErrInvalidTimestamp, "%q does not match %s", l.value, l.layout)
		}
	}
	return nil
}

func validateLengths(f QueryFilters) error {
	lists := []struct {
		field  string
		values []string
	}{
		{"descriptor", f.Descriptors},
		{"subject-area", f.SubjectAreas},
		{"title", f.Titles},
	}
	for _, list := range lists {
		for _, v := range list.values {
			if utf8.RuneCountInString(v) >= MaxFilterLength {
				return invalid(list.field, ErrStringTooLong, "%q must be shorter than %d characters", v, MaxFilterLength)
			}
		}
	}
	return nil
}
