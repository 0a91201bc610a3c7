package dip

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// urgencyMarker flags a procedure as particularly urgent in its approval entries.
const urgencyMarker = "bes.eilbed."

// mappable is implemented by every domain record.
type mappable interface {
	Entity
	setID(id string)
	derive()
}

// MapRecord maps one raw record of kind to its domain record.
func MapRecord(kind ResourceKind, raw json.RawMessage) (Entity, error) {
	id, err := recordID(raw)
	if err != nil {
		return nil, err
	}

	var e mappable
	switch kind {
	case ResourceActivity:
		e = &Activity{}
	case ResourceDocument, ResourceDocumentText:
		e = &Document{}
	case ResourcePerson:
		e = &Person{}
	case ResourcePlenaryProtocol, ResourcePlenaryProtocolText:
		e = &PlenaryProtocol{}
	case ResourceProcedure:
		e = &Procedure{}
	case ResourceProcedureStep:
		e = &ProcedureStep{}
	default:
		return nil, invalid("resource", ErrInvalidResource, "%q is not a resource", string(kind))
	}

	// A mistyped optional field is skipped, the rest of the record is still decoded.
	if err := json.Unmarshal(raw, e); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return nil, fmt.Errorf("failed to decode record %s: %w", id, err)
		}
	}
	e.setID(id)
	e.derive()

	return e, nil
}

// MapRecords maps raw records into a collection keyed by numeric id. A later
// record with the same id replaces an earlier one.
func MapRecords(kind ResourceKind, records []json.RawMessage) (map[int64]Entity, error) {
	out := make(map[int64]Entity, len(records))
	for i, raw := range records {
		e, err := MapRecord(kind, raw)
		if err != nil {
			return nil, &MappingError{Resource: kind, Index: i, Err: err}
		}
		key, err := strconv.ParseInt(e.EntityID(), 10, 64)
		if err != nil {
			return nil, &MappingError{Resource: kind, Index: i, Err: fmt.Errorf("%w: id %q is not numeric", ErrMissingID, e.EntityID())}
		}
		out[key] = e
	}
	return out, nil
}

// recordID reads the id field, which the API sends as a string but
// occasionally as a number.
func recordID(raw json.RawMessage) (string, error) {
	var probe struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return "", fmt.Errorf("failed to decode record: %w", err)
	}
	if len(probe.ID) == 0 || bytes.Equal(probe.ID, []byte("null")) {
		return "", ErrMissingID
	}

	var s string
	if err := json.Unmarshal(probe.ID, &s); err == nil {
		if s = strings.TrimSpace(s); s == "" {
			return "", ErrMissingID
		}
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(probe.ID, &n); err != nil {
		return "", fmt.Errorf("%w: unsupported id %s", ErrMissingID, probe.ID)
	}
	return n.String(), nil
}

func (p *Person) setID(id string)          { p.ID = id }
func (d *Document) setID(id string)        { d.ID = id }
func (a *Activity) setID(id string)        { a.ID = id }
func (p *Procedure) setID(id string)       { p.ID = id }
func (s *ProcedureStep) setID(id string)   { s.ID = id }
func (p *PlenaryProtocol) setID(id string) { p.ID = id }

// derive parses the compound title line ("Dr. Max Muster, MdB, SPD").
// A second segment of "MdB" marks membership: the third segment is the
// faction, and a membership role is synthesized when the record has none.
func (p *Person) derive() {
	var member bool
	if p.TitleLine != nil {
		segments := strings.Split(*p.TitleLine, ",")
		member = len(segments) > 1 && strings.TrimSpace(segments[1]) == "MdB"
		if member && len(segments) > 2 {
			if faction := strings.TrimSpace(segments[2]); faction != "" {
				p.Faction = ptr(faction)
			}
		}
		if p.FirstName != nil && *p.FirstName != "" {
			if i := strings.Index(segments[0], *p.FirstName); i > 0 {
				if honorific := strings.TrimSpace(segments[0][:i]); honorific != "" {
					p.Honorific = ptr(honorific)
				}
			}
		}
	}

	if p.Faction == nil && len(p.Roles) > 0 && p.Roles[0].Faction != nil {
		p.Faction = p.Roles[0].Faction
	}

	if member && p.Roles == nil {
		p.Roles = []Role{{
			Function:           ptr("MdB"),
			Faction:            p.Faction,
			LastName:           p.LastName,
			FirstName:          p.FirstName,
			LegislativePeriods: p.LegislativePeriods,
		}}
	}
}

func (d *Document) derive() {
	d.Publisher = publisher(d.PublisherCode)
	if d.Reference != nil {
		d.PDFURL = d.Reference.PDFURL
	}
}

func (a *Activity) derive() {
	if len(a.ProcedureRefs) > 0 {
		a.ProcedureID = a.ProcedureRefs[0].ID
	}
	if a.Reference != nil {
		a.DocumentID = a.Reference.ID
	}
}

// derive reads the effective date, the approval status and the urgency flag.
// Urgent stays nil when the record carries no approval entries.
func (p *Procedure) derive() {
	if len(p.EntryIntoForce) > 0 {
		p.EffectiveDate = p.EntryIntoForce[0].Date
	}

	if p.ApprovalNecessity == nil {
		return
	}
	urgent := false
	for _, entry := range p.ApprovalNecessity {
		if strings.Contains(entry, urgencyMarker) {
			urgent = true
			break
		}
	}
	p.Urgent = ptr(urgent)

	if n := len(p.ApprovalNecessity); n > 0 {
		status, _, _ := strings.Cut(p.ApprovalNecessity[n-1], ",")
		p.ApprovalStatus = ptr(strings.TrimSpace(status))
	}
}

func (s *ProcedureStep) derive() {
	if s.InstitutionCode != nil {
		s.Institution = ptr(institutionName(*s.InstitutionCode))
	}
	if s.Reference != nil {
		s.DocumentID = s.Reference.ID
	}
}

func (p *PlenaryProtocol) derive() {
	p.Publisher = publisher(p.PublisherCode)
	if p.Reference != nil {
		p.PDFURL = p.Reference.PDFURL
	}
}

func publisher(code *string) *string {
	if code == nil {
		return nil
	}
	return ptr(institutionName(*code))
}
