package dip

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Entity is a typed DIP record. Every optional field is a pointer or a slice
// and stays nil when the record does not carry it.
type Entity interface {
	EntityID() string
	fmt.Stringer
}

// IntList decodes either a single number or an array of numbers. Other
// values leave it empty.
type IntList []int

func (l *IntList) UnmarshalJSON(data []byte) error {
	var many []int
	if err := json.Unmarshal(data, &many); err == nil {
		*l = many
		return nil
	}
	var one int
	if err := json.Unmarshal(data, &one); err == nil {
		*l = IntList{one}
	}
	// anything else leaves the list unset
	return nil
}

// Reference is the "fundstelle" of a record: where the underlying document is published.
type Reference struct {
	ID               *string  `json:"id"`
	DocKind          *string  `json:"dokumentart"`
	DocNumber        *string  `json:"dokumentnummer"`
	DocType          *string  `json:"drucksachetyp"`
	Date             *string  `json:"datum"`
	DistributionDate *string  `json:"verteildatum"`
	Publisher        *string  `json:"herausgeber"`
	Originators      []string `json:"urheber"`
	PDFURL           *string  `json:"pdf_url"`
	Page             *string  `json:"seite"`
	FirstPage        *int     `json:"anfangsseite"`
	LastPage         *int     `json:"endseite"`
	FirstQuadrant    *string  `json:"anfangsquadrant"`
	LastQuadrant     *string  `json:"endquadrant"`
	Item             *int     `json:"top"`
	ItemAddendum     *string  `json:"top_zusatz"`
}

// ProcedureRef points at a procedure related to a record
type ProcedureRef struct {
	ID          *string `json:"id"`
	Title       *string `json:"titel"`
	ProcessType *string `json:"vorgangstyp"`
}

// Originator is an originating body of a document or procedure step
type Originator struct {
	Designation *string `json:"bezeichnung"`
	Title       *string `json:"titel"`
	Submitter   *bool   `json:"einbringer"`
}

// Author is an entry of the author display list of a document
type Author struct {
	ID          *string `json:"id"`
	Title       *string `json:"titel"`
	AuthorTitle *string `json:"autor_titel"`
}

// Department is a federal ministry responsible for a document
type Department struct {
	Title *string `json:"titel"`
	Lead  *bool   `json:"federfuehrend"`
}

// Descriptor is a keyword attached to a procedure
type Descriptor struct {
	Name       *string `json:"name"`
	Type       *string `json:"typ"`
	Fundstelle *bool   `json:"fundstelle"`
}

// Announcement is a promulgation of a law
type Announcement struct {
	Date       *string `json:"verkuendungsdatum"`
	SignedDate *string `json:"ausfertigungsdatum"`
	Reference  *string `json:"fundstelle"`
	PDFURL     *string `json:"pdf_url"`
}

// EntryIntoForce is one date on which (parts of) a law take effect
type EntryIntoForce struct {
	Date        *string `json:"datum"`
	Explanation *string `json:"erlaeuterung"`
}

// Person is a member of a German federal parliamentary body.
type Person struct {
	ID                 string  `json:"-"`
	LastName           *string `json:"nachname"`
	FirstName          *string `json:"vorname"`
	NameAddendum       *string `json:"namenszusatz"`
	TitleLine          *string `json:"titel"`
	BaseDate           *string `json:"basisdatum"`
	Date               *string `json:"datum"`
	Updated            *string `json:"aktualisiert"`
	LegislativePeriods IntList `json:"wahlperiode"`
	Roles              []Role  `json:"person_roles"`
	Honorific          *string `json:"-"`
	Faction            *string `json:"-"`
}

// Role is a function a person holds in the parliamentary system.
type Role struct {
	Function           *string `json:"funktion"`
	FunctionAddendum   *string `json:"funktionszusatz"`
	Faction            *string `json:"fraktion"`
	FederalState       *string `json:"bundesland"`
	LastName           *string `json:"nachname"`
	FirstName          *string `json:"vorname"`
	NameAddendum       *string `json:"namenszusatz"`
	DistrictAddendum   *string `json:"wahlkreiszusatz"`
	Department         *string `json:"ressort_titel"`
	LegislativePeriods IntList `json:"wahlperiode_nummer"`
}

// Document is a printed paper (Drucksache) of the Bundestag or Bundesrat.
type Document struct {
	ID                string         `json:"-"`
	Instance          *string        `json:"typ"`
	DocKind           *string        `json:"dokumentart"`
	DocType           *string        `json:"drucksachetyp"`
	DocNumber         *string        `json:"dokumentnummer"`
	Title             *string        `json:"titel"`
	Date              *string        `json:"datum"`
	Updated           *string        `json:"aktualisiert"`
	LegislativePeriod *int           `json:"wahlperiode"`
	PublisherCode     *string        `json:"herausgeber"`
	Originators       []Originator   `json:"urheber"`
	AuthorCount       *int           `json:"autoren_anzahl"`
	Authors           []Author       `json:"autoren_anzeige"`
	Departments       []Department   `json:"ressort"`
	Reference         *Reference     `json:"fundstelle"`
	ProcedureRefs     []ProcedureRef `json:"vorgangsbezug"`
	Text              *string        `json:"text"`
	Publisher         *string        `json:"-"`
	PDFURL            *string        `json:"-"`
}

// Activity is a parliamentary activity such as a speech or a question.
type Activity struct {
	ID                string         `json:"-"`
	ActivityType      *string        `json:"aktivitaetsart"`
	Instance          *string        `json:"typ"`
	DocKind           *string        `json:"dokumentart"`
	Title             *string        `json:"titel"`
	Date              *string        `json:"datum"`
	Updated           *string        `json:"aktualisiert"`
	LegislativePeriod *int           `json:"wahlperiode"`
	ProcedureCount    *int           `json:"vorgangsbezug_anzahl"`
	ProcedureRefs     []ProcedureRef `json:"vorgangsbezug"`
	Reference         *Reference     `json:"fundstelle"`
	// ProcedureID and DocumentID are plain ids, resolved on demand.
	ProcedureID *string `json:"-"`
	DocumentID  *string `json:"-"`
}

// Procedure is a legislative process (Vorgang).
type Procedure struct {
	ID                string           `json:"-"`
	Instance          *string          `json:"typ"`
	ProcessType       *string          `json:"vorgangstyp"`
	Title             *string          `json:"titel"`
	Date              *string          `json:"datum"`
	Updated           *string          `json:"aktualisiert"`
	Initiative        []string         `json:"initiative"`
	Abstract          *string          `json:"abstract"`
	Archive           *string          `json:"archiv"`
	Status            *string          `json:"beratungsstand"`
	Descriptors       []Descriptor     `json:"deskriptor"`
	Gesta             *string          `json:"gesta"`
	Kom               *string          `json:"kom"`
	Notification      *string          `json:"mitteilung"`
	EUCouncilDoc      *string          `json:"ratsdok"`
	SubjectAreas      []string         `json:"sachgebiet"`
	Announcements     []Announcement   `json:"verkuendung"`
	EntryIntoForce    []EntryIntoForce `json:"inkrafttreten"`
	LegislativePeriod *int             `json:"wahlperiode"`
	ApprovalNecessity []string         `json:"zustimmungsbeduerftigkeit"`
	EffectiveDate     *string          `json:"-"`
	ApprovalStatus    *string          `json:"-"`
	Urgent            *bool            `json:"-"`
	// Steps stays nil until FetchProcedureSteps is called.
	Steps []ProcedureStep `json:"-"`
}

// ProcedureStep is one recorded stage (Vorgangsposition) of a procedure.
type ProcedureStep struct {
	ID              string       `json:"-"`
	Instance        *string      `json:"typ"`
	DocKind         *string      `json:"dokumentart"`
	Title           *string      `json:"titel"`
	Date            *string      `json:"datum"`
	Updated         *string      `json:"aktualisiert"`
	Continuation    *bool        `json:"fortsetzung"`
	Course          *bool        `json:"gang"`
	Supplement      *bool        `json:"nachtrag"`
	Originators     []Originator `json:"urheber"`
	ProcedureID     *string      `json:"vorgang_id"`
	Position        *string      `json:"vorgangsposition"`
	ProcessType     *string      `json:"vorgangstyp"`
	InstitutionCode *string      `json:"zuordnung"`
	Reference       *Reference   `json:"fundstelle"`
	Institution     *string      `json:"-"`
	DocumentID      *string      `json:"-"`
}

// PlenaryProtocol is the transcript of a plenary session.
type PlenaryProtocol struct {
	ID                string     `json:"-"`
	Instance          *string    `json:"typ"`
	DocKind           *string    `json:"dokumentart"`
	DocNumber         *string    `json:"dokumentnummer"`
	Title             *string    `json:"titel"`
	Date              *string    `json:"datum"`
	Updated           *string    `json:"aktualisiert"`
	LegislativePeriod *int       `json:"wahlperiode"`
	PublisherCode     *string    `json:"herausgeber"`
	SessionComment    *string    `json:"sitzungsbemerkung"`
	Reference         *Reference `json:"fundstelle"`
	Text              *string    `json:"text"`
	Publisher         *string    `json:"-"`
	PDFURL            *string    `json:"-"`
}

func (p *Person) EntityID() string          { return p.ID }
func (d *Document) EntityID() string        { return d.ID }
func (a *Activity) EntityID() string        { return a.ID }
func (p *Procedure) EntityID() string       { return p.ID }
func (s *ProcedureStep) EntityID() string   { return s.ID }
func (p *PlenaryProtocol) EntityID() string { return p.ID }

func (p *Person) String() string {
	name := joinNonEmpty(" ", str(p.Honorific), str(p.FirstName), str(p.NameAddendum), str(p.LastName))
	if p.Faction != nil {
		return fmt.Sprintf("Person: (%s) %s (%s)", p.ID, name, *p.Faction)
	}
	return fmt.Sprintf("Person: (%s) %s", p.ID, name)
}

func (r Role) String() string {
	name := joinNonEmpty(" ", str(r.FirstName), str(r.NameAddendum), str(r.LastName))
	if r.Faction != nil {
		name += " (" + *r.Faction + ")"
	}
	return fmt.Sprintf("Person: %s - %s", name, str(r.Function))
}

// Describe renders the role as "name (faction),function - addendum, department (state)".
func (r Role) Describe() string {
	var sb strings.Builder
	sb.WriteString(joinNonEmpty(" ", str(r.FirstName), str(r.NameAddendum), str(r.LastName)))
	if r.Faction != nil {
		fmt.Fprintf(&sb, " (%s)", *r.Faction)
	}
	sb.WriteString(",")
	sb.WriteString(str(r.Function))
	if r.FunctionAddendum != nil {
		fmt.Fprintf(&sb, " - %s", *r.FunctionAddendum)
	}
	if r.Department != nil {
		fmt.Fprintf(&sb, ", %s", *r.Department)
	}
	if r.FederalState != nil {
		fmt.Fprintf(&sb, " (%s)", *r.FederalState)
	}
	return sb.String()
}

func (d *Document) String() string {
	return fmt.Sprintf("%s: (%s) %s - %s - %s", str(d.Instance), d.ID, str(d.DocType), str(d.Title), str(d.Date))
}

func (a *Activity) String() string {
	return fmt.Sprintf("%s: (%s) %s - %s - %s", str(a.Instance), a.ID, str(a.ActivityType), str(a.Title), str(a.Date))
}

func (p *Procedure) String() string {
	return fmt.Sprintf("%s: (%s) %s - %s - %s", str(p.Instance), p.ID, str(p.ProcessType), str(p.Title), str(p.Date))
}

func (s *ProcedureStep) String() string {
	return fmt.Sprintf("%s: (%s) %s - %s - %s", str(s.Instance), str(s.ProcedureID), str(s.ProcessType), str(s.Title), str(s.Date))
}

func (p *PlenaryProtocol) String() string {
	return fmt.Sprintf("%s: %s - %s - %s", str(p.DocKind), str(p.DocNumber), str(p.Title), str(p.Date))
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ptr[T any](v T) *T {
	return &v
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
