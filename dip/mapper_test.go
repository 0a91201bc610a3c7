package dip

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMap(t *testing.T, kind ResourceKind, raw string) Entity {
	t.Helper()
	e, err := MapRecord(kind, json.RawMessage(raw))
	require.NoError(t, err)
	return e
}

func TestMapPerson(t *testing.T) {
	t.Run("member with faction and honorific", func(t *testing.T) {
		p := mustMap(t, ResourcePerson, `{
			"id": "7485",
			"nachname": "Scholz",
			"vorname": "Olaf",
			"titel": "Dr. Olaf Scholz, MdB, SPD",
			"wahlperiode": [19, 20]
		}`).(*Person)

		assert.Equal(t, "7485", p.ID)
		require.NotNil(t, p.Honorific)
		assert.Equal(t, "Dr.", *p.Honorific)
		require.NotNil(t, p.Faction)
		assert.Equal(t, "SPD", *p.Faction)
		require.Len(t, p.Roles, 1)
		assert.Equal(t, "MdB", *p.Roles[0].Function)
		assert.Equal(t, "SPD", *p.Roles[0].Faction)
		assert.Equal(t, IntList{19, 20}, p.Roles[0].LegislativePeriods)
		assert.Equal(t, "Person: (7485) Dr. Olaf Scholz (SPD)", p.String())
	})

	t.Run("explicit roles are kept", func(t *testing.T) {
		p := mustMap(t, ResourcePerson, `{
			"id": "1",
			"nachname": "Muster",
			"vorname": "Erika",
			"titel": "Erika Muster, MdB, CDU/CSU",
			"person_roles": [
				{"funktion": "Bundesminister", "ressort_titel": "Bundesministerium der Finanzen", "nachname": "Muster", "vorname": "Erika", "wahlperiode_nummer": 20}
			]
		}`).(*Person)

		require.Len(t, p.Roles, 1)
		assert.Equal(t, "Bundesminister", *p.Roles[0].Function)
		assert.Equal(t, IntList{20}, p.Roles[0].LegislativePeriods)
		assert.Equal(t, "CDU/CSU", *p.Faction)
		assert.Nil(t, p.Honorific)
	})

	t.Run("no membership", func(t *testing.T) {
		p := mustMap(t, ResourcePerson, `{
			"id": "2",
			"nachname": "Beispiel",
			"vorname": "Hans",
			"titel": "Hans Beispiel, Parl. Staatssekretär"
		}`).(*Person)

		assert.Nil(t, p.Roles)
		assert.Nil(t, p.Faction)
		assert.Nil(t, p.Honorific)
	})

	t.Run("faction from first role", func(t *testing.T) {
		p := mustMap(t, ResourcePerson, `{
			"id": "3",
			"person_roles": [{"funktion": "MdB", "fraktion": "FDP"}]
		}`).(*Person)

		require.NotNil(t, p.Faction)
		assert.Equal(t, "FDP", *p.Faction)
		assert.Nil(t, p.TitleLine)
	})
}

func TestRoleDescribe(t *testing.T) {
	r := Role{
		FirstName:        ptr("Erika"),
		LastName:         ptr("Muster"),
		Faction:          ptr("SPD"),
		Function:         ptr("Bundesminister"),
		FunctionAddendum: ptr("Stellvertreter"),
		Department:       ptr("Bundesministerium der Finanzen"),
		FederalState:     ptr("Berlin"),
	}

	assert.Equal(t, "Erika Muster (SPD),Bundesminister - Stellvertreter, Bundesministerium der Finanzen (Berlin)", r.Describe())
	assert.Equal(t, "Person: Erika Muster (SPD) - Bundesminister", r.String())
}

func TestMapDocument(t *testing.T) {
	tests := []struct {
		name      string
		publisher string
		want      *string
	}{
		{name: "bundestag", publisher: `"BT"`, want: ptr("Bundestag")},
		{name: "bundesrat", publisher: `"BR"`, want: ptr("Bundesrat")},
		{name: "other code passes through", publisher: `"EK"`, want: ptr("EK")},
		{name: "missing", publisher: `null`, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := mustMap(t, ResourceDocument, `{
				"id": "259520",
				"typ": "Dokument",
				"drucksachetyp": "Gesetzentwurf",
				"titel": "Entwurf eines Gesetzes",
				"datum": "2021-06-01",
				"herausgeber": `+tt.publisher+`,
				"fundstelle": {"pdf_url": "https://dserver.bundestag.de/btd/19/300/1930000.pdf", "id": "259520"}
			}`).(*Document)

			assert.Equal(t, tt.want, d.Publisher)
			assert.Equal(t, "https://dserver.bundestag.de/btd/19/300/1930000.pdf", *d.PDFURL)
			assert.Equal(t, "Dokument: (259520) Gesetzentwurf - Entwurf eines Gesetzes - 2021-06-01", d.String())
		})
	}
}

func TestMapProcedure(t *testing.T) {
	t.Run("urgent with effective date", func(t *testing.T) {
		p := mustMap(t, ResourceProcedure, `{
			"id": "284323",
			"zustimmungsbeduerftigkeit": ["Nein, laut Gesetzentwurf (Drs 19/30000)", "Ja, laut Stellungnahme des Bundesrates, bes.eilbed."],
			"inkrafttreten": [{"datum": "2021-07-27", "erlaeuterung": "Art. 1"}, {"datum": "2022-01-01"}],
			"deskriptor": [{"name": "Energiewirtschaft", "typ": "Sachbegriffe", "fundstelle": true}]
		}`).(*Procedure)

		require.NotNil(t, p.Urgent)
		assert.True(t, *p.Urgent)
		assert.Equal(t, "Ja", *p.ApprovalStatus)
		assert.Equal(t, "2021-07-27", *p.EffectiveDate)
		assert.Equal(t, []string{
			"Nein, laut Gesetzentwurf (Drs 19/30000)",
			"Ja, laut Stellungnahme des Bundesrates, bes.eilbed.",
		}, p.ApprovalNecessity)
		assert.Nil(t, p.Steps)
	})

	t.Run("not urgent", func(t *testing.T) {
		p := mustMap(t, ResourceProcedure, `{"id": "1", "zustimmungsbeduerftigkeit": ["Nein"]}`).(*Procedure)
		require.NotNil(t, p.Urgent)
		assert.False(t, *p.Urgent)
		assert.Nil(t, p.EffectiveDate)
	})

	t.Run("all optional fields absent", func(t *testing.T) {
		p := mustMap(t, ResourceProcedure, `{"id": 12}`).(*Procedure)
		assert.Equal(t, "12", p.ID)
		assert.Nil(t, p.Urgent)
		assert.Nil(t, p.ApprovalStatus)
		assert.Nil(t, p.ApprovalNecessity)
		assert.Nil(t, p.Title)
		assert.Nil(t, p.LegislativePeriod)
	})
}

func TestMapActivityAndStep(t *testing.T) {
	a := mustMap(t, ResourceActivity, `{
		"id": "1499030",
		"aktivitaetsart": "Rede",
		"typ": "Aktivität",
		"vorgangsbezug": [{"id": "284323", "titel": "Gesetz"}],
		"fundstelle": {"id": "5432", "dokumentart": "Plenarprotokoll"}
	}`).(*Activity)
	assert.Equal(t, "284323", *a.ProcedureID)
	assert.Equal(t, "5432", *a.DocumentID)

	s := mustMap(t, ResourceProcedureStep, `{
		"id": "55",
		"vorgang_id": "284323",
		"zuordnung": "BR",
		"gang": true,
		"fortsetzung": false
	}`).(*ProcedureStep)
	assert.Equal(t, "284323", *s.ProcedureID)
	assert.Equal(t, "Bundesrat", *s.Institution)
	assert.True(t, *s.Course)
	assert.False(t, *s.Continuation)
	assert.Nil(t, s.Supplement)
	assert.Nil(t, s.DocumentID)
}

func TestMapPlenaryReferences(t *testing.T) {
	activities := []json.RawMessage{
		json.RawMessage(`{
			"id": "1499030",
			"aktivitaetsart": "Rede",
			"typ": "Aktivität",
			"dokumentart": "Plenarprotokoll",
			"titel": "Olaf Scholz, Bundeskanzler",
			"datum": "2023-03-02",
			"wahlperiode": 20,
			"vorgangsbezug_anzahl": 1,
			"vorgangsbezug": [{"id": "297974", "titel": "Regierungserklärung", "vorgangstyp": "Regierungserklärung"}],
			"fundstelle": {
				"id": "5706",
				"dokumentart": "Plenarprotokoll",
				"dokumentnummer": "20/89",
				"datum": "2023-03-02",
				"herausgeber": "BT",
				"pdf_url": "https://dserver.bundestag.de/btp/20/20089.pdf#P.10587",
				"anfangsseite": 14017,
				"endseite": 14018,
				"anfangsquadrant": "B",
				"endquadrant": "D",
				"top": 3,
				"urheber": []
			}
		}`),
		json.RawMessage(`{"id": "1499031", "aktivitaetsart": "Zwischenfrage", "fundstelle": {"id": "5706", "anfangsseite": 14020, "endseite": 14020}}`),
	}

	objects, err := MapRecords(ResourceActivity, activities)
	require.NoError(t, err)
	require.Len(t, objects, 2)

	a := objects[1499030].(*Activity)
	require.NotNil(t, a.Reference)
	assert.Equal(t, 14017, *a.Reference.FirstPage)
	assert.Equal(t, 14018, *a.Reference.LastPage)
	assert.Equal(t, "B", *a.Reference.FirstQuadrant)
	assert.Equal(t, 3, *a.Reference.Item)
	assert.Empty(t, a.Reference.Originators)
	assert.Equal(t, "5706", *a.DocumentID)
	assert.Equal(t, "297974", *a.ProcedureID)

	s := mustMap(t, ResourceProcedureStep, `{
		"id": "612409",
		"vorgangsposition": "1. Beratung",
		"zuordnung": "BT",
		"gang": true,
		"fortsetzung": false,
		"nachtrag": false,
		"vorgang_id": "297974",
		"dokumentart": "Plenarprotokoll",
		"urheber": [{"bezeichnung": "BReg", "titel": "Bundesregierung", "einbringer": true}],
		"fundstelle": {"id": "5706", "dokumentart": "Plenarprotokoll", "dokumentnummer": "20/89", "anfangsseite": 14017, "endseite": 14035, "urheber": ["BT"]}
	}`).(*ProcedureStep)
	assert.Equal(t, 14035, *s.Reference.LastPage)
	assert.Equal(t, []string{"BT"}, s.Reference.Originators)
	assert.Equal(t, "5706", *s.DocumentID)
	assert.Equal(t, "Bundestag", *s.Institution)
}

func TestMapMistypedOptionalFields(t *testing.T) {
	tests := []struct {
		name  string
		kind  ResourceKind
		raw   string
		check func(t *testing.T, e Entity)
	}{
		{
			name: "page numbers as strings",
			kind: ResourceActivity,
			raw:  `{"id": "1", "titel": "Rede", "fundstelle": {"id": "9", "anfangsseite": "14017", "endseite": "14018"}}`,
			check: func(t *testing.T, e Entity) {
				a := e.(*Activity)
				assert.Equal(t, "Rede", *a.Title)
				assert.Equal(t, "9", *a.DocumentID)
			},
		},
		{
			name: "legislative period as text",
			kind: ResourcePerson,
			raw:  `{"id": "2", "nachname": "Muster", "wahlperiode": "zwanzig"}`,
			check: func(t *testing.T, e Entity) {
				p := e.(*Person)
				assert.Equal(t, "Muster", *p.LastName)
				assert.Empty(t, p.LegislativePeriods)
			},
		},
		{
			name: "reference as a string",
			kind: ResourceDocument,
			raw:  `{"id": "3", "titel": "Antrag", "fundstelle": "BT-Drs 20/1"}`,
			check: func(t *testing.T, e Entity) {
				d := e.(*Document)
				assert.Equal(t, "Antrag", *d.Title)
				assert.Nil(t, d.PDFURL)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, mustMap(t, tt.kind, tt.raw))
		})
	}
}

func TestMapPlenaryProtocol(t *testing.T) {
	p := mustMap(t, ResourcePlenaryProtocolText, `{
		"id": "908",
		"dokumentart": "Plenarprotokoll",
		"dokumentnummer": "20/100",
		"herausgeber": "BT",
		"sitzungsbemerkung": "Sondersitzung",
		"text": "Beginn: 9.00 Uhr"
	}`).(*PlenaryProtocol)

	assert.Equal(t, "Bundestag", *p.Publisher)
	assert.Equal(t, "Sondersitzung", *p.SessionComment)
	assert.Nil(t, p.PDFURL)
	assert.Equal(t, "Plenarprotokoll: 20/100 -  - ", p.String())
}

func TestMapRecordErrors(t *testing.T) {
	tests := []struct {
		name string
		kind ResourceKind
		raw  string
		want error
	}{
		{name: "missing id", kind: ResourcePerson, raw: `{"nachname": "X"}`, want: ErrMissingID},
		{name: "null id", kind: ResourcePerson, raw: `{"id": null}`, want: ErrMissingID},
		{name: "blank id", kind: ResourcePerson, raw: `{"id": " "}`, want: ErrMissingID},
		{name: "object id", kind: ResourcePerson, raw: `{"id": {}}`, want: ErrMissingID},
		{name: "unknown kind", kind: "bundesrat", raw: `{"id": "1"}`, want: ErrInvalidResource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MapRecord(tt.kind, json.RawMessage(tt.raw))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMapRecordsKeysAndIDs(t *testing.T) {
	records := []json.RawMessage{
		json.RawMessage(`{"id": "10", "titel": "a"}`),
		json.RawMessage(`{"id": "20", "titel": "b"}`),
		json.RawMessage(`{"id": "10", "titel": "c"}`),
	}

	objects, err := MapRecords(ResourceDocument, records)
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, "c", *objects[10].(*Document).Title)
	assert.Equal(t, "20", objects[20].EntityID())

	_, err = MapRecords(ResourceDocument, []json.RawMessage{json.RawMessage(`{"id": "abc"}`)})
	assert.ErrorIs(t, err, ErrMissingID)
}
