package filter

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecords() []json.RawMessage {
	return []json.RawMessage{
		json.RawMessage(`{
			"id": "1",
			"titel": "Gesetz zur Stärkung des Klimaschutzes",
			"vorgangstyp": "Gesetzgebung",
			"datum": "2023-03-01",
			"wahlperiode": 20,
			"initiative": ["Bundesregierung"],
			"sachgebiet": ["Umwelt", "Energie"],
			"deskriptor": [{"name": "Klimaschutz", "typ": "Sachbegriffe"}],
			"fundstelle": {"pdf_url": "https://dserver.bundestag.de/btd/20/050/2005000.pdf"}
		}`),
		json.RawMessage(`{
			"id": "2",
			"titel": "Antrag zur Verkehrswende",
			"vorgangstyp": "Antrag",
			"datum": "2019-11-20",
			"wahlperiode": [19],
			"sachgebiet": ["Verkehr"]
		}`),
		json.RawMessage(`{"id": "3", "titel": "Kleine Anfrage", "datum": "2024-01-10", "wahlperiode": 20}`),
	}
}

func ids(t *testing.T, records []json.RawMessage) []string {
	t.Helper()
	out := make([]string, 0, len(records))
	for _, raw := range records {
		r, err := Decode(raw)
		require.NoError(t, err)
		out = append(out, r["id"].(string))
	}
	return out
}

func TestCompileFilter(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{
			name:       "valid expression",
			expression: `hasDescriptor("klimaschutz")`,
		},
		{
			name:        "empty expression",
			expression:  "  ",
			wantErr:     true,
			errContains: "empty expression",
		},
		{
			name:       "invalid syntax",
			expression: `hasDescriptor("unclosed`,
			wantErr:    true,
		},
		{
			name:       "complex expression",
			expression: `vorgangstyp == "Gesetzgebung" and date() > parseDate("2023-01-01") and inPeriod(20)`,
		},
		{
			name:       "non boolean result",
			expression: `1 + 2`,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := CompileFilter(tt.expression)
			if tt.wantErr {
				require.Error(t, err)
				var compErr *CompilationError
				assert.True(t, errors.As(err, &compErr))
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expression, filter.Expression())
		})
	}
}

func TestFilterEvaluation(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		want       []string
	}{
		{name: "field equality", expression: `vorgangstyp == "Antrag"`, want: []string{"2"}},
		{name: "case insensitive contains", expression: `contains(titel, "klimaschutz")`, want: []string{"1"}},
		{name: "descriptor", expression: `hasDescriptor("KLIMASCHUTZ")`, want: []string{"1"}},
		{name: "subject area", expression: `hasSubjectArea("verkehr") or hasSubjectArea("energie")`, want: []string{"1", "2"}},
		{name: "initiative", expression: `hasInitiative("Bundesregierung")`, want: []string{"1"}},
		{name: "period number or list", expression: `inPeriod(19)`, want: []string{"2"}},
		{name: "numeric field", expression: `wahlperiode == 20`, want: []string{"1", "3"}},
		{name: "dates", expression: `date() >= parseDate("2023-01-01")`, want: []string{"1", "3"}},
		{name: "nested field", expression: `has("fundstelle.pdf_url")`, want: []string{"1"}},
		{name: "nested string", expression: `endsWith(asString("fundstelle.pdf_url"), ".pdf")`, want: []string{"1"}},
		{name: "missing field does not match", expression: `contains(abstract, "x")`, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := CompileFilter(tt.expression)
			require.NoError(t, err)

			matched, err := Apply(context.Background(), filter, testRecords())
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(t, matched))
		})
	}
}

func TestApplyErrors(t *testing.T) {
	filter, err := CompileFilter(`true`)
	require.NoError(t, err)

	_, err = Apply(context.Background(), filter, []json.RawMessage{json.RawMessage(`[1]`)})
	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, 0, decodeErr.Index)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Apply(ctx, filter, testRecords())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompilerCache(t *testing.T) {
	compiler := NewExprCompiler(WithCache(2))

	first, err := compiler.Compile(`inPeriod(20)`)
	require.NoError(t, err)
	again, err := compiler.Compile(` inPeriod(20) `)
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, 1, compiler.Size())

	_, err = compiler.Compile(`inPeriod(19)`)
	require.NoError(t, err)
	_, err = compiler.Compile(`inPeriod(18)`)
	require.NoError(t, err)
	assert.Equal(t, 2, compiler.Size())

	// the least recently used entry was evicted
	evicted, err := compiler.Compile(`inPeriod(20)`)
	require.NoError(t, err)
	assert.NotSame(t, first, evicted)

	compiler.Clear()
	assert.Equal(t, 0, compiler.Size())
}

func TestCustomFunctions(t *testing.T) {
	compiler := NewExprCompiler(WithCustomFunctions(map[string]any{
		"always": func() bool { return true },
	}))

	filter, err := compiler.Compile(`always()`)
	require.NoError(t, err)
	assert.True(t, filter.Evaluate(Record{}))
}

func TestManager(t *testing.T) {
	m := NewManager()

	require.NoError(t, m.RegisterFilters(map[string]string{
		"current":  `inPeriod(20)`,
		"climate":  `hasDescriptor("Klimaschutz")`,
		"proposal": `vorgangstyp == "Antrag"`,
	}))
	assert.Equal(t, []string{"climate", "current", "proposal"}, m.ListFilters())

	err := m.RegisterFilters(map[string]string{"broken": `(`})
	require.Error(t, err)
	_, exists := m.GetFilter("broken")
	assert.False(t, exists)

	matched, err := m.Apply(context.Background(), []string{"@current", `startsWith(titel, "kleine")`}, testRecords())
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, ids(t, matched))

	_, err = m.Apply(context.Background(), []string{"@missing"}, testRecords())
	assert.ErrorIs(t, err, ErrUnknownPreset)

	require.NoError(t, m.RegisterFilter("climate", `hasSubjectArea("Umwelt")`))
	filter, ok := m.GetFilter("climate")
	require.True(t, ok)
	assert.Equal(t, `hasSubjectArea("Umwelt")`, filter.Expression())
}
