package dip

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
)

// Table is a row/column view of records. Nested objects are flattened into
// dotted column names, arrays are kept as compact JSON.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable flattens records into a table. The id column comes first, the
// remaining columns are sorted by name.
func NewTable(records []json.RawMessage) (*Table, error) {
	flat := make([]map[string]string, 0, len(records))
	seen := make(map[string]struct{})

	for i, raw := range records {
		var fields map[string]any
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&fields); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}

		row := make(map[string]string, len(fields))
		flatten("", fields, row)
		for k := range row {
			seen[k] = struct{}{}
		}
		flat = append(flat, row)
	}

	columns := make([]string, 0, len(seen))
	for k := range seen {
		if k != "id" {
			columns = append(columns, k)
		}
	}
	slices.Sort(columns)
	if _, ok := seen["id"]; ok {
		columns = append([]string{"id"}, columns...)
	}

	t := &Table{
		Columns: columns,
		Rows:    make([][]string, 0, len(flat)),
	}
	for _, row := range flat {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = row[col]
		}
		t.Rows = append(t.Rows, cells)
	}

	return t, nil
}

func flatten(prefix string, fields map[string]any, out map[string]string) {
	for k, v := range fields {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			flatten(key, nested, out)
			continue
		}
		out[key] = cell(v)
	}
}

func cell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}
