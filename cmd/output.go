package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/s0up4200/dipctl/dip"
)

// render writes records of one resource kind in the given output format
func render(w io.Writer, kind dip.ResourceKind, records []json.RawMessage, format string, opts dip.FormatOptions) error {
	switch format {
	case "json":
		if records == nil {
			records = []json.RawMessage{}
		}
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode records: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err

	case "table", "csv":
		t, err := dip.NewTable(records)
		if err != nil {
			return err
		}
		if format == "csv" {
			return formatter.WriteCSV(w, t)
		}
		_, err = fmt.Fprint(w, formatter.FormatTable(t, opts))
		return err

	case "tree":
		objects, err := dip.MapRecords(kind, records)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, formatter.FormatEntities(kind, dip.SortedEntities(objects), opts))
		return err

	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// fileExtension returns the export file extension for an output format
func fileExtension(format string) string {
	switch format {
	case "csv":
		return ".csv"
	case "table", "tree":
		return ".txt"
	default:
		return ".json"
	}
}
