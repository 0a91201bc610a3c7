package dip

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// FormatOptions controls console output
type FormatOptions struct {
	ShowDetails bool
	// MaxCellWidth truncates table cells; zero disables truncation.
	MaxCellWidth int
	Color        bool
}

// ConsoleFormatter provides console output formatting for query results
type ConsoleFormatter struct{}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{}
}

// SortedEntities returns the values of a mapped result ordered by id.
func SortedEntities(objects map[int64]Entity) []Entity {
	keys := make([]int64, 0, len(objects))
	for k := range objects {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]Entity, 0, len(keys))
	for _, k := range keys {
		out = append(out, objects[k])
	}
	return out
}

// FormatEntities formats mapped records as a tree
func (f *ConsoleFormatter) FormatEntities(resource ResourceKind, entities []Entity, options FormatOptions) string {
	if len(entities) == 0 {
		return "No data was returned."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n%s (%d):\n\n", resource, len(entities))

	for i, e := range entities {
		isLast := i == len(entities)-1
		prefix := "├"
		indent := "│   "
		if isLast {
			prefix = "╰"
			indent = "    "
		}

		fmt.Fprintf(&sb, "%s── %s\n", prefix, e)

		if options.ShowDetails {
			for _, line := range details(e) {
				fmt.Fprintf(&sb, "%s%s\n", indent, line)
			}
		}

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// details lists the secondary fields of a record that are present
func details(e Entity) []string {
	var lines []string
	add := func(label string, value *string) {
		if value != nil && *value != "" {
			lines = append(lines, label+": "+*value)
		}
	}

	switch v := e.(type) {
	case *Person:
		for _, r := range v.Roles {
			lines = append(lines, "Role: "+r.Describe())
		}
	case *Document:
		add("Number", v.DocNumber)
		add("Publisher", v.Publisher)
		add("PDF", v.PDFURL)
	case *Activity:
		add("Procedure", v.ProcedureID)
		add("Document", v.DocumentID)
	case *Procedure:
		add("Status", v.Status)
		add("Approval", v.ApprovalStatus)
		if v.Urgent != nil && *v.Urgent {
			lines = append(lines, "Urgent: yes")
		}
		add("Effective", v.EffectiveDate)
		if len(v.SubjectAreas) > 0 {
			lines = append(lines, "Subject areas: "+strings.Join(v.SubjectAreas, ", "))
		}
		var names []string
		for _, d := range v.Descriptors {
			if d.Name != nil {
				names = append(names, *d.Name)
			}
		}
		if len(names) > 0 {
			lines = append(lines, "Descriptors: "+strings.Join(names, ", "))
		}
	case *ProcedureStep:
		add("Institution", v.Institution)
		add("Document", v.DocumentID)
	case *PlenaryProtocol:
		add("Publisher", v.Publisher)
		add("Session", v.SessionComment)
		add("PDF", v.PDFURL)
	}

	return lines
}

// FormatTable renders a table with lipgloss
func (f *ConsoleFormatter) FormatTable(t *Table, options FormatOptions) string {
	if t == nil || len(t.Rows) == 0 {
		return "No data was returned."
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	borderStyle := lipgloss.NewStyle()
	if options.Color {
		headerStyle = headerStyle.Foreground(lipgloss.Color("86"))
		borderStyle = borderStyle.Foreground(lipgloss.Color("240"))
	}

	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = make([]string, len(row))
		for j, c := range row {
			rows[i][j] = truncate(c, options.MaxCellWidth)
		}
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(t.Columns...).
		Rows(rows...)

	return tbl.String() + "\n" + strconv.Itoa(len(t.Rows)) + " rows\n"
}

// WriteCSV writes the table including a header line.
func (f *ConsoleFormatter) WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("failed to write csv rows: %w", err)
	}
	return nil
}

func truncate(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
