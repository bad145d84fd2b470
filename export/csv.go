// Package export writes submission tables in tabular file formats.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mbolis/quick-forms/forms"
)

var reservedColumns = []string{"submitted_at", "form_version"}

// WriteCSV writes a header row of field names followed by one row per
// submission. The submission time and form version lead each row.
func WriteCSV(w io.Writer, t forms.ExportTable) error {
	cw := csv.NewWriter(w)

	header := append([]string(nil), reservedColumns...)
	for _, col := range t.Columns {
		header = append(header, col.Name)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, row := range t.Rows {
		record := make([]string, 0, len(header))
		record = append(record, row.SubmittedAt.UTC().Format(time.RFC3339), strconv.Itoa(row.FormVersion))
		record = append(record, row.Values...)
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// FileName suggests a download name derived from the form title.
func FileName(t forms.ExportTable) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		default:
			return -1
		}
	}, t.Title)
	if name == "" {
		name = t.FormID
	}
	return name + "_submissions.csv"
}
