package forms

import (
	"sort"
	"time"

	"github.com/mbolis/quick-forms/model"
)

type ExportColumn struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

type ExportRow struct {
	SubmissionID string    `json:"submissionId"`
	FormVersion  int       `json:"formVersion"`
	SubmittedAt  time.Time `json:"submittedAt"`
	Values       []string  `json:"values"`
}

// ExportTable is the tabular view of a form's submissions handed to export
// writers: one column per field in render order, one row per submission in
// submission time order.
type ExportTable struct {
	FormID  string         `json:"formId"`
	Title   string         `json:"title"`
	Version int            `json:"version"`
	Columns []ExportColumn `json:"columns"`
	Rows    []ExportRow    `json:"rows"`
}

// BuildExport lays out subs against the columns of s, the latest version of
// the form. Fields that only exist in the older versions pinned by subs are
// appended after the current ones, newest version first, so no recorded
// answer is left out. Fields a submission did not answer are empty.
func BuildExport(s model.FormSchema, older []model.FormSchema, subs []model.Submission) ExportTable {
	t := ExportTable{
		FormID:  s.ID,
		Title:   s.Title,
		Version: s.Version,
		Columns: make([]ExportColumn, 0, len(s.Fields)),
		Rows:    make([]ExportRow, 0, len(subs)),
	}
	for _, in := range Project(s).Fields {
		t.Columns = append(t.Columns, ExportColumn{Name: in.Name, Label: in.Label})
	}

	older = append([]model.FormSchema(nil), older...)
	sort.SliceStable(older, func(i, j int) bool {
		return older[i].Version > older[j].Version
	})
	added := map[string]bool{}
	for _, prev := range older {
		for _, in := range Project(prev).Fields {
			if _, ok := s.Field(in.Name); ok || added[in.Name] {
				continue
			}
			added[in.Name] = true
			t.Columns = append(t.Columns, ExportColumn{Name: in.Name, Label: in.Label})
		}
	}

	sorted := append([]model.Submission(nil), subs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SubmittedAt.Before(sorted[j].SubmittedAt)
	})
	for _, sub := range sorted {
		row := ExportRow{
			SubmissionID: sub.ID,
			FormVersion:  sub.FormVersion,
			SubmittedAt:  sub.SubmittedAt,
			Values:       make([]string, len(t.Columns)),
		}
		for i, col := range t.Columns {
			row.Values[i] = sub.Answers[col.Name]
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
