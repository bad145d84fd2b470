package model

// RenderPlan is the read-only drawing contract of one form version.
type RenderPlan struct {
	FormID          string              `json:"formId"`
	Version         int                 `json:"version"`
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	DescriptionHTML string              `json:"descriptionHtml,omitempty"`
	Fields          []RenderInstruction `json:"fields"`
}

// RenderInstruction describes one input. Name is the answer key.
type RenderInstruction struct {
	Position int       `json:"position"`
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required"`
	Min      *float64  `json:"min,omitempty"`
	Max      *float64  `json:"max,omitempty"`
	Options  []Option  `json:"options,omitempty"`
}

// FormSummary is the listing view of a form.
type FormSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Version     int    `json:"version"`
}

func (s FormSchema) Summary() FormSummary {
	return FormSummary{ID: s.ID, Title: s.Title, Description: s.Description, Version: s.Version}
}
