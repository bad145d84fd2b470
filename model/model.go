package model

import "time"

// Option is one choice of a radio or select field.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// Bounds holds the optional min/max constraint of a field. For number fields
// they bound the value, for text and email fields the length in characters.
type Bounds struct {
	Min *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max *float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

// Between is a shorthand for Bounds with both ends set.
func Between(min, max float64) *Bounds {
	return &Bounds{Min: &min, Max: &max}
}

// AtLeast is a shorthand for Bounds with only a lower end.
func AtLeast(min float64) *Bounds {
	return &Bounds{Min: &min}
}

// AtMost is a shorthand for Bounds with only an upper end.
func AtMost(max float64) *Bounds {
	return &Bounds{Max: &max}
}

func (b *Bounds) clone() *Bounds {
	if b == nil {
		return nil
	}
	c := &Bounds{}
	if b.Min != nil {
		v := *b.Min
		c.Min = &v
	}
	if b.Max != nil {
		v := *b.Max
		c.Max = &v
	}
	return c
}

type FieldSpec struct {
	Name       string    `json:"name" yaml:"name"`
	Label      string    `json:"label" yaml:"label"`
	Type       FieldType `json:"type" yaml:"type"`
	Required   bool      `json:"required" yaml:"required"`
	Validation *Bounds   `json:"validation,omitempty" yaml:"validation,omitempty"`
	Options    []Option  `json:"options,omitempty" yaml:"options,omitempty"`
	Order      int       `json:"order" yaml:"order"`
}

// Clone returns a deep copy of the field.
func (f FieldSpec) Clone() FieldSpec {
	c := f
	c.Validation = f.Validation.clone()
	if f.Options != nil {
		c.Options = append([]Option(nil), f.Options...)
	}
	return c
}

// FormSchema is an accepted, versioned form definition.
type FormSchema struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Fields      []FieldSpec `json:"fields"`
	Version     int         `json:"version"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// Clone returns a deep copy of the schema.
func (s FormSchema) Clone() FormSchema {
	c := s
	c.Fields = cloneFields(s.Fields)
	return c
}

// Field looks up a field by name.
func (s FormSchema) Field(name string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Draft returns the editable content of the schema, to be modified and
// submitted back as a full replacement.
func (s FormSchema) Draft() FormDraft {
	return FormDraft{
		Title:       s.Title,
		Description: s.Description,
		Fields:      cloneFields(s.Fields),
	}
}

// Submission is an accepted answer set, bound to the schema version it was
// validated against.
type Submission struct {
	ID          string            `json:"id"`
	FormID      string            `json:"formId"`
	FormVersion int               `json:"formVersion"`
	Answers     map[string]string `json:"answers"`
	SubmittedAt time.Time         `json:"submittedAt"`
}

func cloneFields(fields []FieldSpec) []FieldSpec {
	if fields == nil {
		return nil
	}
	out := make([]FieldSpec, len(fields))
	for i, f := range fields {
		out[i] = f.Clone()
	}
	return out
}
