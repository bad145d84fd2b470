package model

import (
	"fmt"
	"regexp"
	"strings"
)

// FormDraft is the content an administrator submits to create or replace a
// form. Builder methods never modify the receiver; each returns a new draft.
type FormDraft struct {
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description" yaml:"description"`
	Fields      []FieldSpec `json:"fields" yaml:"fields"`
}

func NewDraft(title, description string) FormDraft {
	return FormDraft{Title: title, Description: description}
}

func (d FormDraft) Clone() FormDraft {
	c := d
	c.Fields = cloneFields(d.Fields)
	return c
}

func (d FormDraft) WithTitle(title string) FormDraft {
	c := d.Clone()
	c.Title = title
	return c
}

func (d FormDraft) WithDescription(description string) FormDraft {
	c := d.Clone()
	c.Description = description
	return c
}

// WithField appends a field. A blank name is derived from the label and a
// zero order is set to the field's position.
func (d FormDraft) WithField(f FieldSpec) FormDraft {
	c := d.Clone()
	f = f.Clone()
	if f.Name == "" {
		taken := make([]string, len(c.Fields))
		for i, prev := range c.Fields {
			taken[i] = prev.Name
		}
		f.Name = FieldName(f.Label, taken)
	}
	if f.Order == 0 {
		f.Order = len(c.Fields) + 1
	}
	c.Fields = append(c.Fields, f)
	return c
}

// ReplaceField swaps the field with the given name. The draft is returned
// unchanged if no field has that name.
func (d FormDraft) ReplaceField(name string, f FieldSpec) FormDraft {
	c := d.Clone()
	for i, prev := range c.Fields {
		if prev.Name == name {
			c.Fields[i] = f.Clone()
			break
		}
	}
	return c
}

func (d FormDraft) WithoutField(name string) FormDraft {
	c := d.Clone()
	fields := c.Fields[:0]
	for _, f := range c.Fields {
		if f.Name != name {
			fields = append(fields, f)
		}
	}
	c.Fields = fields
	return c
}

var reNoIdent = regexp.MustCompile(`\W+`)

// FieldName turns a label into an answer key, suffixing "__N" when the base
// name is already taken.
func FieldName(label string, taken []string) string {
	name := strings.ToLower(label)
	name = reNoIdent.ReplaceAllLiteralString(name, " ")
	name = strings.Join(strings.Fields(name), "_")
	if name == "" {
		name = "field"
	}

	used := make(map[string]bool, len(taken))
	for _, t := range taken {
		used[t] = true
	}
	candidate := name
	for n := 1; used[candidate]; n++ {
		candidate = fmt.Sprintf("%s__%d", name, n)
	}
	return candidate
}

func TextField(name, label string) FieldSpec {
	return FieldSpec{Name: name, Label: label, Type: Text}
}

func EmailField(name, label string) FieldSpec {
	return FieldSpec{Name: name, Label: label, Type: Email}
}

func NumberField(name, label string) FieldSpec {
	return FieldSpec{Name: name, Label: label, Type: Number}
}

func CheckboxField(name, label string) FieldSpec {
	return FieldSpec{Name: name, Label: label, Type: Checkbox}
}

func RadioField(name, label string, options ...Option) FieldSpec {
	return FieldSpec{Name: name, Label: label, Type: Radio, Options: options}
}

func SelectField(name, label string, options ...Option) FieldSpec {
	return FieldSpec{Name: name, Label: label, Type: Select, Options: options}
}

func (f FieldSpec) AsRequired() FieldSpec {
	c := f.Clone()
	c.Required = true
	return c
}

func (f FieldSpec) WithBounds(b *Bounds) FieldSpec {
	c := f.Clone()
	c.Validation = b.clone()
	return c
}

func (f FieldSpec) At(order int) FieldSpec {
	c := f.Clone()
	c.Order = order
	return c
}
