package forms

import (
	"fmt"
	"strings"
	"time"

	"github.com/mbolis/quick-forms/model"
)

// ValidateDraft checks a draft for structural consistency. All problems are
// reported, in field declaration order.
func ValidateDraft(d model.FormDraft) error {
	c := &collector{}

	if strings.TrimSpace(d.Title) == "" {
		c.add("", "", CodeMissing, "title is required")
	}
	if strings.TrimSpace(d.Description) == "" {
		c.add("", "", CodeMissing, "description is required")
	}

	seen := make(map[string]bool, len(d.Fields))
	for i, f := range d.Fields {
		// fields without a name are reported by position
		key := f.Name
		if strings.TrimSpace(key) == "" {
			key = fmt.Sprintf("#%d", i+1)
		}

		if strings.TrimSpace(f.Label) == "" {
			c.add(key, f.Label, CodeMissing, "label is required")
		}
		switch {
		case strings.TrimSpace(f.Name) == "":
			c.add(key, f.Label, CodeMissing, "name is required")
		case strings.TrimSpace(f.Name) != f.Name:
			c.add(key, f.Label, CodeInvalidName, fmt.Sprintf("name %q has surrounding spaces", f.Name))
		case seen[f.Name]:
			c.add(key, f.Label, CodeDuplicate, fmt.Sprintf("name %q is used by another field", f.Name))
		}
		seen[f.Name] = true

		if !f.Type.Valid() {
			c.add(key, f.Label, CodeUnknownType, fmt.Sprintf("unknown field type %q, expected one of %s", f.Type, knownTypes()))
			continue
		}

		if f.Type.HasOptions() {
			validateOptions(c, key, f)
		}
		if f.Type.Bounds() != model.NoBounds && f.Validation != nil {
			b := f.Validation
			if b.Min != nil && b.Max != nil && *b.Min > *b.Max {
				c.add(key, f.Label, CodeBoundsInverted, fmt.Sprintf("min %v is greater than max %v", *b.Min, *b.Max))
			}
			if f.Type.Bounds() == model.LengthBounds && b.Min != nil && *b.Min < 0 {
				c.add(key, f.Label, CodeBounds, "min length cannot be negative")
			}
		}
	}

	return c.result(ErrSchemaInvalid)
}

func knownTypes() string {
	types := model.FieldTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}

func validateOptions(c *collector, key string, f model.FieldSpec) {
	if len(f.Options) == 0 {
		c.add(key, f.Label, CodeOptionsEmpty, fmt.Sprintf("%s field needs at least one option", f.Type))
		return
	}
	values := make(map[string]bool, len(f.Options))
	for _, o := range f.Options {
		if values[o.Value] {
			c.add(key, f.Label, CodeOptionDuplicate, fmt.Sprintf("option value %q is repeated", o.Value))
		}
		values[o.Value] = true
	}
}

// Accept validates a draft and turns it into a schema. With prev nil a new
// schema is created at version 1; otherwise prev's id and createdAt are kept
// and the version is bumped. prev is never modified.
func Accept(d model.FormDraft, prev *model.FormSchema, id string, now time.Time) (model.FormSchema, error) {
	if err := ValidateDraft(d); err != nil {
		return model.FormSchema{}, err
	}

	d = d.Clone()
	s := model.FormSchema{
		Title:       d.Title,
		Description: d.Description,
		Fields:      d.Fields,
	}
	if s.Fields == nil {
		s.Fields = []model.FieldSpec{}
	}
	if prev == nil {
		s.ID = id
		s.Version = 1
		s.CreatedAt = now
	} else {
		s.ID = prev.ID
		s.Version = prev.Version + 1
		s.CreatedAt = prev.CreatedAt
	}
	return s, nil
}
