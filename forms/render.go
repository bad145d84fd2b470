package forms

import (
	"sort"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mbolis/quick-forms/model"
)

var (
	descriptionPolicyOnce sync.Once
	descriptionPolicy     *bluemonday.Policy
)

func descriptionSanitizer() *bluemonday.Policy {
	descriptionPolicyOnce.Do(func() {
		descriptionPolicy = bluemonday.UGCPolicy()
	})
	return descriptionPolicy
}

// Project derives the render plan of a schema. Fields are sorted by order;
// fields sharing an order keep their declaration sequence. Every value in the
// plan is a copy, so the plan cannot be used to alter the schema.
func Project(s model.FormSchema) model.RenderPlan {
	idx := make([]int, len(s.Fields))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return s.Fields[idx[a]].Order < s.Fields[idx[b]].Order
	})

	plan := model.RenderPlan{
		FormID:      s.ID,
		Version:     s.Version,
		Title:       s.Title,
		Description: s.Description,
		Fields:      make([]model.RenderInstruction, 0, len(s.Fields)),
	}
	if html := strings.TrimSpace(descriptionSanitizer().Sanitize(s.Description)); html != "" {
		plan.DescriptionHTML = html
	}

	for pos, i := range idx {
		f := s.Fields[i].Clone()
		in := model.RenderInstruction{
			Position: pos + 1,
			Name:     f.Name,
			Label:    f.Label,
			Type:     f.Type,
			Required: f.Required,
		}
		if f.Type.Bounds() != model.NoBounds && f.Validation != nil {
			in.Min = f.Validation.Min
			in.Max = f.Validation.Max
		}
		if f.Type.HasOptions() {
			in.Options = f.Options
		}
		plan.Fields = append(plan.Fields, in)
	}
	return plan
}
