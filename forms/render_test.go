package forms_test

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mbolis/quick-forms/forms"
	"github.com/mbolis/quick-forms/model"
)

func names(plan model.RenderPlan) []string {
	out := make([]string, len(plan.Fields))
	for i, in := range plan.Fields {
		out[i] = in.Name
	}
	return out
}

func TestProject_TiesKeepDeclarationOrder(t *testing.T) {
	s := model.FormSchema{
		ID: "f", Version: 1, Title: "T", Description: "D",
		Fields: []model.FieldSpec{
			model.TextField("B", "B").At(1),
			model.TextField("A", "A").At(1),
		},
	}

	got := names(forms.Project(s))
	if diff := cmp.Diff([]string{"B", "A"}, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestProject_SortsByOrder(t *testing.T) {
	s := model.FormSchema{
		ID: "f", Version: 3, Title: "T", Description: "D",
		Fields: []model.FieldSpec{
			model.TextField("third", "Third").At(5),
			model.TextField("first", "First").At(-1),
			model.TextField("second", "Second").At(2),
			model.TextField("second_b", "Second too").At(2),
		},
	}

	plan := forms.Project(s)
	if diff := cmp.Diff([]string{"first", "second", "second_b", "third"}, names(plan)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	for i, in := range plan.Fields {
		if in.Position != i+1 {
			t.Fatalf("field %s at position %d, want %d", in.Name, in.Position, i+1)
		}
	}
	if plan.FormID != "f" || plan.Version != 3 {
		t.Fatalf("plan bound to %s v%d, want f v3", plan.FormID, plan.Version)
	}
}

func TestProject_SameOrderPermutationsAreStable(t *testing.T) {
	fields := []model.FieldSpec{
		model.TextField("a", "A").At(2),
		model.TextField("b", "B").At(1),
		model.TextField("c", "C").At(2),
		model.TextField("d", "D").At(1),
		model.TextField("e", "E").At(3),
	}
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 20; i++ {
		perm := rng.Perm(len(fields))
		shuffled := make([]model.FieldSpec, len(fields))
		for j, p := range perm {
			shuffled[j] = fields[p]
		}

		// expected: ascending order, then shuffled declaration sequence
		var want []string
		for _, order := range []int{1, 2, 3} {
			for _, f := range shuffled {
				if f.Order == order {
					want = append(want, f.Name)
				}
			}
		}

		got := names(forms.Project(model.FormSchema{Fields: shuffled}))
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("permutation %v (-want +got):\n%s", perm, diff)
		}
	}
}

func TestProject_Idempotent(t *testing.T) {
	s := model.FormSchema{
		ID: "f", Version: 2, Title: "Survey", Description: "<b>Tell</b> us <script>alert(1)</script>",
		Fields: []model.FieldSpec{
			model.NumberField("age", "Age").AsRequired().WithBounds(model.Between(18, 65)).At(2),
			model.SelectField("plan", "Plan", model.Option{Label: "Basic", Value: "basic"}).At(1),
			model.CheckboxField("news", "Newsletter").At(1),
		},
	}

	first, err := json.Marshal(forms.Project(s))
	if err != nil {
		t.Fatal(err)
	}
	second, err := json.Marshal(forms.Project(s))
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Fatalf("projection not idempotent:\n%s\n%s", first, second)
	}
}

func TestProject_InstructionContent(t *testing.T) {
	s := model.FormSchema{
		ID: "f", Version: 1, Title: "T", Description: "Hello <script>x()</script><b>there</b>",
		Fields: []model.FieldSpec{
			model.NumberField("age", "Age").AsRequired().WithBounds(model.Between(18, 65)).At(1),
			// attributes that do not apply to the type are not rendered
			{Name: "news", Label: "News", Type: model.Checkbox, Order: 2,
				Options: []model.Option{{Label: "x", Value: "x"}}, Validation: model.Between(1, 2)},
			model.RadioField("size", "Size", model.Option{Label: "Small", Value: "s"}, model.Option{Label: "Large", Value: "l"}).At(3),
		},
	}

	want := model.RenderPlan{
		FormID:          "f",
		Version:         1,
		Title:           "T",
		Description:     "Hello <script>x()</script><b>there</b>",
		DescriptionHTML: "Hello <b>there</b>",
		Fields: []model.RenderInstruction{
			{Position: 1, Name: "age", Label: "Age", Type: model.Number, Required: true, Min: ptr(18.0), Max: ptr(65.0)},
			{Position: 2, Name: "news", Label: "News", Type: model.Checkbox},
			{Position: 3, Name: "size", Label: "Size", Type: model.Radio,
				Options: []model.Option{{Label: "Small", Value: "s"}, {Label: "Large", Value: "l"}}},
		},
	}
	if diff := cmp.Diff(want, forms.Project(s)); diff != "" {
		t.Fatalf("plan mismatch (-want +got):\n%s", diff)
	}
}

func TestProject_PlanDoesNotAliasSchema(t *testing.T) {
	s := model.FormSchema{
		Fields: []model.FieldSpec{
			model.NumberField("n", "N").WithBounds(model.Between(1, 2)),
			model.SelectField("s", "S", model.Option{Label: "A", Value: "a"}),
		},
	}
	plan := forms.Project(s)
	*plan.Fields[0].Min = 100
	plan.Fields[1].Options[0].Value = "changed"

	if *s.Fields[0].Validation.Min != 1 {
		t.Fatalf("schema bounds changed through plan")
	}
	if s.Fields[1].Options[0].Value != "a" {
		t.Fatalf("schema options changed through plan")
	}
}

func ptr[T any](v T) *T {
	return &v
}
