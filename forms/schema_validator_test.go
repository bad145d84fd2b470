package forms

import (
	"testing"
	"time"

	"github.com/mbolis/quick-forms/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codes(err error) map[string][]string {
	out := map[string][]string{}
	for _, fe := range FieldErrors(err) {
		out[fe.Field] = append(out[fe.Field], fe.Code)
	}
	return out
}

func TestValidateDraft(t *testing.T) {
	t.Parallel()

	basic := model.Option{Label: "Basic", Value: "basic"}

	tests := map[string]struct {
		draft model.FormDraft
		want  map[string][]string
	}{
		"valid": {
			draft: model.NewDraft("Signup", "Join us").
				WithField(model.TextField("name", "Name").AsRequired().WithBounds(model.Between(2, 40))).
				WithField(model.EmailField("email", "Email")).
				WithField(model.NumberField("age", "Age").WithBounds(model.Between(18, 65))).
				WithField(model.SelectField("plan", "Plan", basic)).
				WithField(model.CheckboxField("terms", "Terms")),
			want: map[string][]string{},
		},
		"no fields": {
			draft: model.NewDraft("Empty", "Nothing to ask"),
			want:  map[string][]string{},
		},
		"missing title and description": {
			draft: model.NewDraft(" ", ""),
			want:  map[string][]string{"": {CodeMissing, CodeMissing}},
		},
		"missing label and name": {
			draft: model.FormDraft{Title: "T", Description: "D", Fields: []model.FieldSpec{
				{Type: model.Text},
			}},
			want: map[string][]string{"#1": {CodeMissing, CodeMissing}},
		},
		"duplicate names": {
			draft: model.FormDraft{Title: "T", Description: "D", Fields: []model.FieldSpec{
				model.TextField("a", "A"),
				model.TextField("a", "Other A"),
				model.TextField("A", "Upper A"),
			}},
			want: map[string][]string{"a": {CodeDuplicate}},
		},
		"unknown type": {
			draft: model.FormDraft{Title: "T", Description: "D", Fields: []model.FieldSpec{
				{Name: "when", Label: "When", Type: "date"},
			}},
			want: map[string][]string{"when": {CodeUnknownType}},
		},
		"empty options": {
			draft: model.FormDraft{Title: "T", Description: "D", Fields: []model.FieldSpec{
				model.RadioField("r", "R"),
				model.SelectField("s", "S"),
			}},
			want: map[string][]string{"r": {CodeOptionsEmpty}, "s": {CodeOptionsEmpty}},
		},
		"duplicate option values": {
			draft: model.FormDraft{Title: "T", Description: "D", Fields: []model.FieldSpec{
				model.SelectField("s", "S", basic, model.Option{Label: "Basic again", Value: "basic"}),
			}},
			want: map[string][]string{"s": {CodeOptionDuplicate}},
		},
		"options ignored on checkbox": {
			draft: model.FormDraft{Title: "T", Description: "D", Fields: []model.FieldSpec{
				{Name: "c", Label: "C", Type: model.Checkbox, Options: []model.Option{basic, basic}},
			}},
			want: map[string][]string{},
		},
		"inverted bounds": {
			draft: model.FormDraft{Title: "T", Description: "D", Fields: []model.FieldSpec{
				model.NumberField("n", "N").WithBounds(model.Between(10, 1)),
				model.TextField("t", "T").WithBounds(model.Between(5, 4)),
			}},
			want: map[string][]string{"n": {CodeBoundsInverted}, "t": {CodeBoundsInverted}},
		},
		"equal bounds": {
			draft: model.FormDraft{Title: "T", Description: "D", Fields: []model.FieldSpec{
				model.NumberField("n", "N").WithBounds(model.Between(3, 3)),
			}},
			want: map[string][]string{},
		},
		"blank name": {
			draft: model.FormDraft{Title: "T", Description: "D", Fields: []model.FieldSpec{
				{Name: "  ", Label: "Age", Type: model.Number},
			}},
			want: map[string][]string{"#1": {CodeMissing}},
		},
		"name with surrounding spaces": {
			draft: model.FormDraft{Title: "T", Description: "D", Fields: []model.FieldSpec{
				model.NumberField("age", "Age"),
				model.NumberField("age ", "Age again"),
			}},
			want: map[string][]string{"age ": {CodeInvalidName}},
		},
		"all problems collected": {
			draft: model.FormDraft{Title: "", Description: "D", Fields: []model.FieldSpec{
				model.SelectField("x", "X"),
				{Name: "x", Label: "", Type: "color"},
			}},
			want: map[string][]string{
				"":  {CodeMissing},
				"x": {CodeOptionsEmpty, CodeMissing, CodeDuplicate, CodeUnknownType},
			},
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			err := ValidateDraft(tc.draft)
			if len(tc.want) == 0 {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrSchemaInvalid)
			assert.Equal(t, tc.want, codes(err))
		})
	}
}

func TestValidateDraft_UnknownTypeListsKnownTypes(t *testing.T) {
	t.Parallel()

	err := ValidateDraft(model.FormDraft{Title: "T", Description: "D", Fields: []model.FieldSpec{
		{Name: "when", Label: "When", Type: "date"},
	}})
	fes := FieldErrors(err)
	require.Len(t, fes, 1)
	assert.Equal(t, `unknown field type "date", expected one of text, email, number, radio, checkbox, select`, fes[0].Message)
}

func TestValidateDraft_EmptyOptionsAttributedToField(t *testing.T) {
	t.Parallel()

	for _, typ := range []model.FieldType{model.Radio, model.Select} {
		draft := model.FormDraft{Title: "T", Description: "D", Fields: []model.FieldSpec{
			{Name: "pick", Label: "Pick one", Type: typ},
		}}
		err := ValidateDraft(draft)
		require.ErrorIs(t, err, ErrSchemaInvalid)

		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		fes := ve.For("pick")
		require.Len(t, fes, 1, typ)
		assert.Equal(t, CodeOptionsEmpty, fes[0].Code)
		assert.Equal(t, "Pick one", fes[0].Label)
	}
}

func TestAccept(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	later := created.Add(time.Hour)
	draft := model.NewDraft("Poll", "Quick poll").
		WithField(model.TextField("q1", "First")).
		WithField(model.TextField("q2", "Second").At(1))

	s, err := Accept(draft, nil, "form-1", created)
	require.NoError(t, err)
	assert.Equal(t, "form-1", s.ID)
	assert.Equal(t, 1, s.Version)
	assert.Equal(t, created, s.CreatedAt)
	assert.ElementsMatch(t, draft.Fields, s.Fields)

	edit := s.Draft().WithTitle("Poll v2")
	s2, err := Accept(edit, &s, "ignored", later)
	require.NoError(t, err)
	assert.Equal(t, "form-1", s2.ID)
	assert.Equal(t, 2, s2.Version)
	assert.Equal(t, created, s2.CreatedAt)
	assert.Equal(t, "Poll v2", s2.Title)

	// the previous schema is untouched
	assert.Equal(t, 1, s.Version)
	assert.Equal(t, "Poll", s.Title)
}

func TestAccept_RejectedDraftLeavesPreviousAuthoritative(t *testing.T) {
	t.Parallel()

	s, err := Accept(model.NewDraft("A", "B").WithField(model.TextField("x", "X")), nil, "id", time.Now())
	require.NoError(t, err)
	before := s.Clone()

	_, err = Accept(s.Draft().WithTitle(""), &s, "", time.Now())
	require.ErrorIs(t, err, ErrSchemaInvalid)
	assert.Equal(t, before, s)
}
