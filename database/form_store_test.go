package database

import (
	"context"
	"testing"
	"time"

	"github.com/mbolis/quick-forms/forms"
	"github.com/mbolis/quick-forms/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var created = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

func schemaV(id string, version int, title string) model.FormSchema {
	return model.FormSchema{
		ID:          id,
		Version:     version,
		Title:       title,
		Description: "about " + title,
		CreatedAt:   created,
		Fields: []model.FieldSpec{
			model.TextField("name", "Name").AsRequired().At(1),
			model.NumberField("age", "Age").WithBounds(model.Between(18, 65)).At(2),
			model.SelectField("plan", "Plan", model.Option{Label: "Pro", Value: "pro"}).At(3),
		},
	}
}

func TestFormStore_PutAndGet(t *testing.T) {
	st := NewFormStore(openTestDB(t))
	ctx := context.Background()

	v1 := schemaV("f1", 1, "Signup")
	require.NoError(t, st.Put(ctx, v1))

	got, err := st.Get(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, v1, got)

	_, err = st.Get(ctx, "nope")
	assert.ErrorIs(t, err, forms.ErrNotFound)

	// creating the same id twice conflicts
	assert.ErrorIs(t, st.Put(ctx, v1), forms.ErrVersionConflict)
}

func TestFormStore_OptimisticVersions(t *testing.T) {
	st := NewFormStore(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, st.Put(ctx, schemaV("f1", 1, "One")))
	require.NoError(t, st.Put(ctx, schemaV("f1", 2, "Two")))

	// a second writer that also read version 1
	assert.ErrorIs(t, st.Put(ctx, schemaV("f1", 2, "Other")), forms.ErrVersionConflict)
	assert.ErrorIs(t, st.Put(ctx, schemaV("f1", 4, "Skip")), forms.ErrVersionConflict)
	assert.ErrorIs(t, st.Put(ctx, schemaV("ghost", 2, "Ghost")), forms.ErrNotFound)

	cur, err := st.Get(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, 2, cur.Version)
	assert.Equal(t, "Two", cur.Title)

	old, err := st.GetVersion(ctx, "f1", 1)
	require.NoError(t, err)
	assert.Equal(t, "One", old.Title)
	assert.Equal(t, created, old.CreatedAt)

	_, err = st.GetVersion(ctx, "f1", 3)
	assert.ErrorIs(t, err, forms.ErrNotFound)
}

func TestFormStore_ListInCreationOrder(t *testing.T) {
	st := NewFormStore(openTestDB(t))
	ctx := context.Background()

	for _, id := range []string{"b", "a", "c"} {
		require.NoError(t, st.Put(ctx, schemaV(id, 1, id)))
	}
	require.NoError(t, st.Put(ctx, schemaV("b", 2, "b2")))
	require.NoError(t, st.Delete(ctx, "c"))

	list, err := st.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, 2, list[0].Version)
	assert.Equal(t, "a", list[1].ID)
}

func TestFormStore_DeleteIsSoft(t *testing.T) {
	st := NewFormStore(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, st.Put(ctx, schemaV("f1", 1, "Signup")))
	sub := model.Submission{ID: "s1", FormID: "f1", FormVersion: 1, SubmittedAt: created.Add(time.Minute), Answers: map[string]string{"name": "Ann"}}
	require.NoError(t, st.AppendSubmission(ctx, sub))

	require.NoError(t, st.Delete(ctx, "f1"))
	assert.ErrorIs(t, st.Delete(ctx, "f1"), forms.ErrNotFound)

	_, err := st.Get(ctx, "f1")
	assert.ErrorIs(t, err, forms.ErrNotFound)
	assert.ErrorIs(t, st.Put(ctx, schemaV("f1", 2, "Back")), forms.ErrNotFound)
	assert.ErrorIs(t, st.AppendSubmission(ctx, model.Submission{ID: "s2", FormID: "f1", FormVersion: 1, SubmittedAt: created}), forms.ErrNotFound)

	_, err = st.GetVersion(ctx, "f1", 1)
	assert.NoError(t, err)
	subs, err := st.ListSubmissions(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, []model.Submission{sub}, subs)
}

func TestFormStore_Submissions(t *testing.T) {
	st := NewFormStore(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, st.Put(ctx, schemaV("f1", 1, "Signup")))
	require.NoError(t, st.Put(ctx, schemaV("f1", 2, "Signup")))

	late := model.Submission{ID: "late", FormID: "f1", FormVersion: 2, SubmittedAt: created.Add(2 * time.Hour), Answers: map[string]string{"name": "Ben"}}
	early := model.Submission{ID: "early", FormID: "f1", FormVersion: 1, SubmittedAt: created.Add(time.Hour), Answers: map[string]string{"name": "Ann", "age": "30"}}
	require.NoError(t, st.AppendSubmission(ctx, late))
	require.NoError(t, st.AppendSubmission(ctx, early))

	assert.ErrorIs(t, st.AppendSubmission(ctx, model.Submission{ID: "x", FormID: "f1", FormVersion: 3, SubmittedAt: created}), forms.ErrNotFound)
	assert.ErrorIs(t, st.AppendSubmission(ctx, model.Submission{ID: "y", FormID: "nope", FormVersion: 1, SubmittedAt: created}), forms.ErrNotFound)

	subs, err := st.ListSubmissions(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, []model.Submission{early, late}, subs)

	_, err = st.ListSubmissions(ctx, "nope")
	assert.ErrorIs(t, err, forms.ErrNotFound)
}

func TestFormStore_WithEngine(t *testing.T) {
	st := NewFormStore(openTestDB(t))
	ctx := context.Background()
	admin := forms.Credential{Subject: "root", Roles: []string{"admin"}}
	engine := forms.NewEngine(st, forms.RoleAuthorizer{Role: "admin"})

	form, err := engine.CreateForm(ctx, admin, model.NewDraft("Poll", "Pick one").
		WithField(model.RadioField("color", "Color", model.Option{Label: "Red", Value: "r"}).AsRequired()))
	require.NoError(t, err)
	plan, err := engine.Plan(ctx, form.ID, 0)
	require.NoError(t, err)

	_, err = engine.Submit(ctx, engine.NewDraft(plan).Set("color", "r"))
	require.NoError(t, err)

	_, err = engine.UpdateForm(ctx, admin, form.ID, 1, form.Draft().WithTitle("Poll 2"))
	require.NoError(t, err)
	_, err = engine.UpdateForm(ctx, admin, form.ID, 1, form.Draft().WithTitle("Poll 3"))
	assert.ErrorIs(t, err, forms.ErrVersionConflict)

	table, err := engine.Export(ctx, admin, form.ID)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"r"}, table.Rows[0].Values)

	// deleted forms keep their submissions exportable
	require.NoError(t, engine.DeleteForm(ctx, admin, form.ID))
	table, err = engine.Export(ctx, admin, form.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Version)
	assert.Equal(t, "Poll 2", table.Title)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"r"}, table.Rows[0].Values)
}
