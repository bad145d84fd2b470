package database

import (
	"context"
	"database/sql"
	"time"

	json "github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/mbolis/quick-forms/forms"
	"github.com/mbolis/quick-forms/model"
	"github.com/pkg/errors"
)

// FormStore is the SQLite implementation of forms.Store. Every accepted
// version is kept in form_version; form points at the current one.
type FormStore struct {
	db *sqlx.DB
}

func NewFormStore(db *sqlx.DB) *FormStore {
	return &FormStore{db}
}

type formRow struct {
	ID          string `db:"id"`
	Version     int    `db:"version"`
	Title       string `db:"title"`
	Description string `db:"description"`
	Fields      string `db:"fields"`
	CreatedAt   int64  `db:"created_at"`
}

func (r formRow) schema() (model.FormSchema, error) {
	s := model.FormSchema{
		ID:          r.ID,
		Version:     r.Version,
		Title:       r.Title,
		Description: r.Description,
		CreatedAt:   time.Unix(0, r.CreatedAt).UTC(),
	}
	if err := json.Unmarshal([]byte(r.Fields), &s.Fields); err != nil {
		return model.FormSchema{}, errors.Wrapf(err, "decode fields of %s v%d", r.ID, r.Version)
	}
	if s.Fields == nil {
		s.Fields = []model.FieldSpec{}
	}
	return s, nil
}

type submissionRow struct {
	ID          string `db:"id"`
	FormID      string `db:"form_id"`
	FormVersion int    `db:"form_version"`
	SubmittedAt int64  `db:"submitted_at"`
	Answers     string `db:"answers"`
}

func (r submissionRow) submission() (model.Submission, error) {
	s := model.Submission{
		ID:          r.ID,
		FormID:      r.FormID,
		FormVersion: r.FormVersion,
		SubmittedAt: time.Unix(0, r.SubmittedAt).UTC(),
	}
	if err := json.Unmarshal([]byte(r.Answers), &s.Answers); err != nil {
		return model.Submission{}, errors.Wrapf(err, "decode answers of %s", r.ID)
	}
	return s, nil
}

const selectForm = `
	SELECT
		f.id, v.version, v.title, v.description, v.fields, f.created_at
	FROM form f
	INNER JOIN form_version v ON (v.form_id = f.id)`

func (st *FormStore) Get(ctx context.Context, id string) (model.FormSchema, error) {
	return st.getOne(ctx, selectForm+`
		WHERE f.id = ?
			AND v.version = f.version
			AND f.deleted_at IS NULL`,
		id,
	)
}

func (st *FormStore) GetVersion(ctx context.Context, id string, version int) (model.FormSchema, error) {
	return st.getOne(ctx, selectForm+`
		WHERE f.id = ?
			AND v.version = ?`,
		id,
		version,
	)
}

func (st *FormStore) getOne(ctx context.Context, query string, args ...any) (model.FormSchema, error) {
	var row formRow
	err := st.db.GetContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return model.FormSchema{}, forms.ErrNotFound
	}
	if err != nil {
		return model.FormSchema{}, errors.Wrap(err, "db.get_form")
	}
	return row.schema()
}

func (st *FormStore) List(ctx context.Context) ([]model.FormSchema, error) {
	var rows []formRow
	err := st.db.SelectContext(ctx, &rows, selectForm+`
		WHERE v.version = f.version
			AND f.deleted_at IS NULL
		ORDER BY f.rowid`)
	if err != nil {
		return nil, errors.Wrap(err, "db.list_forms")
	}

	out := make([]model.FormSchema, 0, len(rows))
	for _, row := range rows {
		s, err := row.schema()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (st *FormStore) Put(ctx context.Context, s model.FormSchema) error {
	fields := s.Fields
	if fields == nil {
		fields = []model.FieldSpec{}
	}
	fieldsJson, err := json.Marshal(fields)
	if err != nil {
		return errors.Wrap(err, "db.put_form.encode_fields")
	}

	tx, err := st.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "db.begin_tx")
	}
	defer tx.Rollback()

	if s.Version == 1 {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO form (id, version, created_at) VALUES (?, ?, ?)`,
			s.ID,
			s.Version,
			s.CreatedAt.UnixNano(),
		)
		if isConstraint(err) {
			return forms.ErrVersionConflict
		}
		if err != nil {
			return errors.Wrap(err, "db.put_form.insert")
		}
	} else {
		// optimistic lock
		res, err := tx.ExecContext(ctx, `
			UPDATE form
			SET version = ?
			WHERE id = ?
				AND version = ?
				AND deleted_at IS NULL`,
			s.Version,
			s.ID,
			s.Version-1,
		)
		if err != nil {
			return errors.Wrap(err, "db.put_form.update")
		}
		n, err := res.RowsAffected()
		if err != nil {
			return errors.Wrap(err, "db.put_form.verify")
		}
		if n < 1 {
			return st.missOrConflict(ctx, tx, s.ID)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO form_version (form_id, version, title, description, fields)
		VALUES (?, ?, ?, ?, ?)`,
		s.ID,
		s.Version,
		s.Title,
		s.Description,
		string(fieldsJson),
	)
	if err != nil {
		return errors.Wrap(err, "db.put_form.insert_version")
	}

	return errors.Wrap(tx.Commit(), "db.put_form.commit")
}

func (st *FormStore) missOrConflict(ctx context.Context, tx *sqlx.Tx, id string) error {
	var deletedAt sql.NullInt64
	err := tx.GetContext(ctx, &deletedAt, `SELECT deleted_at FROM form WHERE id = ?`, id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return forms.ErrNotFound
	case err != nil:
		return errors.Wrap(err, "db.put_form.lookup")
	case deletedAt.Valid:
		return forms.ErrNotFound
	default:
		return forms.ErrVersionConflict
	}
}

func (st *FormStore) Delete(ctx context.Context, id string) error {
	res, err := st.db.ExecContext(ctx, `
		UPDATE form
		SET deleted_at = ?
		WHERE id = ?
			AND deleted_at IS NULL`,
		time.Now().UnixNano(),
		id,
	)
	if err != nil {
		return errors.Wrap(err, "db.delete_form")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "db.delete_form.verify")
	}
	if n < 1 {
		return forms.ErrNotFound
	}
	return nil
}

func (st *FormStore) ListSubmissions(ctx context.Context, formID string) ([]model.Submission, error) {
	var exists bool
	err := st.db.GetContext(ctx, &exists, `SELECT 1 FROM form WHERE id = ?`, formID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, forms.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "db.get_submissions.form")
	}

	var rows []submissionRow
	err = st.db.SelectContext(ctx, &rows, `
		SELECT id, form_id, form_version, submitted_at, answers
		FROM submission
		WHERE form_id = ?
		ORDER BY submitted_at, rowid`,
		formID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "db.get_submissions")
	}

	out := make([]model.Submission, 0, len(rows))
	for _, row := range rows {
		s, err := row.submission()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (st *FormStore) AppendSubmission(ctx context.Context, sub model.Submission) error {
	answers := sub.Answers
	if answers == nil {
		answers = map[string]string{}
	}
	answersJson, err := json.Marshal(answers)
	if err != nil {
		return errors.Wrap(err, "db.insert_submission.encode_answers")
	}

	// the form must be live and the version must exist
	res, err := st.db.ExecContext(ctx, `
		INSERT INTO submission (id, form_id, form_version, submitted_at, answers)
		SELECT ?, v.form_id, v.version, ?, ?
		FROM form_version v
		INNER JOIN form f ON (f.id = v.form_id)
		WHERE v.form_id = ?
			AND v.version = ?
			AND f.deleted_at IS NULL`,
		sub.ID,
		sub.SubmittedAt.UnixNano(),
		string(answersJson),
		sub.FormID,
		sub.FormVersion,
	)
	if err != nil {
		return errors.Wrap(err, "db.insert_submission")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "db.insert_submission.verify")
	}
	if n < 1 {
		return forms.ErrNotFound
	}
	return nil
}

func isConstraint(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.Code == sqlite3.ErrConstraint
}
