package forms

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid"
	"github.com/mbolis/quick-forms/log"
	"github.com/mbolis/quick-forms/model"
)

// Engine runs the form operations: authorization, validation, then
// persistence. It holds no form state of its own.
type Engine struct {
	store Store
	auth  Authorizer
	now   func() time.Time
	newID func() string
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithIDs(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

func NewEngine(store Store, auth Authorizer, opts ...Option) *Engine {
	e := &Engine{
		store: store,
		auth:  auth,
		now:   time.Now,
		newID: func() string { return uuid.Must(uuid.NewV4()).String() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) authorize(cred Credential) error {
	if e.auth == nil || !e.auth.IsAuthorizedAdmin(cred) {
		return ErrUnauthorized
	}
	return nil
}

func (e *Engine) CreateForm(ctx context.Context, cred Credential, d model.FormDraft) (model.FormSchema, error) {
	if err := e.authorize(cred); err != nil {
		return model.FormSchema{}, err
	}
	s, err := Accept(d, nil, e.newID(), e.now().UTC())
	if err != nil {
		return model.FormSchema{}, err
	}
	if err := e.store.Put(ctx, s); err != nil {
		return model.FormSchema{}, err
	}
	log.WithFields(log.Fields{"form": s.ID, "version": s.Version, "by": cred.Subject}).Info("form created")
	return s, nil
}

// UpdateForm replaces a form's content. readVersion is the version the
// caller based the edit on; if the form moved past it the edit is refused
// with ErrVersionConflict.
func (e *Engine) UpdateForm(ctx context.Context, cred Credential, id string, readVersion int, d model.FormDraft) (model.FormSchema, error) {
	if err := e.authorize(cred); err != nil {
		return model.FormSchema{}, err
	}
	cur, err := e.store.Get(ctx, id)
	if err != nil {
		return model.FormSchema{}, err
	}
	if cur.Version != readVersion {
		return model.FormSchema{}, ErrVersionConflict
	}
	s, err := Accept(d, &cur, "", e.now().UTC())
	if err != nil {
		return model.FormSchema{}, err
	}
	if err := e.store.Put(ctx, s); err != nil {
		return model.FormSchema{}, err
	}
	log.WithFields(log.Fields{"form": s.ID, "version": s.Version, "by": cred.Subject}).Info("form updated")
	return s, nil
}

func (e *Engine) DeleteForm(ctx context.Context, cred Credential, id string) error {
	if err := e.authorize(cred); err != nil {
		return err
	}
	if err := e.store.Delete(ctx, id); err != nil {
		return err
	}
	log.WithFields(log.Fields{"form": id, "by": cred.Subject}).Info("form deleted")
	return nil
}

func (e *Engine) ListForms(ctx context.Context) ([]model.FormSchema, error) {
	return e.store.List(ctx)
}

func (e *Engine) GetForm(ctx context.Context, id string) (model.FormSchema, error) {
	return e.store.Get(ctx, id)
}

// GetFormVersion returns a past or current version, also for deleted forms.
func (e *Engine) GetFormVersion(ctx context.Context, id string, version int) (model.FormSchema, error) {
	return e.store.GetVersion(ctx, id, version)
}

// Plan projects a live form. Version 0 selects the current version.
func (e *Engine) Plan(ctx context.Context, id string, version int) (model.RenderPlan, error) {
	s, err := e.live(ctx, id, version)
	if err != nil {
		return model.RenderPlan{}, err
	}
	return Project(s), nil
}

func (e *Engine) live(ctx context.Context, id string, version int) (model.FormSchema, error) {
	cur, err := e.store.Get(ctx, id)
	if err != nil {
		return model.FormSchema{}, err
	}
	if version == 0 || version == cur.Version {
		return cur, nil
	}
	if version > cur.Version {
		return model.FormSchema{}, ErrNotFound
	}
	return e.store.GetVersion(ctx, id, version)
}

// NewDraft starts a submission pinned to the plan's form version.
func (e *Engine) NewDraft(plan model.RenderPlan) *SubmissionDraft {
	return NewSubmissionDraft(plan.FormID, plan.Version)
}

// Submit validates the draft against its pinned form version and records it.
// The draft ends Accepted or Rejected; a rejected draft cannot be submitted
// again.
func (e *Engine) Submit(ctx context.Context, d *SubmissionDraft) (model.Submission, error) {
	if err := d.advance(StateValidating); err != nil {
		return model.Submission{}, err
	}
	sub, err := e.submit(ctx, d)
	if err != nil {
		d.advance(StateRejected)
		return model.Submission{}, err
	}
	d.advance(StateAccepted)
	log.WithFields(log.Fields{"form": sub.FormID, "version": sub.FormVersion, "submission": sub.ID}).Info("submission accepted")
	return sub, nil
}

func (e *Engine) submit(ctx context.Context, d *SubmissionDraft) (model.Submission, error) {
	s, err := e.live(ctx, d.FormID(), d.Version())
	if err != nil {
		return model.Submission{}, err
	}
	answers, err := ValidateAnswers(s, d.Answers())
	if err != nil {
		return model.Submission{}, err
	}
	sub := model.Submission{
		ID:          e.newID(),
		FormID:      s.ID,
		FormVersion: s.Version,
		Answers:     answers,
		SubmittedAt: e.now().UTC(),
	}
	if err := e.store.AppendSubmission(ctx, sub); err != nil {
		return model.Submission{}, err
	}
	return sub, nil
}

// Submissions lists a form's submissions by submission time. Submissions of
// deleted forms remain listable.
func (e *Engine) Submissions(ctx context.Context, cred Credential, id string) ([]model.Submission, error) {
	if err := e.authorize(cred); err != nil {
		return nil, err
	}
	return e.store.ListSubmissions(ctx, id)
}

// Export lays out a form's submissions against the columns of its latest
// version plus the fields of the older versions they were pinned to. Deleted
// forms can still be exported.
func (e *Engine) Export(ctx context.Context, cred Credential, id string) (ExportTable, error) {
	if err := e.authorize(cred); err != nil {
		return ExportTable{}, err
	}
	s, err := e.latest(ctx, id)
	if err != nil {
		return ExportTable{}, err
	}
	subs, err := e.store.ListSubmissions(ctx, id)
	if err != nil {
		return ExportTable{}, err
	}

	var older []model.FormSchema
	pinned := map[int]bool{s.Version: true}
	for _, sub := range subs {
		if pinned[sub.FormVersion] {
			continue
		}
		pinned[sub.FormVersion] = true
		prev, err := e.store.GetVersion(ctx, id, sub.FormVersion)
		if err != nil {
			return ExportTable{}, err
		}
		older = append(older, prev)
	}
	return BuildExport(s, older, subs), nil
}

// latest returns the current version of a form, or the last accepted one if
// the form was deleted.
func (e *Engine) latest(ctx context.Context, id string) (model.FormSchema, error) {
	cur, err := e.store.Get(ctx, id)
	if !errors.Is(err, ErrNotFound) {
		return cur, err
	}
	last, err := e.store.GetVersion(ctx, id, 1)
	if err != nil {
		return model.FormSchema{}, err
	}
	for {
		next, err := e.store.GetVersion(ctx, id, last.Version+1)
		if errors.Is(err, ErrNotFound) {
			return last, nil
		}
		if err != nil {
			return model.FormSchema{}, err
		}
		last = next
	}
}
