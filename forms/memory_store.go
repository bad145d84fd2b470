package forms

import (
	"context"
	"sort"
	"sync"

	"github.com/mbolis/quick-forms/model"
)

type memForm struct {
	versions []model.FormSchema
	deleted  bool
}

func (f *memForm) current() model.FormSchema {
	return f.versions[len(f.versions)-1]
}

// MemoryStore is a Store kept in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	forms map[string]*memForm
	order []string
	subs  map[string][]model.Submission
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		forms: map[string]*memForm{},
		subs:  map[string][]model.Submission{},
	}
}

func (m *MemoryStore) Get(_ context.Context, id string) (model.FormSchema, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.forms[id]
	if !ok || f.deleted {
		return model.FormSchema{}, ErrNotFound
	}
	return f.current().Clone(), nil
}

func (m *MemoryStore) GetVersion(_ context.Context, id string, version int) (model.FormSchema, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.forms[id]
	if !ok || version < 1 || version > len(f.versions) {
		return model.FormSchema{}, ErrNotFound
	}
	return f.versions[version-1].Clone(), nil
}

func (m *MemoryStore) List(_ context.Context) ([]model.FormSchema, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []model.FormSchema{}
	for _, id := range m.order {
		if f := m.forms[id]; !f.deleted {
			out = append(out, f.current().Clone())
		}
	}
	return out, nil
}

func (m *MemoryStore) Put(_ context.Context, s model.FormSchema) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.forms[s.ID]
	if s.Version == 1 {
		if ok {
			return ErrVersionConflict
		}
		m.forms[s.ID] = &memForm{versions: []model.FormSchema{s.Clone()}}
		m.order = append(m.order, s.ID)
		return nil
	}
	if !ok || f.deleted {
		return ErrNotFound
	}
	if f.current().Version != s.Version-1 {
		return ErrVersionConflict
	}
	f.versions = append(f.versions, s.Clone())
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.forms[id]
	if !ok || f.deleted {
		return ErrNotFound
	}
	f.deleted = true
	return nil
}

func (m *MemoryStore) ListSubmissions(_ context.Context, formID string) ([]model.Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.forms[formID]; !ok {
		return nil, ErrNotFound
	}
	subs := m.subs[formID]
	out := make([]model.Submission, len(subs))
	for i, s := range subs {
		out[i] = cloneSubmission(s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SubmittedAt.Before(out[j].SubmittedAt)
	})
	return out, nil
}

func (m *MemoryStore) AppendSubmission(_ context.Context, sub model.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.forms[sub.FormID]
	if !ok || f.deleted || sub.FormVersion < 1 || sub.FormVersion > len(f.versions) {
		return ErrNotFound
	}
	m.subs[sub.FormID] = append(m.subs[sub.FormID], cloneSubmission(sub))
	return nil
}

func cloneSubmission(s model.Submission) model.Submission {
	c := s
	c.Answers = make(map[string]string, len(s.Answers))
	for k, v := range s.Answers {
		c.Answers[k] = v
	}
	return c
}
