package forms

import (
	"fmt"
	"sync"
)

// SubmissionState is the lifecycle position of a submission draft.
type SubmissionState int

const (
	StateDraft SubmissionState = iota
	StateValidating
	StateAccepted
	StateRejected
)

func (s SubmissionState) String() string {
	switch s {
	case StateDraft:
		return "draft"
	case StateValidating:
		return "validating"
	case StateAccepted:
		return "accepted"
	case StateRejected:
		return "rejected"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var transitions = map[SubmissionState][]SubmissionState{
	StateDraft:      {StateValidating},
	StateValidating: {StateAccepted, StateRejected},
}

// SubmissionDraft collects a user's answers for one pinned form version. A
// draft is submitted once; after rejection a fresh draft must be started.
type SubmissionDraft struct {
	formID  string
	version int

	mu      sync.Mutex
	answers map[string]string
	state   SubmissionState
}

func NewSubmissionDraft(formID string, version int) *SubmissionDraft {
	return &SubmissionDraft{
		formID:  formID,
		version: version,
		answers: map[string]string{},
	}
}

func (d *SubmissionDraft) FormID() string { return d.formID }
func (d *SubmissionDraft) Version() int   { return d.version }

func (d *SubmissionDraft) State() SubmissionState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Set records an answer. Writes after the draft left the Draft state are
// ignored.
func (d *SubmissionDraft) Set(name, value string) *SubmissionDraft {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == StateDraft {
		d.answers[name] = value
	}
	return d
}

func (d *SubmissionDraft) SetAll(answers map[string]string) *SubmissionDraft {
	for name, value := range answers {
		d.Set(name, value)
	}
	return d
}

// Answers returns a copy of the answers collected so far.
func (d *SubmissionDraft) Answers() map[string]string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[string]string, len(d.answers))
	for k, v := range d.answers {
		out[k] = v
	}
	return out
}

func (d *SubmissionDraft) advance(to SubmissionState) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, next := range transitions[d.state] {
		if next == to {
			d.state = to
			return nil
		}
	}
	if d.state == StateDraft {
		return fmt.Errorf("submission draft: illegal transition %s -> %s", d.state, to)
	}
	return ErrDraftClosed
}
