package forms

import (
	"context"

	"github.com/mbolis/quick-forms/model"
)

// Store persists schemas, their version history and submissions.
//
// Put stores s as the new current version of its form. A version 1 schema
// creates the form; any other version must directly follow the stored one,
// otherwise Put fails with ErrVersionConflict and changes nothing.
//
// Delete hides the form from Get and List and refuses new submissions.
// Version snapshots and recorded submissions are kept.
type Store interface {
	Get(ctx context.Context, id string) (model.FormSchema, error)
	GetVersion(ctx context.Context, id string, version int) (model.FormSchema, error)
	List(ctx context.Context) ([]model.FormSchema, error)
	Put(ctx context.Context, s model.FormSchema) error
	Delete(ctx context.Context, id string) error
	ListSubmissions(ctx context.Context, formID string) ([]model.Submission, error)
	AppendSubmission(ctx context.Context, sub model.Submission) error
}

// Credential is what the caller of an administrative operation presents.
type Credential struct {
	Subject string
	Roles   []string
}

func (c Credential) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Authorizer decides whether a credential may administer forms.
type Authorizer interface {
	IsAuthorizedAdmin(cred Credential) bool
}

type AuthorizerFunc func(cred Credential) bool

func (f AuthorizerFunc) IsAuthorizedAdmin(cred Credential) bool {
	return f(cred)
}

// RoleAuthorizer grants admin rights to credentials holding Role.
type RoleAuthorizer struct {
	Role string
}

func (a RoleAuthorizer) IsAuthorizedAdmin(cred Credential) bool {
	return cred.Subject != "" && cred.HasRole(a.Role)
}
