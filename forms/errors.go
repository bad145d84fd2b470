package forms

import (
	"errors"
	"strings"
)

var (
	ErrSchemaInvalid   = errors.New("schema invalid")
	ErrAnswerInvalid   = errors.New("answer invalid")
	ErrVersionConflict = errors.New("version conflict")
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	// ErrDraftClosed is returned when a submission draft that already went
	// through validation is submitted again.
	ErrDraftClosed = errors.New("submission draft already closed")
)

// Field error codes.
const (
	CodeMissing         = "missing"
	CodeDuplicate       = "duplicate"
	CodeInvalidName     = "invalid_name"
	CodeUnknownType     = "unknown_type"
	CodeOptionsEmpty    = "options_empty"
	CodeOptionDuplicate = "option_duplicate"
	CodeBoundsInverted  = "bounds_inverted"
	CodeRequired        = "required"
	CodeBounds          = "bounds"
	CodeNotANumber      = "not_a_number"
	CodeEmail           = "email"
	CodeInvalidOption   = "invalid_option"
)

// FieldError attributes one problem to one field. Field is empty for
// form-level problems (title, description).
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Label   string `json:"label,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// ValidationError carries every problem found in one validation run.
type ValidationError struct {
	Kind   error
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.Error()
	}
	return e.Kind.Error() + ": " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == e.Kind
}

// For returns the errors attributed to the named field.
func (e *ValidationError) For(field string) []FieldError {
	var out []FieldError
	for _, fe := range e.Errors {
		if fe.Field == field {
			out = append(out, fe)
		}
	}
	return out
}

// FieldErrors extracts the field list from a validation error, or nil.
func FieldErrors(err error) []FieldError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Errors
	}
	return nil
}

type collector struct {
	errs []FieldError
}

func (c *collector) add(field, label, code, msg string) {
	c.errs = append(c.errs, FieldError{Field: field, Label: label, Code: code, Message: msg})
}

func (c *collector) result(kind error) error {
	if len(c.errs) == 0 {
		return nil
	}
	return &ValidationError{Kind: kind, Errors: c.errs}
}
