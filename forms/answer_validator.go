package forms

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/mbolis/quick-forms/model"
)

// Canonical checkbox tokens.
const (
	Checked   = "checked"
	Unchecked = "unchecked"
)

var validate = validator.New()

// plain decimal notation only: no exponent, hex or special values
var reDecimal = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// ValidateAnswers checks candidate answers against one schema version and
// returns the normalised answer map. Checks run per schema field, so unknown
// keys are dropped and missing required keys are caught.
func ValidateAnswers(s model.FormSchema, answers map[string]string) (map[string]string, error) {
	c := &collector{}
	out := make(map[string]string, len(s.Fields))

	for _, f := range s.Fields {
		value := answers[f.Name]
		if strings.TrimSpace(value) == "" {
			if f.Required {
				c.add(f.Name, f.Label, CodeRequired, fmt.Sprintf("%s is required.", f.Label))
			} else if f.Type == model.Checkbox {
				out[f.Name] = Unchecked
			}
			continue
		}

		switch f.Type {
		case model.Number:
			value = strings.TrimSpace(value)
			if !reDecimal.MatchString(value) {
				c.add(f.Name, f.Label, CodeNotANumber, fmt.Sprintf("%s must be a number.", f.Label))
				continue
			}
			n, err := strconv.ParseFloat(value, 64)
			if err != nil || math.IsInf(n, 0) {
				c.add(f.Name, f.Label, CodeNotANumber, fmt.Sprintf("%s must be a number.", f.Label))
				continue
			}
			if msg, ok := checkBounds(f, n); !ok {
				c.add(f.Name, f.Label, CodeBounds, msg)
				continue
			}
		case model.Text, model.Email:
			ok := true
			if msg, in := checkBounds(f, float64(utf8.RuneCountInString(value))); !in {
				c.add(f.Name, f.Label, CodeBounds, msg)
				ok = false
			}
			if f.Type == model.Email && !isEmail(value) {
				c.add(f.Name, f.Label, CodeEmail, fmt.Sprintf("%s must be a valid email address.", f.Label))
				ok = false
			}
			if !ok {
				continue
			}
		case model.Radio, model.Select:
			if !hasOption(f.Options, value) {
				c.add(f.Name, f.Label, CodeInvalidOption, fmt.Sprintf("%q is not a valid option for %s.", value, f.Label))
				continue
			}
		case model.Checkbox:
			value = checkboxToken(value)
		default:
			c.add(f.Name, f.Label, CodeUnknownType, fmt.Sprintf("unknown field type %q", f.Type))
			continue
		}
		out[f.Name] = value
	}

	if err := c.result(ErrAnswerInvalid); err != nil {
		return nil, err
	}
	return out, nil
}

func checkBounds(f model.FieldSpec, n float64) (string, bool) {
	b := f.Validation
	if b == nil {
		return "", true
	}
	tooLow := b.Min != nil && n < *b.Min
	tooHigh := b.Max != nil && n > *b.Max
	if !tooLow && !tooHigh {
		return "", true
	}

	unit := ""
	if f.Type.Bounds() == model.LengthBounds {
		unit = " characters"
	}
	switch {
	case b.Min != nil && b.Max != nil:
		return fmt.Sprintf("%s must be between %s and %s%s.", f.Label, formatNumber(*b.Min), formatNumber(*b.Max), unit), false
	case b.Min != nil:
		return fmt.Sprintf("%s must be at least %s%s.", f.Label, formatNumber(*b.Min), unit), false
	default:
		return fmt.Sprintf("%s must be at most %s%s.", f.Label, formatNumber(*b.Max), unit), false
	}
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func isEmail(value string) bool {
	at := strings.LastIndex(value, "@")
	if at < 1 || at == len(value)-1 {
		return false
	}
	return validate.Var(value, "email") == nil
}

func hasOption(options []model.Option, value string) bool {
	for _, o := range options {
		if o.Value == value {
			return true
		}
	}
	return false
}

func checkboxToken(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "false", "0", "off", "no", Unchecked:
		return Unchecked
	default:
		return Checked
	}
}

// ValidateInstruction checks a single value against one render instruction,
// for presentation layers that validate input as it is entered.
func ValidateInstruction(in model.RenderInstruction, value string) error {
	f := model.FieldSpec{
		Name:     in.Name,
		Label:    in.Label,
		Type:     in.Type,
		Required: in.Required,
		Options:  in.Options,
	}
	if in.Min != nil || in.Max != nil {
		f.Validation = &model.Bounds{Min: in.Min, Max: in.Max}
	}
	s := model.FormSchema{Fields: []model.FieldSpec{f}}
	_, err := ValidateAnswers(s, map[string]string{in.Name: value})
	return err
}
