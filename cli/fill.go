package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mbolis/quick-forms/forms"
	"github.com/mbolis/quick-forms/model"
)

// prompter asks for one value per render instruction.
type prompter interface {
	Input(in model.RenderInstruction, validate func(string) error) (string, error)
	Choose(in model.RenderInstruction) (string, error)
	Confirm(in model.RenderInstruction) (bool, error)
}

// fill walks the plan of a form, asks for every field and submits the result.
func fill(ctx context.Context, engine *forms.Engine, p prompter, formID string) (model.Submission, error) {
	plan, err := engine.Plan(ctx, formID, 0)
	if err != nil {
		return model.Submission{}, err
	}
	draft := engine.NewDraft(plan)

	for _, in := range plan.Fields {
		var value string
		switch in.Type {
		case model.Radio, model.Select:
			value, err = p.Choose(in)
		case model.Checkbox:
			var checked bool
			checked, err = p.Confirm(in)
			value = forms.Unchecked
			if checked {
				value = forms.Checked
			}
		default:
			value, err = p.Input(in, func(v string) error {
				return firstFieldError(forms.ValidateInstruction(in, v))
			})
		}
		if err != nil {
			return model.Submission{}, err
		}
		draft.Set(in.Name, value)
	}

	return engine.Submit(ctx, draft)
}

func firstFieldError(err error) error {
	if fes := forms.FieldErrors(err); len(fes) > 0 {
		return errors.New(fes[0].Message)
	}
	return err
}

func promptMessage(in model.RenderInstruction) string {
	if in.Required {
		return in.Label + " *"
	}
	return in.Label
}

type surveyPrompter struct{}

func (surveyPrompter) Input(in model.RenderInstruction, validate func(string) error) (string, error) {
	var out string
	prompt := &survey.Input{Message: promptMessage(in)}
	err := survey.AskOne(prompt, &out, survey.WithValidator(func(ans interface{}) error {
		s, ok := ans.(string)
		if !ok {
			return fmt.Errorf("unexpected answer %v", ans)
		}
		return validate(s)
	}))
	return out, err
}

func (surveyPrompter) Choose(in model.RenderInstruction) (string, error) {
	labels := make([]string, 0, len(in.Options)+1)
	if !in.Required {
		labels = append(labels, "(none)")
	}
	for _, o := range in.Options {
		labels = append(labels, o.Label)
	}

	var idx int
	if err := survey.AskOne(&survey.Select{Message: promptMessage(in), Options: labels}, &idx); err != nil {
		return "", err
	}
	if !in.Required {
		if idx == 0 {
			return "", nil
		}
		idx--
	}
	return in.Options[idx].Value, nil
}

func (surveyPrompter) Confirm(in model.RenderInstruction) (bool, error) {
	var out bool
	err := survey.AskOne(&survey.Confirm{Message: promptMessage(in)}, &out)
	return out, err
}
