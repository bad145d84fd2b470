package routes

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	json "github.com/goccy/go-json"
	"github.com/mbolis/quick-forms/app"
	"github.com/mbolis/quick-forms/forms"
	"github.com/mbolis/quick-forms/httpx"
	"github.com/mbolis/quick-forms/log"
	"github.com/mbolis/quick-forms/model"
)

const maxSubmissionBytes = 1 << 20

func PublicListForms(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := app.ListForms(r.Context())
		if err != nil {
			httpx.LogInternalError(w, "list_forms", err)
			return
		}

		summaries := make([]model.FormSummary, len(list))
		for i, f := range list {
			summaries[i] = f.Summary()
		}
		render.JSON(w, r, summaries)
	}
}

func PublicGetForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId := chi.URLParam(r, "id")
		version, ok := versionParam(w, r)
		if !ok {
			return
		}

		plan, err := app.Plan(r.Context(), formId, version)
		if err != nil {
			httpx.LogFormError(w, r, "get_form", formId, err)
			return
		}

		render.JSON(w, r, plan)
	}
}

func PublicSubmitForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId := chi.URLParam(r, "id")

		body, err := io.ReadAll(io.LimitReader(r.Body, maxSubmissionBytes))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.read_body")
			return
		}
		version, answers, err := parseSubmission(body)
		if err != nil {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body", "%s", err)
			return
		}

		draft := forms.NewSubmissionDraft(formId, version).SetAll(answers)
		submission, err := app.Submit(r.Context(), draft)
		if err != nil {
			httpx.LogFormError(w, r, "submit_form", formId, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id":      submission.ID,
			"version": submission.FormVersion,
		})
	}
}

// parseSubmission accepts {"version":N,"answers":{...}} or a bare answers
// object. Scalar answers are turned into their text form; a bare object binds
// to the current form version (0).
func parseSubmission(body []byte) (int, map[string]string, error) {
	var raw map[string]any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return 0, nil, fmt.Errorf("invalid JSON body: %w", err)
	}

	version := 0
	if inner, ok := raw["answers"].(map[string]any); ok {
		if v, ok := raw["version"]; ok {
			n, ok := v.(json.Number)
			if !ok {
				return 0, nil, fmt.Errorf("version must be a number")
			}
			i, err := n.Int64()
			if err != nil || i < 1 {
				return 0, nil, fmt.Errorf("invalid version %s", n)
			}
			version = int(i)
		}
		raw = inner
	}

	answers := make(map[string]string, len(raw))
	for name, v := range raw {
		switch v := v.(type) {
		case nil:
		case string:
			answers[name] = v
		case json.Number:
			answers[name] = v.String()
		case bool:
			answers[name] = fmt.Sprint(v)
		default:
			return 0, nil, fmt.Errorf("answer %q must be a single value", name)
		}
	}
	return version, answers, nil
}
