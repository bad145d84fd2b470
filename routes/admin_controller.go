package routes

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/mbolis/quick-forms/app"
	"github.com/mbolis/quick-forms/export"
	"github.com/mbolis/quick-forms/httpx"
	"github.com/mbolis/quick-forms/log"
	"github.com/mbolis/quick-forms/model"
)

type updateFormRequest struct {
	Version int `json:"version"`
	model.FormDraft
}

func CreateForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		draft := model.FormDraft{}
		err := render.DecodeJSON(r.Body, &draft)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		form, err := app.CreateForm(r.Context(), httpx.RequestCredential(r), draft)
		if err != nil {
			httpx.LogFormError(w, r, "create_form", "", err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id":      form.ID,
			"version": form.Version,
		})
	}
}

func ListForms(app app.App) http.HandlerFunc {
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
		render.JSON(w, r, map[string]any{
			"forms": summaries,
		})
	}
}

func GetForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId := chi.URLParam(r, "id")
		version, ok := versionParam(w, r)
		if !ok {
			return
		}

		var form model.FormSchema
		var err error
		if version == 0 {
			form, err = app.GetForm(r.Context(), formId)
		} else {
			form, err = app.GetFormVersion(r.Context(), formId, version)
		}
		if err != nil {
			httpx.LogFormError(w, r, "get_form", formId, err)
			return
		}

		render.JSON(w, r, form)
	}
}

func UpdateForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId := chi.URLParam(r, "id")

		req := updateFormRequest{}
		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if req.Version < 1 {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "request.version", "missing version of the edited form")
			return
		}

		form, err := app.UpdateForm(r.Context(), httpx.RequestCredential(r), formId, req.Version, req.FormDraft)
		if err != nil {
			httpx.LogFormError(w, r, "update_form", formId, err)
			return
		}

		render.JSON(w, r, map[string]any{
			"id":      form.ID,
			"version": form.Version,
		})
	}
}

func DeleteForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId := chi.URLParam(r, "id")

		err := app.DeleteForm(r.Context(), httpx.RequestCredential(r), formId)
		if err != nil {
			httpx.LogFormError(w, r, "delete_form", formId, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func GetFormSubmissions(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId := chi.URLParam(r, "id")

		submissions, err := app.Submissions(r.Context(), httpx.RequestCredential(r), formId)
		if err != nil {
			httpx.LogFormError(w, r, "get_submissions", formId, err)
			return
		}

		render.JSON(w, r, map[string]any{
			"submissions": submissions,
		})
	}
}

func ExportFormSubmissions(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId := chi.URLParam(r, "id")

		table, err := app.Export(r.Context(), httpx.RequestCredential(r), formId)
		if err != nil {
			httpx.LogFormError(w, r, "export_submissions", formId, err)
			return
		}

		w.Header().Set("content-type", "text/csv; charset=utf-8")
		w.Header().Set("content-disposition", `attachment; filename="`+export.FileName(table)+`"`)
		if err := export.WriteCSV(w, table); err != nil {
			log.Errorf("export_submissions.write: %s", err)
		}
	}
}

// versionParam reads the optional ?version= query parameter; 0 means absent.
func versionParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("version")
	if raw == "" {
		return 0, true
	}
	version, err := strconv.Atoi(raw)
	if err != nil || version < 1 {
		httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "request.get_query_param.version", "invalid version %q", raw)
		return 0, false
	}
	return version, true
}
