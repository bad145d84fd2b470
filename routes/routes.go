package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mbolis/quick-forms/app"
	"github.com/mbolis/quick-forms/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Mount("/api", apiRouter(app))

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	api.Get("/forms", PublicListForms(app))
	api.Get("/forms/{id}", PublicGetForm(app))
	api.Post("/forms/{id}/submit", PublicSubmitForm(app))

	api.Post("/admin/login", Login(app))
	api.Post("/admin/refresh", Refresh(app))

	api.Route("/admin/forms", func(r chi.Router) {
		r.Use(middlewares.Admin(app.TokenSecret, app.Authorizer))

		// CRUD form
		r.Post("/", CreateForm(app))
		r.Get("/", ListForms(app))
		r.Get("/{id}", GetForm(app))
		r.Put("/{id}", UpdateForm(app))
		r.Delete("/{id}", DeleteForm(app))

		r.Get("/{id}/submissions", GetFormSubmissions(app))
		r.Get("/{id}/submissions/export", ExportFormSubmissions(app))
	})

	return api
}
