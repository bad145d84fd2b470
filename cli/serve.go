package cli

import (
	"errors"
	"net/http"
	"time"

	"github.com/mbolis/quick-forms/app"
	"github.com/mbolis/quick-forms/config"
	"github.com/mbolis/quick-forms/database"
	"github.com/mbolis/quick-forms/forms"
	"github.com/mbolis/quick-forms/httpx"
	"github.com/mbolis/quick-forms/log"
	"github.com/mbolis/quick-forms/routes"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		db, err := database.Open(cfg.DBUrl)
		if err != nil {
			return err
		}
		defer db.Close()

		authorizer := forms.RoleAuthorizer{Role: adminRole}
		app := app.App{
			Engine:       forms.NewEngine(database.NewFormStore(db), authorizer),
			BearerServer: httpx.NewBearerServer(database.NewUserStore(db), cfg.TokenSecret, cfg.TTL()),
			Authorizer:   authorizer,
			Config:       cfg,
		}

		err = runServer(cfg, routes.Wire(app))
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Listening on " + cfg.Url())
	return srv.ListenAndServe()
}
