package app

import (
	"github.com/go-chi/oauth"
	"github.com/mbolis/quick-forms/config"
	"github.com/mbolis/quick-forms/forms"
)

type App struct {
	*forms.Engine
	*oauth.BearerServer
	Authorizer forms.Authorizer
	config.Config
}
