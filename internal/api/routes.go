package api

import (
	"net/http"

	"github.com/JaimeStill/epistle/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain) {
	routes.Register(
		mux,
		domain.Workflow.Handler().Routes(),
		domain.Sessions.Handler().Routes(),
		domain.Prompts.Handler().Routes(),
	)
}
