package api

import (
	"log/slog"
	"net/http"

	_ "github.com/daybook/daybook/docs"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/daybook/daybook/internal/api/handlers"
	"github.com/daybook/daybook/internal/api/middleware"
	"github.com/daybook/daybook/internal/api/services"
	"github.com/daybook/daybook/internal/metrics"
	"github.com/rs/cors"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Identity  *services.IdentityService
	Tokens    *services.TokenIssuer
	Documents *services.DocumentService
	Summary   *services.SummaryService
	Export    *services.ExportService
	Metrics   *metrics.Metrics

	CorsOptions   cors.Options
	AuthEnabled   bool
	SecureCookies bool
	// StaticDir, when set, serves the built frontend for non-API paths.
	StaticDir string
}

func SetupRouter(deps Deps) http.Handler {
	mainMux := http.NewServeMux()
	c := cors.New(deps.CorsOptions)

	h := handlers.New(handlers.Options{
		Identity:      deps.Identity,
		Tokens:        deps.Tokens,
		Documents:     deps.Documents,
		Summary:       deps.Summary,
		Export:        deps.Export,
		Metrics:       deps.Metrics,
		SecureCookies: deps.SecureCookies,
	})
	requireUser := middleware.RequireUser(deps.AuthEnabled, deps.Tokens)

	// ---------- OPERATIONAL ----------
	mainMux.HandleFunc("/health", h.Health)
	mainMux.Handle("/metrics", deps.Metrics.Handler())
	mainMux.HandleFunc("/docs/", httpSwagger.WrapHandler)

	// ---------- AUTH ----------
	mainMux.HandleFunc("/api/auth/register", h.RegisterUser)
	mainMux.HandleFunc("/api/auth/login", h.LoginUser)
	mainMux.HandleFunc("/api/auth/logout", h.Logout)
	mainMux.HandleFunc("/api/auth/check-username/{username}", h.CheckUsername)

	// ---------- USER DATA ----------
	mainMux.Handle("/api/data/{userId}", requireUser(http.HandlerFunc(h.UserData)))
	mainMux.Handle("/api/data/{userId}/export", requireUser(http.HandlerFunc(h.ExportUserData)))

	// ---------- SUMMARY ----------
	mainMux.HandleFunc("/api/summary", h.Summarize)

	// Unmatched API paths always answer with JSON.
	mainMux.HandleFunc("/api/", h.NotFound)
	if deps.StaticDir != "" {
		mainMux.Handle("/", h.Static(deps.StaticDir))
	} else {
		mainMux.HandleFunc("/", h.NotFound)
	}

	slog.Debug("Router initialized", slog.Bool("auth_enabled", deps.AuthEnabled))
	handler := c.Handler(mainMux)
	handler = middleware.Logger(handler)
	return handler
}
