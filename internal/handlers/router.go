package handlers

import (
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/auth"
)

// RouterOptions collects what the router mounts besides the API
type RouterOptions struct {
	Auth   auth.AuthProvider
	Health *Health
	// CORSOrigins lists the cross-origin callers allowed in. Empty means
	// same-origin only; "*" admits anyone but never with credentials.
	CORSOrigins []string
	// MCP is mounted at /mcp when set
	MCP http.Handler
}

// NewRouter builds the HTTP surface. Mutating draft endpoints sit behind the
// auth middleware; the event stream is outside the request timeout.
func NewRouter(api *APIHandlers, opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Mcp-Session-Id"},
			ExposedHeaders:   []string{"Mcp-Session-Id"},
			AllowCredentials: !slices.Contains(opts.CORSOrigins, "*"),
			MaxAge:           300,
		}))
	}

	if opts.Health != nil {
		r.Get("/api/health", opts.Health.HealthCheck)
		r.Get("/healthz", opts.Health.Liveness)
		r.Get("/readyz", opts.Health.Readiness)
	}

	if opts.Auth != nil {
		r.Get("/auth/login", opts.Auth.LoginHandler)
		r.Get("/auth/callback", opts.Auth.CallbackHandler)
		r.Get("/auth/logout", opts.Auth.LogoutHandler)
	}

	r.Get("/api/events", api.EventsSSE)
	if opts.MCP != nil {
		r.Handle("/mcp", opts.MCP)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))

		r.Route("/api/draft", func(r chi.Router) {
			r.Get("/state", api.GetDraftState)
			r.Get("/log", api.GetDraftLog)

			r.Group(func(r chi.Router) {
				if opts.Auth != nil {
					r.Use(opts.Auth.Middleware)
				}
				r.Post("/nominate", api.Nominate)
				r.Post("/nominate/clear", api.ClearNomination)
				r.Post("/pick", api.DraftPick)
				r.Post("/undo", api.UndoPick)
				r.Post("/strategy", api.SetStrategy)
				r.Post("/reset", api.ResetDraft)
			})
		})

		r.Route("/api/advice", func(r chi.Router) {
			r.Get("/bid", api.BidAdvice)
			r.Get("/nominations", api.NominationAdvice)
			r.Get("/budget", api.BudgetAdvice)
			r.Get("/competition", api.CompetitionAdvice)
			r.Get("/league", api.LeagueAdvice)
		})
	})

	return r
}
