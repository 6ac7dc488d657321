package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/stash/internal/auth"
	"github.com/MrJamesThe3rd/stash/internal/http/account"
	"github.com/MrJamesThe3rd/stash/internal/http/budget"
	"github.com/MrJamesThe3rd/stash/internal/http/coach"
	"github.com/MrJamesThe3rd/stash/internal/http/export"
	"github.com/MrJamesThe3rd/stash/internal/http/importcsv"
	"github.com/MrJamesThe3rd/stash/internal/http/matching"
)

type Options struct {
	AllowedOrigins []string
	Timeout        time.Duration
}

func New(
	opts Options,
	tokens *auth.JWTManager,
	accountV1 *account.Handler,
	budgetV1 *budget.Handler,
	coachV1 *coach.Handler,
	importV1 *importcsv.Handler,
	exportV1 *export.Handler,
	matchingV1 *matching.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			accountV1.Routes(r)

			r.Group(func(r chi.Router) {
				r.Use(auth.Middleware(tokens))
				accountV1.SessionRoutes(r)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(tokens))

			r.Route("/budget", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				budgetV1.Routes(r)
			})

			r.Route("/coach", coachV1.Routes)
			r.Route("/import", importV1.Routes)
			r.Route("/export", exportV1.Routes)

			r.Route("/rules", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				matchingV1.Routes(r)
			})
		})
	})

	return router
}
