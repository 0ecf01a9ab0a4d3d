// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/kinoscope/catalog/internal/middleware"
	"github.com/kinoscope/catalog/internal/query"
)

// Services bundles the three query services a Router dispatches to.
type Services struct {
	Films   *query.FilmService
	Genres  *query.GenreService
	Persons *query.PersonService
}

// adapt lets our existing func(http.HandlerFunc) http.HandlerFunc
// middlewares (internal/middleware) register as chi middleware, the
// same adapter cartographus's chi_router.go uses for its own
// pre-Chi middleware stack.
func adapt(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// NewRouter builds the chi router serving spec.md §6's eight routes,
// the same global-middleware-then-r.Route composition as
// cartographus's SetupChi, trimmed to the routes this module actually
// serves.
func NewRouter(svc Services) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(adapt(middleware.RequestID))
	r.Use(adapt(middleware.Compression))
	r.Use(adapt(middleware.PrometheusMetrics))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		MaxAge:         300,
	}))
	r.Use(httprate.LimitByIP(100, time.Minute))

	h := &handler{svc: svc}

	r.Get("/metrics", promHandler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/films", func(r chi.Router) {
			r.Get("/", h.listFilms)
			r.Get("/search", h.searchFilms)
			r.Get("/{film_id}", h.getFilm)
		})

		r.Route("/genres", func(r chi.Router) {
			r.Get("/", h.listGenres)
			r.Get("/{genre_id}", h.getGenre)
		})

		r.Route("/persons", func(r chi.Router) {
			r.Get("/search/", h.searchPersons)
			r.Get("/{person_id}", h.getPerson)
			r.Get("/{person_id}/film/", h.getPersonFilms)
		})

		r.Get("/docs/*", httpSwagger.WrapHandler)
	})

	return r
}

type handler struct {
	svc Services
}
