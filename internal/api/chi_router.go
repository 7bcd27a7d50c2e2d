// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/serielens/internal/middleware"
)

// Router binds the handler to the chi route tree.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil middleware factory uses the defaults.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // must be global to answer OPTIONS preflight
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("no route for " + r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).Error(http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chimiddleware.Compress(5, "application/json"))

		r.Get("/search", router.handler.Search)

		r.Route("/items", func(r chi.Router) {
			r.Get("/", router.handler.Items)
			r.Get("/{itemID}/keywords", router.handler.ItemKeywords)
			r.Get("/{itemID}/ratings", router.handler.ItemRatings)
		})

		r.Route("/users", func(r chi.Router) {
			r.With(router.chiMiddleware.RateLimitWrite()).Post("/", router.handler.CreateUser)
			r.Get("/{userID}", router.handler.GetUser)
			r.Get("/{userID}/ratings", router.handler.UserRatings)

			r.Route("/{userID}/ratings/{itemID}", func(r chi.Router) {
				r.Get("/", router.handler.GetRating)
				r.With(router.chiMiddleware.RateLimitWrite()).Put("/", router.handler.PutRating)
				r.With(router.chiMiddleware.RateLimitWrite()).Delete("/", router.handler.DeleteRating)
			})
		})

		if router.handler.rebuilder != nil {
			r.With(router.chiMiddleware.RateLimitWrite()).Post("/index/rebuild", router.handler.RebuildIndex)
		}

		r.Route("/recommendations", func(r chi.Router) {
			r.Get("/popular", router.handler.Popular)
			r.Get("/users/{userID}/collaborative", router.handler.Collaborative)
			r.Get("/users/{userID}/hybrid", router.handler.Hybrid)
		})
	})

	return r
}
