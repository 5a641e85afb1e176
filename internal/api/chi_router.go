// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/ning/internal/auth"
	"github.com/tomtom215/ning/internal/middleware"
)

// Router assembles the HTTP surface.
type Router struct {
	handler       *Handler
	auth          *auth.Middleware
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil middleware config selects the defaults.
func NewRouter(handler *Handler, identity *auth.Identity, cfg *ChiMiddlewareConfig) *Router {
	return &Router{
		handler:       handler,
		auth:          auth.NewMiddleware(identity, unauthorized),
		chiMiddleware: NewChiMiddleware(cfg),
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, outermost first
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(middleware.PrometheusMetrics)
	r.Use(APISecurityHeaders())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Not Found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method Not Allowed", nil)
	})

	r.Get("/healthz", router.handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.With(router.chiMiddleware.RateLimitAuth()).Post("/register", router.handler.Register)
		r.With(router.chiMiddleware.RateLimitAuth()).Post("/login", router.handler.Login)

		r.Group(func(r chi.Router) {
			r.Use(router.auth.RequireAuth)
			r.Get("/me", router.handler.Me)
			r.Post("/logout", router.handler.Logout)
		})
	})

	r.Route("/forum", func(r chi.Router) {
		r.Get("/posts", router.handler.ListPosts)
		r.Get("/posts/{id}", router.handler.GetPost)
		r.Get("/posts/{id}/comments", router.handler.ListComments)

		r.Group(func(r chi.Router) {
			r.Use(router.auth.RequireAuth)
			r.Post("/posts", router.handler.CreatePost)
			r.Put("/posts/{id}", router.handler.UpdatePost)
			r.Delete("/posts/{id}", router.handler.DeletePost)
			r.Post("/posts/{id}/like", router.handler.ToggleLike)
			r.Post("/posts/{id}/comment", router.handler.AddComment)
			r.Delete("/comments/{id}", router.handler.DeleteComment)
		})
	})

	r.Route("/study", func(r chi.Router) {
		r.Use(router.auth.RequireAuth)
		r.Post("/mistakes", router.handler.AddMistake)
		r.Get("/mistakes", router.handler.ListMistakes)
		r.Delete("/mistakes/{id}", router.handler.DeleteMistake)
		r.Get("/stats", router.handler.Stats)
		r.Get("/recommendations", router.handler.Recommendations)
	})

	r.Route("/agent", func(r chi.Router) {
		r.Use(router.auth.RequireAuth)
		r.Post("/session", router.handler.StartSession)
		r.Get("/sessions", router.handler.ListSessions)
		r.Post("/chat", router.handler.Chat)
		r.Get("/session/{id}", router.handler.GetSession)
	})

	return r
}
