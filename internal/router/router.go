// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// OurShop API. Routes are grouped by the access level they require.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"ourshop/internal/handlers"
	"ourshop/internal/metrics"
	"ourshop/internal/middleware"
)

// Handlers are the handler groups the router dispatches to.
type Handlers struct {
	Auth      *handlers.Auth
	Contact   *handlers.Contact
	Projects  *handlers.Projects
	Ads       *handlers.Ads
	Services  *handlers.Services
	Settings  *handlers.Settings
	Users     *handlers.Users
	Marketing *handlers.Marketing
	Chat      *handlers.Chat
	Stats     *handlers.Stats
}

// Options configures the shared middleware.
type Options struct {
	Sessions    middleware.SessionReader
	Roles       middleware.RoleLookup
	CORSOrigins []string

	// ContactLimiter and ChatLimiter throttle the public write endpoints.
	// Nil disables the limit.
	ContactLimiter *middleware.RateLimiter
	ChatLimiter    *middleware.RateLimiter
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(h Handlers, opts Options) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(middleware.SecureHeaders)
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Content-Type", "Accept"},
			AllowCredentials: true,
		}).Handler)
	}
	r.Use(middleware.LoadSession(opts.Sessions, opts.Roles))

	r.Get("/health", handlers.Health)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/sign-up", h.Auth.SignUp)
			r.Post("/login", h.Auth.Login)

			// Signed in, 2FA not yet required.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/logout", h.Auth.Logout)
				r.Get("/me", h.Auth.Me)
				r.Get("/2fa/setup", h.Auth.TwoFASetup)
				r.Post("/2fa/verify", h.Auth.TwoFAVerify)
			})
		})

		r.With(limit(opts.ContactLimiter)).Post("/contact", h.Contact.Submit)
		r.With(limit(opts.ChatLimiter)).Post("/chat", h.Chat.Ask)

		// Public reads. The admin query flag is checked per handler.
		r.Get("/projects", h.Projects.List)
		r.Get("/ads", h.Ads.List)
		r.Get("/services", h.Services.List)
		r.Get("/settings", h.Settings.Get)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/marketing-consent", h.Users.Consent)
			r.Post("/marketing-consent", h.Users.SetConsent)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Get("/contact", h.Contact.List)
			r.Patch("/contact", h.Contact.MarkRead)
			r.Delete("/contact", h.Contact.Delete)
			r.Post("/contact/reply", h.Contact.Reply)
			r.Get("/contact/reply/check", h.Contact.ReplyCheck)

			r.Post("/projects", h.Projects.Create)
			r.Put("/projects", h.Projects.Update)
			r.Delete("/projects", h.Projects.Delete)
			r.Post("/projects/images", h.Projects.UploadImage)

			r.Post("/ads", h.Ads.Create)
			r.Put("/ads", h.Ads.Update)
			r.Delete("/ads", h.Ads.Delete)

			r.Post("/services", h.Services.Create)
			r.Put("/services", h.Services.Update)
			r.Delete("/services", h.Services.Delete)

			r.Put("/settings", h.Settings.Update)

			r.Get("/users", h.Users.List)
			r.Put("/marketing-consent", h.Users.Consenting)
			r.Post("/marketing-emails", h.Marketing.Send)
			r.Get("/admin/stats", h.Stats.Get)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireMainAdmin)
			r.Post("/users", h.Users.Create)
			r.Put("/users", h.Users.SetRole)
			r.Delete("/users", h.Users.Delete)
		})
	})

	return r
}

// limit applies rl when it is set.
func limit(rl *middleware.RateLimiter) func(http.Handler) http.Handler {
	if rl == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return rl.Middleware
}
