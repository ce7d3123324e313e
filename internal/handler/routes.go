package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pantree/internal/middleware"
	"pantree/internal/requestip"
)

// Limiters groups the per-concern rate limiters applied to route groups.
type Limiters struct {
	Auth   *middleware.RateLimiter
	API    *middleware.RateLimiter
	Upload *middleware.RateLimiter
}

// RegisterRoutes mounts the full API on r.
func (h *Handler) RegisterRoutes(r chi.Router, limiters Limiters) {
	r.Get("/health", h.HealthCheck)

	// Locally hosted media (no-op when the S3 backend is configured).
	if h.store != nil {
		fs := http.StripPrefix("/media/", http.FileServer(http.Dir(h.store.MediaRoot())))
		r.Handle("/media/*", fs)
	}

	// Keyed by client IP: these endpoints run before authentication.
	byIP := func(r *http.Request) string {
		return requestip.ClientIP(r, h.cfg.TrustedProxies)
	}
	// Keyed by user when authenticated, falling back to IP.
	byUser := func(r *http.Request) string {
		if user, ok := middleware.UserFromContext(r.Context()); ok {
			return user.ID
		}
		return requestip.ClientIP(r, h.cfg.TrustedProxies)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			if limiters.Auth != nil {
				r.Use(limiters.Auth.Middleware(byIP))
			}
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.Post("/logout", h.Logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(h.repo))
			if limiters.API != nil {
				r.Use(limiters.API.Middleware(byUser))
			}

			r.Get("/stats", h.Stats)

			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/", h.ListUsers)
				r.Post("/", h.CreateUser)
				r.Patch("/{id}", h.UpdateUser)
				r.Delete("/{id}", h.DeleteUser)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", h.ListCategories)
				r.Post("/", h.CreateCategory)
				r.Patch("/{id}", h.UpdateCategory)
				r.Delete("/{id}", h.DeleteCategory)
			})

			r.Route("/items", func(r chi.Router) {
				r.Get("/", h.ListItems)
				r.Post("/", h.CreateItem)
				r.Post("/delete-image", h.DeleteItemImage)
				r.Get("/{id}", h.GetItem)
				r.Patch("/{id}", h.UpdateItem)
				r.Delete("/{id}", h.DeleteItem)
				r.Post("/{id}/consume", h.ConsumeItem)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(h.repo))
			if limiters.Upload != nil {
				r.Use(limiters.Upload.Middleware(byUser))
			}
			r.Post("/upload", h.Upload)
			r.Post("/upload/direct", h.UploadDirect)
		})
	})
}
