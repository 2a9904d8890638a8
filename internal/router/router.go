package router

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-task-manager/internal/config"
	"go-task-manager/internal/handler"
	"go-task-manager/internal/middleware"
	"go-task-manager/internal/model"
)

type healthChecker interface {
	Health(ctx context.Context) error
}

type Handlers struct {
	Auth *handler.AuthHandler
	User *handler.UserHandler
	Task *handler.TaskHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers, db healthChecker) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.Health(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("database unavailable"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/users", func(users chi.Router) {
			users.Post("/register", h.Auth.Register)
			users.Post("/login", h.Auth.Login)
			users.Post("/refresh", h.Auth.Refresh)
			users.With(authMiddleware.RequireAuth).Post("/logout", h.Auth.Logout)
			users.With(authMiddleware.RequireAuth).Get("/me", h.Auth.Me)
			users.With(authMiddleware.RequireAuth, authMiddleware.RequireRoles(model.RoleAdmin)).Get("/", h.User.List)
			users.With(authMiddleware.RequireAuth, authMiddleware.RequireRoles(model.RoleAdmin)).Patch("/role", h.User.AssignRole)
		})

		api.Route("/tasks", func(tasks chi.Router) {
			tasks.Use(authMiddleware.RequireAuth)

			tasks.With(authMiddleware.RequireRoles(model.RoleUser)).Post("/", h.Task.Create)
			tasks.With(authMiddleware.RequireRoles(model.RoleUser, model.RoleAdmin)).Patch("/{id}", h.Task.Update)
			tasks.With(authMiddleware.RequireRoles(model.RoleUser, model.RoleAdmin)).Delete("/{id}", h.Task.Delete)
			tasks.With(authMiddleware.RequireRoles(model.RoleUser, model.RoleAdmin)).Patch("/{id}/complete", h.Task.Complete)
			tasks.With(authMiddleware.RequireRoles(model.RoleUser, model.RoleAdmin)).Get("/category/{category}", h.Task.ListByCategory)
			tasks.With(authMiddleware.RequireRoles(model.RoleUser, model.RoleAdmin)).Get("/status/{status}", h.Task.ListByStatus)
		})

		api.With(authMiddleware.RequireAuth, authMiddleware.RequireRoles(model.RoleAdmin)).Post("/admin/tasks", h.Task.CreateForUser)
	})

	return r
}
