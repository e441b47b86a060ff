package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/petim7277/Qonnect-sub000/internal/infrastructure/http/handlers"
	"github.com/petim7277/Qonnect-sub000/internal/infrastructure/http/middleware"
)

// APIVersion is sent as X-API-Version on every response.
const APIVersion = "1"

type RouterConfig struct {
	AuthHandler          *handlers.AuthHandler
	HealthHandler        *handlers.HealthHandler
	UsersHandler         *handlers.UsersHandler
	OrganizationsHandler *handlers.OrganizationsHandler
	ProjectsHandler      *handlers.ProjectsHandler
	TasksHandler         *handlers.TasksHandler
	BugsHandler          *handlers.BugsHandler
	RequireJWT           func(http.Handler) http.Handler
	Log                  zerolog.Logger
	Secure               func(http.Handler) http.Handler
	CORS                 func(http.Handler) http.Handler
	IPRateLimit          func(http.Handler) http.Handler
	UserRateLimit        func(http.Handler) http.Handler // applied after RequireJWT
	Metrics              bool                            // expose /metrics
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(loggerMiddleware(cfg.Log))
	r.Use(chimid.Recoverer)
	if cfg.Metrics {
		r.Use(middleware.PrometheusMiddleware)
	}
	if cfg.Secure != nil {
		r.Use(cfg.Secure)
	}
	if cfg.CORS != nil {
		r.Use(cfg.CORS)
	}
	r.Use(chimid.AllowContentType("application/json"))
	r.Use(chimid.SetHeader("X-API-Version", APIVersion))
	if cfg.IPRateLimit != nil {
		r.Use(cfg.IPRateLimit)
	}

	if cfg.HealthHandler != nil {
		r.Get("/health", cfg.HealthHandler.ServeHTTP)
	} else {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
	}
	if cfg.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	authed := func(r chi.Router) {
		r.Use(cfg.RequireJWT)
		if cfg.UserRateLimit != nil {
			r.Use(cfg.UserRateLimit)
		}
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register-organization", cfg.AuthHandler.RegisterOrganization)
		r.Post("/signup", cfg.AuthHandler.Signup)
		r.Post("/login", cfg.AuthHandler.Login)
		r.Post("/verify", cfg.AuthHandler.Verify)
		r.Post("/otp/resend", cfg.AuthHandler.ResendOtp)
		r.Post("/forgot-password", cfg.AuthHandler.ForgotPassword)
		r.Post("/reset-password", cfg.AuthHandler.ResetPassword)
		r.Post("/invitations/accept", cfg.AuthHandler.AcceptInvitation)
		r.Group(func(r chi.Router) {
			authed(r)
			r.Post("/logout", cfg.AuthHandler.Logout)
			r.Post("/change-password", cfg.AuthHandler.ChangePassword)
		})
	})

	r.Group(func(r chi.Router) {
		authed(r)

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", cfg.UsersHandler.Me)
			r.Get("/{id}/bugs/assigned", cfg.UsersHandler.AssignedBugs)
			r.Get("/{id}/bugs/created", cfg.UsersHandler.CreatedBugs)
			r.Get("/{id}/tasks", cfg.UsersHandler.AssignedTasks)
		})

		r.Route("/organization", func(r chi.Router) {
			r.Get("/members", cfg.OrganizationsHandler.Members)
			r.Delete("/members/{id}", cfg.OrganizationsHandler.RemoveMember)
			r.Post("/invitations", cfg.OrganizationsHandler.Invite)
		})

		r.Route("/projects", func(r chi.Router) {
			r.Post("/", cfg.ProjectsHandler.Create)
			r.Get("/", cfg.ProjectsHandler.List)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", cfg.ProjectsHandler.Get)
				r.Delete("/", cfg.ProjectsHandler.Delete)
				r.Get("/tasks", cfg.TasksHandler.InProject)
				r.Post("/tasks", cfg.TasksHandler.Create)
				r.Get("/bugs", cfg.BugsHandler.InProject)
				r.Post("/bugs", cfg.BugsHandler.Report)
			})
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/{id}", cfg.TasksHandler.Get)
			r.Delete("/{id}", cfg.TasksHandler.Delete)
			r.Patch("/{id}/status", cfg.TasksHandler.UpdateStatus)
			r.Put("/{id}/assignee", cfg.TasksHandler.Assign)
			r.Route("/{id}/bugs", func(r chi.Router) {
				r.Get("/", cfg.BugsHandler.InTask)
				r.Get("/{bugID}", cfg.BugsHandler.Get)
				r.Patch("/{bugID}", cfg.BugsHandler.UpdateDetails)
				r.Patch("/{bugID}/status", cfg.BugsHandler.UpdateStatus)
				r.Patch("/{bugID}/severity", cfg.BugsHandler.UpdateSeverity)
			})
		})

		r.Route("/bugs", func(r chi.Router) {
			r.Put("/{id}/assignee", cfg.BugsHandler.Assign)
			r.Delete("/{id}", cfg.BugsHandler.Delete)
		})
	})

	return r
}

func loggerMiddleware(log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimid.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info().
				Str("request_id", chimid.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
