package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/Shivanand-hulikatti/sports-team-manager/internal/metrics"
	"github.com/Shivanand-hulikatti/sports-team-manager/internal/model"
	"github.com/Shivanand-hulikatti/sports-team-manager/internal/service"
)

// RouterConfig carries everything NewRouter wires together.
type RouterConfig struct {
	Events  *service.EventService
	Auth    *service.AuthService
	Teams   *service.TeamService
	Players *service.PlayerService

	// Metrics is optional; when nil no /metrics route is mounted.
	Metrics *metrics.Prometheus
	Logger  zerolog.Logger

	AllowedOrigins []string
	Cookie         CookieOptions
	// WebDir, when set, is served at the root.
	WebDir string
}

// NewRouter builds the chi router for the whole API.
func NewRouter(cfg RouterConfig) http.Handler {
	events := NewEventHandler(cfg.Events)
	auth := NewAuthHandler(cfg.Auth, cfg.Cookie)
	player := NewPlayerHandler(cfg.Auth, cfg.Events, cfg.Teams, cfg.Players)
	manager := NewManagerHandler(cfg.Teams, cfg.Players)
	admin := NewAdminHandler(cfg.Auth, cfg.Players)

	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(Logger(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(Metrics(cfg.Metrics))
	}
	r.Use(CORS(cfg.AllowedOrigins))
	r.Use(Session(cfg.Auth))

	r.Get("/health", HealthCheck)
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/signup", auth.Signup)
		r.Post("/login", auth.Login)
		r.Post("/logout", auth.Logout)
		r.With(RequireAuth).Get("/me", auth.Me)

		r.Route("/events", func(r chi.Router) {
			r.Get("/", events.ListEvents)
			r.Get("/{id}", events.GetEvent)
			r.With(RequireAuth).Post("/{id}/register", events.Register)

			r.Group(func(r chi.Router) {
				r.Use(RequireRole(model.RoleAdmin))
				r.Post("/", events.CreateEvent)
				r.Put("/{id}", events.UpdateEvent)
				r.Delete("/{id}", events.DeleteEvent)
			})
		})

		r.Route("/player", func(r chi.Router) {
			r.Use(RequireAuth)
			r.Get("/me", player.Profile)
			r.Get("/events", player.Events)
			r.Get("/training", player.Trainings)
			r.Get("/performance", player.Performance)
			r.Get("/performance-history", player.PerformanceHistory)
			r.Get("/team-info", player.TeamInfo)
		})

		r.Route("/manager", func(r chi.Router) {
			r.Use(RequireRole(model.RoleManager, model.RoleAdmin))
			r.Get("/teams", manager.ListTeams)
			r.Post("/teams", manager.CreateTeam)
			r.Get("/teams/{teamId}", manager.GetTeam)
			r.Post("/teams/{teamId}/add-player", manager.AddPlayer)
			r.Post("/teams/{teamId}/remove-player", manager.RemovePlayer)
			r.Get("/available-players", manager.AvailablePlayers)
			r.Get("/players/{playerId}", manager.GetPlayer)
			r.Get("/players/{playerId}/performance", manager.GetPerformance)
			r.Post("/players/{playerId}/performance", manager.RecordPerformance)
			r.Get("/trainings", manager.ListTrainings)
			r.Post("/trainings", manager.CreateTraining)
			r.Delete("/trainings/{trainingId}", manager.DeleteTraining)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireRole(model.RoleAdmin))
			r.Get("/me", admin.Profile)
			r.Get("/dashboard", admin.Dashboard)
		})
	})

	// Static frontend, when configured.
	if cfg.WebDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(cfg.WebDir)))
	}

	return r
}
