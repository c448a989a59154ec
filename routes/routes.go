package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/sportsys/tournament-admin/handlers"
	"github.com/sportsys/tournament-admin/middleware"
	"github.com/sportsys/tournament-admin/models"
	"github.com/sportsys/tournament-admin/services"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	Event        *handlers.EventHandler
	Player       *handlers.PlayerHandler
	Team         *handlers.TeamHandler
	Venue        *handlers.VenueHandler
	Registration *handlers.RegistrationHandler
	Match        *handlers.MatchHandler
	Stats        *handlers.StatsHandler
	WebSocket    *handlers.WebSocketHandler
}

func SetupRoutes(h Handlers, authService services.AuthService, corsOrigin string) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{corsOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/health", h.Stats.Health)
	router.Get("/swagger/*", httpSwagger.Handler())
	router.Get("/ws/events/{eventID}", h.WebSocket.ServeWs)

	authenticate := middleware.Authenticate(authService)
	manageRoles := middleware.Authorize(models.RoleSuperAdmin, models.RoleEventManager)
	superOnly := middleware.Authorize(models.RoleSuperAdmin)

	router.Route("/api", func(api chi.Router) {
		api.Get("/health", h.Stats.Health)
		api.Post("/auth/register", h.Auth.Register)
		api.Post("/auth/login", h.Auth.Login)
		api.With(authenticate).Get("/auth/me", h.Auth.Me)

		api.Route("/events", func(r chi.Router) {
			r.Get("/", h.Event.List)
			r.Get("/{eventID}", h.Event.GetByID)
			r.Get("/{eventID}/registrations/overview", h.Stats.RegistrationOverview)
			r.Get("/{eventID}/teams", teamsByEvent(h.Team))

			r.Group(func(r chi.Router) {
				r.Use(authenticate, manageRoles)
				r.Post("/", h.Event.Create)
				r.Put("/{eventID}", h.Event.Update)
				r.Delete("/{eventID}", h.Event.Delete)
				r.Post("/{eventID}/logo", h.Event.UploadLogo)
			})
		})

		api.Route("/players", func(r chi.Router) {
			r.Get("/", h.Player.List)
			r.Get("/{playerID}", h.Player.GetByID)
			r.Post("/", h.Player.Create)

			r.Group(func(r chi.Router) {
				r.Use(authenticate, manageRoles)
				r.Put("/{playerID}", h.Player.Update)
				r.Delete("/{playerID}", h.Player.Delete)
				r.Post("/{playerID}/logo", h.Player.UploadLogo)
			})
		})

		api.Route("/teams", func(r chi.Router) {
			r.Get("/", h.Team.List)
			r.Get("/{teamID}", h.Team.GetByID)
			r.Post("/", h.Team.Create)
			r.Post("/{teamID}/members", h.Team.AddMember)
			r.Delete("/{teamID}/members/{playerID}", h.Team.RemoveMember)

			r.Group(func(r chi.Router) {
				r.Use(authenticate, manageRoles)
				r.Put("/{teamID}", h.Team.Update)
				r.Delete("/{teamID}", h.Team.Delete)
				r.Post("/{teamID}/logo", h.Team.UploadLogo)
			})
		})

		api.Route("/venues", func(r chi.Router) {
			r.Get("/", h.Venue.List)
			r.Get("/{venueID}", h.Venue.GetByID)

			r.Group(func(r chi.Router) {
				r.Use(authenticate, manageRoles)
				r.Post("/", h.Venue.Create)
				r.Put("/{venueID}", h.Venue.Update)
				r.Delete("/{venueID}", h.Venue.Delete)
			})
		})

		api.Route("/registrations", func(r chi.Router) {
			r.Post("/", h.Registration.Create)
			r.Get("/", h.Registration.List)
			r.Get("/{registrationID}", h.Registration.GetByID)
			r.Post("/{registrationID}/cancel", h.Registration.Cancel)

			r.Group(func(r chi.Router) {
				r.Use(authenticate, manageRoles)
				r.Put("/{registrationID}/payment", h.Registration.UpdatePayment)
			})
			r.With(authenticate, superOnly).Delete("/{registrationID}", h.Registration.Delete)
		})

		api.Route("/matches", func(r chi.Router) {
			r.Get("/", h.Match.List)
			r.Get("/{matchID}", h.Match.GetByID)
			r.Get("/{matchID}/logs", h.Match.ListLogs)

			r.Group(func(r chi.Router) {
				r.Use(authenticate, manageRoles)
				r.Post("/", h.Match.Create)
				r.Post("/{matchID}/result", h.Match.RecordResult)
				r.Put("/{matchID}", h.Match.Update)
				r.Delete("/{matchID}", h.Match.Delete)
			})
		})

		api.With(authenticate, manageRoles).Get("/db-stats", h.Stats.DatabaseStats)
	})

	return router
}

// teamsByEvent переиспользует обработчик списка команд для вложенного
// маршрута события.
func teamsByEvent(th *handlers.TeamHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		q.Set("event_id", chi.URLParam(r, "eventID"))
		r.URL.RawQuery = q.Encode()
		th.List(w, r)
	}
}
