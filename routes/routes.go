package routes

import (
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"

	"github.com/tourneymate/tourneymate/handlers"
	"github.com/tourneymate/tourneymate/middleware"
	"github.com/tourneymate/tourneymate/models"
	"github.com/tourneymate/tourneymate/repositories"
)

// Окна фиксированного лимитера. Логин жёстче остальных ручек.
const (
	loginRateLimit  = 5
	loginRateWindow = time.Minute

	chatRateLimit  = 10
	chatRateWindow = 10 * time.Second
)

func SetupRoutes(
	router *chi.Mux,
	resolver middleware.IdentityResolver,
	limiter repositories.RateLimitRepository,
	authHandler *handlers.AuthHandler,
	teamHandler *handlers.TeamHandler,
	tournamentHandler *handlers.TournamentHandler,
	applicationHandler *handlers.ApplicationHandler,
	chatHandler *handlers.ChatHandler,
	leaderboardHandler *handlers.LeaderboardHandler,
	dashboardHandler *handlers.DashboardHandler,
	adminHandler *handlers.AdminHandler,
	webSocketHandler *handlers.WebSocketHandler,
	corsOrigins []string,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	// ?token= переписывается в Authorization до любого резолва identity.
	// Нужно websocket-клиентам, которые не могут выставлять заголовки.
	router.Use(middleware.QueryToken)

	authenticate := middleware.Authenticate(resolver)

	router.Get("/health", adminHandler.Health)

	router.Route("/auth", func(r chi.Router) {
		r.With(middleware.RateLimit(limiter, "login", loginRateLimit, loginRateWindow)).
			Post("/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/me", authHandler.Me)
			r.Post("/logout", authHandler.Logout)
		})
	})

	router.Route("/dashboard", func(r chi.Router) {
		// Публичные read-представления.
		r.Get("/", dashboardHandler.Home)
		r.Get("/tournaments/{tournamentID}", dashboardHandler.Tournament)
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/", teamHandler.List)
		r.Get("/{teamID}/captain", teamHandler.Captain)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", teamHandler.Create)
			r.Get("/mine", teamHandler.Mine)
		})
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.List)
		r.Get("/{tournamentID}/teams", tournamentHandler.Teams)
		r.Get("/{tournamentID}/leaderboard", leaderboardHandler.Top)
		r.Get("/{tournamentID}/chat", chatHandler.GetTournament)

		// Создание турниров и запись очков — хост или админ.
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.Authorize(models.RoleHost, models.RoleAdmin))
			r.Post("/", tournamentHandler.Upsert)
			r.Post("/{tournamentID}/leaderboard", leaderboardHandler.UpsertScore)
		})

		// Заявки: подача доступна любому залогиненному (капитанство проверяет
		// сервис), ревью — хосту турнира или админу.
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/{tournamentID}/applications", applicationHandler.Apply)
		})
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.Authorize(models.RoleHost, models.RoleAdmin))
			r.Get("/{tournamentID}/applications", applicationHandler.List)
			r.Post("/{tournamentID}/applications/{teamID}/approve", applicationHandler.Approve)
			r.Post("/{tournamentID}/applications/{teamID}/reject", applicationHandler.Reject)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RateLimit(limiter, "chat", chatRateLimit, chatRateWindow))
			r.Post("/{tournamentID}/chat", chatHandler.SendTournament)
		})
	})

	router.Route("/chat", func(r chi.Router) {
		r.Get("/global", chatHandler.GetGlobal)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RateLimit(limiter, "chat", chatRateLimit, chatRateWindow))
			r.Post("/global", chatHandler.SendGlobal)
		})
	})

	router.Route("/ws", func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/chat", webSocketHandler.ServeGlobal)
		r.Get("/tournaments/{tournamentID}/chat", webSocketHandler.ServeTournament)
	})

	router.Route("/admin", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(middleware.Authorize(models.RoleAdmin))

		r.Get("/users", adminHandler.ListUsers)
		r.Put("/users/{username}/role", adminHandler.SetRole)
		r.Post("/players", adminHandler.UpsertPlayer)
		r.Post("/teams", adminHandler.UpsertTeam)
		r.Post("/teams/join", adminHandler.JoinTeam)
		r.Post("/tournaments/enter", adminHandler.EnterTournament)
	})
}
