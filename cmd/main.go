package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"

	"github.com/tourneymate/tourneymate/chat"
	"github.com/tourneymate/tourneymate/config"
	"github.com/tourneymate/tourneymate/graph"
	"github.com/tourneymate/tourneymate/handlers"
	"github.com/tourneymate/tourneymate/repositories"
	api "github.com/tourneymate/tourneymate/routes"
	"github.com/tourneymate/tourneymate/services"
)

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Подключение к Redis. Кеш обязателен: на нём сессии, чат и лидерборды.
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		cancelPing()
		logger.Error("failed to connect to redis", slog.Any("error", err))
		os.Exit(1)
	}
	cancelPing()
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("failed to close redis connection", slog.Any("error", err))
		}
	}()
	logger.Info("redis connection established", slog.String("addr", cfg.RedisAddr))

	// Клиент графа подключается лениво: первый запрос верифицирует
	// соединение, недоступный граф не мешает процессу стартовать.
	graphClient := graph.NewClient(graph.Config{
		URI:      cfg.Neo4jURI,
		Username: cfg.Neo4jUsername,
		Password: cfg.Neo4jPassword,
	})
	defer func() {
		if err := graphClient.Close(context.Background()); err != nil {
			logger.Error("failed to close graph connection", slog.Any("error", err))
		}
	}()

	// Инициализация WebSocket Hub
	wsHub := chat.NewHub(logger)
	go wsHub.Run()
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	userRepo := repositories.NewNeo4jUserRepository(graphClient)
	teamRepo := repositories.NewNeo4jTeamRepository(graphClient)
	tournamentRepo := repositories.NewNeo4jTournamentRepository(graphClient)
	applicationRepo := repositories.NewNeo4jApplicationRepository(graphClient)
	leaderboardRepo := repositories.NewRedisLeaderboardRepository(redisClient)
	chatRepo := repositories.NewRedisChatRepository(redisClient, true)
	sessionRepo := repositories.NewRedisSessionRepository(redisClient)
	rateLimitRepo := repositories.NewRedisRateLimitRepository(redisClient)
	logger.Info("Repositories initialized")

	// Инициализация сервисов
	authService := services.NewAuthService(userRepo, sessionRepo, cfg.SessionTTL)
	teamService := services.NewTeamService(teamRepo, userRepo)
	tournamentService := services.NewTournamentService(tournamentRepo, teamRepo)
	applicationService := services.NewApplicationService(applicationRepo, teamRepo, tournamentRepo)
	chatService := services.NewChatService(chatRepo, wsHub)
	leaderboardService := services.NewLeaderboardService(leaderboardRepo)
	dashboardService := services.NewDashboardService(tournamentRepo, leaderboardRepo, chatRepo)
	adminService := services.NewAdminService(userRepo, teamRepo, tournamentRepo, applicationRepo)
	logger.Info("Services initialized")

	// Инициализация обработчиков HTTP
	authHandler := handlers.NewAuthHandler(authService)
	teamHandler := handlers.NewTeamHandler(teamService)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService)
	applicationHandler := handlers.NewApplicationHandler(applicationService)
	chatHandler := handlers.NewChatHandler(chatService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	adminHandler := handlers.NewAdminHandler(adminService, tournamentService, leaderboardService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub)
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		authService,
		rateLimitRepo,
		authHandler,
		teamHandler,
		tournamentHandler,
		applicationHandler,
		chatHandler,
		leaderboardHandler,
		dashboardHandler,
		adminHandler,
		webSocketHandler,
		cfg.CORSOrigins,
	)
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
