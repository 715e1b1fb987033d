package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/horse-tournament/brackets"
	"github.com/Dosada05/horse-tournament/client"
	"github.com/Dosada05/horse-tournament/config"
	"github.com/Dosada05/horse-tournament/db"
	"github.com/Dosada05/horse-tournament/handlers"
	"github.com/Dosada05/horse-tournament/middleware"
	"github.com/Dosada05/horse-tournament/repositories"
	api "github.com/Dosada05/horse-tournament/routes"
	"github.com/Dosada05/horse-tournament/services"
	"github.com/Dosada05/horse-tournament/storage"
	"github.com/go-chi/chi/v5"
)

const (
	shutdownTimeout      = 15 * time.Second
	// Срок жизни сервисного токена для удалённого бэкенда.
	backendTokenTTL      = 24 * time.Hour
	// Как часто закрываются простаивающие сессии редактора.
	sessionSweepInterval = time.Minute
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
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.Int("bracket_rounds", cfg.BracketRounds),
		slog.Bool("remote_backend", cfg.BackendURL != ""))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var (
		gateway          services.StandingsGateway
		standingsHandler *handlers.StandingsHandler
		dbConn           *sql.DB
	)

	if cfg.BackendURL != "" {
		// Редактор работает поверх удалённого бэкенда
		token, err := middleware.IssueToken(cfg.JWTSecretKey, "standings-editor", middleware.RoleOrganizer, backendTokenTTL)
		if err != nil {
			logger.Error("failed to issue backend token", slog.Any("error", err))
			os.Exit(1)
		}
		remote, err := client.NewStandingsClient(cfg.BackendURL,
			client.WithTimeout(cfg.BackendTimeout),
			client.WithBearerToken(token))
		if err != nil {
			logger.Error("failed to create standings client", slog.Any("error", err))
			os.Exit(1)
		}
		gateway = remote
		logger.Info("using remote standings backend", slog.String("url", cfg.BackendURL))
	} else {
		dbConn, err = db.Connect(cfg.DatabaseURL, 5*time.Second)
		if err != nil {
			logger.Error("failed to connect to database", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("database connection established")

		var archiver services.StandingsArchiver
		if cfg.ArchiveEnabled() {
			uploader, err := storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
				AccountID:       cfg.R2AccountID,
				AccessKeyID:     cfg.R2AccessKeyID,
				SecretAccessKey: cfg.R2SecretAccessKey,
				BucketName:      cfg.R2BucketName,
				PublicBaseURL:   cfg.R2PublicBaseURL,
			})
			if err != nil {
				logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
				os.Exit(1)
			}
			archiver = storage.NewStandingsArchiver(uploader, "")
			logger.Info("standings archiving to Cloudflare R2 enabled")
		}

		tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
		standingsService := services.NewStandingsService(tournamentRepo, archiver, cfg.BracketRounds, logger)
		standingsHandler = handlers.NewStandingsHandler(standingsService)
		gateway = standingsService
	}
	defer func() {
		if dbConn == nil {
			return
		}
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()

	// Инициализация WebSocket Hub
	wsHub := brackets.NewHub(logger)
	go wsHub.Run(ctx)
	logger.Info("WebSocket Hub started")

	editorService := services.NewEditorService(gateway, wsHub, cfg.BracketRounds, logger)
	go editorService.RunJanitor(ctx, sessionSweepInterval, cfg.EditorSessionTTL)

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Dependencies{
		StandingsHandler: standingsHandler,
		EditorHandler:    handlers.NewEditorHandler(editorService),
		WebSocketHandler: handlers.NewWebSocketHandler(wsHub, editorService, cfg.CORSAllowedOrigins, logger),
		Authenticator:    middleware.NewAuthenticator(cfg.JWTSecretKey),
		AllowedOrigins:   cfg.CORSAllowedOrigins,
	})
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
			stop()
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
		} else {
			logger.Info("server shutdown complete")
		}
	}
	// Останавливаем hub: он закрывает все веб-сокеты
	stop()
	logger.Info("application exited")
}
