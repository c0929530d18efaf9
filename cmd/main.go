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
	"github.com/jonboulle/clockwork"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"github.com/sjgames/scoreboard/config"
	"github.com/sjgames/scoreboard/db"
	"github.com/sjgames/scoreboard/handlers"
	"github.com/sjgames/scoreboard/live"
	"github.com/sjgames/scoreboard/repositories"
	api "github.com/sjgames/scoreboard/routes"
	"github.com/sjgames/scoreboard/services"
	"github.com/sjgames/scoreboard/storage"
)

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Хранилище снапшота. Персистентность best-effort: без БД (или при
	// недоступной БД) работаем на дефолтах в памяти, это не фатально.
	snapshotRepo := repositories.NewMemorySnapshotRepository()
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
		if err != nil {
			logger.Warn("database unavailable, falling back to in-memory snapshots", slog.Any("error", err))
		} else {
			defer func() {
				if err := dbConn.Close(); err != nil {
					logger.Error("failed to close database connection", slog.Any("error", err))
				}
			}()
			if err := repositories.EnsureSnapshotSchema(ctx, dbConn); err != nil {
				logger.Warn("snapshot schema bootstrap failed, falling back to in-memory snapshots", slog.Any("error", err))
			} else {
				snapshotRepo = repositories.NewPostgresSnapshotRepository(dbConn)
				logger.Info("database connection established")
			}
		}
	} else {
		logger.Warn("DATABASE_URL is not set, snapshots live in memory only")
	}

	// WebSocket Hub комнаты табло
	wsHub := live.NewHub(logger)

	// Состояние табло и вотчер игрового таймера
	clock := clockwork.NewRealClock()
	board := services.NewBoardService(logger, snapshotRepo, wsHub, clock, cfg.ScoreTable)
	board.Load(ctx)
	watcher := services.NewClockWatcher(board, clock, logger)

	authService := services.NewAuthService(cfg.JudgePIN, cfg.MasterPIN)

	// Обработчики HTTP
	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	boardHandler := handlers.NewBoardHandler(board)
	clockHandler := handlers.NewClockHandler(board)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, logger)

	router := chi.NewRouter()
	api.SetupRoutes(router, cfg.JWTSecretKey, authHandler, boardHandler, clockHandler, webSocketHandler)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return wsHub.Run(gctx) })
	g.Go(func() error { return watcher.Run(gctx) })

	// Зеркало снапшота в R2, если настроено
	if cfg.R2.Enabled() {
		uploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2.AccountID,
			AccessKeyID:     cfg.R2.AccessKeyID,
			SecretAccessKey: cfg.R2.SecretAccessKey,
			BucketName:      cfg.R2.BucketName,
			PublicBaseURL:   cfg.R2.PublicBaseURL,
		})
		if err != nil {
			logger.Warn("snapshot mirror disabled", slog.Any("error", err))
		} else {
			mirror := storage.NewSnapshotMirror(uploader, board, cfg.MirrorInterval, logger)
			g.Go(func() error { return mirror.Run(gctx) })
			logger.Info("snapshot mirror started", slog.Duration("interval", cfg.MirrorInterval))
		}
	}

	g.Go(func() error {
		logger.Info("starting server", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application exited")
}
