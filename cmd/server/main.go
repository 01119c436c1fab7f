package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jules19/canadian-salad/internal/config"
	"github.com/jules19/canadian-salad/internal/middleware"
	"github.com/jules19/canadian-salad/internal/persist"
	"github.com/jules19/canadian-salad/internal/store"
	"github.com/jules19/canadian-salad/internal/ws"
)

var configPath = flag.String("config", "", "path to configuration file")

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Server)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting canadian salad server",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gameStore := store.NewMemoryStore(cfg, logger)
	hub := ws.NewHub(gameStore, cfg, logger)
	snapshots := persist.New(afero.NewOsFs(), cfg.Snapshot, logger)

	// Restoration into the live registry is not wired up; surfacing the
	// previous state in the log is still useful after a crash.
	if rooms, err := snapshots.LoadLatest(); err != nil {
		logger.Warn("could not read previous snapshot", zap.Error(err))
	} else if len(rooms) > 0 {
		logger.Info("found previous snapshot", zap.Int("rooms", len(rooms)))
	}

	go gameStore.RunSweeper(ctx)
	go snapshots.Run(ctx, gameStore.Rooms)

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.RequestSizeLimiter(cfg.Server.MaxRequestSize))
	r.Use(middleware.SecurityHeaders())

	rateLimiter := middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateLimitBurst)
	r.Use(rateLimiter.Middleware())

	r.Get("/ws", hub.ServeWS)

	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","rooms":` + strconv.Itoa(gameStore.Count()) + `}`))
	})

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout, // 0 keeps WebSocket connections open
	}

	go func() {
		logger.Info("listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("shutting down", zap.String("signal", sig.String()))

	// Cancelling the snapshot loop writes a final snapshot on its way
	// out; save once more here so shutdown never races the loop.
	cancel()
	if err := snapshots.Save(gameStore.Rooms()); err != nil {
		logger.Error("final snapshot failed", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

// initLogger builds the zap logger from configuration.
func initLogger(cfg config.ServerSettings) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.LogLevel {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.LogFormat == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
