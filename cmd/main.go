package main

import (
	"log/slog"
	"os"

	httpapi "github.com/immersio/meet-relay/internal/api/http"
	"github.com/immersio/meet-relay/internal/config"
	"github.com/immersio/meet-relay/internal/registry"
	"github.com/immersio/meet-relay/internal/service"
	"github.com/immersio/meet-relay/lib/logger/slogpretty"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")

	cfg := config.MustLoad()
	log := setupLogger(cfg.Env)

	rooms := registry.New(log)
	signals := service.NewSignalService(rooms, log)
	roomController := httpapi.NewRoomController(signals, rooms, cfg, log)

	router := httpapi.SetupRouter(roomController, cfg)

	log.Info("starting signaling relay",
		slog.String("addr", cfg.HTTP.Address),
		slog.String("env", cfg.Env),
	)
	if err := router.Run(cfg.HTTP.Address); err != nil {
		log.Error("http server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
