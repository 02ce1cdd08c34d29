package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"slipgen/internal/api"
	"slipgen/internal/config"
	"slipgen/internal/render"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	engine := render.NewEngine(logger, cfg.Render.Timeout())

	router := api.NewRouter(logger)
	api.RegisterRoutes(router, engine, cfg)

	address := fmt.Sprintf(":%d", cfg.API.Port)
	logger.Info("api listening",
		slog.String("address", address),
		slog.Int("max_batch", cfg.Render.MaxBatch),
		slog.Int("max_width_px", cfg.Render.MaxWidthPx),
	)

	if err := router.Run(address); err != nil {
		log.Fatalf("failed to start api server: %v", err)
	}
}
