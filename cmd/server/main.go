package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brickpile/internal/catalog"
	"brickpile/internal/config"
	"brickpile/internal/infra"
	"brickpile/internal/model"
	"brickpile/internal/repository"
	"brickpile/internal/router"
	"brickpile/internal/service"
	"brickpile/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	repo := repository.NewCatalogRepository(db)

	// Load the working dataset: prefer the persisted CSV, fall back to the
	// pile table. The server has nothing to serve without one.
	pile, err := loadPile(cfg, repo)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load pile — run cmd/buildpile first")
	}
	log.Info().Int("pile_size", len(pile)).Msg("pile loaded")

	// Services are built here (composition root) so the worker pool and the
	// router share the same instances.
	catalogSvc := service.NewCatalogService(repo, cfg)
	simulationSvc := service.NewSimulationService(pile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatcher := worker.NewDispatcher(rdb)
	workerHandlers := &worker.WorkerHandlers{
		Rebuild: worker.NewRebuildWorker(catalogSvc, simulationSvc),
	}
	worker.StartWorkerPool(ctx, rdb, workerHandlers, cfg.WorkerPoolSize)

	r := router.New(cfg, db, rdb, simulationSvc, dispatcher)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("brickpile backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}

func loadPile(cfg *config.Config, repo repository.CatalogRepository) ([]model.PilePiece, error) {
	pile, csvErr := catalog.ReadPile(cfg.PilePath)
	if csvErr == nil {
		return pile, nil
	}
	log.Warn().Err(csvErr).Str("path", cfg.PilePath).Msg("pile csv unavailable, trying pile table")

	pile, dbErr := repo.LoadPile(context.Background())
	if dbErr != nil {
		return nil, fmt.Errorf("csv: %v; db: %w", csvErr, dbErr)
	}
	if len(pile) == 0 {
		return nil, fmt.Errorf("pile table is empty")
	}
	return pile, nil
}
