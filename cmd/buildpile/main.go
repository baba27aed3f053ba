// cmd/buildpile — the offline catalog build: explodes, joins, filters and
// downsamples the raw tables into the working pile dataset.
// Usage: go run ./cmd/buildpile [-source csv|db] [-target 800000]
//
// Any builder error is fatal and nothing partial is persisted.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"brickpile/internal/config"
	"brickpile/internal/infra"
	"brickpile/internal/repository"
	"brickpile/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	source := flag.String("source", "csv", "raw table source: csv | db")
	target := flag.Int("target", cfg.PileSampleSize, "pile sample size")
	out := flag.String("out", cfg.PilePath, "output path for the pile csv")
	flag.Parse()

	cfg.PileSampleSize = *target
	cfg.PilePath = *out

	// The DB is optional for CSV builds: without it the pile is persisted to
	// CSV only.
	var repo repository.CatalogRepository
	if db, dbErr := infra.NewDatabase(cfg.DatabaseURL); dbErr == nil {
		repo = repository.NewCatalogRepository(db)
	} else if *source == "db" {
		log.Fatal().Err(dbErr).Msg("source=db requires a reachable postgres")
	} else {
		log.Warn().Err(dbErr).Msg("postgres unavailable, persisting csv only")
	}

	svc := service.NewCatalogService(repo, cfg)

	ctx := context.Background()
	start := time.Now()

	var pileLen int
	switch *source {
	case "csv":
		pile, err := svc.RebuildFromCSV(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("build failed")
		}
		pileLen = len(pile)
	case "db":
		pile, err := svc.RebuildFromDB(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("build failed")
		}
		pileLen = len(pile)
	default:
		log.Fatal().Str("source", *source).Msg("unknown source, want csv or db")
	}

	log.Info().
		Int("pile_size", pileLen).
		Str("out", cfg.PilePath).
		Dur("took", time.Since(start)).
		Msg("pile build complete")
}
