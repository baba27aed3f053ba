// cmd/ingest — loads the raw Rebrickable CSV exports into Postgres.
// Usage: go run ./cmd/ingest -dir ./data/rebrickable
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"brickpile/internal/catalog"
	"brickpile/internal/config"
	"brickpile/internal/infra"
	"brickpile/internal/repository"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	dir := flag.String("dir", cfg.RawDataDir, "path to the raw Rebrickable CSV directory")
	dsn := flag.String("db", cfg.DatabaseURL, "Postgres connection string")
	dryRun := flag.Bool("dry-run", false, "parse only, do not insert into DB")
	flag.Parse()

	raw, err := catalog.LoadRawTables(*dir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", *dir).Msg("failed to load raw tables")
	}
	log.Info().
		Int("inventory_parts", len(raw.Inventory)).
		Int("parts", len(raw.Parts)).
		Int("part_categories", len(raw.Categories)).
		Int("colors", len(raw.Colors)).
		Msg("raw tables parsed")

	if *dryRun {
		log.Info().Msg("dry run, nothing inserted")
		return
	}

	db, err := infra.NewDatabase(*dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	repo := repository.NewCatalogRepository(db)

	ctx := context.Background()
	start := time.Now()

	steps := []struct {
		table string
		run   func() error
	}{
		{"part_categories", func() error { return repo.ReplacePartCategories(ctx, raw.Categories) }},
		{"colors", func() error { return repo.ReplaceColors(ctx, raw.Colors) }},
		{"parts", func() error { return repo.ReplaceParts(ctx, raw.Parts) }},
		{"inventory_parts", func() error { return repo.ReplaceInventoryParts(ctx, raw.Inventory) }},
	}
	for _, s := range steps {
		if err := s.run(); err != nil {
			log.Fatal().Err(err).Str("table", s.table).Msg("ingest failed")
		}
		log.Info().Str("table", s.table).Msg("table replaced")
	}

	log.Info().
		Dur("took", time.Since(start)).
		Str("source", filepath.Clean(*dir)).
		Msg("ingest complete")
}
