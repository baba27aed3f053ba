package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"brickpile/internal/catalog"
	"brickpile/internal/config"
	"brickpile/internal/model"
	"brickpile/internal/repository"

	"github.com/rs/zerolog/log"
)

// CatalogService runs the offline build pipeline: raw tables in, persisted
// pile out. Builder errors are fatal to the batch run — nothing partial is
// persisted.
type CatalogService interface {
	Build(raw *catalog.RawTables, target int) ([]model.PilePiece, error)
	RebuildFromCSV(ctx context.Context) ([]model.PilePiece, error)
	RebuildFromDB(ctx context.Context) ([]model.PilePiece, error)
}

type catalogService struct {
	repo   repository.CatalogRepository // nil when no database is configured
	cfg    *config.Config
	newRNG func() *rand.Rand
}

func NewCatalogService(repo repository.CatalogRepository, cfg *config.Config) CatalogService {
	return &catalogService{
		repo: repo,
		cfg:  cfg,
		newRNG: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

// Build runs explode → join → filter → downsample over the raw tables.
func (s *catalogService) Build(raw *catalog.RawTables, target int) ([]model.PilePiece, error) {
	log.Info().Int("inventory_rows", len(raw.Inventory)).Msg("exploding inventory rows")
	units, err := catalog.Explode(raw.Inventory)
	if err != nil {
		return nil, fmt.Errorf("explode: %w", err)
	}

	log.Info().Int("unit_rows", len(units)).Msg("joining parts, categories and colors")
	pile := catalog.Join(units, raw.Parts, raw.Categories, raw.Colors)

	pile = catalog.FilterCategories(pile, catalog.ExcludedCategories)
	log.Info().Int("filtered_rows", len(pile)).Strs("excluded", catalog.ExcludedCategories).Msg("excluded categories removed")

	sample, err := catalog.Downsample(s.newRNG(), pile, target)
	if err != nil {
		return nil, fmt.Errorf("downsample: %w", err)
	}
	log.Info().Int("pile_size", len(sample)).Msg("pile built")
	return sample, nil
}

// RebuildFromCSV builds the pile from the raw CSV exports and persists it.
func (s *catalogService) RebuildFromCSV(ctx context.Context) ([]model.PilePiece, error) {
	raw, err := catalog.LoadRawTables(s.cfg.RawDataDir)
	if err != nil {
		return nil, fmt.Errorf("load raw tables: %w", err)
	}
	return s.buildAndPersist(ctx, raw)
}

// RebuildFromDB builds the pile from the ingested reference tables and
// persists it.
func (s *catalogService) RebuildFromDB(ctx context.Context) ([]model.PilePiece, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("rebuild from db: no database configured")
	}
	raw, err := s.repo.LoadRawTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("load raw tables: %w", err)
	}
	return s.buildAndPersist(ctx, raw)
}

func (s *catalogService) buildAndPersist(ctx context.Context, raw *catalog.RawTables) ([]model.PilePiece, error) {
	pile, err := s.Build(raw, s.cfg.PileSampleSize)
	if err != nil {
		return nil, err
	}
	if err := catalog.WritePile(s.cfg.PilePath, pile); err != nil {
		return nil, fmt.Errorf("persist pile csv: %w", err)
	}
	log.Info().Str("path", s.cfg.PilePath).Msg("pile csv written")

	if s.repo != nil {
		if err := s.repo.ReplacePile(ctx, pile); err != nil {
			return nil, fmt.Errorf("persist pile table: %w", err)
		}
		log.Info().Msg("pile table replaced")
	}
	return pile, nil
}
