package repository

import (
	"context"

	"brickpile/internal/catalog"
	"brickpile/internal/model"

	"gorm.io/gorm"
)

// insertBatchSize keeps bulk inserts below Postgres' bind-parameter limit.
const insertBatchSize = 1000

// CatalogRepository defines the data access contract for the raw reference
// tables and the persisted pile. Services depend on this interface, not on
// the concrete GORM implementation, enabling clean unit testing via stubs.
type CatalogRepository interface {
	// Raw reference tables — replaced wholesale on ingest
	ReplaceInventoryParts(ctx context.Context, records []model.InventoryPart) error
	ReplaceParts(ctx context.Context, parts []model.Part) error
	ReplacePartCategories(ctx context.Context, categories []model.PartCategory) error
	ReplaceColors(ctx context.Context, colors []model.Color) error
	LoadRawTables(ctx context.Context) (*catalog.RawTables, error)

	// Pile — the persisted working dataset
	ReplacePile(ctx context.Context, rows []model.PilePiece) error
	LoadPile(ctx context.Context) ([]model.PilePiece, error)
	CountPile(ctx context.Context) (int64, error)

	// DB exposes the underlying *gorm.DB so callers can open transactions.
	DB() *gorm.DB
}

type catalogRepo struct{ db *gorm.DB }

func NewCatalogRepository(db *gorm.DB) CatalogRepository { return &catalogRepo{db: db} }

// replaceAll swaps a table's contents inside one transaction so a failed
// ingest never leaves a half-loaded reference table behind.
func replaceAll[T any](ctx context.Context, db *gorm.DB, rows []T) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var zero T
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&zero).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, insertBatchSize).Error
	})
}

func (r *catalogRepo) ReplaceInventoryParts(ctx context.Context, records []model.InventoryPart) error {
	return replaceAll(ctx, r.db, records)
}

func (r *catalogRepo) ReplaceParts(ctx context.Context, parts []model.Part) error {
	return replaceAll(ctx, r.db, parts)
}

func (r *catalogRepo) ReplacePartCategories(ctx context.Context, categories []model.PartCategory) error {
	return replaceAll(ctx, r.db, categories)
}

func (r *catalogRepo) ReplaceColors(ctx context.Context, colors []model.Color) error {
	return replaceAll(ctx, r.db, colors)
}

func (r *catalogRepo) LoadRawTables(ctx context.Context) (*catalog.RawTables, error) {
	var raw catalog.RawTables
	if err := r.db.WithContext(ctx).Find(&raw.Inventory).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Find(&raw.Parts).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Find(&raw.Categories).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Find(&raw.Colors).Error; err != nil {
		return nil, err
	}
	return &raw, nil
}

func (r *catalogRepo) ReplacePile(ctx context.Context, rows []model.PilePiece) error {
	return replaceAll(ctx, r.db, rows)
}

func (r *catalogRepo) LoadPile(ctx context.Context) ([]model.PilePiece, error) {
	var rows []model.PilePiece
	err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *catalogRepo) CountPile(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.PilePiece{}).Count(&total).Error
	return total, err
}

func (r *catalogRepo) DB() *gorm.DB { return r.db }
