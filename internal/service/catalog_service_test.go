package service

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"brickpile/internal/catalog"
	"brickpile/internal/config"
	"brickpile/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubRepo satisfies repository.CatalogRepository without a database.
type stubRepo struct {
	raw          *catalog.RawTables
	replacedPile []model.PilePiece
	pileReplaced int
}

func (s *stubRepo) ReplaceInventoryParts(ctx context.Context, records []model.InventoryPart) error {
	return nil
}
func (s *stubRepo) ReplaceParts(ctx context.Context, parts []model.Part) error { return nil }
func (s *stubRepo) ReplacePartCategories(ctx context.Context, categories []model.PartCategory) error {
	return nil
}
func (s *stubRepo) ReplaceColors(ctx context.Context, colors []model.Color) error { return nil }

func (s *stubRepo) LoadRawTables(ctx context.Context) (*catalog.RawTables, error) {
	return s.raw, nil
}

func (s *stubRepo) ReplacePile(ctx context.Context, rows []model.PilePiece) error {
	s.replacedPile = rows
	s.pileReplaced++
	return nil
}

func (s *stubRepo) LoadPile(ctx context.Context) ([]model.PilePiece, error) {
	return s.replacedPile, nil
}

func (s *stubRepo) CountPile(ctx context.Context) (int64, error) {
	return int64(len(s.replacedPile)), nil
}

func (s *stubRepo) DB() *gorm.DB { return nil }

func seededCatalogService(repo *stubRepo, cfg *config.Config) *catalogService {
	svc := &catalogService{
		cfg:    cfg,
		newRNG: func() *rand.Rand { return rand.New(rand.NewSource(1)) },
	}
	if repo != nil {
		svc.repo = repo
	}
	return svc
}

func testRawTables() *catalog.RawTables {
	return &catalog.RawTables{
		Inventory: []model.InventoryPart{
			{PartNum: "3001", ColorID: 4, Quantity: 5},
			{PartNum: "3024", ColorID: 1, Quantity: 3},
			{PartNum: "sticker1", ColorID: 4, Quantity: 2},
		},
		Parts: []model.Part{
			{PartNum: "3001", Name: "Brick 2 x 4", PartCatID: 11},
			{PartNum: "3024", Name: "Plate 1 x 1", PartCatID: 14},
			{PartNum: "sticker1", Name: "Sticker Sheet", PartCatID: 58},
		},
		Categories: []model.PartCategory{
			{ID: 11, Name: "Bricks"},
			{ID: 14, Name: "Plates"},
			{ID: 58, Name: "Stickers"},
		},
		Colors: []model.Color{
			{ID: 4, Name: "Red", RGB: "C91A09"},
			{ID: 1, Name: "Blue", RGB: "0055BF"},
		},
	}
}

func TestBuild_Pipeline(t *testing.T) {
	svc := seededCatalogService(nil, &config.Config{})

	// 5 + 3 brick/plate units after the sticker rows are filtered out.
	pile, err := svc.Build(testRawTables(), 6)
	require.NoError(t, err)
	require.Len(t, pile, 6)

	for _, p := range pile {
		require.NotNil(t, p.PartCatName)
		assert.NotEqual(t, "Stickers", *p.PartCatName)
		require.NotNil(t, p.ColorName)
	}
}

func TestBuild_SampleTooLarge(t *testing.T) {
	svc := seededCatalogService(nil, &config.Config{})
	_, err := svc.Build(testRawTables(), 100)
	require.ErrorIs(t, err, catalog.ErrSampleTooLarge)
}

func TestBuild_InvalidQuantity(t *testing.T) {
	raw := testRawTables()
	raw.Inventory[0].Quantity = -1

	svc := seededCatalogService(nil, &config.Config{})
	_, err := svc.Build(raw, 1)
	require.ErrorIs(t, err, catalog.ErrInvalidQuantity)
}

func TestRebuildFromDB_PersistsCSVAndTable(t *testing.T) {
	pilePath := filepath.Join(t.TempDir(), "lego_pile.csv")
	repo := &stubRepo{raw: testRawTables()}
	svc := seededCatalogService(repo, &config.Config{PileSampleSize: 6, PilePath: pilePath})

	pile, err := svc.RebuildFromDB(context.Background())
	require.NoError(t, err)
	assert.Len(t, pile, 6)

	// Both persistence targets are written.
	assert.Equal(t, 1, repo.pileReplaced)
	assert.Equal(t, pile, repo.replacedPile)

	reloaded, err := catalog.ReadPile(pilePath)
	require.NoError(t, err)
	assert.Len(t, reloaded, 6)
}

func TestRebuildFromDB_NoDatabase(t *testing.T) {
	svc := seededCatalogService(nil, &config.Config{})
	_, err := svc.RebuildFromDB(context.Background())
	require.Error(t, err)
}

func TestRebuildFromCSV(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	write(catalog.InventoryPartsFile, "part_num,color_id,quantity,img_url\n3001,4,4,\n3024,1,2,\n")
	write(catalog.PartsFile, "part_num,name,part_cat_id\n3001,Brick 2 x 4,11\n3024,Plate 1 x 1,14\n")
	write(catalog.PartCategoriesFile, "id,name\n11,Bricks\n14,Plates\n")
	write(catalog.ColorsFile, "id,name,rgb\n4,Red,C91A09\n1,Blue,0055BF\n")

	cfg := &config.Config{
		RawDataDir:     dir,
		PilePath:       filepath.Join(dir, "lego_pile.csv"),
		PileSampleSize: 5,
	}
	svc := seededCatalogService(nil, cfg)

	pile, err := svc.RebuildFromCSV(context.Background())
	require.NoError(t, err)
	assert.Len(t, pile, 5)

	reloaded, err := catalog.ReadPile(cfg.PilePath)
	require.NoError(t, err)
	assert.Equal(t, pile, reloaded)
}

func TestRebuildFromDB_BuildFailureSkipsPersist(t *testing.T) {
	pilePath := filepath.Join(t.TempDir(), "lego_pile.csv")
	repo := &stubRepo{raw: testRawTables()}
	svc := seededCatalogService(repo, &config.Config{PileSampleSize: 10000, PilePath: pilePath})

	_, err := svc.RebuildFromDB(context.Background())
	require.ErrorIs(t, err, catalog.ErrSampleTooLarge)

	// Nothing partial persisted.
	assert.Zero(t, repo.pileReplaced)
	_, statErr := os.Stat(pilePath)
	assert.True(t, os.IsNotExist(statErr))
}
