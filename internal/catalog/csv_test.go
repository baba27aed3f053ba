package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"brickpile/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPileRoundTrip(t *testing.T) {
	rows := []model.PilePiece{
		{
			ImgURL:      strPtr("http://img/3001.png"),
			PartName:    strPtr("Brick 2 x 4"),
			PartCatName: strPtr("Bricks"),
			ColorName:   strPtr("Red"),
			RGB:         strPtr("C91A09"),
		},
		{
			// nil fields persist as empty cells and come back nil
			PartName:    strPtr("Plate, Round 1 x 1"),
			PartCatName: strPtr("Plates, Round"),
		},
		{
			ImgURL:      strPtr("http://img/3626.png"),
			PartName:    strPtr("Minifig Head, Plain"),
			PartCatName: strPtr("Minifig Heads"),
			ColorName:   strPtr("Yellow"),
			RGB:         strPtr("F2CD37"),
		},
	}

	path := filepath.Join(t.TempDir(), "lego_pile.csv")
	require.NoError(t, WritePile(path, rows))

	reloaded, err := ReadPile(path)
	require.NoError(t, err)
	assert.Equal(t, rows, reloaded)
}

func TestReadPile_RejectsWrongHeader(t *testing.T) {
	path := writeFile(t, t.TempDir(), "pile.csv", "img_url,part_name,color_name,part_cat_name,rgb\n")
	_, err := ReadPile(path)
	require.Error(t, err)
}

func TestLoadInventoryParts(t *testing.T) {
	path := writeFile(t, t.TempDir(), "inventory_parts.csv",
		"inventory_id,part_num,color_id,quantity,is_spare,img_url\n"+
			"1,3001,4,12,f,http://img/3001.png\n"+
			"1,3002,0,1,f,\n")

	records, err := LoadInventoryParts(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "3001", records[0].PartNum)
	assert.Equal(t, 4, records[0].ColorID)
	assert.Equal(t, 12, records[0].Quantity)
	require.NotNil(t, records[0].ImgURL)
	assert.Equal(t, "http://img/3001.png", *records[0].ImgURL)

	// Extra upstream columns are ignored; empty img_url is nil.
	assert.Nil(t, records[1].ImgURL)
}

func TestLoadInventoryParts_NonIntegerQuantity(t *testing.T) {
	path := writeFile(t, t.TempDir(), "inventory_parts.csv",
		"part_num,color_id,quantity,img_url\n3001,4,2.5,\n")

	_, err := LoadInventoryParts(path)
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestLoadInventoryParts_MissingColumn(t *testing.T) {
	path := writeFile(t, t.TempDir(), "inventory_parts.csv", "part_num,color_id\n3001,4\n")
	_, err := LoadInventoryParts(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quantity")
}

func TestLoadRawTables(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, InventoryPartsFile, "part_num,color_id,quantity,img_url\n3001,4,2,\n")
	writeFile(t, dir, PartsFile, "part_num,name,part_cat_id\n3001,Brick 2 x 4,11\n")
	writeFile(t, dir, PartCategoriesFile, "id,name\n11,Bricks\n")
	writeFile(t, dir, ColorsFile, "id,name,rgb\n4,Red,C91A09\n")

	raw, err := LoadRawTables(dir)
	require.NoError(t, err)
	assert.Len(t, raw.Inventory, 1)
	assert.Len(t, raw.Parts, 1)
	assert.Len(t, raw.Categories, 1)
	assert.Len(t, raw.Colors, 1)
	assert.Equal(t, "C91A09", raw.Colors[0].RGB)
}
