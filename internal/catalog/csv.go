package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"brickpile/internal/model"
)

// Standard file names of the Rebrickable CSV exports inside the raw data dir.
const (
	InventoryPartsFile = "inventory_parts.csv"
	PartsFile          = "parts.csv"
	PartCategoriesFile = "part_categories.csv"
	ColorsFile         = "colors.csv"
)

// PileHeader is the exact column set and order of the persisted pile file.
// It is an external contract — renderers and reloads depend on it.
var PileHeader = []string{"img_url", "part_name", "part_cat_name", "color_name", "rgb"}

// RawTables bundles the four reference tables consumed by the builder.
type RawTables struct {
	Inventory  []model.InventoryPart
	Parts      []model.Part
	Categories []model.PartCategory
	Colors     []model.Color
}

// LoadRawTables reads the four reference CSVs from dir.
func LoadRawTables(dir string) (*RawTables, error) {
	inventory, err := LoadInventoryParts(filepath.Join(dir, InventoryPartsFile))
	if err != nil {
		return nil, err
	}
	parts, err := LoadParts(filepath.Join(dir, PartsFile))
	if err != nil {
		return nil, err
	}
	categories, err := LoadPartCategories(filepath.Join(dir, PartCategoriesFile))
	if err != nil {
		return nil, err
	}
	colors, err := LoadColors(filepath.Join(dir, ColorsFile))
	if err != nil {
		return nil, err
	}
	return &RawTables{Inventory: inventory, Parts: parts, Categories: categories, Colors: colors}, nil
}

// LoadInventoryParts reads the raw inventory table. Quantities that do not
// parse as integers are a data-integrity failure (ErrInvalidQuantity).
func LoadInventoryParts(path string) ([]model.InventoryPart, error) {
	var records []model.InventoryPart
	err := readCSV(path, []string{"part_num", "color_id", "quantity", "img_url"}, func(line int, get func(string) string) error {
		colorID, err := strconv.Atoi(get("color_id"))
		if err != nil {
			return fmt.Errorf("line %d: color_id %q: %w", line, get("color_id"), err)
		}
		quantity, err := strconv.Atoi(get("quantity"))
		if err != nil {
			return fmt.Errorf("%w: line %d: quantity %q", ErrInvalidQuantity, line, get("quantity"))
		}
		records = append(records, model.InventoryPart{
			PartNum:  get("part_num"),
			ColorID:  colorID,
			Quantity: quantity,
			ImgURL:   optional(get("img_url")),
		})
		return nil
	})
	return records, err
}

// LoadParts reads the parts table.
func LoadParts(path string) ([]model.Part, error) {
	var parts []model.Part
	err := readCSV(path, []string{"part_num", "name", "part_cat_id"}, func(line int, get func(string) string) error {
		catID, err := strconv.Atoi(get("part_cat_id"))
		if err != nil {
			return fmt.Errorf("line %d: part_cat_id %q: %w", line, get("part_cat_id"), err)
		}
		parts = append(parts, model.Part{PartNum: get("part_num"), Name: get("name"), PartCatID: catID})
		return nil
	})
	return parts, err
}

// LoadPartCategories reads the part category table.
func LoadPartCategories(path string) ([]model.PartCategory, error) {
	var categories []model.PartCategory
	err := readCSV(path, []string{"id", "name"}, func(line int, get func(string) string) error {
		id, err := strconv.Atoi(get("id"))
		if err != nil {
			return fmt.Errorf("line %d: id %q: %w", line, get("id"), err)
		}
		categories = append(categories, model.PartCategory{ID: id, Name: get("name")})
		return nil
	})
	return categories, err
}

// LoadColors reads the color table. RGB stays a bare 6-hex-digit string —
// the '#' is prepended only at presentation time.
func LoadColors(path string) ([]model.Color, error) {
	var colors []model.Color
	err := readCSV(path, []string{"id", "name", "rgb"}, func(line int, get func(string) string) error {
		id, err := strconv.Atoi(get("id"))
		if err != nil {
			return fmt.Errorf("line %d: id %q: %w", line, get("id"), err)
		}
		colors = append(colors, model.Color{ID: id, Name: get("name"), RGB: get("rgb")})
		return nil
	})
	return colors, err
}

// WritePile persists the working dataset to path. The file is written to a
// temp sibling and renamed into place so a failed batch run never leaves a
// partial pile behind.
func WritePile(path string, rows []model.PilePiece) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("write pile: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(PileHeader); err != nil {
		tmp.Close()
		return fmt.Errorf("write pile header: %w", err)
	}
	for _, r := range rows {
		record := []string{deref(r.ImgURL), deref(r.PartName), deref(r.PartCatName), deref(r.ColorName), deref(r.RGB)}
		if err := w.Write(record); err != nil {
			tmp.Close()
			return fmt.Errorf("write pile row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush pile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close pile: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// ReadPile reloads a persisted pile file. The header must match PileHeader
// exactly; empty cells come back as nil fields, mirroring WritePile.
func ReadPile(path string) ([]model.PilePiece, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read pile: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read pile header: %w", err)
	}
	if len(header) != len(PileHeader) {
		return nil, fmt.Errorf("read pile: unexpected header %v", header)
	}
	for i, col := range PileHeader {
		if header[i] != col {
			return nil, fmt.Errorf("read pile: column %d is %q, want %q", i, header[i], col)
		}
	}

	var rows []model.PilePiece
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read pile row: %w", err)
		}
		rows = append(rows, model.PilePiece{
			ImgURL:      optional(record[0]),
			PartName:    optional(record[1]),
			PartCatName: optional(record[2]),
			ColorName:   optional(record[3]),
			RGB:         optional(record[4]),
		})
	}
	return rows, nil
}

// readCSV streams path row by row, resolving the wanted columns by header
// name so upstream exports may carry extra columns in any order.
func readCSV(path string, columns []string, visit func(line int, get func(string) string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("read header of %s: %w", path, err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, col := range columns {
		if _, ok := index[col]; !ok {
			return fmt.Errorf("%s: missing required column %q", path, col)
		}
	}

	line := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		line++
		get := func(col string) string { return record[index[col]] }
		if err := visit(line, get); err != nil {
			return err
		}
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
