// Package catalog implements the offline ETL pipeline that turns the raw
// Rebrickable reference tables into the working pile dataset: explode
// quantity rows into unit rows, join descriptive attributes, drop excluded
// categories, downsample to a target size.
//
// Every operation is a pure function over slices; persistence lives in
// csv.go and in the repository layer. Randomized steps take an explicit
// *rand.Rand so batch runs are reproducible under test.
package catalog

import (
	"errors"
	"fmt"
	"math/rand"

	"brickpile/internal/model"
)

var (
	// ErrInvalidQuantity marks a data-integrity failure: a quantity that is
	// negative or not an integer. Builder errors are fatal to the batch run.
	ErrInvalidQuantity = errors.New("invalid inventory quantity")

	// ErrSampleTooLarge marks a configuration failure: the requested sample
	// size exceeds the available row count.
	ErrSampleTooLarge = errors.New("sample size exceeds available rows")
)

// ExcludedCategories are the non-Lego part categories removed from the pile.
var ExcludedCategories = []string{"Other", "Stickers"}

// Explode expands each quantity-bearing inventory row into one row per
// physical unit. A quantity of q produces q copies with quantity 1; q == 0
// produces none. The total output length equals the sum of input quantities.
func Explode(records []model.InventoryPart) ([]model.InventoryPart, error) {
	total := 0
	for _, r := range records {
		if r.Quantity < 0 {
			return nil, fmt.Errorf("%w: part %s color %d has quantity %d",
				ErrInvalidQuantity, r.PartNum, r.ColorID, r.Quantity)
		}
		total += r.Quantity
	}

	units := make([]model.InventoryPart, 0, total)
	for _, r := range records {
		unit := r
		unit.Quantity = 1
		for i := 0; i < r.Quantity; i++ {
			units = append(units, unit)
		}
	}
	return units, nil
}

// Join left-joins unit rows to parts (by part number), part categories (by
// category id) and colors (by color id), projecting onto the fixed pile
// column set. A missing join key leaves the corresponding fields nil but
// keeps the row.
func Join(units []model.InventoryPart, parts []model.Part, categories []model.PartCategory, colors []model.Color) []model.PilePiece {
	partsByNum := make(map[string]model.Part, len(parts))
	for _, p := range parts {
		partsByNum[p.PartNum] = p
	}
	categoriesByID := make(map[int]model.PartCategory, len(categories))
	for _, c := range categories {
		categoriesByID[c.ID] = c
	}
	colorsByID := make(map[int]model.Color, len(colors))
	for _, c := range colors {
		colorsByID[c.ID] = c
	}

	pile := make([]model.PilePiece, 0, len(units))
	for _, u := range units {
		piece := model.PilePiece{ImgURL: u.ImgURL}
		if part, ok := partsByNum[u.PartNum]; ok {
			name := part.Name
			piece.PartName = &name
			if cat, ok := categoriesByID[part.PartCatID]; ok {
				catName := cat.Name
				piece.PartCatName = &catName
			}
		}
		if color, ok := colorsByID[u.ColorID]; ok {
			name, rgb := color.Name, color.RGB
			piece.ColorName = &name
			piece.RGB = &rgb
		}
		pile = append(pile, piece)
	}
	return pile
}

// FilterCategories removes every row whose category name is in excluded.
// Rows with a nil category name are retained — an unmatched join is not an
// exclusion.
func FilterCategories(rows []model.PilePiece, excluded []string) []model.PilePiece {
	drop := make(map[string]bool, len(excluded))
	for _, name := range excluded {
		drop[name] = true
	}

	kept := make([]model.PilePiece, 0, len(rows))
	for _, r := range rows {
		if r.PartCatName != nil && drop[*r.PartCatName] {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

// Downsample draws target rows uniformly at random without replacement.
// Returns ErrSampleTooLarge when target exceeds the available row count.
func Downsample(rng *rand.Rand, rows []model.PilePiece, target int) ([]model.PilePiece, error) {
	if target > len(rows) {
		return nil, fmt.Errorf("%w: want %d of %d", ErrSampleTooLarge, target, len(rows))
	}
	if target < 0 {
		return nil, fmt.Errorf("%w: negative target %d", ErrSampleTooLarge, target)
	}

	sample := make([]model.PilePiece, 0, target)
	for _, idx := range rng.Perm(len(rows))[:target] {
		sample = append(sample, rows[idx])
	}
	return sample, nil
}
