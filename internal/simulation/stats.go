package simulation

import (
	"sort"
	"strings"

	"brickpile/internal/model"
)

// ColorCount is one entry of the color-frequency aggregation. RGB is the
// bare 6-hex-digit code from the reference table (no leading '#').
type ColorCount struct {
	ColorName string
	RGB       string
	Count     int
}

// DefeatedFigure is a figure-category piece projected to name and image.
type DefeatedFigure struct {
	PartName *string
	ImgURL   *string
}

// ColorCounts groups the sampled pieces by color name. Rows without a color
// name are skipped; when duplicate hex codes appear per name the first
// occurrence wins. Entries are ordered by descending count, then name.
func ColorCounts(pieces []model.PilePiece) []ColorCount {
	counts := make(map[string]*ColorCount)
	var order []string
	for _, p := range pieces {
		if p.ColorName == nil {
			continue
		}
		name := *p.ColorName
		entry, ok := counts[name]
		if !ok {
			entry = &ColorCount{ColorName: name}
			if p.RGB != nil {
				entry.RGB = *p.RGB
			}
			counts[name] = entry
			order = append(order, name)
		}
		entry.Count++
	}

	out := make([]ColorCount, 0, len(order))
	for _, name := range order {
		out = append(out, *counts[name])
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].ColorName < out[j].ColorName
	})
	return out
}

// DefeatedFigures filters the sample down to figure-category pieces,
// preserving sample order.
func DefeatedFigures(pieces []model.PilePiece) []DefeatedFigure {
	var figures []DefeatedFigure
	for _, p := range pieces {
		for _, cat := range FigureCategories {
			if p.CategoryIs(cat) {
				figures = append(figures, DefeatedFigure{PartName: p.PartName, ImgURL: p.ImgURL})
				break
			}
		}
	}
	return figures
}

// FeaturedEnemy returns the first defeated figure carrying both a part name
// and an image, or nil when none qualifies. Absence is a valid outcome, not
// an error.
func FeaturedEnemy(figures []DefeatedFigure) *DefeatedFigure {
	for i := range figures {
		if figures[i].PartName != nil && figures[i].ImgURL != nil && *figures[i].ImgURL != "" {
			return &figures[i]
		}
	}
	return nil
}

// Damage scores the trial: 1 point per piece, plus 1 extra point for every
// piece whose category name contains the Duplo marker.
func Damage(pieces []model.PilePiece) int {
	damage := len(pieces)
	for _, p := range pieces {
		if p.PartCatName != nil && strings.Contains(*p.PartCatName, DuploMarker) {
			damage++
		}
	}
	return damage
}
