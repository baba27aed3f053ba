// Package simulation implements the step trial: a physical model that
// estimates how many pieces a foot covers, a weighted random draw from the
// pile, and the derived statistics (color distribution, defeated figures,
// damage score).
//
// All randomness is threaded through an explicit *rand.Rand so trials are
// reproducible under test and nondeterministic only where the caller seeds
// them that way.
package simulation

import "math/rand"

const (
	// PieceEdgeCM is the assumed edge length of a single piece in cm
	// (a 3x3-stud element).
	PieceEdgeCM = 2.34

	// TrophyCategory is the category of the guaranteed figure-head piece
	// appended to every trial.
	TrophyCategory = "Minifig Heads"

	// DuploMarker is matched as a case-sensitive substring of the category
	// name. The categorization policy lives in the reference data, so a
	// substring match is the contract — not an enum.
	DuploMarker = "Duplo"
)

// FigureCategories are the part categories counted as defeated figures.
var FigureCategories = []string{"Minifigs", "Minifig Heads", "Minidoll Heads"}

// FootLength estimates foot length in cm from an EU shoe size.
// See https://en.wikipedia.org/wiki/Shoe_size for the length formula.
func FootLength(shoeSize float64) float64 {
	return (2.0 / 3.0) * (shoeSize - 2)
}

// FootWidth estimates foot width in cm as a fixed ratio of foot length.
func FootWidth(shoeSize float64) float64 {
	return 0.35 * FootLength(shoeSize)
}

// FootArea estimates the contact area of one foot in cm², treating the foot
// as a rectangle. Monotonically non-decreasing for shoeSize >= 2.
func FootArea(shoeSize float64) float64 {
	return FootLength(shoeSize) * FootWidth(shoeSize)
}

// BasePieceCount is the deterministic part of the piece estimate: foot area
// over single-piece area, doubled for two feet, truncated toward zero.
func BasePieceCount(shoeSize float64) int {
	perFoot := FootArea(shoeSize) / (PieceEdgeCM * PieceEdgeCM)
	return int(perFoot * 2)
}

// EstimatedPieceCount adds a uniform random offset in [-10, 10) to the base
// estimate. Maybe you'll get lucky... or not. The result can be negative for
// small shoe sizes; callers must clamp to zero before drawing.
func EstimatedPieceCount(rng *rand.Rand, shoeSize float64) int {
	return BasePieceCount(shoeSize) + rng.Intn(20) - 10
}
