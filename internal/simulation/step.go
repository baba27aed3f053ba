package simulation

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"brickpile/internal/model"
)

var (
	// ErrPileTooSmall marks a sampling failure: the draw request exceeds the
	// pile size.
	ErrPileTooSmall = errors.New("draw size exceeds pile size")

	// ErrNoTrophy means the pile holds no trophy-eligible piece (a
	// Minifig Heads row with an image). The trial degrades to the base
	// sample; it is not fatal.
	ErrNoTrophy = errors.New("no trophy piece available")
)

// Result is the ephemeral outcome of one trial: the pieces stepped on, in
// pile order, with the trophy piece (when present) appended last.
type Result struct {
	Pieces    []model.PilePiece
	HasTrophy bool
}

// Count reports the effective pieces stepped on, trophy included.
func (r Result) Count() int { return len(r.Pieces) }

// StepOn runs one trial against the pile: estimate the piece count for the
// shoe size, clamp a non-positive estimate to zero, draw that many rows
// without replacement, then append one guaranteed trophy piece drawn from
// the trophy-eligible subset.
//
// When no trophy candidate exists the base draw is still returned alongside
// ErrNoTrophy so the caller can degrade the trial instead of dropping it.
func StepOn(rng *rand.Rand, pile []model.PilePiece, shoeSize float64) (Result, error) {
	n := EstimatedPieceCount(rng, shoeSize)
	if n < 0 {
		n = 0
	}
	if n > len(pile) {
		return Result{}, fmt.Errorf("%w: want %d of %d", ErrPileTooSmall, n, len(pile))
	}

	base := draw(rng, pile, n)

	var candidates []int
	for i, p := range pile {
		if p.CategoryIs(TrophyCategory) && p.HasImage() {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return Result{Pieces: base}, ErrNoTrophy
	}

	trophy := pile[candidates[rng.Intn(len(candidates))]]
	return Result{Pieces: append(base, trophy), HasTrophy: true}, nil
}

// draw selects n distinct rows uniformly at random, emitted in pile order so
// downstream "first row" semantics are deterministic given the drawn set.
func draw(rng *rand.Rand, pile []model.PilePiece, n int) []model.PilePiece {
	idx := rng.Perm(len(pile))[:n]
	sort.Ints(idx)

	out := make([]model.PilePiece, 0, n)
	for _, i := range idx {
		out = append(out, pile[i])
	}
	return out
}
