package simulation

import (
	"math/rand"
	"testing"

	"brickpile/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

// testPile builds n generic bricks plus, when withTrophy is set, one trophy
// head with an image at the end.
func testPile(n int, withTrophy bool) []model.PilePiece {
	pile := make([]model.PilePiece, 0, n+1)
	for i := 0; i < n; i++ {
		pile = append(pile, model.PilePiece{
			PartName:    strPtr("Brick 2 x 4"),
			PartCatName: strPtr("Bricks"),
			ColorName:   strPtr("Red"),
			RGB:         strPtr("C91A09"),
		})
	}
	if withTrophy {
		pile = append(pile, model.PilePiece{
			ImgURL:      strPtr("http://img/3626.png"),
			PartName:    strPtr("Minifig Head, Plain"),
			PartCatName: strPtr("Minifig Heads"),
			ColorName:   strPtr("Yellow"),
			RGB:         strPtr("F2CD37"),
		})
	}
	return pile
}

func TestDraw_DistinctInPileOrder(t *testing.T) {
	pile := make([]model.PilePiece, 5)
	for i := range pile {
		name := string(rune('a' + i))
		pile[i].PartName = &name
	}

	got := draw(rand.New(rand.NewSource(3)), pile, 3)
	require.Len(t, got, 3)

	seen := make(map[string]bool)
	prev := ""
	for _, p := range got {
		require.NotNil(t, p.PartName)
		assert.False(t, seen[*p.PartName])
		seen[*p.PartName] = true
		// single-letter names make pile order lexicographic
		assert.Greater(t, *p.PartName, prev)
		prev = *p.PartName
	}
}

func TestStepOn_CountMatchesEstimate(t *testing.T) {
	const seed, shoeSize = 99, 42.0

	// Replicate the estimate the same seed will produce inside StepOn.
	expected := EstimatedPieceCount(rand.New(rand.NewSource(seed)), shoeSize)
	require.Positive(t, expected)

	result, err := StepOn(rand.New(rand.NewSource(seed)), testPile(200, true), shoeSize)
	require.NoError(t, err)
	assert.True(t, result.HasTrophy)
	assert.Equal(t, expected+1, result.Count())
}

func TestStepOn_TrophyAppendedLast(t *testing.T) {
	result, err := StepOn(rand.New(rand.NewSource(1)), testPile(200, true), 42)
	require.NoError(t, err)
	require.True(t, result.HasTrophy)

	last := result.Pieces[len(result.Pieces)-1]
	require.NotNil(t, last.PartCatName)
	assert.Equal(t, "Minifig Heads", *last.PartCatName)
	require.NotNil(t, last.ImgURL)
}

func TestStepOn_NoTrophyDegrades(t *testing.T) {
	result, err := StepOn(rand.New(rand.NewSource(1)), testPile(200, false), 42)
	require.ErrorIs(t, err, ErrNoTrophy)
	assert.False(t, result.HasTrophy)
	assert.NotEmpty(t, result.Pieces)
}

func TestStepOn_HeadWithoutImageIsNoTrophy(t *testing.T) {
	pile := testPile(200, false)
	pile = append(pile, model.PilePiece{
		PartName:    strPtr("Minifig Head, Plain"),
		PartCatName: strPtr("Minifig Heads"),
	})

	_, err := StepOn(rand.New(rand.NewSource(1)), pile, 42)
	require.ErrorIs(t, err, ErrNoTrophy)
}

func TestStepOn_PileTooSmall(t *testing.T) {
	result, err := StepOn(rand.New(rand.NewSource(1)), testPile(5, true), 49)
	require.ErrorIs(t, err, ErrPileTooSmall)
	assert.Empty(t, result.Pieces)
}

func TestStepOn_TinyShoeNeverNegative(t *testing.T) {
	// Base estimate for size 2 is 0, so the randomized estimate can go
	// negative; it must clamp to zero instead of failing the draw.
	result, err := StepOn(rand.New(rand.NewSource(1)), testPile(50, true), 2)
	require.NoError(t, err)
	assert.True(t, result.HasTrophy)
	assert.LessOrEqual(t, result.Count(), 10)
	assert.GreaterOrEqual(t, result.Count(), 1)
}
