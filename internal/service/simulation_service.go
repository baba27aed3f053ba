package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"brickpile/internal/dto"
	"brickpile/internal/model"
	"brickpile/internal/simulation"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// SimulationService owns the in-memory read-only view of the pile and runs
// step trials against it. Trial errors are contained here: a failed trial
// yields an empty result, never a failed session.
type SimulationService interface {
	TakeStep(ctx context.Context, shoeSize int) *dto.StepResponse
	Preview(ctx context.Context, limit int) *dto.PilePreviewResponse
	PileSize() int
	// Reload hot-swaps the pile after an async rebuild.
	Reload(pieces []model.PilePiece)
}

type simulationService struct {
	mu     sync.RWMutex
	pile   []model.PilePiece
	newRNG func() *rand.Rand
}

func NewSimulationService(pile []model.PilePiece) SimulationService {
	return &simulationService{
		pile: pile,
		// One generator per trial: rand.Rand is not goroutine-safe and gin
		// serves trials concurrently.
		newRNG: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

func (s *simulationService) TakeStep(ctx context.Context, shoeSize int) *dto.StepResponse {
	s.mu.RLock()
	pile := s.pile
	s.mu.RUnlock()

	resp := &dto.StepResponse{
		TrialID:         uuid.New(),
		ShoeSize:        shoeSize,
		Colors:          []dto.ColorCount{},
		DefeatedFigures: []dto.DefeatedFigure{},
	}

	result, err := simulation.StepOn(s.newRNG(), pile, float64(shoeSize))
	switch {
	case errors.Is(err, simulation.ErrNoTrophy):
		// Degrade to the base sample — aggregates still run over it.
		log.Warn().
			Str("trial_id", resp.TrialID.String()).
			Msg("no trophy-eligible piece in pile, trial degraded to base sample")
	case err != nil:
		log.Warn().
			Str("trial_id", resp.TrialID.String()).
			Int("shoe_size", shoeSize).
			Err(err).
			Msg("trial failed, returning empty result")
		return resp
	}

	resp.PiecesSteppedOn = result.Count()
	resp.Damage = simulation.Damage(result.Pieces)

	for _, c := range simulation.ColorCounts(result.Pieces) {
		hex := ""
		if c.RGB != "" {
			hex = "#" + c.RGB
		}
		resp.Colors = append(resp.Colors, dto.ColorCount{ColorName: c.ColorName, Hex: hex, Count: c.Count})
	}

	figures := simulation.DefeatedFigures(result.Pieces)
	for _, f := range figures {
		resp.DefeatedFigures = append(resp.DefeatedFigures, dto.DefeatedFigure{PartName: f.PartName, ImgURL: f.ImgURL})
	}
	if enemy := simulation.FeaturedEnemy(figures); enemy != nil {
		resp.FeaturedEnemy = &dto.DefeatedFigure{PartName: enemy.PartName, ImgURL: enemy.ImgURL}
	}

	log.Info().
		Str("trial_id", resp.TrialID.String()).
		Int("shoe_size", shoeSize).
		Int("pieces", resp.PiecesSteppedOn).
		Int("damage", resp.Damage).
		Int("defeated", len(resp.DefeatedFigures)).
		Msg("step trial complete")
	return resp
}

func (s *simulationService) Preview(ctx context.Context, limit int) *dto.PilePreviewResponse {
	s.mu.RLock()
	pile := s.pile
	s.mu.RUnlock()

	if limit < 0 || limit > len(pile) {
		limit = len(pile)
	}
	pieces := make([]dto.PilePiece, 0, limit)
	for _, p := range pile[:limit] {
		pieces = append(pieces, dto.PilePiece{
			ImgURL:      p.ImgURL,
			PartName:    p.PartName,
			PartCatName: p.PartCatName,
			ColorName:   p.ColorName,
			RGB:         p.RGB,
		})
	}
	return &dto.PilePreviewResponse{Total: len(pile), Pieces: pieces}
}

func (s *simulationService) PileSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pile)
}

func (s *simulationService) Reload(pieces []model.PilePiece) {
	s.mu.Lock()
	s.pile = pieces
	s.mu.Unlock()
	log.Info().Int("pile_size", len(pieces)).Msg("pile reloaded")
}
