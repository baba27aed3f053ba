package dto

import "github.com/google/uuid"

// StepRequest is the single external parameter of a trial.
// EU shoe sizes outside 30-49 are rejected at the API boundary even though
// the physical model itself accepts any number.
type StepRequest struct {
	ShoeSize int `json:"shoe_size" validate:"required,min=30,max=49"`
}

// StepResponse is the ephemeral result of one trial. A trial that failed
// inside the engine comes back with zero pieces and empty aggregates — the
// session itself never errors.
type StepResponse struct {
	TrialID         uuid.UUID         `json:"trial_id"`
	ShoeSize        int               `json:"shoe_size"`
	PiecesSteppedOn int               `json:"pieces_stepped_on"`
	Damage          int               `json:"damage"`
	Colors          []ColorCount      `json:"colors"`
	DefeatedFigures []DefeatedFigure  `json:"defeated_figures"`
	FeaturedEnemy   *DefeatedFigure   `json:"featured_enemy,omitempty"`
}

// ColorCount is a presentation-level color bucket. Hex carries the leading
// '#' — the stored dataset does not.
type ColorCount struct {
	ColorName string `json:"color_name"`
	Hex       string `json:"hex,omitempty"`
	Count     int    `json:"count"`
}

// DefeatedFigure is one figure piece vanquished by the step.
type DefeatedFigure struct {
	PartName *string `json:"part_name"`
	ImgURL   *string `json:"img_url"`
}
