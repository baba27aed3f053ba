package model

// PilePiece is one physical unit of the working dataset: an exploded
// inventory row joined with its part, category and color attributes.
// All descriptive fields are nullable — a left-join miss keeps the row
// but leaves the field nil, and that nil survives CSV round-trips as an
// empty cell.
type PilePiece struct {
	ID          uint    `gorm:"primaryKey" json:"-"`
	ImgURL      *string `gorm:"column:img_url" json:"img_url"`
	PartName    *string `gorm:"column:part_name" json:"part_name"`
	PartCatName *string `gorm:"column:part_cat_name" json:"part_cat_name"`
	ColorName   *string `gorm:"column:color_name" json:"color_name"`
	RGB         *string `gorm:"column:rgb" json:"rgb"`
}

func (PilePiece) TableName() string { return "pile_pieces" }

// CategoryIs reports whether the piece has a category name equal to name.
// A nil category never matches.
func (p PilePiece) CategoryIs(name string) bool {
	return p.PartCatName != nil && *p.PartCatName == name
}

// HasImage reports whether the piece carries a non-empty image reference.
func (p PilePiece) HasImage() bool {
	return p.ImgURL != nil && *p.ImgURL != ""
}
