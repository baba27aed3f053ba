package dto

// PilePiece mirrors one working-dataset row for API consumers; the field
// set matches the persisted CSV columns.
type PilePiece struct {
	ImgURL      *string `json:"img_url"`
	PartName    *string `json:"part_name"`
	PartCatName *string `json:"part_cat_name"`
	ColorName   *string `json:"color_name"`
	RGB         *string `json:"rgb"`
}

// PilePreviewResponse is the public peek at the pile: total size plus the
// first rows.
type PilePreviewResponse struct {
	Total  int         `json:"total"`
	Pieces []PilePiece `json:"pieces"`
}

// RebuildResponse acknowledges an enqueued catalog rebuild.
type RebuildResponse struct {
	JobID string `json:"job_id"`
}
