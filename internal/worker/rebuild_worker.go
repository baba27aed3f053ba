package worker

// rebuild_worker.go
// Processes catalog rebuild jobs from QueueRebuild: re-runs the full ETL
// pipeline against the ingested reference tables, persists the new pile
// (CSV + table), then hot-swaps the simulation engine's in-memory view.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"brickpile/internal/service"

	"github.com/rs/zerolog/log"
)

// RebuildJobPayload is the job envelope sent to QueueRebuild.
type RebuildJobPayload struct {
	JobID       string    `json:"job_id"`
	RequestedAt time.Time `json:"requested_at"`
}

// RebuildWorker rebuilds the pile offline so serving trials never blocks on
// the ETL run.
type RebuildWorker struct {
	catalog    service.CatalogService
	simulation service.SimulationService
}

func NewRebuildWorker(catalog service.CatalogService, simulation service.SimulationService) *RebuildWorker {
	return &RebuildWorker{catalog: catalog, simulation: simulation}
}

func (w *RebuildWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload RebuildJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("unmarshal rebuild payload: %w", err)
	}

	log.Info().Str("job_id", payload.JobID).Msg("catalog rebuild started")
	start := time.Now()

	pile, err := w.catalog.RebuildFromDB(ctx)
	if err != nil {
		return fmt.Errorf("rebuild %s: %w", payload.JobID, err)
	}
	w.simulation.Reload(pile)

	log.Info().
		Str("job_id", payload.JobID).
		Int("pile_size", len(pile)).
		Dur("took", time.Since(start)).
		Msg("catalog rebuild complete")
	return nil
}
