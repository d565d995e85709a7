package history

import (
	"context"
	"time"
)

// GenerationSummary is the recorded outcome of one scored generation.
type GenerationSummary struct {
	RunID      string
	Generation int
	Size       int
	Best       float64
	Worst      float64
	Mean       float64
	StdDev     float64
	RecordedAt time.Time
}

// Store persists generation summaries per run.
type Store interface {
	Init(ctx context.Context) error
	SaveGeneration(ctx context.Context, summary GenerationSummary) error
	// Generations returns the summaries of a run ordered by generation.
	Generations(ctx context.Context, runID string) ([]GenerationSummary, bool, error)
	Runs(ctx context.Context) ([]string, error)
}
