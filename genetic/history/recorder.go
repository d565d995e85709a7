package history

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/baldhumanity/genetic-go/genetic"
)

// Recorder saves a summary of every evaluated generation of one run.
// Record has the signature of Hooks.AfterGenerationFitnessEvaluated.
type Recorder[T any] struct {
	RunID string

	store  Store
	sortBy genetic.SortBy
	logger *slog.Logger

	// ctx is used for store calls made from hooks, which carry no context.
	ctx context.Context
	now func() time.Time
}

// NewRecorder creates a recorder with a fresh run id. The store must already
// be initialized.
func NewRecorder[T any](ctx context.Context, store Store, sortBy genetic.SortBy, logger *slog.Logger) *Recorder[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder[T]{
		RunID:  uuid.NewString(),
		store:  store,
		sortBy: sortBy,
		logger: logger,
		ctx:    ctx,
		now:    time.Now,
	}
}

// Record stores the summary of info. Store failures are logged and never
// interrupt the run.
func (r *Recorder[T]) Record(info genetic.GenerationFitnessInfo[T]) {
	s := genetic.Summarize(info.Fitness, r.sortBy)
	summary := GenerationSummary{
		RunID:      r.RunID,
		Generation: info.GenerationNum,
		Size:       s.Size,
		Best:       s.Best,
		Worst:      s.Worst,
		Mean:       s.Mean,
		StdDev:     s.StdDev,
		RecordedAt: r.now(),
	}
	if err := r.store.SaveGeneration(r.ctx, summary); err != nil {
		r.logger.Warn("failed to record generation",
			"run", r.RunID,
			"generation", info.GenerationNum,
			"error", err)
	}
}

// Attach chains Record after any AfterGenerationFitnessEvaluated hook
// already set on hooks.
func (r *Recorder[T]) Attach(hooks *genetic.Hooks[T]) {
	prev := hooks.AfterGenerationFitnessEvaluated
	hooks.AfterGenerationFitnessEvaluated = func(info genetic.GenerationFitnessInfo[T]) {
		if prev != nil {
			prev(info)
		}
		r.Record(info)
	}
}

// Summaries returns everything recorded for this run so far.
func (r *Recorder[T]) Summaries(ctx context.Context) ([]GenerationSummary, error) {
	summaries, _, err := r.store.Generations(ctx, r.RunID)
	return summaries, err
}
