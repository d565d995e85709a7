package genetic

import (
	"context"
	"fmt"
	"log/slog"
)

// Reproduction creates the next generation from the scored previous one.
type Reproduction[T any] struct {
	Strategy     Strategy[T]
	Distribution *OperatorDistribution[T] // Nil unless Strategy is AutoStrategy.
	KillWorst    float64
	Sort         SortPolicy[T]

	random RandomSource
	hooks  *Hooks[T]
	logger *slog.Logger
}

// NewReproduction creates a reproduction manager for a validated config.
func NewReproduction[T any](cfg *Config[T]) *Reproduction[T] {
	r := &Reproduction[T]{
		Strategy:  cfg.Strategy,
		KillWorst: cfg.KillWorst,
		Sort:      cfg.Sort,
		random:    cfg.random(),
		hooks:     &cfg.Hooks,
		logger:    cfg.logger(),
	}
	if auto, ok := cfg.Strategy.(AutoStrategy[T]); ok {
		r.Distribution = NewOperatorDistribution(auto)
	}
	return r
}

// Reproduce returns the new generation and the records it was bred from
// (after the optional kill-worst step). current is the generation that
// produced records; the new generation always has the same length.
func (r *Reproduction[T]) Reproduce(ctx context.Context, current GenerationInfo[T], records []FitnessRecord[T]) ([]T, []FitnessRecord[T], error) {
	lastGeneration := records
	if r.KillWorst > 0 {
		lastGeneration = KillWorst(records, r.KillWorst, r.Sort)
		r.logger.Debug("replaced worst individuals",
			"generation", current.GenerationNum,
			"killed", KillCount(len(records), r.KillWorst))
	}

	var (
		next []T
		err  error
	)
	switch s := r.Strategy.(type) {
	case AutoStrategy[T]:
		next, err = r.reproduceAuto(ctx, lastGeneration)
	case CustomBreedStrategy[T]:
		next, err = r.reproduceBatch(ctx, current, lastGeneration, s.Breed, "custom breed")
	case CustomMutateStrategy[T]:
		next, err = r.reproduceBatch(ctx, current, lastGeneration, s.Mutate, "custom mutate")
	default:
		err = fmt.Errorf("%w: unsupported strategy %T", ErrInvalidConfig, r.Strategy)
	}
	if err != nil {
		return nil, nil, err
	}
	return next, lastGeneration, nil
}

// reproduceAuto draws one operator per record. Breeds pair record i with
// record (i+1) mod n, so the last record pairs with the first.
func (r *Reproduction[T]) reproduceAuto(ctx context.Context, parents []FitnessRecord[T]) ([]T, error) {
	if r.Distribution == nil {
		return nil, fmt.Errorf("%w: auto strategy has no operator distribution", ErrInvalidConfig)
	}
	n := len(parents)
	children := make([]T, 0, n)
	for i, parent := range parents {
		neighbor := parents[(i+1)%n]
		op, err := r.Distribution.Select(r.random.Float64())
		if err != nil {
			return nil, err
		}

		var child T
		switch op.Kind {
		case KindMutation:
			child, err = op.Mutate(ctx, parent.Individual, parent.Fitness)
		case KindBreed:
			child, err = op.Breed(ctx, parent, neighbor)
		}
		if err != nil {
			return nil, fmt.Errorf("%s %q failed for individual %d: %w", op.Kind, op.Name, i, err)
		}
		children = append(children, child)
	}

	if len(children) != n {
		return nil, fmt.Errorf("%w: produced %d individuals from %d parents", ErrPopulationSize, len(children), n)
	}
	return children, nil
}

// reproduceBatch hands the records to a user batch operator and checks the
// returned size against the size of the generation being replaced.
func (r *Reproduction[T]) reproduceBatch(ctx context.Context, current GenerationInfo[T], parents []FitnessRecord[T], fn BatchFunc[T], label string) ([]T, error) {
	if r.hooks != nil && r.hooks.OnCustomBreed != nil {
		r.hooks.OnCustomBreed(current)
	}

	prevSize := len(current.Generation)
	children, err := fn(ctx, parents)
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", label, err)
	}
	if len(children) != prevSize {
		return nil, fmt.Errorf("%w: %s returned %d individuals, expected %d", ErrPopulationSize, label, len(children), prevSize)
	}
	return children, nil
}
