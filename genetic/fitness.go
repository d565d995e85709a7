package genetic

import (
	"context"
	"fmt"
	"sort"
)

// EvaluateFitness scores every individual in order and returns the records
// sorted by the policy. Each call to fn completes, and its per-individual
// hooks fire, before the next individual is scored.
func EvaluateFitness[T any](ctx context.Context, generation []T, fn FitnessFunc[T], policy SortPolicy[T], hooks *Hooks[T]) ([]FitnessRecord[T], error) {
	records := make([]FitnessRecord[T], 0, len(generation))
	for i, individual := range generation {
		if hooks != nil && hooks.BeforeFitnessEvaluated != nil {
			hooks.BeforeFitnessEvaluated(individual)
		}
		score, err := fn(ctx, individual)
		if err != nil {
			return nil, fmt.Errorf("fitness evaluation failed for individual %d: %w", i, err)
		}
		records = append(records, FitnessRecord[T]{Individual: individual, Fitness: score})
		if hooks != nil && hooks.AfterFitnessEvaluated != nil {
			hooks.AfterFitnessEvaluated(individual, score)
		}
	}
	SortRecords(records, policy)
	return records, nil
}

// SortRecords orders records in place. The sort is stable, so records with
// equal scores keep their evaluation order.
func SortRecords[T any](records []FitnessRecord[T], policy SortPolicy[T]) {
	switch policy.By {
	case FitnessHighFirst:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].Fitness > records[j].Fitness
		})
	case FitnessLowFirst:
		sortAscending(records)
	case CustomSort:
		if policy.Custom == nil {
			return
		}
		sort.SliceStable(records, func(i, j int) bool {
			return policy.Custom(records[i], records[j]) < 0
		})
	}
}

func sortAscending[T any](records []FitnessRecord[T]) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Fitness < records[j].Fitness
	})
}
