package genetic

import (
	"context"
	"io"
	"log/slog"
)

// scriptedRandom replays fixed draws, cycling when exhausted.
type scriptedRandom struct {
	draws []float64
	next  int
}

func (s *scriptedRandom) Float64() float64 {
	v := s.draws[s.next%len(s.draws)]
	s.next++
	return v
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newIntConfig returns a valid config over ints: individuals are generated
// as 1, 2, 3..., fitness is the value itself and the only operator adds one.
func newIntConfig(size int) *Config[int] {
	counter := 0
	return &Config[int]{
		PopulationSize: size,
		Sort:           SortPolicy[int]{By: FitnessHighFirst},
		Generate: func(context.Context) (int, error) {
			counter++
			return counter, nil
		},
		Fitness: func(_ context.Context, x int) (float64, error) {
			return float64(x), nil
		},
		Strategy: AutoStrategy[int]{
			Mutations: []Mutation[int]{{
				Name:        "increment",
				Probability: 1,
				Mutate: func(_ context.Context, x int, _ float64) (int, error) {
					return x + 1, nil
				},
			}},
		},
		Logger: discardLogger(),
	}
}

func records(scores ...float64) []FitnessRecord[int] {
	out := make([]FitnessRecord[int], len(scores))
	for i, s := range scores {
		out[i] = FitnessRecord[int]{Individual: i, Fitness: s}
	}
	return out
}
