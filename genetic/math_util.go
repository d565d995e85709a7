package genetic

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds descriptive statistics of one scored generation.
type Summary struct {
	Size   int
	Best   float64
	Worst  float64
	Mean   float64
	StdDev float64 // Sample standard deviation, 0 for fewer than 2 records.
}

// Scores extracts the fitness values of records, preserving order.
func Scores[T any](records []FitnessRecord[T]) []float64 {
	scores := make([]float64, len(records))
	for i, rec := range records {
		scores[i] = rec.Fitness
	}
	return scores
}

// Summarize computes statistics over records. Best and worst follow the
// sort policy: the maximum is best for FitnessHighFirst, the minimum for
// FitnessLowFirst, and for CustomSort the records are assumed sorted, so
// the first record is best and the last is worst.
func Summarize[T any](records []FitnessRecord[T], by SortBy) Summary {
	if len(records) == 0 {
		return Summary{}
	}
	scores := Scores(records)

	s := Summary{
		Size: len(scores),
		Mean: stat.Mean(scores, nil),
	}
	if len(scores) > 1 {
		s.StdDev = stat.StdDev(scores, nil)
	}

	switch by {
	case FitnessLowFirst:
		s.Best, s.Worst = floats.Min(scores), floats.Max(scores)
	case CustomSort:
		s.Best, s.Worst = scores[0], scores[len(scores)-1]
	default:
		s.Best, s.Worst = floats.Max(scores), floats.Min(scores)
	}
	return s
}
