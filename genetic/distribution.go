package genetic

import "fmt"

// OperatorKind tags an operator range as a mutation or a breed.
type OperatorKind int

const (
	KindMutation OperatorKind = iota
	KindBreed
)

func (k OperatorKind) String() string {
	if k == KindBreed {
		return "breed"
	}
	return "mutation"
}

// OperatorRange is the half-open interval [Start, End) claimed by one operator.
type OperatorRange[T any] struct {
	Kind   OperatorKind
	Name   string
	Start  float64
	End    float64
	Mutate MutateFunc[T] // Set when Kind is KindMutation.
	Breed  BreedFunc[T]  // Set when Kind is KindBreed.
}

// Contains reports whether r falls inside [Start, End).
func (o OperatorRange[T]) Contains(r float64) bool {
	return o.Start <= r && r < o.End
}

// OperatorDistribution partitions [0, 1) over the configured operators,
// mutations first and breeds after, in declared order.
type OperatorDistribution[T any] struct {
	Ranges []OperatorRange[T]
}

// NewOperatorDistribution builds cumulative ranges for the automatic strategy.
func NewOperatorDistribution[T any](s AutoStrategy[T]) *OperatorDistribution[T] {
	d := &OperatorDistribution[T]{
		Ranges: make([]OperatorRange[T], 0, len(s.Mutations)+len(s.Breeds)),
	}
	start := 0.0
	for i, m := range s.Mutations {
		end := start + m.Probability
		d.Ranges = append(d.Ranges, OperatorRange[T]{
			Kind:   KindMutation,
			Name:   operatorName(m.Name, "mutation", i),
			Start:  start,
			End:    end,
			Mutate: m.Mutate,
		})
		start = end
	}
	for i, b := range s.Breeds {
		end := start + b.Probability
		d.Ranges = append(d.Ranges, OperatorRange[T]{
			Kind:  KindBreed,
			Name:  operatorName(b.Name, "breed", i),
			Start: start,
			End:   end,
			Breed: b.Breed,
		})
		start = end
	}
	return d
}

// Select returns the first range containing r. A draw that no range covers
// (a rounding gap near 1) is an error, never a fallback to an edge operator.
func (d *OperatorDistribution[T]) Select(r float64) (OperatorRange[T], error) {
	for _, rng := range d.Ranges {
		if rng.Contains(r) {
			return rng, nil
		}
	}
	return OperatorRange[T]{}, fmt.Errorf("%w: draw %v not covered by any of %d operator ranges", ErrOperatorSelection, r, len(d.Ranges))
}

func operatorName(name, kind string, index int) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("%s-%d", kind, index)
}
