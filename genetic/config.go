package genetic

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
)

// probabilityTolerance is the allowed deviation of the summed operator
// probabilities from 1.
const probabilityTolerance = 1e-9

// FitnessRecord pairs an individual with its fitness score.
type FitnessRecord[T any] struct {
	Individual T
	Fitness    float64
}

// GeneratorFunc produces one individual of the initial population.
type GeneratorFunc[T any] func(ctx context.Context) (T, error)

// FitnessFunc scores a single individual. It may block (simulations, I/O);
// the engine waits for it before scoring the next individual.
type FitnessFunc[T any] func(ctx context.Context, individual T) (float64, error)

// MutateFunc derives one child from an individual and its last fitness.
type MutateFunc[T any] func(ctx context.Context, individual T, lastFitness float64) (T, error)

// BreedFunc derives one child from two scored parents.
type BreedFunc[T any] func(ctx context.Context, a, b FitnessRecord[T]) (T, error)

// BatchFunc replaces the whole population in one call. It must return
// exactly as many individuals as it was given records.
type BatchFunc[T any] func(ctx context.Context, records []FitnessRecord[T]) ([]T, error)

// CompareFunc orders two records for the custom sort policy. A negative
// result places a before b. The engine does not check that it is a valid ordering.
type CompareFunc[T any] func(a, b FitnessRecord[T]) int

// RandomSource supplies uniform draws in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// SortBy selects how fitness records are ordered after evaluation.
type SortBy int

const (
	FitnessHighFirst SortBy = iota
	FitnessLowFirst
	CustomSort
)

func (s SortBy) String() string {
	switch s {
	case FitnessHighFirst:
		return "high_first"
	case FitnessLowFirst:
		return "low_first"
	case CustomSort:
		return "custom"
	default:
		return fmt.Sprintf("SortBy(%d)", int(s))
	}
}

// SortPolicy configures record ordering. Custom is required when By is CustomSort.
type SortPolicy[T any] struct {
	By     SortBy
	Custom CompareFunc[T]
}

// Mutation is a weighted mutation operator for the automatic strategy.
type Mutation[T any] struct {
	Name        string // Optional, used in log records.
	Probability float64
	Mutate      MutateFunc[T]
}

// Breed is a weighted breeding operator for the automatic strategy.
type Breed[T any] struct {
	Name        string
	Probability float64
	Breed       BreedFunc[T]
}

// Strategy is the reproduction strategy of a run. Exactly one of
// AutoStrategy, CustomBreedStrategy or CustomMutateStrategy is used.
type Strategy[T any] interface {
	strategyName() string
}

// AutoStrategy picks one weighted operator per individual. Mutation and
// breed probabilities together must sum to 1.
type AutoStrategy[T any] struct {
	Mutations []Mutation[T]
	Breeds    []Breed[T]
}

// CustomBreedStrategy hands the whole scored population to Breed.
type CustomBreedStrategy[T any] struct {
	Breed BatchFunc[T]
}

// CustomMutateStrategy hands the whole scored population to Mutate.
type CustomMutateStrategy[T any] struct {
	Mutate BatchFunc[T]
}

func (AutoStrategy[T]) strategyName() string         { return "auto" }
func (CustomBreedStrategy[T]) strategyName() string  { return "custom_breed" }
func (CustomMutateStrategy[T]) strategyName() string { return "custom_mutate" }

// GenerationInfo is the reduced snapshot passed to some hooks.
type GenerationInfo[T any] struct {
	GenerationNum int
	Generation    []T
}

// GenerationFitnessInfo is a full snapshot of the engine state.
type GenerationFitnessInfo[T any] struct {
	GenerationNum int
	Generation    []T
	Fitness       []FitnessRecord[T]
}

// Hooks are optional lifecycle callbacks. Nil hooks are skipped. Hooks run
// on the loop goroutine; they may call Pause or Snapshot.
type Hooks[T any] struct {
	BeforeNextGeneration             func(info GenerationFitnessInfo[T])
	OnCustomBreed                    func(info GenerationInfo[T])
	AfterNextGeneration              func(info GenerationInfo[T])
	BeforeGenerationFitnessEvaluated func(info GenerationInfo[T])
	AfterGenerationFitnessEvaluated  func(info GenerationFitnessInfo[T])
	BeforeFitnessEvaluated           func(individual T)
	AfterFitnessEvaluated            func(individual T, fitness float64)
}

// Config stores the parameters of a run. It is read once by the engine and
// must not be modified after Start.
type Config[T any] struct {
	PopulationSize int
	Sort           SortPolicy[T]

	// KillWorst is the fraction of the population replaced by mirrored best
	// performers before reproduction. Zero disables the step.
	KillWorst float64

	Generate GeneratorFunc[T]
	Fitness  FitnessFunc[T]
	Strategy Strategy[T]
	Hooks    Hooks[T]

	Random RandomSource // Defaults to the math/rand global source.
	Logger *slog.Logger // Defaults to slog.Default().
}

// Validate checks the config before any generation runs.
func (c *Config[T]) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: config is required", ErrInvalidConfig)
	}
	if c.PopulationSize <= 0 {
		return fmt.Errorf("%w: population_size must be positive", ErrInvalidConfig)
	}
	if c.Generate == nil {
		return fmt.Errorf("%w: generator function is required", ErrInvalidConfig)
	}
	if c.Fitness == nil {
		return fmt.Errorf("%w: fitness function is required", ErrInvalidConfig)
	}
	if math.IsNaN(c.KillWorst) || c.KillWorst < 0 || c.KillWorst > 1 {
		return fmt.Errorf("%w: kill_worst must be between 0 and 1", ErrInvalidConfig)
	}

	switch s := c.Strategy.(type) {
	case nil:
		return fmt.Errorf("%w: a reproduction strategy must be enabled", ErrInvalidConfig)
	case AutoStrategy[T]:
		if err := validateAuto(s); err != nil {
			return err
		}
	case CustomBreedStrategy[T]:
		if s.Breed == nil {
			return fmt.Errorf("%w: custom breed strategy requires a breed function", ErrInvalidConfig)
		}
	case CustomMutateStrategy[T]:
		if s.Mutate == nil {
			return fmt.Errorf("%w: custom mutate strategy requires a mutate function", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unsupported strategy %T", ErrInvalidConfig, c.Strategy)
	}

	switch c.Sort.By {
	case FitnessHighFirst, FitnessLowFirst:
	case CustomSort:
		if c.Sort.Custom == nil {
			return fmt.Errorf("%w: custom sort requires a comparator", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: invalid sort policy %s", ErrInvalidConfig, c.Sort.By)
	}
	return nil
}

func validateAuto[T any](s AutoStrategy[T]) error {
	if len(s.Mutations) == 0 && len(s.Breeds) == 0 {
		return fmt.Errorf("%w: auto strategy requires at least one mutation or breed", ErrInvalidConfig)
	}
	total := 0.0
	for i, m := range s.Mutations {
		if m.Mutate == nil {
			return fmt.Errorf("%w: mutation %d has no function", ErrInvalidConfig, i)
		}
		if m.Probability < 0 || math.IsNaN(m.Probability) {
			return fmt.Errorf("%w: mutation %d probability cannot be negative", ErrInvalidConfig, i)
		}
		total += m.Probability
	}
	for i, b := range s.Breeds {
		if b.Breed == nil {
			return fmt.Errorf("%w: breed %d has no function", ErrInvalidConfig, i)
		}
		if b.Probability < 0 || math.IsNaN(b.Probability) {
			return fmt.Errorf("%w: breed %d probability cannot be negative", ErrInvalidConfig, i)
		}
		total += b.Probability
	}
	if math.Abs(total-1) > probabilityTolerance {
		return fmt.Errorf("%w: mutation and breed probabilities must sum to 1, got %g", ErrInvalidConfig, total)
	}
	return nil
}

func (c *Config[T]) random() RandomSource {
	if c.Random != nil {
		return c.Random
	}
	return globalRandom{}
}

func (c *Config[T]) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

type globalRandom struct{}

func (globalRandom) Float64() float64 { return rand.Float64() }
