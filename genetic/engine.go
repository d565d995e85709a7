package genetic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// State is the lifecycle state of an Engine.
type State int

const (
	Idle State = iota
	Initializing
	Running
	Paused
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Initializing:
		return "initializing"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Engine holds the state of an evolutionary run over individuals of type T.
//
// Start and Resume drive the generation loop on the calling goroutine and
// return when the loop is paused or fails. Pause, Snapshot and State may be
// called from any goroutine, including from inside hooks.
type Engine[T any] struct {
	Config       *Config[T]
	Reproduction *Reproduction[T] // Set by Start after validation.

	mu             sync.Mutex
	state          State
	running        bool // Checked after every step; cleared by Pause.
	looping        bool // True while a Start or Resume call is driving the loop.
	generationNum  int
	generation     []T
	fitness        []FitnessRecord[T]
	lastGeneration []FitnessRecord[T]
	err            error

	logger *slog.Logger
}

// New creates an idle engine. The config is validated by Start.
func New[T any](config *Config[T]) *Engine[T] {
	return &Engine[T]{
		Config:  config,
		running: true,
	}
}

// Start validates the config, generates and scores the initial population,
// then runs generations until Pause is called or a fatal error occurs.
func (e *Engine[T]) Start(ctx context.Context) error {
	e.mu.Lock()
	switch {
	case e.state == Failed:
		err := e.defunctErr()
		e.mu.Unlock()
		return err
	case e.looping:
		e.mu.Unlock()
		return ErrLoopActive
	case e.state != Idle:
		state := e.state
		e.mu.Unlock()
		return fmt.Errorf("engine already started (state %s), use Resume", state)
	}
	e.state = Initializing
	e.looping = true
	e.mu.Unlock()

	if err := e.Config.Validate(); err != nil {
		return e.fail(err)
	}
	e.logger = e.Config.logger()
	e.Reproduction = NewReproduction(e.Config)

	if err := e.init(ctx); err != nil {
		return e.fail(err)
	}
	return e.loop(ctx)
}

// Pause stops the loop after the step in progress completes. It never
// interrupts a running fitness evaluation or operator call.
func (e *Engine[T]) Pause() {
	e.mu.Lock()
	e.running = false
	e.mu.Unlock()
}

// Resume restarts the loop from the current generation. If a loop is still
// active (Pause was called but the step has not finished yet), Resume only
// clears the pause request and returns ErrLoopActive; it never starts a
// second driver over the same state.
func (e *Engine[T]) Resume(ctx context.Context) error {
	e.mu.Lock()
	switch {
	case e.state == Failed:
		err := e.defunctErr()
		e.mu.Unlock()
		return err
	case e.state == Idle:
		e.mu.Unlock()
		return ErrNotStarted
	case e.looping:
		e.running = true
		e.mu.Unlock()
		return ErrLoopActive
	}
	e.running = true
	e.looping = true
	e.mu.Unlock()

	return e.loop(ctx)
}

// Snapshot returns a copy of the current generation number, generation and
// sorted fitness records.
func (e *Engine[T]) Snapshot() GenerationFitnessInfo[T] {
	e.mu.Lock()
	defer e.mu.Unlock()
	return GenerationFitnessInfo[T]{
		GenerationNum: e.generationNum,
		Generation:    append([]T(nil), e.generation...),
		Fitness:       append([]FitnessRecord[T](nil), e.fitness...),
	}
}

// LastGeneration returns a copy of the records the current generation was bred from.
func (e *Engine[T]) LastGeneration() []FitnessRecord[T] {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]FitnessRecord[T](nil), e.lastGeneration...)
}

// State returns the lifecycle state.
func (e *Engine[T]) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Err returns the fatal error that made the engine defunct, if any.
func (e *Engine[T]) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

func (e *Engine[T]) init(ctx context.Context) error {
	size := e.Config.PopulationSize
	generation := make([]T, 0, size)
	for i := 0; i < size; i++ {
		individual, err := e.Config.Generate(ctx)
		if err != nil {
			return fmt.Errorf("generator failed for individual %d: %w", i, err)
		}
		generation = append(generation, individual)
	}
	e.mu.Lock()
	e.generation = generation
	e.mu.Unlock()

	records, err := EvaluateFitness(ctx, generation, e.Config.Fitness, e.Config.Sort, &e.Config.Hooks)
	if err != nil {
		return fmt.Errorf("initial evaluation failed: %w", err)
	}
	e.mu.Lock()
	e.fitness = records
	e.mu.Unlock()

	summary := Summarize(records, e.Config.Sort.By)
	e.logger.Info("initial population evaluated",
		"strategy", e.Config.Strategy.strategyName(),
		"size", summary.Size,
		"best", summary.Best,
		"mean", summary.Mean)
	return nil
}

// loop runs steps until the running flag is cleared after a step.
func (e *Engine[T]) loop(ctx context.Context) error {
	e.setState(Running)
	for {
		if err := e.step(ctx); err != nil {
			return e.fail(err)
		}

		e.mu.Lock()
		if !e.running {
			e.state = Paused
			e.looping = false
			num := e.generationNum
			e.mu.Unlock()
			e.logger.Info("evolution paused", "generation", num)
			return nil
		}
		e.mu.Unlock()

		if err := ctx.Err(); err != nil {
			e.mu.Lock()
			e.running = false
			e.state = Paused
			e.looping = false
			e.mu.Unlock()
			return err
		}
	}
}

// step produces, counts and scores one generation.
func (e *Engine[T]) step(ctx context.Context) error {
	stepStart := time.Now()
	hooks := &e.Config.Hooks

	current := e.Snapshot()
	if hooks.BeforeNextGeneration != nil {
		hooks.BeforeNextGeneration(current)
	}

	info := GenerationInfo[T]{GenerationNum: current.GenerationNum, Generation: current.Generation}
	next, last, err := e.Reproduction.Reproduce(ctx, info, current.Fitness)
	if err != nil {
		return fmt.Errorf("reproduction failed in generation %d: %w", current.GenerationNum+1, err)
	}

	// The counter only advances once a valid population exists.
	e.mu.Lock()
	e.lastGeneration = last
	e.generation = next
	e.fitness = nil
	e.generationNum++
	num := e.generationNum
	e.mu.Unlock()

	info = GenerationInfo[T]{GenerationNum: num, Generation: append([]T(nil), next...)}
	if hooks.AfterNextGeneration != nil {
		hooks.AfterNextGeneration(info)
	}
	if hooks.BeforeGenerationFitnessEvaluated != nil {
		hooks.BeforeGenerationFitnessEvaluated(info)
	}

	records, err := EvaluateFitness(ctx, next, e.Config.Fitness, e.Config.Sort, hooks)
	if err != nil {
		return fmt.Errorf("generation %d: %w", num, err)
	}
	e.mu.Lock()
	e.fitness = records
	e.mu.Unlock()

	summary := Summarize(records, e.Config.Sort.By)
	e.logger.Info("generation evaluated",
		"generation", num,
		"best", summary.Best,
		"mean", summary.Mean,
		"stdev", summary.StdDev,
		"elapsed", time.Since(stepStart))

	if hooks.AfterGenerationFitnessEvaluated != nil {
		hooks.AfterGenerationFitnessEvaluated(e.Snapshot())
	}
	return nil
}

func (e *Engine[T]) setState(s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

// fail marks the engine defunct. Pause and Resume cannot recover from this.
func (e *Engine[T]) fail(err error) error {
	e.mu.Lock()
	e.state = Failed
	e.err = err
	e.running = false
	e.looping = false
	num := e.generationNum
	e.mu.Unlock()

	logger := e.logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Error("evolution failed", "generation", num, "error", err)
	return err
}

// defunctErr must be called with e.mu held.
func (e *Engine[T]) defunctErr() error {
	if e.err == nil {
		return ErrDefunct
	}
	return errors.Join(ErrDefunct, e.err)
}
