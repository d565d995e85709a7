package genetic

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartEvaluatesInitialPopulationOnce(t *testing.T) {
	cfg := newIntConfig(5)
	evaluations := 0
	fitness := cfg.Fitness
	cfg.Fitness = func(ctx context.Context, x int) (float64, error) {
		evaluations++
		return fitness(ctx, x)
	}
	mutations := 0
	cfg.Strategy = AutoStrategy[int]{Mutations: []Mutation[int]{{
		Probability: 1,
		Mutate: func(_ context.Context, x int, _ float64) (int, error) {
			mutations++
			return x, nil
		},
	}}}

	var e *Engine[int]
	cfg.Hooks.BeforeNextGeneration = func(info GenerationFitnessInfo[int]) {
		if info.GenerationNum == 0 {
			assert.Equal(t, 5, evaluations)
			assert.Equal(t, 0, mutations)
			assert.Len(t, info.Fitness, 5)
		}
	}
	cfg.Hooks.AfterGenerationFitnessEvaluated = func(GenerationFitnessInfo[int]) { e.Pause() }
	e = New(cfg)

	require.NoError(t, e.Start(context.Background()))
	assert.Equal(t, 10, evaluations)
	assert.Equal(t, 5, mutations)
}

func TestStepFiresHooksInOrder(t *testing.T) {
	var events []string
	var e *Engine[int]
	cfg := newIntConfig(2)
	cfg.Hooks = Hooks[int]{
		BeforeNextGeneration: func(info GenerationFitnessInfo[int]) {
			events = append(events, fmt.Sprintf("before-next %d", info.GenerationNum))
		},
		AfterNextGeneration: func(info GenerationInfo[int]) {
			events = append(events, fmt.Sprintf("after-next %d", info.GenerationNum))
		},
		BeforeGenerationFitnessEvaluated: func(info GenerationInfo[int]) {
			events = append(events, fmt.Sprintf("before-gen-fitness %d", info.GenerationNum))
		},
		BeforeFitnessEvaluated: func(int) { events = append(events, "before-fitness") },
		AfterFitnessEvaluated:  func(int, float64) { events = append(events, "after-fitness") },
		AfterGenerationFitnessEvaluated: func(info GenerationFitnessInfo[int]) {
			events = append(events, fmt.Sprintf("after-gen-fitness %d", info.GenerationNum))
			e.Pause()
		},
	}
	e = New(cfg)

	require.NoError(t, e.Start(context.Background()))
	assert.Equal(t, []string{
		"before-fitness", "after-fitness", "before-fitness", "after-fitness",
		"before-next 0",
		"after-next 1",
		"before-gen-fitness 1",
		"before-fitness", "after-fitness", "before-fitness", "after-fitness",
		"after-gen-fitness 1",
	}, events)
}

func TestPauseAndResumeKeepCounting(t *testing.T) {
	pauseAt := 3
	var e *Engine[int]
	cfg := newIntConfig(4)
	cfg.Hooks.AfterGenerationFitnessEvaluated = func(info GenerationFitnessInfo[int]) {
		assert.Len(t, info.Generation, 4)
		assert.Len(t, info.Fitness, 4)
		if info.GenerationNum == pauseAt {
			e.Pause()
		}
	}
	e = New(cfg)
	ctx := context.Background()

	require.NoError(t, e.Start(ctx))
	assert.Equal(t, Paused, e.State())
	assert.Equal(t, 3, e.Snapshot().GenerationNum)

	pauseAt = 5
	require.NoError(t, e.Resume(ctx))
	assert.Equal(t, Paused, e.State())
	snap := e.Snapshot()
	assert.Equal(t, 5, snap.GenerationNum)

	// Individuals 1..4 have each been incremented once per generation.
	assert.Equal(t, []float64{9, 8, 7, 6}, Scores(snap.Fitness))
	assert.Len(t, e.LastGeneration(), 4)
}

func TestPauseBeforeStartRunsOneStep(t *testing.T) {
	e := New(newIntConfig(2))
	e.Pause()
	require.NoError(t, e.Start(context.Background()))
	assert.Equal(t, 1, e.Snapshot().GenerationNum)
	assert.Equal(t, Paused, e.State())
}

func TestResumeWhileLoopActiveIsRejected(t *testing.T) {
	ctx := context.Background()
	var nested error
	var e *Engine[int]
	cfg := newIntConfig(2)
	cfg.Hooks.AfterGenerationFitnessEvaluated = func(info GenerationFitnessInfo[int]) {
		switch info.GenerationNum {
		case 1:
			nested = e.Resume(ctx)
		case 2:
			e.Pause()
		}
	}
	e = New(cfg)

	require.NoError(t, e.Start(ctx))
	assert.True(t, errors.Is(nested, ErrLoopActive))
	assert.Equal(t, 2, e.Snapshot().GenerationNum)
}

func TestResumeBeforeStart(t *testing.T) {
	e := New(newIntConfig(2))
	assert.True(t, errors.Is(e.Resume(context.Background()), ErrNotStarted))
	assert.Equal(t, Idle, e.State())
}

func TestStartTwiceIsRejected(t *testing.T) {
	e := New(newIntConfig(2))
	e.Pause()
	require.NoError(t, e.Start(context.Background()))
	assert.Error(t, e.Start(context.Background()))
	assert.Equal(t, Paused, e.State())
}

func TestBatchSizeMismatchAbortsWithoutAdvancing(t *testing.T) {
	calls := 0
	cfg := newIntConfig(3)
	cfg.Strategy = CustomMutateStrategy[int]{Mutate: func(_ context.Context, recs []FitnessRecord[int]) ([]int, error) {
		calls++
		out := make([]int, 0, len(recs))
		for _, r := range recs {
			out = append(out, r.Individual+1)
		}
		if calls == 2 {
			out = out[:len(out)-1]
		}
		return out, nil
	}}
	e := New(cfg)
	ctx := context.Background()

	err := e.Start(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPopulationSize))
	assert.Equal(t, Failed, e.State())
	assert.Equal(t, 1, e.Snapshot().GenerationNum)
	assert.Len(t, e.Snapshot().Generation, 3)

	// The engine is defunct: resume does not recover.
	err = e.Resume(ctx)
	assert.True(t, errors.Is(err, ErrDefunct))
	assert.True(t, errors.Is(err, ErrPopulationSize))
	assert.Equal(t, 1, e.Snapshot().GenerationNum)
}

func TestInvalidConfigFailsBeforeAnyGeneration(t *testing.T) {
	generated := 0
	cfg := newIntConfig(3)
	cfg.Generate = func(context.Context) (int, error) {
		generated++
		return 0, nil
	}
	cfg.Sort = SortPolicy[int]{By: CustomSort}
	e := New(cfg)

	err := e.Start(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	assert.Equal(t, 0, generated)
	assert.Equal(t, Failed, e.State())
	assert.Equal(t, err, e.Err())
}

func TestNilConfigFails(t *testing.T) {
	e := New[int](nil)
	err := e.Start(context.Background())
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestExternalFailuresAreFatal(t *testing.T) {
	boom := errors.New("boom")

	t.Run("generator", func(t *testing.T) {
		cfg := newIntConfig(3)
		cfg.Generate = func(context.Context) (int, error) { return 0, boom }
		e := New(cfg)
		err := e.Start(context.Background())
		assert.True(t, errors.Is(err, boom))
		assert.Equal(t, Failed, e.State())
	})

	t.Run("fitness", func(t *testing.T) {
		cfg := newIntConfig(3)
		cfg.Fitness = func(_ context.Context, x int) (float64, error) {
			if x > 3 {
				return 0, boom
			}
			return float64(x), nil
		}
		e := New(cfg)
		err := e.Start(context.Background())
		assert.True(t, errors.Is(err, boom))
		assert.Equal(t, Failed, e.State())
		// The failing step produced a valid population, so it was counted.
		assert.Equal(t, 1, e.Snapshot().GenerationNum)
	})
}

func TestSelectionMissIsFatal(t *testing.T) {
	cfg := newIntConfig(2)
	cfg.Random = &scriptedRandom{draws: []float64{1}}
	e := New(cfg)

	err := e.Start(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOperatorSelection))
	assert.Equal(t, 0, e.Snapshot().GenerationNum)
}

func TestContextCancelStopsLikePause(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var e *Engine[int]
	cfg := newIntConfig(2)
	cfg.Hooks.AfterGenerationFitnessEvaluated = func(info GenerationFitnessInfo[int]) {
		switch info.GenerationNum {
		case 2:
			cancel()
		case 4:
			e.Pause()
		}
	}
	e = New(cfg)

	err := e.Start(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, Paused, e.State())
	assert.Equal(t, 2, e.Snapshot().GenerationNum)

	require.NoError(t, e.Resume(context.Background()))
	assert.Equal(t, 4, e.Snapshot().GenerationNum)
}

func TestSnapshotIsACopy(t *testing.T) {
	e := New(newIntConfig(3))
	e.Pause()
	require.NoError(t, e.Start(context.Background()))

	snap := e.Snapshot()
	snap.Generation[0] = -100
	snap.Fitness[0].Fitness = -100

	again := e.Snapshot()
	assert.NotEqual(t, -100, again.Generation[0])
	assert.NotEqual(t, -100.0, again.Fitness[0].Fitness)
}

func TestLowFirstRunWithKillWorst(t *testing.T) {
	var e *Engine[int]
	cfg := newIntConfig(4)
	cfg.Sort = SortPolicy[int]{By: FitnessLowFirst}
	cfg.KillWorst = 0.75
	cfg.Hooks.AfterGenerationFitnessEvaluated = func(info GenerationFitnessInfo[int]) {
		for i := 1; i < len(info.Fitness); i++ {
			assert.LessOrEqual(t, info.Fitness[i-1].Fitness, info.Fitness[i].Fitness)
		}
		e.Pause()
	}
	e = New(cfg)

	require.NoError(t, e.Start(context.Background()))
	// Initial 1..4; kill-worst keeps 2,3,4,4; each is incremented.
	assert.Equal(t, []float64{3, 4, 5, 5}, Scores(e.Snapshot().Fitness))
}
