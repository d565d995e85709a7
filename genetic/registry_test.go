package genetic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookup(t *testing.T) {
	reg := NewRegistry[int]()
	reg.RegisterMutation("inc", func(_ context.Context, x int, _ float64) (int, error) { return x + 1, nil })
	reg.RegisterComparator("abs", func(a, b FitnessRecord[int]) int { return a.Individual - b.Individual })

	fn, err := reg.GetMutation("inc")
	require.NoError(t, err)
	got, err := fn(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, got)

	_, err = reg.GetComparator("abs")
	assert.NoError(t, err)
}

func TestRegistryUnknownNamesListKnownOnes(t *testing.T) {
	reg := NewRegistry[int]()
	reg.RegisterBreed("b", func(_ context.Context, a, _ FitnessRecord[int]) (int, error) { return a.Individual, nil })
	reg.RegisterBreed("a", func(_ context.Context, a, _ FitnessRecord[int]) (int, error) { return a.Individual, nil })

	_, err := reg.GetBreed("c")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown breed function: c")
	assert.Contains(t, err.Error(), "[a b]")

	_, err = reg.GetBatch("missing")
	assert.Error(t, err)
	reg.RegisterMutation("nil", nil)
	_, err = reg.GetMutation("nil")
	assert.Error(t, err)
}

func TestRegistryLookups(t *testing.T) {
	reg := testRegistry()

	_, err := reg.GetBreed("average")
	assert.NoError(t, err)
	_, err = reg.GetBreed("splice")
	assert.Error(t, err)
	_, err = reg.GetBatch("nothing")
	assert.Contains(t, err.Error(), "known: [identity]")
	_, err = reg.GetComparator("nothing")
	assert.Error(t, err)
}
