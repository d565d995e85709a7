package genetic

import (
	"fmt"
	"sort"
)

// Registry maps names to operator functions so that settings files can
// refer to operators by name.
type Registry[T any] struct {
	Mutations   map[string]MutateFunc[T]
	Breeds      map[string]BreedFunc[T]
	Batches     map[string]BatchFunc[T]
	Comparators map[string]CompareFunc[T]
}

// NewRegistry creates an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		Mutations:   make(map[string]MutateFunc[T]),
		Breeds:      make(map[string]BreedFunc[T]),
		Batches:     make(map[string]BatchFunc[T]),
		Comparators: make(map[string]CompareFunc[T]),
	}
}

func (r *Registry[T]) RegisterMutation(name string, fn MutateFunc[T]) {
	r.Mutations[name] = fn
}

func (r *Registry[T]) RegisterBreed(name string, fn BreedFunc[T]) {
	r.Breeds[name] = fn
}

func (r *Registry[T]) RegisterBatch(name string, fn BatchFunc[T]) {
	r.Batches[name] = fn
}

func (r *Registry[T]) RegisterComparator(name string, fn CompareFunc[T]) {
	r.Comparators[name] = fn
}

// GetMutation retrieves a mutation function by name.
func (r *Registry[T]) GetMutation(name string) (MutateFunc[T], error) {
	if fn, ok := r.Mutations[name]; ok && fn != nil {
		return fn, nil
	}
	return nil, fmt.Errorf("unknown mutation function: %s (known: %v)", name, sortedKeys(r.Mutations))
}

// GetBreed retrieves a breed function by name.
func (r *Registry[T]) GetBreed(name string) (BreedFunc[T], error) {
	if fn, ok := r.Breeds[name]; ok && fn != nil {
		return fn, nil
	}
	return nil, fmt.Errorf("unknown breed function: %s (known: %v)", name, sortedKeys(r.Breeds))
}

// GetBatch retrieves a custom batch function by name.
func (r *Registry[T]) GetBatch(name string) (BatchFunc[T], error) {
	if fn, ok := r.Batches[name]; ok && fn != nil {
		return fn, nil
	}
	return nil, fmt.Errorf("unknown batch function: %s (known: %v)", name, sortedKeys(r.Batches))
}

// GetComparator retrieves a comparator by name.
func (r *Registry[T]) GetComparator(name string) (CompareFunc[T], error) {
	if fn, ok := r.Comparators[name]; ok && fn != nil {
		return fn, nil
	}
	return nil, fmt.Errorf("unknown comparator: %s (known: %v)", name, sortedKeys(r.Comparators))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
