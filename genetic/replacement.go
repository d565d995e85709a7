package genetic

import "math"

// KillCount is the number of records replaced for a population of size n.
func KillCount(n int, fraction float64) int {
	if fraction <= 0 || n <= 0 {
		return 0
	}
	count := int(math.Floor(float64(n) * fraction))
	if count > n {
		count = n
	}
	return count
}

// KillWorst culls the worst fraction of records and mirrors the best ones
// into their slots. The records are ranked ascending by score; position i
// below the kill count receives a copy of position len-1-i, read from the
// ranking before any slot was overwritten. The result is then sorted by the
// policy. The input slice is not modified and the length never changes.
func KillWorst[T any](records []FitnessRecord[T], fraction float64, policy SortPolicy[T]) []FitnessRecord[T] {
	ranked := make([]FitnessRecord[T], len(records))
	copy(ranked, records)
	sortAscending(ranked)

	killCount := KillCount(len(ranked), fraction)
	out := make([]FitnessRecord[T], len(ranked))
	for i := range ranked {
		if i < killCount {
			out[i] = ranked[len(ranked)-1-i]
		} else {
			out[i] = ranked[i]
		}
	}

	SortRecords(out, policy)
	return out
}
