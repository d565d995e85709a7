package genetic

import "errors"

var (
	// ErrInvalidConfig is wrapped by every validation failure. The wrapping
	// message names the violated rule, e.g. "config error: population_size must be positive".
	ErrInvalidConfig = errors.New("config error")

	// ErrOperatorSelection reports a random draw not covered by any operator range.
	ErrOperatorSelection = errors.New("operator selection failed")

	// ErrPopulationSize reports an operator that returned the wrong number of individuals.
	ErrPopulationSize = errors.New("population size mismatch")

	// ErrDefunct is returned by Start and Resume after the engine hit a fatal error.
	ErrDefunct = errors.New("engine is defunct after a fatal error")

	ErrLoopActive = errors.New("generation loop already active")
	ErrNotStarted = errors.New("engine has not been started")
)
