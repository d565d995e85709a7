// Package genetic provides a generic evolutionary-computation engine.
//
// The engine is parameterised over an opaque individual type. The caller
// supplies a generator, a fitness function and either weighted mutation and
// breeding operators or a single custom batch operator; the engine scores
// each generation in order, optionally replaces the worst fraction with
// copies of the best, breeds the next generation and reports progress
// through optional lifecycle hooks. It runs until paused and can be resumed
// from where it stopped.
//
// Basic usage:
//
//	cfg := &genetic.Config[Aim]{
//		PopulationSize: 5,
//		Sort:           genetic.SortPolicy[Aim]{By: genetic.FitnessHighFirst},
//		KillWorst:      0.75,
//		Generate:       newAim,
//		Fitness:        shoot,
//		Strategy: genetic.AutoStrategy[Aim]{
//			Mutations: []genetic.Mutation[Aim]{{Probability: 1, Mutate: nudge}},
//		},
//	}
//
//	engine := genetic.New(cfg)
//	go func() {
//		if err := engine.Start(ctx); err != nil {
//			log.Fatalf("Evolution failed: %v", err)
//		}
//	}()
//	...
//	engine.Pause()
//
// Settings can also be loaded from an INI file with genetic.LoadSettings and
// bound to named operators with genetic.BuildConfig. Per-generation
// summaries can be recorded with the genetic/history package.
package genetic
