package smtkit

import (
	log "github.com/sirupsen/logrus"

	"github.com/smtkit/smtkit/z3"
)

// Options configures a solver session at construction time. The zero value
// is not useful; start from DefaultOptions.
type Options struct {
	// GenerateModels keeps model construction enabled so that Sat results
	// can be inspected.
	GenerateModels bool

	// UnsatCores turns on assertion tracking, which makes named cores
	// available at the price of indicator literals on every assertion.
	UnsatCores bool

	// RandomSeed pins the engine's internal randomness when non-nil.
	RandomSeed *uint

	// Extra holds engine-specific options, keyed by the engine's own
	// parameter names, applied verbatim after the options above.
	Extra map[string]interface{}
}

func DefaultOptions() Options {
	return Options{GenerateModels: true}
}

// apply pushes the options onto a fresh native solver. It runs again after
// Reset, since the engine drops its parameters with the assertions.
func (o Options) apply(s *z3.Solver) error {
	if err := s.SetOption("model", o.GenerateModels); err != nil {
		return &ConfigurationError{Key: "model", Value: o.GenerateModels, Err: err}
	}
	if err := s.SetOption("unsat_core", o.UnsatCores); err != nil {
		return &ConfigurationError{Key: "unsat_core", Value: o.UnsatCores, Err: err}
	}
	if o.RandomSeed != nil {
		if err := s.SetOption("random_seed", *o.RandomSeed); err != nil {
			return &ConfigurationError{Key: "random_seed", Value: *o.RandomSeed, Err: err}
		}
	}
	for k, v := range o.Extra {
		if err := s.SetOption(k, v); err != nil {
			return &ConfigurationError{Key: k, Value: v, Err: err}
		}
		log.Debugf("solver option %s = %v", k, v)
	}
	return nil
}
