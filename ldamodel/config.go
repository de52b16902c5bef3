package ldamodel

import (
	"github.com/golang/glog"

	"github.com/bobonovski/ldavb/ldamath"
)

// Config carries the learner hyperparameters of spec.md §6. K is the only
// required field; everything else has the spec's default.
type Config struct {
	// K is the number of topics. Required, must be >= 1.
	K uint32
	// W is the number of rows in the hashed weight table; rounded up to
	// a power of two by table.New.
	W uint32
	// Alpha is the Dirichlet prior over theta (document-topic mixture).
	Alpha float32
	// Rho is the Dirichlet prior over beta (topic-term mixture).
	Rho float32
	// D is the assumed corpus size scaling the stochastic gradient.
	D float32
	// Epsilon is the per-document loop's convergence threshold.
	Epsilon float32
	// Minibatch is the number of documents accumulated per learnBatch.
	Minibatch uint32
	// Mode selects the math-kernel accuracy family.
	Mode ldamath.Mode

	// Eta0 is the base learning rate (external: spec.md §6 "base
	// learning rate eta0").
	Eta0 float32
	// PowerT is the learning-rate decay exponent.
	PowerT float32
	// InitialT is the prior example counter an upstream learner may
	// already have advanced past (spec.md §6 "initial_t").
	InitialT float32

	// Seed drives the initial random weight table (SPEC_FULL §5.1). It
	// is not part of spec.md itself: the core update math is otherwise
	// fully determined by the input stream and these hyperparameters,
	// so pinning Seed is what makes two runs bit-identical (spec.md §8
	// "Determinism"). Zero means "use 1".
	Seed int64
}

// DefaultConfig returns spec.md §6's defaults for everything but K, which
// the caller must still set.
func DefaultConfig(k uint32) Config {
	return Config{
		K:         k,
		W:         1 << 18,
		Alpha:     0.1,
		Rho:       0.1,
		D:         10000,
		Epsilon:   1e-3,
		Minibatch: 1,
		Mode:      ldamath.ModeSIMD,
		Eta0:      0.5,
		PowerT:    0.5,
		InitialT:  0,
		Seed:      1,
	}
}

// Validate checks the config and applies spec.md §7's "learning rate > 1"
// clamp-with-warning. It returns a *ConfigError for anything it cannot
// repair itself.
func (c *Config) Validate() error {
	if c.K == 0 {
		return configError("K", "must be >= 1")
	}
	if c.W == 0 {
		return configError("W", "must be >= 1")
	}
	if c.Minibatch == 0 {
		return configError("Minibatch", "must be >= 1")
	}
	if c.Epsilon <= 0 {
		return configError("Epsilon", "must be > 0")
	}
	if c.Eta0 > 1 {
		glog.Warningf("ldamodel: learning rate %v is too high, setting it to 1", c.Eta0)
		c.Eta0 = 1
	}
	return nil
}
