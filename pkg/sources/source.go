package sources

import (
	"context"
	"math/rand"
	"time"

	"github.com/argus-sec/argus/pkg/threat"
)

// Source produces raw security observations on its own cadence. Poll is
// invoked once per cycle by the engine, from a single goroutine per
// source, and returns nil on the (frequent) cycles where the trigger
// condition does not hold. Polls are fast and never block on I/O;
// deployments ingesting real signals wrap their acquisition behind this
// interface with bounded-timeout reads.
type Source interface {
	Name() string
	Interval() time.Duration
	Poll(ctx context.Context) (*threat.Observation, error)
}

// newRNG builds the sampling generator for a source. Seed zero derives an
// unpredictable stream; tests pass fixed seeds.
func newRNG(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// uniform samples a confidence from [lo, hi).
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
