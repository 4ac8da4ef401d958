package trigger

import (
	"math/rand"
	"sync"
)

// Policy decides, once per polling cycle, whether a source should emit
// an observation. Implementations must be safe for use from the single
// goroutine of their owning source; the built-in policies are also safe
// under concurrent callers.
type Policy interface {
	Fire() bool
}

// Func adapts a plain function into a Policy.
type Func func() bool

// Fire implements Policy.
func (f Func) Fire() bool { return f() }

// Probability fires with a fixed probability per cycle. A seed of zero
// uses an unpredictable source; tests pass a fixed seed for repeatable
// sequences.
type Probability struct {
	mu  sync.Mutex
	p   float64
	rng *rand.Rand
}

// NewProbability creates a probability policy. p is clamped to [0,1].
func NewProbability(p float64, seed int64) *Probability {
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	var rng *rand.Rand
	if seed != 0 {
		rng = rand.New(rand.NewSource(seed))
	}
	return &Probability{p: p, rng: rng}
}

// Fire implements Policy.
func (pr *Probability) Fire() bool {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	if pr.rng != nil {
		return pr.rng.Float64() < pr.p
	}
	return rand.Float64() < pr.p
}

// Sequence replays a scripted list of decisions and then stops firing.
// It exists so tests can drive sources deterministically instead of
// depending on sampling.
type Sequence struct {
	mu       sync.Mutex
	decision []bool
	next     int
}

// NewSequence creates a sequence policy from the given decisions.
func NewSequence(decisions ...bool) *Sequence {
	return &Sequence{decision: decisions}
}

// Fire implements Policy. Once the sequence is exhausted it always
// returns false.
func (s *Sequence) Fire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.next >= len(s.decision) {
		return false
	}
	fire := s.decision[s.next]
	s.next++
	return fire
}

// Remaining returns how many scripted decisions are left.
func (s *Sequence) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.decision) - s.next
}
