package sources

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/argus-sec/argus/pkg/bruteforce"
	"github.com/argus-sec/argus/pkg/config"
	"github.com/argus-sec/argus/pkg/threat"
	"github.com/argus-sec/argus/pkg/trigger"
)

// LoginSource watches authentication activity. On top of the generic
// classify-by-confidence path it consults the shared brute-force counter:
// every triggered poll counts as one failed attempt for the sampled
// identifier, and when the counter fires the source synthesizes an
// escalated brute-force observation with a pinned High level, bypassing
// the classifier.
type LoginSource struct {
	interval time.Duration
	policy   trigger.Policy
	counter  *bruteforce.Counter
	rng      *rand.Rand

	pickIdentifier func() string
}

// NewLoginSource creates the login source over the shared brute-force
// counter. A nil policy falls back to the configured trigger probability.
func NewLoginSource(cfg config.SourceConfig, policy trigger.Policy, counter *bruteforce.Counter) *LoginSource {
	if policy == nil {
		policy = trigger.NewProbability(cfg.TriggerProbability, cfg.Seed)
	}
	rng := newRNG(cfg.Seed)
	return &LoginSource{
		interval: cfg.Interval,
		policy:   policy,
		counter:  counter,
		rng:      rng,
		pickIdentifier: func() string {
			return fmt.Sprintf("10.0.0.%d", rng.Intn(100)+1)
		},
	}
}

// Name implements Source.
func (s *LoginSource) Name() string { return "login" }

// Interval implements Source.
func (s *LoginSource) Interval() time.Duration { return s.interval }

// Poll implements Source.
func (s *LoginSource) Poll(ctx context.Context) (*threat.Observation, error) {
	if !s.policy.Fire() {
		return nil, nil
	}

	identifier := s.pickIdentifier()
	attempts, fired := s.counter.Record(identifier)

	if fired {
		level := threat.LevelHigh
		return &threat.Observation{
			Kind:        threat.KindLogin,
			Identifier:  identifier,
			Subtype:     "brute_force",
			Confidence:  0.9,
			EventType:   "brute_force_attack",
			Description: fmt.Sprintf("Brute force attack: %d failed login attempts from %s", attempts, identifier),
			Forced:      &level,
		}, nil
	}

	return &threat.Observation{
		Kind:        threat.KindLogin,
		Identifier:  identifier,
		Subtype:     "failed_login",
		Confidence:  uniform(s.rng, 0.3, 0.6),
		EventType:   "failed_login",
		Description: fmt.Sprintf("Failed login attempt %d from %s", attempts, identifier),
	}, nil
}
