package sources

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/argus-sec/argus/pkg/config"
	"github.com/argus-sec/argus/pkg/threat"
	"github.com/argus-sec/argus/pkg/trigger"
)

var querySubtypes = []string{"sql_injection", "data_dump", "privilege_escalation"}

// DataAccessSource watches database access patterns for suspicious
// queries.
type DataAccessSource struct {
	interval time.Duration
	policy   trigger.Policy
	rng      *rand.Rand

	pickIdentifier func() string
}

// NewDataAccessSource creates the data-access source from its config
// block. A nil policy falls back to the configured trigger probability.
func NewDataAccessSource(cfg config.SourceConfig, policy trigger.Policy) *DataAccessSource {
	if policy == nil {
		policy = trigger.NewProbability(cfg.TriggerProbability, cfg.Seed)
	}
	rng := newRNG(cfg.Seed)
	return &DataAccessSource{
		interval: cfg.Interval,
		policy:   policy,
		rng:      rng,
		pickIdentifier: func() string {
			return fmt.Sprintf("172.16.0.%d", rng.Intn(50)+1)
		},
	}
}

// Name implements Source.
func (s *DataAccessSource) Name() string { return "data_access" }

// Interval implements Source.
func (s *DataAccessSource) Interval() time.Duration { return s.interval }

// Poll implements Source.
func (s *DataAccessSource) Poll(ctx context.Context) (*threat.Observation, error) {
	if !s.policy.Fire() {
		return nil, nil
	}

	subtype := querySubtypes[s.rng.Intn(len(querySubtypes))]
	identifier := s.pickIdentifier()

	return &threat.Observation{
		Kind:        threat.KindDataAccess,
		Identifier:  identifier,
		Subtype:     subtype,
		Confidence:  uniform(s.rng, 0.6, 0.9),
		EventType:   "suspicious_db_query_" + subtype,
		Description: fmt.Sprintf("Potential %s attempt detected from %s", subtype, identifier),
	}, nil
}
