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

var networkSubtypes = []string{"ddos", "port_scan", "data_exfiltration", "malware_c2"}

// NetworkSource watches for anomalous network traffic. The simulated
// sampler stands in for a capture pipeline; the trigger policy and
// identifier selection are injectable so tests stay deterministic.
type NetworkSource struct {
	interval time.Duration
	policy   trigger.Policy
	rng      *rand.Rand

	pickIdentifier func() string
}

// NewNetworkSource creates the network source from its config block. A nil
// policy falls back to the configured trigger probability.
func NewNetworkSource(cfg config.SourceConfig, policy trigger.Policy) *NetworkSource {
	if policy == nil {
		policy = trigger.NewProbability(cfg.TriggerProbability, cfg.Seed)
	}
	rng := newRNG(cfg.Seed)
	return &NetworkSource{
		interval: cfg.Interval,
		policy:   policy,
		rng:      rng,
		pickIdentifier: func() string {
			return fmt.Sprintf("192.168.1.%d", rng.Intn(254)+1)
		},
	}
}

// Name implements Source.
func (s *NetworkSource) Name() string { return "network" }

// Interval implements Source.
func (s *NetworkSource) Interval() time.Duration { return s.interval }

// Poll implements Source.
func (s *NetworkSource) Poll(ctx context.Context) (*threat.Observation, error) {
	if !s.policy.Fire() {
		return nil, nil
	}

	subtype := networkSubtypes[s.rng.Intn(len(networkSubtypes))]
	identifier := s.pickIdentifier()

	return &threat.Observation{
		Kind:        threat.KindNetwork,
		Identifier:  identifier,
		Subtype:     subtype,
		Confidence:  uniform(s.rng, 0.4, 0.95),
		EventType:   "suspicious_traffic_" + subtype,
		Description: fmt.Sprintf("Suspicious %s activity detected from %s", subtype, identifier),
	}, nil
}
