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

var criticalFiles = []string{"system.conf", "passwd", "authorized_keys", "crontab"}

// FilesystemSource watches for unauthorized changes to critical files on
// the local host. All of its observations carry the host itself as the
// source identifier.
type FilesystemSource struct {
	interval time.Duration
	policy   trigger.Policy
	rng      *rand.Rand
}

// NewFilesystemSource creates the filesystem source from its config block.
// A nil policy falls back to the configured trigger probability.
func NewFilesystemSource(cfg config.SourceConfig, policy trigger.Policy) *FilesystemSource {
	if policy == nil {
		policy = trigger.NewProbability(cfg.TriggerProbability, cfg.Seed)
	}
	return &FilesystemSource{
		interval: cfg.Interval,
		policy:   policy,
		rng:      newRNG(cfg.Seed),
	}
}

// Name implements Source.
func (s *FilesystemSource) Name() string { return "filesystem" }

// Interval implements Source.
func (s *FilesystemSource) Interval() time.Duration { return s.interval }

// Poll implements Source.
func (s *FilesystemSource) Poll(ctx context.Context) (*threat.Observation, error) {
	if !s.policy.Fire() {
		return nil, nil
	}

	file := criticalFiles[s.rng.Intn(len(criticalFiles))]

	return &threat.Observation{
		Kind:        threat.KindFilesystem,
		Identifier:  "localhost",
		Subtype:     file,
		Confidence:  uniform(s.rng, 0.5, 0.8),
		EventType:   "unauthorized_file_change",
		Description: fmt.Sprintf("Unauthorized modification detected in %s", file),
	}, nil
}
