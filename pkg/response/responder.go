package response

import (
	"context"
	"fmt"

	"github.com/argus-sec/argus/pkg/actions"
	"github.com/argus-sec/argus/pkg/blocklist"
	"github.com/argus-sec/argus/pkg/threat"
	"github.com/rs/zerolog"
)

// Responder translates a threat level into a mitigating action description
// and applies the corresponding blocklist mutation. Respond is called from
// every source goroutine; the blocklist carries its own locking, so the
// responder itself holds no mutable state.
type Responder struct {
	blocklist  *blocklist.BlockList
	dispatcher *actions.Dispatcher
	logger     zerolog.Logger
}

// NewResponder creates a responder over the shared blocklist. dispatcher
// may be nil when no mitigation hooks are registered.
func NewResponder(bl *blocklist.BlockList, dispatcher *actions.Dispatcher, logger zerolog.Logger) *Responder {
	return &Responder{
		blocklist:  bl,
		dispatcher: dispatcher,
		logger:     logger.With().Str("component", "responder").Logger(),
	}
}

// Respond applies the mitigation policy for the level and returns the
// human-readable action description recorded on the security event.
//
// Low and medium threats never touch the blocklist. High and critical
// threats insert the identifier; re-inserting an already blocked
// identifier is a no-op.
func (r *Responder) Respond(ctx context.Context, level threat.Level, identifier string) string {
	switch level {
	case threat.LevelLow:
		return "logged for monitoring"

	case threat.LevelMedium:
		return fmt.Sprintf("rate limiting applied to %s", identifier)

	case threat.LevelHigh:
		if r.blocklist.Add(identifier) {
			r.logger.Info().Str("identifier", identifier).Msg("Identifier temporarily blocked")
		}
		return fmt.Sprintf("%s temporarily blocked", identifier)

	case threat.LevelCritical:
		if r.blocklist.Add(identifier) {
			r.logger.Warn().Str("identifier", identifier).Msg("Identifier permanently blocked")
		}
		r.alertAdmin(ctx, level, identifier)
		return fmt.Sprintf("%s permanently blocked, admin alerted", identifier)

	default:
		return "no action taken"
	}
}

func (r *Responder) alertAdmin(ctx context.Context, level threat.Level, identifier string) {
	if r.dispatcher == nil {
		return
	}
	data := map[string]interface{}{
		"identifier": identifier,
		"level":      level.String(),
	}
	if err := r.dispatcher.Execute(ctx, "admin_alert", data); err != nil {
		r.logger.Error().Err(err).Str("identifier", identifier).Msg("Failed to dispatch admin alert")
	}
}
