package adminalert

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// AdminAlertAction implements the actions.Action interface. It raises an
// operator-facing alert for critically classified identifiers. Delivery is
// a log line; deployments wanting pagers or mail wrap their own Action.
type AdminAlertAction struct {
	logger zerolog.Logger
}

// New creates an AdminAlertAction writing alerts through the given logger.
func New(logger zerolog.Logger) *AdminAlertAction {
	return &AdminAlertAction{
		logger: logger.With().Str("action", "admin_alert").Logger(),
	}
}

// Name returns the unique name of the action.
func (a *AdminAlertAction) Name() string {
	return "admin_alert"
}

// Execute raises the alert. It expects the data map to contain an
// "identifier" key naming the source under mitigation.
func (a *AdminAlertAction) Execute(ctx context.Context, data map[string]interface{}) error {
	identifier, ok := data["identifier"].(string)
	if !ok || identifier == "" {
		return fmt.Errorf("missing or invalid 'identifier' in action data for admin_alert action")
	}

	logEvent := a.logger.Warn().Str("identifier", identifier)
	if level, ok := data["level"].(string); ok {
		logEvent = logEvent.Str("threat_level", level)
	}
	logEvent.Msg("ADMIN ALERT: identifier permanently blocked")
	return nil
}
