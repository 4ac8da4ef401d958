package actions

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Dispatcher manages and executes mitigation actions. Enforcement against
// real infrastructure (firewalls, identity providers) lives behind the
// Action interface and is registered by the embedding application; the
// engine itself only dispatches.
type Dispatcher struct {
	actions map[string]Action
	enabled bool
	mu      sync.RWMutex
}

// NewDispatcher creates a new action dispatcher.
func NewDispatcher(enabled bool) *Dispatcher {
	return &Dispatcher{
		actions: make(map[string]Action),
		enabled: enabled,
	}
}

// Register registers a new action with the dispatcher.
func (d *Dispatcher) Register(action Action) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.actions[action.Name()] = action
	log.Info().Msgf("Action '%s' registered.", action.Name())
}

// Execute runs the named action with the given data.
func (d *Dispatcher) Execute(ctx context.Context, actionName string, data map[string]interface{}) error {
	if !d.IsEnabled() {
		log.Debug().Str("action", actionName).Msg("Actions are disabled, skipping execution.")
		return nil
	}

	d.mu.RLock()
	action, exists := d.actions[actionName]
	d.mu.RUnlock()

	if !exists {
		return fmt.Errorf("action '%s' not found", actionName)
	}

	if err := action.Execute(ctx, data); err != nil {
		log.Error().Err(err).Str("action", actionName).Msg("Action execution failed.")
		return err
	}

	log.Debug().Str("action", actionName).Msg("Action executed successfully.")
	return nil
}

// IsEnabled returns whether actions are enabled.
func (d *Dispatcher) IsEnabled() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.enabled
}

// SetEnabled enables or disables action execution.
func (d *Dispatcher) SetEnabled(enabled bool) {
	d.mu.Lock()
	d.enabled = enabled
	d.mu.Unlock()

	log.Info().Bool("enabled", enabled).Msg("Action execution status changed.")
}
