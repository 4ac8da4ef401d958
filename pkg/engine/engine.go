package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/argus-sec/argus/pkg/blocklist"
	"github.com/argus-sec/argus/pkg/errors"
	"github.com/argus-sec/argus/pkg/event"
	"github.com/argus-sec/argus/pkg/metrics"
	"github.com/argus-sec/argus/pkg/report"
	"github.com/argus-sec/argus/pkg/response"
	"github.com/argus-sec/argus/pkg/sources"
	"github.com/argus-sec/argus/pkg/threat"
	"github.com/rs/zerolog"
)

// State is the coordinator lifecycle state.
type State int32

const (
	StateStopped State = iota
	StateRunning
	StateStopping
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Options wires the engine's collaborators. All shared state (event log,
// blocklist, brute-force counters) is passed in explicitly at
// construction; the engine holds no ambient globals.
type Options struct {
	Sources   []sources.Source
	Reporter  *report.Reporter
	Log       *event.Log
	BlockList *blocklist.BlockList
	Responder *response.Responder
	Validator *event.Validator
	Dedup     *event.Deduplicator // optional
	Metrics   *metrics.Metrics    // optional
	Logger    zerolog.Logger
}

// Engine coordinates the observation sources and the reporter as
// concurrent units over the shared detection state. Lifecycle is
// Stopped -> Running -> Stopping -> Stopped; cancellation is cooperative,
// each unit finishes its in-flight cycle before exiting.
type Engine struct {
	opts   Options
	logger zerolog.Logger
	errs   *errors.Handler

	state  atomic.Int32
	mu     sync.Mutex
	cancel context.CancelFunc
	timer  *time.Timer
	wg     sync.WaitGroup
	done   chan struct{}
}

// New validates the wiring and returns a stopped engine. Startup is
// all-or-nothing: any invalid source configuration fails construction
// before a single goroutine is launched.
func New(opts Options) (*Engine, error) {
	if len(opts.Sources) == 0 {
		return nil, fmt.Errorf("engine requires at least one observation source")
	}
	if opts.Log == nil || opts.BlockList == nil || opts.Responder == nil {
		return nil, fmt.Errorf("engine requires an event log, a blocklist and a responder")
	}
	if opts.Reporter == nil {
		return nil, fmt.Errorf("engine requires a reporter")
	}
	if opts.Reporter.Period() <= 0 {
		return nil, fmt.Errorf("reporter period must be positive")
	}
	for _, src := range opts.Sources {
		if src == nil {
			return nil, fmt.Errorf("nil observation source")
		}
		if src.Interval() <= 0 {
			return nil, fmt.Errorf("source '%s' has a non-positive interval", src.Name())
		}
	}

	logger := opts.Logger.With().Str("component", "engine").Logger()
	return &Engine{
		opts:   opts,
		logger: logger,
		errs:   errors.NewHandler(logger),
		done:   make(chan struct{}),
	}, nil
}

// Start launches all sources and the reporter. A positive runDuration
// bounds the run; zero runs until Stop is called. Start fails if the
// engine is not in the stopped state; a fully stopped engine can be
// started again for a fresh run.
func (e *Engine) Start(runDuration time.Duration) error {
	e.mu.Lock()
	if State(e.state.Load()) != StateStopped {
		e.mu.Unlock()
		return fmt.Errorf("engine cannot start from state %s", e.State())
	}

	select {
	case <-e.done:
		// A previous run completed; arm a fresh completion signal.
		// Waiters on the old channel were already released.
		e.done = make(chan struct{})
	default:
	}

	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.state.Store(int32(StateRunning))

	e.logger.Info().
		Int("sources", len(e.opts.Sources)).
		Dur("run_duration", runDuration).
		Msg("Engine starting...")

	for _, src := range e.opts.Sources {
		e.wg.Add(1)
		go e.runSource(ctx, src)
	}
	e.wg.Add(1)
	go e.runReporter(ctx)

	if runDuration > 0 {
		e.timer = time.AfterFunc(runDuration, func() {
			e.logger.Info().Msg("Run duration elapsed, stopping engine")
			e.Stop()
		})
	}
	e.mu.Unlock()

	e.logger.Info().Msg("All units started.")
	return nil
}

// Stop halts the engine: sources and the reporter observe the
// cancellation at the top of their loops, complete any in-flight cycle,
// and exit. Stop is idempotent and safe to call from any goroutine at
// any point in the lifecycle; concurrent callers all return once the
// run has fully stopped.
func (e *Engine) Stop() {
	e.mu.Lock()
	switch State(e.state.Load()) {
	case StateRunning:
		e.state.Store(int32(StateStopping))
		if e.timer != nil {
			e.timer.Stop()
			e.timer = nil
		}
		cancel := e.cancel
		done := e.done
		e.mu.Unlock()

		cancel()
		e.logger.Info().Msg("Engine stopping, waiting for in-flight cycles...")
		e.wg.Wait()

		// The stopped state and the completion signal flip together, so
		// a restarting Start always finds the old channel already closed.
		e.mu.Lock()
		e.state.Store(int32(StateStopped))
		e.logFinalSummary()
		close(done)
		e.mu.Unlock()

	case StateStopping:
		// Another caller is driving the shutdown; wait for it.
		done := e.done
		e.mu.Unlock()
		<-done

	default:
		// Stopped: nothing running, nothing to wait for.
		e.mu.Unlock()
	}
}

// Wait blocks until the current run has fully stopped.
func (e *Engine) Wait() {
	e.mu.Lock()
	done := e.done
	e.mu.Unlock()
	<-done
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Summary returns the run-level accounting. It is safe to call at any
// point in the lifecycle.
func (e *Engine) Summary() report.Summary {
	return e.opts.Reporter.Summarize()
}

// runSource is the loop for one observation source. Cancellation is
// checked at the top of every iteration so an in-flight cycle always
// completes before the unit exits.
func (e *Engine) runSource(ctx context.Context, src sources.Source) {
	defer e.wg.Done()

	logger := e.logger.With().Str("source", src.Name()).Logger()
	logger.Info().Dur("interval", src.Interval()).Msg("Source started")

	ticker := time.NewTicker(src.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Source received shutdown signal")
			return
		default:
		}

		select {
		case <-ctx.Done():
			logger.Info().Msg("Source received shutdown signal")
			return
		case <-ticker.C:
			if !e.cycle(ctx, src, logger) {
				logger.Error().Msg("Source loop terminated after unrecoverable cycle failure")
				return
			}
		}
	}
}

// cycle runs one poll-classify-respond-append pass for a source. It
// returns false only when the cycle failed unrecoverably; transient and
// contract failures are logged and the cycle is skipped. A panic is
// confined to this source's loop.
func (e *Engine) cycle(ctx context.Context, src sources.Source, logger zerolog.Logger) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.errs.Handle(errors.NewPanicError(src.Name(), r))
			ok = false
		}
	}()

	obs, err := src.Poll(ctx)
	if err != nil {
		// Transient per-cycle failure: skip this cycle, keep the loop.
		e.errs.Handle(errors.NewPollError(src.Name(), err))
		return true
	}
	if obs == nil {
		return true
	}

	if err := obs.Validate(); err != nil {
		e.errs.Handle(errors.NewContractError(src.Name(), err))
		if e.opts.Metrics != nil {
			e.opts.Metrics.DroppedObservations.WithLabelValues("contract").Inc()
		}
		return true
	}

	if e.opts.Dedup != nil && e.opts.Dedup.IsDuplicate(obs) {
		if e.opts.Metrics != nil {
			e.opts.Metrics.DroppedObservations.WithLabelValues("duplicate").Inc()
		}
		return true
	}

	level := obs.Level()
	action := e.opts.Responder.Respond(ctx, level, obs.Identifier)
	ev := event.New(obs, level, action)

	if e.opts.Validator != nil {
		if err := e.opts.Validator.ValidateEvent(&ev); err != nil {
			e.errs.Handle(errors.NewValidationError(src.Name(), err))
			if e.opts.Metrics != nil {
				e.opts.Metrics.DroppedObservations.WithLabelValues("validation").Inc()
			}
			return true
		}
	}

	e.opts.Log.Append(ev)

	if e.opts.Metrics != nil {
		e.opts.Metrics.EventsTotal.WithLabelValues(level.String(), obs.Kind.String()).Inc()
		e.opts.Metrics.BlockedIdentifiers.Set(float64(e.opts.BlockList.Len()))
	}

	e.eventLogLine(logger, ev)
	return true
}

// eventLogLine renders the event the way operators read it: level, source
// identifier, description, confidence as a percentage, action taken.
func (e *Engine) eventLogLine(logger zerolog.Logger, ev event.SecurityEvent) {
	var logEvent *zerolog.Event
	switch ev.Level {
	case threat.LevelCritical, threat.LevelHigh:
		logEvent = logger.Warn()
	default:
		logEvent = logger.Info()
	}

	logEvent.
		Str("event_id", ev.ID).
		Str("event_type", ev.EventType).
		Str("threat_level", ev.Level.String()).
		Str("source_identifier", ev.SourceIdentifier).
		Str("description", ev.Description).
		Str("confidence", fmt.Sprintf("%.2f%%", ev.Confidence*100)).
		Str("action_taken", ev.ActionTaken).
		Msg("Security event recorded")
}

// runReporter drives the periodic intelligence report.
func (e *Engine) runReporter(ctx context.Context) {
	defer e.wg.Done()

	logger := e.logger.With().Str("unit", "reporter").Logger()
	logger.Info().Dur("period", e.opts.Reporter.Period()).Msg("Reporter started")

	ticker := time.NewTicker(e.opts.Reporter.Period())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Reporter received shutdown signal")
			return
		default:
		}

		select {
		case <-ctx.Done():
			logger.Info().Msg("Reporter received shutdown signal")
			return
		case <-ticker.C:
			e.opts.Reporter.Emit()
		}
	}
}

func (e *Engine) logFinalSummary() {
	summary := e.Summary()

	logEvent := e.logger.Info().
		Int("total_events", summary.TotalEvents).
		Int("blocked_count", summary.BlockedCount).
		Int("critical_count", summary.CriticalCount)

	if blocked := e.opts.BlockList.Snapshot(); len(blocked) > 0 {
		sample := blocked
		if len(sample) > 5 {
			sample = sample[:5]
		}
		logEvent = logEvent.Strs("blocked_sample", sample)
	}

	logEvent.Msg("FINAL SECURITY SUMMARY")
}
