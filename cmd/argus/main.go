package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/argus-sec/argus/pkg/actions"
	"github.com/argus-sec/argus/pkg/actions/adminalert"
	"github.com/argus-sec/argus/pkg/api"
	"github.com/argus-sec/argus/pkg/blocklist"
	"github.com/argus-sec/argus/pkg/bruteforce"
	"github.com/argus-sec/argus/pkg/config"
	"github.com/argus-sec/argus/pkg/engine"
	"github.com/argus-sec/argus/pkg/event"
	"github.com/argus-sec/argus/pkg/logger"
	"github.com/argus-sec/argus/pkg/metrics"
	"github.com/argus-sec/argus/pkg/report"
	"github.com/argus-sec/argus/pkg/response"
	"github.com/argus-sec/argus/pkg/sources"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.InitLogger(cfg.LogLevel)
	cfg.WatchLogLevel(logger.SetLevel)

	log.Info().Msgf("Argus engine starting: LogLevel=%s, APIPort=%s, RunDuration=%s",
		cfg.LogLevel, cfg.APIPort, cfg.RunDuration)

	// Shared detection state, passed explicitly to every unit.
	eventLog := event.NewLog(cfg.EventLog.MaxEvents)
	bl := blocklist.New()
	counter := bruteforce.NewCounter(cfg.BruteForce.Threshold)
	m := metrics.New()

	dispatcher := actions.NewDispatcher(cfg.Actions.Enabled)
	dispatcher.Register(adminalert.New(log.Logger))
	responder := response.NewResponder(bl, dispatcher, log.Logger)

	var srcs []sources.Source
	for _, sc := range cfg.Sources {
		if !sc.Enabled {
			log.Info().Msgf("Source '%s' is disabled, skipping.", sc.Name)
			continue
		}
		switch sc.Name {
		case "network":
			srcs = append(srcs, sources.NewNetworkSource(sc, nil))
		case "login":
			srcs = append(srcs, sources.NewLoginSource(sc, nil, counter))
		case "filesystem":
			srcs = append(srcs, sources.NewFilesystemSource(sc, nil))
		case "data_access":
			srcs = append(srcs, sources.NewDataAccessSource(sc, nil))
		default:
			log.Warn().Msgf("Unknown source '%s' in configuration, skipping.", sc.Name)
		}
	}

	reporter := report.NewReporter(eventLog, bl, cfg.Reporter.Period, cfg.Reporter.Window, m, log.Logger)

	var dedup *event.Deduplicator
	if cfg.Dedup.Enabled {
		dedup = event.NewDeduplicator(cfg.Dedup.Window, cfg.Dedup.MaxEntries)
	}

	eng, err := engine.New(engine.Options{
		Sources:   srcs,
		Reporter:  reporter,
		Log:       eventLog,
		BlockList: bl,
		Responder: responder,
		Validator: event.NewValidator(cfg.Validation.EventsPerSecond, cfg.Validation.Burst),
		Dedup:     dedup,
		Metrics:   m,
		Logger:    log.Logger,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to construct engine")
	}

	go api.NewServer(eng, eventLog, bl, m).Start(cfg.APIPort)

	if err := eng.Start(cfg.RunDuration); err != nil {
		log.Fatal().Err(err).Msg("Failed to start engine")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Info().Msgf("Received signal: %s. Shutting down gracefully...", sig)
		eng.Stop()
	}()

	eng.Wait()
	log.Info().Msg("Argus engine stopped.")
}
