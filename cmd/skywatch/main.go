package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/skywatch-fusion/internal/adapter/feed"
	"github.com/couchcryptid/skywatch-fusion/internal/adapter/fuzzy"
	httpadapter "github.com/couchcryptid/skywatch-fusion/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/skywatch-fusion/internal/adapter/kafka"
	"github.com/couchcryptid/skywatch-fusion/internal/adapter/nominatim"
	"github.com/couchcryptid/skywatch-fusion/internal/adapter/sqlite"
	"github.com/couchcryptid/skywatch-fusion/internal/config"
	"github.com/couchcryptid/skywatch-fusion/internal/domain"
	"github.com/couchcryptid/skywatch-fusion/internal/gazetteer"
	"github.com/couchcryptid/skywatch-fusion/internal/observability"
	"github.com/couchcryptid/skywatch-fusion/internal/pipeline"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	gaz, err := gazetteer.Build(cfg.GazetteerFile, cfg.LocationOverrides, cfg.AlarmDistrictOverrides)
	if err != nil {
		logger.Error("failed to build gazetteer", "error", err)
		os.Exit(1)
	}
	logger.Info("gazetteer loaded", "places", len(gaz.Places()), "districts", len(gaz.Districts()))

	// The fuzzy locator always runs; Nominatim is feature-flagged via GEOCODER_ENABLED.
	geocoder := domain.ChainGeocoder{fuzzy.NewLocator(gaz, metrics)}
	if cfg.GeocoderEnabled {
		client := nominatim.NewClient(cfg.NominatimURL, cfg.GeocoderTimeout, metrics, logger)
		geocoder = append(geocoder, nominatim.NewCachedGeocoder(client, cfg.GeocoderCacheSize, metrics))
		metrics.GeocodeEnabled.Set(1)
		logger.Info("nominatim geocoding enabled", "cache_size", cfg.GeocoderCacheSize, "timeout", cfg.GeocoderTimeout)
	} else {
		logger.Info("nominatim geocoding disabled")
	}

	store, err := sqlite.NewStore(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open store", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}

	var (
		sources []pipeline.Source
		reader  *kafkaadapter.Reader
		writer  *kafkaadapter.Writer
	)
	if cfg.KafkaEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		writer = kafkaadapter.NewWriter(cfg, logger)
		sources = append(sources, reader)
	}
	for _, url := range cfg.RSSURLs {
		sources = append(sources, feed.NewRSSSource(url, nil, logger))
	}
	for _, url := range cfg.JSONFeeds {
		sources = append(sources, feed.NewJSONSource(url, nil, logger))
	}
	if len(sources) == 0 {
		logger.Warn("no sources configured; only test events will be served")
	}

	opts := pipeline.Options{
		RefreshInterval: cfg.RefreshInterval,
		FetchTimeout:    cfg.FetchTimeout,
		StaleKeep:       cfg.EventStaleKeep,
		TestEvents:      store,
		AlarmStore:      store,
	}
	if writer != nil {
		opts.Publisher = writer
	}

	fuser := pipeline.NewFuserFromConfig(cfg, gaz, geocoder, logger)
	p := pipeline.New(sources, fuser, pipeline.NewResultCache(), logger, metrics, opts)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := p.RestoreAlarms(ctx); err != nil {
		logger.Warn("alarm state not restored", "error", err)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, httpadapter.Checks{p, store}, p, store,
		httpadapter.Options{EventTTL: cfg.EventTTL, RefreshInterval: cfg.RefreshInterval}, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start refresh loop.
	go func() {
		if err := p.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if err := store.Close(); err != nil {
		logger.Error("store close error", "error", err)
	}

	logger.Info("shutdown complete")
}
