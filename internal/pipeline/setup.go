package pipeline

import (
	"log/slog"

	"github.com/couchcryptid/skywatch-fusion/internal/config"
	"github.com/couchcryptid/skywatch-fusion/internal/domain"
	"github.com/couchcryptid/skywatch-fusion/internal/gazetteer"
)

// NewFuserFromConfig builds the extraction, resolution and fusion chain
// from service configuration. The alarm state starts with the configured
// always-on regions.
func NewFuserFromConfig(cfg *config.Config, g *gazetteer.Gazetteer, geocoder domain.Geocoder, logger *slog.Logger) *Fuser {
	extractor := domain.NewExtractor(g, domain.ExtractorConfig{
		Bounds:        domain.DefaultBounds(),
		SourceWeights: cfg.SourceWeights,
		DefaultWeight: cfg.SourceWeightDefault,
	})
	resolver := domain.NewResolver(extractor, domain.NewAlarmExtractor(g), geocoder, domain.ResolverConfig{
		ContextWindow: cfg.ContextWindow,
		ContextMax:    cfg.ContextMaxSignals,
	}, logger)

	return NewFuser(resolver, extractor, domain.NewAlarmState(cfg.AlarmForceOn), FuseOptions{
		EventTTL: cfg.EventTTL,
		Merge: domain.MergeOptions{
			Window:   cfg.DedupWindow,
			RadiusKm: cfg.DedupRadiusKm,
			Logger:   logger,
		},
		Refine: domain.RefineOptions{
			Window:   cfg.ConsensusWindow,
			RadiusKm: cfg.ConsensusRadiusKm,
		},
	}, logger)
}
