package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaEnabled     bool
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// Refresh cycle.
	RefreshInterval time.Duration
	FetchTimeout    time.Duration
	EventTTL        time.Duration
	EventStaleKeep  time.Duration

	// Fusion core tuning.
	DedupRadiusKm       float64
	DedupWindow         time.Duration
	ConsensusRadiusKm   float64
	ConsensusWindow     time.Duration
	ContextWindow       time.Duration
	ContextMaxSignals   int
	AlarmForceOn        []string
	SourceWeights       map[string]float64
	SourceWeightDefault float64
	TestChannels        []string

	// Feeds polled in addition to Kafka.
	RSSURLs   []string
	JSONFeeds []string

	// Gazetteer extensions.
	GazetteerFile          string
	LocationOverrides      string
	AlarmDistrictOverrides string

	// Geocoding fallback configuration.
	GeocoderEnabled   bool
	NominatimURL      string
	GeocoderTimeout   time.Duration
	GeocoderCacheSize int

	DBPath string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:           sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:       sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "raw-alert-messages"),
		KafkaSinkTopic:         sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "fused-alert-events"),
		KafkaGroupID:           sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "skywatch-fusion"),
		HTTPAddr:               sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:               sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:              sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:        shutdownTimeout,
		BatchSize:              batchSize,
		BatchFlushInterval:     flushInterval,
		AlarmForceOn:           splitList(sharedcfg.EnvOrDefault("ALARM_FORCE_ON", "luhanska,donetska,khersonska,chernihivska")),
		TestChannels:           splitList(sharedcfg.EnvOrDefault("TEST_CHANNELS", "")),
		RSSURLs:                splitList(sharedcfg.EnvOrDefault("RSS_URLS", "")),
		JSONFeeds:              splitList(sharedcfg.EnvOrDefault("OPEN_JSON_FEEDS", "")),
		GazetteerFile:          sharedcfg.EnvOrDefault("GAZETTEER_FILE", ""),
		LocationOverrides:      sharedcfg.EnvOrDefault("LOCATION_OVERRIDES", ""),
		AlarmDistrictOverrides: sharedcfg.EnvOrDefault("ALARM_DISTRICT_OVERRIDES", ""),
		NominatimURL:           sharedcfg.EnvOrDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org/search"),
		DBPath:                 sharedcfg.EnvOrDefault("DB_PATH", "skywatch.db"),
	}

	bools := []struct {
		key string
		def bool
		dst *bool
	}{
		{"KAFKA_ENABLED", true, &cfg.KafkaEnabled},
		{"GEOCODER_ENABLED", false, &cfg.GeocoderEnabled},
	}
	for _, b := range bools {
		if *b.dst, err = parseBool(b.key, b.def); err != nil {
			return nil, err
		}
	}

	durations := []struct {
		key string
		def string
		dst *time.Duration
	}{
		{"REFRESH_INTERVAL", "12s", &cfg.RefreshInterval},
		{"FETCH_TIMEOUT", "15s", &cfg.FetchTimeout},
		{"EVENT_TTL", "8m", &cfg.EventTTL},
		{"EVENT_STALE_KEEP", "90m", &cfg.EventStaleKeep},
		{"DEDUP_WINDOW", "5m", &cfg.DedupWindow},
		{"CONSENSUS_WINDOW", "6m", &cfg.ConsensusWindow},
		{"CONTEXT_WINDOW", "8m", &cfg.ContextWindow},
		{"GEOCODER_TIMEOUT", "5s", &cfg.GeocoderTimeout},
	}
	for _, d := range durations {
		if *d.dst, err = parseDuration(d.key, d.def); err != nil {
			return nil, err
		}
	}

	floats := []struct {
		key string
		def string
		dst *float64
	}{
		{"DEDUP_RADIUS_KM", "5", &cfg.DedupRadiusKm},
		{"CONSENSUS_RADIUS_KM", "80", &cfg.ConsensusRadiusKm},
		{"SOURCE_WEIGHT_DEFAULT", "1", &cfg.SourceWeightDefault},
	}
	for _, f := range floats {
		if *f.dst, err = parsePositiveFloat(f.key, f.def); err != nil {
			return nil, err
		}
	}

	if cfg.ContextMaxSignals, err = parsePositiveInt("CONTEXT_MAX_SIGNALS", "10"); err != nil {
		return nil, err
	}
	if cfg.GeocoderCacheSize, err = parsePositiveInt("GEOCODER_CACHE_SIZE", "1000"); err != nil {
		return nil, err
	}
	if cfg.SourceWeights, err = parseWeights(sharedcfg.EnvOrDefault("SOURCE_WEIGHTS", "")); err != nil {
		return nil, err
	}

	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required")
		}
		if cfg.KafkaSourceTopic == "" {
			return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_SINK_TOPIC is required")
		}
	}
	if cfg.GeocoderEnabled && cfg.NominatimURL == "" {
		return nil, errors.New("GEOCODER_ENABLED is true but NOMINATIM_URL is not set")
	}

	return cfg, nil
}

// IsTestChannel reports whether source is listed in TEST_CHANNELS.
func (c *Config) IsTestChannel(source string) bool {
	key := strings.TrimPrefix(strings.ToLower(source), "@")
	for _, ch := range c.TestChannels {
		if strings.TrimPrefix(strings.ToLower(ch), "@") == key {
			return true
		}
	}
	return false
}

func parseBool(key string, def bool) (bool, error) {
	s := sharedcfg.EnvOrDefault(key, strconv.FormatBool(def))
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: must be true or false", key)
	}
	return v, nil
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive duration", key)
	}
	return d, nil
}

func parsePositiveFloat(key, def string) (float64, error) {
	v, err := strconv.ParseFloat(sharedcfg.EnvOrDefault(key, def), 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive number", key)
	}
	return v, nil
}

func parsePositiveInt(key, def string) (int, error) {
	n, err := strconv.Atoi(sharedcfg.EnvOrDefault(key, def))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", key)
	}
	return n, nil
}

// parseWeights reads "source=weight" pairs separated by commas.
func parseWeights(s string) (map[string]float64, error) {
	out := make(map[string]float64)
	for _, pair := range splitList(s) {
		name, raw, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid SOURCE_WEIGHTS entry %q: want source=weight", pair)
		}
		w, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || w <= 0 {
			return nil, fmt.Errorf("invalid SOURCE_WEIGHTS entry %q: weight must be a positive number", pair)
		}
		out[name] = w
	}
	return out, nil
}

// splitList splits a comma-separated list, trimming whitespace and dropping
// empty entries.
func splitList(s string) []string {
	return sharedcfg.ParseBrokers(s)
}
