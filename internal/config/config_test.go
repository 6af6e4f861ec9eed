package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "raw-alert-messages", cfg.KafkaSourceTopic)
	assert.Equal(t, "fused-alert-events", cfg.KafkaSinkTopic)
	assert.Equal(t, "skywatch-fusion", cfg.KafkaGroupID)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.BatchFlushInterval)

	assert.Equal(t, 12*time.Second, cfg.RefreshInterval)
	assert.Equal(t, 15*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 8*time.Minute, cfg.EventTTL)
	assert.Equal(t, 90*time.Minute, cfg.EventStaleKeep)
	assert.Equal(t, 5.0, cfg.DedupRadiusKm)
	assert.Equal(t, 5*time.Minute, cfg.DedupWindow)
	assert.Equal(t, 80.0, cfg.ConsensusRadiusKm)
	assert.Equal(t, 6*time.Minute, cfg.ConsensusWindow)
	assert.Equal(t, 8*time.Minute, cfg.ContextWindow)
	assert.Equal(t, 10, cfg.ContextMaxSignals)
	assert.Equal(t, []string{"luhanska", "donetska", "khersonska", "chernihivska"}, cfg.AlarmForceOn)
	assert.Empty(t, cfg.SourceWeights)
	assert.Equal(t, 1.0, cfg.SourceWeightDefault)
	assert.Empty(t, cfg.TestChannels)
	assert.Empty(t, cfg.RSSURLs)
	assert.Empty(t, cfg.JSONFeeds)

	assert.False(t, cfg.GeocoderEnabled)
	assert.Equal(t, "https://nominatim.openstreetmap.org/search", cfg.NominatimURL)
	assert.Equal(t, 5*time.Second, cfg.GeocoderTimeout)
	assert.Equal(t, 1000, cfg.GeocoderCacheSize)
	assert.Equal(t, "skywatch.db", cfg.DBPath)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SOURCE_TOPIC", "custom-source")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")
	t.Setenv("KAFKA_GROUP_ID", "custom-group")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("BATCH_SIZE", "100")
	t.Setenv("BATCH_FLUSH_INTERVAL", "1s")
	t.Setenv("REFRESH_INTERVAL", "30s")
	t.Setenv("EVENT_TTL", "15m")
	t.Setenv("DEDUP_RADIUS_KM", "2.5")
	t.Setenv("CONTEXT_MAX_SIGNALS", "4")
	t.Setenv("ALARM_FORCE_ON", "crimea")
	t.Setenv("SOURCE_WEIGHTS", "@kyivoperat=1.2, noisy_channel=0.5")
	t.Setenv("TEST_CHANNELS", "@skywatch_test")
	t.Setenv("RSS_URLS", "https://a.example/rss, https://b.example/rss")
	t.Setenv("OPEN_JSON_FEEDS", "https://c.example/events.json")
	t.Setenv("GEOCODER_ENABLED", "true")
	t.Setenv("GEOCODER_TIMEOUT", "2s")
	t.Setenv("GEOCODER_CACHE_SIZE", "500")
	t.Setenv("DB_PATH", "/var/lib/skywatch/state.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-source", cfg.KafkaSourceTopic)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
	assert.Equal(t, "custom-group", cfg.KafkaGroupID)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 1*time.Second, cfg.BatchFlushInterval)
	assert.Equal(t, 30*time.Second, cfg.RefreshInterval)
	assert.Equal(t, 15*time.Minute, cfg.EventTTL)
	assert.Equal(t, 2.5, cfg.DedupRadiusKm)
	assert.Equal(t, 4, cfg.ContextMaxSignals)
	assert.Equal(t, []string{"crimea"}, cfg.AlarmForceOn)
	assert.Equal(t, map[string]float64{"@kyivoperat": 1.2, "noisy_channel": 0.5}, cfg.SourceWeights)
	assert.Equal(t, []string{"@skywatch_test"}, cfg.TestChannels)
	assert.Equal(t, []string{"https://a.example/rss", "https://b.example/rss"}, cfg.RSSURLs)
	assert.Equal(t, []string{"https://c.example/events.json"}, cfg.JSONFeeds)
	assert.True(t, cfg.GeocoderEnabled)
	assert.Equal(t, 2*time.Second, cfg.GeocoderTimeout)
	assert.Equal(t, 500, cfg.GeocoderCacheSize)
	assert.Equal(t, "/var/lib/skywatch/state.db", cfg.DBPath)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"SHUTDOWN_TIMEOUT", "not-a-duration"},
		{"SHUTDOWN_TIMEOUT", "-1s"},
		{"BATCH_SIZE", "0"},
		{"BATCH_SIZE", "9999"},
		{"BATCH_FLUSH_INTERVAL", "not-a-duration"},
		{"REFRESH_INTERVAL", "soon"},
		{"EVENT_TTL", "-5m"},
		{"DEDUP_RADIUS_KM", "0"},
		{"CONSENSUS_RADIUS_KM", "far"},
		{"CONTEXT_MAX_SIGNALS", "-1"},
		{"GEOCODER_CACHE_SIZE", "lots"},
		{"KAFKA_ENABLED", "maybe"},
		{"SOURCE_WEIGHTS", "kyivoperat"},
		{"SOURCE_WEIGHTS", "kyivoperat=heavy"},
		{"SOURCE_WEIGHTS", "=1.2"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_KafkaDisabledSkipsBrokerValidation(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "false")
	t.Setenv("KAFKA_BROKERS", " , ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestLoad_EmptyBrokers(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", " , ")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestConfig_IsTestChannel(t *testing.T) {
	cfg := &Config{TestChannels: []string{"@Skywatch_Test"}}

	assert.True(t, cfg.IsTestChannel("skywatch_test"))
	assert.True(t, cfg.IsTestChannel("@skywatch_test"))
	assert.False(t, cfg.IsTestChannel("kyivoperat"))
}
