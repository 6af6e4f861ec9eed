package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/skywatch-fusion/internal/domain"
)

const fixture = "../../internal/pipeline/testdata/overnight_messages.json"

var testNow = time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC)

func TestRun_Fixture(t *testing.T) {
	var stdout bytes.Buffer
	err := run([]string{"-in", fixture, "-now", testNow.Format(time.RFC3339), "-check"}, &stdout)
	require.NoError(t, err)

	var got output
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
	assert.True(t, testNow.Equal(got.Now))
	assert.Equal(t, 11, got.Messages)
	require.NotEmpty(t, got.Events)
	assert.Contains(t, got.Alarms, "kharkivska")

	var labels []string
	for _, e := range got.Events {
		labels = append(labels, e.Label)
	}
	assert.Contains(t, labels, "Харків")
}

func TestRun_IsDeterministic(t *testing.T) {
	args := []string{"-in", fixture, "-now", testNow.Format(time.RFC3339)}

	var a, b bytes.Buffer
	require.NoError(t, run(args, &a))
	require.NoError(t, run(args, &b))
	assert.Equal(t, a.String(), b.String())
}

func TestRun_WritesOutputFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "events.json")
	var stdout bytes.Buffer

	require.NoError(t, run([]string{"-in", fixture, "-now", testNow.Format(time.RFC3339), "-out", out}, &stdout))
	assert.Empty(t, stdout.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"events"`)
}

func TestRun_FlagErrors(t *testing.T) {
	var stdout bytes.Buffer

	err := run(nil, &stdout)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-in")

	err = run([]string{"-in", fixture, "-now", "yesterday"}, &stdout)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid -now")

	err = run([]string{"-in", filepath.Join(t.TempDir(), "missing.json")}, &stdout)
	require.Error(t, err)
}

func TestReadBatches(t *testing.T) {
	in := `[
		{"id": "1", "source": "b", "text": "БпЛА на Суми", "timestamp": "2024-03-01T01:55:00Z"},
		{"id": "2", "source": "a", "text": "Ракета на Київ", "timestamp": "2024-03-01T01:58:00Z"},
		{"source": "a", "text": "Шахед на Одеса", "minutes_ago": 3}
	]`

	batches, now, err := readBatches(strings.NewReader(in), time.Time{})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 1, 1, 58, 0, 0, time.UTC), now, "newest timestamp anchors now")
	require.Len(t, batches, 2)
	assert.Equal(t, "a", batches[0].Source)
	assert.Equal(t, "b", batches[1].Source)

	require.Len(t, batches[0].Messages, 2)
	rel := batches[0].Messages[1]
	assert.Equal(t, "row-2", rel.ID)
	assert.Equal(t, now.Add(-3*time.Minute), rel.Timestamp)
}

func TestReadBatches_NeedsReferenceTime(t *testing.T) {
	_, _, err := readBatches(strings.NewReader(`[{"source": "a", "text": "x", "minutes_ago": 1}]`), time.Time{})
	require.Error(t, err)

	_, _, err = readBatches(strings.NewReader(`{`), testNow)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	good := domain.Event{ID: "ok", Type: domain.ThreatShahed, Lat: 49.99, Lng: 36.23, Confidence: 0.7, Timestamp: testNow.Add(-time.Minute)}
	assert.Empty(t, validate([]domain.Event{good}, testNow, 8*time.Minute))

	bad := []domain.Event{
		{ID: "type", Type: "balloon", Lat: 49.99, Lng: 36.23, Confidence: 0.7, Timestamp: testNow},
		{ID: "bounds", Type: domain.ThreatMissile, Lat: 10, Lng: 10, Confidence: 0.7, Timestamp: testNow},
		{ID: "conf", Type: domain.ThreatKAB, Lat: 49.99, Lng: 36.23, Confidence: 1.2, Timestamp: testNow},
		{ID: "old", Type: domain.ThreatRecon, Lat: 49.99, Lng: 36.23, Confidence: 0.5, Timestamp: testNow.Add(-time.Hour)},
	}
	violations := validate(bad, testNow, 8*time.Minute)
	require.Len(t, violations, 4)
	assert.True(t, strings.HasPrefix(violations[0], "type:"))
	assert.True(t, strings.HasPrefix(violations[3], "old:"))
}
