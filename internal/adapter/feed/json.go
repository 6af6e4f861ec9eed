package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/skywatch-fusion/internal/domain"
)

// JSONSource polls an open JSON feed. Items that carry coordinates become
// ready-made events; items that only carry text become raw messages for
// extraction.
type JSONSource struct {
	url    string
	client *http.Client
	clock  clockwork.Clock
	logger *slog.Logger
}

// NewJSONSource creates a source for one feed URL. A nil client gets a 15s
// timeout.
func NewJSONSource(url string, client *http.Client, logger *slog.Logger) *JSONSource {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &JSONSource{url: url, client: client, clock: clockwork.NewRealClock(), logger: logger}
}

// Name identifies the source in logs and metrics.
func (s *JSONSource) Name() string { return s.url }

// Fetch accepts either a bare array or an object wrapping the array in
// "events", "items" or "data".
func (s *JSONSource) Fetch(ctx context.Context) (domain.Batch, error) {
	resp, err := get(ctx, s.client, s.url, "application/json")
	if err != nil {
		return domain.Batch{}, err
	}
	defer resp.Body.Close()

	var payload any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.Batch{}, fmt.Errorf("decode json feed %s: %w", s.url, err)
	}

	batch := domain.Batch{Source: s.url}
	skipped := 0
	for i, raw := range items(payload) {
		item, ok := raw.(map[string]any)
		if !ok {
			skipped++
			continue
		}
		if ev, ok := s.directEvent(item); ok {
			batch.Events = append(batch.Events, ev)
			continue
		}
		if msg, ok := s.message(item, i); ok {
			batch.Messages = append(batch.Messages, msg)
			continue
		}
		skipped++
	}
	if skipped > 0 {
		s.logger.Debug("json feed items skipped", "url", s.url, "count", skipped)
	}
	return batch, nil
}

func items(payload any) []any {
	switch v := payload.(type) {
	case []any:
		return v
	case map[string]any:
		for _, key := range []string{"events", "items", "data"} {
			if arr, ok := v[key].([]any); ok {
				return arr
			}
		}
	}
	return nil
}

// directEvent handles items with lat/lng, latitude/longitude or
// location.{lat,lng}. Validation happens later in Extractor.Adopt.
func (s *JSONSource) directEvent(item map[string]any) (domain.Event, bool) {
	loc, _ := item["location"].(map[string]any)
	lat, okLat := number(item, "lat", "latitude")
	if !okLat && loc != nil {
		lat, okLat = number(loc, "lat")
	}
	lng, okLng := number(item, "lng", "longitude")
	if !okLng && loc != nil {
		lng, okLng = number(loc, "lng")
	}
	if !okLat || !okLng {
		return domain.Event{}, false
	}

	ev := domain.Event{
		ID:        str(item, "id"),
		Type:      domain.ThreatType(strings.ToLower(str(item, "type", "target_type"))),
		Lat:       lat,
		Lng:       lng,
		Source:    str(item, "source"),
		Timestamp: s.timestamp(item),
		Comment:   str(item, "comment", "note"),
		IsTest:    boolean(item, "is_test", "isTest"),
		RawText:   str(item, "raw_text", "text"),
		Label:     str(item, "label", "name"),
	}
	if ev.Source == "" {
		ev.Source = s.url
	}
	if d, ok := number(item, "direction", "heading"); ok {
		ev.Direction = &d
	}
	return ev, true
}

func (s *JSONSource) message(item map[string]any, index int) (domain.RawMessage, bool) {
	text := strings.TrimSpace(str(item, "text", "title", "message"))
	if text == "" {
		return domain.RawMessage{}, false
	}
	ts := s.timestamp(item)
	msg := domain.RawMessage{
		ID:        str(item, "id"),
		Source:    str(item, "source"),
		Text:      text,
		Timestamp: ts,
	}
	if msg.Source == "" {
		msg.Source = s.url
	}
	if msg.ID == "" {
		msg.ID = fmt.Sprintf("%d-%d", ts.UnixMilli(), index)
	}
	return msg, true
}

// timestamp reads timestamp, time or date as epoch milliseconds or an
// RFC 3339 string. Anything else is stamped with the current time.
func (s *JSONSource) timestamp(item map[string]any) time.Time {
	for _, key := range []string{"timestamp", "time", "date"} {
		switch v := item[key].(type) {
		case float64:
			if v > 0 {
				return time.UnixMilli(int64(v)).UTC()
			}
		case string:
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				return t.UTC()
			}
			if ms, err := strconv.ParseInt(v, 10, 64); err == nil && ms > 0 {
				return time.UnixMilli(ms).UTC()
			}
		}
	}
	return s.clock.Now().UTC()
}

func str(m map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// number accepts JSON numbers and numeric strings.
func number(m map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		var f float64
		switch v := m[k].(type) {
		case float64:
			f = v
		case string:
			parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				continue
			}
			f = parsed
		default:
			continue
		}
		if !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f, true
		}
	}
	return 0, false
}

func boolean(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		if v, ok := m[k].(bool); ok {
			return v
		}
	}
	return false
}
