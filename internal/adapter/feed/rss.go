// Package feed polls public RSS and JSON feeds as additional message sources.
package feed

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/skywatch-fusion/internal/domain"
)

type rssDocument struct {
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title string    `xml:"title"`
	Items []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Description string `xml:"description"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	PubDate     string `xml:"pubDate"`
}

// RSSSource reads an RSS 2.0 feed and turns each item into a raw message.
type RSSSource struct {
	url    string
	client *http.Client
	clock  clockwork.Clock
	logger *slog.Logger
}

// NewRSSSource creates a source for one feed URL. A nil client gets a 15s
// timeout.
func NewRSSSource(url string, client *http.Client, logger *slog.Logger) *RSSSource {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &RSSSource{url: url, client: client, clock: clockwork.NewRealClock(), logger: logger}
}

// Name identifies the source in logs and metrics.
func (s *RSSSource) Name() string { return s.url }

// Fetch downloads the feed and converts its items. Messages are attributed
// to the channel title, falling back to the URL.
func (s *RSSSource) Fetch(ctx context.Context) (domain.Batch, error) {
	resp, err := get(ctx, s.client, s.url, "application/rss+xml, application/xml")
	if err != nil {
		return domain.Batch{}, err
	}
	defer resp.Body.Close()

	var doc rssDocument
	if err := xml.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return domain.Batch{}, fmt.Errorf("decode rss %s: %w", s.url, err)
	}

	source := strings.TrimSpace(doc.Channel.Title)
	if source == "" {
		source = s.url
	}

	batch := domain.Batch{Source: source}
	for _, item := range doc.Channel.Items {
		text := joinText(stripHTML(item.Title), stripHTML(item.Description))
		if text == "" {
			continue
		}
		ts, ok := parsePubDate(item.PubDate)
		if !ok {
			if item.PubDate != "" {
				s.logger.Debug("rss pubDate not parsed", "url", s.url, "pub_date", item.PubDate)
			}
			ts = s.clock.Now()
		}
		batch.Messages = append(batch.Messages, domain.RawMessage{
			ID:        itemID(item, ts),
			Source:    source,
			Text:      text,
			Timestamp: ts.UTC(),
		})
	}
	return batch, nil
}

func itemID(item rssItem, ts time.Time) string {
	if id := strings.TrimSpace(item.GUID); id != "" {
		return id
	}
	if link := strings.TrimSpace(item.Link); link != "" {
		return link
	}
	return fmt.Sprintf("%d-%s", ts.UnixMilli(), strings.TrimSpace(item.Title))
}

var pubDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
}

func parsePubDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var (
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// stripHTML drops markup and entities from feed text.
func stripHTML(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}

func joinText(parts ...string) string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

func get(ctx context.Context, client *http.Client, url, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}
	return resp, nil
}
