// Package ingest turns RSS feeds into raw signal inputs for the pipeline.
// Parsing is forgiving about feed quality but strict about output shape:
// every emitted input has text, a source URL and an observed-at time.
package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
)

type rssDoc struct {
	XMLName xml.Name   `xml:"rss"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title string    `xml:"title"`
	Items []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
}

var (
	reTag        = regexp.MustCompile(`<[^>]*>`)
	reWhitespace = regexp.MustCompile(`\s+`)
)

// pubDate layouts seen in the wild, tried in order.
var dateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	time.RFC3339,
}

// dedupTextLen bounds how much item text participates in the dedup hash.
const dedupTextLen = 500

// ParseRSS decodes an RSS 2.0 document into signal inputs. Items without a
// link are skipped; items with an unparseable or missing pubDate fall back
// to the provided time. Duplicate items (same link and leading text) keep
// their first occurrence.
func ParseRSS(data []byte, fallback time.Time) ([]model.SignalInput, error) {
	var doc rssDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "ingest: decode rss")
	}

	seen := map[string]bool{}
	var out []model.SignalInput
	for _, item := range doc.Channel.Items {
		link := strings.TrimSpace(item.Link)
		if link == "" {
			zap.L().Debug("rss item without link skipped",
				zap.String("title", item.Title))
			continue
		}

		text := normalizeText(item.Title + " " + item.Description)
		if text == "" {
			continue
		}

		key := dedupKey(link, text)
		if seen[key] {
			continue
		}
		seen[key] = true

		out = append(out, model.SignalInput{
			Text:       text,
			SourceURL:  link,
			ObservedAt: parseDate(item.PubDate, fallback),
		})
	}
	return out, nil
}

// normalizeText strips HTML tags and collapses whitespace.
func normalizeText(s string) string {
	s = reTag.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&#39;", "'")
	return strings.TrimSpace(reWhitespace.ReplaceAllString(s, " "))
}

func parseDate(raw string, fallback time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	zap.L().Debug("unparseable rss pubDate", zap.String("value", raw))
	return fallback
}

func dedupKey(link, text string) string {
	if len(text) > dedupTextLen {
		text = text[:dedupTextLen]
	}
	h := sha256.Sum256([]byte(link + "|" + text))
	return hex.EncodeToString(h[:])
}
