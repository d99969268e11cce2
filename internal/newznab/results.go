package newznab

import (
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

// PubDateLayout is the RFC 822 style timestamp used by newznab feeds.
const PubDateLayout = time.RFC1123Z

// Some indexers drop the day's leading zero or use zone abbreviations.
var pubDateFallbacks = []string{"Mon, 2 Jan 2006 15:04:05 -0700", time.RFC1123}

var descriptionPolicy = bluemonday.StrictPolicy()

// SearchResult is one feed item reshaped for display.
type SearchResult struct {
	Title       string
	GUID        string
	Link        string
	Comments    string
	Category    string
	Description string
	PubDate     string
	Published   time.Time // zero when PubDate did not parse
	Size        int64
	Attrs       map[string]string
}

// HasPublished reports whether PubDate parsed.
func (r SearchResult) HasPublished() bool {
	return !r.Published.IsZero()
}

// DisplayLayout is how parsed publish times are shown to users.
const DisplayLayout = "2006-01-02 15:04"

// PublishedText renders the publish time in local time, the raw feed text
// when it did not parse, or "-" when there is none.
func (r SearchResult) PublishedText() string {
	if r.HasPublished() {
		return r.Published.Local().Format(DisplayLayout)
	}
	if r.PubDate == "" {
		return "-"
	}
	return r.PubDate
}

// Attr returns the newznab attribute value for name.
func (r SearchResult) Attr(name string) string {
	return r.Attrs[strings.ToLower(name)]
}

// ParsePubDate parses a feed timestamp, returning the zero time on failure.
func ParsePubDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range append([]string{PubDateLayout}, pubDateFallbacks...) {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

func mapResults(items []rssItem) []SearchResult {
	if len(items) == 0 {
		return nil
	}
	out := make([]SearchResult, 0, len(items))
	for _, item := range items {
		out = append(out, mapResult(item))
	}
	return out
}

func mapResult(item rssItem) SearchResult {
	attrs := make(map[string]string)
	for _, list := range [][]rssAttr{item.Attrs, item.AltAttrs} {
		for _, a := range list {
			name, value := a.pair()
			if name == "" {
				continue
			}
			attrs[strings.ToLower(name)] = value
		}
	}

	pubDate := strings.TrimSpace(string(item.PubDate))
	result := SearchResult{
		Title:       strings.TrimSpace(string(item.Title)),
		GUID:        strings.TrimSpace(string(item.GUID)),
		Link:        strings.TrimSpace(string(item.Link)),
		Comments:    strings.TrimSpace(string(item.Comments)),
		Category:    strings.TrimSpace(string(item.Category)),
		Description: sanitizeDescription(string(item.Description)),
		PubDate:     pubDate,
		Published:   ParsePubDate(pubDate),
		Attrs:       attrs,
	}
	result.Size = resolveSize(item, attrs)
	return result
}

// resolveSize prefers the size attribute, then the enclosure length, then a
// bare size field.
func resolveSize(item rssItem, attrs map[string]string) int64 {
	candidates := []string{attrs["size"]}
	if item.Enclosure != nil {
		candidates = append(candidates, item.Enclosure.Length.String())
	}
	candidates = append(candidates, item.Size.String())
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if n, err := strconv.ParseInt(c, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

func sanitizeDescription(value string) string {
	cleaned := descriptionPolicy.Sanitize(value)
	cleaned = html.UnescapeString(cleaned)
	return strings.Join(strings.Fields(cleaned), " ")
}
