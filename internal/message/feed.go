package message

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
)

// Feed reads messages from an RSS/Atom feed of love notes. The prompt and
// temperature are ignored; the newest item with text wins.
type Feed struct {
	url    string
	parser *gofeed.Parser
}

// NewFeed creates a feed-backed generator.
func NewFeed(url string) *Feed {
	return &Feed{url: url, parser: gofeed.NewParser()}
}

// Generate fetches the feed and returns the text of its newest item.
func (f *Feed) Generate(ctx context.Context, _ string, _ float32) (string, error) {
	parsed, err := f.parser.ParseURLWithContext(f.url, ctx)
	if err != nil {
		return "", fmt.Errorf("parse feed %s: %w", f.url, err)
	}

	var newest *gofeed.Item
	for _, item := range parsed.Items {
		if itemText(item) == "" {
			continue
		}
		if newest == nil || newer(item, newest) {
			newest = item
		}
	}
	if newest == nil {
		return "", nil
	}
	return itemText(newest), nil
}

func itemText(item *gofeed.Item) string {
	if s := strings.TrimSpace(item.Description); s != "" {
		return s
	}
	return strings.TrimSpace(item.Title)
}

// newer reports whether a was published after b. Undated items keep feed order.
func newer(a, b *gofeed.Item) bool {
	if a.PublishedParsed == nil || b.PublishedParsed == nil {
		return false
	}
	return a.PublishedParsed.After(*b.PublishedParsed)
}
